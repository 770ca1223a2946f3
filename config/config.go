package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alejandrodnm/ulmorte/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa de ulmorte.
type Config struct {
	Contract   ContractConfig   `yaml:"contract"`
	Simulation SimulationConfig `yaml:"simulation"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Storage    StorageConfig    `yaml:"storage"`
	Report     ReportConfig     `yaml:"report"`
	Log        LogConfig        `yaml:"log"`
}

// ContractConfig son los parámetros del contrato por defecto.
// Los flags del CLI los sobreescriben.
type ContractConfig struct {
	EntryAge      int                `yaml:"entry_age"`
	TargetAge     int                `yaml:"target_age"`
	Contribution  float64            `yaml:"contribution"`
	Guarantee     string             `yaml:"guarantee"`       // "80%" | "90%" | "100%"
	AnnualCostPct float64            `yaml:"annual_cost_pct"` // 0–5
	EntryCostPct  float64            `yaml:"entry_cost_pct"`
	RiskProfile   int                `yaml:"risk_profile"` // 1–5; 0 = usar allocation
	Allocation    []AllocationConfig `yaml:"allocation"`
}

// AllocationConfig es una línea de la cartera.
type AllocationConfig struct {
	Ticker string  `yaml:"ticker"`
	Weight float64 `yaml:"weight"`
}

// SimulationConfig controla el Monte Carlo.
type SimulationConfig struct {
	Paths         int      `yaml:"paths"`
	Seed          uint64   `yaml:"seed"`           // 0 = semilla por reloj (se loguea)
	RiskFreeRate  *float64 `yaml:"risk_free_rate"` // nil = 1%; 0 es un valor válido
	CompareLevels []string `yaml:"compare_levels"`
	FanStepDays   int      `yaml:"fan_step_days"`
}

// CatalogConfig indica dónde están los datos de referencia en archivo.
type CatalogConfig struct {
	FundsPath     string `yaml:"funds_path"`
	MortalityPath string `yaml:"mortality_path"`
}

// StorageConfig controla el almacén SQLite de datos de referencia.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // vacío = leer catálogo y tabla desde archivo
}

// ReportConfig controla la salida.
type ReportConfig struct {
	Compact   bool   `yaml:"compact"`
	ChartPath string `yaml:"chart_path"` // vacío = sin gráfico
	Currency  string `yaml:"currency"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	setDefaults(&cfg)

	return &cfg, nil
}

// ToAllocation convierte la cartera configurada al tipo del dominio.
func (c ContractConfig) ToAllocation() domain.Allocation {
	alloc := make(domain.Allocation, 0, len(c.Allocation))
	for _, a := range c.Allocation {
		alloc = append(alloc, domain.AllocationEntry{Ticker: a.Ticker, Weight: a.Weight})
	}
	return alloc
}

// ToContract construye el contrato del dominio. No valida: eso lo hace
// domain.Contract.Validate con los niveles del catálogo.
func (c *Config) ToContract() (domain.Contract, error) {
	level, err := domain.ParseGuaranteeLevel(c.Contract.Guarantee)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("config.ToContract: %w", err)
	}
	return domain.Contract{
		EntryAge:      c.Contract.EntryAge,
		TargetAge:     c.Contract.TargetAge,
		Contribution:  c.Contract.Contribution,
		Guarantee:     level,
		AnnualCostPct: c.Contract.AnnualCostPct,
		EntryCostPct:  c.Contract.EntryCostPct,
		Paths:         c.Simulation.Paths,
		Allocation:    c.Contract.ToAllocation(),
	}, nil
}

// CompareLevels parsea los niveles de la comparación.
func (c *Config) CompareLevels() ([]float64, error) {
	levels := make([]float64, 0, len(c.Simulation.CompareLevels))
	for _, s := range c.Simulation.CompareLevels {
		l, err := domain.ParseGuaranteeLevel(s)
		if err != nil {
			return nil, fmt.Errorf("config.CompareLevels: %w", err)
		}
		levels = append(levels, l)
	}
	return levels, nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("ULMORTE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("ULMORTE_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("ULMORTE_SEED=%q: %w", v, err)
		}
		cfg.Simulation.Seed = seed
	}
	return nil
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Contract.EntryAge == 0 {
		cfg.Contract.EntryAge = 38
	}
	if cfg.Contract.TargetAge == 0 {
		cfg.Contract.TargetAge = 90
	}
	if cfg.Contract.Contribution <= 0 {
		cfg.Contract.Contribution = 10_000
	}
	if cfg.Contract.Guarantee == "" {
		cfg.Contract.Guarantee = "100%"
	}
	if cfg.Simulation.Paths <= 0 {
		cfg.Simulation.Paths = 100
	}
	if cfg.Simulation.RiskFreeRate == nil {
		r := 0.01
		cfg.Simulation.RiskFreeRate = &r
	}
	if len(cfg.Simulation.CompareLevels) == 0 {
		cfg.Simulation.CompareLevels = []string{"80%", "90%", "100%"}
	}
	if cfg.Simulation.FanStepDays <= 0 {
		cfg.Simulation.FanStepDays = domain.TradingDaysPerYear
	}
	if cfg.Catalog.FundsPath == "" {
		cfg.Catalog.FundsPath = "data/funds.yaml"
	}
	if cfg.Catalog.MortalityPath == "" {
		cfg.Catalog.MortalityPath = "data/mortality.csv"
	}
	if cfg.Report.Currency == "" {
		cfg.Report.Currency = "€"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
