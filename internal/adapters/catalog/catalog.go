package catalog

// catalog.go: datos de referencia del producto (fondos, niveles de garantía,
// perfiles MiFID) cargados una vez al arrancar desde YAML.
//
// Ciclo de vida: Load → validar → solo lectura durante todo el proceso.
// Ningún método modifica el Catalog después de New.

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/alejandrodnm/ulmorte/internal/domain"
	"gopkg.in/yaml.v3"
)

type fileFormat struct {
	Funds []struct {
		Ticker    string  `yaml:"ticker"`
		Name      string  `yaml:"name"`
		ISIN      string  `yaml:"isin"`
		Mu        float64 `yaml:"mu"`
		Sigma     float64 `yaml:"sigma"`
		S0        float64 `yaml:"s0"`
		RiskClass int     `yaml:"risk_class"`
	} `yaml:"funds"`
	Guarantees []struct {
		Label string  `yaml:"label"`
		Level float64 `yaml:"level"`
	} `yaml:"guarantees"`
	RiskProfiles []struct {
		Class int     `yaml:"class"`
		Name  string  `yaml:"name"`
		Mu    float64 `yaml:"mu"`
		Sigma float64 `yaml:"sigma"`
	} `yaml:"risk_profiles"`
}

// Catalog implementa ports.FundCatalog sobre datos inmutables en memoria.
type Catalog struct {
	funds      map[string]domain.Fund
	tickers    []string
	guarantees []domain.GuaranteeLevel
	profiles   []domain.RiskProfile
}

// Load lee y valida el catálogo YAML en path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load: read %q: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load: %q: %w", path, err)
	}
	return c, nil
}

// Parse construye un Catalog desde YAML. Sin niveles ni perfiles usa los
// del producto por defecto.
func Parse(data []byte) (*Catalog, error) {
	var ff fileFormat
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("catalog.Parse: parse YAML: %w", err)
	}

	funds := make([]domain.Fund, 0, len(ff.Funds))
	for _, f := range ff.Funds {
		funds = append(funds, domain.Fund{
			Ticker:    f.Ticker,
			Name:      f.Name,
			ISIN:      f.ISIN,
			Mu:        f.Mu,
			Sigma:     f.Sigma,
			S0:        f.S0,
			RiskClass: f.RiskClass,
		})
	}

	var levels []domain.GuaranteeLevel
	for _, g := range ff.Guarantees {
		label := g.Label
		if label == "" {
			label = domain.LevelLabel(g.Level)
		}
		levels = append(levels, domain.GuaranteeLevel{Label: label, Level: g.Level})
	}

	var profiles []domain.RiskProfile
	for _, p := range ff.RiskProfiles {
		profiles = append(profiles, domain.RiskProfile{Class: p.Class, Name: p.Name, Mu: p.Mu, Sigma: p.Sigma})
	}

	return New(funds, levels, profiles)
}

// New valida y congela los datos de referencia.
func New(funds []domain.Fund, levels []domain.GuaranteeLevel, profiles []domain.RiskProfile) (*Catalog, error) {
	if len(levels) == 0 {
		levels = domain.DefaultGuaranteeLevels()
	}
	if len(profiles) == 0 {
		profiles = domain.DefaultRiskProfiles()
	}

	c := &Catalog{
		funds:      make(map[string]domain.Fund, len(funds)),
		tickers:    make([]string, 0, len(funds)),
		guarantees: make([]domain.GuaranteeLevel, 0, len(levels)),
		profiles:   make([]domain.RiskProfile, 0, len(profiles)),
	}

	for _, f := range funds {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("catalog.New: %w", err)
		}
		if _, dup := c.funds[f.Ticker]; dup {
			return nil, fmt.Errorf("catalog.New: duplicate ticker %s: %w", f.Ticker, domain.ErrInvalidParameter)
		}
		c.funds[f.Ticker] = f
		c.tickers = append(c.tickers, f.Ticker)
	}
	sort.Strings(c.tickers)

	for _, l := range levels {
		if !(l.Level > 0) {
			return nil, fmt.Errorf("catalog.New: guarantee %q level %v: %w", l.Label, l.Level, domain.ErrInvalidParameter)
		}
		c.guarantees = append(c.guarantees, l)
	}
	sort.Slice(c.guarantees, func(i, j int) bool { return c.guarantees[i].Level < c.guarantees[j].Level })

	for _, p := range profiles {
		if p.Class < 1 || p.Sigma < 0 {
			return nil, fmt.Errorf("catalog.New: risk profile %d: %w", p.Class, domain.ErrInvalidParameter)
		}
		c.profiles = append(c.profiles, p)
	}
	sort.Slice(c.profiles, func(i, j int) bool { return c.profiles[i].Class < c.profiles[j].Class })

	return c, nil
}

// Fund implementa ports.FundProvider.
func (c *Catalog) Fund(_ context.Context, ticker string) (domain.Fund, error) {
	f, ok := c.funds[ticker]
	if !ok {
		return domain.Fund{}, fmt.Errorf("catalog: %s: %w", ticker, domain.ErrUnknownFund)
	}
	return f, nil
}

// Funds devuelve todos los fondos ordenados por ticker.
func (c *Catalog) Funds(_ context.Context) ([]domain.Fund, error) {
	out := make([]domain.Fund, 0, len(c.tickers))
	for _, t := range c.tickers {
		out = append(out, c.funds[t])
	}
	return out, nil
}

// GuaranteeLevels devuelve una copia de los niveles ofrecidos, de menor a mayor.
func (c *Catalog) GuaranteeLevels() []domain.GuaranteeLevel {
	return append([]domain.GuaranteeLevel(nil), c.guarantees...)
}

// RiskProfiles devuelve una copia de los perfiles MiFID.
func (c *Catalog) RiskProfiles() []domain.RiskProfile {
	return append([]domain.RiskProfile(nil), c.profiles...)
}

// UnsuitableFunds devuelve los tickers del catálogo cuya clase declarada no
// respeta los límites de su perfil MiFID.
func (c *Catalog) UnsuitableFunds() []string {
	var out []string
	for _, t := range c.tickers {
		f := c.funds[t]
		p, ok := domain.FindRiskProfile(c.profiles, f.RiskClass)
		if !ok {
			continue
		}
		if !p.FundSuitable(f) {
			out = append(out, t)
		}
	}
	return out
}

// WithFunds devuelve un catálogo nuevo con fondos adicionales; el original
// no cambia. Lo usa la simulación por perfil para añadir el fondo sintético.
func (c *Catalog) WithFunds(extra ...domain.Fund) (*Catalog, error) {
	funds, _ := c.Funds(context.Background())
	return New(append(funds, extra...), c.GuaranteeLevels(), c.RiskProfiles())
}
