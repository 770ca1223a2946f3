package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alejandrodnm/ulmorte/config"
	"github.com/alejandrodnm/ulmorte/internal/adapters/catalog"
	"github.com/alejandrodnm/ulmorte/internal/adapters/mortality"
	"github.com/alejandrodnm/ulmorte/internal/adapters/report"
	"github.com/alejandrodnm/ulmorte/internal/adapters/storage"
	"github.com/alejandrodnm/ulmorte/internal/domain"
	"github.com/alejandrodnm/ulmorte/internal/ports"
)

// sources agrupa los datos de referencia de un run.
//
// El catálogo YAML siempre se carga: define los niveles de garantía y los
// perfiles MiFID. Con storage.dsn los fondos y la tabla de supervivencia
// salen de SQLite (importados con `catalog import`); sin él, de los archivos.
type sources struct {
	catalog   *catalog.Catalog
	funds     ports.FundCatalog
	mortality ports.MortalityProvider
	store     *storage.SQLiteStore
}

func openSources(cfg *config.Config) (*sources, error) {
	cat, err := catalog.Load(cfg.Catalog.FundsPath)
	if err != nil {
		return nil, err
	}

	src := &sources{catalog: cat}
	if cfg.Storage.DSN == "" {
		src.funds = cat
		src.mortality = mortality.NewFileProvider(cfg.Catalog.MortalityPath)
		return src, nil
	}

	store, err := storage.NewSQLiteStore(cfg.Storage.DSN)
	if err != nil {
		return nil, err
	}
	slog.Debug("using sqlite reference data", "dsn", cfg.Storage.DSN)
	src.store = store
	src.funds = store
	src.mortality = store
	return src, nil
}

func (s *sources) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// withProfile sustituye la cartera por el fondo sintético del perfil MiFID.
// Devuelve el contrato ajustado y un proveedor que conoce ese fondo.
func (s *sources) withProfile(c domain.Contract, class int) (domain.Contract, ports.FundProvider, error) {
	profile, ok := domain.FindRiskProfile(s.catalog.RiskProfiles(), class)
	if !ok {
		return c, nil, fmt.Errorf("risk profile %d: %w", class, domain.ErrInvalidParameter)
	}
	fund := profile.ProfileFund()
	provider, err := s.catalog.WithFunds(fund)
	if err != nil {
		return c, nil, err
	}
	c.Allocation = domain.Allocation{{Ticker: fund.Ticker, Weight: 100}}
	slog.Info("simulating risk profile", "profile", profile.Label(), "mu", profile.Mu, "sigma", profile.Sigma)
	return c, provider, nil
}

// reporters devuelve la consola y, si hay ruta, el gráfico PNG.
func reporters(cfg config.ReportConfig, w io.Writer) []ports.Reporter {
	out := []ports.Reporter{report.NewConsoleWriter(w, cfg.Currency, cfg.Compact)}
	if cfg.ChartPath != "" {
		out = append(out, report.NewChart(cfg.ChartPath))
	}
	return out
}

// parseAllocation interpreta "MACFX=50,AOK=50" (o flags repetidos).
func parseAllocation(items []string) (domain.Allocation, error) {
	var alloc domain.Allocation
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			ticker, weight, ok := strings.Cut(part, "=")
			if !ok {
				return nil, fmt.Errorf("fund %q: want TICKER=WEIGHT: %w", part, domain.ErrAllocation)
			}
			w, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(weight), "%"), 64)
			if err != nil {
				return nil, fmt.Errorf("fund %q: weight: %w", part, domain.ErrAllocation)
			}
			alloc = append(alloc, domain.AllocationEntry{Ticker: strings.ToUpper(strings.TrimSpace(ticker)), Weight: w})
		}
	}
	return alloc, nil
}
