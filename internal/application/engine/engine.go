package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/ulmorte/internal/domain"
	"github.com/alejandrodnm/ulmorte/internal/montecarlo"
	"github.com/alejandrodnm/ulmorte/internal/ports"
	"github.com/alejandrodnm/ulmorte/internal/pricing"
	"github.com/google/uuid"
)

// Config contiene los parámetros de mercado del motor.
type Config struct {
	RiskFreeRate float64
	FanStepDays  int // granularidad del abanico de percentiles
}

// DefaultConfig devuelve r = 1% y un punto del abanico por año.
func DefaultConfig() Config {
	return Config{
		RiskFreeRate: pricing.DefaultRiskFreeRate,
		FanStepDays:  domain.TradingDaysPerYear,
	}
}

// Engine orquesta el pipeline: simular → agregar → valorar garantía →
// coste anual → estadísticas. No guarda estado entre runs.
type Engine struct {
	cfg   Config
	funds ports.FundProvider
	now   func() time.Time
}

// New crea un Engine con el proveedor de fondos inyectado.
func New(cfg Config, funds ports.FundProvider) *Engine {
	if cfg.FanStepDays <= 0 {
		cfg.FanStepDays = domain.TradingDaysPerYear
	}
	return &Engine{cfg: cfg, funds: funds, now: time.Now}
}

// Run ejecuta el pipeline completo para el contrato dado.
// El contrato debe venir validado (Contract.Validate): el motor no comprueba
// que los pesos sumen 100. Cualquier error aborta el run sin resultado parcial.
func (e *Engine) Run(ctx context.Context, c domain.Contract, rng montecarlo.NormalSource) (domain.RunResult, error) {
	positions, err := e.ResolvePositions(ctx, c.Allocation)
	if err != nil {
		return domain.RunResult{}, err
	}
	return e.run(ctx, uuid.New().String(), c, positions, rng)
}

// ResolvePositions consulta cada fondo de la cartera. Un ticker desconocido
// aborta con domain.ErrUnknownFund.
func (e *Engine) ResolvePositions(ctx context.Context, alloc domain.Allocation) ([]domain.ResolvedPosition, error) {
	if e.funds == nil {
		return nil, errors.New("engine.ResolvePositions: no fund provider")
	}
	positions := make([]domain.ResolvedPosition, 0, len(alloc))
	for _, entry := range alloc {
		f, err := e.funds.Fund(ctx, entry.Ticker)
		if err != nil {
			return nil, fmt.Errorf("engine.ResolvePositions: %w", err)
		}
		positions = append(positions, domain.ResolvedPosition{Fund: f, Weight: entry.Weight})
	}
	return positions, nil
}

func (e *Engine) run(
	ctx context.Context,
	runID string,
	c domain.Contract,
	positions []domain.ResolvedPosition,
	rng montecarlo.NormalSource,
) (domain.RunResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.RunResult{}, err
	}
	started := e.now()

	days := c.Horizon()
	paths, sigma, err := montecarlo.AggregatePortfolio(positions, c.NetContribution(), days, c.Paths, rng)
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("engine.Run: %w", err)
	}

	guarantee, err := pricing.GuaranteeCost(c.Contribution, c.Guarantee, c.Years(), sigma, e.cfg.RiskFreeRate)
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("engine.Run: %w", err)
	}
	totalCost := c.AnnualCostPct + guarantee.AnnualPct

	paths, err = montecarlo.ApplyAnnualCosts(paths, totalCost)
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("engine.Run: %w", err)
	}

	stats, err := montecarlo.ComputePayoutStats(montecarlo.Terminal(paths), c.GuaranteedAmount())
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("engine.Run: %w", err)
	}

	slog.Debug("simulation complete",
		"run_id", runID,
		"guarantee", domain.LevelLabel(c.Guarantee),
		"days", days,
		"paths", c.Paths,
		"sigma", fmt.Sprintf("%.4f", sigma),
		"put", fmt.Sprintf("%.2f", guarantee.PutPrice),
		"total_cost_pct", fmt.Sprintf("%.3f", totalCost),
		"mean", fmt.Sprintf("%.2f", stats.Mean),
		"elapsed", time.Since(started),
	)

	return domain.RunResult{
		RunID:        runID,
		StartedAt:    started.UTC(),
		Contract:     c,
		Positions:    positions,
		Sigma:        sigma,
		Guarantee:    guarantee,
		TotalCostPct: totalCost,
		Paths:        paths,
		Stats:        stats,
		Fan:          montecarlo.PercentileFan(paths, e.cfg.FanStepDays),
	}, nil
}

// AttachSurvival añade al resultado la probabilidad de llegar a la edad
// objetivo según la tabla del proveedor, siempre en [0, 1].
func AttachSurvival(ctx context.Context, result domain.RunResult, mp ports.MortalityProvider) (domain.RunResult, error) {
	p, err := survivalFor(ctx, result.Contract, mp)
	if err != nil {
		return result, fmt.Errorf("engine.AttachSurvival: %w", err)
	}
	result.Survival = p
	result.HasSurvival = true
	return result, nil
}

// AttachComparisonSurvival hace lo mismo para una comparación. Todos los
// niveles comparten edades, así que basta con el contrato de cualquiera.
func AttachComparisonSurvival(ctx context.Context, cmp domain.Comparison, mp ports.MortalityProvider) (domain.Comparison, error) {
	entries := cmp.Entries()
	if len(entries) == 0 {
		return cmp, fmt.Errorf("engine.AttachComparisonSurvival: empty comparison: %w", domain.ErrInvalidParameter)
	}
	p, err := survivalFor(ctx, entries[0].Result.Contract, mp)
	if err != nil {
		return cmp, fmt.Errorf("engine.AttachComparisonSurvival: %w", err)
	}
	cmp.Survival = p
	cmp.HasSurvival = true
	return cmp, nil
}

func survivalFor(ctx context.Context, c domain.Contract, mp ports.MortalityProvider) (float64, error) {
	table, err := mp.MortalityTable(ctx)
	if err != nil {
		return 0, err
	}
	p, err := domain.SurvivalProbability(c.EntryAge, c.TargetAge, table)
	if err != nil {
		return 0, err
	}
	return domain.ClampProbability(p), nil
}
