package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/ulmorte/internal/domain"
	"github.com/alejandrodnm/ulmorte/internal/montecarlo"
	"github.com/google/uuid"
)

// Compare repite el pipeline completo para cada nivel de garantía.
//
// Cada nivel consume normales nuevas del generador: las matrices son
// simulaciones independientes, no la misma simulación con otro suelo.
// Cada nivel también lleva su propio coste de garantía. Mantiene en memoria
// una matriz [días, simulaciones] por nivel.
func (e *Engine) Compare(
	ctx context.Context,
	c domain.Contract,
	levels []float64,
	rng montecarlo.NormalSource,
) (domain.Comparison, error) {
	if len(levels) == 0 {
		return domain.Comparison{}, fmt.Errorf("engine.Compare: no guarantee levels: %w", domain.ErrInvalidParameter)
	}

	positions, err := e.ResolvePositions(ctx, c.Allocation)
	if err != nil {
		return domain.Comparison{}, err
	}

	cmp := domain.Comparison{
		RunID:   uuid.New().String(),
		ByLevel: make(map[float64]domain.RunResult, len(levels)),
	}
	for _, level := range levels {
		if _, dup := cmp.ByLevel[level]; dup {
			continue
		}
		res, err := e.run(ctx, cmp.RunID, c.WithGuarantee(level), positions, rng)
		if err != nil {
			return domain.Comparison{}, fmt.Errorf("engine.Compare: level %s: %w", domain.LevelLabel(level), err)
		}
		cmp.ByLevel[level] = res
	}

	slog.Info("guarantee comparison complete",
		"run_id", cmp.RunID,
		"levels", len(cmp.ByLevel),
		"paths", c.Paths,
		"days", c.Horizon(),
	)
	return cmp, nil
}
