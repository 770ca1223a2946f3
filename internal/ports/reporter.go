package ports

import (
	"context"

	"github.com/alejandrodnm/ulmorte/internal/domain"
)

// Reporter presenta los resultados al usuario.
type Reporter interface {
	// Report presenta una simulación individual.
	Report(ctx context.Context, result domain.RunResult) error

	// ReportComparison presenta la comparación entre niveles de garantía.
	ReportComparison(ctx context.Context, cmp domain.Comparison) error
}
