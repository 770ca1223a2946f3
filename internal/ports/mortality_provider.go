package ports

import (
	"context"

	"github.com/alejandrodnm/ulmorte/internal/domain"
)

// MortalityProvider entrega la tabla de supervivencia ya cargada.
type MortalityProvider interface {
	MortalityTable(ctx context.Context) (domain.MortalityTable, error)
}
