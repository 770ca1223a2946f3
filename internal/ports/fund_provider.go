package ports

import (
	"context"

	"github.com/alejandrodnm/ulmorte/internal/domain"
)

// FundProvider resuelve los parámetros de mercado (μ, σ, S0) de un fondo.
type FundProvider interface {
	// Fund devuelve el fondo con el ticker dado, o un error que envuelve
	// domain.ErrUnknownFund si no existe.
	Fund(ctx context.Context, ticker string) (domain.Fund, error)
}

// FundCatalog es un FundProvider que además puede listar sus fondos.
type FundCatalog interface {
	FundProvider

	// Funds devuelve todos los fondos ordenados por ticker.
	Funds(ctx context.Context) ([]domain.Fund, error)
}
