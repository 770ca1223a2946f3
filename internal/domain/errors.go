package domain

import "errors"

// Errores del motor. Los callers los comparan con errors.Is; el contexto
// concreto (fondo, parámetro) viene en el wrap.
var (
	// ErrInvalidParameter indica un input numérico con el que el resultado no
	// está definido (σ negativa, S0 ≤ 0, contribución ≤ 0, horizonte vacío...).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnknownFund indica un ticker que el proveedor de fondos no conoce.
	ErrUnknownFund = errors.New("unknown fund")

	// ErrAllocation indica que los pesos de la cartera no suman 100.
	// Se detecta en la validación del contrato, antes de invocar el motor.
	ErrAllocation = errors.New("allocation weights must sum to 100")
)
