package montecarlo

import (
	"time"

	"golang.org/x/exp/rand"
)

// NormalSource produce normales estándar independientes.
// *rand.Rand de golang.org/x/exp/rand la implementa.
type NormalSource interface {
	NormFloat64() float64
}

// NewRand crea un generador determinista para la semilla dada.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// TimeSeed devuelve una semilla basada en el reloj, para runs no reproducibles.
// El caller debe loguearla para poder repetir el run.
func TimeSeed() uint64 {
	return uint64(time.Now().UnixNano())
}
