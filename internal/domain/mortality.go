package domain

import (
	"fmt"
	"math"
	"sort"
)

// MortalityTable mapea edad → probabilidad de supervivencia desde el nacimiento.
// Se carga una vez y es de solo lectura.
type MortalityTable struct {
	survival map[int]float64
	ages     []int
}

// NewMortalityTable copia las filas dadas; el mapa del caller no se retiene.
func NewMortalityTable(rows map[int]float64) MortalityTable {
	t := MortalityTable{
		survival: make(map[int]float64, len(rows)),
		ages:     make([]int, 0, len(rows)),
	}
	for age, p := range rows {
		t.survival[age] = p
		t.ages = append(t.ages, age)
	}
	sort.Ints(t.ages)
	return t
}

// Len devuelve el número de edades en la tabla.
func (t MortalityTable) Len() int { return len(t.ages) }

// Ages devuelve las edades ordenadas.
func (t MortalityTable) Ages() []int {
	return append([]int(nil), t.ages...)
}

// Survival devuelve el valor crudo de la tabla para una edad.
func (t MortalityTable) Survival(age int) (float64, bool) {
	p, ok := t.survival[age]
	return p, ok
}

// Validate devuelve las anomalías de la tabla: valores fuera de [0,1] o
// supervivencia creciente con la edad. No son fatales: la consulta clampa.
func (t MortalityTable) Validate() []string {
	var issues []string
	prev := math.Inf(1)
	for _, age := range t.ages {
		p := t.survival[age]
		if p < 0 || p > 1 || math.IsNaN(p) {
			issues = append(issues, fmt.Sprintf("age %d: survival %v outside [0,1]", age, p))
		}
		if p > prev {
			issues = append(issues, fmt.Sprintf("age %d: survival increases (%v > %v)", age, p, prev))
		}
		prev = p
	}
	return issues
}

// SurvivalProbability devuelve la probabilidad de llegar viva a toAge
// habiendo llegado a fromAge: S(to) / S(from), siempre en [0, 1].
func SurvivalProbability(fromAge, toAge int, table MortalityTable) (float64, error) {
	if toAge < fromAge {
		return 0, fmt.Errorf("survival: to age %d < from age %d: %w", toAge, fromAge, ErrInvalidParameter)
	}
	if toAge == fromAge {
		return 1, nil
	}
	sFrom, ok := table.Survival(fromAge)
	if !ok {
		return 0, fmt.Errorf("survival: age %d not in table: %w", fromAge, ErrInvalidParameter)
	}
	sTo, ok := table.Survival(toAge)
	if !ok {
		return 0, fmt.Errorf("survival: age %d not in table: %w", toAge, ErrInvalidParameter)
	}
	if !(sFrom > 0) {
		return 0, nil
	}
	return ClampProbability(sTo / sFrom), nil
}

// ClampProbability fuerza p a [0, 1]; NaN cuenta como 0.
func ClampProbability(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
