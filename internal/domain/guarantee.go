package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// GuaranteeLevel es un nivel de garantía ofrecido ("90%" → 0.9).
type GuaranteeLevel struct {
	Label string
	Level float64
}

// DefaultGuaranteeLevels son los niveles del producto cuando el catálogo no define otros.
func DefaultGuaranteeLevels() []GuaranteeLevel {
	return []GuaranteeLevel{
		{Label: "80%", Level: 0.8},
		{Label: "90%", Level: 0.9},
		{Label: "100%", Level: 1.0},
	}
}

// FindGuaranteeLevel busca el nivel con la fracción dada.
func FindGuaranteeLevel(levels []GuaranteeLevel, level float64) (GuaranteeLevel, bool) {
	for _, l := range levels {
		if math.Abs(l.Level-level) < 1e-9 {
			return l, true
		}
	}
	return GuaranteeLevel{}, false
}

// ParseGuaranteeLevel acepta "90%", "90" o "0.9".
func ParseGuaranteeLevel(s string) (float64, error) {
	raw := strings.TrimSpace(s)
	pct := strings.HasSuffix(raw, "%")
	raw = strings.TrimSuffix(raw, "%")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("guarantee %q: %w", s, ErrInvalidParameter)
	}
	if pct || v > 1.5 {
		v /= 100
	}
	if !(v > 0) {
		return 0, fmt.Errorf("guarantee %q: %w", s, ErrInvalidParameter)
	}
	return v, nil
}

// LevelLabel formatea una fracción como "90%".
func LevelLabel(level float64) string {
	return fmt.Sprintf("%.0f%%", level*100)
}
