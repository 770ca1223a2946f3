package domain

import "fmt"

// RiskProfile es un perfil de riesgo MiFID con sus parámetros de mercado
// de referencia. Permite simular sin elegir fondos concretos.
type RiskProfile struct {
	Class int
	Name  string
	Mu    float64
	Sigma float64
}

// DefaultRiskProfiles son los cinco perfiles del producto.
func DefaultRiskProfiles() []RiskProfile {
	return []RiskProfile{
		{Class: 1, Name: "Prudente", Mu: 0.02, Sigma: 0.05},
		{Class: 2, Name: "Moderato", Mu: 0.03, Sigma: 0.08},
		{Class: 3, Name: "Bilanciato", Mu: 0.04, Sigma: 0.12},
		{Class: 4, Name: "Dinamico", Mu: 0.05, Sigma: 0.18},
		{Class: 5, Name: "Aggressivo", Mu: 0.06, Sigma: 0.25},
	}
}

// Label devuelve "3 - Bilanciato".
func (p RiskProfile) Label() string {
	return fmt.Sprintf("%d - %s", p.Class, p.Name)
}

// FundSuitable indica si un fondo encaja en la clase de riesgo del perfil.
//   - clase 1: μ ≥ 0 y σ ≤ 5%
//   - clase 2: σ ≤ 10%
//   - clase 3: σ ≤ 20%
//   - clases 4 y 5: cualquier fondo
func (p RiskProfile) FundSuitable(f Fund) bool {
	switch p.Class {
	case 1:
		return f.Mu >= 0 && f.Sigma <= 0.05
	case 2:
		return f.Sigma <= 0.10
	case 3:
		return f.Sigma <= 0.20
	}
	return true
}

// ProfileFund sintetiza un fondo con los parámetros del perfil para que una
// simulación por perfil use el mismo pipeline que una cartera real.
func (p RiskProfile) ProfileFund() Fund {
	return Fund{
		Ticker:    fmt.Sprintf("PROFILE-%d", p.Class),
		Name:      "Profilo " + p.Label(),
		Mu:        p.Mu,
		Sigma:     p.Sigma,
		S0:        100,
		RiskClass: p.Class,
	}
}

// FindRiskProfile busca un perfil por clase.
func FindRiskProfile(profiles []RiskProfile, class int) (RiskProfile, bool) {
	for _, p := range profiles {
		if p.Class == class {
			return p, true
		}
	}
	return RiskProfile{}, false
}
