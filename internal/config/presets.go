package config

import "sort"

// Preset is a named solver and timeline profile.
type Preset struct {
	Description string
	Integrator  string
	Solver      SolverConfig
	Points      int
}

var Presets = map[string]*Preset{
	"quick": {
		Description: "coarse fixed-step RK4, for sketching a model",
		Integrator:  "rk4",
		Solver:      SolverConfig{MaxStep: 0.1, MinStep: 1e-12, MaxSteps: 100000},
		Points:      100,
	},
	"standard": {
		Description: "adaptive Dormand-Prince with default tolerances",
		Integrator:  "rk45",
		Solver:      SolverConfig{RelTol: 1e-6, AbsTol: 1e-9, MinStep: 1e-12, MaxSteps: 500000},
		Points:      500,
	},
	"fine": {
		Description: "tight tolerances for stiff or sensitive pathways",
		Integrator:  "rk45",
		Solver:      SolverConfig{RelTol: 1e-9, AbsTol: 1e-12, MinStep: 1e-14, MaxSteps: 5000000},
		Points:      2000,
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply copies the preset's solver and timeline resolution into cfg.
func (p *Preset) Apply(cfg *Config) {
	cfg.Integrator = p.Integrator
	cfg.Solver = p.Solver
	cfg.Timeline.Points = p.Points
}
