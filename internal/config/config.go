package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sigpath/internal/dynamo"
)

const (
	DefaultIntegrator = "rk45"
	DefaultStart      = 0.0
	DefaultEnd        = 50.0
	DefaultPoints     = 500
	DefaultStorageDir = ".sigpath"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Model            string             `yaml:"model"`
	Integrator       string             `yaml:"integrator"`
	Solver           SolverConfig       `yaml:"solver"`
	Timeline         TimelineConfig     `yaml:"timeline"`
	Constants        map[string]float64 `yaml:"constants,omitempty"`
	InitialOverrides map[string]float64 `yaml:"initial,omitempty"`
	Storage          StorageConfig      `yaml:"storage"`
	Log              LogConfig          `yaml:"log"`
}

type SolverConfig struct {
	RelTol      float64 `yaml:"rel_tol"`
	AbsTol      float64 `yaml:"abs_tol"`
	InitialStep float64 `yaml:"initial_step"`
	MinStep     float64 `yaml:"min_step"`
	MaxStep     float64 `yaml:"max_step"`
	MaxSteps    int     `yaml:"max_steps"`
}

type TimelineConfig struct {
	Start  float64 `yaml:"start"`
	End    float64 `yaml:"end"`
	Points int     `yaml:"points"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Dir    string `yaml:"dir"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	d := dynamo.DefaultConfig()
	return &Config{
		Integrator: DefaultIntegrator,
		Solver: SolverConfig{
			RelTol:      d.RelTol,
			AbsTol:      d.AbsTol,
			InitialStep: d.InitialStep,
			MinStep:     d.MinStep,
			MaxStep:     d.MaxStep,
			MaxSteps:    d.MaxSteps,
		},
		Timeline: TimelineConfig{
			Start:  DefaultStart,
			End:    DefaultEnd,
			Points: DefaultPoints,
		},
		Storage: StorageConfig{Driver: "file", Dir: DefaultStorageDir},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file over DefaultConfig, so omitted keys keep defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Timeline.Points < 2 {
		bad("timeline.points must be at least 2, got %d", c.Timeline.Points)
	}
	if !(c.Timeline.End > c.Timeline.Start) {
		bad("timeline.end (%g) must be after timeline.start (%g)", c.Timeline.End, c.Timeline.Start)
	}
	if c.Solver.RelTol < 0 || c.Solver.AbsTol < 0 {
		bad("solver tolerances must not be negative")
	}
	if c.Integrator == "rk45" && c.Solver.RelTol == 0 && c.Solver.AbsTol == 0 {
		bad("rk45 needs a non-zero rel_tol or abs_tol")
	}
	if c.Solver.MinStep < 0 || c.Solver.MaxStep < 0 || c.Solver.InitialStep < 0 {
		bad("solver step sizes must not be negative")
	}
	if c.Solver.MaxStep > 0 && c.Solver.MinStep > c.Solver.MaxStep {
		bad("solver.min_step (%g) exceeds solver.max_step (%g)", c.Solver.MinStep, c.Solver.MaxStep)
	}
	if c.Solver.MaxSteps < 0 {
		bad("solver.max_steps must not be negative")
	}
	switch c.Storage.Driver {
	case "", "file", "sqlite":
	default:
		bad("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		bad("unknown log format %q", c.Log.Format)
	}
	return errors.Join(errs...)
}

// TimePoints returns Points evenly spaced times from Start to End inclusive.
func (c *Config) TimePoints() []float64 {
	n := c.Timeline.Points
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{c.Timeline.Start}
	}
	out := make([]float64, n)
	span := c.Timeline.End - c.Timeline.Start
	for i := range out {
		out[i] = c.Timeline.Start + span*float64(i)/float64(n-1)
	}
	out[n-1] = c.Timeline.End
	return out
}

// DynamoConfig converts the solver section for the integrators.
func (c *Config) DynamoConfig() dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.RelTol = c.Solver.RelTol
	cfg.AbsTol = c.Solver.AbsTol
	cfg.InitialStep = c.Solver.InitialStep
	cfg.MinStep = c.Solver.MinStep
	cfg.MaxStep = c.Solver.MaxStep
	cfg.MaxSteps = c.Solver.MaxSteps
	return cfg
}
