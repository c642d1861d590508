package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/sigpath/internal/dynamo"
	"github.com/san-kum/sigpath/internal/kinetics"
	"github.com/san-kum/sigpath/internal/sim"
)

var (
	ErrRunNotFound   = errors.New("storage: run not found")
	ErrUnknownDriver = errors.New("storage: unknown driver")
)

type RunMetadata struct {
	ID          string                `json:"id"`
	Model       string                `json:"model"`
	Source      string                `json:"source,omitempty"`
	Timestamp   time.Time             `json:"timestamp"`
	Integrator  string                `json:"integrator"`
	Species     []string              `json:"species"`
	Points      int                   `json:"points"`
	Start       float64               `json:"start"`
	End         float64               `json:"end"`
	Constants   map[string]float64    `json:"constants,omitempty"`
	Metrics     map[string]float64    `json:"metrics,omitempty"`
	Diagnostics []kinetics.Diagnostic `json:"diagnostics,omitempty"`
	Evaluations int                   `json:"evaluations"`
	Steps       int                   `json:"steps"`
	Rejected    int                   `json:"rejected"`
	ElapsedMS   float64               `json:"elapsed_ms"`
}

// Trajectory is a stored run's sampled states.
type Trajectory struct {
	Species []string
	Times   []float64
	States  []dynamo.State
}

// Store persists runs. Implementations assign the run id on Save.
type Store interface {
	Init() error
	Save(meta RunMetadata, result *sim.Result) (string, error)
	List() ([]RunMetadata, error)
	Load(id string) (*RunMetadata, error)
	LoadTrajectory(id string) (*Trajectory, error)
	Close() error
}

// Open returns a Store rooted at dir. The sqlite driver keeps its database
// in dir/runs.db.
func Open(driver, dir string) (Store, error) {
	switch driver {
	case "", "file":
		return NewFileStore(dir), nil
	case "sqlite":
		return NewSQLiteStore(filepath.Join(dir, "runs.db"))
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// complete fills the fields derived from result and assigns a fresh id.
func complete(meta RunMetadata, result *sim.Result) RunMetadata {
	meta.ID = uuid.NewString()
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}
	meta.Species = result.Species
	meta.Points = len(result.Times)
	if n := len(result.Times); n > 0 {
		meta.Start = result.Times[0]
		meta.End = result.Times[n-1]
	}
	meta.Metrics = result.Metrics
	meta.Diagnostics = result.Diagnostics
	meta.Evaluations = result.Stats.Evaluations
	meta.Steps = result.Stats.Steps
	meta.Rejected = result.Stats.Rejected
	meta.ElapsedMS = float64(result.Stats.Elapsed.Microseconds()) / 1000
	return meta
}
