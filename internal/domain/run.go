package domain

import "time"

// RunStatus describes the lifecycle state of an experiment run.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is one recorded execution of an experiment.
type Run struct {
	ID         string
	Experiment string
	Group      string
	Dir        string
	Tag        *string
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt *time.Time
	Error      *string
}

// Duration returns the elapsed run time, zero while the run is in flight.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunParams are the sweep parameters an experiment is invoked with.
type RunParams struct {
	Group   string `json:"group"`
	MinDim  int    `json:"min_dim"`
	MaxDim  int    `json:"max_dim"`
	MaxRank int    `json:"max_rank"`
	Trials  int    `json:"trials"`
	Seed    int64  `json:"seed"`
}

// DefaultParams returns the parameter set used when flags are omitted.
func DefaultParams() RunParams {
	return RunParams{
		Group:   "so",
		MinDim:  2,
		MaxDim:  5,
		MaxRank: 3,
		Trials:  20,
		Seed:    0,
	}
}

// Point is a single measurement in a series.
type Point struct {
	X float64
	Y float64
}

// Series is a named sequence of measurements produced by a run.
type Series struct {
	Name   string
	Points []Point
}

// Final returns the last point of the series.
func (s Series) Final() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}
