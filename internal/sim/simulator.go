package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/polyorbit/internal/orbit"
	"github.com/san-kum/polyorbit/internal/session"
)

// Runner drives a session without a window.
type Runner struct {
	metrics   []Metric
	observers []Observer
	crossing  []CrossingObserver
}

func New() *Runner {
	return &Runner{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		crossing:  make([]CrossingObserver, 0),
	}
}

func (r *Runner) AddMetric(m Metric) { r.metrics = append(r.metrics, m) }

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) AddCrossingObserver(o CrossingObserver) { r.crossing = append(r.crossing, o) }

// Run advances sess for cfg.Ticks ticks. A cancelled context stops the run
// between ticks and returns the partial result with ctx.Err().
func (r *Runner) Run(ctx context.Context, sess *session.Session, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if sess.Mode() != session.Running {
		return nil, fmt.Errorf("sim: session is %s", sess.Mode())
	}
	dt := cfg.Dt
	if dt == 0 {
		dt = DefaultDt
	}

	result := &Result{
		Crossings: make([]Event, 0),
		Counts:    make(map[orbit.BodyID]int),
		Metrics:   make(map[string]float64),
	}
	if cfg.Trace {
		result.Trace = make([][]float64, 0, cfg.Ticks)
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	sys := sess.System()
	center := sess.Center()
	now := time.Unix(0, 0)

	for tick := 1; tick <= cfg.Ticks; tick++ {
		select {
		case <-ctx.Done():
			r.collect(result)
			return result, ctx.Err()
		default:
		}

		now = now.Add(dt)
		crossings := sess.Tick(now)
		result.Ticks++

		for _, c := range crossings {
			result.Crossings = append(result.Crossings, Event{Tick: tick, ID: c.ID, Kind: c.Kind, X: c.At.X, Y: c.At.Y})
			result.Counts[c.ID]++
			for _, o := range r.crossing {
				o.OnCrossing(tick, c)
			}
		}
		for _, m := range r.metrics {
			m.Observe(tick, sys, crossings)
		}
		for _, o := range r.observers {
			o.OnTick(tick, sys)
		}

		if cfg.Trace {
			row := make([]float64, sys.Len())
			for i := range row {
				p := sys.Position(i, center)
				if !p.IsFinite() {
					r.collect(result)
					return result, SimError{Tick: tick, Message: fmt.Sprintf("body %d has non-finite position", sys.Body(i).ID)}
				}
				row[i] = p.X
			}
			result.Trace = append(result.Trace, row)
		}
	}

	r.collect(result)
	return result, nil
}

func (r *Runner) collect(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	if cfg.Dt < 0 {
		return fmt.Errorf("dt must not be negative, got %v", cfg.Dt)
	}
	return nil
}
