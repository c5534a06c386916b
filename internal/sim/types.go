package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/polyorbit/internal/orbit"
)

type Metric interface {
	Name() string
	Observe(tick int, sys *orbit.System, crossings []orbit.Crossing)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(tick int, sys *orbit.System)
}

type CrossingObserver interface {
	OnCrossing(tick int, c orbit.Crossing)
}

type Config struct {
	Ticks int
	// Dt is the simulated wall time of one tick; it drives recording rotation.
	Dt time.Duration
	// Trace records every body's x per tick.
	Trace bool
}

// DefaultDt is one frame at 60 fps.
const DefaultDt = time.Second / 60

// Event is a crossing as recorded by a run.
type Event struct {
	Tick int
	ID   orbit.BodyID
	Kind orbit.Kind
	X, Y float64
}

type Result struct {
	Ticks     int
	Crossings []Event
	Counts    map[orbit.BodyID]int
	Trace     [][]float64
	Metrics   map[string]float64
}

// Histogram buckets crossings into windows of the given number of ticks.
func (r *Result) Histogram(window int) []float64 {
	if window <= 0 || r.Ticks == 0 {
		return nil
	}
	out := make([]float64, (r.Ticks+window-1)/window)
	for _, e := range r.Crossings {
		out[(e.Tick-1)/window]++
	}
	return out
}

type SimError struct {
	Tick    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("sim: tick %d: %s", e.Tick, e.Message)
}
