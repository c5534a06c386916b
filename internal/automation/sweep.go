package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/polyorbit/internal/settings"
	"github.com/san-kum/polyorbit/internal/sim"
)

// Sweep runs one system at evenly spaced speed multipliers.
type Sweep struct {
	MinSpeed float64
	MaxSpeed float64
	Steps    int
	Ticks    int
}

type SweepResult struct {
	// Speed is the multiplier actually used after clamping.
	Speed     float64
	Crossings int
	Metrics   map[string]float64
}

func (r *Runner) Sweep(ctx context.Context, doc *settings.Document, sw Sweep) ([]SweepResult, error) {
	if sw.Steps <= 0 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", ErrStep)
	}
	if sw.Ticks <= 0 {
		return nil, fmt.Errorf("%w: ticks must be positive, got %d", ErrStep, sw.Ticks)
	}

	step := 0.0
	if sw.Steps > 1 {
		step = (sw.MaxSpeed - sw.MinSpeed) / float64(sw.Steps-1)
	}

	results := make([]SweepResult, 0, sw.Steps)
	for i := 0; i < sw.Steps; i++ {
		v := sw.MinSpeed + float64(i)*step

		sess := r.session(r.seed(0))
		if err := sess.LoadDocument(doc); err != nil {
			return nil, err
		}
		sess.SetSpeed(v)

		result, err := newRunner().Run(ctx, sess, sim.Config{Ticks: sw.Ticks})
		sess.Close()
		if err != nil {
			return results, err
		}

		results = append(results, SweepResult{
			Speed:     sess.Speed(),
			Crossings: len(result.Crossings),
			Metrics:   result.Metrics,
		})
		r.log.Debug("sweep", "step", i+1, "of", sw.Steps, "speed", sess.Speed(), "crossings", len(result.Crossings))
	}

	return results, nil
}
