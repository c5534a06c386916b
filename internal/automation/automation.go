// Package automation runs scripted sequences of headless simulations.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/polyorbit/internal/config"
	"github.com/san-kum/polyorbit/internal/generate"
	"github.com/san-kum/polyorbit/internal/metrics"
	"github.com/san-kum/polyorbit/internal/session"
	"github.com/san-kum/polyorbit/internal/settings"
	"github.com/san-kum/polyorbit/internal/sim"
	"github.com/san-kum/polyorbit/internal/storage"
)

var ErrStep = errors.New("automation: invalid step")

// Scenario is a list of runs read from a YAML file.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step runs one system for a number of ticks. Exactly one of Settings and
// Preset names the system; Speed and Sustain override the file's values.
type Step struct {
	Settings string        `yaml:"settings"`
	Preset   string        `yaml:"preset"`
	Seed     int64         `yaml:"seed"`
	Ticks    int           `yaml:"ticks"`
	Dt       time.Duration `yaml:"dt"`
	Speed    *float64      `yaml:"speed"`
	Sustain  *float64      `yaml:"sustain"`
	SaveAs   string        `yaml:"save_as"`
}

type StepResult struct {
	Step   int
	Source string
	Seed   int64
	RunID  string
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// Runner executes scenarios and sweeps against fresh silent sessions.
type Runner struct {
	cfg   *config.Config
	store *storage.Store
	log   hclog.Logger
}

// NewRunner returns a Runner. store may be nil, in which case SaveAs is
// ignored.
func NewRunner(cfg *config.Config, store *storage.Store, log hclog.Logger) *Runner {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Runner{cfg: cfg, store: store, log: log.Named("automation")}
}

// Run executes every step in order and stops at the first failure,
// returning the results gathered so far.
func (r *Runner) Run(ctx context.Context, sc *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		r.log.Info("running step", "step", i+1, "of", len(sc.Steps), "settings", step.Settings, "preset", step.Preset)

		res, err := r.runStep(ctx, i+1, step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, *res)
	}

	return results, nil
}

func (r *Runner) runStep(ctx context.Context, n int, step Step) (*StepResult, error) {
	if step.Ticks <= 0 {
		return nil, fmt.Errorf("%w: ticks must be positive, got %d", ErrStep, step.Ticks)
	}
	seed := r.seed(step.Seed)
	doc, source, err := r.document(step, seed)
	if err != nil {
		return nil, err
	}

	sess := r.session(seed)
	defer sess.Close()
	if err := sess.LoadDocument(doc); err != nil {
		return nil, err
	}
	if step.Speed != nil {
		sess.SetSpeed(*step.Speed)
	}
	if step.Sustain != nil {
		sess.SetSustainRelease(*step.Sustain)
	}

	runner := newRunner()
	result, err := runner.Run(ctx, sess, sim.Config{Ticks: step.Ticks, Dt: step.Dt})
	if err != nil {
		return nil, err
	}

	out := &StepResult{Step: n, Source: source, Seed: seed, Result: result}
	if step.SaveAs != "" && r.store != nil {
		dt := step.Dt
		if dt == 0 {
			dt = sim.DefaultDt
		}
		id, err := r.store.Save(storage.RunMetadata{
			Name:     step.SaveAs,
			Settings: source,
			Seed:     seed,
			Dt:       dt.Seconds(),
			Speed:    sess.Speed(),
			Bodies:   sess.System().Len(),
		}, result)
		if err != nil {
			return nil, err
		}
		out.RunID = id
		r.log.Info("saved run", "id", id)
	}
	return out, nil
}

func (r *Runner) document(step Step, seed int64) (*settings.Document, string, error) {
	switch {
	case step.Settings != "" && step.Preset != "":
		return nil, "", fmt.Errorf("%w: settings and preset are exclusive", ErrStep)
	case step.Settings != "":
		doc, err := settings.Load(step.Settings)
		return doc, step.Settings, err
	case step.Preset != "":
		p := config.GetPreset(step.Preset)
		if p == nil {
			return nil, "", fmt.Errorf("%w: unknown preset %q", ErrStep, step.Preset)
		}
		doc, err := generate.Document(*p, rand.New(rand.NewSource(seed)))
		return doc, "preset:" + step.Preset, err
	default:
		return nil, "", fmt.Errorf("%w: no settings or preset", ErrStep)
	}
}

func (r *Runner) seed(s int64) int64 {
	switch {
	case s != 0:
		return s
	case r.cfg.Seed != 0:
		return r.cfg.Seed
	default:
		return time.Now().UnixNano()
	}
}

func (r *Runner) session(seed int64) *session.Session {
	c := *r.cfg
	return session.New(session.Options{
		Config:  &c,
		Backend: session.Discard,
		Logger:  r.log,
		Rand:    rand.New(rand.NewSource(seed)),
	})
}

func newRunner() *sim.Runner {
	runner := sim.New()
	runner.AddMetric(metrics.NewCrossingRate())
	runner.AddMetric(metrics.NewPolyphony())
	runner.AddMetric(metrics.NewBrightness())
	return runner
}
