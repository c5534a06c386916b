package session

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/san-kum/polyorbit/internal/config"
	"github.com/san-kum/polyorbit/internal/orbit"
	"github.com/san-kum/polyorbit/internal/settings"
)

type Mode int

const (
	Running Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "running"
}

type Options struct {
	Config  *config.Config
	Backend AudioBackend
	Logger  hclog.Logger
	Rand    *rand.Rand
}

type Session struct {
	cfg     *config.Config
	backend AudioBackend
	log     hclog.Logger
	rng     *rand.Rand

	sys     *orbit.System
	trigger *orbit.Trigger
	global  settings.Global
	speed   float64
	sustain float64
	view    orbit.Viewport
	mode    Mode
	path    string
	dirty   bool
	ticks   uint64

	rec recorder
}

func New(opts Options) *Session {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Backend == nil {
		opts.Backend = Discard
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	cx, cy := opts.Config.Center()
	s := &Session{
		cfg:     opts.Config,
		backend: opts.Backend,
		log:     opts.Logger.Named("session"),
		rng:     opts.Rand,
		sys:     orbit.NewSystem(),
		trigger: orbit.NewTrigger(),
		speed:   opts.Config.Simulation.Speed,
		sustain: opts.Config.Simulation.SustainRelease,
		view:    orbit.Viewport{Center: orbit.Vec2{X: cx, Y: cy}, Zoom: 1},
		path:    opts.Config.Settings,
	}
	s.global = settings.Global{SpeedMultiplier: s.speed}
	s.rec.dir = opts.Config.Recording.Dir
	s.rec.chunk = time.Duration(opts.Config.Recording.ChunkSeconds * float64(time.Second))
	return s
}

// Load replaces the current system with the one described by the settings
// file at path. On error the current system is left untouched.
func (s *Session) Load(path string) error {
	doc, err := settings.Load(path)
	if err != nil {
		return err
	}
	if err := s.LoadDocument(doc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	s.path = path
	s.log.Info("loaded settings", "path", path, "planets", len(doc.Planets), "bodies", doc.BodyCount())
	return nil
}

// LoadDocument installs doc as the current system and resumes running.
// Pending changes to the current system are committed first; if that write
// fails nothing is replaced.
func (s *Session) LoadDocument(doc *settings.Document) error {
	sys, err := settings.Build(doc)
	if err != nil {
		return err
	}
	if s.dirty {
		if err := s.Commit(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnsaved, err)
		}
	}

	s.unbindAll()
	s.sys = sys
	s.global = doc.Global
	s.speed = doc.Global.SpeedMultiplier
	s.sustain = doc.Global.SustainRelease()
	s.backend.SetSustainRelease(s.sustain)
	for i := 0; i < s.sys.Len(); i++ {
		s.bind(i)
	}
	s.sys.Prime(s.view.Center)
	s.mode = Running
	s.dirty = false
	return nil
}

// Document flattens the live system with the current speed and sustain.
func (s *Session) Document() *settings.Document {
	g := s.global
	g.SpeedMultiplier = s.speed
	g.SustainReleaseTime = settings.Float(s.sustain)
	return settings.FromSystem(s.sys, g)
}

// Commit writes the current document to the settings path.
func (s *Session) Commit() error {
	if err := settings.Save(s.path, s.Document()); err != nil {
		return fmt.Errorf("session: save %s: %w", s.path, err)
	}
	s.dirty = false
	s.log.Debug("settings saved", "path", s.path)
	return nil
}

// Toggle switches between running and editing. Leaving edit mode is the
// commit point: pending changes are written to the settings file. The mode
// changes even when the write fails.
func (s *Session) Toggle() error {
	if s.mode == Running {
		s.mode = Editing
		return nil
	}

	s.mode = Running
	s.sys.Prime(s.view.Center)
	if !s.dirty {
		return nil
	}
	if err := s.Commit(); err != nil {
		s.log.Error("commit failed", "error", err)
		return err
	}
	return nil
}

// Tick advances the simulation by one frame. Nothing moves while editing.
func (s *Session) Tick(now time.Time) []orbit.Crossing {
	if s.mode == Editing {
		return nil
	}
	s.trigger.Decay(s.sys)
	crossings := s.sys.Step(s.speed, s.view.Center)
	s.trigger.Fire(s.sys, crossings)
	s.ticks++

	if err := s.rec.rotate(now, s.backend); err != nil {
		s.log.Warn("recording rotation failed", "error", err)
	}
	return crossings
}

func (s *Session) SetSpeed(v float64) {
	v = s.cfg.ClampSpeed(v)
	if v != s.speed {
		s.speed = v
		s.dirty = true
	}
}

func (s *Session) SetSustainRelease(v float64) {
	v = s.cfg.ClampSustainRelease(v)
	if v != s.sustain {
		s.sustain = v
		s.dirty = true
		s.backend.SetSustainRelease(v)
	}
}

func (s *Session) ZoomIn() {
	s.view.Zoom = s.cfg.ClampZoom(s.view.Zoom * s.cfg.Zoom.Step)
}

func (s *Session) ZoomOut() {
	s.view.Zoom = s.cfg.ClampZoom(s.view.Zoom / s.cfg.Zoom.Step)
}

// HitTest returns the first planet drawn under the screen point.
func (s *Session) HitTest(screen orbit.Vec2) (int, bool) {
	for _, i := range s.sys.Planets() {
		b := s.sys.Body(i)
		p := s.view.ToScreen(s.sys.Position(i, s.view.Center))
		if p.Dist(screen) <= b.Size*s.view.Zoom {
			return i, true
		}
	}
	return -1, false
}

// Close stops any recording and releases every envelope.
func (s *Session) Close() error {
	s.unbindAll()
	return s.rec.stop(s.backend)
}

func (s *Session) System() *orbit.System { return s.sys }

func (s *Session) Mode() Mode { return s.mode }

func (s *Session) Speed() float64 { return s.speed }

func (s *Session) SustainRelease() float64 { return s.sustain }

func (s *Session) Viewport() orbit.Viewport { return s.view }

func (s *Session) Zoom() float64 { return s.view.Zoom }

func (s *Session) Center() orbit.Vec2 { return s.view.Center }

func (s *Session) Dirty() bool { return s.dirty }

func (s *Session) Path() string { return s.path }

func (s *Session) Ticks() uint64 { return s.ticks }

func (s *Session) Global() settings.Global { return s.global }

func (s *Session) Trigger() *orbit.Trigger { return s.trigger }

func (s *Session) Recording() bool { return s.rec.active }

func (s *Session) bind(i int) {
	b := *s.sys.Body(i)
	env, err := s.backend.Bind(b, s.sustain)
	if err != nil {
		s.log.Warn("no envelope for body", "id", b.ID, "kind", b.Kind(), "error", err)
		return
	}
	s.trigger.Bind(b.ID, env)
}

func (s *Session) unbindAll() {
	for _, env := range s.trigger.Reset() {
		s.backend.Unbind(env)
	}
}
