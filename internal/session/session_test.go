package session_test

import (
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/polyorbit/internal/config"
	"github.com/san-kum/polyorbit/internal/orbit"
	"github.com/san-kum/polyorbit/internal/session"
	"github.com/san-kum/polyorbit/internal/settings"
)

type fakeEnvelope struct {
	id    orbit.BodyID
	plays int
}

func (e *fakeEnvelope) Play() { e.plays++ }

type fakeBackend struct {
	bound      map[orbit.BodyID]*fakeEnvelope
	unbound    []orbit.Envelope
	sustain    float64
	recordings []string
	stops      int
	failBind   bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{bound: map[orbit.BodyID]*fakeEnvelope{}}
}

func (f *fakeBackend) Bind(b orbit.Body, sustain float64) (orbit.Envelope, error) {
	if f.failBind {
		return nil, errors.New("no device")
	}
	env := &fakeEnvelope{id: b.ID}
	f.bound[b.ID] = env
	return env, nil
}

func (f *fakeBackend) Unbind(env orbit.Envelope) { f.unbound = append(f.unbound, env) }

func (f *fakeBackend) SetSustainRelease(v float64) { f.sustain = v }

func (f *fakeBackend) StartRecording(path string) error {
	f.recordings = append(f.recordings, path)
	return nil
}

func (f *fakeBackend) StopRecording() error {
	f.stops++
	return nil
}

func testDocument() *settings.Document {
	return &settings.Document{
		Global: settings.Global{NumberOfPlanets: 2, SpeedMultiplier: 2},
		Planets: []settings.PlanetRecord{
			{Size: 20, Frequency: 220, Distance: 100, Moons: []settings.MoonRecord{
				{Size: 5, Frequency: 660, Distance: 30},
			}},
			{Size: 30, Frequency: 110, Distance: 200},
		},
	}
}

var _ = Describe("Session", func() {
	var (
		dir     string
		cfg     *config.Config
		backend *fakeBackend
		sess    *session.Session
		now     time.Time
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		cfg = config.DefaultConfig()
		cfg.Settings = filepath.Join(dir, "settings.ini")
		cfg.Recording.Dir = dir
		backend = newFakeBackend()
		sess = session.New(session.Options{
			Config:  cfg,
			Backend: backend,
			Rand:    rand.New(rand.NewSource(1)),
		})
		now = time.Unix(1000, 0)
		Expect(sess.LoadDocument(testDocument())).To(Succeed())
	})

	Describe("loading", func() {
		It("builds the system and binds every body", func() {
			Expect(sess.System().Len()).To(Equal(3))
			Expect(backend.bound).To(HaveLen(3))
			Expect(sess.Speed()).To(Equal(2.0))
			Expect(sess.SustainRelease()).To(Equal(settings.DefaultSustainRelease))
			Expect(backend.sustain).To(Equal(settings.DefaultSustainRelease))
			Expect(sess.Mode()).To(Equal(session.Running))
		})

		It("loads from a file and remembers its path", func() {
			path := filepath.Join(dir, "other.ini")
			Expect(settings.Save(path, testDocument())).To(Succeed())
			Expect(sess.Load(path)).To(Succeed())
			Expect(sess.Path()).To(Equal(path))
			Expect(backend.unbound).To(HaveLen(3))
		})

		It("keeps the current system when loading fails", func() {
			path := filepath.Join(dir, "broken.ini")
			Expect(os.WriteFile(path, []byte("[Global]\nNumberOfPlanets=1\n"), 0644)).To(Succeed())

			err := sess.Load(path)
			Expect(errors.Is(err, settings.ErrMissing)).To(BeTrue())
			Expect(sess.System().Len()).To(Equal(3))
		})

		It("writes pending edits before loading another file", func() {
			Expect(sess.Toggle()).To(Succeed())
			Expect(sess.DeletePlanet(1)).To(Succeed())
			Expect(sess.Dirty()).To(BeTrue())

			path := filepath.Join(dir, "other.ini")
			Expect(settings.Save(path, testDocument())).To(Succeed())
			Expect(sess.Load(path)).To(Succeed())
			Expect(sess.System().Len()).To(Equal(3))
			Expect(sess.Dirty()).To(BeFalse())

			saved, err := settings.Load(cfg.Settings)
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.Planets).To(HaveLen(1))
			Expect(saved.BodyCount()).To(Equal(2))
		})

		It("keeps pending edits when they cannot be written", func() {
			c := config.DefaultConfig()
			c.Settings = filepath.Join(dir, "missing", "settings.ini")
			s := session.New(session.Options{Config: c, Rand: rand.New(rand.NewSource(1))})
			Expect(s.LoadDocument(testDocument())).To(Succeed())
			Expect(s.Toggle()).To(Succeed())
			Expect(s.DeletePlanet(1)).To(Succeed())

			err := s.LoadDocument(testDocument())
			Expect(errors.Is(err, session.ErrUnsaved)).To(BeTrue())
			Expect(s.System().Len()).To(Equal(2))
			Expect(s.Dirty()).To(BeTrue())
			Expect(s.Mode()).To(Equal(session.Editing))
		})

		It("still runs when the backend cannot bind", func() {
			backend.failBind = true
			Expect(sess.LoadDocument(testDocument())).To(Succeed())
			sess.Tick(now)
			Expect(sess.System().Len()).To(Equal(3))
		})
	})

	Describe("ticking", func() {
		It("never fires on the first tick", func() {
			Expect(sess.Tick(now)).To(BeEmpty())
		})

		It("plays the envelope of every crossing body and lights it", func() {
			var fired []orbit.Crossing
			for i := 0; i < 2000 && len(fired) == 0; i++ {
				fired = sess.Tick(now)
			}
			Expect(fired).NotTo(BeEmpty())

			c := fired[0]
			Expect(backend.bound[c.ID].plays).To(Equal(1))
			Expect(sess.System().Body(c.Index).Glow).To(Equal(orbit.GlowMax))
		})

		It("freezes while editing", func() {
			sess.Tick(now)
			angle := sess.System().Body(0).Angle
			Expect(sess.Toggle()).To(Succeed())
			Expect(sess.Mode()).To(Equal(session.Editing))
			for i := 0; i < 10; i++ {
				Expect(sess.Tick(now)).To(BeNil())
			}
			Expect(sess.System().Body(0).Angle).To(Equal(angle))
			Expect(sess.Ticks()).To(Equal(uint64(1)))
		})
	})

	Describe("committing", func() {
		It("does not write when nothing changed", func() {
			Expect(sess.Toggle()).To(Succeed())
			Expect(sess.Toggle()).To(Succeed())
			Expect(cfg.Settings).NotTo(BeAnExistingFile())
		})

		It("writes pending slider changes on resume", func() {
			sess.SetSpeed(4)
			sess.SetSustainRelease(1.2)
			Expect(sess.Dirty()).To(BeTrue())
			Expect(cfg.Settings).NotTo(BeAnExistingFile())

			Expect(sess.Toggle()).To(Succeed())
			Expect(sess.Toggle()).To(Succeed())
			Expect(sess.Dirty()).To(BeFalse())

			doc, err := settings.Load(cfg.Settings)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Global.SpeedMultiplier).To(Equal(4.0))
			Expect(doc.Global.SustainRelease()).To(Equal(1.2))
		})

		It("clamps sliders", func() {
			sess.SetSpeed(100)
			Expect(sess.Speed()).To(Equal(config.MaxSpeed))
			sess.SetSpeed(0)
			Expect(sess.Speed()).To(Equal(config.MinSpeed))
			sess.SetSustainRelease(9)
			Expect(sess.SustainRelease()).To(Equal(config.MaxSustainRelease))
			Expect(backend.sustain).To(Equal(config.MaxSustainRelease))
		})
	})

	Describe("zoom", func() {
		It("steps by 1.1 and stays in bounds", func() {
			sess.ZoomIn()
			Expect(sess.Zoom()).To(BeNumerically("~", 1.1, 1e-12))
			for i := 0; i < 100; i++ {
				sess.ZoomIn()
			}
			Expect(sess.Zoom()).To(Equal(config.MaxZoom))
			for i := 0; i < 200; i++ {
				sess.ZoomOut()
			}
			Expect(sess.Zoom()).To(Equal(config.MinZoom))
		})
	})

	Describe("hit testing", func() {
		It("finds a planet under the cursor at any zoom", func() {
			sys := sess.System()
			world := sys.Position(0, sess.Center())

			i, ok := sess.HitTest(world.Add(orbit.Vec2{X: 5}))
			Expect(ok).To(BeTrue())
			Expect(i).To(Equal(0))

			sess.ZoomOut()
			sess.ZoomOut()
			screen := sess.Viewport().ToScreen(world)
			i, ok = sess.HitTest(screen)
			Expect(ok).To(BeTrue())
			Expect(i).To(Equal(0))
		})

		It("ignores empty space and moons", func() {
			_, ok := sess.HitTest(sess.Center())
			Expect(ok).To(BeFalse())

			moon := sess.System().Position(1, sess.Center())
			i, ok := sess.HitTest(moon)
			if ok {
				Expect(sess.System().Body(i).Kind()).To(Equal(orbit.Planet))
			}
		})
	})

	Describe("editing", func() {
		It("rejects edits while running", func() {
			Expect(sess.DeletePlanet(0)).To(MatchError(session.ErrNotEditing))
			_, err := sess.AddOrbit(session.AddOrbitRequest{Screen: orbit.Vec2{X: 900, Y: 360}, Size: 20})
			Expect(err).To(MatchError(session.ErrNotEditing))
		})

		It("deletes a planet with its moons and persists on resume", func() {
			Expect(sess.Toggle()).To(Succeed())
			Expect(sess.DeletePlanet(0)).To(Succeed())

			Expect(sess.System().Len()).To(Equal(1))
			Expect(backend.unbound).To(HaveLen(2))
			Expect(sess.Dirty()).To(BeTrue())

			Expect(sess.Toggle()).To(Succeed())
			data, err := os.ReadFile(cfg.Settings)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("NumberOfPlanets=1\n"))
			Expect(string(data)).NotTo(ContainSubstring("Moon1]"))
		})

		It("rejects deleting a moon as a planet", func() {
			Expect(sess.Toggle()).To(Succeed())
			Expect(errors.Is(sess.DeletePlanet(1), orbit.ErrNotPlanet)).To(BeTrue())
		})

		It("adds an orbit through the clicked point", func() {
			Expect(sess.Toggle()).To(Succeed())
			click := orbit.Vec2{X: 640, Y: 360 - 150}

			i, err := sess.AddOrbit(session.AddOrbitRequest{Screen: click, Size: 25, Eccentricity: 0, Scale: "C Dorian", Moons: 2})
			Expect(err).NotTo(HaveOccurred())

			sys := sess.System()
			p := sys.Body(i)
			Expect(p.Kind()).To(Equal(orbit.Planet))
			Expect(p.Radius).To(Equal(150.0))
			Expect(sys.Moons(i)).To(HaveLen(2))
			Expect(sys.Position(i, sess.Center()).Dist(click)).To(BeNumerically("<", 1e-6))

			moons := sys.Moons(i)
			first, second := sys.Body(moons[0]), sys.Body(moons[1])
			Expect(first.Radius).To(BeNumerically(">=", 35))
			Expect(second.Radius).To(BeNumerically(">=", first.Radius))
			Expect(first.Size).To(BeNumerically("<=", 12))
			Expect(backend.bound).To(HaveKey(p.ID))
			Expect(sess.Global().EllipticalOrbits).To(BeTrue())
		})

		It("scales the distance by the zoom", func() {
			Expect(sess.Toggle()).To(Succeed())
			sess.ZoomIn()
			click := orbit.Vec2{X: 640 + 110, Y: 360}
			i, err := sess.AddOrbit(session.AddOrbitRequest{Screen: click, Size: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(sess.System().Body(i).Radius).To(Equal(100.0))
		})

		It("rejects an orbit at the centre", func() {
			Expect(sess.Toggle()).To(Succeed())
			_, err := sess.AddOrbit(session.AddOrbitRequest{Screen: sess.Center(), Size: 20})
			Expect(err).To(MatchError(session.ErrDistance))
		})

		It("rejects invalid bodies", func() {
			Expect(sess.Toggle()).To(Succeed())
			_, err := sess.AddOrbit(session.AddOrbitRequest{Screen: orbit.Vec2{X: 800, Y: 360}, Size: 20, Eccentricity: 1})
			Expect(errors.Is(err, orbit.ErrInvalidBody)).To(BeTrue())
		})

		It("does not fire a new orbit on its first tick", func() {
			Expect(sess.Toggle()).To(Succeed())
			i, err := sess.AddOrbit(session.AddOrbitRequest{Screen: orbit.Vec2{X: 641, Y: 200}, Size: 20})
			Expect(err).NotTo(HaveOccurred())
			id := sess.System().Body(i).ID
			Expect(sess.Toggle()).To(Succeed())

			for _, c := range sess.Tick(now) {
				Expect(c.ID).NotTo(Equal(id))
			}
		})
	})

	Describe("recording", func() {
		It("rotates chunks while running", func() {
			Expect(sess.ToggleRecording(now)).To(Succeed())
			Expect(sess.Recording()).To(BeTrue())
			Expect(backend.recordings).To(Equal([]string{filepath.Join(dir, "recording_0.wav")}))

			sess.Tick(now.Add(18 * time.Second))
			Expect(backend.recordings).To(HaveLen(1))

			sess.Tick(now.Add(19 * time.Second))
			Expect(backend.stops).To(Equal(1))
			Expect(backend.recordings).To(HaveLen(2))
			Expect(sess.RecordingPath()).To(HaveSuffix("recording_1.wav"))
		})

		It("does not rotate while editing", func() {
			Expect(sess.ToggleRecording(now)).To(Succeed())
			Expect(sess.Toggle()).To(Succeed())
			sess.Tick(now.Add(time.Minute))
			Expect(backend.stops).To(Equal(0))
		})

		It("stops and numbers the next recording", func() {
			Expect(sess.ToggleRecording(now)).To(Succeed())
			Expect(sess.ToggleRecording(now)).To(Succeed())
			Expect(sess.Recording()).To(BeFalse())
			Expect(sess.RecordingPath()).To(BeEmpty())

			Expect(sess.ToggleRecording(now)).To(Succeed())
			Expect(strings.HasSuffix(backend.recordings[1], "recording_1.wav")).To(BeTrue())
			Expect(sess.Close()).To(Succeed())
			Expect(backend.stops).To(Equal(2))
		})
	})

	It("ticks forever without producing non-finite positions", func() {
		for i := 0; i < 5000; i++ {
			sess.Tick(now)
		}
		sys := sess.System()
		for i := 0; i < sys.Len(); i++ {
			p := sys.Position(i, sess.Center())
			Expect(math.IsNaN(p.X) || math.IsNaN(p.Y)).To(BeFalse())
		}
	})
})
