package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	"github.com/san-kum/polyorbit/internal/audio"
	"github.com/san-kum/polyorbit/internal/config"
	"github.com/san-kum/polyorbit/internal/orbit"
	"github.com/san-kum/polyorbit/internal/session"
	"github.com/san-kum/polyorbit/internal/viz"
)

const (
	headerLines   = 2
	footerLines   = 6
	minCanvasW    = 20
	minCanvasH    = 8
	cursorStep    = 20
	speedStep     = 0.1
	sustainStep   = 0.1
	orbitSize     = 20
	maxOrbitMoons = 4
	spectrumBands = 24
	historyLen    = 40
)

type Options struct {
	Config  *config.Config
	Session *session.Session
	// Engine feeds the spectrum meter; nil when audio is off.
	Engine *audio.Engine
	Logger hclog.Logger
}

type model struct {
	cfg    *config.Config
	sess   *session.Session
	engine *audio.Engine
	log    hclog.Logger
	theme  viz.Theme
	canvas *viz.Canvas

	width, height int
	started       time.Time
	lastFrame     time.Time
	fps           float64

	cursor   orbit.Vec2
	moons    int
	selected int

	// crossings per second, newest last
	history []float64
	second  time.Time
	count   int

	notice string
}

func newModel(opts Options) *model {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	cx, cy := opts.Config.Center()
	m := &model{
		cfg:      opts.Config,
		sess:     opts.Session,
		engine:   opts.Engine,
		log:      opts.Logger.Named("tui"),
		theme:    viz.GetTheme(opts.Config.Window.Theme),
		width:    80,
		height:   24,
		cursor:   orbit.Vec2{X: cx + 100, Y: cy},
		selected: -1,
	}
	m.resize()
	return m
}

type tickMsg time.Time

func (m *model) tick() tea.Cmd {
	fps := max(m.cfg.Window.FPS, 1)
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *model) Init() tea.Cmd { return m.tick() }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, tea.ClearScreen
	case tickMsg:
		m.step(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m *model) resize() {
	w := max(m.width, minCanvasW)
	h := max(m.height-headerLines-footerLines, minCanvasH)
	m.canvas = viz.NewCanvas(w, h)
	m.canvas.Fit(float64(m.cfg.Window.Width), float64(m.cfg.Window.Height))
}

func (m *model) step(now time.Time) {
	if m.started.IsZero() {
		m.started = now
		m.second = now
	}
	if !m.lastFrame.IsZero() {
		if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
			m.fps = 1 / dt
		}
	}
	m.lastFrame = now

	m.count += len(m.sess.Tick(now))
	if now.Sub(m.second) >= time.Second {
		m.history = append(m.history, float64(m.count))
		if len(m.history) > historyLen {
			m.history = m.history[1:]
		}
		m.count = 0
		m.second = now
	}
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case " ":
		if err := m.sess.Toggle(); err != nil {
			m.fail("save failed", err)
		}
		if m.sess.Mode() == session.Running {
			m.selected = -1
		}
	case "+", "=":
		m.sess.SetSpeed(m.sess.Speed() + speedStep)
	case "-", "_":
		m.sess.SetSpeed(m.sess.Speed() - speedStep)
	case "]":
		m.sess.SetSustainRelease(m.sess.SustainRelease() + sustainStep)
	case "[":
		m.sess.SetSustainRelease(m.sess.SustainRelease() - sustainStep)
	case "z":
		m.sess.ZoomIn()
	case "x":
		m.sess.ZoomOut()
	case "r":
		if err := m.sess.ToggleRecording(time.Now()); err != nil {
			m.fail("recording failed", err)
		} else if p := m.sess.RecordingPath(); p != "" {
			m.notice = "recording to " + p
		}
	}

	if m.sess.Mode() == session.Editing {
		m.editKey(msg.String())
	}
	return m, nil
}

func (m *model) editKey(key string) {
	switch key {
	case "up", "k":
		m.cursor.Y -= cursorStep
	case "down", "j":
		m.cursor.Y += cursorStep
	case "left", "h":
		m.cursor.X -= cursorStep
	case "right", "l":
		m.cursor.X += cursorStep
	case "m":
		m.moons = (m.moons + 1) % (maxOrbitMoons + 1)
	case "tab":
		m.selectNext()
	case "enter":
		m.addOrbit(m.cursor)
	case "delete", "backspace", "d":
		if m.selected < 0 {
			return
		}
		if err := m.sess.DeletePlanet(m.selected); err != nil {
			m.fail("delete failed", err)
		}
		m.selected = -1
	}
}

func (m *model) selectNext() {
	planets := m.sess.System().Planets()
	if len(planets) == 0 {
		m.selected = -1
		return
	}
	for _, p := range planets {
		if p > m.selected {
			m.selected = p
			return
		}
	}
	m.selected = planets[0]
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.sess.ZoomIn()
		return
	case tea.MouseButtonWheelDown:
		m.sess.ZoomOut()
		return
	}
	row := msg.Y - headerLines
	if row < 0 || row >= m.canvas.Height || msg.X >= m.canvas.Width {
		return
	}
	at := m.canvas.Unproject(msg.X, row)
	if msg.Action == tea.MouseActionMotion {
		m.cursor = at
		return
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || m.sess.Mode() != session.Editing {
		return
	}
	m.cursor = at
	if i, ok := m.sess.HitTest(at); ok {
		m.selected = i
		return
	}
	m.addOrbit(at)
}

func (m *model) addOrbit(at orbit.Vec2) {
	m.selected = -1
	req := session.AddOrbitRequest{
		Screen: at,
		Size:   orbitSize,
		Scale:  m.sess.Global().SelectedScale,
		Moons:  m.moons,
	}
	if _, err := m.sess.AddOrbit(req); err != nil {
		m.fail("cannot add orbit", err)
		return
	}
	m.notice = fmt.Sprintf("orbit added with %d moons", m.moons)
}

func (m *model) fail(msg string, err error) {
	m.log.Error(msg, "error", err)
	m.notice = fmt.Sprintf("%s: %v", msg, err)
}

func (m *model) View() string {
	editing := m.sess.Mode() == session.Editing
	m.canvas.Clear()
	viz.DrawScene(m.canvas, viz.Scene{
		System:      m.sess.System(),
		View:        m.sess.Viewport(),
		Width:       float64(m.cfg.Window.Width),
		Height:      float64(m.cfg.Window.Height),
		Theme:       m.theme,
		Editing:     editing,
		Cursor:      m.cursor,
		ShowPreview: editing && m.selected < 0,
		Selected:    m.selected,
		Time:        m.lastFrame.Sub(m.started).Seconds(),
	})

	var b strings.Builder
	b.WriteString(m.header() + "\n\n")
	b.WriteString(m.canvas.Render())
	b.WriteString(m.footer())
	return b.String()
}

func (m *model) header() string {
	status := viz.StatusRunning.Render("● running")
	if m.sess.Mode() == session.Editing {
		status = viz.StatusEditing.Render("○ editing")
	}
	if m.sess.Dirty() {
		status += viz.Subtle.Render(" (unsaved)")
	}
	line := fmt.Sprintf(" %s %s  %s", viz.GradientText("polyorbit", "#ff00ff", "#00ffff"),
		viz.Subtle.Render(":: "+m.sess.Path()), status)
	if m.sess.Recording() {
		line += "  " + viz.StatusRecording.Render("REC")
	}
	return line
}

func (m *model) footer() string {
	var b strings.Builder
	label := viz.MetricLabel.Render
	value := viz.MetricValue.Render

	b.WriteString(fmt.Sprintf(" %s %s %s   %s %s %s   %s %s   %s %s   %s %s\n",
		label("speed"), viz.ProgressBar(m.sess.Speed(), m.cfg.Simulation.MinSpeed, m.cfg.Simulation.MaxSpeed, 10), value(fmt.Sprintf("%.1fx", m.sess.Speed())),
		label("sustain"), viz.ProgressBar(m.sess.SustainRelease(), m.cfg.Simulation.MinSustainRelease, m.cfg.Simulation.MaxSustainRelease, 10), value(fmt.Sprintf("%.1fs", m.sess.SustainRelease())),
		label("zoom"), value(fmt.Sprintf("%.2f", m.sess.Zoom())),
		label("bodies"), value(fmt.Sprint(m.sess.System().Len())),
		label("fps"), value(fmt.Sprintf("%.0f", m.fps))))

	b.WriteString(fmt.Sprintf(" %s %s", label("crossings/s"), viz.Sparkline(m.history)))
	if m.engine != nil && m.engine.Active {
		b.WriteString(fmt.Sprintf("   %s %s", label("spectrum"), viz.Meter(m.engine.Tap().Spectrum(spectrumBands), m.theme)))
	}
	b.WriteString("\n")

	if m.sess.Mode() == session.Editing {
		b.WriteString(viz.KeyHint.Render(fmt.Sprintf(" arrows/hjkl cursor  enter add (%d moons)  m moons  tab select  d delete  click add/select", m.moons)) + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString(viz.KeyHint.Render(" space edit  +/- speed  [/] sustain  z/x zoom  r record  q quit") + "\n")
	if m.notice != "" {
		b.WriteString(" " + m.notice)
	}
	return b.String()
}

// Run starts the terminal view and blocks until the user quits. The session
// is closed on return.
func Run(opts Options) error {
	m := newModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	if cerr := m.sess.Close(); err == nil {
		err = cerr
	}
	return err
}
