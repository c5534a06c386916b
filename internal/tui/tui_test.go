package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/polyorbit/internal/config"
	"github.com/san-kum/polyorbit/internal/orbit"
	"github.com/san-kum/polyorbit/internal/session"
	"github.com/san-kum/polyorbit/internal/viz"
)

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testModel(t *testing.T) *model {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Settings = filepath.Join(dir, "settings.ini")
	cfg.Recording.Dir = dir
	sess := session.New(session.Options{Config: cfg})
	return newModel(Options{Config: cfg, Session: sess})
}

func send(m *model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestEditAddDelete(t *testing.T) {
	m := testModel(t)

	send(m, key(" "))
	if m.sess.Mode() != session.Editing {
		t.Fatal("space should enter edit mode")
	}

	send(m, key("m"), key("enter"))
	if n := len(m.sess.System().Planets()); n != 1 {
		t.Fatalf("expected 1 planet, got %d", n)
	}
	if n := m.sess.System().Len(); n != 2 {
		t.Errorf("expected planet and moon, got %d bodies", n)
	}
	if !strings.Contains(m.notice, "1 moons") {
		t.Errorf("notice = %q", m.notice)
	}

	send(m, key("tab"))
	if m.selected != 0 {
		t.Fatalf("tab should select planet 0, got %d", m.selected)
	}
	send(m, key("d"))
	if m.sess.System().Len() != 0 {
		t.Errorf("expected empty system, got %d", m.sess.System().Len())
	}

	send(m, key(" "))
	if m.sess.Mode() != session.Running || m.sess.Dirty() {
		t.Error("leaving edit mode should commit")
	}
	if _, err := os.Stat(m.sess.Path()); err != nil {
		t.Errorf("settings not written: %v", err)
	}
}

func TestCursorKeys(t *testing.T) {
	m := testModel(t)
	start := m.cursor

	send(m, key("l"))
	if m.cursor != start {
		t.Error("cursor should not move while running")
	}

	send(m, key(" "), key("l"), key("j"))
	want := orbit.Vec2{X: start.X + cursorStep, Y: start.Y + cursorStep}
	if m.cursor != want {
		t.Errorf("cursor = %v, want %v", m.cursor, want)
	}
}

func TestSlidersAndZoom(t *testing.T) {
	m := testModel(t)
	speed := m.sess.Speed()
	sustain := m.sess.SustainRelease()
	zoom := m.sess.Zoom()

	send(m, key("+"), key("]"), key("z"))
	if m.sess.Speed() <= speed {
		t.Errorf("speed %v not increased", m.sess.Speed())
	}
	if m.sess.SustainRelease() <= sustain {
		t.Errorf("sustain %v not increased", m.sess.SustainRelease())
	}
	if m.sess.Zoom() <= zoom {
		t.Errorf("zoom %v not increased", m.sess.Zoom())
	}

	send(m, tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if m.sess.Zoom() >= zoom*m.cfg.Zoom.Step {
		t.Errorf("wheel should zoom out, got %v", m.sess.Zoom())
	}
}

func TestMouseAddsOrbit(t *testing.T) {
	m := testModel(t)
	send(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	send(m, key(" "))

	click := tea.MouseMsg{X: 70, Y: headerLines + 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
	send(m, click)
	if n := len(m.sess.System().Planets()); n != 1 {
		t.Fatalf("expected a planet from the click, got %d (%s)", n, m.notice)
	}

	send(m, tea.MouseMsg{X: 0, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if n := len(m.sess.System().Planets()); n != 1 {
		t.Errorf("click on the header should be ignored, got %d planets", n)
	}
}

func TestTickAndView(t *testing.T) {
	m := testModel(t)
	now := time.Now()
	cmd := send(m, tickMsg(now), tickMsg(now.Add(time.Second/60)))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.fps < 59 || m.fps > 61 {
		t.Errorf("fps = %v", m.fps)
	}

	view := m.View()
	for _, want := range []string{"polyorbit", "running", "speed", "sustain"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuit(t *testing.T) {
	m := testModel(t)
	cmd := send(m, key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestLiveRenderer(t *testing.T) {
	sys := orbit.NewSystem()
	if _, err := sys.AddPlanet(orbit.Body{Radius: 100, Size: 20, Frequency: 220}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	view := orbit.Viewport{Center: orbit.Vec2{X: 640, Y: 360}, Zoom: 1}
	r := NewLiveRenderer(&buf, 40, 10, view, 1280, 720, viz.ThemeClassic)
	r.Every = 5

	for tick := 0; tick < 20; tick++ {
		r.OnTick(tick, sys)
	}
	if r.Frames() != 4 {
		t.Errorf("expected 4 frames, got %d", r.Frames())
	}
	if !strings.Contains(buf.String(), "tick=15") {
		t.Error("missing last frame header")
	}
}
