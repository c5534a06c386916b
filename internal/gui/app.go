package gui

import (
	"errors"
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/hashicorp/go-hclog"
	"github.com/ncruces/zenity"

	"github.com/san-kum/polyorbit/internal/audio"
	"github.com/san-kum/polyorbit/internal/config"
	"github.com/san-kum/polyorbit/internal/orbit"
	"github.com/san-kum/polyorbit/internal/session"
	"github.com/san-kum/polyorbit/internal/viz"
)

const (
	speedStep    = 0.1
	sustainStep  = 0.1
	spectrumBars = 32
	noticeTime   = 3 * time.Second
)

var (
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColRecord  = rl.NewColor(255, 0, 0, 255)
)

type Options struct {
	Config  *config.Config
	Session *session.Session
	// Engine feeds the spectrum meter; nil when audio is off.
	Engine *audio.Engine
	Logger hclog.Logger
}

// App is the raylib window around a session.
type App struct {
	cfg    *config.Config
	sess   *session.Session
	engine *audio.Engine
	log    hclog.Logger
	theme  viz.Theme
	font   rl.Font
	surf   surface

	draft    draft
	selected int
	started  time.Time
	quit     bool

	notice      string
	noticeUntil time.Time
}

func New(opts Options) *App {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	scaleName := opts.Session.Global().SelectedScale
	return &App{
		cfg:      opts.Config,
		sess:     opts.Session,
		engine:   opts.Engine,
		log:      opts.Logger.Named("gui"),
		theme:    viz.GetTheme(opts.Config.Window.Theme),
		draft:    newDraft(scaleName),
		selected: -1,
	}
}

func (a *App) initWindow() {
	rl.InitWindow(int32(a.cfg.Window.Width), int32(a.cfg.Window.Height), "polyorbit")
	rl.SetTargetFPS(int32(a.cfg.Window.FPS))
	rl.SetExitKey(0)
	a.font = loadFont()
	a.surf = surface{font: a.font}
}

// loadFont loads Liberation Mono from the system path, falling back to the
// raylib default font.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// Run opens the window and blocks until it is closed or Esc is pressed.
func (a *App) Run() error {
	a.initWindow()
	defer rl.CloseWindow()

	a.started = time.Now()
	a.log.Info("window opened", "width", a.cfg.Window.Width, "height", a.cfg.Window.Height, "settings", a.sess.Path())
	for !rl.WindowShouldClose() && !a.quit {
		now := time.Now()
		a.Update(now)
		a.Draw(now)
	}
	return a.sess.Close()
}

func (a *App) Update(now time.Time) {
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.quit = true
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		if err := a.sess.Toggle(); err != nil {
			a.fail("save failed", err)
		}
		if a.sess.Mode() == session.Running {
			a.selected = -1
		}
	}

	if wheel := rl.GetMouseWheelMove(); wheel > 0 {
		a.sess.ZoomIn()
	} else if wheel < 0 {
		a.sess.ZoomOut()
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.sess.SetSpeed(a.sess.Speed() + speedStep)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.sess.SetSpeed(a.sess.Speed() - speedStep)
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		a.sess.SetSustainRelease(a.sess.SustainRelease() + sustainStep)
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		a.sess.SetSustainRelease(a.sess.SustainRelease() - sustainStep)
	}

	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.sess.ToggleRecording(now); err != nil {
			a.fail("recording failed", err)
		} else if p := a.sess.RecordingPath(); p != "" {
			a.show(now, "recording to "+p)
		}
	}
	if rl.IsKeyPressed(rl.KeyO) {
		a.open(now)
	}

	if a.sess.Mode() == session.Editing {
		a.updateEditing(now)
	}

	a.sess.Tick(now)
}

func (a *App) updateEditing(now time.Time) {
	switch {
	case rl.IsKeyPressed(rl.KeyUp):
		a.draft.grow(1)
	case rl.IsKeyPressed(rl.KeyDown):
		a.draft.grow(-1)
	case rl.IsKeyPressed(rl.KeyRight):
		a.draft.stretch(1)
	case rl.IsKeyPressed(rl.KeyLeft):
		a.draft.stretch(-1)
	case rl.IsKeyPressed(rl.KeyM):
		a.draft.nextMoons()
	case rl.IsKeyPressed(rl.KeyS):
		a.draft.nextScale()
	}

	if (rl.IsKeyPressed(rl.KeyDelete) || rl.IsKeyPressed(rl.KeyBackspace)) && a.selected >= 0 {
		if err := a.sess.DeletePlanet(a.selected); err != nil {
			a.fail("delete failed", err)
		}
		a.selected = -1
	}

	if !rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		return
	}
	at := mouse()
	if i, ok := a.sess.HitTest(at); ok {
		if a.selected == i {
			a.selected = -1
		} else {
			a.selected = i
		}
		return
	}
	a.selected = -1
	if _, err := a.sess.AddOrbit(a.draft.request(at)); err != nil {
		a.fail("cannot add orbit", err)
		return
	}
	a.show(now, fmt.Sprintf("orbit added: size %d, %d moons", a.draft.Size, a.draft.Moons))
}

// open asks for a settings file and loads it. A cancelled dialog is a no-op.
func (a *App) open(now time.Time) {
	path, err := zenity.SelectFile(
		zenity.Title("Open Settings"),
		zenity.FileFilters{{
			Name:     "Settings",
			Patterns: []string{"*.ini"},
		}},
	)
	if err != nil {
		if !errors.Is(err, zenity.ErrCanceled) {
			a.fail("file dialog failed", err)
		}
		return
	}
	if err := a.sess.Load(path); err != nil {
		a.fail("cannot load "+path, err)
		return
	}
	a.selected = -1
	a.show(now, "loaded "+path)
}

func (a *App) show(now time.Time, msg string) {
	a.notice = msg
	a.noticeUntil = now.Add(noticeTime)
}

func (a *App) fail(msg string, err error) {
	a.log.Error(msg, "error", err)
	a.show(time.Now(), fmt.Sprintf("%s: %v", msg, err))
}

func (a *App) Draw(now time.Time) {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(a.theme.Background.R, a.theme.Background.G, a.theme.Background.B, 255))

	editing := a.sess.Mode() == session.Editing
	viz.DrawScene(a.surf, viz.Scene{
		System:      a.sess.System(),
		View:        a.sess.Viewport(),
		Width:       float64(a.cfg.Window.Width),
		Height:      float64(a.cfg.Window.Height),
		Theme:       a.theme,
		Editing:     editing,
		Cursor:      mouse(),
		ShowPreview: editing && a.selected < 0,
		Selected:    a.selected,
		Time:        now.Sub(a.started).Seconds(),
	})
	a.drawHUD(now)

	rl.EndDrawing()
}

func (a *App) drawHUD(now time.Time) {
	w, h := a.cfg.Window.Width, a.cfg.Window.Height

	a.drawText("polyorbit", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.sess.Path()), 170, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	if a.sess.Mode() == session.Editing {
		status, col = "EDITING", ColText
	}
	if a.sess.Dirty() {
		status += " *"
	}
	a.drawText(status, w-130, 30, 16, col)
	if a.sess.Recording() {
		a.drawText("● REC", w-130, 52, 16, ColRecord)
	}

	a.drawText(fmt.Sprintf("SPEED %.1fx   SUSTAIN %.1fs   ZOOM %.2f   BODIES %d",
		a.sess.Speed(), a.sess.SustainRelease(), a.sess.Zoom(), a.sess.System().Len()), 30, 60, 14, ColText)

	if a.sess.Mode() == session.Editing {
		a.drawText(fmt.Sprintf("NEXT ORBIT  size %d  ecc %.2f  moons %d  %s",
			a.draft.Size, a.draft.Eccentricity, a.draft.Moons, a.draft.ScaleName()), 30, 82, 14, ColText)
		a.drawText("[CLICK] ADD/SELECT  [DEL] DELETE  [UP/DOWN] SIZE  [LEFT/RIGHT] ECC  [M] MOONS  [S] SCALE", 30, h-62, 14, ColTextDim)
	}
	a.drawText("[SPACE] EDIT  [+/-] SPEED  [[/]] SUSTAIN  [R] RECORD  [O] OPEN  [ESC] QUIT", 30, h-40, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), w-90, h-40, 14, ColTextDim)

	if now.Before(a.noticeUntil) {
		a.drawText(a.notice, 30, 104, 14, ColSelect)
	}

	a.drawSpectrum(w-30-spectrumBars*6, 80)
}

func (a *App) drawSpectrum(x, y int) {
	if a.engine == nil || !a.engine.Active {
		a.drawText("AUDIO [OFF]", x, y, 14, ColRecord)
		return
	}
	bands := a.engine.Tap().Spectrum(spectrumBars)
	const height = 40
	for i, v := range bands {
		bh := int32(min(v*4, 1) * height)
		c := a.theme.Spectrum(float64(i) / float64(spectrumBars-1))
		rl.DrawRectangle(int32(x+i*6), int32(y+height)-bh, 4, bh, rl.NewColor(c.R, c.G, c.B, c.A))
	}
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func mouse() orbit.Vec2 {
	p := rl.GetMousePosition()
	return orbit.Vec2{X: float64(p.X), Y: float64(p.Y)}
}
