package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/polyorbit/internal/orbit"
	"github.com/san-kum/polyorbit/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer draws every Every-th tick of a headless run as a braille
// frame. With Pace set it sleeps between frames so the run plays back at
// roughly real time.
type LiveRenderer struct {
	Every int
	Pace  time.Duration

	w      io.Writer
	canvas *viz.Canvas
	view   orbit.Viewport
	theme  viz.Theme
	width  float64
	height float64
	frames int
}

func NewLiveRenderer(w io.Writer, cols, rows int, view orbit.Viewport, width, height float64, theme viz.Theme) *LiveRenderer {
	c := viz.NewCanvas(cols, rows)
	c.Fit(width, height)
	return &LiveRenderer{
		Every:  1,
		w:      w,
		canvas: c,
		view:   view,
		theme:  theme,
		width:  width,
		height: height,
	}
}

func (r *LiveRenderer) OnTick(tick int, sys *orbit.System) {
	if r.Every > 1 && tick%r.Every != 0 {
		return
	}
	r.canvas.Clear()
	viz.DrawScene(r.canvas, viz.Scene{
		System:   sys,
		View:     r.view,
		Width:    r.width,
		Height:   r.height,
		Theme:    r.theme,
		Selected: -1,
	})

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  polyorbit  tick=%d  bodies=%d\n", tick, sys.Len()))
	b.WriteString(r.canvas.Render())
	fmt.Fprint(r.w, b.String())
	r.frames++

	if r.Pace > 0 {
		time.Sleep(r.Pace)
	}
}

// Frames is the number of frames drawn so far.
func (r *LiveRenderer) Frames() int { return r.frames }

func (r *LiveRenderer) Start() { fmt.Fprint(r.w, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.w, showCursor) }
