package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/polyorbit/internal/orbit"
)

const bannerSize = 36

// surface draws scenes straight into the current raylib frame.
type surface struct {
	font rl.Font
}

func (surface) Line(a, b orbit.Vec2, c color.RGBA) {
	rl.DrawLineV(vec(a), vec(b), col(c))
}

func (surface) Circle(center orbit.Vec2, radius float64, c color.RGBA) {
	rl.DrawCircleV(vec(center), float32(radius), col(c))
}

func (s surface) Text(center orbit.Vec2, text string, c color.RGBA) {
	size := rl.MeasureTextEx(s.font, text, bannerSize, 1)
	at := rl.NewVector2(float32(center.X)-size.X/2, float32(center.Y)-size.Y/2)
	rl.DrawTextEx(s.font, text, at, bannerSize, 1, col(c))
}

func vec(v orbit.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(v.X), float32(v.Y))
}

func col(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
