// Package export writes scenes to vector files.
package export

import (
	"fmt"
	"html"
	"image/color"
	"io"
	"math"
	"os"
	"strings"

	"github.com/san-kum/polyorbit/internal/orbit"
)

const textSize = 20

// SVG is a viz.Surface that collects drawing calls into an SVG document.
type SVG struct {
	Width, Height int
	Background    color.RGBA

	body     strings.Builder
	elements int
}

func NewSVG(width, height int, background color.RGBA) *SVG {
	return &SVG{Width: width, Height: height, Background: background}
}

func (s *SVG) Line(a, b orbit.Vec2, c color.RGBA) {
	if !a.IsFinite() || !b.IsFinite() {
		return
	}
	s.body.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"%s/>
`, a.X, a.Y, b.X, b.Y, hex(c), opacity("stroke-opacity", c)))
	s.elements++
}

func (s *SVG) Circle(center orbit.Vec2, radius float64, c color.RGBA) {
	if !center.IsFinite() || math.IsNaN(radius) || radius <= 0 {
		return
	}
	s.body.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"%s/>
`, center.X, center.Y, radius, hex(c), opacity("fill-opacity", c)))
	s.elements++
}

func (s *SVG) Text(center orbit.Vec2, text string, c color.RGBA) {
	s.body.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="monospace" font-size="%d" text-anchor="middle" dominant-baseline="middle" fill="%s"%s>%s</text>
`, center.X, center.Y, textSize, hex(c), opacity("fill-opacity", c), html.EscapeString(text)))
	s.elements++
}

// Elements is the number of shapes drawn so far.
func (s *SVG) Elements() int { return s.elements }

func (s *SVG) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.Width, s.Height, s.Width, s.Height, hex(s.Background)))
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

func (s *SVG) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func opacity(attr string, c color.RGBA) string {
	if c.A == 255 {
		return ""
	}
	return fmt.Sprintf(` %s="%.3f"`, attr, float64(c.A)/255)
}
