package viz

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/polyorbit/internal/orbit"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille dot grid. As a Surface it maps a source frame of
// SrcW x SrcH pixels onto its dots, preserving aspect ratio.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]color.RGBA
	text          [][]rune

	scale  float64
	offset orbit.Vec2
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]color.RGBA, h),
		text:   make([][]rune, h),
		scale:  1,
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]color.RGBA, w)
		c.text[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Fit scales a srcW x srcH frame to the dot grid and centres it.
func (c *Canvas) Fit(srcW, srcH float64) {
	dw, dh := float64(c.Width*2), float64(c.Height*4)
	if srcW <= 0 || srcH <= 0 {
		c.scale, c.offset = 1, orbit.Vec2{}
		return
	}
	c.scale = math.Min(dw/srcW, dh/srcH)
	c.offset = orbit.Vec2{X: (dw - srcW*c.scale) / 2, Y: (dh - srcH*c.scale) / 2}
}

// Unproject maps the centre of cell (col, row) back to source coordinates.
func (c *Canvas) Unproject(col, row int) orbit.Vec2 {
	d := orbit.Vec2{X: float64(col*2 + 1), Y: float64(row*4 + 2)}
	return d.Sub(c.offset).Scale(1 / c.scale)
}

// Set sets a dot at (x, y) in dot coordinates.
// The canvas size in dots is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	c.set(x, y, color.RGBA{})
}

func (c *Canvas) set(x, y int, col color.RGBA) {
	if x < 0 || y < 0 {
		return
	}

	cx := x / 2
	row := y / 4
	if cx >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][cx] |= rune(pixelMap[y%4][x%2])
	if col.A > 0 {
		c.Colors[row][cx] = col
	}
}

// Unset clears a dot
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	cx := x / 2
	row := y / 4
	if cx >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][cx] &= ^rune(pixelMap[y%4][x%2])
	if c.Grid[row][cx] < blank {
		c.Grid[row][cx] = blank
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = color.RGBA{}
			c.text[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	c.drawLine(x0, y0, x1, y1, color.RGBA{})
}

func (c *Canvas) drawLine(x0, y0, x1, y1 int, col color.RGBA) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) dot(p orbit.Vec2) (int, int) {
	q := p.Scale(c.scale).Add(c.offset)
	return int(math.Round(q.X)), int(math.Round(q.Y))
}

func (c *Canvas) Line(a, b orbit.Vec2, col color.RGBA) {
	if !a.IsFinite() || !b.IsFinite() {
		return
	}
	x0, y0 := c.dot(a)
	x1, y1 := c.dot(b)
	// lines far outside the grid would walk millions of dots
	lim := 4 * (c.Width*2 + c.Height*4)
	if absInt(x0) > lim || absInt(y0) > lim || absInt(x1) > lim || absInt(y1) > lim {
		return
	}
	c.drawLine(x0, y0, x1, y1, col)
}

// Circle fills a disc. Discs smaller than a dot still set one dot.
func (c *Canvas) Circle(center orbit.Vec2, radius float64, col color.RGBA) {
	if !center.IsFinite() {
		return
	}
	x0, y0 := c.dot(center)
	r := radius * c.scale
	ri := int(math.Ceil(r))
	if ri > c.Width*2+c.Height*4 {
		ri = c.Width*2 + c.Height*4
	}
	c.set(x0, y0, col)
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dy*dy) <= r*r {
				c.set(x0+dx, y0+dy, col)
			}
		}
	}
}

// Text writes s centred on a cell row; text cells replace dots.
func (c *Canvas) Text(center orbit.Vec2, s string, col color.RGBA) {
	x, y := c.dot(center)
	row := y / 4
	if row < 0 || row >= c.Height {
		return
	}
	runes := []rune(s)
	start := x/2 - len(runes)/2
	for i, r := range runes {
		cx := start + i
		if cx < 0 || cx >= c.Width {
			continue
		}
		c.text[row][cx] = r
		c.Colors[row][cx] = col
	}
}

func (c *Canvas) cell(row, col int) rune {
	if r := c.text[row][col]; r != 0 {
		return r
	}
	return c.Grid[row][col]
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i := range c.Grid {
		for j := range c.Grid[i] {
			b.WriteRune(c.cell(i, j))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Render is String with each cell coloured by the last colour drawn into it.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i := range c.Grid {
		var run strings.Builder
		var cur color.RGBA
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur.A == 0 {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(Lip(cur)).Render(run.String()))
			}
			run.Reset()
		}
		for j := range c.Grid[i] {
			col := c.Colors[i][j]
			if c.cell(i, j) == blank {
				col = color.RGBA{}
			}
			if col != cur {
				flush()
				cur = col
			}
			run.WriteRune(c.cell(i, j))
		}
		flush()
		b.WriteString("\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
