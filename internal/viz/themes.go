package viz

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme is the colour scheme of a scene and of the terminal chrome around it.
type Theme struct {
	Name        string
	Background  color.RGBA
	CenterLine  color.RGBA
	PlanetOrbit color.RGBA
	MoonOrbit   color.RGBA
	Planet      color.RGBA
	Moon        color.RGBA
	Center      color.RGBA
	Preview     color.RGBA
	Selected    color.RGBA
	EditText    color.RGBA
	SpectrumLow color.RGBA
	SpectrumHi  color.RGBA
}

var (
	ThemeClassic = Theme{
		Name:        "classic",
		Background:  rgb(0, 0, 0),
		CenterLine:  rgb(255, 0, 0),
		PlanetOrbit: rgb(128, 0, 128),
		MoonOrbit:   rgb(0, 0, 255),
		Planet:      rgb(255, 255, 255),
		Moon:        rgb(0, 0, 255),
		Center:      rgb(255, 255, 255),
		Preview:     rgb(255, 255, 255),
		Selected:    rgb(255, 255, 0),
		EditText:    rgb(255, 255, 0),
		SpectrumLow: rgb(0, 0, 255),
		SpectrumHi:  rgb(255, 0, 0),
	}

	ThemeEmber = Theme{
		Name:        "ember",
		Background:  rgb(0x2d, 0x1b, 0x2e),
		CenterLine:  rgb(0xff, 0x47, 0x57),
		PlanetOrbit: rgb(0x8b, 0x6b, 0x8c),
		MoonOrbit:   rgb(0xfe, 0xca, 0x57),
		Planet:      rgb(0xff, 0xf5, 0xf5),
		Moon:        rgb(0xff, 0x9f, 0xf3),
		Center:      rgb(0xff, 0xf5, 0xf5),
		Preview:     rgb(0xfe, 0xca, 0x57),
		Selected:    rgb(0x5f, 0xd0, 0x68),
		EditText:    rgb(0xff, 0xc0, 0x48),
		SpectrumLow: rgb(0xff, 0x6b, 0x6b),
		SpectrumHi:  rgb(0xfe, 0xca, 0x57),
	}

	ThemeMono = Theme{
		Name:        "mono",
		Background:  rgb(0, 0, 0),
		CenterLine:  rgb(0x88, 0x88, 0x88),
		PlanetOrbit: rgb(0x66, 0x66, 0x66),
		MoonOrbit:   rgb(0x44, 0x44, 0x44),
		Planet:      rgb(0xff, 0xff, 0xff),
		Moon:        rgb(0xcc, 0xcc, 0xcc),
		Center:      rgb(0xff, 0xff, 0xff),
		Preview:     rgb(0xcc, 0xcc, 0xcc),
		Selected:    rgb(0x00, 0x88, 0xff),
		EditText:    rgb(0xff, 0xff, 0xff),
		SpectrumLow: rgb(0x44, 0x44, 0x44),
		SpectrumHi:  rgb(0xff, 0xff, 0xff),
	}

	Themes = []Theme{
		ThemeClassic,
		ThemeEmber,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to classic.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Spectrum blends from SpectrumLow to SpectrumHi in HCL space; v is clamped
// to [0, 1].
func (t Theme) Spectrum(v float64) color.RGBA {
	v = clamp01(v)
	lo := toColorful(t.SpectrumLow)
	hi := toColorful(t.SpectrumHi)
	return fromColorful(lo.BlendHcl(hi, v).Clamped(), 255)
}

// Halo is the translucent ring drawn around a glowing body. Brighter glows
// are lighter and more opaque.
func Halo(base color.RGBA, glow float64) color.RGBA {
	a := clamp01(glow / 255)
	c := toColorful(base).BlendLab(colorful.Color{R: 1, G: 1, B: 1}, a*0.3)
	return fromColorful(c.Clamped(), uint8(a*255))
}

// Lip converts c for lipgloss styles.
func Lip(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(toColorful(c).Hex())
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 255} }

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color, a uint8) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: a}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
