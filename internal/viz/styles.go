package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusEditing = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffff00"))

	StatusRecording = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444")).
			Blink(true)

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff0000"))

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// GradientText colours each rune of text along an HCL blend between two hex
// colours.
func GradientText(text string, start, end string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, err := colorful.Hex(start)
	if err != nil {
		return text
	}
	b, err := colorful.Hex(end)
	if err != nil {
		return text
	}

	var out strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := a.BlendHcl(b, t).Clamped()
		out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return out.String()
}

// ProgressBar renders v within [lo, hi] as a bar of width cells.
func ProgressBar(v, lo, hi float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct := 0.0
	if hi > lo {
		pct = (v - lo) / (hi - lo)
	}
	filled := int(pct * float64(width))
	filled = max(0, min(filled, width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if pct > 0.8 {
		return SparkHigh.Render(bar)
	} else if pct > 0.4 {
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline maps values onto block characters, scaled to the largest value.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	var b strings.Builder
	for _, v := range values {
		b.WriteRune(sparkRune(v, peak))
	}
	return b.String()
}

// Meter renders a spectrum as one block per band, coloured from low to high
// band along the theme's spectrum gradient.
func Meter(bands []float64, th Theme) string {
	peak := 0.0
	for _, v := range bands {
		peak = max(peak, v)
	}
	var b strings.Builder
	for i, v := range bands {
		t := 0.0
		if len(bands) > 1 {
			t = float64(i) / float64(len(bands)-1)
		}
		style := lipgloss.NewStyle().Foreground(Lip(th.Spectrum(t)))
		b.WriteString(style.Render(string(sparkRune(v, peak))))
	}
	return b.String()
}

func sparkRune(v, peak float64) rune {
	if peak <= 0 || v <= 0 {
		return sparkChars[0]
	}
	idx := int(v / peak * float64(len(sparkChars)-1))
	idx = max(0, min(idx, len(sparkChars)-1))
	return sparkChars[idx]
}
