package metrics

import "github.com/san-kum/polyorbit/internal/orbit"

// Brightness is the mean glow over all bodies and ticks, scaled to [0, 1].
type Brightness struct {
	name    string
	sum     float64
	samples int
}

func NewBrightness() *Brightness {
	return &Brightness{name: "brightness"}
}

func (b *Brightness) Name() string {
	return b.name
}

func (b *Brightness) Observe(tick int, sys *orbit.System, crossings []orbit.Crossing) {
	for i := 0; i < sys.Len(); i++ {
		b.sum += sys.Body(i).Glow / orbit.GlowMax
		b.samples++
	}
}

func (b *Brightness) Value() float64 {
	if b.samples == 0 {
		return 0
	}
	return b.sum / float64(b.samples)
}

func (b *Brightness) Reset() {
	b.sum = 0
	b.samples = 0
}
