package metrics

import "github.com/san-kum/polyorbit/internal/orbit"

// CrossingRate is the average number of crossings per 1000 ticks.
type CrossingRate struct {
	name      string
	crossings int
	ticks     int
}

func NewCrossingRate() *CrossingRate {
	return &CrossingRate{name: "crossings_per_1k"}
}

func (c *CrossingRate) Name() string { return c.name }

func (c *CrossingRate) Observe(tick int, sys *orbit.System, crossings []orbit.Crossing) {
	c.crossings += len(crossings)
	c.ticks++
}

func (c *CrossingRate) Value() float64 {
	if c.ticks == 0 {
		return 0
	}
	return 1000 * float64(c.crossings) / float64(c.ticks)
}

func (c *CrossingRate) Reset() {
	c.crossings = 0
	c.ticks = 0
}
