// Package orbit implements the orbital engine: body records, motion,
// projection to screen space and the crossing trigger.
//
// The package is pure computation over in-memory state:
//
//   - [Body]: a planet or a moon, distinguished by its Parent index
//   - [System]: arena of bodies in configuration order
//   - [Advance]: closed-form angular motion
//   - [Crossed]: discrete zero-crossing test against the centre line
//   - [Trigger]: fires envelopes and glow pulses on crossings
//
// # Example
//
//	sys := orbit.NewSystem()
//	p, _ := sys.AddPlanet(orbit.Body{Radius: 100, Size: 20, Frequency: 220})
//	sys.Prime(center)
//	for {
//	    trig.Decay(sys)
//	    trig.Fire(sys, sys.Step(speed, center))
//	}
//
// # Thread Safety
//
// System and Trigger are NOT thread-safe. A single goroutine owns them;
// envelopes handed to Trigger must not block.
package orbit
