package session

import "github.com/san-kum/polyorbit/internal/orbit"

// AudioBackend produces envelopes for bodies and records the mixed output.
type AudioBackend interface {
	Bind(b orbit.Body, sustainRelease float64) (orbit.Envelope, error)
	Unbind(env orbit.Envelope)
	SetSustainRelease(v float64)
	StartRecording(path string) error
	StopRecording() error
}

// Discard is a backend that binds nothing and records nothing.
var Discard AudioBackend = discard{}

type discard struct{}

func (discard) Bind(orbit.Body, float64) (orbit.Envelope, error) { return nil, nil }

func (discard) Unbind(orbit.Envelope) {}

func (discard) SetSustainRelease(float64) {}

func (discard) StartRecording(string) error { return nil }

func (discard) StopRecording() error { return nil }
