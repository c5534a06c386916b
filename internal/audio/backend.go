package audio

import (
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/san-kum/polyorbit/internal/orbit"
)

// Backend binds bodies to voices on an Engine. Missing or unreadable sample
// files fall back to the body's sine tone.
type Backend struct {
	engine *Engine
	log    hclog.Logger

	mu      sync.Mutex
	samples map[string][][2]float64
}

func NewBackend(engine *Engine, log hclog.Logger) *Backend {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Backend{
		engine:  engine,
		log:     log.Named("audio"),
		samples: make(map[string][][2]float64),
	}
}

func (b *Backend) Bind(body orbit.Body, sustainRelease float64) (orbit.Envelope, error) {
	v := NewVoice(body.Frequency, body.Size, sustainRelease, b.engine.SampleRate())
	if body.SoundFile != "" {
		data, err := b.sample(body.SoundFile)
		if err != nil {
			b.log.Warn("sample unavailable, using sine tone", "file", body.SoundFile, "body", body.ID, "error", err)
		} else {
			v.SetSample(data)
		}
	}
	b.engine.Add(v)
	return v, nil
}

func (b *Backend) Unbind(env orbit.Envelope) {
	if v, ok := env.(*Voice); ok {
		b.engine.Remove(v)
	}
}

func (b *Backend) SetSustainRelease(sr float64) {
	b.engine.eachVoice(func(v *Voice) { v.SetSustainRelease(sr) })
}

func (b *Backend) StartRecording(path string) error {
	return b.engine.StartRecording(path)
}

func (b *Backend) StopRecording() error {
	return b.engine.StopRecording()
}

func (b *Backend) sample(path string) ([][2]float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if data, ok := b.samples[path]; ok {
		return data, nil
	}
	data, err := LoadSample(path, b.engine.SampleRate())
	if err != nil {
		return nil, err
	}
	b.samples[path] = data
	return data, nil
}
