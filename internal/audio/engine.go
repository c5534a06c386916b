package audio

import (
	"fmt"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gordonklaus/portaudio"
	"github.com/hashicorp/go-hclog"

	"github.com/san-kum/polyorbit/internal/config"
)

// Engine mixes voices into the default output device.
type Engine struct {
	log    hclog.Logger
	rate   beep.SampleRate
	frames int
	volume float64

	mu     sync.Mutex
	voices []*Voice
	mix    [][2]float64
	tmp    [][2]float64

	tap *Tap

	recMu sync.Mutex
	rec   *Recorder

	stream *portaudio.Stream
	Active bool
}

func NewEngine(cfg config.AudioConfig, log hclog.Logger) *Engine {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Engine{
		log:    log.Named("audio"),
		rate:   beep.SampleRate(cfg.SampleRate),
		frames: cfg.BufferFrames,
		volume: cfg.Volume,
		mix:    make([][2]float64, cfg.BufferFrames),
		tmp:    make([][2]float64, cfg.BufferFrames),
		tap:    NewTap(TapSize),
	}
}

func (e *Engine) SampleRate() beep.SampleRate { return e.rate }

func (e *Engine) Tap() *Tap { return e.tap }

// Start opens the default output stream: stereo, non-interleaved.
func (e *Engine) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: init: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(e.rate), e.frames, e.process)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio: start stream: %w", err)
	}

	e.stream = stream
	e.Active = true
	e.log.Info("output started", "rate", int(e.rate), "frames", e.frames)
	return nil
}

func (e *Engine) Stop() error {
	err := e.StopRecording()
	if e.stream != nil {
		e.stream.Stop()
		e.stream.Close()
		e.stream = nil
		portaudio.Terminate()
	}
	e.Active = false
	return err
}

func (e *Engine) Add(v *Voice) {
	e.mu.Lock()
	e.voices = append(e.voices, v)
	e.mu.Unlock()
}

func (e *Engine) Remove(v *Voice) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, x := range e.voices {
		if x == v {
			e.voices = append(e.voices[:i], e.voices[i+1:]...)
			return
		}
	}
}

func (e *Engine) Voices() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.voices)
}

func (e *Engine) eachVoice(fn func(v *Voice)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, v := range e.voices {
		fn(v)
	}
}

// Render mixes one block of every voice into out, applies the master volume,
// and feeds the tap and the active recording.
func (e *Engine) Render(out [][2]float64) {
	e.mu.Lock()
	if len(e.tmp) < len(out) {
		e.tmp = make([][2]float64, len(out))
	}
	for i := range out {
		out[i] = [2]float64{}
	}
	tmp := e.tmp[:len(out)]
	for _, v := range e.voices {
		v.Stream(tmp)
		for i := range out {
			out[i][0] += tmp[i][0]
			out[i][1] += tmp[i][1]
		}
	}
	e.mu.Unlock()

	for i := range out {
		out[i][0] = clip(out[i][0] * e.volume)
		out[i][1] = clip(out[i][1] * e.volume)
	}

	e.tap.Write(out)

	e.recMu.Lock()
	if e.rec != nil {
		e.rec.Write(out)
	}
	e.recMu.Unlock()
}

func (e *Engine) process(out [][]float32) {
	n := len(out[0])
	if len(e.mix) < n {
		e.mix = make([][2]float64, n)
	}
	buf := e.mix[:n]
	e.Render(buf)
	for i := range buf {
		out[0][i] = float32(buf[i][0])
		out[1][i] = float32(buf[i][1])
	}
}

// StartRecording writes the mixed output to a new WAV file at path,
// replacing any recording in progress.
func (e *Engine) StartRecording(path string) error {
	rec, err := NewRecorder(path, e.rate)
	if err != nil {
		return err
	}
	e.recMu.Lock()
	prev := e.rec
	e.rec = rec
	e.recMu.Unlock()

	if prev != nil {
		if err := prev.Close(); err != nil {
			e.log.Warn("closing previous recording", "error", err)
		}
	}
	return nil
}

func (e *Engine) StopRecording() error {
	e.recMu.Lock()
	rec := e.rec
	e.rec = nil
	e.recMu.Unlock()

	if rec == nil {
		return nil
	}
	if n := rec.Dropped(); n > 0 {
		e.log.Warn("recording dropped blocks", "path", rec.Path(), "blocks", n)
	}
	return rec.Close()
}

func clip(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
