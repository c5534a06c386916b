package audio

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

const recorderQueue = 256

// Recorder encodes blocks of output into a 16-bit stereo WAV file. Blocks
// are handed to an encoder goroutine; when it falls behind, blocks are
// dropped rather than stalling the audio thread.
type Recorder struct {
	path    string
	mu      sync.Mutex
	closed  bool
	blocks  chan [][2]float64
	done    chan error
	dropped atomic.Int64
}

func NewRecorder(path string, rate beep.SampleRate) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	r := &Recorder{
		path:   path,
		blocks: make(chan [][2]float64, recorderQueue),
		done:   make(chan error, 1),
	}
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	go func() {
		err := wav.Encode(f, &blockStreamer{blocks: r.blocks}, format)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		r.done <- err
	}()
	return r, nil
}

func (r *Recorder) Path() string { return r.path }

func (r *Recorder) Dropped() int64 { return r.dropped.Load() }

// Write queues a copy of frames. It never blocks.
func (r *Recorder) Write(frames [][2]float64) {
	if len(frames) == 0 {
		return
	}
	cp := make([][2]float64, len(frames))
	copy(cp, frames)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.blocks <- cp:
	default:
		r.dropped.Add(1)
	}
}

// Close flushes queued blocks, finalises the WAV header and closes the file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.blocks)
	r.mu.Unlock()
	return <-r.done
}

// blockStreamer adapts the block channel to beep.Streamer. It blocks until
// enough frames arrive and ends when the channel is closed.
type blockStreamer struct {
	blocks  <-chan [][2]float64
	pending [][2]float64
}

func (s *blockStreamer) Stream(samples [][2]float64) (int, bool) {
	n := 0
	for n < len(samples) {
		if len(s.pending) == 0 {
			b, ok := <-s.blocks
			if !ok {
				return n, n > 0
			}
			s.pending = b
		}
		c := copy(samples[n:], s.pending)
		s.pending = s.pending[c:]
		n += c
	}
	return n, true
}

func (s *blockStreamer) Err() error { return nil }
