package session

import (
	"fmt"
	"path/filepath"
	"time"
)

// recorder tracks the time-boxed recording. Each chunk is written to its own
// recording_<n>.wav; a chunk that reaches its duration is closed and the next
// one started immediately.
type recorder struct {
	dir     string
	chunk   time.Duration
	active  bool
	started time.Time
	counter int
	path    string
}

func (r *recorder) start(now time.Time, b AudioBackend) error {
	path := filepath.Join(r.dir, fmt.Sprintf("recording_%d.wav", r.counter))
	if err := b.StartRecording(path); err != nil {
		return err
	}
	r.active = true
	r.started = now
	r.path = path
	return nil
}

func (r *recorder) stop(b AudioBackend) error {
	if !r.active {
		return nil
	}
	r.active = false
	r.counter++
	return b.StopRecording()
}

func (r *recorder) rotate(now time.Time, b AudioBackend) error {
	if !r.active || r.chunk <= 0 || now.Sub(r.started) < r.chunk {
		return nil
	}
	if err := r.stop(b); err != nil {
		return err
	}
	return r.start(now, b)
}

// ToggleRecording starts a new recording or stops the current one.
func (s *Session) ToggleRecording(now time.Time) error {
	if s.rec.active {
		path := s.rec.path
		if err := s.rec.stop(s.backend); err != nil {
			return fmt.Errorf("session: stop recording: %w", err)
		}
		s.log.Info("recording stopped", "path", path)
		return nil
	}
	if err := s.rec.start(now, s.backend); err != nil {
		return fmt.Errorf("session: start recording: %w", err)
	}
	s.log.Info("recording started", "path", s.rec.path)
	return nil
}

// RecordingPath is the file of the active chunk, or "" when not recording.
func (s *Session) RecordingPath() string {
	if !s.rec.active {
		return ""
	}
	return s.rec.path
}
