package frame

import "sync"

// Recorder keeps a copy of every frame it consumes.
type Recorder struct {
	mu     sync.Mutex
	frames []Frame
	// Limit stops the loop after this many frames when non-zero.
	Limit int
}

func (r *Recorder) Consume(f Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	values := make(map[string]float64, len(f.Values))
	for k, v := range f.Values {
		values[k] = v
	}
	f.Values = values
	r.frames = append(r.frames, f)
	if r.Limit > 0 && len(r.frames) >= r.Limit {
		return ErrStop
	}
	return nil
}

// Frames returns the recorded frames.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}
