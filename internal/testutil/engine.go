package testutil

import "sync"

// RecordingEngine records the notification sequence it receives, so
// tests can verify the one-Rebuilding-then-one-Rebuilt pairing per
// rebuild cycle.
type RecordingEngine struct {
	mu         sync.Mutex
	rebuilding int
	rebuilt    int
	sequence   []string
}

func (e *RecordingEngine) NotifyRebuilding() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rebuilding++
	e.sequence = append(e.sequence, "rebuilding")
}

func (e *RecordingEngine) NotifyRebuilt() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rebuilt++
	e.sequence = append(e.sequence, "rebuilt")
}

// Counts returns how many Rebuilding and Rebuilt notifications were
// received.
func (e *RecordingEngine) Counts() (rebuilding, rebuilt int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rebuilding, e.rebuilt
}

// Sequence returns the notification order.
func (e *RecordingEngine) Sequence() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.sequence))
	copy(out, e.sequence)
	return out
}
