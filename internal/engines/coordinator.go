// Package engines coordinates external collaborators that must pause
// some activity (file watching, request serving) around a model
// rebuild.
package engines

// RebuildEngine is an external collaborator notified around rebuilds.
//
// Engines cannot observe the rebuild outcome: NotifyRebuilt fires
// after success and after failure alike, carrying no payload. An
// engine that needs the result must consult the cache itself.
type RebuildEngine interface {
	// NotifyRebuilding fires before a rebuild starts. An engine
	// typically takes a lock or pauses activity here.
	NotifyRebuilding()

	// NotifyRebuilt fires after the rebuild attempt finishes,
	// regardless of outcome. Always paired one-to-one with a prior
	// NotifyRebuilding, so engines can release whatever
	// NotifyRebuilding took.
	NotifyRebuilt()
}

// Coordinator fans rebuild notifications out to a fixed set of
// engines. Engines are supplied once at construction; there is no
// dynamic add or remove.
//
// Contract: per rebuild cycle, every engine receives exactly one
// NotifyRebuilding (in registration order) and exactly one later
// NotifyRebuilt, no matter how the rebuild ends.
type Coordinator struct {
	engines []RebuildEngine
}

// NewCoordinator creates a coordinator over the given engines. The
// slice is copied so later caller mutation cannot change the
// registration order.
func NewCoordinator(engines ...RebuildEngine) *Coordinator {
	copied := make([]RebuildEngine, len(engines))
	copy(copied, engines)
	return &Coordinator{engines: copied}
}

// Rebuilding notifies every engine, in registration order, that a
// rebuild is about to start.
func (c *Coordinator) Rebuilding() {
	for _, e := range c.engines {
		e.NotifyRebuilding()
	}
}

// Rebuilt notifies every engine that the rebuild attempt finished.
// Callers must invoke it exactly once for every Rebuilding call,
// normally via defer so failures cannot skip it.
func (c *Coordinator) Rebuilt() {
	for _, e := range c.engines {
		e.NotifyRebuilt()
	}
}

// Len returns the number of registered engines.
func (c *Coordinator) Len() int { return len(c.engines) }
