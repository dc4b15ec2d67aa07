package testutil

import (
	"sync"

	"github.com/dawoe/modelforge/internal/schema"
)

// StaticProvider serves a fixed descriptor set and counts calls, so
// tests can assert the schema really is read fresh per rebuild.
type StaticProvider struct {
	mu    sync.Mutex
	types []schema.TypeDescriptor
	err   error
	calls int
}

// NewStaticProvider creates a provider serving the given descriptors.
func NewStaticProvider(types ...schema.TypeDescriptor) *StaticProvider {
	return &StaticProvider{types: types}
}

// SetTypes replaces the served descriptor set.
func (p *StaticProvider) SetTypes(types ...schema.TypeDescriptor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = types
}

// SetErr makes subsequent GetAll calls fail.
func (p *StaticProvider) SetErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// GetAll implements schema.Provider.
func (p *StaticProvider) GetAll() ([]schema.TypeDescriptor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	out := make([]schema.TypeDescriptor, len(p.types))
	copy(out, p.types)
	return out, nil
}

// Calls returns how often GetAll was invoked.
func (p *StaticProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
