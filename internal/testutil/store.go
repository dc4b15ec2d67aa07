package testutil

import (
	"context"
	"sync"

	"github.com/dawoe/modelforge/internal/fingerprint"
)

// StubStore is an in-memory ArtifactStore double with injectable
// faults: Save can be made to fail, and Load can be made to report a
// hit carrying undecodable bytes.
type StubStore struct {
	mu        sync.Mutex
	fp        fingerprint.Fingerprint
	artifact  []byte
	saveErr   error
	corrupted []byte
	saveCalls int
}

// FailSaves makes every subsequent Save return err.
func (s *StubStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// CorruptLoads makes every subsequent Load report a hit with raw,
// regardless of the expected fingerprint.
func (s *StubStore) CorruptLoads(raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corrupted = raw
}

func (s *StubStore) Load(ctx context.Context, expected fingerprint.Fingerprint) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.corrupted != nil {
		return s.corrupted, true
	}
	if s.fp != expected || len(s.artifact) == 0 {
		return nil, false
	}
	return s.artifact, true
}

func (s *StubStore) Save(ctx context.Context, fp fingerprint.Fingerprint, artifact []byte, generatedSource string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.fp = fp
	s.artifact = artifact
	return nil
}

// SaveCalls returns how often Save ran, failures included.
func (s *StubStore) SaveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCalls
}
