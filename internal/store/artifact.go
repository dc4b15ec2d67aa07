package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dawoe/modelforge/internal/fingerprint"
)

// Load returns the persisted artifact bytes when the stored
// fingerprint exactly matches expected.
//
// Any failure (no row, fingerprint mismatch, unreadable blob) is a
// miss, never an error: a broken persisted cache must silently fall
// through to a full rebuild, so callers only ever see (nil, false).
func (s *Store) Load(ctx context.Context, expected fingerprint.Fingerprint) ([]byte, bool) {
	var fp string
	var artifact []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT fingerprint, artifact FROM generations WHERE id = 1
	`).Scan(&fp, &artifact)
	if err != nil {
		return nil, false
	}
	if fp != string(expected) {
		return nil, false
	}
	if len(artifact) == 0 {
		return nil, false
	}
	return artifact, true
}

// Save persists the generation's fingerprint and artifact bytes,
// plus the generated source text for diagnostic inspection. The
// previous generation row is replaced.
//
// Persistence is best-effort by contract: the caller already holds a
// valid in-memory generation, so it logs and ignores any error
// returned here.
func (s *Store) Save(ctx context.Context, fp fingerprint.Fingerprint, artifact []byte, generatedSource string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generations (id, fingerprint, artifact, generated_source)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			artifact = excluded.artifact,
			generated_source = excluded.generated_source,
			built_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, string(fp), artifact, generatedSource)
	if err != nil {
		return fmt.Errorf("save generation: %w", err)
	}
	return nil
}

// Meta describes the persisted generation without loading its
// artifact. Used by diagnostics (the status command).
type Meta struct {
	Fingerprint fingerprint.Fingerprint
	BuiltAt     time.Time
	SourceBytes int
}

// ReadMeta returns metadata for the persisted generation, or false
// when nothing has been persisted yet.
func (s *Store) ReadMeta(ctx context.Context) (Meta, bool) {
	var fp, builtAt string
	var sourceBytes int
	err := s.db.QueryRowContext(ctx, `
		SELECT fingerprint, built_at, length(generated_source)
		FROM generations WHERE id = 1
	`).Scan(&fp, &builtAt, &sourceBytes)
	if err == sql.ErrNoRows {
		return Meta{}, false
	}
	if err != nil {
		return Meta{}, false
	}

	meta := Meta{Fingerprint: fingerprint.Fingerprint(fp), SourceBytes: sourceBytes}
	if ts, perr := time.Parse("2006-01-02T15:04:05.000Z", builtAt); perr == nil {
		meta.BuiltAt = ts
	}
	return meta, true
}

// ReadGeneratedSource returns the persisted generated source text,
// or false when nothing has been persisted.
func (s *Store) ReadGeneratedSource(ctx context.Context) (string, bool) {
	var src string
	err := s.db.QueryRowContext(ctx, `
		SELECT generated_source FROM generations WHERE id = 1
	`).Scan(&src)
	if err != nil {
		return "", false
	}
	return src, true
}
