// Package generation implements the rebuild coordination and
// staleness-detection engine at the heart of modelforge.
//
// A Generation is one immutable snapshot of the alias-to-constructor
// mapping. The Cache owns the single current generation and decides
// when to replace it.
//
// ARCHITECTURE:
//
// Double-Checked Locking:
// CreateModel's fast path takes only a read lock and a map lookup.
// Only a stale cache escalates to the write lock, and the staleness
// check is repeated under the write lock because another goroutine
// may have rebuilt while we waited.
//
// Rebuild Flow (under the write lock):
//  1. Notify engines a rebuild is starting
//  2. Read fragments and descriptors fresh, compute the fingerprint
//  3. Unless the rebuild is forced, try the persisted artifact store;
//     a fingerprint hit skips source generation and compilation
//  4. Otherwise generate source, compile, and persist (best-effort)
//  5. Register constructors and install the generation atomically
//  6. Notify engines the rebuild finished (success or failure alike)
//
// INVARIANTS:
//
// At most one rebuild runs at a time. Readers never observe a
// half-built generation: installation is a single pointer swap under
// the write lock. The installed constructor mapping always
// corresponds exactly to the most recently confirmed fingerprint.
// A failed rebuild leaves the cache stale, so the next caller retries
// from scratch; nothing from a failed attempt is memoized.
package generation
