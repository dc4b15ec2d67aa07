package generation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dawoe/modelforge/internal/engines"
	"github.com/dawoe/modelforge/internal/fingerprint"
	"github.com/dawoe/modelforge/internal/pipeline"
	"github.com/dawoe/modelforge/internal/schema"
	"github.com/dawoe/modelforge/internal/source"
)

// ArtifactStore persists a (fingerprint, artifact) pair across
// restarts. Load failures of any kind surface as a miss; Save errors
// are logged and ignored by the cache. *store.Store is the production
// implementation.
type ArtifactStore interface {
	Load(ctx context.Context, expected fingerprint.Fingerprint) ([]byte, bool)
	Save(ctx context.Context, fp fingerprint.Fingerprint, artifact []byte, generatedSource string) error
}

// Cache holds the current model generation and implements the
// double-checked-locking rebuild protocol documented in the package
// comment.
//
// Thread-safety model:
//   - CreateModel / EnsureModels: safe from any goroutine
//   - Invalidate: safe from any goroutine, including concurrently
//     with in-flight reads
//   - at most one rebuild runs at a time; callers that trigger or
//     wait on one block until it completes or fails
type Cache struct {
	dir     *source.Dir
	schema  schema.Provider
	pipe    pipeline.BuildPipeline
	store   ArtifactStore // nil disables persistence
	engines *engines.Coordinator
	log     *slog.Logger

	mu        sync.RWMutex
	current   *Generation
	hasModels bool
	// pending forces the next rebuild to skip the persisted artifact
	// check. Set by Invalidate: an external schema change may carry
	// semantics the fingerprint cannot see (e.g. a converter change),
	// so the original contract is "invalidate means recompile".
	pending bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithArtifactStore enables persisted artifact reuse across restarts.
func WithArtifactStore(s ArtifactStore) Option {
	return func(c *Cache) { c.store = s }
}

// WithEngines registers the external engines notified around every
// rebuild. Engines cannot be added or removed later.
func WithEngines(coordinator *engines.Coordinator) Option {
	return func(c *Cache) { c.engines = coordinator }
}

// WithLogger sets the cache's logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// NewCache creates a cache over the given working directory, schema
// provider, and build pipeline. The cache starts without models; the
// first EnsureModels call performs the initial build.
func NewCache(dir *source.Dir, provider schema.Provider, pipe pipeline.BuildPipeline, opts ...Option) *Cache {
	c := &Cache{
		dir:     dir,
		schema:  provider,
		pipe:    pipe,
		engines: engines.NewCoordinator(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateModel resolves the current generation (rebuilding it if
// stale), looks up the node's type alias case-insensitively, and
// returns the decorated node, or the node unchanged when no model is
// bound to its alias. The only failure mode is a propagated rebuild
// failure.
func (c *Cache) CreateModel(node schema.Node) (schema.Node, error) {
	gen, err := c.EnsureModels()
	if err != nil {
		return nil, err
	}
	if ctor, ok := gen.Lookup(node.TypeAlias()); ok {
		return ctor(node), nil
	}
	return node, nil
}

// Invalidate marks the current generation stale and forces the next
// rebuild to recompile rather than reuse the persisted artifact.
// Idempotent; called by collaborators in response to schema or
// data-type change notifications.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.hasModels = false
	c.pending = true
	c.mu.Unlock()
}

// HasModels reports whether a valid generation is currently
// installed, without triggering a rebuild.
func (c *Cache) HasModels() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hasModels
}

// EnsureModels returns the current valid generation, rebuilding first
// if the cache is stale or empty.
//
// Fast path: a read lock and two field reads. The write lock is taken
// only when the generation is invalid, and validity is re-checked
// under it because another goroutine may have rebuilt while this one
// waited. Callers that lose that race return the fresh generation
// without rebuilding; callers that observe a failed attempt's window
// receive the error and the cache stays stale for the next retry.
func (c *Cache) EnsureModels() (*Generation, error) {
	c.mu.RLock()
	if c.hasModels {
		gen := c.current
		c.mu.RUnlock()
		return gen, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasModels {
		return c.current, nil
	}

	forced := c.pending
	log := c.log.With(
		slog.String("rebuild_id", uuid.NewString()),
		slog.Bool("forced", forced),
	)
	log.Info("model rebuild starting")

	gen, err := c.rebuildNotified(forced, log)
	if err != nil {
		log.Error("model rebuild failed", slog.Any("error", err))
		return nil, err
	}

	// Single reference swap: readers either see the old complete
	// generation or this new complete one, never anything between.
	c.current = gen
	c.hasModels = true
	c.pending = false
	log.Info("model rebuild complete",
		slog.Int("models", gen.Len()),
		slog.String("fingerprint", string(gen.Fingerprint())),
	)
	return gen, nil
}

// rebuildNotified wraps rebuild in the engine notification pair.
// Rebuilt must fire even when the rebuild fails, so engines can
// release whatever state Rebuilding made them take.
func (c *Cache) rebuildNotified(forced bool, log *slog.Logger) (*Generation, error) {
	c.engines.Rebuilding()
	defer c.engines.Rebuilt()
	return c.rebuild(forced, log)
}

// rebuild performs one rebuild attempt. Caller holds the write lock,
// which also serializes all filesystem and store access.
func (c *Cache) rebuild(forced bool, log *slog.Logger) (*Generation, error) {
	if err := c.dir.Ensure(); err != nil {
		return nil, err
	}

	fragments, err := c.dir.ReadFragments()
	if err != nil {
		return nil, err
	}
	types, err := c.schema.GetAll()
	if err != nil {
		return nil, err
	}

	fp, err := fingerprint.Compute(fragments, types)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	if !forced && c.store != nil {
		if gen, ok := c.loadPersisted(ctx, fp, log); ok {
			return gen, nil
		}
	}

	src, err := c.pipe.GenerateSource(fragments, types)
	if err != nil {
		return nil, err
	}
	artifact, err := c.pipe.Compile(src)
	if err != nil {
		return nil, err
	}
	constructors, err := pipeline.RegisterConstructors(artifact)
	if err != nil {
		return nil, err
	}

	c.persist(ctx, fp, artifact, src, log)
	return newGeneration(fp, constructors), nil
}

// loadPersisted tries to reinstall a previously persisted artifact
// whose fingerprint matches. Every failure is a miss: a broken
// persisted cache falls through to a full rebuild and never fails the
// attempt.
func (c *Cache) loadPersisted(ctx context.Context, fp fingerprint.Fingerprint, log *slog.Logger) (*Generation, bool) {
	raw, ok := c.store.Load(ctx, fp)
	if !ok {
		return nil, false
	}

	artifact, err := c.pipe.DecodeArtifact(raw)
	if err != nil {
		log.Warn("persisted artifact unreadable, rebuilding", slog.Any("error", err))
		return nil, false
	}
	constructors, err := pipeline.RegisterConstructors(artifact)
	if err != nil {
		log.Warn("persisted artifact rejected, rebuilding", slog.Any("error", err))
		return nil, false
	}

	log.Info("reusing persisted artifact", slog.String("fingerprint", string(fp)))
	return newGeneration(fp, constructors), true
}

// persist writes the new generation to the store and mirrors the
// generated source and fingerprint into the working directory. All
// writes are best-effort: the in-memory generation is already valid,
// so failures are logged and ignored.
func (c *Cache) persist(ctx context.Context, fp fingerprint.Fingerprint, artifact *pipeline.Artifact, src string, log *slog.Logger) {
	if c.store != nil {
		raw, err := c.pipe.EncodeArtifact(artifact)
		if err != nil {
			log.Warn("artifact not persisted", slog.Any("error", err))
		} else if err := c.store.Save(ctx, fp, raw, src); err != nil {
			log.Warn("artifact not persisted", slog.Any("error", err))
		}
	}

	if err := c.dir.WriteGeneratedSource(src); err != nil {
		log.Warn("generated source not written", slog.Any("error", err))
	}
	if err := c.dir.WriteFingerprint(string(fp)); err != nil {
		log.Warn("fingerprint not written", slog.Any("error", err))
	}
}
