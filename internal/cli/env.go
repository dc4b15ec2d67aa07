package cli

import (
	"log/slog"

	"github.com/dawoe/modelforge/internal/cueschema"
	"github.com/dawoe/modelforge/internal/generation"
	"github.com/dawoe/modelforge/internal/pipeline"
	"github.com/dawoe/modelforge/internal/source"
	"github.com/dawoe/modelforge/internal/store"
)

// env wires the full stack a command operates on.
type env struct {
	cfg      *Config
	dir      *source.Dir
	store    *store.Store
	provider *cueschema.Provider
	cache    *generation.Cache
}

// newEnv builds the stack from configuration. The returned cleanup
// closes the artifact store and must always be deferred.
func newEnv(opts *RootOptions) (*env, func(), error) {
	cfg, err := LoadConfig(opts.Config)
	if err != nil {
		return nil, nil, err
	}

	dir := source.NewDir(cfg.WorkDir, cfg.SourceExt)
	if err := dir.Ensure(); err != nil {
		return nil, nil, err
	}

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, nil, err
	}

	provider := cueschema.NewProvider(cfg.SchemaDir)
	cache := generation.NewCache(
		dir,
		provider,
		pipeline.NewDynamicPipeline(),
		generation.WithArtifactStore(st),
		generation.WithLogger(slog.Default()),
	)

	e := &env{cfg: cfg, dir: dir, store: st, provider: provider, cache: cache}
	return e, func() { st.Close() }, nil
}
