package cli

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ppiankov/scout/internal/backend"
	"github.com/ppiankov/scout/internal/cache"
	"github.com/ppiankov/scout/internal/extract"
	"github.com/ppiankov/scout/internal/llm"
	"github.com/ppiankov/scout/internal/review"
	"github.com/ppiankov/scout/internal/store"
)

// newResolver wires the optional model-backed people finder, cached when enabled
func newResolver() (*review.Resolver, error) {
	finder, err := llm.NewFinder(llm.ConfigFromModel(cfg.LLM, cfg.Backend))
	if err != nil {
		return nil, err
	}
	if finder == nil {
		return review.NewResolver(extract.NewExtractor(), nil, logger), nil
	}

	logger.Debug("people finder enabled", zap.String("provider", finder.Name()), zap.String("model", cfg.LLM.Model))
	if cfg.Cache.Enabled {
		finder = llm.NewCachedFinder(finder, cache.New(cacheDir(), cfg.Cache.MemoryTTL, cfg.Cache.DiskTTL), cfg.Cache.DiskTTL, logger)
	}
	return review.NewResolver(extract.NewExtractor(), finder, logger), nil
}

func cacheDir() string {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".scout", "cache")
}

func newBackend() *backend.Client {
	return backend.NewClient(cfg.Backend, logger)
}

func openStore() (*store.Store, error) {
	return store.Open(cfg.Store.Dir)
}
