package util

import (
	"context"

	"github.com/reaper-esi/esi2ddl/internal/config"
)

type configKey struct{}

type loadedConfig struct {
	cfg  *config.Config
	path string
}

// WithConfig returns a context carrying the loaded configuration and the path
// of the file it came from.
func WithConfig(ctx context.Context, cfg *config.Config, path string) context.Context {
	return context.WithValue(ctx, configKey{}, loadedConfig{cfg: cfg, path: path})
}

// ConfigFromContext returns a copy of the configuration stored by WithConfig,
// or the defaults when there is none. Commands may modify the copy freely.
func ConfigFromContext(ctx context.Context) (*config.Config, string) {
	if ctx != nil {
		if lc, ok := ctx.Value(configKey{}).(loadedConfig); ok && lc.cfg != nil {
			cfg := *lc.cfg
			return &cfg, lc.path
		}
	}
	return config.Default(), ""
}
