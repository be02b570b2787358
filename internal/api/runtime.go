package api

import (
	"github.com/planloom/minutes/internal/config"
	"github.com/planloom/minutes/internal/infrastructure"
	"github.com/planloom/minutes/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Config     *config.Config
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Backend:   infra.Backend,
			Cache:     infra.Cache,
		},
		Config:     cfg,
		Pagination: cfg.API.Pagination,
	}
}
