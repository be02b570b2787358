// Package api assembles the API module with all domain systems and route
// registration.
package api

import (
	"net/http"

	"github.com/planloom/minutes/internal/config"
	"github.com/planloom/minutes/internal/infrastructure"
	"github.com/planloom/minutes/pkg/middleware"
	"github.com/planloom/minutes/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The returned Domain carries the session manager so the server can
// register its lifecycle hooks.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *Domain, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, domain, nil
}
