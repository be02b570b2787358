package api

import (
	"net/http"

	"github.com/planloom/minutes/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Sessions.Handler().Routes(),
	)
}
