package modules

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	// Read-only query surface; all writes happen through the ingest and
	// analysis passes.
	r.Get("/modules", ListModulesHandler)
	r.Get("/modules/{code}", GetModuleHandler)
	r.Get("/search", SearchModulesHandler)

	return r
}
