package api

import (
	"net/http"
	"visit-route-planner/internal/api/handlers"
	"visit-route-planner/internal/domain"
	"visit-route-planner/internal/ports"
)

type Deps struct {
	Repo             ports.VisitRepository
	Cache            ports.PlanCache
	DefaultStrategy  domain.Strategy
	DefaultTransport domain.TransportMode
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	visitHandler := &handlers.VisitHandler{Repo: deps.Repo}
	planHandler := &handlers.PlanHandler{
		Repo:             deps.Repo,
		Cache:            deps.Cache,
		DefaultStrategy:  deps.DefaultStrategy,
		DefaultTransport: deps.DefaultTransport,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/visits", visitHandler.List)
	mux.HandleFunc("/visits/import", visitHandler.Import)
	mux.HandleFunc("/visits/export", visitHandler.Export)
	mux.HandleFunc("/visits/template", visitHandler.Template)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.HandleFunc("/plans/compare", planHandler.Compare)
	mux.HandleFunc("/plans/export", planHandler.Export)

	return requestIDMiddleware(loggingMiddleware(mux))
}
