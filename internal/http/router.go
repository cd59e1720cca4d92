package httpapi

import (
	"expvar"
	"net/http"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", app.graphqlHandler)
	mux.HandleFunc("/graphiql", app.graphiqlHandler)
	mux.HandleFunc("/schema.graphql", app.schemaHandler)
	mux.HandleFunc("/healthz", app.healthHandler)
	mux.HandleFunc("/readyz", app.readyHandler)
	mux.Handle("/metrics", app.Metrics.Handler())
	mux.Handle("/debug/vars", expvar.Handler())

	h := WithMetrics(app.Metrics)(mux)
	h = WithCORS(app.Cfg.CORSOrigins)(h)
	h = WithRecovery(h)
	return WithRequestID(WithLogging(h))
}
