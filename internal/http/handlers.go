package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/graphql-go/graphql/language/ast"

	"github.com/fairyhunter13/supplysight/internal/config"
	"github.com/fairyhunter13/supplysight/internal/graph"
	"github.com/fairyhunter13/supplysight/internal/inventory"
	"github.com/fairyhunter13/supplysight/internal/obs"
)

type App struct {
	Cfg      config.Config
	Service  *inventory.Service
	Executor *graph.Executor
	Metrics  *obs.Metrics
	closing  atomic.Bool
	started  time.Time
}

// NewApp wires the HTTP handlers. metrics must not be shared between apps:
// the store gauges are registered on it here.
func NewApp(cfg config.Config, svc *inventory.Service, exec *graph.Executor, metrics *obs.Metrics) *App {
	st := svc.Store()
	metrics.TrackStore(
		func() float64 { return float64(st.All().Len()) },
		func() float64 { return float64(st.All().Revision()) },
	)
	return &App{Cfg: cfg, Service: svc, Executor: exec, Metrics: metrics, started: time.Now()}
}

// StartShutdown flips readiness off so load balancers stop routing here.
func (a *App) StartShutdown() {
	a.closing.Store(true)
}

func (a *App) graphqlHandler(w http.ResponseWriter, r *http.Request) {
	var req graph.Request
	switch r.Method {
	case http.MethodPost:
		ct := r.Header.Get("Content-Type")
		if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
			return
		}
		body := http.MaxBytesReader(underlying(w), r.Body, a.Cfg.GraphQLMaxBodyBytes)
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				WriteJSONError(w, http.StatusRequestEntityTooLarge, "request_too_large", "")
				return
			}
			WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if raw := q.Get("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				WriteJSONError(w, http.StatusBadRequest, "invalid_json", "variables: "+err.Error())
				return
			}
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "query is required")
		return
	}
	if r.Method == http.MethodGet {
		// Parse errors fall through so the executor reports them in the usual shape.
		if op, err := graph.OperationType(req); err == nil && op == ast.OperationTypeMutation {
			w.Header().Set("Allow", "POST")
			WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "mutations require POST")
			return
		}
	}

	res := a.Executor.Execute(r.Context(), req)
	if res.HasErrors() {
		obs.Logger.Debug("graphql_errors",
			"request_id", RequestIDFromContext(r.Context()),
			"operation", req.OperationName,
			"errors", len(res.Errors),
			"first", res.Errors[0].Message,
		)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(res)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (a *App) readyHandler(w http.ResponseWriter, r *http.Request) {
	if a.closing.Load() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	st := a.Service.Store()
	snap := st.All()
	m := map[string]any{
		"status":     "ready",
		"driver":     string(st.Driver()),
		"records":    snap.Len(),
		"revision":   snap.Revision(),
		"uptime_sec": time.Since(a.started).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m)
}

func (a *App) schemaHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/graphql; charset=utf-8")
	_, _ = w.Write(graph.SDL)
}

func (a *App) graphiqlHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>SupplySight GraphiQL</title>
    <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css" />
    <style>body { margin: 0; } #graphiql { height: 100vh; }</style>
  </head>
  <body>
    <div id="graphiql"></div>
    <script src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
    <script src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
    <script src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
    <script>
      const fetcher = GraphiQL.createFetcher({ url: '/graphql' });
      ReactDOM.createRoot(document.getElementById('graphiql'))
        .render(React.createElement(GraphiQL, { fetcher }));
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
