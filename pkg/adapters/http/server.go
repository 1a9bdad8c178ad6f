// Package http exposes the engine over a JSON API. Handlers are thin:
// they decode a request, call one engine operation, and map the domain
// errors onto status codes.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	axq "github.com/axq-tools/axq"
	"github.com/axq-tools/axq/internal/presentation/format"
	"github.com/axq-tools/axq/pkg/ax"
	"github.com/axq-tools/axq/pkg/resilience"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed openapi.yaml
var openapiSpec []byte

// defaultTreeDepth bounds /applications/{pid}/tree when the client does
// not ask for a depth. Full trees of real applications can be huge.
const defaultTreeDepth = 3

// Server serves the engine API.
type Server struct {
	engine *axq.Engine
	log    *slog.Logger
}

// NewHandler builds the chi router. The embedded OpenAPI document is
// validated at startup so a drifting spec fails fast, and served at
// /openapi.yaml. Passing a registry also mounts /metrics.
func NewHandler(engine *axq.Engine, log *slog.Logger, reg *prometheus.Registry) (http.Handler, error) {
	if engine == nil {
		return nil, errors.New("http: engine is required")
	}
	if log == nil {
		log = slog.Default()
	}
	doc, err := openapi3.NewLoader().LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("loading openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	s := &Server{engine: engine, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})
	if reg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	r.Get("/applications", s.listApplications)
	r.Get("/applications/{pid}/tree", s.getTree)
	r.Get("/focused", s.getFocused)
	r.Post("/find", s.postFind)
	r.Post("/resolve", s.postResolve)
	r.Post("/action", s.postAction)

	return r, nil
}

// requestLogger tags every request with an id and logs its outcome.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set("X-Request-Id", id)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start))
		})
	}
}

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "axq-http",
		"version": axq.Version,
	})
}

func (s *Server) listApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.engine.Applications(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	type appOut struct {
		Name string `json:"name"`
		PID  int32  `json:"pid"`
	}
	out := make([]appOut, 0, len(apps))
	for _, a := range apps {
		out = append(out, appOut{Name: a.Name, PID: a.PID})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	pid, err := strconv.ParseInt(chi.URLParam(r, "pid"), 10, 32)
	if err != nil {
		s.writeStatus(w, http.StatusBadRequest, fmt.Errorf("invalid pid: %w", err))
		return
	}
	depth := defaultTreeDepth
	if raw := r.URL.Query().Get("depth"); raw != "" {
		depth, err = strconv.Atoi(raw)
		if err != nil {
			s.writeStatus(w, http.StatusBadRequest, fmt.Errorf("invalid depth: %w", err))
			return
		}
	}

	root, err := s.engine.ApplicationTree(r.Context(), int32(pid))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := root.LoadSubtree(r.Context(), depth); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, format.NewView(root, true))
}

func (s *Server) getFocused(w http.ResponseWriter, r *http.Request) {
	el, err := s.engine.FocusedElement(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	v := format.NewView(el, false)
	v.Path = el.DisplayPath()
	writeJSON(w, http.StatusOK, v)
}

type findRequest struct {
	PID   int32  `json:"pid"`
	Role  string `json:"role"`
	Title string `json:"title"`
}

func (s *Server) postFind(w http.ResponseWriter, r *http.Request) {
	var req findRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeStatus(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.PID == 0 {
		s.writeStatus(w, http.StatusBadRequest, errors.New("pid is required"))
		return
	}

	root, err := s.engine.ApplicationTree(r.Context(), req.PID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	matches, err := s.engine.FindElements(r.Context(), root, req.Role, req.Title)
	if err != nil {
		s.writeError(w, err)
		return
	}

	views := make([]format.ElementView, 0, len(matches))
	for _, el := range matches {
		v := format.NewView(el, false)
		v.Path = el.DisplayPath()
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, map[string]any{"elements": views})
}

type resolveRequest struct {
	PID  int32  `json:"pid"`
	Path string `json:"path"`
}

func (s *Server) postResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeStatus(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	el, err := s.resolve(r.Context(), req.PID, req.Path)
	if err != nil {
		s.writeError(w, err)
		return
	}

	v := format.NewView(el, false)
	v.Path = el.DisplayPath()
	if attrs, err := s.engine.ElementAttributes(r.Context(), el); err == nil {
		v.Attributes = format.AttrsFromMap(attrs)
	}
	if actions, err := s.engine.AvailableActions(r.Context(), el); err == nil {
		v.Actions = actions
	}
	writeJSON(w, http.StatusOK, v)
}

type actionRequest struct {
	PID    int32  `json:"pid"`
	Path   string `json:"path"`
	Action string `json:"action"`
}

func (s *Server) postAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeStatus(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Action == "" {
		s.writeStatus(w, http.StatusBadRequest, errors.New("action is required"))
		return
	}

	el, err := s.resolve(r.Context(), req.PID, req.Path)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.engine.PerformAction(r.Context(), el, req.Action); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"action": req.Action,
		"path":   el.DisplayPath(),
	})
}

func (s *Server) resolve(ctx context.Context, pid int32, path string) (*ax.Element, error) {
	if pid == 0 {
		return nil, badRequestError{errors.New("pid is required")}
	}
	if path == "" {
		return nil, badRequestError{errors.New("path is required")}
	}
	root, err := s.engine.ApplicationTree(ctx, pid)
	if err != nil {
		return nil, err
	}
	return s.engine.FindElementByPath(ctx, root, path)
}

// badRequestError marks input validation failures for writeError.
type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }

// writeError maps domain errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		notFound    *ax.NotFoundError
		unsupported *ax.UnsupportedActionError
		pathSyntax  *ax.PathSyntaxError
		exhausted   *resilience.RetryExhaustedError
		badReq      badRequestError
	)
	switch {
	case errors.As(err, &badReq), errors.As(err, &pathSyntax):
		s.writeStatus(w, http.StatusBadRequest, err)
	case errors.As(err, &notFound):
		s.writeStatus(w, http.StatusNotFound, err)
	case errors.As(err, &unsupported):
		s.writeStatus(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, resilience.ErrTimeout), errors.As(err, &exhausted):
		s.writeStatus(w, http.StatusGatewayTimeout, err)
	case errors.Is(err, axq.ErrNotTrusted):
		s.writeStatus(w, http.StatusForbidden, err)
	default:
		s.writeStatus(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) writeStatus(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "status", status, "err", err)
	} else {
		s.log.Debug("request rejected", "status", status, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", "err", err)
	}
}
