// Package httpapi serves the diagram service as a JSON HTTP API.
//
// Every mutation is a POST whose body is the batch payload:
//
//	POST /v1/diagrams/create       create an empty document
//	POST /v1/diagrams/nodes        add nodes, optionally with a layout pass
//	POST /v1/diagrams/nodes/edit   edit nodes or edges
//	POST /v1/diagrams/edges        link nodes
//	POST /v1/diagrams/nodes/remove remove nodes or edges
//	GET  /v1/diagrams?path=...     summarize a document
//
// Errors are returned as {"error":{"code":...,"message":...}} with a
// status derived from the error code.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/drawctl/pkg/errors"
	"github.com/matzehuels/drawctl/pkg/observability"
	"github.com/matzehuels/drawctl/pkg/service"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 4 << 20

// Options configure a Server.
type Options struct {
	Addr   string
	Logger *log.Logger
	// Metrics serves /metrics. Nil uses the default Prometheus registry.
	Metrics http.Handler
}

// Server is the HTTP transport.
type Server struct {
	svc    *service.Service
	logger *log.Logger
	router chi.Router
	server *http.Server
}

// NewServer builds the router.
func NewServer(svc *service.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	addr := opts.Addr
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	s := &Server{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics)

	r.Route("/v1/diagrams", func(r chi.Router) {
		r.Get("/", s.handleInspect)
		r.Post("/create", s.mutation(func() service.Request { return &service.CreateRequest{} }, http.StatusCreated))
		r.Post("/nodes", s.mutation(func() service.Request { return &service.AddRequest{} }, http.StatusOK))
		r.Post("/nodes/edit", s.mutation(func() service.Request { return &service.EditRequest{} }, http.StatusOK))
		r.Post("/nodes/remove", s.mutation(func() service.Request { return &service.RemoveRequest{} }, http.StatusOK))
		r.Post("/edges", s.mutation(func() service.Request { return &service.LinkRequest{} }, http.StatusOK))
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: errorDetail{
			Code: string(errors.ErrCodeUnsupported), Message: r.Method + " not allowed on " + r.URL.Path,
		}})
	})

	s.router = r
	s.server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       time.Minute,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.server.Addr }

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("http server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// mutation decodes the body into a fresh payload and executes it.
func (s *Server) mutation(newPayload func() service.Request, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
			return
		}
		payload := newPayload()
		if err := service.DecodeRequest(body, payload); err != nil {
			writeError(w, err)
			return
		}
		s.execute(w, r, payload, status)
	}
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "path query parameter is required"))
		return
	}
	s.execute(w, r, &service.InspectRequest{Path: path}, http.StatusOK)
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, payload service.Request, status int) {
	res, err := s.svc.Execute(r.Context(), payload)
	if err != nil {
		s.logger.Warn("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"code", errors.CodeOrInternal(err),
			"error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, status, res)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// logRequests logs each request and reports it to the HTTP hooks under its
// route pattern.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		dur := time.Since(start)
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, dur)
		s.logger.Debug("http request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", dur)
	})
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidKind, errors.ErrCodeInvalidLayout,
		errors.ErrCodeInvalidStyle, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeAlreadyExists:
		return http.StatusConflict
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.CodeOrInternal(err)
	writeJSON(w, StatusFor(code), errorBody{Error: errorDetail{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
