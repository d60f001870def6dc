package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rdlittle/contractor/internal/apperr"
	"github.com/rdlittle/contractor/internal/render"
)

// ErrInvalidID indicates a non-numeric invoice id in the path.
var ErrInvalidID = apperr.New(apperr.ErrValidation, "invoice id must be a positive integer")

// Views renders invoice documents.
type Views interface {
	InvoiceHTML(ctx context.Context, id int64) ([]byte, error)
	TimesheetHTML(ctx context.Context, id int64) ([]byte, error)
	PDF(ctx context.Context, id int64) (*render.PDF, error)
}

// Config wires the HTTP surface.
type Config struct {
	Views Views
	// MCP serves the tool protocol at /mcp. Nil leaves it unmounted.
	MCP http.Handler
	// Health reports store reachability. Nil always reports healthy.
	Health func(ctx context.Context) error
	// Token, when set, is required on everything but /health.
	Token  string
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	views  Views
	health func(ctx context.Context) error
	logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	srv := &Server{views: cfg.Views, health: cfg.Health, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if cfg.Token != "" {
			r.Use(BearerAuth(cfg.Token))
		}
		if cfg.Views != nil {
			r.Route("/invoices/{id}", func(r chi.Router) {
				r.Get("/", srv.handleInvoice)
				r.Get("/pdf", srv.handlePDF)
				r.Get("/timesheet", srv.handleTimesheet)
			})
		}
		if cfg.MCP != nil {
			r.Handle("/mcp", cfg.MCP)
			r.Handle("/mcp/*", cfg.MCP)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health(ctx); err != nil {
			s.logger.Warn("health check failed", "error", err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleInvoice(w http.ResponseWriter, r *http.Request) {
	s.serveHTML(w, r, s.views.InvoiceHTML)
}

func (s *Server) handleTimesheet(w http.ResponseWriter, r *http.Request) {
	s.serveHTML(w, r, s.views.TimesheetHTML)
}

func (s *Server) serveHTML(w http.ResponseWriter, r *http.Request, render func(context.Context, int64) ([]byte, error)) {
	id, err := invoiceID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	body, err := render(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	id, err := invoiceID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	pdf, err := s.views.PDF(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", pdf.Name))
	_, _ = w.Write(pdf.Data)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if StatusFor(err) == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	}
	WriteError(w, err)
}

func invoiceID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !logger.Enabled(r.Context(), slog.LevelDebug) {
				next.ServeHTTP(w, r)
				return
			}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
