package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/antoniostano/reminders/internal/config"
	"github.com/antoniostano/reminders/internal/observability"
	"github.com/antoniostano/reminders/internal/reminders"
	"github.com/antoniostano/reminders/internal/scanner"
)

// Intake is the subset of intake.Service the handlers depend on.
type Intake interface {
	AddReminder(ctx context.Context, text string) (reminders.Reminder, error)
	ListReminders(ctx context.Context) ([]reminders.Reminder, error)
	DueOn(ctx context.Context, day string) ([]reminders.Reminder, error)
}

type Scanner interface {
	ScanOnce(ctx context.Context) ([]scanner.DueEvent, error)
}

type Server struct {
	cfg       config.Config
	intake    Intake
	scanner   Scanner
	metrics   *observability.Metrics
	storeMode string
	logger    *slog.Logger
}

func New(cfg config.Config, intake Intake, scan Scanner, metrics *observability.Metrics, storeMode string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:       cfg,
		intake:    intake,
		scanner:   scan,
		metrics:   metrics,
		storeMode: storeMode,
		logger:    logger.With("component", "httpapi"),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.countRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			respondError(w, http.StatusNotImplemented, "unavailable", "metrics not configured")
			return
		}
		s.metrics.Handler().ServeHTTP(w, r)
	})

	// Legacy form-app paths.
	r.Post("/add", s.handleAddReminder)
	r.Get("/list", s.handleListReminders)

	r.Post("/v1/reminders", s.handleAddReminder)
	r.Get("/v1/reminders", s.handleListReminders)
	r.Get("/v1/reminders/due", s.handleDueReminders)
	r.Post("/v1/scan", s.handleScan)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"store_mode": s.mode(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ready",
		"store_mode":   s.mode(),
		"scan_enabled": s.cfg.ScanEnabled && s.scanner != nil,
	})
}

var errEmptyBody = errors.New("empty request body")

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func (s *Server) mode() string {
	mode := strings.TrimSpace(s.storeMode)
	if mode == "" {
		return "unknown"
	}
	return mode
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		if s.metrics == nil {
			return
		}
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}
