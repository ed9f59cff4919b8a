package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/simaogato/coinflow-backend/internal/domain"
	"github.com/simaogato/coinflow-backend/internal/logger"
	"github.com/simaogato/coinflow-backend/internal/usecase/dashboard"
	"github.com/simaogato/coinflow-backend/internal/usecase/export"
)

// Handler serves the read-only HTTP surface: dashboard JSON and CSV downloads
type Handler struct {
	dashboardService *dashboard.DashboardService
	exportService    *export.ExportService
	logger           *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(dashboardService *dashboard.DashboardService, exportService *export.ExportService, l *slog.Logger) *Handler {
	return &Handler{
		dashboardService: dashboardService,
		exportService:    exportService,
		logger:           l,
	}
}

// Routes builds the chi router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/healthz", h.HandleHealth)
	r.Get("/dashboard", h.HandleGetDashboard)
	r.Get("/export/{kind}", h.HandleExport)
	return r
}

// HandleHealth reports that the process is serving
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleGetDashboard returns KPIs and holdings for ?period=all|today|month|year
func (h *Handler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	period, err := dashboard.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.dashboardService.GetDashboard(r.Context(), period)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to build dashboard", "error", err)
		sendJSONError(w, "failed to build dashboard", http.StatusInternalServerError)
		return
	}

	sendJSON(w, http.StatusOK, result)
}

// HandleExport downloads the records of {kind} dated within ?start=&end= as CSV
// An empty range answers 404 with a message instead of an empty file
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	start, end, err := parseRange(r)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	_, err = h.exportService.Export(r.Context(), kind, start, end, &buf)
	switch {
	case errors.Is(err, export.ErrNoData):
		sendJSONError(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrValidation):
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		logger.FromContext(r.Context()).Error("failed to export records", "kind", kind, "error", err)
		sendJSONError(w, "failed to export records", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(kind, start, end)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func parseRange(r *http.Request) (domain.Date, domain.Date, error) {
	q := r.URL.Query()
	if q.Get("start") == "" || q.Get("end") == "" {
		return domain.Date{}, domain.Date{}, fmt.Errorf("start and end dates are required")
	}

	start, err := domain.ParseDate(q.Get("start"))
	if err != nil {
		return domain.Date{}, domain.Date{}, err
	}
	end, err := domain.ParseDate(q.Get("end"))
	if err != nil {
		return domain.Date{}, domain.Date{}, err
	}
	return start, end, nil
}

// requestLogger logs each request and stores a request-scoped logger in the context
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqLogger := h.logger.With("method", r.Method, "path", r.URL.Path, "requestID", middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(logger.ToContext(r.Context(), reqLogger)))

		reqLogger.Info("HTTP request", "status", ww.Status(), "duration", time.Since(start))
	})
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sendJSONError(w http.ResponseWriter, message string, status int) {
	sendJSON(w, status, map[string]string{"error": message})
}
