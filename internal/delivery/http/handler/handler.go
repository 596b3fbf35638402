package handler

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/user/psp-report-service/internal/adapter/spreadsheet"
	"github.com/user/psp-report-service/internal/delivery/http/request"
	"github.com/user/psp-report-service/internal/delivery/http/response"
	"github.com/user/psp-report-service/internal/entity"
	"github.com/user/psp-report-service/internal/repository"
	"github.com/user/psp-report-service/internal/usecase"
)

const (
	HeaderExtractedRows = "X-Extracted-Rows"
	HeaderRunID         = "X-Report-Run-ID"

	healthCheckTimeout = 2 * time.Second
)

//go:embed templates/index.html
var templates embed.FS

var formPage = template.Must(template.ParseFS(templates, "templates/index.html"))

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	extractor usecase.ReportExtractor
	checks    map[string]HealthCheck
	downloads *downloadStore
}

func NewHandler(extractor usecase.ReportExtractor) *Handler {
	return &Handler{
		extractor: extractor,
		checks:    make(map[string]HealthCheck),
		downloads: newDownloadStore(downloadLimit, downloadTTL),
	}
}

// AddHealthCheck registers a dependency checked by the health endpoint.
func (h *Handler) AddHealthCheck(name string, check HealthCheck) {
	h.checks[name] = check
}

type formData struct {
	FinancialYears []string
	Months         []string
	Selected       entity.Period
	Message        string
	Success        bool
	DownloadURL    string
}

func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, http.StatusOK, formData{})
}

// HandleFormExtract runs an extraction for the posted form and renders the
// outcome on the form page, with a download link on success.
func (h *Handler) HandleFormExtract(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderForm(w, http.StatusBadRequest, formData{Message: "Invalid form submission."})
		return
	}
	period := request.FromForm(r.PostForm).Period()

	result, err := h.extractor.Extract(r.Context(), period)
	if err != nil {
		status, message := classify(err)
		h.renderForm(w, status, formData{Selected: period, Message: message})
		return
	}

	data, err := h.buildWorkbook(result)
	if err != nil {
		h.renderForm(w, http.StatusInternalServerError, formData{Selected: period, Message: "Failed to build the report workbook."})
		return
	}
	rows := result.Report.Len()
	h.downloads.put(result.RunID, data, rows)

	w.Header().Set(HeaderExtractedRows, strconv.Itoa(rows))
	w.Header().Set(HeaderRunID, result.RunID)
	h.renderForm(w, http.StatusOK, formData{
		Selected:    period,
		Message:     fmt.Sprintf("Data extraction complete! Extracted %d rows.", rows),
		Success:     true,
		DownloadURL: "/download/" + url.PathEscape(result.RunID),
	})
}

// HandleDownload serves a workbook built by an earlier form extraction.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	d, ok := h.downloads.get(runID)
	if !ok {
		h.renderForm(w, http.StatusNotFound, formData{Message: "This report is no longer available. Please run the extraction again."})
		return
	}
	h.sendWorkbook(w, runID, d.rows, d.data)
}

func (h *Handler) HandleAPIExtract(w http.ResponseWriter, r *http.Request) {
	var req request.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.extractor.Extract(r.Context(), req.Period())
	if err != nil {
		status, message := classify(err)
		h.writeJSONError(w, message, status)
		return
	}

	data, err := h.buildWorkbook(result)
	if err != nil {
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.sendWorkbook(w, result.RunID, result.Report.Len(), data)
}

func (h *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	opts := h.extractor.Options()
	h.writeJSON(w, http.StatusOK, response.OptionsResponse{
		FinancialYears: opts.FinancialYears,
		Months:         opts.Months,
	})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := response.HealthResponse{Status: "ok"}
	if len(h.checks) == 0 {
		h.writeJSON(w, http.StatusOK, resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp.Checks = make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			slog.Error("Health check failed", "dependency", name, "error", err)
			resp.Checks[name] = "unhealthy"
			resp.Status = "degraded"
			continue
		}
		resp.Checks[name] = "healthy"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, resp)
}

// classify maps an extraction error to a status code and a user-facing message.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidPeriod):
		return http.StatusBadRequest, "Please select a valid financial year and month."
	case errors.Is(err, usecase.ErrNoLinks):
		return http.StatusNotFound, "No data extracted."
	case errors.Is(err, usecase.ErrNoValidData):
		return http.StatusUnprocessableEntity, "No valid Excel data found."
	case errors.Is(err, repository.ErrSessionStart):
		return http.StatusBadGateway, "Failed to initialize browser session."
	case errors.Is(err, repository.ErrFilterControl):
		return http.StatusBadGateway, "Could not apply report filters."
	case errors.Is(err, usecase.ErrBusy):
		return http.StatusServiceUnavailable, "Another extraction is in progress. Please try again shortly."
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Report extraction timed out."
	default:
		slog.Error("Report extraction failed", "error", err)
		return http.StatusInternalServerError, "Report extraction failed."
	}
}

func (h *Handler) buildWorkbook(result *usecase.ExtractResult) ([]byte, error) {
	data, err := spreadsheet.WriteReport(result.Report)
	if err != nil {
		slog.Error("Failed to write report workbook", "run_id", result.RunID, "error", err)
		return nil, err
	}
	return data, nil
}

func (h *Handler) sendWorkbook(w http.ResponseWriter, runID string, rows int, data []byte) {
	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+spreadsheet.ReportFileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set(HeaderExtractedRows, strconv.Itoa(rows))
	w.Header().Set(HeaderRunID, runID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("Failed to send report workbook", "run_id", runID, "error", err)
	}
}

func (h *Handler) renderForm(w http.ResponseWriter, status int, data formData) {
	opts := h.extractor.Options()
	data.FinancialYears = opts.FinancialYears
	data.Months = opts.Months

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formPage.Execute(w, data); err != nil {
		slog.Error("Failed to render form", "error", err)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Error: message})
}
