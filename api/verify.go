package api

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"drawAuditor/audit"
	"drawAuditor/config"
	"drawAuditor/db"
	"drawAuditor/game"
	"drawAuditor/logger"
	"drawAuditor/source"
)

/* =========================
   RESPONSE TYPES
========================= */

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// VerifyResponse wraps a finished report
type VerifyResponse struct {
	Success bool         `json:"success"`
	Passed  bool         `json:"passed"`
	Report  *game.Report `json:"report"`
}

// ReportsResponse lists stored reports
type ReportsResponse struct {
	Success bool               `json:"success"`
	Reports []*db.ReportRecord `json:"reports"`
}

// ReportResponse is a single stored report
type ReportResponse struct {
	Success bool             `json:"success"`
	Sealed  bool             `json:"sealed"`
	Record  *db.ReportRecord `json:"record"`
}

/* =========================
   DEPENDENCIES
========================= */

// ReportReader reads stored reports. db.ReportStore implements it.
type ReportReader interface {
	GetLatestReport(ctx context.Context, gameID string) (*db.ReportRecord, error)
	GetRecentReports(ctx context.Context, limit int) ([]*db.ReportRecord, error)
}

// HealthChecker is a backing service that can be pinged.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handlers serves the verification API.
type Handlers struct {
	auditor *audit.Auditor
	reports ReportReader
	checks  map[string]HealthChecker
	log     *zap.SugaredLogger
}

var gameIDPattern = regexp.MustCompile(config.GameIDPattern)

// NewHandlers builds the API handlers. reports may be nil when no database
// is configured; checks maps a service name to its health check.
func NewHandlers(auditor *audit.Auditor, reports ReportReader, checks map[string]HealthChecker, log *zap.SugaredLogger) *Handlers {
	if log == nil {
		log = logger.Nop()
	}
	return &Handlers{auditor: auditor, reports: reports, checks: checks, log: log}
}

/* =========================
   VERIFICATION ENDPOINTS
========================= */

// HandleVerifyGame fetches and verifies a game
// GET /api/verify/{gameId}
func (h *Handlers) HandleVerifyGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameId")
	if !gameIDPattern.MatchString(gameID) {
		sendError(w, r, http.StatusBadRequest, "Invalid game id")
		return
	}

	report, err := h.auditor.Audit(r.Context(), gameID)
	if err != nil {
		sendError(w, r, statusFor(err), err.Error())
		return
	}

	render.JSON(w, r, VerifyResponse{
		Success: true,
		Passed:  report.Passed(),
		Report:  report,
	})
}

// HandleLatestReport returns the newest stored report for a game
// GET /api/reports/{gameId}
func (h *Handlers) HandleLatestReport(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		sendError(w, r, http.StatusServiceUnavailable, "Report storage is not configured")
		return
	}

	gameID := chi.URLParam(r, "gameId")
	if !gameIDPattern.MatchString(gameID) {
		sendError(w, r, http.StatusBadRequest, "Invalid game id")
		return
	}

	record, err := h.reports.GetLatestReport(r.Context(), gameID)
	if err != nil {
		h.log.Errorf("❌ Failed to get report for game %s: %v", gameID, err)
		sendError(w, r, http.StatusInternalServerError, "Failed to retrieve report")
		return
	}
	if record == nil {
		sendError(w, r, http.StatusNotFound, "No report for this game")
		return
	}

	render.JSON(w, r, ReportResponse{
		Success: true,
		Sealed:  audit.CheckSeal(record.Report),
		Record:  record,
	})
}

// HandleRecentReports lists the most recent stored reports
// GET /api/reports?limit=N
func (h *Handlers) HandleRecentReports(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		sendError(w, r, http.StatusServiceUnavailable, "Report storage is not configured")
		return
	}

	limit := config.DefaultReportLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			sendError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, config.MaxReportLimit)
	}

	records, err := h.reports.GetRecentReports(r.Context(), limit)
	if err != nil {
		h.log.Errorf("❌ Failed to get recent reports: %v", err)
		sendError(w, r, http.StatusInternalServerError, "Failed to retrieve reports")
		return
	}

	render.JSON(w, r, ReportsResponse{Success: true, Reports: records})
}

/* =========================
   HEALTH CHECK ENDPOINT
========================= */

// HandleHealthCheck handles health check requests
// GET /api/health
func (h *Handlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := map[string]interface{}{
		"success": true,
		"message": "Health check completed",
	}
	for name, check := range h.checks {
		status := "ok"
		if err := check.HealthCheck(ctx); err != nil {
			status = "error: " + err.Error()
		}
		response[name] = status
	}

	render.JSON(w, r, response)
}

/* =========================
   HELPER FUNCTIONS
========================= */

// statusFor maps a verification error onto an HTTP status
func statusFor(err error) int {
	var statusErr *source.StatusError
	switch {
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound:
		return http.StatusNotFound
	case errors.Is(err, source.ErrDataSource):
		return http.StatusBadGateway
	case errors.Is(err, game.ErrMalformedResponse), errors.Is(err, game.ErrPoolExhausted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// sendError sends an error response
func sendError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Success: false,
		Error:   message,
	})
}
