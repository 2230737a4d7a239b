// Package http provides HTTP handlers for querying the audit trail.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	auditDomain "github.com/riskforge/compliance/internal/audit/domain"
	auditUseCase "github.com/riskforge/compliance/internal/audit/usecase"
	"github.com/riskforge/compliance/internal/audit/http/dto"
	"github.com/riskforge/compliance/internal/httputil"
)

var (
	errMissingTenantHeader = errors.New("X-Tenant-ID header is required")
	errMissingRoleHeader   = errors.New("X-Requester-Role header is required")
	errMissingReportWindow = errors.New("start and end query parameters are required")
	errInvalidTimeFormat   = errors.New("time parameters must be RFC 3339 timestamps")
)

// AuditHandler handles HTTP requests for audit record queries and compliance
// reports. Both endpoints are role-gated: the requester role comes from the
// X-Requester-Role header and must be on the privileged allow-list.
type AuditHandler struct {
	auditTrail auditUseCase.AuditTrail
	logger     *slog.Logger
}

// NewAuditHandler creates a new audit handler with required dependencies.
func NewAuditHandler(auditTrail auditUseCase.AuditTrail, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		auditTrail: auditTrail,
		logger:     logger,
	}
}

// ListHandler returns a tenant's audit records matching the query filters.
// GET /v1/audit/records?actor=&action=&resource_type=&created_at_from=&created_at_to=&offset=&limit=
func (h *AuditHandler) ListHandler(c *gin.Context) {
	tenant, role, ok := h.requesterIdentity(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	filters := &auditDomain.QueryFilters{
		Actor:        c.Query("actor"),
		Action:       c.Query("action"),
		ResourceType: c.Query("resource_type"),
		Offset:       offset,
		Limit:        limit,
	}

	if from, ok := h.parseTimeParam(c, "created_at_from"); !ok {
		return
	} else if from != nil {
		filters.CreatedAtFrom = from
	}
	if to, ok := h.parseTimeParam(c, "created_at_to"); !ok {
		return
	} else if to != nil {
		filters.CreatedAtTo = to
	}

	records, err := h.auditTrail.Query(c.Request.Context(), tenant, filters, role)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapListAuditRecordsResponse(records))
}

// ReportHandler aggregates a tenant's audit activity over a window and
// re-verifies the integrity of every record in range.
// GET /v1/audit/report?start=&end=
func (h *AuditHandler) ReportHandler(c *gin.Context) {
	tenant, role, ok := h.requesterIdentity(c)
	if !ok {
		return
	}

	// The report surfaces the same records as Query, so it carries the same
	// role gate.
	if !role.CanQueryAuditRecords() {
		httputil.HandleErrorGin(c, auditDomain.ErrUnauthorizedRole, h.logger)
		return
	}

	startStr := c.Query("start")
	endStr := c.Query("end")
	if startStr == "" || endStr == "" {
		httputil.HandleBadRequestGin(c, errMissingReportWindow, h.logger)
		return
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		httputil.HandleBadRequestGin(c, errInvalidTimeFormat, h.logger)
		return
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		httputil.HandleBadRequestGin(c, errInvalidTimeFormat, h.logger)
		return
	}

	report, err := h.auditTrail.ComplianceReport(c.Request.Context(), tenant, start, end)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapComplianceReportResponse(report))
}

// requesterIdentity extracts the tenant and requester role headers, writing
// the error response itself when either is missing.
func (h *AuditHandler) requesterIdentity(c *gin.Context) (string, auditDomain.RequesterRole, bool) {
	tenant := c.GetHeader("X-Tenant-ID")
	if tenant == "" {
		httputil.HandleBadRequestGin(c, errMissingTenantHeader, h.logger)
		return "", "", false
	}

	roleStr := c.GetHeader("X-Requester-Role")
	if roleStr == "" {
		httputil.HandleBadRequestGin(c, errMissingRoleHeader, h.logger)
		return "", "", false
	}

	return tenant, auditDomain.RequesterRole(roleStr), true
}

// parseTimeParam parses an optional RFC 3339 query parameter, writing the
// error response itself when the value is malformed.
func (h *AuditHandler) parseTimeParam(c *gin.Context, name string) (*time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return nil, true
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		httputil.HandleBadRequestGin(c, errInvalidTimeFormat, h.logger)
		return nil, false
	}

	return &parsed, true
}
