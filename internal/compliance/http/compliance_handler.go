// Package http provides HTTP handlers for data classification and residency
// policy operations.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	auditDomain "github.com/riskforge/compliance/internal/audit/domain"
	auditUseCase "github.com/riskforge/compliance/internal/audit/usecase"
	complianceDomain "github.com/riskforge/compliance/internal/compliance/domain"
	complianceService "github.com/riskforge/compliance/internal/compliance/service"
	"github.com/riskforge/compliance/internal/compliance/http/dto"
	"github.com/riskforge/compliance/internal/httputil"
	customValidation "github.com/riskforge/compliance/internal/validation"
)

var errMissingRetentionParams = errors.New("tenant and data_type query parameters are required")

// ComplianceHandler handles HTTP requests for classification and residency checks.
// Denied checks and rule changes are recorded on the audit trail.
type ComplianceHandler struct {
	classifier complianceService.Classifier
	policy     complianceService.ResidencyPolicy
	auditTrail auditUseCase.AuditTrail
	logger     *slog.Logger
}

// NewComplianceHandler creates a new compliance handler with required dependencies.
func NewComplianceHandler(
	classifier complianceService.Classifier,
	policy complianceService.ResidencyPolicy,
	auditTrail auditUseCase.AuditTrail,
	logger *slog.Logger,
) *ComplianceHandler {
	return &ComplianceHandler{
		classifier: classifier,
		policy:     policy,
		auditTrail: auditTrail,
		logger:     logger,
	}
}

// CheckHandler classifies the payload and evaluates the proposed operation.
// POST /v1/compliance/check
// Returns 200 OK with the classification and verdict; a denial is a normal
// 200 response with allowed=false.
func (h *ComplianceHandler) CheckHandler(c *gin.Context) {
	var req dto.CheckRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	classification := h.classifier.Classify(req.Payload)

	verdict, err := h.policy.Evaluate(
		req.Tenant,
		req.DataType,
		complianceDomain.Operation(req.Operation),
		req.TargetRegion,
		classification,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if !verdict.Allowed {
		h.auditTrail.Record(c.Request.Context(), &auditDomain.RecordInput{
			Actor:        requesterActor(c),
			Tenant:       req.Tenant,
			Action:       "compliance.check_denied",
			ResourceType: req.DataType,
			ResourceID:   req.TargetRegion,
			Details: map[string]any{
				"operation":     req.Operation,
				"target_region": req.TargetRegion,
				"reason":        verdict.Reason,
			},
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
	}

	c.JSON(http.StatusOK, dto.MapCheckResponse(classification, verdict))
}

// RegisterRulesHandler installs or replaces a tenant's rule set.
// POST /v1/compliance/rules
// Returns 201 Created with the installed rule count.
func (h *ComplianceHandler) RegisterRulesHandler(c *gin.Context) {
	var req dto.RegisterRulesRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	rules := req.MapRulesToDomain()
	if err := h.policy.RegisterTenantRules(req.Tenant, rules); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.auditTrail.Record(c.Request.Context(), &auditDomain.RecordInput{
		Actor:        requesterActor(c),
		Tenant:       req.Tenant,
		Action:       "compliance.rules_update",
		ResourceType: "residency_rules",
		ResourceID:   req.Tenant,
		Details:      map[string]any{"rule_count": len(rules)},
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})

	c.JSON(http.StatusCreated, dto.RegisterRulesResponse{
		Tenant:    req.Tenant,
		RuleCount: len(rules),
	})
}

// RetentionHandler returns the retention period for a tenant and data type.
// GET /v1/compliance/retention?tenant=org-acme&data_type=financial
func (h *ComplianceHandler) RetentionHandler(c *gin.Context) {
	tenant := c.Query("tenant")
	dataType := c.Query("data_type")
	if tenant == "" || dataType == "" {
		httputil.HandleValidationErrorGin(
			c,
			customValidation.WrapValidationError(
				errMissingRetentionParams,
			),
			h.logger,
		)
		return
	}

	c.JSON(http.StatusOK, dto.RetentionResponse{
		Tenant:        tenant,
		DataType:      dataType,
		RetentionDays: h.policy.RetentionPeriod(tenant, dataType),
	})
}

// requesterActor identifies the caller for audit purposes; system is the
// fallback when no actor header is supplied.
func requesterActor(c *gin.Context) string {
	if actor := c.GetHeader("X-Actor-ID"); actor != "" {
		return actor
	}
	return "system"
}
