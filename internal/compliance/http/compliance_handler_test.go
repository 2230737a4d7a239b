package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/riskforge/compliance/internal/errors"

	auditDomain "github.com/riskforge/compliance/internal/audit/domain"
	auditUseCase "github.com/riskforge/compliance/internal/audit/usecase"
	complianceDomain "github.com/riskforge/compliance/internal/compliance/domain"
	complianceService "github.com/riskforge/compliance/internal/compliance/service"
	"github.com/riskforge/compliance/internal/compliance/http/dto"
)

type mockClassifier struct {
	mock.Mock
}

var _ complianceService.Classifier = (*mockClassifier)(nil)

func (m *mockClassifier) Classify(payload map[string]any) *complianceDomain.DataClassification {
	args := m.Called(payload)
	return args.Get(0).(*complianceDomain.DataClassification)
}

type mockResidencyPolicy struct {
	mock.Mock
}

var _ complianceService.ResidencyPolicy = (*mockResidencyPolicy)(nil)

func (m *mockResidencyPolicy) RegisterTenantRules(tenant string, rules []complianceDomain.ResidencyRule) error {
	args := m.Called(tenant, rules)
	return args.Error(0)
}

func (m *mockResidencyPolicy) Evaluate(
	tenant string,
	dataType string,
	operation complianceDomain.Operation,
	targetRegion string,
	classification *complianceDomain.DataClassification,
) (*complianceDomain.Verdict, error) {
	args := m.Called(tenant, dataType, operation, targetRegion, classification)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*complianceDomain.Verdict), args.Error(1)
}

func (m *mockResidencyPolicy) RetentionPeriod(tenant string, dataType string) int {
	args := m.Called(tenant, dataType)
	return args.Int(0)
}

func (m *mockResidencyPolicy) TenantRules(tenant string) []complianceDomain.ResidencyRule {
	args := m.Called(tenant)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]complianceDomain.ResidencyRule)
}

type mockAuditTrail struct {
	mock.Mock
}

var _ auditUseCase.AuditTrail = (*mockAuditTrail)(nil)

func (m *mockAuditTrail) Record(ctx context.Context, input *auditDomain.RecordInput) *auditDomain.AuditRecord {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*auditDomain.AuditRecord)
}

func (m *mockAuditTrail) Verify(record *auditDomain.AuditRecord) bool {
	args := m.Called(record)
	return args.Bool(0)
}

func (m *mockAuditTrail) Query(
	ctx context.Context,
	tenant string,
	filters *auditDomain.QueryFilters,
	role auditDomain.RequesterRole,
) ([]*auditDomain.AuditRecord, error) {
	args := m.Called(ctx, tenant, filters, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditRecord), args.Error(1)
}

func (m *mockAuditTrail) ComplianceReport(
	ctx context.Context,
	tenant string,
	start, end time.Time,
) (*auditDomain.ComplianceReport, error) {
	args := m.Called(ctx, tenant, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.ComplianceReport), args.Error(1)
}

// setupTestHandler creates a test handler with mocked dependencies.
func setupTestHandler(t *testing.T) (*ComplianceHandler, *mockClassifier, *mockResidencyPolicy, *mockAuditTrail) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	classifier := &mockClassifier{}
	policy := &mockResidencyPolicy{}
	trail := &mockAuditTrail{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := NewComplianceHandler(classifier, policy, trail, logger)

	return handler, classifier, policy, trail
}

// createTestContext builds a gin test context with an optional JSON body.
func createTestContext(method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader([]byte("{invalid"))
	}

	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")

	return c, w
}

func validCheckRequest() dto.CheckRequest {
	return dto.CheckRequest{
		Tenant:       "org-acme",
		DataType:     "customer-profile",
		Operation:    "transfer",
		TargetRegion: "US",
		Payload:      map[string]any{"email": "user@example.com"},
	}
}

func TestComplianceHandler_CheckHandler(t *testing.T) {
	t.Run("Success_Allowed", func(t *testing.T) {
		handler, classifier, policy, _ := setupTestHandler(t)

		request := validCheckRequest()
		classification := &complianceDomain.DataClassification{
			Level:        complianceDomain.LevelConfidential,
			Categories:   []string{complianceDomain.CategoryPersonal},
			PersonalData: true,
		}
		verdict := &complianceDomain.Verdict{
			Allowed:            true,
			RequiredSafeguards: []string{complianceDomain.SafeguardEncryption},
		}

		classifier.On("Classify", request.Payload).Return(classification).Once()
		policy.On(
			"Evaluate",
			request.Tenant,
			request.DataType,
			complianceDomain.OperationTransfer,
			request.TargetRegion,
			classification,
		).Return(verdict, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/compliance/check", request)

		handler.CheckHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.CheckResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Verdict.Allowed)
		assert.Equal(t, "confidential", response.Classification.Level)
		assert.True(t, response.Classification.PersonalData)
		assert.Equal(t, []string{"encryption"}, response.Verdict.RequiredSafeguards)

		classifier.AssertExpectations(t)
		policy.AssertExpectations(t)
	})

	t.Run("Denied_RecordsAuditEntry", func(t *testing.T) {
		handler, classifier, policy, trail := setupTestHandler(t)

		request := validCheckRequest()
		classification := &complianceDomain.DataClassification{
			Level: complianceDomain.LevelInternal,
		}
		verdict := &complianceDomain.Verdict{
			Allowed: false,
			Reason:  `transfer to region "US" is prohibited by rule "tenant-rule"`,
		}

		classifier.On("Classify", request.Payload).Return(classification).Once()
		policy.On("Evaluate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(verdict, nil).Once()
		trail.On("Record", mock.Anything, mock.MatchedBy(func(input *auditDomain.RecordInput) bool {
			return input.Tenant == request.Tenant &&
				input.Action == "compliance.check_denied" &&
				input.Details["reason"] == verdict.Reason
		})).Return(&auditDomain.AuditRecord{}).Once()

		c, w := createTestContext(http.MethodPost, "/v1/compliance/check", request)

		handler.CheckHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.CheckResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.False(t, response.Verdict.Allowed)
		assert.Contains(t, response.Verdict.Reason, "prohibited")

		trail.AssertExpectations(t)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _, _, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/compliance/check", nil)

		handler.CheckHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_MissingTenant", func(t *testing.T) {
		handler, _, _, _ := setupTestHandler(t)

		request := validCheckRequest()
		request.Tenant = ""

		c, w := createTestContext(http.MethodPost, "/v1/compliance/check", request)

		handler.CheckHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_InvalidRegionCode", func(t *testing.T) {
		handler, _, _, _ := setupTestHandler(t)

		request := validCheckRequest()
		request.TargetRegion = "not-a-region"

		c, w := createTestContext(http.MethodPost, "/v1/compliance/check", request)

		handler.CheckHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_UnknownOperation", func(t *testing.T) {
		handler, classifier, policy, _ := setupTestHandler(t)

		request := validCheckRequest()
		request.Operation = "broadcast"
		classification := &complianceDomain.DataClassification{
			Level: complianceDomain.LevelInternal,
		}

		classifier.On("Classify", mock.Anything).Return(classification).Once()
		policy.On("Evaluate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, complianceDomain.ErrUnknownOperation).Once()

		c, w := createTestContext(http.MethodPost, "/v1/compliance/check", request)

		handler.CheckHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "invalid_input", response["error"])
	})
}

func TestComplianceHandler_RegisterRulesHandler(t *testing.T) {
	validRequest := func() dto.RegisterRulesRequest {
		return dto.RegisterRulesRequest{
			Tenant: "org-acme",
			Rules: []dto.RuleRequest{
				{
					Scope:             "tenant-financial",
					DataTypes:         []string{"financial"},
					ProhibitedRegions: []string{"CN"},
					RequireEncryption: true,
					RetentionDays:     365,
				},
			},
		}
	}

	t.Run("Success", func(t *testing.T) {
		handler, _, policy, trail := setupTestHandler(t)

		request := validRequest()

		policy.On("RegisterTenantRules", request.Tenant, mock.MatchedBy(func(rules []complianceDomain.ResidencyRule) bool {
			return len(rules) == 1 && rules[0].Scope == "tenant-financial"
		})).Return(nil).Once()
		trail.On("Record", mock.Anything, mock.MatchedBy(func(input *auditDomain.RecordInput) bool {
			return input.Action == "compliance.rules_update" && input.Tenant == request.Tenant
		})).Return(&auditDomain.AuditRecord{}).Once()

		c, w := createTestContext(http.MethodPost, "/v1/compliance/rules", request)

		handler.RegisterRulesHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.RegisterRulesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, request.Tenant, response.Tenant)
		assert.Equal(t, 1, response.RuleCount)

		policy.AssertExpectations(t)
		trail.AssertExpectations(t)
	})

	t.Run("Error_EmptyRules", func(t *testing.T) {
		handler, _, _, _ := setupTestHandler(t)

		request := validRequest()
		request.Rules = nil

		c, w := createTestContext(http.MethodPost, "/v1/compliance/rules", request)

		handler.RegisterRulesHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_InvalidRule", func(t *testing.T) {
		handler, _, policy, _ := setupTestHandler(t)

		request := validRequest()

		policy.On("RegisterTenantRules", mock.Anything, mock.Anything).
			Return(complianceDomain.ErrInvalidRule).Once()

		c, w := createTestContext(http.MethodPost, "/v1/compliance/rules", request)

		handler.RegisterRulesHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_InternalFailure", func(t *testing.T) {
		handler, _, policy, _ := setupTestHandler(t)

		request := validRequest()

		policy.On("RegisterTenantRules", mock.Anything, mock.Anything).
			Return(apperrors.New("registry backend unavailable")).Once()

		c, w := createTestContext(http.MethodPost, "/v1/compliance/rules", request)

		handler.RegisterRulesHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestComplianceHandler_RetentionHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, _, policy, _ := setupTestHandler(t)

		policy.On("RetentionPeriod", "org-acme", "financial").Return(2555).Once()

		c, w := createTestContext(http.MethodGet, "/v1/compliance/retention?tenant=org-acme&data_type=financial", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader(nil))

		handler.RetentionHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.RetentionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "org-acme", response.Tenant)
		assert.Equal(t, "financial", response.DataType)
		assert.Equal(t, 2555, response.RetentionDays)

		policy.AssertExpectations(t)
	})

	t.Run("Error_MissingParams", func(t *testing.T) {
		handler, _, _, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/compliance/retention?tenant=org-acme", nil)

		handler.RetentionHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestRequesterActor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("HeaderSet", func(t *testing.T) {
		c, _ := createTestContext(http.MethodPost, "/v1/compliance/check", nil)
		c.Request.Header.Set("X-Actor-ID", "user-42")

		assert.Equal(t, "user-42", requesterActor(c))
	})

	t.Run("FallbackToSystem", func(t *testing.T) {
		c, _ := createTestContext(http.MethodPost, "/v1/compliance/check", nil)

		assert.Equal(t, "system", requesterActor(c))
	})
}
