package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taxclarity/internal/apperr"
	"taxclarity/internal/middleware"
	"taxclarity/internal/model"
	"taxclarity/internal/service"
	"taxclarity/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockTaxCheckService struct{ mock.Mock }

func (m *mockTaxCheckService) Check(ctx context.Context, userID uuid.UUID, in service.ProfileInput) (service.TaxCheckResponse, error) {
	args := m.Called(ctx, userID, in)
	return args.Get(0).(service.TaxCheckResponse), args.Error(1)
}

func (m *mockTaxCheckService) Current(ctx context.Context, userID uuid.UUID) (service.TaxCheckResponse, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(service.TaxCheckResponse), args.Error(1)
}

type mockChecklistService struct{ mock.Mock }

func (m *mockChecklistService) Generate(ctx context.Context, userID uuid.UUID, rule model.TaxRule) ([]model.UserActionItem, error) {
	args := m.Called(ctx, userID, rule)
	return args.Get(0).([]model.UserActionItem), args.Error(1)
}

func (m *mockChecklistService) List(ctx context.Context, userID uuid.UUID) (service.ChecklistResponse, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(service.ChecklistResponse), args.Error(1)
}

func (m *mockChecklistService) SetCompleted(ctx context.Context, userID, itemID uuid.UUID, completed bool) (model.UserActionItem, error) {
	args := m.Called(ctx, userID, itemID, completed)
	return args.Get(0).(model.UserActionItem), args.Error(1)
}

type mockEmailService struct{ mock.Mock }

func (m *mockEmailService) Send(ctx context.Context, req service.EmailRequest) (service.EmailResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(service.EmailResult), args.Error(1)
}

// fakeAuth authenticates every request as user.
func fakeAuth(user uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, user)
		c.Next()
	}
}

func noLimit(c *gin.Context) { c.Next() }

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestTaxCheckHandler_Check(t *testing.T) {
	user := uuid.New()
	svc := new(mockTaxCheckService)
	r := gin.New()
	NewTaxCheckHandler(svc, fakeAuth(user), noLimit).RegisterRoutes(r.Group(""))

	lo, hi := int64(0), int64(800000)
	in := service.ProfileInput{WorkType: model.WorkTypeSalaryEarner, IncomeMin: &lo, IncomeMax: &hi, Location: "Lagos"}
	svc.On("Check", mock.Anything, user, in).Return(service.TaxCheckResponse{
		Rule: model.TaxRule{RuleCode: "SALARY_EXEMPT"},
	}, nil).Once()

	w, resp := do(t, r, http.MethodPost, "/api/tax-check", in)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp.Status)
	assert.Contains(t, w.Body.String(), "SALARY_EXEMPT")
	svc.AssertExpectations(t)
}

func TestTaxCheckHandler_Check_BindErrorIsValidation(t *testing.T) {
	svc := new(mockTaxCheckService)
	r := gin.New()
	NewTaxCheckHandler(svc, fakeAuth(uuid.New()), noLimit).RegisterRoutes(r.Group(""))

	w, resp := do(t, r, http.MethodPost, "/api/tax-check", map[string]string{"work_type": "salary_earner"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid-input", resp.Code)
	svc.AssertNotCalled(t, "Check", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaxCheckHandler_PartialFailureMapsTo503(t *testing.T) {
	user := uuid.New()
	svc := new(mockTaxCheckService)
	r := gin.New()
	NewTaxCheckHandler(svc, fakeAuth(user), noLimit).RegisterRoutes(r.Group(""))

	lo, hi := int64(0), int64(800000)
	in := service.ProfileInput{WorkType: model.WorkTypeSalaryEarner, IncomeMin: &lo, IncomeMax: &hi, Location: "Lagos"}
	svc.On("Check", mock.Anything, user, in).
		Return(service.TaxCheckResponse{}, apperr.PartialFailure(errors.New("insert failed"))).Once()

	w, resp := do(t, r, http.MethodPost, "/api/tax-check", in)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "partial-failure", resp.Code)
}

func TestTaxCheckHandler_CurrentNotFound(t *testing.T) {
	user := uuid.New()
	svc := new(mockTaxCheckService)
	r := gin.New()
	NewTaxCheckHandler(svc, fakeAuth(user), noLimit).RegisterRoutes(r.Group(""))
	svc.On("Current", mock.Anything, user).Return(service.TaxCheckResponse{}, apperr.NotFound("tax profile not found")).Once()

	w, resp := do(t, r, http.MethodGet, "/api/tax-check/current", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not-found", resp.Code)
}

func TestActionItemHandler_SetCompleted(t *testing.T) {
	user, item := uuid.New(), uuid.New()
	svc := new(mockChecklistService)
	r := gin.New()
	NewActionItemHandler(svc, fakeAuth(user)).RegisterRoutes(r.Group(""))

	svc.On("SetCompleted", mock.Anything, user, item, true).
		Return(model.UserActionItem{ID: item, Completed: true}, nil).Once()

	w, _ := do(t, r, http.MethodPatch, "/api/action-items/"+item.String(), map[string]bool{"completed": true})
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestActionItemHandler_SetCompleted_RejectsBadInput(t *testing.T) {
	svc := new(mockChecklistService)
	r := gin.New()
	NewActionItemHandler(svc, fakeAuth(uuid.New())).RegisterRoutes(r.Group(""))

	w, _ := do(t, r, http.MethodPatch, "/api/action-items/not-a-uuid", map[string]bool{"completed": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPatch, "/api/action-items/"+uuid.NewString(), map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertNotCalled(t, "SetCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEmailHandler_ProviderErrorKeepsResult(t *testing.T) {
	svc := new(mockEmailService)
	r := gin.New()
	NewEmailHandler(svc, fakeAuth(uuid.New()), noLimit).RegisterRoutes(r.Group(""))

	req := service.EmailRequest{To: "ada@example.com", Template: "welcome"}
	svc.On("Send", mock.Anything, req).
		Return(service.EmailResult{Success: false, Error: "boom"}, apperr.Provider("send email", errors.New("boom"))).Once()

	w, resp := do(t, r, http.MethodPost, "/api/emails", req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "provider-error", resp.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestActionItemHandler_StorageErrorDoesNotLeakCause(t *testing.T) {
	user := uuid.New()
	svc := new(mockChecklistService)
	r := gin.New()
	NewActionItemHandler(svc, fakeAuth(user)).RegisterRoutes(r.Group(""))

	cause := errors.New(`ERROR: relation "user_action_items" does not exist (SQLSTATE 42P01)`)
	svc.On("List", mock.Anything, user).Return(service.ChecklistResponse{}, apperr.Storage("fetch action items", cause)).Once()

	w, resp := do(t, r, http.MethodGet, "/api/action-items", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "storage-error", resp.Code)
	assert.NotContains(t, w.Body.String(), "user_action_items")
	assert.NotContains(t, w.Body.String(), "SQLSTATE")
}
