package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/testutil"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/validator"
)

const pipelineKey = "test-pipeline-key"

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestAPI(t *testing.T) (*apiClient, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	engine := New(db, Options{PipelineAPIKey: pipelineKey, Clock: testutil.FixedClock})
	return &apiClient{t: t, engine: engine}, db
}

func (a *apiClient) do(method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

// login authenticates a fixture user, whose password is always password123.
func (a *apiClient) login(user *models.User) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"`+user.Email+`","password":"password123"}`)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(a.t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, key string) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	if key == "" {
		return body
	}
	obj, ok := body[key].(map[string]interface{})
	require.True(t, ok, "response has no %q object: %s", key, rec.Body.String())
	return obj
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj := decode(t, rec, "error")
	code, _ := errObj["code"].(string)
	return code
}

func TestHealth(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := api.do(http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec, "")["status"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := api.do(http.MethodGet, "/api/v1/parks", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
}

func TestCORSPreflight(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := api.do(http.MethodOptions, "/api/v1/budgets", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestBudgetAllocationFlow(t *testing.T) {
	api, db := newTestAPI(t)
	park := testutil.CreateTestPark(t, db)
	officer := api.login(testutil.CreateTestUser(t, db, models.RoleFinanceOfficer, &park.ID))
	government := api.login(testutil.CreateTestUser(t, db, models.RoleGovernmentOfficer, nil))

	rec := api.do(http.MethodPost, "/api/v1/budgets", officer,
		`{"park_id":"`+park.ID+`","fiscal_year":2025,"total_amount":"10000"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	budgetID := decode(t, rec, "budget")["id"].(string)

	// Each percentage is taken of what the budget has left.
	rec = api.do(http.MethodPost, "/api/v1/budgets/"+budgetID+"/categories", officer,
		`{"name":"Conservation","percentage":"40"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "4000", decode(t, rec, "category")["allocated_amount"])

	rec = api.do(http.MethodPost, "/api/v1/budgets/"+budgetID+"/categories", officer,
		`{"name":"Operations","percentage":"70"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "4200", decode(t, rec, "category")["allocated_amount"])

	rec = api.do(http.MethodGet, "/api/v1/budgets/"+budgetID+"/summary", officer, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decode(t, rec, "summary")
	assert.Equal(t, "8200", summary["allocated"])
	assert.Equal(t, "1800", summary["unallocated"])

	rec = api.do(http.MethodPost, "/api/v1/budgets/"+budgetID+"/approve", officer, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/budgets/"+budgetID+"/approve", government, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "APPROVED", decode(t, rec, "budget")["status"])

	rec = api.do(http.MethodPost, "/api/v1/budgets/"+budgetID+"/approve", government, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BUDGET_NOT_DRAFT", errorCode(t, rec))

	rec = api.do(http.MethodPost, "/api/v1/budgets/"+budgetID+"/categories", officer,
		`{"name":"Late","percentage":"5"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BUDGET_NOT_DRAFT", errorCode(t, rec))
}

func TestConcurrentExpenseApprovals(t *testing.T) {
	api, db := newTestAPI(t)
	park := testutil.CreateTestPark(t, db)
	manager := testutil.CreateTestUser(t, db, models.RoleParkManager, &park.ID)
	officer := api.login(testutil.CreateTestUser(t, db, models.RoleFinanceOfficer, &park.ID))
	budget := testutil.CreateTestBudget(t, db, park.ID, 2025, "10000", models.BudgetStatusApproved)
	category := testutil.CreateTestCategory(t, db, budget, "1000")
	first := testutil.CreateTestExpense(t, db, budget, category.ID, "600", manager.ID)
	second := testutil.CreateTestExpense(t, db, budget, category.ID, "600", manager.ID)

	statuses := make([]int, 2)
	var g errgroup.Group
	for i, id := range []string{first.ID, second.ID} {
		g.Go(func() error {
			statuses[i] = api.do(http.MethodPost, "/api/v1/expenses/"+id+"/approve", officer, "").Code
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.ElementsMatch(t, []int{http.StatusOK, http.StatusBadRequest}, statuses)

	rec := api.do(http.MethodGet, "/api/v1/categories/"+category.ID, officer, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode(t, rec, "category")
	assert.Equal(t, "400", got["balance"])
	assert.Equal(t, "600", got["used_amount"])
}

func TestSpendRequestLifecycle(t *testing.T) {
	api, db := newTestAPI(t)
	park := testutil.CreateTestPark(t, db)
	managerUser := testutil.CreateTestUser(t, db, models.RoleParkManager, &park.ID)
	manager := api.login(managerUser)
	officer := api.login(testutil.CreateTestUser(t, db, models.RoleFinanceOfficer, &park.ID))
	auditor := api.login(testutil.CreateTestUser(t, db, models.RoleAuditor, nil))
	budget := testutil.CreateTestBudget(t, db, park.ID, 2025, "10000", models.BudgetStatusApproved)
	category := testutil.CreateTestCategory(t, db, budget, "2000")

	rec := api.do(http.MethodPost, "/api/v1/budgets/"+budget.ID+"/withdraw-requests", manager,
		`{"category_id":"`+category.ID+`","amount":"250","reason":"Fuel for patrol vehicles"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	withdrawID := decode(t, rec, "withdraw_request")["id"].(string)

	rec = api.do(http.MethodPut, "/api/v1/withdraw-requests/"+withdrawID+"/receipt", manager,
		`{"receipt_ref":"RCPT-0042"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/v1/withdraw-requests/"+withdrawID+"/approve", officer, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "APPROVED", decode(t, rec, "withdraw_request")["status"])

	rec = api.do(http.MethodPut, "/api/v1/withdraw-requests/"+withdrawID+"/audit-status", auditor,
		`{"audit_status":"PASSED"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "PASSED", decode(t, rec, "withdraw_request")["audit_status"])

	rec = api.do(http.MethodPost, "/api/v1/budgets/"+budget.ID+"/expenses", manager,
		`{"category_id":"`+category.ID+`","amount":"100","description":"Trail signage"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	expenseID := decode(t, rec, "expense")["id"].(string)

	rec = api.do(http.MethodPost, "/api/v1/expenses/"+expenseID+"/reject", officer, `{"reason":"Duplicate order"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "REJECTED", decode(t, rec, "expense")["status"])

	rec = api.do(http.MethodGet, "/api/v1/categories/"+category.ID, officer, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1750", decode(t, rec, "category")["balance"])

	rec = api.do(http.MethodGet, "/api/v1/parks/"+park.ID+"/expenses?status=REJECTED", officer, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, decode(t, rec, "")["total_items"])
}

func TestAuditScoring(t *testing.T) {
	api, db := newTestAPI(t)
	park := testutil.CreateTestPark(t, db)
	manager := testutil.CreateTestUser(t, db, models.RoleParkManager, &park.ID)
	auditor := api.login(testutil.CreateTestUser(t, db, models.RoleAuditor, nil))
	budget := testutil.CreateTestBudget(t, db, park.ID, 2025, "10000", models.BudgetStatusApproved)
	category := testutil.CreateTestCategory(t, db, budget, "5000")

	for _, status := range []models.AuditStatus{
		models.AuditStatusPassed, models.AuditStatusPassed, models.AuditStatusPassed, models.AuditStatusFailed,
	} {
		expense := testutil.CreateTestExpense(t, db, budget, category.ID, "10", manager.ID)
		testutil.SetAuditStatus(t, db, models.Expense{}.TableName(), expense.ID, status)
	}

	rec := api.do(http.MethodPost, "/api/v1/audits", auditor, `{"park_id":"`+park.ID+`","year":2025}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	audit := decode(t, rec, "audit")
	assert.InDelta(t, 75.0, audit["percentage_passed"], 0.0001)
	assert.InDelta(t, 25.0, audit["percentage_failed"], 0.0001)
	assert.InDelta(t, 0.0, audit["percentage_unjustified"], 0.0001)
	assert.EqualValues(t, 4, audit["total_records"])

	rec = api.do(http.MethodPost, "/api/v1/audits", auditor, `{"park_id":"`+park.ID+`","year":2025}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(http.MethodPut, "/api/v1/audits/"+audit["id"].(string)+"/progress", auditor, `{"progress":"COMPLETED"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "COMPLETED", decode(t, rec, "audit")["progress"])
}

func TestFundingRequestFlow(t *testing.T) {
	api, db := newTestAPI(t)
	park := testutil.CreateTestPark(t, db)
	otherPark := testutil.CreateTestPark(t, db)
	officer := api.login(testutil.CreateTestUser(t, db, models.RoleFinanceOfficer, &park.ID))
	outsider := api.login(testutil.CreateTestUser(t, db, models.RoleFinanceOfficer, &otherPark.ID))
	government := api.login(testutil.CreateTestUser(t, db, models.RoleGovernmentOfficer, nil))
	budget := testutil.CreateTestBudget(t, db, park.ID, 2025, "10000", models.BudgetStatusApproved)

	body := `{"park_id":"` + park.ID + `","budget_id":"` + budget.ID +
		`","requested_amount":"5000","request_type":"EMERGENCY_RELIEF","reason":"Flood damage"}`

	rec := api.do(http.MethodPost, "/api/v1/funding-requests", outsider, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/funding-requests", officer, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	request := decode(t, rec, "funding_request")
	assert.Nil(t, request["approved_amount"])
	requestID := request["id"].(string)

	rec = api.do(http.MethodGet, "/api/v1/pipeline/funding-requests/approved", "", "", "X-API-Key", pipelineKey)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 0, decode(t, rec, "")["total_items"])

	rec = api.do(http.MethodPost, "/api/v1/funding-requests/"+requestID+"/approve", government, `{"approved_amount":"3500"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	request = decode(t, rec, "funding_request")
	assert.Equal(t, "APPROVED", request["status"])
	assert.Equal(t, "3500", request["approved_amount"])

	rec = api.do(http.MethodGet, "/api/v1/pipeline/funding-requests/approved", "", "", "X-API-Key", pipelineKey)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, decode(t, rec, "")["total_items"])

	rec = api.do(http.MethodGet, "/api/v1/pipeline/funding-requests/approved", "", "", "X-API-Key", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
