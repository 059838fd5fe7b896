package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/identity"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/middleware"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/validator"
)

const (
	testParkID     = "0190f5a2-7c3e-7b11-9a44-3f1d2c5e8a01"
	testBudgetID   = "0190f5a2-7c3e-7b11-9a44-3f1d2c5e8a02"
	testCategoryID = "0190f5a2-7c3e-7b11-9a44-3f1d2c5e8a03"
	testRecordID   = "0190f5a2-7c3e-7b11-9a44-3f1d2c5e8a04"
	testUserID     = "0190f5a2-7c3e-7b11-9a44-3f1d2c5e8a05"
)

type mockActivityLogger struct {
	actions []string
}

func (m *mockActivityLogger) Log(_, action, _, _, _ string, _ map[string]interface{}) {
	m.actions = append(m.actions, action)
}

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectCaller(caller identity.Caller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CallerKey, caller)
		c.Next()
	}
}

func financeOfficer() identity.Caller {
	parkID := testParkID
	return identity.Caller{UserID: testUserID, Role: models.RoleFinanceOfficer, ParkID: &parkID}
}

func callerWithRole(role models.Role) identity.Caller {
	return identity.Caller{UserID: testUserID, Role: role}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertLogged(t *testing.T, activity *mockActivityLogger, action string) {
	t.Helper()
	for _, a := range activity.actions {
		if a == action {
			return
		}
	}
	t.Errorf("expected activity %q to be logged, got %v", action, activity.actions)
}
