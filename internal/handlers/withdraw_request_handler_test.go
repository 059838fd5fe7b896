package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/errors"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/identity"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/pagination"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/services"
)

type mockWithdrawRequestService struct {
	createFn       func(caller identity.Caller, budgetID, categoryID string, amount decimal.Decimal, reason, receiptRef string) (*models.WithdrawRequest, error)
	getFn          func(requestID string) (*models.WithdrawRequest, error)
	approveFn      func(caller identity.Caller, requestID string) (*models.WithdrawRequest, error)
	rejectFn       func(caller identity.Caller, requestID, reason string) (*models.WithdrawRequest, error)
	auditStatusFn  func(caller identity.Caller, requestID string, status models.AuditStatus) (*models.WithdrawRequest, error)
	attachFn       func(caller identity.Caller, requestID, receiptRef string) (*models.WithdrawRequest, error)
	listParkFn     func(parkID string, page pagination.PageRequest, filter services.SpendFilter) (*pagination.PageResponse[models.WithdrawRequest], error)
	listBudgetFn   func(budgetID string, page pagination.PageRequest, filter services.SpendFilter) (*pagination.PageResponse[models.WithdrawRequest], error)
	listCategoryFn func(categoryID string, page pagination.PageRequest, filter services.SpendFilter) (*pagination.PageResponse[models.WithdrawRequest], error)
}

var _ services.WithdrawRequestServicer = (*mockWithdrawRequestService)(nil)

func emptyWithdrawPage() *pagination.PageResponse[models.WithdrawRequest] {
	resp := pagination.NewPageResponse([]models.WithdrawRequest{}, 1, 20, 0)
	return &resp
}

func (m *mockWithdrawRequestService) CreateWithdrawRequest(caller identity.Caller, budgetID, categoryID string, amount decimal.Decimal, reason, receiptRef string) (*models.WithdrawRequest, error) {
	if m.createFn != nil {
		return m.createFn(caller, budgetID, categoryID, amount, reason, receiptRef)
	}
	return &models.WithdrawRequest{}, nil
}

func (m *mockWithdrawRequestService) GetWithdrawRequestByID(requestID string) (*models.WithdrawRequest, error) {
	if m.getFn != nil {
		return m.getFn(requestID)
	}
	return &models.WithdrawRequest{}, nil
}

func (m *mockWithdrawRequestService) ListBudgetWithdrawRequests(budgetID string, page pagination.PageRequest, filter services.SpendFilter) (*pagination.PageResponse[models.WithdrawRequest], error) {
	if m.listBudgetFn != nil {
		return m.listBudgetFn(budgetID, page, filter)
	}
	return emptyWithdrawPage(), nil
}

func (m *mockWithdrawRequestService) ListCategoryWithdrawRequests(categoryID string, page pagination.PageRequest, filter services.SpendFilter) (*pagination.PageResponse[models.WithdrawRequest], error) {
	if m.listCategoryFn != nil {
		return m.listCategoryFn(categoryID, page, filter)
	}
	return emptyWithdrawPage(), nil
}

func (m *mockWithdrawRequestService) ListParkWithdrawRequests(parkID string, page pagination.PageRequest, filter services.SpendFilter) (*pagination.PageResponse[models.WithdrawRequest], error) {
	if m.listParkFn != nil {
		return m.listParkFn(parkID, page, filter)
	}
	return emptyWithdrawPage(), nil
}

func (m *mockWithdrawRequestService) ApproveWithdrawRequest(caller identity.Caller, requestID string) (*models.WithdrawRequest, error) {
	if m.approveFn != nil {
		return m.approveFn(caller, requestID)
	}
	return &models.WithdrawRequest{}, nil
}

func (m *mockWithdrawRequestService) RejectWithdrawRequest(caller identity.Caller, requestID, reason string) (*models.WithdrawRequest, error) {
	if m.rejectFn != nil {
		return m.rejectFn(caller, requestID, reason)
	}
	return &models.WithdrawRequest{}, nil
}

func (m *mockWithdrawRequestService) UpdateWithdrawRequestAuditStatus(caller identity.Caller, requestID string, status models.AuditStatus) (*models.WithdrawRequest, error) {
	if m.auditStatusFn != nil {
		return m.auditStatusFn(caller, requestID, status)
	}
	return &models.WithdrawRequest{}, nil
}

func (m *mockWithdrawRequestService) AttachWithdrawRequestReceipt(caller identity.Caller, requestID, receiptRef string) (*models.WithdrawRequest, error) {
	if m.attachFn != nil {
		return m.attachFn(caller, requestID, receiptRef)
	}
	return &models.WithdrawRequest{}, nil
}

func setupWithdrawRouter(handler *WithdrawRequestHandler, caller identity.Caller) *gin.Engine {
	r := gin.New()
	r.Use(injectCaller(caller))
	r.POST("/budgets/:id/withdraw-requests", handler.CreateWithdrawRequest)
	r.GET("/parks/:id/withdraw-requests", handler.GetParkWithdrawRequests)
	r.GET("/withdraw-requests/:id", handler.GetWithdrawRequest)
	r.POST("/withdraw-requests/:id/approve", handler.ApproveWithdrawRequest)
	r.POST("/withdraw-requests/:id/reject", handler.RejectWithdrawRequest)
	r.PUT("/withdraw-requests/:id/receipt", handler.AttachWithdrawRequestReceipt)
	return r
}

func parkManager() identity.Caller {
	parkID := testParkID
	return identity.Caller{UserID: testUserID, Role: models.RoleParkManager, ParkID: &parkID}
}

func TestWithdrawRequestHandler_Create(t *testing.T) {
	t.Run("returns 201 with the reason", func(t *testing.T) {
		var gotReason string
		svc := &mockWithdrawRequestService{
			createFn: func(_ identity.Caller, budgetID, categoryID string, amount decimal.Decimal, reason, _ string) (*models.WithdrawRequest, error) {
				gotReason = reason
				return &models.WithdrawRequest{
					Base:         models.Base{ID: testRecordID},
					SpendRequest: models.SpendRequest{BudgetID: budgetID, CategoryID: categoryID, Amount: amount, Status: models.RequestStatusPending},
					Reason:       reason,
				}, nil
			},
		}
		activity := &mockActivityLogger{}
		r := setupWithdrawRouter(NewWithdrawRequestHandler(svc, activity), parkManager())

		rec := doRequest(r, "POST", "/budgets/"+testBudgetID+"/withdraw-requests",
			`{"category_id":"`+testCategoryID+`","amount":"400","reason":"Emergency fence repair"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotReason != "Emergency fence repair" {
			t.Errorf("expected reason to be forwarded, got %q", gotReason)
		}
		request := parseJSON(t, rec)["withdraw_request"].(map[string]interface{})
		if request["amount"] != "400" {
			t.Errorf("expected amount 400, got %v", request["amount"])
		}
		assertLogged(t, activity, "CREATE_WITHDRAW_REQUEST")
	})

	t.Run("returns 400 without a reason", func(t *testing.T) {
		r := setupWithdrawRouter(NewWithdrawRequestHandler(&mockWithdrawRequestService{}, &mockActivityLogger{}), parkManager())

		rec := doRequest(r, "POST", "/budgets/"+testBudgetID+"/withdraw-requests",
			`{"category_id":"`+testCategoryID+`","amount":"400"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 403 for the wrong park", func(t *testing.T) {
		svc := &mockWithdrawRequestService{
			createFn: func(identity.Caller, string, string, decimal.Decimal, string, string) (*models.WithdrawRequest, error) {
				return nil, apperrors.ErrParkScope
			},
		}
		r := setupWithdrawRouter(NewWithdrawRequestHandler(svc, &mockActivityLogger{}), parkManager())

		rec := doRequest(r, "POST", "/budgets/"+testBudgetID+"/withdraw-requests",
			`{"category_id":"`+testCategoryID+`","amount":"400","reason":"Fence"}`)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PARK_SCOPE_MISMATCH")
	})
}

func TestWithdrawRequestHandler_Workflow(t *testing.T) {
	t.Run("approve surfaces insufficient balance", func(t *testing.T) {
		svc := &mockWithdrawRequestService{
			approveFn: func(identity.Caller, string) (*models.WithdrawRequest, error) {
				return nil, apperrors.ErrInsufficientBalance
			},
		}
		r := setupWithdrawRouter(NewWithdrawRequestHandler(svc, &mockActivityLogger{}), financeOfficer())

		rec := doRequest(r, "POST", "/withdraw-requests/"+testRecordID+"/approve", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INSUFFICIENT_BALANCE")
	})

	t.Run("reject returns 200", func(t *testing.T) {
		svc := &mockWithdrawRequestService{
			rejectFn: func(_ identity.Caller, requestID, reason string) (*models.WithdrawRequest, error) {
				return &models.WithdrawRequest{
					Base:         models.Base{ID: requestID},
					SpendRequest: models.SpendRequest{Status: models.RequestStatusRejected, RejectionReason: reason},
				}, nil
			},
		}
		r := setupWithdrawRouter(NewWithdrawRequestHandler(svc, &mockActivityLogger{}), financeOfficer())

		rec := doRequest(r, "POST", "/withdraw-requests/"+testRecordID+"/reject", `{"reason":"Not urgent"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		request := parseJSON(t, rec)["withdraw_request"].(map[string]interface{})
		if request["rejection_reason"] != "Not urgent" {
			t.Errorf("expected rejection reason, got %v", request["rejection_reason"])
		}
	})

	t.Run("receipt from another user is forbidden", func(t *testing.T) {
		svc := &mockWithdrawRequestService{
			attachFn: func(identity.Caller, string, string) (*models.WithdrawRequest, error) {
				return nil, apperrors.ErrForbidden
			},
		}
		r := setupWithdrawRouter(NewWithdrawRequestHandler(svc, &mockActivityLogger{}), parkManager())

		rec := doRequest(r, "PUT", "/withdraw-requests/"+testRecordID+"/receipt", `{"receipt_ref":"rcpt-881"}`)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("park list", func(t *testing.T) {
		var gotPark string
		svc := &mockWithdrawRequestService{
			listParkFn: func(parkID string, _ pagination.PageRequest, _ services.SpendFilter) (*pagination.PageResponse[models.WithdrawRequest], error) {
				gotPark = parkID
				return emptyWithdrawPage(), nil
			},
		}
		r := setupWithdrawRouter(NewWithdrawRequestHandler(svc, &mockActivityLogger{}), callerWithRole(models.RoleAuditor))

		rec := doRequest(r, "GET", "/parks/"+testParkID+"/withdraw-requests", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotPark != testParkID {
			t.Errorf("expected park %s, got %s", testParkID, gotPark)
		}
	})
}
