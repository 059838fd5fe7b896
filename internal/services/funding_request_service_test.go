package services

import (
	"testing"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/pagination"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/testutil"
)

func TestCreateFundingRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundingRequestService(db, testutil.FixedClock)
		park := testutil.CreateTestPark(t, db)
		officer := testutil.CreateTestUser(t, db, models.RoleFinanceOfficer, &park.ID)
		budget := testutil.CreateTestBudget(t, db, park.ID, 2025, "10000", models.BudgetStatusApproved)

		request, err := svc.CreateFundingRequest(testutil.CallerFor(officer), park.ID, budget.ID, dec("2500"), models.FundingRequestEmergencyRelief, "flood damage")
		testutil.AssertNoError(t, err)
		if request.Status != models.RequestStatusPending {
			t.Errorf("expected PENDING, got %s", request.Status)
		}
		if request.ApprovedAmount.Valid {
			t.Error("expected no approved amount on a new request")
		}
		testutil.AssertDecimal(t, request.RequestedAmount, "2500")
	})

	t.Run("officer_of_other_park", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundingRequestService(db, testutil.FixedClock)
		park := testutil.CreateTestPark(t, db)
		otherPark := testutil.CreateTestPark(t, db)
		officer := testutil.CreateTestUser(t, db, models.RoleFinanceOfficer, &otherPark.ID)
		budget := testutil.CreateTestBudget(t, db, park.ID, 2025, "10000", models.BudgetStatusApproved)

		_, err := svc.CreateFundingRequest(testutil.CallerFor(officer), park.ID, budget.ID, dec("100"), models.FundingRequestExtraFunds, "more")
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("admin_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundingRequestService(db, testutil.FixedClock)
		park := testutil.CreateTestPark(t, db)
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin, nil)
		budget := testutil.CreateTestBudget(t, db, park.ID, 2025, "10000", models.BudgetStatusApproved)

		_, err := svc.CreateFundingRequest(testutil.CallerFor(admin), park.ID, budget.ID, dec("100"), models.FundingRequestExtraFunds, "more")
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("draft_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundingRequestService(db, testutil.FixedClock)
		park := testutil.CreateTestPark(t, db)
		officer := testutil.CreateTestUser(t, db, models.RoleFinanceOfficer, &park.ID)
		budget := testutil.CreateTestBudget(t, db, park.ID, 2025, "10000", models.BudgetStatusDraft)

		_, err := svc.CreateFundingRequest(testutil.CallerFor(officer), park.ID, budget.ID, dec("100"), models.FundingRequestExtraFunds, "more")
		testutil.AssertAppError(t, err, "BUDGET_NOT_APPROVED")
	})

	t.Run("budget_of_other_park", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundingRequestService(db, testutil.FixedClock)
		park := testutil.CreateTestPark(t, db)
		otherPark := testutil.CreateTestPark(t, db)
		officer := testutil.CreateTestUser(t, db, models.RoleFinanceOfficer, &park.ID)
		budget := testutil.CreateTestBudget(t, db, otherPark.ID, 2025, "10000", models.BudgetStatusApproved)

		_, err := svc.CreateFundingRequest(testutil.CallerFor(officer), park.ID, budget.ID, dec("100"), models.FundingRequestExtraFunds, "more")
		testutil.AssertAppError(t, err, "BUDGET_PARK_MISMATCH")
	})

	t.Run("invalid_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundingRequestService(db, testutil.FixedClock)
		park := testutil.CreateTestPark(t, db)
		officer := testutil.CreateTestUser(t, db, models.RoleFinanceOfficer, &park.ID)
		budget := testutil.CreateTestBudget(t, db, park.ID, 2025, "10000", models.BudgetStatusApproved)
		caller := testutil.CallerFor(officer)

		_, err := svc.CreateFundingRequest(caller, park.ID, budget.ID, dec("100"), models.FundingRequestType("BAILOUT"), "more")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.CreateFundingRequest(caller, park.ID, budget.ID, dec("0"), models.FundingRequestExtraFunds, "more")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.CreateFundingRequest(caller, park.ID, budget.ID, dec("0.004"), models.FundingRequestExtraFunds, "more")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.CreateFundingRequest(caller, park.ID, budget.ID, dec("10"), models.FundingRequestExtraFunds, "  ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestApproveFundingRequest(t *testing.T) {
	t.Run("grants_amount_without_touching_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundingRequestService(db, testutil.FixedClock)
		park := testutil.CreateTestPark(t, db)
		officer := testutil.CreateTestUser(t, db, models.RoleFinanceOfficer, &park.ID)
		gov := testutil.CreateTestUser(t, db, models.RoleGovernmentOfficer, nil)
		budget := testutil.CreateTestBudget(t, db, park.ID, 2025, "10000", models.BudgetStatusApproved)
		request := testutil.CreateTestFundingRequest(t, db, budget, "5000", officer.ID)

		approved, err := svc.ApproveFundingRequest(testutil.CallerFor(gov), request.ID, dec("3000"))
		testutil.AssertNoError(t, err)
		if approved.Status != models.RequestStatusApproved {
			t.Errorf("expected APPROVED, got %s", approved.Status)
		}
		if !approved.ApprovedAmount.Valid {
			t.Fatal("expected approved amount to be set")
		}
		testutil.AssertDecimal(t, approved.ApprovedAmount.Decimal, "3000")
		if approved.ReviewedBy == nil || *approved.ReviewedBy != gov.ID {
			t.Errorf("expected reviewer %s, got %v", gov.ID, approved.ReviewedBy)
		}

		after := reloadBudget(t, db, budget.ID)
		testutil.AssertDecimal(t, after.Balance, "10000")
		testutil.AssertDecimal(t, after.TotalAmount, "10000")
	})

	t.Run("zero_amount_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundingRequestService(db, testutil.FixedClock)
		park := testutil.CreateTestPark(t, db)
		officer := testutil.CreateTestUser(t, db, models.RoleFinanceOfficer, &park.ID)
		gov := testutil.CreateTestUser(t, db, models.RoleGovernmentOfficer, nil)
		budget := testutil.CreateTestBudget(t, db, park.ID, 2025, "10000", models.BudgetStatusApproved)
		request := testutil.CreateTestFundingRequest(t, db, budget, "5000", officer.ID)

		_, err := svc.ApproveFundingRequest(testutil.CallerFor(gov), request.ID, dec("-1"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		approved, err := svc.ApproveFundingRequest(testutil.CallerFor(gov), request.ID, dec("0"))
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, approved.ApprovedAmount.Decimal, "0")
	})

	t.Run("already_decided", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundingRequestService(db, testutil.FixedClock)
		park := testutil.CreateTestPark(t, db)
		officer := testutil.CreateTestUser(t, db, models.RoleFinanceOfficer, &park.ID)
		gov := testutil.CreateTestUser(t, db, models.RoleGovernmentOfficer, nil)
		budget := testutil.CreateTestBudget(t, db, park.ID, 2025, "10000", models.BudgetStatusApproved)
		request := testutil.CreateTestFundingRequest(t, db, budget, "5000", officer.ID)

		_, err := svc.RejectFundingRequest(testutil.CallerFor(gov), request.ID, "not justified")
		testutil.AssertNoError(t, err)

		_, err = svc.ApproveFundingRequest(testutil.CallerFor(gov), request.ID, dec("100"))
		testutil.AssertAppError(t, err, "REQUEST_NOT_PENDING")
	})

	t.Run("finance_officer_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundingRequestService(db, testutil.FixedClock)
		park := testutil.CreateTestPark(t, db)
		officer := testutil.CreateTestUser(t, db, models.RoleFinanceOfficer, &park.ID)
		budget := testutil.CreateTestBudget(t, db, park.ID, 2025, "10000", models.BudgetStatusApproved)
		request := testutil.CreateTestFundingRequest(t, db, budget, "5000", officer.ID)

		_, err := svc.ApproveFundingRequest(testutil.CallerFor(officer), request.ID, dec("100"))
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFundingRequestService(db, testutil.FixedClock)
		gov := testutil.CreateTestUser(t, db, models.RoleGovernmentOfficer, nil)

		_, err := svc.ApproveFundingRequest(testutil.CallerFor(gov), testutil.FixtureActorID, dec("100"))
		testutil.AssertAppError(t, err, "FUNDING_REQUEST_NOT_FOUND")
	})
}

func TestRejectFundingRequest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewFundingRequestService(db, testutil.FixedClock)
	park := testutil.CreateTestPark(t, db)
	officer := testutil.CreateTestUser(t, db, models.RoleFinanceOfficer, &park.ID)
	gov := testutil.CreateTestUser(t, db, models.RoleGovernmentOfficer, nil)
	budget := testutil.CreateTestBudget(t, db, park.ID, 2025, "10000", models.BudgetStatusApproved)
	request := testutil.CreateTestFundingRequest(t, db, budget, "5000", officer.ID)

	_, err := svc.RejectFundingRequest(testutil.CallerFor(gov), request.ID, "")
	testutil.AssertAppError(t, err, "REASON_REQUIRED")

	rejected, err := svc.RejectFundingRequest(testutil.CallerFor(gov), request.ID, "reallocate instead")
	testutil.AssertNoError(t, err)
	if rejected.Status != models.RequestStatusRejected {
		t.Errorf("expected REJECTED, got %s", rejected.Status)
	}
	if rejected.RejectionReason != "reallocate instead" {
		t.Errorf("expected rejection reason, got %q", rejected.RejectionReason)
	}
	if rejected.ApprovedAmount.Valid {
		t.Error("expected no approved amount on a rejected request")
	}
}

func TestListFundingRequests(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewFundingRequestService(db, testutil.FixedClock)
	park := testutil.CreateTestPark(t, db)
	officer := testutil.CreateTestUser(t, db, models.RoleFinanceOfficer, &park.ID)
	gov := testutil.CreateTestUser(t, db, models.RoleGovernmentOfficer, nil)
	budget := testutil.CreateTestBudget(t, db, park.ID, 2025, "10000", models.BudgetStatusApproved)
	first := testutil.CreateTestFundingRequest(t, db, budget, "100", officer.ID)
	testutil.CreateTestFundingRequest(t, db, budget, "200", officer.ID)

	_, err := svc.ApproveFundingRequest(testutil.CallerFor(gov), first.ID, dec("100"))
	testutil.AssertNoError(t, err)

	all, err := svc.ListParkFundingRequests(park.ID, pagination.PageRequest{}, nil)
	testutil.AssertNoError(t, err)
	if all.TotalItems != 2 {
		t.Errorf("expected 2 requests, got %d", all.TotalItems)
	}

	pending := models.RequestStatusPending
	onlyPending, err := svc.ListParkFundingRequests(park.ID, pagination.PageRequest{}, &pending)
	testutil.AssertNoError(t, err)
	if onlyPending.TotalItems != 1 {
		t.Errorf("expected 1 pending request, got %d", onlyPending.TotalItems)
	}

	approved, err := svc.ListApprovedFundingRequests(pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if approved.TotalItems != 1 || approved.Data[0].ID != first.ID {
		t.Errorf("expected only %s approved, got %+v", first.ID, approved.Data)
	}
}
