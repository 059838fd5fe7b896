package services

import (
	"testing"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/pagination"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/testutil"
)

func TestCreateAudit(t *testing.T) {
	t.Run("scores_expenses_and_withdraw_requests", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db, testutil.FixedClock)
		f := newSpendFixture(t, db, "1000")
		auditor := testutil.CreateTestUser(t, db, models.RoleAuditor, nil)

		passed := []string{
			testutil.CreateTestExpense(t, db, f.budget, f.category.ID, "10", f.manager.ID).ID,
			testutil.CreateTestExpense(t, db, f.budget, f.category.ID, "20", f.manager.ID).ID,
		}
		for _, id := range passed {
			testutil.SetAuditStatus(t, db, "expenses", id, models.AuditStatusPassed)
		}
		withdrawPassed := testutil.CreateTestWithdrawRequest(t, db, f.budget, f.category.ID, "30", f.manager.ID)
		testutil.SetAuditStatus(t, db, "withdraw_requests", withdrawPassed.ID, models.AuditStatusPassed)
		withdrawFailed := testutil.CreateTestWithdrawRequest(t, db, f.budget, f.category.ID, "40", f.manager.ID)
		testutil.SetAuditStatus(t, db, "withdraw_requests", withdrawFailed.ID, models.AuditStatusFailed)

		audit, err := svc.CreateAudit(testutil.CallerFor(auditor), f.park.ID, f.budget.FiscalYear)
		testutil.AssertNoError(t, err)
		if audit.TotalRecords != 4 {
			t.Errorf("expected 4 records, got %d", audit.TotalRecords)
		}
		if audit.PercentagePassed != 75 || audit.PercentageFailed != 25 || audit.PercentageUnjustified != 0 {
			t.Errorf("expected 75/25/0, got %v/%v/%v", audit.PercentagePassed, audit.PercentageFailed, audit.PercentageUnjustified)
		}
		if audit.Progress != models.AuditProgressInProgress {
			t.Errorf("expected IN_PROGRESS, got %s", audit.Progress)
		}
		if audit.CreatedBy != auditor.ID || audit.UpdatedBy != auditor.ID {
			t.Errorf("expected auditor %s stamped, got %s/%s", auditor.ID, audit.CreatedBy, audit.UpdatedBy)
		}
	})

	t.Run("thirds_round_to_two_places", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db, testutil.FixedClock)
		f := newSpendFixture(t, db, "1000")
		admin := testutil.CreateTestUser(t, db, models.RoleAdmin, nil)

		testutil.CreateTestExpense(t, db, f.budget, f.category.ID, "10", f.manager.ID)
		failed := testutil.CreateTestExpense(t, db, f.budget, f.category.ID, "10", f.manager.ID)
		testutil.SetAuditStatus(t, db, "expenses", failed.ID, models.AuditStatusFailed)
		passed := testutil.CreateTestExpense(t, db, f.budget, f.category.ID, "10", f.manager.ID)
		testutil.SetAuditStatus(t, db, "expenses", passed.ID, models.AuditStatusPassed)

		audit, err := svc.CreateAudit(testutil.CallerFor(admin), f.park.ID, f.budget.FiscalYear)
		testutil.AssertNoError(t, err)
		if audit.PercentagePassed != 33.33 || audit.PercentageFailed != 33.33 || audit.PercentageUnjustified != 33.33 {
			t.Errorf("expected 33.33 each, got %v/%v/%v", audit.PercentagePassed, audit.PercentageFailed, audit.PercentageUnjustified)
		}
	})

	t.Run("no_spend_records", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db, testutil.FixedClock)
		park := testutil.CreateTestPark(t, db)
		auditor := testutil.CreateTestUser(t, db, models.RoleAuditor, nil)

		_, err := svc.CreateAudit(testutil.CallerFor(auditor), park.ID, 2025)
		testutil.AssertAppError(t, err, "NO_SPEND_RECORDS")
	})

	t.Run("park_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db, testutil.FixedClock)
		auditor := testutil.CreateTestUser(t, db, models.RoleAuditor, nil)

		_, err := svc.CreateAudit(testutil.CallerFor(auditor), "00000000-0000-7000-8000-00000000ffff", 2025)
		testutil.AssertAppError(t, err, "PARK_NOT_FOUND")
	})

	t.Run("other_year_ignored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db, testutil.FixedClock)
		f := newSpendFixture(t, db, "1000")
		auditor := testutil.CreateTestUser(t, db, models.RoleAuditor, nil)
		testutil.CreateTestExpense(t, db, f.budget, f.category.ID, "10", f.manager.ID)

		_, err := svc.CreateAudit(testutil.CallerFor(auditor), f.park.ID, f.budget.FiscalYear+1)
		testutil.AssertAppError(t, err, "NO_SPEND_RECORDS")
	})

	t.Run("duplicate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db, testutil.FixedClock)
		f := newSpendFixture(t, db, "1000")
		auditor := testutil.CreateTestUser(t, db, models.RoleAuditor, nil)
		testutil.CreateTestExpense(t, db, f.budget, f.category.ID, "10", f.manager.ID)

		_, err := svc.CreateAudit(testutil.CallerFor(auditor), f.park.ID, f.budget.FiscalYear)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateAudit(testutil.CallerFor(auditor), f.park.ID, f.budget.FiscalYear)
		testutil.AssertAppError(t, err, "DUPLICATE_AUDIT")
	})

	t.Run("finance_officer_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db, testutil.FixedClock)
		f := newSpendFixture(t, db, "1000")

		_, err := svc.CreateAudit(testutil.CallerFor(f.officer), f.park.ID, f.budget.FiscalYear)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestUpdateAuditProgress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db, testutil.FixedClock)
	f := newSpendFixture(t, db, "1000")
	auditor := testutil.CreateTestUser(t, db, models.RoleAuditor, nil)
	expense := testutil.CreateTestExpense(t, db, f.budget, f.category.ID, "10", f.manager.ID)
	audit, err := svc.CreateAudit(testutil.CallerFor(auditor), f.park.ID, f.budget.FiscalYear)
	testutil.AssertNoError(t, err)

	t.Run("completes_without_rescoring", func(t *testing.T) {
		testutil.SetAuditStatus(t, db, "expenses", expense.ID, models.AuditStatusPassed)

		updated, err := svc.UpdateAuditProgress(testutil.CallerFor(f.officer), audit.ID, models.AuditProgressCompleted)
		testutil.AssertNoError(t, err)
		if updated.Progress != models.AuditProgressCompleted {
			t.Errorf("expected COMPLETED, got %s", updated.Progress)
		}
		if updated.UpdatedBy != f.officer.ID {
			t.Errorf("expected updated_by %s, got %s", f.officer.ID, updated.UpdatedBy)
		}
		if updated.PercentageUnjustified != 100 || updated.PercentagePassed != 0 {
			t.Errorf("expected the original snapshot, got passed=%v unjustified=%v", updated.PercentagePassed, updated.PercentageUnjustified)
		}
	})

	t.Run("invalid_progress", func(t *testing.T) {
		_, err := svc.UpdateAuditProgress(testutil.CallerFor(auditor), audit.ID, models.AuditProgress("DONE"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := svc.UpdateAuditProgress(testutil.CallerFor(&models.User{}), audit.ID, models.AuditProgressCompleted)
		testutil.AssertAppError(t, err, "UNAUTHORIZED")
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := svc.UpdateAuditProgress(testutil.CallerFor(auditor), testutil.FixtureActorID, models.AuditProgressCompleted)
		testutil.AssertAppError(t, err, "AUDIT_NOT_FOUND")
	})
}

func TestAuditReads(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db, testutil.FixedClock)
	f := newSpendFixture(t, db, "1000")
	auditor := testutil.CreateTestUser(t, db, models.RoleAuditor, nil)
	testutil.CreateTestExpense(t, db, f.budget, f.category.ID, "10", f.manager.ID)
	audit, err := svc.CreateAudit(testutil.CallerFor(auditor), f.park.ID, f.budget.FiscalYear)
	testutil.AssertNoError(t, err)

	found, err := svc.GetAuditByParkAndYear(f.park.ID, f.budget.FiscalYear)
	testutil.AssertNoError(t, err)
	if found.ID != audit.ID {
		t.Errorf("expected audit %s, got %s", audit.ID, found.ID)
	}

	_, err = svc.GetAuditByParkAndYear(f.park.ID, 1999)
	testutil.AssertAppError(t, err, "AUDIT_NOT_FOUND")

	list, err := svc.ListParkAudits(f.park.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if list.TotalItems != 1 {
		t.Errorf("expected 1 audit, got %d", list.TotalItems)
	}
}
