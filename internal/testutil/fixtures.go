package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/identity"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// FixedTime is the clock value fixtures and test services agree on.
var FixedTime = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

// FixedClock returns FixedTime.
func FixedClock() time.Time { return FixedTime }

// CreateTestPark creates a park with a unique name.
func CreateTestPark(t *testing.T, db *gorm.DB) *models.Park {
	t.Helper()

	park := &models.Park{
		Name:     fmt.Sprintf("Test Park %d", nextID()),
		Location: "North Ridge",
		Currency: "USD",
	}
	if err := db.Create(park).Error; err != nil {
		t.Fatalf("failed to create test park: %v", err)
	}
	return park
}

// CreateTestUser creates an active user with the given role and a hashed
// password of "password123". parkID may be nil for global roles.
func CreateTestUser(t *testing.T, db *gorm.DB, role models.Role, parkID *string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:     fmt.Sprintf("user%d@test.com", nextID()),
		Password:  string(hash),
		FirstName: "Test",
		LastName:  string(role),
		Role:      role,
		ParkID:    parkID,
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CallerFor returns the identity of user.
func CallerFor(user *models.User) identity.Caller {
	return identity.Caller{UserID: user.ID, Role: user.Role, ParkID: user.ParkID}
}

// CreateTestBudget creates a budget in the given status whose balance equals total.
func CreateTestBudget(t *testing.T, db *gorm.DB, parkID string, fiscalYear int, total string, status models.BudgetStatus) *models.Budget {
	t.Helper()

	amount := decimal.RequireFromString(total)
	budget := &models.Budget{
		ParkID:      parkID,
		FiscalYear:  fiscalYear,
		TotalAmount: amount,
		Balance:     amount,
		Status:      status,
		CreatedBy:   FixtureActorID,
	}
	budget.Stamp(FixedTime)
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestCategory creates a category with allocated = balance = allocated
// and deducts it from the budget's balance.
func CreateTestCategory(t *testing.T, db *gorm.DB, budget *models.Budget, allocated string) *models.BudgetCategory {
	t.Helper()

	amount := decimal.RequireFromString(allocated)
	pct := decimal.Zero
	if budget.TotalAmount.IsPositive() {
		pct = amount.Mul(decimal.NewFromInt(100)).Div(budget.TotalAmount).Round(2)
	}
	category := &models.BudgetCategory{
		BudgetID:        budget.ID,
		Name:            fmt.Sprintf("Test Category %d", nextID()),
		Percentage:      pct,
		AllocatedAmount: amount,
		UsedAmount:      decimal.Zero,
		Balance:         amount,
		CreatedBy:       FixtureActorID,
	}
	category.Stamp(FixedTime)
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}

	budget.Balance = budget.Balance.Sub(amount)
	if err := db.Model(budget).Update("balance", budget.Balance).Error; err != nil {
		t.Fatalf("failed to update test budget balance: %v", err)
	}
	return category
}

// CreateTestIncomeStream creates an income stream on budget.
func CreateTestIncomeStream(t *testing.T, db *gorm.DB, budgetID, percentage, contribution string) *models.IncomeStream {
	t.Helper()

	stream := &models.IncomeStream{
		BudgetID:          budgetID,
		Name:              fmt.Sprintf("Test Stream %d", nextID()),
		Percentage:        decimal.RequireFromString(percentage),
		TotalContribution: decimal.RequireFromString(contribution),
		ActualBalance:     decimal.Zero,
		CreatedBy:         FixtureActorID,
	}
	stream.Stamp(FixedTime)
	if err := db.Create(stream).Error; err != nil {
		t.Fatalf("failed to create test income stream: %v", err)
	}
	return stream
}

// CreateTestExpense creates a pending expense against category.
func CreateTestExpense(t *testing.T, db *gorm.DB, budget *models.Budget, categoryID, amount string, requestedBy string) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		SpendRequest: testSpend(budget, categoryID, amount, requestedBy),
		Description:  fmt.Sprintf("Test Expense %d", nextID()),
	}
	expense.Stamp(FixedTime)
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestWithdrawRequest creates a pending withdraw request against category.
func CreateTestWithdrawRequest(t *testing.T, db *gorm.DB, budget *models.Budget, categoryID, amount string, requestedBy string) *models.WithdrawRequest {
	t.Helper()

	withdraw := &models.WithdrawRequest{
		SpendRequest: testSpend(budget, categoryID, amount, requestedBy),
		Reason:       fmt.Sprintf("Test Withdrawal %d", nextID()),
	}
	withdraw.Stamp(FixedTime)
	if err := db.Create(withdraw).Error; err != nil {
		t.Fatalf("failed to create test withdraw request: %v", err)
	}
	return withdraw
}

// CreateTestFundingRequest creates a pending funding request.
func CreateTestFundingRequest(t *testing.T, db *gorm.DB, budget *models.Budget, amount string, requestedBy string) *models.FundingRequest {
	t.Helper()

	req := &models.FundingRequest{
		ParkID:          budget.ParkID,
		BudgetID:        budget.ID,
		RequestedAmount: decimal.RequireFromString(amount),
		RequestType:     models.FundingRequestExtraFunds,
		Reason:          "trail repairs",
		Status:          models.RequestStatusPending,
		RequestedBy:     requestedBy,
	}
	req.Stamp(FixedTime)
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("failed to create test funding request: %v", err)
	}
	return req
}

// SetAuditStatus overwrites the audit status of a spend record in table.
func SetAuditStatus(t *testing.T, db *gorm.DB, table, id string, status models.AuditStatus) {
	t.Helper()

	if err := db.Table(table).Where("id = ?", id).Update("audit_status", status).Error; err != nil {
		t.Fatalf("failed to set audit status: %v", err)
	}
}

// FixtureActorID is recorded as the creator of fixture rows.
const FixtureActorID = "00000000-0000-7000-8000-000000000001"

func testSpend(budget *models.Budget, categoryID, amount, requestedBy string) models.SpendRequest {
	return models.SpendRequest{
		BudgetID:    budget.ID,
		CategoryID:  categoryID,
		ParkID:      budget.ParkID,
		FiscalYear:  budget.FiscalYear,
		Amount:      decimal.RequireFromString(amount),
		Status:      models.RequestStatusPending,
		AuditStatus: models.AuditStatusUnjustified,
		RequestedBy: requestedBy,
	}
}
