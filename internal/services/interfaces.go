package services

import (
	"github.com/shopspring/decimal"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/identity"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string, role models.Role, parkID *string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
}

// ParkServicer defines the contract for park-related business logic.
type ParkServicer interface {
	CreatePark(caller identity.Caller, name, location, description, currency string) (*models.Park, error)
	GetParkByID(parkID string) (*models.Park, error)
	ListParks(page pagination.PageRequest) (*pagination.PageResponse[models.Park], error)
}

// UpdateBudgetInput carries the optional fields of a budget update.
type UpdateBudgetInput struct {
	TotalAmount *decimal.Decimal
	Status      *models.BudgetStatus
	Description *string
}

// BudgetSummary aggregates a budget's allocation and funding figures.
type BudgetSummary struct {
	BudgetID           string              `json:"budget_id"`
	Status             models.BudgetStatus `json:"status"`
	TotalAmount        decimal.Decimal     `json:"total_amount"`
	Balance            decimal.Decimal     `json:"balance"`
	Allocated          decimal.Decimal     `json:"allocated"`
	Unallocated        decimal.Decimal     `json:"unallocated"`
	Used               decimal.Decimal     `json:"used"`
	CategoryBalance    decimal.Decimal     `json:"category_balance"`
	IncomePercentage   decimal.Decimal     `json:"income_percentage"`
	IncomeContribution decimal.Decimal     `json:"income_contribution"`
	CategoryCount      int64               `json:"category_count"`
	IncomeStreamCount  int64               `json:"income_stream_count"`
}

// BudgetServicer defines the contract for the budget lifecycle.
type BudgetServicer interface {
	CreateBudget(caller identity.Caller, parkID string, fiscalYear int, totalAmount decimal.Decimal, description string) (*models.Budget, error)
	GetBudgetByID(budgetID string) (*models.Budget, error)
	GetBudgetByParkAndYear(parkID string, fiscalYear int) (*models.Budget, error)
	ListParkBudgets(parkID string, page pagination.PageRequest, status *models.BudgetStatus) (*pagination.PageResponse[models.Budget], error)
	UpdateBudget(caller identity.Caller, budgetID string, input UpdateBudgetInput) (*models.Budget, error)
	ApproveBudget(caller identity.Caller, budgetID string) (*models.Budget, error)
	RejectBudget(caller identity.Caller, budgetID, reason string) (*models.Budget, error)
	DeleteBudget(caller identity.Caller, budgetID string) error
	GetBudgetSummary(budgetID string) (*BudgetSummary, error)
}

// BudgetCategoryServicer defines the contract for allocating a budget into categories.
type BudgetCategoryServicer interface {
	CreateCategory(caller identity.Caller, budgetID, name string, percentage decimal.Decimal) (*models.BudgetCategory, error)
	GetCategoryByID(categoryID string) (*models.BudgetCategory, error)
	GetCategoriesByBudget(budgetID string) ([]models.BudgetCategory, error)
	UpdateCategory(caller identity.Caller, categoryID string, name *string, allocatedAmount *decimal.Decimal) (*models.BudgetCategory, error)
	DeleteCategory(caller identity.Caller, categoryID string) error
}

// UpdateIncomeStreamInput carries the optional fields of an income stream update.
type UpdateIncomeStreamInput struct {
	Name              *string
	Percentage        *decimal.Decimal
	TotalContribution *decimal.Decimal
	ActualBalance     *decimal.Decimal
}

// IncomeStreamServicer defines the contract for a budget's declared funding sources.
type IncomeStreamServicer interface {
	CreateIncomeStream(caller identity.Caller, budgetID, name string, percentage, totalContribution decimal.Decimal) (*models.IncomeStream, error)
	GetIncomeStreamByID(streamID string) (*models.IncomeStream, error)
	GetIncomeStreamsByBudget(budgetID string) ([]models.IncomeStream, error)
	UpdateIncomeStream(caller identity.Caller, streamID string, input UpdateIncomeStreamInput) (*models.IncomeStream, error)
	DeleteIncomeStream(caller identity.Caller, streamID string) error
}

// SpendFilter holds optional filter parameters for listing spend records.
type SpendFilter struct {
	Status      *models.RequestStatus
	AuditStatus *models.AuditStatus
}

// ExpenseServicer defines the contract for expenses drawn against categories.
type ExpenseServicer interface {
	CreateExpense(caller identity.Caller, budgetID, categoryID string, amount decimal.Decimal, description, receiptRef string) (*models.Expense, error)
	GetExpenseByID(expenseID string) (*models.Expense, error)
	ListBudgetExpenses(budgetID string, page pagination.PageRequest, filter SpendFilter) (*pagination.PageResponse[models.Expense], error)
	ListCategoryExpenses(categoryID string, page pagination.PageRequest, filter SpendFilter) (*pagination.PageResponse[models.Expense], error)
	ListParkExpenses(parkID string, page pagination.PageRequest, filter SpendFilter) (*pagination.PageResponse[models.Expense], error)
	ApproveExpense(caller identity.Caller, expenseID string) (*models.Expense, error)
	RejectExpense(caller identity.Caller, expenseID, reason string) (*models.Expense, error)
	UpdateExpenseAuditStatus(caller identity.Caller, expenseID string, status models.AuditStatus) (*models.Expense, error)
	AttachExpenseReceipt(caller identity.Caller, expenseID, receiptRef string) (*models.Expense, error)
}

// WithdrawRequestServicer defines the contract for park withdraw requests.
type WithdrawRequestServicer interface {
	CreateWithdrawRequest(caller identity.Caller, budgetID, categoryID string, amount decimal.Decimal, reason, receiptRef string) (*models.WithdrawRequest, error)
	GetWithdrawRequestByID(requestID string) (*models.WithdrawRequest, error)
	ListBudgetWithdrawRequests(budgetID string, page pagination.PageRequest, filter SpendFilter) (*pagination.PageResponse[models.WithdrawRequest], error)
	ListCategoryWithdrawRequests(categoryID string, page pagination.PageRequest, filter SpendFilter) (*pagination.PageResponse[models.WithdrawRequest], error)
	ListParkWithdrawRequests(parkID string, page pagination.PageRequest, filter SpendFilter) (*pagination.PageResponse[models.WithdrawRequest], error)
	ApproveWithdrawRequest(caller identity.Caller, requestID string) (*models.WithdrawRequest, error)
	RejectWithdrawRequest(caller identity.Caller, requestID, reason string) (*models.WithdrawRequest, error)
	UpdateWithdrawRequestAuditStatus(caller identity.Caller, requestID string, status models.AuditStatus) (*models.WithdrawRequest, error)
	AttachWithdrawRequestReceipt(caller identity.Caller, requestID, receiptRef string) (*models.WithdrawRequest, error)
}

// FundingRequestServicer defines the contract for requests for money beyond an approved budget.
type FundingRequestServicer interface {
	CreateFundingRequest(caller identity.Caller, parkID, budgetID string, requestedAmount decimal.Decimal, requestType models.FundingRequestType, reason string) (*models.FundingRequest, error)
	GetFundingRequestByID(requestID string) (*models.FundingRequest, error)
	ListParkFundingRequests(parkID string, page pagination.PageRequest, status *models.RequestStatus) (*pagination.PageResponse[models.FundingRequest], error)
	ListApprovedFundingRequests(page pagination.PageRequest) (*pagination.PageResponse[models.FundingRequest], error)
	ApproveFundingRequest(caller identity.Caller, requestID string, approvedAmount decimal.Decimal) (*models.FundingRequest, error)
	RejectFundingRequest(caller identity.Caller, requestID, reason string) (*models.FundingRequest, error)
}

// AuditServicer defines the contract for scoring a park-year's spending.
type AuditServicer interface {
	CreateAudit(caller identity.Caller, parkID string, year int) (*models.Audit, error)
	GetAuditByID(auditID string) (*models.Audit, error)
	GetAuditByParkAndYear(parkID string, year int) (*models.Audit, error)
	ListParkAudits(parkID string, page pagination.PageRequest) (*pagination.PageResponse[models.Audit], error)
	UpdateAuditProgress(caller identity.Caller, auditID string, progress models.AuditProgress) (*models.Audit, error)
}

// ActivityLogger defines the contract for the append-only activity log.
type ActivityLogger interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
