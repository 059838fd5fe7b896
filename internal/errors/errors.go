// Package errors provides the structured error type returned by every engine
// operation. Each AppError carries a machine-checkable code and kind plus a
// human-readable message; internal causes are kept for logging and never sent
// to clients.
package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError for callers that do not speak HTTP.
type Kind string

const (
	KindBadRequest   Kind = "BAD_REQUEST"
	KindNotFound     Kind = "NOT_FOUND"
	KindForbidden    Kind = "FORBIDDEN"
	KindConflict     Kind = "CONFLICT"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindInternal     Kind = "INTERNAL"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches another AppError by code, so a customized copy still
// satisfies errors.Is against its sentinel.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Kind derives the error kind from the status code.
func (e *AppError) Kind() Kind {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusConflict:
		return KindConflict
	case http.StatusUnauthorized:
		return KindUnauthorized
	default:
		return KindInternal
	}
}

// KindOf returns the kind of err, or KindInternal for non-AppErrors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return KindInternal
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrParkScope          = &AppError{Code: "PARK_SCOPE_MISMATCH", Message: "You are not assigned to this park", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User and park errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrParkNotFound   = &AppError{Code: "PARK_NOT_FOUND", Message: "Park not found", StatusCode: http.StatusNotFound}
	ErrDuplicatePark  = &AppError{Code: "DUPLICATE_PARK", Message: "A park with this name already exists", StatusCode: http.StatusConflict}
)

// Budget errors.
var (
	ErrBudgetNotFound    = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrDuplicateBudget   = &AppError{Code: "DUPLICATE_BUDGET", Message: "A budget already exists for this park and fiscal year", StatusCode: http.StatusConflict}
	ErrBudgetNotDraft    = &AppError{Code: "BUDGET_NOT_DRAFT", Message: "Only DRAFT budgets can be modified", StatusCode: http.StatusBadRequest}
	ErrBudgetNotApproved = &AppError{Code: "BUDGET_NOT_APPROVED", Message: "Budget is not APPROVED", StatusCode: http.StatusBadRequest}
	ErrBudgetBelowAlloc  = &AppError{Code: "BUDGET_BELOW_ALLOCATIONS", Message: "Total amount is below the amount already allocated to categories", StatusCode: http.StatusBadRequest}
)

// Category allocation errors.
var (
	ErrCategoryNotFound       = &AppError{Code: "BUDGET_CATEGORY_NOT_FOUND", Message: "Budget category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategoryName  = &AppError{Code: "DUPLICATE_CATEGORY_NAME", Message: "A category with this name already exists in the budget", StatusCode: http.StatusBadRequest}
	ErrAllocationExceeded     = &AppError{Code: "ALLOCATION_EXCEEDED", Message: "Allocation exceeds the budget's unallocated amount", StatusCode: http.StatusBadRequest}
	ErrAllocationBelowUsed    = &AppError{Code: "ALLOCATION_BELOW_USED", Message: "Allocated amount cannot be less than the amount already used", StatusCode: http.StatusBadRequest}
	ErrCategoryBudgetMismatch = &AppError{Code: "CATEGORY_BUDGET_MISMATCH", Message: "Category does not belong to this budget", StatusCode: http.StatusBadRequest}
)

// Income stream errors.
var (
	ErrIncomeStreamNotFound = &AppError{Code: "INCOME_STREAM_NOT_FOUND", Message: "Income stream not found", StatusCode: http.StatusNotFound}
	ErrPercentageExceeded   = &AppError{Code: "PERCENTAGE_EXCEEDED", Message: "Income stream percentages would exceed 100", StatusCode: http.StatusBadRequest}
	ErrContributionExceeded = &AppError{Code: "CONTRIBUTION_EXCEEDED", Message: "Income stream contributions would exceed the budget total", StatusCode: http.StatusBadRequest}
)

// Spend errors.
var (
	ErrExpenseNotFound         = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrWithdrawRequestNotFound = &AppError{Code: "WITHDRAW_REQUEST_NOT_FOUND", Message: "Withdraw request not found", StatusCode: http.StatusNotFound}
	ErrInsufficientBalance     = &AppError{Code: "INSUFFICIENT_BALANCE", Message: "insufficient balance", StatusCode: http.StatusBadRequest}
	ErrRequestNotPending       = &AppError{Code: "REQUEST_NOT_PENDING", Message: "Only PENDING requests can be decided", StatusCode: http.StatusBadRequest}
	ErrReasonRequired          = &AppError{Code: "REASON_REQUIRED", Message: "A rejection reason is required", StatusCode: http.StatusBadRequest}
)

// Funding request errors.
var (
	ErrFundingRequestNotFound = &AppError{Code: "FUNDING_REQUEST_NOT_FOUND", Message: "Funding request not found", StatusCode: http.StatusNotFound}
	ErrBudgetParkMismatch     = &AppError{Code: "BUDGET_PARK_MISMATCH", Message: "Budget does not belong to this park", StatusCode: http.StatusBadRequest}
)

// Audit errors.
var (
	ErrAuditNotFound  = &AppError{Code: "AUDIT_NOT_FOUND", Message: "Audit not found", StatusCode: http.StatusNotFound}
	ErrDuplicateAudit = &AppError{Code: "DUPLICATE_AUDIT", Message: "An audit already exists for this park and year", StatusCode: http.StatusConflict}
	ErrNoSpendRecords = &AppError{Code: "NO_SPEND_RECORDS", Message: "No expenses or withdraw requests found for this park and year", StatusCode: http.StatusNotFound}
)
