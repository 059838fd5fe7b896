package models

// Role is the caller role resolved by the identity collaborator.
type Role string

const (
	RoleAdmin             Role = "ADMIN"
	RoleFinanceOfficer    Role = "FINANCE_OFFICER"
	RoleParkManager       Role = "PARK_MANAGER"
	RoleGovernmentOfficer Role = "GOVERNMENT_OFFICER"
	RoleAuditor           Role = "AUDITOR"
	RoleVisitor           Role = "VISITOR"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleFinanceOfficer, RoleParkManager, RoleGovernmentOfficer, RoleAuditor, RoleVisitor:
		return true
	}
	return false
}

// IsParkScoped reports whether the role only acts on its assigned park.
func (r Role) IsParkScoped() bool {
	return r == RoleFinanceOfficer || r == RoleParkManager
}

// BudgetStatus is the lifecycle state of a Budget.
type BudgetStatus string

const (
	BudgetStatusDraft    BudgetStatus = "DRAFT"
	BudgetStatusApproved BudgetStatus = "APPROVED"
	BudgetStatusRejected BudgetStatus = "REJECTED"
)

// IsValid reports whether s is a known budget status.
func (s BudgetStatus) IsValid() bool {
	switch s {
	case BudgetStatusDraft, BudgetStatusApproved, BudgetStatusRejected:
		return true
	}
	return false
}

// RequestStatus is the decision state of expenses, withdraw requests and funding requests.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// IsValid reports whether s is a known request status.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

// AuditStatus records whether a spend record was justified.
type AuditStatus string

const (
	AuditStatusPassed      AuditStatus = "PASSED"
	AuditStatusFailed      AuditStatus = "FAILED"
	AuditStatusUnjustified AuditStatus = "UNJUSTIFIED"
)

// IsValid reports whether s is a known audit status.
func (s AuditStatus) IsValid() bool {
	switch s {
	case AuditStatusPassed, AuditStatusFailed, AuditStatusUnjustified:
		return true
	}
	return false
}

// AuditProgress is the working state of an Audit.
type AuditProgress string

const (
	AuditProgressNotStarted AuditProgress = "NOT_STARTED"
	AuditProgressInProgress AuditProgress = "IN_PROGRESS"
	AuditProgressCompleted  AuditProgress = "COMPLETED"
)

// IsValid reports whether p is a known audit progress state.
func (p AuditProgress) IsValid() bool {
	switch p {
	case AuditProgressNotStarted, AuditProgressInProgress, AuditProgressCompleted:
		return true
	}
	return false
}

// FundingRequestType distinguishes planned top-ups from emergencies.
type FundingRequestType string

const (
	FundingRequestExtraFunds      FundingRequestType = "EXTRA_FUNDS"
	FundingRequestEmergencyRelief FundingRequestType = "EMERGENCY_RELIEF"
)

// IsValid reports whether t is a known funding request type.
func (t FundingRequestType) IsValid() bool {
	return t == FundingRequestExtraFunds || t == FundingRequestEmergencyRelief
}
