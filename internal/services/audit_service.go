package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/errors"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/identity"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/ledger"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/models"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/pagination"
)

// auditService scores how a park-year's spending was justified.
type auditService struct {
	db  *gorm.DB
	now Clock
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB, now Clock) AuditServicer {
	return &auditService{db: db, now: clockOrDefault(now)}
}

// auditTally counts spend records by audit status.
type auditTally struct {
	Passed      int64
	Failed      int64
	Unjustified int64
}

func (t auditTally) total() int64 {
	return t.Passed + t.Failed + t.Unjustified
}

type statusCount struct {
	AuditStatus models.AuditStatus
	Count       int64
}

// CreateAudit scores every expense and withdraw request of a park's fiscal
// year. The percentages are a snapshot; later audit-status changes on the
// records do not alter an existing audit.
func (s *auditService) CreateAudit(caller identity.Caller, parkID string, year int) (*models.Audit, error) {
	if err := requireRole(caller, models.RoleAuditor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := ledger.ValidateFiscalYear(year); err != nil {
		return nil, invalidInput(err)
	}
	if err := s.db.Where("id = ?", parkID).Take(&models.Park{}).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrParkNotFound)
	}

	var count int64
	if err := s.db.Model(&models.Audit{}).Where("park_id = ? AND year = ?", parkID, year).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateAudit
	}

	var tally auditTally
	for _, table := range []string{models.Expense{}.TableName(), models.WithdrawRequest{}.TableName()} {
		if err := s.countByStatus(table, parkID, year, &tally); err != nil {
			return nil, err
		}
	}
	total := tally.total()
	if total == 0 {
		return nil, apperrors.ErrNoSpendRecords
	}

	audit := &models.Audit{
		ParkID:                parkID,
		Year:                  year,
		TotalRecords:          total,
		PercentagePassed:      ledger.Ratio(tally.Passed, total),
		PercentageFailed:      ledger.Ratio(tally.Failed, total),
		PercentageUnjustified: ledger.Ratio(tally.Unjustified, total),
		Progress:              models.AuditProgressInProgress,
		CreatedBy:             caller.UserID,
		UpdatedBy:             caller.UserID,
	}
	audit.Stamp(s.now())

	if err := s.db.Create(audit).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateAudit
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return audit, nil
}

func (s *auditService) countByStatus(table, parkID string, year int, tally *auditTally) error {
	var rows []statusCount
	err := s.db.Table(table).
		Select("audit_status, COUNT(*) AS count").
		Where("park_id = ? AND fiscal_year = ? AND deleted_at IS NULL", parkID, year).
		Group("audit_status").
		Scan(&rows).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, row := range rows {
		switch row.AuditStatus {
		case models.AuditStatusPassed:
			tally.Passed += row.Count
		case models.AuditStatusFailed:
			tally.Failed += row.Count
		default:
			tally.Unjustified += row.Count
		}
	}
	return nil
}

// GetAuditByID returns an audit by ID.
func (s *auditService) GetAuditByID(auditID string) (*models.Audit, error) {
	var audit models.Audit
	if err := s.db.Where("id = ?", auditID).Take(&audit).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrAuditNotFound)
	}
	return &audit, nil
}

// GetAuditByParkAndYear returns the audit of a park's year.
func (s *auditService) GetAuditByParkAndYear(parkID string, year int) (*models.Audit, error) {
	var audit models.Audit
	if err := s.db.Where("park_id = ? AND year = ?", parkID, year).Take(&audit).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrAuditNotFound)
	}
	return &audit, nil
}

// ListParkAudits returns a park's audits, most recent year first.
func (s *auditService) ListParkAudits(parkID string, page pagination.PageRequest) (*pagination.PageResponse[models.Audit], error) {
	base := s.db.Model(&models.Audit{}).Where("park_id = ?", parkID)

	result, err := pagination.Fetch[models.Audit](base, page, "year DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// UpdateAuditProgress moves an audit between working states. Scores are
// left untouched.
func (s *auditService) UpdateAuditProgress(caller identity.Caller, auditID string, progress models.AuditProgress) (*models.Audit, error) {
	if caller.UserID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if !progress.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "progress must be NOT_STARTED, IN_PROGRESS or COMPLETED")
	}

	audit, err := s.GetAuditByID(auditID)
	if err != nil {
		return nil, err
	}

	err = s.db.Model(audit).Updates(map[string]interface{}{
		"progress":   progress,
		"updated_by": caller.UserID,
		"updated_at": s.now(),
	}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetAuditByID(auditID)
}
