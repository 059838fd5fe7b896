package models

// Audit is a point-in-time score of how a park-year's spending was justified.
// The percentages are computed once at creation and never recomputed.
type Audit struct {
	Base
	ParkID                string        `gorm:"type:uuid;not null;uniqueIndex:uq_audits_park_year" json:"park_id"`
	Year                  int           `gorm:"not null;uniqueIndex:uq_audits_park_year" json:"year"`
	TotalRecords          int64         `gorm:"not null" json:"total_records"`
	PercentagePassed      float64       `gorm:"not null" json:"percentage_passed"`
	PercentageFailed      float64       `gorm:"not null" json:"percentage_failed"`
	PercentageUnjustified float64       `gorm:"not null" json:"percentage_unjustified"`
	Progress              AuditProgress `gorm:"not null" json:"progress"`
	CreatedBy             string        `gorm:"type:uuid;not null" json:"created_by"`
	UpdatedBy             string        `gorm:"type:uuid;not null" json:"updated_by"`
}
