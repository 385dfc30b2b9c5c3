package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QualificationStatus is the persisted result of evaluating one user against
// one program. There is at most one row per (user, program) pair; it is
// overwritten on re-evaluation.
type QualificationStatus struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_user_program;column:user_id" json:"user_id"`
	ProgramID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_user_program;column:program_id" json:"program_id"`

	IsQualified       bool    `gorm:"not null;column:is_qualified" json:"is_qualified"`
	FitScore          float64 `gorm:"not null;column:fit_score" json:"fit_score"`
	RequirementsMet   int     `gorm:"not null;column:requirements_met" json:"requirements_met"`
	TotalRequirements int     `gorm:"not null;column:total_requirements" json:"total_requirements"`

	// UnmetRequirements holds human-readable reasons in evaluation order.
	UnmetRequirements datatypes.JSON `gorm:"column:unmet_requirements" json:"unmet_requirements"`

	EvaluatedAt time.Time `gorm:"not null;column:evaluated_at" json:"evaluated_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (QualificationStatus) TableName() string { return "user_qualification_status" }
