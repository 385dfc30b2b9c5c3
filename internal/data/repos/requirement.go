package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

type RequirementRepo interface {
	ListByProgram(ctx context.Context, tx *gorm.DB, programID uuid.UUID) ([]*domain.Requirement, error)
	ReplaceForProgram(ctx context.Context, tx *gorm.DB, programID uuid.UUID, requirements []*domain.Requirement) error
}

type requirementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRequirementRepo(db *gorm.DB, baseLog *logger.Logger) RequirementRepo {
	return &requirementRepo{db: db, log: baseLog.With("repo", "RequirementRepo")}
}

func (r *requirementRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *requirementRepo) ListByProgram(ctx context.Context, tx *gorm.DB, programID uuid.UUID) ([]*domain.Requirement, error) {
	var results []*domain.Requirement
	if err := r.conn(tx).WithContext(ctx).
		Where("program_id = ?", programID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ReplaceForProgram swaps a program's requirement set wholesale. Requirements
// are owned by the program, so partial edits are not supported.
func (r *requirementRepo) ReplaceForProgram(ctx context.Context, tx *gorm.DB, programID uuid.UUID, requirements []*domain.Requirement) error {
	conn := r.conn(tx).WithContext(ctx)
	if err := conn.Where("program_id = ?", programID).Delete(&domain.Requirement{}).Error; err != nil {
		return err
	}
	if len(requirements) == 0 {
		return nil
	}
	for _, req := range requirements {
		req.ProgramID = programID
	}
	return conn.Create(&requirements).Error
}
