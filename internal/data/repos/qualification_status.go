package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

type QualificationStatusRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, status *domain.QualificationStatus) error
	GetByUserAndProgram(ctx context.Context, tx *gorm.DB, userID, programID uuid.UUID) (*domain.QualificationStatus, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.QualificationStatus, error)
}

type qualificationStatusRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQualificationStatusRepo(db *gorm.DB, baseLog *logger.Logger) QualificationStatusRepo {
	return &qualificationStatusRepo{db: db, log: baseLog.With("repo", "QualificationStatusRepo")}
}

func (r *qualificationStatusRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Upsert keeps at most one row per (user, program): a re-evaluation
// overwrites the previous verdict in place.
func (r *qualificationStatusRepo) Upsert(ctx context.Context, tx *gorm.DB, status *domain.QualificationStatus) error {
	return r.conn(tx).WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "program_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"is_qualified",
			"fit_score",
			"requirements_met",
			"total_requirements",
			"unmet_requirements",
			"evaluated_at",
			"updated_at",
		}),
	}).Create(status).Error
}

func (r *qualificationStatusRepo) GetByUserAndProgram(ctx context.Context, tx *gorm.DB, userID, programID uuid.UUID) (*domain.QualificationStatus, error) {
	var status domain.QualificationStatus
	err := r.conn(tx).WithContext(ctx).
		First(&status, "user_id = ? AND program_id = ?", userID, programID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *qualificationStatusRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.QualificationStatus, error) {
	var results []*domain.QualificationStatus
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("fit_score DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
