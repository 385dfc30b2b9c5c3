package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

type QualificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, qualification *domain.Qualification) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Qualification, error)
}

type qualificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQualificationRepo(db *gorm.DB, baseLog *logger.Logger) QualificationRepo {
	return &qualificationRepo{db: db, log: baseLog.With("repo", "QualificationRepo")}
}

func (r *qualificationRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *qualificationRepo) Create(ctx context.Context, tx *gorm.DB, qualification *domain.Qualification) error {
	return r.conn(tx).WithContext(ctx).Create(qualification).Error
}

func (r *qualificationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Qualification, error) {
	var results []*domain.Qualification
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completion_year DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
