package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

type ApplicationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, application *domain.Application) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Application, error)
}

type applicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApplicationRepo(db *gorm.DB, baseLog *logger.Logger) ApplicationRepo {
	return &applicationRepo{db: db, log: baseLog.With("repo", "ApplicationRepo")}
}

func (r *applicationRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *applicationRepo) Create(ctx context.Context, tx *gorm.DB, application *domain.Application) error {
	return r.conn(tx).WithContext(ctx).Create(application).Error
}

func (r *applicationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Application, error) {
	var results []*domain.Application
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("applied_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
