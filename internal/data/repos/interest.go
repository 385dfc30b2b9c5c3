package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

type InterestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, interest *domain.Interest) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Interest, error)
	ReplaceForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, interests []*domain.Interest) error
}

type interestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInterestRepo(db *gorm.DB, baseLog *logger.Logger) InterestRepo {
	return &interestRepo{db: db, log: baseLog.With("repo", "InterestRepo")}
}

func (r *interestRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *interestRepo) Create(ctx context.Context, tx *gorm.DB, interest *domain.Interest) error {
	return r.conn(tx).WithContext(ctx).Create(interest).Error
}

func (r *interestRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Interest, error) {
	var results []*domain.Interest
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *interestRepo) ReplaceForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, interests []*domain.Interest) error {
	conn := r.conn(tx).WithContext(ctx)
	if err := conn.Where("user_id = ?", userID).Delete(&domain.Interest{}).Error; err != nil {
		return err
	}
	if len(interests) == 0 {
		return nil
	}
	return conn.Create(&interests).Error
}
