package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

type TestScoreRepo interface {
	Create(ctx context.Context, tx *gorm.DB, score *domain.TestScore) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.TestScore, error)
}

type testScoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestScoreRepo(db *gorm.DB, baseLog *logger.Logger) TestScoreRepo {
	return &testScoreRepo{db: db, log: baseLog.With("repo", "TestScoreRepo")}
}

func (r *testScoreRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *testScoreRepo) Create(ctx context.Context, tx *gorm.DB, score *domain.TestScore) error {
	return r.conn(tx).WithContext(ctx).Create(score).Error
}

func (r *testScoreRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.TestScore, error) {
	var results []*domain.TestScore
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("test_date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
