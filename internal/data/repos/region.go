package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

type RegionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, region *domain.Region) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Region, error)
	Update(ctx context.Context, tx *gorm.DB, region *domain.Region) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type regionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRegionRepo(db *gorm.DB, baseLog *logger.Logger) RegionRepo {
	return &regionRepo{db: db, log: baseLog.With("repo", "RegionRepo")}
}

func (r *regionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *regionRepo) Create(ctx context.Context, tx *gorm.DB, region *domain.Region) error {
	return r.conn(tx).WithContext(ctx).Create(region).Error
}

func (r *regionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Region, error) {
	var region domain.Region
	err := r.conn(tx).WithContext(ctx).First(&region, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *regionRepo) Update(ctx context.Context, tx *gorm.DB, region *domain.Region) error {
	res := r.conn(tx).WithContext(ctx).Model(&domain.Region{}).
		Where("id = ?", region.ID).
		Updates(map[string]interface{}{"name": region.Name, "code": region.Code})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *regionRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := r.conn(tx).WithContext(ctx).Delete(&domain.Region{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
