package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

type UniversityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, university *domain.University) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.University, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.University, error)
	ListByRegion(ctx context.Context, tx *gorm.DB, regionID uuid.UUID) ([]*domain.University, error)
	Update(ctx context.Context, tx *gorm.DB, university *domain.University) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type universityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUniversityRepo(db *gorm.DB, baseLog *logger.Logger) UniversityRepo {
	return &universityRepo{db: db, log: baseLog.With("repo", "UniversityRepo")}
}

func (r *universityRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *universityRepo) Create(ctx context.Context, tx *gorm.DB, university *domain.University) error {
	return r.conn(tx).WithContext(ctx).Create(university).Error
}

func (r *universityRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.University, error) {
	var university domain.University
	err := r.conn(tx).WithContext(ctx).First(&university, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &university, nil
}

func (r *universityRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.University, error) {
	var results []*domain.University
	if len(ids) == 0 {
		return results, nil
	}
	if err := r.conn(tx).WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *universityRepo) ListByRegion(ctx context.Context, tx *gorm.DB, regionID uuid.UUID) ([]*domain.University, error) {
	var results []*domain.University
	if err := r.conn(tx).WithContext(ctx).
		Where("region_id = ?", regionID).
		Order("ranking_world ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *universityRepo) Update(ctx context.Context, tx *gorm.DB, university *domain.University) error {
	res := r.conn(tx).WithContext(ctx).Model(&domain.University{}).
		Where("id = ?", university.ID).
		Updates(map[string]interface{}{
			"region_id":        university.RegionID,
			"name":             university.Name,
			"city":             university.City,
			"type":             university.Type,
			"website":          university.Website,
			"established_year": university.EstablishedYear,
			"ranking_world":    university.RankingWorld,
			"ranking_national": university.RankingNational,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *universityRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := r.conn(tx).WithContext(ctx).Delete(&domain.University{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
