package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

type ProgramRepo interface {
	Create(ctx context.Context, tx *gorm.DB, program *domain.Program) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Program, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Program, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*domain.Program, error)
	Update(ctx context.Context, tx *gorm.DB, program *domain.Program) error
	SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, active bool) error
}

type programRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgramRepo(db *gorm.DB, baseLog *logger.Logger) ProgramRepo {
	return &programRepo{db: db, log: baseLog.With("repo", "ProgramRepo")}
}

func (r *programRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *programRepo) Create(ctx context.Context, tx *gorm.DB, program *domain.Program) error {
	return r.conn(tx).WithContext(ctx).Create(program).Error
}

func (r *programRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Program, error) {
	var program domain.Program
	err := r.conn(tx).WithContext(ctx).
		Preload("Requirements").
		First(&program, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Program, error) {
	var results []*domain.Program
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

// ListActive returns active programs with requirements preloaded, in a stable
// order so batch evaluation output is deterministic.
func (r *programRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*domain.Program, error) {
	var results []*domain.Program
	if err := r.conn(tx).WithContext(ctx).
		Preload("Requirements").
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *programRepo) Update(ctx context.Context, tx *gorm.DB, program *domain.Program) error {
	res := r.conn(tx).WithContext(ctx).Model(&domain.Program{}).
		Where("id = ?", program.ID).
		Updates(map[string]interface{}{
			"university_id":        program.UniversityID,
			"name":                 program.Name,
			"degree_level":         program.DegreeLevel,
			"field_of_study":       program.FieldOfStudy,
			"duration_years":       program.DurationYears,
			"language":             program.Language,
			"tuition_fee":          program.TuitionFee,
			"currency":             program.Currency,
			"application_deadline": program.ApplicationDeadline,
			"start_date":           program.StartDate,
			"description":          program.Description,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *programRepo) SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, active bool) error {
	res := r.conn(tx).WithContext(ctx).Model(&domain.Program{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
