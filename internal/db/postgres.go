package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
	"github.com/Minkhantthwin/Backend/internal/platform/envutil"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.GetEnv("POSTGRES_HOST", "localhost", log)
	port := envutil.GetEnv("POSTGRES_PORT", "5432", log)
	user := envutil.GetEnv("POSTGRES_USER", "postgres", log)
	password := envutil.GetEnv("POSTGRES_PASSWORD", "", log)
	name := envutil.GetEnv("POSTGRES_NAME", "uni_recommendation", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&domain.User{},
		&domain.Interest{},
		&domain.TestScore{},
		&domain.Qualification{},
		&domain.Region{},
		&domain.University{},
		&domain.Program{},
		&domain.Requirement{},
		&domain.Application{},
		&domain.QualificationStatus{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// User-owned rows go away with the user, program-owned rows with the
	// program. Programs are normally soft-deleted; the program cascades only
	// matter when a university (and its programs) is hard-deleted.
	cascades := []struct {
		constraint string
		table      string
		column     string
		refTable   string
	}{
		{"fk_user_interest_user_id", "user_interest", "user_id", "user"},
		{"fk_user_test_score_user_id", "user_test_score", "user_id", "user"},
		{"fk_user_qualification_user_id", "user_qualification", "user_id", "user"},
		{"fk_application_user_id", "application", "user_id", "user"},
		{"fk_user_qualification_status_user_id", "user_qualification_status", "user_id", "user"},
		{"fk_user_qualification_status_program_id", "user_qualification_status", "program_id", "program"},
		{"fk_application_program_id", "application", "program_id", "program"},
		{"fk_program_requirement_program_id", "program_requirement", "program_id", "program"},
		{"fk_program_university_id", "program", "university_id", "university"},
		{"fk_university_region_id", "university", "region_id", "region"},
	}
	for _, c := range cascades {
		stmt := fmt.Sprintf(`
			ALTER TABLE %q DROP CONSTRAINT IF EXISTS %q;
			ALTER TABLE %q
			ADD CONSTRAINT %q
			FOREIGN KEY (%q) REFERENCES %q("id")
			ON DELETE CASCADE
		`, c.table, c.constraint, c.table, c.constraint, c.column, c.refTable)
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("add %s: %w", c.constraint, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
