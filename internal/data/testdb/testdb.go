// Package testdb opens the integration-test database. Tests that need a
// real Postgres gate on TEST_POSTGRES_DSN and skip when it is unset.
package testdb

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Minkhantthwin/Backend/internal/domain"
)

var tables = []string{
	"user_qualification_status",
	"application",
	"program_requirement",
	"program",
	"university",
	"region",
	"user_qualification",
	"user_test_score",
	"user_interest",
	"user",
}

// Open connects to TEST_POSTGRES_DSN, migrates the schema and wipes all
// rows so every test starts clean.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("set TEST_POSTGRES_DSN to run database integration tests")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test postgres: %v", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		t.Fatalf("enable uuid-ossp: %v", err)
	}
	err = db.AutoMigrate(
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
		t.Fatalf("migrate test schema: %v", err)
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf(`DELETE FROM %q`, table)).Error; err != nil {
			t.Fatalf("wipe table %s: %v", table, err)
		}
	}
	return db
}
