package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Minkhantthwin/Backend/internal/data/testdb"
	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

func wireTestRepos(t *testing.T) Repos {
	t.Helper()
	db := testdb.Open(t)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return Wire(db, log)
}

func TestUserRepo_CreateAndLoadProfile(t *testing.T) {
	r := wireTestRepos(t)
	ctx := context.Background()

	user := &domain.User{
		ID:        uuid.New(),
		Email:     "applicant@example.com",
		Password:  "secret",
		FirstName: "Aye",
		LastName:  "Chan",
	}
	if err := r.Users.Create(ctx, nil, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := r.Interests.Create(ctx, nil, &domain.Interest{
		ID: uuid.New(), UserID: user.ID, FieldOfStudy: "Computer Science", InterestLevel: domain.InterestHigh,
	}); err != nil {
		t.Fatalf("create interest: %v", err)
	}
	if err := r.TestScores.Create(ctx, nil, &domain.TestScore{
		ID: uuid.New(), UserID: user.ID, TestType: "IELTS", Score: 7,
	}); err != nil {
		t.Fatalf("create test score: %v", err)
	}

	loaded, err := r.Users.GetByIDWithProfile(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if loaded == nil {
		t.Fatalf("expected user")
	}
	if len(loaded.Interests) != 1 || len(loaded.TestScores) != 1 {
		t.Fatalf("profile not preloaded: %d interests, %d scores",
			len(loaded.Interests), len(loaded.TestScores))
	}
}

func TestUserRepo_MissingRowIsNilNotError(t *testing.T) {
	r := wireTestRepos(t)
	user, err := r.Users.GetByID(context.Background(), nil, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil for missing row")
	}
}

func TestUserRepo_UpdateMissingRow(t *testing.T) {
	r := wireTestRepos(t)
	err := r.Users.Update(context.Background(), nil, &domain.User{
		ID: uuid.New(), Email: "ghost@example.com", FirstName: "No", LastName: "One",
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected gorm.ErrRecordNotFound, got %v", err)
	}
}

func TestUserRepo_EmailExists(t *testing.T) {
	r := wireTestRepos(t)
	ctx := context.Background()
	user := &domain.User{
		ID: uuid.New(), Email: "taken@example.com", Password: "x", FirstName: "A", LastName: "B",
	}
	if err := r.Users.Create(ctx, nil, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	exists, err := r.Users.EmailExists(ctx, nil, "taken@example.com")
	if err != nil || !exists {
		t.Fatalf("expected email to exist: %v", err)
	}
	exists, err = r.Users.EmailExists(ctx, nil, "free@example.com")
	if err != nil || exists {
		t.Fatalf("expected email to be free: %v", err)
	}
}

func TestInterestRepo_ReplaceForUser(t *testing.T) {
	r := wireTestRepos(t)
	ctx := context.Background()
	user := &domain.User{
		ID: uuid.New(), Email: "swap@example.com", Password: "x", FirstName: "A", LastName: "B",
	}
	if err := r.Users.Create(ctx, nil, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := r.Interests.Create(ctx, nil, &domain.Interest{
		ID: uuid.New(), UserID: user.ID, FieldOfStudy: "History", InterestLevel: domain.InterestLow,
	}); err != nil {
		t.Fatalf("create interest: %v", err)
	}

	err := r.Interests.ReplaceForUser(ctx, nil, user.ID, []*domain.Interest{
		{ID: uuid.New(), UserID: user.ID, FieldOfStudy: "Computer Science", InterestLevel: domain.InterestHigh},
		{ID: uuid.New(), UserID: user.ID, FieldOfStudy: "Mathematics", InterestLevel: domain.InterestMedium},
	})
	if err != nil {
		t.Fatalf("replace interests: %v", err)
	}

	interests, err := r.Interests.ListByUser(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("list interests: %v", err)
	}
	if len(interests) != 2 {
		t.Fatalf("expected wholesale swap to 2 interests, got %d", len(interests))
	}
	for _, in := range interests {
		if in.FieldOfStudy == "History" {
			t.Fatalf("old interest should be gone")
		}
	}
}
