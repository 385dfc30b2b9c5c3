package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Minkhantthwin/Backend/internal/data/repos"
	"github.com/Minkhantthwin/Backend/internal/data/testdb"
	"github.com/Minkhantthwin/Backend/internal/domain"
	apperrors "github.com/Minkhantthwin/Backend/internal/pkg/errors"
)

// Validation runs before any store is touched, so these need no database.

func validationOnlyWriter(t *testing.T) DualWriteService {
	return NewDualWriteService(nil, repos.Repos{}, nil, nil, 0, testLogger(t))
}

func TestDualWrite_RejectsInvalidInterestLevel(t *testing.T) {
	w := validationOnlyWriter(t)
	_, err := w.AddInterest(context.Background(), &domain.Interest{
		UserID:        uuid.New(),
		FieldOfStudy:  "Physics",
		InterestLevel: "obsessed",
	})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestDualWrite_RejectsExpiryBeforeTestDate(t *testing.T) {
	w := validationOnlyWriter(t)
	testDate := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	expiry := testDate.AddDate(0, -1, 0)
	_, err := w.AddTestScore(context.Background(), &domain.TestScore{
		UserID:     uuid.New(),
		TestType:   "IELTS",
		Score:      7,
		TestDate:   &testDate,
		ExpiryDate: &expiry,
	})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestDualWrite_RejectsGradeAboveScale(t *testing.T) {
	w := validationOnlyWriter(t)
	_, err := w.AddQualification(context.Background(), &domain.Qualification{
		UserID:            uuid.New(),
		QualificationType: domain.DegreeBachelor,
		GradePoint:        floatPtr(4.5),
		MaxGradePoint:     floatPtr(4.0),
	})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestDualWrite_RejectsUnknownRequirementType(t *testing.T) {
	w := validationOnlyWriter(t)
	_, err := w.CreateProgram(context.Background(), &domain.Program{
		UniversityID: uuid.New(),
		Name:         "MSc CS",
		DegreeLevel:  domain.DegreeMaster,
		FieldOfStudy: "Computer Science",
		Requirements: []domain.Requirement{
			{RequirementType: "vibe_check", Value: "good", IsMandatory: true},
		},
	})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

// Integration tests below exercise the full dual-write protocol against a
// real Postgres, with the graph mirror faked so its failures are scriptable.

type syncHarness struct {
	db     *gorm.DB
	repos  repos.Repos
	graph  *fakeGraph
	writer DualWriteService
}

func newSyncHarness(t *testing.T) *syncHarness {
	db := testdb.Open(t)
	log := testLogger(t)
	reposet := repos.Wire(db, log)
	g := &fakeGraph{}
	return &syncHarness{
		db:     db,
		repos:  reposet,
		graph:  g,
		writer: NewDualWriteService(db, reposet, g, nil, time.Second, log),
	}
}

func (h *syncHarness) seedUser(t *testing.T) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:        uuid.New(),
		Email:     uuid.NewString() + "@example.com",
		Password:  "secret",
		FirstName: "Aye",
		LastName:  "Chan",
	}
	if _, err := h.writer.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (h *syncHarness) seedProgram(t *testing.T) *domain.Program {
	t.Helper()
	ctx := context.Background()
	region := &domain.Region{ID: uuid.New(), Name: "Region " + uuid.NewString()}
	if _, err := h.writer.CreateRegion(ctx, region); err != nil {
		t.Fatalf("seed region: %v", err)
	}
	university := &domain.University{ID: uuid.New(), RegionID: region.ID, Name: "Uni " + uuid.NewString()}
	if _, err := h.writer.CreateUniversity(ctx, university); err != nil {
		t.Fatalf("seed university: %v", err)
	}
	program := &domain.Program{
		ID:           uuid.New(),
		UniversityID: university.ID,
		Name:         "MSc CS",
		DegreeLevel:  domain.DegreeMaster,
		FieldOfStudy: "Computer Science",
	}
	if _, err := h.writer.CreateProgram(ctx, program); err != nil {
		t.Fatalf("seed program: %v", err)
	}
	return program
}

func TestDualWrite_PrimaryThenMirror(t *testing.T) {
	h := newSyncHarness(t)
	region := &domain.Region{ID: uuid.New(), Name: "Region " + uuid.NewString()}

	outcome, err := h.writer.CreateRegion(context.Background(), region)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Drift {
		t.Fatalf("unexpected drift: %v", outcome.DriftErr)
	}
	stored, err := h.repos.Regions.GetByID(context.Background(), nil, region.ID)
	if err != nil || stored == nil {
		t.Fatalf("primary row missing: %v", err)
	}
	if h.graph.lastCall() != "upsert_region" {
		t.Fatalf("expected mirror write, calls=%v", h.graph.calls)
	}
}

func TestDualWrite_GraphFailureIsDriftNotError(t *testing.T) {
	h := newSyncHarness(t)
	h.graph.mirrorErr = errors.New("neo4j down")
	region := &domain.Region{ID: uuid.New(), Name: "Region " + uuid.NewString()}

	outcome, err := h.writer.CreateRegion(context.Background(), region)
	if err != nil {
		t.Fatalf("mirror failure must not fail the write: %v", err)
	}
	if !outcome.Drift || outcome.DriftErr == nil {
		t.Fatalf("expected drift outcome, got %+v", outcome)
	}
	// Primary commit stands.
	stored, err := h.repos.Regions.GetByID(context.Background(), nil, region.ID)
	if err != nil || stored == nil {
		t.Fatalf("primary row should survive mirror failure: %v", err)
	}
}

func TestDualWrite_NilGraphIsDrift(t *testing.T) {
	db := testdb.Open(t)
	log := testLogger(t)
	reposet := repos.Wire(db, log)
	writer := NewDualWriteService(db, reposet, nil, nil, time.Second, log)

	region := &domain.Region{ID: uuid.New(), Name: "Region " + uuid.NewString()}
	outcome, err := writer.CreateRegion(context.Background(), region)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Drift {
		t.Fatalf("an unconfigured graph store must report drift")
	}
}

func TestDualWrite_PrimaryFailureLeavesGraphUntouched(t *testing.T) {
	h := newSyncHarness(t)

	missing := &domain.User{ID: uuid.New(), Email: "ghost@example.com", FirstName: "No", LastName: "One"}
	_, err := h.writer.UpdateUser(context.Background(), missing)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if h.graph.callCount() != 0 {
		t.Fatalf("graph must not be written when the primary write fails, calls=%v", h.graph.calls)
	}
}

func TestDualWrite_DuplicateEmailRejected(t *testing.T) {
	h := newSyncHarness(t)
	user := h.seedUser(t)

	dup := &domain.User{ID: uuid.New(), Email: user.Email, Password: "x", FirstName: "Dup", LastName: "User"}
	_, err := h.writer.CreateUser(context.Background(), dup)
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for duplicate email, got %v", err)
	}
}

func TestDualWrite_DeleteUserMirrorsRemoval(t *testing.T) {
	h := newSyncHarness(t)
	user := h.seedUser(t)

	outcome, err := h.writer.DeleteUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Drift {
		t.Fatalf("unexpected drift: %v", outcome.DriftErr)
	}
	stored, err := h.repos.Users.GetByID(context.Background(), nil, user.ID)
	if err != nil || stored != nil {
		t.Fatalf("user row should be gone, got %v / %v", stored, err)
	}
	if h.graph.lastCall() != "remove_user" {
		t.Fatalf("expected remove_user mirror call, calls=%v", h.graph.calls)
	}
}

func TestDualWrite_SoftDeleteKeepsProgramRow(t *testing.T) {
	h := newSyncHarness(t)
	program := h.seedProgram(t)

	if _, err := h.writer.SoftDeleteProgram(context.Background(), program.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, err := h.repos.Programs.GetByID(context.Background(), nil, program.ID)
	if err != nil || stored == nil {
		t.Fatalf("soft delete must keep the row: %v", err)
	}
	if stored.IsActive {
		t.Fatalf("program should be inactive")
	}
	if h.graph.lastCall() != "deactivate_program" {
		t.Fatalf("expected deactivate mirror call, calls=%v", h.graph.calls)
	}
}

func TestDualWrite_ApplicationToInactiveProgramRejected(t *testing.T) {
	h := newSyncHarness(t)
	user := h.seedUser(t)
	program := h.seedProgram(t)
	if _, err := h.writer.SoftDeleteProgram(context.Background(), program.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err := h.writer.CreateApplication(context.Background(), &domain.Application{
		UserID:    user.ID,
		ProgramID: program.ID,
	})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for inactive program, got %v", err)
	}
}

func TestDualWrite_QualificationStatusUpsertOverwrites(t *testing.T) {
	h := newSyncHarness(t)
	user := h.seedUser(t)
	program := h.seedProgram(t)
	ctx := context.Background()

	first := &domain.QualificationStatus{
		UserID: user.ID, ProgramID: program.ID,
		IsQualified: false, FitScore: 40, EvaluatedAt: time.Now().UTC(),
	}
	if _, err := h.writer.SaveQualificationStatus(ctx, first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	second := &domain.QualificationStatus{
		UserID: user.ID, ProgramID: program.ID,
		IsQualified: true, FitScore: 95, EvaluatedAt: time.Now().UTC(),
	}
	if _, err := h.writer.SaveQualificationStatus(ctx, second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	stored, err := h.repos.Statuses.GetByUserAndProgram(ctx, nil, user.ID, program.ID)
	if err != nil || stored == nil {
		t.Fatalf("status missing: %v", err)
	}
	if !stored.IsQualified || stored.FitScore != 95 {
		t.Fatalf("re-evaluation should overwrite in place, got qualified=%v fit=%.2f",
			stored.IsQualified, stored.FitScore)
	}
	if h.graph.lastCall() != "upsert_qualification_edge" {
		t.Fatalf("expected qualification edge mirror call, calls=%v", h.graph.calls)
	}
}
