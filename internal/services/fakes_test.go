package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Minkhantthwin/Backend/internal/data/graph"
	"github.com/Minkhantthwin/Backend/internal/data/repos"
	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

func testLogger(t interface{ Fatalf(string, ...any) }) *logger.Logger {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// Fakes embed the interface they stand in for, so only the methods a test
// exercises need an implementation.

type fakeUserRepo struct {
	repos.UserRepo
	user *domain.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByIDWithProfile(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.User, error) {
	return f.GetByID(ctx, tx, id)
}

type fakeProgramRepo struct {
	repos.ProgramRepo
	programs []*domain.Program
}

func (f *fakeProgramRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Program, error) {
	for _, p := range f.programs {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProgramRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Program, error) {
	var out []*domain.Program
	for _, id := range ids {
		for _, p := range f.programs {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakeProgramRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*domain.Program, error) {
	var out []*domain.Program
	for _, p := range f.programs {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeInterestRepo struct {
	repos.InterestRepo
	interests []*domain.Interest
}

func (f *fakeInterestRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Interest, error) {
	return f.interests, nil
}

type fakeUniversityRepo struct {
	repos.UniversityRepo
	universities []*domain.University
}

func (f *fakeUniversityRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.University, error) {
	var out []*domain.University
	for _, id := range ids {
		for _, u := range f.universities {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

type fakeStatusRepo struct {
	repos.QualificationStatusRepo
	statuses []*domain.QualificationStatus
}

func (f *fakeStatusRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.QualificationStatus, error) {
	return f.statuses, nil
}

// fakeWriter records persisted verdicts instead of touching any store.
type fakeWriter struct {
	DualWriteService

	mu     sync.Mutex
	saved  []*domain.QualificationStatus
	failOn uuid.UUID
}

func (f *fakeWriter) SaveQualificationStatus(ctx context.Context, status *domain.QualificationStatus) (WriteOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != uuid.Nil && status.ProgramID == f.failOn {
		return WriteOutcome{}, fmt.Errorf("store down")
	}
	f.saved = append(f.saved, status)
	return WriteOutcome{}, nil
}

func (f *fakeWriter) savedFor(programID uuid.UUID) *domain.QualificationStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, st := range f.saved {
		if st.ProgramID == programID {
			return st
		}
	}
	return nil
}

// fakeGraph serves canned similarity rows or a forced error, and records
// every mirror write it receives.
type fakeGraph struct {
	graph.Store

	similar   []graph.SimilarProgram
	neighbors []graph.SimilarProgram
	edges     []graph.QualifiesForEdge
	err       error

	mu        sync.Mutex
	calls     []string
	mirrorErr error
}

func (f *fakeGraph) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mirrorErr != nil {
		return f.mirrorErr
	}
	f.calls = append(f.calls, op)
	return nil
}

func (f *fakeGraph) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeGraph) lastCall() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeGraph) UpsertUser(ctx context.Context, user *domain.User, interests []*domain.Interest) error {
	return f.record("upsert_user")
}

func (f *fakeGraph) RemoveUser(ctx context.Context, id uuid.UUID) error {
	return f.record("remove_user")
}

func (f *fakeGraph) UpsertRegion(ctx context.Context, region *domain.Region) error {
	return f.record("upsert_region")
}

func (f *fakeGraph) RemoveRegion(ctx context.Context, id uuid.UUID) error {
	return f.record("remove_region")
}

func (f *fakeGraph) UpsertUniversity(ctx context.Context, university *domain.University) error {
	return f.record("upsert_university")
}

func (f *fakeGraph) RemoveUniversity(ctx context.Context, id uuid.UUID) error {
	return f.record("remove_university")
}

func (f *fakeGraph) UpsertProgram(ctx context.Context, program *domain.Program) error {
	return f.record("upsert_program")
}

func (f *fakeGraph) DeactivateProgram(ctx context.Context, id uuid.UUID) error {
	return f.record("deactivate_program")
}

func (f *fakeGraph) UpsertEnrollment(ctx context.Context, userID, programID uuid.UUID, status domain.ApplicationStatus) error {
	return f.record("upsert_enrollment")
}

func (f *fakeGraph) UpsertQualificationEdge(ctx context.Context, status *domain.QualificationStatus) error {
	return f.record("upsert_qualification_edge")
}

func (f *fakeGraph) SimilarPrograms(ctx context.Context, userID uuid.UUID, limit int) ([]graph.SimilarProgram, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.similar, nil
}

func (f *fakeGraph) ProgramNeighbors(ctx context.Context, programID uuid.UUID, limit int) ([]graph.SimilarProgram, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.neighbors, nil
}

func (f *fakeGraph) QualifiesForEdges(ctx context.Context, userID uuid.UUID) ([]graph.QualifiesForEdge, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.edges, nil
}

// fakeQualService returns fixed batch results.
type fakeQualService struct {
	QualificationService
	statuses []*domain.QualificationStatus
}

func (f *fakeQualService) EvaluateAll(ctx context.Context, userID uuid.UUID) ([]*domain.QualificationStatus, error) {
	return f.statuses, nil
}
