package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Minkhantthwin/Backend/internal/data/repos"
	"github.com/Minkhantthwin/Backend/internal/domain"
	apperrors "github.com/Minkhantthwin/Backend/internal/pkg/errors"
)

func testUser() *domain.User {
	quals, scores := csProfile()
	return &domain.User{
		ID:             uuid.New(),
		Email:          "applicant@example.com",
		FirstName:      "Aye",
		LastName:       "Chan",
		Qualifications: quals,
		TestScores:     scores,
	}
}

func activeProgram(name string, reqs ...domain.Requirement) *domain.Program {
	return &domain.Program{
		ID:           uuid.New(),
		UniversityID: uuid.New(),
		Name:         name,
		DegreeLevel:  domain.DegreeMaster,
		FieldOfStudy: "Computer Science",
		IsActive:     true,
		Requirements: reqs,
	}
}

func TestQualificationEvaluate_PersistsVerdict(t *testing.T) {
	user := testUser()
	program := activeProgram("MSc CS",
		domain.Requirement{RequirementType: domain.RequirementMinGPA, Value: "80", IsMandatory: true},
		domain.Requirement{RequirementType: domain.RequirementFieldMatch, Value: "Computer Science", IsMandatory: true},
	)
	writer := &fakeWriter{}
	svc := NewQualificationService(repos.Repos{
		Users:    &fakeUserRepo{user: user},
		Programs: &fakeProgramRepo{programs: []*domain.Program{program}},
	}, writer, 2, testLogger(t))

	status, err := svc.Evaluate(context.Background(), user.ID, program.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.IsQualified || status.FitScore != 100 {
		t.Fatalf("expected full pass, got qualified=%v fit=%.2f", status.IsQualified, status.FitScore)
	}
	if status.RequirementsMet != 2 || status.TotalRequirements != 2 {
		t.Fatalf("unexpected counts: %d/%d", status.RequirementsMet, status.TotalRequirements)
	}
	if writer.savedFor(program.ID) == nil {
		t.Fatalf("verdict was not persisted")
	}
}

func TestQualificationEvaluate_UnknownUser(t *testing.T) {
	svc := NewQualificationService(repos.Repos{
		Users:    &fakeUserRepo{},
		Programs: &fakeProgramRepo{},
	}, &fakeWriter{}, 2, testLogger(t))

	_, err := svc.Evaluate(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQualificationEvaluateAll_BadProgramDoesNotAbortBatch(t *testing.T) {
	user := testUser()
	good := activeProgram("Good",
		domain.Requirement{RequirementType: domain.RequirementFieldMatch, Value: "Computer Science", IsMandatory: true})
	broken := activeProgram("Broken",
		domain.Requirement{RequirementType: "interview", Value: "x", IsMandatory: true})
	alsoGood := activeProgram("Also good")

	writer := &fakeWriter{}
	svc := NewQualificationService(repos.Repos{
		Users:    &fakeUserRepo{user: user},
		Programs: &fakeProgramRepo{programs: []*domain.Program{good, broken, alsoGood}},
	}, writer, 2, testLogger(t))

	results, err := svc.EvaluateAll(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected one record per active program, got %d", len(results))
	}
	// Output order follows the program listing.
	if results[0].ProgramID != good.ID || results[1].ProgramID != broken.ID || results[2].ProgramID != alsoGood.ID {
		t.Fatalf("results out of listing order")
	}

	if !results[0].IsQualified {
		t.Fatalf("good program should pass")
	}
	fb := results[1]
	if fb.IsQualified || fb.FitScore != 0 {
		t.Fatalf("broken program should get the conservative fallback, got qualified=%v fit=%.2f",
			fb.IsQualified, fb.FitScore)
	}
	if !strings.Contains(string(fb.UnmetRequirements), "evaluation error") {
		t.Fatalf("fallback record should carry the evaluation error marker, got %s", fb.UnmetRequirements)
	}
	if !results[2].IsQualified {
		t.Fatalf("requirement-free program should pass trivially")
	}
}

func TestQualificationEvaluateAll_PersistFailureKeepsRecord(t *testing.T) {
	user := testUser()
	program := activeProgram("MSc CS")
	writer := &fakeWriter{failOn: program.ID}
	svc := NewQualificationService(repos.Repos{
		Users:    &fakeUserRepo{user: user},
		Programs: &fakeProgramRepo{programs: []*domain.Program{program}},
	}, writer, 2, testLogger(t))

	results, err := svc.EvaluateAll(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ProgramID != program.ID {
		t.Fatalf("in-memory record should survive a persist failure")
	}
}

func TestQualificationSummary_Buckets(t *testing.T) {
	user := testUser()
	qualified := &domain.QualificationStatus{ProgramID: uuid.New(), IsQualified: true, FitScore: 100}
	partial := &domain.QualificationStatus{ProgramID: uuid.New(), IsQualified: false, FitScore: 80}
	miss := &domain.QualificationStatus{ProgramID: uuid.New(), IsQualified: false, FitScore: 20}

	svc := NewQualificationService(repos.Repos{
		Users:    &fakeUserRepo{user: user},
		Statuses: &fakeStatusRepo{statuses: []*domain.QualificationStatus{qualified, partial, miss}},
	}, &fakeWriter{}, 2, testLogger(t))

	summary, err := svc.Summary(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Total != 3 {
		t.Fatalf("expected total 3, got %d", summary.Total)
	}
	if len(summary.Qualified) != 1 || summary.Qualified[0] != qualified {
		t.Fatalf("qualified bucket wrong")
	}
	if len(summary.PartiallyQualified) != 1 || summary.PartiallyQualified[0] != partial {
		t.Fatalf("partially qualified bucket wrong")
	}
	if len(summary.NotQualified) != 1 || summary.NotQualified[0] != miss {
		t.Fatalf("not qualified bucket wrong")
	}
}
