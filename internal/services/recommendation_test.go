package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/Minkhantthwin/Backend/internal/data/graph"
	"github.com/Minkhantthwin/Backend/internal/data/repos"
	"github.com/Minkhantthwin/Backend/internal/domain"
	apperrors "github.com/Minkhantthwin/Backend/internal/pkg/errors"
)

type recoFixture struct {
	user       *domain.User
	university *domain.University
	repos      repos.Repos
	programs   *fakeProgramRepo
	interests  *fakeInterestRepo
}

func newRecoFixture() *recoFixture {
	user := &domain.User{ID: uuid.New(), Email: "applicant@example.com", FirstName: "Aye", LastName: "Chan"}
	university := &domain.University{ID: uuid.New(), RegionID: uuid.New(), Name: "Test University"}
	programs := &fakeProgramRepo{}
	interests := &fakeInterestRepo{}
	return &recoFixture{
		user:       user,
		university: university,
		programs:   programs,
		interests:  interests,
		repos: repos.Repos{
			Users:        &fakeUserRepo{user: user},
			Interests:    interests,
			Programs:     programs,
			Universities: &fakeUniversityRepo{universities: []*domain.University{university}},
		},
	}
}

func (f *recoFixture) addProgram(name string, active bool) *domain.Program {
	p := &domain.Program{
		ID:           uuid.New(),
		UniversityID: f.university.ID,
		Name:         name,
		DegreeLevel:  domain.DegreeMaster,
		FieldOfStudy: "Computer Science",
		Language:     "English",
		IsActive:     active,
	}
	f.programs.programs = append(f.programs.programs, p)
	return p
}

func TestRecommend_MultiSourceBoostArithmetic(t *testing.T) {
	f := newRecoFixture()
	p := f.addProgram("MSc CS", true)
	f.interests.interests = []*domain.Interest{
		{UserID: f.user.ID, FieldOfStudy: "Computer Science", InterestLevel: domain.InterestHigh},
	}
	qual := &fakeQualService{statuses: []*domain.QualificationStatus{
		{ProgramID: p.ID, IsQualified: true, FitScore: 100, RequirementsMet: 3, TotalRequirements: 3},
	}}

	svc := NewRecommendationService(f.repos, nil, qual, nil, DefaultScoringConfig(), testLogger(t))
	results, err := svc.Recommend(context.Background(), f.user.ID, RecommendationFilters{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	// interest 90*0.4 + qualification 100*0.5 + two-source boost 10.
	want := 90*0.4 + 100*0.5 + 10
	if got := results[0].FinalScore; math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected final score %.2f, got %.2f", want, got)
	}
	r := results[0]
	if !r.HasSource(domain.SourceInterest) || !r.HasSource(domain.SourceQualification) {
		t.Fatalf("expected interest+qualification sources, got %v", r.Sources)
	}
	if len(r.Reasons) != 2 {
		t.Fatalf("expected one reason per source, got %v", r.Reasons)
	}
	if r.UniversityName != "Test University" {
		t.Fatalf("university display name missing")
	}
}

func TestRecommend_ScoreCappedAt100(t *testing.T) {
	f := newRecoFixture()
	p := f.addProgram("MSc CS", true)
	f.interests.interests = []*domain.Interest{
		{UserID: f.user.ID, FieldOfStudy: "Computer Science", InterestLevel: domain.InterestHigh},
	}
	qual := &fakeQualService{statuses: []*domain.QualificationStatus{
		{ProgramID: p.ID, IsQualified: true, FitScore: 100},
	}}
	g := &fakeGraph{similar: []graph.SimilarProgram{
		{ProgramID: p.ID, UniversityID: f.university.ID, Score: 100, AnchorCount: 3},
	}}

	cfg := ScoringConfig{InterestWeight: 0.5, QualificationWeight: 0.5, GraphWeight: 0.5, MultiSourceBoost: 50}
	svc := NewRecommendationService(f.repos, g, qual, nil, cfg, testLogger(t))
	results, err := svc.Recommend(context.Background(), f.user.ID, RecommendationFilters{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].FinalScore != 100 {
		t.Fatalf("expected capped score 100, got %+v", results)
	}
}

func TestRecommend_GraphFailureDegrades(t *testing.T) {
	f := newRecoFixture()
	p := f.addProgram("MSc CS", true)
	f.interests.interests = []*domain.Interest{
		{UserID: f.user.ID, FieldOfStudy: "Computer Science", InterestLevel: domain.InterestMedium},
	}
	qual := &fakeQualService{}
	g := &fakeGraph{err: fmt.Errorf("neo4j down")}

	svc := NewRecommendationService(f.repos, g, qual, nil, DefaultScoringConfig(), testLogger(t))
	results, err := svc.Recommend(context.Background(), f.user.ID, RecommendationFilters{}, 10)
	if err != nil {
		t.Fatalf("graph failure must not fail the request: %v", err)
	}
	if len(results) != 1 || results[0].ProgramID != p.ID {
		t.Fatalf("interest source should still produce results, got %+v", results)
	}
	if results[0].HasSource(domain.SourceGraph) {
		t.Fatalf("graph source should be absent when the graph is down")
	}
}

func TestRecommend_SoftDeletedGraphCandidateExcluded(t *testing.T) {
	f := newRecoFixture()
	inactive := f.addProgram("Retired program", false)
	g := &fakeGraph{similar: []graph.SimilarProgram{
		{ProgramID: inactive.ID, UniversityID: f.university.ID, Score: 99, AnchorCount: 2},
	}}
	qual := &fakeQualService{}

	svc := NewRecommendationService(f.repos, g, qual, nil, DefaultScoringConfig(), testLogger(t))
	results, err := svc.Recommend(context.Background(), f.user.ID, RecommendationFilters{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("soft-deleted program must be excluded even when the graph returns it, got %+v", results)
	}
}

func TestRecommend_DeterministicTiebreak(t *testing.T) {
	f := newRecoFixture()
	a := f.addProgram("A", true)
	b := f.addProgram("B", true)
	f.interests.interests = []*domain.Interest{
		{UserID: f.user.ID, FieldOfStudy: "Computer Science", InterestLevel: domain.InterestHigh},
	}
	qual := &fakeQualService{}

	svc := NewRecommendationService(f.repos, nil, qual, nil, DefaultScoringConfig(), testLogger(t))
	results, err := svc.Recommend(context.Background(), f.user.ID, RecommendationFilters{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected both programs, got %d", len(results))
	}
	if results[0].FinalScore != results[1].FinalScore {
		t.Fatalf("fixture should produce a tie")
	}
	wantFirst, wantSecond := a.ID, b.ID
	if wantSecond.String() < wantFirst.String() {
		wantFirst, wantSecond = wantSecond, wantFirst
	}
	if results[0].ProgramID != wantFirst || results[1].ProgramID != wantSecond {
		t.Fatalf("tie must break by program id ascending")
	}
}

func TestRecommend_EmptyProfileYieldsEmptyList(t *testing.T) {
	f := newRecoFixture()
	f.addProgram("MSc CS", true)
	qual := &fakeQualService{}

	svc := NewRecommendationService(f.repos, &fakeGraph{}, qual, nil, DefaultScoringConfig(), testLogger(t))
	results, err := svc.Recommend(context.Background(), f.user.ID, RecommendationFilters{}, 10)
	if err != nil {
		t.Fatalf("an empty profile is not an error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty list, got %+v", results)
	}
}

func TestRecommend_UnknownUser(t *testing.T) {
	f := newRecoFixture()
	svc := NewRecommendationService(f.repos, nil, &fakeQualService{}, nil, DefaultScoringConfig(), testLogger(t))
	_, err := svc.Recommend(context.Background(), uuid.New(), RecommendationFilters{}, 10)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecommend_HardGateFilters(t *testing.T) {
	f := newRecoFixture()
	cheap := f.addProgram("Cheap", true)
	cheap.TuitionFee = floatPtr(5000)
	pricey := f.addProgram("Pricey", true)
	pricey.TuitionFee = floatPtr(50000)
	german := f.addProgram("Auf Deutsch", true)
	german.Language = "German"
	f.interests.interests = []*domain.Interest{
		{UserID: f.user.ID, FieldOfStudy: "Computer Science", InterestLevel: domain.InterestHigh},
	}
	qual := &fakeQualService{}
	svc := NewRecommendationService(f.repos, nil, qual, nil, DefaultScoringConfig(), testLogger(t))

	results, err := svc.Recommend(context.Background(), f.user.ID,
		RecommendationFilters{MaxTuition: floatPtr(10000), Language: "english"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ProgramID != cheap.ID {
		t.Fatalf("filters should drop the pricey and non-English programs, got %+v", results)
	}
}

func TestSimilarToProgram_ExcludesInactiveAndMissing(t *testing.T) {
	f := newRecoFixture()
	anchor := f.addProgram("Anchor", true)
	neighbor := f.addProgram("Neighbor", true)
	retired := f.addProgram("Retired", false)
	g := &fakeGraph{neighbors: []graph.SimilarProgram{
		{ProgramID: neighbor.ID, UniversityID: f.university.ID, Score: 70, AnchorCount: 1},
		{ProgramID: retired.ID, UniversityID: f.university.ID, Score: 90, AnchorCount: 1},
		{ProgramID: uuid.New(), Score: 50, AnchorCount: 1},
	}}

	svc := NewRecommendationService(f.repos, g, &fakeQualService{}, nil, DefaultScoringConfig(), testLogger(t))
	results, err := svc.SimilarToProgram(context.Background(), anchor.ID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ProgramID != neighbor.ID {
		t.Fatalf("only the live neighbor should survive, got %+v", results)
	}
}

func TestSimilarToProgram_UnknownAnchor(t *testing.T) {
	f := newRecoFixture()
	svc := NewRecommendationService(f.repos, &fakeGraph{}, &fakeQualService{}, nil, DefaultScoringConfig(), testLogger(t))
	_, err := svc.SimilarToProgram(context.Background(), uuid.New(), 10)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
