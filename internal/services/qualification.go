package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/Minkhantthwin/Backend/internal/data/repos"
	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

// partialFitThreshold separates "partially qualified" from "not qualified"
// in the summary buckets.
const partialFitThreshold = 75.0

// QualificationSummary buckets a user's persisted verdicts.
type QualificationSummary struct {
	UserID             uuid.UUID                     `json:"user_id"`
	Total              int                           `json:"total"`
	Qualified          []*domain.QualificationStatus `json:"qualified"`
	PartiallyQualified []*domain.QualificationStatus `json:"partially_qualified"`
	NotQualified       []*domain.QualificationStatus `json:"not_qualified"`
}

type QualificationService interface {
	Evaluate(ctx context.Context, userID, programID uuid.UUID) (*domain.QualificationStatus, error)
	EvaluateAll(ctx context.Context, userID uuid.UUID) ([]*domain.QualificationStatus, error)
	Summary(ctx context.Context, userID uuid.UUID) (*QualificationSummary, error)
}

type qualificationService struct {
	repos       repos.Repos
	writer      DualWriteService
	log         *logger.Logger
	concurrency int
}

func NewQualificationService(r repos.Repos, writer DualWriteService, concurrency int, baseLog *logger.Logger) QualificationService {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &qualificationService{
		repos:       r,
		writer:      writer,
		log:         baseLog.With("service", "QualificationService"),
		concurrency: concurrency,
	}
}

// Evaluate checks one user against one program and persists the verdict.
// The evaluation clock is captured once so every requirement in the call
// sees the same instant.
func (s *qualificationService) Evaluate(ctx context.Context, userID, programID uuid.UUID) (*domain.QualificationStatus, error) {
	user, err := s.repos.Users.GetByIDWithProfile(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, notFound("user", userID)
	}
	program, err := s.repos.Programs.GetByID(ctx, nil, programID)
	if err != nil {
		return nil, fmt.Errorf("load program: %w", err)
	}
	if program == nil {
		return nil, notFound("program", programID)
	}

	now := time.Now().UTC()
	status, err := s.evaluateOne(now, user, program)
	if err != nil {
		return nil, err
	}
	if _, err := s.writer.SaveQualificationStatus(ctx, status); err != nil {
		return nil, fmt.Errorf("persist verdict: %w", err)
	}
	return status, nil
}

// EvaluateAll evaluates the user against every active program. One program's
// evaluation error never aborts the batch: it becomes a conservative
// not-qualified record, and the output always has one record per active
// program in listing order.
func (s *qualificationService) EvaluateAll(ctx context.Context, userID uuid.UUID) ([]*domain.QualificationStatus, error) {
	user, err := s.repos.Users.GetByIDWithProfile(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, notFound("user", userID)
	}
	programs, err := s.repos.Programs.ListActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list active programs: %w", err)
	}

	now := time.Now().UTC()
	results := make([]*domain.QualificationStatus, len(programs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, program := range programs {
		g.Go(func() error {
			status, evalErr := s.evaluateOne(now, user, program)
			if evalErr != nil {
				s.log.Error("program evaluation failed, recording fallback verdict",
					"user_id", userID.String(), "program_id", program.ID.String(), "error", evalErr)
				status = fallbackStatus(now, userID, program.ID)
			}
			if _, saveErr := s.writer.SaveQualificationStatus(gctx, status); saveErr != nil {
				s.log.Error("verdict persist failed, returning in-memory record",
					"user_id", userID.String(), "program_id", program.ID.String(), "error", saveErr)
			}
			results[i] = status
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summary buckets the user's persisted verdicts into qualified, partially
// qualified (fit at or above the partial threshold) and not qualified.
func (s *qualificationService) Summary(ctx context.Context, userID uuid.UUID) (*QualificationSummary, error) {
	user, err := s.repos.Users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, notFound("user", userID)
	}
	statuses, err := s.repos.Statuses.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}

	summary := &QualificationSummary{
		UserID:             userID,
		Total:              len(statuses),
		Qualified:          make([]*domain.QualificationStatus, 0),
		PartiallyQualified: make([]*domain.QualificationStatus, 0),
		NotQualified:       make([]*domain.QualificationStatus, 0),
	}
	for _, st := range statuses {
		switch {
		case st.IsQualified:
			summary.Qualified = append(summary.Qualified, st)
		case st.FitScore >= partialFitThreshold:
			summary.PartiallyQualified = append(summary.PartiallyQualified, st)
		default:
			summary.NotQualified = append(summary.NotQualified, st)
		}
	}
	return summary, nil
}

func (s *qualificationService) evaluateOne(now time.Time, user *domain.User, program *domain.Program) (*domain.QualificationStatus, error) {
	ev, err := evaluateRequirements(now, program.Requirements, user.Qualifications, user.TestScores)
	if err != nil {
		return nil, fmt.Errorf("evaluate program %s: %w", program.ID, err)
	}
	return &domain.QualificationStatus{
		UserID:            user.ID,
		ProgramID:         program.ID,
		IsQualified:       ev.Qualified(),
		FitScore:          ev.FitScore(),
		RequirementsMet:   ev.MetCount(),
		TotalRequirements: len(ev.Results),
		UnmetRequirements: reasonsJSON(ev.UnmetReasons()),
		EvaluatedAt:       now,
	}, nil
}

func fallbackStatus(now time.Time, userID, programID uuid.UUID) *domain.QualificationStatus {
	return &domain.QualificationStatus{
		UserID:            userID,
		ProgramID:         programID,
		IsQualified:       false,
		FitScore:          0,
		UnmetRequirements: reasonsJSON([]string{"evaluation error"}),
		EvaluatedAt:       now,
	}
}

func reasonsJSON(reasons []string) datatypes.JSON {
	raw, err := json.Marshal(reasons)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}
