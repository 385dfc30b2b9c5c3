// Package services holds the use-case layer: the dual-write coordinator,
// the qualification evaluator and the recommendation aggregator.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Minkhantthwin/Backend/internal/clients/redis"
	"github.com/Minkhantthwin/Backend/internal/data/graph"
	"github.com/Minkhantthwin/Backend/internal/data/repos"
	"github.com/Minkhantthwin/Backend/internal/domain"
	apperrors "github.com/Minkhantthwin/Backend/internal/pkg/errors"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

// DriftError records a graph mirror write that failed after the primary
// commit succeeded. It is carried inside WriteOutcome, never returned as the
// operation error.
type DriftError struct {
	Op  string
	Err error
}

func (e *DriftError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: graph mirror skipped", e.Op)
	}
	return fmt.Sprintf("%s: graph mirror failed: %v", e.Op, e.Err)
}

func (e *DriftError) Unwrap() error { return e.Err }

// WriteOutcome is the result of a dual write. Drift means the primary commit
// succeeded but the graph mirror did not; the write as a whole still counts
// as a success and a later idempotent re-sync can repair the mirror.
type WriteOutcome struct {
	Drift    bool
	DriftErr *DriftError
}

// DualWriteService owns every mutation of the system. It writes the primary
// store first, inside one transaction, then mirrors the committed state into
// the graph. Nothing else in the codebase is allowed to write the graph.
type DualWriteService interface {
	CreateUser(ctx context.Context, user *domain.User) (WriteOutcome, error)
	UpdateUser(ctx context.Context, user *domain.User) (WriteOutcome, error)
	DeleteUser(ctx context.Context, id uuid.UUID) (WriteOutcome, error)

	AddInterest(ctx context.Context, interest *domain.Interest) (WriteOutcome, error)
	ReplaceInterests(ctx context.Context, userID uuid.UUID, interests []*domain.Interest) (WriteOutcome, error)
	AddTestScore(ctx context.Context, score *domain.TestScore) (WriteOutcome, error)
	AddQualification(ctx context.Context, qualification *domain.Qualification) (WriteOutcome, error)

	CreateRegion(ctx context.Context, region *domain.Region) (WriteOutcome, error)
	UpdateRegion(ctx context.Context, region *domain.Region) (WriteOutcome, error)
	DeleteRegion(ctx context.Context, id uuid.UUID) (WriteOutcome, error)

	CreateUniversity(ctx context.Context, university *domain.University) (WriteOutcome, error)
	UpdateUniversity(ctx context.Context, university *domain.University) (WriteOutcome, error)
	DeleteUniversity(ctx context.Context, id uuid.UUID) (WriteOutcome, error)

	CreateProgram(ctx context.Context, program *domain.Program) (WriteOutcome, error)
	UpdateProgram(ctx context.Context, program *domain.Program) (WriteOutcome, error)
	SoftDeleteProgram(ctx context.Context, id uuid.UUID) (WriteOutcome, error)

	CreateApplication(ctx context.Context, application *domain.Application) (WriteOutcome, error)
	SaveQualificationStatus(ctx context.Context, status *domain.QualificationStatus) (WriteOutcome, error)
}

type dualWriteService struct {
	db    *gorm.DB
	repos repos.Repos
	graph graph.Store
	cache redis.RecommendationCache
	log   *logger.Logger

	graphTimeout time.Duration
}

// NewDualWriteService wires the coordinator. graphStore and cache may be nil:
// a nil graph store makes every write report drift, a nil cache disables
// invalidation.
func NewDualWriteService(db *gorm.DB, r repos.Repos, graphStore graph.Store, cache redis.RecommendationCache, graphTimeout time.Duration, baseLog *logger.Logger) DualWriteService {
	if graphTimeout <= 0 {
		graphTimeout = 5 * time.Second
	}
	return &dualWriteService{
		db:           db,
		repos:        r,
		graph:        graphStore,
		cache:        cache,
		log:          baseLog.With("service", "DualWriteService"),
		graphTimeout: graphTimeout,
	}
}

// run is the dual-write protocol. The primary closure runs inside one
// transaction and any error there aborts the whole write. The mirror closure
// runs only after the primary commit; its failure is downgraded to drift.
func (s *dualWriteService) run(ctx context.Context, op string, primary func(tx *gorm.DB) error, mirror func(ctx context.Context) error) (WriteOutcome, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return primary(tx)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WriteOutcome{}, fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
		}
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidArgument) {
			return WriteOutcome{}, err
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return WriteOutcome{}, fmt.Errorf("%s: duplicate: %w", op, apperrors.ErrInvalidArgument)
		}
		return WriteOutcome{}, fmt.Errorf("%s: %w", op, err)
	}

	if mirror == nil {
		return WriteOutcome{}, nil
	}
	if s.graph == nil {
		drift := &DriftError{Op: op}
		s.log.Warn("graph store not configured, write recorded as drift", "op", op)
		return WriteOutcome{Drift: true, DriftErr: drift}, nil
	}

	mctx, cancel := context.WithTimeout(ctx, s.graphTimeout)
	defer cancel()
	if merr := mirror(mctx); merr != nil {
		drift := &DriftError{Op: op, Err: merr}
		s.log.Warn("graph mirror write failed, primary commit stands", "op", op, "error", merr)
		return WriteOutcome{Drift: true, DriftErr: drift}, nil
	}
	return WriteOutcome{}, nil
}

func (s *dualWriteService) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateUser(ctx, userID)
}

func invalidArg(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, apperrors.ErrInvalidArgument)...)
}

func notFound(what string, id uuid.UUID) error {
	return fmt.Errorf("%s %s: %w", what, id, apperrors.ErrNotFound)
}

// -- users --------------------------------------------------------------

func (s *dualWriteService) CreateUser(ctx context.Context, user *domain.User) (WriteOutcome, error) {
	if err := validateUser(user); err != nil {
		return WriteOutcome{}, err
	}
	for i := range user.Interests {
		if !user.Interests[i].InterestLevel.Valid() {
			return WriteOutcome{}, invalidArg("interest level %q", user.Interests[i].InterestLevel)
		}
	}

	outcome, err := s.run(ctx, "create user",
		func(tx *gorm.DB) error {
			exists, err := s.repos.Users.EmailExists(ctx, tx, user.Email)
			if err != nil {
				return err
			}
			if exists {
				return invalidArg("email %q already registered", user.Email)
			}
			return s.repos.Users.Create(ctx, tx, user)
		},
		func(mctx context.Context) error {
			interests := make([]*domain.Interest, len(user.Interests))
			for i := range user.Interests {
				interests[i] = &user.Interests[i]
			}
			return s.graph.UpsertUser(mctx, user, interests)
		})
	if err == nil {
		s.invalidate(ctx, user.ID)
	}
	return outcome, err
}

func (s *dualWriteService) UpdateUser(ctx context.Context, user *domain.User) (WriteOutcome, error) {
	if err := validateUser(user); err != nil {
		return WriteOutcome{}, err
	}
	outcome, err := s.run(ctx, "update user",
		func(tx *gorm.DB) error {
			return s.repos.Users.Update(ctx, tx, user)
		},
		func(mctx context.Context) error {
			interests, err := s.repos.Interests.ListByUser(mctx, nil, user.ID)
			if err != nil {
				return err
			}
			return s.graph.UpsertUser(mctx, user, interests)
		})
	if err == nil {
		s.invalidate(ctx, user.ID)
	}
	return outcome, err
}

func (s *dualWriteService) DeleteUser(ctx context.Context, id uuid.UUID) (WriteOutcome, error) {
	outcome, err := s.run(ctx, "delete user",
		func(tx *gorm.DB) error {
			return s.repos.Users.Delete(ctx, tx, id)
		},
		func(mctx context.Context) error {
			return s.graph.RemoveUser(mctx, id)
		})
	if err == nil {
		s.invalidate(ctx, id)
	}
	return outcome, err
}

// -- user profile rows --------------------------------------------------

func (s *dualWriteService) AddInterest(ctx context.Context, interest *domain.Interest) (WriteOutcome, error) {
	if interest == nil || interest.UserID == uuid.Nil {
		return WriteOutcome{}, invalidArg("interest requires a user id")
	}
	if strings.TrimSpace(interest.FieldOfStudy) == "" {
		return WriteOutcome{}, invalidArg("interest requires a field of study")
	}
	if !interest.InterestLevel.Valid() {
		return WriteOutcome{}, invalidArg("interest level %q", interest.InterestLevel)
	}

	var user *domain.User
	outcome, err := s.run(ctx, "add interest",
		func(tx *gorm.DB) error {
			u, err := s.repos.Users.GetByID(ctx, tx, interest.UserID)
			if err != nil {
				return err
			}
			if u == nil {
				return notFound("user", interest.UserID)
			}
			user = u
			return s.repos.Interests.Create(ctx, tx, interest)
		},
		func(mctx context.Context) error {
			interests, err := s.repos.Interests.ListByUser(mctx, nil, interest.UserID)
			if err != nil {
				return err
			}
			return s.graph.UpsertUser(mctx, user, interests)
		})
	if err == nil {
		s.invalidate(ctx, interest.UserID)
	}
	return outcome, err
}

func (s *dualWriteService) ReplaceInterests(ctx context.Context, userID uuid.UUID, interests []*domain.Interest) (WriteOutcome, error) {
	if userID == uuid.Nil {
		return WriteOutcome{}, invalidArg("user id required")
	}
	for _, in := range interests {
		if strings.TrimSpace(in.FieldOfStudy) == "" {
			return WriteOutcome{}, invalidArg("interest requires a field of study")
		}
		if !in.InterestLevel.Valid() {
			return WriteOutcome{}, invalidArg("interest level %q", in.InterestLevel)
		}
		in.UserID = userID
	}

	var user *domain.User
	outcome, err := s.run(ctx, "replace interests",
		func(tx *gorm.DB) error {
			u, err := s.repos.Users.GetByID(ctx, tx, userID)
			if err != nil {
				return err
			}
			if u == nil {
				return notFound("user", userID)
			}
			user = u
			return s.repos.Interests.ReplaceForUser(ctx, tx, userID, interests)
		},
		func(mctx context.Context) error {
			return s.graph.UpsertUser(mctx, user, interests)
		})
	if err == nil {
		s.invalidate(ctx, userID)
	}
	return outcome, err
}

// AddTestScore has no graph mirror: scores only feed qualification
// evaluation, whose verdicts are mirrored separately.
func (s *dualWriteService) AddTestScore(ctx context.Context, score *domain.TestScore) (WriteOutcome, error) {
	if score == nil || score.UserID == uuid.Nil {
		return WriteOutcome{}, invalidArg("test score requires a user id")
	}
	if strings.TrimSpace(score.TestType) == "" {
		return WriteOutcome{}, invalidArg("test score requires a test type")
	}
	if score.Score < 0 {
		return WriteOutcome{}, invalidArg("test score must be non-negative")
	}
	if score.TestDate != nil && score.ExpiryDate != nil && score.ExpiryDate.Before(*score.TestDate) {
		return WriteOutcome{}, invalidArg("test score expiry precedes test date")
	}

	outcome, err := s.run(ctx, "add test score",
		func(tx *gorm.DB) error {
			u, err := s.repos.Users.GetByID(ctx, tx, score.UserID)
			if err != nil {
				return err
			}
			if u == nil {
				return notFound("user", score.UserID)
			}
			return s.repos.TestScores.Create(ctx, tx, score)
		},
		nil)
	if err == nil {
		s.invalidate(ctx, score.UserID)
	}
	return outcome, err
}

// AddQualification has no graph mirror either, for the same reason as
// AddTestScore.
func (s *dualWriteService) AddQualification(ctx context.Context, qualification *domain.Qualification) (WriteOutcome, error) {
	if qualification == nil || qualification.UserID == uuid.Nil {
		return WriteOutcome{}, invalidArg("qualification requires a user id")
	}
	if !qualification.QualificationType.Valid() {
		return WriteOutcome{}, invalidArg("qualification type %q", qualification.QualificationType)
	}
	if qualification.GradePoint != nil && *qualification.GradePoint < 0 {
		return WriteOutcome{}, invalidArg("grade point must be non-negative")
	}
	if qualification.GradePoint != nil && qualification.MaxGradePoint != nil &&
		*qualification.GradePoint > *qualification.MaxGradePoint {
		return WriteOutcome{}, invalidArg("grade point exceeds max grade point")
	}

	outcome, err := s.run(ctx, "add qualification",
		func(tx *gorm.DB) error {
			u, err := s.repos.Users.GetByID(ctx, tx, qualification.UserID)
			if err != nil {
				return err
			}
			if u == nil {
				return notFound("user", qualification.UserID)
			}
			return s.repos.Qualifications.Create(ctx, tx, qualification)
		},
		nil)
	if err == nil {
		s.invalidate(ctx, qualification.UserID)
	}
	return outcome, err
}

// -- regions ------------------------------------------------------------

func (s *dualWriteService) CreateRegion(ctx context.Context, region *domain.Region) (WriteOutcome, error) {
	if region == nil || strings.TrimSpace(region.Name) == "" {
		return WriteOutcome{}, invalidArg("region requires a name")
	}
	return s.run(ctx, "create region",
		func(tx *gorm.DB) error {
			return s.repos.Regions.Create(ctx, tx, region)
		},
		func(mctx context.Context) error {
			return s.graph.UpsertRegion(mctx, region)
		})
}

func (s *dualWriteService) UpdateRegion(ctx context.Context, region *domain.Region) (WriteOutcome, error) {
	if region == nil || strings.TrimSpace(region.Name) == "" {
		return WriteOutcome{}, invalidArg("region requires a name")
	}
	return s.run(ctx, "update region",
		func(tx *gorm.DB) error {
			return s.repos.Regions.Update(ctx, tx, region)
		},
		func(mctx context.Context) error {
			return s.graph.UpsertRegion(mctx, region)
		})
}

func (s *dualWriteService) DeleteRegion(ctx context.Context, id uuid.UUID) (WriteOutcome, error) {
	return s.run(ctx, "delete region",
		func(tx *gorm.DB) error {
			return s.repos.Regions.Delete(ctx, tx, id)
		},
		func(mctx context.Context) error {
			return s.graph.RemoveRegion(mctx, id)
		})
}

// -- universities -------------------------------------------------------

func (s *dualWriteService) CreateUniversity(ctx context.Context, university *domain.University) (WriteOutcome, error) {
	if err := validateUniversity(university); err != nil {
		return WriteOutcome{}, err
	}
	return s.run(ctx, "create university",
		func(tx *gorm.DB) error {
			region, err := s.repos.Regions.GetByID(ctx, tx, university.RegionID)
			if err != nil {
				return err
			}
			if region == nil {
				return notFound("region", university.RegionID)
			}
			return s.repos.Universities.Create(ctx, tx, university)
		},
		func(mctx context.Context) error {
			return s.graph.UpsertUniversity(mctx, university)
		})
}

func (s *dualWriteService) UpdateUniversity(ctx context.Context, university *domain.University) (WriteOutcome, error) {
	if err := validateUniversity(university); err != nil {
		return WriteOutcome{}, err
	}
	return s.run(ctx, "update university",
		func(tx *gorm.DB) error {
			region, err := s.repos.Regions.GetByID(ctx, tx, university.RegionID)
			if err != nil {
				return err
			}
			if region == nil {
				return notFound("region", university.RegionID)
			}
			return s.repos.Universities.Update(ctx, tx, university)
		},
		func(mctx context.Context) error {
			return s.graph.UpsertUniversity(mctx, university)
		})
}

func (s *dualWriteService) DeleteUniversity(ctx context.Context, id uuid.UUID) (WriteOutcome, error) {
	return s.run(ctx, "delete university",
		func(tx *gorm.DB) error {
			return s.repos.Universities.Delete(ctx, tx, id)
		},
		func(mctx context.Context) error {
			return s.graph.RemoveUniversity(mctx, id)
		})
}

// -- programs -----------------------------------------------------------

func (s *dualWriteService) CreateProgram(ctx context.Context, program *domain.Program) (WriteOutcome, error) {
	if err := validateProgram(program); err != nil {
		return WriteOutcome{}, err
	}
	program.IsActive = true
	return s.run(ctx, "create program",
		func(tx *gorm.DB) error {
			university, err := s.repos.Universities.GetByID(ctx, tx, program.UniversityID)
			if err != nil {
				return err
			}
			if university == nil {
				return notFound("university", program.UniversityID)
			}
			return s.repos.Programs.Create(ctx, tx, program)
		},
		func(mctx context.Context) error {
			return s.graph.UpsertProgram(mctx, program)
		})
}

// UpdateProgram rewrites the program row and, when a requirement set is
// supplied, swaps the requirements wholesale.
func (s *dualWriteService) UpdateProgram(ctx context.Context, program *domain.Program) (WriteOutcome, error) {
	if err := validateProgram(program); err != nil {
		return WriteOutcome{}, err
	}
	return s.run(ctx, "update program",
		func(tx *gorm.DB) error {
			if err := s.repos.Programs.Update(ctx, tx, program); err != nil {
				return err
			}
			if program.Requirements == nil {
				return nil
			}
			reqs := make([]*domain.Requirement, len(program.Requirements))
			for i := range program.Requirements {
				reqs[i] = &program.Requirements[i]
			}
			return s.repos.Requirements.ReplaceForProgram(ctx, tx, program.ID, reqs)
		},
		func(mctx context.Context) error {
			return s.graph.UpsertProgram(mctx, program)
		})
}

// SoftDeleteProgram flips is_active off. The row and the graph node both
// stay, so history and similarity edges survive.
func (s *dualWriteService) SoftDeleteProgram(ctx context.Context, id uuid.UUID) (WriteOutcome, error) {
	return s.run(ctx, "soft delete program",
		func(tx *gorm.DB) error {
			return s.repos.Programs.SetActive(ctx, tx, id, false)
		},
		func(mctx context.Context) error {
			return s.graph.DeactivateProgram(mctx, id)
		})
}

// -- applications and verdicts ------------------------------------------

func (s *dualWriteService) CreateApplication(ctx context.Context, application *domain.Application) (WriteOutcome, error) {
	if application == nil || application.UserID == uuid.Nil || application.ProgramID == uuid.Nil {
		return WriteOutcome{}, invalidArg("application requires user and program ids")
	}
	if application.Status == "" {
		application.Status = domain.ApplicationPending
	}
	if application.AppliedAt.IsZero() {
		application.AppliedAt = time.Now().UTC()
	}

	outcome, err := s.run(ctx, "create application",
		func(tx *gorm.DB) error {
			u, err := s.repos.Users.GetByID(ctx, tx, application.UserID)
			if err != nil {
				return err
			}
			if u == nil {
				return notFound("user", application.UserID)
			}
			program, err := s.repos.Programs.GetByID(ctx, tx, application.ProgramID)
			if err != nil {
				return err
			}
			if program == nil {
				return notFound("program", application.ProgramID)
			}
			if !program.IsActive {
				return invalidArg("program %s is inactive", application.ProgramID)
			}
			return s.repos.Applications.Create(ctx, tx, application)
		},
		func(mctx context.Context) error {
			return s.graph.UpsertEnrollment(mctx, application.UserID, application.ProgramID, application.Status)
		})
	if err == nil {
		s.invalidate(ctx, application.UserID)
	}
	return outcome, err
}

// SaveQualificationStatus persists an evaluation verdict and mirrors it as a
// QUALIFIES_FOR edge. A negative verdict updates the edge properties rather
// than deleting the edge.
func (s *dualWriteService) SaveQualificationStatus(ctx context.Context, status *domain.QualificationStatus) (WriteOutcome, error) {
	if status == nil || status.UserID == uuid.Nil || status.ProgramID == uuid.Nil {
		return WriteOutcome{}, invalidArg("qualification status requires user and program ids")
	}
	if status.EvaluatedAt.IsZero() {
		status.EvaluatedAt = time.Now().UTC()
	}

	outcome, err := s.run(ctx, "save qualification status",
		func(tx *gorm.DB) error {
			return s.repos.Statuses.Upsert(ctx, tx, status)
		},
		func(mctx context.Context) error {
			return s.graph.UpsertQualificationEdge(mctx, status)
		})
	if err == nil {
		s.invalidate(ctx, status.UserID)
	}
	return outcome, err
}

// -- validation ---------------------------------------------------------

func validateUser(user *domain.User) error {
	if user == nil {
		return invalidArg("user required")
	}
	if strings.TrimSpace(user.Email) == "" || !strings.Contains(user.Email, "@") {
		return invalidArg("user email %q", user.Email)
	}
	if strings.TrimSpace(user.FirstName) == "" || strings.TrimSpace(user.LastName) == "" {
		return invalidArg("user requires first and last name")
	}
	return nil
}

func validateUniversity(university *domain.University) error {
	if university == nil || strings.TrimSpace(university.Name) == "" {
		return invalidArg("university requires a name")
	}
	if university.RegionID == uuid.Nil {
		return invalidArg("university requires a region id")
	}
	return nil
}

func validateProgram(program *domain.Program) error {
	if program == nil || strings.TrimSpace(program.Name) == "" {
		return invalidArg("program requires a name")
	}
	if program.UniversityID == uuid.Nil {
		return invalidArg("program requires a university id")
	}
	if strings.TrimSpace(program.FieldOfStudy) == "" {
		return invalidArg("program requires a field of study")
	}
	if !program.DegreeLevel.Valid() {
		return invalidArg("degree level %q", program.DegreeLevel)
	}
	for i := range program.Requirements {
		if err := validateRequirement(&program.Requirements[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateRequirement(req *domain.Requirement) error {
	switch req.RequirementType {
	case domain.RequirementMinGPA, domain.RequirementRequiredTest,
		domain.RequirementDegreeLevel, domain.RequirementFieldMatch,
		domain.RequirementLanguage:
	default:
		return invalidArg("requirement type %q", req.RequirementType)
	}
	if strings.TrimSpace(req.Value) == "" {
		return invalidArg("requirement %s requires a value", req.RequirementType)
	}
	if req.RequirementType == domain.RequirementRequiredTest && strings.TrimSpace(req.TestType) == "" {
		return invalidArg("required_test requirement needs a test type")
	}
	return nil
}
