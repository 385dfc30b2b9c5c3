package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Minkhantthwin/Backend/internal/clients/redis"
	"github.com/Minkhantthwin/Backend/internal/data/graph"
	"github.com/Minkhantthwin/Backend/internal/data/repos"
	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

// ScoringConfig holds the product-tunable recommendation knobs. Weights
// apply per source; the boost rewards programs surfaced by two or more
// independent sources.
type ScoringConfig struct {
	InterestWeight      float64
	QualificationWeight float64
	GraphWeight         float64
	MultiSourceBoost    float64
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		InterestWeight:      0.4,
		QualificationWeight: 0.5,
		GraphWeight:         0.3,
		MultiSourceBoost:    10,
	}
}

// RecommendationFilters are hard gates: a non-matching program is dropped,
// never just demoted.
type RecommendationFilters struct {
	MaxTuition *float64
	Language   string
	RegionID   uuid.UUID
}

func (f RecommendationFilters) cacheVariant(limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "l%d", limit)
	if f.MaxTuition != nil {
		fmt.Fprintf(&b, ":t%.2f", *f.MaxTuition)
	}
	if f.Language != "" {
		fmt.Fprintf(&b, ":lang%s", strings.ToLower(f.Language))
	}
	if f.RegionID != uuid.Nil {
		fmt.Fprintf(&b, ":r%s", f.RegionID)
	}
	return b.String()
}

type RecommendationService interface {
	Recommend(ctx context.Context, userID uuid.UUID, filters RecommendationFilters, limit int) ([]domain.RecommendationResult, error)
	SimilarToProgram(ctx context.Context, programID uuid.UUID, limit int) ([]domain.RecommendationResult, error)
}

type recommendationService struct {
	repos repos.Repos
	graph graph.Store
	qual  QualificationService
	cache redis.RecommendationCache
	cfg   ScoringConfig
	log   *logger.Logger
}

// NewRecommendationService wires the aggregator. graphStore and cache may be
// nil; a nil graph store just means the graph source always contributes
// nothing.
func NewRecommendationService(r repos.Repos, graphStore graph.Store, qual QualificationService, cache redis.RecommendationCache, cfg ScoringConfig, baseLog *logger.Logger) RecommendationService {
	return &recommendationService{
		repos: r,
		graph: graphStore,
		qual:  qual,
		cache: cache,
		cfg:   cfg,
		log:   baseLog.With("service", "RecommendationService"),
	}
}

// candidate accumulates per-source contributions for one program before
// merging.
type candidate struct {
	scores  map[domain.RecommendationSource]float64
	reasons map[domain.RecommendationSource]string
}

func newCandidate() *candidate {
	return &candidate{
		scores:  make(map[domain.RecommendationSource]float64),
		reasons: make(map[domain.RecommendationSource]string),
	}
}

// Interest-source score table: exact field match by interest level, then
// partial (substring) match by level.
var (
	exactInterestScore   = map[domain.InterestLevel]float64{domain.InterestHigh: 90, domain.InterestMedium: 70, domain.InterestLow: 50}
	partialInterestScore = map[domain.InterestLevel]float64{domain.InterestHigh: 60, domain.InterestMedium: 40, domain.InterestLow: 25}
)

func (s *recommendationService) Recommend(ctx context.Context, userID uuid.UUID, filters RecommendationFilters, limit int) ([]domain.RecommendationResult, error) {
	if limit <= 0 {
		limit = 10
	}

	user, err := s.repos.Users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, notFound("user", userID)
	}

	variant := filters.cacheVariant(limit)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, userID, variant); ok {
			return cached, nil
		}
	}

	var (
		interestScores map[uuid.UUID]float64
		interestReason map[uuid.UUID]string
		qualStatuses   []*domain.QualificationStatus
		similar        []graph.SimilarProgram
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		interestScores, interestReason, err = s.interestSource(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		qualStatuses, err = s.qual.EvaluateAll(gctx, userID)
		return err
	})
	g.Go(func() error {
		// Graph unavailability degrades this source to empty instead of
		// failing the whole request.
		if s.graph == nil {
			return nil
		}
		rows, err := s.graph.SimilarPrograms(gctx, userID, limit*3)
		if err != nil {
			s.log.Warn("graph source unavailable, continuing without it",
				"user_id", userID.String(), "error", err)
			return nil
		}
		similar = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := make(map[uuid.UUID]*candidate)
	ensure := func(programID uuid.UUID) *candidate {
		c, ok := candidates[programID]
		if !ok {
			c = newCandidate()
			candidates[programID] = c
		}
		return c
	}

	for programID, score := range interestScores {
		c := ensure(programID)
		c.scores[domain.SourceInterest] = score
		c.reasons[domain.SourceInterest] = interestReason[programID]
	}
	for _, st := range qualStatuses {
		if !st.IsQualified {
			continue
		}
		c := ensure(st.ProgramID)
		c.scores[domain.SourceQualification] = st.FitScore
		c.reasons[domain.SourceQualification] = fmt.Sprintf("Meets %d/%d requirements with %.0f%% fit",
			st.RequirementsMet, st.TotalRequirements, st.FitScore)
	}
	for _, sp := range similar {
		c := ensure(sp.ProgramID)
		c.scores[domain.SourceGraph] = clampScore(sp.Score)
		c.reasons[domain.SourceGraph] = fmt.Sprintf("Similar to %d programs you're connected to", sp.AnchorCount)
	}

	results, err := s.finalize(ctx, candidates, filters)
	if err != nil {
		return nil, err
	}
	if len(results) > limit {
		results = results[:limit]
	}
	if s.cache != nil {
		s.cache.Set(ctx, userID, variant, results)
	}
	return results, nil
}

// SimilarToProgram surfaces the strongest SIMILAR_TO neighbors of a program,
// re-checked against the primary store.
func (s *recommendationService) SimilarToProgram(ctx context.Context, programID uuid.UUID, limit int) ([]domain.RecommendationResult, error) {
	if limit <= 0 {
		limit = 10
	}
	anchor, err := s.repos.Programs.GetByID(ctx, nil, programID)
	if err != nil {
		return nil, fmt.Errorf("load program: %w", err)
	}
	if anchor == nil {
		return nil, notFound("program", programID)
	}
	if s.graph == nil {
		return []domain.RecommendationResult{}, nil
	}

	neighbors, err := s.graph.ProgramNeighbors(ctx, programID, limit)
	if err != nil {
		s.log.Warn("graph neighbors unavailable", "program_id", programID.String(), "error", err)
		return []domain.RecommendationResult{}, nil
	}

	candidates := make(map[uuid.UUID]*candidate, len(neighbors))
	for _, sp := range neighbors {
		c := newCandidate()
		c.scores[domain.SourceGraph] = clampScore(sp.Score)
		c.reasons[domain.SourceGraph] = fmt.Sprintf("Similar to %s", anchor.Name)
		candidates[sp.ProgramID] = c
	}
	results, err := s.finalize(ctx, candidates, RecommendationFilters{})
	if err != nil {
		return nil, err
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// interestSource scores active programs against the user's declared
// interests. Exact field matches dominate partial (substring) matches; the
// best interest wins per program.
func (s *recommendationService) interestSource(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]float64, map[uuid.UUID]string, error) {
	interests, err := s.repos.Interests.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list interests: %w", err)
	}
	if len(interests) == 0 {
		return map[uuid.UUID]float64{}, map[uuid.UUID]string{}, nil
	}
	programs, err := s.repos.Programs.ListActive(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("list active programs: %w", err)
	}

	scores := make(map[uuid.UUID]float64)
	reasons := make(map[uuid.UUID]string)
	for _, program := range programs {
		for _, interest := range interests {
			var score float64
			switch {
			case domain.FieldsEqual(program.FieldOfStudy, interest.FieldOfStudy):
				score = exactInterestScore[normalizeLevel(interest.InterestLevel)]
			case partialFieldMatch(program.FieldOfStudy, interest.FieldOfStudy):
				score = partialInterestScore[normalizeLevel(interest.InterestLevel)]
			default:
				continue
			}
			if score > scores[program.ID] {
				scores[program.ID] = score
				reasons[program.ID] = fmt.Sprintf("Matches your %s interest in %s",
					normalizeLevel(interest.InterestLevel), interest.FieldOfStudy)
			}
		}
	}
	return scores, reasons, nil
}

// finalize merges candidate scores, applies hard-gate filters with an
// is_active re-check against the primary store, and produces the ranked,
// explained result list.
func (s *recommendationService) finalize(ctx context.Context, candidates map[uuid.UUID]*candidate, filters RecommendationFilters) ([]domain.RecommendationResult, error) {
	if len(candidates) == 0 {
		return []domain.RecommendationResult{}, nil
	}

	programIDs := make([]uuid.UUID, 0, len(candidates))
	for id := range candidates {
		programIDs = append(programIDs, id)
	}
	programs, err := s.repos.Programs.GetByIDs(ctx, nil, programIDs)
	if err != nil {
		return nil, fmt.Errorf("load candidate programs: %w", err)
	}

	// The graph can return programs soft-deleted in the primary store;
	// only programs active there survive.
	kept := make([]*domain.Program, 0, len(programs))
	universityIDs := make([]uuid.UUID, 0, len(programs))
	seenUniversity := make(map[uuid.UUID]bool)
	for _, p := range programs {
		if !p.IsActive {
			continue
		}
		if filters.MaxTuition != nil && p.TuitionFee != nil && *p.TuitionFee > *filters.MaxTuition {
			continue
		}
		if filters.Language != "" && !strings.EqualFold(strings.TrimSpace(p.Language), strings.TrimSpace(filters.Language)) {
			continue
		}
		kept = append(kept, p)
		if !seenUniversity[p.UniversityID] {
			seenUniversity[p.UniversityID] = true
			universityIDs = append(universityIDs, p.UniversityID)
		}
	}

	universities, err := s.repos.Universities.GetByIDs(ctx, nil, universityIDs)
	if err != nil {
		return nil, fmt.Errorf("load candidate universities: %w", err)
	}
	universityByID := make(map[uuid.UUID]*domain.University, len(universities))
	for _, u := range universities {
		universityByID[u.ID] = u
	}

	results := make([]domain.RecommendationResult, 0, len(kept))
	for _, p := range kept {
		university := universityByID[p.UniversityID]
		if filters.RegionID != uuid.Nil {
			if university == nil || university.RegionID != filters.RegionID {
				continue
			}
		}

		c := candidates[p.ID]
		final := c.scores[domain.SourceInterest]*s.cfg.InterestWeight +
			c.scores[domain.SourceQualification]*s.cfg.QualificationWeight +
			c.scores[domain.SourceGraph]*s.cfg.GraphWeight
		if len(c.scores) >= 2 {
			final += s.cfg.MultiSourceBoost
		}
		final = clampScore(final)

		result := domain.RecommendationResult{
			ProgramID:    p.ID,
			UniversityID: p.UniversityID,
			ProgramName:  p.Name,
			FieldOfStudy: p.FieldOfStudy,
			DegreeLevel:  p.DegreeLevel,
			Language:     p.Language,
			TuitionFee:   p.TuitionFee,
			Currency:     p.Currency,
			FinalScore:   final,
		}
		if university != nil {
			result.UniversityName = university.Name
		}
		for _, src := range []domain.RecommendationSource{domain.SourceInterest, domain.SourceQualification, domain.SourceGraph} {
			if _, ok := c.scores[src]; ok {
				result.Sources = append(result.Sources, src)
				result.Reasons = append(result.Reasons, c.reasons[src])
			}
		}
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		return results[i].ProgramID.String() < results[j].ProgramID.String()
	})
	return results, nil
}

func normalizeLevel(l domain.InterestLevel) domain.InterestLevel {
	return domain.InterestLevel(strings.ToLower(strings.TrimSpace(string(l))))
}

// partialFieldMatch catches overlapping field names, e.g. "Computer Science"
// and "Computer Engineering" share a leading word.
func partialFieldMatch(a, b string) bool {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return true
	}
	for _, wa := range strings.Fields(la) {
		if len(wa) < 4 {
			continue
		}
		for _, wb := range strings.Fields(lb) {
			if wa == wb {
				return true
			}
		}
	}
	return false
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
