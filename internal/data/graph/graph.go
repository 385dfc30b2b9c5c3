// Package graph is the adapter for the Neo4j mirror of the primary store.
// The mirror is derived state: nodes and edges are keyed by primary-store
// ids, every write is an idempotent MERGE, and nothing here is authoritative.
package graph

import (
	"context"

	"github.com/google/uuid"

	"github.com/Minkhantthwin/Backend/internal/domain"
)

// Node labels and relationship types form the mirror's schema contract.
// The coordinator writes them and the recommendation queries read them;
// renaming one means changing both sides.
const (
	LabelUser         = "User"
	LabelProgram      = "Program"
	LabelUniversity   = "University"
	LabelRegion       = "Region"
	LabelFieldOfStudy = "FieldOfStudy"

	EdgeHasInterest  = "HAS_INTEREST"
	EdgeQualifiesFor = "QUALIFIES_FOR"
	EdgeSimilarTo    = "SIMILAR_TO"
	EdgeEnrolledIn   = "ENROLLED_IN"
	EdgeOfferedBy    = "OFFERED_BY"
	EdgeLocatedIn    = "LOCATED_IN"
	EdgeInField      = "IN_FIELD"
)

// SimilarProgram is one row of a graph similarity query, already on the
// 0-100 score scale.
type SimilarProgram struct {
	ProgramID    uuid.UUID
	UniversityID uuid.UUID
	Score        float64
	AnchorCount  int
}

// QualifiesForEdge mirrors one persisted qualification verdict.
type QualifiesForEdge struct {
	ProgramID uuid.UUID
	Qualified bool
	FitScore  float64
}

// Store is the graph mirror. All mutating operations must be safe to re-run
// with the same entity state; the dual-write coordinator is the only caller
// allowed to mutate.
type Store interface {
	EnsureSchema(ctx context.Context) error

	UpsertUser(ctx context.Context, user *domain.User, interests []*domain.Interest) error
	RemoveUser(ctx context.Context, id uuid.UUID) error

	UpsertRegion(ctx context.Context, region *domain.Region) error
	RemoveRegion(ctx context.Context, id uuid.UUID) error

	UpsertUniversity(ctx context.Context, university *domain.University) error
	RemoveUniversity(ctx context.Context, id uuid.UUID) error

	UpsertProgram(ctx context.Context, program *domain.Program) error
	DeactivateProgram(ctx context.Context, id uuid.UUID) error

	UpsertEnrollment(ctx context.Context, userID, programID uuid.UUID, status domain.ApplicationStatus) error
	UpsertQualificationEdge(ctx context.Context, status *domain.QualificationStatus) error

	SimilarPrograms(ctx context.Context, userID uuid.UUID, limit int) ([]SimilarProgram, error)
	ProgramNeighbors(ctx context.Context, programID uuid.UUID, limit int) ([]SimilarProgram, error)
	QualifiesForEdges(ctx context.Context, userID uuid.UUID) ([]QualifiesForEdge, error)
}
