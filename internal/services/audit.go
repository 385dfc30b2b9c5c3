package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/Minkhantthwin/Backend/internal/data/graph"
	"github.com/Minkhantthwin/Backend/internal/data/repos"
	apperrors "github.com/Minkhantthwin/Backend/internal/pkg/errors"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

// SyncReport compares a user's persisted qualification verdicts with the
// QUALIFIES_FOR edges mirrored into the graph. The primary store is always
// the side being trusted; the graph is the side being audited.
type SyncReport struct {
	UserID         uuid.UUID   `json:"user_id"`
	GraphAvailable bool        `json:"graph_available"`
	PrimaryCount   int         `json:"primary_count"`
	MirrorCount    int         `json:"mirror_count"`
	MissingInGraph []uuid.UUID `json:"missing_in_graph"`
	StaleInGraph   []uuid.UUID `json:"stale_in_graph"`
	InSync         bool        `json:"in_sync"`
}

// SyncAuditService surfaces graph drift without repairing it. Re-running the
// affected writes is the repair path; this just shows where to look.
type SyncAuditService interface {
	QualificationDrift(ctx context.Context, userID uuid.UUID) (*SyncReport, error)
}

type syncAuditService struct {
	repos repos.Repos
	graph graph.Store
	log   *logger.Logger
}

func NewSyncAuditService(r repos.Repos, graphStore graph.Store, baseLog *logger.Logger) SyncAuditService {
	return &syncAuditService{
		repos: r,
		graph: graphStore,
		log:   baseLog.With("service", "SyncAuditService"),
	}
}

func (s *syncAuditService) QualificationDrift(ctx context.Context, userID uuid.UUID) (*SyncReport, error) {
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

	report := &SyncReport{
		UserID:         userID,
		PrimaryCount:   len(statuses),
		MissingInGraph: []uuid.UUID{},
		StaleInGraph:   []uuid.UUID{},
	}
	if s.graph == nil {
		// Without a mirror every verdict is unmirrored by definition.
		for _, st := range statuses {
			report.MissingInGraph = append(report.MissingInGraph, st.ProgramID)
		}
		report.InSync = len(statuses) == 0
		return report, nil
	}

	// Unlike recommendation reads this cannot degrade: a drift report built
	// without the graph's answer would itself be wrong.
	edges, err := s.graph.QualifiesForEdges(ctx, userID)
	if err != nil {
		s.log.Error("graph edge query failed", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("load graph edges: %w", apperrors.ErrUpstreamUnavailable)
	}
	report.GraphAvailable = true
	report.MirrorCount = len(edges)

	edgeByProgram := make(map[uuid.UUID]graph.QualifiesForEdge, len(edges))
	for _, e := range edges {
		edgeByProgram[e.ProgramID] = e
	}
	primarySeen := make(map[uuid.UUID]bool, len(statuses))
	for _, st := range statuses {
		primarySeen[st.ProgramID] = true
		edge, ok := edgeByProgram[st.ProgramID]
		if !ok {
			report.MissingInGraph = append(report.MissingInGraph, st.ProgramID)
			continue
		}
		if edge.Qualified != st.IsQualified || math.Abs(edge.FitScore-st.FitScore) > 0.01 {
			report.StaleInGraph = append(report.StaleInGraph, st.ProgramID)
		}
	}
	// Edges with no primary row are also stale: the verdict they mirror no
	// longer exists.
	for _, e := range edges {
		if !primarySeen[e.ProgramID] {
			report.StaleInGraph = append(report.StaleInGraph, e.ProgramID)
		}
	}

	sortIDs(report.MissingInGraph)
	sortIDs(report.StaleInGraph)
	report.InSync = len(report.MissingInGraph) == 0 && len(report.StaleInGraph) == 0
	return report, nil
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
}
