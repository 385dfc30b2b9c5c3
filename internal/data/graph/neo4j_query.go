package graph

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// edgeAnchoredSimilar walks SIMILAR_TO edges out of programs the user already
// qualifies for or applied to.
const edgeAnchoredSimilarQuery = `
MATCH (u:User {id: $user_id})-[a:QUALIFIES_FOR|ENROLLED_IN]->(anchor:Program)
WHERE type(a) = 'ENROLLED_IN' OR a.qualified = true
MATCH (anchor)-[s:SIMILAR_TO]->(rec:Program)
WHERE rec.id <> anchor.id AND coalesce(rec.is_active, true)
RETURN rec.id AS program_id,
       rec.university_id AS university_id,
       max(s.score) AS score,
       count(DISTINCT anchor) AS anchor_count
`

// interestAnchoredSimilar walks SIMILAR_TO edges out of programs in the
// user's declared fields of interest.
const interestAnchoredSimilarQuery = `
MATCH (u:User {id: $user_user_id})-[:HAS_INTEREST]->(f:FieldOfStudy)
MATCH (anchor:Program)-[:IN_FIELD]->(f)
MATCH (anchor)-[s:SIMILAR_TO]->(rec:Program)
WHERE rec.id <> anchor.id AND coalesce(rec.is_active, true)
RETURN rec.id AS program_id,
       rec.university_id AS university_id,
       max(s.score) AS score,
       count(DISTINCT anchor) AS anchor_count
`

func (s *neo4jStore) SimilarPrograms(ctx context.Context, userID uuid.UUID, limit int) ([]SimilarProgram, error) {
	if limit <= 0 {
		limit = 10
	}

	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	merged := map[uuid.UUID]*SimilarProgram{}
	_, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := collectSimilarRows(ctx, tx, edgeAnchoredSimilarQuery,
			map[string]any{"user_id": userID.String()}, merged); err != nil {
			return nil, err
		}
		if err := collectSimilarRows(ctx, tx, interestAnchoredSimilarQuery,
			map[string]any{"user_user_id": userID.String()}, merged); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	results := make([]SimilarProgram, 0, len(merged))
	for _, sp := range merged {
		results = append(results, *sp)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ProgramID.String() < results[j].ProgramID.String()
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func collectSimilarRows(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any, merged map[uuid.UUID]*SimilarProgram) error {
	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return err
	}
	records, err := res.Collect(ctx)
	if err != nil {
		return err
	}
	for _, rec := range records {
		programID, ok := recordUUID(rec, "program_id")
		if !ok {
			continue
		}
		universityID, _ := recordUUID(rec, "university_id")
		score := recordFloat(rec, "score")
		anchors := int(recordInt(rec, "anchor_count"))

		existing, seen := merged[programID]
		if !seen {
			merged[programID] = &SimilarProgram{
				ProgramID:    programID,
				UniversityID: universityID,
				Score:        score,
				AnchorCount:  anchors,
			}
			continue
		}
		if score > existing.Score {
			existing.Score = score
		}
		existing.AnchorCount += anchors
	}
	return nil
}

// ProgramNeighbors lists active programs directly connected to the given
// program by a SIMILAR_TO edge, strongest first.
func (s *neo4jStore) ProgramNeighbors(ctx context.Context, programID uuid.UUID, limit int) ([]SimilarProgram, error) {
	if limit <= 0 {
		limit = 10
	}

	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	rows, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (p:Program {id: $program_id})-[s:SIMILAR_TO]->(rec:Program)
WHERE coalesce(rec.is_active, true)
RETURN rec.id AS program_id,
       rec.university_id AS university_id,
       s.score AS score
ORDER BY s.score DESC, rec.id ASC
LIMIT $limit
`, map[string]any{"program_id": programID.String(), "limit": limit})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	records, _ := rows.([]*neo4j.Record)
	results := make([]SimilarProgram, 0, len(records))
	for _, rec := range records {
		id, ok := recordUUID(rec, "program_id")
		if !ok {
			continue
		}
		universityID, _ := recordUUID(rec, "university_id")
		results = append(results, SimilarProgram{
			ProgramID:    id,
			UniversityID: universityID,
			Score:        recordFloat(rec, "score"),
			AnchorCount:  1,
		})
	}
	return results, nil
}

func (s *neo4jStore) QualifiesForEdges(ctx context.Context, userID uuid.UUID) ([]QualifiesForEdge, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	rows, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (u:User {id: $user_id})-[q:QUALIFIES_FOR]->(p:Program)
RETURN p.id AS program_id, q.qualified AS qualified, q.fit_score AS fit_score
`, map[string]any{"user_id": userID.String()})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	records, _ := rows.([]*neo4j.Record)
	edges := make([]QualifiesForEdge, 0, len(records))
	for _, rec := range records {
		programID, ok := recordUUID(rec, "program_id")
		if !ok {
			continue
		}
		qualified, _ := recordValue(rec, "qualified").(bool)
		edges = append(edges, QualifiesForEdge{
			ProgramID: programID,
			Qualified: qualified,
			FitScore:  recordFloat(rec, "fit_score"),
		})
	}
	return edges, nil
}

func recordValue(rec *neo4j.Record, key string) any {
	v, ok := rec.Get(key)
	if !ok {
		return nil
	}
	return v
}

func recordUUID(rec *neo4j.Record, key string) (uuid.UUID, bool) {
	s, ok := recordValue(rec, key).(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func recordFloat(rec *neo4j.Record, key string) float64 {
	switch v := recordValue(rec, key).(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func recordInt(rec *neo4j.Record, key string) int64 {
	switch v := recordValue(rec, key).(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}
