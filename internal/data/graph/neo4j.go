package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Minkhantthwin/Backend/internal/domain"
	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
	"github.com/Minkhantthwin/Backend/internal/platform/neo4jdb"
)

type neo4jStore struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewStore(client *neo4jdb.Client, baseLog *logger.Logger) Store {
	return &neo4jStore{
		client: client,
		log:    baseLog.With("store", "Neo4jGraphStore"),
	}
}

func (s *neo4jStore) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: s.client.Database,
	})
}

func (s *neo4jStore) write(ctx context.Context, work func(tx neo4j.ManagedTransaction) error) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, work(tx)
	})
	return err
}

func run(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) error {
	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

func syncedAt() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// EnsureSchema creates the uniqueness constraints the MERGE keys rely on.
// Best effort: callers log and continue when the server rejects it.
func (s *neo4jStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`,
		`CREATE CONSTRAINT program_id_unique IF NOT EXISTS FOR (p:Program) REQUIRE p.id IS UNIQUE`,
		`CREATE CONSTRAINT university_id_unique IF NOT EXISTS FOR (u:University) REQUIRE u.id IS UNIQUE`,
		`CREATE CONSTRAINT region_id_unique IF NOT EXISTS FOR (r:Region) REQUIRE r.id IS UNIQUE`,
		`CREATE CONSTRAINT field_name_unique IF NOT EXISTS FOR (f:FieldOfStudy) REQUIRE f.name IS UNIQUE`,
	}
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)
	for _, stmt := range stmts {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			return fmt.Errorf("graph schema init: %w", err)
		}
		if _, err := res.Consume(ctx); err != nil {
			return fmt.Errorf("graph schema init: %w", err)
		}
	}
	return nil
}

func (s *neo4jStore) UpsertUser(ctx context.Context, user *domain.User, interests []*domain.Interest) error {
	if user == nil || user.ID == uuid.Nil {
		return fmt.Errorf("graph: missing user id")
	}

	rows := make([]map[string]any, 0, len(interests))
	for _, in := range interests {
		if in == nil || in.FieldOfStudy == "" {
			continue
		}
		rows = append(rows, map[string]any{
			"field":  in.FieldOfStudy,
			"level":  string(in.InterestLevel),
			"weight": int64(in.InterestLevel.Multiplier()),
		})
	}

	now := syncedAt()
	return s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		if err := run(ctx, tx, `
MERGE (u:User {id: $id})
SET u.email = $email,
    u.first_name = $first_name,
    u.last_name = $last_name,
    u.nationality = $nationality,
    u.synced_at = $synced_at
`, map[string]any{
			"id":          user.ID.String(),
			"email":       user.Email,
			"first_name":  user.FirstName,
			"last_name":   user.LastName,
			"nationality": user.Nationality,
			"synced_at":   now,
		}); err != nil {
			return err
		}

		// Interests are rebuilt wholesale so re-running the sync can never
		// leave duplicate or stale edges behind.
		if err := run(ctx, tx, `
MATCH (u:User {id: $id})-[r:HAS_INTEREST]->()
DELETE r
`, map[string]any{"id": user.ID.String()}); err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}
		return run(ctx, tx, `
MATCH (u:User {id: $id})
UNWIND $rows AS row
MERGE (f:FieldOfStudy {name: row.field})
MERGE (u)-[r:HAS_INTEREST]->(f)
SET r.level = row.level,
    r.weight = row.weight,
    r.synced_at = $synced_at
`, map[string]any{"id": user.ID.String(), "rows": rows, "synced_at": now})
	})
}

func (s *neo4jStore) RemoveUser(ctx context.Context, id uuid.UUID) error {
	return s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		return run(ctx, tx, `
MATCH (u:User {id: $id})
DETACH DELETE u
`, map[string]any{"id": id.String()})
	})
}

func (s *neo4jStore) UpsertRegion(ctx context.Context, region *domain.Region) error {
	if region == nil || region.ID == uuid.Nil {
		return fmt.Errorf("graph: missing region id")
	}
	return s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		return run(ctx, tx, `
MERGE (r:Region {id: $id})
SET r.name = $name,
    r.code = $code,
    r.synced_at = $synced_at
`, map[string]any{
			"id":        region.ID.String(),
			"name":      region.Name,
			"code":      region.Code,
			"synced_at": syncedAt(),
		})
	})
}

func (s *neo4jStore) RemoveRegion(ctx context.Context, id uuid.UUID) error {
	return s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		return run(ctx, tx, `
MATCH (r:Region {id: $id})
DETACH DELETE r
`, map[string]any{"id": id.String()})
	})
}

func (s *neo4jStore) UpsertUniversity(ctx context.Context, university *domain.University) error {
	if university == nil || university.ID == uuid.Nil {
		return fmt.Errorf("graph: missing university id")
	}
	return s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		if err := run(ctx, tx, `
MERGE (u:University {id: $id})
SET u.name = $name,
    u.city = $city,
    u.type = $type,
    u.ranking_world = $ranking_world,
    u.ranking_national = $ranking_national,
    u.region_id = $region_id,
    u.synced_at = $synced_at
`, map[string]any{
			"id":               university.ID.String(),
			"name":             university.Name,
			"city":             university.City,
			"type":             university.Type,
			"ranking_world":    int64(university.RankingWorld),
			"ranking_national": int64(university.RankingNational),
			"region_id":        university.RegionID.String(),
			"synced_at":        syncedAt(),
		}); err != nil {
			return err
		}

		// Re-point LOCATED_IN in case the university moved regions.
		return run(ctx, tx, `
MATCH (u:University {id: $id})
OPTIONAL MATCH (u)-[old:LOCATED_IN]->()
DELETE old
WITH DISTINCT u
MERGE (r:Region {id: $region_id})
MERGE (u)-[:LOCATED_IN]->(r)
`, map[string]any{
			"id":        university.ID.String(),
			"region_id": university.RegionID.String(),
		})
	})
}

func (s *neo4jStore) RemoveUniversity(ctx context.Context, id uuid.UUID) error {
	return s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		return run(ctx, tx, `
MATCH (u:University {id: $id})
DETACH DELETE u
`, map[string]any{"id": id.String()})
	})
}

func (s *neo4jStore) UpsertProgram(ctx context.Context, program *domain.Program) error {
	if program == nil || program.ID == uuid.Nil {
		return fmt.Errorf("graph: missing program id")
	}
	now := syncedAt()
	return s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		if err := run(ctx, tx, `
MERGE (p:Program {id: $id})
SET p.name = $name,
    p.degree_level = $degree_level,
    p.field_of_study = $field_of_study,
    p.language = $language,
    p.tuition_fee = $tuition_fee,
    p.currency = $currency,
    p.university_id = $university_id,
    p.is_active = $is_active,
    p.synced_at = $synced_at
`, map[string]any{
			"id":             program.ID.String(),
			"name":           program.Name,
			"degree_level":   string(program.DegreeLevel),
			"field_of_study": program.FieldOfStudy,
			"language":       program.Language,
			"tuition_fee":    tuitionOrNil(program.TuitionFee),
			"currency":       program.Currency,
			"university_id":  program.UniversityID.String(),
			"is_active":      program.IsActive,
			"synced_at":      now,
		}); err != nil {
			return err
		}

		if err := run(ctx, tx, `
MATCH (p:Program {id: $id})
OPTIONAL MATCH (p)-[old:OFFERED_BY]->()
DELETE old
WITH DISTINCT p
MERGE (u:University {id: $university_id})
MERGE (p)-[:OFFERED_BY]->(u)
WITH p
MERGE (f:FieldOfStudy {name: $field_of_study})
MERGE (p)-[:IN_FIELD]->(f)
`, map[string]any{
			"id":             program.ID.String(),
			"university_id":  program.UniversityID.String(),
			"field_of_study": program.FieldOfStudy,
		}); err != nil {
			return err
		}

		// SIMILAR_TO is derived entirely from current node properties, so
		// tear down and recompute both directions around this program.
		if err := run(ctx, tx, `
MATCH (p:Program {id: $id})-[s:SIMILAR_TO]-()
DELETE s
`, map[string]any{"id": program.ID.String()}); err != nil {
			return err
		}

		return run(ctx, tx, `
MATCH (p:Program {id: $id})
MATCH (other:Program)
WHERE other.id <> p.id
OPTIONAL MATCH (p)-[:OFFERED_BY]->(:University)-[:LOCATED_IN]->(pr:Region)
OPTIONAL MATCH (other)-[:OFFERED_BY]->(:University)-[:LOCATED_IN]->(otr:Region)
WITH p, other,
     (CASE WHEN toLower(other.field_of_study) = toLower(p.field_of_study) THEN 40 ELSE 0 END) +
     (CASE WHEN other.degree_level = p.degree_level THEN 30 ELSE 0 END) +
     (CASE WHEN pr IS NOT NULL AND pr = otr THEN 20 ELSE 0 END) +
     (CASE WHEN p.language <> '' AND other.language = p.language THEN 10 ELSE 0 END) AS score
WHERE score >= 30
MERGE (p)-[s1:SIMILAR_TO]->(other)
SET s1.score = score, s1.synced_at = $synced_at
MERGE (other)-[s2:SIMILAR_TO]->(p)
SET s2.score = score, s2.synced_at = $synced_at
`, map[string]any{"id": program.ID.String(), "synced_at": now})
	})
}

// DeactivateProgram marks the mirror node inactive. The node and its edges
// stay so similarity history survives a reactivation.
func (s *neo4jStore) DeactivateProgram(ctx context.Context, id uuid.UUID) error {
	return s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		return run(ctx, tx, `
MATCH (p:Program {id: $id})
SET p.is_active = false,
    p.synced_at = $synced_at
`, map[string]any{"id": id.String(), "synced_at": syncedAt()})
	})
}

func (s *neo4jStore) UpsertEnrollment(ctx context.Context, userID, programID uuid.UUID, status domain.ApplicationStatus) error {
	return s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		return run(ctx, tx, `
MERGE (u:User {id: $user_id})
MERGE (p:Program {id: $program_id})
MERGE (u)-[e:ENROLLED_IN]->(p)
SET e.status = $status,
    e.synced_at = $synced_at
`, map[string]any{
			"user_id":    userID.String(),
			"program_id": programID.String(),
			"status":     string(status),
			"synced_at":  syncedAt(),
		})
	})
}

// UpsertQualificationEdge writes the QUALIFIES_FOR edge for one verdict. A
// negative verdict marks the edge qualified=false rather than deleting it, so
// re-evaluation flips a property instead of churning topology.
func (s *neo4jStore) UpsertQualificationEdge(ctx context.Context, status *domain.QualificationStatus) error {
	if status == nil || status.UserID == uuid.Nil || status.ProgramID == uuid.Nil {
		return fmt.Errorf("graph: missing qualification status keys")
	}
	return s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		return run(ctx, tx, `
MERGE (u:User {id: $user_id})
MERGE (p:Program {id: $program_id})
MERGE (u)-[q:QUALIFIES_FOR]->(p)
SET q.qualified = $qualified,
    q.fit_score = $fit_score,
    q.evaluated_at = $evaluated_at,
    q.synced_at = $synced_at
`, map[string]any{
			"user_id":      status.UserID.String(),
			"program_id":   status.ProgramID.String(),
			"qualified":    status.IsQualified,
			"fit_score":    status.FitScore,
			"evaluated_at": status.EvaluatedAt.UTC().Format(time.RFC3339Nano),
			"synced_at":    syncedAt(),
		})
	})
}

func tuitionOrNil(fee *float64) any {
	if fee == nil {
		return nil
	}
	return *fee
}
