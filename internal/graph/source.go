package graph

import (
	"context"
	"fmt"
	"strconv"

	"cimhub-go/internal/models"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// reader is the part of Client the Source needs.
type reader interface {
	ReadRecords(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)
}

// Source serves transformer rows straight from the CIM graph. Every query
// returns the same columns as the staged Postgres tables.
type Source struct {
	db reader
}

func NewSource(c *Client) *Source {
	return &Source{db: c}
}

// names filters on TransformerTankInfo.name; an empty list matches all.
const nameFilter = `($names IS NULL OR size($names) = 0 OR ti.name IN $names)`

const ratingsCypher = `
MATCH (pi:PowerTransformerInfo)-[:TRANSFORMER_TANK_INFO]->(ti:TransformerTankInfo)-[:TRANSFORMER_END_INFO]->(e:TransformerEndInfo)
WHERE ` + nameFilter + `
RETURN pi.name AS pname, ti.name AS tname, ti.mRID AS id, e.mRID AS eid, e.name AS ename,
       e.endNumber AS enum, e.connectionKind AS conn, e.phaseAngleClock AS ang,
       e.ratedS AS rated_s, e.ratedU AS rated_u, e.r AS res
ORDER BY pname, tname, enum`

const windingCountCypher = `
MATCH (ti:TransformerTankInfo)-[:TRANSFORMER_END_INFO]->(e:TransformerEndInfo)
WHERE ` + nameFilter + `
RETURN ti.name AS name, count(e) AS count`

const scTestCypher = `
MATCH (ti:TransformerTankInfo)-[:TRANSFORMER_END_INFO]->(e:TransformerEndInfo)<-[:ENERGISED_END]-(sc:ShortCircuitTest)-[:GROUNDED_END]->(g:TransformerEndInfo)
WHERE ` + nameFilter + `
RETURN ti.name AS tname, e.endNumber AS enum, g.endNumber AS gnum, sc.leakageImpedance AS z, sc.loss AS ll
ORDER BY tname, enum, gnum`

const ocTestCypher = `
MATCH (ti:TransformerTankInfo)-[:TRANSFORMER_END_INFO]->(e:TransformerEndInfo)<-[:ENERGISED_END]-(nl:NoLoadTest)
WHERE ` + nameFilter + `
RETURN ti.name AS tname, nl.loss AS nll, nl.excitingCurrent AS iexc
ORDER BY tname`

const tankPhaseCypher = `
MATCH (t:TransformerTank)-[:ASSET_DATASHEET]->(ti:TransformerTankInfo), (te:TransformerTankEnd {endNumber: 1})-[:TRANSFORMER_TANK]->(t)
WHERE ` + nameFilter + `
RETURN t.name AS tank_name, ti.name AS tname, te.phases AS phs
ORDER BY tank_name`

const meshCypher = `
MATCH (p:PowerTransformer)<-[:POWER_TRANSFORMER]-(f:PowerTransformerEnd)<-[:FROM_TRANSFORMER_END]-(m:TransformerMeshImpedance)-[:TO_TRANSFORMER_END]->(t:PowerTransformerEnd)
RETURN p.name AS pname, f.endNumber AS fnum, t.endNumber AS tnum, m.r AS r, m.x AS x
ORDER BY pname, fnum, tnum`

const meshSizeCypher = `
MATCH (p:PowerTransformer)<-[:POWER_TRANSFORMER]-(:PowerTransformerEnd)<-[:FROM_TRANSFORMER_END]-(m:TransformerMeshImpedance)
RETURN p.name AS name, count(m) AS count`

func nameParams(filter models.XfmrCodeFilterParams) map[string]any {
	names := make([]any, len(filter.Names))
	for i, n := range filter.Names {
		names[i] = n
	}
	return map[string]any{"names": names}
}

func (s *Source) XfmrCodeRatings(ctx context.Context, filter models.XfmrCodeFilterParams) ([]models.XfmrCodeRatingRow, error) {
	recs, err := s.db.ReadRecords(ctx, ratingsCypher, nameParams(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to read transformer code ratings: %w", err)
	}
	rows := make([]models.XfmrCodeRatingRow, len(recs))
	for i, rec := range recs {
		rows[i] = models.XfmrCodeRatingRow{
			PName:  literal(rec, "pname"),
			TName:  literal(rec, "tname"),
			ID:     literal(rec, "id"),
			EID:    literal(rec, "eid"),
			EName:  literal(rec, "ename"),
			ENum:   literal(rec, "enum"),
			Conn:   literal(rec, "conn"),
			Ang:    literal(rec, "ang"),
			RatedS: literal(rec, "rated_s"),
			RatedU: literal(rec, "rated_u"),
			Res:    literal(rec, "res"),
		}
	}
	return rows, nil
}

func (s *Source) XfmrCodeWindingCounts(ctx context.Context, filter models.XfmrCodeFilterParams) ([]models.GroupCount, error) {
	recs, err := s.db.ReadRecords(ctx, windingCountCypher, nameParams(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to count transformer code windings: %w", err)
	}
	return groupCounts(recs), nil
}

func (s *Source) XfmrCodeSCTests(ctx context.Context, filter models.XfmrCodeFilterParams) ([]models.XfmrCodeSCTestRow, error) {
	recs, err := s.db.ReadRecords(ctx, scTestCypher, nameParams(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to read short-circuit tests: %w", err)
	}
	rows := make([]models.XfmrCodeSCTestRow, len(recs))
	for i, rec := range recs {
		rows[i] = models.XfmrCodeSCTestRow{
			TName: literal(rec, "tname"),
			Enum:  literal(rec, "enum"),
			Gnum:  literal(rec, "gnum"),
			Z:     literal(rec, "z"),
			LL:    literal(rec, "ll"),
		}
	}
	return rows, nil
}

func (s *Source) XfmrCodeOCTests(ctx context.Context, filter models.XfmrCodeFilterParams) ([]models.XfmrCodeOCTestRow, error) {
	recs, err := s.db.ReadRecords(ctx, ocTestCypher, nameParams(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to read open-circuit tests: %w", err)
	}
	rows := make([]models.XfmrCodeOCTestRow, len(recs))
	for i, rec := range recs {
		rows[i] = models.XfmrCodeOCTestRow{
			TName: literal(rec, "tname"),
			NLL:   literal(rec, "nll"),
			IExc:  literal(rec, "iexc"),
		}
	}
	return rows, nil
}

func (s *Source) XfmrTankPhases(ctx context.Context, filter models.XfmrCodeFilterParams) ([]models.XfmrTankPhaseRow, error) {
	recs, err := s.db.ReadRecords(ctx, tankPhaseCypher, nameParams(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to read tank phases: %w", err)
	}
	rows := make([]models.XfmrTankPhaseRow, len(recs))
	for i, rec := range recs {
		rows[i] = models.XfmrTankPhaseRow{
			TankName: deref(literal(rec, "tank_name")),
			TName:    deref(literal(rec, "tname")),
			Phases:   deref(literal(rec, "phs")),
		}
	}
	return rows, nil
}

func (s *Source) PowerXfmrMeshes(ctx context.Context) ([]models.PowerXfmrMeshRow, error) {
	recs, err := s.db.ReadRecords(ctx, meshCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read power transformer meshes: %w", err)
	}
	rows := make([]models.PowerXfmrMeshRow, len(recs))
	for i, rec := range recs {
		rows[i] = models.PowerXfmrMeshRow{
			PName: literal(rec, "pname"),
			FNum:  literal(rec, "fnum"),
			TNum:  literal(rec, "tnum"),
			R:     literal(rec, "r"),
			X:     literal(rec, "x"),
		}
	}
	return rows, nil
}

func (s *Source) PowerXfmrMeshSizes(ctx context.Context) ([]models.GroupCount, error) {
	recs, err := s.db.ReadRecords(ctx, meshSizeCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count power transformer meshes: %w", err)
	}
	return groupCounts(recs), nil
}

func groupCounts(recs []*neo4j.Record) []models.GroupCount {
	out := make([]models.GroupCount, 0, len(recs))
	for _, rec := range recs {
		n, _ := rec.Get("count")
		count, _ := n.(int64)
		out = append(out, models.GroupCount{Name: deref(literal(rec, "name")), Count: int(count)})
	}
	return out
}

// literal renders a record value the way a query result literal reads, so
// parsing stays in the core constructors. Absent and null values are nil.
func literal(rec *neo4j.Record, key string) *string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return nil
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case int64:
		s = strconv.FormatInt(t, 10)
	case float64:
		s = strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		s = fmt.Sprint(t)
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
