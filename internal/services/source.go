package services

import (
	"context"
	"fmt"

	"cimhub-go/internal/models"

	"github.com/uptrace/bun"
)

// RowSource supplies the result rows of the CIM model queries.
type RowSource interface {
	XfmrCodeRatings(ctx context.Context, filter models.XfmrCodeFilterParams) ([]models.XfmrCodeRatingRow, error)
	XfmrCodeWindingCounts(ctx context.Context, filter models.XfmrCodeFilterParams) ([]models.GroupCount, error)
	XfmrCodeSCTests(ctx context.Context, filter models.XfmrCodeFilterParams) ([]models.XfmrCodeSCTestRow, error)
	XfmrCodeOCTests(ctx context.Context, filter models.XfmrCodeFilterParams) ([]models.XfmrCodeOCTestRow, error)
	XfmrTankPhases(ctx context.Context, filter models.XfmrCodeFilterParams) ([]models.XfmrTankPhaseRow, error)
	PowerXfmrMeshes(ctx context.Context) ([]models.PowerXfmrMeshRow, error)
	PowerXfmrMeshSizes(ctx context.Context) ([]models.GroupCount, error)
}

// PostgresSource reads query results staged in Postgres tables.
type PostgresSource struct {
	db *bun.DB
}

func NewPostgresSource(db *bun.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func byTName(q *bun.SelectQuery, filter models.XfmrCodeFilterParams) *bun.SelectQuery {
	if len(filter.Names) > 0 {
		q = q.Where("tname IN (?)", bun.In(filter.Names))
	}
	return q
}

func (s *PostgresSource) XfmrCodeRatings(ctx context.Context, filter models.XfmrCodeFilterParams) ([]models.XfmrCodeRatingRow, error) {
	var rows []models.XfmrCodeRatingRow
	q := s.db.NewSelect().Model(&rows)
	q = byTName(q, filter).OrderExpr("pname, tname, enum")
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query transformer code ratings: %w", err)
	}
	return rows, nil
}

func (s *PostgresSource) XfmrCodeWindingCounts(ctx context.Context, filter models.XfmrCodeFilterParams) ([]models.GroupCount, error) {
	var counts []models.GroupCount
	q := s.db.NewSelect().
		TableExpr("xfmr_code_ratings").
		ColumnExpr("tname AS name").
		ColumnExpr("count(*) AS count")
	q = byTName(q, filter).GroupExpr("tname")
	if err := q.Scan(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to count transformer code windings: %w", err)
	}
	return counts, nil
}

func (s *PostgresSource) XfmrCodeSCTests(ctx context.Context, filter models.XfmrCodeFilterParams) ([]models.XfmrCodeSCTestRow, error) {
	var rows []models.XfmrCodeSCTestRow
	q := s.db.NewSelect().Model(&rows)
	q = byTName(q, filter).OrderExpr("tname, enum, gnum")
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query short-circuit tests: %w", err)
	}
	return rows, nil
}

func (s *PostgresSource) XfmrCodeOCTests(ctx context.Context, filter models.XfmrCodeFilterParams) ([]models.XfmrCodeOCTestRow, error) {
	var rows []models.XfmrCodeOCTestRow
	q := s.db.NewSelect().Model(&rows)
	q = byTName(q, filter).OrderExpr("tname")
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query open-circuit tests: %w", err)
	}
	return rows, nil
}

func (s *PostgresSource) XfmrTankPhases(ctx context.Context, filter models.XfmrCodeFilterParams) ([]models.XfmrTankPhaseRow, error) {
	var rows []models.XfmrTankPhaseRow
	q := s.db.NewSelect().Model(&rows)
	q = byTName(q, filter).OrderExpr("tank_name")
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query tank phases: %w", err)
	}
	return rows, nil
}

func (s *PostgresSource) PowerXfmrMeshes(ctx context.Context) ([]models.PowerXfmrMeshRow, error) {
	var rows []models.PowerXfmrMeshRow
	if err := s.db.NewSelect().Model(&rows).OrderExpr("pname, fnum, tnum").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query power transformer meshes: %w", err)
	}
	return rows, nil
}

func (s *PostgresSource) PowerXfmrMeshSizes(ctx context.Context) ([]models.GroupCount, error) {
	var counts []models.GroupCount
	err := s.db.NewSelect().
		TableExpr("power_xfmr_meshes").
		ColumnExpr("pname AS name").
		ColumnExpr("count(*) AS count").
		GroupExpr("pname").
		Scan(ctx, &counts)
	if err != nil {
		return nil, fmt.Errorf("failed to count power transformer meshes: %w", err)
	}
	return counts, nil
}
