package db

import (
	"context"
	"time"
)

const createRun = `
INSERT INTO runs (id, seed, divisions, created_at)
VALUES (?, ?, ?, ?)
`

type CreateRunParams struct {
	ID        string
	Seed      int64
	Divisions int64
	CreatedAt time.Time
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) error {
	_, err := q.db.ExecContext(ctx, createRun, arg.ID, arg.Seed, arg.Divisions, arg.CreatedAt)
	return err
}

const getRun = `
SELECT id, seed, divisions, created_at FROM runs WHERE id = ?
`

func (q *Queries) GetRun(ctx context.Context, id string) (Run, error) {
	row := q.db.QueryRowContext(ctx, getRun, id)
	var r Run
	err := row.Scan(&r.ID, &r.Seed, &r.Divisions, &r.CreatedAt)
	return r, err
}

const upsertSnapshot = `
INSERT INTO snapshots (
    id, run_id, season, competitor, division, level, rank, faces,
    wins, ties, losses, side_diff, total_rolled, expected_tenths, points
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (run_id, season, competitor) DO UPDATE SET
    division = excluded.division,
    level = excluded.level,
    rank = excluded.rank,
    faces = excluded.faces,
    wins = excluded.wins,
    ties = excluded.ties,
    losses = excluded.losses,
    side_diff = excluded.side_diff,
    total_rolled = excluded.total_rolled,
    expected_tenths = excluded.expected_tenths,
    points = excluded.points
`

type UpsertSnapshotParams = Snapshot

func (q *Queries) UpsertSnapshot(ctx context.Context, arg UpsertSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, upsertSnapshot,
		arg.ID, arg.RunID, arg.Season, arg.Competitor, arg.Division, arg.Level, arg.Rank, arg.Faces,
		arg.Wins, arg.Ties, arg.Losses, arg.SideDiff, arg.TotalRolled, arg.ExpectedTenths, arg.Points,
	)
	return err
}

const snapshotColumns = `id, run_id, season, competitor, division, level, rank, faces,
    wins, ties, losses, side_diff, total_rolled, expected_tenths, points`

const getSnapshotsByCompetitor = `
SELECT ` + snapshotColumns + ` FROM snapshots
WHERE run_id = ? AND competitor = ? COLLATE NOCASE
ORDER BY season
`

type GetSnapshotsByCompetitorParams struct {
	RunID      string
	Competitor string
}

func (q *Queries) GetSnapshotsByCompetitor(ctx context.Context, arg GetSnapshotsByCompetitorParams) ([]Snapshot, error) {
	return q.listSnapshots(ctx, getSnapshotsByCompetitor, arg.RunID, arg.Competitor)
}

const getSnapshotsBySeason = `
SELECT ` + snapshotColumns + ` FROM snapshots
WHERE run_id = ? AND season = ?
ORDER BY level, rank
`

type GetSnapshotsBySeasonParams struct {
	RunID  string
	Season int64
}

func (q *Queries) GetSnapshotsBySeason(ctx context.Context, arg GetSnapshotsBySeasonParams) ([]Snapshot, error) {
	return q.listSnapshots(ctx, getSnapshotsBySeason, arg.RunID, arg.Season)
}

const getLatestSeason = `
SELECT COALESCE(MAX(season), 0) FROM snapshots WHERE run_id = ?
`

func (q *Queries) GetLatestSeason(ctx context.Context, runID string) (int64, error) {
	row := q.db.QueryRowContext(ctx, getLatestSeason, runID)
	var season int64
	err := row.Scan(&season)
	return season, err
}

func (q *Queries) listSnapshots(ctx context.Context, query string, args ...interface{}) ([]Snapshot, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Snapshot
	for rows.Next() {
		var i Snapshot
		if err := rows.Scan(
			&i.ID, &i.RunID, &i.Season, &i.Competitor, &i.Division, &i.Level, &i.Rank, &i.Faces,
			&i.Wins, &i.Ties, &i.Losses, &i.SideDiff, &i.TotalRolled, &i.ExpectedTenths, &i.Points,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
