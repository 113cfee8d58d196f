package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dice-league/internal/constants"
	"dice-league/internal/db"
	"dice-league/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrRunNotFound = errors.New("run not found")

type Run struct {
	ID        string
	Seed      int64
	Divisions int
	CreatedAt time.Time
}

type SnapshotRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewSnapshotRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *SnapshotRepository) CreateRun(ctx context.Context, run Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	err := r.queries.CreateRun(ctx, db.CreateRunParams{
		ID:        run.ID,
		Seed:      run.Seed,
		Divisions: int64(run.Divisions),
		CreatedAt: run.CreatedAt,
	})
	if err != nil {
		r.logger.Error().Err(err).Str("run_id", run.ID).Msg("failed to create run")
		return fmt.Errorf("failed to create run %s: %w", run.ID, err)
	}
	return nil
}

func (r *SnapshotRepository) GetRun(ctx context.Context, id string) (*Run, error) {
	run, err := r.queries.GetRun(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &Run{
		ID:        run.ID,
		Seed:      run.Seed,
		Divisions: int(run.Divisions),
		CreatedAt: run.CreatedAt,
	}, nil
}

// UpsertBatch stores snapshots for a run in one transaction.
func (r *SnapshotRepository) UpsertBatch(ctx context.Context, runID string, snapshots []domain.SeasonSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	for i := 0; i < len(snapshots); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(snapshots) {
			end = len(snapshots)
		}

		for _, snap := range snapshots[i:end] {
			id, err := gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
			err = qtx.UpsertSnapshot(ctx, db.UpsertSnapshotParams{
				ID:             id,
				RunID:          runID,
				Season:         int64(snap.Season),
				Competitor:     snap.Competitor,
				Division:       snap.Division,
				Level:          int64(snap.Level),
				Rank:           int64(snap.Rank),
				Faces:          encodeFaces(snap.Faces),
				Wins:           int64(snap.Wins),
				Ties:           int64(snap.Ties),
				Losses:         int64(snap.Losses),
				SideDiff:       int64(snap.SideDiff),
				TotalRolled:    int64(snap.TotalRolled),
				ExpectedTenths: int64(snap.ExpectedTenths),
				Points:         int64(snap.Points),
			})
			if err != nil {
				return fmt.Errorf("failed to upsert snapshot %s season %d: %w", snap.Competitor, snap.Season, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshots: %w", err)
	}

	r.logger.Debug().Str("run_id", runID).Int("snapshots", len(snapshots)).Msg("snapshots stored")
	return nil
}

// GetByCompetitor returns every stored season of a competitor, oldest first.
func (r *SnapshotRepository) GetByCompetitor(ctx context.Context, runID, name string) ([]domain.SeasonSnapshot, error) {
	records, err := r.queries.GetSnapshotsByCompetitor(ctx, db.GetSnapshotsByCompetitorParams{
		RunID:      runID,
		Competitor: name,
	})
	if err != nil {
		return nil, err
	}
	return toSnapshots(records)
}

// GetBySeason returns one season's final tables ordered by level and rank.
func (r *SnapshotRepository) GetBySeason(ctx context.Context, runID string, season int) ([]domain.SeasonSnapshot, error) {
	records, err := r.queries.GetSnapshotsBySeason(ctx, db.GetSnapshotsBySeasonParams{
		RunID:  runID,
		Season: int64(season),
	})
	if err != nil {
		return nil, err
	}
	return toSnapshots(records)
}

func (r *SnapshotRepository) GetLatestSeason(ctx context.Context, runID string) (int, error) {
	season, err := r.queries.GetLatestSeason(ctx, runID)
	if err != nil {
		return 0, err
	}
	return int(season), nil
}

func toSnapshots(records []db.Snapshot) ([]domain.SeasonSnapshot, error) {
	snapshots := make([]domain.SeasonSnapshot, len(records))
	for i, rec := range records {
		faces, err := decodeFaces(rec.Faces)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", rec.ID, err)
		}
		snapshots[i] = domain.SeasonSnapshot{
			Competitor:     rec.Competitor,
			Season:         int(rec.Season),
			Division:       rec.Division,
			Level:          int(rec.Level),
			Rank:           int(rec.Rank),
			Faces:          faces,
			Wins:           int(rec.Wins),
			Ties:           int(rec.Ties),
			Losses:         int(rec.Losses),
			SideDiff:       int(rec.SideDiff),
			TotalRolled:    int(rec.TotalRolled),
			ExpectedTenths: int(rec.ExpectedTenths),
			Points:         int(rec.Points),
		}
	}
	return snapshots, nil
}

// Faces are stored as a comma separated list, e.g. "1,2,3,4,5,6".
func encodeFaces(faces []int) string {
	parts := make([]string, len(faces))
	for i, f := range faces {
		parts[i] = strconv.Itoa(f)
	}
	return strings.Join(parts, ",")
}

func decodeFaces(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	faces := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid face %q: %w", p, err)
		}
		faces[i] = v
	}
	return faces, nil
}
