package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"dice-league/internal/config"
	"dice-league/internal/console"
	"dice-league/internal/constants"
	fxmodules "dice-league/internal/fx"
	"dice-league/internal/repository"
	"dice-league/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runLeague),
	).Run()
}

func runLeague(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	league *service.LeagueService,
	repo *repository.SnapshotRepository,
	run fxmodules.Run,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := 0
				if err := simulate(ctx, league, repo, run, cfg, logger); err != nil {
					logger.Error().Err(err).Msg("simulation failed")
					code = 1
				}
				if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					logger.Error().Err(err).Msg("failed to request shutdown")
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			logger.Info().Msg("shutting down league")
			cancel()

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			return nil
		},
	})
}

func simulate(
	ctx context.Context,
	league *service.LeagueService,
	repo *repository.SnapshotRepository,
	run fxmodules.Run,
	cfg *config.Config,
	logger zerolog.Logger,
) error {
	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	err := repo.CreateRun(dbCtx, repository.Run{
		ID:        run.ID,
		Seed:      league.Seed(),
		Divisions: len(league.Divisions()),
	})
	cancel()
	if err != nil {
		return err
	}

	logger.Info().Int64("seed", league.Seed()).Int("seasons", cfg.Seasons).Msg("simulation starting")

	for i := 0; i < cfg.Seasons; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := league.AdvanceSeason(); err != nil {
			return fmt.Errorf("season %d: %w", league.Season()+1, err)
		}

		dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
		err := repo.UpsertBatch(dbCtx, run.ID, league.LatestSnapshots())
		cancel()
		if err != nil {
			return fmt.Errorf("failed to store season %d: %w", league.Season(), err)
		}
	}

	for _, t := range league.Standings() {
		if len(t.Rows) == 0 {
			continue
		}
		top := t.Rows[0]
		logger.Info().
			Str("division", t.Division).
			Int("season", t.Season).
			Str("champion", top.Competitor.Name).
			Ints("faces", top.Snapshot.Faces).
			Int("points", top.Snapshot.Points).
			Msg("final standings")
	}

	if !cfg.Console {
		return nil
	}
	c, err := console.New(league, repo, run.ID, os.Stdout, logger)
	if err != nil {
		return err
	}
	return c.Run(ctx, os.Stdin)
}
