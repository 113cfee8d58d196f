package fx

import (
	"database/sql"

	"dice-league/internal/config"
	"dice-league/internal/database"
	"dice-league/internal/db"
	"dice-league/internal/logger"
	"dice-league/internal/repository"
	"dice-league/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Run identifies one execution of the simulator in logs and storage.
type Run struct {
	ID string
}

func ProvideRun() Run {
	return Run{ID: uuid.New().String()}
}

// ProvideLogger scopes the base logger to the configured level and run.
func ProvideLogger(base zerolog.Logger, cfg *config.Config, run Run) zerolog.Logger {
	return logger.WithLevel(base, cfg.LogLevel).With().Str("run_id", run.ID).Logger()
}

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

var Module = fx.Options(
	fx.Provide(fx.Annotate(logger.New, fx.ResultTags(`name:"base"`))),
	fx.Provide(fx.Annotate(config.Load, fx.ParamTags(`name:"base"`))),
	fx.Provide(ProvideRun),
	fx.Provide(fx.Annotate(ProvideLogger, fx.ParamTags(`name:"base"`))),
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewSnapshotRepository),
	// svc
	fx.Provide(service.NewLeagueService),
)
