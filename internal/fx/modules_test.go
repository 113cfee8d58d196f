package fx

import (
	"testing"

	"dice-league/internal/config"
	"dice-league/internal/repository"
	"dice-league/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestModuleGraph(t *testing.T) {
	err := fx.ValidateApp(
		Module,
		fx.Invoke(func(*service.LeagueService, *repository.SnapshotRepository, Run, zerolog.Logger) {}),
	)
	require.NoError(t, err)
}

func TestProvideRun(t *testing.T) {
	a, b := ProvideRun(), ProvideRun()
	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestProvideLoggerFallsBackToInfo(t *testing.T) {
	cfg := &config.Config{}
	cfg.LogLevel = "loud"
	log := ProvideLogger(zerolog.Nop(), cfg, Run{ID: "r"})
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())

	cfg.LogLevel = "warn"
	log = ProvideLogger(zerolog.Nop(), cfg, Run{ID: "r"})
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}
