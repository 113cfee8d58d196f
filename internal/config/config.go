package config

import (
	"fmt"
	"os"

	"dice-league/internal/constants"
	"dice-league/internal/domain"
	"dice-league/internal/league"
	"dice-league/internal/promotion"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Env struct {
	DBPath     string `env:"DB_PATH" envDefault:"league.db"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	Seed       int64  `env:"LEAGUE_SEED" envDefault:"0"`
	Seasons    int    `env:"LEAGUE_SEASONS" envDefault:"1"`
	Console    bool   `env:"LEAGUE_CONSOLE" envDefault:"false"`
	LayoutPath string `env:"LEAGUE_CONFIG"`
}

type Config struct {
	Env
	Layout Layout
}

type DivisionLayout struct {
	Name string `yaml:"name"`
	Min  int    `yaml:"min"`
	Max  int    `yaml:"max"`
	Size int    `yaml:"size"`
}

func (d DivisionLayout) Quality() domain.QualityRange {
	return domain.QualityRange{Min: d.Min, Max: d.Max}
}

type Layout struct {
	GameLength       int              `yaml:"game_length"`
	DupeMatches      int              `yaml:"dupe_matches"`
	PointsPerWin     int              `yaml:"points_per_win"`
	PointsPerTie     int              `yaml:"points_per_tie"`
	MutationChance   int              `yaml:"mutation_chance"`
	Divisions        []DivisionLayout `yaml:"divisions"`
	PromotionSpots   []int            `yaml:"promotion_spots"`
	ReplacementSpots int              `yaml:"replacement_spots"`
}

func DefaultLayout() Layout {
	return Layout{
		GameLength:     constants.DefaultGameLength,
		DupeMatches:    constants.DefaultDupeMatches,
		PointsPerWin:   constants.DefaultPointsPerWin,
		PointsPerTie:   constants.DefaultPointsPerTie,
		MutationChance: constants.DefaultMutationChance,
		Divisions: []DivisionLayout{
			{Name: "DiceRolls Gold League", Min: 2, Max: 6, Size: 16},
			{Name: "DiceRolls Silver League", Min: 2, Max: 5, Size: 20},
			{Name: "DiceRolls Bronze League", Min: 1, Max: 5, Size: 20},
		},
		PromotionSpots:   []int{3, 4},
		ReplacementSpots: constants.DefaultReplacementSpots,
	}
}

func (l Layout) Rules() league.Rules {
	return league.Rules{
		Games:          l.GameLength,
		Cycles:         l.DupeMatches,
		Scoring:        domain.Scoring{Win: l.PointsPerWin, Tie: l.PointsPerTie},
		MutationChance: l.MutationChance,
	}
}

func (l Layout) Plan() promotion.Plan {
	return promotion.Plan{
		Spots:       append([]int(nil), l.PromotionSpots...),
		Replacement: l.ReplacementSpots,
	}
}

func (l Layout) Validate() error {
	if l.GameLength < 1 || l.DupeMatches < 1 || l.MutationChance < 1 {
		return fmt.Errorf("game_length, dupe_matches and mutation_chance must be positive")
	}
	if len(l.Divisions) == 0 {
		return fmt.Errorf("%w: no divisions configured", domain.ErrScheduleInfeasible)
	}
	for _, d := range l.Divisions {
		if err := d.Quality().Validate(); err != nil {
			return fmt.Errorf("division %q: %w", d.Name, err)
		}
		if d.Size < 1 {
			return fmt.Errorf("%w: division %q has size %d", domain.ErrScheduleInfeasible, d.Name, d.Size)
		}
	}
	sizes := make([]int, len(l.Divisions))
	names := make([]string, len(l.Divisions))
	for i, d := range l.Divisions {
		sizes[i], names[i] = d.Size, d.Name
	}
	return l.Plan().ValidateSizes(names, sizes)
}

// LoadLayout reads a YAML layout on top of the defaults.
func LoadLayout(path string) (Layout, error) {
	layout := DefaultLayout()
	if path == "" {
		return layout, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to read league config: %w", err)
	}
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("failed to parse league config: %w", err)
	}
	return layout, nil
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{}
	if err := env.Parse(&cfg.Env); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	layout, err := LoadLayout(cfg.LayoutPath)
	if err != nil {
		return nil, err
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid league config: %w", err)
	}
	cfg.Layout = layout

	if cfg.Seasons < 0 {
		return nil, fmt.Errorf("LEAGUE_SEASONS must not be negative")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Int64("seed", cfg.Seed).
		Int("seasons", cfg.Seasons).
		Int("divisions", len(layout.Divisions)).
		Msg("configuration loaded")

	return cfg, nil
}
