package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"dice-league/internal/calibrate"
	"dice-league/internal/config"
	"dice-league/internal/constants"
	"dice-league/internal/domain"
	"dice-league/internal/league"
	"dice-league/internal/names"
	"dice-league/internal/odds"
	"dice-league/internal/promotion"
	"dice-league/internal/registry"

	"github.com/rs/zerolog"
)

// LeagueService owns one simulation: its divisions, season counter, name
// registry and the single random source every component draws from.
type LeagueService struct {
	rules     league.Rules
	plan      promotion.Plan
	seed      int64
	rng       *rand.Rand
	engine    *league.Engine
	registry  *registry.Registry
	divisions []*league.Division
	season    int
	tables    []Table
	latest    []domain.SeasonSnapshot
	logger    zerolog.Logger
}

// NewLeague builds an empty league. A zero seed is replaced by a time
// derived one, Seed reports the value actually used.
func NewLeague(rules league.Rules, plan promotion.Plan, seed int64, logger zerolog.Logger) *LeagueService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return &LeagueService{
		rules:    rules,
		plan:     plan,
		seed:     seed,
		rng:      rng,
		engine:   league.NewEngine(rules, rng, logger),
		registry: registry.New(),
		logger:   logger,
	}
}

// NewLeagueService builds the configured divisions, top division first.
func NewLeagueService(cfg *config.Config, logger zerolog.Logger) (*LeagueService, error) {
	s := NewLeague(cfg.Layout.Rules(), cfg.Layout.Plan(), cfg.Seed, logger)
	for _, d := range cfg.Layout.Divisions {
		if _, err := s.CreateDivision(d.Size, d.Quality(), d.Name); err != nil {
			return nil, fmt.Errorf("failed to create division %q: %w", d.Name, err)
		}
	}
	s.logger.Info().Int64("seed", s.seed).Int("divisions", len(s.divisions)).Msg("league created")
	return s, nil
}

func (s *LeagueService) Seed() int64 {
	return s.seed
}

// Season is the number of the last season played, 0 before the first.
func (s *LeagueService) Season() int {
	return s.season
}

func (s *LeagueService) Rules() league.Rules {
	return s.rules
}

func (s *LeagueService) Plan() promotion.Plan {
	return s.plan
}

func (s *LeagueService) Divisions() []*league.Division {
	return append([]*league.Division(nil), s.divisions...)
}

func (s *LeagueService) Registry() *registry.Registry {
	return s.registry
}

func (s *LeagueService) Observe(o league.RoundObserver) {
	s.engine.Observe(o)
}

// CreateDivision generates count fresh competitors and adds the division
// below the current bottom one.
func (s *LeagueService) CreateDivision(count int, quality domain.QualityRange, name string) (*league.Division, error) {
	if err := quality.Validate(); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: division %q needs at least one competitor, got %d", domain.ErrScheduleInfeasible, name, count)
	}

	pending := make(map[string]bool)
	competitors := make([]*domain.Competitor, count)
	for i := range competitors {
		c, err := s.generate(quality, pending)
		if err != nil {
			return nil, err
		}
		competitors[i] = c
	}

	d, err := league.NewDivision(name, len(s.divisions)+1, quality, competitors)
	if err != nil {
		return nil, err
	}
	for _, c := range competitors {
		if err := s.registry.Register(c); err != nil {
			return nil, err
		}
	}
	s.divisions = append(s.divisions, d)

	s.logger.Debug().Str("division", name).Int("level", d.Level).Int("competitors", count).Msg("division created")
	return d, nil
}

// generate draws a competitor whose name is neither registered nor pending.
func (s *LeagueService) generate(quality domain.QualityRange, pending map[string]bool) (*domain.Competitor, error) {
	name := names.Unique(s.rng, func(n string) bool {
		return s.registry.Contains(n) || pending[strings.ToLower(n)]
	})
	pending[strings.ToLower(name)] = true
	return domain.GenerateCompetitor(name, quality, s.rng)
}

// AdvanceSeason plays one season in every division and then applies
// promotion and relegation. Nothing changes when validation fails.
func (s *LeagueService) AdvanceSeason() ([]*league.Division, error) {
	if len(s.divisions) == 0 {
		return nil, fmt.Errorf("%w: no divisions", domain.ErrScheduleInfeasible)
	}
	for _, d := range s.divisions {
		if d.Size() == 0 {
			return nil, fmt.Errorf("%w: division %q has no competitors", domain.ErrScheduleInfeasible, d.Name)
		}
	}
	if err := s.plan.Validate(s.divisions); err != nil {
		return nil, err
	}

	s.season++
	s.tables = nil
	s.latest = nil
	for i, d := range s.divisions {
		if err := s.engine.RunSeason(d, s.season); err != nil {
			return nil, fmt.Errorf("failed to run season %d in %q: %w", s.season, d.Name, err)
		}
		leader := d.Competitors[0]
		s.logger.Info().
			Int("season", s.season).
			Str("division", d.Name).
			Str("champion", leader.Name).
			Int("points", leader.Points).
			Int("matches", len(d.Matches)).
			Msg("division season completed")

		t := s.table(d, i, s.season)
		s.tables = append(s.tables, t)
		for _, row := range t.Rows {
			s.latest = append(s.latest, row.Snapshot)
		}
	}

	pending := make(map[string]bool)
	res, err := promotion.Apply(s.divisions, s.plan, func(d *league.Division) (*domain.Competitor, error) {
		return s.generate(d.Quality, pending)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply promotion: %w", err)
	}
	for _, c := range res.Discarded {
		s.registry.Unregister(c)
	}
	for _, c := range res.Fresh {
		if err := s.registry.Register(c); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Int("season", s.season).
		Int("discarded", len(res.Discarded)).
		Int("fresh", len(res.Fresh)).
		Msg("promotion applied")
	return s.Divisions(), nil
}

// ComputeOdds reports the match odds of a against b without touching either.
func (s *LeagueService) ComputeOdds(a, b *domain.Competitor) odds.Percent {
	return odds.Compute(a, b, s.rules.Games)
}

// History returns a copy of c's completed seasons, oldest first.
func (s *LeagueService) History(c *domain.Competitor) []domain.SeasonSnapshot {
	return append([]domain.SeasonSnapshot(nil), c.History...)
}

func (s *LeagueService) Lookup(name string) (*domain.Competitor, error) {
	return s.registry.Lookup(name)
}

// DivisionOf returns the division c currently belongs to, or nil.
func (s *LeagueService) DivisionOf(c *domain.Competitor) *league.Division {
	for _, d := range s.divisions {
		if d.RankOf(c) > 0 {
			return d
		}
	}
	return nil
}

// FindDivision matches a division by case-insensitive name or by level.
func (s *LeagueService) FindDivision(query string) (*league.Division, error) {
	for _, d := range s.divisions {
		if strings.EqualFold(d.Name, query) || fmt.Sprint(d.Level) == query {
			return d, nil
		}
	}
	return nil, fmt.Errorf("division %q was not found", query)
}

// LatestSnapshots returns the final snapshots of the last season played,
// including competitors discarded by promotion.
func (s *LeagueService) LatestSnapshots() []domain.SeasonSnapshot {
	return append([]domain.SeasonSnapshot(nil), s.latest...)
}

// Calibrate compares observed match outcomes of a against b with the odds
// model. It runs on copies and does not consume the league's random source.
func (s *LeagueService) Calibrate(ctx context.Context, a, b *domain.Competitor, trials int) (calibrate.Report, error) {
	return calibrate.Run(ctx, a, b, s.rules.Games, trials, constants.CalibrationWorkers, s.seed)
}
