package league

import (
	"fmt"

	"dice-league/internal/constants"
	"dice-league/internal/domain"
	"dice-league/internal/match"
	"dice-league/internal/schedule"

	"github.com/rs/zerolog"
)

type Rules struct {
	Games   int
	Cycles  int
	Scoring domain.Scoring
	// MutationChance is N in the 1-in-N chance a face is redrawn at season end.
	MutationChance int
}

var DefaultRules = Rules{
	Games:          constants.DefaultGameLength,
	Cycles:         constants.DefaultDupeMatches,
	Scoring:        domain.DefaultScoring,
	MutationChance: constants.DefaultMutationChance,
}

// RoundObserver is called after every round has been applied. round is 1-based.
type RoundObserver func(d *Division, round int, results []match.Result)

type Engine struct {
	rules     Rules
	rng       domain.Rand
	resolver  *match.Resolver
	observers []RoundObserver
	logger    zerolog.Logger
}

func NewEngine(rules Rules, rng domain.Rand, logger zerolog.Logger) *Engine {
	return &Engine{
		rules:    rules,
		rng:      rng,
		resolver: match.NewResolver(rules.Games, rules.Scoring, rng),
		logger:   logger,
	}
}

func (e *Engine) Rules() Rules {
	return e.rules
}

func (e *Engine) Resolver() *match.Resolver {
	return e.resolver
}

func (e *Engine) Observe(o RoundObserver) {
	e.observers = append(e.observers, o)
}

// RunSeason plays, ranks, snapshots and mutates one division.
func (e *Engine) RunSeason(d *Division, season int) error {
	if err := e.PlaySeason(d, season); err != nil {
		return err
	}
	for _, c := range d.Competitors {
		e.Mutate(c, d.Quality)
	}
	return nil
}

// PlaySeason resets the division, resolves every fixture in schedule order,
// ranks the final standings and records a history snapshot per competitor.
func (e *Engine) PlaySeason(d *Division, season int) error {
	if d.Size() == 0 {
		return fmt.Errorf("%w: division %q has no competitors", domain.ErrScheduleInfeasible, d.Name)
	}

	for _, c := range d.Competitors {
		c.ResetSeason()
	}
	d.Season = season
	d.Matches = nil
	d.Rounds = schedule.Generate(d.Size(), e.rules.Cycles)

	entrants := append([]*domain.Competitor(nil), d.Competitors...)
	for i, round := range d.Rounds {
		results := e.playRound(d, entrants, round, i+1)
		for _, o := range e.observers {
			o(d, i+1, results)
		}
	}

	Rank(d.Competitors)
	for i, c := range d.Competitors {
		c.History = append(c.History, c.Snapshot(season, d.Name, d.Level, i+1))
	}

	e.logger.Debug().
		Str("division", d.Name).
		Int("season", season).
		Int("rounds", len(d.Rounds)).
		Int("matches", len(d.Matches)).
		Msg("season resolved")
	return nil
}

func (e *Engine) playRound(d *Division, entrants []*domain.Competitor, round schedule.Round, number int) []match.Result {
	results := make([]match.Result, 0, len(round.Fixtures))
	for _, f := range round.Fixtures {
		res := e.resolver.Resolve(entrants[f.Home], entrants[f.Away])
		if m := e.resolver.Apply(res, d.Season, number); m != nil {
			d.Matches = append(d.Matches, m)
		}
		results = append(results, res)
	}
	return results
}

type Mutation struct {
	Redrawn []int // face indexes redrawn from the quality range
	Bonus   int
	Penalty int
}

// Mutate applies the end of season face changes to c and re-sorts its faces.
func (e *Engine) Mutate(c *domain.Competitor, quality domain.QualityRange) Mutation {
	var m Mutation
	for i := range c.Faces {
		if e.rng.Intn(e.rules.MutationChance) == e.rules.MutationChance-1 {
			c.Faces[i] = domain.Face{Value: quality.Draw(e.rng)}
			m.Redrawn = append(m.Redrawn, i)
		}
	}

	m.Bonus, m.Penalty = Tiers(c.DeviationTenths())
	for i := 0; i < m.Bonus; i++ {
		f := e.rng.Intn(domain.FaceCount)
		c.Faces[f] = domain.Face{Value: c.Faces[f].Value + 1}
	}
	for i := 0; i < m.Penalty; i++ {
		f := e.rng.Intn(domain.FaceCount)
		if c.Faces[f].Value > 1 {
			c.Faces[f] = domain.Face{Value: c.Faces[f].Value - 1}
		}
	}

	c.SortFaces()
	return m
}

var tierThresholds = [...]int{
	constants.DeviationTier1 * 10,
	constants.DeviationTier2 * 10,
	constants.DeviationTier3 * 10,
}

// Tiers returns the bonus and penalty increments earned by a deviation
// given in tenths of a point.
func Tiers(deviationTenths int) (bonus, penalty int) {
	for _, t := range tierThresholds {
		if deviationTenths > t {
			bonus++
		}
		if deviationTenths < -t {
			penalty++
		}
	}
	return bonus, penalty
}
