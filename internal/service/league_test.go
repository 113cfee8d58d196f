package service

import (
	"context"
	"testing"

	"dice-league/internal/config"
	"dice-league/internal/domain"
	"dice-league/internal/league"
	"dice-league/internal/match"
	"dice-league/internal/promotion"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLeague(t *testing.T, seed int64) *LeagueService {
	t.Helper()
	s := NewLeague(league.DefaultRules, promotion.Plan{Spots: []int{2}, Replacement: 1}, seed, zerolog.Nop())
	_, err := s.CreateDivision(6, domain.QualityRange{Min: 2, Max: 6}, "Gold")
	require.NoError(t, err)
	_, err = s.CreateDivision(5, domain.QualityRange{Min: 1, Max: 5}, "Silver")
	require.NoError(t, err)
	return s
}

func TestCreateDivision(t *testing.T) {
	s := newTestLeague(t, 7)

	divisions := s.Divisions()
	require.Len(t, divisions, 2)
	assert.Equal(t, 1, divisions[0].Level)
	assert.Equal(t, 2, divisions[1].Level)
	assert.Equal(t, 11, s.Registry().Len())

	for _, d := range divisions {
		for _, c := range d.Competitors {
			for _, v := range c.Values() {
				assert.GreaterOrEqual(t, v, d.Quality.Min)
				assert.LessOrEqual(t, v, d.Quality.Max)
			}
			found, err := s.Lookup(c.Name)
			require.NoError(t, err)
			assert.Same(t, c, found)
		}
	}
}

func TestCreateDivisionValidatesFirst(t *testing.T) {
	s := NewLeague(league.DefaultRules, promotion.Plan{}, 1, zerolog.Nop())

	_, err := s.CreateDivision(4, domain.QualityRange{Min: 5, Max: 2}, "Bad")
	assert.ErrorIs(t, err, domain.ErrInvalidCompetitorConfiguration)

	_, err = s.CreateDivision(0, domain.QualityRange{Min: 1, Max: 6}, "Empty")
	assert.ErrorIs(t, err, domain.ErrScheduleInfeasible)

	assert.Empty(t, s.Divisions())
	assert.Zero(t, s.Registry().Len())
}

func TestZeroSeedIsReplaced(t *testing.T) {
	s := NewLeague(league.DefaultRules, promotion.Plan{}, 0, zerolog.Nop())
	assert.NotZero(t, s.Seed())
}

func TestAdvanceSeason(t *testing.T) {
	s := newTestLeague(t, 11)

	divisions, err := s.AdvanceSeason()
	require.NoError(t, err)
	assert.Equal(t, 1, s.Season())
	require.Len(t, divisions, 2)
	assert.Equal(t, 6, divisions[0].Size())
	assert.Equal(t, 5, divisions[1].Size())
	assert.Equal(t, 11, s.Registry().Len(), "one discarded and one fresh competitor")

	// 6 entrants play 30 matches over two cycles, 5 play 20.
	assert.Len(t, divisions[0].Matches, 30)
	assert.Len(t, divisions[1].Matches, 20)

	snapshots := s.LatestSnapshots()
	assert.Len(t, snapshots, 11)
	for _, snap := range snapshots {
		assert.Equal(t, 1, snap.Season)
	}

	for _, d := range s.Divisions() {
		for _, c := range d.Competitors {
			assert.True(t, s.Registry().Contains(c.Name))
		}
	}
}

func TestAdvanceSeasonMovesCompetitors(t *testing.T) {
	s := newTestLeague(t, 5)
	_, err := s.AdvanceSeason()
	require.NoError(t, err)

	tables := s.Standings()
	require.Len(t, tables, 2)
	gold, silver := tables[0], tables[1]

	top := s.Divisions()[0]
	bottom := s.Divisions()[1]

	for _, row := range gold.Rows[:4] {
		assert.Same(t, top, s.DivisionOf(row.Competitor))
	}
	for _, row := range gold.Rows[4:] {
		assert.Equal(t, MarkRelegated, row.Mark)
		assert.Same(t, bottom, s.DivisionOf(row.Competitor))
	}
	for _, row := range silver.Rows[:2] {
		assert.Equal(t, MarkPromoted, row.Mark)
		assert.Same(t, top, s.DivisionOf(row.Competitor))
	}
	last := silver.Rows[4]
	assert.Equal(t, MarkRelegated, last.Mark)
	assert.Nil(t, s.DivisionOf(last.Competitor), "replaced competitor leaves the league")
	assert.False(t, s.Registry().Contains(last.Competitor.Name))
	assert.Empty(t, silver.Rows[2].Mark)
}

func TestAdvanceSeasonValidatesFirst(t *testing.T) {
	s := NewLeague(league.DefaultRules, promotion.Plan{Spots: []int{6}}, 3, zerolog.Nop())
	_, err := s.AdvanceSeason()
	assert.ErrorIs(t, err, domain.ErrScheduleInfeasible)

	_, err = s.CreateDivision(6, domain.QualityRange{Min: 2, Max: 6}, "Gold")
	require.NoError(t, err)
	_, err = s.CreateDivision(5, domain.QualityRange{Min: 1, Max: 5}, "Silver")
	require.NoError(t, err)
	before := s.Divisions()[0].Competitors[0].Values()

	_, err = s.AdvanceSeason()
	assert.ErrorIs(t, err, domain.ErrPromotionSizeMismatch)
	assert.Zero(t, s.Season())
	assert.Equal(t, before, s.Divisions()[0].Competitors[0].Values())
	assert.Empty(t, s.Divisions()[0].Matches)
}

func TestSameSeedSameLeague(t *testing.T) {
	a := newTestLeague(t, 99)
	b := newTestLeague(t, 99)
	for i := 0; i < 3; i++ {
		_, err := a.AdvanceSeason()
		require.NoError(t, err)
		_, err = b.AdvanceSeason()
		require.NoError(t, err)
	}
	assert.Equal(t, a.LatestSnapshots(), b.LatestSnapshots())
	assert.Equal(t, a.Registry().Names(), b.Registry().Names())
}

func TestHistoryAccumulates(t *testing.T) {
	s := newTestLeague(t, 21)
	c := s.Divisions()[0].Competitors[0]
	for i := 0; i < 3; i++ {
		_, err := s.AdvanceSeason()
		require.NoError(t, err)
	}

	history := s.History(c)
	require.NotEmpty(t, history)
	for i, snap := range history {
		assert.Equal(t, i+1, snap.Season)
		assert.Equal(t, c.Name, snap.Competitor)
	}

	history[0].Points = -1
	assert.NotEqual(t, -1, c.History[0].Points, "history is returned as a copy")
}

func TestComputeOdds(t *testing.T) {
	s := NewLeague(league.DefaultRules, promotion.Plan{}, 1, zerolog.Nop())
	a, err := domain.NewCompetitor("a", []int{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	b, err := domain.NewCompetitor("b", []int{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	p := s.ComputeOdds(a, b)
	assert.Equal(t, 42, p.A)
	assert.Equal(t, 16, p.Tie)
	assert.Equal(t, 42, p.B)
	assert.Zero(t, a.Played())
}

func TestLookupSuggests(t *testing.T) {
	s := newTestLeague(t, 8)
	name := s.Divisions()[0].Competitors[0].Name

	_, err := s.Lookup(name + "x")
	require.ErrorIs(t, err, domain.ErrCompetitorNotFound)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.NotEmpty(t, nf.Suggestions)
}

func TestObserverSeesEveryRound(t *testing.T) {
	s := newTestLeague(t, 4)
	rounds := make(map[string]int)
	s.Observe(func(d *league.Division, round int, results []match.Result) {
		rounds[d.Name]++
		assert.Equal(t, rounds[d.Name], round)
	})
	_, err := s.AdvanceSeason()
	require.NoError(t, err)
	assert.Equal(t, 10, rounds["Gold"])
	assert.Equal(t, 10, rounds["Silver"])
}

func TestDivisionStandings(t *testing.T) {
	s := newTestLeague(t, 2)

	before, err := s.DivisionStandings("gold")
	require.NoError(t, err)
	assert.Len(t, before.Rows, 6)
	assert.Zero(t, before.Season)

	_, err = s.AdvanceSeason()
	require.NoError(t, err)
	after, err := s.DivisionStandings("2")
	require.NoError(t, err)
	assert.Equal(t, "Silver", after.Division)
	assert.Equal(t, 1, after.Season)
	for i := 1; i < len(after.Rows); i++ {
		assert.GreaterOrEqual(t, after.Rows[i-1].Snapshot.Points, after.Rows[i].Snapshot.Points)
	}

	_, err = s.DivisionStandings("Copper")
	assert.Error(t, err)
}

func TestNewLeagueServiceFromConfig(t *testing.T) {
	cfg := &config.Config{Layout: config.DefaultLayout()}
	cfg.Seed = 17

	s, err := NewLeagueService(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, int64(17), s.Seed())
	require.Len(t, s.Divisions(), 3)
	assert.Equal(t, 56, s.Registry().Len())

	_, err = s.AdvanceSeason()
	require.NoError(t, err)
	assert.Equal(t, 56, s.Registry().Len())
}

func TestCalibrateMatchesModel(t *testing.T) {
	s := NewLeague(league.DefaultRules, promotion.Plan{}, 1, zerolog.Nop())
	a, err := domain.NewCompetitor("a", []int{2, 3, 4, 5, 6, 6})
	require.NoError(t, err)
	b, err := domain.NewCompetitor("b", []int{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	report, err := s.Calibrate(context.Background(), a, b, 20000)
	require.NoError(t, err)
	assert.Less(t, report.MaxDeviation(), 0.02)
}
