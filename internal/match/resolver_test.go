package match

import (
	"math/rand"
	"testing"

	"dice-league/internal/domain"
	"dice-league/internal/odds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns the queued values in order, reduced mod n.
type scripted struct {
	values []int
	next   int
}

func (s *scripted) Intn(n int) int {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

func standard(t *testing.T, name string) *domain.Competitor {
	t.Helper()
	c, err := domain.NewCompetitor(name, []int{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	return c
}

func TestResolveScriptedRolls(t *testing.T) {
	home, away := standard(t, "Home"), standard(t, "Away")
	// home face index, away face index per roll
	rng := &scripted{values: []int{5, 0, 0, 5, 2, 2, 5, 4, 3, 1}}
	r := NewResolver(5, domain.DefaultScoring, rng)

	res, m := r.Play(home, away, 1, 1)
	require.NotNil(t, m)

	assert.Equal(t, 3, res.HomeScore)
	assert.Equal(t, 1, res.AwayScore)
	assert.Equal(t, odds.AWins, res.Outcome())
	assert.Equal(t, odds.Percent{A: 42, Tie: 16, B: 42}, res.Odds)

	assert.Equal(t, 1, home.Wins)
	assert.Equal(t, 1, away.Losses)
	assert.Equal(t, 3, home.Points)
	assert.Equal(t, 0, away.Points)
	assert.Equal(t, 2, home.SideDiff)
	assert.Equal(t, -2, away.SideDiff)
	assert.Equal(t, 3, home.TotalRolled)
	assert.Equal(t, 1, away.TotalRolled)
	assert.Equal(t, 14, home.ExpectedTenths)
	assert.Equal(t, 14, away.ExpectedTenths)

	assert.Equal(t, domain.Face{Value: 6, Wins: 2}, home.Faces[5])
	assert.Equal(t, domain.Face{Value: 1, Losses: 1}, home.Faces[0])
	assert.Equal(t, domain.Face{Value: 3, Ties: 1}, home.Faces[2])
	assert.Equal(t, domain.Face{Value: 6, Wins: 1}, away.Faces[5])
	assert.Equal(t, domain.Face{Value: 1, Losses: 1}, away.Faces[0])

	assert.Equal(t, []*domain.Match{m}, home.Matches)
	assert.Equal(t, []*domain.Match{m}, away.Matches)
}

func TestResolveTie(t *testing.T) {
	home, away := standard(t, "Home"), standard(t, "Away")
	rng := &scripted{values: []int{3}}
	r := NewResolver(5, domain.DefaultScoring, rng)

	r.Play(home, away, 1, 1)

	assert.Equal(t, 1, home.Ties)
	assert.Equal(t, 1, away.Ties)
	assert.Equal(t, 1, home.Points)
	assert.Equal(t, 1, away.Points)
	assert.Zero(t, home.SideDiff)
	assert.Equal(t, 5, home.Faces[3].Ties)
}

func TestResolveDoesNotMutate(t *testing.T) {
	home, away := standard(t, "Home"), standard(t, "Away")
	r := NewResolver(5, domain.DefaultScoring, rand.New(rand.NewSource(1)))

	res := r.Resolve(home, away)
	assert.Len(t, res.Rolls, 5)
	assert.Zero(t, home.Played())
	assert.Zero(t, away.Played())
	assert.Empty(t, home.Matches)
}

func TestByeIsNoOp(t *testing.T) {
	home := standard(t, "Home")
	r := NewResolver(5, domain.DefaultScoring, &scripted{values: []int{0}})

	res, m := r.Play(home, nil, 1, 1)
	assert.True(t, res.IsBye())
	assert.Nil(t, m)
	assert.Zero(t, home.Played())
	assert.Zero(t, home.ExpectedTenths)
	assert.Equal(t, domain.Face{Value: 1}, home.Faces[0])
}

func TestResolveIsReproducible(t *testing.T) {
	run := func() []Result {
		r := NewResolver(5, domain.DefaultScoring, rand.New(rand.NewSource(99)))
		a, b := standard(t, "A"), standard(t, "B")
		var out []Result
		for i := 0; i < 20; i++ {
			res, _ := r.Play(a, b, 1, i+1)
			res.Home, res.Away = nil, nil
			out = append(out, res)
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestApplyInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	quality := domain.QualityRange{Min: 1, Max: 6}
	r := NewResolver(5, domain.DefaultScoring, rng)

	for i := 0; i < 200; i++ {
		a, err := domain.GenerateCompetitor("a", quality, rng)
		require.NoError(t, err)
		b, err := domain.GenerateCompetitor("b", quality, rng)
		require.NoError(t, err)

		r.Play(a, b, 1, 1)

		assert.Equal(t, -a.SideDiff, b.SideDiff)
		assert.Equal(t, a.Wins*3+a.Ties, a.Points)
		assert.Equal(t, b.Wins*3+b.Ties, b.Points)
		assert.Equal(t, a.Wins, b.Losses)
		assert.LessOrEqual(t, a.TotalRolled+b.TotalRolled, 5)

		rolls := 0
		for _, f := range a.Faces {
			rolls += f.Wins + f.Ties + f.Losses
		}
		assert.Equal(t, 5, rolls)
	}
}
