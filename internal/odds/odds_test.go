package odds

import (
	"math/big"
	"math/rand"
	"testing"

	"dice-league/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func die(t *testing.T, values ...int) *domain.Competitor {
	t.Helper()
	c, err := domain.NewCompetitor("die", values)
	require.NoError(t, err)
	return c
}

func TestCompareCounts(t *testing.T) {
	standard := die(t, 1, 2, 3, 4, 5, 6)
	a, tie, b := Compare(standard, standard).Counts()
	assert.Equal(t, 15, a)
	assert.Equal(t, 6, tie)
	assert.Equal(t, 15, b)

	m := Compare(die(t, 6, 6, 6, 6, 6, 6), die(t, 1, 2, 3, 4, 5, 6))
	assert.Equal(t, AWins, m[0][0])
	assert.Equal(t, Tie, m[0][5])
}

func TestRollProbabilitiesAreExact(t *testing.T) {
	standard := die(t, 1, 2, 3, 4, 5, 6)
	p := Compare(standard, standard).Roll()
	assert.Zero(t, p.A.Cmp(big.NewRat(15, 36)))
	assert.Zero(t, p.Tie.Cmp(big.NewRat(1, 6)))
	assert.Zero(t, p.B.Cmp(big.NewRat(5, 12)))
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		a    []int
		b    []int
		want Percent
	}{
		{"identical standard dice", []int{1, 2, 3, 4, 5, 6}, []int{1, 2, 3, 4, 5, 6}, Percent{A: 42, Tie: 16, B: 42}},
		{"stronger die", []int{2, 3, 4, 5, 6, 6}, []int{1, 2, 3, 4, 5, 6}, Percent{A: 69, Tie: 13, B: 18}},
		{"no tie possible over odd rolls", []int{1, 1, 1, 6, 6, 6}, []int{3, 3, 3, 3, 3, 3}, Percent{A: 50, Tie: 0, B: 50}},
		{"certain win", []int{6, 6, 6, 6, 6, 6}, []int{1, 1, 1, 1, 1, 1}, Percent{A: 100, Tie: 0, B: 0}},
		{"tie complement below rounded tie", []int{3, 3, 5, 6, 6, 6}, []int{1, 1, 2, 4, 5, 6}, Percent{A: 87, Tie: 7, B: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(die(t, tt.a...), die(t, tt.b...), 5)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Swap(), Compute(die(t, tt.b...), die(t, tt.a...), 5))
		})
	}
}

func TestReportedTieIsComplement(t *testing.T) {
	standard := die(t, 1, 2, 3, 4, 5, 6)
	dist := Compare(standard, standard).Roll().Match(5)

	total := new(big.Rat).Add(dist.A, dist.Tie)
	total.Add(total, dist.B)
	assert.Zero(t, total.Cmp(big.NewRat(1, 1)))

	// the tie bucket alone rounds to 17, the reported value is the complement
	assert.Equal(t, 17, roundPercent(dist.Tie))
	assert.Equal(t, 16, dist.Report().Tie)
}

func TestComputeAlwaysSumsTo100(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	quality := domain.QualityRange{Min: 1, Max: 9}
	for i := 0; i < 300; i++ {
		a, err := domain.GenerateCompetitor("a", quality, rng)
		require.NoError(t, err)
		b, err := domain.GenerateCompetitor("b", quality, rng)
		require.NoError(t, err)

		p := Compute(a, b, 1+rng.Intn(7))
		assert.Equal(t, 100, p.A+p.Tie+p.B)
		assert.GreaterOrEqual(t, p.Tie, 0)
	}
}

func TestZeroGamesIsAlwaysATie(t *testing.T) {
	assert.Equal(t, Percent{Tie: 100}, Compute(die(t, 6, 6, 6, 6, 6, 6), die(t, 1, 1, 1, 1, 1, 1), 0))
}

func TestExpectedTenths(t *testing.T) {
	tests := []struct {
		win, tie int
		want     int
	}{
		{42, 16, 14}, // 1.26 + 0.16 = 1.42
		{100, 0, 30},
		{0, 100, 10},
		{0, 0, 0},
		{18, 13, 7}, // 0.54 + 0.13 = 0.67
		{5, 0, 2},   // 0.15 rounds up
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpectedTenths(tt.win, tt.tie, domain.DefaultScoring), "win=%d tie=%d", tt.win, tt.tie)
	}
}
