package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const FaceCount = 6

// Rand is the only source of randomness the simulation consumes.
// *math/rand.Rand satisfies it.
type Rand interface {
	// Intn returns a non-negative int in [0, n). n must be > 0.
	Intn(n int) int
}

type QualityRange struct {
	Min int
	Max int
}

func (q QualityRange) Validate() error {
	if q.Min < 1 || q.Min > q.Max {
		return fmt.Errorf("%w: quality range [%d, %d]", ErrInvalidCompetitorConfiguration, q.Min, q.Max)
	}
	return nil
}

// Draw returns a uniform value in [Min, Max].
func (q QualityRange) Draw(rng Rand) int {
	return q.Min + rng.Intn(q.Max-q.Min+1)
}

type Scoring struct {
	Win int
	Tie int
}

var DefaultScoring = Scoring{Win: 3, Tie: 1}

type Face struct {
	Value  int
	Wins   int // rolls won
	Ties   int // rolls tied
	Losses int // rolls lost
}

type Competitor struct {
	Name  string
	Faces [FaceCount]Face

	Wins        int
	Ties        int
	Losses      int
	SideDiff    int
	TotalRolled int
	Points      int
	// ExpectedTenths is expected points in tenths, so 12.3 xPts is 123.
	ExpectedTenths int

	Matches []*Match
	History []SeasonSnapshot
}

// NewCompetitor validates the face values and returns a competitor with its faces sorted.
func NewCompetitor(name string, values []int) (*Competitor, error) {
	if len(values) != FaceCount {
		return nil, fmt.Errorf("%w: competitor %q has %d faces", ErrInvalidCompetitorConfiguration, name, len(values))
	}
	c := &Competitor{Name: name}
	for i, v := range values {
		if v < 1 {
			return nil, fmt.Errorf("%w: competitor %q face value %d", ErrInvalidCompetitorConfiguration, name, v)
		}
		c.Faces[i] = Face{Value: v}
	}
	c.SortFaces()
	return c, nil
}

// GenerateCompetitor draws six faces from the quality range.
func GenerateCompetitor(name string, quality QualityRange, rng Rand) (*Competitor, error) {
	if err := quality.Validate(); err != nil {
		return nil, err
	}
	values := make([]int, FaceCount)
	for i := range values {
		values[i] = quality.Draw(rng)
	}
	return NewCompetitor(name, values)
}

func (c *Competitor) SortFaces() {
	sort.SliceStable(c.Faces[:], func(i, j int) bool {
		return c.Faces[i].Value < c.Faces[j].Value
	})
}

func (c *Competitor) Values() []int {
	values := make([]int, FaceCount)
	for i, f := range c.Faces {
		values[i] = f.Value
	}
	return values
}

// ResetSeason zeroes every season-scoped counter, including per-face tallies.
func (c *Competitor) ResetSeason() {
	c.Wins, c.Ties, c.Losses = 0, 0, 0
	c.SideDiff, c.TotalRolled, c.Points, c.ExpectedTenths = 0, 0, 0, 0
	c.Matches = nil
	for i := range c.Faces {
		c.Faces[i] = Face{Value: c.Faces[i].Value}
	}
}

func (c *Competitor) Played() int {
	return c.Wins + c.Ties + c.Losses
}

func (c *Competitor) Sum() int {
	sum := 0
	for _, f := range c.Faces {
		sum += f.Value
	}
	return sum
}

func (c *Competitor) Average() float64 {
	return round1(float64(c.Sum()) / FaceCount)
}

func (c *Competitor) ExpectedPoints() float64 {
	return float64(c.ExpectedTenths) / 10
}

// DeviationTenths is points minus expected points, in tenths.
func (c *Competitor) DeviationTenths() int {
	return c.Points*10 - c.ExpectedTenths
}

func (c *Competitor) Deviation() float64 {
	return float64(c.DeviationTenths()) / 10
}

func (c *Competitor) PointsPerGame() float64 {
	if len(c.Matches) == 0 {
		return 0
	}
	return round1(float64(c.Points) / float64(len(c.Matches)))
}

func (c *Competitor) FaceString() string {
	parts := make([]string, FaceCount)
	for i, f := range c.Faces {
		parts[i] = strconv.Itoa(f.Value)
	}
	return strings.Join(parts, " ")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Match is one resolved fixture. A match with a nil side is a bye.
type Match struct {
	Season int
	Round  int
	Home   *Competitor
	Away   *Competitor

	HomeScore int
	AwayScore int
	// Reported odds in percent at kickoff.
	HomeWinPct int
	TiePct     int
	AwayWinPct int
}

func (m *Match) IsBye() bool {
	return m.Home == nil || m.Away == nil
}

type SeasonSnapshot struct {
	Competitor     string
	Season         int
	Division       string
	Level          int
	Rank           int
	Faces          []int
	Wins           int
	Ties           int
	Losses         int
	SideDiff       int
	TotalRolled    int
	ExpectedTenths int
	Points         int
}

func (s SeasonSnapshot) ExpectedPoints() float64 {
	return float64(s.ExpectedTenths) / 10
}

func (s SeasonSnapshot) Deviation() float64 {
	return float64(s.Points*10-s.ExpectedTenths) / 10
}

// Snapshot captures the competitor's current season at the given rank.
func (c *Competitor) Snapshot(season int, division string, level, rank int) SeasonSnapshot {
	return SeasonSnapshot{
		Competitor:     c.Name,
		Season:         season,
		Division:       division,
		Level:          level,
		Rank:           rank,
		Faces:          c.Values(),
		Wins:           c.Wins,
		Ties:           c.Ties,
		Losses:         c.Losses,
		SideDiff:       c.SideDiff,
		TotalRolled:    c.TotalRolled,
		ExpectedTenths: c.ExpectedTenths,
		Points:         c.Points,
	}
}
