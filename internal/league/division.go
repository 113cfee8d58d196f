package league

import (
	"fmt"
	"sort"

	"dice-league/internal/domain"
	"dice-league/internal/schedule"
)

type Division struct {
	Name string
	// Level is the tier, 1 being the top division.
	Level       int
	Quality     domain.QualityRange
	Competitors []*domain.Competitor

	Season  int
	Rounds  []schedule.Round
	Matches []*domain.Match
}

func NewDivision(name string, level int, quality domain.QualityRange, competitors []*domain.Competitor) (*Division, error) {
	if err := quality.Validate(); err != nil {
		return nil, fmt.Errorf("division %q: %w", name, err)
	}
	if len(competitors) == 0 {
		return nil, fmt.Errorf("%w: division %q has no competitors", domain.ErrScheduleInfeasible, name)
	}
	return &Division{
		Name:        name,
		Level:       level,
		Quality:     quality,
		Competitors: competitors,
	}, nil
}

func (d *Division) Size() int {
	return len(d.Competitors)
}

// RankOf returns the 1-based position of c in the current ordering, or 0.
func (d *Division) RankOf(c *domain.Competitor) int {
	for i, other := range d.Competitors {
		if other == c {
			return i + 1
		}
	}
	return 0
}

// Rank orders competitors by points, then side difference, then total rolled.
// Competitors level on all three keep their current order.
func Rank(competitors []*domain.Competitor) {
	sort.SliceStable(competitors, func(i, j int) bool {
		a, b := competitors[i], competitors[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.SideDiff != b.SideDiff {
			return a.SideDiff > b.SideDiff
		}
		return a.TotalRolled > b.TotalRolled
	})
}
