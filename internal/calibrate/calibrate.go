// Package calibrate checks the match resolver against the odds model by
// playing many independent matches and comparing observed frequencies with
// the exact distribution.
package calibrate

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"dice-league/internal/domain"
	"dice-league/internal/match"
	"dice-league/internal/odds"

	"golang.org/x/sync/errgroup"
)

type Report struct {
	Trials   int
	HomeWins int
	Ties     int
	AwayWins int
	// exact match probabilities
	Home float64
	Tie  float64
	Away float64
}

func (r Report) Observed() (home, tie, away float64) {
	n := float64(r.Trials)
	return float64(r.HomeWins) / n, float64(r.Ties) / n, float64(r.AwayWins) / n
}

// MaxDeviation is the largest absolute gap between an observed frequency and
// its exact probability.
func (r Report) MaxDeviation() float64 {
	home, tie, away := r.Observed()
	return math.Max(math.Abs(home-r.Home), math.Max(math.Abs(tie-r.Tie), math.Abs(away-r.Away)))
}

type counts struct {
	home, tie, away int
}

// Run plays trials matches between copies of a and b. Worker w draws from
// its own source seeded with seed+w, so a given seed and worker count
// always produce the same report.
func Run(ctx context.Context, a, b *domain.Competitor, games, trials, workers int, seed int64) (Report, error) {
	if trials <= 0 || workers <= 0 {
		return Report{}, fmt.Errorf("calibration needs positive trials and workers, got %d and %d", trials, workers)
	}

	dist := odds.Compare(a, b).Roll().Match(games)
	report := Report{Trials: trials}
	report.Home, _ = dist.A.Float64()
	report.Tie, _ = dist.Tie.Float64()
	report.Away, _ = dist.B.Float64()

	results := make([]counts, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		share := trials / workers
		if w < trials%workers {
			share++
		}
		g.Go(func() error {
			home, err := domain.NewCompetitor(a.Name, a.Values())
			if err != nil {
				return err
			}
			away, err := domain.NewCompetitor(b.Name, b.Values())
			if err != nil {
				return err
			}
			resolver := match.NewResolver(games, domain.DefaultScoring, rand.New(rand.NewSource(seed+int64(w))))

			var c counts
			for i := 0; i < share; i++ {
				if i%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				switch resolver.Resolve(home, away).Outcome() {
				case odds.AWins:
					c.home++
				case odds.BWins:
					c.away++
				default:
					c.tie++
				}
			}
			results[w] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("failed to run calibration: %w", err)
	}

	for _, c := range results {
		report.HomeWins += c.home
		report.Ties += c.tie
		report.AwayWins += c.away
	}
	return report, nil
}
