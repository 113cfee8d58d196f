package match

import (
	"dice-league/internal/domain"
	"dice-league/internal/odds"
)

type Roll struct {
	HomeFace int // index into Home.Faces
	AwayFace int // index into Away.Faces
	Outcome  odds.Outcome
}

// Result is a resolved but not yet applied match.
type Result struct {
	Home      *domain.Competitor
	Away      *domain.Competitor
	Rolls     []Roll
	HomeScore int
	AwayScore int
	Odds      odds.Percent
}

func (r Result) IsBye() bool {
	return r.Home == nil || r.Away == nil
}

func (r Result) Outcome() odds.Outcome {
	switch {
	case r.HomeScore > r.AwayScore:
		return odds.AWins
	case r.HomeScore < r.AwayScore:
		return odds.BWins
	default:
		return odds.Tie
	}
}

type Resolver struct {
	games   int
	scoring domain.Scoring
	rng     domain.Rand
}

func NewResolver(games int, scoring domain.Scoring, rng domain.Rand) *Resolver {
	return &Resolver{games: games, scoring: scoring, rng: rng}
}

func (r *Resolver) Games() int {
	return r.games
}

// Resolve draws the rolls of one match without touching either competitor.
// Home's face is drawn before Away's on every roll.
func (r *Resolver) Resolve(home, away *domain.Competitor) Result {
	if home == nil || away == nil {
		return Result{Home: home, Away: away}
	}

	res := Result{
		Home:  home,
		Away:  away,
		Rolls: make([]Roll, 0, r.games),
		Odds:  odds.Compute(home, away, r.games),
	}
	for i := 0; i < r.games; i++ {
		roll := Roll{
			HomeFace: r.rng.Intn(domain.FaceCount),
			AwayFace: r.rng.Intn(domain.FaceCount),
		}
		hv, av := home.Faces[roll.HomeFace].Value, away.Faces[roll.AwayFace].Value
		switch {
		case hv > av:
			roll.Outcome = odds.AWins
			res.HomeScore++
		case hv < av:
			roll.Outcome = odds.BWins
			res.AwayScore++
		default:
			roll.Outcome = odds.Tie
		}
		res.Rolls = append(res.Rolls, roll)
	}
	return res
}

// Apply folds the result into both competitors' season records.
// A bye returns nil and changes nothing.
func (r *Resolver) Apply(res Result, season, round int) *domain.Match {
	if res.IsBye() {
		return nil
	}
	home, away := res.Home, res.Away

	for _, roll := range res.Rolls {
		hf, af := &home.Faces[roll.HomeFace], &away.Faces[roll.AwayFace]
		switch roll.Outcome {
		case odds.AWins:
			hf.Wins++
			af.Losses++
		case odds.BWins:
			hf.Losses++
			af.Wins++
		default:
			hf.Ties++
			af.Ties++
		}
	}

	switch res.Outcome() {
	case odds.AWins:
		home.Wins++
		away.Losses++
		home.Points += r.scoring.Win
	case odds.BWins:
		home.Losses++
		away.Wins++
		away.Points += r.scoring.Win
	default:
		home.Ties++
		away.Ties++
		home.Points += r.scoring.Tie
		away.Points += r.scoring.Tie
	}

	home.SideDiff += res.HomeScore - res.AwayScore
	away.SideDiff += res.AwayScore - res.HomeScore
	home.TotalRolled += res.HomeScore
	away.TotalRolled += res.AwayScore

	home.ExpectedTenths += odds.ExpectedTenths(res.Odds.A, res.Odds.Tie, r.scoring)
	away.ExpectedTenths += odds.ExpectedTenths(res.Odds.B, res.Odds.Tie, r.scoring)

	m := &domain.Match{
		Season:     season,
		Round:      round,
		Home:       home,
		Away:       away,
		HomeScore:  res.HomeScore,
		AwayScore:  res.AwayScore,
		HomeWinPct: res.Odds.A,
		TiePct:     res.Odds.Tie,
		AwayWinPct: res.Odds.B,
	}
	home.Matches = append(home.Matches, m)
	away.Matches = append(away.Matches, m)
	return m
}

// Play resolves and applies in one step.
func (r *Resolver) Play(home, away *domain.Competitor, season, round int) (Result, *domain.Match) {
	res := r.Resolve(home, away)
	return res, r.Apply(res, season, round)
}
