// Package odds computes exact roll-level and match-level outcome probabilities
// between two competitors from their face sets.
package odds

import (
	"math/big"

	"dice-league/internal/domain"
)

const cells = domain.FaceCount * domain.FaceCount

type Outcome int8

const (
	BWins Outcome = -1
	Tie   Outcome = 0
	AWins Outcome = 1
)

// Matrix holds face i of A against face j of B.
type Matrix [domain.FaceCount][domain.FaceCount]Outcome

func Compare(a, b *domain.Competitor) Matrix {
	var m Matrix
	for i, fa := range a.Faces {
		for j, fb := range b.Faces {
			switch {
			case fa.Value > fb.Value:
				m[i][j] = AWins
			case fa.Value < fb.Value:
				m[i][j] = BWins
			default:
				m[i][j] = Tie
			}
		}
	}
	return m
}

// Counts returns the number of A-win, tie and B-win cells.
func (m Matrix) Counts() (a, tie, b int) {
	for _, row := range m {
		for _, o := range row {
			switch o {
			case AWins:
				a++
			case BWins:
				b++
			default:
				tie++
			}
		}
	}
	return a, tie, b
}

// Percent is a reported three-way split that always sums to 100.
type Percent struct {
	A   int
	Tie int
	B   int
}

// Probabilities is an exact three-way distribution.
type Probabilities struct {
	A   *big.Rat
	Tie *big.Rat
	B   *big.Rat
}

func (m Matrix) Roll() Probabilities {
	a, tie, b := m.Counts()
	return Probabilities{
		A:   big.NewRat(int64(a), cells),
		Tie: big.NewRat(int64(tie), cells),
		B:   big.NewRat(int64(b), cells),
	}
}

// Report rounds A and B to whole percent and gives the tie the remainder.
func (p Probabilities) Report() Percent {
	a := roundPercent(p.A)
	b := roundPercent(p.B)
	return Percent{A: a, Tie: 100 - a - b, B: b}
}

// Match sums the multinomial mass of every (kA, kTie, kB) split of games
// independent rolls into A-win, tie and B-win buckets.
func (p Probabilities) Match(games int) Probabilities {
	out := Probabilities{A: new(big.Rat), Tie: new(big.Rat), B: new(big.Rat)}
	for ka := 0; ka <= games; ka++ {
		for kt := 0; kt <= games-ka; kt++ {
			kb := games - ka - kt

			coef := new(big.Int).Binomial(int64(games), int64(ka))
			coef.Mul(coef, new(big.Int).Binomial(int64(games-ka), int64(kt)))

			mass := new(big.Rat).SetInt(coef)
			mass.Mul(mass, pow(p.A, ka))
			mass.Mul(mass, pow(p.Tie, kt))
			mass.Mul(mass, pow(p.B, kb))

			switch {
			case ka > kb:
				out.A.Add(out.A, mass)
			case ka < kb:
				out.B.Add(out.B, mass)
			default:
				out.Tie.Add(out.Tie, mass)
			}
		}
	}
	return out
}

// Compute returns the reported match odds of a against b over games rolls.
func Compute(a, b *domain.Competitor, games int) Percent {
	return Compare(a, b).Roll().Match(games).Report()
}

// ExpectedTenths is the expected points, in tenths, earned by the side whose
// reported win and tie percentages are given.
func ExpectedTenths(winPct, tiePct int, scoring domain.Scoring) int {
	hundredths := winPct*scoring.Win + tiePct*scoring.Tie
	return (hundredths + 5) / 10
}

func (p Percent) Swap() Percent {
	return Percent{A: p.B, Tie: p.Tie, B: p.A}
}

func pow(r *big.Rat, k int) *big.Rat {
	out := big.NewRat(1, 1)
	for i := 0; i < k; i++ {
		out.Mul(out, r)
	}
	return out
}

// roundPercent rounds r*100 half up. r is never negative.
func roundPercent(r *big.Rat) int {
	scaled := new(big.Rat).Mul(r, big.NewRat(100, 1))
	num := new(big.Int).Mul(scaled.Num(), big.NewInt(2))
	num.Add(num, scaled.Denom())
	den := new(big.Int).Mul(scaled.Denom(), big.NewInt(2))
	return int(num.Quo(num, den).Int64())
}
