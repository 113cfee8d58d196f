// Package schedule builds round-robin fixture lists with the circle method.
//
// Entrants are referred to by index into the caller's ordered slice. Bye is
// the placeholder index an odd-sized field is padded with.
package schedule

const Bye = -1

type Fixture struct {
	Home int
	Away int
}

func (f Fixture) IsBye() bool {
	return f.Home == Bye || f.Away == Bye
}

type Round struct {
	Cycle int
	// Fixtures holds only the playable fixtures, byes are dropped.
	Fixtures []Fixture
	// Resting is the entrant sitting out this round, or Bye when nobody is.
	Resting int
}

// Generate returns cycles full round robins over n entrants. Each cycle has
// n-1 rounds, or n rounds when n is odd.
func Generate(n, cycles int) []Round {
	if n <= 0 || cycles <= 0 {
		return nil
	}

	order := make([]int, n, n+1)
	for i := range order {
		order[i] = i
	}
	if n%2 == 1 {
		order = append(order, Bye)
	}

	var rounds []Round
	for cycle := 0; cycle < cycles; cycle++ {
		rounds = append(rounds, cycleRounds(cycle, order)...)
		order = NextCycleOrder(order)
	}
	return rounds
}

func cycleRounds(cycle int, order []int) []Round {
	size := len(order)
	teams := append([]int(nil), order...)

	rounds := make([]Round, 0, size-1)
	for r := 0; r < size-1; r++ {
		round := Round{Cycle: cycle, Resting: Bye}
		for i := 0; i < size/2; i++ {
			f := Fixture{Home: teams[i], Away: teams[size-1-i]}
			if f.IsBye() {
				round.Resting = f.Home
				if f.Home == Bye {
					round.Resting = f.Away
				}
				continue
			}
			round.Fixtures = append(round.Fixtures, f)
		}
		rounds = append(rounds, round)
		rotate(teams)
	}
	return rounds
}

// rotate keeps position 0 fixed and moves the last entrant to position 1.
func rotate(teams []int) {
	if len(teams) < 3 {
		return
	}
	last := teams[len(teams)-1]
	copy(teams[2:], teams[1:len(teams)-1])
	teams[1] = last
}

// NextCycleOrder is the ordering the following cycle starts from: the
// reverse of the current cycle's starting order. The padding placeholder
// moves with the reversal.
func NextCycleOrder(order []int) []int {
	next := make([]int, len(order))
	for i, v := range order {
		next[len(order)-1-i] = v
	}
	return next
}
