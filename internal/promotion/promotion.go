// Package promotion exchanges competitors between adjacent divisions once
// every division has a final ranking.
package promotion

import (
	"fmt"

	"dice-league/internal/domain"
	"dice-league/internal/league"
)

type Plan struct {
	// Spots[i] competitors move between divisions i and i+1 in each direction.
	Spots []int
	// Replacement is how many of the bottom division's last places are
	// discarded and replaced with fresh competitors.
	Replacement int
}

// Generator builds a fresh competitor for the given division.
type Generator func(d *league.Division) (*domain.Competitor, error)

type Result struct {
	Promoted  [][]*domain.Competitor // Promoted[i] moved from division i+1 to i
	Relegated [][]*domain.Competitor // Relegated[i] moved from division i to i+1
	Discarded []*domain.Competitor
	Fresh     []*domain.Competitor
}

func (p Plan) Validate(divisions []*league.Division) error {
	names := make([]string, len(divisions))
	sizes := make([]int, len(divisions))
	for i, d := range divisions {
		names[i], sizes[i] = d.Name, d.Size()
	}
	return p.ValidateSizes(names, sizes)
}

// ValidateSizes checks the plan against divisions of the given sizes, top
// division first.
func (p Plan) ValidateSizes(names []string, sizes []int) error {
	if len(sizes) == 0 {
		return nil
	}
	if len(p.Spots) != len(sizes)-1 {
		return fmt.Errorf("%w: %d promotion boundaries for %d divisions", domain.ErrPromotionSizeMismatch, len(p.Spots), len(sizes))
	}
	for i, size := range sizes {
		up, down := p.outgoing(i, len(sizes))
		if up < 0 || down < 0 {
			return fmt.Errorf("%w: negative exchange count in division %q", domain.ErrPromotionSizeMismatch, names[i])
		}
		if up >= size || down >= size || up+down > size {
			return fmt.Errorf("%w: division %q of size %d cannot move %d up and %d down",
				domain.ErrPromotionSizeMismatch, names[i], size, up, down)
		}
	}
	return nil
}

// outgoing returns how many leave division i upward and downward.
func (p Plan) outgoing(i, count int) (up, down int) {
	if i > 0 {
		up = p.Spots[i-1]
	}
	if i < count-1 {
		down = p.Spots[i]
	} else {
		down = p.Replacement
	}
	return up, down
}

// Apply rewrites every division's membership from its current ranking.
// Nothing is changed when validation or generation fails.
func Apply(divisions []*league.Division, plan Plan, generate Generator) (Result, error) {
	if err := plan.Validate(divisions); err != nil {
		return Result{}, err
	}
	if len(divisions) == 0 {
		return Result{}, nil
	}
	last := len(divisions) - 1

	var res Result
	for i := 0; i < plan.Replacement; i++ {
		c, err := generate(divisions[last])
		if err != nil {
			return Result{}, fmt.Errorf("failed to generate replacement: %w", err)
		}
		res.Fresh = append(res.Fresh, c)
	}

	ranked := make([][]*domain.Competitor, len(divisions))
	for i, d := range divisions {
		ranked[i] = append([]*domain.Competitor(nil), d.Competitors...)
	}

	for i := 0; i < last; i++ {
		upper, lower := ranked[i], ranked[i+1]
		k := plan.Spots[i]
		res.Relegated = append(res.Relegated, upper[len(upper)-k:])
		res.Promoted = append(res.Promoted, lower[:k])
	}
	bottom := ranked[last]
	res.Discarded = append(res.Discarded, bottom[len(bottom)-plan.Replacement:]...)

	for i, d := range divisions {
		up, down := plan.outgoing(i, len(divisions))
		own := ranked[i]

		members := make([]*domain.Competitor, 0, len(own))
		if i > 0 {
			members = append(members, res.Relegated[i-1]...)
		}
		members = append(members, own[up:len(own)-down]...)
		if i < last {
			members = append(members, res.Promoted[i]...)
		} else {
			members = append(members, res.Fresh...)
		}
		d.Competitors = members
	}
	return res, nil
}
