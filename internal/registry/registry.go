// Package registry maps competitor names to competitors for lookup by the
// console and other read-only collaborators.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"dice-league/internal/constants"
	"dice-league/internal/domain"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const maxTypoDistance = 2

type Registry struct {
	byName map[string]*domain.Competitor
}

func New() *Registry {
	return &Registry{byName: make(map[string]*domain.Competitor)}
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *Registry) Register(c *domain.Competitor) error {
	k := key(c.Name)
	if k == "" {
		return fmt.Errorf("%w: empty competitor name", domain.ErrInvalidCompetitorConfiguration)
	}
	if _, ok := r.byName[k]; ok {
		return fmt.Errorf("%w: name %q already registered", domain.ErrInvalidCompetitorConfiguration, c.Name)
	}
	r.byName[k] = c
	return nil
}

func (r *Registry) Unregister(c *domain.Competitor) {
	k := key(c.Name)
	if r.byName[k] == c {
		delete(r.byName, k)
	}
}

func (r *Registry) Contains(name string) bool {
	_, ok := r.byName[key(name)]
	return ok
}

func (r *Registry) Len() int {
	return len(r.byName)
}

// Names returns every registered name in alphabetical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for _, c := range r.byName {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a competitor by case-insensitive name. On a miss the returned
// *domain.NotFoundError carries the closest registered names.
func (r *Registry) Lookup(name string) (*domain.Competitor, error) {
	if c, ok := r.byName[key(name)]; ok {
		return c, nil
	}
	return nil, &domain.NotFoundError{Name: name, Suggestions: r.suggest(name)}
}

func (r *Registry) suggest(name string) []string {
	query := key(name)
	if query == "" {
		return nil
	}
	names := r.Names()

	ranks := fuzzy.RankFindFold(query, names)
	sort.Sort(ranks)

	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if !seen[s] && len(out) < constants.SuggestionLimit {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, rank := range ranks {
		add(rank.Target)
	}
	for _, n := range names {
		if fuzzy.LevenshteinDistance(query, key(n)) <= maxTypoDistance {
			add(n)
		}
	}
	return out
}
