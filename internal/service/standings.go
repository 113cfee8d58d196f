package service

import (
	"dice-league/internal/domain"
	"dice-league/internal/league"
)

const (
	MarkPromoted  = "P"
	MarkRelegated = "R"
)

type StandingRow struct {
	Rank       int
	Competitor *domain.Competitor
	Snapshot   domain.SeasonSnapshot
	Mark       string
}

type Table struct {
	Division string
	Level    int
	Season   int
	Rows     []StandingRow
}

// table captures d's final ranking of the given season with promotion marks.
func (s *LeagueService) table(d *league.Division, index, season int) Table {
	up, down := 0, 0
	if index > 0 {
		up = s.plan.Spots[index-1]
	}
	if index < len(s.divisions)-1 {
		down = s.plan.Spots[index]
	} else {
		down = s.plan.Replacement
	}

	t := Table{Division: d.Name, Level: d.Level, Season: season}
	n := d.Size()
	for i, c := range d.Competitors {
		row := StandingRow{Rank: i + 1, Competitor: c}
		if len(c.History) > 0 && c.History[len(c.History)-1].Season == season {
			row.Snapshot = c.History[len(c.History)-1]
		} else {
			row.Snapshot = c.Snapshot(season, d.Name, d.Level, i+1)
		}
		switch {
		case i < up:
			row.Mark = MarkPromoted
		case i >= n-down:
			row.Mark = MarkRelegated
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Standings returns the final tables of the last season played, or the
// current unplayed membership before the first season.
func (s *LeagueService) Standings() []Table {
	if s.season == 0 {
		tables := make([]Table, len(s.divisions))
		for i, d := range s.divisions {
			tables[i] = Table{Division: d.Name, Level: d.Level}
			for j, c := range d.Competitors {
				tables[i].Rows = append(tables[i].Rows, StandingRow{
					Rank:       j + 1,
					Competitor: c,
					Snapshot:   c.Snapshot(0, d.Name, d.Level, j+1),
				})
			}
		}
		return tables
	}
	return append([]Table(nil), s.tables...)
}

// DivisionStandings returns the table of the division matching query by name or level.
func (s *LeagueService) DivisionStandings(query string) (Table, error) {
	d, err := s.FindDivision(query)
	if err != nil {
		return Table{}, err
	}
	for _, t := range s.Standings() {
		if t.Level == d.Level {
			return t, nil
		}
	}
	return Table{}, nil
}
