package db

import "time"

type Run struct {
	ID        string
	Seed      int64
	Divisions int64
	CreatedAt time.Time
}

type Snapshot struct {
	ID             string
	RunID          string
	Season         int64
	Competitor     string
	Division       string
	Level          int64
	Rank           int64
	Faces          string
	Wins           int64
	Ties           int64
	Losses         int64
	SideDiff       int64
	TotalRolled    int64
	ExpectedTenths int64
	Points         int64
}
