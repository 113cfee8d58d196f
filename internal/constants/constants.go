package constants

import "time"

const (
	DefaultGameLength     = 5
	DefaultDupeMatches    = 2
	DefaultPointsPerWin   = 3
	DefaultPointsPerTie   = 1
	DefaultMutationChance = 10
)

// deviation thresholds in points, each one crossed earns a bonus or penalty pip
const (
	DeviationTier1 = 5
	DeviationTier2 = 11
	DeviationTier3 = 18
)

const (
	DefaultReplacementSpots = 4
	DefaultSeasons          = 1
	MaxNameAttempts         = 50
	SuggestionLimit         = 3
)

const (
	CalibrationTrials  = 20000
	CalibrationWorkers = 4
)

const (
	DatabaseTimeout = 5 * time.Second
	ShutdownTimeout = 5 * time.Second
)

const (
	DBMaxOpenConns    = 1
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)
