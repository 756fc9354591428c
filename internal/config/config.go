// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers a YAML file and SCOUTCALC_* environment variables on top.
// - Errors returned by Load wrap this package's sentinel kinds.
package config

// Source kinds for raw scouting records.
const (
	SourceSQLite = "sqlite"
	SourceCSV    = "csv"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Season selects the rubric used for scoring.
	Season string `koanf:"season"`

	// RubricPath points to a YAML rubric set. Empty uses the built-in rubrics.
	RubricPath string `koanf:"rubric_path"`

	// Source selects where raw records are read from: sqlite or csv.
	Source string `koanf:"source"`

	// CSVPath is the exported scouting sheet read when Source is csv.
	CSVPath string `koanf:"csv_path"`

	// WatchCSV triggers a refresh whenever CSVPath changes on disk.
	WatchCSV bool `koanf:"watch_csv"`

	// DBDriver is sqlite or postgres; DBDSN is passed to the driver verbatim.
	DBDriver string `koanf:"db_driver"`
	DBDSN    string `koanf:"db_dsn"`

	// RefreshQueueSize bounds pending refresh requests. Extra requests coalesce.
	RefreshQueueSize int `koanf:"refresh_queue_size"`

	// DedupeSize bounds the submission-id cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// RefreshOnStart runs the pipeline once during startup.
	RefreshOnStart bool `koanf:"refresh_on_start"`

	// PopulationStdDev switches the total-score deviation to the population estimator.
	PopulationStdDev bool `koanf:"population_stddev"`

	// TeamColumn and MatchColumn name the identifier columns of the CSV export.
	TeamColumn  string `koanf:"team_column"`
	MatchColumn string `koanf:"match_column"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		Season:              "2026",
		Source:              SourceSQLite,
		DBDriver:            "sqlite",
		DBDSN:               "file:scouting_data.db?_pragma=busy_timeout(5000)",
		RefreshQueueSize:    1,
		DedupeSize:          50_000,
		MaxLeaderboardLimit: 100,
		RefreshOnStart:      true,
		TeamColumn:          "Team Number",
		MatchColumn:         "Match Number",
	}
}
