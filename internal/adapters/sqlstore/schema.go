package sqlstore

var schemaSQLite = []string{
	`CREATE TABLE IF NOT EXISTS raw_records (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  submission_id TEXT NOT NULL UNIQUE,
  team INTEGER NOT NULL,
  match_number INTEGER NOT NULL,
  fields_json TEXT NOT NULL,
  created_at INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS scored_records (
  team INTEGER NOT NULL,
  match_number INTEGER NOT NULL,
  team_match INTEGER NOT NULL,
  submission_id TEXT NOT NULL DEFAULT '',
  auto_score REAL NOT NULL,
  teleop_score REAL NOT NULL,
  endgame_score REAL NOT NULL,
  total_score REAL NOT NULL,
  fields_json TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS team_aggregates (
  team INTEGER PRIMARY KEY,
  auto_mean REAL NOT NULL,
  teleop_mean REAL NOT NULL,
  endgame_mean REAL NOT NULL,
  total_mean REAL NOT NULL,
  total_stddev REAL NOT NULL,
  consistency REAL NOT NULL,
  match_count INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS normalized_aggregates (
  team INTEGER PRIMARY KEY,
  auto REAL NOT NULL,
  teleop REAL NOT NULL,
  endgame REAL NOT NULL,
  total REAL NOT NULL,
  total_stddev REAL NOT NULL,
  consistency REAL NOT NULL,
  match_count REAL NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS pipeline_runs (
  id TEXT PRIMARY KEY,
  season TEXT NOT NULL,
  started_at INTEGER NOT NULL,
  finished_at INTEGER NOT NULL,
  records INTEGER NOT NULL,
  teams INTEGER NOT NULL,
  issues INTEGER NOT NULL
)`,
}

var schemaPostgres = []string{
	`CREATE TABLE IF NOT EXISTS raw_records (
  seq BIGSERIAL PRIMARY KEY,
  submission_id TEXT NOT NULL UNIQUE,
  team INTEGER NOT NULL,
  match_number INTEGER NOT NULL,
  fields_json TEXT NOT NULL,
  created_at BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS scored_records (
  team INTEGER NOT NULL,
  match_number INTEGER NOT NULL,
  team_match INTEGER NOT NULL,
  submission_id TEXT NOT NULL DEFAULT '',
  auto_score DOUBLE PRECISION NOT NULL,
  teleop_score DOUBLE PRECISION NOT NULL,
  endgame_score DOUBLE PRECISION NOT NULL,
  total_score DOUBLE PRECISION NOT NULL,
  fields_json TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS team_aggregates (
  team INTEGER PRIMARY KEY,
  auto_mean DOUBLE PRECISION NOT NULL,
  teleop_mean DOUBLE PRECISION NOT NULL,
  endgame_mean DOUBLE PRECISION NOT NULL,
  total_mean DOUBLE PRECISION NOT NULL,
  total_stddev DOUBLE PRECISION NOT NULL,
  consistency DOUBLE PRECISION NOT NULL,
  match_count INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS normalized_aggregates (
  team INTEGER PRIMARY KEY,
  auto DOUBLE PRECISION NOT NULL,
  teleop DOUBLE PRECISION NOT NULL,
  endgame DOUBLE PRECISION NOT NULL,
  total DOUBLE PRECISION NOT NULL,
  total_stddev DOUBLE PRECISION NOT NULL,
  consistency DOUBLE PRECISION NOT NULL,
  match_count DOUBLE PRECISION NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS pipeline_runs (
  id TEXT PRIMARY KEY,
  season TEXT NOT NULL,
  started_at BIGINT NOT NULL,
  finished_at BIGINT NOT NULL,
  records INTEGER NOT NULL,
  teams INTEGER NOT NULL,
  issues INTEGER NOT NULL
)`,
}
