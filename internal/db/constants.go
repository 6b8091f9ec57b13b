package db

// Table names shared by schema creation and queries.
const (
	tableStationStatistics = "station_statistics"
	tableRuns              = "runs"
	tableSummary           = "summary"
)

// Keys stored in the summary table.
const (
	SummaryKeyOrigin     = "origin_station"
	SummaryKeyDepartures = "departures"
	SummaryKeyFiles      = "files_processed"
)

// sqlTimeFormat matches SQLite's own datetime() output.
const sqlTimeFormat = "2006-01-02 15:04:05"

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 1
