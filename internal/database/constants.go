package database

// Database Connection Pool Constants
const (
	// DefaultMinConnections is the minimum number of connections to maintain in the pool
	DefaultMinConnections = 2
)

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString  = "failed to parse connection string"
	ErrMsgFailedToCreatePool       = "failed to create connection pool"
	ErrMsgFailedToPingDatabase     = "failed to ping database"
	ErrMsgFailedToSetDialect       = "failed to set migration dialect"
	ErrMsgFailedToApplyMigrations  = "failed to apply migrations"
	ErrMsgFailedToReadMigrationVer = "failed to read migration version"
)

// Log Messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
	LogMsgMigrationsApplied               = "Database migrations applied"
)

// gooseDialect names the goose dialect for pgx-backed PostgreSQL.
const gooseDialect = "postgres"
