package config

// Environment variable names
const (
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvLogDir          = "LOG_DIR"
	EnvEnvironment     = "ENVIRONMENT"
	EnvVersion         = "VERSION"
	EnvConfigFile      = "CONFIG_FILE"
	EnvDatabaseURL     = "DATABASE_URL"
	EnvDBUser          = "DB_USER"
	EnvDBPassword      = "DB_PASSWORD"
	EnvDBHost          = "DB_HOST"
	EnvDBPort          = "DB_PORT"
	EnvDBName          = "DB_NAME"
	EnvDBMaxConns      = "DB_MAX_CONNS"
	EnvDBMaxIdleTime   = "DB_MAX_CONN_IDLE_TIME"
	EnvDBMaxLifetime   = "DB_MAX_CONN_LIFETIME"
	EnvAoe4APIKey      = "AOE4WORLD_API_KEY"
	EnvStoreRawMatches = "STORE_RAW_MATCHES"
	EnvStoreRawEvents  = "STORE_RAW_EVENTS"
	EnvRunMigrations   = "RUN_MIGRATIONS"
	EnvUpstreamTimeout = "UPSTREAM_TIMEOUT"
	EnvUpstreamRPS     = "UPSTREAM_RPS"
	EnvInboundRPS      = "INBOUND_RPS"
	EnvInboundBurst    = "INBOUND_BURST"
	EnvTrustedProxies  = "TRUSTED_PROXIES"
	EnvHaloAPIURL      = "HALO_API_URL"
	EnvHaloSummaryURL  = "HALO_SUMMARY_URL"
	EnvHaloMetadataURL = "HALO_METADATA_URL"
	EnvAoe4BaseURL     = "AOE4WORLD_BASE_URL"
)

// HW2APIKeyVars are read in order to build the Halo credential pool.
var HW2APIKeyVars = []string{"HW2_API_KEY_1", "HW2_API_KEY_2", "HW2_API_KEY_3"}

// Defaults
const (
	DefaultPort            = 8080
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultEnvironment     = "dev"
	DefaultVersion         = "dev"
	DefaultDBUser          = "postgres"
	DefaultDBPassword      = "postgres"
	DefaultDBHost          = "localhost"
	DefaultDBPort          = "5432"
	DefaultDBName          = "statsgate"
	DefaultDBMaxConns      = 20
	DefaultHaloAPIURL      = "https://www.haloapi.com/stats/hw2"
	DefaultHaloSummaryURL  = "https://s3publicapis.azure-api.net/stats/hw2"
	DefaultHaloMetadataURL = "https://s3publicapis.azure-api.net/metadata/hw2"
	DefaultAoe4BaseURL     = "https://aoe4world.com/api/v0"
	DefaultUpstreamRPS     = 10.0
	DefaultInboundRPS      = 5.0
	DefaultInboundBurst    = 20
)

// configSchemaName identifies the embedded schema for CONFIG_FILE.
const configSchemaName = "config.schema.json"
