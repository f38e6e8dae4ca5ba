package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/osse101/statsgate/internal/validation"
)

//go:embed schema/config.schema.json
var configSchema []byte

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string
	Environment string
	Version     string

	DatabaseURL       string
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration
	RunMigrations     bool

	HW2APIKeys      []string
	Aoe4APIKey      string
	StoreRawMatches bool
	StoreRawEvents  bool

	HaloAPIURL      string
	HaloSummaryURL  string
	HaloMetadataURL string
	Aoe4BaseURL     string
	UpstreamTimeout time.Duration
	UpstreamRPS     float64

	InboundRPS     float64
	InboundBurst   int
	TrustedProxies []string
}

// fileConfig is the optional YAML file named by CONFIG_FILE. Environment
// variables override anything it sets.
type fileConfig struct {
	Server struct {
		Port           int      `yaml:"port"`
		InboundRPS     float64  `yaml:"inbound_rps"`
		InboundBurst   int      `yaml:"inbound_burst"`
		TrustedProxies []string `yaml:"trusted_proxies"`
	} `yaml:"server"`
	Upstream struct {
		HaloAPIURL      string  `yaml:"halo_api_url"`
		HaloSummaryURL  string  `yaml:"halo_summary_url"`
		HaloMetadataURL string  `yaml:"halo_metadata_url"`
		Aoe4BaseURL     string  `yaml:"aoe4_base_url"`
		Timeout         string  `yaml:"timeout"`
		RPS             float64 `yaml:"rps"`
	} `yaml:"upstream"`
	Storage struct {
		StoreRawMatches *bool `yaml:"store_raw_matches"`
		StoreRawEvents  *bool `yaml:"store_raw_events"`
		RunMigrations   *bool `yaml:"run_migrations"`
	} `yaml:"storage"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Dir    string `yaml:"dir"`
	} `yaml:"log"`
}

// Load loads the configuration from defaults, the optional CONFIG_FILE, and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects settings that would leave the server unable to serve. A
// zero rate limiter admits one request and then fails every wait.
func (c *Config) validate() error {
	if !isPositiveRate(c.UpstreamRPS) {
		return fmt.Errorf("invalid %s value %v: must be a positive number", EnvUpstreamRPS, c.UpstreamRPS)
	}
	if !isPositiveRate(c.InboundRPS) {
		return fmt.Errorf("invalid %s value %v: must be a positive number", EnvInboundRPS, c.InboundRPS)
	}
	return nil
}

func isPositiveRate(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func defaults() *Config {
	return &Config{
		Port:              DefaultPort,
		LogLevel:          DefaultLogLevel,
		LogFormat:         DefaultLogFormat,
		Environment:       DefaultEnvironment,
		Version:           DefaultVersion,
		DBUser:            DefaultDBUser,
		DBPassword:        DefaultDBPassword,
		DBHost:            DefaultDBHost,
		DBPort:            DefaultDBPort,
		DBName:            DefaultDBName,
		DBMaxConns:        DefaultDBMaxConns,
		DBMaxConnIdleTime: 5 * time.Minute,
		DBMaxConnLifetime: 30 * time.Minute,
		RunMigrations:     true,
		HaloAPIURL:        DefaultHaloAPIURL,
		HaloSummaryURL:    DefaultHaloSummaryURL,
		HaloMetadataURL:   DefaultHaloMetadataURL,
		Aoe4BaseURL:       DefaultAoe4BaseURL,
		UpstreamTimeout:   10 * time.Second,
		UpstreamRPS:       DefaultUpstreamRPS,
		InboundRPS:        DefaultInboundRPS,
		InboundBurst:      DefaultInboundBurst,
	}
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Validate the document shape before decoding into typed fields.
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert config file %s: %w", path, err)
	}
	v := validation.NewSchemaValidator()
	if err := v.Register(configSchemaName, configSchema); err != nil {
		return err
	}
	if err := v.ValidateBytes(asJSON, configSchemaName); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if fc.Server.Port != 0 {
		c.Port = fc.Server.Port
	}
	if fc.Server.InboundRPS != 0 {
		c.InboundRPS = fc.Server.InboundRPS
	}
	if fc.Server.InboundBurst != 0 {
		c.InboundBurst = fc.Server.InboundBurst
	}
	if len(fc.Server.TrustedProxies) > 0 {
		c.TrustedProxies = fc.Server.TrustedProxies
	}
	setIfNotEmpty(&c.HaloAPIURL, fc.Upstream.HaloAPIURL)
	setIfNotEmpty(&c.HaloSummaryURL, fc.Upstream.HaloSummaryURL)
	setIfNotEmpty(&c.HaloMetadataURL, fc.Upstream.HaloMetadataURL)
	setIfNotEmpty(&c.Aoe4BaseURL, fc.Upstream.Aoe4BaseURL)
	if fc.Upstream.Timeout != "" {
		d, err := time.ParseDuration(fc.Upstream.Timeout)
		if err != nil {
			return fmt.Errorf("invalid upstream.timeout value: %w", err)
		}
		c.UpstreamTimeout = d
	}
	if fc.Upstream.RPS != 0 {
		c.UpstreamRPS = fc.Upstream.RPS
	}
	if fc.Storage.StoreRawMatches != nil {
		c.StoreRawMatches = *fc.Storage.StoreRawMatches
	}
	if fc.Storage.StoreRawEvents != nil {
		c.StoreRawEvents = *fc.Storage.StoreRawEvents
	}
	if fc.Storage.RunMigrations != nil {
		c.RunMigrations = *fc.Storage.RunMigrations
	}
	setIfNotEmpty(&c.LogLevel, fc.Log.Level)
	setIfNotEmpty(&c.LogFormat, fc.Log.Format)
	setIfNotEmpty(&c.LogDir, fc.Log.Dir)
	return nil
}

func (c *Config) applyEnv() error {
	if portStr, ok := os.LookupEnv(EnvPort); ok {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid PORT value: %w", err)
		}
		c.Port = port
	}

	c.LogLevel = strings.ToLower(getEnv(EnvLogLevel, c.LogLevel))
	c.LogFormat = strings.ToLower(getEnv(EnvLogFormat, c.LogFormat))
	c.LogDir = getEnv(EnvLogDir, c.LogDir)
	c.Environment = getEnv(EnvEnvironment, c.Environment)
	c.Version = getEnv(EnvVersion, c.Version)

	c.DatabaseURL = getEnv(EnvDatabaseURL, c.DatabaseURL)
	c.DBUser = getEnv(EnvDBUser, c.DBUser)
	c.DBPassword = getEnv(EnvDBPassword, c.DBPassword)
	c.DBHost = getEnv(EnvDBHost, c.DBHost)
	c.DBPort = getEnv(EnvDBPort, c.DBPort)
	c.DBName = getEnv(EnvDBName, c.DBName)
	c.DBMaxConns = getEnvAsInt(EnvDBMaxConns, c.DBMaxConns)
	c.DBMaxConnIdleTime = getEnvAsDuration(EnvDBMaxIdleTime, c.DBMaxConnIdleTime)
	c.DBMaxConnLifetime = getEnvAsDuration(EnvDBMaxLifetime, c.DBMaxConnLifetime)
	c.RunMigrations = getEnvAsBool(EnvRunMigrations, c.RunMigrations)

	c.HW2APIKeys = c.HW2APIKeys[:0]
	for _, name := range HW2APIKeyVars {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			c.HW2APIKeys = append(c.HW2APIKeys, key)
		}
	}
	c.Aoe4APIKey = getEnv(EnvAoe4APIKey, c.Aoe4APIKey)
	c.StoreRawMatches = getEnvAsBool(EnvStoreRawMatches, c.StoreRawMatches)
	c.StoreRawEvents = getEnvAsBool(EnvStoreRawEvents, c.StoreRawEvents)

	c.HaloAPIURL = strings.TrimRight(getEnv(EnvHaloAPIURL, c.HaloAPIURL), "/")
	c.HaloSummaryURL = strings.TrimRight(getEnv(EnvHaloSummaryURL, c.HaloSummaryURL), "/")
	c.HaloMetadataURL = strings.TrimRight(getEnv(EnvHaloMetadataURL, c.HaloMetadataURL), "/")
	c.Aoe4BaseURL = strings.TrimRight(getEnv(EnvAoe4BaseURL, c.Aoe4BaseURL), "/")
	c.UpstreamTimeout = getEnvAsDuration(EnvUpstreamTimeout, c.UpstreamTimeout)
	c.UpstreamRPS = getEnvAsFloat(EnvUpstreamRPS, c.UpstreamRPS)

	c.InboundRPS = getEnvAsFloat(EnvInboundRPS, c.InboundRPS)
	c.InboundBurst = getEnvAsInt(EnvInboundBurst, c.InboundBurst)
	if v := os.Getenv(EnvTrustedProxies); v != "" {
		c.TrustedProxies = splitList(v)
	}
	return nil
}

// GetDBConnString returns the PostgreSQL connection string. DATABASE_URL wins
// over the individual DB_* settings.
func (c *Config) GetDBConnString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvAsBool accepts "1" and "true" as enabled, matching the deployment flags.
func getEnvAsBool(key string, defaultValue bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
