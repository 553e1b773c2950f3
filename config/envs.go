package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. MAZE_ROWS.
const EnvPrefix = "MAZE"

// Config holds the application's configuration values.
type Config struct {
	Rows               int     `mapstructure:"rows"`                 // Maze rows
	Cols               int     `mapstructure:"cols"`                 // Maze columns
	Seed               int64   `mapstructure:"seed"`                 // Maze seed, 0 picks one from the clock
	Rollouts           int     `mapstructure:"rollouts"`             // Rollouts before every move
	MaxMoves           int     `mapstructure:"max_moves"`            // Moves allowed per run, 0 means rows*cols
	ExplorationWeight  float64 `mapstructure:"exploration_weight"`   // UCT exploration constant
	MaxSimulationSteps int     `mapstructure:"max_simulation_steps"` // Bound on one random simulation
	HostIP             string  `mapstructure:"host_ip"`              // Host IP for the server
	RESTPort           int     `mapstructure:"rest_port"`            // Port for the REST API
	GinMode            string  `mapstructure:"gin_mode"`             // Mode for the Gin framework (e.g., release, debug, test)
	DBHost             string  `mapstructure:"db_host"`              // Hostname or IP address for the database
	DBPort             int     `mapstructure:"db_port"`              // Port number for the database
	DBUser             string  `mapstructure:"db_user"`              // Username for the database
	DBPassword         string  `mapstructure:"db_pass"`              // Password for the database
	DBName             string  `mapstructure:"db_name"`              // Name of the database
	RedisAddr          string  `mapstructure:"redis_addr"`           // host:port of the leaderboard Redis
	RedisPassword      string  `mapstructure:"redis_pass"`           // Password for Redis
	LeaderboardSize    int64   `mapstructure:"leaderboard_size"`     // Runs kept per maze size
	LogLevel           string  `mapstructure:"log_level"`            // debug, info, warn or error
	LogFile            string  `mapstructure:"log_file"`             // Rotated JSON log file, empty disables it
	TelemetryExporter  string  `mapstructure:"telemetry_exporter"`   // none or stdout
}

var defaults = map[string]any{
	"rows":                 10,
	"cols":                 10,
	"seed":                 0,
	"rollouts":             50,
	"max_moves":            0,
	"exploration_weight":   1.0,
	"max_simulation_steps": 10_000,
	"host_ip":              "0.0.0.0",
	"rest_port":            8080,
	"gin_mode":             "release",
	"db_host":              "localhost",
	"db_port":              27017,
	"db_user":              "",
	"db_pass":              "",
	"db_name":              "pathfinder",
	"redis_addr":           "localhost:6379",
	"redis_pass":           "",
	"leaderboard_size":     100,
	"log_level":            "info",
	"log_file":             "",
	"telemetry_exporter":   "none",
}

// Load initializes and returns the application configuration.
// A .env file is loaded first when present, then MAZE_* environment
// variables and any flags bound to v override the defaults.
func Load(v *viper.Viper) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env file: %w", err)
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MongoURI builds the connection string for the run database.
// Credentials are percent-encoded.
func (c Config) MongoURI() string {
	u := url.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
	}
	if c.DBUser != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	}
	return u.String()
}

// RESTAddr is the address the HTTP server listens on.
func (c Config) RESTAddr() string {
	return fmt.Sprintf("%s:%d", c.HostIP, c.RESTPort)
}

func (c Config) validate() error {
	if c.Rollouts <= 0 {
		return fmt.Errorf("rollouts must be positive, got %d", c.Rollouts)
	}
	if c.MaxMoves < 0 {
		return fmt.Errorf("max_moves must not be negative, got %d", c.MaxMoves)
	}
	if c.RESTPort <= 0 || c.RESTPort > 65535 {
		return fmt.Errorf("rest_port out of range: %d", c.RESTPort)
	}
	switch c.TelemetryExporter {
	case "none", "stdout":
	default:
		return fmt.Errorf("telemetry_exporter must be none or stdout, got %q", c.TelemetryExporter)
	}
	return nil
}
