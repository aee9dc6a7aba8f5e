package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds settings for the sqlite storage backend
type SQLiteConfig struct {
	Path          string        `json:"path" mapstructure:"path"`
	FlushInterval time.Duration `json:"flushInterval" mapstructure:"flushInterval"`
}

// StorageConfig selects and configures the match recording backend
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// DBConfig holds postgres connection settings
type DBConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// InfluxConfig holds telemetry settings
type InfluxConfig struct {
	Enabled   bool
	URL       string
	Token     string
	Org       string
	Bucket    string
	BackupDir string
}

// EngineConfig holds client-side decision settings the server does not send
type EngineConfig struct {
	Seed      uint64
	HealthyHP int
}

// ClientConfig holds game server connection settings
type ClientConfig struct {
	ServerURL        string
	TeamName         string
	KeepPlaying      bool
	HandshakeTimeout time.Duration
}

// MonitorConfig holds status file settings
type MonitorConfig struct {
	Enabled    bool
	StatusFile string
	Interval   time.Duration
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("teamName", "Serenity")

	viper.SetDefault("server.url", "ws://localhost:3000")
	viper.SetDefault("server.keepPlaying", false)
	viper.SetDefault("server.handshakeTimeout", "10s")

	viper.SetDefault("engine.seed", 0)
	viper.SetDefault("engine.healthyHp", 2)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./recordings")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "./recordings/serenity.db")
	viper.SetDefault("storage.sqlite.flushInterval", "5s")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "serenity")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.url", "http://localhost:8086")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "serenity")
	viper.SetDefault("influx.bucket", "rounds")
	viper.SetDefault("influx.backupDir", "./recordings")

	viper.SetDefault("monitor.enabled", true)
	viper.SetDefault("monitor.statusFile", "./logs/status.json")
	viper.SetDefault("monitor.interval", "1s")

	viper.SetConfigName("serenity.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the storage backend configuration.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:          viper.GetString("storage.sqlite.path"),
			FlushInterval: viper.GetDuration("storage.sqlite.flushInterval"),
		},
	}
}

// GetDBConfig returns the postgres connection settings.
func GetDBConfig() DBConfig {
	return DBConfig{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: viper.GetString("db.password"),
		Database: viper.GetString("db.database"),
	}
}

// GetInfluxConfig returns the telemetry configuration.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:   viper.GetBool("influx.enabled"),
		URL:       viper.GetString("influx.url"),
		Token:     viper.GetString("influx.token"),
		Org:       viper.GetString("influx.org"),
		Bucket:    viper.GetString("influx.bucket"),
		BackupDir: viper.GetString("influx.backupDir"),
	}
}

// GetEngineConfig returns the decision engine settings.
func GetEngineConfig() EngineConfig {
	return EngineConfig{
		Seed:      viper.GetUint64("engine.seed"),
		HealthyHP: viper.GetInt("engine.healthyHp"),
	}
}

// GetClientConfig returns the game server connection settings.
func GetClientConfig() ClientConfig {
	return ClientConfig{
		ServerURL:        viper.GetString("server.url"),
		TeamName:         viper.GetString("teamName"),
		KeepPlaying:      viper.GetBool("server.keepPlaying"),
		HandshakeTimeout: viper.GetDuration("server.handshakeTimeout"),
	}
}

// GetMonitorConfig returns the status monitor settings.
func GetMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Enabled:    viper.GetBool("monitor.enabled"),
		StatusFile: viper.GetString("monitor.statusFile"),
		Interval:   viper.GetDuration("monitor.interval"),
	}
}
