package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the complete integration configuration
type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	VTEX      VTEXConfig      `toml:"vtex"`
	SFTP      SFTPConfig      `toml:"sftp"`
	Archive   ArchiveConfig   `toml:"archive"`
	RunLock   RunLockConfig   `toml:"run_lock"`
	Scheduler SchedulerConfig `toml:"scheduler"`
}

// DatabaseConfig contains the Postgres connection settings
type DatabaseConfig struct {
	URL string `toml:"url"`
}

// VTEXConfig contains API endpoints and credentials for the order source
type VTEXConfig struct {
	ListEndpoint   string `toml:"list_endpoint"`
	OrderEndpoint  string `toml:"order_endpoint"`
	AppKey         string `toml:"app_key"`
	AppToken       string `toml:"app_token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// SFTPConfig contains the remote file store session settings
type SFTPConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	TargetDir string `toml:"target_dir"`
}

// ArchiveConfig contains the optional S3 export archive settings
type ArchiveConfig struct {
	Enabled   bool   `toml:"enabled"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Bucket    string `toml:"bucket"`
}

// RunLockConfig contains the optional Redis run-lock settings
type RunLockConfig struct {
	Enabled      bool   `toml:"enabled"`
	RedisAddr    string `toml:"redis_addr"`
	RedisPass    string `toml:"redis_password"`
	RedisDB      int    `toml:"redis_db"`
	LeaseMinutes int    `toml:"lease_minutes"`
}

// SchedulerConfig controls daemon mode: built-in interval scheduling plus
// the health endpoints. When disabled the process runs the sync once and exits.
type SchedulerConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalMinutes int  `toml:"interval_minutes"`
	Port            int  `toml:"port"`
}

// Load reads configuration from a TOML file and applies environment
// overrides for credentials so secrets can stay out of the file.
func Load(filename string) (*Config, error) {
	config := &Config{}
	if filename != "" {
		if _, err := toml.DecodeFile(filename, config); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}
	config.applyEnv()
	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("VTEX_APP_KEY"); v != "" {
		c.VTEX.AppKey = v
	}
	if v := os.Getenv("VTEX_APP_TOKEN"); v != "" {
		c.VTEX.AppToken = v
	}
	if v := os.Getenv("SFTP_PASSWORD"); v != "" {
		c.SFTP.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.RunLock.RedisPass = v
	}
	if v := os.Getenv("ARCHIVE_SECRET_KEY"); v != "" {
		c.Archive.SecretKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.VTEX.TimeoutSeconds == 0 {
		c.VTEX.TimeoutSeconds = 30
	}
	if c.SFTP.Port == 0 {
		c.SFTP.Port = 22
	}
	if c.SFTP.TargetDir == "" {
		c.SFTP.TargetDir = "ag-pruebas"
	}
	if c.RunLock.LeaseMinutes == 0 {
		c.RunLock.LeaseMinutes = 15
	}
	if c.Scheduler.IntervalMinutes == 0 {
		c.Scheduler.IntervalMinutes = 60
	}
	if c.Scheduler.Port == 0 {
		c.Scheduler.Port = 8080
	}
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url (or DATABASE_URL) is required")
	}
	if c.VTEX.ListEndpoint == "" {
		return fmt.Errorf("vtex.list_endpoint is required")
	}
	if c.VTEX.OrderEndpoint == "" {
		return fmt.Errorf("vtex.order_endpoint is required")
	}
	if c.VTEX.AppKey == "" || c.VTEX.AppToken == "" {
		return fmt.Errorf("vtex credentials are required (vtex.app_key/app_token or VTEX_APP_KEY/VTEX_APP_TOKEN)")
	}
	if c.SFTP.Host == "" || c.SFTP.Username == "" {
		return fmt.Errorf("sftp.host and sftp.username are required")
	}
	if c.Archive.Enabled && (c.Archive.Endpoint == "" || c.Archive.Bucket == "") {
		return fmt.Errorf("archive.endpoint and archive.bucket are required when the archive is enabled")
	}
	if c.RunLock.Enabled && c.RunLock.RedisAddr == "" {
		return fmt.Errorf("run_lock.redis_addr is required when the run lock is enabled")
	}
	return nil
}

// Timeout returns the HTTP client timeout for VTEX calls.
func (c *VTEXConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Lease returns the run-lock lease duration.
func (c *RunLockConfig) Lease() time.Duration {
	return time.Duration(c.LeaseMinutes) * time.Minute
}

// Interval returns the daemon-mode sync interval.
func (c *SchedulerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}
