package config

import "time"

// Defaults for the throttle and connection settings. The delay and ceiling
// mirror the rate limits of the monitoring host: a fixed pause between file
// fetches and a hard cap on files per run.
const (
	DefaultDelay          = 1500 * time.Millisecond
	DefaultMaxFiles       = 5000
	DefaultConnectTimeout = 90 * time.Second
)

// Config represents the complete .optiqa.yaml configuration file.
type Config struct {
	// Host is the monitoring host to connect to (hostname, user@host, or
	// SSH config alias).
	Host string `yaml:"host" mapstructure:"host"`

	// User is the SSH username. Optional when Host carries user@host or an
	// SSH config alias resolves one.
	User string `yaml:"user" mapstructure:"user"`

	// DataDir is the remote directory holding the snapshot files.
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	// ConnectTimeout bounds the SSH dial and handshake.
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`

	// Throttle controls the per-file delay and the file ceiling.
	Throttle ThrottleConfig `yaml:"throttle" mapstructure:"throttle"`
}

// ThrottleConfig controls request pacing against the monitoring host.
type ThrottleConfig struct {
	// Delay is the fixed pause before each file fetch.
	Delay time.Duration `yaml:"delay" mapstructure:"delay"`

	// MaxFiles caps how many files one run will fetch. Zero means the default.
	MaxFiles int `yaml:"max_files" mapstructure:"max_files"`
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() *Config {
	return &Config{
		ConnectTimeout: DefaultConnectTimeout,
		Throttle: ThrottleConfig{
			Delay:    DefaultDelay,
			MaxFiles: DefaultMaxFiles,
		},
	}
}
