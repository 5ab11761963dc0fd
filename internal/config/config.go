// Package config holds the configuration shared by the commitproof CLI and
// the code logging daemon. A config file is optional; values not set in the
// file take defaults and COMMITPROOF_* environment variables win over both.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigFormatVersion is the current version of the configuration file format
const ConfigFormatVersion = "0.1.0"

// Defaults match the file names the proof and code jobs have always used.
const (
	DefaultSigningKeyPath = "student_private.pem"
	DefaultSealingKeyPath = "instructor_public.pem"
	DefaultSeedPath       = "/data/seed.txt"
	DefaultInterval       = "1m"
)

// ProofConfig holds key locations for the proof pipeline.
// OpeningKeyPath (verifier private key) and VerifyingKeyPath (submitter public
// key) are only needed to check a proof. RepoDir defaults to the working directory.
type ProofConfig struct {
	SigningKeyPath   string `toml:"signing_key_path" yaml:"signing_key_path" validate:"required"`
	SealingKeyPath   string `toml:"sealing_key_path" yaml:"sealing_key_path" validate:"required"`
	OpeningKeyPath   string `toml:"opening_key_path" yaml:"opening_key_path"`
	VerifyingKeyPath string `toml:"verifying_key_path" yaml:"verifying_key_path"`
	RepoDir          string `toml:"repo_dir" yaml:"repo_dir"`
}

// CodeConfig holds one-time code settings. An empty LogPath or "-" writes
// code lines to stdout. MetricsAddr is only used by the daemon.
type CodeConfig struct {
	SeedPath    string `toml:"seed_path" yaml:"seed_path" validate:"required"`
	LogPath     string `toml:"log_path" yaml:"log_path"`
	Interval    string `toml:"interval" yaml:"interval"`
	Period      uint   `toml:"period" yaml:"period" validate:"omitempty,min=1,max=3600"`
	Digits      int    `toml:"digits" yaml:"digits" validate:"omitempty,oneof=6 8"`
	Algorithm   string `toml:"algorithm" yaml:"algorithm" validate:"omitempty,oneof=SHA1 SHA256 SHA512"`
	MetricsAddr string `toml:"metrics_addr" yaml:"metrics_addr" validate:"omitempty,hostname_port"`
}

// GetInterval returns the scheduling interval as time.Duration
func (c *CodeConfig) GetInterval() (time.Duration, error) {
	return ParseDuration(c.Interval)
}

// ConfigParam holds all configuration parameters
type ConfigParam struct {
	FormatVersion string      `toml:"format_version" yaml:"format_version"`
	LogLevel      string      `toml:"log_level" yaml:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
	Proof         ProofConfig `toml:"proof" yaml:"proof"`
	Code          CodeConfig  `toml:"code" yaml:"code"`
}

var cfg *ConfigParam

// Config returns the configuration loaded by LoadConfig
func Config() *ConfigParam {
	return cfg
}

// Default returns a configuration with every default applied.
func Default() *ConfigParam {
	c := &ConfigParam{}
	applyDefaults(c)
	return c
}

var v *validator.Validate

func validate() *validator.Validate {
	if v == nil {
		v = validator.New(validator.WithRequiredStructEnabled())
	}
	return v
}

// ParseDuration parses a duration string in the format "<number><unit>" where unit can be:
// - s: seconds
// - m: minutes
// - h: hours
// - d: days
func ParseDuration(input string) (time.Duration, error) {
	if len(input) < 2 {
		return 0, fmt.Errorf("invalid input format")
	}

	unit := input[len(input)-1:]
	valueStr := input[:len(input)-1]
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}

	var duration time.Duration
	switch unit {
	case "s":
		duration = time.Duration(value) * time.Second
	case "m":
		duration = time.Duration(value) * time.Minute
	case "h":
		duration = time.Duration(value) * time.Hour
	case "d":
		duration = time.Duration(value) * 24 * time.Hour
	default:
		return 0, fmt.Errorf("unknown time unit: %s", unit)
	}

	return duration, nil
}

func applyDefaults(c *ConfigParam) {
	if c.FormatVersion == "" {
		c.FormatVersion = ConfigFormatVersion
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Proof.SigningKeyPath == "" {
		c.Proof.SigningKeyPath = DefaultSigningKeyPath
	}
	if c.Proof.SealingKeyPath == "" {
		c.Proof.SealingKeyPath = DefaultSealingKeyPath
	}
	if c.Code.SeedPath == "" {
		c.Code.SeedPath = DefaultSeedPath
	}
	if c.Code.Interval == "" {
		c.Code.Interval = DefaultInterval
	}
	c.Code.Algorithm = strings.ToUpper(strings.ReplaceAll(c.Code.Algorithm, "-", ""))
}

// envOverrides maps environment variables to the field they replace.
func envOverrides(c *ConfigParam) map[string]*string {
	return map[string]*string{
		"COMMITPROOF_LOG_LEVEL":          &c.LogLevel,
		"COMMITPROOF_SIGNING_KEY_PATH":   &c.Proof.SigningKeyPath,
		"COMMITPROOF_SEALING_KEY_PATH":   &c.Proof.SealingKeyPath,
		"COMMITPROOF_OPENING_KEY_PATH":   &c.Proof.OpeningKeyPath,
		"COMMITPROOF_VERIFYING_KEY_PATH": &c.Proof.VerifyingKeyPath,
		"COMMITPROOF_REPO_DIR":           &c.Proof.RepoDir,
		"COMMITPROOF_SEED_PATH":          &c.Code.SeedPath,
		"COMMITPROOF_CODE_LOG_PATH":      &c.Code.LogPath,
		"COMMITPROOF_INTERVAL":           &c.Code.Interval,
		"COMMITPROOF_METRICS_ADDR":       &c.Code.MetricsAddr,
	}
}

func applyEnv(c *ConfigParam) {
	for name, field := range envOverrides(c) {
		if val, ok := os.LookupEnv(name); ok && val != "" {
			*field = val
		}
	}
}

// ValidateConfig fills defaults and checks that all values are usable
func ValidateConfig(c *ConfigParam) error {
	applyDefaults(c)

	if c.FormatVersion != ConfigFormatVersion {
		return fmt.Errorf("unsupported config file format version: %s", c.FormatVersion)
	}
	if err := validate().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := c.Code.GetInterval(); err != nil {
		return fmt.Errorf("invalid code.interval: %v", err)
	}
	return nil
}

// Load reads filename (TOML or YAML by extension), applies a .env file from
// the working directory and COMMITPROOF_* overrides, and validates the result.
// An empty filename yields the defaults plus overrides.
func Load(filename string) (*ConfigParam, error) {
	c := &ConfigParam{}

	if filename != "" {
		content, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(content, c); err != nil {
				return nil, fmt.Errorf("error parsing config file: %v", err)
			}
		default:
			if _, err := toml.Decode(string(content), c); err != nil {
				return nil, fmt.Errorf("error parsing config file: %v", err)
			}
		}
	}

	_ = godotenv.Load() // no error if .env doesn't exist
	applyEnv(c)

	if err := ValidateConfig(c); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadConfig loads configuration from a file into the package-level config
func LoadConfig(filename string) error {
	c, err := Load(filename)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}
