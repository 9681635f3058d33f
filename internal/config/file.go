package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML file layout. Every field is optional;
// durations use Go syntax ("30s", "1m").
type fileConfig struct {
	Host         string `yaml:"host"`
	BaseURL      string `yaml:"base_url"`
	Token        string `yaml:"token"`
	InstanceID   string `yaml:"instance_id"`
	RateLimit    *int   `yaml:"rate_limit"`
	PollInterval string `yaml:"poll_interval"`
	HTTPTimeout  string `yaml:"http_timeout"`
	Logging      *bool  `yaml:"logging"`

	Cache struct {
		Enabled       *bool  `yaml:"enabled"`
		TTL           string `yaml:"ttl"`
		MaxEntries    *int   `yaml:"max_entries"`
		SweepInterval string `yaml:"sweep_interval"`
	} `yaml:"cache"`

	Server struct {
		ListenPort      string   `yaml:"listen_port"`
		ShutdownTimeout string   `yaml:"shutdown_timeout"`
		RequestTimeout  string   `yaml:"request_timeout"`
		RatePerMin      *int     `yaml:"rate_per_min"`
		RateBurst       *int     `yaml:"rate_burst"`
		AllowedCIDRs    []string `yaml:"allowed_cidrs"`
		TrustProxy      *bool    `yaml:"trust_proxy"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Pretty *bool  `yaml:"pretty"`
	} `yaml:"log"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		DB       *int   `yaml:"db"`
	} `yaml:"redis"`
}

func loadFile(path string) (*fileConfig, error) {
	f := &fileConfig{}
	if path == "" {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return f, nil
}

func strOr(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func boolOr(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}

func intOr(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

// durationOr parses v, falling back to def when v is empty or invalid.
func durationOr(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}

func sliceOr(v, def []string) []string {
	if len(v) > 0 {
		return v
	}
	return def
}
