package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/exam-calendar/internal/exam"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "EXAMCAL"

// Config holds all application configuration.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	Scrape   Scrape `mapstructure:"scrape" yaml:"scrape"`
	Serve    Serve  `mapstructure:"serve" yaml:"serve"`
}

// Scrape configures the upstream widget and the pagination driver.
type Scrape struct {
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url"`
	Calendar   string        `mapstructure:"calendar" yaml:"calendar"`
	StartDate  string        `mapstructure:"start_date" yaml:"start_date"` // YYYYMMDD, inclusive
	EndDate    string        `mapstructure:"end_date" yaml:"end_date"`     // YYYYMMDD, inclusive
	IndexStart int           `mapstructure:"index_start" yaml:"index_start"`
	IndexEnd   int           `mapstructure:"index_end" yaml:"index_end"`
	IndexStep  int           `mapstructure:"index_step" yaml:"index_step"`
	Delay      time.Duration `mapstructure:"delay" yaml:"delay"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Retries    int           `mapstructure:"retries" yaml:"retries"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
	Output     string        `mapstructure:"output" yaml:"output"`
}

// Serve configures the read-only HTTP API.
type Serve struct {
	Listen      string   `mapstructure:"listen" yaml:"listen"`
	DataPath    string   `mapstructure:"data_path" yaml:"data_path"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
	Refresh     string   `mapstructure:"refresh" yaml:"refresh"` // cron spec, empty disables
}

// Defaults returns a Config with the values used when nothing is configured.
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Scrape: Scrape{
			BaseURL:    "https://25livepub.collegenet.com/s.aspx",
			Calendar:   "final-exam-calendar",
			StartDate:  "20251206",
			EndDate:    "20251212",
			IndexStart: 0,
			IndexEnd:   1000,
			IndexStep:  25,
			Delay:      500 * time.Millisecond,
			Timeout:    30 * time.Second,
			Retries:    0,
			UserAgent:  "examcal/1.0 (+github.com/pfrederiksen/exam-calendar)",
			Output:     "data/exams.json",
		},
		Serve: Serve{
			Listen:      "127.0.0.1:5000",
			DataPath:    "data/exams.json",
			CORSOrigins: []string{"http://localhost:3000"},
		},
	}
}

// NewViper returns a viper instance seeded with Defaults and wired to the
// EXAMCAL_ environment.
func NewViper() *viper.Viper {
	v := viper.New()

	d := Defaults()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("scrape.base_url", d.Scrape.BaseURL)
	v.SetDefault("scrape.calendar", d.Scrape.Calendar)
	v.SetDefault("scrape.start_date", d.Scrape.StartDate)
	v.SetDefault("scrape.end_date", d.Scrape.EndDate)
	v.SetDefault("scrape.index_start", d.Scrape.IndexStart)
	v.SetDefault("scrape.index_end", d.Scrape.IndexEnd)
	v.SetDefault("scrape.index_step", d.Scrape.IndexStep)
	v.SetDefault("scrape.delay", d.Scrape.Delay)
	v.SetDefault("scrape.timeout", d.Scrape.Timeout)
	v.SetDefault("scrape.retries", d.Scrape.Retries)
	v.SetDefault("scrape.user_agent", d.Scrape.UserAgent)
	v.SetDefault("scrape.output", d.Scrape.Output)
	v.SetDefault("serve.listen", d.Serve.Listen)
	v.SetDefault("serve.data_path", d.Serve.DataPath)
	v.SetDefault("serve.cors_origins", d.Serve.CORSOrigins)
	v.SetDefault("serve.refresh", d.Serve.Refresh)

	// EXAMCAL_SCRAPE_START_DATE -> scrape.start_date
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file and unmarshals everything v knows
// about into a Config. An explicit path that does not exist is an error; a
// missing file in the default search paths is not.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "examcal"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}

// Validate checks the scrape settings. It is called before any network
// activity so that a bad range never produces a partial snapshot.
func (s Scrape) Validate() error {
	if _, err := s.DateRange(); err != nil {
		return err
	}
	if s.IndexStep <= 0 {
		return fmt.Errorf("scrape.index_step must be positive, got %d", s.IndexStep)
	}
	if s.IndexStart < 0 {
		return fmt.Errorf("scrape.index_start must not be negative, got %d", s.IndexStart)
	}
	if s.IndexEnd < s.IndexStart {
		return fmt.Errorf("scrape.index_end (%d) must be >= scrape.index_start (%d)", s.IndexEnd, s.IndexStart)
	}
	if s.Delay < 0 {
		return fmt.Errorf("scrape.delay must not be negative, got %s", s.Delay)
	}
	if s.Retries < 0 {
		return fmt.Errorf("scrape.retries must not be negative, got %d", s.Retries)
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("scrape.base_url %q is not an absolute URL", s.BaseURL)
	}
	if s.Output == "" {
		return errors.New("scrape.output is required")
	}
	return nil
}

// DateRange parses the configured start and end dates.
func (s Scrape) DateRange() (exam.DateRange, error) {
	return exam.ParseDateRange(s.StartDate, s.EndDate)
}

// Validate checks the API settings.
func (s Serve) Validate() error {
	if s.Listen == "" {
		return errors.New("serve.listen is required")
	}
	if s.DataPath == "" {
		return errors.New("serve.data_path is required")
	}
	return nil
}

// Write serializes cfg as YAML at path, creating parent directories.
func Write(path string, cfg Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
