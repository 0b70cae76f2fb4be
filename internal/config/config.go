package config

import (
	"time"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/visited"
)

// Default values applied by SetDefaults.
const (
	DefaultAppName          = "leadharvest"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "console"
	DefaultPhoneProfile     = "generic"
	DefaultDescriptionLimit = 500
	DefaultMarker           = "Mini Website"
	DefaultDelay            = 2 * time.Second
	DefaultTimeout          = 30 * time.Second
	DefaultRetryAttempts    = 3
	DefaultRetryDelay       = 5 * time.Second
	DefaultWorkers          = 4
	DefaultDataDir          = "data/processed"
	DefaultMasterFile       = "master_leads.csv"
	DefaultEnrichedFile     = "master_leads_enriched.csv"
	DefaultVisitedTTL       = 7 * 24 * time.Hour
)

// DefaultTargetRegions are the markets leads are collected for.
var DefaultTargetRegions = []string{"Asia", "Europe"}

// Config is the complete application configuration.
type Config struct {
	App     AppConfig           `yaml:"app"`
	Logger  LoggerConfig        `yaml:"logger"`
	Extract ExtractConfig       `yaml:"extract"`
	Geo     GeoConfig           `yaml:"geo"`
	Walker  WalkerConfig        `yaml:"walker"`
	Merge   MergeConfig         `yaml:"merge"`
	Enrich  EnrichConfig        `yaml:"enrich"`
	Redis   visited.RedisConfig `yaml:"redis"`
	Metrics MetricsConfig       `yaml:"metrics"`
}

// AppConfig holds application-wide settings.
type AppConfig struct {
	Name  string `yaml:"name"  env:"APP_NAME"`
	Debug bool   `yaml:"debug" env:"APP_DEBUG"`
}

// LoggerConfig selects level and encoding.
type LoggerConfig struct {
	Level       string   `yaml:"level"        env:"LOG_LEVEL"`
	Format      string   `yaml:"format"       env:"LOG_FORMAT"`
	OutputPaths []string `yaml:"output_paths" env:"LOG_OUTPUT_PATHS"`
}

// ExtractConfig tunes the pattern extractors.
type ExtractConfig struct {
	PhoneProfile     string   `yaml:"phone_profile"     env:"PHONE_PROFILE"`
	IgnoredHosts     []string `yaml:"ignored_hosts"     env:"IGNORED_HOSTS"`
	Boilerplate      []string `yaml:"boilerplate"`
	DescriptionLimit int      `yaml:"description_limit" env:"DESCRIPTION_LIMIT"`
}

// GeoConfig selects the gazetteer and the markets to keep.
type GeoConfig struct {
	TargetRegions []string `yaml:"target_regions" env:"TARGET_REGIONS"`
	// GazetteerFile replaces the built-in table when set.
	GazetteerFile string `yaml:"gazetteer_file" env:"GAZETTEER_FILE"`
}

// WalkerConfig configures live page fetching.
type WalkerConfig struct {
	Marker        string        `yaml:"marker"         env:"WALKER_MARKER"`
	UserAgent     string        `yaml:"user_agent"     env:"WALKER_USER_AGENT"`
	Delay         time.Duration `yaml:"delay"          env:"WALKER_DELAY"`
	RandomDelay   time.Duration `yaml:"random_delay"   env:"WALKER_RANDOM_DELAY"`
	Timeout       time.Duration `yaml:"timeout"        env:"WALKER_TIMEOUT"`
	RetryAttempts int           `yaml:"retry_attempts" env:"WALKER_RETRY_ATTEMPTS"`
	RetryDelay    time.Duration `yaml:"retry_delay"    env:"WALKER_RETRY_DELAY"`
	// VisitedFile persists visited pages when no Redis address is set.
	VisitedFile string `yaml:"visited_file" env:"WALKER_VISITED_FILE"`
	Workers     int    `yaml:"workers"      env:"WALKER_WORKERS"`
}

// SourceConfig is one per-source dataset fed to the merge.
type SourceConfig struct {
	Tag  string `yaml:"tag"`
	Path string `yaml:"path"`
	Kind string `yaml:"kind"`
	// PhoneProfile overrides extract.phone_profile for this dataset.
	PhoneProfile string `yaml:"phone_profile"`
}

// MergeConfig configures the master table build.
type MergeConfig struct {
	Sources    []SourceConfig `yaml:"sources"`
	Output     string         `yaml:"output"      env:"MERGE_OUTPUT"`
	XLSXOutput string         `yaml:"xlsx_output" env:"MERGE_XLSX_OUTPUT"`
}

// EnrichConfig configures the website contact pass over the master table.
// Fetching reuses the walker settings.
type EnrichConfig struct {
	Output     string `yaml:"output"      env:"ENRICH_OUTPUT"`
	XLSXOutput string `yaml:"xlsx_output" env:"ENRICH_XLSX_OUTPUT"`
	// SkipContactPage stops at each homepage.
	SkipContactPage bool `yaml:"skip_contact_page" env:"ENRICH_SKIP_CONTACT_PAGE"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" env:"METRICS_TEXTFILE"`
}

// SetDefaults fills every unset field.
func (c *Config) SetDefaults() {
	if c.App.Name == "" {
		c.App.Name = DefaultAppName
	}
	if c.Logger.Level == "" {
		c.Logger.Level = DefaultLogLevel
	}
	if c.App.Debug {
		c.Logger.Level = "debug"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = DefaultLogFormat
	}
	if c.Extract.PhoneProfile == "" {
		c.Extract.PhoneProfile = DefaultPhoneProfile
	}
	if c.Extract.DescriptionLimit <= 0 {
		c.Extract.DescriptionLimit = DefaultDescriptionLimit
	}
	if c.Geo.TargetRegions == nil {
		c.Geo.TargetRegions = append([]string(nil), DefaultTargetRegions...)
	}
	c.Walker.setDefaults()
	c.Merge.setDefaults()
	if c.Enrich.Output == "" {
		c.Enrich.Output = DefaultDataDir + "/" + DefaultEnrichedFile
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = DefaultVisitedTTL
	}
}

func (w *WalkerConfig) setDefaults() {
	if w.Marker == "" {
		w.Marker = DefaultMarker
	}
	if w.Delay == 0 {
		w.Delay = DefaultDelay
	}
	if w.Timeout == 0 {
		w.Timeout = DefaultTimeout
	}
	if w.RetryAttempts == 0 {
		w.RetryAttempts = DefaultRetryAttempts
	}
	if w.RetryDelay == 0 {
		w.RetryDelay = DefaultRetryDelay
	}
	if w.Workers == 0 {
		w.Workers = DefaultWorkers
	}
}

func (m *MergeConfig) setDefaults() {
	if len(m.Sources) == 0 {
		m.Sources = []SourceConfig{
			{Tag: "showrooms", Path: DefaultDataDir + "/showrooms.csv", Kind: "showroom"},
			{Tag: "designer_showrooms", Path: DefaultDataDir + "/designer_showrooms.csv", Kind: "designer showroom"},
		}
	}
	if m.Output == "" {
		m.Output = DefaultDataDir + "/" + DefaultMasterFile
	}
}
