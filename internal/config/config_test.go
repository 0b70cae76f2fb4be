package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
logger:
  level: warn
  format: json
extract:
  phone_profile: uae
  description_limit: 200
geo:
  target_regions: [Europe]
walker:
  delay: 500ms
  retry_attempts: 5
merge:
  sources:
    - tag: brands
      path: data/brands.csv
      kind: brand
  output: out/master.csv
  xlsx_output: out/master.xlsx
redis:
  address: localhost:6379
  ttl: 1h
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "uae", cfg.Extract.PhoneProfile)
	assert.Equal(t, 200, cfg.Extract.DescriptionLimit)
	assert.Equal(t, []string{"Europe"}, cfg.Geo.TargetRegions)
	assert.Equal(t, 500*time.Millisecond, cfg.Walker.Delay)
	assert.Equal(t, 5, cfg.Walker.RetryAttempts)
	assert.Equal(t, config.DefaultRetryDelay, cfg.Walker.RetryDelay)
	assert.Equal(t, config.DefaultMarker, cfg.Walker.Marker)
	require.Len(t, cfg.Merge.Sources, 1)
	assert.Equal(t, "brands", cfg.Merge.Sources[0].Tag)
	assert.Equal(t, "out/master.xlsx", cfg.Merge.XLSXOutput)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultAppName, cfg.App.Name)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logger.Level)
	assert.Equal(t, config.DefaultTargetRegions, cfg.Geo.TargetRegions)
	assert.Equal(t, config.DefaultDescriptionLimit, cfg.Extract.DescriptionLimit)
	assert.Len(t, cfg.Merge.Sources, 2)
	assert.Equal(t, "data/processed/master_leads.csv", cfg.Merge.Output)
	assert.Equal(t, "data/processed/master_leads_enriched.csv", cfg.Enrich.Output)
	assert.False(t, cfg.Enrich.SkipContactPage)
	assert.Empty(t, cfg.Redis.Address)
	assert.Equal(t, config.DefaultVisitedTTL, cfg.Redis.TTL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("TARGET_REGIONS", "Asia, Europe ,")
	t.Setenv("WALKER_DELAY", "3s")
	t.Setenv("MERGE_OUTPUT", "elsewhere.csv")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("ENRICH_SKIP_CONTACT_PAGE", "true")

	cfg, err := config.Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logger.Level)
	assert.Equal(t, []string{"Asia", "Europe"}, cfg.Geo.TargetRegions)
	assert.Equal(t, 3*time.Second, cfg.Walker.Delay)
	assert.Equal(t, "elsewhere.csv", cfg.Merge.Output)
	assert.True(t, cfg.Enrich.SkipContactPage)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoadDebugForcesDebugLevel(t *testing.T) {
	t.Setenv("APP_DEBUG", "yes")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.True(t, cfg.App.Debug)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.Load(writeConfig(t, "logger: [unclosed"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"bad level", func(c *config.Config) { c.Logger.Level = "loud" }, "logger.level"},
		{"bad format", func(c *config.Config) { c.Logger.Format = "xml" }, "logger.format"},
		{"bad profile", func(c *config.Config) { c.Extract.PhoneProfile = "mars" }, "extract.phone_profile"},
		{"bad region", func(c *config.Config) { c.Geo.TargetRegions = []string{"Atlantis"} }, "geo.target_regions"},
		{"negative delay", func(c *config.Config) { c.Walker.Delay = -time.Second }, "walker.delay"},
		{"no workers", func(c *config.Config) { c.Walker.Workers = -1 }, "walker.workers"},
		{"source without path", func(c *config.Config) { c.Merge.Sources[0].Path = "" }, "merge.sources[0].path"},
		{"bad kind", func(c *config.Config) { c.Merge.Sources[0].Kind = "boutique" }, "merge.sources[0].kind"},
		{"duplicate tag", func(c *config.Config) { c.Merge.Sources[1].Tag = c.Merge.Sources[0].Tag }, "merge.sources[1].tag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{}
			cfg.SetDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			var ve *config.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "config.yml", config.ConfigPath("config.yml"))
	t.Setenv("LEADHARVEST_CONFIG", "/etc/leadharvest.yml")
	assert.Equal(t, "/etc/leadharvest.yml", config.ConfigPath("config.yml"))
}
