package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/config"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/dedup"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/extract"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/geo"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/logger"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/metrics"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/parser"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/visited"
	"github.com/spf13/viper"
)

// NewCommandDeps loads config, applies flag and environment overrides bound
// through viper, and creates the logger.
func NewCommandDeps() (CommandDeps, error) {
	path := viper.GetString("config")
	if path == "" {
		path = viper.ConfigFileUsed()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return CommandDeps{}, fmt.Errorf("load config: %w", err)
	}

	if lvl := strings.ToLower(viper.GetString("logger.level")); lvl != "" {
		cfg.Logger.Level = lvl
	}
	if format := viper.GetString("logger.format"); format != "" {
		cfg.Logger.Format = format
	}
	if viper.GetBool("app.debug") {
		cfg.App.Debug = true
		cfg.Logger.Level = string(logger.DebugLevel)
	}

	log, err := logger.New(&logger.Config{
		Level:       logger.Level(cfg.Logger.Level),
		Development: cfg.App.Debug,
		Encoding:    cfg.Logger.Format,
		OutputPaths: cfg.Logger.OutputPaths,
	})
	if err != nil {
		return CommandDeps{}, fmt.Errorf("create logger: %w", err)
	}

	deps := CommandDeps{
		Logger:  log,
		Config:  cfg,
		Metrics: metrics.NewMetrics(),
	}
	if validateErr := deps.Validate(); validateErr != nil {
		return CommandDeps{}, fmt.Errorf("validate deps: %w", validateErr)
	}
	return deps, nil
}

// NewResolver loads the gazetteer file when configured, else the built-in
// table.
func NewResolver(cfg *config.Config) (*geo.Resolver, error) {
	table := geo.DefaultTable()
	if cfg.Geo.GazetteerFile != "" {
		loaded, err := geo.LoadTable(cfg.Geo.GazetteerFile)
		if err != nil {
			return nil, err
		}
		table = loaded
	}
	return geo.NewResolver(table, cfg.Geo.TargetRegions)
}

// NewParser builds a parser for one entity kind and origin tag.
func NewParser(cfg *config.Config, resolver *geo.Resolver, kind lead.Kind, origin string, log logger.Interface) (*parser.Parser, error) {
	profile, err := extract.ParseProfile(cfg.Extract.PhoneProfile)
	if err != nil {
		return nil, err
	}
	return parser.New(parser.Config{
		Kind:             kind,
		Origin:           origin,
		PhoneProfile:     profile,
		IgnoredHosts:     cfg.Extract.IgnoredHosts,
		Boilerplate:      cfg.Extract.Boilerplate,
		DescriptionLimit: cfg.Extract.DescriptionLimit,
	}, resolver, log)
}

// NewEngine builds the dedupe engine used for every dataset.
func NewEngine(resolver *geo.Resolver, log logger.Interface) *dedup.Engine {
	return dedup.NewEngine(dedup.WithCityCanonicalizer(resolver), dedup.WithLogger(log))
}

// NewVisitedStore picks Redis when an address is configured, then the
// visited file, then process memory.
func NewVisitedStore(ctx context.Context, cfg *config.Config, log logger.Interface) (visited.Store, error) {
	switch {
	case cfg.Redis.Address != "":
		client, err := visited.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Info("Using Redis visited store", "address", cfg.Redis.Address, "ttl", cfg.Redis.TTL)
		return visited.NewRedisStore(client, cfg.Redis.TTL, log), nil
	case cfg.Walker.VisitedFile != "":
		log.Info("Using file visited store", "path", cfg.Walker.VisitedFile)
		return visited.OpenFileStore(cfg.Walker.VisitedFile)
	default:
		return visited.NewMemoryStore(), nil
	}
}

// defaultOrigins are the dataset tags used when --origin is not given.
var defaultOrigins = map[lead.Kind]string{
	lead.Brand:            "brands",
	lead.Showroom:         "showrooms",
	lead.DesignerShowroom: "designer_showrooms",
	lead.PressOffice:      "press_offices",
	lead.Tradeshow:        "tradeshows",
	lead.Exhibitor:        "exhibitors",
	lead.FashionWeekEvent: "fashion_weeks",
}

// ParseKindOrigin resolves the --kind flag and defaults the origin tag.
func ParseKindOrigin(kindFlag, originFlag string) (lead.Kind, string, error) {
	kind, err := lead.ParseKind(kindFlag)
	if err != nil {
		return 0, "", err
	}
	origin := strings.TrimSpace(originFlag)
	if origin == "" {
		origin = defaultOrigins[kind]
	}
	return kind, origin, nil
}

// FinishRun writes the metrics textfile when one is configured.
func FinishRun(deps CommandDeps) {
	path := deps.Config.Metrics.Textfile
	if path == "" {
		return
	}
	if err := deps.Metrics.WriteTextfile(path); err != nil {
		deps.Logger.Warn("Could not write metrics textfile", "path", path, "error", err)
	}
}
