package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"suitability-mcp/internal/scoring"
)

type Transport string

const (
	TransportStdio      Transport = "stdio"
	TransportSSE        Transport = "sse"
	TransportStreamable Transport = "streamable"
)

// Backend names the source of district metrics.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendMySQL    Backend = "mysql"
	BackendSQLite   Backend = "sqlite"
	BackendFile     Backend = "file"
)

type CacheBackend string

const (
	CacheMemory CacheBackend = "memory"
	CacheRedis  CacheBackend = "redis"
)

const appName = "suitability-mcp"

type Config struct {
	Transport             Transport      `mapstructure:"transport"`
	HTTPAddr              string         `mapstructure:"http_addr"`
	HTTPPort              int            `mapstructure:"http_port"`
	HTTPPath              string         `mapstructure:"http_path"`
	MetricsBackend        Backend        `mapstructure:"metrics_backend"`
	MetricsDSN            string         `mapstructure:"metrics_dsn"`
	SnapshotFile          string         `mapstructure:"snapshot_file"`
	DistrictsQuery        string         `mapstructure:"districts_query"`
	ConnectTimeoutSeconds int            `mapstructure:"connect_timeout_seconds"`
	StatementTimeoutMs    int            `mapstructure:"statement_timeout_ms"`
	AppName               string         `mapstructure:"app_name"`
	WindowMonths          int            `mapstructure:"window_months"`
	EnableCaching         bool           `mapstructure:"enable_caching"`
	CacheBackend          CacheBackend   `mapstructure:"cache_backend"`
	CacheTTLSeconds       int            `mapstructure:"cache_ttl_seconds"`
	RedisAddr             string         `mapstructure:"redis_addr"`
	RedisPassword         string         `mapstructure:"redis_password"`
	RedisDB               int            `mapstructure:"redis_db"`
	RateLimitPerMinute    int            `mapstructure:"rate_limit_per_minute"`
	MetricsEnabled        bool           `mapstructure:"metrics_enabled"`
	DebugTrace            bool           `mapstructure:"debug_trace"`
	LogLevel              string         `mapstructure:"log_level"`
	LogFormat             string         `mapstructure:"log_format"`
	MaxResults            int            `mapstructure:"max_results"`
	Scoring               scoring.Params `mapstructure:"scoring"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("transport", string(TransportStdio))
	v.SetDefault("http_addr", "127.0.0.1")
	v.SetDefault("http_port", 8080)
	v.SetDefault("http_path", "/mcp")
	v.SetDefault("metrics_backend", string(BackendPostgres))
	v.SetDefault("metrics_dsn", "")
	v.SetDefault("snapshot_file", "")
	v.SetDefault("districts_query", "")
	v.SetDefault("connect_timeout_seconds", 5)
	v.SetDefault("statement_timeout_ms", 30000)
	v.SetDefault("app_name", appName)
	v.SetDefault("window_months", 12)
	v.SetDefault("enable_caching", true)
	v.SetDefault("cache_backend", string(CacheMemory))
	v.SetDefault("cache_ttl_seconds", 60)
	v.SetDefault("redis_addr", "127.0.0.1:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("rate_limit_per_minute", 60)
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("debug_trace", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("max_results", 100)
	scoringDefaults(v, "scoring", reflect.ValueOf(scoring.DefaultParams()))
}

// scoringDefaults registers every scalar scoring key so that the environment
// can reach it. Map and list tables have no default key and come from the
// config file only.
func scoringDefaults(v *viper.Viper, prefix string, rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		tag := rt.Field(i).Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		key := prefix + "." + tag
		f := rv.Field(i)
		switch f.Kind() {
		case reflect.Struct:
			scoringDefaults(v, key, f)
		case reflect.Map, reflect.Slice:
		default:
			v.SetDefault(key, f.Interface())
		}
	}
}

// scoringTables are the scoring keys that replace their production table
// when set instead of merging into it.
var scoringTables = []struct {
	key   string
	reset func(*scoring.Params)
}{
	{"scoring.competitor_multipliers", func(p *scoring.Params) { p.CompetitorMultipliers = nil }},
	{"scoring.legacy_competitor.districts", func(p *scoring.Params) { p.LegacyCompetitor.Districts = nil }},
	{"scoring.central_districts", func(p *scoring.Params) { p.CentralDistricts = nil }},
	{"scoring.market_share_bands", func(p *scoring.Params) { p.MarketShareBands = nil }},
	{"scoring.segments", func(p *scoring.Params) { p.Segments = nil }},
}

func newViper() *viper.Viper {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix("SUITABILITY_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load layers defaults, environment, config file and command-line flags.
func Load() (Config, error) {
	v := newViper()

	fs := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	var cfgPathFlag string
	fs.StringVarP(&cfgPathFlag, "config", "c", "", "Config file path (yaml|json|toml)")
	fs.String("transport", string(TransportStdio), "Transport: stdio|sse|streamable")
	fs.String("http-addr", "127.0.0.1", "HTTP listen address")
	fs.Int("http-port", 8080, "HTTP listen port")
	fs.String("http-path", "/mcp", "HTTP endpoint path")
	fs.String("metrics-backend", string(BackendPostgres), "Metric source: postgres|mysql|sqlite|file")
	fs.String("metrics-dsn", "", "Metric source DSN")
	fs.String("snapshot-file", "", "JSON snapshot file (file backend)")
	fs.Int("window-months", 12, "Default analysis window in months")
	fs.String("cache-backend", string(CacheMemory), "Snapshot cache: memory|redis")
	fs.Int("cache-ttl-seconds", 60, "Snapshot cache TTL in seconds")
	fs.String("redis-addr", "127.0.0.1:6379", "Redis address")
	fs.Int("rate-limit-per-minute", 60, "Scoring calls per minute (0 disables)")
	fs.Bool("debug-trace", false, "Log every scored district")
	fs.String("log-level", "info", "Log level")
	fs.String("log-format", "console", "Log encoding: console|json")
	fs.Int("max-results", 100, "Maximum ranked districts returned by tools")

	_ = fs.Parse(os.Args[1:])

	cfgPath := cfgPathFlag
	if cfgPath == "" {
		cfgPath = os.Getenv("SUITABILITY_MCP_CONFIG")
	}
	if err := readConfig(v, cfgPath); err != nil {
		return Config{}, err
	}

	// Flags override config. Flag names use dashes, keys use underscores.
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		_ = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})

	if v.GetString("metrics_dsn") == "" {
		if args := fs.Args(); len(args) > 0 && args[0] != "" {
			v.Set("metrics_dsn", args[0])
		}
	}
	return decode(v)
}

// LoadFile layers defaults, environment and an optional config file without
// reading command-line arguments. Overrides are keyed like the config file
// and take precedence over every other layer.
func LoadFile(path string, overrides map[string]any) (Config, error) {
	v := newViper()
	if path == "" {
		path = os.Getenv("SUITABILITY_MCP_CONFIG")
	}
	if err := readConfig(v, path); err != nil {
		return Config{}, err
	}
	for k, val := range overrides {
		v.Set(k, val)
	}
	return decode(v)
}

func readConfig(v *viper.Viper, path string) error {
	if path != "" {
		return readConfigFile(v, path)
	}
	return readDefaultConfig(v)
}

func decode(v *viper.Viper) (Config, error) {
	// Keys missing from the scoring section keep their production values.
	cfg := Config{Scoring: scoring.DefaultParams()}
	for _, t := range scoringTables {
		if v.IsSet(t.key) {
			t.reset(&cfg.Scoring)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	switch cfg.Transport {
	case TransportStdio, TransportSSE, TransportStreamable:
	default:
		return fmt.Errorf("config: transport must be one of [%s,%s,%s]", TransportStdio, TransportSSE, TransportStreamable)
	}
	switch cfg.MetricsBackend {
	case BackendPostgres, BackendMySQL, BackendSQLite:
		if cfg.MetricsDSN == "" {
			return fmt.Errorf("config: metrics_dsn is required for backend %s", cfg.MetricsBackend)
		}
	case BackendFile:
		if cfg.SnapshotFile == "" {
			return errors.New("config: snapshot_file is required for backend file")
		}
	default:
		return fmt.Errorf("config: metrics_backend must be one of [%s,%s,%s,%s]", BackendPostgres, BackendMySQL, BackendSQLite, BackendFile)
	}
	if cfg.CacheBackend != CacheMemory && cfg.CacheBackend != CacheRedis {
		return fmt.Errorf("config: cache_backend must be one of [%s,%s]", CacheMemory, CacheRedis)
	}
	if cfg.EnableCaching && cfg.CacheBackend == CacheRedis && cfg.RedisAddr == "" {
		return errors.New("config: redis_addr is required when cache_backend=redis")
	}
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return errors.New("config: http_port must be in 1..65535")
	}
	if !strings.HasPrefix(cfg.HTTPPath, "/") {
		return errors.New("config: http_path must start with /")
	}
	if cfg.ConnectTimeoutSeconds <= 0 {
		return errors.New("config: connect_timeout_seconds must be > 0")
	}
	if cfg.StatementTimeoutMs <= 0 {
		return errors.New("config: statement_timeout_ms must be > 0")
	}
	if cfg.WindowMonths <= 0 {
		return errors.New("config: window_months must be > 0")
	}
	if cfg.CacheTTLSeconds < 0 {
		return errors.New("config: cache_ttl_seconds must be >= 0")
	}
	if cfg.RateLimitPerMinute < 0 {
		return errors.New("config: rate_limit_per_minute must be >= 0")
	}
	if cfg.MaxResults <= 0 {
		return errors.New("config: max_results must be > 0")
	}
	if err := cfg.Scoring.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func readConfigFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	return nil
}

func readDefaultConfig(v *viper.Viper) error {
	exts := []string{"yaml", "yml", "json", "toml"}
	for _, base := range defaultConfigCandidates() {
		for _, ext := range exts {
			candidate := base + "." + ext
			if _, err := os.Stat(candidate); err == nil {
				return readConfigFile(v, candidate)
			}
		}
	}
	return nil
}

func defaultConfigCandidates() []string {
	var out []string
	if cwd, _ := os.Getwd(); cwd != "" {
		out = append(out,
			filepath.Join(cwd, appName),
			filepath.Join(cwd, "config", appName),
		)
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		if home, _ := os.UserHomeDir(); home != "" {
			xdg = filepath.Join(home, ".config")
		}
	}
	if xdg != "" {
		out = append(out, filepath.Join(xdg, appName, "config"))
	}
	return out
}
