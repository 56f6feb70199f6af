package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Elpulgo/pullrefresh/internal/logging"
	"github.com/Elpulgo/pullrefresh/internal/moon"
	"github.com/Elpulgo/pullrefresh/internal/refresh"
	"github.com/Elpulgo/pullrefresh/internal/sysinfo"
	"github.com/Elpulgo/pullrefresh/internal/ui/pullrefresh"
	"github.com/Elpulgo/pullrefresh/internal/ui/styles"
)

// EnvPrefix prefixes environment overrides, e.g. PULLREFRESH_THEME or
// PULLREFRESH_REFRESH_MAX_PULL.
const EnvPrefix = "PULLREFRESH"

// History backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Default configuration values
const (
	DefaultTheme               = "dark"
	DefaultLogLevel            = "info"
	DefaultAutoRefreshInterval = 0 // disabled
	DefaultHistoryLimit        = 50
	DefaultHistoryPrefix       = "pullrefresh"
	DefaultRedisAddr           = "localhost:6379"
)

// Config holds the application configuration
type Config struct {
	Theme               string        `mapstructure:"theme"`
	LogLevel            string        `mapstructure:"log_level"`
	LogFile             string        `mapstructure:"log_file"`
	AutoRefreshInterval time.Duration `mapstructure:"auto_refresh_interval"`
	ProcessCount        int           `mapstructure:"process_count"`
	DiskPath            string        `mapstructure:"disk_path"`
	MetricsAddr         string        `mapstructure:"metrics_addr"`
	History             HistoryConfig `mapstructure:"history"`
	Refresh             RefreshConfig `mapstructure:"refresh"`

	path string
	v    *viper.Viper
}

// HistoryConfig selects where refresh episodes are recorded.
type HistoryConfig struct {
	Backend   string        `mapstructure:"backend"`
	Limit     int           `mapstructure:"limit"`
	Prefix    string        `mapstructure:"prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
	RedisAddr string        `mapstructure:"redis_addr"`
	RedisDB   int           `mapstructure:"redis_db"`
}

// RefreshConfig holds the pull-to-refresh tuning. Distances are in the
// control's abstract units; UnitsPerRow maps them to terminal rows.
type RefreshConfig struct {
	Scrollable       bool          `mapstructure:"scrollable"`
	Easing           bool          `mapstructure:"easing"`
	TriggerThreshold float64       `mapstructure:"trigger_threshold"`
	RevealOffset     float64       `mapstructure:"reveal_offset"`
	MaxPull          float64       `mapstructure:"max_pull"`
	UnitsPerRow      float64       `mapstructure:"units_per_row"`
	WheelIdle        time.Duration `mapstructure:"wheel_idle"`
	PositionDuration time.Duration `mapstructure:"position_duration"`
	CycleDuration    time.Duration `mapstructure:"cycle_duration"`
	RotationDuration time.Duration `mapstructure:"rotation_duration"`
	Palette          []string      `mapstructure:"palette"`
}

// GetPath returns the path to the config file
func GetPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "pullrefresh", "config.yaml"), nil
}

// Load reads the configuration from ~/.config/pullrefresh/config.yaml.
// A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := GetPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from path, falling back to the defaults
// when the file does not exist. Environment variables override both.
func LoadFrom(path string) (*Config, error) {
	// Create a new viper instance to avoid state pollution
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.path = path
	cfg.v = v

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		// The defaults are static and always decode.
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	palette := make([]string, len(moon.DefaultPalette))
	for i, c := range moon.DefaultPalette {
		palette[i] = string(c)
	}

	v.SetDefault("theme", DefaultTheme)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("auto_refresh_interval", time.Duration(DefaultAutoRefreshInterval))
	v.SetDefault("process_count", sysinfo.DefaultProcessCount)
	v.SetDefault("disk_path", sysinfo.DefaultDiskPath)
	v.SetDefault("metrics_addr", "")

	v.SetDefault("history.backend", BackendMemory)
	v.SetDefault("history.limit", DefaultHistoryLimit)
	v.SetDefault("history.prefix", DefaultHistoryPrefix)
	v.SetDefault("history.ttl", 24*time.Hour)
	v.SetDefault("history.redis_addr", DefaultRedisAddr)
	v.SetDefault("history.redis_db", 0)

	v.SetDefault("refresh.scrollable", false)
	v.SetDefault("refresh.easing", false)
	v.SetDefault("refresh.trigger_threshold", refresh.DefaultTriggerThreshold)
	v.SetDefault("refresh.reveal_offset", refresh.DefaultRevealOffset)
	v.SetDefault("refresh.max_pull", refresh.DefaultMaxPull)
	v.SetDefault("refresh.units_per_row", pullrefresh.DefaultUnitsPerRow)
	v.SetDefault("refresh.wheel_idle", pullrefresh.DefaultWheelIdle)
	v.SetDefault("refresh.position_duration", refresh.DefaultPositionDuration)
	v.SetDefault("refresh.cycle_duration", moon.DefaultCycleDuration)
	v.SetDefault("refresh.rotation_duration", moon.DefaultRotationDuration)
	v.SetDefault("refresh.palette", palette)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		secondsToDurationHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// secondsToDurationHook reads bare numbers as seconds, so
// "auto_refresh_interval: 30" and PULLREFRESH_AUTO_REFRESH_INTERVAL=30 both
// mean thirty seconds.
func secondsToDurationHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if to != durationType || from == durationType {
			return data, nil
		}
		switch n := data.(type) {
		case int:
			return time.Duration(n) * time.Second, nil
		case int64:
			return time.Duration(n) * time.Second, nil
		case float64:
			return time.Duration(n * float64(time.Second)), nil
		case string:
			if secs, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return time.Duration(secs * float64(time.Second)), nil
			}
		}
		return data, nil
	}
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if c.Theme == "" {
		return fmt.Errorf("theme cannot be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.AutoRefreshInterval < 0 {
		return fmt.Errorf("auto_refresh_interval must not be negative, got %v", c.AutoRefreshInterval)
	}
	if c.ProcessCount <= 0 {
		return fmt.Errorf("process_count must be greater than 0, got %d", c.ProcessCount)
	}
	switch c.History.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("history.backend must be %q or %q, got %q", BackendMemory, BackendRedis, c.History.Backend)
	}
	if c.History.Limit <= 0 {
		return fmt.Errorf("history.limit must be greater than 0, got %d", c.History.Limit)
	}
	if c.History.Backend == BackendRedis && c.History.RedisAddr == "" {
		return fmt.Errorf("history.redis_addr is required for the redis backend")
	}

	if err := c.PullRefresh(styles.GetDefaultTheme()).Validate(); err != nil {
		return err
	}
	return nil
}

// GetTheme returns the configured theme name.
// Returns the default theme if the theme is empty.
func (c *Config) GetTheme() string {
	if c.Theme == "" {
		return DefaultTheme
	}
	return c.Theme
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Mode returns the refresh mode selected by refresh.scrollable.
func (c *Config) Mode() refresh.Mode {
	if c.Refresh.Scrollable {
		return refresh.ModeScrollable
	}
	return refresh.ModePlain
}

// PullRefresh builds the component configuration. An empty palette falls
// back to the theme's palette.
func (c *Config) PullRefresh(theme styles.Theme) pullrefresh.Config {
	pc := pullrefresh.DefaultConfig()

	pc.Refresh.Mode = c.Mode()
	pc.Refresh.Easing = c.Refresh.Easing
	pc.Refresh.TriggerThreshold = c.Refresh.TriggerThreshold
	pc.Refresh.RevealOffset = c.Refresh.RevealOffset
	pc.Refresh.MaxPull = c.Refresh.MaxPull
	pc.Refresh.PositionDuration = c.Refresh.PositionDuration

	pc.Moon.CycleDuration = c.Refresh.CycleDuration
	pc.Moon.RotationDuration = c.Refresh.RotationDuration
	if len(c.Refresh.Palette) > 0 {
		pc.Moon.Palette = make([]lipgloss.Color, len(c.Refresh.Palette))
		for i, col := range c.Refresh.Palette {
			pc.Moon.Palette[i] = lipgloss.Color(strings.TrimSpace(col))
		}
	} else {
		pc.Moon.Palette = theme.PaletteCopy()
	}
	if n := len(pc.Moon.Palette); n > 0 {
		pc.Moon.Background = pc.Moon.Palette[n-1]
	}

	pc.UnitsPerRow = c.Refresh.UnitsPerRow
	pc.WheelIdle = c.Refresh.WheelIdle
	return pc
}

// Watch reloads the configuration whenever the file changes and passes the
// result to onChange. It returns false when there is no file to watch.
func (c *Config) Watch(onChange func(*Config, error)) bool {
	if c.v == nil || c.path == "" {
		return false
	}
	if _, err := os.Stat(c.path); err != nil {
		return false
	}

	v, path := c.v, c.path
	v.OnConfigChange(func(e fsnotify.Event) {
		next, err := decode(v)
		if err == nil {
			next.path, next.v = path, v
			if verr := next.Validate(); verr != nil {
				next, err = nil, fmt.Errorf("invalid configuration: %w", verr)
			}
		}
		onChange(next, err)
	})
	v.WatchConfig()
	return true
}

// Save writes the configuration back to the file it was loaded from.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.path == "" {
		return fmt.Errorf("config has no file path")
	}
	return writeFile(c.path, c)
}

// UpdateTheme sets the theme and saves the configuration.
func (c *Config) UpdateTheme(name string) error {
	if _, err := styles.GetThemeByName(name); err != nil {
		return err
	}
	c.Theme = name
	return c.Save()
}

// WriteDefault writes the default configuration to path. An existing file
// is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at: %s", path)
		}
	}
	return writeFile(path, Default())
}

func writeFile(path string, c *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c.values())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// values mirrors the mapstructure keys, with durations as strings.
func (c *Config) values() map[string]any {
	palette := make([]string, len(c.Refresh.Palette))
	copy(palette, c.Refresh.Palette)

	return map[string]any{
		"theme":                 c.Theme,
		"log_level":             c.LogLevel,
		"log_file":              c.LogFile,
		"auto_refresh_interval": c.AutoRefreshInterval.String(),
		"process_count":         c.ProcessCount,
		"disk_path":             c.DiskPath,
		"metrics_addr":          c.MetricsAddr,
		"history": map[string]any{
			"backend":    c.History.Backend,
			"limit":      c.History.Limit,
			"prefix":     c.History.Prefix,
			"ttl":        c.History.TTL.String(),
			"redis_addr": c.History.RedisAddr,
			"redis_db":   c.History.RedisDB,
		},
		"refresh": map[string]any{
			"scrollable":        c.Refresh.Scrollable,
			"easing":            c.Refresh.Easing,
			"trigger_threshold": c.Refresh.TriggerThreshold,
			"reveal_offset":     c.Refresh.RevealOffset,
			"max_pull":          c.Refresh.MaxPull,
			"units_per_row":     c.Refresh.UnitsPerRow,
			"wheel_idle":        c.Refresh.WheelIdle.String(),
			"position_duration": c.Refresh.PositionDuration.String(),
			"cycle_duration":    c.Refresh.CycleDuration.String(),
			"rotation_duration": c.Refresh.RotationDuration.String(),
			"palette":           palette,
		},
	}
}
