// Package config loads HDX-SFX settings from defaults, an optional YAML file
// and HDX_SFX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hdxsfx/internal/source"
	"hdxsfx/pkg/sfx"
	"hdxsfx/pkg/spec"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. HDX_SFX_BASE_PATH.
const EnvPrefix = "HDX_SFX"

// Config holds all runtime options.
type Config struct {
	BasePath    string        `mapstructure:"base_path"`
	Source      string        `mapstructure:"source"` // dir, http or bank
	BankPath    string        `mapstructure:"bank_path"`
	Passphrase  string        `mapstructure:"passphrase"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	SampleRate  int           `mapstructure:"sample_rate"`
	BufferMs    int           `mapstructure:"buffer_ms"`
	Socket      string        `mapstructure:"socket"`
	Locale      string        `mapstructure:"locale"`
	Manifest    string        `mapstructure:"manifest"`
	LogLevel    string        `mapstructure:"log_level"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Source:      string(source.KindDir),
		HTTPTimeout: 10 * time.Second,
		SampleRate:  spec.SampleRate,
		BufferMs:    spec.BufferMs,
		Socket:      spec.DefaultSocket,
		Locale:      "en",
		LogLevel:    "info",
	}
}

// SetDefaults registers Defaults on v so env overrides resolve.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("base_path", d.BasePath)
	v.SetDefault("source", d.Source)
	v.SetDefault("bank_path", d.BankPath)
	v.SetDefault("passphrase", d.Passphrase)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("http_timeout", d.HTTPTimeout)
	v.SetDefault("sample_rate", d.SampleRate)
	v.SetDefault("buffer_ms", d.BufferMs)
	v.SetDefault("socket", d.Socket)
	v.SetDefault("locale", d.Locale)
	v.SetDefault("manifest", d.Manifest)
	v.SetDefault("log_level", d.LogLevel)
}

// New returns a viper instance with defaults and env binding. file may be
// empty.
func New(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if file != "" {
		v.SetConfigFile(file)
	}
	return v
}

// Load reads the config file when one is set and decodes v.
func Load(v *viper.Viper) (Config, error) {
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and combinations.
func (c Config) Validate() error {
	var errs []error
	switch source.Kind(c.Source) {
	case source.KindDir, source.KindHTTP:
	case source.KindBank:
		if c.BankPath == "" {
			errs = append(errs, errors.New("bank_path is required when source is bank"))
		}
	default:
		errs = append(errs, fmt.Errorf("source %q: want dir, http or bank", c.Source))
	}
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample_rate %d must be positive", c.SampleRate))
	}
	if c.BufferMs <= 0 {
		errs = append(errs, fmt.Errorf("buffer_ms %d must be positive", c.BufferMs))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("cache_ttl %s must not be negative", c.CacheTTL))
	}
	if _, ok := sfx.LocaleByName(c.Locale); !ok {
		errs = append(errs, fmt.Errorf("locale %q: want en or tr", c.Locale))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// SourceOptions maps the config onto a source stack.
func (c Config) SourceOptions() source.Options {
	return source.Options{
		Kind:       source.Kind(c.Source),
		BasePath:   c.BasePath,
		BankPath:   c.BankPath,
		Passphrase: c.Passphrase,
		CacheTTL:   c.CacheTTL,
		Timeout:    c.HTTPTimeout,
	}
}

// LocaleValue returns the selected locale, English when unknown.
func (c Config) LocaleValue() sfx.Locale {
	l, ok := sfx.LocaleByName(c.Locale)
	if !ok {
		return sfx.English
	}
	return l
}
