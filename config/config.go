// Package config loads and validates the gateway configuration.
// Precedence (highest to lowest): flags > environment > config files >
// defaults. Configuration is loaded once at startup and treated as
// immutable afterwards; no component reads the environment at call
// time.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	bboyhttp "github.com/bboyyzero/bboyzero-net-site/http"
)

// Config is the root configuration struct for the gateway.
type Config struct {
	Server   ServerConfig        `mapstructure:"server"`
	Admin    AdminConfig         `mapstructure:"admin"`
	Supabase SupabaseConfig      `mapstructure:"supabase"`
	Static   StaticConfig        `mapstructure:"static"`
	CORS     bboyhttp.CORSConfig `mapstructure:"cors"`
	Log      LogConfig           `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int   `mapstructure:"port" validate:"required,min=1,max=65535"`
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" validate:"min=1"`
}

// AdminConfig holds the shared admin secret for privileged operations.
type AdminConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

// SupabaseConfig holds the upstream store connection settings. URL and
// ServiceKey may legitimately be empty: the site then serves static
// files only and every /api request reports missing configuration.
type SupabaseConfig struct {
	URL            string `mapstructure:"url" validate:"omitempty,url"`
	ServiceKey     string `mapstructure:"service_key"`
	Bucket         string `mapstructure:"bucket" validate:"required"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"min=1"`
}

// Configured reports whether the store can be reached in principle.
func (c SupabaseConfig) Configured() bool {
	return c.URL != "" && c.ServiceKey != ""
}

// StaticConfig holds the static asset root.
type StaticConfig struct {
	Root string `mapstructure:"root" validate:"required"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"port":         "server.port",
	"static-root":  "static.root",
	"supabase-url": "supabase.url",
	"bucket":       "supabase.bucket",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.max_body_bytes", bboyhttp.DefaultMaxBodyBytes)

	v.SetDefault("admin.token", "change-this-admin-token")

	v.SetDefault("supabase.bucket", "event-images")
	v.SetDefault("supabase.timeout_seconds", 30)

	v.SetDefault("static.root", "./public")

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("BBOY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// the upstream client joins paths onto the base URL verbatim
	cfg.Supabase.URL = strings.TrimRight(cfg.Supabase.URL, "/")

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
