package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/itol"
	"github.com/sagarc03/itol/clientcli"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for the itol tool.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Profiles ProfilesConfig `mapstructure:"profiles"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds the iTOL endpoints.
type ServerConfig struct {
	UploadURL   string `mapstructure:"upload_url" validate:"required,url"`
	DownloadURL string `mapstructure:"download_url" validate:"required,url"`
	TreeURL     string `mapstructure:"tree_url" validate:"required,url"`
}

// HTTPConfig holds transport settings.
type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Retries   int           `mapstructure:"retries" validate:"gte=0,lte=10"`
	RetryWait time.Duration `mapstructure:"retry_wait" validate:"gte=0"`
}

// ProfilesConfig locates the profiles file and selects a profile.
// An empty Name means the file's default profile.
type ProfilesConfig struct {
	Path string `mapstructure:"path"`
	Name string `mapstructure:"name"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// Client returns the client settings with the profile's endpoints applied.
func (c *Config) Client(p *clientcli.Profile) *clientcli.Config {
	cfg := &clientcli.Config{
		UploadURL:   c.Server.UploadURL,
		DownloadURL: c.Server.DownloadURL,
		TreeURL:     c.Server.TreeURL,
		Timeout:     c.HTTP.Timeout,
		Retries:     c.HTTP.Retries,
		RetryWait:   c.HTTP.RetryWait,
	}
	return cfg.ApplyProfile(p)
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"upload-url":    "server.upload_url",
	"download-url":  "server.download_url",
	"timeout":       "http.timeout",
	"retries":       "http.retries",
	"profile":       "profiles.name",
	"profiles-file": "profiles.path",
	"log-level":     "log.level",
	"log-format":    "log.format",
}

// bindFlags binds the mapped CLI flags to viper keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey, ok := flagToViperKey[f.Name]
		if !ok {
			return
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.upload_url", clientcli.DefaultUploadURL)
	v.SetDefault("server.download_url", clientcli.DefaultDownloadURL)
	v.SetDefault("server.tree_url", itol.DefaultTreeURL)

	v.SetDefault("http.timeout", clientcli.DefaultTimeout)
	v.SetDefault("http.retries", clientcli.DefaultRetries)
	v.SetDefault("http.retry_wait", clientcli.DefaultRetryWait)

	v.SetDefault("profiles.path", clientcli.DefaultConfigPath())
	v.SetDefault("profiles.name", "")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			return nil, itol.NewConfigurationError("config", fmt.Errorf("read %s: %w", configFiles[0], err))
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				return nil, itol.NewConfigurationError("config", fmt.Errorf("merge %s: %w", cf, err))
			}
		}
	} else {
		v.SetConfigName("itol")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	v.SetEnvPrefix("ITOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		bindFlags(v, flags)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, itol.NewConfigurationError("config", fmt.Errorf("unmarshal config: %w", err))
	}

	if err := validator.New().Struct(&cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, itol.NewConfigurationError(verrs[0].Namespace(), fmt.Errorf("validate config: failed %q check", verrs[0].Tag()))
		}
		return nil, itol.NewConfigurationError("config", fmt.Errorf("validate config: %w", err))
	}

	return &cfg, nil
}
