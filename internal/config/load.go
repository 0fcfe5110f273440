package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. TASKAPI_SERVER_PORT.
const EnvPrefix = "TASKAPI"

// Defaults applied before any file or environment value.
const (
	DefaultPort                 = 8080
	DefaultLogLevel             = "info"
	DefaultShutdownTimeout      = 10 * time.Second
	DefaultMaxOpenConns         = 10
	DefaultMaxIdleConns         = 5
	DefaultConnMaxLifetime      = 5 * time.Minute
	DefaultTokenLifetimeMinutes = 60
	DefaultReminderInterval     = time.Hour
	DefaultStaleAfter           = time.Hour
)

// Options tweak where Load looks for configuration.
type Options struct {
	// ConfigFile is an explicit config file path. When empty, Load looks for
	// config.yaml in the working directory and ignores its absence.
	ConfigFile string

	// EnvFile is a dotenv file loaded into the process environment before
	// reading variables. Existing variables are not overridden. A missing
	// file is ignored.
	EnvFile string
}

// Load reads configuration from the default locations.
func Load() (*Config, error) {
	return LoadWithOptions(Options{EnvFile: ".env"})
}

// LoadWithOptions reads configuration in increasing order of precedence:
// defaults, config file, environment (including values from the dotenv file).
// The result is validated before it is returned.
func LoadWithOptions(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about; binding keeps
	// keys without defaults (database.url, auth.jwt_secret) reachable from env.
	for _, key := range []string{"database.url", "auth.jwt_secret"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)

	v.SetDefault("database.max_open_conns", DefaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", DefaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", DefaultConnMaxLifetime)

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.token_lifetime_minutes", DefaultTokenLifetimeMinutes)

	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.interval", DefaultReminderInterval)
	v.SetDefault("reminder.stale_after", DefaultStaleAfter)
	v.SetDefault("reminder.run_on_start", false)
}
