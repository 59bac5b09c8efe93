package config

import (
	"log/slog"
	"net"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const (
	// ModeRedirect answers join URLs with a 302 to the join page.
	ModeRedirect = "redirect"
	// ModeServe answers join URLs with the join template body directly.
	ModeServe = "serve"
)

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
}

type JoinConfig struct {
	Mode          string `mapstructure:"mode"`
	RedirectPath  string `mapstructure:"redirect_path"`
	Template      string `mapstructure:"template"`
	ProbeInterval string `mapstructure:"probe_interval"`
}

type StaticConfig struct {
	Root string `mapstructure:"root"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Join    JoinConfig    `mapstructure:"join"`
	Static  StaticConfig  `mapstructure:"static"`
	Logging LoggingConfig `mapstructure:"logging"`
}

func Load() (*Config, error) {
	viper.SetDefault("server.environment", EnvDev)
	viper.SetDefault("server.address", ":3000")
	viper.SetDefault("join.mode", ModeRedirect)
	viper.SetDefault("join.redirect_path", "/join.html")
	viper.SetDefault("join.template", "join/index.html")
	viper.SetDefault("join.probe_interval", "30s")
	viper.SetDefault("static.root", ".")
	viper.SetDefault("logging.level", LogLevelInfo)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Info("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(validateHostPort),
					),
				)
			}),
		),
		validation.Field(&c.Join,
			validation.Required,
			validation.By(func(value interface{}) error {
				jc, ok := value.(JoinConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a JoinConfig")
				}
				return validation.ValidateStruct(&jc,
					validation.Field(&jc.Mode,
						validation.Required,
						validation.In(ModeRedirect, ModeServe),
					),
					validation.Field(&jc.RedirectPath,
						validation.Required,
						validation.By(validateAbsolutePath),
					),
					validation.Field(&jc.Template,
						validation.Required,
					),
					validation.Field(&jc.ProbeInterval,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Static,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(StaticConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a StaticConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Root,
						validation.Required,
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := time.ParseDuration(durationStr); err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	return nil
}

func validateAbsolutePath(value interface{}) error {
	path, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if !strings.HasPrefix(path, "/") {
		return validation.NewError("validation_invalid_path", "must start with /")
	}

	return nil
}
