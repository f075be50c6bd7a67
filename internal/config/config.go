// Package config resolves numfront's runtime configuration.
//
// Resolution chain (highest priority first):
//  1. Command-line flags explicitly set on the invoked command
//  2. NUMFRONT_* environment variables (dashes become underscores)
//  3. Config file (--config, NUMFRONT_CONFIG, or ~/.config/numfront/config.yaml)
//  4. Defaults below
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	apperrors "github.com/agbru/numfront/internal/errors"
)

// EnvPrefix is the prefix shared by all environment overrides.
const EnvPrefix = "NUMFRONT"

// Defaults mirror the development setup: the page origin is the proxy on :3000,
// which forwards to the backend on :5000.
const (
	DefaultOrigin        = "http://localhost:3000"
	DefaultListen        = ":3000"
	DefaultTarget        = "http://localhost:5000"
	DefaultBackendListen = ":5000"
	DefaultTimeout       = 10 * time.Second
)

// Keys are the viper keys, identical to the flag names that set them.
const (
	KeyConfig        = "config"
	KeyOrigin        = "origin"
	KeyTimeout       = "timeout"
	KeyNoColor       = "no-color"
	KeyLogFile       = "log-file"
	KeyDebug         = "debug"
	KeyListen        = "listen"
	KeyTarget        = "target"
	KeyBackendListen = "backend-listen"
)

// AppConfig holds the resolved configuration for every subcommand.
// Fields a subcommand does not use keep their defaults.
type AppConfig struct {
	// Origin is the base URL widgets resolve logical paths against.
	Origin string `mapstructure:"origin"`
	// Timeout bounds a single widget request.
	Timeout time.Duration `mapstructure:"timeout"`
	// NoColor disables colored output.
	NoColor bool `mapstructure:"no-color"`
	// LogFile receives TUI logs; empty discards them.
	LogFile string `mapstructure:"log-file"`
	// Debug enables debug-level logging.
	Debug bool `mapstructure:"debug"`
	// Listen is the proxy's listen address.
	Listen string `mapstructure:"listen"`
	// Target is the backend origin the proxy forwards to.
	Target string `mapstructure:"target"`
	// BackendListen is the reference backend's listen address.
	BackendListen string `mapstructure:"backend-listen"`
}

// Default returns the configuration used when nothing is overridden.
func Default() AppConfig {
	return AppConfig{
		Origin:        DefaultOrigin,
		Timeout:       DefaultTimeout,
		Listen:        DefaultListen,
		Target:        DefaultTarget,
		BackendListen: DefaultBackendListen,
	}
}

// Load resolves the configuration for a command from its flag set, the
// environment and an optional config file, then validates it.
func Load(flags *pflag.FlagSet) (AppConfig, error) {
	v := viper.New()

	def := Default()
	v.SetDefault(KeyOrigin, def.Origin)
	v.SetDefault(KeyTimeout, def.Timeout)
	v.SetDefault(KeyNoColor, def.NoColor)
	v.SetDefault(KeyLogFile, def.LogFile)
	v.SetDefault(KeyDebug, def.Debug)
	v.SetDefault(KeyListen, def.Listen)
	v.SetDefault(KeyTarget, def.Target)
	v.SetDefault(KeyBackendListen, def.BackendListen)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return AppConfig{}, apperrors.WrapError(err, "bind flags")
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v); err != nil {
		return AppConfig{}, err
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, apperrors.NewConfigError("decode configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// readConfigFile loads an explicit config file (which must exist) or the
// default one (which may be absent).
func readConfigFile(v *viper.Viper) error {
	path := v.GetString(KeyConfig)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return apperrors.NewConfigError("read config %s: %v", path, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(filepath.Join(home, ".config", "numfront"))
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return apperrors.NewConfigError("read config: %v", err)
	}
	return nil
}

// Validate checks that the configuration can be used.
func (c AppConfig) Validate() error {
	if err := validateOrigin(KeyOrigin, c.Origin); err != nil {
		return err
	}
	if err := validateOrigin(KeyTarget, c.Target); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return apperrors.ValidationError{Field: KeyTimeout, Message: "must be positive"}
	}
	for key, addr := range map[string]string{KeyListen: c.Listen, KeyBackendListen: c.BackendListen} {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return apperrors.ValidationError{Field: key, Message: fmt.Sprintf("invalid address %q", addr)}
		}
	}
	return nil
}

// validateOrigin accepts absolute http(s) URLs with no path beyond "/".
func validateOrigin(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return apperrors.ValidationError{Field: key, Message: fmt.Sprintf("%q is not an absolute http(s) URL", raw)}
	}
	if u.Path != "" && u.Path != "/" {
		return apperrors.ValidationError{Field: key, Message: "must not carry a path"}
	}
	return nil
}
