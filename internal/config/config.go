// Package config resolves the application configuration from command-line
// flags, BOOTLOAD_* environment variables, an optional YAML file and
// defaults, in that order of priority.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	apperrors "github.com/agbru/bootload/internal/errors"
	"github.com/agbru/bootload/internal/logging"
	"github.com/agbru/bootload/internal/uri"
)

// EnvPrefix prefixes every environment override, e.g. BOOTLOAD_LOAD_BUDGET.
const EnvPrefix = "BOOTLOAD"

// Configuration keys, shared by flags, environment and file.
const (
	KeyMode              = "mode"
	KeyLoadBudget        = "load-budget"
	KeyFadeDelay         = "fade-delay"
	KeyInitData          = "init-data"
	KeyBaseURI           = "base-uri"
	KeyServer            = "server"
	KeyLogLevel          = "log-level"
	KeyMetricsAddr       = "metrics-addr"
	KeyReconnectAttempts = "reconnect-attempts"
	KeyReconnectDelay    = "reconnect-delay"
	KeyNoColor           = "no-color"
	KeyConfig            = "config"
)

// Mode selects the host the client runs in.
type Mode string

const (
	// ModeAuto picks TUI on a terminal and headless otherwise.
	ModeAuto Mode = "auto"
	// ModeCLI shows a spinner line.
	ModeCLI Mode = "cli"
	// ModeTUI shows the full-screen loading screen.
	ModeTUI Mode = "tui"
	// ModeHeadless has no loading surface at all.
	ModeHeadless Mode = "headless"
)

// Modes lists the valid modes.
var Modes = []Mode{ModeAuto, ModeCLI, ModeTUI, ModeHeadless}

// AppConfig is the resolved application configuration.
type AppConfig struct {
	Mode              Mode
	LoadBudget        time.Duration
	FadeDelay         time.Duration
	InitData          string
	BaseURI           string
	Server            string
	LogLevel          string
	MetricsAddr       string
	ReconnectAttempts int
	ReconnectDelay    time.Duration
	NoColor           bool
	ConfigFile        string
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() AppConfig {
	return AppConfig{
		Mode:              ModeAuto,
		LoadBudget:        3 * time.Second,
		FadeDelay:         300 * time.Millisecond,
		LogLevel:          "info",
		ReconnectAttempts: 3,
		ReconnectDelay:    500 * time.Millisecond,
	}
}

// RegisterFlags defines every configuration flag on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.StringP(KeyMode, "m", string(d.Mode), "host mode: auto, cli, tui or headless")
	fs.Duration(KeyLoadBudget, d.LoadBudget, "budget the total load duration is logged against")
	fs.Duration(KeyFadeDelay, d.FadeDelay, "pause between hiding and removing the loading surface")
	fs.StringP(KeyInitData, "i", d.InitData, "YAML or JSON file holding the initialization data")
	fs.String(KeyBaseURI, d.BaseURI, "base URI relative references resolve against (default: working directory)")
	fs.StringP(KeyServer, "s", d.Server, "host:port to connect to during bootstrap (empty: skip)")
	fs.String(KeyLogLevel, d.LogLevel, "log level: trace, debug, info, warn, error")
	fs.String(KeyMetricsAddr, d.MetricsAddr, "address serving /metrics and /healthz (empty: disabled)")
	fs.Int(KeyReconnectAttempts, d.ReconnectAttempts, "connect attempts before giving up")
	fs.Duration(KeyReconnectDelay, d.ReconnectDelay, "pause between connect attempts")
	fs.Bool(KeyNoColor, d.NoColor, "disable colored output (also honours NO_COLOR)")
	fs.StringP(KeyConfig, "c", "", "YAML configuration file")
}

// Load resolves the configuration for the flags parsed into fs. Flags that
// were set explicitly win over BOOTLOAD_* variables, which win over the
// configuration file, which wins over defaults.
func Load(fs *pflag.FlagSet) (AppConfig, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return AppConfig{}, apperrors.NewConfigError("bind flags: %v", err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return AppConfig{}, apperrors.NewConfigError("read config file %s: %v", file, err)
		}
	}

	cfg := AppConfig{
		Mode:              Mode(strings.ToLower(v.GetString(KeyMode))),
		LoadBudget:        v.GetDuration(KeyLoadBudget),
		FadeDelay:         v.GetDuration(KeyFadeDelay),
		InitData:          v.GetString(KeyInitData),
		BaseURI:           v.GetString(KeyBaseURI),
		Server:            v.GetString(KeyServer),
		LogLevel:          v.GetString(KeyLogLevel),
		MetricsAddr:       v.GetString(KeyMetricsAddr),
		ReconnectAttempts: v.GetInt(KeyReconnectAttempts),
		ReconnectDelay:    v.GetDuration(KeyReconnectDelay),
		NoColor:           v.GetBool(KeyNoColor),
		ConfigFile:        v.GetString(KeyConfig),
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration and returns an apperrors.ConfigError
// naming every problem found.
func (c AppConfig) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !c.Mode.Valid() {
		add("invalid %s %q (want one of %s)", KeyMode, c.Mode, joinModes())
	}
	if c.LoadBudget < 0 {
		add("%s must not be negative", KeyLoadBudget)
	}
	if c.FadeDelay < 0 {
		add("%s must not be negative", KeyFadeDelay)
	}
	if c.ReconnectAttempts < 1 {
		add("%s must be at least 1", KeyReconnectAttempts)
	}
	if c.ReconnectDelay < 0 {
		add("%s must not be negative", KeyReconnectDelay)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		add("invalid %s %q", KeyLogLevel, c.LogLevel)
	}
	if c.BaseURI != "" {
		if _, err := uri.NewURLFactory(c.BaseURI); err != nil {
			add("invalid %s: %v", KeyBaseURI, err)
		}
	}
	for _, a := range []struct{ key, addr string }{
		{KeyServer, c.Server},
		{KeyMetricsAddr, c.MetricsAddr},
	} {
		if a.addr == "" {
			continue
		}
		if _, _, err := net.SplitHostPort(a.addr); err != nil {
			add("invalid %s %q: %v", a.key, a.addr, unwrapAddrError(err))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return apperrors.NewConfigError("%s", strings.Join(problems, "; "))
}

func unwrapAddrError(err error) error {
	var addrErr *net.AddrError
	if errors.As(err, &addrErr) {
		return errors.New(addrErr.Err)
	}
	return err
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

func joinModes() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
