// Package config loads the process settings from flags, environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"github.com/thalesfsp/pushindexer"
)

// Log formats.
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// dotEnvFile is read from the working directory when present.
const dotEnvFile = ".env"

// binding ties a settings key to its environment variable and flag.
type binding struct {
	key  string
	env  string
	flag string
}

// Engine credentials keep their historical, unprefixed names.
var envBindings = []binding{
	{key: "es.host", env: "ES_HOST", flag: "es-host"},
	{key: "es.username", env: "ES_USERNAME", flag: "es-username"},
	{key: "es.password", env: "ES_PASSWORD", flag: "es-password"},
	{key: "index", env: "PUSHINDEXER_INDEX", flag: "index"},
	{key: "strict_bulk", env: "PUSHINDEXER_STRICT_BULK", flag: "strict-bulk"},
	{key: "skip_ping", env: "PUSHINDEXER_SKIP_PING", flag: "skip-ping"},
	{key: "refresh", env: "PUSHINDEXER_REFRESH", flag: "refresh"},
	{key: "listen", env: "PUSHINDEXER_LISTEN", flag: "listen"},
	{key: "log.level", env: "PUSHINDEXER_LOG_LEVEL", flag: "log-level"},
	{key: "log.format", env: "PUSHINDEXER_LOG_FORMAT", flag: "log-format"},
}

// ElasticsearchSettings is the connection to the engine.
type ElasticsearchSettings struct {
	Host     string `mapstructure:"host"     validate:"required,url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json console"`
}

// Settings are the application settings.
type Settings struct {
	Elasticsearch ElasticsearchSettings `mapstructure:"es"`
	Index         string                `mapstructure:"index"       validate:"required"`
	StrictBulk    bool                  `mapstructure:"strict_bulk"`
	SkipPing      bool                  `mapstructure:"skip_ping"`
	Refresh       string                `mapstructure:"refresh"     validate:"required,oneof=false true wait_for"`
	Listen        string                `mapstructure:"listen"      validate:"required"`
	Log           LogSettings           `mapstructure:"log"`
}

// LoadSettings loads settings from environment variables and an optional .env
// file.
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values.
	v.SetDefault("index", pushindexer.IndexName)
	v.SetDefault("strict_bulk", false)
	v.SetDefault("skip_ping", false)
	v.SetDefault("refresh", pushindexer.RefreshPolicyFalse)
	v.SetDefault("listen", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", LogFormatJSON)

	// The .env file uses the environment variable names and sits right above
	// the defaults.
	if file, err := gotenv.Read(dotEnvFile); err == nil {
		for _, b := range envBindings {
			if value, ok := file[b.env]; ok {
				v.SetDefault(b.key, value)
			}
		}
	}

	// Environment variables.
	v.SetEnvPrefix("PUSHINDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, b := range envBindings {
		_ = v.BindEnv(b.key, b.env)
	}

	if flags != nil {
		for _, b := range envBindings {
			bindFlag(v, flags, b.key, b.flag)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	settings.Log.Level = strings.ToLower(strings.TrimSpace(settings.Log.Level))
	settings.Log.Format = strings.ToLower(strings.TrimSpace(settings.Log.Format))

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

// Validate checks the resolved settings.
func (s *Settings) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(s); err != nil {
		var vErrs validator.ValidationErrors
		if !errors.As(err, &vErrs) {
			return err
		}

		msgs := make([]string, 0, len(vErrs))
		for _, fe := range vErrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed on %q", fe.Namespace(), fe.Tag()))
		}

		return fmt.Errorf("invalid settings: %s", strings.Join(msgs, "; "))
	}

	return nil
}

// bindFlag binds a flag only when it is registered, so commands can expose a
// subset of the settings.
func bindFlag(v *viper.Viper, flags *pflag.FlagSet, key, name string) {
	if f := flags.Lookup(name); f != nil {
		_ = v.BindPFlag(key, f)
	}
}
