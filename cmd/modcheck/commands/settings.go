package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-peyrard/modcheck/config"
	"github.com/a-peyrard/modcheck/option"
	"github.com/rs/zerolog"
)

const (
	envPrefix          = "MODCHECK"
	defaultConfigFile  = ".modcheck.yaml"
	defaultLogLevel    = "warn"
	settingsTimeFormat = time.DateTime
)

// Settings are read from the settings file, then from MODCHECK_* env variables, flags override both.
type Settings struct {
	LogLevel string `mapstructure:"log_level"`
	Strict   bool   `mapstructure:"strict"`
	NoColor  bool   `mapstructure:"no_color"`
}

func (s *Settings) ApplyDefault() {
	if s.LogLevel == "" {
		s.LogLevel = defaultLogLevel
	}
}

func loadSettings(path string, optional bool) (*Settings, error) {
	opts := []option.Option[config.Options]{config.WithEnvPrefix(envPrefix), config.WithFile(path)}
	if optional {
		opts = append(opts, config.Optional())
	}
	settings, err := config.Load[Settings](opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings:\n\t%w", err)
	}
	return settings, nil
}

func newLogger(w io.Writer, settings *Settings) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(settings.LogLevel))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %s: %w", settings.LogLevel, err)
	}
	writer := zerolog.ConsoleWriter{Out: w, TimeFormat: settingsTimeFormat, NoColor: settings.NoColor}
	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}
