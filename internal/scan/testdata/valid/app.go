package app

import "context"

type (
	Config     struct{}
	Repository struct{}
	Service    struct{}
	Clock      struct{}

	Logger interface {
		Log(msg string)
	}

	consoleLogger struct{}
)

func (consoleLogger) Log(string) {}

// @provider named="app"
// NewConfig loads the application configuration.
func NewConfig() *Config {
	return &Config{}
}

// @provider as=Logger
func NewLogger() *consoleLogger {
	return &consoleLogger{}
}

// @provider
func NewRepository(
	config *Config, // @inject named="app"
	logger Logger,
) (*Repository, error) {
	return &Repository{}, nil
}

// @provider kind=factory
func NewService(
	ctx context.Context,
	repository *Repository,
	clock *Clock, // @inject optional=true
	id string, // @param
) *Service {
	return &Service{}
}

// NewClock is not annotated, it must be ignored.
func NewClock() *Clock {
	return &Clock{}
}
