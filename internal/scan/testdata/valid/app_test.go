package app

// @provider named="test"
func NewTestConfig() *Config {
	return &Config{}
}
