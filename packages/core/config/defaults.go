package config

// DefaultConcurrency mirrors the runner's default so a config file that
// omits it still runs suites in parallel.
const DefaultConcurrency = 5

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Reporter:    "console",
		Concurrency: DefaultConcurrency,
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Reporter == defaults.Reporter &&
		c.OutputFile == defaults.OutputFile &&
		c.SchemaDir == defaults.SchemaDir &&
		c.Concurrency == defaults.Concurrency &&
		c.GetBail() == defaults.GetBail() &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.GetFailOnWarning() == defaults.GetFailOnWarning()
}
