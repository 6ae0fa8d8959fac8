package dispatch

// Config defines dispatch-related settings.
type Config struct {
	// Quiet suppresses the human readable batch trace of the run command.
	Quiet bool `json:"quiet"`
	// HistoryLimit caps the batch results kept in memory. 0 keeps 100.
	HistoryLimit int `json:"history_limit"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 100
	}
}
