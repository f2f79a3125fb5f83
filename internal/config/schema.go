package config

// Config represents the full finagent configuration
type Config struct {
	// Ledger API connection
	Ledger LedgerConfig `yaml:"ledger" mapstructure:"ledger"`

	// HTTP server
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Invocation audit trail
	Audit AuditConfig `yaml:"audit" mapstructure:"audit"`
}

// LedgerConfig configures the payment API client
type LedgerConfig struct {
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	PageSize int    `yaml:"page_size" mapstructure:"page_size"`
}

// ServerConfig configures the HTTP surface
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// AuditConfig configures the local invocation audit store
type AuditConfig struct {
	DBPath string `yaml:"db_path" mapstructure:"db_path"`
}
