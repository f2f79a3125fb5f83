package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Ledger: LedgerConfig{
			BaseURL:  "https://api.stripe.com",
			PageSize: 100,
		},
		Server: ServerConfig{
			Addr: ":5000",
		},
		Audit: AuditConfig{
			DBPath: "~/.finagent/audit.db",
		},
	}
}

// Load merges configuration from the global file, the project file,
// and environment variables, over the defaults. Missing files are not
// an error.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if home, err := os.UserHomeDir(); err == nil {
		globalPath := filepath.Join(home, ".finagent", "config.yaml")
		if err := loadFile(globalPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		projectPath := filepath.Join(cwd, "finagent.yaml")
		if err := loadFile(projectPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

// applyEnv overlays environment variables. STRIPE_API_KEY matches the
// conventional processor variable; FINAGENT_* override the rest.
func applyEnv(cfg *Config) {
	if key := os.Getenv("STRIPE_API_KEY"); key != "" {
		cfg.Ledger.APIKey = key
	}
	if url := os.Getenv("FINAGENT_LEDGER_URL"); url != "" {
		cfg.Ledger.BaseURL = url
	}
	if addr := os.Getenv("FINAGENT_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if path := os.Getenv("FINAGENT_AUDIT_DB"); path != "" {
		cfg.Audit.DBPath = path
	}
}
