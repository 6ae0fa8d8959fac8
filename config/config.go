package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/brigade/core/dispatch"
	"github.com/kilianp07/brigade/core/metrics"
	"github.com/kilianp07/brigade/infra/monitoring"
	"github.com/kilianp07/brigade/infra/mqtt"
)

// EnvPrefix marks environment variables that override file values.
// BRIGADE_JOURNAL__BACKEND=sqlite sets journal.backend.
const EnvPrefix = "BRIGADE_"

type Config struct {
	Kitchen  KitchenConfig     `json:"kitchen"`
	Dispatch dispatch.Config   `json:"dispatch"`
	Metrics  metrics.Config    `json:"metrics"`
	Journal  JournalConfig     `json:"journal"`
	MQTT     mqtt.Config       `json:"mqtt"`
	HTTP     HTTPConfig        `json:"http"`
	Log      LogConfig         `json:"log"`
	Sentry   monitoring.Config `json:"sentry"`
}

// HTTPConfig exposes /metrics, /api/kitchen and /api/batches on Addr.
// Token protects the journal endpoint when set.
type HTTPConfig struct {
	Addr  string `json:"addr"`
	Token string `json:"token"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Kitchen.SetDefaults()
	c.Dispatch.SetDefaults()
	c.Journal.SetDefaults()
	c.MQTT.SetDefaults()
	c.Log.SetDefaults()
}

// Validate checks every section and joins the errors.
func (c Config) Validate() error {
	var errs []error
	if err := c.Kitchen.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("kitchen: %w", err))
	}
	if err := c.Journal.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("journal: %w", err))
	}
	if err := c.MQTT.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	if err := c.Metrics.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("metrics: %w", err))
	}
	return errors.Join(errs...)
}
