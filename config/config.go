package config

import (
	"fmt"
	"os"

	"github.com/heirloom-labs/heirloom/logx"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads and parses a YAML config file, filling omitted fields
// from the defaults.
func LoadConfig(path string) (*Config, error) {
	logx.Info("CONFIG", "loading config from ", path)
	file, err := os.Open(path)
	if err != nil {
		logx.Error("CONFIG", "failed to open config file: ", err)
		return nil, err
	}
	defer file.Close()

	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		logx.Error("CONFIG", "failed to decode YAML: ", err)
		return nil, err
	}
	logx.Info("CONFIG", "loaded config: endpoint=", cfg.Network.Endpoint,
		" faucet=", cfg.Faucet.Symbol, " deadline_margin=", cfg.Vault.DeadlineMargin)
	return cfg, nil
}

// ApplyProfile overlays a named section of an INI profile file (endpoint
// and cadence overrides per network) onto the config.
func ApplyProfile(cfg *Config, path, profile string) error {
	iniFile, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("could not load profile file: %w", err)
	}
	section, err := iniFile.GetSection(profile)
	if err != nil {
		return fmt.Errorf("unknown profile %q: %w", profile, err)
	}

	if key, err := section.GetKey("endpoint"); err == nil {
		cfg.Network.Endpoint = key.String()
	}
	if key, err := section.GetKey("block_interval_secs"); err == nil {
		if v, err := key.Int(); err == nil {
			cfg.Network.BlockIntervalSecs = v
		}
	}
	if key, err := section.GetKey("safety_margin_secs"); err == nil {
		if v, err := key.Int(); err == nil {
			cfg.Network.SafetyMarginSecs = v
		}
	}

	logx.Info("CONFIG", "applied profile ", profile, ": endpoint=", cfg.Network.Endpoint)
	return nil
}
