package common

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type PrintOptions struct {
	Format            string `yaml:"option-format,omitempty"`
	Indent            int    `yaml:"option-indent,omitempty"`
	IncludeSpans      bool   `yaml:"option-include-spans,omitempty"`
	TrimTokenOnOutput int    `yaml:"option-trim-token-on-output,omitempty"`
}

// Config is the optional YAML configuration shared by the astbridge tools.
type Config struct {
	NoFragments  bool `yaml:"option-no-fragments,omitempty"`
	TabWidth     int  `yaml:"option-tab-width,omitempty"`
	UseTabs      bool `yaml:"option-use-tabs,omitempty"`
	PrintOptions `yaml:",inline"`
}

const DefaultTabWidth = 8

func DefaultConfig() *Config {
	return &Config{
		TabWidth: DefaultTabWidth,
		PrintOptions: PrintOptions{
			Format:       "JSON",
			Indent:       2,
			IncludeSpans: true,
		},
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()
	if filename == "" {
		return config, nil
	}
	data, err := os.ReadFile(filename) // #nosec G304 - CLI tool reads user-specified config files
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if config.TabWidth <= 0 {
		config.TabWidth = DefaultTabWidth
	}
	return config, nil
}
