package datadog

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

type clientSettings struct {
	Addr      string   `yaml:"addr"`
	Namespace string   `yaml:"namespace"`
	Tags      []string `yaml:"tags"`
	Sampling  float64  `yaml:"sampling"`
}

// parseSettings decodes the free-form settings map the config file carries. Sample rates outside of (0, 1]
// are replaced by the default.
func parseSettings(settings map[string]any) (clientSettings, error) {
	var cfg clientSettings
	if len(settings) > 0 {
		out, err := yaml.Marshal(settings)
		if err != nil {
			return clientSettings{}, fmt.Errorf("failed to read metrics settings: %w", err)
		}

		if err = yaml.Unmarshal(out, &cfg); err != nil {
			return clientSettings{}, fmt.Errorf("failed to read metrics settings: %w", err)
		}
	}

	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}

	if cfg.Namespace == "" {
		cfg.Namespace = defaultNamespace
	}

	if cfg.Sampling <= 0 || cfg.Sampling > 1 {
		cfg.Sampling = defaultSampleRate
	}

	return cfg, nil
}

// toDatadogTags renders key:value pairs sorted by key.
func toDatadogTags(tags map[string]string) []string {
	out := make([]string, 0, len(tags))
	for key, val := range tags {
		out = append(out, fmt.Sprintf("%s:%s", key, val))
	}

	slices.Sort(out)
	return out
}
