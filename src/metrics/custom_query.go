package metrics

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// customQuery is one entry of the custom metrics YAML config.
type customQuery struct {
	Query     string `yaml:"query"`
	Database  string `yaml:"database"`
	Prefix    string `yaml:"prefix"`
	EventType string `yaml:"event_type"`
}

type customQueriesConfig struct {
	Queries []customQuery `yaml:"queries"`
}

// loadCustomQueries reads and validates the custom metrics YAML config file.
func loadCustomQueries(path string) ([]customQuery, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading custom metrics config '%s': %w", path, err)
	}

	var config customQueriesConfig
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return nil, fmt.Errorf("parsing custom metrics config '%s': %w", path, err)
	}

	if len(config.Queries) == 0 {
		return nil, errors.New("custom metrics config contains no queries")
	}
	for i, query := range config.Queries {
		if query.Query == "" {
			return nil, fmt.Errorf("custom metrics config entry %d is missing a query", i)
		}
	}
	return config.Queries, nil
}
