package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Seed describes channels, topics and filters declared in a YAML file and
// applied at startup. Existing rows with the same name/username are left
// untouched.
type Seed struct {
	Channels []SeedChannel `yaml:"channels"`
	Topics   []SeedTopic   `yaml:"topics"`
	Filters  []SeedFilter  `yaml:"filters"`
}

// SeedChannel declares a monitored channel.
type SeedChannel struct {
	Username string `yaml:"username"`
	Title    string `yaml:"title"`
}

// SeedTopic declares a topic and its channels.
type SeedTopic struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Channels    []string `yaml:"channels"`
}

// SeedFilter declares a filter rule.
type SeedFilter struct {
	Name           string   `yaml:"name"`
	Pattern        string   `yaml:"pattern"`
	Prompt         string   `yaml:"prompt"`
	IncludeSources []string `yaml:"include_sources"`
	ExcludeSources []string `yaml:"exclude_sources"`
}

// LoadSeed reads and validates a seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	if err := seed.Validate(); err != nil {
		return nil, err
	}

	return &seed, nil
}

// Validate checks seed entries for missing names and broken regex patterns.
func (s *Seed) Validate() error {
	for i, ch := range s.Channels {
		if ch.Username == "" {
			return fmt.Errorf("channel %d: username is required", i)
		}
	}
	for i, t := range s.Topics {
		if t.Name == "" {
			return fmt.Errorf("topic %d: name is required", i)
		}
	}
	for i, f := range s.Filters {
		if f.Name == "" {
			return fmt.Errorf("filter %d: name is required", i)
		}
		if f.Pattern != "" {
			if _, err := regexp.Compile(f.Pattern); err != nil {
				return fmt.Errorf("filter %q: invalid pattern: %w", f.Name, err)
			}
		}
	}
	return nil
}
