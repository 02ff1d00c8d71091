package models

import (
	"regexp"
	"strings"
	"time"
)

// Filter is a stored rule deciding whether an incoming message is retained.
// A filter matches when the source passes the include/exclude lists, the
// regex pattern matches (if set) and the LLM relevance check passes (if a
// prompt is set).
type Filter struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Pattern        string    `json:"pattern,omitempty" db:"pattern"`
	Prompt         string    `json:"prompt,omitempty" db:"prompt"`
	IncludeSources []string  `json:"include_sources" db:"include_sources"`
	ExcludeSources []string  `json:"exclude_sources" db:"exclude_sources"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ValidatePattern reports whether the filter's regex pattern compiles.
// An empty pattern is valid.
func (f *Filter) ValidatePattern() error {
	if f.Pattern == "" {
		return nil
	}
	_, err := regexp.Compile(f.Pattern)
	return err
}

// AllowsSource checks the include/exclude source lists against a channel
// username (without @). Exclusion wins over inclusion.
func (f *Filter) AllowsSource(username string) bool {
	username = strings.TrimPrefix(strings.ToLower(username), "@")
	for _, s := range f.ExcludeSources {
		if strings.TrimPrefix(strings.ToLower(s), "@") == username {
			return false
		}
	}
	if len(f.IncludeSources) == 0 {
		return true
	}
	for _, s := range f.IncludeSources {
		if strings.TrimPrefix(strings.ToLower(s), "@") == username {
			return true
		}
	}
	return false
}

// HasPrompt reports whether the filter requires an LLM relevance check.
func (f *Filter) HasPrompt() bool {
	return strings.TrimSpace(f.Prompt) != ""
}
