package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validSeed = `
channels:
  - username: golang_news
    title: Go News
  - username: "@devops_feed"
topics:
  - name: Backend
    description: Backend engineering posts
    channels: [golang_news]
filters:
  - name: remote jobs
    pattern: "(?i)remote"
    include_sources: [golang_news]
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestLoadSeed_Valid(t *testing.T) {
	seed, err := LoadSeed(writeSeed(t, validSeed))
	if err != nil {
		t.Fatalf("LoadSeed() error = %v", err)
	}

	if len(seed.Channels) != 2 {
		t.Errorf("channels = %d, want 2", len(seed.Channels))
	}
	if len(seed.Topics) != 1 || seed.Topics[0].Name != "Backend" {
		t.Errorf("unexpected topics: %+v", seed.Topics)
	}
	if len(seed.Filters) != 1 || seed.Filters[0].Pattern != "(?i)remote" {
		t.Errorf("unexpected filters: %+v", seed.Filters)
	}
}

func TestLoadSeed_InvalidPattern(t *testing.T) {
	content := `
filters:
  - name: broken
    pattern: "(unclosed"
`
	if _, err := LoadSeed(writeSeed(t, content)); err == nil {
		t.Error("expected error for invalid regex pattern, got nil")
	}
}

func TestLoadSeed_MissingChannelUsername(t *testing.T) {
	content := `
channels:
  - title: no username
`
	if _, err := LoadSeed(writeSeed(t, content)); err == nil {
		t.Error("expected error for missing username, got nil")
	}
}

func TestLoadSeed_FileNotFound(t *testing.T) {
	if _, err := LoadSeed("/nonexistent/seed.yaml"); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}
