package llm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrompt(t *testing.T) {
	content := `<prompt>
  <system>You are a relevance checker.</system>
  <user>Check: {{CONTENT}}</user>
</prompt>`

	path := filepath.Join(t.TempDir(), "prompt.xml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write prompt: %v", err)
	}

	cfg, err := LoadPrompt(path)
	if err != nil {
		t.Fatalf("LoadPrompt() error = %v", err)
	}

	if !strings.Contains(cfg.System, "relevance checker") {
		t.Errorf("unexpected system prompt: %q", cfg.System)
	}
	if !strings.Contains(cfg.User, "{{CONTENT}}") {
		t.Errorf("unexpected user prompt: %q", cfg.User)
	}
}

func TestLoadPrompt_InvalidXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xml")
	if err := os.WriteFile(path, []byte("<prompt><system>"), 0644); err != nil {
		t.Fatalf("write prompt: %v", err)
	}

	if _, err := LoadPrompt(path); err == nil {
		t.Error("expected error for invalid xml, got nil")
	}
}

func TestBuildUserPrompt(t *testing.T) {
	cfg := &PromptConfig{
		User: "Topic: {{TOPIC}}\nPost: {{CONTENT}}",
	}

	got := cfg.BuildUserPrompt(map[string]string{
		"TOPIC":   "Backend",
		"CONTENT": "Go 1.25 released",
	})

	want := "Topic: Backend\nPost: Go 1.25 released"
	if got != want {
		t.Errorf("BuildUserPrompt() = %q, want %q", got, want)
	}
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"yes", true},
		{"Yes", true},
		{"YES.", true},
		{"yes, it is relevant", true},
		{"true", true},
		{"no", false},
		{"No.", false},
		{"not relevant", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			if got := ParseVerdict(tt.answer); got != tt.want {
				t.Errorf("ParseVerdict(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}
