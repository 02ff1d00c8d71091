package llm

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// PromptConfig represents a prompt loaded from an XML file.
// It contains the system prompt and the user prompt template.
type PromptConfig struct {
	XMLName xml.Name `xml:"prompt"`
	System  string   `xml:"system"`
	User    string   `xml:"user"`
}

// LoadPrompt reads and parses a prompt configuration from an XML file.
func LoadPrompt(filepath string) (*PromptConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}

	var config PromptConfig
	if err := xml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse prompt xml: %w", err)
	}

	return &config, nil
}

// BuildUserPrompt replaces {{KEY}} placeholders in the user prompt template.
func (p *PromptConfig) BuildUserPrompt(vars map[string]string) string {
	out := p.User
	for key, val := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", val)
	}
	return out
}

// FilterPrompt is the default prompt used for filter relevance checks.
// A filter's own prompt text is substituted as the criteria.
var FilterPrompt = &PromptConfig{
	System: "You decide whether a Telegram message satisfies a relevance criteria. " +
		"Answer with a single word: yes or no.",
	User: "Criteria: {{CRITERIA}}\n\nMessage:\n{{CONTENT}}\n\nDoes the message satisfy the criteria?",
}

// TopicPrompt is the default prompt used for topic classification.
var TopicPrompt = &PromptConfig{
	System: "You decide whether a post is relevant to a given topic. " +
		"Answer with a single word: yes or no.",
	User: "Topic: {{TOPIC}}\nTopic description: {{DESCRIPTION}}\n\nPost:\n{{CONTENT}}\n\nIs the post relevant to the topic?",
}
