package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ChatMode is one persona definition from the chat-modes file. Keys other
// than the well-known ones are kept in Extra so the file is consumed verbatim.
type ChatMode struct {
	Name           string         `yaml:"name"            json:"name"`
	WelcomeMessage string         `yaml:"welcome_message" json:"welcome_message,omitempty"`
	PromptStart    string         `yaml:"prompt_start"    json:"prompt_start,omitempty"`
	ParseMode      string         `yaml:"parse_mode"      json:"parse_mode,omitempty"`
	Extra          map[string]any `yaml:",inline"         json:"extra,omitempty"`
}

// ChatModes maps a mode key (e.g. "assistant") to its definition.
type ChatModes map[string]ChatMode

// Has reports whether name is a configured mode.
func (m ChatModes) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// Names returns the configured mode keys in sorted order.
func (m ChatModes) Names() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LoadChatModes reads the chat-modes YAML at path.
func LoadChatModes(path string) (ChatModes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chat modes file: %w", err)
	}
	var modes ChatModes
	if err := yaml.Unmarshal(data, &modes); err != nil {
		return nil, fmt.Errorf("parse chat modes YAML: %w", err)
	}
	if len(modes) == 0 {
		return nil, errors.New("chat modes file defines no modes")
	}
	return modes, nil
}
