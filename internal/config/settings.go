package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for optional settings keys.
const (
	DefaultUseChatGPTAPI             = true
	DefaultChatGPTPricePer1000Tokens = 0.002
	DefaultGPTPricePer1000Tokens     = 0.02
	DefaultWhisperPricePerMinute     = 0.006
)

// ErrMissingKey is matched by every *MissingKeyError.
var ErrMissingKey = errors.New("missing required configuration key")

// requiredKeys lists the settings keys without a default, in report order.
var requiredKeys = []string{
	"telegram_token",
	"openai_api_key",
	"allowed_telegram_usernames",
	"new_dialog_timeout",
}

// MissingKeyError reports a required settings key absent from File.
type MissingKeyError struct {
	File string
	Key  string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s: %q in %s", ErrMissingKey, e.Key, e.File)
}

func (e *MissingKeyError) Is(target error) bool { return target == ErrMissingKey }

// Pricing holds the per-unit prices used to turn token counts into cost.
type Pricing struct {
	ChatGPTPer1000Tokens float64 `json:"chatgpt_price_per_1000_tokens"`
	GPTPer1000Tokens     float64 `json:"gpt_price_per_1000_tokens"`
	WhisperPerMinute     float64 `json:"whisper_price_per_1_min"`
}

// Settings are the bot settings read from the YAML file.
type Settings struct {
	TelegramToken            string
	OpenAIAPIKey             string
	UseChatGPTAPI            bool
	AllowedTelegramUsernames []string
	NewDialogTimeout         time.Duration
	Pricing                  Pricing
}

// settingsFile mirrors the YAML layout. Optional keys are pointers so that
// an explicit zero value is distinguishable from an absent key.
type settingsFile struct {
	TelegramToken             string   `yaml:"telegram_token"`
	OpenAIAPIKey              string   `yaml:"openai_api_key"`
	UseChatGPTAPI             *bool    `yaml:"use_chatgpt_api"`
	AllowedTelegramUsernames  []string `yaml:"allowed_telegram_usernames"`
	NewDialogTimeout          int      `yaml:"new_dialog_timeout"` // seconds
	ChatGPTPricePer1000Tokens *float64 `yaml:"chatgpt_price_per_1000_tokens"`
	GPTPricePer1000Tokens     *float64 `yaml:"gpt_price_per_1000_tokens"`
	WhisperPricePer1Min       *float64 `yaml:"whisper_price_per_1_min"`
}

// LoadSettings reads the settings YAML at path. Every required key must be
// present (an empty list or zero still counts); optional keys fall back to
// the documented defaults.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings file: %w", err)
	}
	return parseSettings(path, data)
}

func parseSettings(name string, data []byte) (Settings, error) {
	var present map[string]any
	if err := yaml.Unmarshal(data, &present); err != nil {
		return Settings{}, fmt.Errorf("parse settings YAML: %w", err)
	}
	for _, k := range requiredKeys {
		if _, ok := present[k]; !ok {
			return Settings{}, &MissingKeyError{File: name, Key: k}
		}
	}

	var f settingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Settings{}, fmt.Errorf("parse settings YAML: %w", err)
	}

	s := Settings{
		TelegramToken:            f.TelegramToken,
		OpenAIAPIKey:             f.OpenAIAPIKey,
		UseChatGPTAPI:            DefaultUseChatGPTAPI,
		AllowedTelegramUsernames: f.AllowedTelegramUsernames,
		NewDialogTimeout:         time.Duration(f.NewDialogTimeout) * time.Second,
		Pricing: Pricing{
			ChatGPTPer1000Tokens: DefaultChatGPTPricePer1000Tokens,
			GPTPer1000Tokens:     DefaultGPTPricePer1000Tokens,
			WhisperPerMinute:     DefaultWhisperPricePerMinute,
		},
	}
	if f.UseChatGPTAPI != nil {
		s.UseChatGPTAPI = *f.UseChatGPTAPI
	}
	if f.ChatGPTPricePer1000Tokens != nil {
		s.Pricing.ChatGPTPer1000Tokens = *f.ChatGPTPricePer1000Tokens
	}
	if f.GPTPricePer1000Tokens != nil {
		s.Pricing.GPTPer1000Tokens = *f.GPTPricePer1000Tokens
	}
	if f.WhisperPricePer1Min != nil {
		s.Pricing.WhisperPerMinute = *f.WhisperPricePer1Min
	}
	return s, nil
}
