package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EmotionItem is one emotion-recognition test item served to the client.
type EmotionItem struct {
	ID      string   `yaml:"id" json:"id"`
	Image   string   `yaml:"image" json:"image"`
	Emotion string   `yaml:"emotion" json:"emotion"`
	Options []string `yaml:"options" json:"options"`
}

// PatternItem is one pattern-matching puzzle served to the client.
type PatternItem struct {
	ID       string   `yaml:"id" json:"id"`
	Sequence []string `yaml:"sequence" json:"sequence"`
	Options  []string `yaml:"options" json:"options"`
	Answer   string   `yaml:"answer" json:"answer"`
}

// ItemBank holds all static test content.
type ItemBank struct {
	Emotions []EmotionItem `yaml:"emotions"`
	Patterns []PatternItem `yaml:"patterns"`
}

// LoadItemBank reads and parses the items.yaml file.
func LoadItemBank(path string) (*ItemBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read item bank file: %w", err)
	}

	var bank ItemBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item bank YAML: %w", err)
	}

	return &bank, nil
}
