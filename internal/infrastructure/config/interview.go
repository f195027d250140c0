package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Interview is the interview policy: how many questions to ask and the
// prompts sent to the model. Empty prompts fall back to built-in defaults.
type Interview struct {
	QuestionCount    int    `yaml:"question_count"`
	QuestionPrompt   string `yaml:"question_prompt"`
	EvaluationPrompt string `yaml:"evaluation_prompt"`
}

func DefaultInterview() Interview {
	return Interview{QuestionCount: 5}
}

// LoadInterview reads an interview policy from a YAML file.
func LoadInterview(filename string) (*Interview, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read interview config %s: %w", filename, err)
	}

	iv := DefaultInterview()
	if err := yaml.Unmarshal(data, &iv); err != nil {
		return nil, fmt.Errorf("parse interview config %s: %w", filename, err)
	}

	if err := iv.validate(); err != nil {
		return nil, fmt.Errorf("invalid interview config %s: %w", filename, err)
	}
	return &iv, nil
}

func (iv *Interview) validate() error {
	if iv.QuestionCount <= 0 || iv.QuestionCount > 20 {
		return fmt.Errorf("question_count must be between 1 and 20, got %d", iv.QuestionCount)
	}
	return nil
}
