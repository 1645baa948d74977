package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// defaultPersonaInstruction stands in for a real fine-tuned model. It is
// configuration, never user data, and is attached to requests out-of-band.
const defaultPersonaInstruction = "You are a friendly, enthusiastic, and helpful brand ambassador for 'Innovate Inc.', a cutting-edge tech company. Always be positive and encouraging."

// Config holds everything the studio reads from the environment. The API key
// is the only required value; startup aborts without it.
type Config struct {
	APIKey string `env:"GEMINI_API_KEY,required,notEmpty"`

	ImageModel string `env:"STUDIO_IMAGE_MODEL" envDefault:"gemini-2.5-flash-image"`
	TextModel  string `env:"STUDIO_TEXT_MODEL" envDefault:"gemini-2.5-flash"`

	// PersonaModel defaults to the base model as a stand-in for a real
	// fine-tuned model name.
	PersonaModel       string `env:"STUDIO_PERSONA_MODEL" envDefault:"gemini-2.5-flash"`
	PersonaInstruction string `env:"STUDIO_PERSONA_INSTRUCTION"`

	// OutputDir receives generated images.
	OutputDir string `env:"STUDIO_OUTPUT_DIR" envDefault:"."`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.PersonaInstruction == "" {
		cfg.PersonaInstruction = defaultPersonaInstruction
	}
	return cfg, nil
}
