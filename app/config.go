package app

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Loader standardizes env-only configuration for embedding services.
// File-backed policy goes through the config package instead.
type Loader struct {
	validate *validator.Validate
}

func NewConfigLoader() *Loader {
	return &Loader{
		validate: validator.New(),
	}
}

// Load reads env vars into spec and validates it. If this fails the
// application should die at startup.
func (l *Loader) Load(_ context.Context, spec interface{}, prefix string) error {
	if err := envconfig.Process(prefix, spec); err != nil {
		return fmt.Errorf("config: failed to process env vars: %w", err)
	}

	if err := l.validate.Struct(spec); err != nil {
		return fmt.Errorf("config: validation failed: %w", err)
	}

	return nil
}
