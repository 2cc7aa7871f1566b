// Package config loads and holds the deployment-supplied audit policy.
// Priority: env vars > YAML > baseline defaults. The engine itself never
// touches this package at call time; it receives a policy struct at
// construction and that is that.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Loader reads a configuration struct from YAML and environment
// variables, then validates it. It runs at startup and on watcher
// reloads, never per unit of work.
type Loader[T any] struct {
	envPrefix  string
	configPath string
	validate   *validator.Validate
}

func NewLoader[T any](envPrefix, configPath string) *Loader[T] {
	return &Loader[T]{
		envPrefix:  envPrefix,
		configPath: configPath,
		validate:   validator.New(),
	}
}

func (l *Loader[T]) Load() (*T, error) {
	var cfg T
	return l.LoadFrom(cfg)
}

// LoadFrom layers the file and environment over a baseline, usually the
// package's DefaultConfig. Fields the file and environment leave alone
// keep their baseline values.
func (l *Loader[T]) LoadFrom(cfg T) (*T, error) {
	if l.configPath != "" {
		if _, err := os.Stat(l.configPath); err == nil {
			file, err := os.Open(l.configPath)
			if err != nil {
				return nil, fmt.Errorf("config: failed to open %s: %w", l.configPath, err)
			}
			defer file.Close()

			decoder := yaml.NewDecoder(file)
			if err := decoder.Decode(&cfg); err != nil {
				return nil, fmt.Errorf("config: failed to decode %s: %w", l.configPath, err)
			}
		}
	}

	if err := envconfig.Process(l.envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to process env vars: %w", err)
	}

	if err := l.validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return &cfg, nil
}
