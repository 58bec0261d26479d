/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads the dashboard configuration from a file, an optional .env file
// and UTM_ prefixed environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/carverauto/utm-dashboard/pkg/commands"
	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
	"github.com/carverauto/utm-dashboard/pkg/poller"
	"github.com/carverauto/utm-dashboard/pkg/utm"
)

const (
	// DefaultEnvPrefix prefixes every environment override.
	DefaultEnvPrefix = "UTM_"

	defaultMaxConcurrent = 8
)

var (
	errInvalidConfigPtr = errors.New("config must be a non-nil pointer")
	errInvalidMaxConc   = errors.New("commands.max_concurrent must not be negative")
)

// ConfigLoader fills dst from one configuration source.
type ConfigLoader interface {
	Load(ctx context.Context, path string, dst interface{}) error
}

// Validator is implemented by configurations that check and default themselves.
type Validator interface {
	Validate() error
}

// LoginConfig holds credentials used to log in at startup.
type LoginConfig struct {
	Email    string `json:"email" yaml:"email"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// DashboardConfig is the complete dashboard configuration.
type DashboardConfig struct {
	UTM        utm.Config        `json:"utm" yaml:"utm"`
	Poll       poller.Config     `json:"poll" yaml:"poll"`
	Commands   commands.Config   `json:"commands" yaml:"commands"`
	NATS       models.NATSConfig `json:"nats" yaml:"nats"`
	Logging    *logger.Config    `json:"logging,omitempty" yaml:"logging,omitempty"`
	Login      LoginConfig       `json:"login" yaml:"login"`
	Headless   bool              `json:"headless" yaml:"headless"`
	EmitAlways bool              `json:"emit_always" yaml:"emit_always"`
}

// Validate fills defaults and checks every section.
func (c *DashboardConfig) Validate() error {
	if c.UTM.BaseURL == "" {
		return utm.ErrBaseURLRequired
	}

	if c.UTM.SnapshotPath == "" {
		c.UTM.SnapshotPath = utm.SnapshotFrontPage
	}

	if c.UTM.RequestTimeout <= 0 {
		c.UTM.RequestTimeout = models.Duration(utm.DefaultRequestTimeout)
	}

	if err := c.Poll.Validate(); err != nil {
		return fmt.Errorf("poll: %w", err)
	}

	if c.Commands.MaxConcurrent < 0 {
		return errInvalidMaxConc
	}

	if c.Commands.MaxConcurrent == 0 {
		c.Commands.MaxConcurrent = defaultMaxConcurrent
	}

	if c.Commands.RequestTimeout <= 0 {
		c.Commands.RequestTimeout = c.UTM.RequestTimeout
	}

	if err := c.NATS.Validate(); err != nil {
		return fmt.Errorf("nats: %w", err)
	}

	if c.Logging == nil {
		// the TUI owns the terminal
		c.Logging = logger.DefaultConfig()
		c.Logging.Output = logger.OutputFile
	}

	return nil
}

// ValidateConfig validates a configuration if it implements Validator.
func ValidateConfig(cfg interface{}) error {
	v, ok := cfg.(Validator)
	if !ok {
		return nil
	}

	return v.Validate()
}

// Loader layers file, .env and environment sources over a destination struct.
type Loader struct {
	file      ConfigLoader
	env       ConfigLoader
	dotenv    string
	envPrefix string
	logger    logger.Logger
}

// LoaderOption customizes a Loader.
type LoaderOption func(*Loader)

// WithDotEnv names a .env file to read before environment overrides are applied.
// A missing file is ignored.
func WithDotEnv(path string) LoaderOption {
	return func(l *Loader) {
		l.dotenv = path
	}
}

// WithEnvPrefix replaces DefaultEnvPrefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// NewLoader returns a Loader reading JSON or YAML files and UTM_ environment overrides.
func NewLoader(log logger.Logger, opts ...LoaderOption) *Loader {
	if log == nil {
		log = logger.NewTestLogger()
	}

	l := &Loader{
		file:      &FileConfigLoader{},
		envPrefix: DefaultEnvPrefix,
		logger:    log,
	}

	for _, opt := range opts {
		opt(l)
	}

	l.env = NewEnvConfigLoader(log, l.envPrefix)

	return l
}

// LoadAndValidate loads path (when non-empty), applies environment overrides and validates cfg.
func (l *Loader) LoadAndValidate(ctx context.Context, path string, cfg interface{}) error {
	if cfg == nil {
		return errInvalidConfigPtr
	}

	if l.dotenv != "" {
		if err := godotenv.Load(l.dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", l.dotenv, err)
		}
	}

	if path != "" {
		if err := l.file.Load(ctx, path, cfg); err != nil {
			return err
		}

		l.logger.Debug().Str("path", path).Msg("Loaded configuration file")
	}

	if err := l.env.Load(ctx, path, cfg); err != nil {
		return err
	}

	if err := ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// Redacted returns a copy of cfg safe to log.
func (c *DashboardConfig) Redacted() DashboardConfig {
	out := *c
	if out.Login.Password != "" {
		out.Login.Password = strings.Repeat("*", 8)
	}

	return out
}
