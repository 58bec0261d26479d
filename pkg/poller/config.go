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

package poller

import (
	"time"

	"github.com/carverauto/utm-dashboard/pkg/models"
)

const (
	defaultInterval        = time.Second
	defaultStaleAfter      = 10 * time.Second
	defaultFetchTimeout    = 10 * time.Second
	defaultBackoffInitial  = 2 * time.Second
	defaultBackoffMax      = 30 * time.Second
	defaultBackoffMultiply = 2.0
)

// BackoffConfig enables exponential backoff between failed polls.
type BackoffConfig struct {
	Enabled         bool            `json:"enabled" yaml:"enabled"`
	InitialInterval models.Duration `json:"initial_interval,omitempty" yaml:"initial_interval,omitempty"`
	MaxInterval     models.Duration `json:"max_interval,omitempty" yaml:"max_interval,omitempty"`
	Multiplier      float64         `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
}

// Config represents poll loop configuration.
type Config struct {
	Interval     models.Duration `json:"interval" yaml:"interval"`
	StaleAfter   models.Duration `json:"stale_after" yaml:"stale_after"`
	FetchTimeout models.Duration `json:"fetch_timeout" yaml:"fetch_timeout"`
	Backoff      BackoffConfig   `json:"backoff" yaml:"backoff"`
}

// Validate fills defaults and rejects impossible values.
func (c *Config) Validate() error {
	if c.Interval < 0 {
		return errInvalidInterval
	}

	if c.Interval == 0 {
		c.Interval = models.Duration(defaultInterval)
	}

	if c.StaleAfter <= 0 {
		c.StaleAfter = models.Duration(defaultStaleAfter)
	}

	if c.FetchTimeout <= 0 {
		c.FetchTimeout = models.Duration(defaultFetchTimeout)
	}

	if !c.Backoff.Enabled {
		return nil
	}

	if c.Backoff.InitialInterval <= 0 {
		c.Backoff.InitialInterval = models.Duration(defaultBackoffInitial)
	}

	if c.Backoff.MaxInterval <= 0 {
		c.Backoff.MaxInterval = models.Duration(defaultBackoffMax)
	}

	if c.Backoff.Multiplier <= 1 {
		c.Backoff.Multiplier = defaultBackoffMultiply
	}

	if c.Backoff.MaxInterval < c.Backoff.InitialInterval {
		return errInvalidBackoff
	}

	return nil
}
