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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/utm-dashboard/pkg/commands"
	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
	"github.com/carverauto/utm-dashboard/pkg/utm"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadYAMLFillsDefaults(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "dashboard.yaml", `
utm:
  base_url: http://utm.local:8080
poll:
  interval: 500ms
  backoff:
    enabled: true
nats:
  url: nats://127.0.0.1:4222
login:
  email: ops@example.com
`)

	var cfg DashboardConfig
	require.NoError(t, NewLoader(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, "http://utm.local:8080", cfg.UTM.BaseURL)
	assert.Equal(t, utm.SnapshotFrontPage, cfg.UTM.SnapshotPath)
	assert.Equal(t, utm.DefaultRequestTimeout, cfg.UTM.RequestTimeout.Std())
	assert.Equal(t, 500*time.Millisecond, cfg.Poll.Interval.Std())
	assert.Equal(t, 10*time.Second, cfg.Poll.StaleAfter.Std())
	assert.Equal(t, 2*time.Second, cfg.Poll.Backoff.InitialInterval.Std())
	assert.Equal(t, 8, cfg.Commands.MaxConcurrent)
	assert.Equal(t, cfg.UTM.RequestTimeout, cfg.Commands.RequestTimeout)
	assert.Equal(t, "utm_events", cfg.NATS.StreamName)
	assert.Nil(t, cfg.NATS.TLS)
	assert.Equal(t, "ops@example.com", cfg.Login.Email)
	require.NotNil(t, cfg.Logging)
	assert.Equal(t, logger.OutputFile, cfg.Logging.Output)
}

func TestLoadJSONAcceptsNumericDurations(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "dashboard.json", `{
  "utm": {"base_url": "http://utm.local", "snapshot_path": "latestState", "request_timeout": 3000000000},
  "poll": {"interval": "2s", "stale_after": 20000000000},
  "commands": {"max_concurrent": 2, "request_timeout": "1s"},
  "logging": {"level": "debug", "output": "stderr"},
  "headless": true,
  "emit_always": true
}`)

	var cfg DashboardConfig
	require.NoError(t, NewLoader(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, utm.SnapshotLatestState, cfg.UTM.SnapshotPath)
	assert.Equal(t, 3*time.Second, cfg.UTM.RequestTimeout.Std())
	assert.Equal(t, 2*time.Second, cfg.Poll.Interval.Std())
	assert.Equal(t, 20*time.Second, cfg.Poll.StaleAfter.Std())
	assert.Equal(t, 2, cfg.Commands.MaxConcurrent)
	assert.Equal(t, time.Second, cfg.Commands.RequestTimeout.Std())
	assert.Equal(t, logger.OutputStderr, cfg.Logging.Output)
	assert.True(t, cfg.Headless)
	assert.True(t, cfg.EmitAlways)
	assert.False(t, cfg.NATS.Enabled())
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	var cfg DashboardConfig
	err := NewLoader(logger.NewTestLogger()).LoadAndValidate(context.Background(), filepath.Join(t.TempDir(), "nope.json"), &cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsNilDestination(t *testing.T) {
	t.Parallel()

	err := NewLoader(logger.NewTestLogger()).LoadAndValidate(context.Background(), "", nil)
	require.ErrorIs(t, err, errInvalidConfigPtr)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "dashboard.yml", `
utm:
  base_url: http://from-file
poll:
  interval: 1s
`)

	t.Setenv("UTM_UTM_BASE_URL", "http://from-env:9000")
	t.Setenv("UTM_POLL_INTERVAL", "250ms")
	t.Setenv("UTM_POLL_BACKOFF_ENABLED", "true")
	t.Setenv("UTM_NATS_URL", "nats://bus:4222")
	t.Setenv("UTM_NATS_SUBJECTS", "utm.device.>, utm.commands.>")
	t.Setenv("UTM_HEADLESS", "true")

	var cfg DashboardConfig
	require.NoError(t, NewLoader(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, "http://from-env:9000", cfg.UTM.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Poll.Interval.Std())
	assert.True(t, cfg.Poll.Backoff.Enabled)
	assert.Equal(t, "nats://bus:4222", cfg.NATS.URL)
	assert.Equal(t, []string{"utm.device.>", "utm.commands.>"}, cfg.NATS.Subjects)
	assert.Nil(t, cfg.NATS.TLS, "no tls variables means no tls block")
	assert.True(t, cfg.Headless)
}

func TestEnvAllocatesPointerSections(t *testing.T) {
	t.Setenv("UTM_UTM_BASE_URL", "http://env-only")
	t.Setenv("UTM_NATS_TLS_CA_FILE", "/etc/utm/ca.pem")

	var cfg DashboardConfig
	require.NoError(t, NewLoader(logger.NewTestLogger()).LoadAndValidate(context.Background(), "", &cfg))

	require.NotNil(t, cfg.NATS.TLS)
	assert.Equal(t, "/etc/utm/ca.pem", cfg.NATS.TLS.CAFile)
}

func TestDotEnvFile(t *testing.T) {
	dotenv := writeFile(t, ".env", "UTM_UTM_BASE_URL=http://from-dotenv\nUTM_LOGIN_EMAIL=dotenv@example.com\n")

	t.Cleanup(func() {
		_ = os.Unsetenv("UTM_UTM_BASE_URL")
		_ = os.Unsetenv("UTM_LOGIN_EMAIL")
	})

	var cfg DashboardConfig
	loader := NewLoader(logger.NewTestLogger(), WithDotEnv(dotenv))
	require.NoError(t, loader.LoadAndValidate(context.Background(), "", &cfg))

	assert.Equal(t, "http://from-dotenv", cfg.UTM.BaseURL)
	assert.Equal(t, "dotenv@example.com", cfg.Login.Email)
}

func TestMissingDotEnvIgnored(t *testing.T) {
	t.Setenv("UTM_UTM_BASE_URL", "http://x")

	var cfg DashboardConfig
	loader := NewLoader(logger.NewTestLogger(), WithDotEnv(filepath.Join(t.TempDir(), ".env")))
	require.NoError(t, loader.LoadAndValidate(context.Background(), "", &cfg))
}

func TestCustomEnvPrefix(t *testing.T) {
	t.Setenv("FLEET_UTM_BASE_URL", "http://prefixed")

	var cfg DashboardConfig
	loader := NewLoader(logger.NewTestLogger(), WithEnvPrefix("FLEET_"))
	require.NoError(t, loader.LoadAndValidate(context.Background(), "", &cfg))

	assert.Equal(t, "http://prefixed", cfg.UTM.BaseURL)
}

func TestDashboardConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     DashboardConfig
		wantErr error
	}{
		{name: "base url required", cfg: DashboardConfig{}, wantErr: utm.ErrBaseURLRequired},
		{
			name:    "negative concurrency",
			cfg:     DashboardConfig{UTM: utm.Config{BaseURL: "http://x"}, Commands: commands.Config{MaxConcurrent: -1}},
			wantErr: errInvalidMaxConc,
		},
		{name: "minimal", cfg: DashboardConfig{UTM: utm.Config{BaseURL: "http://x"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.cfg.Validate()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestRedacted(t *testing.T) {
	t.Parallel()

	cfg := DashboardConfig{Login: LoginConfig{Email: "a@b.c", Password: "hunter22"}}
	out := cfg.Redacted()

	assert.Equal(t, "********", out.Login.Password)
	assert.Equal(t, "hunter22", cfg.Login.Password)
}

func TestEnvLoaderRejectsNonPointer(t *testing.T) {
	t.Parallel()

	err := NewEnvConfigLoader(nil, DefaultEnvPrefix).Load(context.Background(), "", DashboardConfig{})
	require.ErrorIs(t, err, ErrDstMustBeNonNilPointer)

	n := 3
	err = NewEnvConfigLoader(nil, DefaultEnvPrefix).Load(context.Background(), "", &n)
	require.ErrorIs(t, err, ErrDstMustBePointerToStruct)
}

func TestEnvLoaderDurationField(t *testing.T) {
	t.Setenv("X_TIMEOUT", "3s")

	var dst struct {
		Timeout models.Duration `json:"timeout"`
	}

	require.NoError(t, NewEnvConfigLoader(nil, "X_").Load(context.Background(), "", &dst))
	assert.Equal(t, 3*time.Second, dst.Timeout.Std())
}

func TestEnvLoaderRejectsMalformedValues(t *testing.T) {
	t.Setenv("UTM_UTM_BASE_URL", "http://x")
	t.Setenv("UTM_POLL_INTERVAL", "soon")
	t.Setenv("UTM_HEADLESS", "maybe")

	var cfg DashboardConfig
	err := NewLoader(logger.NewTestLogger()).LoadAndValidate(context.Background(), "", &cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "UTM_POLL_INTERVAL")
	assert.Contains(t, err.Error(), "UTM_HEADLESS")
}

func TestEnvLoaderUnsupportedField(t *testing.T) {
	t.Setenv("X_LIMITS", "1,2")
	t.Setenv("X_NAME", "fleet")

	var dst struct {
		Limits []int  `json:"limits"`
		Name   string `json:"name"`
		Hidden string `json:"-"`
	}

	err := NewEnvConfigLoader(nil, "X_").Load(context.Background(), "", &dst)

	require.ErrorIs(t, err, errUnsupportedEnvField)
	assert.Equal(t, "fleet", dst.Name, "other fields are still applied")
	assert.Empty(t, dst.Hidden)
}
