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

package utm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/utm-dashboard/pkg/fakebackend"
	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
)

func newClient(t *testing.T, baseURL string, mutate ...func(*Config)) *Client {
	t.Helper()

	cfg := &Config{BaseURL: baseURL}
	for _, m := range mutate {
		m(cfg)
	}

	c, err := NewClient(cfg, logger.NewTestLogger())
	require.NoError(t, err)

	return c
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "missing url", cfg: Config{}, wantErr: ErrBaseURLRequired},
		{name: "relative url", cfg: Config{BaseURL: "utm.local"}, wantErr: errInvalidBaseURL},
		{name: "bad snapshot path", cfg: Config{BaseURL: "http://utm.local", SnapshotPath: "everything"}, wantErr: errUnknownSnapshot},
		{name: "latest state", cfg: Config{BaseURL: "http://utm.local", SnapshotPath: SnapshotLatestState}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := tc.cfg

			c, err := NewClient(&cfg, logger.NewTestLogger())
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, DefaultRequestTimeout, c.RequestTimeout())
		})
	}
}

func TestFetchSnapshotFromFakeBackend(t *testing.T) {
	t.Parallel()

	backend := fakebackend.New(fakebackend.Options{Devices: fakebackend.GenerateRoster(3, time.Now())})
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	data, err := newClient(t, srv.URL).FetchSnapshot(context.Background())
	require.NoError(t, err)

	assert.Len(t, data.DeviceData, 3)
	assert.Equal(t, 3, data.Summary().DevicesKnown)
	assert.Equal(t, models.ModeStandardTrx, data.DeviceData[0].Mode)
	assert.Equal(t, 900, data.DeviceData[0].HeartbeatSeconds)
}

func TestFetchSnapshotErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantErr: ErrUnexpectedStatus,
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"DeviceData": [`))
			},
			wantErr: ErrMalformedSnapshot,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tc.handler)
			t.Cleanup(srv.Close)

			data, err := newClient(t, srv.URL).FetchSnapshot(context.Background())
			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, data)
		})
	}
}

func TestFetchSnapshotDefaultsMissingFields(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	data, err := newClient(t, srv.URL).FetchSnapshot(context.Background())
	require.NoError(t, err)
	require.NotNil(t, data.SummaryData)
	require.NotNil(t, data.DeviceData)
	assert.Equal(t, 0, data.SummaryData.DevicesConnected)
}

func TestSnapshotPathAndHeaders(t *testing.T) {
	t.Parallel()

	requests := make(chan *http.Request, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests <- r.Clone(context.Background())
		_, _ = w.Write([]byte(`{"DeviceData":[]}`))
	}))
	t.Cleanup(srv.Close)

	c := newClient(t, srv.URL+"/utm/", func(cfg *Config) { cfg.SnapshotPath = SnapshotLatestState })

	_, err := c.FetchSnapshot(context.Background())
	require.NoError(t, err)

	got := <-requests
	assert.Equal(t, "/utm/latestState", got.URL.Path)
	assert.NotEmpty(t, got.Header.Get(headerRequestID))
	assert.Contains(t, got.Header.Get("User-Agent"), "utm-dashboard/")
}

type received struct {
	contentType string
	cmd         models.Command
}

func TestSendCommand(t *testing.T) {
	t.Parallel()

	requests := make(chan received, 2)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var cmd models.Command
		_ = json.NewDecoder(r.Body).Decode(&cmd)
		requests <- received{contentType: r.Header.Get("Content-Type"), cmd: cmd}

		if cmd.DeviceUUID == "bad" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("queued"))
	}))
	t.Cleanup(srv.Close)

	c := newClient(t, srv.URL)

	require.NoError(t, c.SendCommand(context.Background(), models.NewStopTrafficTestCommand("A")))

	got := <-requests
	assert.Equal(t, "application/json;charset=UTF-8", got.contentType)
	assert.Equal(t, "A", got.cmd.DeviceUUID)
	assert.Equal(t, "MODE_STANDARD_TRX", got.cmd.Body["mode"])

	err := c.SendCommand(context.Background(), models.NewStopTrafficTestCommand("bad"))
	require.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestRequestTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := newClient(t, srv.URL, func(cfg *Config) { cfg.RequestTimeout = models.Duration(50 * time.Millisecond) })

	err := c.SendCommand(context.Background(), models.NewStopTrafficTestCommand("A"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoginKeepsSessionForRegister(t *testing.T) {
	t.Parallel()

	backend := fakebackend.New(fakebackend.Options{Email: "ops@example.com", Password: "hunter22"})
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	c := newClient(t, srv.URL)
	ctx := context.Background()

	user := models.User{Company: "Acme", FirstName: "Ada", LastName: "L", Email: "ada@example.com", Password: "secret1"}

	require.ErrorIs(t, c.Register(ctx, user), ErrUnexpectedStatus)

	ok, err := c.Login(ctx, "ops@example.com", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.Login(ctx, "ops@example.com", "hunter22")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Register(ctx, user))
	assert.Len(t, backend.Users(), 1)
}
