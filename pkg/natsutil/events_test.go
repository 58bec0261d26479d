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

package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
)

var errTestFixture = errors.New("fixture error")

func TestEnsureSubjectList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		subjects []string
		subject  string
		want     []string
	}{
		{
			name:     "adds subject when list empty",
			subjects: nil,
			subject:  SubjectDeviceConnectivity,
			want:     []string{SubjectDeviceConnectivity},
		},
		{
			name:     "keeps list when wildcard matches",
			subjects: []string{"utm.device.*"},
			subject:  SubjectDeviceConnectivity,
			want:     []string{"utm.device.*"},
		},
		{
			name:     "keeps list when greater wildcard matches",
			subjects: []string{"utm.>"},
			subject:  SubjectCommandBatch,
			want:     []string{"utm.>"},
		},
		{
			name:     "appends when unmatched",
			subjects: []string{"utm.device.>"},
			subject:  SubjectCommandBatch,
			want:     []string{"utm.device.>", SubjectCommandBatch},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := ensureSubjectList(append([]string(nil), tc.subjects...), tc.subject)
			assert.Equal(t, tc.want, result)
		})
	}
}

func TestMatchesSubject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pattern  string
		subject  string
		expected bool
	}{
		{"exact match", "utm.commands.batch", "utm.commands.batch", true},
		{"single wildcard", "utm.*.batch", "utm.commands.batch", true},
		{"greater wildcard", "utm.>", "utm.commands.batch", true},
		{"greater wildcard needs a token", "utm.commands.>", "utm.commands", false},
		{"no match length", "utm.*", "utm.commands.batch", false},
		{"pattern longer than subject", "utm.commands.batch.extra", "utm.commands.batch", false},
		{"no match tokens", "utm.device.*", "utm.commands.batch", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, matchesSubject(tc.pattern, tc.subject))
		})
	}
}

func TestIsStreamMissingErr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"jetstream no stream response", jetstream.ErrNoStreamResponse, true},
		{"jetstream stream not found", jetstream.ErrStreamNotFound, true},
		{"nats no stream response", nats.ErrNoStreamResponse, true},
		{"nats stream not found", nats.ErrStreamNotFound, true},
		{"nats no responders", nats.ErrNoResponders, true},
		{"other error", errTestFixture, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, isStreamMissingErr(tc.err))
		})
	}
}

func TestConnectRequiresURL(t *testing.T) {
	t.Parallel()

	_, _, err := Connect(context.Background(), &models.NATSConfig{}, logger.NewTestLogger())
	require.ErrorIs(t, err, errNATSDisabled)
}

func TestConnectCreatesStreamAndPublishes(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	srv := runJetStreamServer(t)

	cfg := &models.NATSConfig{URL: srv.ClientURL()}

	pub, nc, err := Connect(ctx, cfg, logger.NewTestLogger())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	assert.Equal(t, "utm_events", pub.Stream())

	observed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, pub.PublishDeviceConnectivity(ctx, models.DeviceConnectivityEventData{
		DeviceUUID: "dev-1",
		DeviceName: "Rooftop",
		Connected:  false,
		ObservedAt: observed,
	}))

	pub.ObserveBatch(ctx, models.CommandBatchEventData{
		CommandType: string(models.CommandHeartbeatSet),
		Requested:   2,
		Succeeded:   1,
		Failed:      1,
		StartedAt:   observed,
	})

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	stream, err := js.Stream(ctx, "utm_events")
	require.NoError(t, err)

	msg, err := stream.GetLastMsgForSubject(ctx, SubjectDeviceConnectivity)
	require.NoError(t, err)

	var conn struct {
		models.CloudEvent
		Data models.DeviceConnectivityEventData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &conn))

	assert.Equal(t, "1.0", conn.SpecVersion)
	assert.Equal(t, EventTypeDeviceConnectivity, conn.Type)
	assert.Equal(t, "utm-dashboard", conn.Source)
	assert.NotEmpty(t, conn.ID)
	assert.Equal(t, "dev-1", conn.Data.DeviceUUID)
	assert.False(t, conn.Data.Connected)
	require.NotNil(t, conn.Time)
	assert.True(t, observed.Equal(*conn.Time))

	msg, err = stream.GetLastMsgForSubject(ctx, SubjectCommandBatch)
	require.NoError(t, err)

	var batch struct {
		models.CloudEvent
		Data models.CommandBatchEventData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &batch))

	assert.Equal(t, EventTypeCommandBatch, batch.Type)
	assert.Equal(t, 2, batch.Data.Requested)
	assert.Equal(t, 1, batch.Data.Failed)
}

func TestConnectWidensExistingStream(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	srv := runJetStreamServer(t)

	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     "fleet",
		Subjects: []string{"utm.device.>"},
	})
	require.NoError(t, err)

	pub, err := CreateEventPublisherWithDomain(ctx, nc, "", "fleet", "test", nil, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Equal(t, "fleet", pub.Stream())

	stream, err := js.Stream(ctx, "fleet")
	require.NoError(t, err)

	info, err := stream.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"utm.device.>", SubjectCommandBatch}, info.Config.Subjects)
}

type mockConnectivityPublisher struct {
	mock.Mock
}

func (m *mockConnectivityPublisher) PublishDeviceConnectivity(ctx context.Context, data models.DeviceConnectivityEventData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func snapshotOf(devices ...models.DeviceSnapshot) *models.FrontPageData {
	return &models.FrontPageData{DeviceData: devices}
}

func TestConnectivityTrackerDiff(t *testing.T) {
	t.Parallel()

	tracker := NewConnectivityTracker(nil, logger.NewTestLogger())
	fixed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return fixed }

	seed := tracker.Diff(snapshotOf(
		models.DeviceSnapshot{UUID: "b", Connected: true},
		models.DeviceSnapshot{UUID: "a", Connected: true},
	))
	assert.Empty(t, seed, "first snapshot only seeds")

	assert.Empty(t, tracker.Diff(snapshotOf(
		models.DeviceSnapshot{UUID: "a", Connected: true},
		models.DeviceSnapshot{UUID: "b", Connected: true},
	)))

	changes := tracker.Diff(snapshotOf(
		models.DeviceSnapshot{UUID: "b", Name: "Basement", Connected: false},
		models.DeviceSnapshot{UUID: "a", Connected: true},
		models.DeviceSnapshot{UUID: "c", Connected: true},
	))
	assert.Equal(t, []models.DeviceConnectivityEventData{
		{DeviceUUID: "b", DeviceName: "Basement", Connected: false, ObservedAt: fixed},
		{DeviceUUID: "c", Connected: true, ObservedAt: fixed},
	}, changes)

	// "c" vanishes without an event and comes back as a new device.
	assert.Empty(t, tracker.Diff(snapshotOf(models.DeviceSnapshot{UUID: "b"})))
	assert.Len(t, tracker.Diff(snapshotOf(
		models.DeviceSnapshot{UUID: "b"},
		models.DeviceSnapshot{UUID: "c"},
	)), 1)

	assert.Nil(t, tracker.Diff(nil))
}

func TestConnectivityTrackerObservePublishes(t *testing.T) {
	t.Parallel()

	pub := &mockConnectivityPublisher{}
	tracker := NewConnectivityTracker(pub, logger.NewTestLogger())

	pub.On("PublishDeviceConnectivity", mock.Anything, mock.MatchedBy(func(d models.DeviceConnectivityEventData) bool {
		return d.DeviceUUID == "a" && d.Connected
	})).Return(nil).Once()
	pub.On("PublishDeviceConnectivity", mock.Anything, mock.MatchedBy(func(d models.DeviceConnectivityEventData) bool {
		return d.DeviceUUID == "b" && !d.Connected
	})).Return(errTestFixture).Once()

	tracker.Observe(snapshotOf(
		models.DeviceSnapshot{UUID: "a", Connected: false},
		models.DeviceSnapshot{UUID: "b", Connected: true},
	))
	tracker.Observe(snapshotOf(
		models.DeviceSnapshot{UUID: "a", Connected: true},
		models.DeviceSnapshot{UUID: "b", Connected: false},
	))
	tracker.Observe(snapshotOf(
		models.DeviceSnapshot{UUID: "a", Connected: true},
		models.DeviceSnapshot{UUID: "b", Connected: false},
	))

	pub.AssertExpectations(t)
}

func TestTLSConfig(t *testing.T) {
	t.Parallel()

	_, err := TLSConfig(nil)
	require.ErrorIs(t, err, ErrTLSRequired)

	_, err = TLSConfig(&models.NATSTLS{CertFile: "client.pem"})
	require.ErrorIs(t, err, ErrTLSRequired)

	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.pem")

	_, err = TLSConfig(&models.NATSTLS{CertFile: missing, KeyFile: missing, CAFile: missing})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConnectWithSecurityRejectsBadTLS(t *testing.T) {
	t.Parallel()

	cfg := &models.NATSConfig{
		URL: "nats://127.0.0.1:1",
		TLS: &models.NATSTLS{CertFile: "x"},
	}

	_, err := ConnectWithSecurity(cfg, logger.NewTestLogger())
	require.ErrorIs(t, err, ErrTLSRequired)
}

func runJetStreamServer(t *testing.T) *server.Server {
	t.Helper()

	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
	}

	srv, err := server.NewServer(opts)
	require.NoError(t, err)

	go srv.Start()

	if !srv.ReadyForConnections(10 * time.Second) {
		srv.Shutdown()
		t.Fatalf("embedded NATS server not ready for connections")
	}

	t.Cleanup(srv.Shutdown)

	return srv
}
