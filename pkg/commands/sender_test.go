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

package commands

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/utm-dashboard/pkg/actions"
	"github.com/carverauto/utm-dashboard/pkg/dispatcher"
	"github.com/carverauto/utm-dashboard/pkg/fakebackend"
	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
	"github.com/carverauto/utm-dashboard/pkg/store"
	"github.com/carverauto/utm-dashboard/pkg/utm"
)

func newState(t *testing.T) (*store.Store, *actions.Creators) {
	t.Helper()

	d := dispatcher.New[actions.Action]()
	s := store.New(d, logger.NewTestLogger())
	t.Cleanup(func() { _ = s.Close() })

	return s, actions.NewCreators(d)
}

func devices(uuids ...string) []models.DeviceSnapshot {
	out := make([]models.DeviceSnapshot, 0, len(uuids))
	for _, u := range uuids {
		out = append(out, models.DeviceSnapshot{UUID: u, Name: "dev-" + u, Connected: true})
	}

	return out
}

func TestSendTrafficTestParametersEndToEnd(t *testing.T) {
	t.Parallel()

	backend := fakebackend.New(fakebackend.Options{Devices: devices("A", "B", "C")})
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client, err := utm.NewClient(&utm.Config{BaseURL: srv.URL}, logger.NewTestLogger())
	require.NoError(t, err)

	state, creators := newState(t)
	require.NoError(t, creators.SetUUIDChecked("A"))
	require.NoError(t, creators.SetUUIDChecked("B"))
	require.NoError(t, creators.SetTTNumULDatagrams(50))

	sender := NewSender(client, state, Config{}, logger.NewTestLogger())

	result, err := sender.SendTrafficTestParameters(context.Background(), sender.Targets(backend.Devices()))
	require.NoError(t, err)
	require.NoError(t, result.Err())
	assert.Equal(t, 2, result.Succeeded())

	cmds := backend.Commands()
	require.Len(t, cmds, 2)

	seen := map[string]bool{}

	for _, cmd := range cmds {
		seen[cmd.DeviceUUID] = true

		assert.Equal(t, models.CommandTrafficTestParameters, cmd.Type)
		assert.Equal(t, "50", cmd.Body["num_ul_datagrams"])
	}

	assert.Equal(t, map[string]bool{"A": true, "B": true}, seen)
	assert.Equal(t, cmds[0].Body, cmds[1].Body)
}

func TestFailuresAreIndependent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := NewMockCommandSender(ctrl)
	observer := NewMockBatchObserver(ctrl)

	errDown := errors.New("connection refused")

	client.EXPECT().SendCommand(gomock.Any(), models.NewStopTrafficTestCommand("A")).Return(nil)
	client.EXPECT().SendCommand(gomock.Any(), models.NewStopTrafficTestCommand("B")).Return(errDown)
	client.EXPECT().SendCommand(gomock.Any(), models.NewStopTrafficTestCommand("C")).Return(nil)

	observer.EXPECT().ObserveBatch(gomock.Any(), gomock.Any()).Do(func(_ context.Context, ev models.CommandBatchEventData) {
		assert.Equal(t, string(models.CommandModeSet), ev.CommandType)
		assert.Equal(t, 3, ev.Requested)
		assert.Equal(t, 1, ev.Failed)
		assert.False(t, ev.Outcomes[1].OK)
		assert.Contains(t, ev.Outcomes[1].Error, "connection refused")
	})

	state, _ := newState(t)
	sender := NewSender(client, state, Config{}, logger.NewTestLogger(), WithObserver(observer))

	result, err := sender.StopTrafficTest(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded())
	assert.Equal(t, 1, result.Failed())
	require.ErrorIs(t, result.Err(), errDown)
	assert.Equal(t, "B", result.Outcomes[1].DeviceUUID)
}

func TestHeartbeatAndReportingBodies(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := NewMockCommandSender(ctrl)

	state, creators := newState(t)
	require.NoError(t, creators.SetHeartbeatSeconds(120))
	require.NoError(t, creators.SetHeartbeatSnapToRTC(true))
	require.NoError(t, creators.SetReportingInterval(4))

	client.EXPECT().SendCommand(gomock.Any(), models.NewHeartbeatCommand("A", 120, true)).Return(nil)
	client.EXPECT().SendCommand(gomock.Any(), models.NewReportingIntervalCommand("A", 4)).Return(nil)

	sender := NewSender(client, state, Config{}, logger.NewTestLogger())

	_, err := sender.SendHeartbeat(context.Background(), []string{"A"})
	require.NoError(t, err)

	_, err = sender.SendReportingInterval(context.Background(), []string{"A"})
	require.NoError(t, err)
}

func TestNoTargets(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	state, _ := newState(t)
	sender := NewSender(NewMockCommandSender(ctrl), state, Config{}, logger.NewTestLogger())

	_, err := sender.SendTrafficTestParameters(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoTargets)
}

func TestTargets(t *testing.T) {
	t.Parallel()

	state, creators := newState(t)
	require.NoError(t, creators.CheckAll([]string{"C", "A", "gone"}))

	sender := NewSender(nil, state, Config{}, logger.NewTestLogger())

	assert.Equal(t, []string{"C", "A"}, sender.Targets(devices("C", "B", "A")))
	assert.Equal(t, []string{"A", "C", "gone"}, sender.Targets(nil))
	assert.Empty(t, sender.Targets(devices("B")))
}

func TestConcurrencyLimit(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := NewMockCommandSender(ctrl)

	var inFlight, peak atomic.Int32

	client.EXPECT().SendCommand(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, models.Command) error {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)

		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}

		time.Sleep(10 * time.Millisecond)

		return nil
	}).Times(10)

	state, _ := newState(t)
	sender := NewSender(client, state, Config{MaxConcurrent: 2}, logger.NewTestLogger())

	targets := make([]string, 10)
	for i := range targets {
		targets[i] = string(rune('A' + i))
	}

	result, err := sender.StopTrafficTest(context.Background(), targets)
	require.NoError(t, err)
	assert.Equal(t, 10, result.Succeeded())
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestPerRequestTimeout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := NewMockCommandSender(ctrl)

	var mu sync.Mutex

	deadlines := 0

	client.EXPECT().SendCommand(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, cmd models.Command) error {
		if cmd.DeviceUUID == "fast" {
			return nil
		}

		<-ctx.Done()

		mu.Lock()
		deadlines++
		mu.Unlock()

		return ctx.Err()
	}).Times(2)

	state, _ := newState(t)
	sender := NewSender(client, state, Config{RequestTimeout: models.Duration(20 * time.Millisecond)}, logger.NewTestLogger())

	result, err := sender.StopTrafficTest(context.Background(), []string{"slow", "fast"})
	require.NoError(t, err)

	require.ErrorIs(t, result.Outcomes[0].Err, context.DeadlineExceeded)
	require.NoError(t, result.Outcomes[1].Err)
	assert.Equal(t, 1, deadlines)
}
