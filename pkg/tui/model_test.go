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

package tui

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/utm-dashboard/pkg/account"
	"github.com/carverauto/utm-dashboard/pkg/actions"
	"github.com/carverauto/utm-dashboard/pkg/commands"
	"github.com/carverauto/utm-dashboard/pkg/dispatcher"
	"github.com/carverauto/utm-dashboard/pkg/limits"
	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
	"github.com/carverauto/utm-dashboard/pkg/poller"
	"github.com/carverauto/utm-dashboard/pkg/store"
)

var (
	errClipboard = errors.New("no clipboard")
	fixedNow     = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

type harness struct {
	model    *Model
	store    *store.Store
	creators *actions.Creators
	disp     *dispatcher.Dispatcher[actions.Action]
	cmdr     *MockCommander
	session  *MockSession
	snaps    *MockSnapshotSource
	copied   []string
	clipErr  error
	status   poller.Status
}

func testSnapshot() *models.FrontPageData {
	lastUl := fixedNow.Add(-5 * time.Second)

	return (&models.FrontPageData{
		SummaryData: &models.SummarySnapshot{
			DevicesKnown:     3,
			DevicesConnected: 2,
			TotalUlMsgs:      42,
			LastUlMsgTime:    &lastUl,
			NumExpectedMsgs:  1,
		},
		DeviceData: []models.DeviceSnapshot{
			{UUID: "uuid-a", Name: "Alpha", Connected: true, Mode: models.ModeStandardTrx},
			{UUID: "uuid-b", Name: "Bravo", Connected: true, BatteryLevel: " < 10%"},
			{UUID: "uuid-c", Name: "Charlie"},
		},
	}).Normalize()
}

func newHarness(t *testing.T, loggedIn bool, snap *models.FrontPageData) *harness {
	t.Helper()

	ctrl := gomock.NewController(t)

	h := &harness{
		disp:    dispatcher.New[actions.Action](),
		cmdr:    NewMockCommander(ctrl),
		session: NewMockSession(ctrl),
		snaps:   NewMockSnapshotSource(ctrl),
	}

	h.store = store.New(h.disp, logger.NewTestLogger())
	t.Cleanup(func() { _ = h.store.Close() })

	h.creators = actions.NewCreators(h.disp)
	require.NoError(t, h.creators.SetIsLoggedIn(loggedIn))

	h.snaps.EXPECT().Latest().Return(snap).AnyTimes()
	h.snaps.EXPECT().Status().DoAndReturn(func() poller.Status { return h.status }).AnyTimes()

	h.model = New(context.Background(), Deps{
		State:      h.store,
		Creators:   h.creators,
		Commands:   h.cmdr,
		Session:    h.session,
		Snapshots:  h.snaps,
		Logger:     logger.NewTestLogger(),
		LoginEmail: "ops@example.com",
		Clipboard: func(s string) error {
			if h.clipErr != nil {
				return h.clipErr
			}

			h.copied = append(h.copied, s)

			return nil
		},
		Now: func() time.Time { return fixedNow },
	})

	return h
}

func (h *harness) press(k string) tea.Cmd {
	var msg tea.KeyMsg

	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		msg = tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}

	_, cmd := h.model.Update(msg)

	return cmd
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.press(string(r))
	}
}

// run executes cmd and feeds its message back into the model.
func (h *harness) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)

	msg := cmd()
	_, _ = h.model.Update(msg)
}

func TestNewChoosesStartingView(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ViewLogin, newHarness(t, false, nil).model.CurrentView())
	assert.Equal(t, ViewDashboard, newHarness(t, true, nil).model.CurrentView())
}

func TestEscapeFromLoginShowsDashboard(t *testing.T) {
	t.Parallel()

	h := newHarness(t, false, testSnapshot())
	h.press("esc")

	assert.Equal(t, ViewDashboard, h.model.CurrentView())
	assert.Contains(t, h.model.View(), "Alpha")
	assert.Contains(t, h.model.View(), "[Not logged in]")
}

func TestDashboardChecking(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true, testSnapshot())

	h.press(" ")
	assert.Equal(t, []string{"uuid-a"}, h.store.CheckedUUIDs())

	h.press("down")
	h.press(" ")
	assert.Equal(t, []string{"uuid-a", "uuid-b"}, h.store.CheckedUUIDs())

	h.press(" ")
	assert.Equal(t, []string{"uuid-a"}, h.store.CheckedUUIDs())

	h.press("a")
	assert.Equal(t, 3, h.store.CheckedCount())
	assert.Contains(t, h.model.View(), "3 checked")

	h.press("n")
	assert.Zero(t, h.store.CheckedCount())
}

func TestDashboardSendCommands(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true, testSnapshot())
	require.NoError(t, h.creators.SetUUIDChecked("uuid-b"))

	targets := []string{"uuid-b"}
	h.cmdr.EXPECT().Targets(testSnapshot().Devices()).Return(targets).Times(4)

	ok := &commands.BatchResult{Outcomes: []commands.Outcome{{DeviceUUID: "uuid-b"}}}
	failed := &commands.BatchResult{Outcomes: []commands.Outcome{{DeviceUUID: "uuid-b", Err: errClipboard}}}

	h.cmdr.EXPECT().SendTrafficTestParameters(gomock.Any(), targets).Return(ok, nil)
	h.cmdr.EXPECT().StopTrafficTest(gomock.Any(), targets).Return(failed, nil)
	h.cmdr.EXPECT().SendHeartbeat(gomock.Any(), targets).Return(ok, nil)
	h.cmdr.EXPECT().SendReportingInterval(gomock.Any(), targets).Return(nil, commands.ErrNoTargets)

	h.run(t, h.press("p"))
	assert.Equal(t, "traffic test parameters: 1 ok, 0 failed", h.model.flash)
	assert.False(t, h.model.flashErr)

	h.run(t, h.press("x"))
	assert.Equal(t, "stop traffic test: 0 ok, 1 failed", h.model.flash)
	assert.True(t, h.model.flashErr)

	h.run(t, h.press("h"))
	assert.Equal(t, "heartbeat: 1 ok, 0 failed", h.model.flash)

	h.run(t, h.press("r"))
	assert.True(t, h.model.flashErr)
	assert.Contains(t, h.model.flash, "reporting interval")
}

func TestDashboardSendWithoutTargets(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true, nil)
	h.cmdr.EXPECT().Targets(nil).Return(nil)

	assert.Nil(t, h.press("p"))
	assert.Equal(t, "No checked devices", h.model.flash)
}

func TestDashboardCopy(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true, testSnapshot())
	h.press("down")
	h.press("c")
	assert.Equal(t, []string{"uuid-b"}, h.copied)

	h.clipErr = errClipboard
	h.press("c")
	assert.True(t, h.model.flashErr)
}

// applyLogin mirrors account.Session.ApplyLoginResult against the harness store.
func (h *harness) applyLogin(loginErr error) error {
	if err := h.creators.SetIsLoggedIn(loginErr == nil); err != nil {
		return errors.Join(loginErr, err)
	}

	return loginErr
}

func TestLoginFlow(t *testing.T) {
	t.Parallel()

	h := newHarness(t, false, testSnapshot())

	gomock.InOrder(
		h.session.EXPECT().Authenticate(gomock.Any(), "ops@example.com", "wrong").Return(account.ErrLoginRejected),
		h.session.EXPECT().ApplyLoginResult(account.ErrLoginRejected).DoAndReturn(h.applyLogin),
		h.session.EXPECT().Authenticate(gomock.Any(), "ops@example.com", "secret").Return(nil),
		h.session.EXPECT().ApplyLoginResult(gomock.Nil()).DoAndReturn(h.applyLogin),
	)

	h.typeText("wrong")
	h.run(t, h.press("enter"))

	assert.Equal(t, ViewLogin, h.model.CurrentView())
	require.ErrorIs(t, h.model.login.err, account.ErrLoginRejected)
	assert.Empty(t, h.model.login.inputs[loginPassword].Value(), "password is cleared after an attempt")
	assert.False(t, h.store.IsLoggedIn())

	h.typeText("secret")
	h.run(t, h.press("enter"))

	assert.Equal(t, ViewDashboard, h.model.CurrentView())
	assert.True(t, h.store.IsLoggedIn())
	assert.Contains(t, h.model.View(), "[Logged in]")
}

func TestLoginInFlightDoesNotBlockDashboardDispatch(t *testing.T) {
	t.Parallel()

	h := newHarness(t, false, testSnapshot())

	release := make(chan struct{})
	started := make(chan struct{})

	h.session.EXPECT().Authenticate(gomock.Any(), "ops@example.com", "secret").DoAndReturn(
		func(context.Context, string, string) error {
			close(started)
			<-release

			return nil
		})
	h.session.EXPECT().ApplyLoginResult(gomock.Nil()).DoAndReturn(h.applyLogin)

	h.typeText("secret")
	cmd := h.press("enter")
	require.NotNil(t, cmd)

	results := make(chan tea.Msg, 1)

	go func() { results <- cmd() }()

	<-started

	// the operator keeps working while the login request is outstanding
	h.press("esc")
	require.Equal(t, ViewDashboard, h.model.CurrentView())
	h.press("a")
	h.press(" ")

	assert.False(t, h.model.flashErr, h.model.flash)
	assert.Equal(t, []string{"uuid-b", "uuid-c"}, h.store.CheckedUUIDs())

	close(release)
	_, _ = h.model.Update(<-results)

	assert.True(t, h.store.IsLoggedIn())
	assert.Equal(t, ViewDashboard, h.model.CurrentView())
	assert.Equal(t, "Logged in as ops@example.com", h.model.flash)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true, nil)
	h.session.EXPECT().Logout().DoAndReturn(func() error { return h.creators.SetIsLoggedIn(false) })

	h.press("L")
	assert.False(t, h.store.IsLoggedIn())
	assert.Equal(t, "Logged out", h.model.flash)
}

func TestSettingsClampAndDispatch(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true, nil)
	h.press("s")
	require.Equal(t, ViewSettings, h.model.CurrentView())

	first := h.model.settings.current()
	assert.Equal(t, "900", first.input.Value())

	for range 3 {
		h.press("backspace")
	}

	h.typeText("5")
	h.press("tab")

	assert.Equal(t, limits.HeartbeatSeconds.Min, h.store.HeartbeatSeconds())
	assert.Equal(t, "15", first.input.Value())

	// the second row is the snap-to-RTC option
	h.press(" ")
	assert.True(t, h.store.HeartbeatSnapToRTC())

	h.press("tab")
	for range 2 {
		h.press("backspace")
	}

	h.typeText("99")
	h.press("esc")

	assert.Equal(t, ViewDashboard, h.model.CurrentView())
	assert.Equal(t, limits.ReportingInterval.Max, h.store.ReportingInterval())
}

func TestSettingsEmptyInputClampsToMin(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true, nil)
	h.press("s")

	for range 3 {
		h.press("backspace")
	}

	h.press("enter")
	assert.Equal(t, limits.HeartbeatSeconds.Min, h.store.HeartbeatSeconds())
	assert.Equal(t, ViewSettings, h.model.CurrentView())
}

func TestRegisterRequiresLogin(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true, nil)
	require.NoError(t, h.creators.SetIsLoggedIn(false))

	h.press("u")
	assert.Equal(t, ViewDashboard, h.model.CurrentView())
	assert.Equal(t, "Log in to register users", h.model.flash)
}

func TestRegisterDispatchesAddUser(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true, nil)

	var added []models.User

	h.disp.Register(func(a actions.Action) {
		if u, ok := a.(actions.AddUser); ok {
			added = append(added, u.User)
		}
	})

	h.press("u")
	require.Equal(t, ViewRegister, h.model.CurrentView())

	fill := func(values ...string) {
		for i, v := range values {
			h.typeText(v)

			if i < len(values)-1 {
				h.press("tab")
			}
		}
	}

	fill("Carver", "Ada", "Lovelace", "ada@example.com", "secret1", "secret2")
	h.press("enter")

	assert.Equal(t, ViewRegister, h.model.CurrentView())
	require.ErrorIs(t, h.model.register.err, models.ErrPasswordMismatch)
	assert.Empty(t, added)

	h.press("backspace")
	h.typeText("1")
	h.press("enter")

	assert.Equal(t, ViewDashboard, h.model.CurrentView())
	require.Len(t, added, 1)
	assert.Equal(t, models.User{
		Company:   "Carver",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "secret1",
	}, added[0])
}

func TestDownloadsView(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true, nil)
	require.NoError(t, h.creators.SetIsLoggedIn(false))

	h.press("d")
	assert.Equal(t, ViewDownloads, h.model.CurrentView())
	assert.Contains(t, h.model.View(), "[Not logged in]")

	require.NoError(t, h.creators.SetIsLoggedIn(true))
	assert.Contains(t, h.model.View(), "User Manual")

	h.press("esc")
	assert.Equal(t, ViewDashboard, h.model.CurrentView())
}

func TestStaleBannerShown(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true, testSnapshot())
	assert.NotContains(t, h.model.View(), "STALE")

	h.status = poller.Status{Stale: true, LastSuccess: fixedNow.Add(-30 * time.Second), ConsecutiveFailures: 4}
	assert.Contains(t, h.model.View(), "STALE DATA: last update 30s ago, 4 failed polls")
}

func TestSnapshotMessageRefreshesRows(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true, nil)
	_, ok := h.model.selectedUUID()
	assert.False(t, ok)

	_, _ = h.model.Update(snapshotMsg{data: testSnapshot()})

	uuid, ok := h.model.selectedUUID()
	require.True(t, ok)
	assert.Equal(t, "uuid-a", uuid)
}

func TestStoreChangeResyncsSettings(t *testing.T) {
	t.Parallel()

	h := newHarness(t, true, nil)
	require.NoError(t, h.creators.SetReportingInterval(7))

	_, _ = h.model.Update(storeChangedMsg{})
	assert.Equal(t, "7", h.model.settings.entries[2].input.Value())
}

func TestStaleBanner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		st   poller.Status
		want string
	}{
		{name: "fresh", st: poller.Status{LastSuccess: fixedNow}, want: ""},
		{name: "never fetched", st: poller.Status{Stale: true, LastError: "connection refused"}, want: "NO DATA: connection refused"},
		{name: "old", st: poller.Status{Stale: true, LastSuccess: fixedNow.Add(-12 * time.Second)}, want: "STALE DATA: last update 12s ago"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, staleBanner(tc.st, fixedNow))
		})
	}
}

func TestSummaryLine(t *testing.T) {
	t.Parallel()

	line := SummaryLine(testSnapshot().Summary(), fixedNow)
	assert.Equal(t, "Devices 2/3 connected | UL 42 msgs, last 5s ago | DL 0 msgs, last never | Confirmations outstanding 1", line)
}

func TestDeviceRow(t *testing.T) {
	t.Parallel()

	snap := testSnapshot()

	row := deviceRow(&snap.DeviceData[1], true)
	assert.Equal(t, "[x]", row[0])
	assert.Equal(t, "up", row[1])
	assert.Equal(t, "Bravo", row[2])
	assert.Equal(t, "!low", row[10])
	assert.Equal(t, "-", row[11])

	tt := &models.TrafficTestStatus{
		UplinkState:   models.TrafficTestPass,
		DownlinkState: models.TrafficTestRunning,
		Uplink:        models.TrafficTestCounts{Expected: 50, Transmitted: 50, Received: 60},
		Downlink:      models.TrafficTestCounts{Expected: 50, Transmitted: 10, Received: 5},
	}
	assert.Equal(t, "UL 100% DL  10% "+models.TrafficTestRunning.String(), trafficTestCell(tt))
}

func TestHeadlessReport(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	snaps := NewMockSnapshotSource(ctrl)
	snaps.EXPECT().Status().Return(poller.Status{TotalPolls: 3})

	var buf bytes.Buffer

	h := NewHeadless(snaps, logger.NewBufferLogger(&buf))
	h.now = func() time.Time { return fixedNow }
	h.Report(testSnapshot())

	out := buf.String()
	assert.Contains(t, out, `"devices_known":3`)
	assert.Contains(t, out, `"polls":3`)
	assert.Contains(t, out, "Devices 2/3 connected")
}

func TestHeadlessStartStop(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	snaps := NewMockSnapshotSource(ctrl)

	unsubscribed := make(chan struct{})
	subscribed := make(chan struct{})

	snaps.EXPECT().Subscribe(gomock.Any()).DoAndReturn(func(poller.Subscriber) func() {
		close(subscribed)
		return func() { close(unsubscribed) }
	})

	h := NewHeadless(snaps, logger.NewTestLogger())

	errCh := make(chan error, 1)

	go func() { errCh <- h.Start(context.Background()) }()

	<-subscribed
	require.NoError(t, h.Stop(context.Background()))
	require.NoError(t, <-errCh)
	<-unsubscribed
}
