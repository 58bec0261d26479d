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

//go:generate mockgen -destination=mock_tui.go -package=tui github.com/carverauto/utm-dashboard/pkg/tui Commander,Session,SnapshotSource

import (
	"context"

	"github.com/carverauto/utm-dashboard/pkg/commands"
	"github.com/carverauto/utm-dashboard/pkg/models"
	"github.com/carverauto/utm-dashboard/pkg/poller"
	"github.com/carverauto/utm-dashboard/pkg/store"
)

// State is the read side of the store.
type State interface {
	IsUUIDChecked(uuid string) bool
	CheckedUUIDs() []string
	CheckedCount() int
	IsLoggedIn() bool
	HeartbeatSeconds() int
	HeartbeatSnapToRTC() bool
	ReportingInterval() int
	TrafficTestParameters() models.TrafficTestParameters
}

// Commander sends command batches to the checked devices.
type Commander interface {
	Targets(devices []models.DeviceSnapshot) []string
	SendTrafficTestParameters(ctx context.Context, targets []string) (*commands.BatchResult, error)
	StopTrafficTest(ctx context.Context, targets []string) (*commands.BatchResult, error)
	SendHeartbeat(ctx context.Context, targets []string) (*commands.BatchResult, error)
	SendReportingInterval(ctx context.Context, targets []string) (*commands.BatchResult, error)
}

// Session logs the operator in and out. Authenticate runs in a command goroutine and never
// dispatches; ApplyLoginResult and Logout dispatch and are only called from Update.
type Session interface {
	Authenticate(ctx context.Context, email, password string) error
	ApplyLoginResult(loginErr error) error
	Logout() error
}

// SnapshotSource is the poller as seen by the UI.
type SnapshotSource interface {
	Latest() *models.FrontPageData
	Status() poller.Status
	Subscribe(fn poller.Subscriber) func()
}

// ChangeNotifier is the store's listener registry.
type ChangeNotifier interface {
	AddChangeListener(fn func()) store.ListenerID
	RemoveChangeListener(id store.ListenerID)
}
