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
	"sort"
	"sync"
	"time"

	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
)

// ConnectivityPublisher receives connectivity transitions.
type ConnectivityPublisher interface {
	PublishDeviceConnectivity(ctx context.Context, data models.DeviceConnectivityEventData) error
}

// ConnectivityTracker turns successive snapshots into connected/disconnected transitions.
// The first snapshot only records state. Devices that join later are reported with their
// current state; devices that vanish are forgotten silently.
type ConnectivityTracker struct {
	mu      sync.Mutex
	pub     ConnectivityPublisher
	logger  logger.Logger
	now     func() time.Time
	timeout time.Duration
	seeded  bool
	known   map[string]bool
}

// NewConnectivityTracker returns a tracker that publishes through pub.
func NewConnectivityTracker(pub ConnectivityPublisher, log logger.Logger) *ConnectivityTracker {
	return &ConnectivityTracker{
		pub:     pub,
		logger:  log,
		now:     time.Now,
		timeout: defaultPublishTimeout,
		known:   make(map[string]bool),
	}
}

// Diff records snap and returns the transitions since the previous snapshot, ordered by UUID.
func (t *ConnectivityTracker) Diff(snap *models.FrontPageData) []models.DeviceConnectivityEventData {
	if snap == nil {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	at := t.now()
	next := make(map[string]bool, len(snap.DeviceData))

	var changes []models.DeviceConnectivityEventData

	for _, d := range snap.Devices() {
		next[d.UUID] = d.Connected

		prev, ok := t.known[d.UUID]
		if !t.seeded || (ok && prev == d.Connected) {
			continue
		}

		changes = append(changes, models.DeviceConnectivityEventData{
			DeviceUUID: d.UUID,
			DeviceName: d.Name,
			Connected:  d.Connected,
			ObservedAt: at,
		})
	}

	t.known = next
	t.seeded = true

	sort.Slice(changes, func(i, j int) bool { return changes[i].DeviceUUID < changes[j].DeviceUUID })

	return changes
}

// Observe diffs snap and publishes each transition. It matches the poller's subscriber signature.
func (t *ConnectivityTracker) Observe(snap *models.FrontPageData) {
	changes := t.Diff(snap)
	if len(changes) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	for _, c := range changes {
		if err := t.pub.PublishDeviceConnectivity(ctx, c); err != nil {
			t.logger.Warn().Err(err).
				Str("device_uuid", c.DeviceUUID).
				Bool("connected", c.Connected).
				Msg("Failed to publish connectivity event")
		}
	}
}
