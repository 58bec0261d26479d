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

package fakebackend

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/utm-dashboard/pkg/models"
)

const (
	datagramsPerTick = 5
	uplinkMsgBytes   = 40
)

var batteryLevels = []string{" max left", " > 90%", " > 70%", " > 50%", " > 30%", " > 20%", " < 10%", " > 5%"}

// GenerateRoster builds n deterministic devices. Every fourth device starts disconnected.
func GenerateRoster(n int, now time.Time) []models.DeviceSnapshot {
	devices := make([]models.DeviceSnapshot, 0, n)

	for i := 0; i < n; i++ {
		name := fmt.Sprintf("utm-%02d", i+1)
		measured := now.Add(-time.Duration(i) * time.Minute)

		devices = append(devices, models.DeviceSnapshot{
			UUID:              uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String(),
			Name:              name,
			Connected:         i%4 != 3,
			Mode:              models.ModeStandardTrx,
			ModeLabel:         models.ModeStandardTrx.String(),
			ReportingInterval: 1,
			HeartbeatSeconds:  900,
			RSRP:              models.Measurement{Value: strconv.Itoa(-80 - i), MeasuredAt: &measured},
			RSSI:              models.Measurement{Value: strconv.Itoa(-60 - i), MeasuredAt: &measured},
			CellID:            models.Measurement{Value: strconv.Itoa(31000 + i), MeasuredAt: &measured},
			TxPower:           models.Measurement{Value: "23", MeasuredAt: &measured},
			CoverageClass:     models.Measurement{Value: strconv.Itoa(i % 3), MeasuredAt: &measured},
			BatteryLevel:      batteryLevels[i%len(batteryLevels)],
			DiskSpaceLeft:     fmt.Sprintf("%d MB", 512-i*8),
			UpDuration:        (time.Duration(i+1) * time.Hour).String(),
		})
	}

	return devices
}

// Advance moves the simulation one step: connected devices report an uplink message,
// outstanding confirmations clear and running traffic tests make progress.
func (b *Backend) Advance() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock()

	for i := range b.devices {
		dev := &b.devices[i]
		if !dev.Connected {
			continue
		}

		t := now
		dev.Uplink.TotalMsgs++
		dev.Uplink.TotalBytes += uplinkMsgBytes
		dev.Uplink.LastMsgTime = &t
		dev.NumExpectedMsgs = 0

		advanceTrafficTest(dev.TrafficTest, now)
	}
}

func advanceTrafficTest(tt *models.TrafficTestStatus, now time.Time) {
	if tt == nil || !tt.Running() {
		return
	}

	step := func(c *models.TrafficTestCounts) bool {
		c.Transmitted = min(c.Transmitted+datagramsPerTick, c.Expected)
		c.Received = c.Transmitted
		c.Bytes = c.Received * c.Length

		return c.Transmitted >= c.Expected
	}

	ulDone := step(&tt.Uplink)
	dlDone := step(&tt.Downlink)

	if ulDone && dlDone {
		stopped := now
		tt.UplinkState = models.TrafficTestPass
		tt.DownlinkState = models.TrafficTestPass
		tt.StoppedAt = &stopped
	}
}

// applyCommand updates device state for cmd. Caller holds mu.
func (b *Backend) applyCommand(cmd models.Command) bool {
	var dev *models.DeviceSnapshot

	for i := range b.devices {
		if b.devices[i].UUID == cmd.DeviceUUID {
			dev = &b.devices[i]
			break
		}
	}

	if dev == nil {
		return false
	}

	now := b.clock()
	dev.NumExpectedMsgs++
	dev.Downlink.TotalMsgs++
	dev.Downlink.LastMsgTime = &now

	switch cmd.Type {
	case models.CommandTrafficTestParameters:
		dev.Mode = models.ModeTrafficTest
		dev.ModeLabel = models.ModeTrafficTest.String()
		dev.TrafficTest = &models.TrafficTestStatus{
			UplinkState:       models.TrafficTestRunning,
			DownlinkState:     models.TrafficTestRunning,
			Uplink:            models.TrafficTestCounts{Expected: bodyInt(cmd, "num_ul_datagrams"), Length: bodyInt(cmd, "len_ul_datagram")},
			Downlink:          models.TrafficTestCounts{Expected: bodyInt(cmd, "num_dl_datagrams"), Length: bodyInt(cmd, "len_dl_datagram")},
			DLIntervalSeconds: bodyInt(cmd, "dl_interval_seconds"),
			TimeoutSeconds:    bodyInt(cmd, "timeout_seconds"),
			StartedAt:         &now,
		}
	case models.CommandModeSet:
		mode := models.ParseMode(cmd.Body["mode"])
		dev.Mode = mode
		dev.ModeLabel = mode.String()

		if dev.TrafficTest.Running() {
			dev.TrafficTest.UplinkState = models.TrafficTestStopped
			dev.TrafficTest.DownlinkState = models.TrafficTestStopped
			dev.TrafficTest.StoppedAt = &now
		}
	case models.CommandHeartbeatSet:
		dev.HeartbeatSeconds = bodyInt(cmd, "heartbeat_seconds")
		dev.HeartbeatSnapToRTC = cmd.Body["heartbeat_snap_to_rtc"] == "true"
	case models.CommandReportingIntervalSet:
		dev.ReportingInterval = bodyInt(cmd, "reporting_interval")
	}

	return true
}

func bodyInt(cmd models.Command, key string) int {
	v, err := strconv.Atoi(cmd.Body[key])
	if err != nil {
		return 0
	}

	return v
}

func summarize(devices []models.DeviceSnapshot) models.SummarySnapshot {
	s := models.SummarySnapshot{DevicesKnown: len(devices)}

	for i := range devices {
		dev := &devices[i]

		if dev.Connected {
			s.DevicesConnected++
		}

		s.TotalUlMsgs += dev.Uplink.TotalMsgs
		s.TotalUlBytes += dev.Uplink.TotalBytes
		s.TotalDlMsgs += dev.Downlink.TotalMsgs
		s.TotalDlBytes += dev.Downlink.TotalBytes
		s.NumExpectedMsgs += dev.NumExpectedMsgs
		s.LastUlMsgTime = latest(s.LastUlMsgTime, dev.Uplink.LastMsgTime)
		s.LastDlMsgTime = latest(s.LastDlMsgTime, dev.Downlink.LastMsgTime)
	}

	return s
}

func latest(a, b *time.Time) *time.Time {
	if a == nil {
		return b
	}

	if b != nil && b.After(*a) {
		return b
	}

	return a
}
