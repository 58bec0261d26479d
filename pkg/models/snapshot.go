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

package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FrontPageData is one poll response from the UTM server. Either half may be absent on the wire;
// call Normalize before handing it to render code.
type FrontPageData struct {
	SummaryData *SummarySnapshot `json:"SummaryData,omitempty"`
	DeviceData  []DeviceSnapshot `json:"DeviceData"`
}

// Normalize replaces a missing summary or device list with an empty value and returns d.
func (d *FrontPageData) Normalize() *FrontPageData {
	if d.SummaryData == nil {
		d.SummaryData = &SummarySnapshot{}
	}

	if d.DeviceData == nil {
		d.DeviceData = []DeviceSnapshot{}
	}

	return d
}

// Summary returns the aggregate counters, or the zero value when d is nil or unnormalized.
func (d *FrontPageData) Summary() SummarySnapshot {
	if d == nil || d.SummaryData == nil {
		return SummarySnapshot{}
	}

	return *d.SummaryData
}

// Devices returns the device list, never nil.
func (d *FrontPageData) Devices() []DeviceSnapshot {
	if d == nil || d.DeviceData == nil {
		return []DeviceSnapshot{}
	}

	return d.DeviceData
}

// Device looks up a device by UUID.
func (d *FrontPageData) Device(uuid string) (DeviceSnapshot, bool) {
	for _, dev := range d.Devices() {
		if dev.UUID == uuid {
			return dev, true
		}
	}

	return DeviceSnapshot{}, false
}

// UUIDs lists the device UUIDs in roster order.
func (d *FrontPageData) UUIDs() []string {
	devices := d.Devices()
	out := make([]string, 0, len(devices))

	for i := range devices {
		out = append(out, devices[i].UUID)
	}

	return out
}

// SummarySnapshot aggregates counters across the fleet.
type SummarySnapshot struct {
	TotalUlMsgs      uint64     `json:"TotalUlMsgs"`
	TotalUlBytes     uint64     `json:"TotalUlBytes"`
	LastUlMsgTime    *time.Time `json:"LastUlMsgTime,omitempty"`
	TotalDlMsgs      uint64     `json:"TotalDlMsgs"`
	TotalDlBytes     uint64     `json:"TotalDlBytes"`
	LastDlMsgTime    *time.Time `json:"LastDlMsgTime,omitempty"`
	DevicesKnown     int        `json:"DevicesKnown"`
	DevicesConnected int        `json:"DevicesConnected"`
	NumExpectedMsgs  int        `json:"NumExpectedMsgs"`
}

// TrafficCounters are the running totals for one direction.
type TrafficCounters struct {
	TotalMsgs   uint64
	TotalBytes  uint64
	LastMsgTime *time.Time
}

// Measurement is a radio metric and when the device measured it.
type Measurement struct {
	Value      string
	MeasuredAt *time.Time
}

// DeviceSnapshot is the read-only state of one UTM as of the latest poll.
type DeviceSnapshot struct {
	UUID              string
	Name              string
	Connected         bool
	Mode              Mode
	ModeLabel         string
	ReportingInterval int
	HeartbeatSeconds  int
	// HeartbeatSnapToRTC is shown by the server as a trailing "*" on the heartbeat.
	HeartbeatSnapToRTC bool
	Uplink             TrafficCounters
	Downlink           TrafficCounters
	RSRP               Measurement
	RSSI               Measurement
	CellID             Measurement
	TxPower            Measurement
	CoverageClass      Measurement
	BatteryLevel       string
	DiskSpaceLeft      string
	UpDuration         string
	TxTime             string
	RxTime             string
	NumExpectedMsgs    int
	TrafficTest        *TrafficTestStatus
}

// Battery classifies the reported battery bucket.
func (d *DeviceSnapshot) Battery() BatteryBucket {
	return ParseBatteryBucket(d.BatteryLevel)
}

// deviceWire mirrors the UTM server's JSON for one device row.
type deviceWire struct {
	UUID                string           `json:"Uuid"`
	DeviceName          string           `json:"DeviceName"`
	Connected           bool             `json:"Connected"`
	UpDuration          string           `json:"UpDuration,omitempty"`
	Mode                string           `json:"Mode,omitempty"`
	TotalUlMsgs         uint64           `json:"TotalUlMsgs"`
	TotalUlBytes        uint64           `json:"TotalUlBytes"`
	LastUlMsgTime       *time.Time       `json:"LastUlMsgTime,omitempty"`
	TotalDlMsgs         uint64           `json:"TotalDlMsgs"`
	TotalDlBytes        uint64           `json:"TotalDlBytes"`
	LastDlMsgTime       *time.Time       `json:"LastDlMsgTime,omitempty"`
	BatteryLevel        string           `json:"BatteryLevel,omitempty"`
	DiskSpaceLeft       string           `json:"DiskSpaceLeft,omitempty"`
	Reporting           wireInterval     `json:"Reporting"`
	Heartbeat           wireInterval     `json:"Heartbeat"`
	NumExpectedMsgs     int              `json:"NumExpectedMsgs"`
	Rsrp                string           `json:"Rsrp,omitempty"`
	RsrpTime            *time.Time       `json:"RsrpTime,omitempty"`
	Rssi                string           `json:"Rssi,omitempty"`
	RssiTime            *time.Time       `json:"RssiTime,omitempty"`
	CellID              string           `json:"CellId,omitempty"`
	CellIDTime          *time.Time       `json:"CellIdTime,omitempty"`
	TxPower             string           `json:"TxPower,omitempty"`
	TxPowerTime         *time.Time       `json:"TxPowerTime,omitempty"`
	CoverageClass       string           `json:"CoverageClass,omitempty"`
	CoverageClassTime   *time.Time       `json:"CoverageClassTime,omitempty"`
	TxTime              string           `json:"TxTime,omitempty"`
	RxTime              string           `json:"RxTime,omitempty"`
	TtUlExpected        int              `json:"TtUlExpected,omitempty"`
	TtUlLength          int              `json:"TtUlLength,omitempty"`
	TtDlExpected        int              `json:"TtDlExpected,omitempty"`
	TtDlInterval        int              `json:"TtDlInterval,omitempty"`
	TtDlLength          int              `json:"TtDlLength,omitempty"`
	TtTimeout           int              `json:"TtTimeout,omitempty"`
	TtTimeStarted       *time.Time       `json:"TtTimeStarted,omitempty"`
	TtTimeStopped       *time.Time       `json:"TtTimeStopped,omitempty"`
	TtDlDatagramsTx     int              `json:"TtDlDatagramsTx,omitempty"`
	TtDlDatagramsRx     int              `json:"TtDlDatagramsRx,omitempty"`
	TtDlDatagramsMissed int              `json:"TtDlDatagramsMissed,omitempty"`
	TtDlBytes           int              `json:"TtDlBytes,omitempty"`
	TtUlDatagramsTx     int              `json:"TtUlDatagramsTx,omitempty"`
	TtUlDatagramsRx     int              `json:"TtUlDatagramsRx,omitempty"`
	TtUlDatagramsMissed int              `json:"TtUlDatagramsMissed,omitempty"`
	TtUlBytes           int              `json:"TtUlBytes,omitempty"`
	TtUlState           TrafficTestState `json:"TtUlState"`
	TtDlState           TrafficTestState `json:"TtDlState"`
}

func (d *DeviceSnapshot) UnmarshalJSON(b []byte) error {
	var w deviceWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*d = DeviceSnapshot{
		UUID:               w.UUID,
		Name:               w.DeviceName,
		Connected:          w.Connected,
		Mode:               ParseMode(w.Mode),
		ModeLabel:          w.Mode,
		ReportingInterval:  reportingFromWire(w.Reporting, w.Heartbeat),
		HeartbeatSeconds:   w.Heartbeat.seconds,
		HeartbeatSnapToRTC: w.Heartbeat.snap,
		Uplink:             TrafficCounters{TotalMsgs: w.TotalUlMsgs, TotalBytes: w.TotalUlBytes, LastMsgTime: w.LastUlMsgTime},
		Downlink:           TrafficCounters{TotalMsgs: w.TotalDlMsgs, TotalBytes: w.TotalDlBytes, LastMsgTime: w.LastDlMsgTime},
		RSRP:               Measurement{Value: w.Rsrp, MeasuredAt: w.RsrpTime},
		RSSI:               Measurement{Value: w.Rssi, MeasuredAt: w.RssiTime},
		CellID:             Measurement{Value: w.CellID, MeasuredAt: w.CellIDTime},
		TxPower:            Measurement{Value: w.TxPower, MeasuredAt: w.TxPowerTime},
		CoverageClass:      Measurement{Value: w.CoverageClass, MeasuredAt: w.CoverageClassTime},
		BatteryLevel:       w.BatteryLevel,
		DiskSpaceLeft:      w.DiskSpaceLeft,
		UpDuration:         w.UpDuration,
		TxTime:             w.TxTime,
		RxTime:             w.RxTime,
		NumExpectedMsgs:    w.NumExpectedMsgs,
		TrafficTest:        trafficTestFromWire(&w),
	}

	return nil
}

func (d DeviceSnapshot) MarshalJSON() ([]byte, error) {
	label := d.ModeLabel
	if label == "" && d.Mode != ModeUnknown {
		label = d.Mode.String()
	}

	w := deviceWire{
		UUID:              d.UUID,
		DeviceName:        d.Name,
		Connected:         d.Connected,
		UpDuration:        d.UpDuration,
		Mode:              label,
		TotalUlMsgs:       d.Uplink.TotalMsgs,
		TotalUlBytes:      d.Uplink.TotalBytes,
		LastUlMsgTime:     d.Uplink.LastMsgTime,
		TotalDlMsgs:       d.Downlink.TotalMsgs,
		TotalDlBytes:      d.Downlink.TotalBytes,
		LastDlMsgTime:     d.Downlink.LastMsgTime,
		BatteryLevel:      d.BatteryLevel,
		DiskSpaceLeft:     d.DiskSpaceLeft,
		Reporting:         wireInterval{seconds: reportingPeriod(d.HeartbeatSeconds, d.HeartbeatSnapToRTC) * d.ReportingInterval, clock: true},
		Heartbeat:         wireInterval{seconds: d.HeartbeatSeconds, snap: d.HeartbeatSnapToRTC, clock: true},
		NumExpectedMsgs:   d.NumExpectedMsgs,
		Rsrp:              d.RSRP.Value,
		RsrpTime:          d.RSRP.MeasuredAt,
		Rssi:              d.RSSI.Value,
		RssiTime:          d.RSSI.MeasuredAt,
		CellID:            d.CellID.Value,
		CellIDTime:        d.CellID.MeasuredAt,
		TxPower:           d.TxPower.Value,
		TxPowerTime:       d.TxPower.MeasuredAt,
		CoverageClass:     d.CoverageClass.Value,
		CoverageClassTime: d.CoverageClass.MeasuredAt,
		TxTime:            d.TxTime,
		RxTime:            d.RxTime,
	}

	if tt := d.TrafficTest; tt != nil {
		w.TtUlState = tt.UplinkState
		w.TtDlState = tt.DownlinkState
		w.TtUlExpected = tt.Uplink.Expected
		w.TtUlLength = tt.Uplink.Length
		w.TtUlDatagramsTx = tt.Uplink.Transmitted
		w.TtUlDatagramsRx = tt.Uplink.Received
		w.TtUlDatagramsMissed = tt.Uplink.Missed
		w.TtUlBytes = tt.Uplink.Bytes
		w.TtDlExpected = tt.Downlink.Expected
		w.TtDlLength = tt.Downlink.Length
		w.TtDlDatagramsTx = tt.Downlink.Transmitted
		w.TtDlDatagramsRx = tt.Downlink.Received
		w.TtDlDatagramsMissed = tt.Downlink.Missed
		w.TtDlBytes = tt.Downlink.Bytes
		w.TtDlInterval = tt.DLIntervalSeconds
		w.TtTimeout = tt.TimeoutSeconds
		w.TtTimeStarted = tt.StartedAt
		w.TtTimeStopped = tt.StoppedAt
	}

	return json.Marshal(w)
}

// wireInterval is a heartbeat or reporting value as the UTM server renders it: a clock
// string such as "00:15:00", with a trailing "*" on the heartbeat when it snaps to the RTC.
// Plain numbers and numeric strings are also accepted and carry the raw value.
type wireInterval struct {
	seconds int
	snap    bool
	// clock is set when the value arrived as a duration rather than a raw number.
	clock bool
}

func (w *wireInterval) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	*w = wireInterval{}

	switch value := v.(type) {
	case float64:
		w.seconds = int(value)
	case string:
		w.parse(strings.TrimSpace(value))
	}

	return nil
}

func (w *wireInterval) parse(text string) {
	if strings.HasSuffix(text, "*") {
		w.snap = true
		text = strings.TrimSpace(strings.TrimSuffix(text, "*"))
	}

	if text == "" {
		return
	}

	if !strings.Contains(text, ":") {
		if n, err := strconv.Atoi(text); err == nil {
			w.seconds = n
		}

		return
	}

	parts := strings.Split(text, ":")
	if len(parts) != 3 {
		return
	}

	total := 0

	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return
		}

		total = total*60 + n
	}

	w.seconds = total
	w.clock = true
}

// MarshalJSON renders the server's "15:04:05" form; zero is the empty string the server sends
// for a device that has not reported its intervals.
func (w wireInterval) MarshalJSON() ([]byte, error) {
	if w.seconds <= 0 {
		return json.Marshal("")
	}

	text := fmt.Sprintf("%02d:%02d:%02d", w.seconds/3600%24, w.seconds/60%60, w.seconds%60)
	if w.snap {
		text += "*"
	}

	return json.Marshal(text)
}

// reportingPeriod is the length of one reporting step: an hour when the heartbeat snaps to
// the RTC, otherwise the heartbeat itself.
func reportingPeriod(heartbeatSeconds int, snap bool) int {
	if snap {
		return 3600
	}

	return heartbeatSeconds
}

// reportingFromWire turns the server's reporting duration back into a count of periods.
func reportingFromWire(reporting, heartbeat wireInterval) int {
	if !reporting.clock {
		return reporting.seconds
	}

	period := reportingPeriod(heartbeat.seconds, heartbeat.snap)
	if period <= 0 {
		return 0
	}

	return reporting.seconds / period
}
