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

import "time"

// TrafficTestState is the per-direction traffic test state as numbered by the UTM server.
type TrafficTestState int

const (
	TrafficTestNotRunning TrafficTestState = iota
	TrafficTestRunning
	TrafficTestTxComplete
	TrafficTestStopped
	TrafficTestTimeout
	TrafficTestPass
	TrafficTestFail
)

var trafficTestStateNames = map[TrafficTestState]string{
	TrafficTestNotRunning: "not running",
	TrafficTestRunning:    "running",
	TrafficTestTxComplete: "tx complete",
	TrafficTestStopped:    "stopped",
	TrafficTestTimeout:    "timeout",
	TrafficTestPass:       "pass",
	TrafficTestFail:       "fail",
}

func (s TrafficTestState) String() string {
	if name, ok := trafficTestStateNames[s]; ok {
		return name
	}

	return "unknown"
}

// Finished reports whether the direction has reached a terminal state.
func (s TrafficTestState) Finished() bool {
	switch s {
	case TrafficTestStopped, TrafficTestTimeout, TrafficTestPass, TrafficTestFail:
		return true
	case TrafficTestNotRunning, TrafficTestRunning, TrafficTestTxComplete:
		return false
	}

	return false
}

// TrafficTestCounts holds the datagram counters for one direction.
type TrafficTestCounts struct {
	Expected    int
	Length      int
	Transmitted int
	Received    int
	Missed      int
	Bytes       int
}

// TrafficTestProgress is the display form of TrafficTestCounts.
type TrafficTestProgress struct {
	Target   int
	Sent     int
	Received int
	Missed   int
	Percent  int
}

// Progress caps received and missed at the transmitted count, and expresses received
// as a percentage of the target, capped at 100.
func (c TrafficTestCounts) Progress() TrafficTestProgress {
	p := TrafficTestProgress{
		Target:   c.Expected,
		Sent:     c.Transmitted,
		Received: min(c.Received, c.Transmitted),
		Missed:   min(c.Missed, c.Transmitted),
	}

	if p.Received < 0 {
		p.Received = 0
	}

	if p.Missed < 0 {
		p.Missed = 0
	}

	if p.Target > 0 {
		p.Percent = min(p.Received*100/p.Target, 100)
	}

	return p
}

// TrafficTestStatus is the nested traffic test view of a device.
type TrafficTestStatus struct {
	UplinkState       TrafficTestState
	DownlinkState     TrafficTestState
	Uplink            TrafficTestCounts
	Downlink          TrafficTestCounts
	DLIntervalSeconds int
	TimeoutSeconds    int
	StartedAt         *time.Time
	StoppedAt         *time.Time
}

// Running reports whether either direction is still in progress.
func (s *TrafficTestStatus) Running() bool {
	if s == nil {
		return false
	}

	return s.UplinkState == TrafficTestRunning || s.DownlinkState == TrafficTestRunning ||
		s.UplinkState == TrafficTestTxComplete || s.DownlinkState == TrafficTestTxComplete
}

func trafficTestFromWire(w *deviceWire) *TrafficTestStatus {
	if w.TtTimeStarted == nil &&
		w.TtUlState == TrafficTestNotRunning && w.TtDlState == TrafficTestNotRunning &&
		w.TtUlExpected == 0 && w.TtDlExpected == 0 {
		return nil
	}

	return &TrafficTestStatus{
		UplinkState:   w.TtUlState,
		DownlinkState: w.TtDlState,
		Uplink: TrafficTestCounts{
			Expected:    w.TtUlExpected,
			Length:      w.TtUlLength,
			Transmitted: w.TtUlDatagramsTx,
			Received:    w.TtUlDatagramsRx,
			Missed:      w.TtUlDatagramsMissed,
			Bytes:       w.TtUlBytes,
		},
		Downlink: TrafficTestCounts{
			Expected:    w.TtDlExpected,
			Length:      w.TtDlLength,
			Transmitted: w.TtDlDatagramsTx,
			Received:    w.TtDlDatagramsRx,
			Missed:      w.TtDlDatagramsMissed,
			Bytes:       w.TtDlBytes,
		},
		DLIntervalSeconds: w.TtDlInterval,
		TimeoutSeconds:    w.TtTimeout,
		StartedAt:         w.TtTimeStarted,
		StoppedAt:         w.TtTimeStopped,
	}
}
