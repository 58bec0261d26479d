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

import "strconv"

// CommandType tags a sendMsg request.
type CommandType string

const (
	CommandTrafficTestParameters CommandType = "SEND_TRAFFIC_TEST_MODE_PARAMETERS_SERVER_SET"
	CommandModeSet               CommandType = "SEND_MODE_SET"
	CommandHeartbeatSet          CommandType = "SEND_HEARTBEAT_SET"
	CommandReportingIntervalSet  CommandType = "SEND_REPORTING_INTERVAL_SET"

	ModeStandardTrxName = "MODE_STANDARD_TRX"
)

// Command is the JSON body POSTed to sendMsg for one device. Body values are always strings.
type Command struct {
	DeviceUUID string            `json:"device_uuid"`
	Type       CommandType       `json:"type"`
	Body       map[string]string `json:"body"`
}

// TrafficTestParameters is the pending traffic test configuration.
type TrafficTestParameters struct {
	NumULDatagrams      int  `json:"num_ul_datagrams"`
	LenULDatagram       int  `json:"len_ul_datagram"`
	NumDLDatagrams      int  `json:"num_dl_datagrams"`
	LenDLDatagram       int  `json:"len_dl_datagram"`
	TimeoutSeconds      int  `json:"timeout_seconds"`
	NoReportsDuringTest bool `json:"no_reports_during_test"`
	DLIntervalSeconds   int  `json:"dl_interval_seconds"`
}

// Body renders the parameters as a stringified command body.
func (p TrafficTestParameters) Body() map[string]string {
	return map[string]string{
		"num_ul_datagrams":       strconv.Itoa(p.NumULDatagrams),
		"len_ul_datagram":        strconv.Itoa(p.LenULDatagram),
		"num_dl_datagrams":       strconv.Itoa(p.NumDLDatagrams),
		"len_dl_datagram":        strconv.Itoa(p.LenDLDatagram),
		"timeout_seconds":        strconv.Itoa(p.TimeoutSeconds),
		"no_reports_during_test": strconv.FormatBool(p.NoReportsDuringTest),
		"dl_interval_seconds":    strconv.Itoa(p.DLIntervalSeconds),
	}
}

func NewTrafficTestParametersCommand(uuid string, p TrafficTestParameters) Command {
	return Command{DeviceUUID: uuid, Type: CommandTrafficTestParameters, Body: p.Body()}
}

// NewStopTrafficTestCommand returns the device to standard TRX mode, which ends a running test.
func NewStopTrafficTestCommand(uuid string) Command {
	return Command{
		DeviceUUID: uuid,
		Type:       CommandModeSet,
		Body:       map[string]string{"mode": ModeStandardTrxName},
	}
}

func NewHeartbeatCommand(uuid string, seconds int, snapToRTC bool) Command {
	return Command{
		DeviceUUID: uuid,
		Type:       CommandHeartbeatSet,
		Body: map[string]string{
			"heartbeat_seconds":     strconv.Itoa(seconds),
			"heartbeat_snap_to_rtc": strconv.FormatBool(snapToRTC),
		},
	}
}

func NewReportingIntervalCommand(uuid string, interval int) Command {
	return Command{
		DeviceUUID: uuid,
		Type:       CommandReportingIntervalSet,
		Body:       map[string]string{"reporting_interval": strconv.Itoa(interval)},
	}
}
