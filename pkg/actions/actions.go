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

// Package actions defines the messages the dashboard dispatches and the creators that build them.
package actions

import "github.com/carverauto/utm-dashboard/pkg/models"

// Kind names an action variant.
type Kind int

const (
	KindSetUUIDChecked Kind = iota + 1
	KindSetUUIDUnchecked
	KindSetIsLoggedIn
	KindSetHeartbeatSeconds
	KindSetHeartbeatSnapToRTC
	KindSetReportingInterval
	KindSetTTNumULDatagrams
	KindSetTTLenULDatagram
	KindSetTTNumDLDatagrams
	KindSetTTLenDLDatagram
	KindSetTTTimeoutSeconds
	KindSetTTDLIntervalSeconds
	KindSetTTNoReportsDuringTest
	KindAddUser
)

var kindNames = map[Kind]string{
	KindSetUUIDChecked:           "SetUuidChecked",
	KindSetUUIDUnchecked:         "SetUuidUnchecked",
	KindSetIsLoggedIn:            "SetIsLoggedIn",
	KindSetHeartbeatSeconds:      "SetHeartbeatSeconds",
	KindSetHeartbeatSnapToRTC:    "SetHeartbeatSnapToRtc",
	KindSetReportingInterval:     "SetReportingInterval",
	KindSetTTNumULDatagrams:      "SetTtNumUlDatagrams",
	KindSetTTLenULDatagram:       "SetTtLenUlDatagram",
	KindSetTTNumDLDatagrams:      "SetTtNumDlDatagrams",
	KindSetTTLenDLDatagram:       "SetTtLenDlDatagram",
	KindSetTTTimeoutSeconds:      "SetTtTimeoutSeconds",
	KindSetTTDLIntervalSeconds:   "SetTtDlIntervalSeconds",
	KindSetTTNoReportsDuringTest: "SetTtNoReportsDuringTest",
	KindAddUser:                  "AddUser",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "Unknown"
}

// Action is a dispatched message. Only the types in this package implement it.
type Action interface {
	Kind() Kind
	action()
}

type (
	SetUUIDChecked   struct{ UUID string }
	SetUUIDUnchecked struct{ UUID string }
	SetIsLoggedIn    struct{ IsLoggedIn bool }

	SetHeartbeatSeconds   struct{ Seconds int }
	SetHeartbeatSnapToRTC struct{ Snap bool }
	SetReportingInterval  struct{ Interval int }

	SetTTNumULDatagrams      struct{ Value int }
	SetTTLenULDatagram       struct{ Value int }
	SetTTNumDLDatagrams      struct{ Value int }
	SetTTLenDLDatagram       struct{ Value int }
	SetTTTimeoutSeconds      struct{ Value int }
	SetTTDLIntervalSeconds   struct{ Value int }
	SetTTNoReportsDuringTest struct{ Value bool }

	// AddUser forwards a registration to the backend.
	AddUser struct{ User models.User }
)

func (SetUUIDChecked) Kind() Kind           { return KindSetUUIDChecked }
func (SetUUIDUnchecked) Kind() Kind         { return KindSetUUIDUnchecked }
func (SetIsLoggedIn) Kind() Kind            { return KindSetIsLoggedIn }
func (SetHeartbeatSeconds) Kind() Kind      { return KindSetHeartbeatSeconds }
func (SetHeartbeatSnapToRTC) Kind() Kind    { return KindSetHeartbeatSnapToRTC }
func (SetReportingInterval) Kind() Kind     { return KindSetReportingInterval }
func (SetTTNumULDatagrams) Kind() Kind      { return KindSetTTNumULDatagrams }
func (SetTTLenULDatagram) Kind() Kind       { return KindSetTTLenULDatagram }
func (SetTTNumDLDatagrams) Kind() Kind      { return KindSetTTNumDLDatagrams }
func (SetTTLenDLDatagram) Kind() Kind       { return KindSetTTLenDLDatagram }
func (SetTTTimeoutSeconds) Kind() Kind      { return KindSetTTTimeoutSeconds }
func (SetTTDLIntervalSeconds) Kind() Kind   { return KindSetTTDLIntervalSeconds }
func (SetTTNoReportsDuringTest) Kind() Kind { return KindSetTTNoReportsDuringTest }
func (AddUser) Kind() Kind                  { return KindAddUser }

func (SetUUIDChecked) action()           {}
func (SetUUIDUnchecked) action()         {}
func (SetIsLoggedIn) action()            {}
func (SetHeartbeatSeconds) action()      {}
func (SetHeartbeatSnapToRTC) action()    {}
func (SetReportingInterval) action()     {}
func (SetTTNumULDatagrams) action()      {}
func (SetTTLenULDatagram) action()       {}
func (SetTTNumDLDatagrams) action()      {}
func (SetTTLenDLDatagram) action()       {}
func (SetTTTimeoutSeconds) action()      {}
func (SetTTDLIntervalSeconds) action()   {}
func (SetTTNoReportsDuringTest) action() {}
func (AddUser) action()                  {}
