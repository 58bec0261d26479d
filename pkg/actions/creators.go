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

package actions

import "github.com/carverauto/utm-dashboard/pkg/models"

//go:generate mockgen -destination=mock_actions.go -package=actions github.com/carverauto/utm-dashboard/pkg/actions Dispatcher

// Dispatcher is the subset of dispatcher.Dispatcher[Action] the creators need.
type Dispatcher interface {
	Dispatch(Action) error
}

// Creators turns UI intents into dispatched actions. Each method dispatches exactly once
// and performs no validation.
type Creators struct {
	d Dispatcher
}

func NewCreators(d Dispatcher) *Creators {
	return &Creators{d: d}
}

func (c *Creators) SetUUIDChecked(uuid string) error {
	return c.d.Dispatch(SetUUIDChecked{UUID: uuid})
}

func (c *Creators) SetUUIDUnchecked(uuid string) error {
	return c.d.Dispatch(SetUUIDUnchecked{UUID: uuid})
}

// SetUUIDCheckedState dispatches SetUUIDChecked or SetUUIDUnchecked.
func (c *Creators) SetUUIDCheckedState(uuid string, checked bool) error {
	if checked {
		return c.SetUUIDChecked(uuid)
	}

	return c.SetUUIDUnchecked(uuid)
}

func (c *Creators) SetIsLoggedIn(loggedIn bool) error {
	return c.d.Dispatch(SetIsLoggedIn{IsLoggedIn: loggedIn})
}

func (c *Creators) SetHeartbeatSeconds(seconds int) error {
	return c.d.Dispatch(SetHeartbeatSeconds{Seconds: seconds})
}

func (c *Creators) SetHeartbeatSnapToRTC(snap bool) error {
	return c.d.Dispatch(SetHeartbeatSnapToRTC{Snap: snap})
}

func (c *Creators) SetReportingInterval(interval int) error {
	return c.d.Dispatch(SetReportingInterval{Interval: interval})
}

func (c *Creators) SetTTNumULDatagrams(v int) error {
	return c.d.Dispatch(SetTTNumULDatagrams{Value: v})
}

func (c *Creators) SetTTLenULDatagram(v int) error {
	return c.d.Dispatch(SetTTLenULDatagram{Value: v})
}

func (c *Creators) SetTTNumDLDatagrams(v int) error {
	return c.d.Dispatch(SetTTNumDLDatagrams{Value: v})
}

func (c *Creators) SetTTLenDLDatagram(v int) error {
	return c.d.Dispatch(SetTTLenDLDatagram{Value: v})
}

func (c *Creators) SetTTTimeoutSeconds(v int) error {
	return c.d.Dispatch(SetTTTimeoutSeconds{Value: v})
}

func (c *Creators) SetTTDLIntervalSeconds(v int) error {
	return c.d.Dispatch(SetTTDLIntervalSeconds{Value: v})
}

func (c *Creators) SetTTNoReportsDuringTest(v bool) error {
	return c.d.Dispatch(SetTTNoReportsDuringTest{Value: v})
}

func (c *Creators) AddUser(user models.User) error {
	return c.d.Dispatch(AddUser{User: user})
}

// CheckAll dispatches SetUUIDChecked for each uuid and stops at the first error.
func (c *Creators) CheckAll(uuids []string) error {
	for _, uuid := range uuids {
		if err := c.SetUUIDChecked(uuid); err != nil {
			return err
		}
	}

	return nil
}

// UncheckAll dispatches SetUUIDUnchecked for each uuid and stops at the first error.
func (c *Creators) UncheckAll(uuids []string) error {
	for _, uuid := range uuids {
		if err := c.SetUUIDUnchecked(uuid); err != nil {
			return err
		}
	}

	return nil
}
