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

// Package limits holds the bounded numeric fields used by the pending configuration values.
package limits

import (
	"strconv"
	"strings"
)

// Field is a bounded integer setting.
type Field struct {
	Name    string
	Min     int
	Max     int
	Step    int
	Default int
}

// Clamp returns v limited to [Min, Max].
func (f Field) Clamp(v int) int {
	if v < f.Min {
		return f.Min
	}

	if v > f.Max {
		return f.Max
	}

	return v
}

// Contains reports whether v is already in range.
func (f Field) Contains(v int) bool {
	return v >= f.Min && v <= f.Max
}

// ParseClamp parses user input and clamps it. Empty or non-numeric text yields Min.
func (f Field) ParseClamp(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return f.Min
	}

	v, err := strconv.Atoi(text)
	if err != nil {
		fv, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			return f.Min
		}

		switch {
		case fv < float64(f.Min):
			return f.Min
		case fv > float64(f.Max):
			return f.Max
		}

		v = int(fv)
	}

	return f.Clamp(v)
}

// Increment moves v up by Step, clamped.
func (f Field) Increment(v int) int {
	return f.Clamp(v + f.step())
}

// Decrement moves v down by Step, clamped.
func (f Field) Decrement(v int) int {
	return f.Clamp(v - f.step())
}

func (f Field) step() int {
	if f.Step <= 0 {
		return 1
	}

	return f.Step
}

var (
	HeartbeatSeconds    = Field{Name: "heartbeat_seconds", Min: 15, Max: 3599, Step: 1, Default: 900}
	ReportingInterval   = Field{Name: "reporting_interval", Min: 1, Max: 10, Step: 1, Default: 1}
	TTNumULDatagrams    = Field{Name: "num_ul_datagrams", Min: 0, Max: 1000, Step: 5, Default: 50}
	TTLenULDatagram     = Field{Name: "len_ul_datagram", Min: 1, Max: 100, Step: 1, Default: 100}
	TTNumDLDatagrams    = Field{Name: "num_dl_datagrams", Min: 0, Max: 1000, Step: 5, Default: 50}
	TTLenDLDatagram     = Field{Name: "len_dl_datagram", Min: 1, Max: 100, Step: 1, Default: 100}
	TTTimeoutSeconds    = Field{Name: "timeout_seconds", Min: 0, Max: 86400, Step: 1, Default: 0}
	TTDLIntervalSeconds = Field{Name: "dl_interval_seconds", Min: 1, Max: 300, Step: 1, Default: 20}
)

// All lists every field in settings-form order.
func All() []Field {
	return []Field{
		HeartbeatSeconds,
		ReportingInterval,
		TTNumULDatagrams,
		TTLenULDatagram,
		TTNumDLDatagrams,
		TTLenDLDatagram,
		TTTimeoutSeconds,
		TTDLIntervalSeconds,
	}
}
