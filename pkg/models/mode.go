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

import "strings"

// Mode is the operating mode a UTM reports.
type Mode int

const (
	ModeUnknown Mode = iota
	ModeNull
	ModeSelfTest
	ModeCommissioning
	ModeStandardTrx
	ModeTrafficTest
	ModeReceiveOnly
	ModeTransmitOnly
)

var modeLabels = map[Mode]string{
	ModeUnknown:       "Unknown",
	ModeNull:          "Null",
	ModeSelfTest:      "Self Test",
	ModeCommissioning: "Commissioning",
	ModeStandardTrx:   "Standard TRX",
	ModeTrafficTest:   "Traffic Test",
	ModeReceiveOnly:   "Receive Only",
	ModeTransmitOnly:  "Transmit Only",
}

var modeAliases = map[string]Mode{
	"null":               ModeNull,
	"mode_null":          ModeNull,
	"self test":          ModeSelfTest,
	"mode_self_test":     ModeSelfTest,
	"commissioning":      ModeCommissioning,
	"mode_commissioning": ModeCommissioning,
	"standard trx":       ModeStandardTrx,
	"standardtrx":        ModeStandardTrx,
	"mode_standard_trx":  ModeStandardTrx,
	"traffic test":       ModeTrafficTest,
	"mode_traffic_test":  ModeTrafficTest,
	"receive only":       ModeReceiveOnly,
	"receiveonly":        ModeReceiveOnly,
	"mode_rx_only":       ModeReceiveOnly,
	"transmit only":      ModeTransmitOnly,
	"transmitonly":       ModeTransmitOnly,
	"mode_tx_only":       ModeTransmitOnly,
}

func (m Mode) String() string {
	if label, ok := modeLabels[m]; ok {
		return label
	}

	return modeLabels[ModeUnknown]
}

// ParseMode maps a server label or enum name to a Mode. Unrecognized labels yield ModeUnknown.
func ParseMode(label string) Mode {
	if m, ok := modeAliases[strings.ToLower(strings.TrimSpace(label))]; ok {
		return m
	}

	return ModeUnknown
}

// BatteryBucket is a coarse battery level.
type BatteryBucket int

const (
	BatteryUnknown BatteryBucket = iota
	BatteryFull
	BatteryThreeQuarters
	BatteryHalf
	BatteryQuarter
	BatteryLow
	BatteryCritical
)

var batteryBuckets = map[string]BatteryBucket{
	"max left": BatteryFull,
	"> 90%":    BatteryFull,
	"> 70%":    BatteryThreeQuarters,
	"> 50%":    BatteryHalf,
	"> 30%":    BatteryQuarter,
	"> 20%":    BatteryQuarter,
	"< 10%":    BatteryLow,
	"> 5%":     BatteryLow,
}

// ParseBatteryBucket classifies the battery strings the server sends (" > 70%", " max left").
func ParseBatteryBucket(level string) BatteryBucket {
	if b, ok := batteryBuckets[strings.TrimSpace(level)]; ok {
		return b
	}

	if strings.Contains(level, "empty") || strings.Contains(level, "< 5%") {
		return BatteryCritical
	}

	return BatteryUnknown
}

// Warning reports whether the bucket should be highlighted.
func (b BatteryBucket) Warning() bool {
	return b == BatteryLow || b == BatteryCritical
}

func (b BatteryBucket) String() string {
	switch b {
	case BatteryFull:
		return "full"
	case BatteryThreeQuarters:
		return "3/4"
	case BatteryHalf:
		return "1/2"
	case BatteryQuarter:
		return "1/4"
	case BatteryLow:
		return "low"
	case BatteryCritical:
		return "critical"
	case BatteryUnknown:
		return "?"
	}

	return "?"
}
