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

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/utm-dashboard/pkg/models"
	"github.com/carverauto/utm-dashboard/pkg/poller"
)

const defaultTableHeight = 12

func deviceColumns() []table.Column {
	return []table.Column{
		{Title: "", Width: 3},
		{Title: "Link", Width: 4},
		{Title: "Name", Width: 18},
		{Title: "Mode", Width: 13},
		{Title: "Rpt", Width: 3},
		{Title: "HB", Width: 5},
		{Title: "UL msgs", Width: 8},
		{Title: "DL msgs", Width: 8},
		{Title: "RSRP", Width: 6},
		{Title: "RSSI", Width: 6},
		{Title: "Batt", Width: 8},
		{Title: "Traffic test", Width: 24},
	}
}

func newDeviceTable() table.Model {
	t := table.New(
		table.WithColumns(deviceColumns()),
		table.WithFocused(true),
		table.WithHeight(defaultTableHeight),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(draculaComment)).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(draculaForeground)).
		Background(lipgloss.Color(draculaPurple))
	t.SetStyles(s)

	return t
}

// deviceRow renders one device. checked marks the operator's selection.
func deviceRow(d *models.DeviceSnapshot, checked bool) table.Row {
	mark := "[ ]"
	if checked {
		mark = "[x]"
	}

	link := "down"
	if d.Connected {
		link = "up"
	}

	mode := d.ModeLabel
	if mode == "" {
		mode = d.Mode.String()
	}

	battery := d.Battery().String()
	if d.Battery().Warning() {
		battery = "!" + battery
	}

	name := d.Name
	if name == "" {
		name = d.UUID
	}

	return table.Row{
		mark,
		link,
		name,
		mode,
		strconv.Itoa(d.ReportingInterval),
		heartbeatCell(d),
		strconv.FormatUint(d.Uplink.TotalMsgs, 10),
		strconv.FormatUint(d.Downlink.TotalMsgs, 10),
		dashIfEmpty(d.RSRP.Value),
		dashIfEmpty(d.RSSI.Value),
		battery,
		trafficTestCell(d.TrafficTest),
	}
}

func heartbeatCell(d *models.DeviceSnapshot) string {
	hb := strconv.Itoa(d.HeartbeatSeconds)
	if d.HeartbeatSnapToRTC {
		hb += "*"
	}

	return hb
}

func trafficTestCell(tt *models.TrafficTestStatus) string {
	if tt == nil {
		return "-"
	}

	ul := tt.Uplink.Progress()
	dl := tt.Downlink.Progress()

	state := tt.UplinkState
	if tt.UplinkState.Finished() && !tt.DownlinkState.Finished() {
		state = tt.DownlinkState
	}

	return fmt.Sprintf("UL %3d%% DL %3d%% %s", ul.Percent, dl.Percent, state)
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

// relative renders how long ago t was, or "never" for a missing time.
func relative(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}

	d := now.Sub(*t)
	if d < 0 {
		d = 0
	}

	return d.Truncate(time.Second).String() + " ago"
}

// SummaryLine is the one-line fleet summary shown above the table and logged in headless mode.
func SummaryLine(s models.SummarySnapshot, now time.Time) string {
	return fmt.Sprintf("Devices %d/%d connected | UL %d msgs, last %s | DL %d msgs, last %s | Confirmations outstanding %d",
		s.DevicesConnected, s.DevicesKnown,
		s.TotalUlMsgs, relative(s.LastUlMsgTime, now),
		s.TotalDlMsgs, relative(s.LastDlMsgTime, now),
		s.NumExpectedMsgs)
}

// staleBanner describes why the shown data may be out of date; empty when it is fresh.
func staleBanner(st poller.Status, now time.Time) string {
	if !st.Stale {
		return ""
	}

	if st.LastSuccess.IsZero() {
		msg := "NO DATA"
		if st.LastError != "" {
			msg += ": " + st.LastError
		}

		return msg
	}

	age := st.LastSuccess
	msg := "STALE DATA: last update " + relative(&age, now)

	if st.ConsecutiveFailures > 0 {
		msg += fmt.Sprintf(", %d failed polls", st.ConsecutiveFailures)
	}

	return msg
}
