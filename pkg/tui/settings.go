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
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/utm-dashboard/pkg/actions"
	"github.com/carverauto/utm-dashboard/pkg/limits"
)

const numericInputWidth = 8

// setting is one row of the settings view: a clamped number or a boolean option.
type setting struct {
	label   string
	field   limits.Field
	input   textinput.Model
	get     func(State) int
	set     func(*actions.Creators, int) error
	getBool func(State) bool
	setBool func(*actions.Creators, bool) error
}

func (s *setting) numeric() bool {
	return s.get != nil
}

type settingsForm struct {
	entries []*setting
	focus   int
}

func numericSetting(label string, field limits.Field, get func(State) int, set func(*actions.Creators, int) error) *setting {
	in := newInput(strconv.Itoa(field.Default), false)
	in.Width = numericInputWidth
	in.CharLimit = len(strconv.Itoa(field.Max)) + 1

	return &setting{label: label, field: field, input: in, get: get, set: set}
}

func boolSetting(label string, get func(State) bool, set func(*actions.Creators, bool) error) *setting {
	return &setting{label: label, getBool: get, setBool: set}
}

func newSettingsForm() *settingsForm {
	return &settingsForm{entries: []*setting{
		numericSetting("Heartbeat (s)", limits.HeartbeatSeconds,
			State.HeartbeatSeconds, (*actions.Creators).SetHeartbeatSeconds),
		boolSetting("Snap heartbeat to RTC",
			State.HeartbeatSnapToRTC, (*actions.Creators).SetHeartbeatSnapToRTC),
		numericSetting("Reporting interval", limits.ReportingInterval,
			State.ReportingInterval, (*actions.Creators).SetReportingInterval),
		numericSetting("UL datagrams", limits.TTNumULDatagrams,
			func(s State) int { return s.TrafficTestParameters().NumULDatagrams },
			(*actions.Creators).SetTTNumULDatagrams),
		numericSetting("UL datagram length", limits.TTLenULDatagram,
			func(s State) int { return s.TrafficTestParameters().LenULDatagram },
			(*actions.Creators).SetTTLenULDatagram),
		numericSetting("DL datagrams", limits.TTNumDLDatagrams,
			func(s State) int { return s.TrafficTestParameters().NumDLDatagrams },
			(*actions.Creators).SetTTNumDLDatagrams),
		numericSetting("DL datagram length", limits.TTLenDLDatagram,
			func(s State) int { return s.TrafficTestParameters().LenDLDatagram },
			(*actions.Creators).SetTTLenDLDatagram),
		numericSetting("Test timeout (s)", limits.TTTimeoutSeconds,
			func(s State) int { return s.TrafficTestParameters().TimeoutSeconds },
			(*actions.Creators).SetTTTimeoutSeconds),
		numericSetting("DL interval (s)", limits.TTDLIntervalSeconds,
			func(s State) int { return s.TrafficTestParameters().DLIntervalSeconds },
			(*actions.Creators).SetTTDLIntervalSeconds),
		boolSetting("No reports during test",
			func(s State) bool { return s.TrafficTestParameters().NoReportsDuringTest },
			(*actions.Creators).SetTTNoReportsDuringTest),
	}}
}

func (f *settingsForm) current() *setting {
	return f.entries[f.focus]
}

// sync re-reads every input from state. The focused input is left alone unless all is set,
// so a value being typed is not overwritten by an unrelated change.
func (f *settingsForm) sync(state State, all bool) {
	for i, e := range f.entries {
		if !e.numeric() || (i == f.focus && e.input.Focused() && !all) {
			continue
		}

		e.input.SetValue(strconv.Itoa(e.get(state)))
	}
}

// commit clamps the focused input and dispatches it. Boolean rows have nothing to commit.
func (f *settingsForm) commit(c *actions.Creators) error {
	e := f.current()
	if !e.numeric() {
		return nil
	}

	v := e.field.ParseClamp(e.input.Value())
	e.input.SetValue(strconv.Itoa(v))

	return e.set(c, v)
}

func (f *settingsForm) toggle(state State, c *actions.Creators) error {
	e := f.current()
	if e.numeric() {
		return nil
	}

	return e.setBool(c, !e.getBool(state))
}

func (f *settingsForm) focusAt(i int) tea.Cmd {
	if e := f.current(); e.numeric() {
		e.input.Blur()
	}

	n := len(f.entries)
	f.focus = (i%n + n) % n

	if e := f.current(); e.numeric() {
		return e.input.Focus()
	}

	return nil
}

func (f *settingsForm) blur() {
	if e := f.current(); e.numeric() {
		e.input.Blur()
	}
}

func (f *settingsForm) update(msg tea.Msg) tea.Cmd {
	e := f.current()
	if !e.numeric() {
		return nil
	}

	var cmd tea.Cmd

	e.input, cmd = e.input.Update(msg)

	return cmd
}

func (f *settingsForm) view(state State, st *styles) string {
	rows := make([]string, 0, len(f.entries)+2)

	for i, e := range f.entries {
		labelStyle := st.label
		if i == f.focus {
			labelStyle = st.title
		}

		label := labelStyle.Width(labelMinWidth).Render(e.label)

		var value string

		if e.numeric() {
			value = lipgloss.JoinHorizontal(lipgloss.Top,
				e.input.View(),
				st.help.Render(fmt.Sprintf("  [%d-%d]", e.field.Min, e.field.Max)))
		} else {
			mark := "[ ]"
			if e.getBool(state) {
				mark = "[x]"
			}

			value = formPrompt + mark
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label, value))
	}

	return strings.Join(rows, "\n")
}
