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

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle       key.Binding
	CheckAll     key.Binding
	UncheckAll   key.Binding
	SendParams   key.Binding
	StopTest     key.Binding
	Heartbeat    key.Binding
	Reporting    key.Binding
	Copy         key.Binding
	Settings     key.Binding
	Downloads    key.Binding
	Register     key.Binding
	Login        key.Binding
	Logout       key.Binding
	Back         key.Binding
	NextField    key.Binding
	PrevField    key.Binding
	Submit       key.Binding
	ToggleOption key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "check")),
		CheckAll:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "check all")),
		UncheckAll:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "uncheck all")),
		SendParams:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "send test params")),
		StopTest:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop test")),
		Heartbeat:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "send heartbeat")),
		Reporting:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "send reporting")),
		Copy:         key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy uuid")),
		Settings:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		Downloads:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "downloads")),
		Register:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "register user")),
		Login:        key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "login")),
		Logout:       key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		Back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		NextField:    key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField:    key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Submit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		ToggleOption: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle option")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// dashboardHelp implements help.KeyMap for the dashboard view.
type dashboardHelp struct{ k keyMap }

func (h dashboardHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Toggle, h.k.CheckAll, h.k.SendParams, h.k.StopTest, h.k.Settings, h.k.Quit}
}

func (h dashboardHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.Toggle, h.k.CheckAll, h.k.UncheckAll, h.k.Copy},
		{h.k.SendParams, h.k.StopTest, h.k.Heartbeat, h.k.Reporting},
		{h.k.Settings, h.k.Downloads, h.k.Register},
		{h.k.Login, h.k.Logout, h.k.Quit},
	}
}

type formHelp struct{ k keyMap }

func (h formHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.NextField, h.k.PrevField, h.k.Submit, h.k.Back}
}

func (h formHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

type settingsHelp struct{ k keyMap }

func (h settingsHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.NextField, h.k.Submit, h.k.ToggleOption, h.k.Back}
}

func (h settingsHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
