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

// Package tui is the terminal front end of the dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/utm-dashboard/pkg/account"
	"github.com/carverauto/utm-dashboard/pkg/actions"
	"github.com/carverauto/utm-dashboard/pkg/commands"
	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
)

// View is the screen currently shown.
type View int

const (
	ViewLogin View = iota
	ViewDashboard
	ViewSettings
	ViewRegister
	ViewDownloads
)

const (
	refreshInterval = time.Second
	chromeLines     = 10
)

var errLoginInFlight = errors.New("login already in progress")

type (
	snapshotMsg     struct{ data *models.FrontPageData }
	storeChangedMsg struct{}
	tickMsg         time.Time
	loginResultMsg  struct {
		email string
		err   error
	}
	commandDoneMsg struct {
		label  string
		result *commands.BatchResult
		err    error
	}
)

// Deps are the components the model drives.
type Deps struct {
	State      State
	Creators   *actions.Creators
	Commands   Commander
	Session    Session
	Snapshots  SnapshotSource
	Logger     logger.Logger
	LoginEmail string
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
	// Now defaults to time.Now.
	Now func() time.Time
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctx       context.Context
	deps      Deps
	view      View
	keys      keyMap
	help      help.Model
	styles    styles
	table     table.Model
	snapshot  *models.FrontPageData
	rowUUIDs  []string
	login     *form
	register  *form
	settings  *settingsForm
	flash     string
	flashErr  bool
	loggingIn bool
}

// New builds the model. The login view is shown first unless the session is already logged in.
func New(ctx context.Context, deps Deps) *Model {
	if deps.Clipboard == nil {
		deps.Clipboard = clipboard.WriteAll
	}

	if deps.Now == nil {
		deps.Now = time.Now
	}

	m := &Model{
		ctx:      ctx,
		deps:     deps,
		view:     ViewLogin,
		keys:     defaultKeyMap(),
		help:     help.New(),
		styles:   newStyles(),
		table:    newDeviceTable(),
		login:    newLoginForm(deps.LoginEmail),
		register: newRegisterForm(),
		settings: newSettingsForm(),
	}

	if deps.State.IsLoggedIn() {
		m.view = ViewDashboard
	}

	m.snapshot = deps.Snapshots.Latest()
	m.settings.sync(deps.State, true)
	m.refreshRows()

	return m
}

// CurrentView reports the screen being shown.
func (m *Model) CurrentView() View {
	return m.view
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (*Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.table.SetHeight(max(msg.Height-chromeLines, 3))

		return m, nil
	case snapshotMsg:
		m.snapshot = msg.data
		m.refreshRows()

		return m, nil
	case storeChangedMsg:
		m.onStoreChanged()

		return m, nil
	case tickMsg:
		return m, tick()
	case loginResultMsg:
		return m.onLoginResult(msg)
	case commandDoneMsg:
		m.onCommandDone(msg)

		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.view {
		case ViewLogin:
			return m.updateLogin(msg)
		case ViewRegister:
			return m.updateRegister(msg)
		case ViewSettings:
			return m.updateSettings(msg)
		case ViewDownloads:
			if key.Matches(msg, m.keys.Back, m.keys.Downloads, m.keys.Quit) {
				m.view = ViewDashboard
			}

			return m, nil
		case ViewDashboard:
			return m.updateDashboard(msg)
		}
	}

	return m, nil
}

func (m *Model) setFlash(msg string, isErr bool) {
	m.flash = msg
	m.flashErr = isErr
}

func (m *Model) onStoreChanged() {
	m.refreshRows()
	m.settings.sync(m.deps.State, m.view != ViewSettings)

	if m.view == ViewRegister && !m.deps.State.IsLoggedIn() {
		m.view = ViewLogin
	}
}

func (m *Model) refreshRows() {
	devices := m.snapshot.Devices()
	rows := make([]table.Row, 0, len(devices))
	m.rowUUIDs = m.rowUUIDs[:0]

	for i := range devices {
		d := &devices[i]
		rows = append(rows, deviceRow(d, m.deps.State.IsUUIDChecked(d.UUID)))
		m.rowUUIDs = append(m.rowUUIDs, d.UUID)
	}

	m.table.SetRows(rows)

	// SetRows leaves the cursor at -1 after an empty table
	if len(rows) > 0 && m.table.Cursor() < 0 {
		m.table.SetCursor(0)
	}
}

func (m *Model) selectedUUID() (string, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.rowUUIDs) {
		return "", false
	}

	return m.rowUUIDs[c], true
}

func (m *Model) devicesForTargets() []models.DeviceSnapshot {
	if m.snapshot == nil {
		return nil
	}

	return m.snapshot.Devices()
}

type sendFunc func(ctx context.Context, targets []string) (*commands.BatchResult, error)

func (m *Model) send(label string, fn sendFunc) tea.Cmd {
	targets := m.deps.Commands.Targets(m.devicesForTargets())
	if len(targets) == 0 {
		m.setFlash("No checked devices", true)
		return nil
	}

	m.setFlash(fmt.Sprintf("Sending %s to %d device(s)", label, len(targets)), false)

	ctx := m.ctx

	return func() tea.Msg {
		res, err := fn(ctx, targets)
		return commandDoneMsg{label: label, result: res, err: err}
	}
}

func (m *Model) onCommandDone(msg commandDoneMsg) {
	if msg.err != nil {
		m.setFlash(fmt.Sprintf("%s: %v", msg.label, msg.err), true)
		return
	}

	failed := msg.result.Failed()
	m.setFlash(fmt.Sprintf("%s: %d ok, %d failed", msg.label, msg.result.Succeeded(), failed), failed > 0)
}

func (m *Model) dispatchErr(err error) {
	if err != nil {
		m.deps.Logger.Warn().Err(err).Msg("Dispatch failed")
		m.setFlash(err.Error(), true)
	}
}

func (m *Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Toggle):
		if uuid, ok := m.selectedUUID(); ok {
			m.dispatchErr(m.deps.Creators.SetUUIDCheckedState(uuid, !m.deps.State.IsUUIDChecked(uuid)))
			m.refreshRows()
		}
	case key.Matches(msg, k.CheckAll):
		m.dispatchErr(m.deps.Creators.CheckAll(m.snapshot.UUIDs()))
		m.refreshRows()
	case key.Matches(msg, k.UncheckAll):
		m.dispatchErr(m.deps.Creators.UncheckAll(m.deps.State.CheckedUUIDs()))
		m.refreshRows()
	case key.Matches(msg, k.SendParams):
		return m, m.send("traffic test parameters", m.deps.Commands.SendTrafficTestParameters)
	case key.Matches(msg, k.StopTest):
		return m, m.send("stop traffic test", m.deps.Commands.StopTrafficTest)
	case key.Matches(msg, k.Heartbeat):
		return m, m.send("heartbeat", m.deps.Commands.SendHeartbeat)
	case key.Matches(msg, k.Reporting):
		return m, m.send("reporting interval", m.deps.Commands.SendReportingInterval)
	case key.Matches(msg, k.Copy):
		m.copySelected()
	case key.Matches(msg, k.Settings):
		m.view = ViewSettings
		m.settings.sync(m.deps.State, true)

		return m, m.settings.focusAt(m.settings.focus)
	case key.Matches(msg, k.Downloads):
		m.view = ViewDownloads
	case key.Matches(msg, k.Register):
		if !m.deps.State.IsLoggedIn() {
			m.setFlash("Log in to register users", true)
			return m, nil
		}

		m.view = ViewRegister
		m.register.reset()

		return m, m.register.focusAt(0)
	case key.Matches(msg, k.Login):
		m.view = ViewLogin
		m.login.err = nil

		return m, m.login.focusAt(m.login.focus)
	case key.Matches(msg, k.Logout):
		m.dispatchErr(m.deps.Session.Logout())
		m.setFlash("Logged out", false)
	default:
		var cmd tea.Cmd

		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *Model) copySelected() {
	uuid, ok := m.selectedUUID()
	if !ok {
		return
	}

	if err := m.deps.Clipboard(uuid); err != nil {
		m.setFlash("Failed to copy to clipboard", true)
		return
	}

	m.setFlash("Copied "+uuid, false)
}

func (m *Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.view = ViewDashboard
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.login.move(1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.login.move(-1)
	case key.Matches(msg, m.keys.Submit):
		return m, m.submitLogin()
	}

	return m, m.login.update(msg)
}

func (m *Model) submitLogin() tea.Cmd {
	if m.loggingIn {
		m.login.err = errLoginInFlight
		return nil
	}

	email := m.login.value(loginEmail)
	password := m.login.inputs[loginPassword].Value()
	m.loggingIn = true
	m.login.err = nil

	ctx := m.ctx
	session := m.deps.Session

	return func() tea.Msg {
		return loginResultMsg{email: email, err: session.Authenticate(ctx, email, password)}
	}
}

func (m *Model) onLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.loggingIn = false
	m.login.inputs[loginPassword].Reset()

	// the session flag is only dispatched here, on the event loop
	if err := m.deps.Session.ApplyLoginResult(msg.err); err != nil {
		m.view = ViewLogin
		m.login.err = err

		return m, m.login.focusAt(loginPassword)
	}

	m.view = ViewDashboard
	m.setFlash("Logged in as "+msg.email, false)

	return m, nil
}

func (m *Model) updateRegister(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.view = ViewDashboard
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.register.move(1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.register.move(-1)
	case key.Matches(msg, m.keys.Submit):
		user, err := registerUser(m.register)
		if err != nil {
			m.register.err = err
			return m, nil
		}

		if err := m.deps.Creators.AddUser(user); err != nil {
			m.register.err = err
			return m, nil
		}

		m.register.reset()
		m.view = ViewDashboard
		m.setFlash("Registration submitted for "+user.Email, false)

		return m, nil
	}

	return m, m.register.update(msg)
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.settings
	c := m.deps.Creators

	switch {
	case key.Matches(msg, m.keys.Back):
		m.dispatchErr(f.commit(c))
		f.blur()
		m.view = ViewDashboard

		return m, nil
	case key.Matches(msg, m.keys.NextField):
		m.dispatchErr(f.commit(c))
		return m, f.focusAt(f.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		m.dispatchErr(f.commit(c))
		return m, f.focusAt(f.focus - 1)
	case key.Matches(msg, m.keys.Submit):
		m.dispatchErr(f.commit(c))
		return m, nil
	case key.Matches(msg, m.keys.ToggleOption) && !f.current().numeric():
		m.dispatchErr(f.toggle(m.deps.State, c))
		return m, nil
	}

	return m, f.update(msg)
}

func (m *Model) View() string {
	var body string

	switch m.view {
	case ViewLogin:
		body = m.loginView()
	case ViewRegister:
		body = m.registerView()
	case ViewSettings:
		body = m.settingsView()
	case ViewDownloads:
		body = m.downloadsView()
	case ViewDashboard:
		body = m.dashboardView()
	}

	return m.styles.app.Align(lipgloss.Left).Render(body)
}

func (m *Model) header(title string) string {
	session := m.styles.muted.Render("[Not logged in]")
	if m.deps.State.IsLoggedIn() {
		session = m.styles.success.Render("[Logged in]")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, m.styles.title.Render("UTM Dashboard: "+title), "  ", session)
}

func (m *Model) flashLine() string {
	if m.flash == "" {
		return ""
	}

	if m.flashErr {
		return m.styles.error.Render(m.flash)
	}

	return m.styles.success.Render(m.flash)
}

func (m *Model) dashboardView() string {
	now := m.deps.Now()

	var b strings.Builder

	b.WriteString(m.header("Fleet") + "\n\n")
	b.WriteString(SummaryLine(m.snapshot.Summary(), now) + "\n")

	checked := fmt.Sprintf("%d checked", m.deps.State.CheckedCount())
	b.WriteString(m.styles.label.Render(checked))

	if banner := staleBanner(m.deps.Snapshots.Status(), now); banner != "" {
		b.WriteString("  " + m.styles.stale.Render(banner))
	}

	b.WriteString("\n\n")
	b.WriteString(m.table.View() + "\n")

	if line := m.flashLine(); line != "" {
		b.WriteString(line + "\n")
	}

	b.WriteString(m.help.View(dashboardHelp{m.keys}))

	return b.String()
}

func (m *Model) loginView() string {
	var b strings.Builder

	b.WriteString(m.header("Login") + "\n\n")
	b.WriteString(m.login.view(&m.styles) + "\n\n")

	if m.loggingIn {
		b.WriteString(m.styles.hint.Render("Logging in...") + "\n")
	}

	b.WriteString(m.help.View(formHelp{m.keys}))

	return b.String()
}

func (m *Model) registerView() string {
	var b strings.Builder

	b.WriteString(m.header("Register user") + "\n\n")
	b.WriteString(m.register.view(&m.styles) + "\n\n")
	b.WriteString(m.help.View(formHelp{m.keys}))

	return b.String()
}

func (m *Model) settingsView() string {
	var b strings.Builder

	b.WriteString(m.header("Settings") + "\n\n")
	b.WriteString(m.settings.view(m.deps.State, &m.styles) + "\n\n")

	if line := m.flashLine(); line != "" {
		b.WriteString(line + "\n")
	}

	b.WriteString(m.help.View(settingsHelp{m.keys}))

	return b.String()
}

func (m *Model) downloadsView() string {
	var b strings.Builder

	b.WriteString(m.header("Downloads") + "\n\n")

	list := account.Downloads(m.deps.State)
	if !list.Available {
		b.WriteString(m.styles.warn.Render(list.Notice) + "\n")
	}

	for _, d := range list.Items {
		b.WriteString(m.styles.label.Render(d.Name) + "  " + m.styles.hint.Render(d.Path) + "\n")
	}

	b.WriteString("\n" + m.styles.help.Render("esc back"))

	return b.String()
}
