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
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/utm-dashboard/pkg/models"
)

const (
	inputWidth    = 40
	passwordEcho  = '*'
	formPrompt    = "> "
	labelMinWidth = 22
)

func newInput(placeholder string, password bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = formPrompt
	in.Width = inputWidth
	in.PromptStyle = inputPromptStyle()
	in.TextStyle = inputTextStyle()
	in.PlaceholderStyle = inputPlaceholderStyle()

	if password {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = passwordEcho
	}

	return in
}

// form is a vertical list of labelled text inputs with one focused at a time.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
	err    error
}

func (f *form) focusAt(i int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}

	f.inputs[f.focus].Blur()
	f.focus = (i%len(f.inputs) + len(f.inputs)) % len(f.inputs)

	return f.inputs[f.focus].Focus()
}

func (f *form) move(delta int) tea.Cmd {
	return f.focusAt(f.focus + delta)
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)

	return cmd
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}

	f.err = nil
}

func (f *form) view(st *styles) string {
	rows := make([]string, 0, len(f.inputs))

	for i := range f.inputs {
		label := st.label.Width(labelMinWidth).Render(f.labels[i])
		if i == f.focus {
			label = st.title.Width(labelMinWidth).Render(f.labels[i])
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label, f.inputs[i].View()))
	}

	if f.err != nil {
		rows = append(rows, "", st.error.Render("Error: "+f.err.Error()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

const (
	loginEmail = iota
	loginPassword
)

func newLoginForm(email string) *form {
	emailInput := newInput("operator@example.com", false)
	emailInput.SetValue(email)

	f := &form{
		labels: []string{"Email:", "Password:"},
		inputs: []textinput.Model{emailInput, newInput("password", true)},
	}

	if email != "" {
		f.focus = loginPassword
	}

	f.inputs[f.focus].Focus()

	return f
}

const (
	regCompany = iota
	regFirstName
	regLastName
	regEmail
	regPassword
	regConfirm
)

func newRegisterForm() *form {
	f := &form{
		labels: []string{"Company:", "First name:", "Last name:", "Email:", "Password:", "Confirm password:"},
		inputs: []textinput.Model{
			newInput("company", false),
			newInput("first name", false),
			newInput("last name", false),
			newInput("user@example.com", false),
			newInput("at least 6 characters", true),
			newInput("repeat password", true),
		},
	}

	f.inputs[0].Focus()

	return f
}

// registerUser validates the registration form and returns the user to submit.
func registerUser(f *form) (models.User, error) {
	user := models.User{
		Company:   f.value(regCompany),
		FirstName: f.value(regFirstName),
		LastName:  f.value(regLastName),
		Email:     f.value(regEmail),
		Password:  f.inputs[regPassword].Value(),
	}

	if err := user.Validate(); err != nil {
		return models.User{}, err
	}

	if err := user.ValidateConfirmation(f.inputs[regConfirm].Value()); err != nil {
		return models.User{}, err
	}

	return user, nil
}
