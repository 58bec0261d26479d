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

import (
	"errors"
	"fmt"
	"strings"
)

const minPasswordLength = 6

var (
	ErrFieldRequired    = errors.New("field is required")
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// User is the registration request body.
type User struct {
	Company   string `json:"company"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate checks that every field is set and the password is long enough.
func (u *User) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"company", u.Company},
		{"firstName", u.FirstName},
		{"lastName", u.LastName},
		{"email", u.Email},
		{"password", u.Password},
	}

	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%s: %w", f.name, ErrFieldRequired)
		}
	}

	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("email %q: %w", u.Email, ErrFieldRequired)
	}

	if len(u.Password) < minPasswordLength {
		return fmt.Errorf("%w: need at least %d characters", ErrPasswordTooShort, minPasswordLength)
	}

	return nil
}

// ValidateConfirmation checks the registration form's repeated password.
func (u *User) ValidateConfirmation(confirm string) error {
	if err := u.Validate(); err != nil {
		return err
	}

	if confirm != u.Password {
		return ErrPasswordMismatch
	}

	return nil
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
