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

// Package account implements login, logout and registration, and the download list they gate.
package account

//go:generate mockgen -destination=mock_account.go -package=account github.com/carverauto/utm-dashboard/pkg/account Authenticator

import (
	"context"
	"errors"
	"fmt"

	"github.com/carverauto/utm-dashboard/pkg/actions"
	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
)

var (
	ErrLoginRejected = errors.New("login rejected")
	ErrNotLoggedIn   = errors.New("not logged in")
)

// Authenticator is the server side of login and registration.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (bool, error)
	Register(ctx context.Context, user models.User) error
}

// SessionState reports the session flag.
type SessionState interface {
	IsLoggedIn() bool
}

// Session drives the login flag from login and logout.
type Session struct {
	auth     Authenticator
	creators *actions.Creators
	logger   logger.Logger
}

func NewSession(auth Authenticator, creators *actions.Creators, log logger.Logger) *Session {
	return &Session{auth: auth, creators: creators, logger: log}
}

// Login authenticates and sets the session flag. Anything but a successful login clears it.
// It dispatches on the calling goroutine; callers off the UI event loop should use Authenticate
// and hand the outcome to ApplyLoginResult on the loop instead.
func (s *Session) Login(ctx context.Context, email, password string) error {
	return s.ApplyLoginResult(s.Authenticate(ctx, email, password))
}

// Authenticate asks the server to log in without touching the session flag. It returns nil on
// success, ErrLoginRejected for refused credentials, or the wrapped transport error.
func (s *Session) Authenticate(ctx context.Context, email, password string) error {
	ok, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Login request failed")
		return fmt.Errorf("login request failed: %w", err)
	}

	if !ok {
		s.logger.Warn().Str("email", email).Msg("Login rejected")
		return ErrLoginRejected
	}

	s.logger.Info().Str("email", email).Msg("Logged in")

	return nil
}

// ApplyLoginResult sets the session flag from an Authenticate outcome and returns that outcome,
// joined with any dispatch error.
func (s *Session) ApplyLoginResult(loginErr error) error {
	if dispatchErr := s.creators.SetIsLoggedIn(loginErr == nil); dispatchErr != nil {
		return errors.Join(loginErr, dispatchErr)
	}

	return loginErr
}

// Logout clears the session flag.
func (s *Session) Logout() error {
	return s.creators.SetIsLoggedIn(false)
}
