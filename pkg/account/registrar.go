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

package account

import (
	"context"
	"sync"
	"time"

	"github.com/carverauto/utm-dashboard/pkg/actions"
	"github.com/carverauto/utm-dashboard/pkg/dispatcher"
	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
)

const defaultRegisterTimeout = 10 * time.Second

// HandlerRegistrar is the dispatcher side the registrar subscribes to.
type HandlerRegistrar interface {
	Register(handler func(actions.Action)) dispatcher.Token
	Unregister(token dispatcher.Token) error
}

// ResultFunc receives the outcome of each registration attempt.
type ResultFunc func(user models.User, err error)

// RegistrarOption configures a Registrar.
type RegistrarOption func(*Registrar)

// WithTimeout bounds each register request.
func WithTimeout(d time.Duration) RegistrarOption {
	return func(r *Registrar) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithResultFunc reports every registration outcome to fn.
func WithResultFunc(fn ResultFunc) RegistrarOption {
	return func(r *Registrar) {
		r.onResult = fn
	}
}

// Registrar forwards AddUser actions to the server. Requests run in the background;
// failures are logged and reported through the result func.
type Registrar struct {
	auth     Authenticator
	state    SessionState
	reg      HandlerRegistrar
	token    dispatcher.Token
	timeout  time.Duration
	onResult ResultFunc
	logger   logger.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewRegistrar(
	reg HandlerRegistrar, auth Authenticator, state SessionState, log logger.Logger, opts ...RegistrarOption,
) *Registrar {
	ctx, cancel := context.WithCancel(context.Background())

	r := &Registrar{
		auth:    auth,
		state:   state,
		reg:     reg,
		timeout: defaultRegisterTimeout,
		logger:  log,
		ctx:     ctx,
		cancel:  cancel,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.token = reg.Register(r.handle)

	return r
}

func (r *Registrar) handle(a actions.Action) {
	add, ok := a.(actions.AddUser)
	if !ok {
		return
	}

	user := add.User

	if !r.state.IsLoggedIn() {
		r.logger.Warn().Str("email", user.Email).Msg("Registration refused: not logged in")
		r.report(user, ErrNotLoggedIn)

		return
	}

	if err := user.Validate(); err != nil {
		r.logger.Warn().Err(err).Str("email", user.Email).Msg("Registration rejected")
		r.report(user, err)

		return
	}

	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
		defer cancel()

		err := r.auth.Register(ctx, user)
		if err != nil {
			r.logger.Error().Err(err).Str("email", user.Email).Msg("Registration failed")
		} else {
			r.logger.Info().Str("email", user.Email).Msg("User registered")
		}

		r.report(user, err)
	}()
}

func (r *Registrar) report(user models.User, err error) {
	if r.onResult != nil {
		r.onResult(user, err)
	}
}

// Close unregisters the handler, cancels pending requests and waits for them.
func (r *Registrar) Close() error {
	var err error

	r.closeOnce.Do(func() {
		err = r.reg.Unregister(r.token)
		r.cancel()
		r.wg.Wait()
	})

	return err
}
