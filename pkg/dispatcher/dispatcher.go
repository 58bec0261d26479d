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

// Package dispatcher provides a synchronous broadcast dispatcher. Every dispatched message
// reaches every registered handler, in registration order, before Dispatch returns.
package dispatcher

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrDispatchInProgress is returned when Dispatch is called while another dispatch is running.
	ErrDispatchInProgress = errors.New("cannot dispatch in the middle of a dispatch")
	// ErrUnknownToken is returned by Unregister for a token it never issued or already removed.
	ErrUnknownToken = errors.New("unknown handler token")
)

// Token identifies a registered handler.
type Token uint64

type entry[M any] struct {
	token   Token
	handler func(M)
}

// Dispatcher broadcasts messages of type M.
type Dispatcher[M any] struct {
	mu          sync.Mutex
	handlers    []entry[M]
	nextToken   Token
	dispatching atomic.Bool
}

// New returns an empty dispatcher.
func New[M any]() *Dispatcher[M] {
	return &Dispatcher[M]{}
}

// Register adds a handler and returns its token.
func (d *Dispatcher[M]) Register(handler func(M)) Token {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextToken++
	d.handlers = append(d.handlers, entry[M]{token: d.nextToken, handler: handler})

	return d.nextToken
}

// Unregister removes a handler. Removal during a dispatch takes effect on the next dispatch.
func (d *Dispatcher[M]) Unregister(token Token) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, e := range d.handlers {
		if e.token == token {
			handlers := make([]entry[M], 0, len(d.handlers)-1)
			handlers = append(handlers, d.handlers[:i]...)
			d.handlers = append(handlers, d.handlers[i+1:]...)

			return nil
		}
	}

	return ErrUnknownToken
}

// Dispatch delivers msg to all handlers. It fails without delivering anything if a dispatch
// is already in progress, including one issued from inside a handler. Callers are expected to
// dispatch from a single goroutine (the UI event loop); work finishing elsewhere hands its
// result back to that goroutine rather than dispatching itself.
func (d *Dispatcher[M]) Dispatch(msg M) error {
	if !d.dispatching.CompareAndSwap(false, true) {
		return ErrDispatchInProgress
	}
	defer d.dispatching.Store(false)

	d.mu.Lock()
	handlers := d.handlers
	d.mu.Unlock()

	for _, e := range handlers {
		e.handler(msg)
	}

	return nil
}

// IsDispatching reports whether a dispatch is running.
func (d *Dispatcher[M]) IsDispatching() bool {
	return d.dispatching.Load()
}

// Len returns the number of registered handlers.
func (d *Dispatcher[M]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.handlers)
}
