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

// Package poller runs the snapshot poll loop: fetch, publish, wait, repeat, until stopped.
package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
)

// Status describes the health of the poll loop.
type Status struct {
	LastAttempt         time.Time
	LastSuccess         time.Time
	LastError           string
	ConsecutiveFailures int
	TotalPolls          uint64
	TotalFailures       uint64
	NextDelay           time.Duration
	Stale               bool
}

// Subscriber receives every successfully fetched snapshot.
type Subscriber func(*models.FrontPageData)

// Poller periodically fetches the fleet snapshot.
type Poller struct {
	config  Config
	fetcher Fetcher
	clock   Clock
	logger  logger.Logger
	backoff *backoff.ExponentialBackOff

	mu     sync.RWMutex
	latest *models.FrontPageData
	status Status
	cancel context.CancelFunc

	subMu   sync.RWMutex
	subs    map[int]Subscriber
	nextSub int

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a new poller instance. A nil clock uses the real clock.
func New(config *Config, fetcher Fetcher, clock Clock, log logger.Logger) (*Poller, error) {
	if fetcher == nil {
		return nil, errFetcherRequired
	}

	cfg := *config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if clock == nil {
		clock = realClock{}
	}

	p := &Poller{
		config:  cfg,
		fetcher: fetcher,
		clock:   clock,
		logger:  log,
		subs:    make(map[int]Subscriber),
		done:    make(chan struct{}),
	}

	if cfg.Backoff.Enabled {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = cfg.Backoff.InitialInterval.Std()
		bo.MaxInterval = cfg.Backoff.MaxInterval.Std()
		bo.Multiplier = cfg.Backoff.Multiplier
		bo.RandomizationFactor = 0
		p.backoff = bo
	}

	return p, nil
}

// Start implements the lifecycle.Service interface. It polls immediately, then again Interval
// after each poll completes, until ctx is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	defer p.wg.Done()

	p.logger.Info().Dur("interval", p.config.Interval.Std()).Msg("Starting poller")

	for {
		if p.stopped() {
			return nil
		}

		delay := p.nextDelay(p.poll(ctx))
		if p.stopped() {
			return nil
		}

		timer := p.clock.NewTimer(delay)

		select {
		case <-ctx.Done():
			timer.Stop()

			if p.stopped() {
				return nil
			}

			return ctx.Err()
		case <-p.done:
			timer.Stop()

			return nil
		case <-timer.Chan():
		}
	}
}

// Stop implements the lifecycle.Service interface. It is safe to call more than once.
func (p *Poller) Stop(ctx context.Context) error {
	p.closeOnce.Do(func() {
		close(p.done)
	})

	p.mu.RLock()
	cancel := p.cancel
	p.mu.RUnlock()

	if cancel != nil {
		cancel()
	}

	stopped := make(chan struct{})

	go func() {
		p.wg.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
		p.logger.Info().Msg("Poller stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", errStopTimedOut, ctx.Err())
	}
}

func (p *Poller) stopped() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// poll performs a single fetch and publishes the result on success.
func (p *Poller) poll(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(ctx, p.config.FetchTimeout.Std())
	defer cancel()

	started := p.clock.Now()

	data, err := p.fetcher.FetchSnapshot(fetchCtx)
	if err == nil && data == nil {
		err = errNilSnapshot
	}

	p.mu.Lock()

	p.status.LastAttempt = started
	p.status.TotalPolls++

	if err != nil {
		p.status.TotalFailures++
		p.status.ConsecutiveFailures++
		p.status.LastError = err.Error()
		failures := p.status.ConsecutiveFailures
		p.mu.Unlock()

		if !errors.Is(err, context.Canceled) {
			p.logger.Warn().Err(err).Int("consecutive_failures", failures).Msg("Snapshot poll failed")
		}

		return err
	}

	data.Normalize()

	p.latest = data
	p.status.LastSuccess = p.clock.Now()
	p.status.LastError = ""
	p.status.ConsecutiveFailures = 0
	p.mu.Unlock()

	p.logger.Debug().
		Int("devices", len(data.DeviceData)).
		Dur("elapsed", p.clock.Now().Sub(started)).
		Msg("Snapshot poll completed")

	p.notify(data)

	return nil
}

func (p *Poller) nextDelay(pollErr error) time.Duration {
	delay := p.config.Interval.Std()

	if p.backoff != nil {
		if pollErr == nil {
			p.backoff.Reset()
		} else if next := p.backoff.NextBackOff(); next > delay {
			delay = next
		}
	}

	p.mu.Lock()
	p.status.NextDelay = delay
	p.mu.Unlock()

	return delay
}

func (p *Poller) notify(data *models.FrontPageData) {
	p.subMu.RLock()
	subs := make([]Subscriber, 0, len(p.subs))

	for i := 0; i < p.nextSub; i++ {
		if fn, ok := p.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	p.subMu.RUnlock()

	for _, fn := range subs {
		fn(data)
	}
}

// Subscribe registers fn for every new snapshot and returns a function that removes it.
func (p *Poller) Subscribe(fn Subscriber) func() {
	p.subMu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.subMu.Unlock()

	return func() {
		p.subMu.Lock()
		delete(p.subs, id)
		p.subMu.Unlock()
	}
}

// Latest returns the most recent successful snapshot, or nil before the first success.
// Callers must treat it as read-only.
func (p *Poller) Latest() *models.FrontPageData {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.latest
}

// Status returns the loop's health. Stale is true when the last success is older than
// StaleAfter, or when nothing has succeeded yet after at least one attempt.
func (p *Poller) Status() Status {
	p.mu.RLock()
	st := p.status
	p.mu.RUnlock()

	switch {
	case st.LastSuccess.IsZero():
		st.Stale = st.TotalPolls > 0
	default:
		st.Stale = p.clock.Now().Sub(st.LastSuccess) > p.config.StaleAfter.Std()
	}

	return st
}
