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

// Package commands fans pending settings out to the checked devices, one request per device.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
)

const (
	defaultMaxConcurrent  = 8
	defaultRequestTimeout = 10 * time.Second
)

var ErrNoTargets = errors.New("no devices selected")

// Config bounds the fan-out.
type Config struct {
	MaxConcurrent  int             `json:"max_concurrent" yaml:"max_concurrent"`
	RequestTimeout models.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// Outcome is the result for one device.
type Outcome struct {
	DeviceUUID string
	Err        error
}

// BatchResult collects the per-device outcomes of one command batch, in target order.
type BatchResult struct {
	Type      models.CommandType
	Outcomes  []Outcome
	StartedAt time.Time
	Duration  time.Duration
}

func (r *BatchResult) Succeeded() int {
	n := 0

	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}

	return n
}

func (r *BatchResult) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Err joins the per-device failures, or returns nil when every request succeeded.
func (r *BatchResult) Err() error {
	var errs []error

	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.DeviceUUID, o.Err))
		}
	}

	return errors.Join(errs...)
}

// Event converts the result to its published form.
func (r *BatchResult) Event() models.CommandBatchEventData {
	ev := models.CommandBatchEventData{
		CommandType: string(r.Type),
		Requested:   len(r.Outcomes),
		Succeeded:   r.Succeeded(),
		Failed:      r.Failed(),
		Outcomes:    make([]models.CommandOutcome, 0, len(r.Outcomes)),
		StartedAt:   r.StartedAt,
		Duration:    models.Duration(r.Duration),
	}

	for _, o := range r.Outcomes {
		out := models.CommandOutcome{DeviceUUID: o.DeviceUUID, OK: o.Err == nil}
		if o.Err != nil {
			out.Error = o.Err.Error()
		}

		ev.Outcomes = append(ev.Outcomes, out)
	}

	return ev
}

// Option configures a Sender.
type Option func(*Sender)

// WithObserver registers an observer for completed batches.
func WithObserver(o BatchObserver) Option {
	return func(s *Sender) {
		s.observers = append(s.observers, o)
	}
}

// Sender builds commands from the store and posts them.
type Sender struct {
	client         CommandSender
	state          State
	maxConcurrent  int
	requestTimeout time.Duration
	observers      []BatchObserver
	logger         logger.Logger
	now            func() time.Time
}

func NewSender(client CommandSender, state State, cfg Config, log logger.Logger, opts ...Option) *Sender {
	s := &Sender{
		client:         client,
		state:          state,
		maxConcurrent:  cfg.MaxConcurrent,
		requestTimeout: cfg.RequestTimeout.Std(),
		logger:         log,
		now:            time.Now,
	}

	if s.maxConcurrent <= 0 {
		s.maxConcurrent = defaultMaxConcurrent
	}

	if s.requestTimeout <= 0 {
		s.requestTimeout = defaultRequestTimeout
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Targets returns the checked devices present in devices, in device order. With a nil device
// list it returns every checked UUID, sorted.
func (s *Sender) Targets(devices []models.DeviceSnapshot) []string {
	checked := s.state.CheckedUUIDs()
	if devices == nil {
		sort.Strings(checked)
		return checked
	}

	set := make(map[string]struct{}, len(checked))
	for _, uuid := range checked {
		set[uuid] = struct{}{}
	}

	targets := make([]string, 0, len(checked))

	for i := range devices {
		if _, ok := set[devices[i].UUID]; ok {
			targets = append(targets, devices[i].UUID)
		}
	}

	return targets
}

// SendTrafficTestParameters pushes the pending traffic test parameters to each target.
func (s *Sender) SendTrafficTestParameters(ctx context.Context, targets []string) (*BatchResult, error) {
	params := s.state.TrafficTestParameters()

	return s.send(ctx, models.CommandTrafficTestParameters, targets, func(uuid string) models.Command {
		return models.NewTrafficTestParametersCommand(uuid, params)
	})
}

// StopTrafficTest returns each target to standard TRX mode.
func (s *Sender) StopTrafficTest(ctx context.Context, targets []string) (*BatchResult, error) {
	return s.send(ctx, models.CommandModeSet, targets, models.NewStopTrafficTestCommand)
}

// SendHeartbeat pushes the pending heartbeat settings.
func (s *Sender) SendHeartbeat(ctx context.Context, targets []string) (*BatchResult, error) {
	seconds, snap := s.state.HeartbeatSeconds(), s.state.HeartbeatSnapToRTC()

	return s.send(ctx, models.CommandHeartbeatSet, targets, func(uuid string) models.Command {
		return models.NewHeartbeatCommand(uuid, seconds, snap)
	})
}

// SendReportingInterval pushes the pending reporting interval.
func (s *Sender) SendReportingInterval(ctx context.Context, targets []string) (*BatchResult, error) {
	interval := s.state.ReportingInterval()

	return s.send(ctx, models.CommandReportingIntervalSet, targets, func(uuid string) models.Command {
		return models.NewReportingIntervalCommand(uuid, interval)
	})
}

// send posts one command per target. Requests are independent: a failure is recorded for
// its device and never cancels the others. The returned error is only ErrNoTargets.
func (s *Sender) send(
	ctx context.Context, typ models.CommandType, targets []string, build func(string) models.Command,
) (*BatchResult, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	result := &BatchResult{
		Type:      typ,
		Outcomes:  make([]Outcome, len(targets)),
		StartedAt: s.now(),
	}

	var g errgroup.Group

	g.SetLimit(s.maxConcurrent)

	for i, uuid := range targets {
		cmd := build(uuid)

		g.Go(func() error {
			reqCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
			defer cancel()

			err := s.client.SendCommand(reqCtx, cmd)
			result.Outcomes[i] = Outcome{DeviceUUID: uuid, Err: err}

			if err != nil {
				s.logger.Error().Err(err).
					Str("device_uuid", uuid).
					Str("type", string(typ)).
					Msg("Command failed")
			}

			return nil
		})
	}

	_ = g.Wait()

	result.Duration = s.now().Sub(result.StartedAt)

	s.logger.Info().
		Str("type", string(typ)).
		Int("requested", len(targets)).
		Int("failed", result.Failed()).
		Dur("elapsed", result.Duration).
		Msg("Command batch completed")

	if len(s.observers) > 0 {
		ev := result.Event()
		for _, o := range s.observers {
			o.ObserveBatch(ctx, ev)
		}
	}

	return result, nil
}
