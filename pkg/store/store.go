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

// Package store owns the dashboard's client-side state. It is the only writer of that state and
// mutates it solely in response to dispatched actions.
package store

import (
	"sort"
	"sync"

	"github.com/carverauto/utm-dashboard/pkg/actions"
	"github.com/carverauto/utm-dashboard/pkg/dispatcher"
	"github.com/carverauto/utm-dashboard/pkg/limits"
	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
)

// Registrar is the dispatcher side the store subscribes to.
type Registrar interface {
	Register(handler func(actions.Action)) dispatcher.Token
	Unregister(token dispatcher.Token) error
}

// EmitPolicy controls when change listeners fire.
type EmitPolicy int

const (
	// EmitOnChange notifies only when an action changed state.
	EmitOnChange EmitPolicy = iota
	// EmitAlways notifies once per dispatched action, mutated or not.
	EmitAlways
)

// ListenerID identifies a change listener.
type ListenerID uint64

type listener struct {
	id ListenerID
	fn func()
}

// Option configures a Store.
type Option func(*Store)

// WithEmitAlways notifies for every dispatched action, including ones that changed nothing.
func WithEmitAlways() Option {
	return func(s *Store) {
		s.policy = EmitAlways
	}
}

// WithEmitPolicy sets the emit policy.
func WithEmitPolicy(p EmitPolicy) Option {
	return func(s *Store) {
		s.policy = p
	}
}

// Store holds the checked-device set, pending settings and the session flag.
type Store struct {
	log    logger.Logger
	reg    Registrar
	token  dispatcher.Token
	policy EmitPolicy

	mu                 sync.RWMutex
	checked            map[string]struct{}
	loggedIn           bool
	heartbeatSeconds   int
	heartbeatSnapToRTC bool
	reportingInterval  int
	tt                 models.TrafficTestParameters

	listenerMu     sync.Mutex
	listeners      []listener
	nextListenerID ListenerID

	closeOnce sync.Once
}

// New creates a store and registers its handler with reg.
func New(reg Registrar, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		log:               log,
		reg:               reg,
		checked:           make(map[string]struct{}),
		heartbeatSeconds:  limits.HeartbeatSeconds.Default,
		reportingInterval: limits.ReportingInterval.Default,
		tt: models.TrafficTestParameters{
			NumULDatagrams:    limits.TTNumULDatagrams.Default,
			LenULDatagram:     limits.TTLenULDatagram.Default,
			NumDLDatagrams:    limits.TTNumDLDatagrams.Default,
			LenDLDatagram:     limits.TTLenDLDatagram.Default,
			TimeoutSeconds:    limits.TTTimeoutSeconds.Default,
			DLIntervalSeconds: limits.TTDLIntervalSeconds.Default,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.token = reg.Register(s.handle)

	return s
}

// Close unregisters the store from its dispatcher.
func (s *Store) Close() error {
	var err error

	s.closeOnce.Do(func() {
		err = s.reg.Unregister(s.token)
	})

	return err
}

// AddChangeListener registers fn to be called after every emitted change.
func (s *Store) AddChangeListener(fn func()) ListenerID {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()

	s.nextListenerID++
	s.listeners = append(s.listeners, listener{id: s.nextListenerID, fn: fn})

	return s.nextListenerID
}

// RemoveChangeListener removes a listener. Unknown ids are ignored.
func (s *Store) RemoveChangeListener(id ListenerID) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()

	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

func (s *Store) emit() {
	s.listenerMu.Lock()
	snapshot := make([]listener, len(s.listeners))
	copy(snapshot, s.listeners)
	s.listenerMu.Unlock()

	for _, l := range snapshot {
		l.fn()
	}
}

func (s *Store) handle(a actions.Action) {
	s.mu.Lock()
	changed := s.apply(a)
	s.mu.Unlock()

	if changed || s.policy == EmitAlways {
		s.emit()
	}
}

// apply mutates state for a and reports whether anything changed. Caller holds mu.
func (s *Store) apply(a actions.Action) bool {
	switch act := a.(type) {
	case actions.SetUUIDChecked:
		if _, ok := s.checked[act.UUID]; ok {
			return false
		}

		s.checked[act.UUID] = struct{}{}

		return true
	case actions.SetUUIDUnchecked:
		if _, ok := s.checked[act.UUID]; !ok {
			return false
		}

		delete(s.checked, act.UUID)

		return true
	case actions.SetIsLoggedIn:
		return setValue(&s.loggedIn, act.IsLoggedIn)
	case actions.SetHeartbeatSeconds:
		return setValue(&s.heartbeatSeconds, limits.HeartbeatSeconds.Clamp(act.Seconds))
	case actions.SetHeartbeatSnapToRTC:
		return setValue(&s.heartbeatSnapToRTC, act.Snap)
	case actions.SetReportingInterval:
		return setValue(&s.reportingInterval, limits.ReportingInterval.Clamp(act.Interval))
	case actions.SetTTNumULDatagrams:
		return setValue(&s.tt.NumULDatagrams, limits.TTNumULDatagrams.Clamp(act.Value))
	case actions.SetTTLenULDatagram:
		return setValue(&s.tt.LenULDatagram, limits.TTLenULDatagram.Clamp(act.Value))
	case actions.SetTTNumDLDatagrams:
		return setValue(&s.tt.NumDLDatagrams, limits.TTNumDLDatagrams.Clamp(act.Value))
	case actions.SetTTLenDLDatagram:
		return setValue(&s.tt.LenDLDatagram, limits.TTLenDLDatagram.Clamp(act.Value))
	case actions.SetTTTimeoutSeconds:
		return setValue(&s.tt.TimeoutSeconds, limits.TTTimeoutSeconds.Clamp(act.Value))
	case actions.SetTTDLIntervalSeconds:
		return setValue(&s.tt.DLIntervalSeconds, limits.TTDLIntervalSeconds.Clamp(act.Value))
	case actions.SetTTNoReportsDuringTest:
		return setValue(&s.tt.NoReportsDuringTest, act.Value)
	case actions.AddUser:
		// handled by the account registrar
		return false
	case nil:
		s.log.Warn().Msg("Store ignoring nil action")

		return false
	default:
		s.log.Warn().Stringer("kind", a.Kind()).Msg("Store ignoring unrecognized action")

		return false
	}
}

func setValue[T comparable](dst *T, v T) bool {
	if *dst == v {
		return false
	}

	*dst = v

	return true
}

// IsUUIDChecked reports whether the device is in the checked set.
func (s *Store) IsUUIDChecked(uuid string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.checked[uuid]

	return ok
}

// CheckedUUIDs returns a sorted copy of the checked-device set.
func (s *Store) CheckedUUIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.checked))
	for uuid := range s.checked {
		out = append(out, uuid)
	}

	sort.Strings(out)

	return out
}

// CheckedCount returns the number of checked devices.
func (s *Store) CheckedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.checked)
}

// IsLoggedIn reports the session flag.
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loggedIn
}

// HeartbeatSeconds returns the pending heartbeat period, clamped to its limits.
func (s *Store) HeartbeatSeconds() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.heartbeatSeconds
}

// HeartbeatSnapToRTC reports whether the pending heartbeat aligns to the device RTC.
func (s *Store) HeartbeatSnapToRTC() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.heartbeatSnapToRTC
}

// ReportingInterval returns the pending number of heartbeats between reports.
func (s *Store) ReportingInterval() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.reportingInterval
}

// TrafficTestParameters returns a copy of the pending traffic test parameters.
func (s *Store) TrafficTestParameters() models.TrafficTestParameters {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tt
}
