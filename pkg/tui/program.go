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
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
)

// Program runs the terminal UI as a lifecycle service.
type Program struct {
	deps     Deps
	notifier ChangeNotifier
	opts     []tea.ProgramOption

	mu      sync.Mutex
	program *tea.Program
}

// NewProgram returns a Program that renders deps and redraws on store and poller changes.
func NewProgram(deps Deps, notifier ChangeNotifier, opts ...tea.ProgramOption) *Program {
	return &Program{deps: deps, notifier: notifier, opts: opts}
}

// Start runs the UI until the operator quits or ctx is cancelled.
func (p *Program) Start(ctx context.Context) error {
	model := New(ctx, p.deps)
	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, p.opts...)
	prog := tea.NewProgram(model, opts...)

	p.mu.Lock()
	p.program = prog
	p.mu.Unlock()

	changed := make(chan struct{}, 1)
	done := make(chan struct{})

	// Listeners can fire inside Update, where Send blocks forever. Coalesce and forward instead.
	id := p.notifier.AddChangeListener(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer p.notifier.RemoveChangeListener(id)

	go func() {
		for {
			select {
			case <-done:
				return
			case <-changed:
				prog.Send(storeChangedMsg{})
			}
		}
	}()
	defer close(done)

	unsubscribe := p.deps.Snapshots.Subscribe(func(data *models.FrontPageData) {
		prog.Send(snapshotMsg{data: data})
	})
	defer unsubscribe()

	_, err := prog.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}

	return err
}

// Stop asks the UI to exit.
func (p *Program) Stop(context.Context) error {
	p.mu.Lock()
	prog := p.program
	p.mu.Unlock()

	if prog != nil {
		prog.Quit()
	}

	return nil
}

// Headless logs a summary line for every snapshot instead of drawing the UI.
type Headless struct {
	snapshots SnapshotSource
	logger    logger.Logger
	now       func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewHeadless returns the headless reporter.
func NewHeadless(snapshots SnapshotSource, log logger.Logger) *Headless {
	return &Headless{snapshots: snapshots, logger: log, now: time.Now}
}

// Report logs one snapshot.
func (h *Headless) Report(data *models.FrontPageData) {
	summary := data.Summary()
	st := h.snapshots.Status()

	h.logger.Info().
		Int("devices_known", summary.DevicesKnown).
		Int("devices_connected", summary.DevicesConnected).
		Uint64("ul_msgs", summary.TotalUlMsgs).
		Uint64("dl_msgs", summary.TotalDlMsgs).
		Int("confirmations_outstanding", summary.NumExpectedMsgs).
		Uint64("polls", st.TotalPolls).
		Uint64("poll_failures", st.TotalFailures).
		Bool("stale", st.Stale).
		Msg(SummaryLine(summary, h.now()))
}

// Start reports every snapshot until ctx is cancelled or Stop is called.
func (h *Headless) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()

	unsubscribe := h.snapshots.Subscribe(h.Report)
	defer unsubscribe()

	<-ctx.Done()

	return nil
}

func (h *Headless) Stop(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
	}

	return nil
}
