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

package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/utm-dashboard/pkg/logger"
)

var errBoom = errors.New("boom")

type fakeService struct {
	name    string
	startFn func(ctx context.Context) error

	order   *[]string
	orderMu *sync.Mutex
}

func (f *fakeService) Start(ctx context.Context) error {
	return f.startFn(ctx)
}

func (f *fakeService) Stop(context.Context) error {
	f.orderMu.Lock()
	*f.order = append(*f.order, f.name)
	f.orderMu.Unlock()

	return nil
}

func blockUntilDone(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRunStopsAllInReverseOrderOnCancel(t *testing.T) {
	t.Parallel()

	var (
		order   []string
		orderMu sync.Mutex
	)

	a := &fakeService{name: "a", startFn: blockUntilDone, order: &order, orderMu: &orderMu}
	b := &fakeService{name: "b", startFn: blockUntilDone, order: &order, orderMu: &orderMu}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, Run(ctx, logger.NewTestLogger(), a, b))
	assert.Equal(t, []string{"b", "a"}, order)
}

func TestRunReturnsFirstServiceError(t *testing.T) {
	t.Parallel()

	var (
		order   []string
		orderMu sync.Mutex
	)

	failing := &fakeService{name: "failing", startFn: func(context.Context) error { return errBoom }, order: &order, orderMu: &orderMu}
	other := &fakeService{name: "other", startFn: blockUntilDone, order: &order, orderMu: &orderMu}

	err := Run(context.Background(), logger.NewTestLogger(), other, failing)
	require.ErrorIs(t, err, errBoom)
	assert.ElementsMatch(t, []string{"failing", "other"}, order)
}

func TestRunCleanExitIsNotAnError(t *testing.T) {
	t.Parallel()

	var (
		order   []string
		orderMu sync.Mutex
	)

	done := &fakeService{name: "done", startFn: func(context.Context) error { return nil }, order: &order, orderMu: &orderMu}

	require.NoError(t, Run(context.Background(), logger.NewTestLogger(), done))
	assert.Equal(t, []string{"done"}, order)
}

func TestCreateComponentLogger(t *testing.T) {
	t.Parallel()

	log, err := CreateComponentLogger("poller", nil)
	require.NoError(t, err)
	assert.NotNil(t, log)

	_, err = CreateLogger(&logger.Config{Output: "carrier-pigeon"})
	require.Error(t, err)
}
