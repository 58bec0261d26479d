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

package commands

//go:generate mockgen -destination=mock_commands.go -package=commands github.com/carverauto/utm-dashboard/pkg/commands CommandSender,BatchObserver

import (
	"context"

	"github.com/carverauto/utm-dashboard/pkg/models"
)

// CommandSender posts a single device command.
type CommandSender interface {
	SendCommand(ctx context.Context, cmd models.Command) error
}

// State is the read side of the store the sender builds command bodies from.
type State interface {
	CheckedUUIDs() []string
	TrafficTestParameters() models.TrafficTestParameters
	HeartbeatSeconds() int
	HeartbeatSnapToRTC() bool
	ReportingInterval() int
}

// BatchObserver is told about every completed batch.
type BatchObserver interface {
	ObserveBatch(ctx context.Context, batch models.CommandBatchEventData)
}
