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

package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
)

const (
	SubjectDeviceConnectivity = "utm.device.connectivity"
	SubjectCommandBatch       = "utm.commands.batch"

	EventTypeDeviceConnectivity = "com.carverauto.utm.device.connectivity"
	EventTypeCommandBatch       = "com.carverauto.utm.commands.batch"

	defaultPublishTimeout = 5 * time.Second
)

var errNATSDisabled = errors.New("nats url not configured")

// EventPublisher provides methods for publishing CloudEvents to NATS JetStream.
type EventPublisher struct {
	js      jetstream.JetStream
	stream  string
	source  string
	logger  logger.Logger
	timeout time.Duration
}

// NewEventPublisher creates a new EventPublisher for the specified stream.
func NewEventPublisher(js jetstream.JetStream, streamName, source string, log logger.Logger) *EventPublisher {
	return &EventPublisher{
		js:      js,
		stream:  streamName,
		source:  source,
		logger:  log,
		timeout: defaultPublishTimeout,
	}
}

// Stream returns the name of the stream events land in.
func (p *EventPublisher) Stream() string {
	return p.stream
}

// PublishDeviceConnectivity publishes a device connected/disconnected transition.
func (p *EventPublisher) PublishDeviceConnectivity(ctx context.Context, data models.DeviceConnectivityEventData) error {
	return p.publish(ctx, SubjectDeviceConnectivity, EventTypeDeviceConnectivity, data.ObservedAt, data)
}

// PublishCommandBatch publishes the outcome of one outbound command batch.
func (p *EventPublisher) PublishCommandBatch(ctx context.Context, data models.CommandBatchEventData) error {
	return p.publish(ctx, SubjectCommandBatch, EventTypeCommandBatch, data.StartedAt, data)
}

// ObserveBatch publishes the batch and logs failures; the batch has already completed.
func (p *EventPublisher) ObserveBatch(ctx context.Context, data models.CommandBatchEventData) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.PublishCommandBatch(ctx, data); err != nil {
		p.logger.Warn().Err(err).
			Str("command_type", data.CommandType).
			Msg("Failed to publish command batch event")
	}
}

func (p *EventPublisher) publish(ctx context.Context, subject, eventType string, ts time.Time, data interface{}) error {
	if ts.IsZero() {
		ts = time.Now()
	}

	event := models.CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          p.source,
		Type:            eventType,
		DataContentType: "application/json",
		Subject:         subject,
		Time:            &ts,
		Data:            data,
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	ack, err := p.js.Publish(ctx, subject, eventBytes)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("subject", subject).
		Uint64("seq", ack.Sequence).
		Msg("Published event")

	return nil
}

// Connect dials NATS using cfg, ensures the stream exists and returns a publisher bound to it.
func Connect(ctx context.Context, cfg *models.NATSConfig, log logger.Logger, extraOpts ...nats.Option) (*EventPublisher, *nats.Conn, error) {
	if !cfg.Enabled() {
		return nil, nil, errNATSDisabled
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	nc, err := ConnectWithSecurity(cfg, log, extraOpts...)
	if err != nil {
		return nil, nil, err
	}

	publisher, err := CreateEventPublisherWithDomain(ctx, nc, cfg.Domain, cfg.StreamName, cfg.Source, cfg.Subjects, log)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}

	return publisher, nc, nil
}

// ConnectWithSecurity creates a NATS connection, adding mTLS when cfg carries TLS material.
func ConnectWithSecurity(cfg *models.NATSConfig, log logger.Logger, extraOpts ...nats.Option) (*nats.Conn, error) {
	var opts []nats.Option

	if cfg.TLS != nil {
		tlsConf, err := TLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to build NATS TLS config: %w", err)
		}

		opts = append(opts, nats.Secure(tlsConf))
	}

	opts = append(opts,
		nats.Name(cfg.Source),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
		nats.ConnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("Connected to NATS")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)

	opts = append(opts, extraOpts...)

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return nc, nil
}

// CreateEventPublisherWithDomain creates an EventPublisher with optional NATS domain support.
// The stream is created when missing and its subject list is widened to cover both event subjects.
func CreateEventPublisherWithDomain(
	ctx context.Context, nc *nats.Conn, domain, streamName, source string, subjects []string, log logger.Logger,
) (*EventPublisher, error) {
	var (
		js  jetstream.JetStream
		err error
	)

	if domain != "" {
		js, err = jetstream.NewWithDomain(nc, domain)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream context with domain %s: %w", domain, err)
		}

		log.Debug().Str("domain", domain).Msg("Created JetStream context with domain")
	} else {
		js, err = jetstream.New(nc)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream context: %w", err)
		}
	}

	want := append([]string(nil), subjects...)
	want = ensureSubjectList(want, SubjectDeviceConnectivity)
	want = ensureSubjectList(want, SubjectCommandBatch)

	stream, err := js.Stream(ctx, streamName)

	switch {
	case err == nil:
		info := stream.CachedInfo()
		current := append([]string(nil), info.Config.Subjects...)
		merged := current

		for _, s := range want {
			merged = ensureSubjectList(merged, s)
		}

		if len(merged) != len(current) {
			cfg := info.Config
			cfg.Subjects = merged

			if _, err = js.UpdateStream(ctx, cfg); err != nil {
				return nil, fmt.Errorf("failed to update stream %s subjects: %w", streamName, err)
			}
		}
	case isStreamMissingErr(err):
		_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:     streamName,
			Subjects: want,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create stream %s: %w", streamName, err)
		}
	default:
		return nil, fmt.Errorf("failed to look up stream %s: %w", streamName, err)
	}

	return NewEventPublisher(js, streamName, source, log), nil
}

// ensureSubjectList appends subject unless an existing pattern already covers it.
func ensureSubjectList(subjects []string, subject string) []string {
	for _, pattern := range subjects {
		if matchesSubject(pattern, subject) {
			return subjects
		}
	}

	return append(subjects, subject)
}

// matchesSubject applies NATS wildcard rules: "*" matches one token, a trailing ">" the rest.
func matchesSubject(pattern, subject string) bool {
	pTokens := strings.Split(pattern, ".")
	sTokens := strings.Split(subject, ".")

	for i, p := range pTokens {
		if p == ">" {
			return i < len(sTokens)
		}

		if i >= len(sTokens) {
			return false
		}

		if p != "*" && p != sTokens[i] {
			return false
		}
	}

	return len(pTokens) == len(sTokens)
}

func isStreamMissingErr(err error) bool {
	return errors.Is(err, jetstream.ErrStreamNotFound) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrStreamNotFound) ||
		errors.Is(err, nats.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrNoResponders)
}
