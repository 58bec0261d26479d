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

package models

import "time"

// NATSConfig configures the optional event publisher.
type NATSConfig struct {
	URL        string   `json:"url" yaml:"url"`
	Domain     string   `json:"domain,omitempty" yaml:"domain,omitempty"`
	StreamName string   `json:"stream_name,omitempty" yaml:"stream_name,omitempty"`
	Source     string   `json:"source,omitempty" yaml:"source,omitempty"`
	Subjects   []string `json:"subjects,omitempty" yaml:"subjects,omitempty"`
	TLS        *NATSTLS `json:"tls,omitempty" yaml:"tls,omitempty"`
}

// NATSTLS holds the mTLS material for the NATS connection.
type NATSTLS struct {
	CertFile   string `json:"cert_file" yaml:"cert_file"`
	KeyFile    string `json:"key_file" yaml:"key_file"`
	CAFile     string `json:"ca_file" yaml:"ca_file"`
	ServerName string `json:"server_name,omitempty" yaml:"server_name,omitempty"`
}

// Enabled reports whether a NATS URL has been configured.
func (c *NATSConfig) Enabled() bool {
	return c != nil && c.URL != ""
}

// Validate fills defaults for an enabled configuration.
func (c *NATSConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}

	if c.StreamName == "" {
		c.StreamName = "utm_events"
	}

	if c.Source == "" {
		c.Source = "utm-dashboard"
	}

	if len(c.Subjects) == 0 {
		c.Subjects = []string{"utm.device.>", "utm.commands.>"}
	}

	return nil
}

// CloudEvent represents a CloudEvents v1.0 compliant event.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	ID              string      `json:"id"`
	Source          string      `json:"source"`
	Type            string      `json:"type"`
	DataContentType string      `json:"datacontenttype"`
	Subject         string      `json:"subject,omitempty"`
	Time            *time.Time  `json:"time,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}

// DeviceConnectivityEventData is the payload of a connectivity change event.
type DeviceConnectivityEventData struct {
	DeviceUUID string    `json:"device_uuid"`
	DeviceName string    `json:"device_name,omitempty"`
	Connected  bool      `json:"connected"`
	ObservedAt time.Time `json:"observed_at"`
}

// CommandOutcome is the result of one per-device command request.
type CommandOutcome struct {
	DeviceUUID string `json:"device_uuid"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

// CommandBatchEventData is the payload published after a command batch completes.
type CommandBatchEventData struct {
	CommandType string           `json:"command_type"`
	Requested   int              `json:"requested"`
	Succeeded   int              `json:"succeeded"`
	Failed      int              `json:"failed"`
	Outcomes    []CommandOutcome `json:"outcomes"`
	StartedAt   time.Time        `json:"started_at"`
	Duration    Duration         `json:"duration"`
}
