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

// Package utm is the HTTP client for the UTM server endpoints the dashboard consumes.
package utm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
	"github.com/carverauto/utm-dashboard/pkg/version"
)

const (
	SnapshotFrontPage   = "frontPageData"
	SnapshotLatestState = "latestState"

	// DefaultRequestTimeout bounds each request when the config leaves it unset.
	DefaultRequestTimeout = 10 * time.Second

	pathSendMsg  = "sendMsg"
	pathLogin    = "login"
	pathRegister = "register"

	contentTypeJSON  = "application/json;charset=UTF-8"
	headerRequestID  = "X-Request-ID"
	maxErrorBody     = 2048
	maxSnapshotBytes = 32 << 20
)

// Config controls how the client reaches the UTM server.
type Config struct {
	BaseURL        string          `json:"base_url" yaml:"base_url"`
	SnapshotPath   string          `json:"snapshot_path" yaml:"snapshot_path"`
	RequestTimeout models.Duration `json:"request_timeout" yaml:"request_timeout"`
	// HTTP overrides the transport; tests use it to reach httptest servers.
	HTTP *http.Client `json:"-" yaml:"-"`
}

// Client talks to the UTM server. It keeps the login session in a cookie jar.
type Client struct {
	baseURL      *url.URL
	snapshotPath string
	timeout      time.Duration
	client       *http.Client
	logger       logger.Logger
}

// NewClient constructs a client for cfg.BaseURL.
func NewClient(cfg *Config, log logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrBaseURLRequired
	}

	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", errInvalidBaseURL, cfg.BaseURL)
	}

	snapshotPath := cfg.SnapshotPath
	switch snapshotPath {
	case "":
		snapshotPath = SnapshotFrontPage
	case SnapshotFrontPage, SnapshotLatestState:
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownSnapshot, snapshotPath)
	}

	timeout := cfg.RequestTimeout.Std()
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}

		httpClient = &http.Client{Jar: jar}
	}

	// login answers 302 on success; the status must reach the caller
	hc := *httpClient
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Client{
		baseURL:      parsed,
		snapshotPath: snapshotPath,
		timeout:      timeout,
		client:       &hc,
		logger:       log,
	}, nil
}

// RequestTimeout is the per-request bound applied by the client.
func (c *Client) RequestTimeout() time.Duration {
	return c.timeout
}

// FetchSnapshot retrieves the current fleet snapshot.
func (c *Client) FetchSnapshot(ctx context.Context) (*models.FrontPageData, error) {
	resp, err := c.do(ctx, http.MethodGet, c.snapshotPath, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var data models.FrontPageData
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxSnapshotBytes)).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}

	return data.Normalize(), nil
}

// SendCommand posts one device command. Any 2xx response is success; the body is discarded.
func (c *Client) SendCommand(ctx context.Context, cmd models.Command) error {
	resp, err := c.do(ctx, http.MethodPost, pathSendMsg, cmd)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	return nil
}

// Login posts credentials and reports whether the server accepted them, which it signals
// with a 302 redirect.
func (c *Client) Login(ctx context.Context, email, password string) (bool, error) {
	resp, err := c.do(ctx, http.MethodPost, pathLogin, models.Credentials{Email: email, Password: password})
	if err != nil {
		return false, err
	}
	defer drain(resp)

	return resp.StatusCode == http.StatusFound, nil
}

// Register submits a new user account.
func (c *Client) Register(ctx context.Context, user models.User) error {
	resp, err := c.do(ctx, http.MethodPut, pathRegister, user)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s request: %w", endpoint, err)
		}

		reader = bytes.NewReader(payload)
	}

	u := *c.baseURL
	u.Path = path.Join("/", u.Path, endpoint)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}

	requestID := uuid.NewString()

	req.Header.Set(headerRequestID, requestID)
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	c.logger.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Str("request_id", requestID).
		Msg("UTM request")

	resp, err := c.client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%s %s failed: %w", method, endpoint, err)
	}

	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}

	return resp, nil
}

// cancelOnClose releases the request context once the body is consumed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()

	return err
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}

func statusError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	return fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(msg)))
}
