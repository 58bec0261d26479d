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

// Package fakebackend is an in-memory UTM server for development and tests. It serves the
// snapshot, command, login and registration endpoints the dashboard consumes.
package fakebackend

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
)

const sessionCookie = "utm_session"

var errNotLoggedIn = errors.New("not logged in")

// Options configures a Backend.
type Options struct {
	Devices  []models.DeviceSnapshot
	Email    string
	Password string
	// FailEvery makes every Nth snapshot request answer 500. Zero disables failures.
	FailEvery int
	// OmitSummary drops SummaryData from snapshot responses.
	OmitSummary bool
	// CORSOrigin enables CORS for a browser front end; "*" echoes the request origin.
	CORSOrigin string
	Logger     logger.Logger
}

// Backend holds the fake server state.
type Backend struct {
	mu               sync.Mutex
	opts             Options
	devices          []models.DeviceSnapshot
	commands         []models.Command
	users            []models.User
	sessions         map[string]struct{}
	snapshotRequests int
	clock            func() time.Time

	router chi.Router
}

// New creates a backend and its router.
func New(opts Options) *Backend {
	if opts.Logger == nil {
		opts.Logger = logger.NewTestLogger()
	}

	b := &Backend{
		opts:     opts,
		devices:  append([]models.DeviceSnapshot(nil), opts.Devices...),
		sessions: make(map[string]struct{}),
		clock:    time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(opts.Logger))

	if opts.CORSOrigin != "" {
		r.Use(CORS(opts.CORSOrigin))
	}

	r.Get("/frontPageData", b.handleSnapshot)
	r.Get("/latestState", b.handleSnapshot)
	r.Post("/sendMsg", b.handleSendMsg)
	r.Post("/login", b.handleLogin)
	r.Put("/register", b.handleRegister)

	b.router = r

	return b
}

// ServeHTTP implements http.Handler.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// Commands returns every command received so far, in arrival order.
func (b *Backend) Commands() []models.Command {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]models.Command(nil), b.commands...)
}

// Users returns the registered users.
func (b *Backend) Users() []models.User {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]models.User(nil), b.users...)
}

// SnapshotRequests counts snapshot requests, failed ones included.
func (b *Backend) SnapshotRequests() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.snapshotRequests
}

// SetDevices replaces the roster.
func (b *Backend) SetDevices(devices []models.DeviceSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.devices = append([]models.DeviceSnapshot(nil), devices...)
}

// Devices returns a copy of the roster.
func (b *Backend) Devices() []models.DeviceSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]models.DeviceSnapshot(nil), b.devices...)
}

func (b *Backend) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	b.snapshotRequests++
	n := b.snapshotRequests
	data := models.FrontPageData{DeviceData: b.devices}

	if !b.opts.OmitSummary {
		summary := summarize(b.devices)
		data.SummaryData = &summary
	}

	// marshal under the lock; devices share traffic test state with the simulation
	payload, err := json.Marshal(data)
	b.mu.Unlock()

	if b.opts.FailEvery > 0 && n%b.opts.FailEvery == 0 {
		respondError(w, http.StatusInternalServerError, "injected failure")
		return
	}

	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (b *Backend) handleSendMsg(w http.ResponseWriter, r *http.Request) {
	var cmd models.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondError(w, http.StatusBadRequest, "invalid command body")
		return
	}

	if cmd.DeviceUUID == "" || cmd.Type == "" {
		respondError(w, http.StatusBadRequest, "device_uuid and type are required")
		return
	}

	b.mu.Lock()
	b.commands = append(b.commands, cmd)
	found := b.applyCommand(cmd)
	b.mu.Unlock()

	if !found {
		respondError(w, http.StatusNotFound, "unknown device")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "queued", "device_uuid": cmd.DeviceUUID})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "invalid login body")
		return
	}

	if creds.Email == "" || creds.Email != b.opts.Email || creds.Password != b.opts.Password {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token := uuid.NewString()

	b.mu.Lock()
	b.sessions[token] = struct{}{}
	b.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/", HttpOnly: true})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := b.authorize(r); err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondError(w, http.StatusBadRequest, "invalid user body")
		return
	}

	if err := user.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	b.mu.Lock()
	b.users = append(b.users, user)
	b.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]string{"email": user.Email})
}

func (b *Backend) authorize(r *http.Request) error {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return errNotLoggedIn
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.sessions[c.Value]; !ok {
		return errNotLoggedIn
	}

	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
