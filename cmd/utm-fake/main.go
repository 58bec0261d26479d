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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/carverauto/utm-dashboard/pkg/fakebackend"
	"github.com/carverauto/utm-dashboard/pkg/lifecycle"
	"github.com/carverauto/utm-dashboard/pkg/logger"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 5 * time.Second
)

var errInvalidDeviceCount = errors.New("devices must be > 0")

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	addr := flag.String("addr", "127.0.0.1:8080", "Listen address")
	devices := flag.Int("devices", 12, "Number of simulated devices")
	email := flag.String("email", "admin@example.com", "Accepted login email")
	password := flag.String("password", "admin", "Accepted login password")
	failEvery := flag.Int("fail-every", 0, "Fail every Nth snapshot request with a 500 (0 disables)")
	tick := flag.Duration("tick", 2*time.Second, "Simulation step interval")
	corsOrigin := flag.String("cors-origin", "", "Allow a browser front end from this origin (\"*\" echoes any)")
	debug := flag.Bool("debug", false, "Log every request")
	flag.Parse()

	if *devices <= 0 {
		return errInvalidDeviceCount
	}

	logConfig := &logger.Config{Level: "info", Debug: *debug, Output: logger.OutputStdout}

	fakeLogger, err := lifecycle.CreateComponentLogger("utm-fake", logConfig)
	if err != nil {
		return err
	}

	backend := fakebackend.New(fakebackend.Options{
		Devices:    fakebackend.GenerateRoster(*devices, time.Now()),
		Email:      *email,
		Password:   *password,
		FailEvery:  *failEvery,
		CORSOrigin: *corsOrigin,
		Logger:     fakeLogger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go simulate(ctx, backend, *tick)

	server := &http.Server{
		Addr:         *addr,
		Handler:      backend,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		fakeLogger.Info().Str("addr", *addr).Int("devices", *devices).Int("fail_every", *failEvery).
			Msg("Fake UTM server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	fakeLogger.Info().Msg("Shutting down")

	return server.Shutdown(shutdownCtx)
}

func simulate(ctx context.Context, backend *fakebackend.Backend, every time.Duration) {
	if every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			backend.Advance()
		}
	}
}
