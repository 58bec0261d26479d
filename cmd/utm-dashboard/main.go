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
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/carverauto/utm-dashboard/pkg/account"
	"github.com/carverauto/utm-dashboard/pkg/actions"
	"github.com/carverauto/utm-dashboard/pkg/commands"
	"github.com/carverauto/utm-dashboard/pkg/config"
	"github.com/carverauto/utm-dashboard/pkg/dispatcher"
	"github.com/carverauto/utm-dashboard/pkg/lifecycle"
	"github.com/carverauto/utm-dashboard/pkg/logger"
	"github.com/carverauto/utm-dashboard/pkg/models"
	"github.com/carverauto/utm-dashboard/pkg/natsutil"
	"github.com/carverauto/utm-dashboard/pkg/poller"
	"github.com/carverauto/utm-dashboard/pkg/store"
	"github.com/carverauto/utm-dashboard/pkg/tui"
	"github.com/carverauto/utm-dashboard/pkg/utm"
	"github.com/carverauto/utm-dashboard/pkg/version"
)

var (
	errFailedToLoadConfig = errors.New("failed to load config")
	errNoTerminal         = errors.New("password required but stdin is not a terminal")
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to dashboard config file (JSON or YAML); empty uses env only")
	envFile := flag.String("env-file", ".env", "Optional .env file with UTM_ overrides")
	headless := flag.Bool("headless", false, "Log a summary per snapshot instead of drawing the UI")
	email := flag.String("email", "", "Log in as this user at startup")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetFullVersion())
		return nil
	}

	ctx := context.Background()

	var cfg config.DashboardConfig

	loader := config.NewLoader(nil, config.WithDotEnv(*envFile))
	if err := loader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	if *debug {
		cfg.Logging.Debug = true
	}

	if *headless {
		cfg.Headless = true
	}

	if *email != "" {
		cfg.Login.Email = *email
	}

	mainLogger, err := lifecycle.CreateComponentLogger("utm-dashboard", cfg.Logging)
	if err != nil {
		return err
	}

	redacted := cfg.Redacted()
	mainLogger.Info().
		Str("version", version.GetFullVersion()).
		Str("base_url", redacted.UTM.BaseURL).
		Bool("headless", cfg.Headless).
		Bool("nats", cfg.NATS.Enabled()).
		Msg("Starting UTM dashboard")

	return runDashboard(ctx, &cfg, mainLogger)
}

func runDashboard(ctx context.Context, cfg *config.DashboardConfig, log logger.Logger) error {
	d := dispatcher.New[actions.Action]()
	creators := actions.NewCreators(d)

	var storeOpts []store.Option
	if cfg.EmitAlways {
		storeOpts = append(storeOpts, store.WithEmitAlways())
	}

	st := store.New(d, logger.Component(log, "store"), storeOpts...)
	defer func() { _ = st.Close() }()

	client, err := utm.NewClient(&cfg.UTM, logger.Component(log, "utm"))
	if err != nil {
		return err
	}

	p, err := poller.New(&cfg.Poll, client, nil, logger.Component(log, "poller"))
	if err != nil {
		return err
	}

	var senderOpts []commands.Option

	if cfg.NATS.Enabled() {
		publisher, nc, err := natsutil.Connect(ctx, &cfg.NATS, logger.Component(log, "nats"))
		if err != nil {
			return err
		}
		defer func() { _ = nc.Drain() }()

		tracker := natsutil.NewConnectivityTracker(publisher, logger.Component(log, "nats"))
		unsubscribe := p.Subscribe(tracker.Observe)
		defer unsubscribe()

		senderOpts = append(senderOpts, commands.WithObserver(publisher))
	}

	sender := commands.NewSender(client, st, cfg.Commands, logger.Component(log, "commands"), senderOpts...)
	session := account.NewSession(client, creators, logger.Component(log, "account"))

	registrar := account.NewRegistrar(d, client, st, logger.Component(log, "account"),
		account.WithTimeout(cfg.UTM.RequestTimeout.Std()),
		account.WithResultFunc(func(user models.User, err error) {
			if err != nil {
				log.Warn().Err(err).Str("email", user.Email).Msg("Registration failed")
				return
			}

			log.Info().Str("email", user.Email).Msg("Registration accepted")
		}),
	)
	defer func() { _ = registrar.Close() }()

	if err := startupLogin(ctx, cfg, session, log); err != nil {
		return err
	}

	var ui lifecycle.Service

	if cfg.Headless {
		ui = tui.NewHeadless(p, logger.Component(log, "headless"))
	} else {
		ui = tui.NewProgram(tui.Deps{
			State:      st,
			Creators:   creators,
			Commands:   sender,
			Session:    session,
			Snapshots:  p,
			Logger:     logger.Component(log, "tui"),
			LoginEmail: cfg.Login.Email,
		}, st)
	}

	return lifecycle.Run(ctx, log, p, ui)
}

// startupLogin logs in before the UI starts when an email is configured. A rejected login is
// not fatal; the dashboard opens on the login view instead.
func startupLogin(ctx context.Context, cfg *config.DashboardConfig, session *account.Session, log logger.Logger) error {
	if cfg.Login.Email == "" {
		return nil
	}

	password := cfg.Login.Password
	if password == "" {
		var err error

		password, err = readPassword(cfg.Login.Email)
		if err != nil {
			return err
		}
	}

	if err := session.Login(ctx, cfg.Login.Email, password); err != nil {
		log.Warn().Err(err).Str("email", cfg.Login.Email).Msg("Startup login failed")
		return nil
	}

	log.Info().Str("email", cfg.Login.Email).Msg("Logged in")

	return nil
}

func readPassword(email string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errNoTerminal
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", email)

	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	return strings.TrimSpace(string(raw)), nil
}
