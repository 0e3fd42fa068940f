package cmd

import (
	"github.com/kickabout/kickabout-cli/internal/api"
	"github.com/kickabout/kickabout-cli/internal/config"
	"github.com/kickabout/kickabout-cli/internal/errors"
	"github.com/kickabout/kickabout-cli/internal/events"
	"github.com/kickabout/kickabout-cli/internal/log"
	"github.com/kickabout/kickabout-cli/internal/profile"
	"github.com/kickabout/kickabout-cli/internal/session"
)

// app bundles the wired client stack for one command invocation
type app struct {
	cfg      config.Config
	logger   *log.Logger
	client   *api.Client
	store    *session.Store
	profiles *profile.Cache
}

// newApp loads configuration and wires the client, session store, and
// profile cache against the per-environment state directory.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURLFlag != "" {
		cfg.APIURL = apiURLFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}

	logCfg := log.DefaultConfig()
	logCfg.Level = log.ParseLevel(cfg.LogLevel)
	logCfg.Format = log.ParseFormat(cfg.LogFormat)
	logger := log.New(logCfg)
	log.SetDefaultLogger(logger)

	stateDir, err := cfg.StateDir()
	if err != nil {
		return nil, err
	}

	store, err := session.NewStore(stateDir)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.APIURL, api.WithLogger(logger))

	return &app{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		store:    store,
		profiles: profile.NewCache(stateDir, client, profile.WithLogger(logger)),
	}, nil
}

// requireSession loads the stored session, validates it for event
// features, and arms the API client with its token.
func (a *app) requireSession() (*session.Session, error) {
	sess, err := a.store.Load()
	if err != nil {
		return nil, err
	}
	if !sess.LoggedIn() {
		return nil, errors.NewAuthRequiredError()
	}
	a.client.SetToken(sess.Token)
	if !sess.CanUseEvents() {
		return nil, errors.NewSessionIncompleteError("userId")
	}
	return sess, nil
}

// synchronizer builds an event list synchronizer for this app
func (a *app) synchronizer(upcomingOnly bool) *events.Synchronizer {
	return events.NewSynchronizer(a.client, a.profiles, a.store,
		events.WithUpcomingOnly(upcomingOnly),
		events.WithLogger(a.logger))
}

// coordinator builds a join coordinator with the given strategy
func (a *app) coordinator(sync *events.Synchronizer, strategy events.Strategy) *events.Coordinator {
	return events.NewCoordinator(a.client, sync, a.store, strategy)
}
