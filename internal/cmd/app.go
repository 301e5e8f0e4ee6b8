package cmd

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pittsix/cmsctl/internal/api"
	"github.com/pittsix/cmsctl/internal/config"
	"github.com/pittsix/cmsctl/internal/errors"
	"github.com/pittsix/cmsctl/internal/log"
	"github.com/pittsix/cmsctl/internal/resource"
	"github.com/pittsix/cmsctl/internal/session"
)

// App holds the wired client stack shared by every command: config,
// logger, API client, and the session store feeding the client its
// bearer token.
type App struct {
	Config   config.Config
	Logger   *log.Logger
	Client   *api.Client
	Sessions *session.Store
}

// newApp builds the client stack from flags, config file, and
// environment.
func newApp(cmd *cobra.Command) (*App, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		if p, err := config.DefaultPath(); err == nil {
			cfgPath = p
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}

	logger := log.New(log.Config{
		Level:  log.ParseLevel(cfg.LogLevel),
		Format: log.ParseFormat(cfg.LogFormat),
		Output: log.OutputStderr(),
	})
	log.SetDefaultLogger(logger)

	credPath, err := session.DefaultCredentialPath()
	if err != nil {
		return nil, err
	}
	creds := session.NewCredentialStore(credPath)

	client := api.NewClient(cfg.APIURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		api.WithLogger(logger))

	sessions := session.NewStore(client, creds, logger)
	client.SetTokenSource(sessions)
	client.OnAuthReject(sessions.HandleAuthReject)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Client:   client,
		Sessions: sessions,
	}, nil
}

// RequireSession waits for the session to settle and fails unless it
// is authenticated.
func (a *App) RequireSession(ctx context.Context) (session.Session, error) {
	sess, err := a.Sessions.Await(ctx)
	if err != nil {
		return sess, err
	}
	if sess.Status != session.StatusAuthenticated {
		return sess, errors.NewNoSessionError()
	}
	return sess, nil
}

// Articles returns a controller for the article collection.
func (a *App) Articles() *resource.Controller[resource.Article] {
	return resource.NewController(a.Client, a.Sessions, resource.Articles(), a.Logger)
}

// Users returns a controller for the user collection.
func (a *App) Users() *resource.Controller[resource.User] {
	return resource.NewController(a.Client, a.Sessions, resource.Users(), a.Logger)
}

// Organizations returns a controller for the organization collection.
func (a *App) Organizations() *resource.Controller[resource.Organization] {
	return resource.NewController(a.Client, a.Sessions, resource.Organizations(), a.Logger)
}
