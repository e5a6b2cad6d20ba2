// Package cli wires the companion commands.
package cli

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/gitrec/gitrec-companion/config"
	"github.com/gitrec/gitrec-companion/logger"
	"github.com/gitrec/gitrec-companion/render"
	"github.com/gitrec/gitrec-companion/service"
	"github.com/gitrec/gitrec-companion/session"
	"github.com/gitrec/gitrec-companion/store"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gitrec-companion",
		Short:         "Recommendations from GitRec for GitHub repository and dashboard pages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd(), similarCmd(), exploreCmd(), preferenceCmd(), readCmd())
	return root
}

// app holds everything a command needs
type app struct {
	config      *config.Config
	gitrec      service.GitrecService
	github      service.GithubService
	preferences store.PreferenceStore
	sessions    *session.Registry
	companion   service.CompanionService
}

func (a *app) Close() {
	if err := a.preferences.Close(); err != nil {
		log.WithError(err).Warning("unable to close preference store")
	}
}

// loadConfig loads the configuration and sets the logger up
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger.Setup(*cfg)
	return cfg, nil
}

// newApp builds the services.
// rateLimiter may be nil, the GitHub anonymous budget from the config is used then.
func newApp(cfg *config.Config, rateLimiter *rate.Limiter) (*app, error) {
	preferences, err := openStore(*cfg)
	if err != nil {
		return nil, err
	}

	githubClient := newGithubClient(*cfg)
	if rateLimiter == nil {
		rateLimiter = service.NewRateLimiter(cfg.Github.DefaultHourlyLimit, cfg.Github.DefaultHourlyLimit)
	}

	// the jar keeps the recommender session cookie between calls
	jar, err := cookiejar.New(nil)
	if err != nil {
		preferences.Close()
		return nil, err
	}

	a := &app{
		config:      cfg,
		gitrec:      service.NewGitrecService(*cfg, &http.Client{Jar: jar, Timeout: cfg.Gitrec.RequestTimeout}),
		github:      service.NewGithubService(*cfg, githubClient, rateLimiter),
		preferences: preferences,
		sessions:    session.NewRegistry(cfg.API.SessionTTL),
	}

	a.companion = service.NewCompanionService(a.gitrec, a.github, a.preferences, render.New(cfg.Gitrec.BaseURL), a.sessions)
	return a, nil
}

func newGithubClient(cfg config.Config) *github.Client {
	githubClient := github.NewClient(nil)

	if cfg.Github.Token != "" {
		log.Debug("will setup github client with authorization token")
		githubClient = githubClient.WithAuthToken(cfg.Github.Token)
	}

	return githubClient
}

func openStore(cfg config.Config) (store.PreferenceStore, error) {
	if cfg.Store.Driver == "memory" {
		return store.NewMemory(), nil
	}

	return store.OpenSQLite(cfg.Store.Path)
}

// currentRateLimiter seeds the local limiter with what GitHub reports.
// When GitHub can't be asked, the configured anonymous budget is assumed.
func currentRateLimiter(cfg config.Config) *rate.Limiter {
	log.Debug("loading current rate limit from github")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rateLimits, _, err := newGithubClient(cfg).RateLimit.Get(ctx)
	if err != nil || rateLimits == nil || rateLimits.Core == nil {
		log.WithError(err).Warning("unable to load current github rate limits, using the configured budget")
		return service.NewRateLimiter(cfg.Github.DefaultHourlyLimit, cfg.Github.DefaultHourlyLimit)
	}

	log.WithFields(log.Fields{
		"totalAvailable":    rateLimits.Core.Limit,
		"remainingRequests": rateLimits.Core.Remaining,
	}).Debug("will setup local rate limiter with rate limits infos from github")

	return service.NewRateLimiter(rateLimits.Core.Limit, rateLimits.Core.Remaining)
}
