package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gitrec/gitrec-companion/config"
	"github.com/gitrec/gitrec-companion/model"
	"github.com/google/go-github/v66/github"
	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	starsPerPage = 100

	rateLimitMessage = "API rate limit exceeded"
)

type GithubService interface {
	FetchStars(ctx context.Context, login string) (model.StarredRepositories, error)
	FetchRepo(ctx context.Context, ref model.RepositoryRef) (model.RepositoryLookup, error)
	FetchRepos(ctx context.Context, refs []model.RepositoryRef) ([]model.RepositoryLookup, error)

	HandleRequestErrors(err error) (string, error)
}

type githubService struct {
	githubClient      *github.Client
	githubRateLimiter *rate.Limiter
	config            config.Config
}

// The limiter mirrors the budget GitHub grants to this process. It starts from what
// GitHub reports and is drained as soon as GitHub answers with a rate limit error, so
// that following lookups answer the same message without another request.
func NewGithubService(config config.Config, githubClient *github.Client, rateLimiter *rate.Limiter) GithubService {
	return githubService{
		githubClient:      githubClient,
		githubRateLimiter: rateLimiter,
		config:            config,
	}
}

// NewRateLimiter refills the hourly budget continuously and consumes what was already
// spent before the process started
func NewRateLimiter(limit, remaining int) *rate.Limiter {
	if limit <= 0 {
		limit = 1
	}

	limiter := rate.NewLimiter(rate.Every(time.Hour/time.Duration(limit)), limit)

	if spent := limit - remaining; spent > 0 {
		limiter.AllowN(time.Now(), min(spent, limit))
	}

	return limiter
}

func (s githubService) FetchStars(ctx context.Context, login string) (model.StarredRepositories, error) {
	if login == "" {
		return model.StarredRepositories{}, fmt.Errorf("%w: login is empty", model.ErrInvalidInput)
	}

	if !s.githubRateLimiter.Allow() {
		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return model.StarredRepositories{Message: rateLimitMessage}, nil
	}

	log.WithField("login", login).Debug("fetch starred repositories from github")

	starred, _, err := s.githubClient.Activity.ListStarred(ctx, login, &github.ActivityListStarredOptions{
		ListOptions: github.ListOptions{
			Page:    1,
			PerPage: starsPerPage,
		},
	})

	if err != nil {
		message, err := s.HandleRequestErrors(err)
		return model.StarredRepositories{Message: message}, err
	}

	items := make([]model.RepositoryRef, 0, len(starred))
	for _, star := range starred {
		if star == nil || star.Repository == nil || star.Repository.FullName == nil {
			continue
		}

		items = append(items, model.ToColon(*star.Repository.FullName))
	}

	return model.StarredRepositories{Items: items}, nil
}

// FetchRepo looks a repository up. What GitHub answers instead of a repository
// (not found, rate limit) is returned in the lookup message, only transport
// failures are errors.
func (s githubService) FetchRepo(ctx context.Context, ref model.RepositoryRef) (model.RepositoryLookup, error) {
	lookup := model.RepositoryLookup{Ref: ref}

	owner, name, found := strings.Cut(ref.ToSlash(), "/")
	if !found {
		return lookup, fmt.Errorf("%w: %q is not a repository reference", model.ErrInvalidInput, ref)
	}

	if !s.githubRateLimiter.Allow() {
		lookup.Message = rateLimitMessage
		return lookup, nil
	}

	log.WithField("itemID", ref).Debug("fetch repository from github")

	r, _, err := s.githubClient.Repositories.Get(ctx, owner, name)
	if err != nil {
		lookup.Message, err = s.HandleRequestErrors(err)
		return lookup, err
	}

	lookup.Repository = &model.GithubRepository{
		ItemID:          ref,
		FullName:        r.GetFullName(),
		Description:     r.Description,
		HTMLURL:         r.GetHTMLURL(),
		Language:        r.Language,
		StargazersCount: r.GetStargazersCount(),
	}

	return lookup, nil
}

// FetchRepos looks all refs up in parallel and waits for every lookup.
// The order of refs is kept. A transport failure on any lookup fails the batch.
func (s githubService) FetchRepos(ctx context.Context, refs []model.RepositoryRef) ([]model.RepositoryLookup, error) {
	swg := sizedwaitgroup.New(max(s.config.Tasks.MaxParallelTasksAllowed, 1))

	lookups := make([]model.RepositoryLookup, len(refs))

	var (
		mu   sync.Mutex
		errs []error
	)

	for i, ref := range refs {
		i, ref := i, ref
		swg.Add()

		go func() {
			defer swg.Done()

			lookup, err := s.FetchRepo(ctx, ref)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}

			lookups[i] = lookup
		}()
	}

	log.WithField("numberOfRepositories", len(refs)).Debug("waiting for all repository lookups to be finished")
	swg.Wait()

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return lookups, nil
}

// HandleRequestErrors turns what GitHub answered into a message to display.
// Rate limit errors drain the local limiter to keep it in line with GitHub.
// Anything that is not an answer from GitHub is a fetch error.
func (s githubService) HandleRequestErrors(err error) (string, error) {
	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		s.githubRateLimiter.AllowN(time.Now(), s.githubRateLimiter.Burst())

		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")

		if rateLimitErr.Message == "" || strings.HasPrefix(rateLimitErr.Message, rateLimitMessage) {
			return rateLimitMessage + strings.TrimPrefix(rateLimitErr.Message, rateLimitMessage), nil
		}

		return rateLimitMessage + ". " + rateLimitErr.Message, nil
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return rateLimitMessage + ". " + abuseErr.Message, nil
	}

	var responseErr *github.ErrorResponse
	if errors.As(err, &responseErr) {
		return responseErr.Message, nil
	}

	log.WithError(err).Error("error catched when fetching data from github")
	return "", fmt.Errorf("%w: %v", model.ErrFetch, err)
}
