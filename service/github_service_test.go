package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gitrec/gitrec-companion/config"
	"github.com/gitrec/gitrec-companion/model"
	"github.com/google/go-github/v66/github"
	githubMock "github.com/migueleliasweb/go-github-mock/src/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const rateLimitBody = `{"message":"API rate limit exceeded for 127.0.0.1. (But here's the good news: Authenticated requests get a higher rate limit.)"}`

// reposHandler answers GET /repos/{owner}/{repo} from a map keyed by "owner/repo".
// Missing keys answer 404 like GitHub does for removed repositories.
func reposHandler(t *testing.T, repos map[string]github.Repository, calls *int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}

		fullName := strings.TrimPrefix(r.URL.Path, "/repos/")
		repo, found := repos[fullName]

		if !found {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}

		_, err := w.Write(githubMock.MustMarshal(repo))
		if err != nil {
			t.Error("unable to configure mock http client")
		}
	}
}

func rateLimitedHandler(calls *int32) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(calls, 1)

		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(rateLimitBody))
	}
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: lookup api.github.com: no such host")
}

func newTestGithubService(httpClient *http.Client, limit int) GithubService {
	conf := config.GetDefault()
	return NewGithubService(*conf, github.NewClient(httpClient), rate.NewLimiter(rate.Every(time.Hour), limit))
}

func TestFetchRepo(t *testing.T) {
	tests := []struct {
		name            string
		ref             model.RepositoryRef
		expectedRepo    *model.GithubRepository
		expectedMessage string
	}{
		{
			name: "Existing repository",
			ref:  "gorse-io:gorse",
			expectedRepo: &model.GithubRepository{
				ItemID:          "gorse-io:gorse",
				FullName:        "gorse-io/gorse",
				Description:     github.String("An open source recommender system service written in Go"),
				HTMLURL:         "https://github.com/gorse-io/gorse",
				Language:        github.String("Go"),
				StargazersCount: 8000,
			},
		},
		{
			name:            "Removed repository",
			ref:             "gone:away",
			expectedMessage: "Not Found",
		},
	}

	repos := map[string]github.Repository{
		"gorse-io/gorse": {
			FullName:        github.String("gorse-io/gorse"),
			Description:     github.String("An open source recommender system service written in Go"),
			HTMLURL:         github.String("https://github.com/gorse-io/gorse"),
			Language:        github.String("Go"),
			StargazersCount: github.Int(8000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockedHTTPClient := githubMock.NewMockedHTTPClient(
				githubMock.WithRequestMatchHandler(
					githubMock.GetReposByOwnerByRepo,
					reposHandler(t, repos, nil),
				),
			)

			svc := newTestGithubService(mockedHTTPClient, 60)
			lookup, err := svc.FetchRepo(context.Background(), tt.ref)

			require.NoError(t, err)
			assert.Equal(t, tt.ref, lookup.Ref)
			assert.Equal(t, tt.expectedRepo, lookup.Repository)
			assert.Equal(t, tt.expectedMessage, lookup.Message)
		})
	}
}

func TestFetchRepoRateLimitDrainsLimiter(t *testing.T) {
	var calls int32

	mockedHTTPClient := githubMock.NewMockedHTTPClient(
		githubMock.WithRequestMatchHandler(
			githubMock.GetReposByOwnerByRepo,
			rateLimitedHandler(&calls),
		),
	)

	svc := newTestGithubService(mockedHTTPClient, 60)

	lookup, err := svc.FetchRepo(context.Background(), "a:1")
	require.NoError(t, err)
	assert.Nil(t, lookup.Repository)
	assert.True(t, strings.HasPrefix(lookup.Message, "API rate limit exceeded for 127.0.0.1"))
	assert.False(t, lookup.Removed())

	// GitHub is not called again until the budget refills
	lookup, err = svc.FetchRepo(context.Background(), "a:2")
	require.NoError(t, err)
	assert.Equal(t, "API rate limit exceeded", lookup.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchRepos(t *testing.T) {
	repos := map[string]github.Repository{
		"a/1": {FullName: github.String("a/1"), StargazersCount: github.Int(1)},
		"a/2": {FullName: github.String("a/2-renamed"), StargazersCount: github.Int(2)},
		"a/4": {FullName: github.String("a/4"), StargazersCount: github.Int(4)},
	}

	mockedHTTPClient := githubMock.NewMockedHTTPClient(
		githubMock.WithRequestMatchHandler(
			githubMock.GetReposByOwnerByRepo,
			reposHandler(t, repos, nil),
		),
	)

	svc := newTestGithubService(mockedHTTPClient, 60)
	lookups, err := svc.FetchRepos(context.Background(), []model.RepositoryRef{"a:1", "a:2", "a:3", "a:4"})

	require.NoError(t, err)
	require.Len(t, lookups, 4)

	// order is kept whatever the completion order
	assert.Equal(t, model.RepositoryRef("a:1"), lookups[0].Ref)
	assert.Equal(t, "a/1", lookups[0].Repository.FullName)
	assert.Equal(t, "a/2-renamed", lookups[1].Repository.FullName)
	assert.True(t, lookups[2].Removed())
	assert.Equal(t, 4, lookups[3].Repository.StargazersCount)
}

func TestFetchReposTransportFailureFailsTheBatch(t *testing.T) {
	svc := newTestGithubService(&http.Client{Transport: failingTransport{}}, 60)

	lookups, err := svc.FetchRepos(context.Background(), []model.RepositoryRef{"a:1", "a:2"})

	assert.ErrorIs(t, err, model.ErrFetch)
	assert.Nil(t, lookups)
}

func TestFetchStars(t *testing.T) {
	t.Run("Starred repositories become refs", func(t *testing.T) {
		mockedHTTPClient := githubMock.NewMockedHTTPClient(
			githubMock.WithRequestMatchHandler(
				githubMock.GetUsersStarredByUsername,
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "100", r.URL.Query().Get("per_page"))

					_, err := w.Write(githubMock.MustMarshal([]github.StarredRepository{
						{Repository: &github.Repository{FullName: github.String("gorse-io/gorse")}},
						{Repository: &github.Repository{FullName: github.String("golang/go")}},
						{Repository: nil},
					}))

					if err != nil {
						t.Error("unable to configure mock http client")
					}
				}),
			),
		)

		svc := newTestGithubService(mockedHTTPClient, 60)
		stars, err := svc.FetchStars(context.Background(), "octocat")

		require.NoError(t, err)
		assert.Empty(t, stars.Message)
		assert.Equal(t, []model.RepositoryRef{"gorse-io:gorse", "golang:go"}, stars.Items)
	})

	t.Run("Rate limit message", func(t *testing.T) {
		var calls int32

		mockedHTTPClient := githubMock.NewMockedHTTPClient(
			githubMock.WithRequestMatchHandler(
				githubMock.GetUsersStarredByUsername,
				rateLimitedHandler(&calls),
			),
		)

		svc := newTestGithubService(mockedHTTPClient, 60)
		stars, err := svc.FetchStars(context.Background(), "octocat")

		require.NoError(t, err)
		assert.Empty(t, stars.Items)
		assert.True(t, strings.HasPrefix(stars.Message, "API rate limit exceeded"))
	})

	t.Run("Empty login", func(t *testing.T) {
		svc := newTestGithubService(&http.Client{Transport: failingTransport{}}, 60)

		_, err := svc.FetchStars(context.Background(), "")
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("Exhausted local budget", func(t *testing.T) {
		svc := newTestGithubService(&http.Client{Transport: failingTransport{}}, 0)

		stars, err := svc.FetchStars(context.Background(), "octocat")
		require.NoError(t, err)
		assert.Equal(t, "API rate limit exceeded", stars.Message)
	})
}

func TestNewRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(60, 2)

	assert.Equal(t, 60, limiter.Burst())
	assert.True(t, limiter.AllowN(time.Now(), 2))
	assert.False(t, limiter.Allow())
}
