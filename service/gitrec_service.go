package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gitrec/gitrec-companion/config"
	"github.com/gitrec/gitrec-companion/model"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// candidates requested per page, three are displayed and the rest absorbs
// renamed or removed repositories
const candidatesPerRequest = 6

// GitrecService talks to the recommender API
type GitrecService interface {
	MarkRead(ctx context.Context, itemIDs ...model.RepositoryRef) error
	DeleteItem(ctx context.Context, itemID model.RepositoryRef) error
	FetchNeighbors(ctx context.Context, itemID model.RepositoryRef, offset int) (model.NeighborResult, error)
	FetchRecommendation(ctx context.Context) (model.RecommendationResult, error)
	FetchSessionRecommendation(ctx context.Context, seeds []model.RepositoryRef) (model.RecommendationResult, error)
}

type gitrecService struct {
	httpClient *http.Client
	baseURL    string
	v2         bool
}

// NewGitrecService builds a client for the recommender.
// httpClient should carry a cookie jar so the recommender session survives between calls.
func NewGitrecService(config config.Config, httpClient *http.Client) GitrecService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Gitrec.RequestTimeout}
	}

	return gitrecService{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(config.Gitrec.BaseURL, "/"),
		v2:         config.Gitrec.APIVersion != "v1",
	}
}

// MarkRead posts one read feedback per item. All requests run concurrently and
// are all waited for, the first failure is returned but the others are not undone.
// One failing request does not cancel its siblings.
func (s gitrecService) MarkRead(ctx context.Context, itemIDs ...model.RepositoryRef) error {
	var g errgroup.Group

	for _, itemID := range itemIDs {
		itemID := itemID
		g.Go(func() error {
			return s.post(ctx, "/api/read/"+url.PathEscape(string(itemID)))
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).WithField("items", len(itemIDs)).Warning("unable to mark items as read")
		return err
	}

	return nil
}

func (s gitrecService) DeleteItem(ctx context.Context, itemID model.RepositoryRef) error {
	log.WithField("itemID", itemID).Info("removing stale repository from the recommender index")

	return s.post(ctx, "/api/delete/"+url.PathEscape(string(itemID)))
}

// post sends a feedback call. Only transport failures are errors, an error
// answer is logged with its message since there is nothing to display it in.
func (s gitrecService) post(ctx context.Context, path string) error {
	status, body, err := s.do(ctx, http.MethodPost, path, nil)
	if err != nil {
		return err
	}

	if status < 200 || status >= 300 {
		log.WithFields(log.Fields{
			"path":    path,
			"status":  status,
			"message": upstreamMessage(status, body),
		}).Warning("recommender rejected feedback")
	}

	return nil
}

func (s gitrecService) FetchNeighbors(ctx context.Context, itemID model.RepositoryRef, offset int) (model.NeighborResult, error) {
	path := "/api/neighbors/"
	if s.v2 {
		path = "/api/v2/neighbors/"
	}

	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("n", strconv.Itoa(candidatesPerRequest))

	var result model.NeighborResult
	message, err := s.getJSON(ctx, http.MethodGet, path+url.PathEscape(string(itemID))+"?"+query.Encode(), nil, &result)
	if err != nil {
		return model.NeighborResult{}, err
	}

	if message != "" {
		return model.NeighborResult{Message: message}, nil
	}

	return result, nil
}

// FetchRecommendation asks for recommendations of the visitor logged in on the recommender.
// Anonymous visitors get IsAuthenticated false and no items.
func (s gitrecService) FetchRecommendation(ctx context.Context) (model.RecommendationResult, error) {
	path := "/api/extension/recommend"
	if s.v2 {
		path = "/api/v2/extension/recommend"
	}

	var result model.RecommendationResult
	message, err := s.getJSON(ctx, http.MethodGet, path, nil, &result)
	if err != nil {
		return model.RecommendationResult{}, err
	}

	if message != "" {
		return model.RecommendationResult{Message: message}, nil
	}

	return result, nil
}

// FetchSessionRecommendation recommends from an explicit list of starred repositories,
// used for visitors unknown to the recommender
func (s gitrecService) FetchSessionRecommendation(ctx context.Context, seeds []model.RepositoryRef) (model.RecommendationResult, error) {
	path := "/api/session/recommend"
	if s.v2 {
		path = "/api/v2/session/recommend?n=" + strconv.Itoa(candidatesPerRequest)
	}

	if seeds == nil {
		seeds = []model.RepositoryRef{}
	}

	body, err := json.Marshal(seeds)
	if err != nil {
		return model.RecommendationResult{}, fmt.Errorf("marshaling seeds: %w", err)
	}

	var scores []model.Score
	message, err := s.getJSON(ctx, http.MethodPost, path, body, &scores)
	if err != nil {
		return model.RecommendationResult{}, err
	}

	if message != "" {
		return model.RecommendationResult{Message: message}, nil
	}

	items := make([]model.RepositoryRef, 0, len(scores))
	for _, score := range scores {
		items = append(items, score.ID)
	}

	return model.RecommendationResult{Items: items}, nil
}

// getJSON decodes a successful answer into out. Answers with an error status are not
// errors, their text is returned as the message to display.
func (s gitrecService) getJSON(ctx context.Context, method, path string, body []byte, out any) (string, error) {
	status, respBody, err := s.do(ctx, method, path, body)
	if err != nil {
		return "", err
	}

	if status < 200 || status >= 300 {
		return upstreamMessage(status, respBody), nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return "", fmt.Errorf("%w: parsing response of %s: %v", model.ErrFetch, path, err)
	}

	return "", nil
}

func (s gitrecService) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: creating request: %v", model.ErrFetch, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.WithFields(log.Fields{
		"method": method,
		"path":   path,
	}).Debug("calling recommender")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s %s: %v", model.ErrFetch, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading response of %s: %v", model.ErrFetch, path, err)
	}

	if resp.StatusCode >= 300 {
		log.WithFields(log.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Debug("recommender answered with an error status")
	}

	return resp.StatusCode, respBody, nil
}

// upstreamMessage extracts a displayable message from an error answer
func upstreamMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}

	return http.StatusText(status)
}
