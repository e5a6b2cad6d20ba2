package service

import (
	"context"
	"fmt"

	"github.com/gitrec/gitrec-companion/logger"
	"github.com/gitrec/gitrec-companion/model"
	"github.com/gitrec/gitrec-companion/render"
	"github.com/gitrec/gitrec-companion/session"
	"github.com/gitrec/gitrec-companion/store"
	log "github.com/sirupsen/logrus"
)

type Direction string

const (
	DirectionPrevious Direction = "previous"
	DirectionNext     Direction = "next"
)

const messageAnonymous = "Sign in to GitHub to explore recommended repositories."

// CompanionService runs the detect → fetch → render cycle of a mounted page
type CompanionService interface {
	Mount(ctx context.Context, sess *session.Context, req model.MountRequest) (model.FragmentResponse, error)
	Similar(ctx context.Context, sess *session.Context) (string, error)
	Paginate(ctx context.Context, sess *session.Context, direction Direction) (string, error)
	Explore(ctx context.Context, sess *session.Context) (string, error)
	SetExplore(ctx context.Context, sess *session.Context, pref model.ExplorePreference) (string, error)
	Renew(ctx context.Context, sess *session.Context) (string, error)
}

type companionService struct {
	gitrec      GitrecService
	github      GithubService
	preferences store.PreferenceStore
	renderer    *render.Renderer
	sessions    *session.Registry
}

func NewCompanionService(gitrec GitrecService, github GithubService, preferences store.PreferenceStore, renderer *render.Renderer, sessions *session.Registry) CompanionService {
	return companionService{
		gitrec:      gitrec,
		github:      github,
		preferences: preferences,
		renderer:    renderer,
		sessions:    sessions,
	}
}

// Mount is called on page load and on every client side navigation.
// Mounting the path that is already mounted does nothing and returns ErrAlreadyMounted.
func (s companionService) Mount(ctx context.Context, sess *session.Context, req model.MountRequest) (model.FragmentResponse, error) {
	path := req.NormalizedPath()
	page := DetectPage(path)

	duplicate := false
	s.sessions.Update(sess, func(c *session.Context) {
		if c.LastPath == path {
			duplicate = true
			return
		}

		c.LastPath = path
		if req.Login != "" {
			c.Login = req.Login
		}

		switch page.Kind {
		case model.PageRepository:
			c.ItemID = page.Ref
			c.Pagination.Reset()
		case model.PageDashboard:
			if c.NativeExplore == nil && req.NativeExplore != nil {
				native := *req.NativeExplore
				c.NativeExplore = &native
			}
		}
	})

	if duplicate {
		return model.FragmentResponse{}, model.ErrAlreadyMounted
	}

	logger.ForSession(sess.ID).WithField("page", page.Kind).Debug("mounting page")

	resp, err := s.mount(ctx, sess, page)
	if err != nil {
		// forget the path so that the next navigation to it tries again
		s.sessions.Update(sess, func(c *session.Context) {
			if c.LastPath == path {
				c.LastPath = ""
			}
		})

		return model.FragmentResponse{}, err
	}

	return resp, nil
}

func (s companionService) mount(ctx context.Context, sess *session.Context, page model.PageContext) (model.FragmentResponse, error) {
	switch page.Kind {
	case model.PageRepository:
		// read feedback is best effort, the similar list is shown even if it fails
		if err := s.gitrec.MarkRead(ctx, page.Ref); err != nil {
			logger.ForSession(sess.ID).WithError(err).Warning("unable to mark repository as read")
		}

		html, err := s.Similar(ctx, sess)
		if err != nil {
			return model.FragmentResponse{}, err
		}

		return model.FragmentResponse{Kind: page.Kind, HTML: html}, nil

	case model.PageDashboard:
		html, err := s.Explore(ctx, sess)
		if err != nil {
			return model.FragmentResponse{}, err
		}

		return model.FragmentResponse{Kind: page.Kind, HTML: html}, nil
	}

	return model.FragmentResponse{Kind: model.PageNone}, nil
}

// Similar renders the current page of repositories related to the mounted one
func (s companionService) Similar(ctx context.Context, sess *session.Context) (string, error) {
	snap := s.sessions.Snapshot(sess)
	if snap.ItemID == "" {
		return "", fmt.Errorf("%w: no repository mounted", model.ErrInvalidInput)
	}

	result, err := s.gitrec.FetchNeighbors(ctx, snap.ItemID, snap.Pagination.Offset)
	if err != nil {
		return "", err
	}

	view := render.SimilarView{
		HasPrevious: snap.Pagination.HasPrevious(),
		HasNext:     snap.Pagination.HasNext(),
	}

	if result.Message != "" {
		view.Message = result.Message
		return s.renderer.Similar(view)
	}

	var lookups []model.RepositoryLookup
	if result.IsAuthenticated {
		lookups = render.LookupsFromRepositories(result.Repos)
	} else {
		lookups, err = s.github.FetchRepos(ctx, result.Refs())
		if err != nil {
			return "", err
		}
	}

	pruned := render.Prune(lookups, render.PageSize)
	s.deleteStale(ctx, sess, pruned.Stale)

	view.Rows = pruned.Shown
	view.Message = pruned.Message

	return s.renderer.Similar(view)
}

// Paginate moves the similar list one page and renders it again.
// Moving past either end keeps the current page.
func (s companionService) Paginate(ctx context.Context, sess *session.Context, direction Direction) (string, error) {
	var moved bool

	switch direction {
	case DirectionPrevious:
		s.sessions.Update(sess, func(c *session.Context) { moved = c.Pagination.Previous() })
	case DirectionNext:
		s.sessions.Update(sess, func(c *session.Context) { moved = c.Pagination.Next() })
	default:
		return "", fmt.Errorf("%w: unknown direction %q", model.ErrInvalidInput, direction)
	}

	logger.ForSession(sess.ID).WithFields(log.Fields{
		"direction": direction,
		"moved":     moved,
	}).Debug("paginating similar repositories")

	return s.Similar(ctx, sess)
}

// Explore renders the dashboard explore panel according to the stored preference
func (s companionService) Explore(ctx context.Context, sess *session.Context) (string, error) {
	snap := s.sessions.Snapshot(sess)

	pref, err := store.ExplorePreference(ctx, s.preferences, snap.Login)
	if err != nil {
		return "", err
	}

	view := render.ExploreView{Selected: pref}

	if pref == model.ExploreGithub {
		native := ""
		if snap.NativeExplore != nil {
			native = *snap.NativeExplore
		}

		view.Native = &native
		return s.renderer.Explore(view)
	}

	rec, err := s.gitrec.FetchRecommendation(ctx)
	if err != nil {
		return "", err
	}

	var lookups []model.RepositoryLookup

	switch {
	case rec.Message != "":
		view.Message = rec.Message

	case rec.IsAuthenticated:
		view.IsAuthenticated = true
		lookups = render.LookupsFromRepositories(rec.Repos)

	default:
		lookups, rec, err = s.anonymousRecommendation(ctx, snap.Login)
		if err != nil {
			return "", err
		}

		view.Message = rec.Message
	}

	if view.Message == "" {
		pruned := render.Prune(lookups, render.PageSize)
		s.deleteStale(ctx, sess, pruned.Stale)

		view.Rows = pruned.Shown
		view.Message = pruned.Message
	}

	s.sessions.Update(sess, func(c *session.Context) {
		c.ExploreItems = rec.Items
	})

	return s.renderer.Explore(view)
}

// anonymousRecommendation recommends from the stars of a visitor the recommender does not know
func (s companionService) anonymousRecommendation(ctx context.Context, login string) ([]model.RepositoryLookup, model.RecommendationResult, error) {
	if login == "" {
		return nil, model.RecommendationResult{Message: messageAnonymous}, nil
	}

	stars, err := s.github.FetchStars(ctx, login)
	if err != nil {
		return nil, model.RecommendationResult{}, err
	}

	if stars.Message != "" {
		return nil, model.RecommendationResult{Message: stars.Message}, nil
	}

	rec, err := s.gitrec.FetchSessionRecommendation(ctx, stars.Items)
	if err != nil {
		return nil, model.RecommendationResult{}, err
	}

	if rec.Message != "" {
		return nil, rec, nil
	}

	lookups, err := s.github.FetchRepos(ctx, rec.Items)
	if err != nil {
		return nil, model.RecommendationResult{}, err
	}

	return lookups, rec, nil
}

func (s companionService) SetExplore(ctx context.Context, sess *session.Context, pref model.ExplorePreference) (string, error) {
	snap := s.sessions.Snapshot(sess)

	if err := store.SetExplorePreference(ctx, s.preferences, snap.Login, pref); err != nil {
		return "", err
	}

	logger.ForSession(sess.ID).WithField("explore", pref).Info("explore preference changed")

	return s.Explore(ctx, sess)
}

// Renew marks the displayed batch as read and renders the next one
func (s companionService) Renew(ctx context.Context, sess *session.Context) (string, error) {
	snap := s.sessions.Snapshot(sess)

	if err := s.gitrec.MarkRead(ctx, snap.ExploreItems...); err != nil {
		return "", err
	}

	return s.Explore(ctx, sess)
}

// deleteStale prunes renamed or removed repositories from the recommender index.
// Failures are only logged, the entry will be detected again on a later render.
func (s companionService) deleteStale(ctx context.Context, sess *session.Context, stale []model.RepositoryRef) {
	for _, ref := range stale {
		if err := s.gitrec.DeleteItem(ctx, ref); err != nil {
			logger.ForSession(sess.ID).WithError(err).WithField("itemID", ref).Warning("unable to delete stale repository")
		}
	}
}
