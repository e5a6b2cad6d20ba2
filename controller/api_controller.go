package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gitrec/gitrec-companion/config"
	"github.com/gitrec/gitrec-companion/model"
	"github.com/gitrec/gitrec-companion/service"
	"github.com/gitrec/gitrec-companion/session"
	"github.com/gitrec/gitrec-companion/store"
	log "github.com/sirupsen/logrus"
)

// SessionHeader carries the id of the tab session, the mount answer sets it
const SessionHeader = "X-Gitrec-Session"

type APIController interface {
	Mount(c *gin.Context)
	PreviousSimilar(c *gin.Context)
	NextSimilar(c *gin.Context)
	GetExplorePreference(c *gin.Context)
	SetExplorePreference(c *gin.Context)
	RenewExplore(c *gin.Context)
}

type apiController struct {
	companionService service.CompanionService
	preferences      store.PreferenceStore
	sessions         *session.Registry
	config           config.Config
}

func NewAPIController(config config.Config, companionService service.CompanionService, preferences store.PreferenceStore, sessions *session.Registry) APIController {
	return apiController{
		companionService: companionService,
		preferences:      preferences,
		sessions:         sessions,
		config:           config,
	}
}

// Register adds all routes of the controller to the router
func Register(router gin.IRouter, ctrl APIController) {
	router.POST("/mount", ctrl.Mount)
	router.POST("/similar/previous", ctrl.PreviousSimilar)
	router.POST("/similar/next", ctrl.NextSimilar)
	router.GET("/explore/preference", ctrl.GetExplorePreference)
	router.PUT("/explore/preference", ctrl.SetExplorePreference)
	router.POST("/explore/renew", ctrl.RenewExplore)
}

func (s apiController) Mount(c *gin.Context) {
	var req model.MountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewAPIError(errors.Join(model.ErrInvalidInput, err)))
		return
	}

	sess := s.sessions.Open(c.GetHeader(SessionHeader))
	c.Header(SessionHeader, sess.ID)

	resp, err := s.companionService.Mount(c, sess, req)
	if err != nil {
		s.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s apiController) PreviousSimilar(c *gin.Context) {
	s.paginate(c, service.DirectionPrevious)
}

func (s apiController) NextSimilar(c *gin.Context) {
	s.paginate(c, service.DirectionNext)
}

func (s apiController) paginate(c *gin.Context, direction service.Direction) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	html, err := s.companionService.Paginate(c, sess, direction)
	if err != nil {
		s.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, model.FragmentResponse{Kind: model.PageRepository, HTML: html})
}

func (s apiController) GetExplorePreference(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	pref, err := store.ExplorePreference(c, s.preferences, s.sessions.Snapshot(sess).Login)
	if err != nil {
		s.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, model.PreferenceRequest{Explore: string(pref)})
}

func (s apiController) SetExplorePreference(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req model.PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewAPIError(errors.Join(model.ErrInvalidInput, err)))
		return
	}

	pref, err := model.ParseExplorePreference(req.Explore)
	if err != nil {
		s.abort(c, err)
		return
	}

	html, err := s.companionService.SetExplore(c, sess, pref)
	if err != nil {
		s.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, model.FragmentResponse{Kind: model.PageDashboard, HTML: html})
}

func (s apiController) RenewExplore(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	html, err := s.companionService.Renew(c, sess)
	if err != nil {
		s.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, model.FragmentResponse{Kind: model.PageDashboard, HTML: html})
}

func (s apiController) session(c *gin.Context) (*session.Context, bool) {
	sess, err := s.sessions.Get(c.GetHeader(SessionHeader))
	if err != nil {
		s.abort(c, err)
		return nil, false
	}

	return sess, true
}

func (s apiController) abort(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrAlreadyMounted):
		c.Status(http.StatusNoContent)
		return
	case errors.Is(err, model.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, model.NewAPIError(err))
	case errors.Is(err, model.ErrUnknownSession):
		c.JSON(http.StatusNotFound, model.NewAPIError(err))
	case errors.Is(err, model.ErrFetch):
		c.JSON(http.StatusBadGateway, model.NewAPIError(err))
	default:
		c.JSON(http.StatusInternalServerError, model.NewAPIError(err))
	}

	log.WithError(err).WithField("path", c.FullPath()).Warning("request failed")
}
