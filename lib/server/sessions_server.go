package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/teris-io/shortid"

	"github.com/pescuma/locmeta/lib/explorer"
	"github.com/pescuma/locmeta/lib/selection"
)

type SessionParams struct {
	ID string `uri:"id" json:"-"`
}

type NewSessionParams struct {
	Progress *float64 `json:"progress"`
}

type ProgressParams struct {
	SessionParams
	Progress *float64 `json:"progress"`
}

type StepParams struct {
	SessionParams
	Step *int `json:"step"`
}

type BrushParams struct {
	SessionParams
	Rect *selection.Rect `json:"rect"`
}

type HoverParams struct {
	SessionParams
	Commit string `json:"commit"`
}

type FileFilterParams struct {
	SessionParams
	File string `json:"file"`
}

func (s *server) initSessions(r gin.IRouter) {
	r.POST("/sessions", postP[NewSessionParams](http.StatusCreated, s.sessionCreate))
	r.GET("/sessions/:id", getP[SessionParams](s.sessionGet))
	r.DELETE("/sessions/:id", getP[SessionParams](s.sessionDelete))
	r.POST("/sessions/:id/progress", postP[ProgressParams](http.StatusOK, s.sessionProgress))
	r.POST("/sessions/:id/step", postP[StepParams](http.StatusOK, s.sessionStep))
	r.POST("/sessions/:id/brush", postP[BrushParams](http.StatusOK, s.sessionBrush))
	r.POST("/sessions/:id/hover", postP[HoverParams](http.StatusOK, s.sessionHover))
	r.POST("/sessions/:id/leave", postP[SessionParams](http.StatusOK, s.sessionLeave))
	r.POST("/sessions/:id/files", postP[FileFilterParams](http.StatusOK, s.sessionFiles))
}

type sessionEntry struct {
	session  *explorer.Session
	lastUsed time.Time
}

func (s *server) newSession() (string, *explorer.Session, error) {
	id, err := shortid.Generate()
	if err != nil {
		return "", nil, err
	}

	session := explorer.NewFromCommits(s.commits, s.opts.Explorer)

	s.sessionsMutex.Lock()
	defer s.sessionsMutex.Unlock()

	now := s.now()

	s.expireSessions(now)

	for len(s.sessions) >= s.opts.MaxSessions {
		oldest := lo.MinBy(lo.Entries(s.sessions), func(a, b lo.Entry[string, *sessionEntry]) bool {
			return a.Value.lastUsed.Before(b.Value.lastUsed)
		})
		s.closeSession(oldest.Key)
	}

	s.sessions[id] = &sessionEntry{session: session, lastUsed: now}
	s.metrics.SessionOpened()

	return id, session, nil
}

// expireSessions closes the sessions not used for longer than the TTL. Must hold sessionsMutex.
func (s *server) expireSessions(now time.Time) {
	for id, e := range s.sessions {
		if now.Sub(e.lastUsed) > s.opts.SessionTTL {
			s.closeSession(id)
		}
	}
}

// closeSession must hold sessionsMutex.
func (s *server) closeSession(id string) {
	delete(s.sessions, id)
	s.metrics.SessionClosed()
}

func (s *server) getSession(id string) (*explorer.Session, error) {
	s.sessionsMutex.Lock()
	defer s.sessionsMutex.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, errorNotFound
	}

	now := s.now()
	if now.Sub(e.lastUsed) > s.opts.SessionTTL {
		s.closeSession(id)
		return nil, errorNotFound
	}

	e.lastUsed = now

	return e.session, nil
}

func (s *server) sessionCreate(params *NewSessionParams) (any, error) {
	id, session, err := s.newSession()
	if err != nil {
		return nil, err
	}

	view := session.View()
	if params.Progress != nil {
		view = session.SetProgress(*params.Progress)
	}

	return gin.H{
		"id":   id,
		"view": view,
	}, nil
}

func (s *server) sessionGet(params *SessionParams) (any, error) {
	session, err := s.getSession(params.ID)
	if err != nil {
		return nil, err
	}

	return session.View(), nil
}

func (s *server) sessionDelete(params *SessionParams) (any, error) {
	s.sessionsMutex.Lock()
	defer s.sessionsMutex.Unlock()

	if _, ok := s.sessions[params.ID]; !ok {
		return nil, errorNotFound
	}

	s.closeSession(params.ID)

	return gin.H{}, nil
}

func (s *server) sessionProgress(params *ProgressParams) (any, error) {
	session, err := s.getSession(params.ID)
	if err != nil {
		return nil, err
	}

	if params.Progress == nil {
		return nil, errors.Wrap(errorInvalidParams, "missing progress")
	}

	s.metrics.Event("progress")

	return session.SetProgress(*params.Progress), nil
}

func (s *server) sessionStep(params *StepParams) (any, error) {
	session, err := s.getSession(params.ID)
	if err != nil {
		return nil, err
	}

	if params.Step == nil {
		return nil, errors.Wrap(errorInvalidParams, "missing step")
	}

	s.metrics.Event("step")

	return session.EnterStep(*params.Step)
}

func (s *server) sessionBrush(params *BrushParams) (any, error) {
	session, err := s.getSession(params.ID)
	if err != nil {
		return nil, err
	}

	s.metrics.Event("brush")

	return session.Brush(params.Rect), nil
}

func (s *server) sessionHover(params *HoverParams) (any, error) {
	session, err := s.getSession(params.ID)
	if err != nil {
		return nil, err
	}

	s.metrics.Event("hover")

	return session.Hover(params.Commit)
}

func (s *server) sessionLeave(params *SessionParams) (any, error) {
	session, err := s.getSession(params.ID)
	if err != nil {
		return nil, err
	}

	s.metrics.Event("leave")

	return session.Leave(), nil
}

func (s *server) sessionFiles(params *FileFilterParams) (any, error) {
	session, err := s.getSession(params.ID)
	if err != nil {
		return nil, err
	}

	s.metrics.Event("files")

	view, err := session.SetFileFilter(params.File)
	if err != nil {
		return nil, errors.Wrap(errorInvalidParams, err.Error())
	}

	return view, nil
}
