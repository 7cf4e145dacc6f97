package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"council/council"
	"council/model"
	"council/storage"
	"council/workflow"
)

type templateResponse struct {
	council.Template
	Agents []council.AgentDefinition `json:"agents"`
}

type consensusResponse struct {
	Score *int   `json:"score"`
	Level string `json:"level"`
}

type stateResponse struct {
	model.State
	Consensus consensusResponse `json:"consensus"`
}

func (s *Server) getTemplates(c echo.Context) error {
	tmpls := council.Templates()
	out := make([]templateResponse, len(tmpls))
	for i, t := range tmpls {
		out[i] = templateResponse{
			Template: t,
			Agents:   council.ResolveRoster(t.ID).Ordered(),
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getState(c echo.Context) error {
	st := s.controller.Snapshot()
	score, ok := s.controller.Consensus()

	resp := stateResponse{
		State:     st,
		Consensus: consensusResponse{Level: council.LevelFor(score, ok).String()},
	}
	if ok {
		resp.Consensus.Score = &score
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) getSessions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.controller.Sessions(c.QueryParam("q")))
}

func (s *Server) createSession(c echo.Context) error {
	var body struct {
		TemplateID string `json:"templateId"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	sess := s.controller.StartSession(body.TemplateID)
	return c.JSON(http.StatusCreated, sess)
}

func (s *Server) getSessionByID(c echo.Context) error {
	sess, ok := s.controller.Store().GetSession(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) postMessage(c echo.Context) error {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sess, err := s.controller.SubmitTo(runContext(c), c.Param("id"), body.Content)
	if err != nil {
		return submitError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) quickStart(c echo.Context) error {
	var body council.QuickStart
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	sess, err := s.controller.QuickStart(runContext(c), body)
	if err != nil {
		return submitError(err)
	}
	return c.JSON(http.StatusCreated, sess)
}

// runContext detaches a run from its request. A client that disconnects
// or times out must not fail the remaining turns.
func runContext(c echo.Context) context.Context {
	return context.WithoutCancel(c.Request().Context())
}

func submitError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrEmptyMessage), errors.Is(err, council.ErrInvalidQuickStart):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, workflow.ErrRunInProgress):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, storage.ErrSessionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
