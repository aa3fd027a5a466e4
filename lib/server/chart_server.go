package server

import (
	"bytes"
	"net/http"

	"github.com/gertd/go-pluralize"
	"github.com/gin-gonic/gin"

	"github.com/pescuma/locmeta/lib/breakdown"
	"github.com/pescuma/locmeta/lib/explorer"
	"github.com/pescuma/locmeta/lib/scatter"
)

var plural = pluralize.NewClient()

type ChartParams struct {
	Session  string   `form:"session"`
	Progress *float64 `form:"progress"`
}

func (s *server) initChart(r gin.IRouter) {
	r.GET("/chart", s.chartGet)
}

// chartGet renders the chart of a session, or of a fresh one at the requested progress.
func (s *server) chartGet(c *gin.Context) {
	if s.loadErr != nil {
		c.Data(http.StatusServiceUnavailable, "text/html; charset=utf-8", errorPage(dataErrorMessage, chartErrorMessage))
		return
	}

	var params ChartParams
	err := c.ShouldBindQuery(&params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var view *explorer.View
	if params.Session != "" {
		session, err := s.getSession(params.Session)
		if err != nil {
			sendError(c, err)
			return
		}

		view = session.View()
	} else {
		session := explorer.NewFromCommits(s.commits, s.opts.Explorer)
		if params.Progress != nil {
			session.SetProgress(*params.Progress)
		}

		view = session.View()
	}

	// Without a selection the chart shows the breakdown of everything on it
	entries := view.Breakdown
	subtitle := view.SelectionText
	if view.Selection == nil {
		visible := view.Frame.Commits()
		entries = breakdown.Compute(visible)
		subtitle = plural.Pluralize("commit", len(visible), true)
	}

	var out bytes.Buffer
	err = scatter.RenderHTML(&out, view.Frame, entries, scatter.HTMLOptions{
		Title:         "Commits by time of day",
		Subtitle:      subtitle,
		Summary:       view.Summary,
		SelectionText: view.SelectionText,
	})
	if err != nil {
		sendError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", out.Bytes())
}
