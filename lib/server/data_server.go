package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/pescuma/locmeta/lib/breakdown"
	"github.com/pescuma/locmeta/lib/files"
	"github.com/pescuma/locmeta/lib/model"
	"github.com/pescuma/locmeta/lib/scatter"
)

type CommitsParams struct {
	GridParams
	Author string `form:"author"`
}

type CommitParams struct {
	ID string `uri:"id"`
}

type FilesParams struct {
	GridParams
	File string `form:"file"`
}

func (s *server) initData(r gin.IRouter) {
	r.GET("/summary", get(s.summaryGet))
	r.GET("/commits", getP[CommitsParams](s.commitsList))
	r.GET("/commits/:id", getP[CommitParams](s.commitGet))
	r.GET("/narrative", get(s.narrativeGet))
	r.GET("/breakdown", get(s.breakdownGet))
	r.GET("/files", getP[FilesParams](s.filesList))
}

func (s *server) summaryGet() (any, error) {
	return s.summary, nil
}

func (s *server) commitsList(params *CommitsParams) (any, error) {
	err := params.validate()
	if err != nil {
		return nil, err
	}

	commits := s.commits.List()

	if params.Author != "" {
		author := strings.ToLower(strings.TrimSpace(params.Author))
		commits = lo.Filter(commits, func(c *model.Commit, _ int) bool {
			return strings.Contains(strings.ToLower(c.Author), author)
		})
	} else {
		commits = append([]*model.Commit{}, commits...)
	}

	err = s.sortCommits(commits, params.Sort, params.Asc)
	if err != nil {
		return nil, err
	}

	total := len(commits)

	commits = paginate(commits, params.Offset, params.Limit)

	return gin.H{
		"data":  commits,
		"total": total,
	}, nil
}

func (s *server) commitGet(params *CommitParams) (any, error) {
	c := s.commits.Get(params.ID)
	if c == nil {
		return nil, errorNotFound
	}

	return gin.H{
		"commit":  c,
		"tooltip": scatter.NewTooltip(c),
		"files": lo.Map(files.Group([]*model.Commit{c}), func(g *model.FileGroup, _ int) gin.H {
			return gin.H{
				"file":  g.File,
				"lines": g.Count(),
			}
		}),
		"breakdown": breakdown.Compute([]*model.Commit{c}),
	}, nil
}

func (s *server) narrativeGet() (any, error) {
	return s.steps, nil
}

func (s *server) breakdownGet() (any, error) {
	return breakdown.Compute(s.commits.List()), nil
}

func (s *server) filesList(params *FilesParams) (any, error) {
	err := params.validate()
	if err != nil {
		return nil, err
	}

	d := files.NewDisplayer()

	err = d.SetFilter(params.File)
	if err != nil {
		return nil, errors.Wrap(errorInvalidParams, err.Error())
	}

	rows := d.Render(s.commits.List())

	total := len(rows)

	rows = paginate(rows, params.Offset, params.Limit)

	return gin.H{
		"data":  rows,
		"total": total,
	}, nil
}
