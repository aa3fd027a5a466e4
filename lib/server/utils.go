package server

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"github.com/pescuma/locmeta/lib/explorer"
)

const (
	dataErrorMessage  = "Error loading code analysis data. Please try again later."
	chartErrorMessage = "Error loading chart data. Please try again later."
)

type GridParams struct {
	Sort   string `form:"sort"`
	Asc    *bool  `form:"asc"`
	Offset *int   `form:"offset"`
	Limit  *int   `form:"limit"`
}

var (
	errorNotFound      = errors.New("not found")
	errorInvalidParams = errors.New("invalid params")
)

func sendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errorNotFound):
		c.String(http.StatusNotFound, "")
	case errors.Is(err, errorInvalidParams), errors.Is(err, explorer.ErrStepOutOfRange), errors.Is(err, explorer.ErrNotOnChart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func get(f func() (any, error)) func(c *gin.Context) {
	return func(c *gin.Context) {
		result, err := f()
		if err != nil {
			sendError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func getP[P any](f func(*P) (any, error)) func(c *gin.Context) {
	return func(c *gin.Context) {
		var params P

		err := c.ShouldBindUri(&params)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err = c.ShouldBindQuery(&params)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := f(&params)
		if err != nil {
			sendError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func postP[P any](status int, f func(*P) (any, error)) func(c *gin.Context) {
	return func(c *gin.Context) {
		var params P

		err := c.ShouldBindUri(&params)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if c.Request.ContentLength != 0 {
			err = c.ShouldBindJSON(&params)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		result, err := f(&params)
		if err != nil {
			sendError(c, err)
			return
		}

		c.JSON(status, result)
	}
}

func sortBy[T any, R constraints.Ordered](col []T, get func(T) R, asc bool) error {
	if asc {
		sort.SliceStable(col, func(i, j int) bool {
			return get(col[i]) < get(col[j])
		})
	} else {
		sort.SliceStable(col, func(i, j int) bool {
			return get(col[i]) > get(col[j])
		})
	}
	return nil
}

func (p *GridParams) validate() error {
	if p.Offset != nil && *p.Offset < 0 {
		return errors.Wrapf(errorInvalidParams, "negative offset: %v", *p.Offset)
	}
	if p.Limit != nil && *p.Limit < 0 {
		return errors.Wrapf(errorInvalidParams, "negative limit: %v", *p.Limit)
	}
	return nil
}

// paginate treats negative offsets and limits as 0.
func paginate[T any](col []T, offset, limit *int) []T {
	if offset != nil {
		o := max(*offset, 0)
		if o > len(col) {
			return []T{}
		}

		col = col[o:]
	}

	if limit != nil && *limit < len(col) {
		col = col[:max(*limit, 0)]
	}

	return col
}

func errorPage(messages ...string) []byte {
	var result []byte
	for _, m := range messages {
		result = append(result, errorParagraph(m)...)
	}
	return result
}

// requireData answers every request with 503 when the data could not be loaded.
func (s *server) requireData() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.loadErr != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": dataErrorMessage})
			return
		}

		c.Next()
	}
}

func (s *server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		s.console.Printf("%v %v %v %v\n", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (s *server) sourceFile(c *gin.Context) {
	if s.opts.Source == "" {
		c.String(http.StatusNotFound, "")
		return
	}

	if _, err := os.Stat(s.opts.Source); err != nil {
		c.String(http.StatusNotFound, "")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.File(s.opts.Source)
}

func errorParagraph(msg string) []byte {
	return []byte(fmt.Sprintf("<p class=\"error\">%v</p>\n", msg))
}
