package server

import (
	"github.com/pkg/errors"

	"github.com/pescuma/locmeta/lib/model"
)

func (s *server) sortCommits(col []*model.Commit, field string, asc *bool) error {
	if field == "" {
		field = "datetime"
	}
	if asc == nil {
		asc = new(bool)
		*asc = field == "datetime" || field == "author"
	}

	switch field {
	case "id":
		return sortBy(col, func(c *model.Commit) string { return c.ID }, *asc)
	case "author":
		return sortBy(col, func(c *model.Commit) string { return c.Author }, *asc)
	case "datetime":
		return sortBy(col, func(c *model.Commit) int64 { return c.DateTime.UnixMilli() }, *asc)
	case "hourFrac":
		return sortBy(col, func(c *model.Commit) float64 { return c.HourFrac }, *asc)
	case "totalLines":
		return sortBy(col, func(c *model.Commit) int { return c.TotalLines }, *asc)
	default:
		return errors.Wrapf(errorInvalidParams, "unknown sort field: %s", field)
	}
}
