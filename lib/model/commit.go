package model

import (
	"encoding/json"
	"math"
	"time"
)

const DefaultCommitURLPrefix = "https://github.com/ChinmayB1/personal-website/commit/"

const shortIDLen = 7

type Commit struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Author     string    `json:"author"`
	Date       time.Time `json:"date"`
	Time       string    `json:"time"`
	Timezone   string    `json:"timezone"`
	DateTime   time.Time `json:"datetime"`
	HourFrac   float64   `json:"hourFrac"`
	TotalLines int       `json:"totalLines"`

	lines []*LineRecord
}

func newCommit(id string, urlPrefix string, lines []*LineRecord) *Commit {
	first := lines[0]

	return &Commit{
		ID:         id,
		URL:        urlPrefix + id,
		Author:     first.Author,
		Date:       first.Date,
		Time:       first.Time,
		Timezone:   first.Timezone,
		DateTime:   first.DateTime,
		HourFrac:   HourFrac(first.DateTime),
		TotalLines: len(lines),
		lines:      lines,
	}
}

// Lines returns the records this commit was aggregated from. The slice must not be modified.
func (c *Commit) Lines() []*LineRecord {
	return c.lines
}

func (c *Commit) ShortID() string {
	if len(c.ID) <= shortIDLen {
		return c.ID
	}
	return c.ID[:shortIDLen]
}

func (c *Commit) HasDateTime() bool {
	return !c.DateTime.IsZero()
}

// MarshalJSON encodes NaN hourFrac as null, since encoding/json rejects NaN.
func (c *Commit) MarshalJSON() ([]byte, error) {
	type plain Commit

	return json.Marshal(struct {
		*plain
		HourFrac *float64 `json:"hourFrac"`
	}{
		plain:    (*plain)(c),
		HourFrac: nullable(c.HourFrac),
	})
}

// HourFrac is the fractional hour of day of t on its own clock, or NaN for the zero time.
func HourFrac(t time.Time) float64 {
	if t.IsZero() {
		return math.NaN()
	}

	return float64(t.Hour()) + float64(t.Minute())/60
}
