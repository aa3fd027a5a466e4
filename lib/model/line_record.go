package model

import (
	"math"
	"time"
)

// LineRecord is one changed source line in one commit, as exported to loc.csv.
type LineRecord struct {
	Commit   string    `json:"commit"`
	Author   string    `json:"author"`
	Date     time.Time `json:"date"`
	Time     string    `json:"time"`
	Timezone string    `json:"timezone"`
	DateTime time.Time `json:"datetime"`
	File     string    `json:"file"`
	Line     float64   `json:"line"`
	Depth    float64   `json:"depth"`
	Length   float64   `json:"length"`
	Type     string    `json:"type"`
}

// HasValidNumbers is false when any numeric column could not be parsed.
func (l *LineRecord) HasValidNumbers() bool {
	return !math.IsNaN(l.Line) && !math.IsNaN(l.Depth) && !math.IsNaN(l.Length)
}
