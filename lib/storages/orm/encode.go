package orm

import (
	"math"
	"time"

	"github.com/pescuma/locmeta/lib/utils"
)

func encodeNumber(v float64) *float64 {
	return utils.IIf(math.IsNaN(v), nil, &v)
}
func decodeNumber(v *float64) float64 {
	if v == nil {
		return math.NaN()
	} else {
		return *v
	}
}

// Times are stored as text so the original offset survives the round trip.
func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.RFC3339Nano)
}
func decodeTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}

	return t
}
