package loader

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/pescuma/locmeta/lib/model"
)

var Columns = []string{"commit", "author", "date", "time", "timezone", "datetime", "file", "line", "depth", "length", "type"}

var ErrMissingColumn = errors.New("missing required column")

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05Z07:00",
	"Mon Jan 2 15:04:05 2006 -0700",
}

var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Load reads records from a local file or, for http(s) sources, from the network.
func Load(ctx context.Context, source string) ([]*model.LineRecord, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return LoadURL(ctx, source)
	}

	return LoadFile(source)
}

func LoadFile(path string) ([]*model.LineRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %v", path)
	}
	defer file.Close()

	result, err := Parse(file)
	if err != nil {
		return nil, errors.Wrapf(err, "error loading %v", path)
	}

	return result, nil
}

func LoadURL(ctx context.Context, url string) ([]*model.LineRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "error fetching %v", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("error fetching %v: %v", url, resp.Status)
	}

	result, err := Parse(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "error loading %v", url)
	}

	return result, nil
}

// Parse converts every CSV row into a LineRecord. Malformed values never drop a row: numbers become NaN
// and dates become the zero time.
func Parse(r io.Reader) ([]*model.LineRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Wrap(ErrMissingColumn, "empty file")
	}
	if err != nil {
		return nil, errors.Wrap(err, "error reading header")
	}

	index, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var result []*model.LineRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "error reading row %v", len(result)+1)
		}

		result = append(result, ParseRow(func(column string) string {
			i := index[column]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}))
	}

	return result, nil
}

func indexColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, ok := index[h]; !ok {
			index[h] = i
		}
	}

	for _, c := range Columns {
		if _, ok := index[c]; !ok {
			return nil, errors.Wrapf(ErrMissingColumn, "column %v", c)
		}
	}

	return index, nil
}

func ParseRow(get func(column string) string) *model.LineRecord {
	return &model.LineRecord{
		Commit:   get("commit"),
		Author:   get("author"),
		Date:     ParseDate(get("date"), get("timezone")),
		Time:     get("time"),
		Timezone: get("timezone"),
		DateTime: ParseDateTime(get("datetime")),
		File:     get("file"),
		Line:     ParseNumber(get("line")),
		Depth:    ParseNumber(get("depth")),
		Length:   ParseNumber(get("length")),
		Type:     get("type"),
	}
}

// ParseNumber follows the usual CSV convention: blank is 0 and anything non-numeric is NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}

	return v
}

// ParseDate returns midnight of date in the given UTC offset (local time zone when tz is empty).
func ParseDate(date string, tz string) time.Time {
	date = strings.TrimSpace(date)
	tz = strings.TrimSpace(tz)

	if tz == "" {
		t, err := time.ParseInLocation("2006-01-02T15:04", date+"T00:00", time.Local)
		if err != nil {
			return time.Time{}
		}
		return t
	}

	for _, layout := range []string{"2006-01-02T15:04Z07:00", "2006-01-02T15:04Z0700"} {
		t, err := time.Parse(layout, date+"T00:00"+tz)
		if err == nil {
			return t
		}
	}

	return time.Time{}
}

func ParseDateTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t
		}
	}

	for _, layout := range localDateTimeLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t
		}
	}

	return time.Time{}
}
