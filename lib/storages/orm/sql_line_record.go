package orm

import (
	"strconv"
	"time"

	"github.com/pescuma/locmeta/lib/model"
)

type sqlLineRecord struct {
	ID       int    `gorm:"primaryKey;autoIncrement:false"`
	Commit   string `gorm:"column:commit_id;index"`
	Author   string
	Date     string
	Time     string
	Timezone string
	DateTime string
	File     string `gorm:"index"`
	Line     *float64
	Depth    *float64
	Length   *float64
	Type     string

	CreatedAt time.Time
}

func newSqlLineRecord(id int, l *model.LineRecord) *sqlLineRecord {
	return &sqlLineRecord{
		ID:       id,
		Commit:   l.Commit,
		Author:   l.Author,
		Date:     encodeTime(l.Date),
		Time:     l.Time,
		Timezone: l.Timezone,
		DateTime: encodeTime(l.DateTime),
		File:     l.File,
		Line:     encodeNumber(l.Line),
		Depth:    encodeNumber(l.Depth),
		Length:   encodeNumber(l.Length),
		Type:     l.Type,
	}
}

func (s *sqlLineRecord) CacheKey() string {
	return strconv.Itoa(s.ID)
}

func (s *sqlLineRecord) toModel() *model.LineRecord {
	return &model.LineRecord{
		Commit:   s.Commit,
		Author:   s.Author,
		Date:     decodeTime(s.Date),
		Time:     s.Time,
		Timezone: s.Timezone,
		DateTime: decodeTime(s.DateTime),
		File:     s.File,
		Line:     decodeNumber(s.Line),
		Depth:    decodeNumber(s.Depth),
		Length:   decodeNumber(s.Length),
		Type:     s.Type,
	}
}
