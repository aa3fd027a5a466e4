package orm

import "time"

// sqlConfig is one workspace setting, stored by its dotted config key, e.g. "server.port".
type sqlConfig struct {
	Key   string `gorm:"primaryKey;size:100"`
	Value string `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newSqlConfig(key string, value string) *sqlConfig {
	return &sqlConfig{Key: key, Value: value}
}

func (s *sqlConfig) CacheKey() string {
	return s.Key
}
