package storages

import (
	"github.com/pescuma/locmeta/lib/model"
)

type Storage interface {
	LoadLines() ([]*model.LineRecord, error)
	// WriteLines replaces every stored line.
	WriteLines(lines []*model.LineRecord) error
	CountLines() (int64, error)

	LoadConfig() (*map[string]string, error)
	WriteConfig() error

	Close() error
}

type Factory = func(path string) (Storage, error)
