package orm

import (
	"log"
	"os"
	"reflect"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/pescuma/locmeta/lib/consoles"
	"github.com/pescuma/locmeta/lib/model"
	"github.com/pescuma/locmeta/lib/storages"
)

type sqlTable interface {
	CacheKey() string
}

type gormStorage struct {
	mutex   sync.RWMutex
	db      *gorm.DB
	console consoles.Console

	lines  []*model.LineRecord
	config *map[string]string

	sqlConfigs map[string]*sqlConfig
}

func NewGormStorage(d gorm.Dialector, console consoles.Console) (storages.Storage, error) {
	l := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(d, &gorm.Config{
		NamingStrategy: &NamingStrategy{},
		Logger:         l,
	})
	if err != nil {
		return nil, err
	}

	// sqlite allows one writer, and every connection to :memory: is a new database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&sqlConfig{},
		&sqlLineRecord{},
	)
	if err != nil {
		return nil, err
	}

	return &gormStorage{
		db:      db,
		console: console,
	}, nil
}

func (s *gormStorage) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}

	return db.Close()
}

func createCache[T sqlTable](rows []T) map[string]T {
	return lo.Associate(rows, func(i T) (string, T) {
		return i.CacheKey(), i
	})
}

func (s *gormStorage) LoadLines() ([]*model.LineRecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.lines != nil {
		return s.lines, nil
	}

	s.console.Printf("Loading lines...\n")

	var rows []*sqlLineRecord
	err := s.db.Order("id").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*model.LineRecord, len(rows))
	for i, r := range rows {
		result[i] = r.toModel()
	}

	s.lines = result
	return result, nil
}

func (s *gormStorage) CountLines() (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.lines != nil {
		return int64(len(s.lines)), nil
	}

	var result int64
	err := s.db.Model(&sqlLineRecord{}).Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (s *gormStorage) WriteLines(lines []*model.LineRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.console.Printf("Writing %v lines...\n", len(lines))

	rows := make([]*sqlLineRecord, len(lines))
	for i, l := range lines {
		rows[i] = newSqlLineRecord(i+1, l)
	}

	now := time.Now().Local()
	db := s.db.Session(&gorm.Session{
		NowFunc:         func() time.Time { return now },
		CreateBatchSize: 300,
	})

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("1 = 1").Delete(&sqlLineRecord{}).Error
		if err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}

		return tx.Create(&rows).Error
	})
	if err != nil {
		return errors.Wrap(err, "error writing lines")
	}

	s.lines = append([]*model.LineRecord{}, lines...)

	return nil
}

func (s *gormStorage) LoadConfig() (*map[string]string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.config != nil {
		return s.config, nil
	}

	s.console.Printf("Loading config...\n")

	result := map[string]string{}

	var sqlConfigs []*sqlConfig
	err := s.db.Find(&sqlConfigs).Error
	if err != nil {
		return nil, err
	}

	s.sqlConfigs = createCache(sqlConfigs)

	for _, sc := range sqlConfigs {
		result[sc.Key] = sc.Value
	}

	s.config = &result
	return &result, nil
}

// WriteConfig persists the changes made to the map returned by LoadConfig.
func (s *gormStorage) WriteConfig() error {
	if s.config == nil {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	var sqlConfigs []*sqlConfig
	for k, v := range *s.config {
		sc := newSqlConfig(k, v)
		if prepareChange(&s.sqlConfigs, sc) {
			sqlConfigs = append(sqlConfigs, sc)
		}
	}

	var deleted []string
	for k := range s.sqlConfigs {
		if _, ok := (*s.config)[k]; !ok {
			deleted = append(deleted, k)
		}
	}

	now := time.Now().Local()
	db := s.db.Session(&gorm.Session{
		NowFunc:         func() time.Time { return now },
		CreateBatchSize: 300,
	})

	if len(sqlConfigs) > 0 {
		err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&sqlConfigs).Error
		if err != nil {
			return err
		}
	}

	if len(deleted) > 0 {
		err := db.Where(clause.IN{Column: clause.Column{Name: "key"}, Values: lo.ToAnySlice(deleted)}).Delete(&sqlConfig{}).Error
		if err != nil {
			return err
		}

		for _, k := range deleted {
			delete(s.sqlConfigs, k)
		}
	}

	addList(&s.sqlConfigs, sqlConfigs)

	return nil
}

func addList[T sqlTable](target *map[string]T, toAdd []T) {
	for _, v := range toAdd {
		(*target)[v.CacheKey()] = v
	}
}

func prepareChange[T sqlTable](byID *map[string]T, n T) bool {
	o, ok := (*byID)[n.CacheKey()]
	if ok {
		ro := reflect.Indirect(reflect.ValueOf(o))
		rn := reflect.Indirect(reflect.ValueOf(n))

		rn.FieldByName("CreatedAt").Set(ro.FieldByName("CreatedAt"))
		rn.FieldByName("UpdatedAt").Set(ro.FieldByName("UpdatedAt"))
	}

	if reflect.DeepEqual(n, o) {
		return false
	} else {
		(*byID)[n.CacheKey()] = n
		return true
	}
}
