package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pescuma/locmeta/lib/consoles"
	"github.com/pescuma/locmeta/lib/explorer"
	"github.com/pescuma/locmeta/lib/model"
	"github.com/pescuma/locmeta/lib/narrative"
	"github.com/pescuma/locmeta/lib/observability"
)

type Options struct {
	Host string
	Port uint
	// Source is the CSV file the data was loaded from, served at /loc.csv. Empty when the data came from
	// the workspace.
	Source   string
	Explorer explorer.Options
	// SessionTTL is how long an unused session is kept. Default is 30 minutes.
	SessionTTL time.Duration
	// MaxSessions caps the number of open sessions; the least recently used one is closed to make room.
	// Default is 1000.
	MaxSessions int
}

type Loader = func() ([]*model.LineRecord, error)

// Run loads the data and serves it. A failed load is reported by the data routes instead of stopping
// the server.
func Run(console consoles.Console, load Loader, opts *Options) error {
	s := newServer(console, opts)

	console.Printf("Loading data...\n")

	s.load(load)

	console.Printf("Starting server on %v:%v...\n", s.opts.Host, s.opts.Port)

	return s.run()
}

type server struct {
	console consoles.Console
	opts    *Options
	metrics *observability.Metrics

	loadErr error
	commits *model.Commits
	summary *model.Summary
	steps   []*narrative.Step

	now           func() time.Time
	sessionsMutex sync.Mutex
	sessions      map[string]*sessionEntry
}

func newServer(console consoles.Console, opts *Options) *server {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Port == 0 {
		opts.Port = 2427
	}
	if opts.Explorer.Layout.Width == 0 {
		opts.Explorer = explorer.DefaultOptions()
	}
	if opts.SessionTTL == 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	if opts.MaxSessions == 0 {
		opts.MaxSessions = 1000
	}

	return &server{
		console:  console,
		opts:     opts,
		metrics:  observability.NewMetrics(),
		now:      time.Now,
		sessions: map[string]*sessionEntry{},
	}
}

func (s *server) load(load Loader) {
	start := time.Now()

	records, err := load()
	if err != nil {
		s.console.Printf("Error loading data: %v\n", err)
		s.loadErr = err
		s.metrics.LoadFailed()
		return
	}

	s.commits = model.GroupCommits(records, s.opts.Explorer.URLPrefix)
	s.summary = s.commits.Summary()
	s.steps = narrative.Build(s.commits.List())

	s.metrics.Loaded(len(records), time.Since(start))

	s.console.Printf("Loaded %v lines of %v commits\n", len(records), s.commits.Len())
}

func (s *server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())

	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	r.GET("/loc.csv", s.sourceFile)

	s.initChart(r)

	api := r.Group("/api", s.requireData())
	s.initData(api)
	s.initSessions(api)

	return r
}

func (s *server) run() error {
	gin.SetMode(gin.ReleaseMode)
	r := s.router()

	return r.Run(fmt.Sprintf("%v:%v", s.opts.Host, s.opts.Port))
}
