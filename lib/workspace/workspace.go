package workspace

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/pescuma/locmeta/lib/config"
	"github.com/pescuma/locmeta/lib/consoles"
	"github.com/pescuma/locmeta/lib/exporter"
	"github.com/pescuma/locmeta/lib/loader"
	"github.com/pescuma/locmeta/lib/model"
	"github.com/pescuma/locmeta/lib/storages"
	"github.com/pescuma/locmeta/lib/storages/orm"
	"github.com/pescuma/locmeta/lib/utils"
)

type Workspace struct {
	console consoles.Console
	storage storages.Storage
}

func NewWorkspace(file string) (*Workspace, error) {
	return NewWorkspaceWithConsole(file, consoles.NewStdOutConsole())
}

func NewWorkspaceWithConsole(file string, console consoles.Console) (*Workspace, error) {
	if file == "" {
		if _, err := os.Stat("./.locmeta"); err == nil {
			file = "./.locmeta/locmeta.sqlite"
		} else {
			file = "~/.locmeta/locmeta.sqlite"
		}
	}

	var storage storages.Storage
	var err error
	switch {
	case file == ":memory:":
		storage, err = orm.NewGormStorage(orm.WithSqliteInMemory(), console)

	case strings.HasSuffix(file, ".sqlite"):
		file, err = utils.PathAbs(file)
		if err != nil {
			return nil, err
		}

		err = createWorkspaceDir(file, console)
		if err != nil {
			return nil, err
		}

		storage, err = orm.NewGormStorage(orm.WithSqlite(file), console)

	default:
		return nil, fmt.Errorf("unknown storage type for file %v", file)
	}
	if err != nil {
		return nil, err
	}

	return &Workspace{
		console: console,
		storage: storage,
	}, nil
}

func createWorkspaceDir(file string, console consoles.Console) error {
	path := filepath.Dir(file)

	if _, err := os.Stat(path); err != nil {
		console.Printf("Creating workspace at %v\n", path)
		err = os.MkdirAll(path, 0o700)
		if err != nil {
			return err
		}
	}

	return nil
}

func (w *Workspace) Close() error {
	return w.storage.Close()
}

func (w *Workspace) Console() consoles.Console {
	return w.console
}

// ImportCSV replaces the stored lines with the ones read from source, a file or an URL.
func (w *Workspace) ImportCSV(ctx context.Context, source string) (int, error) {
	w.console.Printf("Loading %v...\n", source)

	records, err := loader.Load(ctx, source)
	if err != nil {
		return 0, err
	}

	err = w.storage.WriteLines(records)
	if err != nil {
		return 0, err
	}

	return len(records), nil
}

// LoadRecords returns the lines of source, or the stored lines if source is empty.
func (w *Workspace) LoadRecords(ctx context.Context, source string) ([]*model.LineRecord, error) {
	if source != "" {
		w.console.Printf("Loading %v...\n", source)
		return loader.Load(ctx, source)
	}

	count, err := w.storage.CountLines()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.New("no lines in the workspace: run 'import' or 'export' first")
	}

	return w.storage.LoadLines()
}

// Export blames the repository in dir. With an output it writes the CSV there, otherwise it imports the
// lines into the workspace.
func (w *Workspace) Export(ctx context.Context, dir string, out io.Writer, opts *exporter.Options) (*exporter.Result, error) {
	e := exporter.NewExporter(w.console)

	if out != nil {
		return e.Export(ctx, dir, out, opts)
	}

	pr, pw := io.Pipe()

	type parsed struct {
		records []*model.LineRecord
		err     error
	}
	done := make(chan parsed, 1)
	go func() {
		records, err := loader.Parse(pr)
		_ = pr.CloseWithError(err)
		done <- parsed{records, err}
	}()

	result, err := e.Export(ctx, dir, pw, opts)
	_ = pw.CloseWithError(err)

	p := <-done
	if err != nil {
		return nil, err
	}
	if p.err != nil {
		return nil, p.err
	}

	err = w.storage.WriteLines(p.records)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (w *Workspace) LoadGlobalConfig() (map[string]string, error) {
	cfg, err := w.storage.LoadConfig()
	if err != nil {
		return nil, err
	}

	return *cfg, nil
}

// SetGlobalConfig stores a setting in the workspace. An empty value removes it. It returns false if nothing
// changed.
func (w *Workspace) SetGlobalConfig(key string, value string) (bool, error) {
	if !config.IsKey(key) {
		return false, errors.Errorf("unknown config: %v (known: %v)", key, strings.Join(config.Keys(), ", "))
	}

	cfg, err := w.storage.LoadConfig()
	if err != nil {
		return false, err
	}

	v, ok := (*cfg)[key]
	switch {
	case value == "" && !ok:
		return false, nil
	case value == "":
		delete(*cfg, key)
	case ok && v == value:
		return false, nil
	default:
		(*cfg)[key] = value
	}

	err = w.storage.WriteConfig()
	if err != nil {
		return false, err
	}

	return true, nil
}

// Config merges the workspace settings with the config file and environment.
func (w *Workspace) Config(file string) (*config.Config, error) {
	cfg, err := w.LoadGlobalConfig()
	if err != nil {
		return nil, err
	}

	return config.Load(file, cfg)
}
