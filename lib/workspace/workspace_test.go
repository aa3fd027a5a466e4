package workspace

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pescuma/locmeta/lib/consoles"
	"github.com/pescuma/locmeta/lib/exporter"
)

const sampleCSV = `commit,author,date,time,timezone,datetime,file,line,depth,length,type
c1,me,2024-01-01,10:00:00,+00:00,2024-01-01T10:00:00+00:00,index.js,1,0,10,js
c1,me,2024-01-01,10:00:00,+00:00,2024-01-01T10:00:00+00:00,index.js,2,2,12,js
c2,me,2024-01-02,22:30:00,+00:00,2024-01-02T22:30:00+00:00,style.css,1,0,8,css
`

func newWorkspace(t *testing.T) *Workspace {
	ws, err := NewWorkspaceWithConsole(":memory:", consoles.NewConsole(io.Discard, false))
	require.NoError(t, err)

	t.Cleanup(func() { _ = ws.Close() })

	return ws
}

func writeCSV(t *testing.T) string {
	file := filepath.Join(t.TempDir(), "loc.csv")
	require.NoError(t, os.WriteFile(file, []byte(sampleCSV), 0o600))
	return file
}

func TestImportAndLoad(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t)
	ctx := context.Background()

	_, err := ws.LoadRecords(ctx, "")
	assert.Error(t, err)

	n, err := ws.ImportCSV(ctx, writeCSV(t))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	records, err := ws.LoadRecords(ctx, "")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "c1", records[0].Commit)
	assert.Equal(t, "style.css", records[2].File)
	assert.Equal(t, 12.0, records[1].Length)
}

func TestLoadRecordsFromSource(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t)

	records, err := ws.LoadRecords(context.Background(), writeCSV(t))
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = ws.LoadRecords(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestFileWorkspace(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "ws", "locmeta.sqlite")

	ws, err := NewWorkspaceWithConsole(file, consoles.NewConsole(io.Discard, false))
	require.NoError(t, err)
	require.NoError(t, ws.Close())

	_, err = os.Stat(filepath.Dir(file))
	assert.NoError(t, err)

	_, err = NewWorkspaceWithConsole(filepath.Join(t.TempDir(), "ws.txt"), consoles.NewConsole(io.Discard, false))
	assert.Error(t, err)
}

func TestGlobalConfig(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t)

	changed, err := ws.SetGlobalConfig("server.port", "8080")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = ws.SetGlobalConfig("server.port", "8080")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = ws.SetGlobalConfig("nope", "1")
	assert.Error(t, err)

	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("server:\n  port: 7000\n"), 0o600))

	cfg, err := ws.Config(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, uint(8080), cfg.Server.Port)

	changed, err = ws.SetGlobalConfig("server.port", "")
	require.NoError(t, err)
	assert.True(t, changed)

	cfg, err = ws.Config(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, uint(7000), cfg.Server.Port)
}

func TestExportIntoWorkspace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o600))
	_, err = wt.Add("main.go")
	require.NoError(t, err)
	_, err = wt.Commit("first", &git.CommitOptions{
		Author: &object.Signature{Name: "me", Email: "me@example.com", When: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	ws := newWorkspace(t)

	result, err := ws.Export(context.Background(), dir, nil, &exporter.Options{Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Lines)

	records, err := ws.LoadRecords(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "go", records[0].Type)
	assert.Equal(t, "me", records[0].Author)
}
