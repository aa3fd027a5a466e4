package exporter

import (
	"context"
	"encoding/csv"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-enry/go-enry/v2"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pescuma/locmeta/lib/consoles"
	"github.com/pescuma/locmeta/lib/loader"
	"github.com/pescuma/locmeta/lib/utils"
)

const sniffLen = 8000

type Options struct {
	// Exclude holds doublestar patterns of paths, relative to the repository root, to skip.
	Exclude []string
	Workers int
	// Progress receives the progress bar. Nil disables it.
	Progress io.Writer
}

type Result struct {
	Files int
	Lines int
}

type Exporter struct {
	console consoles.Console
}

func NewExporter(console consoles.Console) *Exporter {
	return &Exporter{
		console: console,
	}
}

type exportWork struct {
	path     string
	fileType string
	rows     [][]string
}

// Export blames every file at HEAD of the repository in dir and writes one CSV row per line, ordered by
// file path and line number.
func (e *Exporter) Export(ctx context.Context, dir string, w io.Writer, opts *Options) (*Result, error) {
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Errorf("invalid exclude pattern: %v", p)
		}
	}

	workers := utils.Max(opts.Workers, 1)

	e.console.PushPrefix("%v: ", filepath.Base(dir))
	defer e.console.PopPrefix()

	gitCommit, err := openHead(dir)
	if err != nil {
		return nil, err
	}

	e.console.Printf("Finding out which files to process...\n")

	toProcess, err := e.listToProcess(dir, gitCommit, opts)
	if err != nil {
		return nil, err
	}

	e.console.Printf("Computing blame of %v files...\n", len(toProcess))

	// Each worker blames using its own repository handle
	handles := make(chan *object.Commit, workers)
	handles <- gitCommit
	for i := 1; i < workers; i++ {
		c, err := openHead(dir)
		if err != nil {
			return nil, err
		}
		handles <- c
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = utils.NewProgressBarTo(opts.Progress, len(toProcess))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, work := range toProcess {
		work := work
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			c := <-handles
			defer func() { handles <- c }()

			e.console.Debugf("Blaming %v\n", utils.TruncateFilename(work.path))

			err := blameFile(c, work)
			if err != nil {
				return err
			}

			if bar != nil {
				_ = bar.Add(1)
			}

			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		return nil, err
	}

	if bar != nil {
		_ = bar.Finish()
	}

	result := &Result{Files: len(toProcess)}

	cw := csv.NewWriter(w)

	err = cw.Write(loader.Columns)
	if err != nil {
		return nil, err
	}

	for _, work := range toProcess {
		err = cw.WriteAll(work.rows)
		if err != nil {
			return nil, err
		}

		result.Lines += len(work.rows)
	}

	cw.Flush()
	err = cw.Error()
	if err != nil {
		return nil, err
	}

	e.console.Printf("Exported %v lines of %v files\n", result.Lines, result.Files)

	return result, nil
}

func openHead(dir string) (*object.Commit, error) {
	gitRepo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening git repository at %v", dir)
	}

	gitHead, err := gitRepo.Head()
	if err != nil {
		return nil, err
	}

	return gitRepo.CommitObject(gitHead.Hash())
}

func (e *Exporter) listToProcess(dir string, gitCommit *object.Commit, opts *Options) ([]*exportWork, error) {
	gitTree, err := gitCommit.Tree()
	if err != nil {
		return nil, err
	}

	ignored, err := utils.FindGitIgnore(dir)
	if err != nil {
		return nil, err
	}

	var result []*exportWork

	err = gitTree.Files().ForEach(func(gitFile *object.File) error {
		path := gitFile.Name

		if enry.IsVendor(path) {
			return nil
		}

		if ignored != nil && ignored(path) {
			return nil
		}

		for _, p := range opts.Exclude {
			if m, _ := doublestar.Match(p, path); m {
				return nil
			}
		}

		head, err := readHead(gitFile)
		if err != nil {
			return err
		}

		if enry.IsBinary(head) || !utils.IsTextContents(head) {
			return nil
		}

		result = append(result, &exportWork{
			path:     path,
			fileType: fileType(path, head),
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].path < result[j].path
	})

	return result, nil
}

func readHead(gitFile *object.File) ([]byte, error) {
	reader, err := gitFile.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	head, err := io.ReadAll(io.LimitReader(reader, sniffLen))
	if err != nil {
		return nil, err
	}

	// A multi byte rune may have been cut at the end
	if len(head) == sniffLen {
		for i := 0; i < utf8.UTFMax && len(head) > 0 && !utf8.Valid(head); i++ {
			head = head[:len(head)-1]
		}
	}

	return head, nil
}

func blameFile(gitCommit *object.Commit, work *exportWork) error {
	blame, err := git.Blame(gitCommit, work.path)
	if err != nil {
		return errors.Wrapf(err, "error computing blame of %v", work.path)
	}

	work.rows = make([][]string, len(blame.Lines))
	for i, l := range blame.Lines {
		work.rows[i] = row(l.Hash.String(), l.AuthorName, l.Date, work.path, i+1, l.Text, work.fileType)
	}

	return nil
}

func row(commit string, author string, when time.Time, file string, line int, text string, fileType string) []string {
	return []string{
		commit,
		author,
		when.Format("2006-01-02"),
		when.Format("15:04:05"),
		when.Format("-07:00"),
		when.Format(time.RFC3339),
		file,
		strconv.Itoa(line),
		strconv.Itoa(Depth(text)),
		strconv.Itoa(utf8.RuneCountInString(text)),
		fileType,
	}
}

// Depth is the number of leading whitespace characters of a line.
func Depth(text string) int {
	return len(text) - len(strings.TrimLeft(text, " \t"))
}

func fileType(path string, contents []byte) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext != "" {
		return strings.ToLower(ext)
	}

	return strings.ToLower(enry.GetLanguage(filepath.Base(path), contents))
}
