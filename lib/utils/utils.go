package utils

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/aquilax/truncate"
	"github.com/pkg/errors"
	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/exp/constraints"
)

func Min[T constraints.Ordered](a T, bs ...T) T {
	result := a
	for _, b := range bs {
		if result > b {
			result = b
		}
	}
	return result
}

func Max[T constraints.Ordered](a T, bs ...T) T {
	result := a
	for _, b := range bs {
		if result < b {
			result = b
		}
	}
	return result
}

func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return Max(lo, Min(v, hi))
}

func IIf[T any](test bool, ifTrue, ifFalse T) T {
	if test {
		return ifTrue
	} else {
		return ifFalse
	}
}

// MaxFloat returns the largest value ignoring NaNs. If every value is NaN (or there are none) it returns NaN.
func MaxFloat(vs ...float64) float64 {
	result := math.NaN()
	for _, v := range vs {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(result) || v > result {
			result = v
		}
	}
	return result
}

func PathAbs(path string) (string, error) {
	if strings.HasPrefix(filepath.ToSlash(path), "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		path = filepath.Join(home, path[2:])
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return path, nil
}

func FileExists(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return true, nil

	} else if errors.Is(err, os.ErrNotExist) {
		return false, nil

	} else {
		return false, err
	}
}

func IsTextContents(contents []byte) bool {
	if bytes.IndexByte(contents, 0) >= 0 {
		return false
	}

	return utf8.Valid(contents)
}

func TruncateFilename(path string) string {
	return truncate.Truncate(filepath.ToSlash(path), 40, "...", truncate.PositionMiddle)
}

// FindGitIgnore returns a matcher for the .gitignore at the root of dir, or nil if there is none.
func FindGitIgnore(dir string) (func(path string) bool, error) {
	file := filepath.Join(dir, ".gitignore")

	exists, err := FileExists(file)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	gi, err := ignore.CompileIgnoreFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing %v", file)
	}

	return gi.MatchesPath, nil
}
