package utils

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinMax(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, Min(3, 1, 2))
	assert.Equal(t, 3, Max(3, 1, 2))
	assert.Equal(t, 5.0, Clamp(7.0, 0, 5))
	assert.Equal(t, 0.0, Clamp(-1.0, 0, 5))
}

func TestMaxFloatSkipsNaN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4.0, MaxFloat(1, math.NaN(), 4, 2))
	assert.True(t, math.IsNaN(MaxFloat()))
	assert.True(t, math.IsNaN(MaxFloat(math.NaN())))
}

func TestIsTextContents(t *testing.T) {
	t.Parallel()

	assert.True(t, IsTextContents([]byte("let a = 1;\n")))
	assert.False(t, IsTextContents([]byte{0x89, 'P', 'N', 'G', 0, 1}))
}

func TestFindGitIgnore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	m, err := FindGitIgnore(dir)
	require.NoError(t, err)
	assert.Nil(t, m)

	err = os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("node_modules/\n*.log\n"), 0o600)
	require.NoError(t, err)

	m, err = FindGitIgnore(dir)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, m("debug.log"))
	assert.True(t, m("node_modules/x.js"))
	assert.False(t, m("src/index.js"))
}

func TestTruncateFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "src/index.js", TruncateFilename("src/index.js"))
	long := TruncateFilename("src/components/very/deeply/nested/folder/structure/Component.tsx")
	assert.LessOrEqual(t, len(long), 40)
	assert.Contains(t, long, "...")
	assert.True(t, strings.HasSuffix(long, "Component.tsx"))
}
