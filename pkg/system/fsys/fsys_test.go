package fsys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapFS_ReadFile(t *testing.T) {
	fs := MapFS{"/proc/stat": "cpu 1 2 3 4\n"}

	raw, err := fs.ReadFile("/proc/stat")
	require.NoError(t, err)
	assert.Equal(t, "cpu 1 2 3 4\n", raw)

	_, err = fs.ReadFile("/proc/missing")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestMapFS_Exists(t *testing.T) {
	fs := MapFS{"/proc/42/stat": "x"}

	assert.True(t, fs.Exists("/proc/42/stat"))
	assert.True(t, fs.Exists("/proc/42"), "implied directory")
	assert.True(t, fs.Exists("/proc"))
	assert.False(t, fs.Exists("/proc/43"))
	assert.False(t, fs.Exists("/proc/42/sta"))
}

func TestMapFS_ReadDir(t *testing.T) {
	fs := MapFS{
		"/proc/1/stat":   "a",
		"/proc/42/stat":  "b",
		"/proc/42/statm": "c",
		"/proc/meminfo":  "d",
	}

	names, err := fs.ReadDir("/proc")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "42", "meminfo"}, names)

	names, err = fs.ReadDir("/proc/42")
	require.NoError(t, err)
	assert.Equal(t, []string{"stat", "statm"}, names)

	_, err = fs.ReadDir("/sys")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestOS_ReadDirAndExists(t *testing.T) {
	dir := t.TempDir()
	fs := OS()

	assert.True(t, fs.Exists(dir))
	assert.False(t, fs.Exists(dir+"/nope"))

	_, err := fs.ReadFile(dir + "/nope")
	assert.ErrorIs(t, err, ErrNotExist)
}
