package finder

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	return path
}

func names(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func TestFindFiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "show.s01e01.avi"))
	touch(t, filepath.Join(dir, "show.s01e01.srt"))
	touch(t, filepath.Join(dir, "show.s01e02.MKV"))

	f, err := New([]string{".avi", "mkv"}, nil, false)
	require.NoError(t, err)

	found, err := f.Find(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"show.s01e01.avi", "show.s01e02.MKV"}, names(found))
}

func TestFindEmptyExtensionsAcceptsAll(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.avi"))
	touch(t, filepath.Join(dir, "b.srt"))

	f, err := New(nil, nil, false)
	require.NoError(t, err)

	found, err := f.Find(dir)
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestFindBlacklist(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "show.s01e01.avi"))
	touch(t, filepath.Join(dir, "show.s01e02.sample.avi"))
	touch(t, filepath.Join(dir, "RARBG.avi"))

	f, err := New([]string{"avi"}, []BlacklistRule{
		{Pattern: "sample"},
		{Pattern: `^RARBG\.`, IsRegex: true},
	}, false)
	require.NoError(t, err)

	found, err := f.Find(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"show.s01e01.avi"}, names(found))
}

func TestFindBlacklistFullPath(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "extras", "show.s01e01.avi"))
	touch(t, filepath.Join(dir, "show.s01e02.avi"))

	f, err := New([]string{"avi"}, []BlacklistRule{
		{Pattern: "extras", FullPath: true},
	}, true)
	require.NoError(t, err)

	found, err := f.Find(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"show.s01e02.avi"}, names(found))
}

func TestFindBadRegexRejected(t *testing.T) {
	_, err := New(nil, []BlacklistRule{{Pattern: "(", IsRegex: true}}, false)
	assert.Error(t, err)
}

func TestFindRecursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "top.avi"))
	touch(t, filepath.Join(dir, "season 1", "nested.avi"))

	flat, err := New([]string{"avi"}, nil, false)
	require.NoError(t, err)
	found, err := flat.Find(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"top.avi"}, names(found))

	deep, err := New([]string{"avi"}, nil, true)
	require.NoError(t, err)
	found, err = deep.Find(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"top.avi", "nested.avi"}, names(found))
}

func TestFindSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, filepath.Join(dir, "show.s01e01.avi"))

	f, err := New([]string{"avi"}, nil, false)
	require.NoError(t, err)

	found, err := f.Find(path)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, filepath.IsAbs(found[0]))
	assert.Equal(t, "show.s01e01.avi", filepath.Base(found[0]))
}

func TestFindSingleFileFilteredOut(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, filepath.Join(dir, "notes.txt"))

	f, err := New([]string{"avi"}, nil, false)
	require.NoError(t, err)

	found, err := f.Find(path)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindInvalidPath(t *testing.T) {
	f, err := New(nil, nil, false)
	require.NoError(t, err)

	_, err = f.Find("/no/such/path")
	var invalid *InvalidPathError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "/no/such/path", invalid.Path)
}

func TestFindAllDedupesAndSorts(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "b.avi"))
	touch(t, filepath.Join(dir, "a.avi"))

	f, err := New([]string{"avi"}, nil, false)
	require.NoError(t, err)

	var invalid []error
	found := f.FindAll([]string{dir, a, "/missing"}, func(err error) {
		invalid = append(invalid, err)
	})

	assert.Equal(t, []string{"a.avi", "b.avi"}, names(found))
	require.Len(t, invalid, 1)
	var ip *InvalidPathError
	assert.True(t, errors.As(invalid[0], &ip))
}
