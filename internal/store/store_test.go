package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic_ReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "new")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriteFileAtomic_WriterFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	boom := errors.New("boom")
	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	require.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be cleaned up")
}

func TestWriteFileAtomic_FileMode(t *testing.T) {
	dir := t.TempDir()
	write := func(w io.Writer) error {
		_, err := io.WriteString(w, "new")
		return err
	}

	private := filepath.Join(dir, "private.json")
	require.NoError(t, os.WriteFile(private, []byte("old"), 0o600))
	require.NoError(t, os.Chmod(private, 0o600))
	require.NoError(t, WriteFileAtomic(private, write))
	info, err := os.Stat(private)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	fresh := filepath.Join(dir, "fresh.json")
	require.NoError(t, WriteFileAtomic(fresh, write))
	info, err = os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "users.json")

	err := WriteFileAtomic(path, func(w io.Writer) error { return nil })
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestErrors_MatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		contains string
	}{
		{"load", &LoadError{Path: "a.json", Err: errors.New("bad")}, ErrLoad, "load a.json: bad"},
		{"load inline", &LoadError{Err: errors.New("bad")}, ErrLoad, "inline"},
		{"duplicate", &DuplicateIDError{ID: "1"}, ErrDuplicateID, `"1" already exists`},
		{"index", &IndexOutOfRangeError{Index: -10, Len: 1}, ErrIndexOutOfRange, "index -10 out of range"},
		{"persist", &PersistenceError{Path: "a.docx", Err: errors.New("disk full")}, ErrPersistence, "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("wrapped: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Contains(t, tt.err.Error(), tt.contains)
		})
	}
}

func TestErrors_As(t *testing.T) {
	var err error = fmt.Errorf("remove: %w", &IndexOutOfRangeError{Index: 5, Len: 2})

	var idxErr *IndexOutOfRangeError
	require.ErrorAs(t, err, &idxErr)
	assert.Equal(t, 5, idxErr.Index)
	assert.Equal(t, 2, idxErr.Len)
	assert.NotErrorIs(t, err, ErrDuplicateID)
}
