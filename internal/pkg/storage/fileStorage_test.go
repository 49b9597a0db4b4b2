package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorageLifecycle(t *testing.T) {
	s := NewFileStorage(t.TempDir())

	require.NoError(t, s.Save("nested/clip.mp4", strings.NewReader("video-bytes")))

	info, err := s.Stat("nested/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(len("video-bytes")), info.Size())

	full, err := s.Path("nested/clip.mp4")
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(data))

	require.NoError(t, s.Delete("nested/clip.mp4"))
	_, err = s.Stat("nested/clip.mp4")
	assert.True(t, os.IsNotExist(err))

	err = s.Delete("nested/clip.mp4")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoragePath(t *testing.T) {
	root := t.TempDir()
	s := NewFileStorage(root)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "plain file", path: "1.gif", want: filepath.Join(root, "1.gif")},
		{name: "nested file", path: "a/b.gif", want: filepath.Join(root, "a", "b.gif")},
		{name: "parent escape", path: "../etc/passwd", wantErr: true},
		{name: "deep escape", path: "a/../../x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Path(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOutsideRoot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileStorageRel(t *testing.T) {
	root := t.TempDir()
	s := NewFileStorage(root)

	tests := []struct {
		name    string
		full    string
		want    string
		wantErr bool
	}{
		{name: "file in root", full: filepath.Join(root, "upload-1"), want: "upload-1"},
		{name: "nested file", full: filepath.Join(root, "a", "b"), want: filepath.Join("a", "b")},
		{name: "root itself", full: root, wantErr: true},
		{name: "sibling directory", full: filepath.Join(filepath.Dir(root), "other", "x"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Rel(tt.full)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOutsideRoot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			back, err := s.Path(got)
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.full), back)
		})
	}
}

func TestFileStorageRejectsEscapes(t *testing.T) {
	s := NewFileStorage(t.TempDir())

	assert.ErrorIs(t, s.Save("../x", strings.NewReader("x")), ErrOutsideRoot)
	assert.ErrorIs(t, s.Delete("../x"), ErrOutsideRoot)
	_, err := s.Stat("../x")
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestEnsureCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "public")
	s := NewFileStorage(root)

	require.NoError(t, Ensure(s))
	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
