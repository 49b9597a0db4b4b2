package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrOutsideRoot = errors.New("path escapes storage root")

type FileStorage interface {
	Save(path string, data io.Reader) error
	Delete(path string) error
	Stat(path string) (os.FileInfo, error)
	Path(path string) (string, error)
	Rel(fullPath string) (string, error)
	Root() string
}

type fileStorage struct {
	basePath string
}

func NewFileStorage(basePath string) FileStorage {
	return &fileStorage{basePath: filepath.Clean(basePath)}
}

// Ensure creates the storage root if it does not exist yet.
func Ensure(s FileStorage) error {
	return os.MkdirAll(s.Root(), 0755)
}

func (s *fileStorage) Root() string {
	return s.basePath
}

// Path resolves a storage-relative path, refusing anything that leaves the root.
func (s *fileStorage) Path(path string) (string, error) {
	fullPath := filepath.Join(s.basePath, path)
	if _, err := s.Rel(fullPath); err != nil && fullPath != s.basePath {
		return "", err
	}
	return fullPath, nil
}

// Rel is the inverse of Path: it maps a full path back to a storage-relative
// one and fails for paths that are not inside the root.
func (s *fileStorage) Rel(fullPath string) (string, error) {
	rel, err := filepath.Rel(s.basePath, filepath.Clean(fullPath))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return rel, nil
}

func (s *fileStorage) Save(path string, data io.Reader) error {
	fullPath, err := s.Path(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, data)
	return err
}

func (s *fileStorage) Delete(path string) error {
	fullPath, err := s.Path(path)
	if err != nil {
		return err
	}
	return os.Remove(fullPath)
}

func (s *fileStorage) Stat(path string) (os.FileInfo, error) {
	fullPath, err := s.Path(path)
	if err != nil {
		return nil, err
	}
	return os.Stat(fullPath)
}
