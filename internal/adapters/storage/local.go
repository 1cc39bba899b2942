package storage

import (
	"os"

	"resumemailer/internal/domain"
)

type localFileStore struct{}

// NewLocalFileStore returns a FileStore backed by the local filesystem, where
// uploaded resume files live.
func NewLocalFileStore() domain.FileStore {
	return &localFileStore{}
}

func (localFileStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
