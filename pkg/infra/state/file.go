package state

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/releasewatch/pkg/domain/model"
	"github.com/m-mizutani/releasewatch/pkg/domain/types"
)

// FileStore keeps one JSON file per repository in a directory
type FileStore struct {
	dir string
}

// NewFile returns a store rooted at dir. The directory is created on first save.
func NewFile(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(repo model.TrackedRepository) (string, error) {
	key, err := recordKey(repo)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Load reads the state file of repo
func (s *FileStore) Load(ctx context.Context, repo model.TrackedRepository) (*model.ReleaseDescriptor, error) {
	path, err := s.path(repo)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read state file",
			goerr.T(types.ErrTagStorage), goerr.V("path", path))
	}

	desc, err := decodeDescriptor(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load state file", goerr.V("path", path))
	}
	return desc, nil
}

// Save writes the state file through a temporary file and rename, so a
// crash mid-write leaves the previous record intact.
func (s *FileStore) Save(ctx context.Context, repo model.TrackedRepository, desc *model.ReleaseDescriptor) error {
	path, err := s.path(repo)
	if err != nil {
		return err
	}

	data, err := encodeDescriptor(desc)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return goerr.Wrap(err, "failed to create state directory",
			goerr.T(types.ErrTagStorage), goerr.V("dir", s.dir))
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary state file",
			goerr.T(types.ErrTagStorage), goerr.V("dir", s.dir))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to write temporary state file",
			goerr.T(types.ErrTagStorage), goerr.V("path", tmpName))
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to sync temporary state file",
			goerr.T(types.ErrTagStorage), goerr.V("path", tmpName))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to close temporary state file",
			goerr.T(types.ErrTagStorage), goerr.V("path", tmpName))
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to replace state file",
			goerr.T(types.ErrTagStorage), goerr.V("path", path))
	}

	return nil
}
