package repositories

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/esdrassantos06/go-adserver/internal/core/domain"
	"github.com/esdrassantos06/go-adserver/internal/core/ports"
)

// FSAssetRepo keeps asset blobs as plain files under one directory, one file
// per (slot, id).
type FSAssetRepo struct {
	Dir string
}

func NewFSAssetRepo(dir string) (ports.AssetRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FSAssetRepo{Dir: dir}, nil
}

func (r *FSAssetRepo) path(key domain.AdKey) string {
	return filepath.Join(r.Dir, key.String())
}

func (r *FSAssetRepo) Save(_ context.Context, key domain.AdKey, data []byte) error {
	return os.WriteFile(r.path(key), data, 0o644)
}

func (r *FSAssetRepo) Load(_ context.Context, key domain.AdKey) ([]byte, error) {
	data, err := os.ReadFile(r.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	return data, err
}

func (r *FSAssetRepo) Reset(_ context.Context) error {
	if err := os.RemoveAll(r.Dir); err != nil {
		return err
	}
	return os.MkdirAll(r.Dir, 0o755)
}
