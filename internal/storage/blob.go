package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
)

// BlobStore persists uploaded attachment content under a caller-chosen unique name.
type BlobStore interface {
	Put(ctx context.Context, name string, r io.Reader) error
	Remove(ctx context.Context, name string) error
}

// DiskBlobStore writes blobs as files in Dir, which is also served as static content.
type DiskBlobStore struct {
	Dir string
}

func NewDiskBlobStore(dir string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pkgerrors.Wrapf(err, "storage: create upload dir %s", dir)
	}
	return &DiskBlobStore{Dir: dir}, nil
}

func (d *DiskBlobStore) path(name string) string {
	return filepath.Join(d.Dir, filepath.Base(name))
}

func (d *DiskBlobStore) Put(ctx context.Context, name string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(d.path(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return pkgerrors.Wrapf(err, "storage: create blob %s", name)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return pkgerrors.Wrapf(err, "storage: write blob %s", name)
	}
	return pkgerrors.Wrapf(f.Close(), "storage: close blob %s", name)
}

func (d *DiskBlobStore) Remove(_ context.Context, name string) error {
	err := os.Remove(d.path(name))
	if err != nil && !os.IsNotExist(err) {
		return pkgerrors.Wrapf(err, "storage: remove blob %s", name)
	}
	return nil
}
