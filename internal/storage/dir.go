package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DirClient serves objects from a local directory. The directory plays the
// role of the bucket.
type DirClient struct {
	root string
}

func NewDirClient(root string) *DirClient {
	return &DirClient{root: filepath.Clean(root)}
}

// EnsureBucket creates the directory if it is missing.
func (d *DirClient) EnsureBucket(ctx context.Context) error {
	return os.MkdirAll(d.root, 0o755)
}

func (d *DirClient) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	target, err := d.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	f, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (d *DirClient) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	target, err := d.resolve(key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}
	return os.Open(target)
}

func (d *DirClient) Bucket() string {
	return d.root
}

// resolve maps an object key to a path inside root, rejecting traversal.
func (d *DirClient) resolve(key string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(key))
	if cleaned == "/" {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(d.root, filepath.FromSlash(strings.TrimPrefix(cleaned, "/"))), nil
}
