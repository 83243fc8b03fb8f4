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

// PublicPrefix is the URL path the local driver's files are served under.
const PublicPrefix = "/uploads"

// Local stores files beneath Root on the local disk.
type Local struct {
	Root string
}

func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{Root: root}, nil
}

var _ Storage = (*Local)(nil)

func (l *Local) Save(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	key := objectKey(folder, filename, contentType)
	dst := filepath.Join(l.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("close file: %w", err)
	}
	return PublicPrefix + "/" + key, nil
}

// Delete removes the file behind ref. Missing files are not an error.
func (l *Local) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, PublicPrefix+"/") {
		return fmt.Errorf("not a local upload reference: %q", ref)
	}
	key := path.Clean(strings.TrimPrefix(ref, PublicPrefix+"/"))
	if key == "." || strings.HasPrefix(key, "../") || key == ".." {
		return fmt.Errorf("invalid upload reference: %q", ref)
	}
	err := os.Remove(filepath.Join(l.Root, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
