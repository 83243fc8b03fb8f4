package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrNotImage = errors.New("file is not a supported image")
	ErrTooLarge = errors.New("file exceeds the upload size limit")
	ErrEmpty    = errors.New("file is empty")
)

// Storage persists uploaded media and hands back an opaque reference
// (URL or path) that is all the database records.
type Storage interface {
	Save(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// Media is an upload that passed SniffImage, buffered in memory.
type Media struct {
	ContentType string
	Extension   string
	Size        int64
	data        []byte
}

func (m *Media) Reader() io.Reader { return bytes.NewReader(m.data) }

// SniffImage reads at most maxBytes from r and accepts it only if the
// content itself is an image. The declared filename and type are ignored.
func SniffImage(r io.Reader, maxBytes int64) (*Media, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}
	mt := mimetype.Detect(data)
	// svg is markup and can carry script
	if !strings.HasPrefix(mt.String(), "image/") || mt.Is("image/svg+xml") {
		return nil, ErrNotImage
	}
	ct := strings.SplitN(mt.String(), ";", 2)[0]
	return &Media{ContentType: ct, Extension: mt.Extension(), Size: int64(len(data)), data: data}, nil
}

// objectKey names a new object <folder>/<uuid><ext>. The extension follows
// contentType when known so the served type matches the sniffed one.
func objectKey(folder, filename, contentType string) string {
	ext := ""
	if mt := mimetype.Lookup(contentType); mt != nil {
		ext = mt.Extension()
	}
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(filename))
	}
	folder = strings.Trim(path.Clean("/"+filepath.ToSlash(folder)), "/")
	return path.Join(folder, uuid.NewString()+ext)
}
