// Package media stores uploaded product images on local disk and resolves public paths safely.
package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrType      = errors.New("unsupported image type")
	ErrTraversal = errors.New("path escapes media dir")
)

// URLPrefix is where the server mounts the media dir.
const URLPrefix = "/media/"

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

type Store struct {
	dir string
}

// NewStore roots a store at dir, made absolute when possible.
func NewStore(dir string) *Store {
	if !filepath.IsAbs(dir) {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
	}
	return &Store{dir: dir}
}

func (s *Store) Dir() string { return s.dir }

// SaveProductImage copies an uploaded file to products/<uuid>.<ext> and returns its public URL.
func (s *Store) SaveProductImage(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", fmt.Errorf("%w: %q", ErrType, ext)
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	rel := filepath.Join("products", uuid.NewString()+ext)
	full := filepath.Join(s.dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	dst, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(full)
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return URLPrefix + filepath.ToSlash(rel), nil
}

// Resolve maps a path below /media/ to a file inside the media dir. Raw or encoded ".."
// segments, NUL bytes and absolute paths are refused.
func (s *Store) Resolve(path string) (string, error) {
	lower := strings.ToLower(path)
	if strings.Contains(lower, "..") || strings.Contains(lower, "%2e") || strings.Contains(lower, "\x00") {
		return "", ErrTraversal
	}
	clean := filepath.Clean(path)
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return "", ErrTraversal
	}
	return filepath.Join(s.dir, clean), nil
}
