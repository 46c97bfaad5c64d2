// Package storage keeps uploaded objects on the local filesystem under
// bucket directories and serves them from a public base URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	BucketItemImages       = "item-images"
	BucketRestaurantImages = "restaurant-images"
)

var (
	ErrExists      = errors.New("object already exists")
	ErrInvalidPath = errors.New("invalid object path")
	ErrNotFound    = errors.New("object not found")
)

// Observer counts storage operations.
type Observer interface {
	ObserveStorage(operation string, err error)
}

type Object struct {
	Bucket    string `json:"bucket"`
	Path      string `json:"path"`
	PublicURL string `json:"public_url"`
	Size      int    `json:"size"`
}

type Local struct {
	root       string
	publicBase string
	observer   Observer
	log        *zap.Logger
}

func NewLocal(root, publicBase string, observer Observer, log *zap.Logger) *Local {
	if log == nil {
		log = zap.NewNop()
	}
	return &Local{
		root:       root,
		publicBase: strings.TrimRight(publicBase, "/"),
		observer:   observer,
		log:        log,
	}
}

// Root is the directory served under the public base URL.
func (s *Local) Root() string { return s.root }

func (s *Local) observe(op string, err error) {
	if s.observer != nil {
		s.observer.ObserveStorage(op, err)
	}
}

func (s *Local) resolve(bucket, objectPath string) (string, error) {
	clean := path.Clean("/" + objectPath)
	if bucket == "" || strings.Contains(bucket, "/") || strings.Contains(bucket, "..") || clean == "/" {
		return "", ErrInvalidPath
	}
	if clean != "/"+objectPath {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, bucket, filepath.FromSlash(clean)), nil
}

// Upload writes data at bucket/objectPath. Existing objects are never overwritten.
func (s *Local) Upload(ctx context.Context, bucket, objectPath string, data []byte) (obj Object, err error) {
	defer func() { s.observe("upload", err) }()

	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	full, err := s.resolve(bucket, objectPath)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, fmt.Errorf("create bucket dir: %w", err)
	}
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return Object{}, ErrExists
		}
		return Object{}, fmt.Errorf("create object: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(full)
		return Object{}, fmt.Errorf("write object: %w", err)
	}
	if err := f.Close(); err != nil {
		return Object{}, fmt.Errorf("close object: %w", err)
	}

	s.log.Debug("object stored", zap.String("bucket", bucket), zap.String("path", objectPath), zap.Int("size", len(data)))
	return Object{Bucket: bucket, Path: objectPath, PublicURL: s.PublicURL(bucket, objectPath), Size: len(data)}, nil
}

func (s *Local) Delete(ctx context.Context, bucket, objectPath string) (err error) {
	defer func() { s.observe("delete", err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(bucket, objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *Local) PublicURL(bucket, objectPath string) string {
	return s.publicBase + "/" + bucket + "/" + objectPath
}

// PathFromURL extracts the object path from a public URL of bucket.
func (s *Local) PathFromURL(bucket, url string) (string, bool) {
	prefix := s.publicBase + "/" + bucket + "/"
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
