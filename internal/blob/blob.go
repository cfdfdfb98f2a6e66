// Package blob stores uploaded files (resumes, avatars, cover letters) in
// named buckets and hands out their public URLs.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Buckets used by the portal.
const (
	BucketResumes      = "resumes"
	BucketAvatars      = "avatars"
	BucketCoverLetters = "cover_letters"
)

var (
	ErrExists      = errors.New("object already exists")
	ErrNotFound    = errors.New("object not found")
	ErrInvalidPath = errors.New("invalid object path")
)

var bucketName = regexp.MustCompile(`^[a-z0-9_-]+$`)

// File is an upload received from a client.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadOptions control a single upload.
type UploadOptions struct {
	ContentType string
	Overwrite   bool
}

// Object is an opened stored file.
type Object interface {
	io.ReadSeekCloser
	Stat() (os.FileInfo, error)
}

// Store is the blob storage used by the services.
type Store interface {
	// Upload writes the object and returns its public URL.
	Upload(ctx context.Context, bucket, objectPath string, r io.Reader, opts UploadOptions) (string, error)
	PublicURL(bucket, objectPath string) string
	// ObjectPath recovers the object path from a public URL of bucket.
	ObjectPath(bucket, publicURL string) (string, bool)
	Remove(ctx context.Context, bucket, objectPath string) error
	Open(bucket, objectPath string) (Object, error)
}

// FSStore keeps objects in an afero filesystem, one directory per bucket.
type FSStore struct {
	fs      afero.Fs
	baseURL string
}

var _ Store = (*FSStore)(nil)

// NewFSStore creates a store on fs. baseURL is the public prefix the files
// route is mounted at.
func NewFSStore(fs afero.Fs, baseURL string) *FSStore {
	return &FSStore{fs: fs, baseURL: strings.TrimRight(baseURL, "/")}
}

// NewOSStore creates a store rooted at a directory on disk.
func NewOSStore(root, baseURL string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob root %s: %w", root, err)
	}
	return NewFSStore(afero.NewBasePathFs(afero.NewOsFs(), root), baseURL), nil
}

func clean(bucket, objectPath string) (string, error) {
	if !bucketName.MatchString(bucket) {
		return "", fmt.Errorf("%w: bucket %q", ErrInvalidPath, bucket)
	}
	objectPath = strings.TrimPrefix(objectPath, "/")
	if objectPath == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	for _, segment := range strings.Split(objectPath, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, objectPath)
		}
	}
	return path.Join("/", bucket, objectPath), nil
}

func (s *FSStore) Upload(ctx context.Context, bucket, objectPath string, r io.Reader, opts UploadOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full, err := clean(bucket, objectPath)
	if err != nil {
		return "", err
	}

	if err := s.fs.MkdirAll(path.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create bucket directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !opts.Overwrite {
		if exists, _ := afero.Exists(s.fs, full); exists {
			return "", fmt.Errorf("%w: %s/%s", ErrExists, bucket, objectPath)
		}
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := s.fs.OpenFile(full, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("%w: %s/%s", ErrExists, bucket, objectPath)
		}
		return "", fmt.Errorf("failed to open %s/%s: %w", bucket, objectPath, err)
	}

	written, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = s.fs.Remove(full)
		return "", fmt.Errorf("failed to write %s/%s: %w", bucket, objectPath, errors.Join(copyErr, closeErr))
	}

	log.Printf("Stored %s/%s (%d bytes, %s)", bucket, objectPath, written, opts.ContentType)
	return s.PublicURL(bucket, objectPath), nil
}

func (s *FSStore) PublicURL(bucket, objectPath string) string {
	segments := strings.Split(strings.TrimPrefix(objectPath, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.baseURL + "/" + bucket + "/" + strings.Join(segments, "/")
}

func (s *FSStore) ObjectPath(bucket, publicURL string) (string, bool) {
	prefix := s.baseURL + "/" + bucket + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", false
	}
	p, err := url.PathUnescape(strings.TrimPrefix(publicURL, prefix))
	if err != nil || p == "" {
		return "", false
	}
	return p, true
}

func (s *FSStore) Remove(ctx context.Context, bucket, objectPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := clean(bucket, objectPath)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, objectPath)
		}
		return fmt.Errorf("failed to remove %s/%s: %w", bucket, objectPath, err)
	}
	log.Printf("Removed %s/%s", bucket, objectPath)
	return nil
}

func (s *FSStore) Open(bucket, objectPath string) (Object, error) {
	full, err := clean(bucket, objectPath)
	if err != nil {
		return nil, err
	}
	info, err := s.fs.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, objectPath)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, objectPath)
	}
	return s.fs.Open(full)
}

// Extension returns the lower-case extension of name without the dot.
func Extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
}
