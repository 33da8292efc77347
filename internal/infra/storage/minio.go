package storage

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store serves the UI bundle straight from a MinIO / S3 bucket. It
// implements fs.FS so it can stand in for the embedded bundle.
type Store struct {
	client     *minio.Client
	bucketName string
	prefix     string
}

// New buat koneksi MinIO. Bucket harus sudah ada, bundle di-upload terpisah.
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey, prefix string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", bucket)
	}

	return &Store{client: cli, bucketName: bucket, prefix: cleanPrefix(prefix)}, nil
}

// Check implements the readiness probe.
func (s *Store) Check(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %q is gone", s.bucketName)
	}
	return nil
}

// Open implements fs.FS. "." opens the bundle root as a directory.
func (s *Store) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return &dirFile{name: "."}, nil
	}

	ctx := context.Background()
	key := objectKey(s.prefix, name)
	info, err := s.client.StatObject(ctx, s.bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return &objectFile{Object: obj, info: objectInfo{name: path.Base(name), info: info}}, nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NotFound" || resp.StatusCode == 404
}

func cleanPrefix(prefix string) string {
	return strings.Trim(prefix, "/")
}

func objectKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// objectFile adapts *minio.Object (Read, Seek, Close) to fs.File.
type objectFile struct {
	*minio.Object
	info objectInfo
}

func (f *objectFile) Stat() (fs.FileInfo, error) { return f.info, nil }

type objectInfo struct {
	name string
	info minio.ObjectInfo
}

func (i objectInfo) Name() string       { return i.name }
func (i objectInfo) Size() int64        { return i.info.Size }
func (i objectInfo) Mode() fs.FileMode  { return 0o444 }
func (i objectInfo) ModTime() time.Time { return i.info.LastModified }
func (i objectInfo) IsDir() bool        { return false }
func (i objectInfo) Sys() any           { return nil }

type dirFile struct{ name string }

func (d *dirFile) Stat() (fs.FileInfo, error) { return dirInfo{name: d.name}, nil }
func (d *dirFile) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: fs.ErrInvalid}
}
func (d *dirFile) Close() error { return nil }

type dirInfo struct{ name string }

func (i dirInfo) Name() string       { return i.name }
func (i dirInfo) Size() int64        { return 0 }
func (i dirInfo) Mode() fs.FileMode  { return fs.ModeDir | 0o555 }
func (i dirInfo) ModTime() time.Time { return time.Time{} }
func (i dirInfo) IsDir() bool        { return true }
func (i dirInfo) Sys() any           { return nil }
