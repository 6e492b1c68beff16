package store

import (
	"fmt"
	"os"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/memblob"
)

// Open opens the archive store rooted at dir, creating the directory if
// missing. Keys map directly to file paths under dir; no metadata
// sidecar files are written.
func Open(dir string) (*blob.Bucket, error) {
	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{
		CreateDir: true,
		Metadata:  fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dir, err)
	}
	return bucket, nil
}

// OpenForPlan opens the store for a dry run. If dir exists it is opened
// read-style so existence checks see real files; if it does not exist an
// empty in-memory bucket is returned instead of creating anything on
// disk.
func OpenForPlan(dir string) (*blob.Bucket, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return memblob.OpenBucket(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("store: %s is not a directory", dir)
	}

	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{
		Metadata: fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dir, err)
	}
	return bucket, nil
}
