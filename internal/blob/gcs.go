package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSBucket stores objects in a Google Cloud Storage bucket.
type GCSBucket struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

// NewGCSBucket creates a storage client and binds it to bucket.
//
// project, when set, is used as the quota/billing project. endpoint, when
// set, points the client at an emulator (e.g. fake-gcs-server) and disables
// authentication. Credentials otherwise come from the environment
// (GOOGLE_APPLICATION_CREDENTIALS or the metadata server).
func NewGCSBucket(ctx context.Context, project, bucket, endpoint string, opts ...option.ClientOption) (*GCSBucket, error) {
	if project != "" {
		opts = append(opts, option.WithQuotaProject(project))
	}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCSBucket{client: client, bucket: client.Bucket(bucket)}, nil
}

// Exists checks object metadata; a missing object is not an error.
func (b *GCSBucket) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.bucket.Object(key).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", key, err)
	}
	return true, nil
}

// Get downloads the full object.
func (b *GCSBucket) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := b.bucket.Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("get %s: %w", key, ErrObjectNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Put uploads data in a single request, replacing any existing object.
func (b *GCSBucket) Put(ctx context.Context, key string, data []byte, contentType string) error {
	w := b.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("put %s: %w", key, err)
	}
	// The upload is only committed by Close.
	if err := w.Close(); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Close releases the storage client.
func (b *GCSBucket) Close() error { return b.client.Close() }
