package source

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"
)

// GCSAPI downloads a single Cloud Storage object.
type GCSAPI interface {
	Download(ctx context.Context, bucket, object string) (io.ReadCloser, error)
}

// GCSClient implements GCSAPI with the Cloud Storage JSON API.
type GCSClient struct {
	svc *storage.Service
}

// NewGCSClient creates a read-only Cloud Storage client. An empty
// credentialsFile falls back to application default credentials.
func NewGCSClient(ctx context.Context, credentialsFile string) (GCSAPI, error) {
	opts := []option.ClientOption{option.WithScopes(storage.DevstorageReadOnlyScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSClient{svc: svc}, nil
}

// Download streams the object media.
func (c *GCSClient) Download(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	resp, err := c.svc.Objects.Get(bucket, object).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
