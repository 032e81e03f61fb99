// Package source opens the function-cost dataset from a local path, stdin,
// Amazon S3 or Google Cloud Storage.
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Kind names where a dataset came from.
type Kind string

const (
	KindFile  Kind = "file"
	KindStdin Kind = "stdin"
	KindS3    Kind = "s3"
	KindGCS   Kind = "gcs"
)

// Options carries cloud credentials for remote locations.
type Options struct {
	Profile        string
	Region         string
	GCPCredentials string
}

// Location is a parsed dataset location.
type Location struct {
	Kind   Kind
	Bucket string
	Key    string
	Path   string
}

// String returns the location in the form it was given.
func (l Location) String() string {
	switch l.Kind {
	case KindStdin:
		return "-"
	case KindS3:
		return "s3://" + l.Bucket + "/" + l.Key
	case KindGCS:
		return "gs://" + l.Bucket + "/" + l.Key
	default:
		return l.Path
	}
}

// Parse classifies raw as stdin ("-"), s3://bucket/key, gs://bucket/object
// or a local path.
func Parse(raw string) (Location, error) {
	switch {
	case raw == "":
		return Location{}, fmt.Errorf("empty location")
	case raw == "-":
		return Location{Kind: KindStdin}, nil
	case strings.HasPrefix(raw, "s3://"):
		bucket, key, err := splitBucket(strings.TrimPrefix(raw, "s3://"))
		if err != nil {
			return Location{}, fmt.Errorf("parse %q: %w", raw, err)
		}
		return Location{Kind: KindS3, Bucket: bucket, Key: key}, nil
	case strings.HasPrefix(raw, "gs://"):
		bucket, key, err := splitBucket(strings.TrimPrefix(raw, "gs://"))
		if err != nil {
			return Location{}, fmt.Errorf("parse %q: %w", raw, err)
		}
		return Location{Kind: KindGCS, Bucket: bucket, Key: key}, nil
	default:
		return Location{Kind: KindFile, Path: raw}, nil
	}
}

func splitBucket(s string) (string, string, error) {
	bucket, key, ok := strings.Cut(s, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("expected bucket/key")
	}
	return bucket, key, nil
}

// Opener resolves locations to readers. The constructor fields are swapped
// out in tests.
type Opener struct {
	Stdin  io.Reader
	NewS3  func(ctx context.Context, profile, region string) (S3API, error)
	NewGCS func(ctx context.Context, credentialsFile string) (GCSAPI, error)
}

// DefaultOpener uses os.Stdin and the real cloud clients.
func DefaultOpener() *Opener {
	return &Opener{
		Stdin:  os.Stdin,
		NewS3:  newS3API,
		NewGCS: NewGCSClient,
	}
}

// Open returns a reader for raw. The caller closes it.
func Open(ctx context.Context, raw string, opts Options) (io.ReadCloser, Location, error) {
	return DefaultOpener().Open(ctx, raw, opts)
}

// Open returns a reader for raw. The caller closes it.
func (o *Opener) Open(ctx context.Context, raw string, opts Options) (io.ReadCloser, Location, error) {
	loc, err := Parse(raw)
	if err != nil {
		return nil, Location{}, err
	}
	slog.Debug("Opening dataset", "kind", loc.Kind, "location", loc.String())

	switch loc.Kind {
	case KindStdin:
		return io.NopCloser(o.Stdin), loc, nil
	case KindS3:
		api, err := o.NewS3(ctx, opts.Profile, opts.Region)
		if err != nil {
			return nil, loc, err
		}
		rc, err := GetS3Object(ctx, api, loc.Bucket, loc.Key)
		return rc, loc, err
	case KindGCS:
		api, err := o.NewGCS(ctx, opts.GCPCredentials)
		if err != nil {
			return nil, loc, err
		}
		rc, err := api.Download(ctx, loc.Bucket, loc.Key)
		if err != nil {
			return nil, loc, fmt.Errorf("download gs://%s/%s: %w", loc.Bucket, loc.Key, err)
		}
		return rc, loc, nil
	default:
		f, err := os.Open(loc.Path)
		if err != nil {
			return nil, loc, fmt.Errorf("open file: %w", err)
		}
		return f, loc, nil
	}
}
