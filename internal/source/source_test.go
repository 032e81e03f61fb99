package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvBody = "FunctionName,CostUSD\nf1,1\n"

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want Location
	}{
		{"-", Location{Kind: KindStdin}},
		{"data/functions.csv", Location{Kind: KindFile, Path: "data/functions.csv"}},
		{"s3://billing/exports/2026-09.csv", Location{Kind: KindS3, Bucket: "billing", Key: "exports/2026-09.csv"}},
		{"gs://billing/fn.csv", Location{Kind: KindGCS, Bucket: "billing", Key: "fn.csv"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.raw, got.String())
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, raw := range []string{"", "s3://", "s3://bucket", "s3://bucket/", "gs:///key"} {
		_, err := Parse(raw)
		assert.Error(t, err, raw)
	}
}

func testOpener(s3c *mockS3Client, gcs *mockGCSClient) *Opener {
	return &Opener{
		Stdin: strings.NewReader(csvBody),
		NewS3: func(context.Context, string, string) (S3API, error) { return s3c, nil },
		NewGCS: func(context.Context, string) (GCSAPI, error) {
			return gcs, nil
		},
	}
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "functions.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvBody), 0o644))

	rc, loc, err := testOpener(nil, nil).Open(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, KindFile, loc.Kind)
	assert.Equal(t, csvBody, readAll(t, rc))
}

func TestOpenFileMissing(t *testing.T) {
	_, _, err := testOpener(nil, nil).Open(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpenStdin(t *testing.T) {
	rc, loc, err := testOpener(nil, nil).Open(context.Background(), "-", Options{})
	require.NoError(t, err)
	assert.Equal(t, KindStdin, loc.Kind)
	assert.Equal(t, csvBody, readAll(t, rc))
}

func TestOpenS3(t *testing.T) {
	s3c := &mockS3Client{objects: map[string]string{"billing/fn.csv": csvBody}}

	rc, loc, err := testOpener(s3c, nil).Open(context.Background(), "s3://billing/fn.csv", Options{Region: "us-east-1"})
	require.NoError(t, err)
	assert.Equal(t, KindS3, loc.Kind)
	assert.Equal(t, csvBody, readAll(t, rc))
	assert.Equal(t, 1, s3c.calls)
}

func TestOpenS3Error(t *testing.T) {
	s3c := &mockS3Client{err: errors.New("AccessDenied")}

	_, _, err := testOpener(s3c, nil).Open(context.Background(), "s3://billing/fn.csv", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://billing/fn.csv")
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestOpenS3ClientError(t *testing.T) {
	o := testOpener(nil, nil)
	o.NewS3 = func(context.Context, string, string) (S3API, error) {
		return nil, errors.New("load AWS config: no profile")
	}
	_, _, err := o.Open(context.Background(), "s3://billing/fn.csv", Options{Profile: "missing"})
	assert.ErrorContains(t, err, "no profile")
}

func TestOpenGCS(t *testing.T) {
	var gotCreds string
	gcs := &mockGCSClient{objects: map[string]string{"billing/fn.csv": csvBody}}
	o := testOpener(nil, gcs)
	o.NewGCS = func(_ context.Context, creds string) (GCSAPI, error) {
		gotCreds = creds
		return gcs, nil
	}

	rc, loc, err := o.Open(context.Background(), "gs://billing/fn.csv", Options{GCPCredentials: "/tmp/key.json"})
	require.NoError(t, err)
	assert.Equal(t, KindGCS, loc.Kind)
	assert.Equal(t, "/tmp/key.json", gotCreds)
	assert.Equal(t, csvBody, readAll(t, rc))
}

func TestOpenGCSNotFound(t *testing.T) {
	gcs := &mockGCSClient{objects: map[string]string{}}
	_, _, err := testOpener(nil, gcs).Open(context.Background(), "gs://billing/none.csv", Options{})
	assert.ErrorContains(t, err, "gs://billing/none.csv")
}
