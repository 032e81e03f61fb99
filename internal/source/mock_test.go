package source

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// mockS3Client implements S3API for testing.
type mockS3Client struct {
	objects map[string]string // bucket/key -> body
	err     error
	calls   int
}

func (m *mockS3Client) GetObject(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	body, ok := m.objects[aws.ToString(input.Bucket)+"/"+aws.ToString(input.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

// mockGCSClient implements GCSAPI for testing.
type mockGCSClient struct {
	objects map[string]string
}

func (m *mockGCSClient) Download(_ context.Context, bucket, object string) (io.ReadCloser, error) {
	body, ok := m.objects[bucket+"/"+object]
	if !ok {
		return nil, errors.New("404 not found")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}
