package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Domenick1991/restate/config"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockS3 struct {
	s3iface.S3API
	mock.Mock
}

func (m *MockS3) PutObjectWithContext(ctx context.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *MockS3) DeleteObjectWithContext(ctx context.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

var testStorageConfig = config.StorageConfig{
	Endpoint:      "http://minio:9000",
	Bucket:        "restate",
	PublicBaseURL: "https://cdn.example.com/restate/",
}

func TestS3Storage_Upload(t *testing.T) {
	ctx := context.Background()
	client := &MockS3{}
	s := newS3Storage(client, testStorageConfig)

	client.On("PutObjectWithContext", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "restate" && strings.HasPrefix(*in.Key, "properties/p1/") && strings.HasSuffix(*in.Key, ".png")
	})).Return(nil)

	url, err := s.Upload(ctx, "properties/p1", "Photo.PNG", []byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/restate/properties/p1/"))
	client.AssertExpectations(t)
}

func TestS3Storage_UploadErrors(t *testing.T) {
	ctx := context.Background()
	client := &MockS3{}
	s := newS3Storage(client, testStorageConfig)

	_, err := s.Upload(ctx, "avatars", "a.jpg", nil)
	assert.Error(t, err)

	client.On("PutObjectWithContext", ctx, mock.Anything).Return(errors.New("denied"))
	_, err = s.Upload(ctx, "avatars", "a.jpg", []byte("x"))
	assert.ErrorContains(t, err, "denied")
}

func TestS3Storage_Delete(t *testing.T) {
	ctx := context.Background()
	client := &MockS3{}
	s := newS3Storage(client, testStorageConfig)

	client.On("DeleteObjectWithContext", ctx, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Key == "avatars/u1.jpg"
	})).Return(nil).Once()

	require.NoError(t, s.Delete(ctx, "https://cdn.example.com/restate/avatars/u1.jpg"))
	require.NoError(t, s.Delete(ctx, "https://elsewhere.example.com/avatar.jpg"))
	client.AssertExpectations(t)
}

func TestNewS3Storage_DefaultBaseURL(t *testing.T) {
	s := newS3Storage(&MockS3{}, config.StorageConfig{Endpoint: "http://minio:9000/", Bucket: "b"})
	assert.Equal(t, "http://minio:9000/b", s.baseURL)
}
