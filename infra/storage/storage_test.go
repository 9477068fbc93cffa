package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLocalPutDelete(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "/uploads/", nil)
	require.NoError(t, err)

	url, err := l.Put(context.Background(), "avatars/u1.png", "image/png", bytes.NewReader([]byte("png")), 3)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatars/u1.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "avatars", "u1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, l.Delete(context.Background(), "avatars/u1.png"))
	_, err = os.Stat(filepath.Join(dir, "avatars", "u1.png"))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, l.Delete(context.Background(), "avatars/u1.png"), "deleting a missing file is a no-op")
}

func TestLocalKeysStayInsideDir(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "/uploads", nil)
	require.NoError(t, err)

	_, err = l.Put(context.Background(), "../../escape.txt", "text/plain", bytes.NewReader([]byte("x")), 1)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, err)

	_, err = l.Put(context.Background(), "", "text/plain", bytes.NewReader(nil), 0)
	assert.Error(t, err)
}

type mockObjectAPI struct {
	mock.Mock
}

func (m *mockObjectAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *mockObjectAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.DeleteObjectOutput)
	return out, args.Error(1)
}

func TestS3Put(t *testing.T) {
	api := &mockObjectAPI{}
	api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "avatars" &&
			aws.ToString(in.Key) == "u1.png" &&
			aws.ToString(in.ContentType) == "image/png" &&
			string(body) == "png"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	s := newS3(api, "avatars", "https://cdn.example.com/", nil)
	url, err := s.Put(context.Background(), "/u1.png", "image/png", bytes.NewReader([]byte("png")), 3)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/u1.png", url)
	api.AssertExpectations(t)
}

func TestS3Failures(t *testing.T) {
	api := &mockObjectAPI{}
	api.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))
	api.On("DeleteObject", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))

	s := newS3(api, "avatars", "https://cdn.example.com", nil)
	_, err := s.Put(context.Background(), "u1.png", "image/png", bytes.NewReader(nil), 0)
	assert.ErrorContains(t, err, "denied")
	assert.ErrorContains(t, s.Delete(context.Background(), "u1.png"), "denied")
}
