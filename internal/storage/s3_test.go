package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questboard/questboard-api/internal/config"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	b, _ := io.ReadAll(params.Body)
	f.body = string(b)

	return &s3.PutObjectOutput{}, f.err
}

func TestProofStore_UploadProof(t *testing.T) {
	putter := &fakePutter{}
	store := NewProofStoreWithClient(putter, "proofs-bucket", "https://cdn.example.com/")

	url, err := store.UploadProof(context.Background(), strings.NewReader("png-bytes"), "proofs/u1/abc-run.png", "image/png")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/proofs/u1/abc-run.png", url)
	assert.Equal(t, "proofs-bucket", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "proofs/u1/abc-run.png", aws.ToString(putter.input.Key))
	assert.Equal(t, "image/png", aws.ToString(putter.input.ContentType))
	assert.Equal(t, int64(9), aws.ToInt64(putter.input.ContentLength))
	assert.Equal(t, "png-bytes", putter.body)
}

func TestProofStore_UploadProofError(t *testing.T) {
	putter := &fakePutter{err: errors.New("connection reset")}
	store := NewProofStoreWithClient(putter, "b", "https://cdn.example.com")

	_, err := store.UploadProof(context.Background(), strings.NewReader("x"), "k", "image/png")
	assert.Error(t, err)
}

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name string
		conf config.StorageConfig
		want string
	}{
		{
			name: "explicit",
			conf: config.StorageConfig{PublicBaseURL: "https://cdn.example.com", Bucket: "b"},
			want: "https://cdn.example.com",
		},
		{
			name: "custom endpoint",
			conf: config.StorageConfig{Endpoint: "http://localhost:9000/", Bucket: "b"},
			want: "http://localhost:9000/b",
		},
		{
			name: "aws",
			conf: config.StorageConfig{Bucket: "b", Region: "eu-west-1"},
			want: "https://b.s3.eu-west-1.amazonaws.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicBaseURL(&tt.conf))
		})
	}
}
