package service

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProofStorage struct {
	key         string
	contentType string
	body        string
	err         error
}

func (f *fakeProofStorage) UploadProof(_ context.Context, body io.Reader, path, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.key, f.contentType, f.body = path, contentType, string(b)

	return "https://cdn.example.com/" + path, nil
}

func TestUploadService_UploadProof(t *testing.T) {
	storage := &fakeProofStorage{}
	svc := NewUploadService(storage, 1024, 0)

	url, err := svc.UploadProof(context.Background(), "u-alice", "My Run.JPG", "image/jpeg; charset=binary", 4, strings.NewReader("data"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/"+storage.key, url)
	assert.Equal(t, "image/jpeg", storage.contentType)
	assert.Equal(t, "data", storage.body)
	assert.Regexp(t, regexp.MustCompile(`^proofs/u-alice/[0-9a-f-]{36}-my-run\.jpg$`), storage.key)
}

func TestUploadService_Rejects(t *testing.T) {
	ctx := context.Background()
	body := strings.NewReader("x")

	_, err := NewUploadService(nil, 0, 0).UploadProof(ctx, "u-alice", "a.png", "image/png", 1, body)
	assert.ErrorIs(t, err, ErrStorageDisabled)

	svc := NewUploadService(&fakeProofStorage{}, 10, 0)
	_, err = svc.UploadProof(ctx, "", "a.png", "image/png", 1, body)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.UploadProof(ctx, "u-alice", "a.png", "image/png", 11, body)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.UploadProof(ctx, "u-alice", "a.exe", "application/octet-stream", 1, body)
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	failing := NewUploadService(&fakeProofStorage{err: errors.New("bucket gone")}, 10, 0)
	_, err = failing.UploadProof(ctx, "u-alice", "a.png", "image/png", 1, body)
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestProofKey_EmptyName(t *testing.T) {
	key := ProofKey("User 42", ".png")
	assert.Regexp(t, regexp.MustCompile(`^proofs/user-42/[0-9a-f-]{36}-proof\.png$`), key)
}
