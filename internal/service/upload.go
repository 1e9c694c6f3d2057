package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var (
	ErrStorageDisabled     = errors.New("proof storage is not configured")
	ErrFileTooLarge        = errors.New("file is too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

var allowedProofTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/quicktime": true,
	"video/webm":      true,
}

type ProofStorage interface {
	UploadProof(ctx context.Context, body io.Reader, path, contentType string) (string, error)
}

type UploadService struct {
	storage  ProofStorage
	maxBytes int64
	timeout  time.Duration
}

// NewUploadService accepts a nil storage; uploads then fail with ErrStorageDisabled.
func NewUploadService(storage ProofStorage, maxBytes int64, timeout time.Duration) *UploadService {
	return &UploadService{
		storage:  storage,
		maxBytes: maxBytes,
		timeout:  timeout,
	}
}

// UploadProof stores a proof file and returns its public URL.
func (s *UploadService) UploadProof(ctx context.Context, callerID, filename, contentType string, size int64, body io.Reader) (string, error) {
	if callerID == "" {
		return "", ErrUnauthenticated
	}
	if s.storage == nil {
		return "", ErrStorageDisabled
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return "", ErrFileTooLarge
	}

	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if !allowedProofTypes[contentType] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, contentType)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	url, err := s.storage.UploadProof(ctx, body, ProofKey(callerID, filename), contentType)
	if err != nil {
		// Any storage failure is treated as retryable.
		return "", fmt.Errorf("s.storage.UploadProof -> %w: %w", ErrDependencyUnavailable, err)
	}

	return url, nil
}

// ProofKey builds proofs/{user}/{uuid}-{slug}{ext}.
func ProofKey(userID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := slug.Make(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if name == "" {
		name = "proof"
	}

	return fmt.Sprintf("proofs/%s/%s-%s%s", slug.Make(userID), uuid.NewString(), name, ext)
}
