package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/questboard/questboard-api/internal/config"
)

// ObjectPutter is the part of the S3 client the proof store needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ProofStore uploads proof media to an S3 compatible bucket (R2, S3, MinIO).
type ProofStore struct {
	client        ObjectPutter
	bucket        string
	publicBaseURL string
}

func NewProofStore(ctx context.Context, conf *config.StorageConfig) (*ProofStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(conf.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			conf.AccessKeyID, conf.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("awsconfig.LoadDefaultConfig -> %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewProofStoreWithClient(client, conf.Bucket, publicBaseURL(conf)), nil
}

func NewProofStoreWithClient(client ObjectPutter, bucket, publicBaseURL string) *ProofStore {
	return &ProofStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// UploadProof writes body under path and returns the public URL of the object.
func (s *ProofStore) UploadProof(ctx context.Context, body io.Reader, path, contentType string) (string, error) {
	// The SDK needs a seekable body to sign the payload.
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("io.ReadAll -> %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s.client.PutObject -> %w", err)
	}

	return fmt.Sprintf("%s/%s", s.publicBaseURL, path), nil
}

func publicBaseURL(conf *config.StorageConfig) string {
	if conf.PublicBaseURL != "" {
		return conf.PublicBaseURL
	}
	if conf.Endpoint != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(conf.Endpoint, "/"), conf.Bucket)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", conf.Bucket, conf.Region)
}
