package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ProofStore keeps payment proof screenshots in a bucket. The returned key
// is the opaque proof reference stored on the appointment.
type ProofStore struct {
	client PutObjectAPI
	bucket string
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func NewS3ProofStore(cfg S3Config) *ProofStore {
	opts := s3.Options{
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	return NewProofStore(s3.New(opts), cfg.Bucket)
}

func NewProofStore(client PutObjectAPI, bucket string) *ProofStore {
	return &ProofStore{client: client, bucket: bucket}
}

var allowedExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".pdf":  "application/pdf",
}

var ErrUnsupportedFile = fmt.Errorf("unsupported payment proof file type")

func (s *ProofStore) Put(
	ctx context.Context,
	appointmentID uint,
	filename string,
	body io.Reader,
) (string, error) {

	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := allowedExt[ext]
	if !ok {
		return "", ErrUnsupportedFile
	}

	key := fmt.Sprintf("payment_proofs/%d/%s%s", appointmentID, uuid.NewString(), ext)

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", fmt.Errorf("upload payment proof: %w", err)
	}

	return key, nil
}
