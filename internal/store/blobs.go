package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jonathan/smart-applier/internal/types"
)

// BlobStore stores opaque documents by key
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// S3Config configures an S3 or S3-compatible (R2, MinIO) bucket
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

// S3Blobs is a BlobStore backed by an S3 bucket
type S3Blobs struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Blobs builds an S3 client from cfg. Static credentials are used when
// both keys are set, otherwise the default AWS credential chain applies.
func NewS3Blobs(ctx context.Context, cfg S3Config) (*S3Blobs, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Blobs{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (b *S3Blobs) objectKey(key string) string {
	if b.prefix == "" {
		return key
	}
	return path.Join(b.prefix, key)
}

// Put uploads data under key
func (b *S3Blobs) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(b.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// Get downloads the object stored under key
func (b *S3Blobs) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.objectKey(key)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), nil
}

// BlobResumes wraps a Store so resume documents are kept in a BlobStore and
// only their metadata and key go to the wrapped store.
type BlobResumes struct {
	Store
	blobs BlobStore
}

// WithBlobs returns s with resume content redirected to blobs
func WithBlobs(s Store, blobs BlobStore) *BlobResumes {
	return &BlobResumes{Store: s, blobs: blobs}
}

// ResumeKey is the blob key a resume document is stored under
func ResumeKey(r *types.Resume) string {
	ext := r.Format
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("resumes/%s/%s.%s", r.UserID, r.ID, ext)
}

// SaveResume uploads the document, then stores the metadata with its key
func (b *BlobResumes) SaveResume(ctx context.Context, resume *types.Resume) error {
	if resume == nil || resume.ID == "" {
		return types.InvalidInput("resume id is required")
	}
	meta := *resume
	meta.BlobKey = ResumeKey(resume)
	if err := b.blobs.Put(ctx, meta.BlobKey, resume.Content, ContentType(resume.Format)); err != nil {
		return storageError("upload resume", err)
	}
	meta.Content = nil
	return b.Store.SaveResume(ctx, &meta)
}

// GetResume loads the metadata and, when it names a blob, the document
func (b *BlobResumes) GetResume(ctx context.Context, id string) (*types.Resume, error) {
	r, err := b.Store.GetResume(ctx, id)
	if err != nil || r == nil || r.BlobKey == "" {
		return r, err
	}
	content, err := b.blobs.Get(ctx, r.BlobKey)
	if err != nil {
		return nil, storageError("download resume", err)
	}
	r.Content = content
	return r, nil
}

// ContentType is the MIME type of a rendered document format
func ContentType(format string) string {
	switch format {
	case "tex":
		return "application/x-tex"
	case "pdf":
		return "application/pdf"
	case "json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
