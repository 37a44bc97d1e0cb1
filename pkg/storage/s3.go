package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API, s3.Client'ın kullandığımız alt kümesi (testte sahte client için).
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Storage struct {
	api       s3API
	bucket    string
	publicURL string
}

// NewS3, AWS SDK v2 ile S3 (veya MinIO/SeaweedFS gibi uyumlu) backend kurar.
//
// Endpoint verilirse path-style adresleme kullanılır. Access key boşsa
// SDK'nın varsayılan credential zinciri (env, profil, IAM rolü) devreye girer.
func NewS3(ctx context.Context, opts Options) (Storage, error) {
	if opts.S3Bucket == "" {
		return nil, fmt.Errorf("storage: S3 bucket is required")
	}
	region := opts.S3Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
		awsconfig.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	}
	if opts.S3AccessKey != "" && opts.S3SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.S3AccessKey, opts.S3SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Storage(client, opts.S3Bucket, publicBaseURL(opts, region)), nil
}

func newS3Storage(api s3API, bucket, publicURL string) *s3Storage {
	return &s3Storage{api: api, bucket: bucket, publicURL: strings.TrimSuffix(publicURL, "/")}
}

// publicBaseURL, nesne URL'lerinin öneki. Açıkça verilmemişse endpoint'ten
// (path-style) ya da AWS'nin virtual-hosted adresinden türetilir.
func publicBaseURL(opts Options, region string) string {
	switch {
	case opts.S3PublicURL != "":
		return opts.S3PublicURL
	case opts.S3Endpoint != "":
		return strings.TrimSuffix(opts.S3Endpoint, "/") + "/" + opts.S3Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.S3Bucket, region)
	}
}

func (s *s3Storage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.api.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("storage: put object %q: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *s3Storage) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if _, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("storage: delete object %q: %w", key, err)
	}
	return nil
}
