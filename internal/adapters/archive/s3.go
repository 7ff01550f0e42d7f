// Package archive uploads report exports to S3-compatible storage.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader writes objects under a key prefix in one bucket.
type S3Uploader struct {
	client putObjectAPI
	bucket string
	prefix string
}

// NewS3Uploader creates an uploader using the default AWS credential chain. If endpoint is
// non-empty, path-style addressing is enabled (for MinIO and similar).
func NewS3Uploader(ctx context.Context, bucket, prefix, region, endpoint string) (*S3Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("archive bucket is required")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	var opts []func(*s3.Options)
	if endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}
	return &S3Uploader{client: s3.NewFromConfig(cfg, opts...), bucket: bucket, prefix: prefix}, nil
}

// Upload stores data as prefix/name and returns the object key.
func (u *S3Uploader) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := path.Join(u.prefix, name)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object %s: %w", key, err)
	}
	return key, nil
}
