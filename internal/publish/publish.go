// Package publish uploads rendered calendars to S3 so subscribers can follow a stable URL.
package publish

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ContentTypeCalendar is the media type of an iCalendar file.
const ContentTypeCalendar = "text/calendar; charset=utf-8"

// Publisher stores a rendered artifact under key.
type Publisher interface {
	Publish(ctx context.Context, key string, body []byte, contentType string) (*Result, error)
}

// Result describes an uploaded object.
type Result struct {
	Bucket string
	Key    string
	ETag   string
	Size   int
}

// Location returns the s3:// URI of the object.
func (r *Result) Location() string {
	return fmt.Sprintf("s3://%s/%s", r.Bucket, r.Key)
}

// objectPutter is the part of the S3 client the publisher needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config holds configuration for S3Publisher.
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string // Optional custom endpoint (MinIO, LocalStack)
	CacheControl string
}

// S3Publisher uploads artifacts to one bucket.
type S3Publisher struct {
	client       objectPutter
	bucket       string
	cacheControl string
}

// NewS3Publisher loads the default AWS credential chain and creates a publisher.
func NewS3Publisher(ctx context.Context, cfg S3Config) (*S3Publisher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Publisher(client, cfg), nil
}

func newS3Publisher(client objectPutter, cfg S3Config) *S3Publisher {
	return &S3Publisher{
		client:       client,
		bucket:       cfg.Bucket,
		cacheControl: cfg.CacheControl,
	}
}

// Publish uploads body to key.
func (p *S3Publisher) Publish(ctx context.Context, key string, body []byte, contentType string) (*Result, error) {
	if key == "" {
		return nil, fmt.Errorf("s3 key is required")
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	}
	if p.cacheControl != "" {
		input.CacheControl = aws.String(p.cacheControl)
	}

	out, err := p.client.PutObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("uploading s3://%s/%s: %w", p.bucket, key, err)
	}

	return &Result{
		Bucket: p.bucket,
		Key:    key,
		ETag:   aws.ToString(out.ETag),
		Size:   len(body),
	}, nil
}
