package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Options struct {
	Bucket        string
	Region        string
	Endpoint      string // S3-compatible endpoint, e.g. MinIO; enables path-style addressing
	PublicBaseURL string // when set, references are <PublicBaseURL>/<key>
	Profile       string
}

// S3 stores objects in Amazon S3 (or compatible APIs).
type S3 struct {
	client   *s3.Client
	uploader *manager.Uploader
	opts     S3Options
}

func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(opts.Region),
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(opts.Profile))
	}
	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	opts.PublicBaseURL = strings.TrimSuffix(opts.PublicBaseURL, "/")
	return &S3{client: client, uploader: manager.NewUploader(client), opts: opts}, nil
}

var _ Storage = (*S3)(nil)

func (s *S3) Save(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	key := objectKey(folder, filename, contentType)
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.ref(key), nil
}

func (s *S3) Delete(ctx context.Context, ref string) error {
	key, ok := s.key(ref)
	if !ok {
		return fmt.Errorf("not an object in bucket %s: %q", s.opts.Bucket, ref)
	}
	// DeleteObject succeeds for keys that no longer exist.
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *S3) ref(key string) string {
	if s.opts.PublicBaseURL != "" {
		return s.opts.PublicBaseURL + "/" + key
	}
	return fmt.Sprintf("s3://%s/%s", s.opts.Bucket, key)
}

func (s *S3) key(ref string) (string, bool) {
	for _, prefix := range []string{s.ref(""), fmt.Sprintf("s3://%s/", s.opts.Bucket)} {
		if strings.HasPrefix(ref, prefix) && len(ref) > len(prefix) {
			return strings.TrimPrefix(ref, prefix), true
		}
	}
	return "", false
}
