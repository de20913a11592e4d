package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appcfg "github.com/eduspace/core/internal/config"
)

// objectStore wraps the S3 client for course asset uploads. Any S3-compatible
// endpoint works (AWS, R2, MinIO) via the endpoint and path-style options.
type objectStore struct {
	client       *s3.Client
	bucket       string
	endpoint     string
	region       string
	customDomain string
	pathStyle    bool
}

func newObjectStore(opts appcfg.S3Options) (*objectStore, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	accessKey := strings.TrimSpace(opts.AccessKeyID)
	secretKey := strings.TrimSpace(opts.SecretAccessKey)
	if bucket == "" || accessKey == "" || secretKey == "" {
		return nil, errors.New("s3 storage is not configured")
	}

	region := strings.TrimSpace(opts.Region)
	if region == "" {
		region = "us-east-1"
	}
	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")

	s3Opts := s3.Options{
		Region:       region,
		Credentials:  awscreds.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: opts.PathStyleAccess,
	}
	if endpoint != "" {
		s3Opts.BaseEndpoint = aws.String(endpoint)
	}

	return &objectStore{
		client:       s3.New(s3Opts),
		bucket:       bucket,
		endpoint:     endpoint,
		region:       region,
		customDomain: strings.TrimRight(strings.TrimSpace(opts.CustomDomain), "/"),
		pathStyle:    opts.PathStyleAccess,
	}, nil
}

// Put uploads the payload and returns its public URL.
func (o *objectStore) Put(ctx context.Context, key string, payload []byte, contentType string) (string, error) {
	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(o.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload: %w", err)
	}
	return o.publicURL(key), nil
}

// Delete removes an object. Missing objects are not an error.
func (o *objectStore) Delete(ctx context.Context, key string) error {
	_, err := o.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete: %w", err)
	}
	return nil
}

func (o *objectStore) publicURL(key string) string {
	if o.customDomain != "" {
		return o.customDomain + "/" + key
	}
	if o.endpoint != "" {
		if o.pathStyle {
			return o.endpoint + "/" + o.bucket + "/" + key
		}
		rest := strings.TrimPrefix(strings.TrimPrefix(o.endpoint, "https://"), "http://")
		return "https://" + o.bucket + "." + rest + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", o.bucket, o.region, key)
}
