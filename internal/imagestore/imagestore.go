// Package imagestore uploads pandal photos submitted as data URIs to an
// S3-compatible bucket and returns the public URL to store on the entry.
package imagestore

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ErrInvalidDataURI is returned when an image payload is not a base64 data URI.
var ErrInvalidDataURI = errors.New("invalid image data uri")

// Uploader stores image bytes and returns a URL clients can load.
type Uploader interface {
	Upload(ctx context.Context, img Image) (string, error)
}

// Image is a decoded data URI.
type Image struct {
	ContentType string
	Data        []byte
}

// IsDataURI reports whether v looks like an inline image upload.
func IsDataURI(v string) bool {
	return strings.HasPrefix(v, "data:")
}

// ParseDataURI decodes "data:<mime>;base64,<payload>".
func ParseDataURI(v string) (Image, error) {
	if !IsDataURI(v) {
		return Image{}, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(v, "data:"), ",")
	if !ok {
		return Image{}, ErrInvalidDataURI
	}
	if !strings.HasSuffix(meta, ";base64") {
		return Image{}, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURI)
	}
	contentType, _, _ := strings.Cut(meta, ";")
	if !strings.HasPrefix(contentType, "image/") {
		return Image{}, fmt.Errorf("%w: content type %q is not an image", ErrInvalidDataURI, contentType)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return Image{ContentType: contentType, Data: data}, nil
}

// Extension picks a file extension for the image's content type.
func (img Image) Extension() string {
	switch img.ContentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	}
	if exts, _ := mime.ExtensionsByType(img.ContentType); len(exts) > 0 {
		return exts[0]
	}
	if _, sub, ok := strings.Cut(img.ContentType, "/"); ok {
		return "." + sub
	}
	return ""
}

// putObjectAPI is the slice of the S3 client the uploader needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds S3 settings.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, e.g. MinIO
	PathStyle bool
	// PublicBaseURL prefixes object keys in returned URLs (CDN or bucket URL).
	PublicBaseURL string
	KeyPrefix     string
}

// S3Uploader implements Uploader on an S3-compatible bucket.
type S3Uploader struct {
	client  putObjectAPI
	bucket  string
	baseURL string
	prefix  string
}

// NewS3Uploader loads AWS credentials from the default chain and builds an
// uploader for cfg.Bucket.
func NewS3Uploader(ctx context.Context, cfg Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3Uploader(client, cfg, region), nil
}

func newS3Uploader(client putObjectAPI, cfg Config, region string) *S3Uploader {
	base := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if base == "" {
		if cfg.Endpoint != "" {
			base = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
		}
	}
	prefix := strings.Trim(cfg.KeyPrefix, "/")
	if prefix == "" {
		prefix = "pandals"
	}
	return &S3Uploader{client: client, bucket: cfg.Bucket, baseURL: base, prefix: prefix}
}

// Upload writes img under a fresh key and returns its public URL.
func (u *S3Uploader) Upload(ctx context.Context, img Image) (string, error) {
	key := fmt.Sprintf("%s/%s%s", u.prefix, uuid.New().String(), img.Extension())
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(img.Data),
		ContentType:   aws.String(img.ContentType),
		ContentLength: aws.Int64(int64(len(img.Data))),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return u.baseURL + "/" + key, nil
}
