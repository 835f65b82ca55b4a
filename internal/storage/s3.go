// Package storage keeps uploaded images (avatars, logos, banners) in an S3
// compatible bucket and hands back their public URLs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/tapri-app/tapri-api/internal/apperr"
	"github.com/tapri-app/tapri-api/internal/config"
)

type Kind string

const (
	KindAvatar Kind = "avatar"
	KindLogo   Kind = "logo"
	KindBanner Kind = "banner"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindAvatar, KindLogo, KindBanner:
		return k, nil
	}
	return "", apperr.Validation("kind", "kind must be avatar, logo or banner")
}

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Uploader is the part of the S3 client this package needs.
type Uploader interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type S3 struct {
	client   Uploader
	cfg      config.StorageConfig
	maxBytes int64
}

// NewS3 builds a client from the default AWS credential chain. With no bucket
// configured it returns a store whose uploads fail with StoreUnavailable.
func NewS3(ctx context.Context, cfg config.StorageConfig) (*S3, error) {
	if cfg.Bucket == "" {
		return New(nil, cfg), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return New(client, cfg), nil
}

func New(client Uploader, cfg config.StorageConfig) *S3 {
	limit := cfg.MaxBytes
	if limit <= 0 {
		limit = 5 << 20
	}
	return &S3{client: client, cfg: cfg, maxBytes: limit}
}

func (s *S3) Configured() bool {
	return s.client != nil && s.cfg.Bucket != ""
}

func (s *S3) MaxBytes() int64 {
	return s.maxBytes
}

// Put stores an image under <kind>/<owner>/<random id><ext>. The content type
// is sniffed from the bytes, not trusted from the client.
func (s *S3) Put(ctx context.Context, kind Kind, owner uuid.UUID, body io.Reader) (*Object, error) {
	if !s.Configured() {
		return nil, apperr.StoreUnavailable(errors.New("asset storage is not configured"))
	}

	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, apperr.Validation("file", "could not read upload")
	}
	if len(data) == 0 {
		return nil, apperr.Validation("file", "file is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, apperr.Validation("file", fmt.Sprintf("file must be at most %d bytes", s.maxBytes))
	}

	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		return nil, apperr.Validation("file", "only png, jpeg, gif and webp images are allowed")
	}

	key := fmt.Sprintf("%s/%s/%s%s", kind, owner, uuid.NewString(), ext)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return nil, apperr.StoreUnavailable(fmt.Errorf("put %s: %w", key, err))
	}

	return &Object{Key: key, URL: s.URL(key), ContentType: contentType, Size: int64(len(data))}, nil
}

// URL returns the public address of key.
func (s *S3) URL(key string) string {
	switch {
	case s.cfg.PublicBaseURL != "":
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	case s.cfg.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
	}
}
