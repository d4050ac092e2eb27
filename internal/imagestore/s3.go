package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store persists identity images in a single S3 bucket.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3 builds an S3-backed store over an already-configured client.
func NewS3(client *s3.Client, bucket string) *S3Store {
	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}
}

// Put uploads the object, then applies the tag set. Tagging runs as a second
// call so a tagging failure surfaces separately from the upload itself.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType, tagging string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}

	if tagging != "" {
		_, err = s.client.PutObjectTagging(ctx, &s3.PutObjectTaggingInput{
			Bucket:  aws.String(s.bucket),
			Key:     aws.String(key),
			Tagging: parseTagging(tagging),
		})
		if err != nil {
			return fmt.Errorf("tag object %s: %w", key, err)
		}
	}
	return nil
}

// PresignedGetURL mints a time-limited GET URL for the object.
func (s *S3Store) PresignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}
	return req.URL, nil
}

// Bucket exposes the bucket name for callers that build s3:// references.
func (s *S3Store) Bucket() string {
	return s.bucket
}

// parseTagging turns a "key=value&key=value" tagging string into the typed
// tag set PutObjectTagging expects.
func parseTagging(tagging string) *types.Tagging {
	var set []types.Tag
	for _, pair := range strings.Split(tagging, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		set = append(set, types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}
	return &types.Tagging{TagSet: set}
}
