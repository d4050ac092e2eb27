package facecompare

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"mediconnect/pkg/platform/sentinel"
)

// RekognitionComparer compares faces via the Rekognition CompareFaces API.
type RekognitionComparer struct {
	client *rekognition.Client
}

func NewRekognition(client *rekognition.Client) *RekognitionComparer {
	return &RekognitionComparer{client: client}
}

// CompareFaces runs the comparison with the reference addressed by storage
// key and the candidate inline. An InvalidS3ObjectException means the
// reference image was never uploaded; that maps to sentinel.ErrNotFound so
// callers can answer with not-found semantics instead of a server fault.
func (c *RekognitionComparer) CompareFaces(ctx context.Context, bucket, referenceKey string, candidate []byte, threshold float64) ([]FaceMatch, error) {
	out, err := c.client.CompareFaces(ctx, &rekognition.CompareFacesInput{
		SourceImage: &types.Image{
			S3Object: &types.S3Object{
				Bucket: aws.String(bucket),
				Name:   aws.String(referenceKey),
			},
		},
		TargetImage:         &types.Image{Bytes: candidate},
		SimilarityThreshold: aws.Float32(float32(threshold)),
	})
	if err != nil {
		var invalidObject *types.InvalidS3ObjectException
		if errors.As(err, &invalidObject) {
			return nil, fmt.Errorf("reference image %s/%s: %w", bucket, referenceKey, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("compare faces: %w: %w", sentinel.ErrUnavailable, err)
	}

	matches := make([]FaceMatch, 0, len(out.FaceMatches))
	for _, m := range out.FaceMatches {
		var sim float64
		if m.Similarity != nil {
			sim = float64(*m.Similarity)
		}
		matches = append(matches, FaceMatch{Similarity: sim})
	}
	return matches, nil
}
