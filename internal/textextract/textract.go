package textextract

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"mediconnect/pkg/platform/sentinel"
)

// TextractExtractor runs synchronous document text detection against an
// object already in S3.
type TextractExtractor struct {
	client *textract.Client
}

func NewTextract(client *textract.Client) *TextractExtractor {
	return &TextractExtractor{client: client}
}

// ExtractLines detects document text and keeps only LINE blocks, preserving
// the service's ordering.
func (e *TextractExtractor) ExtractLines(ctx context.Context, bucket, key string) ([]string, error) {
	out, err := e.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{
			S3Object: &types.S3Object{
				Bucket: aws.String(bucket),
				Name:   aws.String(key),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("detect document text %s/%s: %w: %w", bucket, key, sentinel.ErrUnavailable, err)
	}

	var lines []string
	for _, block := range out.Blocks {
		if block.BlockType == types.BlockTypeLine && block.Text != nil {
			lines = append(lines, *block.Text)
		}
	}
	return lines, nil
}
