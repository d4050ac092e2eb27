// Package textextract adapts the OCR collaborator that turns an uploaded
// credential document into lines of text.
package textextract

import "context"

// Extractor reads a document from object storage and returns its text lines
// in reading order. Any service, access or permission failure is returned as
// an error wrapping sentinel.ErrUnavailable; the caller converts it into a
// failed-extraction outcome rather than a crash.
type Extractor interface {
	ExtractLines(ctx context.Context, bucket, key string) ([]string, error)
}
