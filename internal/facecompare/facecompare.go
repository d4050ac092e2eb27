// Package facecompare adapts the biometric comparison collaborator. The
// reference face must already exist in the image store; the candidate selfie
// is passed as raw bytes.
package facecompare

import "context"

// FaceMatch is one candidate face paired with its similarity to the
// reference, in [0,100].
type FaceMatch struct {
	Similarity float64
}

// Comparer compares the face in a stored reference object against a candidate
// image. An empty result means no matching face-pair, which is a legitimate
// non-match, not an error. A missing reference object is returned as an error
// wrapping sentinel.ErrNotFound.
type Comparer interface {
	CompareFaces(ctx context.Context, bucket, referenceKey string, candidate []byte, threshold float64) ([]FaceMatch, error)
}
