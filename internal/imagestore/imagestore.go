// Package imagestore abstracts the object store holding identity images: ID
// cards awaiting comparison and verified avatar selfies. Records hold storage
// keys, never URLs; presigned URLs are minted per response because they
// expire.
package imagestore

import (
	"context"
	"fmt"
	"time"

	"mediconnect/internal/subject"
)

// AutoDeleteTag marks an object for lifecycle deletion. Raw ID cards carry it
// so the bucket's lifecycle rule removes them shortly after comparison.
const AutoDeleteTag = "auto-delete=true"

// Store is the image persistence surface the biometric flow needs.
type Store interface {
	// Put writes an object. A non-empty tagging string is applied after the
	// write, mirroring the bucket's lifecycle-rule convention.
	Put(ctx context.Context, key string, data []byte, contentType, tagging string) error
	// PresignedGetURL mints a time-limited read URL for an existing object.
	PresignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// IDCardKey is the deterministic location of a subject's reference ID image.
func IDCardKey(role subject.Role, subjectID string) string {
	return fmt.Sprintf("%s/%s/id_card.jpg", role, subjectID)
}

// SelfieKey is the location of a subject's verified selfie, stored as the
// avatar reference on a successful match.
func SelfieKey(role subject.Role, subjectID string) string {
	return fmt.Sprintf("%s/%s/selfie_verified.jpg", role, subjectID)
}
