package verification

import (
	"context"
	"fmt"

	"mediconnect/internal/facecompare"
	"mediconnect/internal/imagestore"
	"mediconnect/internal/subject"
)

// Matcher orchestrates one biometric identity check: persist the reference ID
// card, then compare the candidate selfie against it.
type Matcher struct {
	images    imagestore.Store
	comparer  facecompare.Comparer
	bucket    string
	threshold float64
}

func NewMatcher(images imagestore.Store, comparer facecompare.Comparer, bucket string, threshold float64) *Matcher {
	return &Matcher{
		images:    images,
		comparer:  comparer,
		bucket:    bucket,
		threshold: threshold,
	}
}

// Match runs the comparison. When idCard is non-empty it is persisted first,
// tagged for lifecycle deletion, because the comparison service addresses the
// reference by storage key. An error wrapping sentinel.ErrNotFound means no
// reference exists from this or any prior call.
func (m *Matcher) Match(ctx context.Context, role subject.Role, subjectID string, selfie, idCard []byte) (BiometricMatchResult, error) {
	referenceKey := imagestore.IDCardKey(role, subjectID)
	result := BiometricMatchResult{
		ReferenceImageKey: referenceKey,
		// Where the selfie lands if the match succeeds and it becomes the
		// verified avatar.
		CandidateImageKey: imagestore.SelfieKey(role, subjectID),
	}

	if len(idCard) > 0 {
		err := m.images.Put(ctx, referenceKey, idCard, "image/jpeg", imagestore.AutoDeleteTag)
		if err != nil {
			return result, fmt.Errorf("persist reference image: %w", err)
		}
	}

	matches, err := m.comparer.CompareFaces(ctx, m.bucket, referenceKey, selfie, m.threshold)
	if err != nil {
		return result, err
	}

	// Zero face-pairs is a legitimate non-match, not a fault.
	if len(matches) == 0 {
		return result, nil
	}

	best := matches[0]
	result.Similarity = best.Similarity
	result.Matched = best.Similarity >= m.threshold
	return result, nil
}
