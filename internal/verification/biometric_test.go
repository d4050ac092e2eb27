package verification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediconnect/internal/facecompare"
	"mediconnect/internal/imagestore"
	"mediconnect/internal/subject"
)

func TestMatchReportsImageKeys(t *testing.T) {
	images := imagestore.NewMemoryStore()
	comparer := &fakeComparer{matches: []facecompare.FaceMatch{{Similarity: 95.5}}}
	m := NewMatcher(images, comparer, "test-bucket", 80.0)

	res, err := m.Match(context.Background(), subject.RoleDoctor, "doc-1", []byte("selfie"), []byte("id"))
	require.NoError(t, err)

	assert.True(t, res.Matched)
	assert.Equal(t, "doctor/doc-1/id_card.jpg", res.ReferenceImageKey)
	assert.Equal(t, "doctor/doc-1/selfie_verified.jpg", res.CandidateImageKey)
}

func TestMatchPersistsReferenceWithAutoDeleteTag(t *testing.T) {
	images := imagestore.NewMemoryStore()
	comparer := &fakeComparer{matches: []facecompare.FaceMatch{{Similarity: 90}}}
	m := NewMatcher(images, comparer, "test-bucket", 80.0)

	_, err := m.Match(context.Background(), subject.RoleDoctor, "doc-1", []byte("selfie"), []byte("id"))
	require.NoError(t, err)

	require.True(t, images.Has("doctor/doc-1/id_card.jpg"))
	assert.Equal(t, imagestore.AutoDeleteTag, images.Tagging("doctor/doc-1/id_card.jpg"))
}

func TestMatchZeroFacePairsIsNonMatch(t *testing.T) {
	images := imagestore.NewMemoryStore()
	comparer := &fakeComparer{}
	m := NewMatcher(images, comparer, "test-bucket", 80.0)

	res, err := m.Match(context.Background(), subject.RolePatient, "pat-1", []byte("selfie"), nil)
	require.NoError(t, err)

	assert.False(t, res.Matched)
	assert.Zero(t, res.Similarity)
}
