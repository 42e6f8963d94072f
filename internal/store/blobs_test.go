package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/smart-applier/internal/types"
)

type mapBlobs struct {
	objects map[string][]byte
	kinds   map[string]string
	putErr  error
}

func newMapBlobs() *mapBlobs {
	return &mapBlobs{objects: map[string][]byte{}, kinds: map[string]string{}}
}

func (m *mapBlobs) Put(_ context.Context, key string, data []byte, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = append([]byte(nil), data...)
	m.kinds[key] = contentType
	return nil
}

func (m *mapBlobs) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return data, nil
}

func TestBlobResumes_RoundTrip(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()
	blobs := newMapBlobs()
	s := WithBlobs(inner, blobs)

	resume := &types.Resume{ID: "r1", UserID: "u1", Format: "tex", Content: []byte("doc")}
	require.NoError(t, s.SaveResume(ctx, resume))

	assert.Equal(t, []byte("doc"), blobs.objects["resumes/u1/r1.tex"])
	assert.Equal(t, "application/x-tex", blobs.kinds["resumes/u1/r1.tex"])
	assert.Empty(t, resume.BlobKey, "caller's value is not modified")

	meta, err := inner.GetResume(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, meta.Content)
	assert.Equal(t, "resumes/u1/r1.tex", meta.BlobKey)

	got, err := s.GetResume(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, []byte("doc"), got.Content)

	missing, err := s.GetResume(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBlobResumes_UploadFailure(t *testing.T) {
	blobs := newMapBlobs()
	blobs.putErr = errors.New("access denied")
	s := WithBlobs(NewMemory(), blobs)

	err := s.SaveResume(context.Background(), &types.Resume{ID: "r1", Format: "tex"})
	require.Error(t, err)
	assert.Equal(t, types.StageStorage, types.StageOf(err))
}

func TestBlobResumes_InlineContentStillServed(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()
	require.NoError(t, inner.SaveResume(ctx, &types.Resume{ID: "old", Content: []byte("inline")}))

	got, err := WithBlobs(inner, newMapBlobs()).GetResume(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, []byte("inline"), got.Content)
}

func TestResumeKey(t *testing.T) {
	assert.Equal(t, "resumes/u1/r1.tex", ResumeKey(&types.Resume{ID: "r1", UserID: "u1", Format: "tex"}))
	assert.Equal(t, "resumes/u1/r1.bin", ResumeKey(&types.Resume{ID: "r1", UserID: "u1"}))
}

func TestS3Blobs_ObjectKey(t *testing.T) {
	b := &S3Blobs{prefix: "smart-applier"}
	assert.Equal(t, "smart-applier/resumes/u1/r1.tex", b.objectKey("resumes/u1/r1.tex"))
	assert.Equal(t, "k", (&S3Blobs{}).objectKey("k"))
}

func TestNewS3Blobs_RequiresBucket(t *testing.T) {
	_, err := NewS3Blobs(context.Background(), S3Config{})
	assert.Error(t, err)
}
