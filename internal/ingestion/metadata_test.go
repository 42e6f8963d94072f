package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHash(t *testing.T) {
	assert.Equal(t, computeHash("test content"), computeHash("test content"))
	assert.NotEqual(t, computeHash("test content"), computeHash("different content"))
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		computeHash(""))
}

func TestNewMetadata(t *testing.T) {
	m := NewMetadata("content", "jd.txt", FormatText)

	assert.Equal(t, "jd.txt", m.Source)
	assert.Equal(t, FormatText, m.Format)
	assert.Equal(t, computeHash("content"), m.Hash)

	ts, err := time.Parse(time.RFC3339, m.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}
