package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/smart-applier/internal/types"
)

func TestSchemaDeclaresTables(t *testing.T) {
	for _, table := range []string{"profiles", "scraped_jobs", "job_matches", "resumes", "tailored_sessions"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}

func TestLimitArg(t *testing.T) {
	assert.Nil(t, limitArg(0))
	assert.Nil(t, limitArg(-5))
	assert.Equal(t, 10, limitArg(10))
}

func TestStorageError(t *testing.T) {
	cause := errors.New("connection refused")
	err := storageError("failed to list jobs", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, types.StageStorage, types.StageOf(err))
}

func TestClose_NilPool(t *testing.T) {
	assert.NoError(t, (&DB{}).Close())
}
