package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelshot/internal/sqlinline"
)

func TestExtractMarker(t *testing.T) {
	marker, body, err := extractMarker("--sql 96553cd1-1c3b-4193-806b-9cfe06d0e845\nselect 1;\n")
	require.NoError(t, err)
	assert.Equal(t, "96553cd1-1c3b-4193-806b-9cfe06d0e845", marker)
	assert.Equal(t, "select 1;", body)

	_, _, err = extractMarker("select 1;")
	assert.ErrorIs(t, err, errMissingMarker)

	_, _, err = extractMarker("   ")
	assert.Error(t, err)
}

func TestInlineQueriesCarryUniqueMarkers(t *testing.T) {
	queries := map[string]string{
		"QCreatePhotoJobsSchema":  sqlinline.QCreatePhotoJobsSchema,
		"QInsertPhotoJob":         sqlinline.QInsertPhotoJob,
		"QSelectPhotoJob":         sqlinline.QSelectPhotoJob,
		"QPatchPhotoJob":          sqlinline.QPatchPhotoJob,
		"QListPendingPhotoJobs":   sqlinline.QListPendingPhotoJobs,
		"QSelectIntegrationToken": sqlinline.QSelectIntegrationToken,
		"QUpsertIntegrationToken": sqlinline.QUpsertIntegrationToken,
	}
	seen := map[string]string{}
	for name, q := range queries {
		marker, body, err := extractMarker(q)
		require.NoError(t, err, name)
		assert.NotEmpty(t, body, name)
		if prev, dup := seen[marker]; dup {
			t.Fatalf("%s reuses marker of %s", name, prev)
		}
		seen[marker] = name
	}
}
