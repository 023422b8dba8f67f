package main

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3EndpointKeyJoining(t *testing.T) {
	withPrefix := &S3Endpoint{bucket: "b", prefix: "backups"}
	assert.Equal(t, "backups/test.txt", withPrefix.key("test.txt"))
	assert.Equal(t, "s3://b/backups", withPrefix.String())

	noPrefix := &S3Endpoint{bucket: "b"}
	assert.Equal(t, "test.txt", noPrefix.key("test.txt"))
	assert.Equal(t, "s3://b", noPrefix.String())
}

func TestBuildRestoreRequestDefault(t *testing.T) {
	req, err := buildRestoreRequest(defaultRestoreRequest())
	require.NoError(t, err)
	assert.Equal(t, int32(5), req.Days)
	require.NotNil(t, req.GlacierJobParameters)
	assert.Equal(t, types.TierBulk, req.GlacierJobParameters.Tier)
}

func TestBuildRestoreRequestCustom(t *testing.T) {
	req, err := buildRestoreRequest(map[string]any{
		"Days": 10,
		"GlacierJobParameters": map[string]any{
			"Tier": "Expedited",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(10), req.Days)
	assert.Equal(t, types.TierExpedited, req.GlacierJobParameters.Tier)
}

func TestIsArchiveStorageClass(t *testing.T) {
	assert.True(t, isArchiveStorageClass(types.StorageClassDeepArchive))
	assert.True(t, isArchiveStorageClass(types.StorageClassGlacier))
	assert.False(t, isArchiveStorageClass(types.StorageClassStandard))
}

func TestIsWriteSupportedEnforcesObjectSizeCeiling(t *testing.T) {
	ep := &S3Endpoint{}
	assert.True(t, ep.IsWriteSupported("x", maxObjectSize))
	assert.False(t, ep.IsWriteSupported("x", maxObjectSize+1))
}
