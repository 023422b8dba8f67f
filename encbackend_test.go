package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncEndpointAddScenario(t *testing.T) {
	inner := newMemEndpoint()
	enc, err := NewEncEndpoint(inner, "hunter2")
	require.NoError(t, err)

	require.NoError(t, enc.Write(context.Background(), "test.txt", bytes.NewReader([]byte("test data\n")), 10))
	require.Len(t, inner.objects, 1)

	var entries []Entry
	require.NoError(t, enc.List(context.Background(), func(e Entry) error {
		entries = append(entries, e)
		return nil
	}))
	require.Len(t, entries, 1)
	assert.Equal(t, "test.txt", entries[0].Path)
	assert.Equal(t, int64(10), entries[0].Size)

	rc, err := enc.Read(context.Background(), "test.txt")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "test data\n", string(data))
}

func TestEncEndpointSizeIdentity(t *testing.T) {
	inner := newMemEndpoint()
	enc, err := NewEncEndpoint(inner, "hunter2")
	require.NoError(t, err)

	require.NoError(t, enc.Write(context.Background(), "test.txt", bytes.NewReader([]byte("test data\n")), 10))

	encName, err := encryptName(enc.key, "test.txt")
	require.NoError(t, err)
	innerSize, err := inner.Size(context.Background(), encName)
	require.NoError(t, err)

	wrapperSize, err := enc.Size(context.Background(), "test.txt")
	require.NoError(t, err)

	assert.Equal(t, wrapperSize+frameOverhead, innerSize)
}

func TestEncEndpointListFailsOnUndersizedInnerObject(t *testing.T) {
	inner := newMemEndpoint()
	inner.put("whatever", []byte("short"), 0)
	enc, err := NewEncEndpoint(inner, "hunter2")
	require.NoError(t, err)

	err = enc.List(context.Background(), func(Entry) error { return nil })
	require.Error(t, err)
	assert.IsType(t, &integrityError{}, err)
}

func TestEncEndpointIsWriteSupportedRespectsCeiling(t *testing.T) {
	inner := newMemEndpoint()
	enc, err := NewEncEndpoint(inner, "hunter2")
	require.NoError(t, err)

	assert.True(t, enc.IsWriteSupported("big.bin", maxEncryptedWriteSize))
	assert.False(t, enc.IsWriteSupported("big.bin", maxEncryptedWriteSize+1))
}

func TestEncEndpointIsWriteSupportedDelegatesToInner(t *testing.T) {
	inner := newMemEndpoint()
	inner.writeLimit = 100
	enc, err := NewEncEndpoint(inner, "hunter2")
	require.NoError(t, err)

	assert.True(t, enc.IsWriteSupported("x", 50))
	assert.False(t, enc.IsWriteSupported("x", 90)) // 90+33 > 100
}

func TestEncEndpointRestoreDelegatesToInner(t *testing.T) {
	inner := newMemEndpoint()
	enc, err := NewEncEndpoint(inner, "hunter2")
	require.NoError(t, err)

	require.NoError(t, enc.Write(context.Background(), "test.txt", bytes.NewReader([]byte("x")), 1))

	require.NoError(t, enc.Restore(context.Background(), "test.txt"))
	assert.Len(t, inner.RestoreCalls, 1)

	state, err := enc.Head(context.Background(), "test.txt")
	require.NoError(t, err)
	assert.True(t, state.Ongoing)
}

func TestEncEndpointStringPrefixesEnc(t *testing.T) {
	inner := newMemEndpoint()
	enc, err := NewEncEndpoint(inner, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "enc+mem://test", enc.String())
}
