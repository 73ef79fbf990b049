package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveStore_CompressRoundTrip(t *testing.T) {
	s, err := NewArchiveStore(nil)
	require.NoError(t, err)

	snapshot := map[string]any{"id": 7, "status": "PENDING", "name": "Asociatia Test"}
	data, err := s.Compress(snapshot)
	require.NoError(t, err)

	raw, err := s.Decompress(data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"status":"PENDING","name":"Asociatia Test"}`, string(raw))
}

func TestArchiveStore_DecompressGarbage(t *testing.T) {
	s, err := NewArchiveStore(nil)
	require.NoError(t, err)

	_, err = s.Decompress([]byte("not zstd"))
	assert.Error(t, err)
}
