package mvcc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetadata_UncommittedUntilSetCreated(t *testing.T) {
	req := require.New(t)
	m := New(4, 2)
	req.NoError(m.EnsureChunk(0))

	req.Equal(Infinity, m.GetCreated(0))
	req.False(m.IsVisible(0, 100))

	m.SetCreated(0, 5)
	req.True(m.IsVisible(0, 5))
	req.True(m.IsVisible(0, 100))
	req.False(m.IsVisible(0, 4))
}

func TestMetadata_ChunkBoundary(t *testing.T) {
	req := require.New(t)
	const chunkSize = 4
	m := New(chunkSize, 2)

	req.NoError(m.EnsureChunk(0))
	req.NoError(m.EnsureChunk(1))

	m.SetCreated(chunkSize-1, 1)
	m.SetCreated(chunkSize, 2)

	req.True(m.IsVisible(chunkSize-1, 10))
	req.True(m.IsVisible(chunkSize, 10))
}
