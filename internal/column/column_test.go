package column

import (
	"testing"

	"github.com/foldtable/foldtable-db/internal/value"
	"github.com/stretchr/testify/require"
)

func TestIntColumn_SetGet(t *testing.T) {
	req := require.New(t)
	c := New(value.Int, 4, 2)

	req.NoError(c.EnsureChunk(0))
	req.NoError(c.Set(0, value.Int64(42)))
	req.Equal(int64(42), c.Get(0).AsInt64())
}

func TestIntColumn_TypeMismatch(t *testing.T) {
	req := require.New(t)
	c := New(value.Int, 4, 2)
	req.NoError(c.EnsureChunk(0))

	err := c.Set(0, value.Str("nope"))
	req.ErrorIs(err, value.ErrTypeMismatch)
}

func TestStringColumn_SetGet(t *testing.T) {
	req := require.New(t)
	c := New(value.String, 4, 2)

	req.NoError(c.EnsureChunk(0))
	req.NoError(c.Set(0, value.Str("Tires")))
	req.Equal("Tires", c.Get(0).AsString())
}

func TestColumn_CapacityExceeded(t *testing.T) {
	req := require.New(t)
	c := New(value.Int, 4, 1)
	req.NoError(c.EnsureChunk(0))

	err := c.EnsureChunk(1)
	req.ErrorIs(err, value.ErrCapacityExceeded)
}
