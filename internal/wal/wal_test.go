package wal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/foldtable/foldtable-db/internal/value"
)

func testSchema() []value.ColumnSpec {
	return []value.ColumnSpec{
		{Name: "Product", Type: value.String, Agg: value.Last, Indexed: true},
		{Name: "Price", Type: value.Int, Agg: value.Last},
		{Name: "Stock", Type: value.Int, Agg: value.Sum},
	}
}

func TestWriter_AppendAndReplay(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	schema := testSchema()

	w, err := New(&Config{
		Dir:           dir,
		TableName:     "widgets",
		Schema:        schema,
		Truncate:      true,
		FlushInterval: 5 * time.Millisecond,
	})
	req.NoError(err)
	req.NoError(w.Start())

	w.Append([]value.Value{value.Str("Tires"), value.Int64(100), value.Int64(10)})
	w.Append([]value.Value{value.Str("Tires"), value.Int64(150), value.Int64(5)})

	req.NoError(w.Stop())

	rows, err := Read(filepath.Join(dir, "widgets.log"), schema)
	req.NoError(err)
	req.Len(rows, 2)
	req.Equal("Tires", rows[0][0].AsString())
	req.Equal(int64(100), rows[0][1].AsInt64())
	req.Equal(int64(10), rows[0][2].AsInt64())
	req.Equal(int64(150), rows[1][1].AsInt64())
}

func TestRead_MissingFileIsEmpty(t *testing.T) {
	req := require.New(t)
	rows, err := Read(filepath.Join(t.TempDir(), "nope.log"), testSchema())
	req.NoError(err)
	req.Empty(rows)
}

func TestRead_TornTailDiscarded(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	schema := testSchema()

	w, err := New(&Config{Dir: dir, TableName: "t", Schema: schema, Truncate: true, FlushInterval: time.Hour})
	req.NoError(err)

	var buf []byte
	buf = encodeRow(buf, schema, []value.Value{value.Str("Tires"), value.Int64(100), value.Int64(10)})
	// Append 3 bytes of what would be a 4-byte length prefix for a second
	// record's Product string, a torn tail.
	buf = append(buf, 0x01, 0x00, 0x00)

	_, werr := w.file.Write(buf)
	req.NoError(werr)
	req.NoError(w.file.Close())

	rows, err := Read(w.path, schema)
	req.NoError(err)
	req.Len(rows, 1)
	req.Equal("Tires", rows[0][0].AsString())
}

func TestWriter_TruncateVsAppend(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	schema := testSchema()

	w1, err := New(&Config{Dir: dir, TableName: "t", Schema: schema, Truncate: true, FlushInterval: time.Millisecond})
	req.NoError(err)
	req.NoError(w1.Start())
	w1.Append([]value.Value{value.Str("A"), value.Int64(1), value.Int64(1)})
	req.NoError(w1.Stop())

	w2, err := New(&Config{Dir: dir, TableName: "t", Schema: schema, Truncate: false, FlushInterval: time.Millisecond})
	req.NoError(err)
	req.NoError(w2.Start())
	w2.Append([]value.Value{value.Str("B"), value.Int64(2), value.Int64(2)})
	req.NoError(w2.Stop())

	rows, err := Read(filepath.Join(dir, "t.log"), schema)
	req.NoError(err)
	req.Len(rows, 2)
}
