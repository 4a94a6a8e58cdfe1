package wal

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/foldtable/foldtable-db/internal/value"
)

// Read opens path read-only and streams complete row records, deserializing
// according to schema. A partial tail record (the file ends mid-record) is
// discarded silently: it represents a write that crashed before full
// persistence. A missing file is treated as an empty log, not an error.
func Read(path string, schema []value.ColumnSpec) ([][]value.Value, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: open %s: %v", value.ErrIO, path, err)
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", value.ErrIO, path, err)
	}

	var rows [][]value.Value
	off := 0
	for off < len(buf) {
		row, consumed, ok := decodeRow(buf[off:], schema)
		if !ok {
			log.Debug().Str("path", path).Int("bytesDropped", len(buf)-off).
				Msg("wal: discarding torn tail record")
			break
		}
		rows = append(rows, row)
		off += consumed
	}

	return rows, nil
}
