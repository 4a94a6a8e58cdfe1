package wal

import (
	"encoding/binary"

	"github.com/foldtable/foldtable-db/internal/value"
)

// encodeRow appends one row's binary record to buf in schema order, per
// spec.md §6: no framing header, no per-record length, no checksum.
// An INT cell is 8 bytes little-endian two's-complement (widened from the
// source's 4 bytes to match the spec's recommended 64-bit Value width, see
// SPEC_FULL.md §3.2). A STRING cell is a 4-byte signed length prefix
// followed by the raw payload bytes.
func encodeRow(buf []byte, schema []value.ColumnSpec, row []value.Value) []byte {
	for i, col := range schema {
		v := row[i]
		switch col.Type {
		case value.Int:
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], uint64(v.AsInt64()))
			buf = append(buf, b[:]...)
		case value.String:
			s := v.AsBytes()
			var lb [4]byte
			binary.LittleEndian.PutUint32(lb[:], uint32(len(s)))
			buf = append(buf, lb[:]...)
			buf = append(buf, s...)
		}
	}
	return buf
}

// decodeRow decodes one row from buf starting at offset 0, according to
// schema. ok is false if buf does not contain enough bytes for a complete
// record — a torn tail, discarded silently by the reader per spec.md §6.
func decodeRow(buf []byte, schema []value.ColumnSpec) (row []value.Value, consumed int, ok bool) {
	off := 0
	row = make([]value.Value, len(schema))
	for i, col := range schema {
		switch col.Type {
		case value.Int:
			if off+8 > len(buf) {
				return nil, 0, false
			}
			row[i] = value.Int64(int64(binary.LittleEndian.Uint64(buf[off : off+8])))
			off += 8
		case value.String:
			if off+4 > len(buf) {
				return nil, 0, false
			}
			n := int(int32(binary.LittleEndian.Uint32(buf[off : off+4])))
			off += 4
			if n < 0 || off+n > len(buf) {
				return nil, 0, false
			}
			row[i] = value.Str(string(buf[off : off+n]))
			off += n
		}
	}
	return row, off, true
}
