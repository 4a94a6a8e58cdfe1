// Package value defines the tagged-union cell type shared by every column
// implementation, plus the schema types that describe a table's columns.
package value

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value or a column holds.
type Kind uint8

const (
	// Int is a signed 64-bit integer variant.
	Int Kind = iota
	// String is a byte-string variant.
	String
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "INT"
	case String:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

// Agg is the per-column fold policy applied when many physical rows
// collapse to one logical row under a query key.
type Agg uint8

const (
	// Last resolves to the value of the newest visible row by creation
	// timestamp.
	Last Agg = iota
	// Sum accumulates every visible row's value. Only legal on Int columns.
	Sum
)

func (a Agg) String() string {
	switch a {
	case Last:
		return "LAST"
	case Sum:
		return "SUM"
	default:
		return "UNKNOWN"
	}
}

// Value is a tagged union of the two cell variants a column may hold.
type Value struct {
	kind Kind
	i    int64
	s    []byte
}

// Int64 builds an integer Value.
func Int64(v int64) Value { return Value{kind: Int, i: v} }

// Str builds a string Value. The bytes are copied so the caller may reuse
// its buffer.
func Str(v string) Value {
	b := make([]byte, len(v))
	copy(b, v)
	return Value{kind: String, s: b}
}

// Kind reports which variant is held.
func (v Value) Kind() Kind { return v.kind }

// AsInt64 returns the integer variant. It panics if the variant isn't Int;
// callers must check Kind first (mirrors the source's untagged access after
// a type check).
func (v Value) AsInt64() int64 {
	if v.kind != Int {
		panic("value: AsInt64 called on non-Int value")
	}
	return v.i
}

// AsString returns the string variant as a string.
func (v Value) AsString() string {
	if v.kind != String {
		panic("value: AsString called on non-String value")
	}
	return string(v.s)
}

// AsBytes returns the string variant's raw bytes without copying.
func (v Value) AsBytes() []byte {
	if v.kind != String {
		panic("value: AsBytes called on non-String value")
	}
	return v.s
}

// StringForm stringifies a Value regardless of variant, used to compose
// query_snapshot's result map.
func (v Value) StringForm() string {
	switch v.kind {
	case Int:
		return strconv.FormatInt(v.i, 10)
	case String:
		return string(v.s)
	default:
		return ""
	}
}

// ColumnSpec describes one column of a table's schema.
type ColumnSpec struct {
	Name    string
	Type    Kind
	Agg     Agg
	Indexed bool
}

// Validate enforces the schema-level constraints from the spec: SUM is only
// defined on Int columns, and Indexed is only permitted on String columns.
func (c ColumnSpec) Validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("column name is required"))
	}
	if c.Agg == Sum && c.Type != Int {
		errs = append(errs, fmt.Errorf("column %q: SUM is only defined on INT columns", c.Name))
	}
	if c.Indexed && c.Type != String {
		errs = append(errs, fmt.Errorf("column %q: indexed is only permitted on STRING columns", c.Name))
	}
	return errors.Join(errs...)
}
