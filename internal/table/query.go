package table

import (
	"fmt"

	"github.com/foldtable/foldtable-db/internal/value"
)

// accumulator folds one non-key column's visible rows under its AggType.
type accumulator struct {
	observed bool
	lastTS   uint64
	lastVal  value.Value
	sum      int64
}

func (a *accumulator) foldLast(rowTS uint64, v value.Value) {
	a.observed = true
	if rowTS > a.lastTS {
		a.lastTS = rowTS
		a.lastVal = v
	}
}

func (a *accumulator) foldSum(v value.Value) {
	a.observed = true
	a.sum += v.AsInt64()
}

// QuerySnapshot implements spec.md §4.5: fold every visible physical row
// matching keyColumn=keyValue into one logical row, applying each other
// column's LAST or SUM policy. query_ts is sampled once, at the start of
// the call, so the result is snapshot-consistent.
func (t *Table) QuerySnapshot(keyColumn string, keyValue value.Value) (map[string]string, error) {
	keyIdx, keySpec, ok := t.columnByName(keyColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %q", value.ErrUnknownColumn, keyColumn)
	}
	if keyValue.Kind() != keySpec.Type {
		return nil, fmt.Errorf("%w: key column %q is %s", value.ErrTypeMismatch, keyColumn, keySpec.Type)
	}

	queryTS := t.clock.Load()
	candidates := t.candidatesFor(keyIdx, keySpec, keyValue)

	accs := make(map[int]*accumulator, len(t.schema)-1)
	for i := range t.schema {
		if i != keyIdx {
			accs[i] = &accumulator{}
		}
	}

	for _, row := range candidates {
		if !t.meta.IsVisible(row, queryTS) {
			continue
		}
		if !valuesEqual(t.columns[keyIdx].Get(row), keyValue) {
			continue
		}
		rowTS := t.meta.GetCreated(row)
		for i, col := range t.schema {
			if i == keyIdx {
				continue
			}
			v := t.columns[i].Get(row)
			switch col.Agg {
			case value.Sum:
				accs[i].foldSum(v)
			case value.Last:
				accs[i].foldLast(rowTS, v)
			}
		}
	}

	result := make(map[string]string, len(t.schema))
	result[keyColumn] = keyValue.StringForm()
	for i, col := range t.schema {
		if i == keyIdx {
			continue
		}
		acc := accs[i]
		if !acc.observed {
			continue
		}
		switch col.Agg {
		case value.Sum:
			result[col.Name] = value.Int64(acc.sum).StringForm()
		case value.Last:
			result[col.Name] = acc.lastVal.StringForm()
		}
	}
	return result, nil
}

// candidatesFor returns the row indices to scan for keyValue: an index
// probe if keyColumn is indexed, otherwise every claimed row.
func (t *Table) candidatesFor(keyIdx int, keySpec value.ColumnSpec, keyValue value.Value) []uint64 {
	if keySpec.Indexed {
		return t.indexes[keyIdx].Lookup(keyValue.AsString())
	}
	n := t.tail.Load()
	rows := make([]uint64, n)
	for i := uint64(0); i < n; i++ {
		rows[i] = i
	}
	return rows
}

func valuesEqual(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Kind() == value.Int {
		return a.AsInt64() == b.AsInt64()
	}
	return a.AsString() == b.AsString()
}
