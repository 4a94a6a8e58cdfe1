package table

import (
	"fmt"
	"sort"

	"github.com/foldtable/foldtable-db/internal/value"
)

// Predicate is one column-equality conjunct for QueryFilter.
type Predicate struct {
	Column string
	Value  value.Value
}

// QueryFilter is the supplemental multi-predicate read described in
// SPEC_FULL.md §4, grounded on the original prototype's select_complex:
// candidates come from an indexed predicate's index probe when one exists,
// then every predicate is checked cheapest-first (int equality before
// string equality, MVCC visibility last, since it is the most expensive
// check per row). Once a row survives every predicate, its non-predicate
// columns fold under QuerySnapshot's LAST/SUM policy.
func (t *Table) QueryFilter(predicates []Predicate) (map[string]string, error) {
	if len(predicates) == 0 {
		return nil, fmt.Errorf("%w: QueryFilter requires at least one predicate", value.ErrSchemaMismatch)
	}

	type resolved struct {
		idx  int
		spec value.ColumnSpec
		val  value.Value
	}
	resolvedPreds := make([]resolved, 0, len(predicates))
	predicateCols := make(map[int]bool, len(predicates))
	for _, p := range predicates {
		idx, spec, ok := t.columnByName(p.Column)
		if !ok {
			return nil, fmt.Errorf("%w: %q", value.ErrUnknownColumn, p.Column)
		}
		if p.Value.Kind() != spec.Type {
			return nil, fmt.Errorf("%w: column %q is %s", value.ErrTypeMismatch, p.Column, spec.Type)
		}
		resolvedPreds = append(resolvedPreds, resolved{idx: idx, spec: spec, val: p.Value})
		predicateCols[idx] = true
	}

	// Cheapest-first: indexed probes shrink the candidate set the most,
	// then plain Int equality (cheap compare), then String equality.
	sort.SliceStable(resolvedPreds, func(i, j int) bool {
		rank := func(r resolved) int {
			switch {
			case r.spec.Indexed:
				return 0
			case r.spec.Type == value.Int:
				return 1
			default:
				return 2
			}
		}
		return rank(resolvedPreds[i]) < rank(resolvedPreds[j])
	})

	queryTS := t.clock.Load()
	var candidates []uint64
	if resolvedPreds[0].spec.Indexed {
		candidates = t.indexes[resolvedPreds[0].idx].Lookup(resolvedPreds[0].val.AsString())
	} else {
		n := t.tail.Load()
		candidates = make([]uint64, n)
		for i := uint64(0); i < n; i++ {
			candidates[i] = i
		}
	}

	accs := make(map[int]*accumulator, len(t.schema))
	for i := range t.schema {
		if !predicateCols[i] {
			accs[i] = &accumulator{}
		}
	}

	for _, row := range candidates {
		matched := true
		for _, p := range resolvedPreds {
			if !valuesEqual(t.columns[p.idx].Get(row), p.val) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		if !t.meta.IsVisible(row, queryTS) {
			continue
		}

		rowTS := t.meta.GetCreated(row)
		for i, col := range t.schema {
			if predicateCols[i] {
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
	for _, p := range resolvedPreds {
		result[t.schema[p.idx].Name] = p.val.StringForm()
	}
	for i, col := range t.schema {
		if predicateCols[i] {
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
