package table

import "github.com/foldtable/foldtable-db/internal/value"

// All is the out-of-core convenience the command shell's "SELECT * FROM
// <name>" verb needs (spec.md §6): it groups every visible row by the
// table's first column and folds each group under QuerySnapshot's LAST/SUM
// policy, returning one logical row per distinct key. It is not part of
// the core query surface spec.md §4.5 defines and is not used by
// QuerySnapshot or QueryFilter.
func (t *Table) All() ([]map[string]string, error) {
	keyIdx := 0
	keyCol := t.schema[keyIdx]

	queryTS := t.clock.Load()
	n := t.tail.Load()

	type group struct {
		key  value.Value
		accs map[int]*accumulator
	}
	order := make([]value.Value, 0)
	groups := make(map[string]*group)

	for row := uint64(0); row < n; row++ {
		if !t.meta.IsVisible(row, queryTS) {
			continue
		}
		key := t.columns[keyIdx].Get(row)
		gk := key.StringForm()
		g, ok := groups[gk]
		if !ok {
			g = &group{key: key, accs: make(map[int]*accumulator, len(t.schema)-1)}
			for i := range t.schema {
				if i != keyIdx {
					g.accs[i] = &accumulator{}
				}
			}
			groups[gk] = g
			order = append(order, key)
		}

		rowTS := t.meta.GetCreated(row)
		for i, col := range t.schema {
			if i == keyIdx {
				continue
			}
			v := t.columns[i].Get(row)
			switch col.Agg {
			case value.Sum:
				g.accs[i].foldSum(v)
			case value.Last:
				g.accs[i].foldLast(rowTS, v)
			}
		}
	}

	result := make([]map[string]string, 0, len(order))
	for _, key := range order {
		g := groups[key.StringForm()]
		row := map[string]string{keyCol.Name: key.StringForm()}
		for i, col := range t.schema {
			if i == keyIdx {
				continue
			}
			acc := g.accs[i]
			if !acc.observed {
				continue
			}
			switch col.Agg {
			case value.Sum:
				row[col.Name] = value.Int64(acc.sum).StringForm()
			case value.Last:
				row[col.Name] = acc.lastVal.StringForm()
			}
		}
		result = append(result, row)
	}
	return result, nil
}
