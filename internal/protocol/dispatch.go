package protocol

import (
	"fmt"
	"sort"
	"strings"

	"github.com/foldtable/foldtable-db/internal/table"
	"github.com/foldtable/foldtable-db/internal/value"
)

// Registry is the narrow surface Dispatcher needs from internal/store.
type Registry interface {
	CreateTable(name string, schema []value.ColumnSpec) error
	Table(name string) (*table.Table, error)
}

// Dispatcher executes parsed Commands against a Registry, producing the
// line(s) of output the shell prints back.
type Dispatcher struct {
	reg Registry
}

// New builds a Dispatcher bound to reg.
func New(reg Registry) *Dispatcher {
	return &Dispatcher{reg: reg}
}

// Execute parses and runs one line, returning its output and whether the
// shell should terminate afterward.
func (d *Dispatcher) Execute(line string) (output string, exit bool, err error) {
	cmd, err := Parse(line)
	if err != nil {
		return "", false, err
	}

	switch c := cmd.(type) {
	case Exit:
		return "", true, nil
	case CreateTable:
		if err := d.reg.CreateTable(c.Name, c.Schema); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("OK table %s created", c.Name), false, nil
	case InsertInto:
		tbl, err := d.reg.Table(c.Name)
		if err != nil {
			return "", false, err
		}
		row, err := tbl.Insert(c.Values)
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("OK row %d", row), false, nil
	case SelectAll:
		tbl, err := d.reg.Table(c.Name)
		if err != nil {
			return "", false, err
		}
		rows, err := tbl.All()
		if err != nil {
			return "", false, err
		}
		return formatRows(rows), false, nil
	default:
		return "", false, fmt.Errorf("%w: unhandled command %T", ErrUnknownVerb, cmd)
	}
}

func formatRows(rows []map[string]string) string {
	var lines []string
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, row[k]))
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}
