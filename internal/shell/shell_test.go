package shell

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/foldtable/foldtable-db/internal/config"
	"github.com/foldtable/foldtable-db/internal/protocol"
	"github.com/foldtable/foldtable-db/internal/store"
)

func TestShell_RunsUntilExit(t *testing.T) {
	req := require.New(t)
	s := store.New(&config.Config{
		DataDir:       t.TempDir(),
		ChunkSize:     1000,
		MaxChunks:     4,
		IndexShards:   64,
		FlushInterval: 2 * time.Millisecond,
	})
	dispatcher := protocol.New(s)

	script := strings.Join([]string{
		`CREATE TABLE products (Product STRING LAST indexed, Price INT LAST, Stock INT SUM)`,
		`INSERT INTO products VALUES ("Tires", 100, 10)`,
		`SELECT * FROM products`,
		`exit`,
		`INSERT INTO products VALUES ("unreachable", 1, 1)`,
	}, "\n")

	var out bytes.Buffer
	sh := New(dispatcher, strings.NewReader(script), &out)
	code := sh.Run()

	req.Equal(0, code)
	req.Contains(out.String(), "Price=100")
	req.NotContains(out.String(), "unreachable")
}

func TestShell_ReportsErrorsAndContinues(t *testing.T) {
	req := require.New(t)
	s := store.New(&config.Config{DataDir: t.TempDir(), ChunkSize: 10, MaxChunks: 2, IndexShards: 4, FlushInterval: time.Millisecond})
	dispatcher := protocol.New(s)

	script := "GARBAGE\nexit\n"
	var out bytes.Buffer
	sh := New(dispatcher, strings.NewReader(script), &out)
	code := sh.Run()

	req.Equal(0, code)
	req.Contains(out.String(), "ERROR")
}
