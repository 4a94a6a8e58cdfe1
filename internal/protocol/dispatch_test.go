package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/foldtable/foldtable-db/internal/config"
	"github.com/foldtable/foldtable-db/internal/store"
)

func newDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	s := store.New(&config.Config{
		DataDir:       t.TempDir(),
		ChunkSize:     1000,
		MaxChunks:     4,
		IndexShards:   64,
		FlushInterval: 2 * time.Millisecond,
	})
	return New(s)
}

func TestDispatcher_EndToEnd(t *testing.T) {
	req := require.New(t)
	d := newDispatcher(t)

	out, exit, err := d.Execute(`CREATE TABLE products (Product STRING LAST indexed, Price INT LAST, Stock INT SUM)`)
	req.NoError(err)
	req.False(exit)
	req.Contains(out, "products")

	_, _, err = d.Execute(`INSERT INTO products VALUES ("Tires", 100, 10)`)
	req.NoError(err)
	_, _, err = d.Execute(`INSERT INTO products VALUES ("Tires", 150, 5)`)
	req.NoError(err)

	out, exit, err = d.Execute(`SELECT * FROM products`)
	req.NoError(err)
	req.False(exit)
	req.Contains(out, "Price=150")
	req.Contains(out, "Stock=15")

	_, exit, err = d.Execute(`exit`)
	req.NoError(err)
	req.True(exit)
}

func TestDispatcher_UnknownTable(t *testing.T) {
	req := require.New(t)
	d := newDispatcher(t)
	_, _, err := d.Execute(`INSERT INTO ghost VALUES (1)`)
	req.Error(err)
}
