package main

import (
	"context"
	"os"

	"github.com/foldtable/foldtable-db/internal/app"
	"github.com/foldtable/foldtable-db/internal/config"
	"github.com/foldtable/foldtable-db/internal/protocol"
	"github.com/foldtable/foldtable-db/internal/shell"
	"github.com/foldtable/foldtable-db/internal/store"
)

func main() {
	application, tableStore, err := initialize()
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	appErrCh := make(chan error, 1)
	go func() {
		appErrCh <- application.Run(ctx)
	}()

	// The command shell requires no network sockets: it reads stdin
	// directly and is not itself an app.Dependency, unlike the rest of
	// the deps list. Exiting it (via the "exit" verb or EOF) tears the
	// whole application down.
	dispatcher := protocol.New(tableStore)
	code := shell.New(dispatcher, os.Stdin, os.Stdout).Run()

	cancel()
	if err := <-appErrCh; err != nil {
		panic(err)
	}
	os.Exit(code)
}

func initialize() (*app.App, *store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	tableStore := store.New(cfg)

	application, err := app.CreateApp(&app.Config{
		ServiceName: "FoldTable",
		StopTimeout: 5,
	}, tableStore)
	if err != nil {
		return nil, nil, err
	}

	return application, tableStore, nil
}
