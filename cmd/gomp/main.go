// Command gomp browses and edits recipes on a GOMP server from the terminal
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/gomp-client/config"
	"github.com/pageza/gomp-client/internal/client"
	"github.com/pageza/gomp-client/internal/credentials"
	"github.com/pageza/gomp-client/internal/liststate"
	"github.com/pageza/gomp-client/internal/render"
)

func main() {
	log.SetPrefix("gomp: ")
	log.SetFlags(0)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer st.Close()

	creds := credentials.NewStoreProvider(st.local)
	api := client.New(cfg.APIBaseURL, creds, &http.Client{Timeout: cfg.HTTPTimeout})
	manager := liststate.NewManager(st.session, api, render.NewText(os.Stdout), liststate.Options{
		PageSize: cfg.PageSize,
		Columns:  cfg.Columns,
	})

	a := &app{
		api:     api,
		creds:   creds,
		manager: manager,
		out:     os.Stdout,
	}
	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
