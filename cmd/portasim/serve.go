package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rgehrsitz/portasim/internal/api"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the bank catalog, parser and simulation over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd); err != nil {
			log.Fatal(err)
		}
	},
}

func runServe(cmd *cobra.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = settings.Server.Addr
	}

	rates, closeStore, err := openRateStore(settings)
	if err != nil {
		return err
	}
	defer closeStore()

	server := api.NewServer(*settings, rates)
	server.SetLogger(newLogger(cmd))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("portasim service listening on %s (%d bank(s), %s rate store)", addr, server.Catalog().Len(), settings.Store.Kind)
	return server.ListenAndServe(ctx, addr)
}
