package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rgehrsitz/portasim/internal/calculation"
	"github.com/rgehrsitz/portasim/internal/config"
	"github.com/rgehrsitz/portasim/internal/store"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "portasim.yaml"

// fileExists checks if a file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// loadSettings reads --config, falling back to portasim.yaml in the working
// directory and then to built-in defaults
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" && fileExists(defaultConfigFile) {
		path = defaultConfigFile
	}
	if path == "" {
		return config.NewInputParser().LoadDefaults(), nil
	}
	return loadSettingsFrom(path)
}

func loadSettingsFrom(path string) (*config.Settings, error) {
	settings, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return settings, nil
}

func newLogger(cmd *cobra.Command) calculation.Logger {
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		return simpleCLILogger{}
	}
	return calculation.NopLogger{}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openRateStore opens the configured backend. The returned closer releases
// backend connections and is never nil.
func openRateStore(settings *config.Settings) (*store.RateStore, func(), error) {
	kv, err := store.Open(store.Options{
		Kind:        settings.Store.Kind,
		Path:        settings.Store.Path,
		RedisAddr:   settings.Store.RedisAddr,
		RedisPrefix: settings.Store.RedisPrefix,
	})
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to open rate store: %w", err)
	}
	closer := func() {}
	if c, ok := kv.(io.Closer); ok {
		closer = func() { _ = c.Close() }
	}
	return store.NewRateStoreWithDefaults(kv, settings.Rates), closer, nil
}

// remoteURL returns the --remote flag or the configured service URL
func remoteURL(cmd *cobra.Command, settings *config.Settings) string {
	if url, _ := cmd.Flags().GetString("remote"); url != "" {
		return url
	}
	return settings.Remote.BaseURL
}
