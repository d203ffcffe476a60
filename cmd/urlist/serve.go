package main

import (
	"context"
	"fmt"

	"github.com/aleister1102/urlist/internal/datastore"
	"github.com/aleister1102/urlist/internal/metadata"
	"github.com/aleister1102/urlist/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, listenAddr)
		},
	}
	cmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "override server_config.listen_addr")
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions, listenAddr string) error {
	cfg, log, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.ServerConfig.ListenAddr = listenAddr
	}
	log.Info().Str("version", version).Msg("Starting urlist")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, err := datastore.NewDB(cfg.StorageConfig.SQLiteDBPath, log)
	if err != nil {
		return fmt.Errorf("could not open bundle store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close bundle store")
		}
	}()

	resolver, err := metadata.NewResolver(cfg.MetadataConfig, log, metadata.WithRegisterer(reg))
	if err != nil {
		return fmt.Errorf("could not create metadata resolver: %w", err)
	}

	srv := server.New(cfg.ServerConfig, resolver, store, log,
		server.WithRegistry(reg),
		server.WithVanityConfig(cfg.VanityConfig))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerConfig.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown did not complete")
		return err
	}
	if err := <-errCh; err != nil {
		return err
	}
	log.Info().Msg("Server stopped")
	return nil
}
