package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/aleister1102/urlist/internal/metadata"
	"github.com/aleister1102/urlist/internal/models"
	"github.com/aleister1102/urlist/internal/urlhandler"
	"github.com/spf13/cobra"
)

type resolveResult struct {
	URL      string                    `json:"url"`
	Metadata *models.OpenGraphMetadata `json:"metadata,omitempty"`
	Error    string                    `json:"error,omitempty"`
	Kind     metadata.Kind             `json:"kind"`
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var (
		file        string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "resolve [url...]",
		Short: "Fetch Open Graph metadata and print one JSON object per URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(opts)
			if err != nil {
				return err
			}

			urls := append([]string{}, args...)
			if file != "" {
				fromFile, err := urlhandler.ReadURLsFromFile(file, log)
				if err != nil {
					return err
				}
				urls = append(urls, fromFile...)
			}
			if len(urls) == 0 {
				return errors.New("no URLs given; pass them as arguments or with --file")
			}

			resolver, err := metadata.NewResolver(cfg.MetadataConfig, log)
			if err != nil {
				return err
			}
			return resolveAll(cmd.Context(), resolver, urls, concurrency, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "file with one URL per line ('#' starts a comment)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of URLs resolved in parallel")
	return cmd
}

type metadataResolver interface {
	Resolve(ctx context.Context, rawURL string) (models.OpenGraphMetadata, error)
}

// resolveAll resolves urls with up to concurrency workers and writes results in input order.
func resolveAll(ctx context.Context, resolver metadataResolver, urls []string, concurrency int, out io.Writer) error {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]resolveResult, len(urls))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, u string) {
			defer wg.Done()
			defer func() { <-sem }()

			meta, err := resolver.Resolve(ctx, u)
			results[i] = resolveResult{URL: u, Kind: metadata.KindOf(err)}
			if err != nil {
				results[i].Error = err.Error()
				return
			}
			results[i].Metadata = &meta
		}(i, u)
	}
	wg.Wait()

	enc := json.NewEncoder(out)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return ctx.Err()
}
