// Package cli wires the cobra command tree for the similarity tool.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"go-image-similarity/internal/cache"
	"go-image-similarity/internal/catalog"
	"go-image-similarity/internal/container"
	"go-image-similarity/internal/engine"
	"go-image-similarity/internal/logger"
	"go-image-similarity/internal/storage"
)

// NewRootCmd creates the root cobra command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "similarity",
		Short: "Score visual similarity between two images",
		Long: `Scores how closely a candidate image reproduces a target image across
perceptual, semantic, structural, color and texture axes, and serves the
prompt-guessing game built on that score.`,
	}

	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newTargetsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newCompareCmd() *cobra.Command {
	var (
		fast     bool
		explain  bool
		asJSON   bool
		cacheDir string
	)

	cmd := &cobra.Command{
		Use:   "compare <target> <candidate>",
		Short: "Compare two local image files",
		Long: `Compare a candidate image against a target image and print the
similarity report.

Examples:
  # Full report with per-axis explanations
  similarity compare target.png candidate.png --explain

  # Machine-readable output
  similarity compare target.png candidate.png --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewLogger()
			fetcher := storage.NewLocalFetcher("")

			target, err := fetcher.FetchImage(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load target: %w", err)
			}
			candidate, err := fetcher.FetchImage(context.Background(), args[1])
			if err != nil {
				return fmt.Errorf("failed to load candidate: %w", err)
			}

			opts := engine.DefaultOptions()
			if fast {
				opts = engine.FastOptions()
			}
			if cacheDir != "" {
				featureCache, err := cache.New(cacheDir, log)
				if err != nil {
					return fmt.Errorf("failed to open feature cache: %w", err)
				}
				opts = opts.WithCache(featureCache)
			}
			eng := engine.New(opts, log)
			defer eng.Close()

			report, err := eng.Compare(target, candidate)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Combined:   %.1f%%\n", report.Combined*100)
			fmt.Fprintf(out, "Perceptual: %.1f%%\n", report.Perceptual*100)
			fmt.Fprintf(out, "Semantic:   %.1f%%\n", report.Semantic*100)
			fmt.Fprintf(out, "Structural: %.1f%%\n", report.Structural*100)
			fmt.Fprintf(out, "Color:      %.1f%%\n", report.ColorAdvanced*100)
			fmt.Fprintf(out, "Texture:    %.1f%%\n", report.Texture*100)

			if explain {
				fmt.Fprintln(out)
				for _, line := range engine.Explain(report) {
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fast, "fast", false, "trade keypoint matching for latency")
	cmd.Flags().BoolVar(&explain, "explain", false, "print a per-axis explanation")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw report as JSON")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "persist derived descriptors under this directory")

	return cmd
}

func newTargetsCmd() *cobra.Command {
	var difficulty string

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List the built-in game targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := catalog.NewBuiltin()
			targets := c.All()
			if difficulty != "" {
				targets = c.ByDifficulty(difficulty)
			}

			out := cmd.OutOrStdout()
			for _, t := range targets {
				fmt.Fprintf(out, "%-8s %-8s %s\n", t.ID, t.Difficulty, t.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&difficulty, "difficulty", "", "filter by difficulty (Easy|Medium|Hard)")

	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP server exposing the comparison and game endpoints.
Configuration comes from the environment (PORT, STORAGE_BACKEND, ...).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := container.NewContainer()
			if err != nil {
				return fmt.Errorf("failed to initialize container: %w", err)
			}
			cfg := c.Config()

			server := &http.Server{
				Addr:         cfg.ServerAddress(),
				Handler:      c.Handler(),
				ReadTimeout:  cfg.RequestTimeout,
				WriteTimeout: cfg.RequestTimeout,
			}

			c.Logger().WithFields(map[string]interface{}{
				"address": cfg.ServerAddress(),
				"backend": cfg.StorageBackend,
			}).Info("Starting HTTP server")

			return server.ListenAndServe()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("similarity v1.0.0")
		},
	}
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
