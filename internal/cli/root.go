// Package cli implements the pixrect command line: flag and config file
// handling, and the decompose and serve commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/maax3v3/pixrect/internal/logging"
	"github.com/maax3v3/pixrect/internal/pipeline"
	"github.com/maax3v3/pixrect/internal/server"
)

var (
	runPipeline = pipeline.Run
	runServer   = server.ListenAndServe
)

// NewRootCommand builds the pixrect command tree.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "pixrect",
		Short: "Decompose raster images into per-color pixels, boxes and rectangle sets",
		Long: `pixrect groups the solid pixels of an image into 4-connected same-color
regions and describes each region as a single pixel, a box, or a set of
non-overlapping rectangles and points that exactly reconstructs it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional YAML config file; explicit flags override it")

	rootCmd.AddCommand(newDecomposeCommand(&configPath), newServeCommand(&configPath))
	return rootCmd
}

func newDecomposeCommand(configPath *string) *cobra.Command {
	flags := DefaultConfig()
	cmd := &cobra.Command{
		Use:   "decompose",
		Short: "Decompose an image file and write its layout",
		Example: `  pixrect decompose --in=sprite.png --out=sprite.json
  pixrect decompose --in=logo.webp --format=svg --max-colors=8 > logo.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(cmd.Flags(), *configPath, flags)
			if err != nil {
				return err
			}
			if err := logging.Init(cfg.LogFile, cfg.LogLevel); err != nil {
				return fmt.Errorf("initializing logging: %w", err)
			}
			pcfg, err := cfg.Pipeline()
			if err != nil {
				return err
			}
			pcfg.Stdout = cmd.OutOrStdout()
			return runPipeline(cmd.Context(), pcfg)
		},
	}
	bindFlags(cmd.Flags(), &flags, "in", "out", "format", "preview", "background", "max-colors", "verify", "stats", "log-level", "log-file")
	return cmd
}

func newServeCommand(configPath *string) *cobra.Command {
	flags := DefaultConfig()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve decompositions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(cmd.Flags(), *configPath, flags)
			if err != nil {
				return err
			}
			if err := logging.Init(cfg.LogFile, cfg.LogLevel); err != nil {
				return fmt.Errorf("initializing logging: %w", err)
			}
			scfg, err := cfg.Server()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, scfg)
		},
	}
	bindFlags(cmd.Flags(), &flags, "addr", "max-body-bytes", "background", "max-colors", "verify", "log-level", "log-file")
	return cmd
}

// Execute runs the root command and exits with status 1 on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
