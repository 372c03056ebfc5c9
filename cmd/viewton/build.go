package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrewvolostnykh/viewton/config"
	"github.com/andrewvolostnykh/viewton/document"
	"github.com/andrewvolostnykh/viewton/output"
	"github.com/andrewvolostnykh/viewton/source"
	"github.com/spf13/cobra"
)

var watch bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render a YAML query document",
	Long: `Render a YAML query document.

With --watch the document is rendered again every time it changes, until
the process is interrupted.`,
	Example: `  viewton build -f users.yaml
  viewton build -f users.yaml -o url --base-url http://localhost:8080/api/users
  viewton build -f users.yaml --watch`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&inputFile, "file", "f", "", "query document path")
	buildCmd.Flags().BoolVarP(&watch, "watch", "w", false, "render again on every change")
	buildCmd.MarkFlagRequired("file") //nolint:errcheck
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	if !watch {
		return renderDocument(cmd, cfg, inputFile)
	}

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Setup signal handling to catch Ctrl+C (SIGINT) or Terminate (SIGTERM)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal. shutting down.", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return watchDocument(ctx, cmd, cfg, logger, source.NewFileWatcher(logger, inputFile))
}

func watchDocument(ctx context.Context, cmd *cobra.Command, cfg config.Config, logger *slog.Logger, w *source.FileWatcher) error {
	changes := make(chan struct{}, 1)
	errChan := make(chan error, 1)

	go func() {
		errChan <- w.Watch(ctx, changes)
	}()

	logger.Info("watching query document.", "path", w.FilePath())

	for {
		select {
		case <-changes:
			// A broken document while editing is expected; keep watching.
			if err := renderDocument(cmd, cfg, w.FilePath()); err != nil {
				logger.Error("cannot render query document.", "path", w.FilePath(), "error", err)
			}
		case err := <-errChan:
			if errors.Is(err, context.Canceled) {
				logger.Info("watcher stopped.")
				return nil
			}
			return err
		}
	}
}

func renderDocument(cmd *cobra.Command, cfg config.Config, path string) error {
	doc, err := document.Load(path)
	if err != nil {
		return err
	}

	p, err := doc.Build()
	if err != nil {
		return err
	}

	return output.Render(cmd.OutOrStdout(), p, cfg.Output)
}
