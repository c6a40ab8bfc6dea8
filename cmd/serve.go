package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zjrosen/impexls/internal/config"
	"github.com/zjrosen/impexls/internal/flags"
	"github.com/zjrosen/impexls/internal/impex"
	"github.com/zjrosen/impexls/internal/log"
	"github.com/zjrosen/impexls/internal/lsp"
	"github.com/zjrosen/impexls/internal/tracing"
	"github.com/zjrosen/impexls/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Language Server Protocol over stdio",
	Long: `Serve the Language Server Protocol over stdin/stdout.

Editors start this command directly. Nothing but protocol messages is written
to stdout; enable --debug to get a log file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := serve(ctx, cfg, configPath, os.Stdin, os.Stdout)
	if errors.Is(err, lsp.ErrExitWithoutShutdown) {
		log.Warn(log.CatLSP, "client exited without shutdown")
	}
	return err
}

// serve runs one language server session on r/w until the client exits or
// ctx is cancelled.
func serve(ctx context.Context, c config.Config, cfgPath string, r io.Reader, w io.Writer) error {
	reg := flags.NewWithDefaults(c.Flags)
	instanceID := uuid.NewString()

	provider, err := tracing.NewProvider(c.TraceConfig(instanceID))
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.ErrorErr(log.CatTrace, "tracing shutdown failed", err)
		}
	}()

	svc := impex.NewService(
		c.IndexOptions(reg.Enabled(flags.FlagCommentFilter)),
		impex.WithTracer(provider.Tracer()),
	)
	defer svc.Close()

	srv := lsp.NewServer(svc, w,
		lsp.WithTracer(provider.Tracer()),
		lsp.WithInstanceID(instanceID),
		lsp.WithVersion(version),
	)
	log.Info(log.CatLSP, "server starting",
		"version", version, "instance", instanceID, "tracing", provider.Enabled(), "config", cfgPath)

	if c.WatchConfig && reg.Enabled(flags.FlagConfigWatch) && cfgPath != "" {
		stopWatch, err := watchConfig(ctx, cfgPath, srv)
		if err != nil {
			log.ErrorErr(log.CatWatcher, "config watch disabled", err, "path", cfgPath)
		} else {
			defer stopWatch()
		}
	}

	return srv.Run(ctx, r)
}

// reconfigurer is the part of the server the config watcher drives.
type reconfigurer interface {
	Reconfigure(ctx context.Context, opts impex.Options, reason string)
}

// watchConfig reloads path whenever it changes and pushes the new index
// options into srv. Invalid files are logged and ignored.
func watchConfig(ctx context.Context, path string, srv reconfigurer) (func(), error) {
	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		return nil, err
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				applyConfigFile(ctx, path, srv)
			}
		}
	}()

	return func() {
		cancel()
		<-done
		_ = w.Stop()
	}, nil
}

func applyConfigFile(ctx context.Context, path string, srv reconfigurer) {
	c, err := reloadConfig(path)
	if err != nil {
		log.Warn(log.CatConfig, "ignoring config change", "path", path, "error", err)
		return
	}
	reg := flags.NewWithDefaults(c.Flags)
	srv.Reconfigure(ctx, c.IndexOptions(reg.Enabled(flags.FlagCommentFilter)), "config file changed")
}
