package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-talkshow/internal/data/store"
	"github.com/penwyp/go-talkshow/internal/server"
	"github.com/penwyp/go-talkshow/internal/util"
)

var (
	serveData string
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a TalkShow storage file as the timeline data source",
	Long: `Serves GET /api/sessions, /api/sessions/{id}, /api/stats and /api/timeline from a TalkShow
storage file. The file is reloaded whenever it changes on disk; a missing file is served as empty
until it is created.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveData, "data", defaultDataFile,
		"TalkShow storage file")
	serveCmd.Flags().StringVar(&serveAddr, "addr", server.DefaultAddr,
		"Listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	path := expandPath(serveData)
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	st := store.New(path)
	if err := st.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load storage file: %w", err)
		}
		util.LogWarnf("Storage file %s not found, serving no sessions until it is created", path)
	}

	watcher, err := store.NewWatcher(st)
	if err != nil {
		return fmt.Errorf("failed to watch storage file: %w", err)
	}
	defer watcher.Close()

	srv, err := server.Start(serveAddr, st)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s (%d sessions)\n", path, srv.URL(), len(st.Sessions()))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serveUntilDone(ctx, srv, watcher)
}

// serveUntilDone blocks until ctx is cancelled or the server fails, logging reloads meanwhile
func serveUntilDone(ctx context.Context, srv *server.Server, watcher *store.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			util.LogInfo("Shutting down data source")
			return srv.Shutdown(shutdownCtx)

		case err, ok := <-srv.Err():
			if !ok {
				return nil
			}
			return fmt.Errorf("data source stopped: %w", err)

		case event := <-watcher.Events():
			if event.Err != nil {
				util.LogWarnf("Keeping previous sessions: %v", event.Err)
			}
		}
	}
}
