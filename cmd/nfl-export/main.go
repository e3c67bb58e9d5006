// Command nfl-export builds normalized NFL stat tables from nflverse release
// data. The export command fetches and writes the CSV tables, clean enforces
// primary-key integrity on the written files, load copies them into
// PostgreSQL, and serve exposes a read-only preview API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gridstats/nfl-export/internal/api"
	"github.com/gridstats/nfl-export/internal/clean"
	"github.com/gridstats/nfl-export/internal/config"
	"github.com/gridstats/nfl-export/internal/export"
	"github.com/gridstats/nfl-export/internal/nflverse"
	"github.com/gridstats/nfl-export/internal/pgload"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))

var (
	flagStartYear int
	flagEndYear   int
	flagOutput    string
	flagPort      int
)

func main() {
	// Optional; real deployments set env vars directly.
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "nfl-export",
		Short:         "Export, clean, load and preview NFL stat tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch nflverse data and write the output tables",
		RunE:  runExport,
	}
	exportCmd.Flags().IntVar(&flagStartYear, "start-year", 0, "first season to export (overrides START_YEAR)")
	exportCmd.Flags().IntVar(&flagEndYear, "end-year", 0, "last season to export (overrides END_YEAR)")
	exportCmd.Flags().StringVar(&flagOutput, "output", "", "output directory (overrides OUTPUT_DIR)")

	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Enforce primary-key integrity on the written tables",
		RunE:  runClean,
	}
	cleanCmd.Flags().StringVar(&flagOutput, "output", "", "output directory (overrides OUTPUT_DIR)")

	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Copy the written tables into PostgreSQL",
		RunE:  runLoad,
	}
	loadCmd.Flags().StringVar(&flagOutput, "output", "", "output directory (overrides OUTPUT_DIR)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a read-only preview API over the written tables",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&flagOutput, "output", "", "output directory (overrides OUTPUT_DIR)")
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "listen port (overrides API_PORT)")

	root.AddCommand(exportCmd, cleanCmd, loadCmd, serveCmd)

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// setup loads config, applies flag overrides, and returns a context that
// cancels on interrupt.
func setup() (context.Context, context.CancelFunc, *config.Config, error) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)

	cfg, err := config.Load()
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	if flagStartYear != 0 {
		cfg.StartYear = flagStartYear
	}
	if flagEndYear != 0 {
		cfg.EndYear = flagEndYear
	}
	if flagOutput != "" {
		cfg.OutputDir = flagOutput
	}
	if flagPort != 0 {
		cfg.APIPort = flagPort
	}
	return ctx, cancel, cfg, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel, cfg, err := setup()
	if err != nil {
		return err
	}
	defer cancel()

	client := nflverse.NewClient(cfg.NflverseBaseURL, cfg.RateLimitRequests, cfg.HTTPTimeout, logger)
	result, err := export.New(cfg, client, logger).Run(ctx)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		logger.Error("export error", "error", e)
	}
	logger.Info("export finished", "summary", result.Summary())
	if len(result.Errors) > 0 {
		return fmt.Errorf("export completed with %d errors", len(result.Errors))
	}
	return nil
}

func runClean(cmd *cobra.Command, args []string) error {
	_, cancel, cfg, err := setup()
	if err != nil {
		return err
	}
	defer cancel()

	result := clean.New(cfg.OutputDir, logger).CleanAll()
	for _, e := range result.Errors {
		logger.Error("clean error", "error", e)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("clean completed with %d errors", len(result.Errors))
	}
	return nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx, cancel, cfg, err := setup()
	if err != nil {
		return err
	}
	defer cancel()

	loader, err := pgload.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer loader.Close()

	return loader.LoadAll(ctx)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel, cfg, err := setup()
	if err != nil {
		return err
	}
	defer cancel()

	addr := net.JoinHostPort(cfg.APIHost, strconv.Itoa(cfg.APIPort))
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("preview api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutCancel()
		return srv.Shutdown(shutCtx)
	}
}
