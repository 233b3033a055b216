package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blockgen/pkg/blocklist"
	"blockgen/pkg/config"
	"blockgen/pkg/logger"
	"blockgen/pkg/metrics"
	"blockgen/pkg/version"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(afero.NewOsFs()).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "blockgen",
		Short:         "Domain block list generator for Bind9, hosts file, Pi-hole, etc.",
		Version:       version.BlockgenVersion,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				slog.Error("invalid configuration", "error", err)
				return err
			}

			log, closeLog, err := logger.Setup(cfg.Logging.Level, cfg.Logging.File)
			if err != nil {
				slog.Error("failed to open log file", "file", cfg.Logging.File, "error", err)
				return err
			}
			defer func() {
				_ = closeLog()
			}()

			return run(cmd.Context(), cfg, fs, log)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cfg *config.Config, fs afero.Fs, log *slog.Logger) error {
	started := time.Now()

	formatter, err := newFormatter(cfg.Output)
	if err != nil {
		log.Error("invalid output format", "type", cfg.Output.Type, "format", cfg.Output.Format, "error", err)
		return err
	}

	locations, err := blocklist.LoadList(fs, cfg.Input.Sources, log)
	if err != nil {
		log.Error("failed to load file", "file", cfg.Input.Sources, "error", err)
		return err
	}
	local, err := blocklist.LoadList(fs, cfg.Input.LocalBlockList, log)
	if err != nil {
		log.Error("failed to load file", "file", cfg.Input.LocalBlockList, "error", err)
		return err
	}

	fetcher := blocklist.NewHTTPFetcher(blocklist.FetchOptions{
		Timeout:      cfg.Fetch.Timeout,
		UserAgent:    cfg.Fetch.UserAgent,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
		Fs:           fs,
	}, log)
	compiler := blocklist.NewCompiler(fetcher, blocklist.NewWriter(fs), log, cfg.Logging.InvalidEntryLimit)

	report, err := compiler.Compile(ctx, blocklist.Job{
		Sources:   blocklist.BuildSources(locations),
		Local:     local,
		Output:    cfg.Output.File,
		Formatter: formatter,
	})
	if err != nil {
		return err
	}

	if cfg.Metrics.File != "" {
		reg := metrics.Record(report, time.Since(started), time.Now())
		if err := metrics.WriteFile(cfg.Metrics.File, reg); err != nil {
			log.Warn("failed to write metrics", "file", cfg.Metrics.File, "error", err)
		}
	}
	return nil
}

func newFormatter(out config.OutputConfig) (*blocklist.Formatter, error) {
	mode, err := blocklist.ParseMode(out.Type)
	if err != nil {
		return nil, err
	}
	return blocklist.NewFormatter(mode, out.Format, out.ZoneFile)
}
