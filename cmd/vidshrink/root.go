package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/vidshrink/internal/check"
	"github.com/backmassage/vidshrink/internal/config"
	"github.com/backmassage/vidshrink/internal/display"
	"github.com/backmassage/vidshrink/internal/ffmpeg"
	"github.com/backmassage/vidshrink/internal/logging"
	"github.com/backmassage/vidshrink/internal/metrics"
	"github.com/backmassage/vidshrink/internal/pipeline"
	"github.com/backmassage/vidshrink/internal/probe"
	"github.com/backmassage/vidshrink/internal/report"
)

// newRootCmd builds the command tree. Global flags live on the root as
// persistent flags and are shared by both modes.
func newRootCmd(stdout io.Writer) *cobra.Command {
	cfg := config.DefaultConfig()

	root := &cobra.Command{
		Use:           "vidshrink <check|compress> <pattern>...",
		Short:         "Batch re-encode videos to HEVC in place",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Anything that is not a known subcommand lands here as a bad mode.
		Args: cobra.ArbitraryArgs,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	flags := config.BindFlags(root.PersistentFlags(), &cfg)

	root.RunE = func(cmd *cobra.Command, args []string) error {
		if flags.ShowVersion {
			printVersion(stdout)
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("%w: missing mode", config.ErrInvalidMode)
		}
		_, err := config.ParseMode(args[0])
		return err
	}

	for _, m := range []struct {
		mode  config.Mode
		short string
	}{
		{config.ModeCheck, "List the files each pattern matches; nothing is modified"},
		{config.ModeCompress, "Transcode matched files to HEVC and replace the originals"},
	} {
		mode := m.mode
		root.AddCommand(&cobra.Command{
			Use:   string(mode) + " <pattern>...",
			Short: m.short,
			Args:  cobra.ArbitraryArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if flags.ShowVersion {
					printVersion(stdout)
					return nil
				}
				flags.Apply(&cfg)
				cfg.Mode = mode
				cfg.SetPatterns(args)
				if err := cfg.Validate(); err != nil {
					return err
				}
				return execute(cmd.Context(), &cfg, stdout)
			},
		})
	}
	return root
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "vidshrink %s (%s)\n", version, commit)
}

// execute runs a validated configuration. It returns an error only for
// startup failures; file and pattern failures are logged by the pipeline.
func execute(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	// Phase 1: logger. Errors before this point go to stderr via run().
	log, err := logging.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	display.PrintBanner(stdout)
	log.Info("vidshrink %s (%s)", version, commit)
	if wd, err := os.Getwd(); err == nil {
		log.Debug("cwd %s", wd)
	}

	// Phase 2: fail fast if the encoder toolchain is unusable.
	if cfg.Mode == config.ModeCompress {
		if err := check.CheckDeps(ctx, cfg); err != nil {
			return err
		}
	}

	// Phase 3: SIGINT/SIGTERM kill the running encoder and stop the loop.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	stopWarn := context.AfterFunc(ctx, func() {
		log.Warn("Received interrupt, discarding current encode…")
	})
	defer stopWarn()

	// Phase 4: run.
	var rec *metrics.Recorder
	if cfg.MetricsFile != "" {
		rec = metrics.New()
	}
	proc := &pipeline.Processor{
		Prober:  probe.FFprobe{Bin: cfg.FFprobeBin},
		Encoder: ffmpeg.FFmpeg{Bin: cfg.FFmpegBin},
		Log:     log,
		Metrics: rec,
	}
	rep := pipeline.Run(ctx, cfg, proc, log)

	// Phase 5: run artifacts. Failures here do not change the exit code.
	if cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error("Write metrics %s: %v", cfg.MetricsFile, err)
		} else {
			log.Debug("Metrics written to %s", cfg.MetricsFile)
		}
	}
	if cfg.ReportFile != "" {
		if err := report.Write(cfg.ReportFile, rep); err != nil {
			log.Error("Write report %s: %v", cfg.ReportFile, err)
		} else {
			log.Info("Report written to %s", cfg.ReportFile)
		}
	}
	return nil
}
