package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"PayStream/internal/account"
	"PayStream/internal/ingestion"
	"PayStream/internal/observability"
	"PayStream/internal/pipeline"
	"PayStream/internal/report"
)

var processCmd = &cobra.Command{
	Use:   "process FILE",
	Short: "Process a CSV transaction file and print the account report",
	Long: `Reads transaction records from FILE in order, applies them to the
account store and prints the final snapshot to stdout. SIGINT/SIGTERM
cancel the stream cleanly: transactions already applied stay applied
and are included in the report.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup("process")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
		serveObservability(cfg.Metrics.Addr, nil, logger)
	}

	store := account.NewManager()
	source := ingestion.NewCSVSource(args[0], logger)

	logger.Info().Str("file", args[0]).Int("channel_size", cfg.ChannelSize).Msg("processing started")
	runErr := pipeline.New(source, store, cfg.ChannelSize, logger, metrics).Run(ctx)

	if err := finishRun(logger, store, metrics, os.Stdout, runErr); err != nil {
		return err
	}
	logger.Info().Int("accounts", store.Len()).Msg("processing complete")
	return nil
}

// finishRun logs a failed stream, snapshots the store and renders the
// CSV report. Partial streams (cancellation, fatal decode) still report
// whatever was fully applied; a report-write failure is joined with the
// stream error so neither masks the other.
func finishRun(log zerolog.Logger, store *account.Manager, metrics *observability.Metrics, w io.Writer, runErr error) error {
	if runErr != nil {
		log.Error().Err(runErr).Msg("ingestion failed")
	}

	start := time.Now()
	snapshot := store.Snapshot()
	if metrics != nil {
		metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	}
	if err := report.Write(w, snapshot); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}
