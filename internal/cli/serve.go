package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/cobra"

	"PayStream/internal/account"
	"PayStream/internal/ingestion"
	"PayStream/internal/observability"
	"PayStream/internal/pipeline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Consume transaction records from NATS JetStream until interrupted",
	Long: `Long-running mode: records arrive as JSON messages on a JetStream
subject instead of a CSV file. Metrics and health probes are served over
HTTP. On SIGINT/SIGTERM the stream drains cleanly and the final account
report is printed to stdout.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup("serve")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()
	health := observability.NewHealthChecker()
	serveObservability(cfg.Metrics.Addr, health, logger)

	nc, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("connect NATS %s: %w", cfg.NATS.URL, err)
	}
	defer nc.Drain()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("jetstream context: %w", err)
	}

	store := account.NewManager()
	source := ingestion.NewNATSSource(js, cfg.NATS.Stream, cfg.NATS.Subject, cfg.NATS.Consumer, logger)

	logger.Info().Str("nats_url", cfg.NATS.URL).Msg("serve mode started")
	health.SetReady(true)
	runErr := pipeline.New(source, store, cfg.ChannelSize, logger, metrics).Run(ctx)
	health.SetReady(false)

	if err := finishRun(logger, store, metrics, os.Stdout, runErr); err != nil {
		return err
	}
	logger.Info().Int("accounts", store.Len()).Msg("serve mode drained")
	return nil
}
