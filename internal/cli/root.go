package cli

import (
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"PayStream/internal/config"
	"PayStream/internal/observability"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "paystream",
	Short: "Stream transaction records into per-client account balances",
	Long: `PayStream applies an ordered stream of deposits, withdrawals,
disputes, resolves and chargebacks to per-client accounts and emits a
final CSV snapshot of every account touched.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to TOML config file")
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and builds the run-scoped logger. Every log
// line of a run carries the same run id.
func setup(component string) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, zerolog.Nop(), err
	}

	logger := observability.
		NewLoggerWithLevel(component, observability.ParseLevel(cfg.LogLevel)).
		With().
		Str("run_id", uuid.New().String()).
		Logger()
	return cfg, logger, nil
}

// serveObservability exposes /metrics, /healthz and /readyz. The
// listener lives for the whole process; errors are logged, not fatal,
// since the pipeline does not depend on it.
func serveObservability(addr string, health *observability.HealthChecker, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if health != nil {
		mux.HandleFunc("/healthz", health.LivenessHandler)
		mux.HandleFunc("/readyz", health.ReadinessHandler)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", addr).Msg("metrics listener started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics listener failed")
		}
	}()
}
