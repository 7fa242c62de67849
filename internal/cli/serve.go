package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/phishlens/internal/metrics"
	"github.com/ppiankov/phishlens/internal/pipeline"
	"github.com/ppiankov/phishlens/internal/server"
)

var addr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the prediction API over HTTP",
	Long: `Serve starts the HTTP API:

  POST /predict   {"url": "..."} → verdict, risk level, confidence and signal details
  GET  /health    classifier / AI / VirusTotal readiness
  GET  /metrics   Prometheus metrics

Logs are written as JSON to stdout. Stop with SIGINT or SIGTERM.

Example:
  phishlens serve
  phishlens serve --addr 127.0.0.1:9000 --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr)")
	serveCmd.Flags().BoolVar(&parallel, "parallel", false, "run reputation and AI signals concurrently")
	serveCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama, gemini)")
	serveCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCommonFlags(cmd, cfg)
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = addr
	}

	logger := server.SetupLogger(cfg.Server.LogLevel, os.Stdout)
	recorder := metrics.NewRecorder()

	analyzer, err := pipeline.NewAnalyzerFromConfig(cfg, recorder, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(analyzer, time.Duration(cfg.Server.HealthCacheTTL)*time.Second, recorder, logger)
	return srv.Run(ctx, cfg.Server.Addr)
}
