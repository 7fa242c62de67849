package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/phishlens/internal/model"
	"github.com/ppiankov/phishlens/internal/pipeline"
	"github.com/ppiankov/phishlens/internal/report"
	"github.com/ppiankov/phishlens/internal/server"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	noFooter    bool
	parallel    bool
	llmProvider string
	llmModel    string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Analyse a single URL and print its phishing verdict",
	Long: `Scan analyses a single URL:
- Extracts lexical features from the URL string
- Runs the statistical classifier
- Looks the URL up on VirusTotal (requires VIRUSTOTAL_API_KEY)
- Asks the configured AI provider for a structured assessment
- Aggregates everything into a verdict, risk level and confidence

The page itself is never fetched.

Example:
  phishlens scan http://paypal-secure-login.example.ru/verify
  phishlens scan https://example.com --json report.json --md report.md
  phishlens scan https://example.com --llm-provider anthropic`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Output flags
	scanCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	scanCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	scanCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Execution flags
	scanCmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "overall analysis timeout")
	scanCmd.Flags().BoolVar(&parallel, "parallel", false, "run reputation and AI signals concurrently")

	// LLM flags
	scanCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama, gemini)")
	scanCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

// applyCommonFlags layers explicitly set command flags over cfg
func applyCommonFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
	if flags.Changed("no-footer") {
		cfg.Output.IncludeFooter = !noFooter
	}
	if flags.Changed("parallel") {
		cfg.Concurrency.ParallelSignals = parallel
	}
}

// cliLogger logs to stderr; quiet unless verbose
func cliLogger(cfg *model.Config) *slog.Logger {
	if !cfg.Output.Verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: server.ParseLevel(cfg.Server.LogLevel)}))
}

func runScan(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCommonFlags(cmd, cfg)

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", url)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "LLM provider: %s\n", displayOr(cfg.LLM.Provider, "disabled"))
		fmt.Fprintf(os.Stderr, "Parallel signals: %v\n", cfg.Concurrency.ParallelSignals)
		fmt.Fprintln(os.Stderr)
	}

	analyzer, err := pipeline.NewAnalyzerFromConfig(cfg, nil, cliLogger(cfg))
	if err != nil {
		return err
	}

	result, err := analyzer.Analyze(ctx, url)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if cfg.Output.Verbose {
		printSignal(os.Stderr, "Classifier", result.Classifier)
		printSignal(os.Stderr, "VirusTotal", result.Reputation)
		printSignal(os.Stderr, "AI analysis", result.Narrative)
		fmt.Fprintln(os.Stderr)
	}

	renderer := report.NewRenderer(cfg.Output.IncludeFooter)
	if err := writeReports(renderer, result, outJSON, outMD, cfg.Output.Verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	renderer.RenderSummary(cmd.OutOrStdout(), result)
	return nil
}

func writeReports(renderer *report.Renderer, r *model.AnalysisReport, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := renderer.RenderJSON(r, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := renderer.RenderMarkdown(r, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}
	return nil
}

func printSignal(w io.Writer, name string, s model.SignalResult) {
	if !s.Available {
		fmt.Fprintf(w, "✗ %-12s unavailable: %s\n", name, s.Detail)
		return
	}
	fmt.Fprintf(w, "✓ %-12s %s (%d%%)\n", name, s.Verdict, s.Confidence)
}

func displayOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
