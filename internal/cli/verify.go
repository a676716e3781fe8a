package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/verinews/internal/model"
	"github.com/ppiankov/verinews/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outJSON    string
	maxResults int
	backend    string
	timeout    time.Duration
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <claim>",
	Short: "Verify a single claim against news coverage",
	Long: `Verify runs the full pipeline for one claim:
- Search for recent articles about the claim
- Fetch and extract each article's text
- Ask the configured model whether each source supports the claim
- Aggregate the judgments into a weighted verdict
- Store the claim, its sources and the per-source analyses

Example:
  verinews verify "NASA confirmed water ice on the Moon in 2024"
  verinews verify "The WHO declared the pandemic over" --json result.json
  verinews verify "Reuters reported record heat in July" --backend browser`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&outJSON, "json", "", "write the JSON result to this path (- for stdout)")
	verifyCmd.Flags().IntVar(&maxResults, "max-results", 0, "number of search results to analyze (1-20, default from config)")
	verifyCmd.Flags().StringVar(&backend, "backend", "", "page fetch backend: http or browser")
	verifyCmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "overall verification timeout")
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyRunFlags(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying: %s\n", args[0])
		fmt.Fprintf(os.Stderr, "Search:    %s (%d results)\n", cfg.Search.Provider, cfg.Search.MaxResults)
		fmt.Fprintf(os.Stderr, "Model:     %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Store:     %s\n\n", cfg.Store.Driver)
	}

	p, err := pipeline.NewPipeline(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	res, verifyErr := p.Verify(ctx, args[0])
	if err := render(res, outJSON); err != nil {
		return err
	}
	if verifyErr != nil {
		return fmt.Errorf("verification failed: %w", verifyErr)
	}
	return nil
}

// applyRunFlags overlays command flags that were set on the resolved config
func applyRunFlags(cfg *model.Config) {
	if maxResults > 0 {
		cfg.Search.MaxResults = maxResults
	}
	if backend != "" {
		cfg.Fetch.Backend = backend
	}
	cfg.Output.Verbose = verbose
}

// render prints the summary and, when requested, the JSON result
func render(res *model.VerificationResult, jsonPath string) error {
	if res == nil {
		return nil
	}
	renderer := pipeline.NewRenderer(nil, nil)
	renderer.RenderSummary(res)
	if jsonPath == "" {
		return nil
	}
	if err := renderer.RenderJSON(res, jsonPath); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if jsonPath != "-" {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", jsonPath)
	}
	return nil
}
