package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/verinews/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	searchMax     int
	searchScrape  bool
	searchJSON    string
	searchTimeout time.Duration
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for news articles without analyzing them",
	Long: `Search runs only the search stage, optionally fetching each article's text.

The JSON output can be fed back into 'verinews analyze --articles'.

Example:
  verinews search "Mars water discovery" --max-results 8
  verinews search "Mars water discovery" --scrape --json articles.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchMax, "max-results", 5, "number of results (1-20)")
	searchCmd.Flags().BoolVar(&searchScrape, "scrape", false, "fetch and extract each article's content")
	searchCmd.Flags().StringVar(&searchJSON, "json", "-", "write the JSON articles to this path (- for stdout)")
	searchCmd.Flags().StringVar(&backend, "backend", "", "page fetch backend: http or browser")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", time.Minute, "overall search timeout")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if backend != "" {
		cfg.Fetch.Backend = backend
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), searchTimeout)
	defer cancel()

	p, err := pipeline.NewPipeline(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	articles, err := p.Search(ctx, args[0], searchMax, searchScrape)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Found %d articles\n", len(articles))
	if err := pipeline.NewRenderer(nil, nil).RenderJSON(articles, searchJSON); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}
