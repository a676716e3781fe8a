package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/verinews/internal/model"
	"github.com/ppiankov/verinews/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	analyzeClaim    string
	analyzeArticles string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Judge a claim against articles you supply",
	Long: `Analyze skips search and scraping: it judges the claim against the
articles in a JSON file and aggregates a verdict. Nothing is stored.

The file holds an array of {"url", "title", "content", "source",
"published_date"} objects, such as the output of 'verinews search --scrape'.

Example:
  verinews analyze --claim "NASA found water on Mars" --articles articles.json`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeClaim, "claim", "", "claim to verify")
	analyzeCmd.Flags().StringVar(&analyzeArticles, "articles", "", "JSON file with the articles to judge")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "write the JSON result to this path (- for stdout)")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "overall analysis timeout")
	_ = analyzeCmd.MarkFlagRequired("claim")
	_ = analyzeCmd.MarkFlagRequired("articles")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	articles, err := readArticles(analyzeArticles)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	// No search, scraping or storage happens here
	cfg.Store.Driver = "memory"

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	p, err := pipeline.NewPipeline(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	res, analyzeErr := p.Analyze(ctx, analyzeClaim, articles)
	if err := render(res, outJSON); err != nil {
		return err
	}
	if analyzeErr != nil {
		return fmt.Errorf("analysis failed: %w", analyzeErr)
	}
	return nil
}

// readArticles loads a JSON array of articles
func readArticles(path string) ([]model.EvidenceArticle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read articles: %w", err)
	}
	var articles []model.EvidenceArticle
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("parse articles %s: %w", path, err)
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("no articles in %s", path)
	}
	return articles, nil
}
