package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/verinews/internal/model"
)

// Renderer writes verification results as JSON and as a short human summary
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
}

// NewRenderer creates a renderer; nil writers default to the process streams
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Renderer{stdout: stdout, stderr: stderr}
}

// RenderJSON writes v as indented JSON to path, or to stdout for "" and "-"
func (r *Renderer) RenderJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		_, err = r.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderSummary prints the verdict and per-source judgments to stderr
func (r *Renderer) RenderSummary(res *model.VerificationResult) {
	w := r.stderr
	if res.Status == model.StatusError {
		_, _ = fmt.Fprintf(w, "✗ %s: %s\n", res.Message, res.Error)
		return
	}

	_, _ = fmt.Fprintf(w, "\nClaim:      %s\n", res.Claim)
	_, _ = fmt.Fprintf(w, "Verdict:    %s (%.1f%%)\n", res.Verdict, res.Confidence)
	_, _ = fmt.Fprintf(w, "Category:   %s\n", res.Category)
	_, _ = fmt.Fprintf(w, "%s\n", res.Conclusion)
	_, _ = fmt.Fprintf(w, "%s\n", res.Explanation)

	if len(res.Sources) > 0 {
		_, _ = fmt.Fprintf(w, "\nSources (%d):\n", len(res.Sources))
		for _, s := range res.Sources {
			marker := " "
			if s.Relevant {
				marker = "•"
			}
			flag := ""
			if s.Authoritative {
				flag = " [authoritative]"
			}
			_, _ = fmt.Fprintf(w, "  %s %-8s %5.1f  %s%s\n", marker, s.Support, s.Confidence, sourceLabel(s), flag)
		}
	}

	t := res.Timings
	_, _ = fmt.Fprintf(w, "\nTimings: search %.2fs, scraping %.2fs, analysis %.2fs, database %.2fs\n",
		t.Search, t.Scraping, t.Analysis, t.Database)
}

func sourceLabel(s model.SourceJudgment) string {
	label := s.Source
	if s.Title != "" {
		label += ": " + s.Title
	}
	return strings.TrimPrefix(label, ": ")
}
