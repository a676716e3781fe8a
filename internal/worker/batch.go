package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/verinews/internal/model"
)

// Verifier verifies a single claim end to end
type Verifier interface {
	Verify(ctx context.Context, claim string) (*model.VerificationResult, error)
}

// VerifyJob verifies one claim from a batch
type VerifyJob struct {
	Claim    string
	Verifier Verifier
}

// Execute runs the verification
func (j *VerifyJob) Execute(ctx context.Context) Result {
	res, err := j.Verifier.Verify(ctx, j.Claim)
	return &VerifyResult{Claim: j.Claim, Result: res, Error: err}
}

// VerifyResult is the outcome of one batch entry. Result may be non-nil
// alongside Error when the run failed after producing partial timings.
type VerifyResult struct {
	Claim  string
	Result *model.VerificationResult
	Error  error
}

// GetError returns the verification error
func (r *VerifyResult) GetError() error {
	return r.Error
}

// BatchProcessor verifies many claims with bounded concurrency
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessClaims verifies claims concurrently; results follow input order
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []string) []*VerifyResult {
	if len(claims) == 0 {
		return []*VerifyResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, claim := range claims {
		pool.Submit(&VerifyJob{Claim: claim, Verifier: b.verifier})
	}

	results := pool.Wait()

	out := make([]*VerifyResult, len(results))
	for i, r := range results {
		if vr, ok := r.(*VerifyResult); ok {
			out[i] = vr
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = errors.New("claim was not processed")
		}
		out[i] = &VerifyResult{Claim: claims[i], Error: fmt.Errorf("not run: %w", err)}
	}
	return out
}

// ProcessFile reads claims from a file and verifies them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*VerifyResult, error) {
	claims, err := ReadClaimsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	return b.ProcessClaims(ctx, claims), nil
}

// ReadClaimsFromFile reads one claim per line. Blank lines and lines starting
// with # are skipped; repeated claims are kept once.
func ReadClaimsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			claims = append(claims, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return claims, nil
}
