package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/phishlens/internal/model"
)

// Scanner analyses a single URL
type Scanner interface {
	Analyze(ctx context.Context, url string) (*model.AnalysisReport, error)
}

// ScanJob represents a URL analysis job
type ScanJob struct {
	URL     string
	Scanner Scanner
}

// Execute executes the scan job
func (j *ScanJob) Execute(ctx context.Context) Result {
	report, err := j.Scanner.Analyze(ctx, j.URL)
	if err != nil {
		return &ScanResult{URL: j.URL, Error: err}
	}
	return &ScanResult{URL: j.URL, Report: report}
}

// ScanResult represents the result of a scan job
type ScanResult struct {
	URL    string
	Report *model.AnalysisReport
	Error  error
}

// GetError returns the error from the scan result
func (r *ScanResult) GetError() error {
	return r.Error
}

// BatchProcessor analyses multiple URLs concurrently
type BatchProcessor struct {
	scanner     Scanner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(scanner Scanner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		scanner:     scanner,
		concurrency: concurrency,
	}
}

// ProcessURLs analyses URLs concurrently and returns results in input order
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []*ScanResult {
	if len(urls) == 0 {
		return []*ScanResult{}
	}

	jobs := make([]Job, len(urls))
	for i, url := range urls {
		jobs[i] = &ScanJob{URL: url, Scanner: b.scanner}
	}

	results := NewPool(ctx, b.concurrency).Run(jobs)

	scanResults := make([]*ScanResult, len(results))
	for i, result := range results {
		if result == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			scanResults[i] = &ScanResult{URL: urls[i], Error: fmt.Errorf("not analysed: %w", err)}
			continue
		}
		scanResults[i] = result.(*ScanResult)
	}

	return scanResults
}

// ProcessFile reads URLs from a file and analyses them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ScanResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}

	return b.ProcessURLs(ctx, urls), nil
}

// ReadURLsFromFile reads URLs from a file (one per line)
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
