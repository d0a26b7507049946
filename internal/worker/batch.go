package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/strata/internal/model"
	"github.com/ppiankov/strata/internal/source"
)

// Processor turns a document reference into a report
type Processor interface {
	Process(ctx context.Context, ref string) (*model.Report, error)
}

// DocumentJob represents one document extraction
type DocumentJob struct {
	Index     int
	Ref       string
	Processor Processor
}

// Execute executes the extraction job
func (j *DocumentJob) Execute(ctx context.Context) Result {
	report, err := j.Processor.Process(ctx, j.Ref)
	return &DocumentResult{
		Index:  j.Index,
		Ref:    j.Ref,
		Report: report,
		Error:  err,
	}
}

// DocumentResult represents the result of one extraction
type DocumentResult struct {
	Index  int // Position of Ref in the input list
	Ref    string
	Report *model.Report
	Error  error
}

// GetError returns the error from the extraction
func (r *DocumentResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple documents concurrently
type BatchProcessor struct {
	processor   Processor
	concurrency int
	onResult    func(*DocumentResult)
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor Processor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// OnResult registers a progress callback, called once per finished document
func (b *BatchProcessor) OnResult(fn func(*DocumentResult)) *BatchProcessor {
	b.onResult = fn
	return b
}

// ProcessRefs processes refs concurrently. Results come back in input order;
// documents not started before ctx was cancelled carry the context error.
func (b *BatchProcessor) ProcessRefs(ctx context.Context, refs []string) []*DocumentResult {
	if len(refs) == 0 {
		return []*DocumentResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	if b.onResult != nil {
		pool.OnResult(func(r Result) { b.onResult(r.(*DocumentResult)) })
	}
	pool.Start()

	for i, ref := range refs {
		if !pool.Submit(&DocumentJob{Index: i, Ref: ref, Processor: b.processor}) {
			break
		}
	}

	out := make([]*DocumentResult, len(refs))
	for _, r := range pool.Wait() {
		dr := r.(*DocumentResult)
		out[dr.Index] = dr
	}

	for i, r := range out {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &DocumentResult{Index: i, Ref: refs[i], Error: fmt.Errorf("not processed: %w", err)}
		}
	}
	return out
}

// ProcessFile reads document references from a list file and processes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*DocumentResult, error) {
	refs, err := ReadRefsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read document list: %w", err)
	}

	return b.ProcessRefs(ctx, refs), nil
}

// Counts returns the number of successful and failed results
func Counts(results []*DocumentResult) (succeeded, failed int) {
	for _, r := range results {
		if r.Error != nil {
			failed++
		} else {
			succeeded++
		}
	}
	return succeeded, failed
}

// ReadRefsFromFile reads document references from a file, one per line.
// Blank lines and # comments are skipped, duplicates dropped, and relative
// file paths resolved against the list file's directory.
func ReadRefsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(filePath)

	var refs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == source.StdinRef {
			// stdin cannot be shared between documents
			continue
		}
		if !source.IsURL(line) && !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}

		if !seen[line] {
			seen[line] = true
			refs = append(refs, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return refs, nil
}
