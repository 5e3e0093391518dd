package concerto

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/concerto/pkg/domain"
	"golang.org/x/sync/errgroup"
)

// Status is the outcome of validating one input.
type Status string

const (
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
	StatusSkipped Status = "skipped"
)

// Result reports one input of a batch.
type Result struct {
	Source   string        `json:"source"`
	Status   Status        `json:"status"`
	Kind     string        `json:"kind,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
	Err      error         `json:"-"`
}

// Report summarizes a batch. Results keep the input order.
type Report struct {
	Results    []Result `json:"results"`
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Skipped    int      `json:"skipped"`
}

// OK reports whether every input was validated successfully.
func (r *Report) OK() bool { return r.Failed == 0 && r.Skipped == 0 }

// BatchOptions tunes ValidateFiles.
type BatchOptions struct {
	// FailEarly stops at the first invalid input; the rest are skipped.
	// Inputs are then processed one at a time, in order.
	FailEarly bool
	// Concurrency caps parallel validations (default 4).
	Concurrency int
}

// ValidateFiles reads and validates every path. Files ending in .yaml or
// .yml are parsed as YAML, everything else as JSON.
func (v *Validator) ValidateFiles(ctx context.Context, paths []string, opts BatchOptions) *Report {
	results := make([]Result, len(paths))

	if opts.FailEarly {
		failed := false
		for i, p := range paths {
			if failed || ctx.Err() != nil {
				results[i] = skipped(p, ctx.Err())
				continue
			}
			results[i] = v.validateFile(ctx, p)
			failed = results[i].Status == StatusInvalid
		}
		return summarize(results)
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = 4
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range paths {
		g.Go(func() error {
			if gctx.Err() != nil {
				results[i] = skipped(p, gctx.Err())
				return nil
			}
			results[i] = v.validateFile(gctx, p)
			return nil
		})
	}
	g.Wait()
	return summarize(results)
}

func (v *Validator) validateFile(ctx context.Context, path string) Result {
	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		return invalid(path, fmt.Errorf("failed to read file: %w", err), start)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = v.validateYAMLContext(ctx, path, data)
	default:
		err = v.ValidateContext(ctx, path, data)
	}
	if err != nil {
		return invalid(path, err, start)
	}
	return Result{Source: path, Status: StatusValid, Duration: time.Since(start)}
}

func invalid(path string, err error, start time.Time) Result {
	r := Result{Source: path, Status: StatusInvalid, Error: err.Error(), Err: err, Duration: time.Since(start)}
	if k := domain.KindOf(err); k != 0 {
		r.Kind = k.Code()
	}
	return r
}

func skipped(path string, cause error) Result {
	r := Result{Source: path, Status: StatusSkipped}
	if cause != nil {
		r.Error = cause.Error()
		r.Err = cause
	}
	return r
}

func summarize(results []Result) *Report {
	rep := &Report{Results: results, Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusValid:
			rep.Successful++
		case StatusInvalid:
			rep.Failed++
		case StatusSkipped:
			rep.Skipped++
		}
	}
	return rep
}
