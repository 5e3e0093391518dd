package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/concerto"
)

// ValidateOptions drives RunValidate.
type ValidateOptions struct {
	FailEarly   bool
	Format      string // "text" or "json"
	Concurrency int
}

// RunValidate validates the inputs, prints the report and returns the exit code.
func RunValidate(ctx context.Context, v *concerto.Validator, paths []string, opts ValidateOptions, stdout, stderr io.Writer) int {
	if len(paths) == 0 {
		fmt.Fprintln(stderr, "Error: No input files specified. Use --input to specify files to validate.")
		return 1
	}

	rep := v.ValidateFiles(ctx, paths, concerto.BatchOptions{
		FailEarly:   opts.FailEarly,
		Concurrency: opts.Concurrency,
	})

	if opts.Format == "json" {
		if err := WriteJSON(stdout, rep); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	} else {
		r := NewReporter(stdout)
		r.Results(rep, opts.FailEarly)
		r.Summary(rep)
	}

	if !rep.OK() {
		return 1
	}
	return 0
}
