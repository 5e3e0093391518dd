package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/concerto"
	"github.com/muesli/termenv"
)

// Reporter prints validation results for humans.
type Reporter struct {
	w   io.Writer
	out *termenv.Output
}

// NewReporter writes to w. Colors follow the terminal profile of w
// unless a termenv.WithProfile option says otherwise.
func NewReporter(w io.Writer, opts ...termenv.OutputOption) *Reporter {
	return &Reporter{w: w, out: termenv.NewOutput(w, opts...)}
}

func (r *Reporter) paint(s, hex string) string {
	return r.out.String(s).Foreground(r.out.Color(hex)).String()
}

// Result prints one line per input.
func (r *Reporter) Result(res concerto.Result) {
	switch res.Status {
	case concerto.StatusValid:
		fmt.Fprintf(r.w, "✅ %s: %s\n", res.Source, r.paint("Valid", "#22c55e"))
	case concerto.StatusInvalid:
		fmt.Fprintf(r.w, "❌ %s: %s\n", res.Source, r.paint(sanitize(res.Error), "#ef4444"))
	case concerto.StatusSkipped:
		fmt.Fprintf(r.w, "⏭️  %s: %s\n", res.Source, r.paint("Skipped", "#a1a1aa"))
	}
}

// Results prints every result line. With failEarly, printing stops at the
// first skipped input.
func (r *Reporter) Results(rep *concerto.Report, failEarly bool) {
	for _, res := range rep.Results {
		if failEarly && res.Status == concerto.StatusSkipped {
			fmt.Fprintln(r.w, "\nStopping validation due to --fail-early flag.")
			return
		}
		r.Result(res)
	}
}

// Summary prints the totals, the failures and the verdict.
func (r *Reporter) Summary(rep *concerto.Report) {
	fmt.Fprintln(r.w, "\n=== Validation Report ===")
	fmt.Fprintf(r.w, "Total files processed: %d\n", rep.Total)
	fmt.Fprintf(r.w, "Successful validations: %d\n", rep.Successful)
	fmt.Fprintf(r.w, "Failed validations: %d\n", rep.Failed)
	if rep.Skipped > 0 {
		fmt.Fprintf(r.w, "Skipped: %d\n", rep.Skipped)
	}

	if rep.Failed > 0 {
		fmt.Fprintln(r.w, "\nErrors:")
		for _, res := range rep.Results {
			if res.Status == concerto.StatusInvalid {
				fmt.Fprintf(r.w, "  %s: %s\n", res.Source, sanitize(res.Error))
			}
		}
	}

	if rep.Failed == 0 {
		fmt.Fprintf(r.w, "\n✅ %s\n", r.paint("All validations passed!", "#22c55e"))
	} else {
		fmt.Fprintf(r.w, "\n❌ %s\n", r.paint(fmt.Sprintf("%d validation(s) failed", rep.Failed), "#ef4444"))
	}
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, rep *concerto.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
