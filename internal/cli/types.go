package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/concerto/internal/presentation/tui"
	"github.com/aretw0/concerto/pkg/metamodel"
)

// TypesMarkdown renders the registry as a markdown table.
func TypesMarkdown(reg *metamodel.Registry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Types in `%s`\n\n", reg.Namespace())
	b.WriteString("| Type | Kind | Extends | Properties |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, s := range reg.Summaries() {
		name := s.Name
		if s.Abstract {
			name += " _(abstract)_"
		}
		props := fmt.Sprintf("%d", len(s.Properties))
		if s.Error != "" {
			props += " ⚠️ " + s.Error
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", name, s.Kind, s.Supertype, props)
	}
	return b.String()
}

// PrintTypes writes the table, rendered for a terminal when render is set.
func PrintTypes(w io.Writer, reg *metamodel.Registry, render bool) error {
	md := TypesMarkdown(reg)
	if render {
		out, err := tui.NewRenderer()(md)
		if err != nil {
			return fmt.Errorf("failed to render types: %w", err)
		}
		md = out
	}
	_, err := io.WriteString(w, md)
	return err
}
