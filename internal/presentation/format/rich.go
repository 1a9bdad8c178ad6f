package format

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// RenderInspect builds a markdown report for one element and renders it
// for the terminal with glamour. On color-blind terminals the markdown
// falls through unrendered.
func RenderInspect(v ElementView) (string, error) {
	md := inspectMarkdown(v)
	if termenv.ColorProfile() == termenv.Ascii {
		return md, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return md, nil
	}
	return r.Render(md)
}

func inspectMarkdown(v ElementView) string {
	var b strings.Builder
	title := v.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(&b, "# %s — %s\n\n", v.Role, title)
	if v.Path != "" {
		fmt.Fprintf(&b, "`%s`\n\n", v.Path)
	}

	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Role | %s |\n", v.Role)
	if v.SubRole != "" {
		fmt.Fprintf(&b, "| Subrole | %s |\n", v.SubRole)
	}
	if v.Description != "" {
		fmt.Fprintf(&b, "| Description | %s |\n", v.Description)
	}
	if v.PID != 0 {
		fmt.Fprintf(&b, "| PID | %d |\n", v.PID)
	}
	fmt.Fprintf(&b, "| Has children | %t |\n", v.HasChildren)
	if v.Focused {
		b.WriteString("| Focused | true |\n")
	}
	b.WriteString("\n")

	if len(v.Actions) > 0 {
		b.WriteString("## Actions\n\n")
		for _, a := range v.Actions {
			fmt.Fprintf(&b, "- `%s`\n", a)
		}
		b.WriteString("\n")
	}

	if len(v.Attributes) > 0 {
		b.WriteString("## Attributes\n\n| Name | Value |\n|---|---|\n")
		for _, a := range v.Attributes {
			fmt.Fprintf(&b, "| %s | %s |\n", a.Name, a.Value)
		}
		b.WriteString("\n")
	}

	if len(v.Children) > 0 {
		b.WriteString("## Children\n\n")
		for _, c := range v.Children {
			label := c.Title
			if label == "" {
				label = "(untitled)"
			}
			fmt.Fprintf(&b, "- %s %q\n", c.Role, label)
		}
	}
	return b.String()
}
