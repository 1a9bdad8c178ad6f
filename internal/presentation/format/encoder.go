package format

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/axq-tools/axq/pkg/ax"
)

// Encoder turns element views and application listings into bytes on w.
type Encoder interface {
	Elements(w io.Writer, views []ElementView) error
	Applications(w io.Writer, apps []ax.Application) error
}

// New returns the encoder for a format name ("plain", "json" or "xml").
func New(name string, verbose bool) (Encoder, error) {
	switch strings.ToLower(name) {
	case "", "plain":
		return &Plain{Verbose: verbose}, nil
	case "json":
		return &JSON{}, nil
	case "xml":
		return &XML{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", name)
	}
}

// Plain writes an indented human-readable tree.
type Plain struct {
	Verbose bool
}

func (p *Plain) Elements(w io.Writer, views []ElementView) error {
	for i := range views {
		if err := p.writeNode(w, &views[i], 0); err != nil {
			return err
		}
	}
	return nil
}

func (p *Plain) writeNode(w io.Writer, v *ElementView, depth int) error {
	indent := strings.Repeat("  ", depth)
	line := indent + v.Role
	if v.Title != "" {
		line += fmt.Sprintf(" %q", v.Title)
	}
	if p.Verbose {
		var extra []string
		if v.SubRole != "" {
			extra = append(extra, "subrole="+v.SubRole)
		}
		if v.Description != "" {
			extra = append(extra, fmt.Sprintf("description=%q", v.Description))
		}
		if v.PID != 0 {
			extra = append(extra, fmt.Sprintf("pid=%d", v.PID))
		}
		if v.Focused {
			extra = append(extra, "focused")
		}
		if v.HasChildren && len(v.Children) == 0 {
			extra = append(extra, "children not loaded")
		}
		if len(extra) > 0 {
			line += " (" + strings.Join(extra, ", ") + ")"
		}
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	if p.Verbose {
		if len(v.Actions) > 0 {
			if _, err := fmt.Fprintf(w, "%s  actions: %s\n", indent, strings.Join(v.Actions, ", ")); err != nil {
				return err
			}
		}
		for _, a := range v.Attributes {
			if _, err := fmt.Fprintf(w, "%s  %s = %s\n", indent, a.Name, a.Value); err != nil {
				return err
			}
		}
	}
	for i := range v.Children {
		if err := p.writeNode(w, &v.Children[i], depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (p *Plain) Applications(w io.Writer, apps []ax.Application) error {
	for _, app := range apps {
		if _, err := fmt.Fprintf(w, "%s (pid %d)\n", app.Name, app.PID); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes an indented JSON document.
type JSON struct{}

func (*JSON) Elements(w io.Writer, views []ElementView) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(views)
}

func (*JSON) Applications(w io.Writer, apps []ax.Application) error {
	type appOut struct {
		Name string `json:"name"`
		PID  int32  `json:"pid"`
	}
	out := make([]appOut, 0, len(apps))
	for _, a := range apps {
		out = append(out, appOut{Name: a.Name, PID: a.PID})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// XML writes an indented XML document with a single root element.
type XML struct{}

func (*XML) Elements(w io.Writer, views []ElementView) error {
	doc := struct {
		XMLName  xml.Name      `xml:"elements"`
		Elements []ElementView `xml:"element"`
	}{Elements: views}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func (*XML) Applications(w io.Writer, apps []ax.Application) error {
	type appOut struct {
		Name string `xml:"name,attr"`
		PID  int32  `xml:"pid,attr"`
	}
	doc := struct {
		XMLName xml.Name `xml:"applications"`
		Apps    []appOut `xml:"application"`
	}{}
	for _, a := range apps {
		doc.Apps = append(doc.Apps, appOut{Name: a.Name, PID: a.PID})
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
