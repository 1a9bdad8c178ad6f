// Package format renders element trees for the CLI: an indented plain
// form, JSON, XML, and a glamour-backed rich report for inspection.
package format

import (
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/axq-tools/axq/pkg/ax"
)

// Attr is one element attribute flattened to a printable pair. A slice
// keeps the serialized order deterministic, which a map would not.
type Attr struct {
	Name  string `json:"name" yaml:"name" xml:"name,attr"`
	Value string `json:"value" yaml:"value" xml:",chardata"`
}

// ElementView is the serializer-facing shape of an element subtree.
type ElementView struct {
	XMLName     xml.Name      `json:"-" yaml:"-" xml:"element"`
	Role        string        `json:"role" yaml:"role" xml:"role,attr"`
	SubRole     string        `json:"subrole,omitempty" yaml:"subrole,omitempty" xml:"subrole,attr,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty" xml:"description,attr,omitempty"`
	Title       string        `json:"title" yaml:"title" xml:"title,attr"`
	PID         int32         `json:"pid,omitempty" yaml:"pid,omitempty" xml:"pid,attr,omitempty"`
	Focused     bool          `json:"focused,omitempty" yaml:"focused,omitempty" xml:"focused,attr,omitempty"`
	HasChildren bool          `json:"has_children" yaml:"has_children" xml:"hasChildren,attr"`
	Path        string        `json:"path,omitempty" yaml:"path,omitempty" xml:"path,attr,omitempty"`
	Actions     []string      `json:"actions,omitempty" yaml:"actions,omitempty" xml:"actions>action,omitempty"`
	Attributes  []Attr        `json:"attributes,omitempty" yaml:"attributes,omitempty" xml:"attributes>attribute,omitempty"`
	Children    []ElementView `json:"children,omitempty" yaml:"children,omitempty" xml:"children>element,omitempty"`
}

// NewView converts an element and its already-loaded children. It never
// calls the provider: whatever the walk loaded is what gets rendered.
func NewView(el *ax.Element, withChildren bool) ElementView {
	v := ElementView{
		Role:        el.Role,
		SubRole:     el.SubRole,
		Description: el.RoleDescription,
		Title:       el.Title,
		PID:         el.PID,
		Focused:     el.Focused,
		HasChildren: el.HasChildren,
	}
	if withChildren {
		for _, child := range el.Children() {
			v.Children = append(v.Children, NewView(child, true))
		}
	}
	return v
}

// AttrsFromMap flattens an attribute map into sorted pairs.
func AttrsFromMap(m map[string]any) []Attr {
	attrs := make([]Attr, 0, len(m))
	for k, v := range m {
		attrs = append(attrs, Attr{Name: k, Value: fmt.Sprintf("%v", v)})
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
	return attrs
}
