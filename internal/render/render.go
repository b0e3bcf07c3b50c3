// Package render prints region outlines for terminals and machines.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/itsmostafa/regiontree/internal/outline"
	"github.com/itsmostafa/regiontree/internal/region"
)

// Format selects how an outline is written.
type Format string

const (
	FormatTree Format = "tree"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTree, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (valid: tree, json)", s)
	}
}

// Options control tree rendering.
type Options struct {
	Color     bool
	ShowLines bool
}

// Outline is one document's regions as written by JSON.
type Outline struct {
	URI     string        `json:"uri"`
	Regions region.Forest `json:"regions"`
}

type styles struct {
	title      lipgloss.Style
	label      lipgloss.Style
	dim        lipgloss.Style
	enumerator lipgloss.Style
	box        lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		return styles{
			title:      lipgloss.NewStyle(),
			label:      lipgloss.NewStyle(),
			dim:        lipgloss.NewStyle(),
			enumerator: lipgloss.NewStyle().PaddingRight(1),
			box: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
		}
	}
	return styles{
		// bold red headers
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160")),
		label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true),
		// muted metadata text
		dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		enumerator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			PaddingRight(1),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1),
	}
}

// Write renders o in the given format.
func Write(w io.Writer, format Format, o Outline, opts Options) error {
	switch format {
	case FormatJSON:
		return JSON(w, o)
	default:
		Header(w, o.URI, o.Regions.Count(), opts)
		Tree(w, o.Regions, opts)
		return nil
	}
}

// Header renders the boxed document header.
func Header(w io.Writer, uri string, count int, opts Options) {
	st := newStyles(opts.Color)
	noun := "regions"
	if count == 1 {
		noun = "region"
	}
	content := fmt.Sprintf("%s %s\n%s %d %s",
		st.dim.Render("File:"), st.title.Render(uri),
		st.dim.Render("Found:"), count, noun,
	)
	fmt.Fprintln(w, st.box.Render(content))
}

// Tree renders the forest as an indented tree.
func Tree(w io.Writer, forest region.Forest, opts Options) {
	st := newStyles(opts.Color)
	if len(forest) == 0 {
		fmt.Fprintln(w, st.dim.Render("no regions"))
		return
	}

	t := tree.New().
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(st.enumerator)
	for _, r := range forest {
		t.Child(buildNode(r, st, opts))
	}
	fmt.Fprintln(w, t.String())
}

func buildNode(r *region.Region, st styles, opts Options) any {
	text := st.label.Render(r.Label)
	if opts.ShowLines {
		text += " " + st.dim.Render(fmt.Sprintf(":%d", r.StartLine+1))
	}
	if len(r.Children) == 0 {
		return text
	}

	t := tree.Root(text).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(st.enumerator)
	for _, child := range r.Children {
		t.Child(buildNode(child, st, opts))
	}
	return t
}

// JSON writes o as indented JSON.
func JSON(w io.Writer, o Outline) error {
	if o.Regions == nil {
		o.Regions = region.Forest{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return fmt.Errorf("failed to encode outline: %w", err)
	}
	return nil
}

// Target writes a cursor target as uri:line:column, 1-based.
func Target(w io.Writer, target outline.Target) {
	fmt.Fprintf(w, "%s:%d:%d\n", target.URI, target.Position.Line+1, target.Position.Character+1)
}
