// Package graph generates DOT and Mermaid format dependency graphs from
// synthesized templates.
package graph

import (
	"io"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	strata "github.com/lex00/strata-aws-go"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from synthesized templates. Edges
// are recovered from Ref and Fn::GetAtt occurrences in resolved resource
// properties, so the graph reflects what synthesis actually wired, not
// what the source declared.
type Generator struct {
	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format
}

// Generate creates a dependency graph for the template and writes it to w.
func (g *Generator) Generate(t *strata.Template, w io.Writer) error {
	graph := g.buildGraph(t)

	format := g.Format
	if format == "" {
		format = FormatDOT
	}

	var output string
	if format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := w.Write([]byte(output))
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(t *strata.Template) (string, error) {
	var sb strings.Builder
	if err := g.Generate(t, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// buildGraph creates the dot.Graph structure from the template.
func (g *Generator) buildGraph(t *strata.Template) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})

	// Visit resources in sorted order so output is deterministic.
	names := make([]string, 0, len(t.Resources))
	for name := range t.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		n := graph.Node(name)
		n.Label(name + "\n" + t.Resources[name].Type)
	}

	for _, name := range names {
		deps := referencedResources(t.Resources[name].Properties, t)
		for _, dep := range deps {
			if dep == name {
				continue
			}
			graph.Edge(graph.Node(name), graph.Node(dep))
		}
	}

	return graph
}

// referencedResources walks resolved property values and collects the
// logical ids of resources referenced via Ref or Fn::GetAtt.
func referencedResources(v any, t *strata.Template) []string {
	seen := make(map[string]bool)
	collectRefs(v, t, seen)
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectRefs(v any, t *strata.Template, seen map[string]bool) {
	switch val := v.(type) {
	case map[string]any:
		if ref, ok := val["Ref"].(string); ok && len(val) == 1 {
			if _, exists := t.Resources[ref]; exists {
				seen[ref] = true
			}
			return
		}
		if getAtt, ok := val["Fn::GetAtt"].([]any); ok && len(val) == 1 && len(getAtt) > 0 {
			if name, ok := getAtt[0].(string); ok {
				if _, exists := t.Resources[name]; exists {
					seen[name] = true
				}
			}
			return
		}
		for _, nested := range val {
			collectRefs(nested, t, seen)
		}
	case []any:
		for _, nested := range val {
			collectRefs(nested, t, seen)
		}
	}
}
