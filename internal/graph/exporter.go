package graph

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// ExportDOT writes the graph in Graphviz DOT format to the writer
// 节点按 ID 排序，输出稳定
func (g *LinkGraph) ExportDOT(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph LinkGraph {"); err != nil {
		return err
	}

	// Default styles
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, style=filled, fontname=\"Arial\"];")
	fmt.Fprintln(w, "  edge [fontname=\"Arial\", fontsize=10];")

	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		node := g.Nodes[id]
		color := "white"
		shape := "box"

		switch node.Type {
		case NodeShortcut:
			color = "#e1f5fe" // Light Blue
			shape = "component"
		case NodeFile:
			color = "#f3e5f5" // Light Purple
			shape = "note"
		case NodeVolume:
			color = "#e8f5e9" // Light Green
			shape = "cylinder"
		case NodeShare:
			color = "#fff3e0" // Light Orange
			shape = "folder"
		case NodeHost:
			color = "#ffebee" // Light Red
			shape = "ellipse"
		}

		if _, err := fmt.Fprintf(w, "  %s [label=%s, fillcolor=\"%s\", shape=\"%s\"];\n",
			quote(node.ID), quote(node.Label), color, shape); err != nil {
			return err
		}
	}

	for _, edge := range g.Edges {
		if _, err := fmt.Fprintf(w, "  %s -> %s [label=\"%s\"];\n",
			quote(edge.SourceID), quote(edge.TargetID), edge.Label); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "}"); err != nil {
		return err
	}
	return nil
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// quote Windows 路径里的反斜杠必须转义，换行保留为 DOT 的 \n
func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
