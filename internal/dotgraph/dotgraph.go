// Package dotgraph renders a serialized task graph as a Graphviz dot file,
// adapted from the teacher's hash debugging graph writer. It implements
// util.ModelGrapher so the same node/edge emission contract used elsewhere
// in the codebase applies here.
package dotgraph

import (
	"fmt"
	"os"

	"code.cloudfoundry.org/taskgraph/graph"
	"code.cloudfoundry.org/taskgraph/util"
)

// qualify builds a dot node name that disambiguates a record id from the
// same id placed on a different node, since record ids are only unique
// within one node's bucket.
func qualify(nodeID, recordID string) string {
	label := nodeID
	if label == graph.NullNodeID {
		label = "null"
	}
	return util.PrefixString(recordID, label, ":")
}

// Writer emits a strict digraph to an open file, one node or edge at a
// time. It implements util.ModelGrapher.
type Writer struct {
	file *os.File
}

var _ util.ModelGrapher = (*Writer)(nil)

// Begin creates outputPath and writes the digraph header.
func Begin(outputPath string) (*Writer, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("creating dot graph file %s: %w", outputPath, err)
	}
	if _, err := file.WriteString("strict digraph {\n"); err != nil {
		file.Close()
		return nil, err
	}
	if _, err := file.WriteString("graph[K=5]\n"); err != nil {
		file.Close()
		return nil, err
	}
	return &Writer{file: file}, nil
}

// End writes the closing brace and closes the file.
func (w *Writer) End() error {
	if w.file == nil {
		return nil
	}
	if _, err := w.file.WriteString("}\n"); err != nil {
		return err
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// GraphNode implements util.ModelGrapher.
func (w *Writer) GraphNode(nodeName string, attrs map[string]string) error {
	if w.file == nil {
		return nil
	}
	_, err := fmt.Fprintf(w.file, "%q %s\n", nodeName, formatAttrs(attrs))
	return err
}

// GraphEdge implements util.ModelGrapher.
func (w *Writer) GraphEdge(fromNode, toNode string, attrs map[string]string) error {
	if w.file == nil {
		return nil
	}
	_, err := fmt.Fprintf(w.file, "%q -> %q %s\n", fromNode, toNode, formatAttrs(attrs))
	return err
}

func formatAttrs(attrs map[string]string) string {
	var out string
	for k, v := range attrs {
		out += fmt.Sprintf("[%s=%q]", k, v)
	}
	return out
}

// Render walks a serialized graph's placement map and emits one node per
// record (tagged with its node id via a "node" attribute) and one edge per
// materialized requires/required_for pair.
func Render(outputPath string, placements map[string][]*graph.Record) error {
	w, err := Begin(outputPath)
	if err != nil {
		return err
	}

	for nodeID, records := range placements {
		for _, rec := range records {
			if err := w.GraphNode(qualify(nodeID, rec.ID), map[string]string{
				"node":  nodeID,
				"type":  rec.Type,
				"shape": "box",
			}); err != nil {
				return err
			}
			for _, dep := range rec.Requires {
				from := qualify(dep.NodeID, dep.Name)
				to := qualify(nodeID, rec.ID)
				if err := w.GraphEdge(from, to, map[string]string{"via": "requires"}); err != nil {
					return err
				}
			}
			for _, dep := range rec.RequiredFor {
				from := qualify(nodeID, rec.ID)
				to := qualify(dep.NodeID, dep.Name)
				if err := w.GraphEdge(from, to, map[string]string{"via": "required_for"}); err != nil {
					return err
				}
			}
		}
	}

	return w.End()
}
