// Package writer persists a serialized task graph to disk: one JSON file
// per node, named after the node id (the null sentinel node writes to
// "_cluster.json"), adapted from the teacher's per-role JSON config writer.
package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"code.cloudfoundry.org/taskgraph/graph"
)

const (
	recordFileExtension = ".json"
	recordFilePrefix     = ""
	recordFileIndent     = "    "

	// nullNodeFileName is the on-disk name used for the null sentinel
	// node's bucket, since an empty string is not a usable filename.
	nullNodeFileName = "_cluster"
)

// WriteNodes removes any existing content under outputPath and writes one
// indented JSON file per node, each containing that node's ordered record
// list.
func WriteNodes(outputPath string, nodes map[string][]*graph.Record) error {
	if err := os.RemoveAll(outputPath); err != nil {
		return fmt.Errorf("clearing output directory %s: %w", outputPath, err)
	}
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outputPath, err)
	}

	for nodeID, records := range nodes {
		if err := writeNode(outputPath, nodeID, records); err != nil {
			return err
		}
	}
	return nil
}

func writeNode(outputPath, nodeID string, records []*graph.Record) error {
	name := nodeID
	if name == graph.NullNodeID {
		name = nullNodeFileName
	}

	body, err := json.MarshalIndent(records, recordFilePrefix, recordFileIndent)
	if err != nil {
		return fmt.Errorf("marshaling records for node %s: %w", nodeID, err)
	}

	path := filepath.Join(outputPath, name+recordFileExtension)
	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
