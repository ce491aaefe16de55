// Package loader reads the three YAML documents a serialization run needs
// (cluster, node inventory, task catalog) from disk into the graph
// package's in-memory types.
package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"code.cloudfoundry.org/taskgraph/graph"
	"code.cloudfoundry.org/taskgraph/util"
)

// reservedTaskTypes are the exact-case spellings the core dispatches on
// directly; checkTaskTypeCasing below guards against a near-miss spelling.
var reservedTaskTypes = []string{
	string(graph.TaskTypeStage),
	string(graph.TaskTypeGroup),
	string(graph.TaskTypeSkipped),
	string(graph.TaskTypePluginPreDeploymentHook),
	string(graph.TaskTypePluginPostDeploymentHook),
}

// nodeDocument is the on-disk shape of one inventory entry; roles are a
// plain list in YAML but graph.Node wants a set for O(1) membership checks.
type nodeDocument struct {
	ID    string   `yaml:"id"`
	Roles []string `yaml:"roles"`
}

// clusterDocument is the on-disk shape of the cluster handle. The core
// never reads its fields, so everything beyond name is kept opaque.
type clusterDocument struct {
	Name  string                 `yaml:"name"`
	Extra map[string]interface{} `yaml:",inline"`
}

// LoadNodes reads a node-inventory document: a YAML list of {id, roles}.
func LoadNodes(path string) ([]*graph.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading node inventory %s: %w", path, err)
	}

	var docs []nodeDocument
	if err := yaml.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("parsing node inventory %s: %w", path, err)
	}

	nodes := make([]*graph.Node, 0, len(docs))
	for _, d := range docs {
		if d.ID == "" {
			return nil, fmt.Errorf("node inventory %s: entry with empty id", path)
		}
		nodes = append(nodes, graph.NewNode(d.ID, d.Roles))
	}
	return nodes, nil
}

// LoadCatalog reads a task-catalog document: a YAML list of task records.
func LoadCatalog(path string) ([]*graph.Task, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task catalog %s: %w", path, err)
	}

	var tasks []*graph.Task
	if err := yaml.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("parsing task catalog %s: %w", path, err)
	}

	for _, t := range tasks {
		if t.ID == "" {
			return nil, fmt.Errorf("task catalog %s: entry with empty id", path)
		}
		if err := checkTaskTypeCasing(t); err != nil {
			return nil, fmt.Errorf("task catalog %s: %w", path, err)
		}
	}
	return tasks, nil
}

// checkTaskTypeCasing guards against a reserved task type misspelled with
// the wrong case (e.g. "Stage" instead of "stage"): such a task would
// silently fall through to the registry instead of getting the built-in
// dispatch the author almost certainly intended.
func checkTaskTypeCasing(t *graph.Task) error {
	asTyped := string(t.Type)
	for _, reserved := range reservedTaskTypes {
		if asTyped == reserved {
			return nil
		}
	}
	for _, reserved := range reservedTaskTypes {
		if util.StringInSlice(asTyped, []string{reserved}) {
			return fmt.Errorf("task %s: type %q differs only in case from reserved type %q", t.ID, asTyped, reserved)
		}
	}
	return nil
}

// LoadCluster reads the opaque cluster handle document. A missing path
// yields an empty cluster rather than an error, since the field is purely
// passthrough for serializers.
func LoadCluster(path string) (*graph.Cluster, error) {
	if path == "" {
		return &graph.Cluster{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cluster document %s: %w", path, err)
	}

	var doc clusterDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing cluster document %s: %w", path, err)
	}

	return &graph.Cluster{Name: doc.Name, Extra: doc.Extra}, nil
}
