package writer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.cloudfoundry.org/taskgraph/graph"
)

func TestWriteNodesWritesOneFilePerNode(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out")

	nodes := map[string][]*graph.Record{
		"n1":            {{ID: "t1", Type: "stage"}},
		graph.NullNodeID: {{ID: "t2", Type: "stage"}},
	}

	require.NoError(t, WriteNodes(output, nodes))

	body, err := os.ReadFile(filepath.Join(output, "n1.json"))
	require.NoError(t, err)
	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "t1", records[0]["id"])

	_, err = os.Stat(filepath.Join(output, "_cluster.json"))
	assert.NoError(t, err)
}

func TestWriteNodesClearsPriorOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(output, 0755))
	stalePath := filepath.Join(output, "stale.json")
	require.NoError(t, os.WriteFile(stalePath, []byte("{}"), 0644))

	require.NoError(t, WriteNodes(output, map[string][]*graph.Record{}))

	_, err := os.Stat(stalePath)
	assert.True(t, os.IsNotExist(err))
}
