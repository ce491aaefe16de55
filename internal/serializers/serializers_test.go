package serializers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.cloudfoundry.org/taskgraph/graph"
)

type fixedResolver struct{ ids []string }

func (r fixedResolver) Resolve(*graph.RoleSelector, graph.Policy) []string {
	return r.ids
}

func TestPuppetFactoryEmitsManifestRecord(t *testing.T) {
	registry := graph.NewRegistry()
	Register(registry)

	factory, err := registry.Get(&graph.Task{ID: "t1", Type: "puppet"})
	require.NoError(t, err)

	task := &graph.Task{ID: "t1", Type: "puppet", Extra: map[string]interface{}{"manifest": "site.pp"}}
	serializer, err := factory(task, &graph.Cluster{}, []string{"n1"}, fixedResolver{ids: []string{"n1"}})
	require.NoError(t, err)

	assert.True(t, serializer.ShouldExecute())

	stream, err := serializer.Serialize()
	require.NoError(t, err)

	rec, ok := stream.Next()
	require.True(t, ok)
	assert.Equal(t, []string{"n1"}, rec.UIDs)
	assert.Equal(t, "site.pp", rec.Extra["manifest"])

	_, ok = stream.Next()
	assert.False(t, ok)
}

func TestShellFactoryErrorsWithoutCmd(t *testing.T) {
	registry := graph.NewRegistry()
	Register(registry)

	factory, err := registry.Get(&graph.Task{ID: "t1", Type: "shell"})
	require.NoError(t, err)

	task := &graph.Task{ID: "t1", Type: "shell"}
	serializer, err := factory(task, &graph.Cluster{}, []string{"n1"}, fixedResolver{ids: []string{"n1"}})
	require.NoError(t, err)

	_, err = serializer.Serialize()
	assert.Error(t, err)
}

func TestUploadFileAndRebootFactoriesRegistered(t *testing.T) {
	registry := graph.NewRegistry()
	Register(registry)

	for _, taskType := range []graph.TaskType{"upload_file", "reboot"} {
		_, err := registry.Get(&graph.Task{ID: "t1", Type: taskType})
		assert.NoError(t, err, taskType)
	}
}
