package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSerializer replays a fixed list of records, each carrying its own
// uids, ignoring the task/cluster/resolver it was constructed with.
type fixedSerializer struct {
	records []*Record
	execute bool
}

func (s *fixedSerializer) ShouldExecute() bool { return s.execute }

func (s *fixedSerializer) Serialize() (RecordIterator, error) {
	return SliceIterator(s.records), nil
}

func factoryFor(records ...*Record) SerializerFactory {
	return func(*Task, *Cluster, []string, RoleResolver) (Serializer, error) {
		return &fixedSerializer{records: records, execute: true}, nil
	}
}

func TestSerialize_SingleNonChainTask(t *testing.T) {
	nodes := []*Node{NewNode("n1", []string{"controller"})}
	role := &RoleSelector{Names: []string{"controller"}}
	tasks := []*Task{
		{ID: "t1", Type: "puppet", Version: "2.0.0", Role: role},
	}

	registry := NewRegistry()
	registry.Register("puppet", factoryFor(&Record{UIDs: []string{"n1"}}))

	out, err := Serialize(Config{Registry: registry}, nil, nodes, tasks, nil)
	require.NoError(t, err)

	require.Contains(t, out, NullNodeID)
	assert.Empty(t, out[NullNodeID])

	require.Len(t, out["n1"], 1)
	rec := out["n1"][0]
	assert.Equal(t, "t1", rec.ID)
	assert.Equal(t, "puppet", rec.Type)
	assert.Empty(t, rec.Requires)
	assert.Empty(t, rec.RequiredFor)
}

func TestSerialize_ChainOfThreeSameNode(t *testing.T) {
	nodes := []*Node{NewNode("n1", []string{"controller"})}
	role := &RoleSelector{Names: []string{"controller"}}
	tasks := []*Task{
		{
			ID: "t1", Type: "puppet", Version: "2.0.0", Role: role,
			Requires:    []string{"prereq"},
			RequiredFor: []string{"after"},
		},
	}

	registry := NewRegistry()
	registry.Register("puppet", factoryFor(
		&Record{UIDs: []string{"n1"}},
		&Record{UIDs: []string{"n1"}},
		&Record{UIDs: []string{"n1"}},
	))

	out, err := Serialize(Config{Registry: registry}, nil, nodes, tasks, nil)
	require.NoError(t, err)

	byID := indexByID(out["n1"])
	require.Contains(t, byID, "t1_start")
	require.Contains(t, byID, "t1#1")
	require.Contains(t, byID, "t1_end")

	assert.Empty(t, byID["t1_start"].Requires, "unresolved prereq reference is dropped silently")
	assert.Equal(t, []Dependency{{Name: "t1_start", NodeID: "n1"}}, byID["t1#1"].Requires)
	assert.Equal(t, []Dependency{{Name: "t1#1", NodeID: "n1"}}, byID["t1_end"].Requires)
	assert.Empty(t, byID["t1_end"].RequiredFor, "unresolved after reference is dropped silently")
}

func TestSerialize_CrossNodeChainEdge(t *testing.T) {
	nodes := []*Node{
		NewNode("n1", []string{"controller"}),
		NewNode("n2", []string{"controller"}),
	}
	role := &RoleSelector{Names: []string{"controller"}}
	tasks := []*Task{
		{ID: "t1", Type: "puppet", Version: "2.0.0", Role: role},
	}

	registry := NewRegistry()
	registry.Register("puppet", factoryFor(
		&Record{UIDs: []string{"n1"}},
		&Record{UIDs: []string{"n2"}},
	))

	out, err := Serialize(Config{Registry: registry}, nil, nodes, tasks, nil)
	require.NoError(t, err)

	byID := indexByID(out["n2"])
	require.Contains(t, byID, "t1_end")
	assert.Equal(t, []Dependency{{Name: "t1_start", NodeID: "n1"}}, byID["t1_end"].Requires)
}

func TestSerialize_GroupExpansionOverridesMemberRole(t *testing.T) {
	nodes := []*Node{
		NewNode("n1", []string{"controller"}),
		NewNode("n2", []string{"compute"}),
	}
	tasks := []*Task{
		{ID: "g", Type: TaskTypeGroup, Role: &RoleSelector{Names: []string{"controller"}}, Tasks: []string{"t1"}},
		{ID: "t1", Type: "puppet", Version: "2.0.0", Role: &RoleSelector{Names: []string{"compute"}}},
	}

	registry := NewRegistry()
	registry.factories["puppet"] = func(task *Task, cluster *Cluster, candidateNodeIDs []string, resolver RoleResolver) (Serializer, error) {
		uids := resolver.Resolve(task.RoleSelectorValue(), PolicyAll)
		return &fixedSerializer{records: []*Record{{UIDs: uids}}, execute: true}, nil
	}

	out, err := Serialize(Config{Registry: registry}, nil, nodes, tasks, nil)
	require.NoError(t, err)

	// t1 is a top-level catalog task in its own right, so the partition step
	// places it directly under its own role (compute, n2) in addition to the
	// group expansion pinning a second placement to the group's resolved set
	// (controller, n1) via the Null Resolver.
	require.Len(t, out["n1"], 1)
	assert.Equal(t, "t1", out["n1"][0].ID)
	require.Len(t, out["n2"], 1)
	assert.Equal(t, "t1", out["n2"][0].ID)
}

func TestSerialize_VersionGateRejectsOldTask(t *testing.T) {
	nodes := []*Node{NewNode("n1", []string{"controller"})}
	tasks := []*Task{
		{ID: "old", Type: "puppet", Version: "1.0.0", Role: &RoleSelector{Names: []string{"controller"}}},
	}

	registry := NewRegistry()
	registry.Register("puppet", factoryFor(&Record{UIDs: []string{"n1"}}))

	_, err := Serialize(Config{Registry: registry}, nil, nodes, tasks, nil)
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, ErrKindTaskVersionUnsupported, gerr.Kind)
}

func TestSerialize_VersionGateBypassedForStage(t *testing.T) {
	nodes := []*Node{NewNode("n1", []string{"controller"})}
	tasks := []*Task{
		{ID: "old", Type: TaskTypeStage, Version: "1.0.0", Role: &RoleSelector{Names: []string{"controller"}}},
	}

	out, err := Serialize(Config{}, nil, nodes, tasks, nil)
	require.NoError(t, err)
	require.Len(t, out["n1"], 1)
	assert.Equal(t, "old", out["n1"][0].ID)
}

func TestSerialize_FilterAndSkippedOverride(t *testing.T) {
	nodes := []*Node{NewNode("n1", []string{"controller"})}
	role := &RoleSelector{Names: []string{"controller"}}
	tasks := []*Task{
		{ID: "t1", Type: "puppet", Version: "2.0.0", Role: role},
		{ID: "g", Type: TaskTypeGroup, Role: role, Tasks: []string{"t1"}},
	}

	registry := NewRegistry()
	registry.Register("puppet", factoryFor(&Record{UIDs: []string{"n1"}}))

	out, err := Serialize(Config{Registry: registry}, nil, nodes, tasks, []string{"t1"})
	require.NoError(t, err)

	byID := indexByID(out["n1"])
	require.Contains(t, byID, "t1")
	assert.NotEqual(t, string(TaskTypeSkipped), byID["t1"].Type)
}

func TestSerialize_UnknownGroupMemberErrors(t *testing.T) {
	nodes := []*Node{NewNode("n1", []string{"controller"})}
	tasks := []*Task{
		{ID: "g", Type: TaskTypeGroup, Role: &RoleSelector{Names: []string{"controller"}}, Tasks: []string{"missing"}},
	}

	_, err := Serialize(Config{}, nil, nodes, tasks, nil)
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, ErrKindUnknownGroupMember, gerr.Kind)
}

func TestSerialize_NullBucketAlwaysPresent(t *testing.T) {
	out, err := Serialize(Config{}, nil, nil, nil, nil)
	require.NoError(t, err)
	require.Contains(t, out, NullNodeID)
}

func indexByID(records []*Record) map[string]*Record {
	out := make(map[string]*Record, len(records))
	for _, r := range records {
		out[r.ID] = r
	}
	return out
}
