package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_StageDispatchesToNoop(t *testing.T) {
	r := NewRegistry()
	task := &Task{ID: "s1", Type: TaskTypeStage, Role: &RoleSelector{All: true}}

	factory, err := r.Get(task)
	require.NoError(t, err)

	nodes := []*Node{NewNode("n1", nil)}
	resolver := NewRoleResolverFactory(nodes)(nil)

	serializer, err := factory(task, nil, nil, resolver)
	require.NoError(t, err)
	assert.True(t, serializer.ShouldExecute())

	stream, err := serializer.Serialize()
	require.NoError(t, err)
	rec, ok := stream.Next()
	require.True(t, ok)
	assert.Equal(t, "s1", rec.ID)
	assert.Equal(t, []string{"n1"}, rec.UIDs)
}

func TestRegistry_NoopWithoutSelectorTargetsNullNode(t *testing.T) {
	r := NewRegistry()
	task := &Task{ID: "s1", Type: TaskTypeStage}

	factory, _ := r.Get(task)
	serializer, _ := factory(task, nil, nil, nil)
	stream, _ := serializer.Serialize()
	rec, _ := stream.Next()
	assert.Equal(t, []string{NullNodeID}, rec.UIDs)
}

func TestRegistry_UnregisteredTypeErrors(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get(&Task{ID: "t1", Type: "unknown"})
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, ErrKindSerializerError, gerr.Kind)
}

func TestRegistry_CustomFactoryOverridesFallthrough(t *testing.T) {
	r := NewRegistry()
	called := false
	r.Register("puppet", func(task *Task, cluster *Cluster, candidateNodeIDs []string, resolver RoleResolver) (Serializer, error) {
		called = true
		return &fixedSerializer{execute: true}, nil
	})

	factory, err := r.Get(&Task{ID: "t1", Type: "puppet"})
	require.NoError(t, err)
	_, err = factory(&Task{ID: "t1", Type: "puppet"}, nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestRegistry_DefaultHookSerializerIsNoop(t *testing.T) {
	r := NewRegistry()
	task := &Task{ID: string(TaskTypePluginPreDeploymentHook), Type: TaskTypePluginPreDeploymentHook}

	factory, err := r.Get(task)
	require.NoError(t, err)

	serializer, err := factory(task, nil, nil, nil)
	require.NoError(t, err)

	stream, err := serializer.Serialize()
	require.NoError(t, err)
	_, ok := stream.Next()
	assert.False(t, ok)
}
