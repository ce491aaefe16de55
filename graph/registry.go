package graph

import "fmt"

// Cluster is an opaque handle passed through to serializers. The core never
// reads its fields directly.
type Cluster struct {
	Name  string
	Extra map[string]interface{}
}

// RecordIterator is a pull-based stream of output records. A Serializer may
// yield zero, one, or many records; the Task Processor only ever needs to
// look one record ahead of the current one, but implementations are free to
// produce their records lazily.
type RecordIterator interface {
	// Next returns the next record and true, or (nil, false) once exhausted.
	Next() (*Record, bool)
}

// sliceIterator adapts a plain slice to a RecordIterator.
type sliceIterator struct {
	records []*Record
	pos     int
}

// SliceIterator returns a RecordIterator over an already-materialized slice
// of records; most built-in and sample serializers use this.
func SliceIterator(records []*Record) RecordIterator {
	return &sliceIterator{records: records}
}

func (it *sliceIterator) Next() (*Record, bool) {
	if it.pos >= len(it.records) {
		return nil, false
	}
	r := it.records[it.pos]
	it.pos++
	return r, true
}

// Serializer is the contract a task-type-specific implementation fulfills.
type Serializer interface {
	// ShouldExecute reports whether the task is active for the given inputs.
	ShouldExecute() bool
	// Serialize returns the (possibly empty, possibly chained) record stream.
	Serialize() (RecordIterator, error)
}

// SerializerFactory constructs a Serializer for one task, scoped to a
// candidate node-id set and a resolver built against that set.
type SerializerFactory func(task *Task, cluster *Cluster, candidateNodeIDs []string, resolver RoleResolver) (Serializer, error)

// PluginHookSerializer is the external collaborator invoked for the
// synthetic pre/post-deployment hook tasks. A real implementation is
// supplied by the plugin layer; the default NoopPluginHookSerializer yields
// nothing for either hook, which keeps a run with no plugins configured
// free of incidental records on the null node.
type PluginHookSerializer interface {
	PreDeploymentHook(cluster *Cluster, candidateNodeIDs []string, resolver RoleResolver) ([]*Record, error)
	PostDeploymentHook(cluster *Cluster, candidateNodeIDs []string, resolver RoleResolver) ([]*Record, error)
}

// NoopPluginHookSerializer is the default PluginHookSerializer.
type NoopPluginHookSerializer struct{}

// PreDeploymentHook implements PluginHookSerializer.
func (NoopPluginHookSerializer) PreDeploymentHook(*Cluster, []string, RoleResolver) ([]*Record, error) {
	return nil, nil
}

// PostDeploymentHook implements PluginHookSerializer.
func (NoopPluginHookSerializer) PostDeploymentHook(*Cluster, []string, RoleResolver) ([]*Record, error) {
	return nil, nil
}

// Registry dispatches a catalog task to the serializer that should produce
// its output records. The built-in dispatch rules for "stage", "skipped",
// and the plugin hook types always take precedence over any task type
// registered by the caller.
type Registry struct {
	factories map[TaskType]SerializerFactory
	hooks     PluginHookSerializer
}

// NewRegistry returns an empty registry with the default no-op plugin hook
// serializer.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[TaskType]SerializerFactory),
		hooks:     NoopPluginHookSerializer{},
	}
}

// SetPluginHookSerializer overrides the plugin hook collaborator.
func (r *Registry) SetPluginHookSerializer(h PluginHookSerializer) {
	r.hooks = h
}

// Register adds or replaces the serializer factory for a task type. Types
// reserved for built-in dispatch ("stage", "skipped", "group", and the
// plugin hook types) cannot be overridden this way.
func (r *Registry) Register(taskType TaskType, factory SerializerFactory) {
	r.factories[taskType] = factory
}

// Get returns the serializer factory that should handle the given task.
func (r *Registry) Get(task *Task) (SerializerFactory, error) {
	switch task.Type {
	case TaskTypeStage, TaskTypeSkipped:
		return noopSerializerFactory, nil
	case TaskTypePluginPreDeploymentHook:
		return r.preHookFactory(), nil
	case TaskTypePluginPostDeploymentHook:
		return r.postHookFactory(), nil
	}

	if factory, ok := r.factories[task.Type]; ok {
		return factory, nil
	}

	return nil, &Error{
		Kind:   ErrKindSerializerError,
		TaskID: task.ID,
		Detail: fmt.Sprintf("no serializer registered for task type %q", task.Type),
	}
}

// noopSerializer implements the built-in "stage"/"skipped" dispatch rule:
// one record whose uids are the resolved role selector, or the null node
// when the task carries no selector at all.
type noopSerializer struct {
	task     *Task
	resolver RoleResolver
}

func noopSerializerFactory(task *Task, _ *Cluster, _ []string, resolver RoleResolver) (Serializer, error) {
	return &noopSerializer{task: task, resolver: resolver}, nil
}

func (s *noopSerializer) ShouldExecute() bool { return true }

func (s *noopSerializer) Serialize() (RecordIterator, error) {
	selector := s.task.RoleSelectorValue()

	var uids []string
	if selector == nil {
		uids = []string{NullNodeID}
	} else {
		uids = s.resolver.Resolve(selector, PolicyAll)
	}

	record := &Record{
		ID:   s.task.ID,
		Type: string(s.task.Type),
		UIDs: uids,
	}
	return SliceIterator([]*Record{record}), nil
}

// hookSerializer adapts a PluginHookSerializer method to the Serializer
// contract for one of the two synthetic hook tasks.
type hookSerializer struct {
	task      *Task
	cluster   *Cluster
	nodeIDs   []string
	resolver  RoleResolver
	produce   func(*Cluster, []string, RoleResolver) ([]*Record, error)
}

func (r *Registry) preHookFactory() SerializerFactory {
	return func(task *Task, cluster *Cluster, candidateNodeIDs []string, resolver RoleResolver) (Serializer, error) {
		return &hookSerializer{
			task: task, cluster: cluster, nodeIDs: candidateNodeIDs, resolver: resolver,
			produce: r.hooks.PreDeploymentHook,
		}, nil
	}
}

func (r *Registry) postHookFactory() SerializerFactory {
	return func(task *Task, cluster *Cluster, candidateNodeIDs []string, resolver RoleResolver) (Serializer, error) {
		return &hookSerializer{
			task: task, cluster: cluster, nodeIDs: candidateNodeIDs, resolver: resolver,
			produce: r.hooks.PostDeploymentHook,
		}, nil
	}
}

func (s *hookSerializer) ShouldExecute() bool { return true }

func (s *hookSerializer) Serialize() (RecordIterator, error) {
	records, err := s.produce(s.cluster, s.nodeIDs, s.resolver)
	if err != nil {
		return nil, errSerializer(s.task.ID, err)
	}
	return SliceIterator(records), nil
}
