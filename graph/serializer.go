package graph

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Config configures one serialization run: which task-type serializers are
// available, and where to send its (exclusively Debug-level) diagnostic
// logging for the conditions spec treats as silent by design.
type Config struct {
	Registry *Registry
	Logger   logrus.FieldLogger
}

// nodeBucket is the per-node sub-map of the placement map: task id to
// record, plus the insertion order needed for both deterministic
// dependency-materialization iteration and the final ordered output list.
type nodeBucket struct {
	order   []string
	records map[string]*Record
}

func newNodeBucket() *nodeBucket {
	return &nodeBucket{records: make(map[string]*Record)}
}

func (b *nodeBucket) get(id string) (*Record, bool) {
	r, ok := b.records[id]
	return r, ok
}

func (b *nodeBucket) place(rec *Record) {
	if _, exists := b.records[rec.ID]; !exists {
		b.order = append(b.order, rec.ID)
	}
	b.records[rec.ID] = rec
}

func (b *nodeBucket) orderedRecords() []*Record {
	out := make([]*Record, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.records[id])
	}
	return out
}

// run holds the mutable state of exactly one serialization pass: the
// placement map and the processor's lineage map. It is discarded once
// Serialize returns.
type run struct {
	registry  *Registry
	logger    logrus.FieldLogger
	cluster   *Cluster
	processor *Processor

	placements map[string]*nodeBucket
	nodeOrder  []string
}

// Serialize is the top-level entry point: it drives a cluster topology and
// a catalog of tasks through role resolution, chain expansion, group
// expansion, and dependency materialization, producing a per-node ordered
// list of output records. taskIDs, when non-empty, acts as an allow-list
// restricting which tasks are included (unfiltered tasks are still placed,
// but recorded as skipped so graph connectivity is preserved).
func Serialize(cfg Config, cluster *Cluster, nodes []*Node, tasks []*Task, taskIDs []string) (map[string][]*Record, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	r := &run{
		registry:  registry,
		logger:    logger,
		cluster:   cluster,
		processor: NewProcessor(),

		placements: map[string]*nodeBucket{NullNodeID: newNodeBucket()},
		nodeOrder:  []string{NullNodeID},
	}

	return r.execute(nodes, tasks, taskIDs)
}

func (r *run) execute(nodes []*Node, tasks []*Task, taskIDs []string) (map[string][]*Record, error) {
	allNodeIDs := make([]string, 0, len(nodes))
	for _, n := range nodes {
		allNodeIDs = append(allNodeIDs, n.ID)
	}
	sort.Strings(allNodeIDs)

	topFactory := NewRoleResolverFactory(nodes)
	nullFactory := NewNullResolverFactory()
	filter := buildTaskFilter(taskIDs)

	allTasks := make([]*Task, 0, len(tasks)+2)
	allTasks = append(allTasks, tasks...)
	allTasks = append(allTasks, injectHookTasks()...)

	catalogIndex := make(map[string]*Task, len(allTasks))
	for _, t := range allTasks {
		catalogIndex[t.ID] = t
	}

	var groups []*Task
	for _, t := range allTasks {
		if t.Type == TaskTypeGroup {
			groups = append(groups, t)
			continue
		}
		if err := r.processTask(t, allNodeIDs, topFactory, !filter(t.ID)); err != nil {
			return nil, err
		}
	}

	for _, group := range groups {
		groupNodeIDs := topFactory(allNodeIDs).Resolve(group.RoleSelectorValue(), PolicyAll)
		groupSkipped := !filter(group.ID)

		for _, memberID := range group.Tasks {
			member, ok := catalogIndex[memberID]
			if !ok {
				return nil, errUnknownGroupMember(group.ID, memberID)
			}
			skip := groupSkipped && !filter(memberID)
			if err := r.processTask(member, groupNodeIDs, nullFactory, skip); err != nil {
				return nil, err
			}
		}
	}

	r.materializeDependencies(topFactory(allNodeIDs))

	result := make(map[string][]*Record, len(r.placements))
	for _, nodeID := range r.nodeOrder {
		result[nodeID] = r.placements[nodeID].orderedRecords()
	}
	return result, nil
}

// injectHookTasks returns the two synthetic catalog tasks C6 always appends
// to the stream. Their anchors are only populated when a real
// PluginHookSerializer is configured; the default yields nothing for both,
// so an unconfigured run places nothing for them (see NoopPluginHookSerializer).
func injectHookTasks() []*Task {
	return []*Task{
		{
			ID:          string(TaskTypePluginPreDeploymentHook),
			Type:        TaskTypePluginPreDeploymentHook,
			Version:     MinCrossDependencyVersion,
			Requires:    []string{"pre_deployment_end"},
			RequiredFor: []string{"deploy_start"},
		},
		{
			ID:       string(TaskTypePluginPostDeploymentHook),
			Type:     TaskTypePluginPostDeploymentHook,
			Version:  MinCrossDependencyVersion,
			Requires: []string{"post_deployment_end"},
		},
	}
}

func buildTaskFilter(taskIDs []string) func(string) bool {
	if len(taskIDs) == 0 {
		return func(string) bool { return true }
	}
	set := make(map[string]struct{}, len(taskIDs))
	for _, id := range taskIDs {
		set[id] = struct{}{}
	}
	return func(id string) bool {
		_, ok := set[id]
		return ok
	}
}

// processTask drives one catalog task through its serializer and the chain
// builder, then places every resulting record under each of its target
// node ids, applying the update policy at each placement.
func (r *run) processTask(task *Task, candidateNodeIDs []string, resolverFactory ResolverFactory, skip bool) error {
	factory, err := r.registry.Get(task)
	if err != nil {
		return err
	}

	resolver := resolverFactory(candidateNodeIDs)

	serializer, err := factory(task, r.cluster, candidateNodeIDs, resolver)
	if err != nil {
		return errSerializer(task.ID, err)
	}

	effectiveSkip := skip || task.popSkipped() || !serializer.ShouldExecute()

	stream, err := serializer.Serialize()
	if err != nil {
		return err
	}

	records, err := r.processor.Build(task, stream)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if rec.Type == "" {
			rec.Type = string(task.Type)
		}
		if effectiveSkip {
			rec.Type = string(TaskTypeSkipped)
		}

		uids := rec.UIDs
		rec.UIDs = nil

		if len(uids) == 0 {
			r.logger.WithField("task_id", task.ID).Debug("role selector resolved to no nodes; record dropped")
		}

		for _, nodeID := range uids {
			bucket, ok := r.placements[nodeID]
			if !ok {
				bucket = newNodeBucket()
				r.placements[nodeID] = bucket
				r.nodeOrder = append(r.nodeOrder, nodeID)
			}
			r.place(bucket, rec)
		}
	}

	return nil
}

// place applies the update policy (spec §4.8) for one record at one node.
func (r *run) place(bucket *nodeBucket, rec *Record) {
	existing, ok := bucket.get(rec.ID)
	if !ok {
		bucket.place(rec.clone())
		return
	}
	if existing.Type == rec.Type {
		return
	}
	if rec.Type != string(TaskTypeSkipped) {
		bucket.place(rec.clone())
	}
}

// materializeDependencies walks every placed record exactly once and turns
// its unresolved name/cross-dependency references into fully materialized
// Dependency entries, then discards the transient fields that fed it.
func (r *run) materializeDependencies(topResolver RoleResolver) {
	for _, nodeID := range r.nodeOrder {
		bucket := r.placements[nodeID]
		for _, id := range bucket.order {
			rec := bucket.records[id]

			rec.Requires = append(rec.Requires, r.resolveNameList(rec.RequiresNames, nodeID, false)...)
			rec.Requires = append(rec.Requires, r.resolveCrossList(rec.CrossDepends, nodeID, topResolver, false)...)
			rec.Requires = append(rec.Requires, rec.RequiresEx...)

			rec.RequiredFor = append(rec.RequiredFor, r.resolveNameList(rec.RequiredForNames, nodeID, true)...)
			rec.RequiredFor = append(rec.RequiredFor, r.resolveCrossList(rec.CrossDependedBy, nodeID, topResolver, true)...)
			rec.RequiredFor = append(rec.RequiredFor, rec.RequiredForEx...)

			rec.RequiresNames = nil
			rec.RequiredForNames = nil
			rec.CrossDepends = nil
			rec.CrossDependedBy = nil
			rec.RequiresEx = nil
			rec.RequiredForEx = nil
		}
	}
}

func (r *run) resolveNameList(names []string, nodeID string, isRequiredFor bool) []Dependency {
	var deps []Dependency
	for _, ref := range names {
		deps = append(deps, r.resolveSameNode(ref, nodeID, isRequiredFor)...)
	}
	return deps
}

// resolveSameNode searches the current node's bucket, then the null-node
// bucket (skipping the second search when they are the same bucket).
func (r *run) resolveSameNode(ref, nodeID string, isRequiredFor bool) []Dependency {
	var deps []Dependency
	searched := make(map[string]struct{}, 2)
	for _, bucketID := range [2]string{nodeID, NullNodeID} {
		if _, done := searched[bucketID]; done {
			continue
		}
		searched[bucketID] = struct{}{}

		bucket, ok := r.placements[bucketID]
		if !ok {
			continue
		}
		deps = append(deps, r.matchInBucket(ref, bucketID, bucket, isRequiredFor)...)
	}
	return deps
}

func (r *run) resolveCrossList(entries []CrossDependency, nodeID string, topResolver RoleResolver, isRequiredFor bool) []Dependency {
	var deps []Dependency
	for _, entry := range entries {
		for _, targetNodeID := range r.crossTargetNodes(entry, nodeID, topResolver) {
			bucket, ok := r.placements[targetNodeID]
			if !ok {
				continue
			}
			deps = append(deps, r.matchInBucket(entry.Name, targetNodeID, bucket, isRequiredFor)...)
		}
	}
	return deps
}

// crossTargetNodes resolves a cross-dependency entry's role selector to a
// concrete node-id set: "self" always means the current node; "all" or an
// absent role means the resolver's all-node expansion under the entry's
// (or the default "all") policy; anything else resolves that role normally.
func (r *run) crossTargetNodes(entry CrossDependency, currentNodeID string, topResolver RoleResolver) []string {
	policy := entry.Policy
	if policy == "" {
		policy = PolicyAll
	}

	if entry.Role != nil && entry.Role.Self {
		return []string{currentNodeID}
	}
	if entry.Role == nil || entry.Role.All {
		return topResolver.Resolve(&RoleSelector{All: true}, policy)
	}
	return topResolver.Resolve(entry.Role, policy)
}

// matchInBucket resolves one reference string against one node's bucket: an
// exact id match is emitted directly, otherwise the reference is compiled as
// a Name Matcher pattern and matched against each record's origin task id,
// yielding each matching origin at most once (as its own id when it is not
// a chain, or the appropriate chain anchor when it is).
func (r *run) matchInBucket(ref string, nodeID string, bucket *nodeBucket, isRequiredFor bool) []Dependency {
	if _, ok := bucket.get(ref); ok {
		return []Dependency{{Name: ref, NodeID: nodeID}}
	}

	matcher := NewNameMatcher(ref)
	seen := make(map[string]struct{})
	var deps []Dependency

	for _, id := range bucket.order {
		rec := bucket.records[id]
		origin, ok := r.processor.Origin(rec.ID)
		if !ok {
			origin = rec.ID
		}
		if !matcher.Match(origin) {
			continue
		}
		if _, already := seen[origin]; already {
			continue
		}
		seen[origin] = struct{}{}

		emitID := origin
		if rec.ID != origin {
			if isRequiredFor {
				emitID = origin + "_start"
			} else {
				emitID = origin + "_end"
			}
		}
		deps = append(deps, Dependency{Name: emitID, NodeID: nodeID})
	}

	if len(deps) == 0 {
		r.logger.WithField("reference", ref).Debug("dependency reference matched no record")
	}

	return deps
}
