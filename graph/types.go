package graph

import "code.cloudfoundry.org/taskgraph/util"

// Policy describes how a role selector should be expanded into node ids.
type Policy string

// The policies a role selector can be resolved under.
const (
	// PolicyAll resolves to the union of every matching node.
	PolicyAll = Policy("all")
	// PolicyAny resolves to a single, deterministically chosen matching node.
	PolicyAny = Policy("any")
)

// TaskType is the type of a catalog task; see the constants below.
type TaskType string

// The task types with built-in dispatch rules. Anything else falls through
// to the registry's implementation-provided serializers.
const (
	// TaskTypeStage is a synchronization placeholder; it always runs.
	TaskTypeStage = TaskType("stage")
	// TaskTypeGroup references other catalog tasks and propagates its
	// resolved role set and skip state to them.
	TaskTypeGroup = TaskType("group")
	// TaskTypeSkipped is dispatched like a stage task but is always recorded
	// with a skipped placement. Unlike a stage task it is subject to the
	// version gate.
	TaskTypeSkipped = TaskType("skipped")
	// TaskTypePluginPreDeploymentHook is the synthetic pre-deployment anchor.
	TaskTypePluginPreDeploymentHook = TaskType("plugin_pre_deployment_hook")
	// TaskTypePluginPostDeploymentHook is the synthetic post-deployment anchor.
	TaskTypePluginPostDeploymentHook = TaskType("plugin_post_deployment_hook")
)

// NullNodeID is the sentinel node id used for cluster-wide synchronization
// points. It is always present in a Graph's output, even when empty.
const NullNodeID = ""

// Node is a single member of the cluster inventory. The inventory is fixed
// for the duration of one serialization run.
type Node struct {
	ID    string
	Roles map[string]struct{}
}

// HasRole reports whether the node carries the given role.
func (n *Node) HasRole(role string) bool {
	_, ok := n.Roles[role]
	return ok
}

// NewNode builds a Node from an id and an unordered list of role names.
func NewNode(id string, roles []string) *Node {
	roleSet := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}
	return &Node{ID: id, Roles: roleSet}
}

// RoleSelector is a role reference: either the wildcard "all", the special
// "self" marker (valid only inside a CrossDependency), or a literal name or
// list of names.
type RoleSelector struct {
	All   bool
	Self  bool
	Names []string
}

// UnmarshalYAML accepts a role selector expressed as a single string or as a
// list of strings, per spec.
func (s *RoleSelector) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		return s.fromString(single)
	}

	var list []string
	if err := unmarshal(&list); err != nil {
		return err
	}
	s.Names = list
	return nil
}

func (s *RoleSelector) fromString(value string) error {
	switch value {
	case "all":
		s.All = true
	case "self":
		s.Self = true
	default:
		s.Names = []string{value}
	}
	return nil
}

// CrossDependency is one entry of a cross-depends / cross-depended-by list:
// a task-name reference plus an optional role selector and policy.
type CrossDependency struct {
	Name   string        `yaml:"name"`
	Role   *RoleSelector `yaml:"role,omitempty"`
	Policy Policy        `yaml:"policy,omitempty"`
}

// Task is a catalog task: the declarative description of a unit of work fed
// into the serializer. Fields not recognized by the core are preserved in
// Extra so that implementation-defined serializers can read them.
type Task struct {
	ID      string   `yaml:"id"`
	Type    TaskType `yaml:"type"`
	Version string   `yaml:"version,omitempty"`

	Role   *RoleSelector `yaml:"role,omitempty"`
	Groups *RoleSelector `yaml:"groups,omitempty"`
	Tasks  []string      `yaml:"tasks,omitempty"`

	Requires        []string          `yaml:"requires,omitempty"`
	RequiredFor     []string          `yaml:"required_for,omitempty"`
	CrossDepends    []CrossDependency `yaml:"cross-depends,omitempty"`
	CrossDependedBy []CrossDependency `yaml:"cross-depended-by,omitempty"`

	Skipped *bool `yaml:"skipped,omitempty"`

	Extra map[string]interface{} `yaml:",inline"`
}

// EffectiveVersion returns the task's declared version, or the default
// "1.0.0" when none was set.
func (t *Task) EffectiveVersion() string {
	if t.Version == "" {
		return "1.0.0"
	}
	return t.Version
}

// RoleSelectorValue returns the selector to resolve against for a task's own
// placement: task.Groups when present, otherwise task.Role.
func (t *Task) RoleSelectorValue() *RoleSelector {
	if t.Groups != nil {
		return t.Groups
	}
	return t.Role
}

// popSkipped consumes and removes the task's skipped flag, returning its
// value. The key is removed so it does not leak into output.
func (t *Task) popSkipped() bool {
	if t.Skipped == nil {
		return false
	}
	v := *t.Skipped
	t.Skipped = nil
	return v
}

// Dependency is a materialized same-node or cross-node dependency edge.
type Dependency struct {
	Name   string `json:"name" yaml:"name"`
	NodeID string `json:"node_id" yaml:"node_id"`
}

// Record is an output record: an executable task description emitted per
// target node. Before dependency materialization its RequiresNames/
// RequiredForNames/CrossDepends/CrossDependedBy fields hold unresolved
// references and Requires/RequiredFor are empty; materialization fills
// Requires/RequiredFor with resolved edges and clears the other fields.
type Record struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	// UIDs is consumed during placement; it is empty afterwards.
	UIDs []string `json:"-"`

	// Unmaterialized same-node references, copied from the originating task
	// (or synthesized by the chain builder). Consumed during materialization.
	RequiresNames    []string `json:"-"`
	RequiredForNames []string `json:"-"`

	// Unmaterialized cross-node references. Consumed during materialization.
	CrossDepends    []CrossDependency `json:"-"`
	CrossDependedBy []CrossDependency `json:"-"`

	// Chain-internal edges the processor wires directly between links;
	// already fully resolved, so they pass through materialization as-is.
	RequiresEx    []Dependency `json:"-"`
	RequiredForEx []Dependency `json:"-"`

	// Final, materialized dependency lists. Populated by the Graph
	// Serializer's dependency pass; empty before that.
	Requires    []Dependency `json:"requires"`
	RequiredFor []Dependency `json:"required_for"`

	Extra map[string]interface{} `json:"-"`
}

// clone returns a deep-enough copy of the record suitable for placement
// isolation: the dependency slices and the Extra map are copied so that
// later passes may mutate the placed copy without corrupting the record
// still held by the processor's in-flight chain.
func (r *Record) clone() *Record {
	c := *r
	c.UIDs = append([]string(nil), r.UIDs...)
	c.RequiresNames = append([]string(nil), r.RequiresNames...)
	c.RequiredForNames = append([]string(nil), r.RequiredForNames...)
	c.CrossDepends = append([]CrossDependency(nil), r.CrossDepends...)
	c.CrossDependedBy = append([]CrossDependency(nil), r.CrossDependedBy...)
	c.RequiresEx = append([]Dependency(nil), r.RequiresEx...)
	c.RequiredForEx = append([]Dependency(nil), r.RequiredForEx...)
	c.Requires = append([]Dependency(nil), r.Requires...)
	c.RequiredFor = append([]Dependency(nil), r.RequiredFor...)
	if r.Extra != nil {
		c.Extra = make(map[string]interface{}, len(r.Extra))
		for k, v := range r.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

// MarshalJSON renders the record's recognized fields plus any passthrough
// Extra keys the originating task or serializer attached, with recognized
// fields taking precedence over a same-named Extra key. Extra values
// originating from YAML may nest map[interface{}]interface{} maps that
// encoding/json cannot marshal directly, so this goes through
// util.JSONMarshal rather than json.Marshal.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Extra)+3)
	for k, v := range r.Extra {
		out[k] = v
	}
	out["id"] = r.ID
	out["type"] = r.Type
	out["requires"] = r.Requires
	out["required_for"] = r.RequiredFor
	return util.JSONMarshal(out)
}
