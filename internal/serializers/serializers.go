// Package serializers provides a small set of built-in task-type
// serializers (puppet, shell, upload_file, reboot) that give the Task
// Serializer Registry contract concrete, exercised implementations beyond
// the reserved stage/skipped/plugin-hook built-ins.
package serializers

import (
	"fmt"

	"code.cloudfoundry.org/taskgraph/graph"
)

// Register adds the four sample factories to r under their task types.
func Register(r *graph.Registry) {
	r.Register("puppet", puppetFactory)
	r.Register("shell", shellFactory)
	r.Register("upload_file", uploadFileFactory)
	r.Register("reboot", rebootFactory)
}

// attrSerializer is the shared shape for a sample serializer: resolve the
// task's role selector to a uid set, validate one required Extra
// parameter, and emit a single record carrying it through as a
// passthrough field.
type attrSerializer struct {
	task     *graph.Task
	resolver graph.RoleResolver
	attrKey  string
}

func (s *attrSerializer) ShouldExecute() bool { return true }

func (s *attrSerializer) Serialize() (graph.RecordIterator, error) {
	value, ok := s.task.Extra[s.attrKey]
	if !ok {
		return nil, fmt.Errorf("task %s: missing required %q parameter", s.task.ID, s.attrKey)
	}

	uids := s.resolver.Resolve(s.task.RoleSelectorValue(), graph.PolicyAll)

	return graph.SliceIterator([]*graph.Record{{
		UIDs:  uids,
		Extra: map[string]interface{}{s.attrKey: value},
	}}), nil
}

func newAttrFactory(attrKey string) graph.SerializerFactory {
	return func(task *graph.Task, cluster *graph.Cluster, candidateNodeIDs []string, resolver graph.RoleResolver) (graph.Serializer, error) {
		return &attrSerializer{task: task, resolver: resolver, attrKey: attrKey}, nil
	}
}

var (
	puppetFactory     = newAttrFactory("manifest")
	shellFactory      = newAttrFactory("cmd")
	uploadFileFactory = newAttrFactory("path")
	rebootFactory     = newAttrFactory("timeout")
)
