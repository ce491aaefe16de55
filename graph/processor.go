package graph

import (
	"fmt"
	"sort"
)

// Processor wraps a serializer's raw output into a well-formed chain: a
// single record for a non-chaining task, or a start/interior/end sequence
// for one that chains. It also maintains the lineage map from every
// generated record id back to the catalog task that produced it.
type Processor struct {
	lineage map[string]string
}

// NewProcessor returns an empty Processor.
func NewProcessor() *Processor {
	return &Processor{lineage: make(map[string]string)}
}

// Origin returns the catalog task id a generated record id was produced
// from. Every id the Processor has ever yielded has an entry here,
// including non-chain ids (which map to themselves).
func (p *Processor) Origin(id string) (string, bool) {
	origin, ok := p.lineage[id]
	return origin, ok
}

// Build consumes a task's raw serializer output and returns the wired chain.
// An empty stream yields nothing and performs no version check, matching
// spec behavior for tasks a serializer declines to produce anything for.
func (p *Processor) Build(task *Task, stream RecordIterator) ([]*Record, error) {
	first, ok := stream.Next()
	if !ok {
		return nil, nil
	}
	second, hasSecond := stream.Next()

	if err := checkVersionGate(task); err != nil {
		return nil, err
	}

	if !hasSecond {
		return p.buildSingle(task, first), nil
	}

	return p.buildChain(task, first, second, stream), nil
}

func (p *Processor) buildSingle(task *Task, rec *Record) []*Record {
	out := rec.clone()
	out.ID = task.ID
	out.RequiresNames = append([]string(nil), task.Requires...)
	out.RequiredForNames = append([]string(nil), task.RequiredFor...)
	out.CrossDepends = append([]CrossDependency(nil), task.CrossDepends...)
	out.CrossDependedBy = append([]CrossDependency(nil), task.CrossDependedBy...)

	p.lineage[out.ID] = task.ID
	return []*Record{out}
}

func (p *Processor) buildChain(task *Task, first, second *Record, stream RecordIterator) []*Record {
	var out []*Record

	startID := task.ID + "_start"
	start := first.clone()
	start.ID = startID
	start.RequiresNames = append([]string(nil), task.Requires...)
	start.CrossDepends = append([]CrossDependency(nil), task.CrossDepends...)
	p.lineage[startID] = task.ID
	out = append(out, start)

	prevID := startID
	prevUIDs := first.UIDs
	current := second
	k := 1

	for {
		next, hasNext := stream.Next()
		if !hasNext {
			endID := task.ID + "_end"
			end := current.clone()
			end.ID = endID
			end.RequiredForNames = append([]string(nil), task.RequiredFor...)
			end.CrossDependedBy = append([]CrossDependency(nil), task.CrossDependedBy...)
			wireLink(end, prevID, prevUIDs, current.UIDs)
			p.lineage[endID] = task.ID
			out = append(out, end)
			return out
		}

		interiorID := fmt.Sprintf("%s#%d", task.ID, k)
		interior := current.clone()
		interior.ID = interiorID
		wireLink(interior, prevID, prevUIDs, current.UIDs)
		p.lineage[interiorID] = task.ID
		out = append(out, interior)

		prevID = interiorID
		prevUIDs = current.UIDs
		current = next
		k++
	}
}

// wireLink attaches rec to its predecessor in a chain: a same-node reference
// (resolved later via the normal same-node matching path) when the two
// links share node ids, or a direct cross-node edge to each of the
// predecessor's nodes otherwise.
func wireLink(rec *Record, prevID string, prevUIDs, newUIDs []string) {
	if sameUIDs(prevUIDs, newUIDs) {
		rec.RequiresNames = append(rec.RequiresNames, prevID)
		return
	}
	for _, uid := range prevUIDs {
		rec.RequiresEx = append(rec.RequiresEx, Dependency{Name: prevID, NodeID: uid})
	}
}

func sameUIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
