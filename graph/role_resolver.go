package graph

import "sort"

// RoleResolver maps a role selector and policy to a concrete, deterministic
// set of node ids.
type RoleResolver interface {
	Resolve(selector *RoleSelector, policy Policy) []string
}

// ResolverFactory builds a RoleResolver scoped to a candidate set of node
// ids. The top-level factory ignores the candidate set and resolves against
// the whole inventory; the Null Resolver factory used during group
// expansion echoes the candidate set back regardless of the selector.
type ResolverFactory func(candidateNodeIDs []string) RoleResolver

// roleResolver is the real role resolver: it resolves a selector against a
// fixed node inventory.
type roleResolver struct {
	nodes []*Node
}

// NewRoleResolverFactory returns a ResolverFactory whose resolvers always
// match against the full node inventory, independent of the candidate set
// they are handed.
func NewRoleResolverFactory(nodes []*Node) ResolverFactory {
	r := &roleResolver{nodes: nodes}
	return func(_ []string) RoleResolver {
		return r
	}
}

// Resolve implements RoleResolver.
func (r *roleResolver) Resolve(selector *RoleSelector, policy Policy) []string {
	matches := r.matchingNodeIDs(selector)
	sort.Strings(matches)
	return applyPolicy(matches, policy)
}

func (r *roleResolver) matchingNodeIDs(selector *RoleSelector) []string {
	if selector == nil {
		return nil
	}

	var ids []string
	for _, n := range r.nodes {
		if selector.All {
			ids = append(ids, n.ID)
			continue
		}
		for _, name := range selector.Names {
			if n.HasRole(name) {
				ids = append(ids, n.ID)
				break
			}
		}
	}
	return ids
}

// applyPolicy narrows a (stably ordered) match set down to a single element
// for PolicyAny, or passes it through unchanged for PolicyAll.
func applyPolicy(sortedIDs []string, policy Policy) []string {
	if policy == PolicyAny {
		if len(sortedIDs) == 0 {
			return nil
		}
		return []string{sortedIDs[0]}
	}
	return sortedIDs
}

// nullResolver ignores the selector and policy it is asked to resolve,
// always returning the node-id set it was constructed with. Used during
// group expansion, where the group has already pinned its members to a
// specific node set.
type nullResolver struct {
	ids []string
}

// NewNullResolverFactory returns a ResolverFactory that, for any candidate
// set it is handed, builds a resolver returning exactly that set.
func NewNullResolverFactory() ResolverFactory {
	return func(candidateNodeIDs []string) RoleResolver {
		return &nullResolver{ids: candidateNodeIDs}
	}
}

// Resolve implements RoleResolver.
func (r *nullResolver) Resolve(_ *RoleSelector, _ Policy) []string {
	return append([]string(nil), r.ids...)
}
