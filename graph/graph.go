// Package graph provides the type-agnostic structural analysis of the flow
// editor graph: adjacency indexing, cycle detection, reachability checks and
// topological ordering. It looks only at the generic node/edge shape and
// never at per-node configuration.
package graph

import (
	flowgraph "github.com/goliatone/go-flowgraph"
)

// Index is the adjacency view of a visual graph, built in a single pass and
// shared by every graph algorithm so none of them re-scan the edge list per
// node.
type Index struct {
	nodes    map[string]flowgraph.VisualNode
	order    []string
	outgoing map[string][]flowgraph.VisualEdge
	incoming map[string]int
}

// NewIndex builds the adjacency index for the given graph.
func NewIndex(nodes []flowgraph.VisualNode, edges []flowgraph.VisualEdge) *Index {
	ix := &Index{
		nodes:    make(map[string]flowgraph.VisualNode, len(nodes)),
		order:    make([]string, 0, len(nodes)),
		outgoing: make(map[string][]flowgraph.VisualEdge, len(nodes)),
		incoming: make(map[string]int, len(nodes)),
	}
	for _, node := range nodes {
		if _, seen := ix.nodes[node.ID]; seen {
			continue
		}
		ix.nodes[node.ID] = node
		ix.order = append(ix.order, node.ID)
	}
	for _, edge := range edges {
		ix.outgoing[edge.Source] = append(ix.outgoing[edge.Source], edge)
		ix.incoming[edge.Target]++
	}
	return ix
}

// Node looks up a node by id.
func (ix *Index) Node(id string) (flowgraph.VisualNode, bool) {
	node, ok := ix.nodes[id]
	return node, ok
}

// Outgoing returns the outgoing edges of a node in input order.
func (ix *Index) Outgoing(id string) []flowgraph.VisualEdge {
	return ix.outgoing[id]
}

// FirstOutgoing returns the first outgoing edge of a node. Multiple outgoing
// edges on a non-condition node are structurally anomalous; only the first is
// honored.
func (ix *Index) FirstOutgoing(id string) (flowgraph.VisualEdge, bool) {
	edges := ix.outgoing[id]
	if len(edges) == 0 {
		return flowgraph.VisualEdge{}, false
	}
	return edges[0], true
}

// HasIncoming reports whether any edge targets the node.
func (ix *Index) HasIncoming(id string) bool {
	return ix.incoming[id] > 0
}

// HasCycle reports whether the graph contains a directed cycle. Depth-first
// traversal from every unvisited node; an edge into a node still on the
// recursion stack signals the cycle.
func HasCycle(nodes []flowgraph.VisualNode, edges []flowgraph.VisualEdge) bool {
	return hasCycle(NewIndex(nodes, edges))
}

func hasCycle(ix *Index) bool {
	visited := make(map[string]bool, len(ix.order))
	onStack := make(map[string]bool)

	var visit func(id string) bool
	visit = func(id string) bool {
		visited[id] = true
		onStack[id] = true
		for _, edge := range ix.Outgoing(id) {
			if !visited[edge.Target] {
				if visit(edge.Target) {
					return true
				}
			} else if onStack[edge.Target] {
				return true
			}
		}
		delete(onStack, id)
		return false
	}

	for _, id := range ix.order {
		if !visited[id] {
			if visit(id) {
				return true
			}
		}
	}
	return false
}

// IsStructurallyValid reports whether the graph satisfies the structural
// invariants: at least one trigger, a non-empty node set, every non-trigger
// node reachable through at least one incoming edge, and no cycle.
func IsStructurallyValid(nodes []flowgraph.VisualNode, edges []flowgraph.VisualEdge) bool {
	if len(nodes) == 0 {
		return false
	}
	if _, ok := flowgraph.TriggerNode(nodes); !ok {
		return false
	}
	ix := NewIndex(nodes, edges)
	for _, node := range nodes {
		if node.Type == flowgraph.NodeTrigger {
			continue
		}
		if !ix.HasIncoming(node.ID) {
			return false
		}
	}
	return !hasCycle(ix)
}

// TopologicalOrder returns the nodes in dependency order: DFS postorder
// reversal starting from entry points (nodes with no incoming edge), then any
// remaining unvisited nodes so disconnected components are covered. A cycle
// is reported through the second return and the back-edge treated as absent,
// so the function is total on any input.
func TopologicalOrder(nodes []flowgraph.VisualNode, edges []flowgraph.VisualEdge) ([]flowgraph.VisualNode, bool) {
	ix := NewIndex(nodes, edges)
	visited := make(map[string]bool, len(nodes))
	onStack := make(map[string]bool)
	cycle := false
	post := make([]flowgraph.VisualNode, 0, len(nodes))

	var visit func(id string)
	visit = func(id string) {
		if onStack[id] {
			cycle = true
			return
		}
		if visited[id] {
			return
		}
		onStack[id] = true
		for _, edge := range ix.Outgoing(id) {
			visit(edge.Target)
		}
		delete(onStack, id)
		visited[id] = true
		if node, ok := ix.Node(id); ok {
			post = append(post, node)
		}
	}

	for _, node := range nodes {
		if !ix.HasIncoming(node.ID) && !visited[node.ID] {
			visit(node.ID)
		}
	}
	for _, node := range nodes {
		if !visited[node.ID] {
			visit(node.ID)
		}
	}

	ordered := make([]flowgraph.VisualNode, len(post))
	for i, node := range post {
		ordered[len(post)-1-i] = node
	}
	return ordered, cycle
}

// Layout geometry for the vertical auto-layout. Only the ordering decision is
// semantic; the coordinates exist for the canvas layer.
const (
	layoutCenterX  = 250
	layoutStartY   = 50
	layoutSpacingY = 150
)

// AutoLayout returns a copy of the nodes in topological order with positions
// assigned along a vertical column.
func AutoLayout(nodes []flowgraph.VisualNode, edges []flowgraph.VisualEdge) []flowgraph.VisualNode {
	ordered, _ := TopologicalOrder(nodes, edges)
	out := make([]flowgraph.VisualNode, len(ordered))
	for i, node := range ordered {
		node.Position = flowgraph.Position{
			X: layoutCenterX,
			Y: layoutStartY + float64(i)*layoutSpacingY,
		}
		out[i] = node
	}
	return out
}
