// Package convert transforms between the editable visual graph and the
// stored action graph, in both directions. Forward conversion flattens the
// canvas into an action list with explicit successor references; reverse
// conversion rebuilds the canvas, synthesizing the trigger node and the
// Sim/Não branch nodes that exist only at the visual boundary.
package convert

import (
	flowgraph "github.com/goliatone/go-flowgraph"
	"github.com/goliatone/go-flowgraph/config"
	"github.com/goliatone/go-flowgraph/graph"
)

// ToActions converts the visual graph into the persistence-ready action
// list. Trigger and conditional_branch nodes are excluded; branch nodes act
// as transparent relays when successors are resolved. Each action's temp id
// is its visual node id; ordem is the 1-based input position, kept only for
// backward compatibility with consumers that have not moved to the successor
// pointers.
func ToActions(nodes []flowgraph.VisualNode, edges []flowgraph.VisualEdge) []flowgraph.Action {
	ix := graph.NewIndex(nodes, edges)
	actionNodes := flowgraph.ActionNodes(nodes)

	actions := make([]flowgraph.Action, 0, len(actionNodes))
	for i, node := range actionNodes {
		action := flowgraph.Action{
			TempID:   node.ID,
			Ordem:    i + 1,
			Nome:     actionName(node),
			TipoAcao: node.Type,
			Config:   config.ToCanonical(node.Type, node.Data.Config),
		}
		if node.Type == flowgraph.NodeCondition {
			action.Config = attachBetweenBound(action.Config, node)
			action.ProximaAcaoTrue, action.ProximaAcaoFalse = conditionArms(ix, node)
		} else {
			action.ProximaAcao = nextAction(ix, node)
		}
		actions = append(actions, action)
	}
	return actions
}

func actionName(node flowgraph.VisualNode) string {
	if node.Data.Label != "" {
		return node.Data.Label
	}
	return flowgraph.NodeLabels[node.Type]
}

// attachBetweenBound copies the upper bound of a between condition into the
// stored config. The normalizer leaves value2 alone on purpose; it is wiring,
// like the successor ids, that belongs to the converter.
func attachBetweenBound(cfg flowgraph.CanonicalConfig, node flowgraph.VisualNode) flowgraph.CanonicalConfig {
	canonical, ok := cfg.(flowgraph.CanonicalCondicao)
	if !ok || canonical.Operator != "between" {
		return cfg
	}
	ui, ok := node.Data.Config.(flowgraph.ConditionConfig)
	if !ok || ui.Condicao == nil || ui.Condicao.Value2 == nil {
		return cfg
	}
	canonical.Value2 = ui.Condicao.Value2
	return canonical
}

// conditionArms resolves the true/false successors of a condition node. A
// conditional_branch target identifies its arm through the explicit
// branchType, falling back to the "Sim" label convention; the branch then
// relays exactly one hop to the real next action. A condition wired straight
// into an action (irregular authoring) lands on the true arm.
func conditionArms(ix *graph.Index, node flowgraph.VisualNode) (trueRef, falseRef flowgraph.ActionRef) {
	for _, edge := range ix.Outgoing(node.ID) {
		target, ok := ix.Node(edge.Target)
		if !ok {
			continue
		}
		switch {
		case target.Type == flowgraph.NodeConditionalBranch:
			arm := target.Data.BranchType
			if arm == "" {
				if target.Data.Label == "Sim" {
					arm = "true"
				} else {
					arm = "false"
				}
			}
			next := branchTarget(ix, target)
			if next == "" {
				continue
			}
			if arm == "true" {
				trueRef = flowgraph.ActionRef(next)
			} else {
				falseRef = flowgraph.ActionRef(next)
			}
		case target.Type != flowgraph.NodeTrigger:
			trueRef = flowgraph.ActionRef(target.ID)
		}
	}
	return trueRef, falseRef
}

func branchTarget(ix *graph.Index, branch flowgraph.VisualNode) string {
	edge, ok := ix.FirstOutgoing(branch.ID)
	if !ok {
		return ""
	}
	next, ok := ix.Node(edge.Target)
	if !ok || !next.Type.IsAction() {
		return ""
	}
	return next.ID
}

// nextAction resolves the single successor of a non-condition action,
// following chains of conditional_branch nodes until a real action or a dead
// end. The visited set guards against malformed self-referential branch
// chains, which would otherwise never terminate.
func nextAction(ix *graph.Index, node flowgraph.VisualNode) flowgraph.ActionRef {
	edge, ok := ix.FirstOutgoing(node.ID)
	if !ok {
		return ""
	}
	target, found := ix.Node(edge.Target)
	visited := make(map[string]bool)
	for found && target.Type == flowgraph.NodeConditionalBranch {
		if visited[target.ID] {
			return ""
		}
		visited[target.ID] = true
		next, ok := ix.FirstOutgoing(target.ID)
		if !ok {
			return ""
		}
		target, found = ix.Node(next.Target)
	}
	if found && target.Type.IsAction() {
		return flowgraph.ActionRef(target.ID)
	}
	return ""
}
