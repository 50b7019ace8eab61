package convert

import (
	flowgraph "github.com/goliatone/go-flowgraph"
	"github.com/goliatone/go-flowgraph/config"
)

const (
	triggerLabel = "Gatilho: Mudança de Status"

	edgeTypeSmooth = "smoothstep"
)

// ToVisual rebuilds the editable graph from a stored action list. The trigger
// node is synthesized from the flow-level trigger config; condition actions
// get their Sim/Não branch nodes re-materialized. entry names the first
// action; when zero, the unique action no successor points at is used, with
// the first action as a final fallback. Positions are left at the origin
// except for the trigger; callers wanting a usable canvas run
// graph.AutoLayout afterwards.
func ToVisual(acoes []flowgraph.Action, trigger *flowgraph.TriggerConfig, entry flowgraph.ActionRef) ([]flowgraph.VisualNode, []flowgraph.VisualEdge) {
	nodes := []flowgraph.VisualNode{triggerNode(trigger)}
	edges := []flowgraph.VisualEdge{}

	if len(acoes) == 0 {
		return nodes, edges
	}

	nodeIDs := make(map[flowgraph.ActionRef]string, len(acoes))
	for _, acao := range acoes {
		nodeIDs[acao.Ref()] = "node_" + string(acao.Ref())
	}

	for _, acao := range acoes {
		ref := acao.Ref()
		id := nodeIDs[ref]
		nodes = append(nodes, flowgraph.VisualNode{
			ID:   id,
			Type: acao.TipoAcao,
			Data: flowgraph.NodeData{
				Label:  displayLabel(acao),
				Config: config.ToUI(acao.TipoAcao, acao.Config),
				DBID:   acao.ID,
				Ordem:  acao.Ordem,
				Valid:  true,
			},
		})

		if acao.TipoAcao == flowgraph.NodeCondition {
			trueBranch, falseBranch := branchNodes(ref)
			nodes = append(nodes, trueBranch, falseBranch)
			edges = append(edges,
				smoothEdge(id, trueBranch.ID),
				smoothEdge(id, falseBranch.ID),
			)
			if next, ok := nodeIDs[acao.ProximaAcaoTrue]; ok && !acao.ProximaAcaoTrue.IsZero() {
				edges = append(edges, smoothEdge(trueBranch.ID, next))
			}
			if next, ok := nodeIDs[acao.ProximaAcaoFalse]; ok && !acao.ProximaAcaoFalse.IsZero() {
				edges = append(edges, smoothEdge(falseBranch.ID, next))
			}
			continue
		}

		if next, ok := nodeIDs[acao.ProximaAcao]; ok && !acao.ProximaAcao.IsZero() {
			edges = append(edges, smoothEdge(id, next))
		}
	}

	if first, ok := nodeIDs[entryRef(acoes, entry)]; ok {
		edges = append(edges, smoothEdge(flowgraph.TriggerNodeID, first))
	}
	return nodes, edges
}

func triggerNode(trigger *flowgraph.TriggerConfig) flowgraph.VisualNode {
	cfg := flowgraph.TriggerConfig{}
	if trigger != nil {
		cfg = *trigger
	}
	if cfg.TriggerTipo == "" {
		cfg.TriggerTipo = "order_status_change"
	}
	node := flowgraph.VisualNode{
		ID:       flowgraph.TriggerNodeID,
		Type:     flowgraph.NodeTrigger,
		Position: flowgraph.Position{X: 250, Y: 50},
		Data: flowgraph.NodeData{
			Label:  triggerLabel,
			Config: cfg,
			Valid:  cfg.StatusTo != "",
		},
	}
	if !node.Data.Valid {
		node.Data.Errors = []string{"status_to é obrigatório"}
	}
	return node
}

func displayLabel(acao flowgraph.Action) string {
	if acao.Nome != "" {
		return acao.Nome
	}
	if label, ok := flowgraph.NodeLabels[acao.TipoAcao]; ok {
		return label
	}
	return string(acao.TipoAcao)
}

func branchNodes(ref flowgraph.ActionRef) (flowgraph.VisualNode, flowgraph.VisualNode) {
	trueBranch := flowgraph.VisualNode{
		ID:   "branch_" + string(ref) + "_true",
		Type: flowgraph.NodeConditionalBranch,
		Data: flowgraph.NodeData{Label: "Sim", BranchType: "true", Valid: true},
	}
	falseBranch := flowgraph.VisualNode{
		ID:   "branch_" + string(ref) + "_false",
		Type: flowgraph.NodeConditionalBranch,
		Data: flowgraph.NodeData{Label: "Não", BranchType: "false", Valid: true},
	}
	return trueBranch, falseBranch
}

func smoothEdge(source, target string) flowgraph.VisualEdge {
	return flowgraph.VisualEdge{
		ID:     flowgraph.EdgeID(source, target),
		Source: source,
		Target: target,
		Type:   edgeTypeSmooth,
	}
}

// entryRef picks the action the trigger connects to. An explicit entry wins;
// otherwise the unique action that no successor pointer references is the
// entry, and when that is ambiguous (legacy ordem-only flows) the first
// action stands in.
func entryRef(acoes []flowgraph.Action, entry flowgraph.ActionRef) flowgraph.ActionRef {
	if !entry.IsZero() {
		return entry
	}
	referenced := make(map[flowgraph.ActionRef]bool, len(acoes))
	for _, acao := range acoes {
		for _, ref := range []flowgraph.ActionRef{acao.ProximaAcao, acao.ProximaAcaoTrue, acao.ProximaAcaoFalse} {
			if !ref.IsZero() {
				referenced[ref] = true
			}
		}
	}
	var unreferenced []flowgraph.ActionRef
	for _, acao := range acoes {
		if !referenced[acao.Ref()] {
			unreferenced = append(unreferenced, acao.Ref())
		}
	}
	if len(unreferenced) == 1 {
		return unreferenced[0]
	}
	return acoes[0].Ref()
}
