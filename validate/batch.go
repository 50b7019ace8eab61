package validate

import (
	"fmt"

	flowgraph "github.com/goliatone/go-flowgraph"
	"github.com/goliatone/go-flowgraph/graph"
)

// Scope classifies where a batch error originates. Consumers filter on it, so
// the literals are part of the contract.
type Scope string

const (
	ScopeStructure  Scope = "structure"
	ScopeNode       Scope = "node"
	ScopeConnection Scope = "connection"
)

// BatchError is one whole-graph validation failure with the node context
// attached when there is one.
type BatchError struct {
	Scope     Scope               `json:"type"`
	NodeID    string              `json:"nodeId,omitempty"`
	NodeType  flowgraph.NodeType  `json:"nodeType,omitempty"`
	NodeLabel string              `json:"nodeLabel,omitempty"`
	Field     string              `json:"field,omitempty"`
	Message   string              `json:"message"`
	Code      flowgraph.ErrorCode `json:"code"`
}

// NodeResult is the per-node validation outcome enriched with display
// context.
type NodeResult struct {
	flowgraph.ValidationResult
	Type  flowgraph.NodeType `json:"type"`
	Label string             `json:"label"`
}

// Summary counts the batch outcome.
type Summary struct {
	TotalNodes   int `json:"totalNodes"`
	ValidNodes   int `json:"validNodes"`
	InvalidNodes int `json:"invalidNodes"`
	TotalErrors  int `json:"totalErrors"`
}

// BatchResult is the aggregate outcome of validating a whole graph.
type BatchResult struct {
	Valid          bool                  `json:"valid"`
	StructureValid bool                  `json:"structureValid"`
	NodeResults    map[string]NodeResult `json:"nodeResults"`
	Errors         []BatchError          `json:"errors"`
	Summary        Summary               `json:"summary"`
}

// All runs the structural analyzer and every node's config validation over
// the graph and merges the outcome into one report.
//
// A node with no incoming edge surfaces twice on purpose: once through the
// structure-level INVALID_STRUCTURE error and once as a targeted
// DISCONNECTED_NODE error, because downstream consumers filter by error
// scope. Anyone summing raw error counts must expect the double-count.
func All(nodes []flowgraph.VisualNode, edges []flowgraph.VisualEdge) BatchResult {
	nodeResults := make(map[string]NodeResult, len(nodes))
	var errs []BatchError

	structureValid := graph.IsStructurallyValid(nodes, edges)
	if !structureValid {
		errs = append(errs, BatchError{
			Scope:   ScopeStructure,
			Message: "Estrutura do fluxo invalida",
			Code:    flowgraph.CodeInvalidStructure,
		})
	}

	for _, node := range nodes {
		res := Config(node.Type, node.Data.Config)
		nodeResults[node.ID] = NodeResult{
			ValidationResult: res,
			Type:             node.Type,
			Label:            node.DisplayLabel(),
		}
		for _, e := range res.Errors {
			errs = append(errs, BatchError{
				Scope:     ScopeNode,
				NodeID:    node.ID,
				NodeType:  node.Type,
				NodeLabel: node.DisplayLabel(),
				Field:     e.Field,
				Message:   e.Message,
				Code:      e.Code,
			})
		}
	}

	ix := graph.NewIndex(nodes, edges)
	connectionErrors := 0
	for _, node := range nodes {
		if node.Type == flowgraph.NodeTrigger {
			continue
		}
		if !ix.HasIncoming(node.ID) {
			connectionErrors++
			errs = append(errs, BatchError{
				Scope:     ScopeConnection,
				NodeID:    node.ID,
				NodeType:  node.Type,
				NodeLabel: node.DisplayLabel(),
				Field:     "connection",
				Message:   fmt.Sprintf("Node %q nao esta conectado ao fluxo", node.DisplayLabel()),
				Code:      flowgraph.CodeDisconnectedNode,
			})
		}
	}

	allNodesValid := true
	validNodes := 0
	for _, res := range nodeResults {
		if res.Valid {
			validNodes++
		} else {
			allNodesValid = false
		}
	}

	return BatchResult{
		Valid:          structureValid && allNodesValid && connectionErrors == 0,
		StructureValid: structureValid,
		NodeResults:    nodeResults,
		Errors:         errs,
		Summary: Summary{
			TotalNodes:   len(nodes),
			ValidNodes:   validNodes,
			InvalidNodes: len(nodes) - validNodes,
			TotalErrors:  len(errs),
		},
	}
}

// ApplyValidation returns a copy of the nodes with data.valid and data.errors
// rewritten from a batch result. Nodes without a result are carried through
// untouched.
func ApplyValidation(nodes []flowgraph.VisualNode, batch BatchResult) []flowgraph.VisualNode {
	if batch.NodeResults == nil {
		return nodes
	}
	out := make([]flowgraph.VisualNode, len(nodes))
	for i, node := range nodes {
		res, ok := batch.NodeResults[node.ID]
		if !ok {
			out[i] = node
			continue
		}
		node.Data.Valid = res.Valid
		node.Data.Errors = res.Messages()
		out[i] = node
	}
	return out
}

// FormattedErrors flattens a batch result into display strings. Node-scoped
// errors are prefixed with the node label.
func FormattedErrors(batch BatchResult) []string {
	if len(batch.Errors) == 0 {
		return nil
	}
	out := make([]string, 0, len(batch.Errors))
	for _, e := range batch.Errors {
		if e.Scope == ScopeNode {
			label := e.NodeLabel
			if label == "" {
				label = e.NodeID
			}
			out = append(out, fmt.Sprintf("[%s] %s", label, e.Message))
			continue
		}
		out = append(out, e.Message)
	}
	return out
}

// StructureGroupKey indexes structure-level errors in GroupErrorsByNode.
const StructureGroupKey = "_structure"

// GroupErrorsByNode buckets batch errors by node id; structure-level errors
// land under StructureGroupKey.
func GroupErrorsByNode(errs []BatchError) map[string][]BatchError {
	grouped := make(map[string][]BatchError)
	for _, e := range errs {
		switch {
		case e.Scope == ScopeStructure:
			grouped[StructureGroupKey] = append(grouped[StructureGroupKey], e)
		case e.NodeID != "":
			grouped[e.NodeID] = append(grouped[e.NodeID], e)
		}
	}
	return grouped
}

// HasConnectionError reports whether a node lacks an incoming edge. Triggers
// never need one.
func HasConnectionError(nodeID string, edges []flowgraph.VisualEdge, nodeType flowgraph.NodeType) bool {
	if nodeType == flowgraph.NodeTrigger {
		return false
	}
	for _, edge := range edges {
		if edge.Target == nodeID {
			return false
		}
	}
	return true
}

var suggestions = map[flowgraph.ErrorCode]string{
	flowgraph.CodeRequiredField:    "Preencha o campo obrigatorio",
	flowgraph.CodeInvalidValue:     "Verifique o valor informado",
	flowgraph.CodeMaxLength:        "Reduza o tamanho do texto",
	flowgraph.CodeInvalidURL:       "Verifique se a URL esta correta",
	flowgraph.CodeInvalidEmail:     "Verifique se o email esta no formato correto",
	flowgraph.CodeUnmappedVariable: "Configure o mapeamento da variavel",
	flowgraph.CodeInvalidNodeType:  "Tipo de node nao reconhecido",
	flowgraph.CodeDisconnectedNode: "Conecte este node a um node anterior no fluxo",
	flowgraph.CodeInvalidStructure: "Verifique se o fluxo tem um gatilho e pelo menos uma acao",
	flowgraph.CodeMissingValue:     "Selecione um valor",
}

// Suggestion returns the corrective hint for an error code.
func Suggestion(code flowgraph.ErrorCode) string {
	if s, ok := suggestions[code]; ok {
		return s
	}
	return "Verifique a configuracao"
}
