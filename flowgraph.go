// Package flowgraph holds the shared data model for the marketing-automation
// flow builder: the editable visual graph (nodes positioned on a canvas,
// connected by edges) and the canonical directed action graph persisted for
// the execution engine. The transformation and validation logic lives in the
// graph, config, validate and convert subpackages.
package flowgraph

import (
	"encoding/json"
)

// NodeType tags every visual node. The set is closed; normalizers, validators
// and converters switch exhaustively over it so adding a node type is a
// single-point change in each.
type NodeType string

const (
	NodeTrigger           NodeType = "trigger"
	NodeSendSMS           NodeType = "send_sms"
	NodeSendWhatsApp      NodeType = "send_whatsapp"
	NodeSendEmail         NodeType = "send_email"
	NodeDelay             NodeType = "delay"
	NodeCondition         NodeType = "condition"
	NodeConditionalBranch NodeType = "conditional_branch"
	NodeCriarCashback     NodeType = "criar_cashback"
)

// IsAction reports whether nodes of this type are persisted as actions.
// Triggers and conditional branches are modeling devices, never actions.
func (t NodeType) IsAction() bool {
	switch t {
	case NodeTrigger, NodeConditionalBranch:
		return false
	case NodeSendSMS, NodeSendWhatsApp, NodeSendEmail, NodeDelay, NodeCondition, NodeCriarCashback:
		return true
	default:
		return false
	}
}

// Known reports whether t belongs to the closed tag set.
func (t NodeType) Known() bool {
	switch t {
	case NodeTrigger, NodeSendSMS, NodeSendWhatsApp, NodeSendEmail,
		NodeDelay, NodeCondition, NodeConditionalBranch, NodeCriarCashback:
		return true
	}
	return false
}

// NodeLabels maps node types to their default human-readable labels, used
// when a node carries no label of its own.
var NodeLabels = map[NodeType]string{
	NodeTrigger:       "Gatilho",
	NodeSendSMS:       "Enviar SMS",
	NodeSendWhatsApp:  "Enviar WhatsApp",
	NodeSendEmail:     "Enviar E-mail",
	NodeDelay:         "Aguardar",
	NodeCondition:     "Condição",
	NodeCriarCashback: "Criar Cashback",
}

// Label returns the default label for t, falling back to the raw tag.
func (t NodeType) Label() string {
	if label, ok := NodeLabels[t]; ok {
		return label
	}
	return string(t)
}

// Position is canvas geometry. It is irrelevant to flow semantics; the
// converters carry it through untouched.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// VisualNode is one node on the editor canvas. Identity is the ID; the canvas
// layer owns creation, the core only reads nodes and rewrites Data.Valid and
// Data.Errors after a validation pass.
type VisualNode struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// NodeData is the editable payload of a visual node.
type NodeData struct {
	Label string `json:"label,omitempty"`
	// Config is typed per node type; see DecodeConfig.
	Config NodeConfig `json:"config,omitempty"`
	// BranchType marks conditional_branch nodes as the "true" or "false" arm.
	BranchType string `json:"branchType,omitempty"`
	// DBID is the back-reference to the stored action id, present on nodes
	// reconstructed from a persisted flow.
	DBID ActionRef `json:"dbId,omitempty"`
	// Ordem is retained for backward compatibility only; the successor
	// pointers are authoritative.
	Ordem  int      `json:"ordem,omitempty"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// VisualEdge is a directed, one-way connection between two visual nodes.
type VisualEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type,omitempty"`
	Label  string `json:"label,omitempty"`
}

// UnmarshalJSON decodes the node shell first and then dispatches the config
// payload on the node type, so Data.Config comes out as the right variant.
func (n *VisualNode) UnmarshalJSON(data []byte) error {
	var shell struct {
		ID       string   `json:"id"`
		Type     NodeType `json:"type"`
		Position Position `json:"position"`
		Data     struct {
			Label      string          `json:"label"`
			Config     json.RawMessage `json:"config"`
			BranchType string          `json:"branchType"`
			DBID       ActionRef       `json:"dbId"`
			Ordem      int             `json:"ordem"`
			Valid      bool            `json:"valid"`
			Errors     []string        `json:"errors"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &shell); err != nil {
		return err
	}
	cfg, err := DecodeConfig(shell.Type, shell.Data.Config)
	if err != nil {
		return err
	}
	n.ID = shell.ID
	n.Type = shell.Type
	n.Position = shell.Position
	n.Data = NodeData{
		Label:      shell.Data.Label,
		Config:     cfg,
		BranchType: shell.Data.BranchType,
		DBID:       shell.Data.DBID,
		Ordem:      shell.Data.Ordem,
		Valid:      shell.Data.Valid,
		Errors:     shell.Data.Errors,
	}
	return nil
}

// FindNode returns the first node with the given id.
func FindNode(nodes []VisualNode, id string) (VisualNode, bool) {
	for _, node := range nodes {
		if node.ID == id {
			return node, true
		}
	}
	return VisualNode{}, false
}

// TriggerNode returns the first trigger node, if any.
func TriggerNode(nodes []VisualNode) (VisualNode, bool) {
	for _, node := range nodes {
		if node.Type == NodeTrigger {
			return node, true
		}
	}
	return VisualNode{}, false
}

// ActionNodes filters out trigger and conditional_branch nodes, preserving
// input order.
func ActionNodes(nodes []VisualNode) []VisualNode {
	out := make([]VisualNode, 0, len(nodes))
	for _, node := range nodes {
		if node.Type.IsAction() {
			out = append(out, node)
		}
	}
	return out
}

// DisplayLabel is the label used in user-facing messages: the node's own
// label when present, otherwise its id.
func (n VisualNode) DisplayLabel() string {
	if n.Data.Label != "" {
		return n.Data.Label
	}
	return n.ID
}
