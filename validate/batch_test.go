package validate

import (
	"testing"

	flowgraph "github.com/goliatone/go-flowgraph"
)

func validTrigger() flowgraph.VisualNode {
	return flowgraph.VisualNode{
		ID:   "trigger_1",
		Type: flowgraph.NodeTrigger,
		Data: flowgraph.NodeData{
			Label:  "Gatilho",
			Config: flowgraph.TriggerConfig{TriggerTipo: "order_status_change", StatusTo: "pago"},
		},
	}
}

func validSMS(id string) flowgraph.VisualNode {
	return flowgraph.VisualNode{
		ID:   id,
		Type: flowgraph.NodeSendSMS,
		Data: flowgraph.NodeData{
			Label:  "Enviar SMS",
			Config: flowgraph.MessageConfig{Origem: "template", TemplateID: 3},
		},
	}
}

func connect(source, target string) flowgraph.VisualEdge {
	return flowgraph.VisualEdge{
		ID:     flowgraph.EdgeID(source, target),
		Source: source,
		Target: target,
	}
}

func TestAllValidFlow(t *testing.T) {
	nodes := []flowgraph.VisualNode{validTrigger(), validSMS("sms_1")}
	edges := []flowgraph.VisualEdge{connect("trigger_1", "sms_1")}

	batch := All(nodes, edges)
	if !batch.Valid {
		t.Fatalf("expected valid batch, errors: %v", batch.Errors)
	}
	if !batch.StructureValid {
		t.Fatalf("expected structure to be valid")
	}
	if batch.Summary.TotalNodes != 2 || batch.Summary.ValidNodes != 2 || batch.Summary.TotalErrors != 0 {
		t.Fatalf("unexpected summary: %+v", batch.Summary)
	}
}

func TestAllReportsDisconnectedNodeOnBothScopes(t *testing.T) {
	nodes := []flowgraph.VisualNode{validTrigger(), validSMS("sms_1"), validSMS("sms_2")}
	edges := []flowgraph.VisualEdge{connect("trigger_1", "sms_1")}

	batch := All(nodes, edges)
	if batch.Valid {
		t.Fatalf("expected invalid batch")
	}
	if batch.StructureValid {
		t.Fatalf("a disconnected node invalidates the structure")
	}

	var structure, connection int
	for _, e := range batch.Errors {
		switch e.Scope {
		case ScopeStructure:
			structure++
			if e.Code != flowgraph.CodeInvalidStructure {
				t.Fatalf("unexpected structure code %s", e.Code)
			}
		case ScopeConnection:
			connection++
			if e.NodeID != "sms_2" || e.Code != flowgraph.CodeDisconnectedNode {
				t.Fatalf("unexpected connection error %+v", e)
			}
		}
	}
	if structure != 1 || connection != 1 {
		t.Fatalf("expected the disconnect to surface on both scopes, got structure=%d connection=%d", structure, connection)
	}

	// node configs themselves are fine
	if batch.Summary.InvalidNodes != 0 {
		t.Fatalf("node configs are valid, summary: %+v", batch.Summary)
	}
}

func TestAllCollectsNodeErrorsWithDisplayContext(t *testing.T) {
	broken := flowgraph.VisualNode{
		ID:   "delay_1",
		Type: flowgraph.NodeDelay,
		Data: flowgraph.NodeData{Label: "Espera", Config: flowgraph.DelayConfig{}},
	}
	nodes := []flowgraph.VisualNode{validTrigger(), broken}
	edges := []flowgraph.VisualEdge{connect("trigger_1", "delay_1")}

	batch := All(nodes, edges)
	if batch.Valid {
		t.Fatalf("expected invalid batch")
	}

	res, ok := batch.NodeResults["delay_1"]
	if !ok || res.Valid {
		t.Fatalf("expected invalid result for delay_1, got %+v", res)
	}
	if res.Label != "Espera" || res.Type != flowgraph.NodeDelay {
		t.Fatalf("result should carry display context, got %+v", res)
	}

	found := false
	for _, e := range batch.Errors {
		if e.Scope == ScopeNode && e.NodeID == "delay_1" && e.NodeLabel == "Espera" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected node-scoped error with label, got %v", batch.Errors)
	}
}

func TestApplyValidation(t *testing.T) {
	broken := flowgraph.VisualNode{
		ID:   "delay_1",
		Type: flowgraph.NodeDelay,
		Data: flowgraph.NodeData{Config: flowgraph.DelayConfig{}, Valid: true},
	}
	nodes := []flowgraph.VisualNode{validTrigger(), broken}
	edges := []flowgraph.VisualEdge{connect("trigger_1", "delay_1")}

	batch := All(nodes, edges)
	applied := ApplyValidation(nodes, batch)

	if &applied[0] == &nodes[0] {
		t.Fatalf("ApplyValidation must not alias the input slice")
	}
	if !applied[0].Data.Valid {
		t.Fatalf("trigger should be marked valid")
	}
	if applied[1].Data.Valid {
		t.Fatalf("delay should be marked invalid")
	}
	if len(applied[1].Data.Errors) == 0 {
		t.Fatalf("delay should carry its error messages")
	}
	if nodes[1].Data.Errors != nil {
		t.Fatalf("input nodes must stay untouched")
	}
}

func TestFormattedErrors(t *testing.T) {
	broken := flowgraph.VisualNode{
		ID:   "delay_1",
		Type: flowgraph.NodeDelay,
		Data: flowgraph.NodeData{Label: "Espera", Config: flowgraph.DelayConfig{}},
	}
	nodes := []flowgraph.VisualNode{validTrigger(), broken}
	edges := []flowgraph.VisualEdge{connect("trigger_1", "delay_1")}

	lines := FormattedErrors(All(nodes, edges))
	if len(lines) == 0 {
		t.Fatalf("expected formatted lines")
	}
	foundPrefixed := false
	for _, line := range lines {
		if line == "[Espera] Tipo de delay é obrigatório" {
			foundPrefixed = true
		}
	}
	if !foundPrefixed {
		t.Fatalf("expected label-prefixed node error, got %v", lines)
	}

	if lines := FormattedErrors(BatchResult{}); lines != nil {
		t.Fatalf("expected nil for empty batch, got %v", lines)
	}
}

func TestGroupErrorsByNode(t *testing.T) {
	errs := []BatchError{
		{Scope: ScopeStructure, Code: flowgraph.CodeInvalidStructure},
		{Scope: ScopeNode, NodeID: "a", Code: flowgraph.CodeRequiredField},
		{Scope: ScopeNode, NodeID: "a", Code: flowgraph.CodeInvalidValue},
		{Scope: ScopeConnection, NodeID: "b", Code: flowgraph.CodeDisconnectedNode},
	}
	grouped := GroupErrorsByNode(errs)
	if len(grouped[StructureGroupKey]) != 1 {
		t.Fatalf("expected structure bucket, got %v", grouped)
	}
	if len(grouped["a"]) != 2 || len(grouped["b"]) != 1 {
		t.Fatalf("unexpected grouping: %v", grouped)
	}
}

func TestHasConnectionError(t *testing.T) {
	edges := []flowgraph.VisualEdge{connect("trigger_1", "sms_1")}

	if HasConnectionError("trigger_1", edges, flowgraph.NodeTrigger) {
		t.Fatalf("trigger never needs an incoming edge")
	}
	if HasConnectionError("sms_1", edges, flowgraph.NodeSendSMS) {
		t.Fatalf("sms_1 is connected")
	}
	if !HasConnectionError("sms_2", edges, flowgraph.NodeSendSMS) {
		t.Fatalf("sms_2 has no incoming edge")
	}
}

func TestSuggestion(t *testing.T) {
	if s := Suggestion(flowgraph.CodeDisconnectedNode); s != "Conecte este node a um node anterior no fluxo" {
		t.Fatalf("unexpected suggestion: %q", s)
	}
	if s := Suggestion(flowgraph.ErrorCode("SOMETHING_ELSE")); s != "Verifique a configuracao" {
		t.Fatalf("expected generic fallback, got %q", s)
	}
}
