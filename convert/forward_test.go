package convert

import (
	"testing"

	flowgraph "github.com/goliatone/go-flowgraph"
)

func vn(id string, t flowgraph.NodeType, data flowgraph.NodeData) flowgraph.VisualNode {
	return flowgraph.VisualNode{ID: id, Type: t, Data: data}
}

func ve(source, target string) flowgraph.VisualEdge {
	return flowgraph.VisualEdge{
		ID:     flowgraph.EdgeID(source, target),
		Source: source,
		Target: target,
	}
}

func findAction(t *testing.T, actions []flowgraph.Action, tempID string) flowgraph.Action {
	t.Helper()
	for _, a := range actions {
		if a.TempID == tempID {
			return a
		}
	}
	t.Fatalf("no action with temp id %s in %+v", tempID, actions)
	return flowgraph.Action{}
}

func TestToActionsLinearFlow(t *testing.T) {
	nodes := []flowgraph.VisualNode{
		vn("trigger_1", flowgraph.NodeTrigger, flowgraph.NodeData{
			Config: flowgraph.TriggerConfig{TriggerTipo: "order_status_change", StatusTo: "pago"},
		}),
		vn("sms_1", flowgraph.NodeSendSMS, flowgraph.NodeData{
			Label:  "Boas vindas",
			Config: flowgraph.MessageConfig{Origem: "template", TemplateID: 3},
		}),
		vn("delay_1", flowgraph.NodeDelay, flowgraph.NodeData{
			Config: flowgraph.DelayConfig{Tipo: "hours", Valor: 2},
		}),
	}
	edges := []flowgraph.VisualEdge{
		ve("trigger_1", "sms_1"),
		ve("sms_1", "delay_1"),
	}

	actions := ToActions(nodes, edges)
	if len(actions) != 2 {
		t.Fatalf("trigger must be excluded, got %d actions", len(actions))
	}

	sms := actions[0]
	if sms.TempID != "sms_1" || sms.Ordem != 1 || sms.Nome != "Boas vindas" {
		t.Fatalf("unexpected first action: %+v", sms)
	}
	if sms.ProximaAcao != "delay_1" {
		t.Fatalf("sms successor = %q, want delay_1", sms.ProximaAcao)
	}
	envio, ok := sms.Config.(flowgraph.EnvioConfig)
	if !ok || envio.TemplateID == nil || *envio.TemplateID != 3 {
		t.Fatalf("unexpected sms config: %+v", sms.Config)
	}

	delay := actions[1]
	if delay.Ordem != 2 || !delay.ProximaAcao.IsZero() {
		t.Fatalf("unexpected terminal action: %+v", delay)
	}
	if delay.Nome != "Aguardar" {
		t.Fatalf("unlabeled node should fall back to the default name, got %q", delay.Nome)
	}
	if got := delay.Config.(flowgraph.CanonicalDelay); got.Unidade != "horas" || got.Quantidade != 2 {
		t.Fatalf("unexpected delay config: %+v", got)
	}
}

func conditionFlow() ([]flowgraph.VisualNode, []flowgraph.VisualEdge) {
	nodes := []flowgraph.VisualNode{
		vn("trigger_1", flowgraph.NodeTrigger, flowgraph.NodeData{
			Config: flowgraph.TriggerConfig{TriggerTipo: "order_status_change", StatusTo: "pago"},
		}),
		vn("cond_1", flowgraph.NodeCondition, flowgraph.NodeData{
			Config: flowgraph.ConditionConfig{
				Condicao: &flowgraph.Condicao{Field: "pedido.valor", Operator: ">=", Value: 100.0},
			},
		}),
		vn("branch_t", flowgraph.NodeConditionalBranch, flowgraph.NodeData{Label: "Sim", BranchType: "true"}),
		vn("branch_f", flowgraph.NodeConditionalBranch, flowgraph.NodeData{Label: "Não", BranchType: "false"}),
		vn("email_1", flowgraph.NodeSendEmail, flowgraph.NodeData{
			Config: flowgraph.MessageConfig{Origem: "template", TemplateID: 5},
		}),
		vn("sms_1", flowgraph.NodeSendSMS, flowgraph.NodeData{
			Config: flowgraph.MessageConfig{Origem: "template", TemplateID: 6},
		}),
	}
	edges := []flowgraph.VisualEdge{
		ve("trigger_1", "cond_1"),
		ve("cond_1", "branch_t"),
		ve("cond_1", "branch_f"),
		ve("branch_t", "email_1"),
		ve("branch_f", "sms_1"),
	}
	return nodes, edges
}

func TestToActionsConditionArms(t *testing.T) {
	nodes, edges := conditionFlow()
	actions := ToActions(nodes, edges)

	if len(actions) != 3 {
		t.Fatalf("branch nodes must be excluded, got %d actions", len(actions))
	}

	cond := findAction(t, actions, "cond_1")
	if cond.ProximaAcaoTrue != "email_1" {
		t.Fatalf("true arm = %q, want email_1", cond.ProximaAcaoTrue)
	}
	if cond.ProximaAcaoFalse != "sms_1" {
		t.Fatalf("false arm = %q, want sms_1", cond.ProximaAcaoFalse)
	}
	if !cond.ProximaAcao.IsZero() {
		t.Fatalf("condition actions must not carry a single successor, got %q", cond.ProximaAcao)
	}
}

func TestToActionsBranchArmFromLabel(t *testing.T) {
	nodes, edges := conditionFlow()
	// strip the explicit branch types; the Sim label convention must hold
	for i := range nodes {
		nodes[i].Data.BranchType = ""
	}
	actions := ToActions(nodes, edges)

	cond := findAction(t, actions, "cond_1")
	if cond.ProximaAcaoTrue != "email_1" || cond.ProximaAcaoFalse != "sms_1" {
		t.Fatalf("label fallback failed: true=%q false=%q", cond.ProximaAcaoTrue, cond.ProximaAcaoFalse)
	}
}

func TestToActionsConditionWiredStraightToAction(t *testing.T) {
	nodes := []flowgraph.VisualNode{
		vn("cond_1", flowgraph.NodeCondition, flowgraph.NodeData{}),
		vn("sms_1", flowgraph.NodeSendSMS, flowgraph.NodeData{}),
	}
	edges := []flowgraph.VisualEdge{ve("cond_1", "sms_1")}

	cond := findAction(t, ToActions(nodes, edges), "cond_1")
	if cond.ProximaAcaoTrue != "sms_1" {
		t.Fatalf("direct target should land on the true arm, got %q", cond.ProximaAcaoTrue)
	}
	if !cond.ProximaAcaoFalse.IsZero() {
		t.Fatalf("false arm should dangle, got %q", cond.ProximaAcaoFalse)
	}
}

func TestToActionsDanglingBranch(t *testing.T) {
	nodes, edges := conditionFlow()
	// cut the false arm's relay edge
	var trimmed []flowgraph.VisualEdge
	for _, e := range edges {
		if e.Source == "branch_f" {
			continue
		}
		trimmed = append(trimmed, e)
	}

	cond := findAction(t, ToActions(nodes, trimmed), "cond_1")
	if cond.ProximaAcaoTrue != "email_1" {
		t.Fatalf("true arm should survive, got %q", cond.ProximaAcaoTrue)
	}
	if !cond.ProximaAcaoFalse.IsZero() {
		t.Fatalf("unrelayed branch must yield a dangling arm, got %q", cond.ProximaAcaoFalse)
	}
}

func TestToActionsSuccessorThroughBranchChain(t *testing.T) {
	nodes := []flowgraph.VisualNode{
		vn("sms_1", flowgraph.NodeSendSMS, flowgraph.NodeData{}),
		vn("branch_a", flowgraph.NodeConditionalBranch, flowgraph.NodeData{}),
		vn("branch_b", flowgraph.NodeConditionalBranch, flowgraph.NodeData{}),
		vn("delay_1", flowgraph.NodeDelay, flowgraph.NodeData{}),
	}
	edges := []flowgraph.VisualEdge{
		ve("sms_1", "branch_a"),
		ve("branch_a", "branch_b"),
		ve("branch_b", "delay_1"),
	}

	sms := findAction(t, ToActions(nodes, edges), "sms_1")
	if sms.ProximaAcao != "delay_1" {
		t.Fatalf("branch chain should resolve to delay_1, got %q", sms.ProximaAcao)
	}
}

func TestToActionsBranchCycleYieldsNoSuccessor(t *testing.T) {
	nodes := []flowgraph.VisualNode{
		vn("sms_1", flowgraph.NodeSendSMS, flowgraph.NodeData{}),
		vn("branch_a", flowgraph.NodeConditionalBranch, flowgraph.NodeData{}),
		vn("branch_b", flowgraph.NodeConditionalBranch, flowgraph.NodeData{}),
	}
	edges := []flowgraph.VisualEdge{
		ve("sms_1", "branch_a"),
		ve("branch_a", "branch_b"),
		ve("branch_b", "branch_a"),
	}

	sms := findAction(t, ToActions(nodes, edges), "sms_1")
	if !sms.ProximaAcao.IsZero() {
		t.Fatalf("a branch cycle must terminate with no successor, got %q", sms.ProximaAcao)
	}
}

func TestToActionsBetweenCarriesUpperBound(t *testing.T) {
	nodes := []flowgraph.VisualNode{
		vn("cond_1", flowgraph.NodeCondition, flowgraph.NodeData{
			Config: flowgraph.ConditionConfig{
				Condicao: &flowgraph.Condicao{Field: "pedido.valor", Operator: "between", Value: 10.0, Value2: 20.0},
			},
		}),
	}

	cond := findAction(t, ToActions(nodes, nil), "cond_1")
	canonical, ok := cond.Config.(flowgraph.CanonicalCondicao)
	if !ok {
		t.Fatalf("unexpected config type %T", cond.Config)
	}
	if canonical.Value2 != 20.0 {
		t.Fatalf("value2 = %v, want 20", canonical.Value2)
	}
}

func TestToActionsEmptyGraph(t *testing.T) {
	actions := ToActions(nil, nil)
	if len(actions) != 0 {
		t.Fatalf("expected no actions, got %v", actions)
	}
}
