package convert

import (
	"encoding/json"
	"testing"

	flowgraph "github.com/goliatone/go-flowgraph"
)

func payloadNodes() ([]flowgraph.VisualNode, []flowgraph.VisualEdge) {
	nodes := []flowgraph.VisualNode{
		vn("trigger_1", flowgraph.NodeTrigger, flowgraph.NodeData{
			Config: flowgraph.TriggerConfig{TriggerTipo: "order_status_change", StatusFrom: "pendente", StatusTo: "pago"},
		}),
		vn("sms_1", flowgraph.NodeSendSMS, flowgraph.NodeData{
			Config: flowgraph.MessageConfig{Origem: "template", TemplateID: 3},
		}),
	}
	edges := []flowgraph.VisualEdge{ve("trigger_1", "sms_1")}
	return nodes, edges
}

func TestTriggerConfigFromNodes(t *testing.T) {
	nodes, _ := payloadNodes()
	cfg := TriggerConfigFromNodes(nodes)
	if cfg.StatusFrom != "pendente" || cfg.StatusTo != "pago" {
		t.Fatalf("unexpected trigger config: %+v", cfg)
	}
	if cfg.TriggerTipo != "" {
		t.Fatalf("trigger tipo lives on the fluxo, not in trigger_config: %+v", cfg)
	}

	if got := TriggerConfigFromNodes(nil); got != (flowgraph.TriggerConfig{}) {
		t.Fatalf("missing trigger should yield the zero config, got %+v", got)
	}
}

func TestFlowPayload(t *testing.T) {
	nodes, edges := payloadNodes()
	payload := FlowPayload(PayloadParams{
		Nome:  "Pós venda",
		Nodes: nodes,
		Edges: edges,
		Ativo: true,
	})

	if payload.Fluxo.Nome != "Pós venda" || !payload.Fluxo.Ativo {
		t.Fatalf("unexpected fluxo: %+v", payload.Fluxo)
	}
	if payload.Fluxo.TriggerTipo != TriggerTipoOrderStatus {
		t.Fatalf("trigger tipo = %q", payload.Fluxo.TriggerTipo)
	}
	if payload.Fluxo.Descricao != nil {
		t.Fatalf("empty description should marshal as null")
	}
	if payload.Fluxo.TriggerConfig.StatusTo != "pago" {
		t.Fatalf("trigger config not extracted: %+v", payload.Fluxo.TriggerConfig)
	}
	if len(payload.Acoes) != 1 || payload.Acoes[0].TempID != "sms_1" {
		t.Fatalf("unexpected acoes: %+v", payload.Acoes)
	}
}

func TestFlowPayloadDefaultsName(t *testing.T) {
	nodes, edges := payloadNodes()
	payload := FlowPayload(PayloadParams{Nodes: nodes, Edges: edges})
	if payload.Fluxo.Nome != "Novo Fluxo" {
		t.Fatalf("expected default name, got %q", payload.Fluxo.Nome)
	}
}

func TestUpdatePayload(t *testing.T) {
	nodes, edges := payloadNodes()
	nome := "Fluxo renomeado"
	doc := UpdatePayload(UpdateParams{
		Nome:  &nome,
		Nodes: nodes,
		Edges: edges,
	})

	if doc.Fluxo["nome"] != "Fluxo renomeado" {
		t.Fatalf("unexpected nome: %v", doc.Fluxo["nome"])
	}
	if _, ok := doc.Fluxo["descricao"]; ok {
		t.Fatalf("unset fields must be omitted from the update")
	}
	if _, ok := doc.Fluxo["ativo"]; ok {
		t.Fatalf("unset fields must be omitted from the update")
	}
	cfg, ok := doc.Fluxo["trigger_config"].(flowgraph.TriggerConfig)
	if !ok || cfg.StatusTo != "pago" {
		t.Fatalf("trigger config must always be refreshed, got %v", doc.Fluxo["trigger_config"])
	}
	if len(doc.Acoes) != 1 {
		t.Fatalf("the action list always replaces the stored one, got %+v", doc.Acoes)
	}
}

func TestPayloadSerializesStableShape(t *testing.T) {
	nodes, edges := payloadNodes()
	payload := FlowPayload(PayloadParams{Nodes: nodes, Edges: edges})

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	var out struct {
		Fluxo map[string]any   `json:"fluxo"`
		Acoes []map[string]any `json:"acoes"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	for _, key := range []string{"nome", "descricao", "trigger_tipo", "trigger_config", "ativo", "permitir_reentrada", "intervalo_reentrada_dias"} {
		if _, ok := out.Fluxo[key]; !ok {
			t.Fatalf("fluxo is missing %q: %v", key, out.Fluxo)
		}
	}
	if out.Acoes[0]["temp_id"] != "sms_1" {
		t.Fatalf("unexpected action wire shape: %v", out.Acoes[0])
	}
}
