package convert

import (
	flowgraph "github.com/goliatone/go-flowgraph"
)

// TriggerTipoOrderStatus is the only trigger kind the builder supports today.
const TriggerTipoOrderStatus = "order_status_change"

// TriggerConfigFromNodes extracts the flow-level trigger config from the
// canvas. A missing trigger node yields the zero config so the payload shape
// stays stable.
func TriggerConfigFromNodes(nodes []flowgraph.VisualNode) flowgraph.TriggerConfig {
	trigger, ok := flowgraph.TriggerNode(nodes)
	if !ok {
		return flowgraph.TriggerConfig{}
	}
	cfg, ok := trigger.Data.Config.(flowgraph.TriggerConfig)
	if !ok {
		return flowgraph.TriggerConfig{}
	}
	return flowgraph.TriggerConfig{
		StatusFrom: cfg.StatusFrom,
		StatusTo:   cfg.StatusTo,
	}
}

// Fluxo is the flow-level half of a persistence payload.
type Fluxo struct {
	Nome                   string                  `json:"nome"`
	Descricao              *string                 `json:"descricao"`
	TriggerTipo            string                  `json:"trigger_tipo"`
	TriggerConfig          flowgraph.TriggerConfig `json:"trigger_config"`
	Ativo                  bool                    `json:"ativo"`
	PermitirReentrada      bool                    `json:"permitir_reentrada"`
	IntervaloReentradaDias *int                    `json:"intervalo_reentrada_dias"`
}

// Payload is the full create-flow persistence document.
type Payload struct {
	Fluxo Fluxo              `json:"fluxo"`
	Acoes []flowgraph.Action `json:"acoes"`
}

// PayloadParams carries the editor state a payload is built from.
type PayloadParams struct {
	Nome                   string
	Descricao              string
	Nodes                  []flowgraph.VisualNode
	Edges                  []flowgraph.VisualEdge
	Ativo                  bool
	PermitirReentrada      bool
	IntervaloReentradaDias *int
}

// FlowPayload builds the create payload for a new flow: flow-level metadata
// plus the converted action list.
func FlowPayload(p PayloadParams) Payload {
	nome := p.Nome
	if nome == "" {
		nome = "Novo Fluxo"
	}
	var descricao *string
	if p.Descricao != "" {
		descricao = &p.Descricao
	}
	return Payload{
		Fluxo: Fluxo{
			Nome:                   nome,
			Descricao:              descricao,
			TriggerTipo:            TriggerTipoOrderStatus,
			TriggerConfig:          TriggerConfigFromNodes(p.Nodes),
			Ativo:                  p.Ativo,
			PermitirReentrada:      p.PermitirReentrada,
			IntervaloReentradaDias: p.IntervaloReentradaDias,
		},
		Acoes: ToActions(p.Nodes, p.Edges),
	}
}

// UpdateParams carries the fields of an update; nil pointers mean "leave the
// stored value alone" and are omitted from the resulting document.
type UpdateParams struct {
	Nome                   *string
	Descricao              *string
	Ativo                  *bool
	PermitirReentrada      *bool
	IntervaloReentradaDias *int
	Nodes                  []flowgraph.VisualNode
	Edges                  []flowgraph.VisualEdge
}

// UpdateDocument is the partial-update persistence document. Fluxo holds only
// the keys being changed; the action list always replaces the stored one.
type UpdateDocument struct {
	Fluxo map[string]any     `json:"fluxo"`
	Acoes []flowgraph.Action `json:"acoes"`
}

// UpdatePayload builds the update document for an existing flow. The trigger
// config is always refreshed from the canvas, since the canvas is the source
// of truth for it.
func UpdatePayload(p UpdateParams) UpdateDocument {
	fluxo := map[string]any{
		"trigger_config": TriggerConfigFromNodes(p.Nodes),
	}
	if p.Nome != nil {
		fluxo["nome"] = *p.Nome
	}
	if p.Descricao != nil {
		fluxo["descricao"] = *p.Descricao
	}
	if p.Ativo != nil {
		fluxo["ativo"] = *p.Ativo
	}
	if p.PermitirReentrada != nil {
		fluxo["permitir_reentrada"] = *p.PermitirReentrada
	}
	if p.IntervaloReentradaDias != nil {
		fluxo["intervalo_reentrada_dias"] = *p.IntervaloReentradaDias
	}
	return UpdateDocument{
		Fluxo: fluxo,
		Acoes: ToActions(p.Nodes, p.Edges),
	}
}
