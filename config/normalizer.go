// Package config maps per-node configuration between the UI-facing authoring
// shape and the canonical storage shape consumed by the execution engine.
// Both directions are pure and total: missing fields become nulls or
// defaults, never errors.
package config

import (
	flowgraph "github.com/goliatone/go-flowgraph"
)

// DefaultDelayUnit is used when a delay carries no recognizable unit.
const DefaultDelayUnit = "horas"

// delayUnits maps English unit names and legacy Portuguese spellings to the
// canonical Portuguese unit names.
var delayUnits = map[string]string{
	"minutes": "minutos",
	"hours":   "horas",
	"days":    "dias",
	"weeks":   "semanas",
	"minutos": "minutos",
	"horas":   "horas",
	"dias":    "dias",
	"semanas": "semanas",
}

// NormalizeDelayUnit resolves a unit spelling to its canonical name, falling
// back to the default unit when unrecognized.
func NormalizeDelayUnit(unit string) string {
	if canonical, ok := delayUnits[unit]; ok {
		return canonical
	}
	return DefaultDelayUnit
}

// ToCanonical converts a UI config into its storage shape. The value2 of a
// between condition and the resolved true/false successors are attached by
// the converter, not here.
func ToCanonical(t flowgraph.NodeType, cfg flowgraph.NodeConfig) flowgraph.CanonicalConfig {
	switch t {
	case flowgraph.NodeSendSMS, flowgraph.NodeSendWhatsApp, flowgraph.NodeSendEmail:
		msg, _ := cfg.(flowgraph.MessageConfig)
		var templateID *int64
		if msg.TemplateID != 0 {
			id := msg.TemplateID
			templateID = &id
		}
		return flowgraph.EnvioConfig{TemplateID: templateID}

	case flowgraph.NodeDelay:
		delay, _ := cfg.(flowgraph.DelayConfig)
		return flowgraph.CanonicalDelay{
			Quantidade: delay.Valor,
			Unidade:    NormalizeDelayUnit(delay.Tipo),
		}

	case flowgraph.NodeCondition:
		cond, _ := cfg.(flowgraph.ConditionConfig)
		canonical := flowgraph.CanonicalCondicao{Operator: "="}
		if cond.Condicao == nil {
			return canonical
		}
		if cond.Condicao.Field != "" {
			field := cond.Condicao.Field
			canonical.Field = &field
		}
		if cond.Condicao.Operator != "" {
			canonical.Operator = cond.Condicao.Operator
		}
		canonical.Value = cond.Condicao.Value
		return canonical

	case flowgraph.NodeCriarCashback:
		cashback, _ := cfg.(flowgraph.CashbackConfig)
		return cashback

	default:
		if generic, ok := cfg.(flowgraph.GenericConfig); ok {
			return flowgraph.GenericConfig(cleanMap(generic))
		}
		return flowgraph.GenericConfig{}
	}
}

// ToUI converts a storage config back into the UI authoring shape. Message
// configs come back template-sourced: the authored text was intentionally not
// stored, so only the template reference is reconstructed.
func ToUI(t flowgraph.NodeType, cfg flowgraph.CanonicalConfig) flowgraph.NodeConfig {
	switch t {
	case flowgraph.NodeSendSMS, flowgraph.NodeSendWhatsApp, flowgraph.NodeSendEmail:
		envio, _ := cfg.(flowgraph.EnvioConfig)
		msg := flowgraph.MessageConfig{Origem: "template"}
		if envio.TemplateID != nil {
			msg.TemplateID = *envio.TemplateID
		}
		return msg

	case flowgraph.NodeDelay:
		delay, _ := cfg.(flowgraph.CanonicalDelay)
		tipo := delay.Unidade
		if tipo == "" {
			tipo = DefaultDelayUnit
		}
		return flowgraph.DelayConfig{Tipo: tipo, Valor: delay.Quantidade}

	case flowgraph.NodeCondition:
		cond, _ := cfg.(flowgraph.CanonicalCondicao)
		condicao := &flowgraph.Condicao{Operator: "="}
		if cond.Field != nil {
			condicao.Field = *cond.Field
		}
		if cond.Operator != "" {
			condicao.Operator = cond.Operator
		}
		if cond.Value != nil {
			condicao.Value = cond.Value
		} else {
			condicao.Value = ""
		}
		if cond.Value2 != nil {
			condicao.Value2 = cond.Value2
		}
		return flowgraph.ConditionConfig{Condicao: condicao}

	case flowgraph.NodeCriarCashback:
		cashback, _ := cfg.(flowgraph.CashbackConfig)
		return cashback

	default:
		if generic, ok := cfg.(flowgraph.GenericConfig); ok {
			return generic
		}
		return flowgraph.GenericConfig{}
	}
}

// cleanMap strips null and empty-string leaves recursively. Nested objects
// are cleaned in turn and dropped entirely when nothing survives.
func cleanMap(in map[string]any) map[string]any {
	cleaned := make(map[string]any, len(in))
	for key, value := range in {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			if v == "" {
				continue
			}
			cleaned[key] = v
		case map[string]any:
			nested := cleanMap(v)
			if len(nested) > 0 {
				cleaned[key] = nested
			}
		default:
			cleaned[key] = value
		}
	}
	return cleaned
}
