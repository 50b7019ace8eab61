package flowgraph

import (
	"bytes"
	"encoding/json"
)

// NodeConfig is the closed union of UI-facing per-node configurations. The
// concrete variant is selected by the node type; unknown types carry a
// GenericConfig.
type NodeConfig interface {
	isNodeConfig()
}

// CanonicalConfig is the closed union of storage-facing per-action
// configurations, the shape the execution engine consumes.
type CanonicalConfig interface {
	isCanonicalConfig()
}

// TriggerConfig configures the flow entry condition. carrinho_abandonado
// needs no further fields; order status triggers require StatusTo.
type TriggerConfig struct {
	TriggerTipo string `json:"trigger_tipo,omitempty"`
	StatusFrom  string `json:"status_from,omitempty"`
	StatusTo    string `json:"status_to,omitempty"`
}

func (TriggerConfig) isNodeConfig() {}

// MessageConfig is the UI authoring shape shared by send_sms, send_whatsapp
// and send_email nodes. Origem toggles between template selection and custom
// authoring; only TemplateID survives into canonical form.
type MessageConfig struct {
	Origem           string            `json:"origem,omitempty"`
	TemplateID       int64             `json:"template_id,omitempty"`
	TemplateNome     string            `json:"template_nome,omitempty"`
	TemplateConteudo string            `json:"template_conteudo,omitempty"`
	Mensagem         string            `json:"mensagem,omitempty"`
	Assunto          string            `json:"assunto,omitempty"`
	MensagemHTML     string            `json:"mensagem_html,omitempty"`
	MensagemTexto    string            `json:"mensagem_texto,omitempty"`
	Variaveis        map[string]string `json:"variaveis,omitempty"`
	MediaURL         string            `json:"media_url,omitempty"`
	DeNome           string            `json:"de_nome,omitempty"`
	DeEmail          string            `json:"de_email,omitempty"`
}

func (MessageConfig) isNodeConfig() {}

// DelayConfig is the UI delay shape. Tipo accepts both English and legacy
// Portuguese unit spellings; normalization happens in the config package.
type DelayConfig struct {
	Tipo  string  `json:"tipo,omitempty"`
	Valor float64 `json:"valor,omitempty"`
}

func (DelayConfig) isNodeConfig() {}

// Condicao is the nested comparison carried by condition nodes. Value2 is
// only meaningful for the between operator.
type Condicao struct {
	Field    string `json:"field,omitempty"`
	Operator string `json:"operator,omitempty"`
	Value    any    `json:"value,omitempty"`
	Value2   any    `json:"value2,omitempty"`
}

// ConditionConfig nests the comparison under condicao on the UI side.
type ConditionConfig struct {
	Condicao *Condicao `json:"condicao,omitempty"`
}

func (ConditionConfig) isNodeConfig() {}

// CashbackConfig configures criar_cashback actions. The shape is already
// canonical, so it doubles as the storage form.
type CashbackConfig struct {
	CashbackPercentual    *float64 `json:"cashback_percentual"`
	DescontoMaxPercentual *float64 `json:"desconto_max_percentual"`
	DiasInicio            *float64 `json:"dias_inicio"`
	DiasVencimento        *float64 `json:"dias_vencimento"`
}

func (CashbackConfig) isNodeConfig()      {}
func (CashbackConfig) isCanonicalConfig() {}

// GenericConfig carries configuration for unrecognized node types in both
// directions.
type GenericConfig map[string]any

func (GenericConfig) isNodeConfig()      {}
func (GenericConfig) isCanonicalConfig() {}

// EnvioConfig is the canonical form of message-sending actions. Authoring
// content is resolved by the template system and never stored with the
// action.
type EnvioConfig struct {
	TemplateID *int64 `json:"template_id"`
}

func (EnvioConfig) isCanonicalConfig() {}

// CanonicalDelay is the stored delay shape.
type CanonicalDelay struct {
	Quantidade float64 `json:"quantidade"`
	Unidade    string  `json:"unidade"`
}

func (CanonicalDelay) isCanonicalConfig() {}

// CanonicalCondicao is the stored condition shape, flattened from the UI's
// nested condicao. The true/false successor ids live on the Action, not here.
type CanonicalCondicao struct {
	Field    *string `json:"field"`
	Operator string  `json:"operator"`
	Value    any     `json:"value"`
	Value2   any     `json:"value2,omitempty"`
}

func (CanonicalCondicao) isCanonicalConfig() {}

var jsonNull = []byte("null")

// DecodeConfig deserializes a UI config payload into the variant selected by
// the node type. An absent or null payload yields the zero variant; unknown
// node types decode into a GenericConfig. conditional_branch nodes carry no
// config at all.
func DecodeConfig(t NodeType, raw json.RawMessage) (NodeConfig, error) {
	empty := len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull)
	switch t {
	case NodeTrigger:
		var cfg TriggerConfig
		if !empty {
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return nil, err
			}
		}
		return cfg, nil
	case NodeSendSMS, NodeSendWhatsApp, NodeSendEmail:
		var cfg MessageConfig
		if !empty {
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return nil, err
			}
		}
		return cfg, nil
	case NodeDelay:
		var cfg DelayConfig
		if !empty {
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return nil, err
			}
		}
		return cfg, nil
	case NodeCondition:
		var cfg ConditionConfig
		if !empty {
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return nil, err
			}
		}
		return cfg, nil
	case NodeCriarCashback:
		var cfg CashbackConfig
		if !empty {
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return nil, err
			}
		}
		return cfg, nil
	case NodeConditionalBranch:
		return nil, nil
	default:
		cfg := GenericConfig{}
		if !empty {
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return nil, err
			}
		}
		return cfg, nil
	}
}

// DecodeCanonicalConfig deserializes a stored action config into the variant
// selected by the action type.
func DecodeCanonicalConfig(t NodeType, raw json.RawMessage) (CanonicalConfig, error) {
	empty := len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull)
	switch t {
	case NodeSendSMS, NodeSendWhatsApp, NodeSendEmail:
		var cfg EnvioConfig
		if !empty {
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return nil, err
			}
		}
		return cfg, nil
	case NodeDelay:
		var cfg CanonicalDelay
		if !empty {
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return nil, err
			}
		}
		return cfg, nil
	case NodeCondition:
		var cfg CanonicalCondicao
		if !empty {
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return nil, err
			}
		}
		return cfg, nil
	case NodeCriarCashback:
		var cfg CashbackConfig
		if !empty {
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return nil, err
			}
		}
		return cfg, nil
	default:
		cfg := GenericConfig{}
		if !empty {
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return nil, err
			}
		}
		return cfg, nil
	}
}
