// Package validate implements the multi-layer validation pipeline: per-node
// config validation, whole-graph batch aggregation and the export-readiness
// gate. Every validating function returns a typed result and never fails;
// the editor keeps working on an invalid in-progress graph and the caller
// decides how to surface problems.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/go-ozzo/ozzo-validation/v4/is"
	flowgraph "github.com/goliatone/go-flowgraph"
)

// SMSMaxLength caps the body of custom SMS messages.
const SMSMaxLength = 160

var variableToken = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Config validates a node configuration for the given node type. Dispatch is
// exhaustive over the closed tag set; unrecognized types yield a single
// INVALID_NODE_TYPE error.
func Config(t flowgraph.NodeType, cfg flowgraph.NodeConfig) flowgraph.ValidationResult {
	switch t {
	case flowgraph.NodeTrigger:
		return triggerConfig(cfg)
	case flowgraph.NodeSendSMS:
		return sendSMSConfig(cfg)
	case flowgraph.NodeSendWhatsApp:
		return sendWhatsAppConfig(cfg)
	case flowgraph.NodeSendEmail:
		return sendEmailConfig(cfg)
	case flowgraph.NodeDelay:
		return delayConfig(cfg)
	case flowgraph.NodeCondition:
		return conditionConfig(cfg)
	case flowgraph.NodeCriarCashback:
		return criarCashbackConfig(cfg)
	case flowgraph.NodeConditionalBranch:
		// Sim/Não arms are auxiliary and carry no configuration.
		return flowgraph.ValidationResult{Valid: true, Errors: []flowgraph.ValidationError{}}
	default:
		return result([]flowgraph.ValidationError{{
			Field:   "type",
			Message: "Tipo de node inválido",
			Code:    flowgraph.CodeInvalidNodeType,
		}})
	}
}

func result(errs []flowgraph.ValidationError) flowgraph.ValidationResult {
	if errs == nil {
		errs = []flowgraph.ValidationError{}
	}
	return flowgraph.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func triggerConfig(cfg flowgraph.NodeConfig) flowgraph.ValidationResult {
	trigger, _ := cfg.(flowgraph.TriggerConfig)
	var errs []flowgraph.ValidationError

	if trigger.TriggerTipo == "" {
		errs = append(errs, flowgraph.ValidationError{
			Field:   "trigger_tipo",
			Message: "Tipo de gatilho nao selecionado",
			Code:    flowgraph.CodeRequiredField,
		})
		return result(errs)
	}

	if trigger.TriggerTipo == "carrinho_abandonado" {
		return result(nil)
	}

	if trigger.StatusTo == "" {
		errs = append(errs, flowgraph.ValidationError{
			Field:   "status_to",
			Message: "Status de destino e obrigatorio",
			Code:    flowgraph.CodeRequiredField,
		})
	}
	if trigger.StatusFrom != "" && trigger.StatusTo != "" && trigger.StatusFrom == trigger.StatusTo {
		errs = append(errs, flowgraph.ValidationError{
			Field:   "status_from",
			Message: "Status de origem nao pode ser igual ao de destino",
			Code:    flowgraph.CodeInvalidValue,
		})
	}
	return result(errs)
}

func sendSMSConfig(cfg flowgraph.NodeConfig) flowgraph.ValidationResult {
	msg, _ := cfg.(flowgraph.MessageConfig)
	var errs []flowgraph.ValidationError

	switch msg.Origem {
	case "template":
		if msg.TemplateID == 0 {
			errs = append(errs, flowgraph.ValidationError{
				Field:   "template_id",
				Message: "Template é obrigatório quando origem é template",
				Code:    flowgraph.CodeRequiredField,
			})
		}
	case "custom":
		if isBlank(msg.Mensagem) {
			errs = append(errs, flowgraph.ValidationError{
				Field:   "mensagem",
				Message: "Mensagem é obrigatória quando origem é custom",
				Code:    flowgraph.CodeRequiredField,
			})
		}
		if msg.Mensagem != "" && utf8.RuneCountInString(msg.Mensagem) > SMSMaxLength {
			errs = append(errs, flowgraph.ValidationError{
				Field:   "mensagem",
				Message: fmt.Sprintf("Mensagem SMS não pode ter mais de %d caracteres", SMSMaxLength),
				Code:    flowgraph.CodeMaxLength,
			})
		}
	default:
		errs = append(errs, flowgraph.ValidationError{
			Field:   "origem",
			Message: "Origem deve ser template ou custom",
			Code:    flowgraph.CodeRequiredField,
		})
	}

	errs = append(errs, unmappedVariables(msg.Mensagem, msg.Variaveis)...)
	return result(errs)
}

func sendWhatsAppConfig(cfg flowgraph.NodeConfig) flowgraph.ValidationResult {
	msg, _ := cfg.(flowgraph.MessageConfig)
	var errs []flowgraph.ValidationError

	switch msg.Origem {
	case "template":
		if msg.TemplateID == 0 {
			errs = append(errs, flowgraph.ValidationError{
				Field:   "template_id",
				Message: "Template é obrigatório quando origem é template",
				Code:    flowgraph.CodeRequiredField,
			})
		}
	case "custom":
		if isBlank(msg.Mensagem) {
			errs = append(errs, flowgraph.ValidationError{
				Field:   "mensagem",
				Message: "Mensagem é obrigatória quando origem é custom",
				Code:    flowgraph.CodeRequiredField,
			})
		}
	default:
		errs = append(errs, flowgraph.ValidationError{
			Field:   "origem",
			Message: "Origem deve ser template ou custom",
			Code:    flowgraph.CodeRequiredField,
		})
	}

	if msg.MediaURL != "" {
		if err := is.URL.Validate(msg.MediaURL); err != nil {
			errs = append(errs, flowgraph.ValidationError{
				Field:   "media_url",
				Message: "URL da mídia inválida",
				Code:    flowgraph.CodeInvalidURL,
			})
		}
	}

	errs = append(errs, unmappedVariables(msg.Mensagem, msg.Variaveis)...)
	return result(errs)
}

func sendEmailConfig(cfg flowgraph.NodeConfig) flowgraph.ValidationResult {
	msg, _ := cfg.(flowgraph.MessageConfig)
	var errs []flowgraph.ValidationError

	switch msg.Origem {
	case "template":
		if msg.TemplateID == 0 {
			errs = append(errs, flowgraph.ValidationError{
				Field:   "template_id",
				Message: "Template é obrigatório quando origem é template",
				Code:    flowgraph.CodeRequiredField,
			})
		}
	case "custom":
		if isBlank(msg.Assunto) {
			errs = append(errs, flowgraph.ValidationError{
				Field:   "assunto",
				Message: "Assunto é obrigatório quando origem é custom",
				Code:    flowgraph.CodeRequiredField,
			})
		}
		if isBlank(msg.MensagemHTML) {
			errs = append(errs, flowgraph.ValidationError{
				Field:   "mensagem_html",
				Message: "Mensagem HTML é obrigatória quando origem é custom",
				Code:    flowgraph.CodeRequiredField,
			})
		}
	default:
		errs = append(errs, flowgraph.ValidationError{
			Field:   "origem",
			Message: "Origem deve ser template ou custom",
			Code:    flowgraph.CodeRequiredField,
		})
	}

	if msg.DeEmail != "" {
		if err := is.Email.Validate(msg.DeEmail); err != nil {
			errs = append(errs, flowgraph.ValidationError{
				Field:   "de_email",
				Message: "Email do remetente inválido",
				Code:    flowgraph.CodeInvalidEmail,
			})
		}
	}

	errs = append(errs, unmappedVariables(msg.MensagemHTML, msg.Variaveis)...)
	return result(errs)
}

// validDelayTypes are the accepted unit spellings, legacy English included.
var validDelayTypes = map[string]bool{
	"minutes": true,
	"hours":   true,
	"days":    true,
	"weeks":   true,
	"months":  true,
	"minutos": true,
	"horas":   true,
	"dias":    true,
}

func delayConfig(cfg flowgraph.NodeConfig) flowgraph.ValidationResult {
	delay, _ := cfg.(flowgraph.DelayConfig)
	var errs []flowgraph.ValidationError

	if delay.Tipo == "" {
		errs = append(errs, flowgraph.ValidationError{
			Field:   "tipo",
			Message: "Tipo de delay é obrigatório",
			Code:    flowgraph.CodeRequiredField,
		})
	} else if !validDelayTypes[delay.Tipo] {
		errs = append(errs, flowgraph.ValidationError{
			Field:   "tipo",
			Message: "Tipo de delay inválido",
			Code:    flowgraph.CodeInvalidValue,
		})
	}

	if delay.Valor == 0 {
		errs = append(errs, flowgraph.ValidationError{
			Field:   "valor",
			Message: "Valor do delay é obrigatório",
			Code:    flowgraph.CodeRequiredField,
		})
	} else if delay.Valor < 0 {
		errs = append(errs, flowgraph.ValidationError{
			Field:   "valor",
			Message: "Valor do delay deve ser maior que zero",
			Code:    flowgraph.CodeInvalidValue,
		})
	}

	return result(errs)
}

// conditionFields is the fixed catalog of comparable fields, spanning the
// order, cashback, customer, product and variant namespaces.
var conditionFields = map[string]bool{
	"pedido.valor":                     true,
	"pedido.quantidade_itens":          true,
	"pedido.status_flash":              true,
	"pedido.cupom":                     true,
	"pedido.loja_id":                   true,
	"cashback.valor":                   true,
	"cashback.status":                  true,
	"cashback.compra_minima":           true,
	"cliente.total_pedidos":            true,
	"cliente.valor_total_gasto":        true,
	"cliente.ticket_medio":             true,
	"cliente.dias_desde_ultimo_pedido": true,
	"cliente.segmento_id":              true,
	"cliente.genero":                   true,
	"cliente.idade":                    true,
	"cliente.estado":                   true,
	"cliente.cidade":                   true,
	"produto.nome":                     true,
	"produto.categoria_nome":           true,
	"variacao.cor":                     true,
	"variacao.tamanho":                 true,
}

// conditionOperators is the fixed operator set. Bare < and > are intentionally
// excluded; ranges go through between.
var conditionOperators = map[string]bool{
	">=":           true,
	"<=":           true,
	"=":            true,
	"!=":           true,
	"between":      true,
	"contains":     true,
	"not_contains": true,
	"in":           true,
	"not_in":       true,
}

var numericConditionFields = map[string]bool{
	"pedido.valor":                     true,
	"pedido.quantidade_itens":          true,
	"cashback.valor":                   true,
	"cashback.compra_minima":           true,
	"cliente.total_pedidos":            true,
	"cliente.valor_total_gasto":        true,
	"cliente.ticket_medio":             true,
	"cliente.dias_desde_ultimo_pedido": true,
	"cliente.idade":                    true,
}

var integerConditionFields = map[string]bool{
	"pedido.quantidade_itens":          true,
	"cliente.total_pedidos":            true,
	"cliente.dias_desde_ultimo_pedido": true,
	"cliente.idade":                    true,
}

// selectConditionFields are dropdown-backed ids; they only need a chosen
// value, never a numeric check.
var selectConditionFields = map[string]bool{
	"pedido.loja_id":      true,
	"cliente.segmento_id": true,
}

func conditionConfig(cfg flowgraph.NodeConfig) flowgraph.ValidationResult {
	condition, _ := cfg.(flowgraph.ConditionConfig)
	var errs []flowgraph.ValidationError

	if condition.Condicao == nil {
		errs = append(errs, flowgraph.ValidationError{
			Field:   "condicao",
			Message: "Condição é obrigatória",
			Code:    flowgraph.CodeRequiredField,
		})
		return result(errs)
	}
	cond := condition.Condicao

	if cond.Field == "" {
		errs = append(errs, flowgraph.ValidationError{
			Field:   "condicao.field",
			Message: "Campo é obrigatório",
			Code:    flowgraph.CodeRequiredField,
		})
	} else if !conditionFields[cond.Field] {
		errs = append(errs, flowgraph.ValidationError{
			Field:   "condicao.field",
			Message: "Campo inválido",
			Code:    flowgraph.CodeInvalidValue,
		})
	}

	if cond.Operator == "" {
		errs = append(errs, flowgraph.ValidationError{
			Field:   "condicao.operator",
			Message: "Operador é obrigatório",
			Code:    flowgraph.CodeRequiredField,
		})
	} else if !conditionOperators[cond.Operator] {
		errs = append(errs, flowgraph.ValidationError{
			Field:   "condicao.operator",
			Message: "Operador inválido",
			Code:    flowgraph.CodeInvalidValue,
		})
	}

	if cond.Operator == "between" {
		if isMissing(cond.Value) {
			errs = append(errs, flowgraph.ValidationError{
				Field:   "condicao.value",
				Message: "Valor mínimo é obrigatório",
				Code:    flowgraph.CodeRequiredField,
			})
		}
		if isMissing(cond.Value2) {
			errs = append(errs, flowgraph.ValidationError{
				Field:   "condicao.value2",
				Message: "Valor máximo é obrigatório",
				Code:    flowgraph.CodeRequiredField,
			})
		}
		if !isMissing(cond.Value) && !isMissing(cond.Value2) {
			low, okLow := toFloat(cond.Value)
			high, okHigh := toFloat(cond.Value2)
			if okLow && okHigh && high <= low {
				errs = append(errs, flowgraph.ValidationError{
					Field:   "condicao.value2",
					Message: "Valor máximo deve ser maior que o mínimo",
					Code:    flowgraph.CodeInvalidValue,
				})
			}
		}
	} else if isMissing(cond.Value) {
		errs = append(errs, flowgraph.ValidationError{
			Field:   "condicao.value",
			Message: "Valor é obrigatório",
			Code:    flowgraph.CodeRequiredField,
		})
	}

	if numericConditionFields[cond.Field] {
		value, isNumber := asNumber(cond.Value)
		if !isNumber {
			errs = append(errs, flowgraph.ValidationError{
				Field:   "condicao.value",
				Message: "Valor deve ser numérico",
				Code:    flowgraph.CodeInvalidValue,
			})
		} else if value < 0 {
			errs = append(errs, flowgraph.ValidationError{
				Field:   "condicao.value",
				Message: "Valor não pode ser negativo",
				Code:    flowgraph.CodeInvalidValue,
			})
		}
		if integerConditionFields[cond.Field] && (!isNumber || value != math.Trunc(value)) {
			errs = append(errs, flowgraph.ValidationError{
				Field:   "condicao.value",
				Message: "Valor deve ser um número inteiro",
				Code:    flowgraph.CodeInvalidValue,
			})
		}
	}

	if selectConditionFields[cond.Field] && !isTruthy(cond.Value) {
		errs = append(errs, flowgraph.ValidationError{
			Field:   "condicao.value",
			Message: "Selecione um valor",
			Code:    flowgraph.CodeMissingValue,
		})
	}

	return result(errs)
}

// cashbackField bundles the bounds shared by the criar_cashback validators.
type cashbackField struct {
	name     string
	label    string
	value    *float64
	min, max float64
}

func criarCashbackConfig(cfg flowgraph.NodeConfig) flowgraph.ValidationResult {
	cashback, _ := cfg.(flowgraph.CashbackConfig)
	var errs []flowgraph.ValidationError

	fields := []cashbackField{
		{"desconto_max_percentual", "Desconto máximo percentual", cashback.DescontoMaxPercentual, 0, 100},
		{"cashback_percentual", "Cashback percentual", cashback.CashbackPercentual, 0, 100},
		{"dias_inicio", "Dias para ativação", cashback.DiasInicio, 0, 365},
		{"dias_vencimento", "Dias para vencimento", cashback.DiasVencimento, 1, 365},
	}
	for _, f := range fields {
		switch {
		case f.value == nil:
			errs = append(errs, flowgraph.ValidationError{
				Field:   f.name,
				Message: fmt.Sprintf("%s é obrigatório", f.label),
				Code:    flowgraph.CodeRequiredField,
			})
		case *f.value < f.min || *f.value > f.max:
			errs = append(errs, flowgraph.ValidationError{
				Field:   f.name,
				Message: fmt.Sprintf("%s deve estar entre %d e %d", f.label, int(f.min), int(f.max)),
				Code:    flowgraph.CodeInvalidValue,
			})
		case *f.value != math.Trunc(*f.value):
			errs = append(errs, flowgraph.ValidationError{
				Field:   f.name,
				Message: fmt.Sprintf("%s deve ser um número inteiro", f.label),
				Code:    flowgraph.CodeInvalidValue,
			})
		}
	}

	if cashback.DiasVencimento != nil && cashback.DiasInicio != nil &&
		*cashback.DiasVencimento <= *cashback.DiasInicio {
		errs = append(errs, flowgraph.ValidationError{
			Field:   "dias_vencimento",
			Message: "Dias para vencimento deve ser maior que dias para ativação",
			Code:    flowgraph.CodeInvalidValue,
		})
	}

	return result(errs)
}

// ExtractVariables returns the {{token}} placeholder names found in text, in
// order of appearance and without deduplication.
func ExtractVariables(text string) []string {
	matches := variableToken.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

func unmappedVariables(content string, vars map[string]string) []flowgraph.ValidationError {
	if content == "" {
		return nil
	}
	var errs []flowgraph.ValidationError
	for _, name := range ExtractVariables(content) {
		if mapped, ok := vars[name]; !ok || mapped == "" {
			errs = append(errs, flowgraph.ValidationError{
				Field:   "variaveis",
				Message: fmt.Sprintf("Variável {{%s}} não mapeada", name),
				Code:    flowgraph.CodeUnmappedVariable,
			})
		}
	}
	return errs
}

func isBlank(s string) bool {
	for _, c := range s {
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return false
		}
	}
	return true
}

func isMissing(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func isTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	default:
		f, ok := toFloat(v)
		if ok {
			return f != 0
		}
		return true
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	if f, ok := asNumber(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return f, true
		}
	}
	return 0, false
}
