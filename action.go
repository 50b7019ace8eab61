package flowgraph

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ActionRef identifies an action in the stored graph: either the stable
// numeric id assigned by persistence or a temp id (the visual node id) used
// before the first save. Numeric refs round-trip as JSON numbers.
type ActionRef string

// IsZero reports whether the ref is unset.
func (r ActionRef) IsZero() bool { return r == "" }

func (r ActionRef) numeric() bool {
	if r == "" {
		return false
	}
	for _, c := range r {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// MarshalJSON emits stable ids as numbers and temp ids as strings. An unset
// ref marshals as null.
func (r ActionRef) MarshalJSON() ([]byte, error) {
	if r == "" {
		return []byte("null"), nil
	}
	if r.numeric() {
		return []byte(r), nil
	}
	return json.Marshal(string(r))
}

// UnmarshalJSON accepts numbers, strings and null.
func (r *ActionRef) UnmarshalJSON(data []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*r = ""
	case string:
		*r = ActionRef(val)
	case json.Number:
		*r = ActionRef(val.String())
	default:
		return fmt.Errorf("action ref must be a number or string, got %T", v)
	}
	return nil
}

// Action is one persisted step of the automation in stored form: a node of
// the directed action graph. Non-condition actions point at most one
// successor through ProximaAcao; condition actions carry exactly two labeled
// arms, either of which may dangle.
type Action struct {
	// ID is the stable id once persistence assigned one.
	ID ActionRef
	// TempID is the visual node id standing in for the id before persistence.
	TempID string
	// Ordem is the 1-based position in the exported list. Retained for
	// backward compatibility; the successor pointers are authoritative.
	Ordem    int
	Nome     string
	TipoAcao NodeType
	Config   CanonicalConfig

	ProximaAcao      ActionRef
	ProximaAcaoTrue  ActionRef
	ProximaAcaoFalse ActionRef
}

// Ref is the identifier other actions use to reference this one: the stable
// id when present, the temp id otherwise.
func (a Action) Ref() ActionRef {
	if !a.ID.IsZero() {
		return a.ID
	}
	return ActionRef(a.TempID)
}

// MarshalJSON writes the persistence wire shape: condition actions carry
// proxima_acao_true/proxima_acao_false (explicit null when dangling), all
// others carry proxima_acao.
func (a Action) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 8)
	if !a.ID.IsZero() {
		out["id"] = a.ID
	}
	if a.TempID != "" {
		out["temp_id"] = a.TempID
	}
	out["ordem"] = a.Ordem
	if a.Nome != "" {
		out["nome"] = a.Nome
	} else {
		out["nome"] = nil
	}
	out["tipo_acao"] = a.TipoAcao
	out["config"] = a.Config
	if a.TipoAcao == NodeCondition {
		out["proxima_acao_true"] = a.ProximaAcaoTrue
		out["proxima_acao_false"] = a.ProximaAcaoFalse
	} else {
		out["proxima_acao"] = a.ProximaAcao
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the shell and then the config payload by action type.
func (a *Action) UnmarshalJSON(data []byte) error {
	var shell struct {
		ID               ActionRef       `json:"id"`
		TempID           string          `json:"temp_id"`
		Ordem            int             `json:"ordem"`
		Nome             string          `json:"nome"`
		TipoAcao         NodeType        `json:"tipo_acao"`
		Config           json.RawMessage `json:"config"`
		ProximaAcao      ActionRef       `json:"proxima_acao"`
		ProximaAcaoTrue  ActionRef       `json:"proxima_acao_true"`
		ProximaAcaoFalse ActionRef       `json:"proxima_acao_false"`
	}
	if err := json.Unmarshal(data, &shell); err != nil {
		return err
	}
	cfg, err := DecodeCanonicalConfig(shell.TipoAcao, shell.Config)
	if err != nil {
		return err
	}
	a.ID = shell.ID
	a.TempID = shell.TempID
	a.Ordem = shell.Ordem
	a.Nome = shell.Nome
	a.TipoAcao = shell.TipoAcao
	a.Config = cfg
	a.ProximaAcao = shell.ProximaAcao
	a.ProximaAcaoTrue = shell.ProximaAcaoTrue
	a.ProximaAcaoFalse = shell.ProximaAcaoFalse
	return nil
}
