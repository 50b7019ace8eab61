package flowgraph

import (
	"encoding/json"

	"github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"
)

// Document is a flow captured on disk or on the wire, either in editable form
// (nodes/edges) or in stored form (acoes plus trigger config). Tooling works
// on whichever side is present.
type Document struct {
	Nome                   string         `json:"nome,omitempty"`
	Descricao              string         `json:"descricao,omitempty"`
	TriggerConfig          *TriggerConfig `json:"trigger_config,omitempty"`
	PrimeiraAcao           ActionRef      `json:"primeira_acao,omitempty"`
	Ativo                  bool           `json:"ativo,omitempty"`
	PermitirReentrada      bool           `json:"permitir_reentrada,omitempty"`
	IntervaloReentradaDias *int           `json:"intervalo_reentrada_dias,omitempty"`

	Nodes []VisualNode `json:"nodes,omitempty"`
	Edges []VisualEdge `json:"edges,omitempty"`
	Acoes []Action     `json:"acoes,omitempty"`
}

// HasVisual reports whether the document carries an editable graph.
func (d Document) HasVisual() bool { return len(d.Nodes) > 0 }

// ParseDocument decodes a YAML or JSON flow document. YAML input is bridged
// through JSON so the per-type config decoding applies to both formats.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if json.Valid(data) {
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, errors.Wrap(err, errors.CategoryBadInput, "decode flow document").
				WithTextCode("FLOW_MALFORMED_DOCUMENT")
		}
		return doc, nil
	}
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return Document{}, errors.Wrap(err, errors.CategoryBadInput, "decode flow document").
			WithTextCode("FLOW_MALFORMED_DOCUMENT")
	}
	bridge, err := json.Marshal(tree)
	if err != nil {
		return Document{}, errors.Wrap(err, errors.CategoryBadInput, "decode flow document").
			WithTextCode("FLOW_MALFORMED_DOCUMENT")
	}
	if err := json.Unmarshal(bridge, &doc); err != nil {
		return Document{}, errors.Wrap(err, errors.CategoryBadInput, "decode flow document").
			WithTextCode("FLOW_MALFORMED_DOCUMENT")
	}
	return doc, nil
}
