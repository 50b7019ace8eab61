package flowgraph

// MessageTemplate is the read-only template shape supplied by the host
// platform. The core consumes template_id presence only; content resolution
// stays on the platform side.
type MessageTemplate struct {
	ID        int64    `json:"id"`
	Nome      string   `json:"nome,omitempty"`
	Tipo      string   `json:"tipo"`
	Conteudo  string   `json:"conteudo,omitempty"`
	Variaveis []string `json:"variaveis,omitempty"`
	Ativo     bool     `json:"ativo,omitempty"`
}

// StatusOption is one selectable order status for trigger configuration.
type StatusOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TemplatesByType filters templates by message type (sms, whatsapp, email).
func TemplatesByType(templates []MessageTemplate, tipo string) []MessageTemplate {
	out := make([]MessageTemplate, 0, len(templates))
	for _, t := range templates {
		if t.Tipo == tipo {
			out = append(out, t)
		}
	}
	return out
}
