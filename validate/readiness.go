package validate

import (
	"fmt"
	"strings"

	flowgraph "github.com/goliatone/go-flowgraph"
)

// Readiness is the user-facing export decision: a single flag plus
// human-readable issues, coarser than the coded batch errors.
type Readiness struct {
	Ready  bool     `json:"ready"`
	Issues []string `json:"issues"`
}

// ExportReadiness decides whether a flow can be exported: it needs a
// configured trigger, at least one action and a fully valid batch result.
func ExportReadiness(nodes []flowgraph.VisualNode, edges []flowgraph.VisualEdge) Readiness {
	var issues []string

	trigger, hasTrigger := flowgraph.TriggerNode(nodes)
	if !hasTrigger {
		issues = append(issues, "Fluxo deve ter um gatilho")
	} else {
		cfg, _ := trigger.Data.Config.(flowgraph.TriggerConfig)
		if cfg.StatusTo == "" {
			issues = append(issues, "Gatilho deve ter status de destino configurado")
		}
	}

	if len(flowgraph.ActionNodes(nodes)) == 0 {
		issues = append(issues, "Fluxo deve ter pelo menos uma ação")
	}

	batch := All(nodes, edges)
	if !batch.Valid {
		var invalid []string
		for _, node := range nodes {
			if res, ok := batch.NodeResults[node.ID]; ok && !res.Valid {
				invalid = append(invalid, res.Label)
			}
		}
		if len(invalid) > 0 {
			issues = append(issues, fmt.Sprintf("Nodes com configuracao invalida: %s", strings.Join(invalid, ", ")))
		} else {
			issues = append(issues, "Estrutura do fluxo invalida")
		}
	}

	return Readiness{Ready: len(issues) == 0, Issues: issues}
}
