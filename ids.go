package flowgraph

import (
	"fmt"

	"github.com/google/uuid"
)

// TriggerNodeID is the fixed id of the synthesized trigger node. A flow has
// exactly one trigger, so the id never varies.
const TriggerNodeID = "trigger_1"

// NewNodeID mints a fresh visual node id for canvas-created nodes. The id
// doubles as the action temp id until persistence assigns a stable one.
func NewNodeID(t NodeType) string {
	return fmt.Sprintf("%s_%s", t, uuid.NewString())
}

// EdgeID derives the deterministic id for an edge between two nodes.
func EdgeID(source, target string) string {
	return fmt.Sprintf("edge_%s-%s", source, target)
}
