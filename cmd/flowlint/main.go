// flowlint validates, converts, and scaffolds marketing-automation flow
// documents. It accepts both the editable graph form (nodes/edges) and the
// stored action form (acoes) in JSON or YAML, and round-trips between them.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	flowgraph "github.com/goliatone/go-flowgraph"
	"github.com/goliatone/go-flowgraph/convert"
	"github.com/goliatone/go-flowgraph/graph"
	"github.com/goliatone/go-flowgraph/validate"
	"github.com/goliatone/go-logger/glog"
)

type cli struct {
	LogLevel string `help:"Log level." enum:"trace,debug,info,warn,error" default:"info"`
	LogJSON  bool   `help:"Emit JSON logs."`

	Validate validateCmd `cmd:"" help:"Validate a flow document and report every problem."`
	Export   exportCmd   `cmd:"" help:"Build the persistence payload from an editable flow."`
	Expand   expandCmd   `cmd:"" help:"Rebuild the editable graph from a stored action list."`
	Init     initCmd     `cmd:"" help:"Scaffold a starter flow document."`
}

type runContext struct {
	logger flowgraph.Logger
}

func main() {
	var app cli
	ctx := kong.Parse(&app,
		kong.Name("flowlint"),
		kong.Description("Lint and convert marketing-automation flow documents."),
		kong.UsageOnError(),
	)

	rc := &runContext{logger: newLogger(app.LogLevel, app.LogJSON)}
	if err := ctx.Run(rc); err != nil {
		rc.logger.Error("%s", err)
		os.Exit(1)
	}
}

func newLogger(level string, jsonOut bool) flowgraph.Logger {
	if jsonOut {
		return glogAdapter{logger: glog.NewLogger(
			glog.WithWriter(os.Stderr),
			glog.WithLevel(level),
			glog.WithLoggerTypeJSON(),
		)}
	}
	return glogAdapter{logger: glog.NewLogger(
		glog.WithWriter(os.Stderr),
		glog.WithLevel(level),
	)}
}

// loadDocument reads and decodes a flow document from path, with "-" meaning
// stdin.
func loadDocument(path string) (flowgraph.Document, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return flowgraph.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return flowgraph.ParseDocument(data)
}

// visualGraph returns the editable side of a document, expanding the stored
// action list when the document carries no canvas.
func visualGraph(doc flowgraph.Document) ([]flowgraph.VisualNode, []flowgraph.VisualEdge) {
	if doc.HasVisual() {
		return doc.Nodes, doc.Edges
	}
	return convert.ToVisual(doc.Acoes, doc.TriggerConfig, doc.PrimeiraAcao)
}

func writeJSON(path string, v any, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	data = append(data, '\n')
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type validateCmd struct {
	File string `arg:"" help:"Flow document (JSON or YAML), - for stdin."`
	JSON bool   `help:"Print the full validation report as JSON."`
}

func (c *validateCmd) Run(rc *runContext) error {
	doc, err := loadDocument(c.File)
	if err != nil {
		return err
	}
	nodes, edges := visualGraph(doc)
	batch := validate.All(nodes, edges)

	if c.JSON {
		if err := writeJSON("", batch, true); err != nil {
			return err
		}
	} else {
		for _, line := range validate.FormattedErrors(batch) {
			fmt.Fprintln(os.Stdout, line)
		}
		for _, be := range batch.Errors {
			if hint := validate.Suggestion(be.Code); hint != "" {
				rc.logger.Debug("hint for %s: %s", be.Code, hint)
			}
		}
		fmt.Fprintf(os.Stdout, "%d/%d nodes valid, %d errors\n",
			batch.Summary.ValidNodes, batch.Summary.TotalNodes, batch.Summary.TotalErrors)
	}

	if !batch.Valid {
		return fmt.Errorf("flow is not valid")
	}
	rc.logger.Info("flow is valid")
	return nil
}

type exportCmd struct {
	File   string `arg:"" help:"Flow document (JSON or YAML), - for stdin."`
	Out    string `help:"Output path, - or empty for stdout." short:"o"`
	Force  bool   `help:"Build the payload even when the flow is not export ready."`
	Update bool   `help:"Emit a partial-update payload instead of a create payload."`
	Pretty bool   `help:"Indent the JSON output." default:"true" negatable:""`
}

func (c *exportCmd) Run(rc *runContext) error {
	doc, err := loadDocument(c.File)
	if err != nil {
		return err
	}
	nodes, edges := visualGraph(doc)

	readiness := validate.ExportReadiness(nodes, edges)
	if !readiness.Ready {
		for _, issue := range readiness.Issues {
			rc.logger.Warn("%s", issue)
		}
		if !c.Force {
			return flowgraph.ErrExportBlocked
		}
		rc.logger.Warn("exporting anyway (--force)")
	}

	var payload any
	if c.Update {
		payload = convert.UpdatePayload(convert.UpdateParams{
			Nome:                   optional(doc.Nome),
			Descricao:              optional(doc.Descricao),
			IntervaloReentradaDias: doc.IntervaloReentradaDias,
			Nodes:                  nodes,
			Edges:                  edges,
		})
	} else {
		payload = convert.FlowPayload(convert.PayloadParams{
			Nome:                   doc.Nome,
			Descricao:              doc.Descricao,
			Nodes:                  nodes,
			Edges:                  edges,
			Ativo:                  doc.Ativo,
			PermitirReentrada:      doc.PermitirReentrada,
			IntervaloReentradaDias: doc.IntervaloReentradaDias,
		})
	}
	return writeJSON(c.Out, payload, c.Pretty)
}

type expandCmd struct {
	File   string `arg:"" help:"Stored flow document (JSON or YAML), - for stdin."`
	Out    string `help:"Output path, - or empty for stdout." short:"o"`
	Layout bool   `help:"Assign canvas positions in execution order." default:"true" negatable:""`
}

func (c *expandCmd) Run(rc *runContext) error {
	doc, err := loadDocument(c.File)
	if err != nil {
		return err
	}
	nodes, edges := convert.ToVisual(doc.Acoes, doc.TriggerConfig, doc.PrimeiraAcao)
	if c.Layout {
		nodes = graph.AutoLayout(nodes, edges)
	}
	batch := validate.All(nodes, edges)
	nodes = validate.ApplyValidation(nodes, batch)
	rc.logger.Info("expanded %d actions into %d nodes", len(doc.Acoes), len(nodes))

	out := flowgraph.Document{
		Nome:          doc.Nome,
		Descricao:     doc.Descricao,
		TriggerConfig: doc.TriggerConfig,
		Nodes:         nodes,
		Edges:         edges,
	}
	return writeJSON(c.Out, out, true)
}

type initCmd struct {
	Out  string `help:"Output path, - or empty for stdout." short:"o"`
	Nome string `help:"Flow name." default:"Novo Fluxo"`
}

// Run scaffolds a minimal valid flow: a trigger wired into one SMS action.
func (c *initCmd) Run(rc *runContext) error {
	smsID := flowgraph.NewNodeID(flowgraph.NodeSendSMS)
	nodes := []flowgraph.VisualNode{
		{
			ID:   flowgraph.TriggerNodeID,
			Type: flowgraph.NodeTrigger,
			Data: flowgraph.NodeData{
				Label:  flowgraph.NodeLabels[flowgraph.NodeTrigger],
				Config: flowgraph.TriggerConfig{TriggerTipo: convert.TriggerTipoOrderStatus},
			},
		},
		{
			ID:   smsID,
			Type: flowgraph.NodeSendSMS,
			Data: flowgraph.NodeData{
				Label:  flowgraph.NodeLabels[flowgraph.NodeSendSMS],
				Config: flowgraph.MessageConfig{Origem: "template"},
			},
		},
	}
	edges := []flowgraph.VisualEdge{
		{
			ID:     flowgraph.EdgeID(flowgraph.TriggerNodeID, smsID),
			Source: flowgraph.TriggerNodeID,
			Target: smsID,
			Type:   "smoothstep",
		},
	}
	nodes = graph.AutoLayout(nodes, edges)

	doc := flowgraph.Document{Nome: c.Nome, Nodes: nodes, Edges: edges}
	rc.logger.Info("scaffolded flow %q", c.Nome)
	return writeJSON(c.Out, doc, true)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
