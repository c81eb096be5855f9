package visualizer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/athapong/kg-extract/pkg/graph"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Report output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the supported report formats
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Report is the structured form of an extraction result
type Report struct {
	DocumentID    string                    `json:"document_id" yaml:"document_id"`
	Entities      []graph.EntityRecord      `json:"entities" yaml:"entities"`
	Relationships []graph.Triple            `json:"relationships" yaml:"relationships"`
	Graph         *graph.KnowledgeGraphData `json:"graph" yaml:"graph"`
}

// NewReport flattens res into a Report
func NewReport(res *graph.Result) *Report {
	return &Report{
		DocumentID:    res.DocumentID,
		Entities:      res.Entities.Records(),
		Relationships: res.Relations.Triples(),
		Graph:         res.Graph.Data(),
	}
}

// PrintReport writes the entities and relationships of res to w
func PrintReport(w io.Writer, res *graph.Result, format string) error {
	switch format {
	case FormatText, "":
		return printText(w, res)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewReport(res))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewReport(res)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.Errorf("unsupported report format %q", format)
	}
}

func printText(w io.Writer, res *graph.Result) error {
	if _, err := fmt.Fprintln(w, "Entities:"); err != nil {
		return err
	}
	for _, e := range res.Entities.Records() {
		if _, err := fmt.Fprintf(w, "%s: %s\n", e.Text, e.Label); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "\nRelationships:"); err != nil {
		return err
	}
	for _, t := range res.Relations.Triples() {
		if _, err := fmt.Fprintf(w, "%s --[%s]--> %s\n", t.Subject, t.Verb, t.Object); err != nil {
			return err
		}
	}
	return nil
}
