package visualizer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/athapong/kg-extract/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResult() *graph.Result {
	entities := graph.NewEntities()
	entities.Set("Tesla", "ORG")
	entities.Set("2003", "DATE")

	relations := graph.NewRelations()
	relations.Add("He", "founded", "Tesla")
	relations.Add("Tesla", "produces", "cars")

	return &graph.Result{
		DocumentID: "doc-1",
		Entities:   entities,
		Relations:  relations,
		Graph:      graph.BuildGraph(relations),
	}
}

func TestPrintReportText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintReport(&buf, sampleResult(), FormatText))

	want := "Entities:\n" +
		"Tesla: ORG\n" +
		"2003: DATE\n" +
		"\nRelationships:\n" +
		"He --[founded]--> Tesla\n" +
		"Tesla --[produces]--> cars\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintReportTextEmpty(t *testing.T) {
	res := &graph.Result{
		Entities:  graph.NewEntities(),
		Relations: graph.NewRelations(),
		Graph:     graph.NewGraph(),
	}

	var buf bytes.Buffer
	require.NoError(t, PrintReport(&buf, res, ""))
	assert.Equal(t, "Entities:\n\nRelationships:\n", buf.String())
}

func TestPrintReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintReport(&buf, sampleResult(), FormatJSON))

	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "doc-1", report.DocumentID)
	assert.Equal(t, []graph.EntityRecord{{Text: "Tesla", Label: "ORG"}, {Text: "2003", Label: "DATE"}}, report.Entities)
	assert.Len(t, report.Relationships, 2)
	assert.Len(t, report.Graph.Edges, 2)
}

func TestPrintReportYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintReport(&buf, sampleResult(), FormatYAML))

	var report map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "doc-1", report["document_id"])
	assert.Contains(t, buf.String(), "subject: He")
}

func TestPrintReportUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, PrintReport(&buf, sampleResult(), "xml"))
	assert.Empty(t, buf.String())
}
