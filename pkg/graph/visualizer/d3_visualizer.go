package visualizer

import (
	"bytes"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/athapong/kg-extract/pkg/graph"
	"github.com/athapong/kg-extract/pkg/graph/algorithms"
)

// The HTML template for D3.js rendering of a laid-out graph
const d3Template = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <script src="https://d3js.org/d3.v7.min.js"></script>
    <style>
        body {
            margin: 0;
            font-family: Arial, sans-serif;
        }
        #graph {
            width: 100%;
            height: 100vh;
            background-color: #ffffff;
        }
        .node {
            fill: skyblue;
        }
        .link {
            stroke: gray;
            stroke-width: 1.5px;
        }
        .node-label {
            font-size: 10px;
            font-weight: bold;
            text-anchor: middle;
            pointer-events: none;
        }
        .edge-label {
            font-size: 10px;
            fill: red;
            text-anchor: middle;
            pointer-events: none;
        }
        .controls {
            position: absolute;
            top: 10px;
            left: 10px;
            background-color: rgba(255,255,255,0.8);
            padding: 10px;
            border-radius: 5px;
            box-shadow: 0 0 10px rgba(0,0,0,0.1);
        }
    </style>
</head>
<body>
    <div id="graph"></div>
    <div class="controls">
        <h3>{{.Title}}</h3>
        <p>Nodes: {{.NodeCount}}, Edges: {{.EdgeCount}}</p>
    </div>

    <script>
        const graphData = {{.Graph}};
        const radius = 24;
        const margin = 60;

        const width = window.innerWidth;
        const height = window.innerHeight;

        // Layout coordinates are in [-1, 1]; map them onto the viewport.
        const byId = new Map();
        graphData.nodes.forEach(n => {
            n.px = width / 2 + n.x * (width / 2 - margin);
            n.py = height / 2 - n.y * (height / 2 - margin);
            byId.set(n.id, n);
        });
        graphData.edges.forEach(e => {
            e.s = byId.get(e.source);
            e.t = byId.get(e.target);
        });

        const svg = d3.select("#graph")
            .append("svg")
            .attr("width", "100%")
            .attr("height", "100%")
            .call(d3.zoom().on("zoom", (event) => {
                g.attr("transform", event.transform);
            }));

        svg.append("defs").append("marker")
            .attr("id", "arrow")
            .attr("viewBox", "0 -5 10 10")
            .attr("refX", radius + 10)
            .attr("refY", 0)
            .attr("markerWidth", 6)
            .attr("markerHeight", 6)
            .attr("orient", "auto")
            .append("path")
            .attr("d", "M0,-5L10,0L0,5")
            .attr("fill", "gray");

        const g = svg.append("g");

        const link = g.append("g")
            .selectAll("line")
            .data(graphData.edges)
            .enter()
            .append("line")
            .attr("class", "link")
            .attr("marker-end", "url(#arrow)");

        const edgeLabel = g.append("g")
            .selectAll("text")
            .data(graphData.edges)
            .enter()
            .append("text")
            .attr("class", "edge-label")
            .text(d => d.label);

        const node = g.append("g")
            .selectAll("circle")
            .data(graphData.nodes)
            .enter()
            .append("circle")
            .attr("class", "node")
            .attr("r", radius)
            .call(d3.drag().on("drag", dragged));

        const label = g.append("g")
            .selectAll("text")
            .data(graphData.nodes)
            .enter()
            .append("text")
            .attr("class", "node-label")
            .attr("dy", ".35em")
            .text(d => d.label);

        node.append("title").text(d => d.label);

        function render() {
            link
                .attr("x1", d => d.s.px)
                .attr("y1", d => d.s.py)
                .attr("x2", d => d.t.px)
                .attr("y2", d => d.t.py);

            edgeLabel
                .attr("x", d => (d.s.px + d.t.px) / 2)
                .attr("y", d => (d.s.py + d.t.py) / 2);

            node
                .attr("cx", d => d.px)
                .attr("cy", d => d.py);

            label
                .attr("x", d => d.px)
                .attr("y", d => d.py);
        }

        function dragged(event, d) {
            d.px = event.x;
            d.py = event.y;
            render();
        }

        render();
    </script>
</body>
</html>
`

var d3Tmpl = template.Must(template.New("d3").Parse(d3Template))

type vizNode struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type vizEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

type vizGraph struct {
	Nodes []vizNode `json:"nodes"`
	Edges []vizEdge `json:"edges"`
}

// D3Visualizer renders laid-out knowledge graphs as D3.js HTML pages
type D3Visualizer struct {
	outputPath string
	title      string
}

// NewD3Visualizer creates a new D3.js visualizer writing to outputPath
func NewD3Visualizer(outputPath string) *D3Visualizer {
	return &D3Visualizer{
		outputPath: outputPath,
		title:      "Knowledge Graph",
	}
}

// Render writes the HTML page for data positioned by layout to w. Nodes
// missing from layout are drawn at the centre.
func (v *D3Visualizer) Render(w io.Writer, data *graph.KnowledgeGraphData, layout algorithms.Layout) error {
	vg := vizGraph{
		Nodes: make([]vizNode, 0, len(data.Nodes)),
		Edges: make([]vizEdge, 0, len(data.Edges)),
	}
	for _, n := range data.Nodes {
		p := layout[n.ID]
		vg.Nodes = append(vg.Nodes, vizNode{ID: n.ID, Label: n.Label, X: p.X, Y: p.Y})
	}
	for _, e := range data.Edges {
		vg.Edges = append(vg.Edges, vizEdge{Source: e.Source, Target: e.Target, Label: e.Label})
	}

	return d3Tmpl.Execute(w, struct {
		Title     string
		Graph     vizGraph
		NodeCount int
		EdgeCount int
	}{
		Title:     v.title,
		Graph:     vg,
		NodeCount: len(data.Nodes),
		EdgeCount: len(data.Edges),
	})
}

// Visualize renders the graph to the configured output file
func (v *D3Visualizer) Visualize(data *graph.KnowledgeGraphData, layout algorithms.Layout) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(v.outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := v.Render(&buf, data, layout); err != nil {
		return err
	}

	return os.WriteFile(v.outputPath, buf.Bytes(), 0644)
}

// OutputPath returns the file Visualize writes to
func (v *D3Visualizer) OutputPath() string {
	return v.outputPath
}
