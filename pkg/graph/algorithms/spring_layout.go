package algorithms

import (
	"math"
	"math/rand"
	"time"

	"github.com/athapong/kg-extract/pkg/graph"
	"gonum.org/v1/gonum/spatial/r2"
)

// Layout maps node names to 2-D coordinates
type Layout map[string]r2.Vec

// SpringOptions tunes SpringLayout. Zero values fall back to the defaults
// of DefaultSpringOptions.
type SpringOptions struct {
	Iterations int
	// Seed makes the layout reproducible; nil seeds from the clock.
	Seed *int64
	// Scale bounds the result to [-Scale, Scale] on both axes.
	Scale float64
	// K is the optimal distance between nodes; 0 means 1/sqrt(n).
	K         float64
	Threshold float64
}

func DefaultSpringOptions() SpringOptions {
	return SpringOptions{
		Iterations: 50,
		Scale:      1,
		Threshold:  1e-4,
	}
}

// SpringLayout positions the nodes of g with the Fruchterman-Reingold
// force-directed heuristic: every pair of nodes repels, connected nodes
// attract, and the step size cools linearly over the iterations. Edge
// direction is ignored. The result is centred on the origin.
func SpringLayout(g *graph.Graph, opts SpringOptions) Layout {
	defaults := DefaultSpringOptions()
	if opts.Iterations <= 0 {
		opts.Iterations = defaults.Iterations
	}
	if opts.Scale <= 0 {
		opts.Scale = defaults.Scale
	}
	if opts.Threshold <= 0 {
		opts.Threshold = defaults.Threshold
	}

	nodes := g.Nodes()
	n := len(nodes)
	layout := make(Layout, n)
	if n == 0 {
		return layout
	}
	if n == 1 {
		layout[nodes[0]] = r2.Vec{}
		return layout
	}

	seed := time.Now().UnixNano()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	index := make(map[string]int, n)
	for i, name := range nodes {
		index[name] = i
	}

	adjacency := make([][]float64, n)
	for i := range adjacency {
		adjacency[i] = make([]float64, n)
	}
	for _, edge := range g.Edges() {
		from, to := index[edge.Source], index[edge.Target]
		if from == to {
			continue
		}
		adjacency[from][to] = 1
		adjacency[to][from] = 1
	}

	pos := make([]r2.Vec, n)
	for i := range pos {
		pos[i] = r2.Vec{X: rng.Float64(), Y: rng.Float64()}
	}

	k := opts.K
	if k <= 0 {
		k = math.Sqrt(1.0 / float64(n))
	}

	// Initial temperature is a tenth of the spread of the initial positions.
	t := 0.1 * spread(pos)
	dt := t / float64(opts.Iterations+1)

	disp := make([]r2.Vec, n)
	for iter := 0; iter < opts.Iterations; iter++ {
		for i := range disp {
			disp[i] = r2.Vec{}
		}

		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				delta := r2.Sub(pos[i], pos[j])
				dist := math.Max(r2.Norm(delta), 0.01)
				force := k*k/(dist*dist) - adjacency[i][j]*dist/k
				disp[i] = r2.Add(disp[i], r2.Scale(force, delta))
			}
		}

		moved := 0.0
		for i := range pos {
			length := math.Max(r2.Norm(disp[i]), 0.01)
			step := r2.Scale(t/length, disp[i])
			pos[i] = r2.Add(pos[i], step)
			moved += r2.Norm(step)
		}

		t -= dt
		if moved/float64(n) < opts.Threshold {
			break
		}
	}

	rescale(pos, opts.Scale)
	for i, name := range nodes {
		layout[name] = pos[i]
	}
	return layout
}

func spread(pos []r2.Vec) float64 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pos {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return math.Max(maxX-minX, maxY-minY)
}

// rescale centres pos on its mean and scales it so the largest absolute
// coordinate equals scale.
func rescale(pos []r2.Vec, scale float64) {
	var mean r2.Vec
	for _, p := range pos {
		mean = r2.Add(mean, p)
	}
	mean = r2.Scale(1/float64(len(pos)), mean)

	lim := 0.0
	for i := range pos {
		pos[i] = r2.Sub(pos[i], mean)
		lim = math.Max(lim, math.Max(math.Abs(pos[i].X), math.Abs(pos[i].Y)))
	}
	if lim == 0 {
		return
	}
	for i := range pos {
		pos[i] = r2.Scale(scale/lim, pos[i])
	}
}
