// Package depgraph implements the dependency analyzer: it lifts a
// workbook's parsed formulas into a cross-sheet dependency graph, detects
// cycles, and produces a cycle-tolerant evaluation order.
package depgraph

import (
	"sort"

	"github.com/vogtb/sheetc/internal/formula"
)

// Node is a formula-bearing cell in the graph, keyed by its canonical id
// ("Sheet!A1"). Dependencies are stored verbatim as they were normalized
// from the AST; range dependencies are kept as range strings without
// expansion (expansion happens at emitted-code runtime, not here).
type Node struct {
	ID      string
	Sheet   string
	AST     *formula.Node
	Depends map[string]bool // normalized ids/ranges this node's AST refers to
}

// Graph is the analyzer's output: every formula-bearing cell's node, the
// set of ids participating in any cycle, and the evaluation order.
//
// A Graph is built once per workbook by Build and is never mutated again; an
// analyzer instance must not be reused across workbooks because it owns
// exactly one workbook's cycle/dependency state.
type Graph struct {
	Nodes   map[string]*Node
	Cycles  map[string]bool
	Order   []string // linear extension of the non-cyclic DAG; excludes cycle members
}

// cellInput describes one formula-bearing cell to build a graph node for.
type cellInput struct {
	ID    string
	Sheet string
	AST   *formula.Node
}

// Build runs all four analyzer passes over the given formula-bearing cells
// and returns the resulting Graph.
func Build(cells []BuildNode) *Graph {
	g := &Graph{
		Nodes:  make(map[string]*Node, len(cells)),
		Cycles: make(map[string]bool),
	}

	// Pass 1+2: build a node per cell, walking its AST for Ref dependencies.
	for _, c := range cells {
		node := &Node{ID: c.ID, Sheet: c.Sheet, AST: c.AST, Depends: make(map[string]bool)}
		formula.Walk(c.AST, func(n *formula.Node) {
			if n.Kind != formula.KindRef {
				return
			}
			node.Depends[formula.Normalize(n.Text, c.Sheet)] = true
		})
		g.Nodes[c.ID] = node
	}

	// Pass 3: cycle detection via three-color DFS; continues past the first
	// cycle to catch disjoint ones.
	g.detectCycles()

	// Pass 4: evaluation order via a second DFS over the cycle-free
	// subgraph; cycle members never appear in Order.
	g.computeOrder()

	return g
}

// BuildNode is the exported alias of cellInput that callers outside this
// package (the pipeline) use to describe one formula-bearing cell.
type BuildNode = cellInput

// NewCellInput constructs a cellInput; exported as a function rather than
// the unexported type itself so callers outside the package can still
// populate graph input without reaching into package internals.
func NewCellInput(id, sheet string, ast *formula.Node) BuildNode {
	return cellInput{ID: id, Sheet: sheet, AST: ast}
}

type color uint8

const (
	white color = iota // unseen
	gray               // on-stack
	black              // done
)

func (g *Graph) detectCycles() {
	colors := make(map[string]color, len(g.Nodes))
	var stack []string

	var visit func(id string)
	visit = func(id string) {
		if colors[id] == black {
			return
		}
		if colors[id] == gray {
			// back-edge found: mark every id on the stack from the target
			// onward as a cycle member.
			start := indexOf(stack, id)
			for _, s := range stack[start:] {
				g.Cycles[s] = true
			}
			return
		}
		colors[id] = gray
		stack = append(stack, id)

		node, ok := g.Nodes[id]
		if ok {
			deps := sortedKeys(node.Depends)
			for _, dep := range deps {
				if _, isNode := g.Nodes[dep]; isNode {
					visit(dep)
				}
			}
		}

		stack = stack[:len(stack)-1]
		colors[id] = black
	}

	for _, id := range sortedNodeIDs(g.Nodes) {
		if colors[id] == white {
			visit(id)
		}
	}
}

func indexOf(stack []string, id string) int {
	for i, s := range stack {
		if s == id {
			return i
		}
	}
	return 0
}

func (g *Graph) computeOrder() {
	visited := make(map[string]bool, len(g.Nodes))
	var order []string

	var visit func(id string)
	visit = func(id string) {
		if visited[id] || g.Cycles[id] {
			return
		}
		visited[id] = true
		node, ok := g.Nodes[id]
		if !ok {
			return
		}
		for _, dep := range sortedKeys(node.Depends) {
			if _, isNode := g.Nodes[dep]; isNode && !g.Cycles[dep] {
				visit(dep)
			}
		}
		order = append(order, id)
	}

	for _, id := range sortedNodeIDs(g.Nodes) {
		if !g.Cycles[id] {
			visit(id)
		}
	}

	g.Order = order
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedNodeIDs(nodes map[string]*Node) []string {
	out := make([]string, 0, len(nodes))
	for id := range nodes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// DirectDependents returns the ids of nodes that directly depend on id.
func (g *Graph) DirectDependents(id string) []string {
	var out []string
	for _, other := range sortedNodeIDs(g.Nodes) {
		if g.Nodes[other].Depends[id] {
			out = append(out, other)
		}
	}
	return out
}

// TransitiveDependencies returns every node id reachable by walking
// dependency edges from id (not including id itself).
func (g *Graph) TransitiveDependencies(id string) []string {
	seen := make(map[string]bool)
	var walk func(string)
	walk = func(cur string) {
		node, ok := g.Nodes[cur]
		if !ok {
			return
		}
		for _, dep := range sortedKeys(node.Depends) {
			if !seen[dep] {
				if _, isNode := g.Nodes[dep]; isNode {
					seen[dep] = true
					walk(dep)
				}
			}
		}
	}
	walk(id)
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TransitiveDependents returns every node id that transitively depends on id.
func (g *Graph) TransitiveDependents(id string) []string {
	seen := make(map[string]bool)
	var walk func(string)
	walk = func(cur string) {
		for _, dependent := range g.DirectDependents(cur) {
			if !seen[dependent] {
				seen[dependent] = true
				walk(dependent)
			}
		}
	}
	walk(id)
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
