// pkg/joingraph/graph.go
package joingraph

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// ErrAcyclicRequired is returned when an optimizer that only handles
// acyclic join graphs is given a cyclic one.
var ErrAcyclicRequired = errors.New("join graph must be acyclic")

// Record is one row of a relation in the ordering harness: a join key and an
// opaque payload whose length stands in for record width.
type Record struct {
	ID   int
	Data string
}

// Relation is a named input of known size.
type Relation struct {
	Name    string
	Size    int
	Records []Record
}

// JoinCondition is an undirected edge between two relations, weighted by the
// join's selectivity.
type JoinCondition struct {
	Left        string
	Right       string
	Selectivity float64
}

// Graph is an explicit join graph: relations plus selectivity-weighted
// edges. Relations keep insertion order; the adjacency index is maintained
// as edges are added.
type Graph struct {
	Relations  []Relation
	Conditions []JoinCondition

	adjacency map[string][]string
	index     map[string]uint32
}

// NewGraph creates an empty join graph.
func NewGraph() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		index:     make(map[string]uint32),
	}
}

// AddRelation registers a relation.
func (g *Graph) AddRelation(r Relation) {
	g.index[r.Name] = uint32(len(g.Relations))
	g.Relations = append(g.Relations, r)
	if _, ok := g.adjacency[r.Name]; !ok {
		g.adjacency[r.Name] = nil
	}
}

// AddJoinCondition registers an edge and updates the adjacency index.
func (g *Graph) AddJoinCondition(c JoinCondition) {
	g.Conditions = append(g.Conditions, c)
	g.adjacency[c.Left] = append(g.adjacency[c.Left], c.Right)
	g.adjacency[c.Right] = append(g.adjacency[c.Right], c.Left)
}

// Neighbors returns the relations adjacent to name, in edge insertion order.
func (g *Graph) Neighbors(name string) []string {
	return g.adjacency[name]
}

// Relation returns the named relation.
func (g *Graph) Relation(name string) (*Relation, error) {
	idx, ok := g.index[name]
	if !ok {
		return nil, fmt.Errorf("relation not found in graph: %s", name)
	}
	return &g.Relations[idx], nil
}

// Condition returns the edge between two relations in either direction, or
// false if they are not adjacent.
func (g *Graph) Condition(a, b string) (JoinCondition, bool) {
	for _, c := range g.Conditions {
		if (c.Left == a && c.Right == b) || (c.Left == b && c.Right == a) {
			return c, true
		}
	}
	return JoinCondition{}, false
}

// IsAcyclic reports whether the component containing the first relation is
// cycle-free. Detection walks depth-first, excluding the edge back to the
// parent.
func (g *Graph) IsAcyclic() bool {
	if len(g.Relations) == 0 {
		return true
	}
	visited := roaring.New()
	return !g.hasCycle(g.Relations[0].Name, "", visited)
}

func (g *Graph) hasCycle(current, parent string, visited *roaring.Bitmap) bool {
	visited.Add(g.index[current])

	for _, neighbor := range g.adjacency[current] {
		if neighbor == parent {
			continue
		}
		if visited.Contains(g.index[neighbor]) || g.hasCycle(neighbor, current, visited) {
			return true
		}
	}
	return false
}
