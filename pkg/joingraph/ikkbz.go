// pkg/joingraph/ikkbz.go
package joingraph

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// IKKBZ linearizes an acyclic join graph into a left-deep ordering. Every
// relation gets a cost rank; the ordering starts at the lowest-ranked
// relation and repeatedly extends to the lowest-ranked unvisited neighbor of
// the current tail.
func IKKBZ(g *Graph) ([]string, error) {
	if !g.IsAcyclic() {
		return nil, ErrAcyclicRequired
	}

	order := make([]string, 0, len(g.Relations))
	processed := roaring.New()

	start := bestStartingRelation(g)
	order = append(order, start)
	processed.Add(g.index[start])

	for len(order) < len(g.Relations) {
		next := nextBestRelation(g, order[len(order)-1], processed)
		if next == "" {
			break
		}
		order = append(order, next)
		processed.Add(g.index[next])
	}

	return order, nil
}

// bestStartingRelation returns the relation with the lowest rank.
func bestStartingRelation(g *Graph) string {
	best := ""
	minCost := math.MaxFloat64

	for _, r := range g.Relations {
		cost := relationRank(g, r.Name)
		if cost < minCost {
			minCost = cost
			best = r.Name
		}
	}
	return best
}

// nextBestRelation returns the unprocessed neighbor of current with the
// lowest rank, or "" when the tail has no unprocessed neighbor.
func nextBestRelation(g *Graph, current string, processed *roaring.Bitmap) string {
	best := ""
	minCost := math.MaxFloat64

	for _, neighbor := range g.adjacency[current] {
		if processed.Contains(g.index[neighbor]) {
			continue
		}
		cost := relationRank(g, neighbor)
		if cost < minCost {
			minCost = cost
			best = neighbor
		}
	}
	return best
}

// relationRank scores a relation: its size, scaled by selectivity times
// neighbor size for every incident edge, times the log of its record width.
// Smaller ranks order earlier.
func relationRank(g *Graph, name string) float64 {
	rel, err := g.Relation(name)
	if err != nil {
		return math.MaxFloat64
	}

	cost := float64(rel.Size)
	for _, c := range g.Conditions {
		if c.Left != name && c.Right != name {
			continue
		}
		other := c.Left
		if other == name {
			other = c.Right
		}
		if otherRel, err := g.Relation(other); err == nil {
			cost *= c.Selectivity * float64(otherRel.Size)
		}
	}

	width := 1
	if len(rel.Records) > 0 {
		width = len(rel.Records[0].Data)
	}
	return cost * math.Log(float64(width))
}
