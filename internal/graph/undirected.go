package graph

import "sort"

// undirected is the snapshot collapsed to a simple graph over dense indices.
// Mutual links and parallel edges of different types become one edge, and
// self-loops are dropped.
type undirected struct {
	ids       []string
	neighbors [][]int
}

func newUndirected(snap *GraphSnapshot) *undirected {
	ids := snap.NodeIDs()
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	g := &undirected{ids: ids, neighbors: make([][]int, len(ids))}
	seen := make(map[[2]int]struct{}, len(snap.Edges))
	for _, e := range snap.Edges {
		u, okU := index[e.Source]
		v, okV := index[e.Target]
		if !okU || !okV || u == v {
			continue
		}
		if u > v {
			u, v = v, u
		}
		if _, dup := seen[[2]int{u, v}]; dup {
			continue
		}
		seen[[2]int{u, v}] = struct{}{}
		g.neighbors[u] = append(g.neighbors[u], v)
		g.neighbors[v] = append(g.neighbors[v], u)
	}
	return g
}

// disjointSet is union-find over dense indices with path halving and
// union by size.
type disjointSet struct {
	parent []int
	size   []int
}

func newDisjointSet(n int) *disjointSet {
	ds := &disjointSet{parent: make([]int, n), size: make([]int, n)}
	for i := range ds.parent {
		ds.parent[i] = i
		ds.size[i] = 1
	}
	return ds
}

func (ds *disjointSet) find(x int) int {
	for ds.parent[x] != x {
		ds.parent[x] = ds.parent[ds.parent[x]]
		x = ds.parent[x]
	}
	return x
}

func (ds *disjointSet) union(a, b int) bool {
	ra, rb := ds.find(a), ds.find(b)
	if ra == rb {
		return false
	}
	if ds.size[ra] < ds.size[rb] {
		ra, rb = rb, ra
	}
	ds.parent[rb] = ra
	ds.size[ra] += ds.size[rb]
	return true
}

// componentSizes returns the size of every connected component, largest first.
func (g *undirected) componentSizes() []int {
	ds := newDisjointSet(len(g.ids))
	for u, ns := range g.neighbors {
		for _, v := range ns {
			if u < v {
				ds.union(u, v)
			}
		}
	}
	var sizes []int
	for i := range ds.parent {
		if ds.find(i) == i {
			sizes = append(sizes, ds.size[i])
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	return sizes
}

// cutStructure finds the articulation points and bridges of g with an
// iterative lowpoint walk. Bridges come back as (parent, child) pairs in
// discovery order.
func (g *undirected) cutStructure() (cuts []bool, bridges [][2]int) {
	n := len(g.ids)
	order := make([]int, n) // discovery time; 0 means unvisited
	low := make([]int, n)
	cuts = make([]bool, n)
	clock := 0
	visit := func(v int) {
		clock++
		order[v] = clock
		low[v] = clock
	}

	type step struct{ at, from, next int }

	for root := 0; root < n; root++ {
		if order[root] != 0 {
			continue
		}
		visit(root)
		children := 0
		stack := []step{{at: root, from: -1}}

		for len(stack) > 0 {
			s := &stack[len(stack)-1]
			if s.next < len(g.neighbors[s.at]) {
				w := g.neighbors[s.at][s.next]
				s.next++
				switch {
				case w == s.from:
				case order[w] != 0:
					low[s.at] = min(low[s.at], order[w])
				default:
					visit(w)
					if s.at == root {
						children++
					}
					stack = append(stack, step{at: w, from: s.at})
				}
				continue
			}

			v := s.at
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				break
			}
			u := stack[len(stack)-1].at
			low[u] = min(low[u], low[v])
			if low[v] > order[u] {
				bridges = append(bridges, [2]int{u, v})
			}
			if u != root && low[v] >= order[u] {
				cuts[u] = true
			}
		}
		cuts[root] = children >= 2
	}
	return cuts, bridges
}
