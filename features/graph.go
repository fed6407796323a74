package features

import (
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// SimilarityMatrix holds every pair's surviving inlier matches, indexed
// [i][j] for i != j; S[i][j] == S[j][i] (§4.4: "N×N similarity matrix").
type SimilarityMatrix struct {
	N       int
	Matches map[[2]int][]Match
}

// NewSimilarityMatrix runs MutualNN + Filter once per unordered pair
// (i < j) and assembles the resulting similarity matrix.
func NewSimilarityMatrix(sets []FeatureSet, method FilterMethod, tolerance float64, iterations int, seed int64) *SimilarityMatrix {
	n := len(sets)
	sm := &SimilarityMatrix{N: n, Matches: make(map[[2]int][]Match)}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			raw := MutualNN(sets[i].Descriptors, sets[j].Descriptors)
			inliers := Filter(sets[i], sets[j], raw, method, tolerance, iterations, seed)
			sm.Matches[[2]int{i, j}] = inliers
		}
	}
	return sm
}

// Count returns |S[i][j]|, the default similarity_metric = n_matches
// (§4.10), symmetric in i and j.
func (sm *SimilarityMatrix) Count(i, j int) int {
	if i == j {
		return 0
	}
	if i > j {
		i, j = j, i
	}
	return len(sm.Matches[[2]int{i, j}])
}

// Graph builds a weighted undirected graph over the N slides, with
// edge weight Count(i,j); an edge is omitted when the count is zero.
func (sm *SimilarityMatrix) Graph() *simple.WeightedUndirectedGraph {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	for i := 0; i < sm.N; i++ {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < sm.N; i++ {
		for j := i + 1; j < sm.N; j++ {
			c := sm.Count(i, j)
			if c == 0 {
				continue
			}
			g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(i), simple.Node(j), float64(c)))
		}
	}
	return g
}

// FullyConnected reports whether every slide is reachable from slide 0
// through edges with a nonzero match count, using Dijkstra reachability
// rather than an optimal-path guarantee (§4.4 ordering precondition).
func FullyConnected(sm *SimilarityMatrix) bool {
	if sm.N <= 1 {
		return true
	}
	g := sm.Graph()
	shortest := path.DijkstraFrom(simple.Node(0), g)
	for i := 0; i < sm.N; i++ {
		if math.IsInf(shortest.WeightTo(int64(i)), 1) {
			return false
		}
	}
	return true
}
