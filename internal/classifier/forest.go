package classifier

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// ForestOptions configures a random forest.
type ForestOptions struct {
	Trees int
	// MaxFeatures is the number of candidate features per split; zero uses
	// the square root of the input dimension.
	MaxFeatures int
	Seed        uint64
}

// DefaultForestOptions returns 100 fully grown trees.
func DefaultForestOptions() ForestOptions {
	return ForestOptions{Trees: 100, Seed: 42}
}

// Forest is a bagged ensemble of Gini decision trees. Predictions average
// the class distributions of the leaves reached in every tree.
type Forest struct {
	opts    ForestOptions
	trees   []*node
	dim     int
	classes int
	fitted  bool
}

// NewForest creates an unfitted forest.
func NewForest(opts ForestOptions) *Forest {
	if opts.Trees <= 0 {
		opts.Trees = 100
	}
	return &Forest{opts: opts}
}

type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	proba     []float64 // set on leaves only
}

func (f *Forest) fit(X [][]float64, y []int, k int) error {
	if len(X) == 0 || len(X) != len(y) {
		return errors.New("forest: mismatched training data")
	}
	f.dim = len(X[0])
	f.classes = k
	mtry := f.opts.MaxFeatures
	if mtry <= 0 {
		mtry = int(math.Sqrt(float64(f.dim)))
	}
	if mtry < 1 {
		mtry = 1
	}
	if mtry > f.dim {
		mtry = f.dim
	}
	rng := rand.New(rand.NewPCG(f.opts.Seed, f.opts.Seed^0x9e3779b97f4a7c15))
	b := &treeBuilder{X: X, y: y, k: k, mtry: mtry, rng: rng}
	f.trees = make([]*node, f.opts.Trees)
	n := len(X)
	for t := range f.trees {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.IntN(n)
		}
		f.trees[t] = b.grow(sample)
	}
	f.fitted = true
	return nil
}

func (f *Forest) predictProba(x []float64) ([]float64, error) {
	if !f.fitted {
		return nil, errUnfittedEstimator
	}
	if len(x) != f.dim {
		return nil, fmt.Errorf("forest: input dimension %d, want %d", len(x), f.dim)
	}
	out := make([]float64, f.classes)
	for _, t := range f.trees {
		nd := t
		for nd.proba == nil {
			if x[nd.feature] <= nd.threshold {
				nd = nd.left
			} else {
				nd = nd.right
			}
		}
		for c, p := range nd.proba {
			out[c] += p
		}
	}
	for c := range out {
		out[c] /= float64(len(f.trees))
	}
	return out, nil
}

type treeBuilder struct {
	X    [][]float64
	y    []int
	k    int
	mtry int
	rng  *rand.Rand
}

func (b *treeBuilder) grow(sample []int) *node {
	counts := b.counts(sample)
	if len(sample) < 2 || isPure(counts) {
		return leaf(counts, len(sample))
	}
	feature, threshold, ok := b.bestSplit(sample, counts)
	if !ok {
		return leaf(counts, len(sample))
	}
	var left, right []int
	for _, i := range sample {
		if b.X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &node{
		feature:   feature,
		threshold: threshold,
		left:      b.grow(left),
		right:     b.grow(right),
	}
}

// bestSplit draws candidate features in random order. At least mtry
// non-constant features are examined, and the search continues past mtry
// until one valid split is found.
func (b *treeBuilder) bestSplit(sample []int, parent []int) (int, float64, bool) {
	dim := len(b.X[0])
	order := b.rng.Perm(dim)
	bestFeature, bestThreshold := -1, 0.0
	bestImpurity := math.Inf(1)
	visited := 0
	type pair struct {
		v float64
		y int
	}
	vals := make([]pair, len(sample))
	left := make([]int, b.k)
	right := make([]int, b.k)
	n := float64(len(sample))
	for _, feat := range order {
		if visited >= b.mtry && bestFeature >= 0 {
			break
		}
		for i, s := range sample {
			vals[i] = pair{b.X[s][feat], b.y[s]}
		}
		sort.Slice(vals, func(i, j int) bool { return vals[i].v < vals[j].v })
		if vals[0].v == vals[len(vals)-1].v {
			continue
		}
		visited++
		for c := range left {
			left[c] = 0
			right[c] = parent[c]
		}
		for i := 0; i < len(vals)-1; i++ {
			left[vals[i].y]++
			right[vals[i].y]--
			if vals[i].v == vals[i+1].v {
				continue
			}
			nl := float64(i + 1)
			nr := n - nl
			imp := (nl*gini(left, nl) + nr*gini(right, nr)) / n
			if imp < bestImpurity {
				bestImpurity = imp
				bestFeature = feat
				bestThreshold = vals[i].v + (vals[i+1].v-vals[i].v)/2
				if bestThreshold >= vals[i+1].v {
					bestThreshold = vals[i].v
				}
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func (b *treeBuilder) counts(sample []int) []int {
	c := make([]int, b.k)
	for _, i := range sample {
		c[b.y[i]]++
	}
	return c
}

func gini(counts []int, n float64) float64 {
	if n == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / n
		g -= p * p
	}
	return g
}

func isPure(counts []int) bool {
	nonzero := 0
	for _, c := range counts {
		if c > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}

func leaf(counts []int, n int) *node {
	p := make([]float64, len(counts))
	for c, v := range counts {
		p[c] = float64(v) / float64(n)
	}
	return &node{proba: p}
}
