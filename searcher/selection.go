package searcher

import (
	"math"

	"mctsvar/utils"

	"golang.org/x/exp/rand"
)

// Selection rates the children of fully expanded nodes. The walk from the
// root is the same for every policy: expand an unexpanded move if there is
// one, otherwise descend into the best rated child, and stop at a node with
// neither.
type Selection interface {
	Name() string
	// descent returns the scorer used for a single walk from the root
	descent() scorer
}

type scorer interface {
	// score rates a child of parent, lnN is ln(max(1, visits of parent))
	score(t *tree, parent, child nodeID, lnN float64) float64
	// chosen is called once the walk commits to child
	chosen(t *tree, parent, child nodeID, lnN float64)
}

// depthLimited is implemented by policies that stop the walk at a fixed depth
type depthLimited interface {
	depthLimit() int
}

// stateless scorers have nothing to track along a descent
type stateless struct{}

func (stateless) chosen(*tree, nodeID, nodeID, float64) {}

// selectLeaf walks from the root to this iteration's leaf, creating at most
// one node on the way.
func selectLeaf(t *tree, sel Selection, rng *rand.Rand) (nodeID, error) {
	s := sel.descent()
	limit := 0
	if l, ok := sel.(depthLimited); ok {
		limit = l.depthLimit()
	}

	id, depth := root, 0
	for {
		if limit > 0 && depth >= limit {
			return id, nil
		}
		n := t.node(id)
		if len(n.unexpanded) > 0 {
			return expand(t, id, rng)
		}
		if len(n.children) == 0 { // Terminal
			return id, nil
		}

		lnN := math.Log(math.Max(1, float64(n.visits)))
		parent := id
		i := utils.ArgMax(n.children, func(child nodeID) float64 {
			return s.score(t, parent, child, lnN)
		}, rng)
		id = n.children[i]
		s.chosen(t, parent, id, lnN)
		depth++
	}
}

// expand removes a random move from the pool of id and adds its child
func expand(t *tree, id nodeID, rng *rand.Rand) (nodeID, error) {
	n := t.node(id)
	i := rng.Intn(len(n.unexpanded))
	move := n.unexpanded[i]
	last := len(n.unexpanded) - 1
	n.unexpanded[i] = n.unexpanded[last]
	n.unexpanded[last] = nil
	n.unexpanded = n.unexpanded[:last]

	state := n.state.Play(move)
	return t.add(id, move, state)
}

// exploitation is the mean reward of child for the player moving at parent
func exploitation(t *tree, parent, child nodeID) float64 {
	return t.node(child).mean(t.node(parent).player)
}

func exploration(lnN float64, visits int) float64 {
	return math.Sqrt(lnN / float64(visits))
}
