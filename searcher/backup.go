package searcher

import (
	"fmt"
	"math"
)

// Backpropagation updates every node from the leaf up to the root after a
// playout. Every variant adds one visit per node, whatever it does to the
// rewards. truncated tells whether the playout was cut off before the end
// of the game.
type Backpropagation interface {
	Name() string
	update(t *tree, leaf nodeID, utilities []float64, truncated bool)
}

func credit(n *node, player int, reward float64) {
	n.scoreSums[player] += reward
	n.squareSums[player] += reward * reward
}

type standardBackprop struct{}

func NewStandardBackprop() Backpropagation {
	return standardBackprop{}
}

func (standardBackprop) Name() string { return "Standard" }

func (standardBackprop) update(t *tree, leaf nodeID, utilities []float64, truncated bool) {
	for id := leaf; id != nilNode; id = t.node(id).parent {
		n := t.node(id)
		n.visits++
		for p := 1; p <= t.players; p++ {
			credit(n, p, utilities[p])
		}
	}
}

// DefaultDecay is the per-level reward decay of the decaying backprop
const DefaultDecay = 0.95

// Decaying backprop scales rewards by decay^depth, depth counted from the
// leaf, so ancestors further up receive less credit.
type decayingBackprop struct {
	decay float64
}

func NewDecayingBackprop(decay float64) (Backpropagation, error) {
	if math.IsNaN(decay) || decay <= 0 || decay > 1 {
		return nil, configError("decay %v outside (0, 1]", decay)
	}
	return &decayingBackprop{decay: decay}, nil
}

func (b *decayingBackprop) Name() string { return fmt.Sprintf("Decaying (%g)", b.decay) }

func (b *decayingBackprop) update(t *tree, leaf nodeID, utilities []float64, truncated bool) {
	weight := 1.0
	for id := leaf; id != nilNode; id = t.node(id).parent {
		n := t.node(id)
		n.visits++
		for p := 1; p <= t.players; p++ {
			credit(n, p, weight*utilities[p])
		}
		weight *= b.decay
	}
}

// Score bounded backprop credits the exact result of a playout that reached
// the end of the game. A truncated playout only yields an estimate, so its
// reward is shrunk toward zero by w * 1/sqrt(visits) at every node while that
// uncertainty is above the threshold. With proven bounds the shrink is a
// flat w/2.
type scoreBoundedBackprop struct {
	threshold float64
	weight    float64
	proven    bool
}

const (
	DefaultBoundThreshold = 0.01
	DefaultBoundWeight    = 0.1
)

func NewScoreBoundedBackprop(threshold, weight float64, proven bool) (Backpropagation, error) {
	if math.IsNaN(threshold) || threshold < 0 {
		return nil, configError("convergence threshold %v must be non-negative", threshold)
	}
	if err := validWeight("bound weight", weight); err != nil {
		return nil, err
	}
	return &scoreBoundedBackprop{threshold: threshold, weight: weight, proven: proven}, nil
}

func (b *scoreBoundedBackprop) Name() string { return "Score Bounded" }

func (b *scoreBoundedBackprop) update(t *tree, leaf nodeID, utilities []float64, truncated bool) {
	for id := leaf; id != nilNode; id = t.node(id).parent {
		n := t.node(id)
		factor := 1.0
		if truncated {
			factor = b.shrink(n)
		}
		n.visits++
		for p := 1; p <= t.players; p++ {
			credit(n, p, factor*utilities[p])
		}
	}
}

// shrink returns the factor applied to rewards at n, before its visit is counted
func (b *scoreBoundedBackprop) shrink(n *node) float64 {
	if n.terminal {
		return 1
	}
	if b.proven {
		return 1 - b.weight*0.5
	}
	uncertainty := 1 / math.Sqrt(math.Max(1, float64(n.visits)))
	if uncertainty > b.threshold {
		return 1 - b.weight*uncertainty
	}
	return 1
}

// DefaultMinimaxWeight is the weight of the minimax value in the implicit
// minimax backprop
const DefaultMinimaxWeight = 0.3

// Implicit minimax backprop blends each reward with the minimax value of the
// node's visited children: the best child for the player to move, the worst
// for everyone else.
type implicitMinimaxBackprop struct {
	weight float64
}

func NewImplicitMinimaxBackprop(weight float64) (Backpropagation, error) {
	if err := validWeight("minimax weight", weight); err != nil {
		return nil, err
	}
	return &implicitMinimaxBackprop{weight: weight}, nil
}

func (b *implicitMinimaxBackprop) Name() string { return "Implicit Minimax" }

func (b *implicitMinimaxBackprop) update(t *tree, leaf nodeID, utilities []float64, truncated bool) {
	for id := leaf; id != nilNode; id = t.node(id).parent {
		n := t.node(id)
		n.visits++
		for p := 1; p <= t.players; p++ {
			reward := utilities[p]
			if mm, ok := childMinimax(t, n, p); ok {
				reward = (1-b.weight)*reward + b.weight*mm
			}
			credit(n, p, reward)
		}
	}
}

func childMinimax(t *tree, n *node, player int) (float64, bool) {
	maximize := n.player == player
	value, found := 0.0, false
	for _, child := range n.children {
		c := t.node(child)
		if c.visits == 0 {
			continue
		}
		m := c.mean(player)
		if !found || (maximize && m > value) || (!maximize && m < value) {
			value, found = m, true
		}
	}
	return value, found
}
