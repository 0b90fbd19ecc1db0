package searcher

import (
	"math"

	"mctsvar/game"
)

// DefaultExploration is sqrt(2), i.e. C^2 = 2
const DefaultExploration = math.Sqrt2

func validExploration(c float64) error {
	if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
		return configError("exploration constant %v must be finite and non-negative", c)
	}
	return nil
}

func validWeight(name string, w float64) error {
	if math.IsNaN(w) || w < 0 || w > 1 {
		return configError("%s %v outside [0, 1]", name, w)
	}
	return nil
}

// UCB1: mean + C * sqrt(ln N / n)
type ucb1 struct {
	stateless
	c float64
}

func NewUCB1(c float64) (Selection, error) {
	if err := validExploration(c); err != nil {
		return nil, err
	}
	return &ucb1{c: c}, nil
}

func (s *ucb1) Name() string { return "UCB1" }

func (s *ucb1) descent() scorer { return s }

func (s *ucb1) score(t *tree, parent, child nodeID, lnN float64) float64 {
	n := t.node(child).visits
	if n == 0 {
		return math.Inf(1)
	}
	return exploitation(t, parent, child) + s.c*exploration(lnN, n)
}

// UCB1-Tuned replaces C with the variance bound min(1/4, V),
// V = var + sqrt(2 ln N / n)
type ucb1Tuned struct {
	stateless
}

func NewUCB1Tuned() Selection {
	return &ucb1Tuned{}
}

func (s *ucb1Tuned) Name() string { return "UCB1-Tuned" }

func (s *ucb1Tuned) descent() scorer { return s }

func (s *ucb1Tuned) score(t *tree, parent, child nodeID, lnN float64) float64 {
	c := t.node(child)
	if c.visits == 0 {
		return math.Inf(1)
	}
	p := t.node(parent).player
	n := float64(c.visits)
	v := c.variance(p) + math.Sqrt(2*lnN/n)
	return c.mean(p) + math.Sqrt(lnN/n*math.Min(0.25, v))
}

// First play urgency gives unvisited children a fixed score instead of
// infinity, letting a strong visited child be exploited before every sibling
// is tried.
type fpu struct {
	stateless
	c       float64
	urgency float64
}

func NewFPU(c, urgency float64) (Selection, error) {
	if err := validExploration(c); err != nil {
		return nil, err
	}
	if math.IsNaN(urgency) {
		return nil, configError("first play urgency must be a number")
	}
	return &fpu{c: c, urgency: urgency}, nil
}

func (s *fpu) Name() string { return "FPU" }

func (s *fpu) descent() scorer { return s }

func (s *fpu) score(t *tree, parent, child nodeID, lnN float64) float64 {
	n := t.node(child).visits
	if n == 0 {
		return s.urgency
	}
	return exploitation(t, parent, child) + s.c*exploration(lnN, n)
}

// Flat UCB only builds the first level, root children are playout leaves
type flatUCB struct {
	ucb1
}

func NewFlatUCB(c float64) (Selection, error) {
	if err := validExploration(c); err != nil {
		return nil, err
	}
	return &flatUCB{ucb1{c: c}}, nil
}

func (s *flatUCB) Name() string { return "Flat UCB" }

func (s *flatUCB) descent() scorer { return s }

func (s *flatUCB) depthLimit() int { return 1 }

// Progressive bias adds W * H / (n + 1), H being the heuristic value of the
// child position for the player choosing it. States without a heuristic
// get no bias.
type progressiveBias struct {
	ucb1
	w float64
}

func NewProgressiveBias(c, w float64) (Selection, error) {
	if err := validExploration(c); err != nil {
		return nil, err
	}
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return nil, configError("bias weight %v must be finite", w)
	}
	return &progressiveBias{ucb1: ucb1{c: c}, w: w}, nil
}

func (s *progressiveBias) Name() string { return "Progressive Bias" }

func (s *progressiveBias) descent() scorer { return s }

func (s *progressiveBias) score(t *tree, parent, child nodeID, lnN float64) float64 {
	c := t.node(child)
	if c.visits == 0 {
		return math.Inf(1)
	}
	bias := 0.0
	if h, ok := c.state.(game.Heuristic); ok {
		bias = s.w * h.Heuristic(t.node(parent).player) / float64(c.visits+1)
	}
	return s.ucb1.score(t, parent, child, lnN) + bias
}

// Implicit minimax mixes the mean of a child with the best mean among its
// own visited children: (1 - w) * mean + w * minimax.
type implicitMinimaxSelection struct {
	stateless
	c float64
	w float64
}

func NewImplicitMinimaxSelection(c, w float64) (Selection, error) {
	if err := validExploration(c); err != nil {
		return nil, err
	}
	if err := validWeight("minimax weight", w); err != nil {
		return nil, err
	}
	return &implicitMinimaxSelection{c: c, w: w}, nil
}

func (s *implicitMinimaxSelection) Name() string { return "Implicit Minimax" }

func (s *implicitMinimaxSelection) descent() scorer { return s }

func (s *implicitMinimaxSelection) score(t *tree, parent, child nodeID, lnN float64) float64 {
	c := t.node(child)
	if c.visits == 0 {
		return math.Inf(1)
	}
	p := t.node(parent).player
	exploit := (1-s.w)*c.mean(p) + s.w*minimaxValue(t, child, p)
	return exploit + s.c*exploration(lnN, c.visits)
}

// minimaxValue is the best visited child mean for player, the node's own
// mean when it has none
func minimaxValue(t *tree, id nodeID, player int) float64 {
	n := t.node(id)
	best := math.Inf(-1)
	for _, child := range n.children {
		if c := t.node(child); c.visits > 0 {
			best = math.Max(best, c.mean(player))
		}
	}
	if math.IsInf(best, -1) {
		return n.mean(player)
	}
	return best
}
