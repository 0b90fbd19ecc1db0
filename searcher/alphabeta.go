package searcher

import "math"

// boundWeight scales how much a child is rewarded or punished for its
// confidence interval lying beyond the current alpha or beta
const boundWeight = 0.1

// Alpha-beta selection narrows UCT with alpha/beta bounds gathered from the
// confidence intervals of the nodes on the current path. Player 1 maximizes,
// everyone else minimizes.
type alphaBeta struct {
	c  float64
	cb float64
}

func NewAlphaBeta(c, cb float64) (Selection, error) {
	if err := validExploration(c); err != nil {
		return nil, err
	}
	if err := validExploration(cb); err != nil {
		return nil, err
	}
	return &alphaBeta{c: c, cb: cb}, nil
}

func (s *alphaBeta) Name() string { return "Alpha-Beta" }

func (s *alphaBeta) descent() scorer {
	return &alphaBetaDescent{alphaBeta: s, alpha: math.Inf(-1), beta: math.Inf(1)}
}

// alphaBetaDescent carries the bounds of one walk, so every iteration starts
// unbounded
type alphaBetaDescent struct {
	*alphaBeta
	alpha float64
	beta  float64
}

func (d *alphaBetaDescent) bounded() bool {
	return !math.IsInf(d.alpha, -1) && !math.IsInf(d.beta, 1)
}

func (d *alphaBetaDescent) score(t *tree, parent, child nodeID, lnN float64) float64 {
	n := t.node(child).visits
	if n == 0 {
		return math.Inf(1)
	}
	q := exploitation(t, parent, child)
	explore := d.c * exploration(lnN, n)
	if !d.bounded() {
		return q + explore
	}

	alpha, beta := d.alpha, d.beta
	if t.node(parent).player != 1 { // Minimizer sees the window mirrored
		q, alpha, beta = 1-q, 1-d.beta, 1-d.alpha
	}
	cb := d.cb * exploration(lnN, n)
	adjustment := 0.0
	if lower := q - cb; lower > alpha {
		adjustment += boundWeight * (lower - alpha)
	}
	if upper := q + cb; upper < beta {
		adjustment -= boundWeight * (beta - upper)
	}
	return q + explore + adjustment
}

func (d *alphaBetaDescent) chosen(t *tree, parent, child nodeID, lnN float64) {
	c := t.node(child)
	if c.visits == 0 {
		return
	}
	p := t.node(parent).player
	q := c.mean(p)
	cb := d.cb * exploration(lnN, c.visits)
	if p == 1 {
		d.alpha = math.Max(d.alpha, q-cb)
	} else {
		d.beta = math.Min(d.beta, q+cb)
	}
}
