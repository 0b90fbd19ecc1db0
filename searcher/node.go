package searcher

import (
	"mctsvar/game"

	"github.com/pkg/errors"
)

type nodeID int32

const (
	nilNode nodeID = -1
	root    nodeID = 0
)

type node struct {
	parent     nodeID
	move       game.Move // Move from parent, nil at the root
	state      game.State
	player     int // Player to move in state
	terminal   bool
	children   []nodeID
	unexpanded []game.Move
	visits     int
	scoreSums  []float64 // Indexed by player, index 0 unused
	squareSums []float64
}

func (n *node) mean(player int) float64 {
	if n.visits == 0 {
		return 0
	}
	return n.scoreSums[player] / float64(n.visits)
}

func (n *node) variance(player int) float64 {
	if n.visits == 0 {
		return 0
	}
	mean := n.mean(player)
	return max(0, n.squareSums[player]/float64(n.visits)-mean*mean)
}

// tree is an arena of nodes. Parent and child links are indices into it, a
// node never moves once added and the whole arena is dropped after a search.
type tree struct {
	nodes   []node
	players int
}

func newTree(state game.State) (*tree, error) {
	t := &tree{
		nodes:   make([]node, 0, 1024),
		players: state.NumPlayers(),
	}
	if _, err := t.add(nilNode, nil, state); err != nil {
		return nil, err
	}
	return t, nil
}

// add builds a node for state, reached by playing move at parent, and links
// it under parent. The legal moves are computed once, here.
func (t *tree) add(parent nodeID, move game.Move, state game.State) (nodeID, error) {
	terminal := state.IsTerminal()
	moves := state.LegalMoves()
	switch {
	case terminal && len(moves) > 0:
		return nilNode, errors.Wrapf(ErrOracleInconsistent, "terminal state reports %d legal moves", len(moves))
	case !terminal && len(moves) == 0:
		return nilNode, errors.Wrap(ErrOracleInconsistent, "non-terminal state reports no legal moves")
	}

	unexpanded := make([]game.Move, len(moves))
	copy(unexpanded, moves)

	id := nodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{
		parent:     parent,
		move:       move,
		state:      state,
		player:     state.Player(),
		terminal:   terminal,
		children:   make([]nodeID, 0, len(moves)),
		unexpanded: unexpanded,
		scoreSums:  make([]float64, t.players+1),
		squareSums: make([]float64, t.players+1),
	})
	if parent != nilNode {
		p := &t.nodes[parent]
		p.children = append(p.children, id)
	}
	return id, nil
}

func (t *tree) node(id nodeID) *node {
	return &t.nodes[id]
}

func (t *tree) size() int {
	return len(t.nodes)
}

// depth counts the edges between id and the root
func (t *tree) depth(id nodeID) int {
	d := 0
	for p := t.nodes[id].parent; p != nilNode; p = t.nodes[p].parent {
		d++
	}
	return d
}

// mover returns the player who made the move leading to id, 0 at the root
func (t *tree) mover(id nodeID) int {
	p := t.nodes[id].parent
	if p == nilNode {
		return 0
	}
	return t.nodes[p].player
}
