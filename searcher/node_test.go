package searcher

import (
	"testing"

	"mctsvar/game"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type mockMove struct {
	id     int
	player int
}

func (m mockMove) Signature() game.Signature {
	return game.Signature{Player: m.player, To: m.id}
}

// mockState is a uniform game tree: every non-terminal state has branching
// moves, turns alternate between players and the game ends after depth
// moves with the outcome given by score
type mockState struct {
	player    int
	players   int
	branching int
	depth     int
	played    []game.Move
	score     func(played []game.Move) []float64
}

func newMockState(branching, depth int) mockState {
	return mockState{player: 1, players: 2, branching: branching, depth: depth}
}

func (m mockState) Player() int {
	return m.player
}

func (m mockState) NumPlayers() int {
	return m.players
}

func (m mockState) LegalMoves() []game.Move {
	if m.IsTerminal() {
		return []game.Move{}
	}
	moves := make([]game.Move, m.branching)
	for i := range moves {
		moves[i] = mockMove{id: i, player: m.player}
	}
	return moves
}

func (m mockState) Play(move game.Move) game.State {
	played := make([]game.Move, len(m.played), len(m.played)+1)
	copy(played, m.played)
	next := m
	next.played = append(played, move)
	next.player = m.player%m.players + 1
	return next
}

func (m mockState) IsTerminal() bool {
	return len(m.played) >= m.depth
}

func (m mockState) Utilities() []float64 {
	if m.score != nil {
		return m.score(m.played)
	}
	return make([]float64, m.players+1)
}

// brokenState lets tests break the oracle contract
type brokenState struct {
	mockState
	terminal  bool
	moves     []game.Move
	panics    bool
	utilities []float64
}

func (b brokenState) IsTerminal() bool        { return b.terminal }
func (b brokenState) LegalMoves() []game.Move { return b.moves }
func (b brokenState) Utilities() []float64    { return b.utilities }

func (b brokenState) Play(move game.Move) game.State {
	if b.panics {
		panic("oracle failure")
	}
	next := b
	next.terminal = true
	next.moves = nil
	return next
}

func TestTreeAdd(t *testing.T) {
	t.Run("root keeps every legal move unexpanded", func(t *testing.T) {
		tr, err := newTree(newMockState(3, 2))
		require.NoError(t, err)

		r := tr.node(root)
		require.Equal(t, nilNode, r.parent, "Root should have no parent")
		require.Nil(t, r.move, "Root should have no move from parent")
		require.Len(t, r.unexpanded, 3, "Every legal move should be unexpanded")
		require.Empty(t, r.children)
		require.Len(t, r.scoreSums, 3, "Score sums should have one slot per player plus index 0")
		require.Equal(t, 1, r.player)
	})

	t.Run("child registers with its parent", func(t *testing.T) {
		state := newMockState(2, 2)
		tr, _ := newTree(state)
		move := mockMove{id: 1, player: 1}

		id, err := tr.add(root, move, state.Play(move))
		require.NoError(t, err)

		require.Equal(t, []nodeID{id}, tr.node(root).children)
		require.Equal(t, root, tr.node(id).parent)
		require.Equal(t, move, tr.node(id).move)
		require.Equal(t, 2, tr.node(id).player, "Child should record the player to move after the move")
		require.Equal(t, 1, tr.mover(id), "Mover of the child is the root player")
		require.Equal(t, 1, tr.depth(id))
	})

	t.Run("terminal state with legal moves is rejected", func(t *testing.T) {
		state := brokenState{mockState: newMockState(1, 1), terminal: true, moves: []game.Move{mockMove{}}}

		_, err := newTree(state)
		require.True(t, errors.Is(err, ErrOracleInconsistent), "Should report an inconsistent oracle, got %v", err)
	})

	t.Run("non-terminal state without legal moves is rejected", func(t *testing.T) {
		state := brokenState{mockState: newMockState(1, 1), terminal: false, moves: []game.Move{}}

		_, err := newTree(state)
		require.True(t, errors.Is(err, ErrOracleInconsistent), "Should report an inconsistent oracle, got %v", err)
	})

	t.Run("terminal root has nothing to expand", func(t *testing.T) {
		tr, err := newTree(newMockState(3, 0))
		require.NoError(t, err)
		require.True(t, tr.node(root).terminal)
		require.Empty(t, tr.node(root).unexpanded)
	})
}

func TestNodeStatistics(t *testing.T) {
	t.Run("unvisited node has zero mean and variance", func(t *testing.T) {
		n := &node{scoreSums: []float64{0, 0}, squareSums: []float64{0, 0}}
		require.Equal(t, 0.0, n.mean(1))
		require.Equal(t, 0.0, n.variance(1))
	})

	t.Run("mean and variance of credited rewards", func(t *testing.T) {
		n := &node{scoreSums: make([]float64, 2), squareSums: make([]float64, 2)}
		for _, r := range []float64{1, 0, 1, 0} {
			n.visits++
			credit(n, 1, r)
		}
		require.InDelta(t, 0.5, n.mean(1), 1e-9)
		require.InDelta(t, 0.25, n.variance(1), 1e-9)
	})
}
