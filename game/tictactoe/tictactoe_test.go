package tictactoe

import (
	"testing"

	"mctsvar/game"

	"github.com/stretchr/testify/require"
)

func TestPlay(t *testing.T) {
	t.Run("playing leaves the receiver untouched", func(t *testing.T) {
		s := New()
		next := s.Play(Move{Player: 1, Cell: 4})

		require.Len(t, s.LegalMoves(), 9, "Original state should keep all moves")
		require.Len(t, next.LegalMoves(), 8, "Next state should lose the played cell")
		require.Equal(t, 2, next.Player(), "Turn should pass to the other player")
	})

	t.Run("completed line is terminal with win and loss", func(t *testing.T) {
		s := FromString("XXX" + "OO." + "...")

		require.True(t, s.IsTerminal(), "Three in a row should end the game")
		require.Empty(t, s.LegalMoves(), "Terminal state should have no legal moves")
		require.Equal(t, []float64{0, Win, Loss}, s.Utilities())
		require.Equal(t, 1, game.Winner(s.Utilities()))
	})

	t.Run("full board without a line is a draw", func(t *testing.T) {
		s := FromString("XOX" + "XOO" + "OXX")

		require.True(t, s.IsTerminal(), "Full board should end the game")
		require.Equal(t, []float64{0, Draw, Draw}, s.Utilities())
	})
}

func TestFromString(t *testing.T) {
	t.Run("side to move is inferred from piece count", func(t *testing.T) {
		require.Equal(t, 1, FromString(".........").Player())
		require.Equal(t, 2, FromString("X........").Player())
		require.Equal(t, 1, FromString("XO.......").Player())
	})

	t.Run("round trips through String", func(t *testing.T) {
		s := FromString("X.O\n.X.\n..O")
		require.Equal(t, "X.O\n.X.\n..O", s.String())
	})
}

func TestHeuristic(t *testing.T) {
	t.Run("empty board is neutral", func(t *testing.T) {
		require.Equal(t, 0.0, New().Heuristic(1))
	})

	t.Run("center favors its owner", func(t *testing.T) {
		s := FromString("....X....")
		require.Greater(t, s.Heuristic(1), 0.0, "Center owner should be favored")
		require.Less(t, s.Heuristic(2), 0.0, "Opponent should be disfavored")
	})
}
