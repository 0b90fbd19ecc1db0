package agent

import (
	"testing"

	"mctsvar/game"
	"mctsvar/game/tictactoe"
	"mctsvar/searcher"

	"github.com/stretchr/testify/require"
)

func TestEvaluationAgent(t *testing.T) {
	t.Run("plays the winning move and reports the search", func(t *testing.T) {
		mcts := searcher.New(searcher.WithSeed(3), searcher.WithMetrics())
		a := NewEvaluationAgent(mcts, searcher.Budget{Iterations: 500})

		move, metric, err := a.FindMove(tictactoe.FromString("XX.OO...."))
		require.NoError(t, err)
		require.Equal(t, tictactoe.Move{Player: 1, Cell: 2}, move)
		require.Equal(t, 500, metric.Iterations)
		require.Equal(t, mcts.Name(), a.Name())
	})

	t.Run("terminal state", func(t *testing.T) {
		a := NewEvaluationAgent(searcher.New(searcher.WithSeed(3)), searcher.Budget{Iterations: 10})
		_, _, err := a.FindMove(tictactoe.FromString("XXXOO...."))
		require.ErrorIs(t, err, searcher.ErrNoMove)
	})
}

func TestTrainingAgent(t *testing.T) {
	t.Run("rejects a non positive temperature", func(t *testing.T) {
		_, err := NewTrainingAgent(searcher.New(), searcher.Budget{Iterations: 10}, 0, 1)
		require.ErrorIs(t, err, searcher.ErrConfig)
	})

	t.Run("cold temperature follows the visits", func(t *testing.T) {
		a, err := NewTrainingAgent(searcher.New(searcher.WithSeed(5)), searcher.Budget{Iterations: 500}, 0.05, 1)
		require.NoError(t, err)

		move, _, err := a.FindMove(tictactoe.FromString("XX.OO...."))
		require.NoError(t, err)
		require.Equal(t, tictactoe.Move{Player: 1, Cell: 2}, move)
		require.Contains(t, a.Name(), "Training")
	})

	t.Run("visits are sharpened by the temperature", func(t *testing.T) {
		children := []searcher.ChildStats{{Visits: 1}, {Visits: 2}, {Visits: 4}}
		require.Equal(t, []float64{1, 4, 16}, adjustTemperature(children, 0.5))
		require.Equal(t, []float64{1, 2, 4}, adjustTemperature(children, 1))
	})
}

func TestRandomAgent(t *testing.T) {
	t.Run("plays legal moves", func(t *testing.T) {
		a := NewRandomAgent(7)
		var state game.State = tictactoe.New()
		for !state.IsTerminal() {
			move, _, err := a.FindMove(state)
			require.NoError(t, err)
			legal := false
			for _, m := range state.LegalMoves() {
				legal = legal || game.SameMove(m, move)
			}
			require.True(t, legal, "Move %v should be legal", move)
			state = state.Play(move)
		}
	})

	t.Run("terminal state", func(t *testing.T) {
		_, _, err := NewRandomAgent(7).FindMove(tictactoe.FromString("XXXOO...."))
		require.ErrorIs(t, err, searcher.ErrNoMove)
	})
}
