package searcher

import (
	"testing"

	"mctsvar/game"
	"mctsvar/game/nim"
	"mctsvar/searcher/tables"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type evaluatedState struct {
	mockState
}

func (e evaluatedState) Play(move game.Move) game.State {
	return evaluatedState{e.mockState.Play(move).(mockState)}
}

func (e evaluatedState) Evaluate() []float64 {
	return []float64{0, 0.2, -0.2}
}

func TestRandomSimulation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	sim := NewRandomSimulation()

	t.Run("terminal state returns its utilities without moving", func(t *testing.T) {
		state := nim.New(0, 3, 2)
		playout, err := sim.Playout(state, nil, 100, rng)

		require.NoError(t, err)
		require.Empty(t, playout.Steps, "No move should be applied to a terminal state")
		require.Equal(t, state.Utilities(), playout.Utilities)
		require.False(t, playout.Truncated)
	})

	t.Run("plays to the end of the game", func(t *testing.T) {
		playout, err := sim.Playout(nim.New(10, 3, 2), nil, 0, rng)

		require.NoError(t, err)
		require.NotEmpty(t, playout.Steps)
		require.False(t, playout.Truncated)
		taken := 0
		for _, step := range playout.Steps {
			taken += step.Move.(nim.Move).Take
		}
		require.Equal(t, 10, taken, "Playout should empty the heap")
		last := playout.Steps[len(playout.Steps)-1].Player
		require.Equal(t, 1.0, playout.Utilities[last], "Last mover should win")
	})

	t.Run("depth ceiling truncates with a neutral score", func(t *testing.T) {
		playout, err := sim.Playout(newMockState(2, 50), nil, 5, rng)

		require.NoError(t, err)
		require.Len(t, playout.Steps, 5)
		require.True(t, playout.Truncated)
		require.Equal(t, []float64{0, 0, 0}, playout.Utilities)
	})

	t.Run("depth ceiling uses the evaluator when there is one", func(t *testing.T) {
		playout, err := sim.Playout(evaluatedState{newMockState(2, 50)}, nil, 3, rng)

		require.NoError(t, err)
		require.True(t, playout.Truncated)
		require.Equal(t, []float64{0, 0.2, -0.2}, playout.Utilities)
	})

	t.Run("non-terminal state without moves fails fast", func(t *testing.T) {
		state := brokenState{mockState: newMockState(1, 1), moves: []game.Move{}}
		_, err := sim.Playout(state, nil, 100, rng)

		require.ErrorIs(t, err, ErrOracleInconsistent)
	})

	t.Run("records the mover of every step", func(t *testing.T) {
		playout, err := sim.Playout(newMockState(2, 4), nil, 0, rng)

		require.NoError(t, err)
		players := []int{}
		for _, step := range playout.Steps {
			players = append(players, step.Player)
		}
		require.Equal(t, []int{1, 2, 1, 2}, players)
	})
}

func TestMAST(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	t.Run("credits every move with its mover's utility", func(t *testing.T) {
		table := tables.NewMoveAverage()
		sim, err := NewMAST(0.1, table)
		require.NoError(t, err)

		state := newMockState(1, 2)
		state.score = func([]game.Move) []float64 { return []float64{0, 1, -1} }
		_, err = sim.Playout(state, nil, 0, rng)
		require.NoError(t, err)

		require.Equal(t, 1.0, table.Mean(mockMove{id: 0, player: 1}.Signature()))
		require.Equal(t, -1.0, table.Mean(mockMove{id: 0, player: 2}.Signature()))
		require.Equal(t, 1, table.Visits(mockMove{id: 0, player: 1}.Signature()))
	})

	t.Run("greedy choice follows the best average", func(t *testing.T) {
		table := tables.NewMoveAverage()
		table.Credit(mockMove{id: 2, player: 1}.Signature(), 1)
		table.Credit(mockMove{id: 0, player: 1}.Signature(), -1)
		sim, _ := NewMAST(0, table)

		playout, err := sim.Playout(newMockState(3, 1), nil, 0, rng)
		require.NoError(t, err)
		require.Equal(t, mockMove{id: 2, player: 1}, playout.Steps[0].Move)
	})

	t.Run("unseen moves tie at zero", func(t *testing.T) {
		table := tables.NewMoveAverage()
		table.Credit(mockMove{id: 0, player: 1}.Signature(), -1)
		sim, _ := NewMAST(0, table)

		counts := map[int]int{}
		for i := 0; i < 300; i++ {
			playout, err := sim.Playout(newMockState(3, 1), nil, 0, rng)
			require.NoError(t, err)
			counts[playout.Steps[0].Move.(mockMove).id]++
		}
		require.Zero(t, counts[0], "Below-average move should not be played greedily")
		require.InDelta(t, 150, counts[1], 40)
		require.InDelta(t, 150, counts[2], 40)
	})

	t.Run("epsilon outside [0, 1] is a configuration error", func(t *testing.T) {
		_, err := NewMAST(1.5, nil)
		require.ErrorIs(t, err, ErrConfig)
		_, err = NewMAST(-0.1, nil)
		require.ErrorIs(t, err, ErrConfig)
	})
}

func TestLGR(t *testing.T) {
	a := Step{Move: mockMove{id: 0, player: 2}, Player: 2}
	b := Step{Move: mockMove{id: 1, player: 1}, Player: 1}
	c := Step{Move: mockMove{id: 2, player: 1}, Player: 1}
	d := Step{Move: mockMove{id: 3, player: 1}, Player: 1}

	t.Run("table keeps the best reply above the threshold", func(t *testing.T) {
		table := tables.NewLastGoodReply()
		sim, err := NewLGR(0.5, 1, table)
		require.NoError(t, err)
		policy := sim.(*lgr)

		policy.update([]Step{a, b}, []float64{0, 0.8, 0.2})
		reply, ok := table.Lookup(a.Move.Signature())
		require.True(t, ok)
		require.Equal(t, b.Move, reply.Move)
		require.Equal(t, 0.8, reply.Score)

		policy.update([]Step{a, c}, []float64{0, 0.9, 0.1})
		reply, _ = table.Lookup(a.Move.Signature())
		require.Equal(t, c.Move, reply.Move, "Higher score should overwrite")
		require.Equal(t, 0.9, reply.Score)

		policy.update([]Step{a, d}, []float64{0, 0.3, 0.7})
		reply, _ = table.Lookup(a.Move.Signature())
		require.Equal(t, c.Move, reply.Move, "Reply below the threshold should not overwrite")
		require.Equal(t, 0.9, reply.Score)
	})

	t.Run("reply must beat the threshold", func(t *testing.T) {
		table := tables.NewLastGoodReply()
		sim, _ := NewLGR(DefaultReplyThreshold, 1, table)
		policy := sim.(*lgr)

		policy.update([]Step{a, b}, []float64{0, 0.5, 0.5})
		_, ok := table.Lookup(a.Move.Signature())
		require.False(t, ok, "A draw on a [0, 1] scale is not a good reply")

		policy.update([]Step{a, b}, []float64{0, 0.51, 0.49})
		_, ok = table.Lookup(a.Move.Signature())
		require.True(t, ok)
	})

	t.Run("consecutive moves by the same player are not replies", func(t *testing.T) {
		table := tables.NewLastGoodReply()
		sim, _ := NewLGR(0.5, 1, table)

		sim.(*lgr).update([]Step{b, c}, []float64{0, 1, 0})
		require.Equal(t, 0, table.Len())
	})

	t.Run("decay fades stored scores before each update", func(t *testing.T) {
		table := tables.NewLastGoodReply()
		sim, _ := NewLGR(0.5, 0.5, table)
		policy := sim.(*lgr)

		policy.update([]Step{a, b}, []float64{0, 0.8, 0.2})
		policy.update([]Step{a, c}, []float64{0, 0.6, 0.4})

		reply, _ := table.Lookup(a.Move.Signature())
		require.Equal(t, c.Move, reply.Move, "0.6 beats the decayed 0.4")
		require.InDelta(t, 0.6, reply.Score, 1e-9)
	})

	t.Run("plays the stored reply to the previous move", func(t *testing.T) {
		table := tables.NewLastGoodReply()
		table.Offer(a.Move.Signature(), mockMove{id: 2, player: 1}, 1)
		sim, _ := NewLGR(0.5, 1, table)

		rng := rand.New(rand.NewSource(9))
		for i := 0; i < 20; i++ {
			playout, err := sim.Playout(newMockState(3, 1), &a, 0, rng)
			require.NoError(t, err)
			require.Equal(t, mockMove{id: 2, player: 1}, playout.Steps[0].Move)
		}
	})

	t.Run("illegal reply falls back to random", func(t *testing.T) {
		table := tables.NewLastGoodReply()
		table.Offer(a.Move.Signature(), mockMove{id: 7, player: 1}, 1)
		sim, _ := NewLGR(0.5, 1, table)

		rng := rand.New(rand.NewSource(9))
		playout, err := sim.Playout(newMockState(3, 1), &a, 0, rng)
		require.NoError(t, err)
		require.Less(t, playout.Steps[0].Move.(mockMove).id, 3)
	})

	t.Run("decay outside (0, 1] is a configuration error", func(t *testing.T) {
		_, err := NewLGR(0.5, 0, nil)
		require.ErrorIs(t, err, ErrConfig)
		_, err = NewLGR(0.5, 1.1, nil)
		require.ErrorIs(t, err, ErrConfig)
	})
}
