package tables

import (
	"sync"
	"testing"

	"mctsvar/game"

	"github.com/stretchr/testify/require"
)

type move struct {
	sig game.Signature
}

func (m move) Signature() game.Signature {
	return m.sig
}

func sig(player, to int) game.Signature {
	return game.Signature{Player: player, From: -1, To: to}
}

func TestKey(t *testing.T) {
	t.Run("equal signatures share a key", func(t *testing.T) {
		require.Equal(t, Key(sig(1, 4)), Key(sig(1, 4)))
	})

	t.Run("player is part of the key", func(t *testing.T) {
		require.NotEqual(t, Key(sig(1, 4)), Key(sig(2, 4)))
	})

	t.Run("levels are part of the key", func(t *testing.T) {
		a := game.Signature{Player: 1, From: 2, To: 3}
		b := game.Signature{Player: 1, From: 2, To: 3, LevelTo: 1}
		require.NotEqual(t, Key(a), Key(b))
	})
}

func TestMoveAverage(t *testing.T) {
	t.Run("unseen move averages zero", func(t *testing.T) {
		table := NewMoveAverage()
		require.Equal(t, 0.0, table.Mean(sig(1, 0)))
		require.Equal(t, 0, table.Visits(sig(1, 0)))
	})

	t.Run("credits accumulate reward and visits", func(t *testing.T) {
		table := NewMoveAverage()
		table.Credit(sig(1, 0), 1)
		table.Credit(sig(1, 0), 0)
		table.Credit(sig(1, 0), 0.5)

		require.InDelta(t, 0.5, table.Mean(sig(1, 0)), 1e-9)
		require.Equal(t, 3, table.Visits(sig(1, 0)))
		require.Equal(t, 1, table.Len())
	})

	t.Run("reset forgets everything", func(t *testing.T) {
		table := NewMoveAverage()
		table.Credit(sig(1, 0), 1)
		table.Reset()

		require.Equal(t, 0, table.Len())
	})

	t.Run("concurrent credits are not lost under locks", func(t *testing.T) {
		table := NewMoveAverage()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					table.Credit(sig(1, j%4), 1)
				}
			}()
		}
		wg.Wait()

		for to := 0; to < 4; to++ {
			require.Equal(t, 200, table.Visits(sig(1, to)))
		}
	})
}

func TestLastGoodReply(t *testing.T) {
	a := sig(2, 0)
	b := move{sig(1, 1)}
	c := move{sig(1, 2)}

	t.Run("first offer is stored", func(t *testing.T) {
		table := NewLastGoodReply()
		require.True(t, table.Offer(a, b, 0.8))

		got, ok := table.Lookup(a)
		require.True(t, ok)
		require.Equal(t, Reply{Move: b, Score: 0.8}, got)
	})

	t.Run("only a strictly better score overwrites", func(t *testing.T) {
		table := NewLastGoodReply()
		table.Offer(a, b, 0.8)

		require.False(t, table.Offer(a, c, 0.8), "Equal score should not overwrite")
		require.True(t, table.Offer(a, c, 0.9), "Higher score should overwrite")

		got, _ := table.Lookup(a)
		require.Equal(t, c, got.Move)
	})

	t.Run("decay scales every score", func(t *testing.T) {
		table := NewLastGoodReply()
		table.Offer(a, b, 0.8)
		table.Offer(sig(2, 5), c, 0.6)
		table.Decay(0.5)

		got, _ := table.Lookup(a)
		require.InDelta(t, 0.4, got.Score, 1e-9)
		got, _ = table.Lookup(sig(2, 5))
		require.InDelta(t, 0.3, got.Score, 1e-9)
	})

	t.Run("missing entry", func(t *testing.T) {
		_, ok := NewLastGoodReply().Lookup(a)
		require.False(t, ok)
	})
}
