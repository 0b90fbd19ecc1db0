package tables

import (
	"sync"

	"mctsvar/game"
)

type moveStats struct {
	rewards float64
	visits  int
}

type mastShard struct {
	sync.RWMutex
	stats map[uint64]moveStats
}

// MoveAverage accumulates the reward and play count of every move signature
// seen in playouts.
type MoveAverage struct {
	shards [numShards]mastShard
}

func NewMoveAverage() *MoveAverage {
	t := &MoveAverage{}
	t.Reset()
	return t
}

func (t *MoveAverage) shard(key uint64) *mastShard {
	return &t.shards[key%numShards]
}

// Mean returns the average reward of a move, 0 if it was never credited
func (t *MoveAverage) Mean(s game.Signature) float64 {
	key := Key(s)
	sh := t.shard(key)
	sh.RLock()
	defer sh.RUnlock()

	st, ok := sh.stats[key]
	if !ok || st.visits == 0 {
		return 0
	}
	return st.rewards / float64(st.visits)
}

func (t *MoveAverage) Visits(s game.Signature) int {
	key := Key(s)
	sh := t.shard(key)
	sh.RLock()
	defer sh.RUnlock()

	return sh.stats[key].visits
}

// Credit adds one visit with the given reward to the move
func (t *MoveAverage) Credit(s game.Signature, reward float64) {
	key := Key(s)
	sh := t.shard(key)
	sh.Lock()
	defer sh.Unlock()

	st := sh.stats[key]
	st.rewards += reward
	st.visits++
	sh.stats[key] = st
}

func (t *MoveAverage) Len() int {
	n := 0
	for i := range t.shards {
		t.shards[i].RLock()
		n += len(t.shards[i].stats)
		t.shards[i].RUnlock()
	}
	return n
}

// Reset forgets every entry. Meant for the start of a run, not mid-search.
func (t *MoveAverage) Reset() {
	for i := range t.shards {
		t.shards[i].Lock()
		t.shards[i].stats = make(map[uint64]moveStats)
		t.shards[i].Unlock()
	}
}
