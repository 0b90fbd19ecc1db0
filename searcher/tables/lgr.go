package tables

import (
	"sync"

	"mctsvar/game"
)

// Reply is the best known answer to an opponent move and the score that
// earned it its place
type Reply struct {
	Move  game.Move
	Score float64
}

type lgrShard struct {
	sync.RWMutex
	replies map[uint64]Reply
}

// LastGoodReply maps an opponent move signature to a single best reply.
type LastGoodReply struct {
	shards [numShards]lgrShard
}

func NewLastGoodReply() *LastGoodReply {
	t := &LastGoodReply{}
	t.Reset()
	return t
}

func (t *LastGoodReply) shard(key uint64) *lgrShard {
	return &t.shards[key%numShards]
}

func (t *LastGoodReply) Lookup(opponent game.Signature) (Reply, bool) {
	key := Key(opponent)
	sh := t.shard(key)
	sh.RLock()
	defer sh.RUnlock()

	r, ok := sh.replies[key]
	return r, ok
}

// Offer stores the reply if there is no entry for the opponent move yet or
// the score beats the stored one. It reports whether the table changed.
func (t *LastGoodReply) Offer(opponent game.Signature, reply game.Move, score float64) bool {
	key := Key(opponent)
	sh := t.shard(key)
	sh.Lock()
	defer sh.Unlock()

	if r, ok := sh.replies[key]; ok && score <= r.Score {
		return false
	}
	sh.replies[key] = Reply{Move: reply, Score: score}
	return true
}

// Decay multiplies every stored score by factor
func (t *LastGoodReply) Decay(factor float64) {
	if factor == 1 {
		return
	}
	for i := range t.shards {
		sh := &t.shards[i]
		sh.Lock()
		for key, r := range sh.replies {
			r.Score *= factor
			sh.replies[key] = r
		}
		sh.Unlock()
	}
}

func (t *LastGoodReply) Len() int {
	n := 0
	for i := range t.shards {
		t.shards[i].RLock()
		n += len(t.shards[i].replies)
		t.shards[i].RUnlock()
	}
	return n
}

func (t *LastGoodReply) Reset() {
	for i := range t.shards {
		t.shards[i].Lock()
		t.shards[i].replies = make(map[uint64]Reply)
		t.shards[i].Unlock()
	}
}
