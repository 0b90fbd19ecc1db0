// Package tables holds the playout statistics shared across iterations and
// searches. Both tables are safe for concurrent use. Interleaved updates from
// concurrent searches may be lost, which only degrades the bias they give
// playouts.
package tables

import (
	"encoding/binary"

	"mctsvar/game"

	"github.com/cespare/xxhash"
)

const numShards = 16

// Key hashes a move signature into a table key. Different signatures may
// collide, such moves then share an entry.
func Key(s game.Signature) uint64 {
	var buf [40]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(s.Player))
	binary.LittleEndian.PutUint64(buf[8:], uint64(s.From))
	binary.LittleEndian.PutUint64(buf[16:], uint64(s.To))
	binary.LittleEndian.PutUint64(buf[24:], uint64(s.LevelFrom))
	binary.LittleEndian.PutUint64(buf[32:], uint64(s.LevelTo))
	return xxhash.Sum64(buf[:])
}
