package game

import "fmt"

// Signature is the structural identity of a move. Two moves with the same
// signature are treated as the same action by the statistics tables.
type Signature struct {
	Player    int
	From      int
	To        int
	LevelFrom int
	LevelTo   int
}

func (s Signature) String() string {
	return fmt.Sprintf("p%d:%d.%d->%d.%d", s.Player, s.From, s.LevelFrom, s.To, s.LevelTo)
}

// SameMove compares two moves by signature
func SameMove(a, b Move) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Signature() == b.Signature()
}
