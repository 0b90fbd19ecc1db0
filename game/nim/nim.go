// Package nim is a single-heap subtraction game: players take turns removing
// between 1 and MaxTake stones, whoever takes the last stone wins.
package nim

import "mctsvar/game"

type Move struct {
	Player int
	Take   int
}

func (m Move) Signature() game.Signature {
	return game.Signature{Player: m.Player, From: 0, To: m.Take}
}

type State struct {
	Heap    int
	MaxTake int
	Players int
	player  int
	last    int // Player who made the last move
}

func New(heap, maxTake, players int) *State {
	if heap < 0 || maxTake < 1 || players < 1 {
		panic("invalid nim parameters")
	}
	return &State{Heap: heap, MaxTake: maxTake, Players: players, player: 1}
}

func (s *State) Player() int {
	return s.player
}

func (s *State) NumPlayers() int {
	return s.Players
}

func (s *State) LegalMoves() []game.Move {
	n := min(s.Heap, s.MaxTake)
	moves := make([]game.Move, 0, n)
	for take := 1; take <= n; take++ {
		moves = append(moves, Move{Player: s.player, Take: take})
	}
	return moves
}

func (s *State) Play(move game.Move) game.State {
	m, ok := move.(Move)
	if !ok {
		panic("unexpected move type")
	}
	if m.Take < 1 || m.Take > min(s.Heap, s.MaxTake) {
		panic("illegal take")
	}
	return &State{
		Heap:    s.Heap - m.Take,
		MaxTake: s.MaxTake,
		Players: s.Players,
		player:  s.player%s.Players + 1,
		last:    s.player,
	}
}

func (s *State) IsTerminal() bool {
	return s.Heap == 0
}

// Utilities gives 1 to whoever took the last stone and 0 to everyone else
func (s *State) Utilities() []float64 {
	utilities := make([]float64, s.Players+1)
	if s.last > 0 {
		utilities[s.last] = 1
	}
	return utilities
}
