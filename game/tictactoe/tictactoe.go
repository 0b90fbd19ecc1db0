// Package tictactoe is a small two-player oracle used to exercise the searcher.
package tictactoe

import (
	"strings"

	"mctsvar/game"
)

const (
	Win  = 1.0
	Loss = -1.0
	Draw = 0.0
)

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // Rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // Columns
	{0, 4, 8}, {2, 4, 6}, // Diagonals
}

type Move struct {
	Player int
	Cell   int
}

func (m Move) Signature() game.Signature {
	return game.Signature{Player: m.Player, From: -1, To: m.Cell}
}

// State is a 3x3 board, cells hold 0 (empty) or the owning player
type State struct {
	board  [9]int
	player int
}

func New() *State {
	return &State{player: 1}
}

// FromString builds a board from 9 characters of 'X', 'O' or '.', X is player 1.
// The side to move is inferred from the piece count.
func FromString(s string) *State {
	st := New()
	count := 0
	for i, c := range strings.ReplaceAll(s, "\n", "") {
		if i >= 9 {
			break
		}
		switch c {
		case 'X', 'x':
			st.board[i] = 1
			count++
		case 'O', 'o':
			st.board[i] = 2
			count++
		}
	}
	st.player = count%2 + 1
	return st
}

func (s *State) Player() int {
	return s.player
}

func (s *State) NumPlayers() int {
	return 2
}

func (s *State) LegalMoves() []game.Move {
	if s.IsTerminal() {
		return []game.Move{}
	}
	moves := make([]game.Move, 0, 9)
	for i, owner := range s.board {
		if owner == 0 {
			moves = append(moves, Move{Player: s.player, Cell: i})
		}
	}
	return moves
}

func (s *State) Play(move game.Move) game.State {
	m, ok := move.(Move)
	if !ok {
		panic("unexpected move type")
	}
	if s.board[m.Cell] != 0 {
		panic("cell already taken")
	}
	next := &State{board: s.board, player: 3 - s.player}
	next.board[m.Cell] = s.player
	return next
}

func (s *State) IsTerminal() bool {
	return s.lineOwner() != 0 || s.full()
}

func (s *State) Utilities() []float64 {
	winner := s.lineOwner()
	if winner == 0 {
		return []float64{0, Draw, Draw}
	}
	utilities := []float64{0, Loss, Loss}
	utilities[winner] = Win
	return utilities
}

// Heuristic counts lines still open to the player minus lines open to the
// opponent, scaled into [-1, 1].
func (s *State) Heuristic(player int) float64 {
	if s.IsTerminal() {
		return s.Utilities()[player]
	}
	open := 0
	for _, line := range lines {
		mine, theirs := 0, 0
		for _, cell := range line {
			switch s.board[cell] {
			case 0:
			case player:
				mine++
			default:
				theirs++
			}
		}
		if theirs == 0 && mine > 0 {
			open++
		}
		if mine == 0 && theirs > 0 {
			open--
		}
	}
	return float64(open) / float64(len(lines))
}

func (s *State) String() string {
	var b strings.Builder
	for i, owner := range s.board {
		switch owner {
		case 1:
			b.WriteByte('X')
		case 2:
			b.WriteByte('O')
		default:
			b.WriteByte('.')
		}
		if i%3 == 2 && i < 8 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (s *State) lineOwner() int {
	for _, line := range lines {
		owner := s.board[line[0]]
		if owner != 0 && owner == s.board[line[1]] && owner == s.board[line[2]] {
			return owner
		}
	}
	return 0
}

func (s *State) full() bool {
	for _, owner := range s.board {
		if owner == 0 {
			return false
		}
	}
	return true
}
