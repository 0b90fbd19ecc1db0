package game

// Move is an action the oracle can apply to a State. The engine never looks
// inside a move beyond its signature.
type Move interface {
	Signature() Signature
}

// State should be immutable - operations on State always return a new copy
type State interface {
	// Player returns the 1-based index of the side to move
	Player() int
	NumPlayers() int
	// LegalMoves is empty if and only if the state is terminal
	LegalMoves() []Move
	Play(Move) State
	IsTerminal() bool
	// Utilities returns one entry per player, indexed 1..NumPlayers(), index 0 unused.
	// Only defined for terminal states.
	Utilities() []float64
}

// Evaluator is implemented by states that can score a non-terminal position.
// Playouts cut off by a depth ceiling use it in place of Utilities.
type Evaluator interface {
	Evaluate() []float64
}

// Heuristic is implemented by states that can estimate how favorable the
// position is for a player, between -1 and 1.
type Heuristic interface {
	Heuristic(player int) float64
}
