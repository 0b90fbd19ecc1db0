package game

// Winner returns the player with the strictly greatest utility, or 0 if the
// top utility is shared (a draw).
func Winner(utilities []float64) int {
	winner := 0
	shared := false
	for p := 1; p < len(utilities); p++ {
		switch {
		case winner == 0 || utilities[p] > utilities[winner]:
			winner = p
			shared = false
		case utilities[p] == utilities[winner]:
			shared = true
		}
	}
	if shared {
		return 0
	}
	return winner
}

// Neutral returns a zero utility vector for n players, the score of a
// position nobody is favored in.
func Neutral(n int) []float64 {
	return make([]float64, n+1)
}

// Evaluate scores a state for every player. Terminal states use the
// oracle's utilities, otherwise the state's Evaluator if it has one, and
// a neutral vector if it does not.
func Evaluate(s State) []float64 {
	if s.IsTerminal() {
		return s.Utilities()
	}
	if e, ok := s.(Evaluator); ok {
		return e.Evaluate()
	}
	return Neutral(s.NumPlayers())
}
