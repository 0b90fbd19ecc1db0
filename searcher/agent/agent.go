package agent

import (
	"mctsvar/experiments/metrics"
	"mctsvar/game"
)

type Agent interface {
	Name() string
	// FindMove returns the move to play in state and the metrics of the search
	// behind it, empty for agents that do not search
	FindMove(state game.State) (game.Move, metrics.SearchMetric, error)
}
