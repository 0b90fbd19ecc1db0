package agent

import (
	"mctsvar/experiments/metrics"
	"mctsvar/game"
	"mctsvar/searcher"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent playing uniformly random legal moves
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) Name() string {
	return "Random"
}

func (a *randomAgent) FindMove(state game.State) (game.Move, metrics.SearchMetric, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return nil, metrics.SearchMetric{}, errors.Wrap(searcher.ErrNoMove, "no legal move")
	}
	return moves[a.rng.Intn(len(moves))], metrics.SearchMetric{Searcher: a.Name()}, nil
}
