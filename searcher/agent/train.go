package agent

import (
	"context"
	"fmt"
	"math"

	"mctsvar/experiments/metrics"
	"mctsvar/game"
	"mctsvar/searcher"
	"mctsvar/utils"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

type trainingAgent struct {
	mcts        *searcher.MCTS
	budget      searcher.Budget
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns an agent for self-play. It searches like an
// evaluation agent but samples its move from the root visit counts
// sharpened by 1/temperature, so repeated games explore different lines.
func NewTrainingAgent(mcts *searcher.MCTS, budget searcher.Budget, temperature float64, seed uint64) (Agent, error) {
	if !(temperature > 0) || math.IsInf(temperature, 1) {
		return nil, errors.Wrapf(searcher.ErrConfig, "temperature must be positive, got %v", temperature)
	}
	return &trainingAgent{
		mcts:        mcts,
		budget:      budget,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}, nil
}

func (a *trainingAgent) Name() string {
	return fmt.Sprintf("Training (t=%g) %s", a.temperature, a.mcts.Name())
}

func (a *trainingAgent) FindMove(state game.State) (game.Move, metrics.SearchMetric, error) {
	result, err := a.mcts.Search(context.Background(), state, a.budget)
	if err != nil {
		return nil, result.Metric, err
	}
	policy := adjustTemperature(result.Children, a.temperature)
	i := utils.Sample(policy, floats.Sum(policy), a.rng)
	return result.Children[i].Move, result.Metric, nil
}

func adjustTemperature(children []searcher.ChildStats, temperature float64) []float64 {
	exponent := 1 / temperature
	return lo.Map(children, func(c searcher.ChildStats, _ int) float64 {
		return math.Pow(float64(c.Visits), exponent)
	})
}
