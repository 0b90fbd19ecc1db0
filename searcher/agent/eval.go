package agent

import (
	"context"

	"mctsvar/experiments/metrics"
	"mctsvar/game"
	"mctsvar/searcher"
)

type evaluationAgent struct {
	mcts   *searcher.MCTS
	budget searcher.Budget
}

// NewEvaluationAgent returns an agent for actual game play, it plays the move
// picked by the searcher's final move policy.
func NewEvaluationAgent(mcts *searcher.MCTS, budget searcher.Budget) Agent {
	return evaluationAgent{mcts: mcts, budget: budget}
}

func (a evaluationAgent) Name() string {
	return a.mcts.Name()
}

func (a evaluationAgent) FindMove(state game.State) (game.Move, metrics.SearchMetric, error) {
	result, err := a.mcts.Search(context.Background(), state, a.budget)
	if err != nil {
		return nil, result.Metric, err
	}
	return result.Move, result.Metric, nil
}
