package experiments

import (
	"context"

	"mctsvar/searcher"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

type Throughput struct {
	Agent                int
	Searcher             string
	Searches             int
	IterationsPerSecond  float64
	StdErr               float64
	MeanNodes            float64
	TruncatedPlayoutRate float64
}

// MeasureThroughput runs searches searches from the plan's initial state for
// every searching agent, one search at a time so timings do not interfere.
func MeasureThroughput(ctx context.Context, plan Plan, searches int) ([]Throughput, error) {
	if searches < 1 {
		return nil, errors.Wrapf(ErrPlan, "searches must be positive, got %d", searches)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	state, err := NewState(plan.Game)
	if err != nil {
		return nil, err
	}

	searching := lo.Filter(plan.Agents, func(a AgentConfig, _ int) bool { return a.Kind != KindRandom })
	log.Info().Msgf("starting throughput experiment over %d agents...", len(searching))

	var results []Throughput
	for _, config := range searching {
		mcts, err := searcher.NewFromConfig(config.Searcher, searcher.WithSeed(plan.Seed), searcher.WithMetrics())
		if err != nil {
			return nil, errors.WithMessagef(err, "agent %d", config.ID)
		}

		rates := make([]float64, 0, searches)
		nodes := make([]float64, 0, searches)
		var playouts, truncated int
		for i := 0; i < searches; i++ {
			result, err := mcts.Search(ctx, state, config.budget())
			if err != nil {
				return nil, errors.WithMessagef(err, "agent %d search %d", config.ID, i+1)
			}
			m := result.Metric
			if seconds := m.Duration.Seconds(); seconds > 0 {
				rates = append(rates, float64(m.Iterations)/seconds)
			}
			nodes = append(nodes, float64(m.Nodes))
			playouts += m.FullPlayouts + m.TruncatedPlayouts
			truncated += m.TruncatedPlayouts
		}

		t := Throughput{Agent: config.ID, Searcher: mcts.Name(), Searches: searches, MeanNodes: stat.Mean(nodes, nil)}
		t.IterationsPerSecond, t.StdErr = meanStdErr(rates)
		if playouts > 0 {
			t.TruncatedPlayoutRate = float64(truncated) / float64(playouts)
		}
		log.Info().Msgf("agent %d: %.0f iterations/s (±%.0f) over %.1f nodes", t.Agent, t.IterationsPerSecond, t.StdErr, t.MeanNodes)
		results = append(results, t)
	}
	return results, nil
}
