package searcher

import (
	"fmt"
	"math"

	"mctsvar/utils"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// FinalMove picks the root child to play once the search is over
type FinalMove interface {
	Name() string
	choose(t *tree, rng *rand.Rand) nodeID
}

// Robust child plays the most visited child
type robustChild struct{}

func NewRobustChild() FinalMove {
	return robustChild{}
}

func (robustChild) Name() string { return "Robust Child" }

func (robustChild) choose(t *tree, rng *rand.Rand) nodeID {
	children := t.node(root).children
	i := utils.ArgMax(children, func(c nodeID) float64 {
		return float64(t.node(c).visits)
	}, rng)
	return children[i]
}

// Max average plays the child with the best mean reward for the root player
type maxAvgScore struct{}

func NewMaxAvgScore() FinalMove {
	return maxAvgScore{}
}

func (maxAvgScore) Name() string { return "Max Average Score" }

func (maxAvgScore) choose(t *tree, rng *rand.Rand) nodeID {
	children := t.node(root).children
	i := utils.ArgMax(children, func(c nodeID) float64 {
		if t.node(c).visits == 0 {
			return math.Inf(-1)
		}
		return exploitation(t, root, c)
	}, rng)
	return children[i]
}

// DefaultTemperature of the proportional final move
const DefaultTemperature = 0.5

// Proportional samples a child with probability visits^(1/temperature)
type proportionalExp struct {
	temperature float64
}

func NewProportionalExp(temperature float64) (FinalMove, error) {
	if math.IsNaN(temperature) || temperature <= 0 || math.IsInf(temperature, 1) {
		return nil, configError("temperature %v must be positive and finite", temperature)
	}
	return &proportionalExp{temperature: temperature}, nil
}

func (f *proportionalExp) Name() string { return fmt.Sprintf("Proportional (t=%g)", f.temperature) }

func (f *proportionalExp) choose(t *tree, rng *rand.Rand) nodeID {
	children := t.node(root).children
	exponent := 1 / f.temperature
	weights := make([]float64, len(children))
	for i, c := range children {
		weights[i] = math.Pow(float64(t.node(c).visits), exponent)
	}
	total := floats.Sum(weights)
	if math.IsInf(total, 1) { // Overflow, the most visited children dominate anyway
		return robustChild{}.choose(t, rng)
	}
	return children[utils.Sample(weights, total, rng)]
}
