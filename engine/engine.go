package engine

import "mctsvar/experiments/metrics"

type Engine interface {
	// Run plays a game till it is over or a max number of turns is reached
	Run() (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
