package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Searcher          string
	Duration          time.Duration
	Iterations        int
	FullPlayouts      int
	TruncatedPlayouts int
	Nodes             int
	PlayoutCeiling    int
	Interrupted       bool
}

type MoveMetric struct {
	Step   int
	Player int
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int
	Winner         int // 0 for a draw or an unfinished game
	Utilities      []float64
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(searcher string, playoutCeiling int)
	AddIteration()
	AddFullPlayout()
	AddTruncatedPlayout()
	SetNodes(n int)
	SetInterrupted()
	Complete() SearchMetric
}

type collector struct {
	searcher          string
	playoutCeiling    int
	startTime         time.Time
	iterations        atomic.Int32
	fullPlayouts      atomic.Int32
	truncatedPlayouts atomic.Int32
	nodes             atomic.Int32
	interrupted       atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(searcher string, playoutCeiling int) {
	m.startTime = time.Now()
	m.searcher = searcher
	m.playoutCeiling = playoutCeiling
	m.iterations.Store(0)
	m.fullPlayouts.Store(0)
	m.truncatedPlayouts.Store(0)
	m.nodes.Store(0)
	m.interrupted.Store(false)
}

func (m *collector) AddIteration() {
	m.iterations.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddTruncatedPlayout() {
	m.truncatedPlayouts.Add(1)
}

func (m *collector) SetNodes(n int) {
	m.nodes.Store(int32(n))
}

func (m *collector) SetInterrupted() {
	m.interrupted.Store(true)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Searcher:          m.searcher,
		Duration:          time.Since(m.startTime),
		Iterations:        int(m.iterations.Load()),
		FullPlayouts:      int(m.fullPlayouts.Load()),
		TruncatedPlayouts: int(m.truncatedPlayouts.Load()),
		Nodes:             int(m.nodes.Load()),
		PlayoutCeiling:    m.playoutCeiling,
		Interrupted:       m.interrupted.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(searcher string, playoutCeiling int) {}
func (m *dummyCollector) AddIteration()                             {}
func (m *dummyCollector) AddFullPlayout()                           {}
func (m *dummyCollector) AddTruncatedPlayout()                      {}
func (m *dummyCollector) SetNodes(n int)                            {}
func (m *dummyCollector) SetInterrupted()                           {}
func (m *dummyCollector) Complete() SearchMetric                    { return SearchMetric{} }
