package searcher

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"mctsvar/experiments/metrics"
	"mctsvar/game"
	"mctsvar/meta"
	"mctsvar/searcher/tables"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// Tables are the playout statistics a searcher shares with others. Nil
// tables are created on demand by the policies that use them.
type Tables struct {
	MAST *tables.MoveAverage
	LGR  *tables.LastGoodReply
}

func NewTables() Tables {
	return Tables{MAST: tables.NewMoveAverage(), LGR: tables.NewLastGoodReply()}
}

// Reset clears both tables, meant for the start of a run
func (t Tables) Reset() {
	if t.MAST != nil {
		t.MAST.Reset()
	}
	if t.LGR != nil {
		t.LGR.Reset()
	}
}

// Budget bounds a search. A search stops at the first bound reached.
type Budget struct {
	Duration   time.Duration // Disabled if <= 0
	Iterations int           // Disabled if < 0
	MaxDepth   int           // Playout ceiling, meta.MAX_PLAYOUT_DEPTH if <= 0
}

type ChildStats struct {
	Move   game.Move
	Visits int
	Mean   float64 // For the player to move at the root
}

type Result struct {
	Move     game.Move
	Children []ChildStats
	Metric   metrics.SearchMetric
}

// MCTS is a Monte Carlo tree search assembled from a selection, simulation,
// backpropagation and final move policy. Policies are fixed once built.
// A searcher runs one search at a time, concurrent searches need their own
// searcher but may share Tables.
type MCTS struct {
	selection   Selection
	simulation  Simulation
	backprop    Backpropagation
	finalMove   FinalMove
	rng         *rand.Rand
	tables      Tables
	metrics     metrics.Collector
	interrupted atomic.Bool
	retainTree  bool
	last        *tree // Only with WithTreeRetention
}

func WithSelection(s Selection) Option {
	return func(m *MCTS) {
		if s != nil {
			m.selection = s
		}
	}
}

func WithSimulation(s Simulation) Option {
	return func(m *MCTS) {
		if s != nil {
			m.simulation = s
		}
	}
}

func WithBackpropagation(b Backpropagation) Option {
	return func(m *MCTS) {
		if b != nil {
			m.backprop = b
		}
	}
}

func WithFinalMove(f FinalMove) Option {
	return func(m *MCTS) {
		if f != nil {
			m.finalMove = f
		}
	}
}

// WithSeed fixes the random source of every choice the searcher makes
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

// WithTables shares playout statistics, only used by NewFromConfig
func WithTables(t Tables) Option {
	return func(m *MCTS) {
		m.tables = t
	}
}

// WithTreeRetention keeps the tree of the last search for ToDot. Without it
// the tree is dropped when a search returns.
func WithTreeRetention() Option {
	return func(m *MCTS) {
		m.retainTree = true
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func New(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		selection:  &ucb1{c: DefaultExploration},
		simulation: NewRandomSimulation(),
		backprop:   NewStandardBackprop(),
		finalMove:  NewRobustChild(),
		rng:        rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// NewFromConfig resolves the policies named by c. Unknown names and out of
// range parameters fail with ErrConfig.
func NewFromConfig(c Config, options ...Option) (*MCTS, error) {
	m := New(options...)

	var err error
	if m.selection, err = resolve("selection", c.Selection, selections, c, m.tables); err != nil {
		return nil, err
	}
	if m.simulation, err = resolve("simulation", c.Simulation, simulations, c, m.tables); err != nil {
		return nil, err
	}
	if m.backprop, err = resolve("backpropagation", c.Backpropagation, backpropagations, c, m.tables); err != nil {
		return nil, err
	}
	if m.finalMove, err = resolve("final move", c.FinalMove, finalMoves, c, m.tables); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MCTS) Name() string {
	return fmt.Sprintf("MCTS [%s | %s | %s | %s]", m.selection.Name(), m.simulation.Name(), m.backprop.Name(), m.finalMove.Name())
}

// Interrupt asks the running search to stop before its next iteration. An
// interrupt raised while no search runs stops the next one right away.
func (m *MCTS) Interrupt() {
	m.interrupted.Store(true)
}

// SelectMove searches from state for at most maxSeconds (disabled if <= 0)
// and maxIterations (disabled if < 0), with playouts capped at maxDepth moves.
func (m *MCTS) SelectMove(state game.State, maxSeconds float64, maxIterations, maxDepth int) (game.Move, error) {
	result, err := m.Search(context.Background(), state, newBudget(maxSeconds, maxIterations, maxDepth))
	if err != nil {
		return nil, err
	}
	return result.Move, nil
}

// Search builds a fresh tree from state and iterates until the budget runs
// out, Interrupt is called or ctx is done. Stop conditions are only checked
// between iterations.
func (m *MCTS) Search(ctx context.Context, state game.State, budget Budget) (Result, error) {
	defer m.interrupted.Store(false)

	maxDepth := budget.MaxDepth
	if maxDepth <= 0 {
		maxDepth = meta.MAX_PLAYOUT_DEPTH
	}

	m.last = nil
	t, err := newTree(state)
	if err != nil {
		return Result{}, err
	}
	if m.retainTree {
		m.last = t
	}
	if t.node(root).terminal {
		return Result{}, errors.Wrap(ErrNoMove, "state is terminal")
	}

	m.metrics.Start(m.Name(), maxDepth)
	start := time.Now()
	for iterations := 0; ; iterations++ {
		if budget.Iterations >= 0 && iterations >= budget.Iterations {
			break
		}
		if budget.Duration > 0 && time.Since(start) >= budget.Duration {
			break
		}
		if m.interrupted.Load() || ctx.Err() != nil {
			m.metrics.SetInterrupted()
			break
		}

		if err := m.iterate(t, maxDepth); err != nil {
			return Result{}, errors.WithMessagef(err, "iteration %d", iterations+1)
		}
		m.metrics.AddIteration()
	}
	m.metrics.SetNodes(t.size())
	metric := m.metrics.Complete()

	r := t.node(root)
	log.Debug().Msgf("%s searched %d iterations over %d nodes in %v", m.Name(), r.visits, t.size(), time.Since(start))

	if len(r.children) == 0 {
		return Result{Metric: metric}, errors.Wrap(ErrNoMove, "no child expanded within the budget")
	}
	best := m.finalMove.choose(t, m.rng)
	return Result{
		Move:     t.node(best).move,
		Children: rootStats(t),
		Metric:   metric,
	}, nil
}

// iterate runs selection, simulation and backpropagation once. A panic from
// the game aborts the search rather than leave a half updated tree in use.
func (m *MCTS) iterate(t *tree, maxDepth int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrOracleFailure, "%v", r)
		}
	}()

	leaf, err := selectLeaf(t, m.selection, m.rng)
	if err != nil {
		return err
	}

	n := t.node(leaf)
	var previous *Step
	if n.move != nil {
		previous = &Step{Move: n.move, Player: t.mover(leaf)}
	}
	playout, err := m.simulation.Playout(n.state, previous, maxDepth, m.rng)
	if err != nil {
		return err
	}
	if len(playout.Utilities) != t.players+1 {
		return errors.Wrapf(ErrOracleInconsistent, "got %d utilities for %d players", len(playout.Utilities), t.players)
	}
	if playout.Truncated {
		m.metrics.AddTruncatedPlayout()
	} else {
		m.metrics.AddFullPlayout()
	}

	m.backprop.update(t, leaf, playout.Utilities, playout.Truncated)
	return nil
}

// newBudget converts a budget in seconds. Any positive maxSeconds keeps a
// time bound, even below a nanosecond.
func newBudget(maxSeconds float64, maxIterations, maxDepth int) Budget {
	var d time.Duration
	if maxSeconds > 0 {
		d = max(1, time.Duration(maxSeconds*float64(time.Second)))
	}
	return Budget{Duration: d, Iterations: maxIterations, MaxDepth: maxDepth}
}

func rootStats(t *tree) []ChildStats {
	r := t.node(root)
	stats := make([]ChildStats, 0, len(r.children))
	for _, c := range r.children {
		child := t.node(c)
		stats = append(stats, ChildStats{
			Move:   child.move,
			Visits: child.visits,
			Mean:   child.mean(r.player),
		})
	}
	return stats
}
