package searcher

import (
	"fmt"
	"math"

	"mctsvar/game"
	"mctsvar/meta"
	"mctsvar/searcher/tables"
	"mctsvar/utils"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// Step is a move together with the player who made it
type Step struct {
	Move   game.Move
	Player int
}

type Playout struct {
	Steps     []Step
	Utilities []float64
	Truncated bool // Cut off by the depth ceiling and scored by evaluation
}

// Simulation plays a position out to the end of the game.
type Simulation interface {
	Name() string
	// Playout plays from state until it is terminal or maxDepth moves were
	// made. previous is the move that led to state, nil at the root.
	Playout(state game.State, previous *Step, maxDepth int, rng *rand.Rand) (Playout, error)
}

type chooser func(state game.State, moves []game.Move, previous *Step, rng *rand.Rand) game.Move

// play runs the shared playout loop with a policy specific move choice
func play(state game.State, previous *Step, maxDepth int, rng *rand.Rand, choose chooser) (Playout, error) {
	if maxDepth <= 0 {
		maxDepth = meta.MAX_PLAYOUT_DEPTH
	}

	steps := []Step{}
	for !state.IsTerminal() {
		if len(steps) >= maxDepth {
			return Playout{Steps: steps, Utilities: game.Evaluate(state), Truncated: true}, nil
		}

		moves := state.LegalMoves()
		if len(moves) == 0 {
			return Playout{}, errors.Wrapf(ErrOracleInconsistent, "non-terminal state reports no legal moves %d moves into a playout", len(steps))
		}
		step := Step{Move: choose(state, moves, previous, rng), Player: state.Player()}
		state = state.Play(step.Move)
		steps = append(steps, step)
		previous = &step
	}
	return Playout{Steps: steps, Utilities: state.Utilities()}, nil
}

func uniform(_ game.State, moves []game.Move, _ *Step, rng *rand.Rand) game.Move {
	return moves[rng.Intn(len(moves))]
}

type randomSimulation struct{}

func NewRandomSimulation() Simulation {
	return randomSimulation{}
}

func (randomSimulation) Name() string { return "Random" }

func (randomSimulation) Playout(state game.State, previous *Step, maxDepth int, rng *rand.Rand) (Playout, error) {
	return play(state, previous, maxDepth, rng, uniform)
}

// MAST plays the move with the best average reward in the shared table, or a
// uniformly random move with probability epsilon. Every move of a playout is
// then credited with the reward of its mover.
type mast struct {
	epsilon float64
	table   *tables.MoveAverage
}

// NewMAST builds a MAST policy over table, a fresh table if nil
func NewMAST(epsilon float64, table *tables.MoveAverage) (Simulation, error) {
	if math.IsNaN(epsilon) || epsilon < 0 || epsilon > 1 {
		return nil, configError("MAST epsilon %v outside [0, 1]", epsilon)
	}
	if table == nil {
		table = tables.NewMoveAverage()
	}
	return &mast{epsilon: epsilon, table: table}, nil
}

func (s *mast) Name() string { return fmt.Sprintf("MAST (e=%g)", s.epsilon) }

func (s *mast) Playout(state game.State, previous *Step, maxDepth int, rng *rand.Rand) (Playout, error) {
	playout, err := play(state, previous, maxDepth, rng, s.choose)
	if err != nil {
		return Playout{}, err
	}
	s.credit(playout.Steps, playout.Utilities)
	return playout, nil
}

func (s *mast) choose(state game.State, moves []game.Move, previous *Step, rng *rand.Rand) game.Move {
	if rng.Float64() < s.epsilon {
		return uniform(state, moves, previous, rng)
	}
	i := utils.ArgMax(moves, func(m game.Move) float64 {
		return s.table.Mean(m.Signature())
	}, rng)
	return moves[i]
}

func (s *mast) credit(steps []Step, utilities []float64) {
	for _, step := range steps {
		s.table.Credit(step.Move.Signature(), utilities[step.Player])
	}
}

// DefaultReplyThreshold is the utility a reply must exceed to be remembered
const DefaultReplyThreshold = 0.5

// Last good reply answers the opponent's previous move with the reply stored
// for it if that reply is legal, and plays uniformly at random otherwise.
type lgr struct {
	threshold float64
	decay     float64
	table     *tables.LastGoodReply
}

// NewLGR builds a last good reply policy over table, a fresh table if nil.
// decay in (0, 1] scales every stored score before each update, 1 keeps them.
func NewLGR(threshold, decay float64, table *tables.LastGoodReply) (Simulation, error) {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return nil, configError("reply threshold %v must be finite", threshold)
	}
	if math.IsNaN(decay) || decay <= 0 || decay > 1 {
		return nil, configError("reply decay %v outside (0, 1]", decay)
	}
	if table == nil {
		table = tables.NewLastGoodReply()
	}
	return &lgr{threshold: threshold, decay: decay, table: table}, nil
}

func (s *lgr) Name() string { return "Last Good Reply" }

func (s *lgr) Playout(state game.State, previous *Step, maxDepth int, rng *rand.Rand) (Playout, error) {
	playout, err := play(state, previous, maxDepth, rng, s.choose)
	if err != nil {
		return Playout{}, err
	}

	sequence := playout.Steps
	if previous != nil {
		sequence = append([]Step{*previous}, playout.Steps...)
	}
	s.update(sequence, playout.Utilities)
	return playout, nil
}

func (s *lgr) choose(state game.State, moves []game.Move, previous *Step, rng *rand.Rand) game.Move {
	if previous == nil || previous.Player == state.Player() {
		return uniform(state, moves, previous, rng)
	}
	reply, ok := s.table.Lookup(previous.Move.Signature())
	if !ok {
		return uniform(state, moves, previous, rng)
	}
	want := reply.Move.Signature()
	for _, m := range moves {
		if m.Signature() == want {
			return m
		}
	}
	return uniform(state, moves, previous, rng)
}

// update remembers every reply to an opponent move whose mover got more than
// the threshold, if it beats the reply already stored
func (s *lgr) update(sequence []Step, utilities []float64) {
	s.table.Decay(s.decay)
	for i := 1; i < len(sequence); i++ {
		opponent, reply := sequence[i-1], sequence[i]
		if opponent.Player == reply.Player {
			continue
		}
		if u := utilities[reply.Player]; u > s.threshold {
			s.table.Offer(opponent.Move.Signature(), reply.Move, u)
		}
	}
}
