package engine

import (
	"time"

	"mctsvar/experiments/metrics"
	"mctsvar/game"
	"mctsvar/meta"
	"mctsvar/searcher/agent"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Local struct {
	State    game.State
	Agents   []agent.Agent // Agents[p-1] plays for player p
	MaxTurns int
}

// NewLocal seats one agent per player of state. Games not over after
// meta.MAX_TURNS turns are abandoned.
func NewLocal(state game.State, agents []agent.Agent) (*Local, error) {
	if len(agents) != state.NumPlayers() {
		return nil, errors.Errorf("got %d agents for %d players", len(agents), state.NumPlayers())
	}
	return &Local{State: state, Agents: agents, MaxTurns: meta.MAX_TURNS}, nil
}

// Run plays the game to the end. An abandoned game scores every player
// neutrally and has no winner.
func (e *Local) Run() (metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.State.Player(),
		StartTime:      time.Now(),
	}
	log.Debug().Msgf("player %d is starting", gameMetric.StartingPlayer)

	var moveMetrics []metrics.MoveMetric
	turn := 1
	for ; !e.State.IsTerminal() && turn <= e.MaxTurns; turn++ {
		player := e.State.Player()
		a := e.Agents[player-1]

		move, searchMetric, err := a.FindMove(e.State)
		if err != nil {
			return gameMetric, moveMetrics, errors.WithMessagef(err, "turn %d, player %d (%s)", turn, player, a.Name())
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turn,
			Player:       player,
			SearchMetric: searchMetric,
		})

		move = legalize(e.State, move)
		e.State = e.State.Play(move)
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = turn - 1
	if e.State.IsTerminal() {
		gameMetric.Utilities = e.State.Utilities()
		gameMetric.Winner = game.Winner(gameMetric.Utilities)
	} else {
		log.Warn().Msgf("stopped after %d turns without a result", e.MaxTurns)
		gameMetric.Utilities = game.Neutral(e.State.NumPlayers())
	}
	return gameMetric, moveMetrics, nil
}

// legalize maps move onto the state's own legal move with the same
// signature, falling back to the first legal move if there is none.
func legalize(state game.State, move game.Move) game.Move {
	legal := state.LegalMoves()
	for _, m := range legal {
		if game.SameMove(m, move) {
			return m
		}
	}
	log.Warn().Msgf("agent returned illegal move %v, forcing %v", move, legal[0])
	return legal[0]
}
