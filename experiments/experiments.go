package experiments

import (
	"context"

	"mctsvar/engine"
	"mctsvar/experiments/metrics"
	"mctsvar/searcher"
	"mctsvar/searcher/agent"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type Report struct {
	Agents  []metrics.AgentRecord
	Games   []metrics.GameRecord
	Moves   []metrics.MoveRecord
	Summary []metrics.SummaryRecord
}

type job struct {
	id      int
	matchUp int
	seats   []int
}

type outcome struct {
	game  metrics.GameRecord
	moves []metrics.MoveRecord
}

// Run plays every game of the plan, up to plan.Concurrency at a time. The
// first failing game cancels the rest. Results are ordered by game id, so
// a plan with iteration budgets and unshared tables replays identically.
func Run(ctx context.Context, plan Plan) (Report, error) {
	if err := plan.Validate(); err != nil {
		return Report{}, err
	}

	jobs := schedule(plan)
	tables := map[int]searcher.Tables{}
	if plan.ShareTables {
		for _, a := range plan.Agents {
			tables[a.ID] = searcher.NewTables()
		}
	}

	log.Info().Msgf("starting %s experiment with %d games...", plan.Name, len(jobs))

	outcomes := make([]outcome, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(plan.Concurrency)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o, err := runGame(plan, j, tables)
			if err != nil {
				return errors.WithMessagef(err, "game %d", j.id)
			}
			outcomes[i] = o
			log.Info().Msgf("completed match up %d game %d of %d with winner: %d", j.matchUp, j.id, len(jobs), o.game.Winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	log.Info().Msgf("completed %s experiment", plan.Name)

	games := lo.Map(outcomes, func(o outcome, _ int) metrics.GameRecord { return o.game })
	return Report{
		Agents:  agentRecords(plan),
		Games:   games,
		Moves:   lo.Flatten(lo.Map(outcomes, func(o outcome, _ int) []metrics.MoveRecord { return o.moves })),
		Summary: Summarize(games),
	}, nil
}

// schedule rotates the seats of a match up by one player per game
func schedule(plan Plan) []job {
	var jobs []job
	for mi, matchUp := range plan.MatchUps {
		for g := 0; g < plan.Games; g++ {
			shift := g % len(matchUp)
			jobs = append(jobs, job{
				id:      len(jobs) + 1,
				matchUp: mi + 1,
				seats:   append(append([]int{}, matchUp[shift:]...), matchUp[:shift]...),
			})
		}
	}
	return jobs
}

func runGame(plan Plan, j job, tables map[int]searcher.Tables) (outcome, error) {
	state, err := NewState(plan.Game)
	if err != nil {
		return outcome{}, err
	}

	agents := make([]agent.Agent, len(j.seats))
	for seat, id := range j.seats {
		config, _ := plan.agent(id)
		seed := plan.Seed + uint64(j.id)*1000 + uint64(seat)*10
		if agents[seat], err = newAgent(config, tables[id], seed); err != nil {
			return outcome{}, err
		}
	}

	e, err := engine.NewLocal(state, agents)
	if err != nil {
		return outcome{}, err
	}
	gameMetric, moveMetrics, err := e.Run()
	if err != nil {
		return outcome{}, err
	}

	return outcome{
		game: metrics.GameRecord{
			ID:         j.id,
			MatchUp:    j.matchUp,
			Seats:      j.seats,
			GameMetric: gameMetric,
		},
		moves: lo.Map(moveMetrics, func(m metrics.MoveMetric, _ int) metrics.MoveRecord {
			return metrics.MoveRecord{Game: j.id, Agent: j.seats[m.Player-1], MoveMetric: m}
		}),
	}, nil
}

func agentRecords(plan Plan) []metrics.AgentRecord {
	return lo.Map(plan.Agents, func(c AgentConfig, _ int) metrics.AgentRecord {
		a, _ := newAgent(c, searcher.Tables{}, 0) // Validated
		record := metrics.AgentRecord{ID: c.ID, Kind: c.Kind, Name: a.Name()}
		if c.Kind != KindRandom {
			record.Config = c.Searcher.String()
			record.Duration = c.Duration
			record.Iterations = c.Iterations
			record.MaxDepth = c.MaxDepth
		}
		return record
	})
}

// Write stores the report as CSV files in a new directory under the plan's
// output directory and returns that directory.
func Write(plan Plan, report Report) (string, error) {
	writer, err := metrics.NewWriter(plan.Output, plan.Name)
	if err != nil {
		return "", err
	}
	if err := writer.WriteAgentConfigs(report.Agents); err != nil {
		return "", err
	}
	if err := writer.WriteGameRecords(report.Games); err != nil {
		return "", err
	}
	if err := writer.WriteMoveRecords(report.Moves); err != nil {
		return "", err
	}
	if err := writer.WriteSummaries(report.Summary); err != nil {
		return "", err
	}
	log.Info().Msgf("stored %s experiment records in %s", plan.Name, writer.Dir())
	return writer.Dir(), nil
}
