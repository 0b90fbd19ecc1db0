package experiments

import (
	"os"
	"time"

	"mctsvar/game"
	"mctsvar/game/nim"
	"mctsvar/game/tictactoe"
	"mctsvar/meta"
	"mctsvar/searcher"
	"mctsvar/searcher/agent"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

var ErrPlan = errors.New("invalid experiment plan")

const (
	KindMCTS     = "mcts"
	KindTraining = "training"
	KindRandom   = "random"
)

type GameConfig struct {
	Name    string `yaml:"name"` // tictactoe or nim
	Heap    int    `yaml:"heap"`
	MaxTake int    `yaml:"max_take"`
	Players int    `yaml:"players"`
}

type AgentConfig struct {
	ID          int             `yaml:"id"`
	Kind        string          `yaml:"kind"`
	Searcher    searcher.Config `yaml:"searcher"`
	Duration    time.Duration   `yaml:"duration"`   // Per move, disabled if <= 0
	Iterations  int             `yaml:"iterations"` // Per move, disabled if < 0
	MaxDepth    int             `yaml:"max_depth"`
	Temperature float64         `yaml:"temperature"` // Training agents only
}

// Plan describes an experiment: every match up plays Games games, rotating
// the seats between games so each agent gets to start.
type Plan struct {
	Name        string        `yaml:"name"`
	Game        GameConfig    `yaml:"game"`
	Games       int           `yaml:"games"` // Per match up
	Seed        uint64        `yaml:"seed"`
	Concurrency int           `yaml:"concurrency"`
	ShareTables bool          `yaml:"share_tables"` // Across the games of an agent
	Output      string        `yaml:"output"`
	Agents      []AgentConfig `yaml:"agents"`
	MatchUps    [][]int       `yaml:"match_ups"` // Agent IDs, one per player
}

func DefaultGameConfig() GameConfig {
	return GameConfig{Name: "tictactoe", Heap: 21, MaxTake: 3, Players: 2}
}

func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Kind:        KindMCTS,
		Searcher:    searcher.DefaultConfig(),
		Iterations:  meta.ITERATIONS,
		Temperature: 1,
	}
}

func DefaultPlan() Plan {
	return Plan{
		Name:        "experiment",
		Game:        DefaultGameConfig(),
		Games:       10,
		Seed:        1,
		Concurrency: meta.GO_ROUTINES,
		Output:      "experiments",
	}
}

// UnmarshalYAML fills the fields missing from the document with defaults
func (c *AgentConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain AgentConfig
	p := plain(DefaultAgentConfig())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = AgentConfig(p)
	return nil
}

func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, errors.Wrap(err, "reading plan")
	}
	return ParsePlan(data)
}

// ParsePlan reads a YAML plan on top of the defaults and validates it
func ParsePlan(data []byte) (Plan, error) {
	p := DefaultPlan()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Plan{}, errors.Wrapf(ErrPlan, "parsing plan: %v", err)
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

func (p Plan) Validate() error {
	if p.Games < 1 {
		return errors.Wrapf(ErrPlan, "games must be positive, got %d", p.Games)
	}
	if p.Concurrency < 1 {
		return errors.Wrapf(ErrPlan, "concurrency must be positive, got %d", p.Concurrency)
	}
	state, err := NewState(p.Game)
	if err != nil {
		return err
	}
	if len(p.Agents) == 0 || len(p.MatchUps) == 0 {
		return errors.Wrap(ErrPlan, "no agents or match ups")
	}
	if dup := lo.FindDuplicatesBy(p.Agents, func(a AgentConfig) int { return a.ID }); len(dup) > 0 {
		return errors.Wrapf(ErrPlan, "duplicate agent id %d", dup[0].ID)
	}
	for _, a := range p.Agents {
		if _, err := newAgent(a, searcher.Tables{}, 0); err != nil {
			return errors.WithMessagef(err, "agent %d", a.ID)
		}
	}
	for i, m := range p.MatchUps {
		if len(m) != state.NumPlayers() {
			return errors.Wrapf(ErrPlan, "match up %d seats %d agents for %d players", i+1, len(m), state.NumPlayers())
		}
		for _, id := range m {
			if _, ok := p.agent(id); !ok {
				return errors.Wrapf(ErrPlan, "match up %d names unknown agent %d", i+1, id)
			}
		}
	}
	return nil
}

func (p Plan) agent(id int) (AgentConfig, bool) {
	return lo.Find(p.Agents, func(a AgentConfig) bool { return a.ID == id })
}

// NewState returns the initial state of the configured game
func NewState(c GameConfig) (game.State, error) {
	switch c.Name {
	case "tictactoe":
		return tictactoe.New(), nil
	case "nim":
		if c.Heap < 1 || c.MaxTake < 1 || c.Players < 1 {
			return nil, errors.Wrapf(ErrPlan, "invalid nim game %+v", c)
		}
		return nim.New(c.Heap, c.MaxTake, c.Players), nil
	default:
		return nil, errors.Wrapf(ErrPlan, "unknown game %q", c.Name)
	}
}

func (c AgentConfig) budget() searcher.Budget {
	return searcher.Budget{Duration: c.Duration, Iterations: c.Iterations, MaxDepth: c.MaxDepth}
}

func newAgent(c AgentConfig, tables searcher.Tables, seed uint64) (agent.Agent, error) {
	switch c.Kind {
	case KindRandom:
		return agent.NewRandomAgent(seed), nil
	case KindMCTS, KindTraining:
		mcts, err := searcher.NewFromConfig(c.Searcher, searcher.WithSeed(seed), searcher.WithTables(tables), searcher.WithMetrics())
		if err != nil {
			return nil, err
		}
		if c.Kind == KindTraining {
			return agent.NewTrainingAgent(mcts, c.budget(), c.Temperature, seed+1)
		}
		return agent.NewEvaluationAgent(mcts, c.budget()), nil
	default:
		return nil, errors.Wrapf(ErrPlan, "unknown agent kind %q", c.Kind)
	}
}
