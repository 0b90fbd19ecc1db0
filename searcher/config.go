package searcher

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config names the policies of a searcher and their parameters. Parameters
// of policies that are not selected are ignored.
type Config struct {
	Selection       string `yaml:"selection"`
	Simulation      string `yaml:"simulation"`
	Backpropagation string `yaml:"backpropagation"`
	FinalMove       string `yaml:"final_move"`

	Exploration   float64 `yaml:"exploration"`    // UCB family C
	Urgency       float64 `yaml:"urgency"`        // First play urgency
	BiasWeight    float64 `yaml:"bias_weight"`    // Progressive bias W
	MinimaxWeight float64 `yaml:"minimax_weight"` // Implicit minimax selection w
	BoundConstant float64 `yaml:"bound_constant"` // Alpha-beta C

	Epsilon        float64 `yaml:"epsilon"`         // MAST exploration
	ReplyThreshold float64 `yaml:"reply_threshold"` // LGR
	ReplyDecay     float64 `yaml:"reply_decay"`     // LGR

	Decay               float64 `yaml:"decay"`
	BoundThreshold      float64 `yaml:"bound_threshold"`
	BoundWeight         float64 `yaml:"bound_weight"`
	ProvenBounds        bool    `yaml:"proven_bounds"`
	BackupMinimaxWeight float64 `yaml:"backup_minimax_weight"`

	Temperature float64 `yaml:"temperature"`
}

func DefaultConfig() Config {
	return Config{
		Selection:           "ucb1",
		Simulation:          "random",
		Backpropagation:     "standard",
		FinalMove:           "robust",
		Exploration:         DefaultExploration,
		Urgency:             0.5,
		BiasWeight:          1,
		MinimaxWeight:       0.5,
		BoundConstant:       DefaultExploration,
		Epsilon:             0.1,
		ReplyThreshold:      DefaultReplyThreshold,
		ReplyDecay:          1,
		Decay:               DefaultDecay,
		BoundThreshold:      DefaultBoundThreshold,
		BoundWeight:         DefaultBoundWeight,
		BackupMinimaxWeight: DefaultMinimaxWeight,
		Temperature:         DefaultTemperature,
	}
}

// ParseConfig reads a YAML document on top of the defaults
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, configError("parsing config: %v", err)
	}
	return c, nil
}

func (c Config) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", c.Selection, c.Simulation, c.Backpropagation, c.FinalMove)
}

var selections = map[string]func(Config, Tables) (Selection, error){
	"ucb1": func(c Config, _ Tables) (Selection, error) {
		return NewUCB1(c.Exploration)
	},
	"ucb1-tuned": func(Config, Tables) (Selection, error) {
		return NewUCB1Tuned(), nil
	},
	"fpu": func(c Config, _ Tables) (Selection, error) {
		return NewFPU(c.Exploration, c.Urgency)
	},
	"flat-ucb": func(c Config, _ Tables) (Selection, error) {
		return NewFlatUCB(c.Exploration)
	},
	"progressive-bias": func(c Config, _ Tables) (Selection, error) {
		return NewProgressiveBias(c.Exploration, c.BiasWeight)
	},
	"implicit-minimax": func(c Config, _ Tables) (Selection, error) {
		return NewImplicitMinimaxSelection(c.Exploration, c.MinimaxWeight)
	},
	"alpha-beta": func(c Config, _ Tables) (Selection, error) {
		return NewAlphaBeta(c.Exploration, c.BoundConstant)
	},
}

var simulations = map[string]func(Config, Tables) (Simulation, error){
	"random": func(Config, Tables) (Simulation, error) {
		return NewRandomSimulation(), nil
	},
	"mast": func(c Config, t Tables) (Simulation, error) {
		return NewMAST(c.Epsilon, t.MAST)
	},
	"lgr": func(c Config, t Tables) (Simulation, error) {
		return NewLGR(c.ReplyThreshold, c.ReplyDecay, t.LGR)
	},
}

var backpropagations = map[string]func(Config, Tables) (Backpropagation, error){
	"standard": func(Config, Tables) (Backpropagation, error) {
		return NewStandardBackprop(), nil
	},
	"decaying": func(c Config, _ Tables) (Backpropagation, error) {
		return NewDecayingBackprop(c.Decay)
	},
	"score-bounded": func(c Config, _ Tables) (Backpropagation, error) {
		return NewScoreBoundedBackprop(c.BoundThreshold, c.BoundWeight, c.ProvenBounds)
	},
	"implicit-minimax": func(c Config, _ Tables) (Backpropagation, error) {
		return NewImplicitMinimaxBackprop(c.BackupMinimaxWeight)
	},
}

var finalMoves = map[string]func(Config, Tables) (FinalMove, error){
	"robust": func(Config, Tables) (FinalMove, error) {
		return NewRobustChild(), nil
	},
	"max-avg": func(Config, Tables) (FinalMove, error) {
		return NewMaxAvgScore(), nil
	},
	"proportional-exp": func(c Config, _ Tables) (FinalMove, error) {
		return NewProportionalExp(c.Temperature)
	},
}

func resolve[T any](family, name string, registry map[string]func(Config, Tables) (T, error), c Config, t Tables) (T, error) {
	build, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		var zero T
		return zero, configError("unknown %s policy %q, expected one of %s", family, name, strings.Join(names(registry), ", "))
	}
	return build(c, t)
}

func names[T any](registry map[string]T) []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
