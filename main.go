package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"mctsvar/experiments"
	"mctsvar/searcher"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	planPath := flag.String("plan", "", "Experiment plan (YAML), runs a single demo search if empty")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	throughput := flag.Int("throughput", 0, "Measure throughput over this many searches per agent instead of playing games")
	game := flag.String("game", "tictactoe", "Game of the demo search (tictactoe or nim)")
	iterations := flag.Int("iterations", 1000, "Iterations of the demo search, disabled if < 0")
	duration := flag.Duration("duration", 0, "Duration of the demo search, disabled if 0")
	dot := flag.String("dot", "", "Write the demo search tree in graphviz format to this file")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q\n", *logLevel)
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *planPath == "" {
		err = runDemo(ctx, *game, searcher.Budget{Duration: *duration, Iterations: *iterations}, *dot)
	} else {
		err = runPlan(ctx, *planPath, *throughput)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

func runPlan(ctx context.Context, path string, throughput int) error {
	plan, err := experiments.LoadPlan(path)
	if err != nil {
		return err
	}

	if throughput > 0 {
		results, err := experiments.MeasureThroughput(ctx, plan, throughput)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Printf("%d\t%s\t%.0f it/s ±%.0f\t%.1f nodes\n", r.Agent, r.Searcher, r.IterationsPerSecond, r.StdErr, r.MeanNodes)
		}
		return nil
	}

	report, err := experiments.Run(ctx, plan)
	if err != nil {
		return err
	}
	if _, err := experiments.Write(plan, report); err != nil {
		return err
	}
	for _, s := range report.Summary {
		fmt.Printf("match up %d agent %d: %d/%d wins, %d draws, utility %.3f ±%.3f\n",
			s.MatchUp, s.Agent, s.Wins, s.Games, s.Draws, s.MeanUtility, s.StdErr)
	}
	return nil
}

func runDemo(ctx context.Context, name string, budget searcher.Budget, dotPath string) error {
	state, err := experiments.NewState(experiments.GameConfig{Name: name, Heap: 21, MaxTake: 3, Players: 2})
	if err != nil {
		return err
	}

	options := []searcher.Option{searcher.WithMetrics()}
	if dotPath != "" {
		options = append(options, searcher.WithTreeRetention())
	}
	mcts := searcher.New(options...)
	result, err := mcts.Search(ctx, state, budget)
	if err != nil {
		return err
	}
	for _, c := range result.Children {
		fmt.Printf("%v\tN=%d\tQ=%.3f\n", c.Move, c.Visits, c.Mean)
	}
	fmt.Printf("%s plays %v after %d iterations\n", mcts.Name(), result.Move, result.Metric.Iterations)

	if dotPath != "" {
		return os.WriteFile(dotPath, []byte(mcts.ToDot(1)), 0644)
	}
	return nil
}
