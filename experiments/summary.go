package experiments

import (
	"math"
	"sort"

	"mctsvar/experiments/metrics"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

type seat struct {
	matchUp int
	agent   int
}

// Summarize aggregates game records per match up and agent: wins, draws
// and the mean utility with its standard error. An agent seated more than
// once in a game counts once per seat.
func Summarize(games []metrics.GameRecord) []metrics.SummaryRecord {
	utilities := map[seat][]float64{}
	summaries := map[seat]*metrics.SummaryRecord{}
	for _, g := range games {
		for i, id := range g.Seats {
			player := i + 1
			key := seat{matchUp: g.MatchUp, agent: id}
			s, ok := summaries[key]
			if !ok {
				s = &metrics.SummaryRecord{MatchUp: g.MatchUp, Agent: id}
				summaries[key] = s
			}
			s.Games++
			switch g.Winner {
			case player:
				s.Wins++
			case 0:
				s.Draws++
			}
			if player < len(g.Utilities) {
				utilities[key] = append(utilities[key], g.Utilities[player])
			}
		}
	}

	keys := lo.Keys(summaries)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].matchUp != keys[j].matchUp {
			return keys[i].matchUp < keys[j].matchUp
		}
		return keys[i].agent < keys[j].agent
	})
	return lo.Map(keys, func(key seat, _ int) metrics.SummaryRecord {
		s := *summaries[key]
		s.MeanUtility, s.StdErr = meanStdErr(utilities[key])
		return s
	})
}

func meanStdErr(xs []float64) (float64, float64) {
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return xs[0], 0
	}
	mean, std := stat.MeanStdDev(xs, nil)
	return mean, std / math.Sqrt(float64(len(xs)))
}
