package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type AgentRecord struct {
	ID         int
	Kind       string
	Name       string
	Config     string
	Duration   time.Duration
	Iterations int
	MaxDepth   int
}

type GameRecord struct {
	ID      int
	MatchUp int
	Seats   []int // Seats[p-1] is the AgentRecord.ID playing for player p
	GameMetric
}

type MoveRecord struct {
	Game  int // GameRecord.ID
	Agent int // AgentRecord.ID
	MoveMetric
}

// SummaryRecord aggregates the games of one agent within a match up
type SummaryRecord struct {
	MatchUp     int
	Agent       int
	Games       int
	Wins        int
	Draws       int
	MeanUtility float64
	StdErr      float64
}

type Writer struct {
	baseDir string
}

// NewWriter creates a fresh directory for one run of the named experiment
// under root, named by the current timestamp.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405.000Z")
	baseDir := filepath.Join(root, name, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create directory")
	}
	return &Writer{baseDir: baseDir}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(records []AgentRecord) error {
	header := []string{"id", "kind", "name", "config", "duration", "iterations", "max_depth"}
	rows := lo.Map(records, func(r AgentRecord, _ int) []string {
		return []string{
			strconv.Itoa(r.ID),
			r.Kind,
			r.Name,
			r.Config,
			r.Duration.String(),
			strconv.Itoa(r.Iterations),
			strconv.Itoa(r.MaxDepth),
		}
	})
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "match_up", "seats", "starting_player", "winner", "utilities", "total_moves", "start_time", "end_time", "duration"}
	rows := lo.Map(records, func(r GameRecord, _ int) []string {
		return []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.MatchUp),
			join(r.Seats, strconv.Itoa),
			strconv.Itoa(r.StartingPlayer),
			strconv.Itoa(r.Winner),
			join(r.Utilities, formatFloat),
			strconv.Itoa(r.TotalMoves),
			r.StartTime.Format(time.RFC3339Nano),
			r.EndTime.Format(time.RFC3339Nano),
			r.Duration.String(),
		}
	})
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "agent", "step", "player", "searcher", "duration", "iterations", "full_playouts", "truncated_playouts", "nodes", "playout_ceiling", "interrupted"}
	rows := lo.Map(records, func(r MoveRecord, _ int) []string {
		return []string{
			strconv.Itoa(r.Game),
			strconv.Itoa(r.Agent),
			strconv.Itoa(r.Step),
			strconv.Itoa(r.Player),
			r.Searcher,
			r.Duration.String(),
			strconv.Itoa(r.Iterations),
			strconv.Itoa(r.FullPlayouts),
			strconv.Itoa(r.TruncatedPlayouts),
			strconv.Itoa(r.Nodes),
			strconv.Itoa(r.PlayoutCeiling),
			strconv.FormatBool(r.Interrupted),
		}
	})
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) WriteSummaries(records []SummaryRecord) error {
	header := []string{"match_up", "agent", "games", "wins", "draws", "mean_utility", "std_err"}
	rows := lo.Map(records, func(r SummaryRecord, _ int) []string {
		return []string{
			strconv.Itoa(r.MatchUp),
			strconv.Itoa(r.Agent),
			strconv.Itoa(r.Games),
			strconv.Itoa(r.Wins),
			strconv.Itoa(r.Draws),
			formatFloat(r.MeanUtility),
			formatFloat(r.StdErr),
		}
	})
	return w.write("summary.csv", header, rows)
}

func (w *Writer) write(file string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.baseDir, file))
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", file)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return errors.Wrapf(err, "failed to write %s header", file)
	}
	if err := writer.WriteAll(rows); err != nil {
		return errors.Wrapf(err, "failed to write %s rows", file)
	}
	return nil
}

func join[T any](items []T, format func(T) string) string {
	return strings.Join(lo.Map(items, func(item T, _ int) string { return format(item) }), ";")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
