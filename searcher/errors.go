package searcher

import "github.com/pkg/errors"

var (
	// ErrConfig is returned at construction for an unknown policy name or a
	// parameter out of range. No search runs with a bad configuration.
	ErrConfig = errors.New("invalid search configuration")

	// ErrOracleInconsistent is returned when a state reports legal moves while
	// terminal, or none while not terminal.
	ErrOracleInconsistent = errors.New("inconsistent game oracle")

	// ErrOracleFailure wraps a panic raised by the game during an iteration.
	// The tree may be partially updated, so the whole search is abandoned.
	ErrOracleFailure = errors.New("game oracle failure")

	// ErrNoMove is returned when the root has no children at the end of a
	// search: the state is already decided or the budget ran out before
	// the first expansion.
	ErrNoMove = errors.New("no move available")
)

func configError(format string, args ...any) error {
	return errors.Wrapf(ErrConfig, format, args...)
}
