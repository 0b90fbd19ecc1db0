// meta/meta.go
package meta

// GO_ROUTINES defines the number of games played concurrently by experiments.
const GO_ROUTINES = 8

// ITERATIONS defines the default number of iterations per move for MCTS.
const ITERATIONS = 1000

// MAX_PLAYOUT_DEPTH defines the default ceiling on moves played in one playout.
const MAX_PLAYOUT_DEPTH = 10000

// MAX_TURNS defines the number of turns after which a game is abandoned.
const MAX_TURNS = 300
