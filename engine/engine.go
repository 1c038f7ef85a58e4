// engine/engine.go
package engine

import (
	"errors"
	"fmt"

	"social-gaming-system/models"
)

// Action types accepted by the engines.
const (
	ActionMakeMove   = "make_move"   // tic_tac_toe (Position), connect_four (Column)
	ActionMakeChoice = "make_choice" // rock_paper_scissors
	ActionMakeGuess  = "make_guess"  // number_guessing
	ActionStartRound = "start_round" // word_guessing setter draws a word
	ActionGuessWord  = "guess_word"  // word_guessing; empty Word = timed out
)

// Action is one player submission. Only the field matching Type is read.
type Action struct {
	Type     string `json:"type"`
	Position int    `json:"position"`
	Column   int    `json:"column"`
	Choice   string `json:"choice"`
	Guess    int    `json:"guess"`
	Word     string `json:"word"`
}

// Outcome is a terminal result reported to the settlement coordinator.
// The engines themselves never touch the ledger.
type Outcome struct {
	WinnerID string // empty when Tie
	Tie      bool
}

// Validation errors. These reject the action with no state change; the
// caller maps them to client errors and the user simply retries.
var (
	ErrNotYourTurn      = errors.New("not your turn")
	ErrWrongPhase       = errors.New("game phase does not accept this action")
	ErrInvalidAction    = errors.New("invalid action for this game type")
	ErrOutOfRange       = errors.New("action target out of range")
	ErrCellOccupied     = errors.New("cell already occupied")
	ErrColumnFull       = errors.New("column is full")
	ErrAlreadySubmitted = errors.New("already submitted for this round")
)

// Engine is a pure state machine for one game type. Apply never mutates the
// input state; it returns the next document and, on a terminal transition,
// the outcome.
type Engine interface {
	InitialState(player1ID, player2ID string) *models.GameState
	Apply(state *models.GameState, action Action, playerID string) (*models.GameState, *Outcome, error)
}

// ForType returns the engine for a game type.
func ForType(gameType string) (Engine, error) {
	switch gameType {
	case models.GameTypeTicTacToe:
		return ticTacToe{}, nil
	case models.GameTypeConnectFour:
		return connectFour{}, nil
	case models.GameTypeRockPaperScissors:
		return rockPaperScissors{}, nil
	case models.GameTypeNumberGuessing:
		return numberGuessing{}, nil
	case models.GameTypeWordGuessing:
		return wordGuessing{}, nil
	}
	return nil, fmt.Errorf("unsupported game type %q", gameType)
}

// finishDecisive marks the document terminal with a winner.
func finishDecisive(next *models.GameState, winnerID string) *Outcome {
	next.Winner = winnerID
	next.GamePhase = models.PhaseCompleted
	next.CurrentPlayer = ""
	return &Outcome{WinnerID: winnerID}
}

// finishTie marks the document terminal with the tie marker.
func finishTie(next *models.GameState) *Outcome {
	next.Winner = models.WinnerTie
	next.GamePhase = models.PhaseCompleted
	next.CurrentPlayer = ""
	return &Outcome{Tie: true}
}
