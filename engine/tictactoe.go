// engine/tictactoe.go
package engine

import "social-gaming-system/models"

// ticTacToe plays on a flat 9-cell board. Player1 is always X and moves
// first; the turn pointer alternates strictly until a terminal state.
type ticTacToe struct{}

var tttLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

func (ticTacToe) InitialState(player1ID, player2ID string) *models.GameState {
	return &models.GameState{
		Board:         make([]string, 9),
		CurrentPlayer: player1ID,
		GamePhase:     models.PhasePlaying,
		PlayerSymbols: map[string]string{
			player1ID: "X",
			player2ID: "O",
		},
	}
}

func (ticTacToe) Apply(state *models.GameState, action Action, playerID string) (*models.GameState, *Outcome, error) {
	if action.Type != ActionMakeMove {
		return nil, nil, ErrInvalidAction
	}
	if state.GamePhase != models.PhasePlaying {
		return nil, nil, ErrWrongPhase
	}
	if state.CurrentPlayer != playerID {
		return nil, nil, ErrNotYourTurn
	}
	if action.Position < 0 || action.Position > 8 {
		return nil, nil, ErrOutOfRange
	}
	if state.Board[action.Position] != "" {
		return nil, nil, ErrCellOccupied
	}

	next := state.Clone()
	symbol := next.PlayerSymbols[playerID]
	next.Board[action.Position] = symbol

	for _, line := range tttLines {
		if next.Board[line[0]] == symbol && next.Board[line[1]] == symbol && next.Board[line[2]] == symbol {
			return next, finishDecisive(next, playerID), nil
		}
	}

	full := true
	for _, cell := range next.Board {
		if cell == "" {
			full = false
			break
		}
	}
	if full {
		return next, finishTie(next), nil
	}

	for id := range next.PlayerSymbols {
		if id != playerID {
			next.CurrentPlayer = id
			break
		}
	}
	return next, nil, nil
}
