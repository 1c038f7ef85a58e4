// engine/connectfour.go
package engine

import "social-gaming-system/models"

const (
	connectFourRows = 6
	connectFourCols = 7
	connectFourWin  = 4
)

// connectFour drops discs into a 6x7 grid; row 0 is the top. A move lands
// on the lowest empty row of its column.
type connectFour struct{}

func (connectFour) InitialState(player1ID, player2ID string) *models.GameState {
	grid := make([][]string, connectFourRows)
	for i := range grid {
		grid[i] = make([]string, connectFourCols)
	}
	return &models.GameState{
		Grid:          grid,
		CurrentPlayer: player1ID,
		GamePhase:     models.PhasePlaying,
		PlayerSymbols: map[string]string{
			player1ID: "R",
			player2ID: "Y",
		},
	}
}

func (connectFour) Apply(state *models.GameState, action Action, playerID string) (*models.GameState, *Outcome, error) {
	if action.Type != ActionMakeMove {
		return nil, nil, ErrInvalidAction
	}
	if state.GamePhase != models.PhasePlaying {
		return nil, nil, ErrWrongPhase
	}
	if state.CurrentPlayer != playerID {
		return nil, nil, ErrNotYourTurn
	}
	if action.Column < 0 || action.Column >= connectFourCols {
		return nil, nil, ErrOutOfRange
	}

	next := state.Clone()
	row := -1
	for r := connectFourRows - 1; r >= 0; r-- {
		if next.Grid[r][action.Column] == "" {
			row = r
			break
		}
	}
	if row < 0 {
		return nil, nil, ErrColumnFull
	}

	symbol := next.PlayerSymbols[playerID]
	next.Grid[row][action.Column] = symbol

	if connectFourWinsAt(next.Grid, row, action.Column, symbol) {
		return next, finishDecisive(next, playerID), nil
	}

	full := true
	for c := 0; c < connectFourCols; c++ {
		if next.Grid[0][c] == "" {
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

// connectFourWinsAt scans the four line directions through the placed disc.
func connectFourWinsAt(grid [][]string, row, col int, symbol string) bool {
	directions := [4][2]int{
		{0, 1},  // horizontal
		{1, 0},  // vertical
		{1, 1},  // diagonal down-right
		{1, -1}, // diagonal down-left
	}
	for _, d := range directions {
		count := 1
		for _, sign := range [2]int{1, -1} {
			r, c := row+d[0]*sign, col+d[1]*sign
			for r >= 0 && r < connectFourRows && c >= 0 && c < connectFourCols && grid[r][c] == symbol {
				count++
				r += d[0] * sign
				c += d[1] * sign
			}
		}
		if count >= connectFourWin {
			return true
		}
	}
	return false
}
