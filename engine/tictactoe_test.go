// engine/tictactoe_test.go
package engine

import (
	"testing"

	"social-gaming-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "11111111-1111-1111-1111-111111111111"
	bob   = "22222222-2222-2222-2222-222222222222"
)

func TestTicTacToeInitialState(t *testing.T) {
	eng, err := ForType(models.GameTypeTicTacToe)
	require.NoError(t, err)

	state := eng.InitialState(alice, bob)
	assert.Len(t, state.Board, 9)
	assert.Equal(t, alice, state.CurrentPlayer)
	assert.Equal(t, models.PhasePlaying, state.GamePhase)
	assert.Equal(t, "X", state.PlayerSymbols[alice])
	assert.Equal(t, "O", state.PlayerSymbols[bob])
}

func TestTicTacToeTurnAlternates(t *testing.T) {
	eng, _ := ForType(models.GameTypeTicTacToe)
	state := eng.InitialState(alice, bob)

	next, outcome, err := eng.Apply(state, Action{Type: ActionMakeMove, Position: 4}, alice)
	require.NoError(t, err)
	require.Nil(t, outcome)
	assert.Equal(t, "X", next.Board[4])
	assert.Equal(t, bob, next.CurrentPlayer)

	// the original document is untouched
	assert.Equal(t, "", state.Board[4])
	assert.Equal(t, alice, state.CurrentPlayer)

	next2, outcome, err := eng.Apply(next, Action{Type: ActionMakeMove, Position: 0}, bob)
	require.NoError(t, err)
	require.Nil(t, outcome)
	assert.Equal(t, "O", next2.Board[0])
	assert.Equal(t, alice, next2.CurrentPlayer)
}

func TestTicTacToeRejectsOutOfTurn(t *testing.T) {
	eng, _ := ForType(models.GameTypeTicTacToe)
	state := eng.InitialState(alice, bob)

	_, _, err := eng.Apply(state, Action{Type: ActionMakeMove, Position: 0}, bob)
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestTicTacToeRejectsOccupiedCell(t *testing.T) {
	eng, _ := ForType(models.GameTypeTicTacToe)
	state := eng.InitialState(alice, bob)

	next, _, err := eng.Apply(state, Action{Type: ActionMakeMove, Position: 4}, alice)
	require.NoError(t, err)

	_, _, err = eng.Apply(next, Action{Type: ActionMakeMove, Position: 4}, bob)
	assert.ErrorIs(t, err, ErrCellOccupied)
}

func TestTicTacToeRejectsOutOfRange(t *testing.T) {
	eng, _ := ForType(models.GameTypeTicTacToe)
	state := eng.InitialState(alice, bob)

	_, _, err := eng.Apply(state, Action{Type: ActionMakeMove, Position: 9}, alice)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, _, err = eng.Apply(state, Action{Type: ActionMakeMove, Position: -1}, alice)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestTicTacToeRowWin(t *testing.T) {
	eng, _ := ForType(models.GameTypeTicTacToe)
	state := eng.InitialState(alice, bob)

	// alice takes the top row while bob plays elsewhere
	moves := []struct {
		player string
		pos    int
	}{
		{alice, 0}, {bob, 3}, {alice, 1}, {bob, 4},
	}
	for _, m := range moves {
		var err error
		state, _, err = eng.Apply(state, Action{Type: ActionMakeMove, Position: m.pos}, m.player)
		require.NoError(t, err)
	}

	final, outcome, err := eng.Apply(state, Action{Type: ActionMakeMove, Position: 2}, alice)
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, alice, outcome.WinnerID)
	assert.False(t, outcome.Tie)
	assert.Equal(t, models.PhaseCompleted, final.GamePhase)
	assert.Equal(t, alice, final.Winner)
	assert.Empty(t, final.CurrentPlayer)
}

func TestTicTacToeFullBoardTie(t *testing.T) {
	eng, _ := ForType(models.GameTypeTicTacToe)
	state := eng.InitialState(alice, bob)

	// X O X / X O O / O X - with X to play last into the corner, no line
	moves := []struct {
		player string
		pos    int
	}{
		{alice, 0}, {bob, 1}, {alice, 2},
		{bob, 4}, {alice, 3}, {bob, 5},
		{alice, 7}, {bob, 6},
	}
	for _, m := range moves {
		var err error
		var outcome *Outcome
		state, outcome, err = eng.Apply(state, Action{Type: ActionMakeMove, Position: m.pos}, m.player)
		require.NoError(t, err)
		require.Nil(t, outcome)
	}

	final, outcome, err := eng.Apply(state, Action{Type: ActionMakeMove, Position: 8}, alice)
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.True(t, outcome.Tie)
	assert.Empty(t, outcome.WinnerID)
	assert.Equal(t, models.WinnerTie, final.Winner)
	assert.Equal(t, models.PhaseCompleted, final.GamePhase)
}

func TestTicTacToeRejectsAfterCompletion(t *testing.T) {
	eng, _ := ForType(models.GameTypeTicTacToe)
	state := eng.InitialState(alice, bob)
	state.GamePhase = models.PhaseCompleted

	_, _, err := eng.Apply(state, Action{Type: ActionMakeMove, Position: 0}, alice)
	assert.ErrorIs(t, err, ErrWrongPhase)
}
