// engine/numberguessing_test.go
package engine

import (
	"testing"

	"social-gaming-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberGuessingState(target int) *models.GameState {
	return &models.GameState{
		GamePhase:    models.PhaseGuessing,
		PlayerScores: map[string]int{alice: 0, bob: 0},
		RoundData: &models.RoundData{
			Guesses:      map[string]int{},
			TargetNumber: target,
		},
	}
}

func TestNumberGuessingInitialStateDrawsTarget(t *testing.T) {
	eng, _ := ForType(models.GameTypeNumberGuessing)
	state := eng.InitialState(alice, bob)
	require.NotNil(t, state.RoundData)
	assert.GreaterOrEqual(t, state.RoundData.TargetNumber, 1)
	assert.LessOrEqual(t, state.RoundData.TargetNumber, 100)
	assert.Equal(t, models.PhaseGuessing, state.GamePhase)
	assert.Empty(t, state.CurrentPlayer, "simultaneous game has no turn pointer")
}

func TestNumberGuessingCloserGuessWins(t *testing.T) {
	eng, _ := ForType(models.GameTypeNumberGuessing)
	state := numberGuessingState(42)

	next, outcome, err := eng.Apply(state, Action{Type: ActionMakeGuess, Guess: 40}, alice)
	require.NoError(t, err)
	require.Nil(t, outcome, "no resolution until both guesses are in")

	final, outcome, err := eng.Apply(next, Action{Type: ActionMakeGuess, Guess: 45}, bob)
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, alice, outcome.WinnerID)
	assert.Equal(t, models.PhaseCompleted, final.GamePhase)
	assert.Equal(t, alice, final.Winner)
}

func TestNumberGuessingEqualDistanceTies(t *testing.T) {
	eng, _ := ForType(models.GameTypeNumberGuessing)
	state := numberGuessingState(50)

	next, _, err := eng.Apply(state, Action{Type: ActionMakeGuess, Guess: 45}, alice)
	require.NoError(t, err)
	final, outcome, err := eng.Apply(next, Action{Type: ActionMakeGuess, Guess: 55}, bob)
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.True(t, outcome.Tie)
	assert.Equal(t, models.WinnerTie, final.Winner)
}

func TestNumberGuessingExactGuessWins(t *testing.T) {
	eng, _ := ForType(models.GameTypeNumberGuessing)
	state := numberGuessingState(73)

	next, _, err := eng.Apply(state, Action{Type: ActionMakeGuess, Guess: 73}, bob)
	require.NoError(t, err)
	_, outcome, err := eng.Apply(next, Action{Type: ActionMakeGuess, Guess: 74}, alice)
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, bob, outcome.WinnerID)
}

func TestNumberGuessingRejectsSecondGuess(t *testing.T) {
	eng, _ := ForType(models.GameTypeNumberGuessing)
	state := numberGuessingState(42)

	next, _, err := eng.Apply(state, Action{Type: ActionMakeGuess, Guess: 10}, alice)
	require.NoError(t, err)

	_, _, err = eng.Apply(next, Action{Type: ActionMakeGuess, Guess: 20}, alice)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestNumberGuessingToleratesMissingRoundData(t *testing.T) {
	eng, _ := ForType(models.GameTypeNumberGuessing)
	state := &models.GameState{
		GamePhase:    models.PhaseGuessing,
		PlayerScores: map[string]int{alice: 0, bob: 0},
	}

	next, outcome, err := eng.Apply(state, Action{Type: ActionMakeGuess, Guess: 10}, alice)
	require.NoError(t, err)
	require.Nil(t, outcome)
	assert.Equal(t, 10, next.RoundData.Guesses[alice])
}

func TestNumberGuessingRejectsOutOfRange(t *testing.T) {
	eng, _ := ForType(models.GameTypeNumberGuessing)
	state := numberGuessingState(42)

	_, _, err := eng.Apply(state, Action{Type: ActionMakeGuess, Guess: 0}, alice)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, _, err = eng.Apply(state, Action{Type: ActionMakeGuess, Guess: 101}, alice)
	assert.ErrorIs(t, err, ErrOutOfRange)
}
