// engine/rockpaperscissors_test.go
package engine

import (
	"testing"

	"social-gaming-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playRound(t *testing.T, eng Engine, state *models.GameState, aliceChoice, bobChoice string) *models.GameState {
	t.Helper()
	next, outcome, err := eng.Apply(state, Action{Type: ActionMakeChoice, Choice: aliceChoice}, alice)
	require.NoError(t, err)
	require.Nil(t, outcome, "round must not resolve on the first submission")
	next, _, err = eng.Apply(next, Action{Type: ActionMakeChoice, Choice: bobChoice}, bob)
	require.NoError(t, err)
	return next
}

func TestRockPaperScissorsFirstToThree(t *testing.T) {
	eng, _ := ForType(models.GameTypeRockPaperScissors)
	state := eng.InitialState(alice, bob)
	require.Equal(t, models.PhaseChoosing, state.GamePhase)
	require.Equal(t, 1, state.CurrentRound)

	state = playRound(t, eng, state, "rock", "scissors")
	assert.Equal(t, 1, state.PlayerScores[alice])
	assert.Equal(t, 2, state.CurrentRound)

	state = playRound(t, eng, state, "paper", "rock")
	assert.Equal(t, 2, state.PlayerScores[alice])

	// third round win ends the match immediately
	next, outcome, err := eng.Apply(state, Action{Type: ActionMakeChoice, Choice: "scissors"}, alice)
	require.NoError(t, err)
	require.Nil(t, outcome)
	final, outcome, err := eng.Apply(next, Action{Type: ActionMakeChoice, Choice: "paper"}, bob)
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, alice, outcome.WinnerID)
	assert.Equal(t, 3, final.PlayerScores[alice])
	assert.Equal(t, 0, final.PlayerScores[bob])
	assert.Equal(t, models.PhaseCompleted, final.GamePhase)
	assert.Equal(t, alice, final.Winner)
}

func TestRockPaperScissorsTiedRoundReplayed(t *testing.T) {
	eng, _ := ForType(models.GameTypeRockPaperScissors)
	state := eng.InitialState(alice, bob)

	state = playRound(t, eng, state, "rock", "rock")
	assert.Equal(t, 0, state.PlayerScores[alice])
	assert.Equal(t, 0, state.PlayerScores[bob])
	assert.Equal(t, 2, state.CurrentRound, "tied round still advances the counter")
	assert.Equal(t, models.PhaseChoosing, state.GamePhase)
	assert.Empty(t, state.RoundData.Choices, "choices reset for the replay")

	require.Len(t, state.RoundData.Results, 1)
	assert.Empty(t, state.RoundData.Results[0].Winner)
}

func TestRockPaperScissorsRevealRecordsBothChoices(t *testing.T) {
	eng, _ := ForType(models.GameTypeRockPaperScissors)
	state := eng.InitialState(alice, bob)

	state = playRound(t, eng, state, "paper", "scissors")
	require.Len(t, state.RoundData.Results, 1)
	result := state.RoundData.Results[0]
	assert.Equal(t, bob, result.Winner)
	assert.Equal(t, "paper", result.Choices[alice])
	assert.Equal(t, "scissors", result.Choices[bob])
}

func TestRockPaperScissorsRejectsDuplicateChoice(t *testing.T) {
	eng, _ := ForType(models.GameTypeRockPaperScissors)
	state := eng.InitialState(alice, bob)

	next, _, err := eng.Apply(state, Action{Type: ActionMakeChoice, Choice: "rock"}, alice)
	require.NoError(t, err)

	_, _, err = eng.Apply(next, Action{Type: ActionMakeChoice, Choice: "paper"}, alice)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestRockPaperScissorsRejectsUnknownChoice(t *testing.T) {
	eng, _ := ForType(models.GameTypeRockPaperScissors)
	state := eng.InitialState(alice, bob)

	_, _, err := eng.Apply(state, Action{Type: ActionMakeChoice, Choice: "lizard"}, alice)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestRockPaperScissorsPendingChoiceStaysHidden(t *testing.T) {
	eng, _ := ForType(models.GameTypeRockPaperScissors)
	state := eng.InitialState(alice, bob)

	next, _, err := eng.Apply(state, Action{Type: ActionMakeChoice, Choice: "rock"}, alice)
	require.NoError(t, err)
	assert.Equal(t, "rock", next.RoundData.Choices[alice])
	assert.Empty(t, next.RoundData.Results, "no reveal until both choices are in")
}
