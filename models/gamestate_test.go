// models/gamestate_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	playerA = "aaaaaaaa-0000-0000-0000-000000000001"
	playerB = "bbbbbbbb-0000-0000-0000-000000000002"
)

func TestMergeConcurrentChoicesBothSurvive(t *testing.T) {
	base := &GameState{
		GamePhase: PhaseChoosing,
		RoundData: &RoundData{Choices: map[string]string{}},
	}

	// two players patch their own key against the same base document
	merged := base.Merge(&GameState{
		RoundData: &RoundData{Choices: map[string]string{playerA: "rock"}},
	})
	merged = merged.Merge(&GameState{
		RoundData: &RoundData{Choices: map[string]string{playerB: "paper"}},
	})

	assert.Equal(t, "rock", merged.RoundData.Choices[playerA])
	assert.Equal(t, "paper", merged.RoundData.Choices[playerB])
}

func TestMergeConcurrentGuessesBothSurvive(t *testing.T) {
	base := &GameState{
		GamePhase: PhaseGuessing,
		RoundData: &RoundData{Guesses: map[string]int{}, TargetNumber: 42},
	}

	merged := base.Merge(&GameState{
		RoundData: &RoundData{Guesses: map[string]int{playerA: 40}},
	})
	merged = merged.Merge(&GameState{
		RoundData: &RoundData{Guesses: map[string]int{playerB: 45}},
	})

	assert.Equal(t, 40, merged.RoundData.Guesses[playerA])
	assert.Equal(t, 45, merged.RoundData.Guesses[playerB])
	assert.Equal(t, 42, merged.RoundData.TargetNumber, "sibling fields unaffected")
}

func TestMergeDoesNotModifyReceiver(t *testing.T) {
	base := &GameState{
		Board:         make([]string, 9),
		CurrentPlayer: playerA,
		GamePhase:     PhasePlaying,
	}

	patch := &GameState{CurrentPlayer: playerB}
	merged := base.Merge(patch)

	assert.Equal(t, playerA, base.CurrentPlayer)
	assert.Equal(t, playerB, merged.CurrentPlayer)
}

func TestMergeTopLevelReplacesWhenSet(t *testing.T) {
	base := &GameState{
		Board:     []string{"X", "", "", "", "", "", "", "", ""},
		GamePhase: PhasePlaying,
	}

	merged := base.Merge(&GameState{
		Board:     []string{"X", "O", "", "", "", "", "", "", ""},
		GamePhase: PhasePlaying,
	})
	assert.Equal(t, "O", merged.Board[1])

	// unset fields leave the base value alone
	merged = merged.Merge(&GameState{Winner: playerA})
	assert.Equal(t, "O", merged.Board[1])
	assert.Equal(t, playerA, merged.Winner)
}

func TestCloneIsIndependent(t *testing.T) {
	original := &GameState{
		Board:        []string{"X", "", "", "", "", "", "", "", ""},
		PlayerScores: map[string]int{playerA: 1},
		RoundData: &RoundData{
			Choices: map[string]string{playerA: "rock"},
			Results: []RoundResult{{Round: 1, Winner: playerA}},
		},
	}

	clone := original.Clone()
	clone.Board[0] = "O"
	clone.PlayerScores[playerA] = 99
	clone.RoundData.Choices[playerA] = "paper"
	clone.RoundData.Results[0].Winner = playerB

	assert.Equal(t, "X", original.Board[0])
	assert.Equal(t, 1, original.PlayerScores[playerA])
	assert.Equal(t, "rock", original.RoundData.Choices[playerA])
	assert.Equal(t, playerA, original.RoundData.Results[0].Winner)
}

func TestValidateForBoardShapes(t *testing.T) {
	good := &GameState{Board: make([]string, 9)}
	assert.NoError(t, good.ValidateFor(GameTypeTicTacToe, playerA, playerB))

	bad := &GameState{Board: make([]string, 8)}
	assert.Error(t, bad.ValidateFor(GameTypeTicTacToe, playerA, playerB))

	grid := make([][]string, 6)
	for i := range grid {
		grid[i] = make([]string, 7)
	}
	assert.NoError(t, (&GameState{Grid: grid}).ValidateFor(GameTypeConnectFour, playerA, playerB))

	grid[3] = make([]string, 6)
	assert.Error(t, (&GameState{Grid: grid}).ValidateFor(GameTypeConnectFour, playerA, playerB))
}

func TestValidateForRejectsForeignTurnPointer(t *testing.T) {
	state := &GameState{
		Board:         make([]string, 9),
		CurrentPlayer: "cccccccc-0000-0000-0000-000000000003",
	}
	assert.Error(t, state.ValidateFor(GameTypeTicTacToe, playerA, playerB))
}

func TestValidateForNumberGuessingTarget(t *testing.T) {
	require.Error(t, (&GameState{RoundData: &RoundData{}}).ValidateFor(GameTypeNumberGuessing, playerA, playerB))
	require.Error(t, (&GameState{RoundData: &RoundData{TargetNumber: 101}}).ValidateFor(GameTypeNumberGuessing, playerA, playerB))
	assert.NoError(t, (&GameState{RoundData: &RoundData{TargetNumber: 50}}).ValidateFor(GameTypeNumberGuessing, playerA, playerB))
}

func TestValidateForRejectsNilAndUnknownType(t *testing.T) {
	var nilState *GameState
	assert.Error(t, nilState.ValidateFor(GameTypeTicTacToe, playerA, playerB))
	assert.Error(t, (&GameState{}).ValidateFor("checkers", playerA, playerB))
}
