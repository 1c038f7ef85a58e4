// workers/reconcile_worker_test.go
package workers

import (
	"testing"

	"social-gaming-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeFromStateDecisiveWinner(t *testing.T) {
	out, ok := outcomeFromState(&models.GameState{
		GamePhase: models.PhaseCompleted,
		Winner:    "user-1",
	})
	require.True(t, ok)
	assert.Equal(t, "user-1", out.WinnerID)
	assert.False(t, out.Tie)
}

func TestOutcomeFromStateTie(t *testing.T) {
	out, ok := outcomeFromState(&models.GameState{
		GamePhase: models.PhaseCompleted,
		Winner:    models.WinnerTie,
	})
	require.True(t, ok)
	assert.True(t, out.Tie)
	assert.Empty(t, out.WinnerID)
}

func TestOutcomeFromStateMissingMarker(t *testing.T) {
	_, ok := outcomeFromState(nil)
	assert.False(t, ok, "nil document cannot be settled")

	_, ok = outcomeFromState(&models.GameState{GamePhase: models.PhaseCompleted})
	assert.False(t, ok, "terminal phase without a winner marker needs manual reconciliation")
}
