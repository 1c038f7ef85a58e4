// engine/numberguessing.go
package engine

import (
	"math/rand"

	"social-gaming-system/models"
)

// numberGuessing: one secret target in 1..100 drawn once at game creation
// and recorded in state, one guess per player, closer absolute distance
// wins. Equal distance is a tie.
type numberGuessing struct{}

func (numberGuessing) InitialState(player1ID, player2ID string) *models.GameState {
	return &models.GameState{
		GamePhase: models.PhaseGuessing,
		PlayerScores: map[string]int{
			player1ID: 0,
			player2ID: 0,
		},
		RoundData: &models.RoundData{
			Guesses:      map[string]int{},
			TargetNumber: rand.Intn(100) + 1,
		},
	}
}

func (numberGuessing) Apply(state *models.GameState, action Action, playerID string) (*models.GameState, *Outcome, error) {
	if action.Type != ActionMakeGuess {
		return nil, nil, ErrInvalidAction
	}
	if state.GamePhase != models.PhaseGuessing {
		return nil, nil, ErrWrongPhase
	}
	if action.Guess < 1 || action.Guess > 100 {
		return nil, nil, ErrOutOfRange
	}
	if state.RoundData != nil {
		if _, done := state.RoundData.Guesses[playerID]; done {
			return nil, nil, ErrAlreadySubmitted
		}
	}

	next := state.Clone()
	if next.RoundData == nil {
		next.RoundData = &models.RoundData{}
	}
	if next.RoundData.Guesses == nil {
		next.RoundData.Guesses = map[string]int{}
	}
	next.RoundData.Guesses[playerID] = action.Guess

	if len(next.RoundData.Guesses) < 2 {
		return next, nil, nil
	}

	target := next.RoundData.TargetNumber
	bestID, bestDist, tied := "", 0, false
	for id, guess := range next.RoundData.Guesses {
		dist := guess - target
		if dist < 0 {
			dist = -dist
		}
		switch {
		case bestID == "" || dist < bestDist:
			bestID, bestDist, tied = id, dist, false
		case dist == bestDist:
			tied = true
		}
	}

	if tied {
		return next, finishTie(next), nil
	}
	return next, finishDecisive(next, bestID), nil
}
