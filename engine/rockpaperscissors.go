// engine/rockpaperscissors.go
package engine

import "social-gaming-system/models"

// rpsTargetScore ends the match: best of five, first to three round wins.
// A tied round scores neither player and is replayed, so the round counter
// can pass five while the match continues.
const rpsTargetScore = 3

// rpsBeats maps a choice to the choice it defeats.
var rpsBeats = map[string]string{
	"rock":     "scissors",
	"scissors": "paper",
	"paper":    "rock",
}

// rockPaperScissors is a simultaneous-choice game: both players submit into
// their own key of roundData.choices, so there is no turn pointer and the
// duplicate-submission check is the gate instead.
type rockPaperScissors struct{}

func (rockPaperScissors) InitialState(player1ID, player2ID string) *models.GameState {
	return &models.GameState{
		GamePhase:    models.PhaseChoosing,
		CurrentRound: 1,
		PlayerScores: map[string]int{
			player1ID: 0,
			player2ID: 0,
		},
		RoundData: &models.RoundData{
			Choices: map[string]string{},
		},
	}
}

func (rockPaperScissors) Apply(state *models.GameState, action Action, playerID string) (*models.GameState, *Outcome, error) {
	if action.Type != ActionMakeChoice {
		return nil, nil, ErrInvalidAction
	}
	if state.GamePhase != models.PhaseChoosing {
		return nil, nil, ErrWrongPhase
	}
	if _, ok := rpsBeats[action.Choice]; !ok {
		return nil, nil, ErrOutOfRange
	}
	if state.RoundData != nil && state.RoundData.Choices[playerID] != "" {
		return nil, nil, ErrAlreadySubmitted
	}

	next := state.Clone()
	if next.RoundData == nil {
		next.RoundData = &models.RoundData{}
	}
	if next.RoundData.Choices == nil {
		next.RoundData.Choices = map[string]string{}
	}
	next.RoundData.Choices[playerID] = action.Choice

	if len(next.RoundData.Choices) < 2 {
		return next, nil, nil
	}

	// Both choices in: reveal and resolve the round.
	roundWinner := ""
	for id, choice := range next.RoundData.Choices {
		opponent := otherKey(next.RoundData.Choices, id)
		if rpsBeats[choice] == next.RoundData.Choices[opponent] {
			roundWinner = id
			break
		}
	}

	next.RoundData.Results = append(next.RoundData.Results, models.RoundResult{
		Round:   next.CurrentRound,
		Choices: next.RoundData.Choices,
		Winner:  roundWinner,
	})
	next.RoundData.Choices = map[string]string{}
	next.CurrentRound++

	if roundWinner != "" {
		next.PlayerScores[roundWinner]++
		if next.PlayerScores[roundWinner] >= rpsTargetScore {
			return next, finishDecisive(next, roundWinner), nil
		}
	}
	return next, nil, nil
}

func otherKey(m map[string]string, id string) string {
	for k := range m {
		if k != id {
			return k
		}
	}
	return ""
}
