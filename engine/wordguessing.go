// engine/wordguessing.go
package engine

import (
	"math/rand"
	"strings"

	"social-gaming-system/models"
)

const (
	wordGuessRoundCap    = 5
	wordGuessTargetScore = 3
)

// wordGuessing alternates roles each round: the setter draws a word from
// the fixed list, the other player gets one guess. A correct
// case-insensitive match scores the guesser; an empty guess is the client's
// 30-second timeout and scores nothing. The match ends after round five or
// as soon as a score reaches three; a lagging client that never submits its
// timeout leaves the round unresolved, which is an accepted gap.
type wordGuessing struct{}

func (wordGuessing) InitialState(player1ID, player2ID string) *models.GameState {
	return &models.GameState{
		GamePhase:     models.PhasePicking,
		CurrentPlayer: player1ID, // round-one setter
		CurrentRound:  1,
		PlayerScores: map[string]int{
			player1ID: 0,
			player2ID: 0,
		},
		RoundData: &models.RoundData{},
	}
}

func (w wordGuessing) Apply(state *models.GameState, action Action, playerID string) (*models.GameState, *Outcome, error) {
	switch action.Type {
	case ActionStartRound:
		return w.startRound(state, playerID)
	case ActionGuessWord:
		return w.guess(state, action, playerID)
	}
	return nil, nil, ErrInvalidAction
}

// startRound draws the secret word. The draw happens exactly once here and
// is only referenced afterwards.
func (wordGuessing) startRound(state *models.GameState, playerID string) (*models.GameState, *Outcome, error) {
	if state.GamePhase != models.PhasePicking {
		return nil, nil, ErrWrongPhase
	}
	if state.CurrentPlayer != playerID {
		return nil, nil, ErrNotYourTurn
	}

	next := state.Clone()
	guesser := ""
	for id := range next.PlayerScores {
		if id != playerID {
			guesser = id
			break
		}
	}
	next.RoundData.Word = wordList[rand.Intn(len(wordList))]
	next.RoundData.Guesser = guesser
	next.GamePhase = models.PhaseGuessing
	next.CurrentPlayer = guesser
	return next, nil, nil
}

func (wordGuessing) guess(state *models.GameState, action Action, playerID string) (*models.GameState, *Outcome, error) {
	if state.GamePhase != models.PhaseGuessing {
		return nil, nil, ErrWrongPhase
	}
	if state.CurrentPlayer != playerID || state.RoundData.Guesser != playerID {
		return nil, nil, ErrNotYourTurn
	}

	next := state.Clone()
	correct := action.Word != "" && strings.EqualFold(action.Word, next.RoundData.Word)
	if correct {
		next.PlayerScores[playerID]++
	}
	next.RoundData.Results = append(next.RoundData.Results, models.RoundResult{
		Round:   next.CurrentRound,
		Guesser: playerID,
		Guess:   action.Word,
		Correct: correct,
	})

	best := 0
	for _, score := range next.PlayerScores {
		if score > best {
			best = score
		}
	}
	if next.CurrentRound >= wordGuessRoundCap || best >= wordGuessTargetScore {
		winner, tie := "", false
		var ids []string
		for id := range next.PlayerScores {
			ids = append(ids, id)
		}
		switch {
		case next.PlayerScores[ids[0]] > next.PlayerScores[ids[1]]:
			winner = ids[0]
		case next.PlayerScores[ids[1]] > next.PlayerScores[ids[0]]:
			winner = ids[1]
		default:
			tie = true
		}
		if tie {
			return next, finishTie(next), nil
		}
		return next, finishDecisive(next, winner), nil
	}

	// Roles swap: the guesser sets the next round's word.
	next.CurrentRound++
	next.GamePhase = models.PhasePicking
	next.CurrentPlayer = playerID
	next.RoundData.Word = ""
	next.RoundData.Guesser = ""
	return next, nil, nil
}
