// models/gamestate.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Game phases shared across the rule engines.
const (
	PhasePlaying   = "playing"  // turn-based board games
	PhaseChoosing  = "choosing" // rock-paper-scissors round
	PhaseGuessing  = "guessing" // number/word guess pending
	PhasePicking   = "picking"  // word-guessing setter draws a word
	PhaseCompleted = "completed"
)

// RoundResult is one resolved round appended to RoundData.Results.
type RoundResult struct {
	Round   int               `json:"round"`
	Choices map[string]string `json:"choices,omitempty"` // rock-paper-scissors reveal
	Winner  string            `json:"winner,omitempty"`  // "" = tied round, replayed
	Guesser string            `json:"guesser,omitempty"` // word guessing
	Guess   string            `json:"guess,omitempty"`   // "" = timed out
	Correct bool              `json:"correct,omitempty"`
}

// RoundData carries the per-round payload. Choices and Guesses are keyed by
// player id so two simultaneous submissions land on different keys.
type RoundData struct {
	Choices      map[string]string `json:"choices,omitempty"`
	Guesses      map[string]int    `json:"guesses,omitempty"`
	TargetNumber int               `json:"targetNumber,omitempty"`
	Word         string            `json:"word,omitempty"`
	Guesser      string            `json:"guesser,omitempty"`
	Results      []RoundResult     `json:"results,omitempty"`
}

// GameState is the shared mutable document replicated to both participants.
// Which fields are populated depends on Game.Type; ValidateFor enforces the
// per-type shape at the store boundary. CurrentPlayer is empty either when
// no further turns are possible or during simultaneous-choice phases, which
// gate on duplicate submission instead of the turn pointer.
type GameState struct {
	Board         []string          `json:"board,omitempty"` // tic-tac-toe, 9 cells
	Grid          [][]string        `json:"grid,omitempty"`  // connect four, 6x7
	CurrentPlayer string            `json:"currentPlayer,omitempty"`
	GamePhase     string            `json:"gamePhase,omitempty"`
	CurrentRound  int               `json:"currentRound,omitempty"`
	PlayerSymbols map[string]string `json:"playerSymbols,omitempty"`
	PlayerScores  map[string]int    `json:"playerScores,omitempty"`
	RoundData     *RoundData        `json:"roundData,omitempty"`
	Winner        string            `json:"winner,omitempty"` // participant id or WinnerTie
}

// Value implements driver.Valuer so gorm stores the document as jsonb.
func (s GameState) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for the jsonb column.
func (s *GameState) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported game_data column type %T", value)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, s)
}

// Clone returns a deep copy so engines can stay pure.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s
	if s.Board != nil {
		out.Board = append([]string(nil), s.Board...)
	}
	if s.Grid != nil {
		out.Grid = make([][]string, len(s.Grid))
		for i, row := range s.Grid {
			out.Grid[i] = append([]string(nil), row...)
		}
	}
	out.PlayerSymbols = cloneStringMap(s.PlayerSymbols)
	out.PlayerScores = cloneIntMap(s.PlayerScores)
	if s.RoundData != nil {
		rd := *s.RoundData
		rd.Choices = cloneStringMap(s.RoundData.Choices)
		rd.Guesses = cloneIntMap(s.RoundData.Guesses)
		if s.RoundData.Results != nil {
			rd.Results = append([]RoundResult(nil), s.RoundData.Results...)
		}
		out.RoundData = &rd
	}
	return &out
}

// Merge folds a partial document into s and returns the result. Top-level
// fields replace when set; RoundData merges per field, and its Choices and
// Guesses maps merge per key, so two players writing their own submission
// concurrently both survive. s is not modified.
func (s *GameState) Merge(patch *GameState) *GameState {
	out := s.Clone()
	if out == nil {
		out = &GameState{}
	}
	if patch == nil {
		return out
	}
	if patch.Board != nil {
		out.Board = append([]string(nil), patch.Board...)
	}
	if patch.Grid != nil {
		out.Grid = make([][]string, len(patch.Grid))
		for i, row := range patch.Grid {
			out.Grid[i] = append([]string(nil), row...)
		}
	}
	if patch.CurrentPlayer != "" {
		out.CurrentPlayer = patch.CurrentPlayer
	}
	if patch.GamePhase != "" {
		out.GamePhase = patch.GamePhase
	}
	if patch.CurrentRound != 0 {
		out.CurrentRound = patch.CurrentRound
	}
	if patch.PlayerSymbols != nil {
		out.PlayerSymbols = cloneStringMap(patch.PlayerSymbols)
	}
	if patch.PlayerScores != nil {
		out.PlayerScores = cloneIntMap(patch.PlayerScores)
	}
	if patch.Winner != "" {
		out.Winner = patch.Winner
	}
	if patch.RoundData != nil {
		if out.RoundData == nil {
			out.RoundData = &RoundData{}
		}
		rd := out.RoundData
		for k, v := range patch.RoundData.Choices {
			if rd.Choices == nil {
				rd.Choices = map[string]string{}
			}
			rd.Choices[k] = v
		}
		for k, v := range patch.RoundData.Guesses {
			if rd.Guesses == nil {
				rd.Guesses = map[string]int{}
			}
			rd.Guesses[k] = v
		}
		if patch.RoundData.TargetNumber != 0 {
			rd.TargetNumber = patch.RoundData.TargetNumber
		}
		if patch.RoundData.Word != "" {
			rd.Word = patch.RoundData.Word
		}
		if patch.RoundData.Guesser != "" {
			rd.Guesser = patch.RoundData.Guesser
		}
		if patch.RoundData.Results != nil {
			rd.Results = append([]RoundResult(nil), patch.RoundData.Results...)
		}
	}
	return out
}

// ValidateFor checks the document's shape against the game type. Called at
// the store boundary so a malformed blob never reaches a rule engine.
func (s *GameState) ValidateFor(gameType, player1ID, player2ID string) error {
	if s == nil {
		return fmt.Errorf("empty state document")
	}
	if s.CurrentPlayer != "" && s.CurrentPlayer != player1ID && s.CurrentPlayer != player2ID {
		return fmt.Errorf("currentPlayer %q is not a participant", s.CurrentPlayer)
	}
	switch gameType {
	case GameTypeTicTacToe:
		if len(s.Board) != 9 {
			return fmt.Errorf("tic_tac_toe board must have 9 cells, has %d", len(s.Board))
		}
	case GameTypeConnectFour:
		if len(s.Grid) != 6 {
			return fmt.Errorf("connect_four grid must have 6 rows, has %d", len(s.Grid))
		}
		for i, row := range s.Grid {
			if len(row) != 7 {
				return fmt.Errorf("connect_four row %d must have 7 cells, has %d", i, len(row))
			}
		}
	case GameTypeRockPaperScissors, GameTypeWordGuessing:
		if s.RoundData == nil {
			return fmt.Errorf("%s state is missing roundData", gameType)
		}
	case GameTypeNumberGuessing:
		if s.RoundData == nil || s.RoundData.TargetNumber < 1 || s.RoundData.TargetNumber > 100 {
			return fmt.Errorf("number_guessing state is missing a valid target")
		}
	default:
		return fmt.Errorf("unknown game type %q", gameType)
	}
	return nil
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneIntMap(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
