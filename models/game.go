// models/game.go
package models

import "time"

const (
	GameTypeTicTacToe         = "tic_tac_toe"
	GameTypeRockPaperScissors = "rock_paper_scissors"
	GameTypeNumberGuessing    = "number_guessing"
	GameTypeConnectFour       = "connect_four"
	GameTypeWordGuessing      = "word_guessing"
)

const (
	GameStatusPending    = "pending"     // open challenge, second seat empty
	GameStatusInProgress = "in_progress" // both stakes escrowed, play allowed
	GameStatusCompleted  = "completed"   // terminal, settled exactly once
	GameStatusCancelled  = "cancelled"   // terminal, escrow refunded, no stats
)

// WinnerTie is the distinguished winner marker for drawn games.
const WinnerTie = "tie"

// MinStakeAmount is the smallest wager any game or invitation may carry.
const MinStakeAmount = 5

// Game is one play session between exactly two participants.
// Player1 is always the initiator. StakeAmount is immutable after creation;
// once Status is completed, WinnerID never changes again.
type Game struct {
	ID        string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Type      string  `gorm:"type:varchar(32);not null;index" json:"type"`
	Player1ID string  `gorm:"type:uuid;not null;index" json:"player1_id"`
	Player2ID *string `gorm:"type:uuid;index" json:"player2_id,omitempty"` // nil while an open challenge waits

	StakeAmount int64  `gorm:"not null" json:"stake_amount"`
	Status      string `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`

	// WinnerID is a participant id or WinnerTie; set only by settlement.
	WinnerID *string `gorm:"type:varchar(64)" json:"winner_id,omitempty"`

	// GameData is the authoritative shared state document, initialized
	// lazily on first read if the gate did not seed it.
	GameData *GameState `gorm:"type:jsonb" json:"game_data,omitempty"`

	// JoinCode is the shareable code for open challenges (pending games).
	JoinCode *string `gorm:"uniqueIndex" json:"join_code,omitempty"`

	// SettledAt is written in the same transaction as the completed
	// transition; the reconciliation worker watches for residue without it.
	SettledAt *time.Time `json:"settled_at,omitempty"`

	Timestamps
}

// HasParticipant reports whether userID occupies one of the two seats.
func (g *Game) HasParticipant(userID string) bool {
	if g.Player1ID == userID {
		return true
	}
	return g.Player2ID != nil && *g.Player2ID == userID
}

// OpponentOf returns the other seat's id, or "" when the seat is empty
// or userID is not a participant.
func (g *Game) OpponentOf(userID string) string {
	if g.Player2ID == nil {
		return ""
	}
	switch userID {
	case g.Player1ID:
		return *g.Player2ID
	case *g.Player2ID:
		return g.Player1ID
	}
	return ""
}

// IsValidGameType reports whether t names one of the playable game types.
func IsValidGameType(t string) bool {
	switch t {
	case GameTypeTicTacToe, GameTypeRockPaperScissors, GameTypeNumberGuessing,
		GameTypeConnectFour, GameTypeWordGuessing:
		return true
	}
	return false
}
