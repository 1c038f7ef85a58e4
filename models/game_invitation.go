// models/game_invitation.go
package models

const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusRejected = "rejected"
	InvitationStatusExpired  = "expired" // swept by the cleanup scheduler
)

// GameInvitation is a pending challenge from one friend to another.
// It is consumed exactly once: the pending -> accepted/rejected transition
// is a conditional update, so a duplicate response loses the race and errors
// instead of creating a second game.
type GameInvitation struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	SenderID    string `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID  string `gorm:"type:uuid;not null;index" json:"receiver_id"`
	GameType    string `gorm:"type:varchar(32);not null" json:"game_type"`
	StakeAmount int64  `gorm:"not null" json:"stake_amount"`
	Status      string `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`

	// GameID links the accepted invitation to the game it produced.
	GameID *string `gorm:"type:uuid" json:"game_id,omitempty"`

	Timestamps
}
