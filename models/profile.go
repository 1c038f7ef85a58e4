// models/profile.go
package models

// SignupGoldGrant is the one-time balance every new profile starts with.
const SignupGoldGrant = 100

// Profile is the wallet + stats row for one authenticated user.
// The ID is the external identity service's UUID; we never mint our own.
//
// Gold is mutated only by the ledger (escrow, settlement, payment credit)
// and always via SQL expressions, never read-modify-write.
type Profile struct {
	ID          string `gorm:"primaryKey;type:uuid;not null" json:"id"`
	Username    string `gorm:"index;not null" json:"username"`
	Gold        int64  `gorm:"not null;default:100;check:gold >= 0" json:"gold"`
	Wins        int    `gorm:"not null;default:0" json:"wins"`
	Losses      int    `gorm:"not null;default:0" json:"losses"`
	GamesPlayed int    `gorm:"not null;default:0" json:"games_played"`

	Timestamps
}
