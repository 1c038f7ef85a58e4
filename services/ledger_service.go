// services/ledger_service.go
package services

import (
	"errors"

	"social-gaming-system/models"

	"gorm.io/gorm"
)

// ErrInsufficientGold rejects an escrow before any state is created.
var ErrInsufficientGold = errors.New("insufficient gold for stake")

// LedgerService owns every balance mutation in the system. All writes are
// SQL increment/decrement expressions so two settlements touching the same
// player's balance near-simultaneously cannot lose an update.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// EscrowStake debits a player's stake up front. The balance check and the
// debit are one conditional UPDATE, so a concurrent spend cannot drive the
// balance negative.
func (s *LedgerService) EscrowStake(tx *gorm.DB, userID string, amount int64) error {
	res := tx.Model(&models.Profile{}).
		Where("id = ? AND gold >= ?", userID, amount).
		Update("gold", gorm.Expr("gold - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientGold
	}
	return nil
}

// RefundStake returns an escrowed stake after a cancellation. No stats.
func (s *LedgerService) RefundStake(tx *gorm.DB, userID string, amount int64) error {
	return s.CreditGold(tx, userID, amount)
}

// CreditGold adds gold unconditionally (refunds, payment credits).
func (s *LedgerService) CreditGold(tx *gorm.DB, userID string, amount int64) error {
	return tx.Model(&models.Profile{}).
		Where("id = ?", userID).
		Update("gold", gorm.Expr("gold + ?", amount)).Error
}

// RecordWin pays the winner their gross winnings (both escrows) and bumps
// win/played counters in one statement.
func (s *LedgerService) RecordWin(tx *gorm.DB, userID string, payout int64) error {
	return tx.Model(&models.Profile{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"gold":         gorm.Expr("gold + ?", payout),
			"wins":         gorm.Expr("wins + 1"),
			"games_played": gorm.Expr("games_played + 1"),
		}).Error
}

// RecordLoss bumps loss/played counters. The loser's stake was already
// escrowed at game creation, so no balance change happens here.
func (s *LedgerService) RecordLoss(tx *gorm.DB, userID string) error {
	return tx.Model(&models.Profile{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"losses":       gorm.Expr("losses + 1"),
			"games_played": gorm.Expr("games_played + 1"),
		}).Error
}

// RecordTie refunds one player's escrow and counts the game. Net balance
// change over the whole game is zero.
func (s *LedgerService) RecordTie(tx *gorm.DB, userID string, refund int64) error {
	return tx.Model(&models.Profile{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"gold":         gorm.Expr("gold + ?", refund),
			"games_played": gorm.Expr("games_played + 1"),
		}).Error
}
