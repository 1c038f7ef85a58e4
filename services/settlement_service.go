// services/settlement_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"social-gaming-system/engine"
	"social-gaming-system/models"

	"gorm.io/gorm"
)

var (
	// ErrGameNotSettleable rejects forfeits/settlements of games that are
	// not in progress (pending games cancel instead).
	ErrGameNotSettleable = errors.New("game is not in progress")
	// ErrGameNotCancellable rejects cancellation once play has started.
	ErrGameNotCancellable = errors.New("game is no longer pending")
	// ErrNotParticipant rejects callers outside the two seats.
	ErrNotParticipant = errors.New("caller is not a participant of this game")

	// errAlreadySettled is internal: losing the settlement race is a no-op.
	errAlreadySettled = errors.New("game already settled")
)

// SettlementService is the single authorized path from "terminal outcome
// known" to "ledger updated and game closed". The conditional
// in_progress -> completed UPDATE is the concurrency gate: whichever caller
// wins the transition performs the ledger mutations in the same database
// transaction, and everyone else no-ops.
type SettlementService struct {
	DB       *gorm.DB
	Ledger   *LedgerService
	Notifier Notifier
}

func NewSettlementService(db *gorm.DB, ledger *LedgerService, notifier Notifier) *SettlementService {
	return &SettlementService{DB: db, Ledger: ledger, Notifier: notifier}
}

// winnerPayout is the gross winnings under the pre-escrow custody model:
// both stakes were debited at game creation, so the winner receives the
// whole pot and the loser's balance is untouched at settlement.
func winnerPayout(stake int64) int64 {
	return 2 * stake
}

// winnerColumnValue maps an outcome to the persisted winner_id marker.
func winnerColumnValue(outcome engine.Outcome) string {
	if outcome.Tie {
		return models.WinnerTie
	}
	return outcome.WinnerID
}

// lostSettleRace classifies a failed in_progress -> completed transition by
// the row's freshly read status: completed means a concurrent settle won
// the race and this call must no-op; anything else is a real rejection.
func lostSettleRace(currentStatus string) error {
	if currentStatus == models.GameStatusCompleted {
		return errAlreadySettled
	}
	return ErrGameNotSettleable
}

// Settle finalizes a terminal outcome exactly once. Repeated invocations
// for the same game - both clients detecting the terminal state, a
// double-submitted forfeit, the reconciliation worker retrying - are
// no-ops after the first one commits.
func (s *SettlementService) Settle(gameID string, outcome engine.Outcome) error {
	var game models.Game
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&game, "id = ?", gameID).Error; err != nil {
			return err
		}
		if game.Player2ID == nil {
			return ErrGameNotSettleable
		}
		if !outcome.Tie && game.OpponentOf(outcome.WinnerID) == "" {
			return fmt.Errorf("winner %s is not a participant of game %s", outcome.WinnerID, gameID)
		}

		now := time.Now()
		winner := winnerColumnValue(outcome)
		res := tx.Model(&models.Game{}).
			Where("id = ? AND status = ?", gameID, models.GameStatusInProgress).
			Updates(map[string]interface{}{
				"status":     models.GameStatusCompleted,
				"winner_id":  winner,
				"settled_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// The initial read can be stale: a concurrent settle may have
			// completed the game between that read and our UPDATE. Re-read
			// the row before classifying the lost transition.
			var current models.Game
			if err := tx.First(&current, "id = ?", gameID).Error; err != nil {
				return err
			}
			return lostSettleRace(current.Status)
		}

		// Ledger mutations ride the same transaction: either the status
		// transition and the balance changes all commit, or none do.
		if outcome.Tie {
			if err := s.Ledger.RecordTie(tx, game.Player1ID, game.StakeAmount); err != nil {
				return err
			}
			return s.Ledger.RecordTie(tx, *game.Player2ID, game.StakeAmount)
		}
		if err := s.Ledger.RecordWin(tx, outcome.WinnerID, winnerPayout(game.StakeAmount)); err != nil {
			return err
		}
		return s.Ledger.RecordLoss(tx, game.OpponentOf(outcome.WinnerID))
	})

	if errors.Is(err, errAlreadySettled) {
		log.Printf("[SETTLE] game %s already settled, skipping", gameID)
		return nil
	}
	if err != nil {
		return err
	}

	s.Notifier.NotifyChange("games", gameID)
	s.Notifier.NotifyChange("profiles", game.Player1ID)
	s.Notifier.NotifyChange("profiles", *game.Player2ID)
	log.Printf("[SETTLE] game %s settled, winner=%s stake=%d", gameID, winnerColumnValue(outcome), game.StakeAmount)
	return nil
}

// Forfeit treats an explicit abandonment as a loss for the forfeiting
// player. Double submission settles exactly once via the gate in Settle.
func (s *SettlementService) Forfeit(gameID, forfeiterID string) error {
	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		return err
	}
	if !game.HasParticipant(forfeiterID) {
		return ErrNotParticipant
	}
	if game.Status == models.GameStatusCompleted {
		// Already settled; the duplicate forfeit is a no-op.
		return nil
	}
	if game.Status != models.GameStatusInProgress {
		return ErrGameNotSettleable
	}
	opponent := game.OpponentOf(forfeiterID)
	if opponent == "" {
		return ErrGameNotSettleable
	}
	return s.Settle(gameID, engine.Outcome{WinnerID: opponent})
}

// Cancel tears down a pending open challenge before anyone joined,
// refunding the creator's escrow. No stats are touched.
func (s *SettlementService) Cancel(gameID, callerID string) error {
	var game models.Game
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&game, "id = ?", gameID).Error; err != nil {
			return err
		}
		if game.Player1ID != callerID {
			return ErrNotParticipant
		}
		res := tx.Model(&models.Game{}).
			Where("id = ? AND status = ?", gameID, models.GameStatusPending).
			Update("status", models.GameStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrGameNotCancellable
		}
		return s.Ledger.RefundStake(tx, game.Player1ID, game.StakeAmount)
	})
	if err != nil {
		return err
	}

	s.Notifier.NotifyChange("games", gameID)
	s.Notifier.NotifyChange("profiles", game.Player1ID)
	log.Printf("[SETTLE] game %s cancelled, %d gold refunded to %s", gameID, game.StakeAmount, game.Player1ID)
	return nil
}
