// workers/reconcile_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"social-gaming-system/engine"
	"social-gaming-system/models"
	"social-gaming-system/services"

	"gorm.io/gorm"
)

// ReconcileClient scans for settlement residue: games whose state document
// reached a terminal phase but whose row never completed the
// status-transition + ledger transaction (e.g. the settle call failed after
// the move committed). Settlement is idempotent, so retrying here is safe;
// anything that still will not settle is logged for manual reconciliation.
type ReconcileClient struct {
	DB      *gorm.DB
	Settler *services.SettlementService
}

func NewReconcileClient(db *gorm.DB, settler *services.SettlementService) *ReconcileClient {
	return &ReconcileClient{DB: db, Settler: settler}
}

// FindUnsettled returns in-progress games whose document says the game is
// over. The grace window keeps us from racing a settle that is mid-flight.
func (c *ReconcileClient) FindUnsettled(grace time.Duration) ([]models.Game, error) {
	var games []models.Game
	cutoff := time.Now().Add(-grace)
	err := c.DB.
		Where("status = ? AND game_data ->> 'gamePhase' = ? AND updated_at < ?",
			models.GameStatusInProgress, models.PhaseCompleted, cutoff).
		Find(&games).Error
	return games, err
}

// PollUnsettledGames runs until ctx is cancelled.
func PollUnsettledGames(ctx context.Context, client *ReconcileClient, pollInterval time.Duration) {
	log.Println("Starting settlement reconciliation worker...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Settlement reconciliation worker stopped.")
			return
		case <-ticker.C:
			games, err := client.FindUnsettled(time.Minute)
			if err != nil {
				log.Printf("❌ Error scanning for unsettled games: %v", err)
				continue
			}
			if len(games) == 0 {
				continue
			}

			log.Printf("⚠️ Found %d game(s) with terminal state but no settlement", len(games))
			for _, g := range games {
				outcome, ok := outcomeFromState(g.GameData)
				if !ok {
					log.Printf("⚠️ Game %s has terminal phase but no winner marker — needs manual reconciliation", g.ID)
					continue
				}
				if err := client.Settler.Settle(g.ID, outcome); err != nil {
					log.Printf("❌ Retry settlement failed for game %s: %v — needs manual reconciliation", g.ID, err)
				} else {
					log.Printf("✅ Reconciled settlement for game %s", g.ID)
				}
			}
		}
	}
}

func outcomeFromState(state *models.GameState) (engine.Outcome, bool) {
	if state == nil || state.Winner == "" {
		return engine.Outcome{}, false
	}
	if state.Winner == models.WinnerTie {
		return engine.Outcome{Tie: true}, true
	}
	return engine.Outcome{WinnerID: state.Winner}, true
}
