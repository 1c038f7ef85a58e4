// services/scheduler.go
package services

import (
	"log"
	"time"

	"social-gaming-system/models"

	"github.com/go-co-op/gocron/v2"
)

// staleAfter is how long a pending invitation or unjoined open game may
// sit before the sweeper expires it.
const staleAfter = 24 * time.Hour

// StartCleanupScheduler sweeps stale pending rows: invitations flip to
// expired, unjoined open games are cancelled with the creator's escrow
// refunded. Runs inside the service so a single instance picking up the
// same row twice is still safe (both paths are conditional updates).
func (s *InvitationService) StartCleanupScheduler(settler *SettlementService) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-staleAfter)

			res := s.DB.Model(&models.GameInvitation{}).
				Where("status = ? AND created_at < ?", models.InvitationStatusPending, cutoff).
				Update("status", models.InvitationStatusExpired)
			if res.Error != nil {
				log.Printf("[Scheduler] DB error expiring invitations: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("🧹 Expired %d stale invitation(s)", res.RowsAffected)
			}

			var stale []models.Game
			err := s.DB.Where("status = ? AND player2_id IS NULL AND created_at < ?",
				models.GameStatusPending, cutoff).
				Find(&stale).Error
			if err != nil {
				log.Printf("[Scheduler] DB error listing stale open games: %v", err)
				return
			}
			for _, g := range stale {
				if err := settler.Cancel(g.ID, g.Player1ID); err != nil {
					log.Printf("[Scheduler] Failed to cancel stale game %s: %v", g.ID, err)
				} else {
					log.Printf("🧹 Cancelled stale open game %s, refunded %d gold", g.ID, g.StakeAmount)
				}
			}
		}),
	)
}
