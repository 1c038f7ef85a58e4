// services/invitation_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"social-gaming-system/engine"
	"social-gaming-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvitationService is the matchmaking gate: it turns an accepted challenge
// (or a joined open game) into a live game session with correctly
// initialized state and both stakes escrowed, exactly once.
type InvitationService struct {
	DB       *gorm.DB
	Ledger   *LedgerService
	Notifier Notifier
}

func NewInvitationService(db *gorm.DB, ledger *LedgerService, notifier Notifier) *InvitationService {
	return &InvitationService{DB: db, Ledger: ledger, Notifier: notifier}
}

// CreateInvitation sends a challenge to a friend. The stake is re-validated
// against the sender's current balance here, not trusted from the client's
// possibly stale view; the actual escrow happens at accept time.
func (s *InvitationService) CreateInvitation(c *fiber.Ctx) error {
	senderID := c.Locals("user_id").(string)

	var req struct {
		ReceiverID  string `json:"receiver_id"`
		GameType    string `json:"game_type"`
		StakeAmount int64  `json:"stake_amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if !models.IsValidGameType(req.GameType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown game type"})
	}
	if req.StakeAmount < models.MinStakeAmount {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Stake must be at least %d gold", models.MinStakeAmount),
		})
	}
	if req.ReceiverID == senderID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot challenge yourself"})
	}

	var friends int64
	if err := s.DB.Model(&models.Friendship{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			senderID, req.ReceiverID, req.ReceiverID, senderID).
		Count(&friends).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if friends == 0 {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only challenge friends"})
	}

	var sender models.Profile
	if err := s.DB.First(&sender, "id = ?", senderID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if sender.Gold < req.StakeAmount {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "Stake exceeds your balance"})
	}

	invitation := &models.GameInvitation{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		ReceiverID:  req.ReceiverID,
		GameType:    req.GameType,
		StakeAmount: req.StakeAmount,
		Status:      models.InvitationStatusPending,
	}
	if err := s.DB.Create(invitation).Error; err != nil {
		log.Printf("DB Error creating invitation: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create invitation"})
	}

	s.Notifier.NotifyChange("game_invitations", invitation.ReceiverID)
	return c.Status(fiber.StatusCreated).JSON(invitation)
}

// ListInvitations returns pending challenges involving the caller.
func (s *InvitationService) ListInvitations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var received, sent []models.GameInvitation
	if err := s.DB.Where("receiver_id = ? AND status = ?", userID, models.InvitationStatusPending).
		Order("created_at DESC").Find(&received).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch invitations"})
	}
	if err := s.DB.Where("sender_id = ? AND status = ?", userID, models.InvitationStatusPending).
		Order("created_at DESC").Find(&sent).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch invitations"})
	}

	return c.JSON(fiber.Map{"received": received, "sent": sent})
}

// RespondToInvitation resolves a pending challenge exactly once. The
// pending -> accepted/rejected flip is a conditional UPDATE inside the
// transaction; a double-click or a duplicate realtime delivery loses that
// race, gets a conflict error, and no second game is ever created. On
// accept, both escrows and the game creation commit atomically with the
// flip - if either player cannot cover the stake the whole response rolls
// back and the invitation stays pending.
func (s *InvitationService) RespondToInvitation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	invitationID := c.Params("id")

	var req struct {
		Response string `json:"response"` // accepted | rejected
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Response != models.InvitationStatusAccepted && req.Response != models.InvitationStatusRejected {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Response must be accepted or rejected"})
	}

	var (
		invitation models.GameInvitation
		game       *models.Game
	)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&invitation, "id = ?", invitationID).Error; err != nil {
			return err
		}
		if invitation.ReceiverID != userID {
			return ErrNotParticipant
		}

		res := tx.Model(&models.GameInvitation{}).
			Where("id = ? AND status = ?", invitationID, models.InvitationStatusPending).
			Update("status", req.Response)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyResponded
		}

		if req.Response == models.InvitationStatusRejected {
			return nil
		}

		// Escrow both stakes before the game exists. The conditional
		// debit enforces sufficient funds; failure rolls everything back.
		if err := s.Ledger.EscrowStake(tx, invitation.SenderID, invitation.StakeAmount); err != nil {
			return err
		}
		if err := s.Ledger.EscrowStake(tx, invitation.ReceiverID, invitation.StakeAmount); err != nil {
			return err
		}

		eng, err := engine.ForType(invitation.GameType)
		if err != nil {
			return err
		}

		receiverID := invitation.ReceiverID
		game = &models.Game{
			ID:          uuid.NewString(),
			Type:        invitation.GameType,
			Player1ID:   invitation.SenderID,
			Player2ID:   &receiverID,
			StakeAmount: invitation.StakeAmount,
			Status:      models.GameStatusInProgress,
			GameData:    eng.InitialState(invitation.SenderID, receiverID),
		}
		if err := tx.Create(game).Error; err != nil {
			return err
		}
		return tx.Model(&models.GameInvitation{}).
			Where("id = ?", invitationID).
			Update("game_id", game.ID).Error
	})
	if err != nil {
		return invitationError(c, err)
	}

	s.Notifier.NotifyChange("game_invitations", invitation.SenderID)
	s.Notifier.NotifyChange("game_invitations", invitation.ReceiverID)
	if game == nil {
		return c.JSON(fiber.Map{"message": "Invitation rejected"})
	}

	s.Notifier.NotifyChange("games", game.ID)
	s.Notifier.NotifyChange("profiles", game.Player1ID)
	s.Notifier.NotifyChange("profiles", *game.Player2ID)
	log.Printf("✅ [GATE] invitation %s accepted, game %s created (stake %d)", invitationID, game.ID, game.StakeAmount)
	return c.Status(fiber.StatusCreated).JSON(game)
}

// CreateOpenGame posts an open challenge anyone with the join code can
// take. Only the creator's stake is escrowed; the game stays pending (and
// cancellable) until someone joins.
func (s *InvitationService) CreateOpenGame(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		GameType    string `json:"game_type"`
		StakeAmount int64  `json:"stake_amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if !models.IsValidGameType(req.GameType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown game type"})
	}
	if req.StakeAmount < models.MinStakeAmount {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Stake must be at least %d gold", models.MinStakeAmount),
		})
	}

	var creator models.Profile
	if err := s.DB.First(&creator, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	joinCode := makeJoinCode(creator.Username, req.GameType)
	var game *models.Game
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Ledger.EscrowStake(tx, userID, req.StakeAmount); err != nil {
			return err
		}
		game = &models.Game{
			ID:          uuid.NewString(),
			Type:        req.GameType,
			Player1ID:   userID,
			StakeAmount: req.StakeAmount,
			Status:      models.GameStatusPending,
			JoinCode:    &joinCode,
		}
		return tx.Create(game).Error
	})
	if err != nil {
		return invitationError(c, err)
	}

	s.Notifier.NotifyChange("games", game.ID)
	return c.Status(fiber.StatusCreated).JSON(game)
}

// JoinOpenGame claims the empty seat of a pending open challenge: escrow
// the joiner's stake, seed the initial state, flip to in_progress. The row
// lock plus the pending/empty-seat conditions make a double join
// impossible.
func (s *InvitationService) JoinOpenGame(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	code := c.Params("code")

	var game models.Game
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&game, "join_code = ?", code).Error; err != nil {
			return err
		}
		if game.Player1ID == userID {
			return errOwnGame
		}
		if game.Status != models.GameStatusPending || game.Player2ID != nil {
			return errAlreadyResponded
		}

		if err := s.Ledger.EscrowStake(tx, userID, game.StakeAmount); err != nil {
			return err
		}

		eng, err := engine.ForType(game.Type)
		if err != nil {
			return err
		}
		initial := eng.InitialState(game.Player1ID, userID)

		res := tx.Model(&models.Game{}).
			Where("id = ? AND status = ? AND player2_id IS NULL", game.ID, models.GameStatusPending).
			Updates(map[string]interface{}{
				"player2_id": userID,
				"status":     models.GameStatusInProgress,
				"game_data":  initial,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyResponded
		}
		game.Player2ID = &userID
		game.Status = models.GameStatusInProgress
		game.GameData = initial
		return nil
	})
	if err != nil {
		return invitationError(c, err)
	}

	s.Notifier.NotifyChange("games", game.ID)
	s.Notifier.NotifyChange("profiles", game.Player1ID)
	s.Notifier.NotifyChange("profiles", userID)
	log.Printf("✅ [GATE] %s joined open game %s (stake %d)", userID, game.ID, game.StakeAmount)
	return c.JSON(game)
}

var (
	errAlreadyResponded = errors.New("invitation already responded to")
	errOwnGame          = errors.New("cannot join your own game")
)

// makeJoinCode builds a shareable, URL-safe code for an open challenge.
func makeJoinCode(username, gameType string) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return slug.Make(fmt.Sprintf("%s %s", username, gameType)) + "-" + suffix
}

func invitationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, ErrNotParticipant):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not addressed to you"})
	case errors.Is(err, errAlreadyResponded):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already responded"})
	case errors.Is(err, errOwnGame):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrInsufficientGold):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("DB Error in invitation gate: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Request failed"})
}
