// services/game_service.go
package services

import (
	"errors"
	"log"

	"social-gaming-system/engine"
	"social-gaming-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameService is the game state store: it owns reads (with idempotent lazy
// initialization) and the action endpoint that funnels every
// player submission through the matching rule engine. Settlement is invoked
// here the moment an engine reports a terminal outcome.
type GameService struct {
	DB       *gorm.DB
	Settler  *SettlementService
	Notifier Notifier
}

func NewGameService(db *gorm.DB, settler *SettlementService, notifier Notifier) *GameService {
	return &GameService{DB: db, Settler: settler, Notifier: notifier}
}

// GetGame returns the game row with its state document, initializing the
// document first if the gate never seeded it. The init is a conditional
// "only while still empty" UPDATE: losing that race means another caller
// already initialized (or advanced) the state, and we re-read instead of
// stomping it.
func (s *GameService) GetGame(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	var game models.Game
	if err := s.DB.First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if !game.HasParticipant(userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not a participant of this game"})
	}

	if game.GameData == nil && game.Player2ID != nil {
		eng, err := engine.ForType(game.Type)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unsupported game type"})
		}
		initial := eng.InitialState(game.Player1ID, *game.Player2ID)
		res := s.DB.Model(&models.Game{}).
			Where("id = ? AND game_data IS NULL", game.ID).
			Update("game_data", initial)
		if res.Error != nil {
			log.Printf("DB Error initializing game state for %s: %v", game.ID, res.Error)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to initialize game state"})
		}
		if err := s.DB.First(&game, "id = ?", id).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
	}

	return c.JSON(game)
}

// ApplyAction is the unified move/choice/guess endpoint. The game row is
// loaded under a row lock so one game only ever advances one action at a
// time; the rule engine validates and computes the next document, and a
// reported terminal outcome is handed to the settlement coordinator after
// the state commit.
func (s *GameService) ApplyAction(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	var action engine.Action
	if err := c.BodyParser(&action); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var (
		game    models.Game
		outcome *engine.Outcome
	)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&game, "id = ?", id).Error; err != nil {
			return err
		}
		if !game.HasParticipant(userID) {
			return ErrNotParticipant
		}
		if game.Status != models.GameStatusInProgress || game.Player2ID == nil {
			return ErrGameNotSettleable
		}

		eng, err := engine.ForType(game.Type)
		if err != nil {
			return err
		}

		state := game.GameData
		if state == nil {
			state = eng.InitialState(game.Player1ID, *game.Player2ID)
		}
		if err := state.ValidateFor(game.Type, game.Player1ID, *game.Player2ID); err != nil {
			return err
		}

		next, out, err := eng.Apply(state, action, userID)
		if err != nil {
			return err
		}

		res := tx.Model(&models.Game{}).
			Where("id = ?", game.ID).
			Update("game_data", next)
		if res.Error != nil {
			return res.Error
		}
		game.GameData = next
		outcome = out
		return nil
	})
	if err != nil {
		return actionError(c, err)
	}

	s.Notifier.NotifyChange("games", game.ID)

	if outcome != nil {
		if err := s.Settler.Settle(game.ID, *outcome); err != nil {
			// The move is committed but gold was not; never present a
			// silent win. The reconciliation worker picks up the residue.
			log.Printf("❌ [GAME] settlement failed for %s: %v", game.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":     "Game finished but settlement failed; balances will be reconciled",
				"game_data": game.GameData,
			})
		}
	}

	return c.JSON(fiber.Map{"game_data": game.GameData})
}

// ForfeitGame is the explicit "leave game" action: the caller loses, the
// opponent is settled as winner. Safe to double-submit.
func (s *GameService) ForfeitGame(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	if err := s.Settler.Forfeit(id, userID); err != nil {
		return actionError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Game forfeited"})
}

// CancelGame tears down a pending open challenge the caller created.
func (s *GameService) CancelGame(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	if err := s.Settler.Cancel(id, userID); err != nil {
		return actionError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Game cancelled, stake refunded"})
}

// actionError maps engine and service errors onto client status codes.
// Validation failures persist nothing; the user just retries.
func actionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Game not found"})
	case errors.Is(err, ErrNotParticipant):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not a participant of this game"})
	case errors.Is(err, engine.ErrNotYourTurn),
		errors.Is(err, engine.ErrWrongPhase),
		errors.Is(err, engine.ErrAlreadySubmitted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrInvalidAction),
		errors.Is(err, engine.ErrOutOfRange),
		errors.Is(err, engine.ErrCellOccupied),
		errors.Is(err, engine.ErrColumnFull):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrGameNotSettleable), errors.Is(err, ErrGameNotCancellable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrInsufficientGold):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("DB Error applying game action: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to apply action"})
}
