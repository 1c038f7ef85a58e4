// services/payment_service.go
package services

import (
	"log"
	"time"

	"social-gaming-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxGoldPurchase caps a single payment credit, mirroring the checkout
// service's own limit.
const maxGoldPurchase = 100000

// PaymentService handles the payment processor's webhook: record the
// payment reference once, then credit. Structurally the same idempotency
// shape as settlement, keyed on the unique payment_reference index instead
// of a status transition.
type PaymentService struct {
	DB       *gorm.DB
	Ledger   *LedgerService
	Notifier Notifier
}

func NewPaymentService(db *gorm.DB, ledger *LedgerService, notifier Notifier) *PaymentService {
	return &PaymentService{DB: db, Ledger: ledger, Notifier: notifier}
}

// VerifyPayment credits gold for a completed checkout exactly once per
// payment reference. Webhook redelivery hits the unique index, inserts
// nothing, and skips the credit.
func (s *PaymentService) VerifyPayment(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		PaymentReference string `json:"payment_reference"`
		GoldAmount       int64  `json:"gold_amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.PaymentReference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "payment_reference is required"})
	}
	if req.GoldAmount <= 0 || req.GoldAmount > maxGoldPurchase {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid gold amount"})
	}

	credited := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		purchase := models.GoldPurchase{
			UserID:           userID,
			PaymentReference: req.PaymentReference,
			GoldAmount:       req.GoldAmount,
			ProcessedAt:      time.Now(),
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_reference"}},
			DoNothing: true,
		}).Create(&purchase)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already processed; do not credit twice.
			return nil
		}
		credited = true
		return s.Ledger.CreditGold(tx, userID, req.GoldAmount)
	})
	if err != nil {
		log.Printf("DB Error verifying payment %s: %v", req.PaymentReference, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process payment"})
	}

	if !credited {
		return c.JSON(fiber.Map{"message": "Payment already processed", "gold_amount": req.GoldAmount})
	}

	s.Notifier.NotifyChange("profiles", userID)
	log.Printf("✅ [PAYMENT] credited %d gold to %s (ref %s)", req.GoldAmount, userID, req.PaymentReference)
	return c.JSON(fiber.Map{"message": "Payment processed", "gold_amount": req.GoldAmount})
}
