// services/profile_service.go
package services

import (
	"errors"
	"log"

	"social-gaming-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileService exposes the wallet/stats read model and bootstraps a
// profile (with the signup gold grant) on first authenticated touch.
// Identity itself lives in the gateway; we only mirror id + username.
type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// GetMe returns the caller's profile, creating it with the signup grant if
// this is the first time we see them. The insert is OnConflict-DoNothing so
// two concurrent first requests produce exactly one grant.
func (s *ProfileService) GetMe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	username, _ := c.Locals("username").(string)
	if username == "" {
		username = "player-" + shortID(userID)
	}

	profile := models.Profile{
		ID:       userID,
		Username: username,
		Gold:     models.SignupGoldGrant,
	}
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&profile).Error; err != nil {
		log.Printf("DB Error bootstrapping profile %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load profile"})
	}
	if err := s.DB.First(&profile, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	return c.JSON(profile)
}

// GetProfile returns another player's public profile.
func (s *ProfileService) GetProfile(c *fiber.Ctx) error {
	id := c.Params("id")

	var profile models.Profile
	if err := s.DB.First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	return c.JSON(profile)
}

// GetFriends lists the caller's friend ids - the read-only input the
// invitation gate uses for addressing.
func (s *ProfileService) GetFriends(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var friendships []models.Friendship
	if err := s.DB.Where("user_id = ? OR friend_id = ?", userID, userID).
		Find(&friendships).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch friends"})
	}

	friendIDs := make([]string, 0, len(friendships))
	for _, f := range friendships {
		if f.UserID == userID {
			friendIDs = append(friendIDs, f.FriendID)
		} else {
			friendIDs = append(friendIDs, f.UserID)
		}
	}

	return c.JSON(fiber.Map{"friend_ids": friendIDs})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
