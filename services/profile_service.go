package services

import (
	"errors"
	"fmt"
	"log"

	"seefinish-platform/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// XPWeights define relative values (tunable via config/env later)
type XPWeights struct {
	RoastXP        int64
	LikeReceivedXP int64
	CommentXP      int64
	DebateJoinXP   int64
	DebateCreateXP int64
}

var DefaultXPWeights = XPWeights{
	RoastXP:        10,
	LikeReceivedXP: 5,
	CommentXP:      2,
	DebateJoinXP:   25,
	DebateCreateXP: 50,
}

// rankLadder: cumulative XP required for each rank label. The scheduler
// re-applies this ladder periodically so imported rows converge too.
var rankLadder = []struct {
	MinXP int64
	Label string
}{
	{50000, "Legend"},
	{10000, "Champion"},
	{2500, "Contender"},
	{500, "Challenger"},
	{0, "Rookie"},
}

// RankForXP returns the rank label for a cumulative XP total.
func RankForXP(xp int64) string {
	for _, r := range rankLadder {
		if xp >= r.MinXP {
			return r.Label
		}
	}
	return "Rookie"
}

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// AwardXP atomically adds XP and re-derives the rank label.
func (s *ProfileService) AwardXP(userID string, xp int64, reason string) (*models.Profile, error) {
	var updated *models.Profile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prof models.Profile
		if err := tx.Where("user_id = ?", userID).First(&prof).Error; err != nil {
			return fmt.Errorf("profile not found for %s", userID)
		}

		prof.XPPoints += xp
		prof.Rank = RankForXP(prof.XPPoints)

		if err := tx.Save(&prof).Error; err != nil {
			return err
		}

		updated = &models.Profile{}
		*updated = prof

		log.Printf("🎮 XP Awarded: %s → XP=%d, Rank=%s (reason: %s)",
			userID, prof.XPPoints, prof.Rank, reason)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ProfileView is a profile plus the viewer-specific follow state.
type ProfileView struct {
	models.Profile
	FollowedByViewer bool `json:"followed_by_viewer"`
}

// GetByUsername loads a profile and, for an authenticated viewer, whether
// the viewer follows it.
func (s *ProfileService) GetByUsername(viewer *models.Viewer, username string) (*ProfileView, error) {
	var prof models.Profile
	if err := s.DB.Where("username = ?", username).First(&prof).Error; err != nil {
		return nil, err
	}

	view := &ProfileView{Profile: prof}
	if viewer != nil {
		var count int64
		if err := s.DB.Model(&models.Follow{}).
			Where("follower_id = ? AND following_id = ?", viewer.UserID, prof.UserID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		view.FollowedByViewer = count > 0
	}
	return view, nil
}

// UpdateOwnProfile applies the settings form to the viewer's own row.
func (s *ProfileService) UpdateOwnProfile(viewer *models.Viewer, displayName, bio, avatarURL *string) (*models.Profile, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}

	var prof models.Profile
	if err := s.DB.Where("user_id = ?", viewer.UserID).First(&prof).Error; err != nil {
		return nil, err
	}

	if displayName != nil {
		prof.DisplayName = displayName
	}
	if bio != nil {
		prof.Bio = bio
	}
	if avatarURL != nil {
		prof.AvatarURL = avatarURL
	}

	if err := s.DB.Save(&prof).Error; err != nil {
		return nil, err
	}
	return &prof, nil
}

// SetFollow makes the viewer's follow edge match the desired end state and
// recomputes both follower counts in the same transaction. Idempotent like
// SetLike.
func (s *ProfileService) SetFollow(viewer *models.Viewer, followingID string, following bool) (bool, error) {
	if viewer == nil {
		return false, ErrUnauthenticated
	}
	if followingID == viewer.UserID {
		return false, ErrSelfFollow
	}

	var target models.Profile
	if err := s.DB.Where("user_id = ?", followingID).First(&target).Error; err != nil {
		return false, err
	}

	changed := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if following {
			edge := models.Follow{
				ID:          uuid.NewString(),
				FollowerID:  viewer.UserID,
				FollowingID: followingID,
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge)
			if res.Error != nil {
				return res.Error
			}
			changed = res.RowsAffected > 0
		} else {
			res := tx.Where("follower_id = ? AND following_id = ?", viewer.UserID, followingID).
				Delete(&models.Follow{})
			if res.Error != nil {
				return res.Error
			}
			changed = res.RowsAffected > 0
		}

		if !changed {
			return nil
		}

		var followers, followed int64
		if err := tx.Model(&models.Follow{}).Where("following_id = ?", followingID).
			Count(&followers).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Profile{}).Where("user_id = ?", followingID).
			Update("followers_count", followers).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Follow{}).Where("follower_id = ?", viewer.UserID).
			Count(&followed).Error; err != nil {
			return err
		}
		return tx.Model(&models.Profile{}).Where("user_id = ?", viewer.UserID).
			Update("following_count", followed).Error
	})
	if err != nil {
		return false, err
	}

	if changed && following {
		notifSvc := NewNotificationService(s.DB)
		notifSvc.Notify(followingID, models.NotificationFollow, "New follower",
			fmt.Sprintf("@%s started following you", viewer.Username), nil)
	}

	return changed, nil
}

// Leaderboard returns the top profiles by XP, descending.
func (s *ProfileService) Leaderboard(limit int) ([]models.Profile, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var profiles []models.Profile
	if err := s.DB.Order("xp_points DESC").Limit(limit).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// ===== Fiber handlers =====

func (s *ProfileService) GetProfile(c *fiber.Ctx) error {
	view, err := s.GetByUsername(viewerFromCtx(c), c.Params("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
		}
		return preconditionError(c, err, "failed to fetch profile")
	}
	return c.JSON(view)
}

func (s *ProfileService) UpdateProfile(c *fiber.Ctx) error {
	var input struct {
		DisplayName *string `json:"display_name"`
		Bio         *string `json:"bio"`
		AvatarURL   *string `json:"avatar_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	prof, err := s.UpdateOwnProfile(viewerFromCtx(c), input.DisplayName, input.Bio, input.AvatarURL)
	if err != nil {
		return preconditionError(c, err, "failed to update profile")
	}
	return c.JSON(prof)
}

func (s *ProfileService) Follow(c *fiber.Ctx) error {
	var input struct {
		FollowingID string `json:"following_id"`
		Following   bool   `json:"following"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	changed, err := s.SetFollow(viewerFromCtx(c), input.FollowingID, input.Following)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
		}
		return preconditionError(c, err, "failed to update follow")
	}
	return c.JSON(fiber.Map{"following": input.Following, "changed": changed})
}

func (s *ProfileService) GetLeaderboard(c *fiber.Ctx) error {
	profiles, err := s.Leaderboard(c.QueryInt("limit", 50))
	if err != nil {
		return preconditionError(c, err, "failed to fetch leaderboard")
	}
	return c.JSON(profiles)
}
