package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"seefinish-platform/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Precondition failures shared by the mutation actions. These are checked
// client-side (before any write) and surfaced as notices, never retried.
var (
	ErrUnauthenticated = errors.New("you must be logged in to do this")
	ErrEmptyContent    = errors.New("content must not be empty")
	ErrContentTooLong  = errors.New("content is limited to 280 characters")
	ErrNotOwner        = errors.New("only the author can delete this")
	ErrInvalidTarget   = errors.New("invalid like target")
	ErrSelfFollow      = errors.New("you cannot follow yourself")
)

const maxRoastLength = 280

type RoastService struct {
	DB *gorm.DB
}

func NewRoastService(db *gorm.DB) *RoastService {
	return &RoastService{DB: db}
}

// RoastFeedItem is a roast row joined with its author and augmented with
// the viewer-specific like state. LikesCount on the embedded row is the
// server-maintained aggregate; LikedByViewer only picks the icon state.
type RoastFeedItem struct {
	models.Roast
	LikedByViewer bool `json:"liked_by_viewer"`
}

// FetchFeed returns the newest-first window of at most limit roasts with
// authors preloaded, augmented with the viewer's liked set. There is no
// cursor pagination — only the most-recent window.
func (s *RoastService) FetchFeed(viewer *models.Viewer, limit int) ([]RoastFeedItem, error) {
	if limit < 0 {
		limit = 0
	}

	var roasts []models.Roast
	if err := s.DB.Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Find(&roasts).Error; err != nil {
		return nil, err
	}

	ids := make([]string, len(roasts))
	for i, r := range roasts {
		ids[i] = r.ID
	}

	liked, err := viewerLikedSet(s.DB, viewer, models.TargetRoast, ids)
	if err != nil {
		return nil, err
	}

	items := make([]RoastFeedItem, len(roasts))
	for i, r := range roasts {
		items[i] = RoastFeedItem{Roast: r, LikedByViewer: liked[r.ID]}
	}
	return items, nil
}

// Create inserts a roast after the auth and non-empty-content gates pass.
// Content is trimmed before the write; media must already be an uploaded
// public URL.
func (s *RoastService) Create(viewer *models.Viewer, content string, mediaURL, targetUserID *string) (*models.Roast, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len([]rune(content)) > maxRoastLength {
		return nil, ErrContentTooLong
	}

	roast := &models.Roast{
		ID:           uuid.NewString(),
		AuthorID:     viewer.UserID,
		Content:      content,
		MediaURL:     mediaURL,
		TargetUserID: targetUserID,
	}

	if err := s.DB.Create(roast).Error; err != nil {
		return nil, err
	}

	profileSvc := NewProfileService(s.DB)
	if _, err := profileSvc.AwardXP(viewer.UserID, DefaultXPWeights.RoastXP, "roast_created"); err != nil {
		log.Printf("[ROASTS] XP award failed for %s: %v", viewer.UserID, err)
	}

	return roast, nil
}

// Delete removes the viewer's own roast (soft delete) and hard-deletes its
// dependent likes and comments, which have no standalone value.
func (s *RoastService) Delete(viewer *models.Viewer, roastID string) error {
	if viewer == nil {
		return ErrUnauthenticated
	}

	var roast models.Roast
	if err := s.DB.First(&roast, "id = ?", roastID).Error; err != nil {
		return err
	}
	if roast.AuthorID != viewer.UserID {
		return ErrNotOwner
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetRoast, roastID).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetRoast, roastID).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&roast).Error
	})
}

// SetLike makes the viewer's like on target match the desired end state.
// It is idempotent: repeating the same call is a no-op, so a stale second
// toggle cannot double-insert or double-delete. The aggregate count is
// recomputed from the child rows inside the same transaction.
func (s *RoastService) SetLike(viewer *models.Viewer, target models.LikeTarget, liked bool) (bool, error) {
	if viewer == nil {
		return false, ErrUnauthenticated
	}
	if !models.IsValidTargetKind(target.Kind) {
		return false, ErrInvalidTarget
	}

	var authorID string
	switch target.Kind {
	case models.TargetRoast:
		var roast models.Roast
		if err := s.DB.First(&roast, "id = ?", target.ID).Error; err != nil {
			return false, err
		}
		authorID = roast.AuthorID
	case models.TargetDebate:
		var debate models.Debate
		if err := s.DB.First(&debate, "id = ?", target.ID).Error; err != nil {
			return false, err
		}
		authorID = debate.OrganizerID
	}

	changed := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if liked {
			like := models.Like{
				ID:         uuid.NewString(),
				UserID:     viewer.UserID,
				TargetKind: target.Kind,
				TargetID:   target.ID,
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
			if res.Error != nil {
				return res.Error
			}
			changed = res.RowsAffected > 0
		} else {
			res := tx.Where("user_id = ? AND target_kind = ? AND target_id = ?",
				viewer.UserID, target.Kind, target.ID).Delete(&models.Like{})
			if res.Error != nil {
				return res.Error
			}
			changed = res.RowsAffected > 0
		}

		// Debates carry no likes_count column; only roasts own the aggregate.
		if target.Kind == models.TargetRoast {
			var count int64
			if err := tx.Model(&models.Like{}).
				Where("target_kind = ? AND target_id = ?", target.Kind, target.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Roast{}).Where("id = ?", target.ID).
				Update("likes_count", count).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if changed && liked && authorID != viewer.UserID {
		notifSvc := NewNotificationService(s.DB)
		notifSvc.Notify(authorID, models.NotificationLike, "New like",
			fmt.Sprintf("@%s liked your %s", viewer.Username, target.Kind), &target.ID)

		profileSvc := NewProfileService(s.DB)
		if _, err := profileSvc.AwardXP(authorID, DefaultXPWeights.LikeReceivedXP, "like_received"); err != nil {
			log.Printf("[ROASTS] XP award failed for %s: %v", authorID, err)
		}
	}

	return changed, nil
}

// Comments returns the newest-first comments for a target with authors
// preloaded.
func (s *RoastService) Comments(target models.LikeTarget, limit int) ([]models.Comment, error) {
	if !models.IsValidTargetKind(target.Kind) {
		return nil, ErrInvalidTarget
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var comments []models.Comment
	if err := s.DB.Preload("Author").
		Where("target_kind = ? AND target_id = ?", target.Kind, target.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment inserts a comment and recomputes the parent's comments_count
// aggregate in one transaction. The caller prepends the returned comment
// locally; the next refresh replaces the whole list anyway.
func (s *RoastService) AddComment(viewer *models.Viewer, target models.LikeTarget, content string) (*models.Comment, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if !models.IsValidTargetKind(target.Kind) {
		return nil, ErrInvalidTarget
	}

	var authorID string
	if target.Kind == models.TargetRoast {
		var roast models.Roast
		if err := s.DB.First(&roast, "id = ?", target.ID).Error; err != nil {
			return nil, err
		}
		authorID = roast.AuthorID
	} else {
		var debate models.Debate
		if err := s.DB.First(&debate, "id = ?", target.ID).Error; err != nil {
			return nil, err
		}
		authorID = debate.OrganizerID
	}

	comment := &models.Comment{
		ID:         uuid.NewString(),
		AuthorID:   viewer.UserID,
		TargetKind: target.Kind,
		TargetID:   target.ID,
		Content:    content,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if target.Kind == models.TargetRoast {
			var count int64
			if err := tx.Model(&models.Comment{}).
				Where("target_kind = ? AND target_id = ?", target.Kind, target.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Roast{}).Where("id = ?", target.ID).
				Update("comments_count", count).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	profileSvc := NewProfileService(s.DB)
	if _, err := profileSvc.AwardXP(viewer.UserID, DefaultXPWeights.CommentXP, "comment_created"); err != nil {
		log.Printf("[ROASTS] XP award failed for %s: %v", viewer.UserID, err)
	}

	if authorID != viewer.UserID {
		notifSvc := NewNotificationService(s.DB)
		notifSvc.Notify(authorID, models.NotificationComment, "New comment",
			fmt.Sprintf("@%s commented on your %s", viewer.Username, target.Kind), &target.ID)
	}

	return comment, nil
}

// ===== Fiber handlers =====

// GetFeed returns the roast feed window. Public; the viewer, when present,
// adds liked_by_viewer flags.
func (s *RoastService) GetFeed(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit > 50 {
		limit = 50
	}

	items, err := s.FetchFeed(viewerFromCtx(c), limit)
	if err != nil {
		log.Printf("❌ [ROASTS] feed fetch failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch roasts"})
	}
	return c.JSON(items)
}

// CreateRoast handles the roast-creation form submit.
func (s *RoastService) CreateRoast(c *fiber.Ctx) error {
	var input struct {
		Content      string  `json:"content"`
		MediaURL     *string `json:"media_url"`
		TargetUserID *string `json:"target_user_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	roast, err := s.Create(viewerFromCtx(c), input.Content, input.MediaURL, input.TargetUserID)
	if err != nil {
		return preconditionError(c, err, "failed to create roast")
	}
	return c.Status(fiber.StatusCreated).JSON(roast)
}

// DeleteRoast removes the viewer's own roast.
func (s *RoastService) DeleteRoast(c *fiber.Ctx) error {
	err := s.Delete(viewerFromCtx(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "roast not found"})
		}
		if errors.Is(err, ErrNotOwner) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		}
		return preconditionError(c, err, "failed to delete roast")
	}
	return c.JSON(fiber.Map{"message": "roast deleted", "id": c.Params("id")})
}

// ToggleLike sets the viewer's like to the desired end state.
func (s *RoastService) ToggleLike(c *fiber.Ctx) error {
	var input struct {
		TargetKind string `json:"target_kind"`
		TargetID   string `json:"target_id"`
		Liked      bool   `json:"liked"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	changed, err := s.SetLike(viewerFromCtx(c),
		models.LikeTarget{Kind: input.TargetKind, ID: input.TargetID}, input.Liked)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "target not found"})
		}
		return preconditionError(c, err, "failed to update like")
	}
	return c.JSON(fiber.Map{"liked": input.Liked, "changed": changed})
}

// GetComments lists comments for a roast or debate.
func (s *RoastService) GetComments(c *fiber.Ctx) error {
	target := models.LikeTarget{Kind: c.Query("target_kind"), ID: c.Query("target_id")}
	comments, err := s.Comments(target, c.QueryInt("limit", 50))
	if err != nil {
		return preconditionError(c, err, "failed to fetch comments")
	}
	return c.JSON(comments)
}

// CreateComment inserts a comment on a roast or debate.
func (s *RoastService) CreateComment(c *fiber.Ctx) error {
	var input struct {
		TargetKind string `json:"target_kind"`
		TargetID   string `json:"target_id"`
		Content    string `json:"content"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	comment, err := s.AddComment(viewerFromCtx(c),
		models.LikeTarget{Kind: input.TargetKind, ID: input.TargetID}, input.Content)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "target not found"})
		}
		return preconditionError(c, err, "failed to create comment")
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
