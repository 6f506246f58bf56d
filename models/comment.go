package models

import (
	"errors"
	"fmt"
	"server/db"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	PhotoID   uint64 `gorm:"not null;index"`
	Photo     Photo  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID    uint64 `gorm:"not null;index"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Content   string `gorm:"type:text"`
}

// CommentAdd always creates a new row - comments are not unique per user.
func CommentAdd(userID, photoID uint64, content string) (comment Comment, err error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return comment, fmt.Errorf("%w: comment content is required", ErrInvalidArgument)
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		var photo Photo
		if err := tx.First(&photo, "id = ?", photoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: photo %d", ErrNotFound, photoID)
			}
			return err
		}
		comment = Comment{
			PhotoID:   photoID,
			UserID:    userID,
			Content:   content,
			CreatedAt: time.Now().Unix(),
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		if err := tx.Model(&Photo{}).Where("id = ?", photoID).
			UpdateColumn("comments", counterInc("comments")).Error; err != nil {
			return err
		}
		return activityAdd(tx, Activity{
			ActorID:      userID,
			TargetUserID: photo.UserID,
			Type:         ActivityComment,
			PhotoID:      &photo.ID,
			CommentID:    &comment.ID,
		})
	})
	return comment, err
}

// CommentDelete is allowed for the comment's author and for the owner of the
// commented photo.
func CommentDelete(userID, commentID uint64) error {
	return db.Instance.Transaction(func(tx *gorm.DB) error {
		var comment Comment
		if err := tx.First(&comment, "id = ?", commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
			}
			return err
		}
		if comment.UserID != userID {
			var photo Photo
			err := tx.First(&photo, "id = ?", comment.PhotoID).Error
			if err != nil || photo.UserID != userID {
				return fmt.Errorf("%w: not the comment author or photo owner", ErrPermissionDenied)
			}
		}
		if err := tx.Delete(&Comment{}, "id = ?", commentID).Error; err != nil {
			return err
		}
		return tx.Model(&Photo{}).Where("id = ?", comment.PhotoID).
			UpdateColumn("comments", counterDec("comments")).Error
	})
}
