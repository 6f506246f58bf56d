package models

import (
	"fmt"
	"server/db"
	"time"

	"gorm.io/gorm"
)

// ActivityType is a closed set; each variant has a reference-presence
// contract enforced on insert.
type ActivityType string

const (
	ActivityLike         ActivityType = "like"
	ActivityComment      ActivityType = "comment"
	ActivityFollow       ActivityType = "follow"
	ActivityBookmark     ActivityType = "bookmark"
	ActivityAlbumComment ActivityType = "album_comment"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityLike, ActivityComment, ActivityFollow, ActivityBookmark, ActivityAlbumComment:
		return true
	}
	return false
}

type Activity struct {
	ID           uint64 `gorm:"primaryKey"`
	CreatedAt    int64
	ActorID      uint64       `gorm:"not null;index"`
	Actor        User         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TargetUserID uint64       `gorm:"not null;index:target_read,priority:1"`
	TargetUser   User         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Type         ActivityType `gorm:"type:varchar(20);not null"`
	PhotoID      *uint64
	AlbumID      *uint64
	CommentID    *uint64
	Read         bool `gorm:"not null;default:false;index:target_read,priority:2"`
}

// activityAdd runs inside the triggering mutation's transaction so the
// notification commits (or rolls back) together with the row and counter it
// describes. Self-actions are silently suppressed.
func activityAdd(tx *gorm.DB, a Activity) error {
	if a.ActorID == a.TargetUserID {
		return nil
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: unknown activity type %q", ErrInvalidArgument, a.Type)
	}
	switch a.Type {
	case ActivityLike, ActivityComment, ActivityBookmark:
		if a.PhotoID == nil {
			return fmt.Errorf("%w: %s activity requires a photo", ErrInvalidArgument, a.Type)
		}
	case ActivityAlbumComment:
		if a.AlbumID == nil {
			return fmt.Errorf("%w: album_comment activity requires an album", ErrInvalidArgument)
		}
	}
	a.Read = false
	a.CreatedAt = time.Now().Unix()
	return tx.Create(&a).Error
}

// ActivitiesMarkRead flips the given notifications to read. Only rows owned
// by userID are touched; foreign or already-read ids are skipped, not errors.
func ActivitiesMarkRead(userID uint64, activityIDs []uint64) (int64, error) {
	if len(activityIDs) == 0 {
		return 0, nil
	}
	result := db.Instance.Model(&Activity{}).
		Where("target_user_id = ? AND read = ? AND id IN ?", userID, false, activityIDs).
		UpdateColumn("read", true)
	return result.RowsAffected, result.Error
}

func ActivitiesMarkAllRead(userID uint64) (int64, error) {
	result := db.Instance.Model(&Activity{}).
		Where("target_user_id = ? AND read = ?", userID, false).
		UpdateColumn("read", true)
	return result.RowsAffected, result.Error
}

func ActivitiesDelete(userID uint64, activityIDs []uint64) (int64, error) {
	if len(activityIDs) == 0 {
		return 0, nil
	}
	result := db.Instance.Delete(&Activity{}, "target_user_id = ? AND id IN ?", userID, activityIDs)
	return result.RowsAffected, result.Error
}

func ActivitiesClear(userID uint64) (int64, error) {
	result := db.Instance.Delete(&Activity{}, "target_user_id = ?", userID)
	return result.RowsAffected, result.Error
}

func ActivitiesUnreadCount(userID uint64) (int64, error) {
	var count int64
	err := db.Instance.Model(&Activity{}).
		Where("target_user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}
