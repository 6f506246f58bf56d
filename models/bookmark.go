package models

import (
	"errors"
	"fmt"
	"server/db"
	"time"

	"gorm.io/gorm"
)

// Bookmarks have no counter on the photo (the count is not displayed
// anywhere) but keep the same idempotent-add / must-exist-remove contract
// as likes.
type Bookmark struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UserID    uint64 `gorm:"not null;index:uniq_bookmark_user_photo,unique,priority:1"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PhotoID   uint64 `gorm:"not null;index:uniq_bookmark_user_photo,unique,priority:2;index"`
	Photo     Photo  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func BookmarkPhoto(userID, photoID uint64) (bookmark Bookmark, created bool, err error) {
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		var photo Photo
		if err := tx.First(&photo, "id = ?", photoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: photo %d", ErrNotFound, photoID)
			}
			return err
		}
		bookmark = Bookmark{UserID: userID, PhotoID: photoID}
		result := tx.Where("user_id = ? AND photo_id = ?", userID, photoID).
			Attrs(Bookmark{CreatedAt: time.Now().Unix()}).
			FirstOrCreate(&bookmark)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil // already bookmarked
		}
		created = true
		return activityAdd(tx, Activity{
			ActorID:      userID,
			TargetUserID: photo.UserID,
			Type:         ActivityBookmark,
			PhotoID:      &photo.ID,
		})
	})
	return bookmark, created, err
}

func UnbookmarkPhoto(userID, photoID uint64) (bookmarkID uint64, err error) {
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		var bookmark Bookmark
		if err := tx.First(&bookmark, "user_id = ? AND photo_id = ?", userID, photoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: photo is not bookmarked", ErrInvalidState)
			}
			return err
		}
		bookmarkID = bookmark.ID
		return tx.Delete(&Bookmark{}, "id = ?", bookmark.ID).Error
	})
	return bookmarkID, err
}

func PhotoIsBookmarked(userID, photoID uint64) bool {
	if userID == 0 {
		return false
	}
	var count int64
	db.Instance.Model(&Bookmark{}).Where("user_id = ? AND photo_id = ?", userID, photoID).Count(&count)
	return count > 0
}

func BookmarkedPhotoIDs(userID uint64) (map[uint64]bool, error) {
	ids := map[uint64]bool{}
	if userID == 0 {
		return ids, nil
	}
	var rows []Bookmark
	if err := db.Instance.Select("photo_id").Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		ids[row.PhotoID] = true
	}
	return ids, nil
}
