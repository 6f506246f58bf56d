package models

import (
	"errors"
	"fmt"
	"server/db"
	"time"

	"gorm.io/gorm"
)

type Like struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	PhotoID   uint64 `gorm:"not null;index:uniq_like_photo_user,unique,priority:1"`
	Photo     Photo  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID    uint64 `gorm:"not null;index:uniq_like_photo_user,unique,priority:2;index"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// LikePhoto is an idempotent add: an existing like is returned unchanged
// with no counter bump and no new activity. Otherwise the like row, the
// photo's counter and the owner's activity land in one transaction.
func LikePhoto(userID, photoID uint64) (like Like, created bool, err error) {
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		var photo Photo
		if err := tx.First(&photo, "id = ?", photoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: photo %d", ErrNotFound, photoID)
			}
			return err
		}
		like = Like{PhotoID: photoID, UserID: userID}
		result := tx.Where("photo_id = ? AND user_id = ?", photoID, userID).
			Attrs(Like{CreatedAt: time.Now().Unix()}).
			FirstOrCreate(&like)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil // already liked
		}
		created = true
		if err := tx.Model(&Photo{}).Where("id = ?", photoID).
			UpdateColumn("likes", counterInc("likes")).Error; err != nil {
			return err
		}
		return activityAdd(tx, Activity{
			ActorID:      userID,
			TargetUserID: photo.UserID,
			Type:         ActivityLike,
			PhotoID:      &photo.ID,
		})
	})
	return like, created, err
}

// UnlikePhoto requires an existing like; unliking twice is ErrInvalidState.
func UnlikePhoto(userID, photoID uint64) (likeID uint64, err error) {
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		var photo Photo
		if err := tx.First(&photo, "id = ?", photoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: photo %d", ErrNotFound, photoID)
			}
			return err
		}
		var like Like
		if err := tx.First(&like, "photo_id = ? AND user_id = ?", photoID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: photo is not liked", ErrInvalidState)
			}
			return err
		}
		likeID = like.ID
		if err := tx.Delete(&Like{}, "id = ?", like.ID).Error; err != nil {
			return err
		}
		return tx.Model(&Photo{}).Where("id = ?", photoID).
			UpdateColumn("likes", counterDec("likes")).Error
	})
	return likeID, err
}

// PhotoIsLiked is an enrichment lookup for listings.
func PhotoIsLiked(userID, photoID uint64) bool {
	if userID == 0 {
		return false
	}
	var count int64
	db.Instance.Model(&Like{}).Where("photo_id = ? AND user_id = ?", photoID, userID).Count(&count)
	return count > 0
}

// LikedPhotoIDs returns the set of photo ids the user has liked, used to
// mark a whole page of photos in one query.
func LikedPhotoIDs(userID uint64) (map[uint64]bool, error) {
	ids := map[uint64]bool{}
	if userID == 0 {
		return ids, nil
	}
	var rows []Like
	if err := db.Instance.Select("photo_id").Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		ids[row.PhotoID] = true
	}
	return ids, nil
}
