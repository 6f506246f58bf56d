package models

import (
	"errors"
	"fmt"
	"server/db"
	"time"

	"gorm.io/gorm"
)

type Album struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64  `gorm:"index:user_album_created,priority:2"`
	UpdatedAt   int64
	UserID      uint64 `gorm:"not null;index:user_album_created,priority:1"`
	User        User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Title       string `gorm:"type:varchar(300)"`
	Description string `gorm:"type:text"`
	IsPrivate   bool   `gorm:"not null;default:false;index"`
	PhotoCount  int64  `gorm:"not null;default:0"`
	CoverImage  string `gorm:"type:varchar(2000)"` // thumbnail URL of one of the album's photos, empty iff the album is empty
	SearchText  string `gorm:"type:varchar(700);index"`
}

// VisibleTo is the privacy rule: private albums are visible to their owner
// only. requesterID 0 means anonymous.
func (a *Album) VisibleTo(requesterID uint64) bool {
	return !a.IsPrivate || a.UserID == requesterID
}

func AlbumCreate(userID uint64, title, description string, isPrivate bool, coverImage string) (album Album, err error) {
	if title == "" {
		return album, fmt.Errorf("%w: album title is required", ErrInvalidArgument)
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		var user User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", ErrNotFound, userID)
			}
			return err
		}
		now := time.Now().Unix()
		album = Album{
			UserID:      userID,
			Title:       title,
			Description: description,
			IsPrivate:   isPrivate,
			CoverImage:  coverImage,
			CreatedAt:   now,
			UpdatedAt:   now,
			SearchText:  BuildSearchText(title, description),
		}
		if err := tx.Create(&album).Error; err != nil {
			return err
		}
		return tx.Model(&User{}).Where("id = ?", userID).
			UpdateColumn("album_count", counterInc("album_count")).Error
	})
	return album, err
}

func AlbumGet(albumID uint64) (album Album, err error) {
	if err = db.Instance.First(&album, "id = ?", albumID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return album, fmt.Errorf("%w: album %d", ErrNotFound, albumID)
		}
		return album, err
	}
	return album, nil
}

type AlbumChanges struct {
	Title       *string
	Description *string
	IsPrivate   *bool
	CoverImage  *string
}

func AlbumUpdate(userID, albumID uint64, in AlbumChanges) (album Album, err error) {
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&album, "id = ?", albumID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: album %d", ErrNotFound, albumID)
			}
			return err
		}
		if album.UserID != userID {
			return fmt.Errorf("%w: not the album owner", ErrPermissionDenied)
		}
		if in.Title != nil {
			if *in.Title == "" {
				return fmt.Errorf("%w: album title is required", ErrInvalidArgument)
			}
			album.Title = *in.Title
		}
		if in.Description != nil {
			album.Description = *in.Description
		}
		if in.IsPrivate != nil {
			album.IsPrivate = *in.IsPrivate
		}
		if in.CoverImage != nil {
			album.CoverImage = *in.CoverImage
		}
		album.UpdatedAt = time.Now().Unix()
		album.SearchText = BuildSearchText(album.Title, album.Description)
		return tx.Save(&album).Error
	})
	return album, err
}

// AlbumDelete cascades through every photo in the album (likes, comments,
// bookmarks, stored files) before removing the album row itself.
func AlbumDelete(userID, albumID uint64) error {
	var album Album
	if err := db.Instance.First(&album, "id = ?", albumID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: album %d", ErrNotFound, albumID)
		}
		return err
	}
	if album.UserID != userID {
		return fmt.Errorf("%w: not the album owner", ErrPermissionDenied)
	}
	return albumPurge(&album)
}

// albumPurge assumes ownership has been checked. The photo loop runs one
// transaction per photo rather than a single unbounded one; a purge
// interrupted halfway can simply be re-run.
func albumPurge(album *Album) error {
	var photos []Photo
	if err := db.Instance.Where("album_id = ?", album.ID).Find(&photos).Error; err != nil {
		return err
	}
	for i := range photos {
		if err := photoPurge(&photos[i]); err != nil {
			return err
		}
	}
	if err := db.Instance.Delete(&AlbumShare{}, "album_id = ?", album.ID).Error; err != nil {
		return err
	}
	return db.Instance.Transaction(func(tx *gorm.DB) error {
		var current Album
		if err := tx.First(&current, "id = ?", album.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // already gone, safe re-run
			}
			return err
		}
		if err := tx.Delete(&Album{}, "id = ?", album.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&User{}).Where("id = ?", album.UserID).
			UpdateColumn("album_count", counterDec("album_count")).Error; err != nil {
			return err
		}
		// The photo purges above have already walked photo_count down to
		// zero; anything left over is drift from an interrupted earlier run.
		if current.PhotoCount > 0 {
			return tx.Model(&User{}).Where("id = ?", album.UserID).
				UpdateColumn("total_photos", counterDecBy("total_photos", current.PhotoCount)).Error
		}
		return nil
	})
}

// albumRecomputeCover picks any remaining photo's thumbnail as the album
// cover, or clears it when the album is empty.
func albumRecomputeCover(tx *gorm.DB, albumID uint64) error {
	var next Photo
	result := tx.Where("album_id = ?", albumID).Limit(1).Find(&next)
	if result.Error != nil {
		return result.Error
	}
	cover := ""
	if result.RowsAffected > 0 {
		cover = next.ThumbURL
	}
	return tx.Model(&Album{}).Where("id = ?", albumID).
		UpdateColumn("cover_image", cover).Error
}
