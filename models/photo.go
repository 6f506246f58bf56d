package models

import (
	"errors"
	"fmt"
	"log"
	"server/db"
	"server/storage"
	"strconv"
	"time"

	"gorm.io/gorm"
)

type Photo struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64  `gorm:"index:user_photo_created,priority:2"`
	AlbumID     uint64 `gorm:"not null;index"`
	Album       Album  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID      uint64 `gorm:"not null;index:user_photo_created,priority:1"`
	User        User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Title       string `gorm:"type:varchar(300)"`
	Description string `gorm:"type:text"`
	URL         string `gorm:"type:varchar(2000)"`
	ThumbURL    string `gorm:"type:varchar(2000)"`
	StorageID   string `gorm:"type:varchar(300);index"`
	BucketID    *uint64
	Size        int64   `gorm:"not null;default:0"` // Stored bytes (original + thumb), counts against the owner's quota
	AspectRatio float64 `gorm:"not null;default:1"`
	Likes       int64   `gorm:"not null;default:0"`
	Comments    int64   `gorm:"not null;default:0"`
	SearchText  string  `gorm:"type:varchar(700);index"`
}

// GetPath returns the storage location of the original file, for example
// user/3/551cf7ac.jpg. Thumbs are always JPEG.
func (p *Photo) GetPath() string {
	return p.GetPathOrThumb(false)
}

func (p *Photo) GetThumbPath() string {
	return p.GetPathOrThumb(true)
}

func (p *Photo) GetPathOrThumb(thumb bool) string {
	path := "user/" + strconv.FormatUint(p.UserID, 10) + "/" + p.StorageID
	if thumb {
		path += "_thumb.jpg"
	} else {
		path += ".jpg"
	}
	return path
}

type PhotoAddInput struct {
	AlbumID     uint64
	Title       string
	Description string
	URL         string
	ThumbURL    string
	StorageID   string
	BucketID    *uint64
	Size        int64
	AspectRatio float64
}

// PhotoAdd creates the photo row and, atomically with it, bumps the album's
// photo count and the owner's total. The album's first photo becomes its
// cover.
func PhotoAdd(userID uint64, in PhotoAddInput) (photo Photo, err error) {
	if in.AspectRatio <= 0 {
		return photo, fmt.Errorf("%w: aspect ratio must be positive", ErrInvalidArgument)
	}
	if in.URL == "" || in.ThumbURL == "" {
		return photo, fmt.Errorf("%w: photo URLs are required", ErrInvalidArgument)
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		var album Album
		if err := tx.First(&album, "id = ?", in.AlbumID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: album %d", ErrNotFound, in.AlbumID)
			}
			return err
		}
		if album.UserID != userID {
			return fmt.Errorf("%w: not the album owner", ErrPermissionDenied)
		}
		photo = Photo{
			AlbumID:     in.AlbumID,
			UserID:      userID,
			Title:       in.Title,
			Description: in.Description,
			URL:         in.URL,
			ThumbURL:    in.ThumbURL,
			StorageID:   in.StorageID,
			BucketID:    in.BucketID,
			Size:        in.Size,
			AspectRatio: in.AspectRatio,
			CreatedAt:   time.Now().Unix(),
			SearchText:  BuildSearchText(in.Title, in.Description),
		}
		if err := tx.Create(&photo).Error; err != nil {
			return err
		}
		if err := tx.Model(&Album{}).Where("id = ?", album.ID).UpdateColumns(map[string]any{
			"photo_count": counterInc("photo_count"),
			"updated_at":  time.Now().Unix(),
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&User{}).Where("id = ?", userID).UpdateColumns(map[string]any{
			"total_photos": counterInc("total_photos"),
			"storage_used": counterIncBy("storage_used", in.Size),
		}).Error; err != nil {
			return err
		}
		if album.PhotoCount == 0 && album.CoverImage == "" {
			return tx.Model(&Album{}).Where("id = ?", album.ID).
				UpdateColumn("cover_image", photo.ThumbURL).Error
		}
		return nil
	})
	return photo, err
}

func PhotoGet(photoID uint64) (photo Photo, err error) {
	if err = db.Instance.First(&photo, "id = ?", photoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return photo, fmt.Errorf("%w: photo %d", ErrNotFound, photoID)
		}
		return photo, err
	}
	return photo, nil
}

func PhotoByStorageID(storageID string) (photo Photo, err error) {
	if err = db.Instance.First(&photo, "storage_id = ?", storageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return photo, fmt.Errorf("%w: photo %s", ErrNotFound, storageID)
		}
		return photo, err
	}
	return photo, nil
}

func PhotoUpdate(userID, photoID uint64, title, description *string) (photo Photo, err error) {
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&photo, "id = ?", photoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: photo %d", ErrNotFound, photoID)
			}
			return err
		}
		if photo.UserID != userID {
			return fmt.Errorf("%w: not the photo owner", ErrPermissionDenied)
		}
		if title != nil {
			photo.Title = *title
		}
		if description != nil {
			photo.Description = *description
		}
		photo.SearchText = BuildSearchText(photo.Title, photo.Description)
		return tx.Save(&photo).Error
	})
	return photo, err
}

func PhotoDelete(userID, photoID uint64) error {
	var photo Photo
	if err := db.Instance.First(&photo, "id = ?", photoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: photo %d", ErrNotFound, photoID)
		}
		return err
	}
	if photo.UserID != userID {
		return fmt.Errorf("%w: not the photo owner", ErrPermissionDenied)
	}
	return photoPurge(&photo)
}

// PhotosDelete removes a batch of owned photos, each with the full per-photo
// cascade. Missing ids are skipped so a retried request converges; a photo
// owned by someone else aborts before anything is deleted.
func PhotosDelete(userID uint64, photoIDs []uint64) (deleted int64, err error) {
	var photos []Photo
	for _, photoID := range photoIDs {
		var photo Photo
		if err = db.Instance.First(&photo, "id = ?", photoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = nil
				continue
			}
			return 0, err
		}
		if photo.UserID != userID {
			return 0, fmt.Errorf("%w: not the owner of photo %d", ErrPermissionDenied, photo.ID)
		}
		photos = append(photos, photo)
	}
	for i := range photos {
		if err = photoPurge(&photos[i]); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// photoPurge removes the photo and its dependents (likes, comments,
// bookmarks) and fixes up the album and owner counters, all in one
// transaction. The stored files are deleted afterwards, best-effort: a
// storage failure is logged and never blocks row cleanup.
func photoPurge(photo *Photo) error {
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Like{}, "photo_id = ?", photo.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&Comment{}, "photo_id = ?", photo.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&Bookmark{}, "photo_id = ?", photo.ID).Error; err != nil {
			return err
		}
		result := tx.Delete(&Photo{}, "id = ?", photo.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Row already removed by an earlier run; dependents above were
			// deleted idempotently, nothing left to account for.
			return nil
		}
		if err := tx.Model(&Album{}).Where("id = ?", photo.AlbumID).UpdateColumns(map[string]any{
			"photo_count": counterDec("photo_count"),
			"updated_at":  time.Now().Unix(),
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&User{}).Where("id = ?", photo.UserID).UpdateColumns(map[string]any{
			"total_photos": counterDec("total_photos"),
			"storage_used": counterDecBy("storage_used", photo.Size),
		}).Error; err != nil {
			return err
		}
		var album Album
		if err := tx.First(&album, "id = ?", photo.AlbumID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // album purge in progress, cover is moot
			}
			return err
		}
		if album.CoverImage == photo.ThumbURL {
			return albumRecomputeCover(tx, album.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	photoDeleteFiles(photo)
	return nil
}

func photoDeleteFiles(photo *Photo) {
	if photo.StorageID == "" || photo.BucketID == nil {
		return
	}
	backend := storage.StorageForBucketID(*photo.BucketID)
	if backend == nil {
		log.Printf("photo %d: no storage backend for bucket %d", photo.ID, *photo.BucketID)
		return
	}
	if err := backend.Delete(photo.GetPath()); err != nil {
		log.Printf("photo %d: deleting original failed: %v", photo.ID, err)
	}
	if err := backend.Delete(photo.GetThumbPath()); err != nil {
		log.Printf("photo %d: deleting thumb failed: %v", photo.ID, err)
	}
}
