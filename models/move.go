package models

import (
	"errors"
	"fmt"
	"server/db"
	"time"

	"gorm.io/gorm"
)

// PhotosMove re-parents a batch of photos into the target album. Ownership
// is validated on the target and on every photo before anything is written.
// Counters are adjusted by what actually moved: ids that are missing or
// already in the target are skipped. Source albums that end up empty get
// their cover cleared; sources that lost their cover photo get a replacement
// picked from whatever remains.
func PhotosMove(userID uint64, photoIDs []uint64, targetAlbumID uint64) (moved int64, err error) {
	var target Album
	if err = db.Instance.First(&target, "id = ?", targetAlbumID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: album %d", ErrNotFound, targetAlbumID)
		}
		return 0, err
	}
	if target.UserID != userID {
		return 0, fmt.Errorf("%w: not the target album owner", ErrPermissionDenied)
	}

	// Validation pass: nothing is written until every photo checks out.
	var toMove []Photo
	for _, photoID := range photoIDs {
		var photo Photo
		if err = db.Instance.First(&photo, "id = ?", photoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return 0, err
		}
		if photo.UserID != userID {
			return 0, fmt.Errorf("%w: not the owner of photo %d", ErrPermissionDenied, photo.ID)
		}
		if photo.AlbumID == targetAlbumID {
			continue
		}
		toMove = append(toMove, photo)
	}
	if len(toMove) == 0 {
		return 0, nil
	}

	type sourceState struct {
		moved      int64
		movedThumb map[string]bool
	}
	sources := map[uint64]*sourceState{}
	for _, photo := range toMove {
		photo := photo
		err = db.Instance.Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&Photo{}).
				Where("id = ? AND album_id = ?", photo.ID, photo.AlbumID).
				UpdateColumn("album_id", targetAlbumID)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return nil // moved by a concurrent request, skip
			}
			state := sources[photo.AlbumID]
			if state == nil {
				state = &sourceState{movedThumb: map[string]bool{}}
				sources[photo.AlbumID] = state
			}
			state.moved++
			state.movedThumb[photo.ThumbURL] = true
			moved++
			return nil
		})
		if err != nil {
			return moved, err
		}
	}

	now := time.Now().Unix()
	if err = db.Instance.Model(&Album{}).Where("id = ?", targetAlbumID).UpdateColumns(map[string]any{
		"photo_count": counterIncBy("photo_count", moved),
		"updated_at":  now,
	}).Error; err != nil {
		return moved, err
	}
	if target.CoverImage == "" {
		if err = db.Instance.Transaction(func(tx *gorm.DB) error {
			return albumRecomputeCover(tx, targetAlbumID)
		}); err != nil {
			return moved, err
		}
	}

	for albumID, state := range sources {
		albumID, state := albumID, state
		err = db.Instance.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&Album{}).Where("id = ?", albumID).UpdateColumns(map[string]any{
				"photo_count": counterDecBy("photo_count", state.moved),
				"updated_at":  now,
			}).Error; err != nil {
				return err
			}
			var album Album
			if err := tx.First(&album, "id = ?", albumID).Error; err != nil {
				return err
			}
			if album.PhotoCount == 0 || state.movedThumb[album.CoverImage] {
				return albumRecomputeCover(tx, albumID)
			}
			return nil
		})
		if err != nil {
			return moved, err
		}
	}
	return moved, nil
}
