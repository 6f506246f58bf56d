package models

import (
	"errors"
	"fmt"
	"server/db"
	"server/utils"
	"time"

	"gorm.io/gorm"
)

// AlbumShare is a public link to an album, addressed by an unguessable
// token. Anyone holding the token can view the album's photos regardless of
// the privacy flag.
type AlbumShare struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UserID    uint64 `gorm:"not null"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AlbumID   uint64 `gorm:"not null;index"`
	Album     Album  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Token     string `gorm:"type:varchar(100);index:uniq_share_token,unique"`
}

// AlbumShareCreate returns the existing share for the album if one exists,
// otherwise mints a new token. Owner-only.
func AlbumShareCreate(userID, albumID uint64) (share AlbumShare, err error) {
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		var album Album
		if err := tx.First(&album, "id = ?", albumID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: album %d", ErrNotFound, albumID)
			}
			return err
		}
		if album.UserID != userID {
			return fmt.Errorf("%w: not the album owner", ErrPermissionDenied)
		}
		share = AlbumShare{UserID: userID, AlbumID: albumID}
		return tx.Where("user_id = ? AND album_id = ?", userID, albumID).
			Attrs(AlbumShare{
				Token:     utils.Rand16BytesToBase62(),
				CreatedAt: time.Now().Unix(),
			}).
			FirstOrCreate(&share).Error
	})
	return share, err
}

func AlbumShareByToken(token string) (share AlbumShare, err error) {
	if err = db.Instance.First(&share, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return share, fmt.Errorf("%w: share token", ErrNotFound)
		}
		return share, err
	}
	return share, nil
}
