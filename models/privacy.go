package models

import (
	"server/db"

	"gorm.io/gorm"
)

// PrivacyCache memoizes album visibility lookups for the duration of a
// single query, so a page of photos from the same album resolves the album
// once. It lives on one goroutine for one request; a plain map is enough.
type PrivacyCache map[uint64]*Album

func NewPrivacyCache() PrivacyCache {
	return PrivacyCache{}
}

func (pc PrivacyCache) album(tx *gorm.DB, albumID uint64) *Album {
	if album, ok := pc[albumID]; ok {
		return album
	}
	var album Album
	if err := tx.First(&album, "id = ?", albumID).Error; err != nil {
		pc[albumID] = nil
		return nil
	}
	pc[albumID] = &album
	return &album
}

// PhotoVisible resolves the photo's album and applies the privacy rule.
// A photo whose album no longer exists is never visible.
func (pc PrivacyCache) PhotoVisible(photo *Photo, requesterID uint64) bool {
	album := pc.album(db.Instance, photo.AlbumID)
	if album == nil {
		return false
	}
	return album.VisibleTo(requesterID)
}

// AlbumVisible applies the privacy rule to an album id.
func (pc PrivacyCache) AlbumVisible(albumID, requesterID uint64) bool {
	album := pc.album(db.Instance, albumID)
	if album == nil {
		return false
	}
	return album.VisibleTo(requesterID)
}
