package web

import (
	"net/http"
	"server/db"
	"server/handlers"
	"server/models"
	"server/storage"

	"github.com/gin-gonic/gin"
)

// AlbumView is the public album page behind a share token. The token grants
// read access to the album and its photos regardless of the privacy flag.
func AlbumView(c *gin.Context) {
	share, err := models.AlbumShareByToken(c.Param("token"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	album, err := models.AlbumGet(share.AlbumID)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	var owner models.User
	ownerName := ""
	if db.Instance.First(&owner, "id = ?", album.UserID).Error == nil {
		ownerName = "@" + owner.Username
	}
	var photos []models.Photo
	if err := db.Instance.Where("album_id = ?", album.ID).Order("created_at ASC, id ASC").Find(&photos).Error; err != nil {
		handlers.Error(c, err)
		return
	}
	type sharedPhoto struct {
		ID          uint64  `json:"id"`
		Title       string  `json:"title"`
		Path        string  `json:"path"`
		AspectRatio float64 `json:"aspect_ratio"`
		CreatedAt   int64   `json:"created_at"`
	}
	result := []sharedPhoto{}
	for _, photo := range photos {
		result = append(result, sharedPhoto{
			ID:          photo.ID,
			Title:       photo.Title,
			Path:        "/w/album/" + share.Token + "/photo?sid=" + photo.StorageID,
			AspectRatio: photo.AspectRatio,
			CreatedAt:   photo.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"title":       album.Title,
		"description": album.Description,
		"ownerName":   ownerName,
		"photos":      result,
	})
}

// AlbumPhotoView serves one photo's bytes to a share token holder. The token
// replaces the session privacy check, but only for photos inside the shared
// album.
func AlbumPhotoView(c *gin.Context) {
	share, err := models.AlbumShareByToken(c.Param("token"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	photo, err := models.PhotoByStorageID(c.Query("sid"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if photo.AlbumID != share.AlbumID {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "photo not found"})
		return
	}
	if photo.BucketID == nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "no stored file"})
		return
	}
	backend := storage.StorageForBucketID(*photo.BucketID)
	if backend == nil {
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: "no storage backend"})
		return
	}
	backend.Serve(photo.GetPathOrThumb(c.Query("thumb") == "1"), c.Request, c.Writer)
}
