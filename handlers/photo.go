package handlers

import (
	"net/http"
	"server/db"
	"server/models"
	"server/paging"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"
)

type PhotoInfo struct {
	ID           uint64  `json:"id"`
	AlbumID      uint64  `json:"album_id"`
	UserID       uint64  `json:"user_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	URL          string  `json:"url"`
	ThumbURL     string  `json:"thumb_url"`
	AspectRatio  float64 `json:"aspect_ratio"`
	Likes        int64   `json:"likes"`
	Comments     int64   `json:"comments"`
	CreatedAt    int64   `json:"created_at"`
	IsLiked      bool    `json:"is_liked"`
	IsBookmarked bool    `json:"is_bookmarked"`
}

type PhotoSaveRequest struct {
	PhotoID     uint64  `form:"photo_id" binding:"required"`
	Title       *string `form:"title"`
	Description *string `form:"description"`
}

type PhotoIDRequest struct {
	PhotoID uint64 `form:"photo_id" binding:"required"`
}

type PhotoListRequest struct {
	PageRequest
	AlbumID uint64 `form:"album_id"`
	UserID  uint64 `form:"user_id"`
	Search  string `form:"search"`
}

type PhotoListResponse struct {
	Photos     []PhotoInfo `json:"photos"`
	NextCursor uint64      `json:"next_cursor"`
}

type PhotosMoveRequest struct {
	PhotoIDs []uint64 `form:"photo_ids" binding:"required"`
	AlbumID  uint64   `form:"album_id" binding:"required"`
}

type PhotoIDsRequest struct {
	PhotoIDs []uint64 `form:"photo_ids" binding:"required"`
}

func photoInfoFrom(p *models.Photo, requesterID uint64) PhotoInfo {
	info := PhotoInfo{
		ID:          p.ID,
		AlbumID:     p.AlbumID,
		UserID:      p.UserID,
		Title:       p.Title,
		Description: p.Description,
		URL:         p.URL,
		ThumbURL:    p.ThumbURL,
		AspectRatio: p.AspectRatio,
		Likes:       p.Likes,
		Comments:    p.Comments,
		CreatedAt:   p.CreatedAt,
	}
	if requesterID != 0 {
		info.IsLiked = models.PhotoIsLiked(requesterID, p.ID)
		info.IsBookmarked = models.PhotoIsBookmarked(requesterID, p.ID)
	}
	return info
}

// photoPageInfos enriches a whole page with the caller's like and bookmark
// sets loaded once, instead of two lookups per photo.
func photoPageInfos(photos []models.Photo, requesterID uint64) []PhotoInfo {
	liked, _ := models.LikedPhotoIDs(requesterID)
	bookmarked, _ := models.BookmarkedPhotoIDs(requesterID)
	result := []PhotoInfo{}
	for i := range photos {
		info := photoInfoFrom(&photos[i], 0)
		info.IsLiked = liked[photos[i].ID]
		info.IsBookmarked = bookmarked[photos[i].ID]
		result = append(result, info)
	}
	return result
}

// visibleAlbumIDs is a subquery of the albums requesterID may see, used to
// privacy-filter photo listings without joining (joins would make the paging
// columns ambiguous).
func visibleAlbumIDs(requesterID uint64) *gorm.DB {
	return db.Instance.Model(&models.Album{}).Select("id").
		Where("is_private = ? OR user_id = ?", false, requesterID)
}

type PhotoAddRequest struct {
	AlbumID     uint64  `form:"album_id" binding:"required"`
	Title       string  `form:"title"`
	Description string  `form:"description"`
	URL         string  `form:"url" binding:"required"`
	ThumbURL    string  `form:"thumb_url" binding:"required"`
	AspectRatio float64 `form:"aspect_ratio" binding:"required"`
}

// PhotoAdd registers an externally hosted photo by its URLs, with no file
// upload. The counter and cover side effects are the same as for uploads.
func PhotoAdd(c *gin.Context, user *models.User) {
	r := PhotoAddRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	photo, err := models.PhotoAdd(user.ID, models.PhotoAddInput{
		AlbumID:     r.AlbumID,
		Title:       r.Title,
		Description: r.Description,
		URL:         r.URL,
		ThumbURL:    r.ThumbURL,
		AspectRatio: r.AspectRatio,
	})
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, photoInfoFrom(&photo, user.ID))
}

func PhotoSave(c *gin.Context, user *models.User) {
	r := PhotoSaveRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	photo, err := models.PhotoUpdate(user.ID, r.PhotoID, r.Title, r.Description)
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, photoInfoFrom(&photo, user.ID))
}

func PhotoDelete(c *gin.Context, user *models.User) {
	r := PhotoIDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	if err := models.PhotoDelete(user.ID, r.PhotoID); err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

// PhotosDelete removes a batch of owned photos and reports how many actually
// went away (already-deleted ids are not counted).
func PhotosDelete(c *gin.Context, user *models.User) {
	r := PhotoIDsRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	deleted, err := models.PhotosDelete(user.ID, r.PhotoIDs)
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func PhotoGetInfo(c *gin.Context, user *models.User) {
	r := PhotoIDRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	photo, err := models.PhotoGet(r.PhotoID)
	if err != nil {
		Error(c, err)
		return
	}
	if !models.NewPrivacyCache().PhotoVisible(&photo, user.ID) {
		c.JSON(http.StatusNotFound, Response{Error: "photo not found"})
		return
	}
	c.JSON(http.StatusOK, photoInfoFrom(&photo, user.ID))
}

var photoSorts = map[string]paging.Spec{
	"":           {Column: "created_at", Desc: true},
	"newest":     {Column: "created_at", Desc: true},
	"oldest":     {Column: "created_at", Desc: false},
	"most-liked": {Column: "likes", Desc: true},
	"title-az":   {Column: "title", Desc: false},
	"title-za":   {Column: "title", Desc: true},
}

// PhotoList pages photos in one album, by one user, or across all visible
// albums (the explore feed) when neither filter is given.
func PhotoList(c *gin.Context, user *models.User) {
	r := PhotoListRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	spec, ok := photoSorts[r.Sort]
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Error: "unknown sort"})
		return
	}
	cursor := paging.Resolve(db.Instance, "photos", spec, r.Cursor)
	q := db.Instance.Scopes(paging.Scope(spec, cursor, r.Limit))
	if r.AlbumID != 0 {
		album, err := models.AlbumGet(r.AlbumID)
		if err != nil {
			Error(c, err)
			return
		}
		if !album.VisibleTo(user.ID) {
			c.JSON(http.StatusNotFound, Response{Error: "album not found"})
			return
		}
		q = q.Where("album_id = ?", r.AlbumID)
	} else {
		q = q.Where("album_id IN (?)", visibleAlbumIDs(user.ID))
		if r.UserID != 0 {
			q = q.Where("user_id = ?", r.UserID)
		}
	}
	if r.Search != "" {
		q = q.Scopes(models.ScopeSearch(r.Search))
	}
	var photos []models.Photo
	if err := q.Find(&photos).Error; err != nil {
		Error(c, err)
		return
	}
	result := PhotoListResponse{Photos: photoPageInfos(photos, user.ID)}
	var lastID uint64
	if len(photos) > 0 {
		lastID = photos[len(photos)-1].ID
	}
	result.NextCursor = paging.NextCursor(len(photos), r.Limit, lastID)
	c.JSON(http.StatusOK, result)
}

// PhotosMove re-parents the given photos into another album the user owns and
// reports how many actually moved.
func PhotosMove(c *gin.Context, user *models.User) {
	r := PhotosMoveRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	moved, err := models.PhotosMove(user.ID, r.PhotoIDs, r.AlbumID)
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved})
}
