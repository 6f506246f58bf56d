package handlers

import (
	"net/http"
	"server/db"
	"server/models"
	"server/paging"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type AlbumInfo struct {
	ID          uint64 `json:"id"`
	UserID      uint64 `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
	PhotoCount  int64  `json:"photo_count"`
	CoverImage  string `json:"cover_image"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

type AlbumCreateRequest struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
	IsPrivate   bool   `form:"is_private"`
}

type AlbumSaveRequest struct {
	AlbumID     uint64  `form:"album_id" binding:"required"`
	Title       *string `form:"title"`
	Description *string `form:"description"`
	IsPrivate   *bool   `form:"is_private"`
	CoverImage  *string `form:"cover_image"`
}

type AlbumIDRequest struct {
	AlbumID uint64 `form:"album_id" binding:"required"`
}

type AlbumListRequest struct {
	PageRequest
	UserID uint64 `form:"user_id"`
	Search string `form:"search"`
}

type AlbumListResponse struct {
	Albums     []AlbumInfo `json:"albums"`
	NextCursor uint64      `json:"next_cursor"`
}

func albumInfoFrom(a *models.Album) AlbumInfo {
	return AlbumInfo{
		ID:          a.ID,
		UserID:      a.UserID,
		Title:       a.Title,
		Description: a.Description,
		IsPrivate:   a.IsPrivate,
		PhotoCount:  a.PhotoCount,
		CoverImage:  a.CoverImage,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func AlbumCreate(c *gin.Context, user *models.User) {
	r := AlbumCreateRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	album, err := models.AlbumCreate(user.ID, r.Title, r.Description, r.IsPrivate, "")
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, albumInfoFrom(&album))
}

func AlbumSave(c *gin.Context, user *models.User) {
	r := AlbumSaveRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	album, err := models.AlbumUpdate(user.ID, r.AlbumID, models.AlbumChanges{
		Title:       r.Title,
		Description: r.Description,
		IsPrivate:   r.IsPrivate,
		CoverImage:  r.CoverImage,
	})
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, albumInfoFrom(&album))
}

func AlbumDelete(c *gin.Context, user *models.User) {
	r := AlbumIDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	if err := models.AlbumDelete(user.ID, r.AlbumID); err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

// AlbumGetInfo hides private albums from everyone but the owner, answering
// 404 rather than 403 so their existence doesn't leak.
func AlbumGetInfo(c *gin.Context, user *models.User) {
	r := AlbumIDRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	album, err := models.AlbumGet(r.AlbumID)
	if err != nil {
		Error(c, err)
		return
	}
	if !album.VisibleTo(user.ID) {
		c.JSON(http.StatusNotFound, Response{Error: "album not found"})
		return
	}
	c.JSON(http.StatusOK, albumInfoFrom(&album))
}

var albumSorts = map[string]paging.Spec{
	"":           {Column: "created_at", Desc: true},
	"newest":     {Column: "created_at", Desc: true},
	"oldest":     {Column: "created_at", Desc: false},
	"title":      {Column: "title", Desc: false},
	"updated":    {Column: "updated_at", Desc: true},
	"photoCount": {Column: "photo_count", Desc: true},
}

// AlbumList pages a user's albums, or all albums when user_id is omitted.
// Private albums only show up for their owner.
func AlbumList(c *gin.Context, user *models.User) {
	r := AlbumListRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	spec, ok := albumSorts[r.Sort]
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Error: "unknown sort"})
		return
	}
	cursor := paging.Resolve(db.Instance, "albums", spec, r.Cursor)
	q := db.Instance.Scopes(paging.Scope(spec, cursor, r.Limit)).
		Where("is_private = ? OR user_id = ?", false, user.ID)
	if r.UserID != 0 {
		q = q.Where("user_id = ?", r.UserID)
	}
	if r.Search != "" {
		q = q.Scopes(models.ScopeSearch(r.Search))
	}
	var albums []models.Album
	if err := q.Find(&albums).Error; err != nil {
		Error(c, err)
		return
	}
	result := AlbumListResponse{Albums: []AlbumInfo{}}
	var lastID uint64
	for i := range albums {
		result.Albums = append(result.Albums, albumInfoFrom(&albums[i]))
		lastID = albums[i].ID
	}
	result.NextCursor = paging.NextCursor(len(albums), r.Limit, lastID)
	c.JSON(http.StatusOK, result)
}

// AlbumShare mints (or returns) the album's public link.
func AlbumShare(c *gin.Context, user *models.User) {
	r := AlbumIDRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	share, err := models.AlbumShareCreate(user.ID, r.AlbumID)
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": share.Token,
		"path":  "/w/album/" + share.Token + "/",
	})
}
