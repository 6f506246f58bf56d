package handlers

import (
	"net/http"
	"server/db"
	"server/models"
	"server/paging"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ActivityInfo struct {
	ID             uint64 `json:"id"`
	Type           string `json:"type"`
	CreatedAt      int64  `json:"created_at"`
	Read           bool   `json:"read"`
	ActorID        uint64 `json:"actor_id"`
	ActorName      string `json:"actor_name,omitempty"`
	ActorAvatar    string `json:"actor_avatar,omitempty"`
	PhotoID        uint64 `json:"photo_id,omitempty"`
	PhotoThumbURL  string `json:"photo_thumb_url,omitempty"`
	AlbumID        uint64 `json:"album_id,omitempty"`
	AlbumTitle     string `json:"album_title,omitempty"`
	CommentID      uint64 `json:"comment_id,omitempty"`
	CommentContent string `json:"comment_content,omitempty"`
}

type ActivityListRequest struct {
	PageRequest
	IncludeRead bool `form:"include_read"`
}

type ActivityListResponse struct {
	Activities []ActivityInfo `json:"activities"`
	NextCursor uint64         `json:"next_cursor"`
}

type ActivityIDsRequest struct {
	ActivityIDs []uint64 `form:"activity_ids"`
	All         bool     `form:"all"`
}

// ActivityList pages the caller's notifications newest first. Referenced
// rows (actor, photo, comment, album) are resolved per page; anything
// deleted since the activity was written is simply left blank rather than
// failing the listing.
func ActivityList(c *gin.Context, user *models.User) {
	r := ActivityListRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	spec := paging.Spec{Column: "created_at", Desc: true}
	cursor := paging.Resolve(db.Instance, "activities", spec, r.Cursor)
	q := db.Instance.Scopes(paging.Scope(spec, cursor, r.Limit)).
		Where("target_user_id = ?", user.ID)
	if !r.IncludeRead {
		q = q.Where("read = ?", false)
	}
	var activities []models.Activity
	if err := q.Find(&activities).Error; err != nil {
		Error(c, err)
		return
	}

	actorIDs := []uint64{}
	photoIDs := []uint64{}
	albumIDs := []uint64{}
	commentIDs := []uint64{}
	for _, a := range activities {
		actorIDs = append(actorIDs, a.ActorID)
		if a.PhotoID != nil {
			photoIDs = append(photoIDs, *a.PhotoID)
		}
		if a.AlbumID != nil {
			albumIDs = append(albumIDs, *a.AlbumID)
		}
		if a.CommentID != nil {
			commentIDs = append(commentIDs, *a.CommentID)
		}
	}
	actors := map[uint64]models.User{}
	if len(actorIDs) > 0 {
		var users []models.User
		db.Instance.Where("id IN ?", actorIDs).Find(&users)
		for _, u := range users {
			actors[u.ID] = u
		}
	}
	photos := map[uint64]models.Photo{}
	if len(photoIDs) > 0 {
		var rows []models.Photo
		db.Instance.Where("id IN ?", photoIDs).Find(&rows)
		for _, p := range rows {
			photos[p.ID] = p
		}
	}
	albums := map[uint64]models.Album{}
	if len(albumIDs) > 0 {
		var rows []models.Album
		db.Instance.Where("id IN ?", albumIDs).Find(&rows)
		for _, a := range rows {
			albums[a.ID] = a
		}
	}
	comments := map[uint64]models.Comment{}
	if len(commentIDs) > 0 {
		var rows []models.Comment
		db.Instance.Where("id IN ?", commentIDs).Find(&rows)
		for _, cm := range rows {
			comments[cm.ID] = cm
		}
	}

	result := ActivityListResponse{Activities: []ActivityInfo{}}
	var lastID uint64
	for _, a := range activities {
		info := ActivityInfo{
			ID:        a.ID,
			Type:      string(a.Type),
			CreatedAt: a.CreatedAt,
			Read:      a.Read,
			ActorID:   a.ActorID,
		}
		if actor, ok := actors[a.ActorID]; ok {
			info.ActorName = actor.Name
			info.ActorAvatar = actor.Avatar
		}
		if a.PhotoID != nil {
			info.PhotoID = *a.PhotoID
			if photo, ok := photos[*a.PhotoID]; ok {
				info.PhotoThumbURL = photo.ThumbURL
			}
		}
		if a.AlbumID != nil {
			info.AlbumID = *a.AlbumID
			if album, ok := albums[*a.AlbumID]; ok {
				info.AlbumTitle = album.Title
			}
		}
		if a.CommentID != nil {
			info.CommentID = *a.CommentID
			if comment, ok := comments[*a.CommentID]; ok {
				info.CommentContent = comment.Content
			}
		}
		result.Activities = append(result.Activities, info)
		lastID = a.ID
	}
	result.NextCursor = paging.NextCursor(len(activities), r.Limit, lastID)
	c.JSON(http.StatusOK, result)
}

func ActivityMarkRead(c *gin.Context, user *models.User) {
	r := ActivityIDsRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	var updated int64
	var err error
	if r.All {
		updated, err = models.ActivitiesMarkAllRead(user.ID)
	} else {
		updated, err = models.ActivitiesMarkRead(user.ID, r.ActivityIDs)
	}
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func ActivityDelete(c *gin.Context, user *models.User) {
	r := ActivityIDsRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	var deleted int64
	var err error
	if r.All {
		deleted, err = models.ActivitiesClear(user.ID)
	} else {
		deleted, err = models.ActivitiesDelete(user.ID, r.ActivityIDs)
	}
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func ActivityUnreadCount(c *gin.Context, user *models.User) {
	count, err := models.ActivitiesUnreadCount(user.ID)
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}
