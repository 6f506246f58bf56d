package handlers

import (
	"net/http"
	"server/db"
	"server/models"
	"server/paging"
	"server/push"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type CommentInfo struct {
	ID         uint64 `json:"id"`
	PhotoID    uint64 `json:"photo_id"`
	UserID     uint64 `json:"user_id"`
	UserName   string `json:"user_name"`
	UserAvatar string `json:"user_avatar"`
	Content    string `json:"content"`
	CreatedAt  int64  `json:"created_at"`
}

type CommentAddRequest struct {
	PhotoID uint64 `form:"photo_id" binding:"required"`
	Content string `form:"content" binding:"required"`
}

type CommentIDRequest struct {
	CommentID uint64 `form:"comment_id" binding:"required"`
}

type CommentListRequest struct {
	PageRequest
	PhotoID uint64 `form:"photo_id" binding:"required"`
}

type CommentListResponse struct {
	Comments   []CommentInfo `json:"comments"`
	NextCursor uint64        `json:"next_cursor"`
}

func CommentAdd(c *gin.Context, user *models.User) {
	r := CommentAddRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	photo, ok := visiblePhoto(r.PhotoID, user.ID)
	if !ok {
		c.JSON(http.StatusNotFound, Response{Error: "photo not found"})
		return
	}
	comment, err := models.CommentAdd(user.ID, r.PhotoID, r.Content)
	if err != nil {
		Error(c, err)
		return
	}
	go push.PhotoCommented(user, &photo, comment.Content)
	c.JSON(http.StatusOK, CommentInfo{
		ID:         comment.ID,
		PhotoID:    comment.PhotoID,
		UserID:     user.ID,
		UserName:   user.Name,
		UserAvatar: user.Avatar,
		Content:    comment.Content,
		CreatedAt:  comment.CreatedAt,
	})
}

func CommentDelete(c *gin.Context, user *models.User) {
	r := CommentIDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	if err := models.CommentDelete(user.ID, r.CommentID); err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

// CommentList pages a photo's comments oldest first, so a thread reads top
// to bottom. Authors are loaded in one batch per page.
func CommentList(c *gin.Context, user *models.User) {
	r := CommentListRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	if _, ok := visiblePhoto(r.PhotoID, user.ID); !ok {
		c.JSON(http.StatusNotFound, Response{Error: "photo not found"})
		return
	}
	spec := paging.Spec{Column: "created_at", Desc: false}
	cursor := paging.Resolve(db.Instance, "comments", spec, r.Cursor)
	var comments []models.Comment
	err := db.Instance.Scopes(paging.Scope(spec, cursor, r.Limit)).
		Where("photo_id = ?", r.PhotoID).
		Find(&comments).Error
	if err != nil {
		Error(c, err)
		return
	}
	authorIDs := make([]uint64, 0, len(comments))
	for _, comment := range comments {
		authorIDs = append(authorIDs, comment.UserID)
	}
	authors := map[uint64]models.User{}
	if len(authorIDs) > 0 {
		var users []models.User
		if err := db.Instance.Where("id IN ?", authorIDs).Find(&users).Error; err != nil {
			Error(c, err)
			return
		}
		for _, u := range users {
			authors[u.ID] = u
		}
	}
	result := CommentListResponse{Comments: []CommentInfo{}}
	var lastID uint64
	for _, comment := range comments {
		author := authors[comment.UserID]
		result.Comments = append(result.Comments, CommentInfo{
			ID:         comment.ID,
			PhotoID:    comment.PhotoID,
			UserID:     comment.UserID,
			UserName:   author.Name,
			UserAvatar: author.Avatar,
			Content:    comment.Content,
			CreatedAt:  comment.CreatedAt,
		})
		lastID = comment.ID
	}
	result.NextCursor = paging.NextCursor(len(comments), r.Limit, lastID)
	c.JSON(http.StatusOK, result)
}
