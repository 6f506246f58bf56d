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

// visiblePhoto loads the photo and applies the privacy rule. Invisible and
// missing photos are indistinguishable to the caller.
func visiblePhoto(photoID, requesterID uint64) (models.Photo, bool) {
	photo, err := models.PhotoGet(photoID)
	if err != nil {
		return photo, false
	}
	return photo, models.NewPrivacyCache().PhotoVisible(&photo, requesterID)
}

func PhotoLike(c *gin.Context, user *models.User) {
	r := PhotoIDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	photo, ok := visiblePhoto(r.PhotoID, user.ID)
	if !ok {
		c.JSON(http.StatusNotFound, Response{Error: "photo not found"})
		return
	}
	_, created, err := models.LikePhoto(user.ID, r.PhotoID)
	if err != nil {
		Error(c, err)
		return
	}
	if created {
		go push.PhotoLiked(user, &photo)
	}
	c.JSON(http.StatusOK, gin.H{"liked": true, "created": created})
}

func PhotoUnlike(c *gin.Context, user *models.User) {
	r := PhotoIDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	if _, err := models.UnlikePhoto(user.ID, r.PhotoID); err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": false})
}

func PhotoBookmark(c *gin.Context, user *models.User) {
	r := PhotoIDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	photo, ok := visiblePhoto(r.PhotoID, user.ID)
	if !ok {
		c.JSON(http.StatusNotFound, Response{Error: "photo not found"})
		return
	}
	_, created, err := models.BookmarkPhoto(user.ID, r.PhotoID)
	if err != nil {
		Error(c, err)
		return
	}
	if created {
		go push.PhotoBookmarked(user, &photo)
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": true, "created": created})
}

func PhotoUnbookmark(c *gin.Context, user *models.User) {
	r := PhotoIDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	if _, err := models.UnbookmarkPhoto(user.ID, r.PhotoID); err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": false})
}

// BookmarkList pages the caller's bookmarked photos, newest bookmark first
// is approximated by newest photo first; photos that became invisible since
// bookmarking are filtered out by the album subquery.
func BookmarkList(c *gin.Context, user *models.User) {
	r := PageRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	spec := paging.Spec{Column: "created_at", Desc: true}
	cursor := paging.Resolve(db.Instance, "photos", spec, r.Cursor)
	var photos []models.Photo
	err := db.Instance.Scopes(paging.Scope(spec, cursor, r.Limit)).
		Where("id IN (?)", db.Instance.Model(&models.Bookmark{}).Select("photo_id").Where("user_id = ?", user.ID)).
		Where("album_id IN (?)", visibleAlbumIDs(user.ID)).
		Find(&photos).Error
	if err != nil {
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

func UserFollow(c *gin.Context, user *models.User) {
	r := UserIDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	_, created, err := models.FollowUser(user.ID, r.UserID)
	if err != nil {
		Error(c, err)
		return
	}
	if created {
		go push.UserFollowed(user, r.UserID)
	}
	c.JSON(http.StatusOK, gin.H{"following": true, "created": created})
}

func UserUnfollow(c *gin.Context, user *models.User) {
	r := UserIDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	if _, err := models.UnfollowUser(user.ID, r.UserID); err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": false})
}

func UserIsFollowing(c *gin.Context, user *models.User) {
	r := UserIDRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	following, err := models.IsFollowing(user.ID, r.UserID)
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}

type FollowListRequest struct {
	PageRequest
	UserID uint64 `form:"user_id" binding:"required"`
}

func followListHandler(c *gin.Context, user *models.User, followers bool) {
	r := FollowListRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	if _, err := models.UserGet(r.UserID); err != nil {
		Error(c, err)
		return
	}
	edgeColumn, matchColumn := "follower_id", "followed_id"
	if !followers {
		edgeColumn, matchColumn = "followed_id", "follower_id"
	}
	spec := paging.Spec{Column: "created_at", Desc: true}
	cursor := paging.Resolve(db.Instance, "users", spec, r.Cursor)
	var users []models.User
	err := db.Instance.Scopes(paging.Scope(spec, cursor, r.Limit)).
		Where("id IN (?)", db.Instance.Model(&models.Follow{}).Select(edgeColumn).Where(matchColumn+" = ?", r.UserID)).
		Find(&users).Error
	if err != nil {
		Error(c, err)
		return
	}
	result := UserListResponse{Users: []UserInfo{}}
	var lastID uint64
	for i := range users {
		result.Users = append(result.Users, userInfoFrom(&users[i], user.ID))
		lastID = users[i].ID
	}
	result.NextCursor = paging.NextCursor(len(users), r.Limit, lastID)
	c.JSON(http.StatusOK, result)
}

func UserFollowers(c *gin.Context, user *models.User) {
	followListHandler(c, user, true)
}

func UserFollowing(c *gin.Context, user *models.User) {
	followListHandler(c, user, false)
}
