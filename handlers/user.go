package handlers

import (
	"net/http"
	"server/auth"
	"server/db"
	"server/models"
	"server/paging"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type UserInfo struct {
	ID             uint64 `json:"id"`
	Name           string `json:"name"`
	Username       string `json:"username"`
	Avatar         string `json:"avatar"`
	AlbumCount     int64  `json:"album_count"`
	TotalPhotos    int64  `json:"total_photos"`
	FollowersCount int64  `json:"followers_count"`
	FollowingCount int64  `json:"following_count"`
	IsFollowing    bool   `json:"is_following"`
}

type UserRegisterRequest struct {
	Name     string `form:"name" binding:"required"`
	Username string `form:"username" binding:"required"`
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type UserLoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type UserSaveRequest struct {
	Name     *string `form:"name"`
	Username *string `form:"username"`
	Avatar   *string `form:"avatar"`
}

type UserIDRequest struct {
	UserID uint64 `form:"user_id" binding:"required"`
}

type UserListRequest struct {
	PageRequest
	Search string `form:"search"`
}

type UserListResponse struct {
	Users      []UserInfo `json:"users"`
	NextCursor uint64     `json:"next_cursor"`
}

func userInfoFrom(u *models.User, requesterID uint64) UserInfo {
	info := UserInfo{
		ID:             u.ID,
		Name:           u.Name,
		Username:       u.Username,
		Avatar:         u.Avatar,
		AlbumCount:     u.AlbumCount,
		TotalPhotos:    u.TotalPhotos,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
	}
	if requesterID != 0 && requesterID != u.ID {
		info.IsFollowing, _ = models.IsFollowing(requesterID, u.ID)
	}
	return info
}

func UserRegister(c *gin.Context) {
	r := UserRegisterRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	user, err := models.UserCreate(r.Name, r.Username, r.Email, r.Password)
	if err != nil {
		Error(c, err)
		return
	}
	auth.LoadSession(c).LoginUser(user.ID)
	c.JSON(http.StatusOK, userInfoFrom(&user, user.ID))
}

func UserLogin(c *gin.Context) {
	r := UserLoginRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	user, ok := models.UserLogin(r.Email, r.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{Error: "invalid credentials"})
		return
	}
	auth.LoadSession(c).LoginUser(user.ID)
	c.JSON(http.StatusOK, userInfoFrom(&user, user.ID))
}

func UserLogout(c *gin.Context, user *models.User) {
	auth.LoadSession(c).LogoutUser()
	c.JSON(http.StatusOK, OKResponse)
}

func UserMe(c *gin.Context, user *models.User) {
	c.JSON(http.StatusOK, userInfoFrom(user, user.ID))
}

func UserSave(c *gin.Context, user *models.User) {
	r := UserSaveRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	updated, err := models.UserUpdateProfile(user.ID, models.UserProfileUpdate{
		Name:     r.Name,
		Username: r.Username,
		Avatar:   r.Avatar,
	})
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, userInfoFrom(&updated, user.ID))
}

func UserUsernameAvailable(c *gin.Context, user *models.User) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, Response{Error: "username is required"})
		return
	}
	available, err := models.UsernameAvailable(username, user.ID)
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

func UserGetInfo(c *gin.Context, user *models.User) {
	r := UserIDRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	other, err := models.UserGet(r.UserID)
	if err != nil {
		Error(c, err)
		return
	}
	c.JSON(http.StatusOK, userInfoFrom(&other, user.ID))
}

var userSorts = map[string]paging.Spec{
	"":       {Column: "created_at", Desc: true},
	"newest": {Column: "created_at", Desc: true},
	"name":   {Column: "name", Desc: false},
}

// UserList searches users by the lowercased search text.
func UserList(c *gin.Context, user *models.User) {
	r := UserListRequest{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		return
	}
	spec, ok := userSorts[r.Sort]
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Error: "unknown sort"})
		return
	}
	cursor := paging.Resolve(db.Instance, "users", spec, r.Cursor)
	var users []models.User
	q := db.Instance.Scopes(paging.Scope(spec, cursor, r.Limit))
	if r.Search != "" {
		q = q.Scopes(models.ScopeSearch(r.Search))
	}
	if err := q.Find(&users).Error; err != nil {
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

func UserNewPushToken(c *gin.Context, user *models.User) {
	user.SetNewPushToken()
	c.JSON(http.StatusOK, gin.H{"token": user.PushToken})
}

// UserDeleteAccount cascades through everything the user owns and ends the
// session.
func UserDeleteAccount(c *gin.Context, user *models.User) {
	if err := models.UserDelete(user.ID); err != nil {
		Error(c, err)
		return
	}
	auth.LoadSession(c).LogoutUser()
	c.JSON(http.StatusOK, OKResponse)
}
