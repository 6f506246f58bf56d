package main

import (
	"log"
	"strings"
	"time"

	"server/auth"
	"server/config"
	"server/db"
	"server/handlers"
	"server/models"
	"server/storage"
	"server/utils"
	"server/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName     = "token"
	sessionExpirationTime = 365 * 86400 // 1 year
)

func main() {
	db.Init()
	models.Init()
	storage.Init()

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_STORE_KEY))
	cookieStore.Options(sessions.Options{MaxAge: sessionExpirationTime})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/photos/view"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	// Custom Auth Router
	authRouter := &auth.Router{Base: router}
	// User handlers
	router.POST("/user/register", handlers.UserRegister)
	router.POST("/user/login", handlers.UserLogin)
	authRouter.POST("/user/logout", handlers.UserLogout)
	authRouter.GET("/user/me", handlers.UserMe)
	authRouter.POST("/user/save", handlers.UserSave)
	authRouter.GET("/user/username-available", handlers.UserUsernameAvailable)
	authRouter.OptionalGET("/user/get", handlers.UserGetInfo)
	authRouter.OptionalGET("/user/list", handlers.UserList)
	authRouter.POST("/user/push-token", handlers.UserNewPushToken)
	authRouter.POST("/user/delete", handlers.UserDeleteAccount)
	// Album handlers
	authRouter.POST("/album/create", handlers.AlbumCreate)
	authRouter.POST("/album/save", handlers.AlbumSave)
	authRouter.POST("/album/delete", handlers.AlbumDelete)
	authRouter.OptionalGET("/album/get", handlers.AlbumGetInfo)
	authRouter.OptionalGET("/album/list", handlers.AlbumList)
	authRouter.GET("/album/share", handlers.AlbumShare)
	// Photo handlers
	authRouter.POST("/photos/upload", handlers.PhotoUpload)
	authRouter.POST("/photos/upload-batch", handlers.PhotoUploadBatch)
	authRouter.POST("/photos/add", handlers.PhotoAdd)
	authRouter.POST("/photos/save", handlers.PhotoSave)
	authRouter.POST("/photos/delete", handlers.PhotoDelete)
	authRouter.POST("/photos/delete-batch", handlers.PhotosDelete)
	authRouter.OptionalGET("/photos/get", handlers.PhotoGetInfo)
	authRouter.OptionalGET("/photos/list", handlers.PhotoList)
	authRouter.POST("/photos/move", handlers.PhotosMove)
	router.GET("/photos/view", handlers.PhotoView) // Privacy checks are done inside the handler
	// Social handlers
	authRouter.POST("/photos/like", handlers.PhotoLike)
	authRouter.POST("/photos/unlike", handlers.PhotoUnlike)
	authRouter.POST("/photos/bookmark", handlers.PhotoBookmark)
	authRouter.POST("/photos/unbookmark", handlers.PhotoUnbookmark)
	authRouter.GET("/photos/bookmarked", handlers.BookmarkList)
	authRouter.POST("/user/follow", handlers.UserFollow)
	authRouter.POST("/user/unfollow", handlers.UserUnfollow)
	authRouter.GET("/user/is-following", handlers.UserIsFollowing)
	authRouter.OptionalGET("/user/followers", handlers.UserFollowers)
	authRouter.OptionalGET("/user/following", handlers.UserFollowing)
	// Comment handlers
	authRouter.POST("/comments/add", handlers.CommentAdd)
	authRouter.POST("/comments/delete", handlers.CommentDelete)
	authRouter.OptionalGET("/comments/list", handlers.CommentList)
	// Notification handlers
	authRouter.GET("/notifications/list", handlers.ActivityList)
	authRouter.POST("/notifications/read", handlers.ActivityMarkRead)
	authRouter.POST("/notifications/delete", handlers.ActivityDelete)
	authRouter.GET("/notifications/unread-count", handlers.ActivityUnreadCount)

	/*
	 *	Web interface
	 */
	router.GET("/w/album/:token/", web.AlbumView)
	router.GET("/w/album/:token/photo", web.AlbumPhotoView)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
