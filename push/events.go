package push

import (
	"server/db"
	"server/models"
	"strconv"
)

// Event helpers are best-effort and never block the request path. They look up
// the recipient's push token and silently give up when there isn't one.
// Acting on your own content never pushes, same as the activity rows.

func tokenFor(userID uint64) []string {
	var user models.User
	if db.Instance.First(&user, userID).Error != nil || user.PushToken == "" {
		return nil
	}
	return []string{user.PushToken}
}

func PhotoLiked(actor *models.User, photo *models.Photo) {
	if actor.ID == photo.UserID {
		return
	}
	tokens := tokenFor(photo.UserID)
	if tokens == nil {
		return
	}
	notification := Notification{
		Type:  NotificationTypeLike,
		Title: actor.Name,
		Body:  "liked your photo",
		Data: map[string]string{
			"photo_id": strconv.FormatUint(photo.ID, 10),
		},
	}
	_ = notification.SendTo(tokens)
}

func PhotoCommented(actor *models.User, photo *models.Photo, content string) {
	if actor.ID == photo.UserID {
		return
	}
	tokens := tokenFor(photo.UserID)
	if tokens == nil {
		return
	}
	notification := Notification{
		Type:  NotificationTypeComment,
		Title: actor.Name,
		Body:  content,
		Data: map[string]string{
			"photo_id": strconv.FormatUint(photo.ID, 10),
		},
	}
	_ = notification.SendTo(tokens)
}

func PhotoBookmarked(actor *models.User, photo *models.Photo) {
	if actor.ID == photo.UserID {
		return
	}
	tokens := tokenFor(photo.UserID)
	if tokens == nil {
		return
	}
	notification := Notification{
		Type:  NotificationTypeBookmark,
		Title: actor.Name,
		Body:  "bookmarked your photo",
		Data: map[string]string{
			"photo_id": strconv.FormatUint(photo.ID, 10),
		},
	}
	_ = notification.SendTo(tokens)
}

func UserFollowed(actor *models.User, followedID uint64) {
	if actor.ID == followedID {
		return
	}
	tokens := tokenFor(followedID)
	if tokens == nil {
		return
	}
	notification := Notification{
		Type:  NotificationTypeFollow,
		Title: actor.Name,
		Body:  "started following you",
		Data: map[string]string{
			"user_id": strconv.FormatUint(actor.ID, 10),
		},
	}
	_ = notification.SendTo(tokens)
}
