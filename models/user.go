package models

import (
	"errors"
	"fmt"
	"server/config"
	"server/db"
	"server/utils"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID             uint64 `gorm:"primaryKey"`
	CreatedAt      int64
	UpdatedAt      int64
	Name           string `gorm:"type:varchar(100)"`
	Username       string `gorm:"type:varchar(60);index:uniq_username,unique"`
	Email          string `gorm:"type:varchar(150);index:uniq_email,unique"`
	Password       string `gorm:"type:varchar(128)"`
	PassSalt       string `gorm:"type:varchar(200)"`
	Avatar         string `gorm:"type:varchar(2000)"`
	PushToken      string `gorm:"type:varchar(128)"`
	AlbumCount     int64  `gorm:"not null;default:0"`
	TotalPhotos    int64  `gorm:"not null;default:0"`
	StorageUsed    int64  `gorm:"not null;default:0"` // Stored bytes across all photos
	FollowersCount int64  `gorm:"not null;default:0"`
	FollowingCount int64  `gorm:"not null;default:0"`
	SearchText     string `gorm:"type:varchar(500);index"`
}

const saltSize = 60

// UserCreate registers a new user. Username and email must be unique across
// all users; a collision is ErrConflict.
func UserCreate(name, username, email, plainTextPassword string) (u User, err error) {
	if name == "" || username == "" || email == "" || plainTextPassword == "" {
		return u, fmt.Errorf("%w: name, username, email and password are required", ErrInvalidArgument)
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&User{}).Where("username = ? OR email = ?", username, email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: username or email already taken", ErrConflict)
		}
		u = User{
			Name:       name,
			Username:   username,
			Email:      email,
			PassSalt:   utils.RandSalt(saltSize),
			CreatedAt:  time.Now().Unix(),
			SearchText: BuildSearchText(name, username, email),
		}
		u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
		return tx.Create(&u).Error
	})
	return u, err
}

func UserLogin(email, plainTextPassword string) (u User, success bool) {
	result := db.Instance.First(&u, "email = ?", email)
	if result.Error != nil {
		return User{}, false
	}
	if u.Password != utils.Sha512String(plainTextPassword+u.PassSalt) {
		return User{}, false
	}
	return u, true
}

func UserGet(userID uint64) (u User, err error) {
	if err = db.Instance.First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return u, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return u, err
	}
	return u, nil
}

func UserByUsername(username string) (u User, err error) {
	if err = db.Instance.First(&u, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return u, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return u, err
	}
	return u, nil
}

// UsernameAvailable reports whether username can be taken by selfID (a user
// always "owns" their current username).
func UsernameAvailable(username string, selfID uint64) (bool, error) {
	var existing User
	err := db.Instance.First(&existing, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID == selfID, nil
}

type UserProfileUpdate struct {
	Name     *string
	Username *string
	Avatar   *string
}

// UserUpdateProfile applies the non-nil fields and refreshes the search text.
func UserUpdateProfile(userID uint64, in UserProfileUpdate) (u User, err error) {
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", ErrNotFound, userID)
			}
			return err
		}
		if in.Name != nil {
			u.Name = *in.Name
		}
		if in.Username != nil && *in.Username != u.Username {
			var count int64
			if err := tx.Model(&User{}).Where("username = ? AND id != ?", *in.Username, userID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("%w: username already taken", ErrConflict)
			}
			u.Username = *in.Username
		}
		if in.Avatar != nil {
			u.Avatar = *in.Avatar
		}
		u.UpdatedAt = time.Now().Unix()
		u.SearchText = BuildSearchText(u.Name, u.Username, u.Email)
		return tx.Save(&u).Error
	})
	return u, err
}

// WithinQuota reports whether storing size more bytes keeps the user inside
// the configured storage quota. A quota of 0 disables the check.
func (u *User) WithinQuota(size int64) bool {
	if config.USER_QUOTA_BYTES <= 0 {
		return true
	}
	return u.StorageUsed+size <= int64(config.USER_QUOTA_BYTES)
}

func (u *User) SetNewPushToken() {
	u.PushToken = utils.Sha512String(u.Email + utils.RandSalt(saltSize))
	db.Instance.Model(u).Update("push_token", u.PushToken)
}

// UserDelete removes the account and everything hanging off it: the user's
// own likes, comments and bookmarks on other people's photos (fixing those
// photos' counters), every owned album (full cascade), follow edges in both
// directions (fixing the counterpart's counter), activities where the user
// is actor or target, and finally the user row. Each step is keyed by id, so
// re-running an interrupted deletion is safe. The outgoing edges must go
// before the user row: under enforced foreign keys the database would
// otherwise cascade them away without the counter fix-ups.
func UserDelete(userID uint64) error {
	var user User
	if err := db.Instance.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return err
	}

	var likes []Like
	if err := db.Instance.Where("user_id = ?", userID).Find(&likes).Error; err != nil {
		return err
	}
	for _, like := range likes {
		like := like
		err := db.Instance.Transaction(func(tx *gorm.DB) error {
			result := tx.Delete(&Like{}, "id = ?", like.ID)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return nil
			}
			return tx.Model(&Photo{}).Where("id = ?", like.PhotoID).
				UpdateColumn("likes", counterDec("likes")).Error
		})
		if err != nil {
			return err
		}
	}

	var comments []Comment
	if err := db.Instance.Where("user_id = ?", userID).Find(&comments).Error; err != nil {
		return err
	}
	for _, comment := range comments {
		comment := comment
		err := db.Instance.Transaction(func(tx *gorm.DB) error {
			result := tx.Delete(&Comment{}, "id = ?", comment.ID)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return nil
			}
			return tx.Model(&Photo{}).Where("id = ?", comment.PhotoID).
				UpdateColumn("comments", counterDec("comments")).Error
		})
		if err != nil {
			return err
		}
	}

	if err := db.Instance.Delete(&Bookmark{}, "user_id = ?", userID).Error; err != nil {
		return err
	}

	var albums []Album
	if err := db.Instance.Where("user_id = ?", userID).Find(&albums).Error; err != nil {
		return err
	}
	for i := range albums {
		if err := albumPurge(&albums[i]); err != nil {
			return err
		}
	}

	var edges []Follow
	if err := db.Instance.Where("follower_id = ? OR followed_id = ?", userID, userID).Find(&edges).Error; err != nil {
		return err
	}
	for _, edge := range edges {
		edge := edge
		err := db.Instance.Transaction(func(tx *gorm.DB) error {
			result := tx.Delete(&Follow{}, "id = ?", edge.ID)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				// Already removed by an earlier (interrupted) run
				return nil
			}
			if edge.FollowerID == userID {
				return tx.Model(&User{}).Where("id = ?", edge.FollowedID).
					UpdateColumn("followers_count", counterDec("followers_count")).Error
			}
			return tx.Model(&User{}).Where("id = ?", edge.FollowerID).
				UpdateColumn("following_count", counterDec("following_count")).Error
		})
		if err != nil {
			return err
		}
	}

	if err := db.Instance.Delete(&Activity{}, "actor_id = ? OR target_user_id = ?", userID, userID).Error; err != nil {
		return err
	}
	if err := db.Instance.Delete(&AlbumShare{}, "user_id = ?", userID).Error; err != nil {
		return err
	}
	return db.Instance.Delete(&User{}, "id = ?", userID).Error
}
