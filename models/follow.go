package models

import (
	"errors"
	"fmt"
	"server/db"
	"time"

	"gorm.io/gorm"
)

type Follow struct {
	ID         uint64 `gorm:"primaryKey"`
	CreatedAt  int64
	FollowerID uint64 `gorm:"not null;index:uniq_follow_edge,unique,priority:1;index"`
	Follower   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FollowedID uint64 `gorm:"not null;index:uniq_follow_edge,unique,priority:2;index"`
	Followed   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// FollowUser creates the edge and bumps both counters. Following someone
// twice returns the existing edge untouched; following yourself is rejected.
func FollowUser(followerID, followedID uint64) (edge Follow, created bool, err error) {
	if followerID == followedID {
		return edge, false, fmt.Errorf("%w: cannot follow yourself", ErrInvalidArgument)
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		var followed User
		if err := tx.First(&followed, "id = ?", followedID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", ErrNotFound, followedID)
			}
			return err
		}
		edge = Follow{FollowerID: followerID, FollowedID: followedID}
		result := tx.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
			Attrs(Follow{CreatedAt: time.Now().Unix()}).
			FirstOrCreate(&edge)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil // already following
		}
		created = true
		if err := tx.Model(&User{}).Where("id = ?", followerID).
			UpdateColumn("following_count", counterInc("following_count")).Error; err != nil {
			return err
		}
		if err := tx.Model(&User{}).Where("id = ?", followedID).
			UpdateColumn("followers_count", counterInc("followers_count")).Error; err != nil {
			return err
		}
		return activityAdd(tx, Activity{
			ActorID:      followerID,
			TargetUserID: followedID,
			Type:         ActivityFollow,
		})
	})
	return edge, created, err
}

// UnfollowUser requires an existing edge; unfollowing twice is
// ErrInvalidState. Both counters are decremented, floored at zero.
func UnfollowUser(followerID, followedID uint64) (edgeID uint64, err error) {
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		var edge Follow
		if err := tx.First(&edge, "follower_id = ? AND followed_id = ?", followerID, followedID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: not following this user", ErrInvalidState)
			}
			return err
		}
		edgeID = edge.ID
		if err := tx.Delete(&Follow{}, "id = ?", edge.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&User{}).Where("id = ?", followerID).
			UpdateColumn("following_count", counterDec("following_count")).Error; err != nil {
			return err
		}
		return tx.Model(&User{}).Where("id = ?", followedID).
			UpdateColumn("followers_count", counterDec("followers_count")).Error
	})
	return edgeID, err
}

func IsFollowing(followerID, followedID uint64) (bool, error) {
	var count int64
	err := db.Instance.Model(&Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}
