package models

import (
	"server/db"
	"testing"

	"gorm.io/gorm"
)

func likeAsActivity(t *testing.T, actor *User, owner *User) Activity {
	t.Helper()
	album := testAlbum(t, owner, "Feed")
	photo := testPhoto(t, owner, &album, "Seen")
	if _, _, err := LikePhoto(actor.ID, photo.ID); err != nil {
		t.Fatalf("LikePhoto: %v", err)
	}
	var a Activity
	if err := db.Instance.Last(&a, "target_user_id = ?", owner.ID).Error; err != nil {
		t.Fatalf("loading activity: %v", err)
	}
	return a
}

func TestActivitiesMarkRead(t *testing.T) {
	owner := testUser(t)
	fan := testUser(t)
	first := likeAsActivity(t, &fan, &owner)
	second := likeAsActivity(t, &fan, &owner)

	if count, _ := ActivitiesUnreadCount(owner.ID); count != 2 {
		t.Errorf("unread = %d, want 2", count)
	}
	updated, err := ActivitiesMarkRead(owner.ID, []uint64{first.ID})
	if err != nil || updated != 1 {
		t.Errorf("MarkRead: updated=%d err=%v, want 1", updated, err)
	}
	// Already-read ids are skipped silently
	updated, _ = ActivitiesMarkRead(owner.ID, []uint64{first.ID})
	if updated != 0 {
		t.Errorf("repeat MarkRead updated %d rows", updated)
	}
	// Foreign rows are not touched
	updated, _ = ActivitiesMarkRead(fan.ID, []uint64{second.ID})
	if updated != 0 {
		t.Errorf("MarkRead on foreign activity updated %d rows", updated)
	}
	updated, _ = ActivitiesMarkAllRead(owner.ID)
	if updated != 1 {
		t.Errorf("MarkAllRead updated %d rows, want 1", updated)
	}
	if count, _ := ActivitiesUnreadCount(owner.ID); count != 0 {
		t.Errorf("unread after mark-all = %d, want 0", count)
	}
}

func TestActivitiesDelete(t *testing.T) {
	owner := testUser(t)
	fan := testUser(t)
	first := likeAsActivity(t, &fan, &owner)
	likeAsActivity(t, &fan, &owner)

	deleted, err := ActivitiesDelete(owner.ID, []uint64{first.ID})
	if err != nil || deleted != 1 {
		t.Errorf("Delete: deleted=%d err=%v, want 1", deleted, err)
	}
	deleted, err = ActivitiesClear(owner.ID)
	if err != nil || deleted != 1 {
		t.Errorf("Clear: deleted=%d err=%v, want 1", deleted, err)
	}
	if count, _ := ActivitiesUnreadCount(owner.ID); count != 0 {
		t.Errorf("unread after clear = %d, want 0", count)
	}
}

func TestActivityTypeContract(t *testing.T) {
	if ActivityType("poke").Valid() {
		t.Error("unknown type reported valid")
	}
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		return activityAdd(tx, Activity{ActorID: 1, TargetUserID: 2, Type: ActivityLike})
	})
	if err == nil {
		t.Error("like activity without a photo was accepted")
	}
}
