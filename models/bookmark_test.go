package models

import (
	"errors"
	"testing"
)

func TestBookmarkIsIdempotent(t *testing.T) {
	owner := testUser(t)
	fan := testUser(t)
	album := testAlbum(t, &owner, "Bookmarks")
	photo := testPhoto(t, &owner, &album, "Keeper")

	_, created, err := BookmarkPhoto(fan.ID, photo.ID)
	if err != nil || !created {
		t.Fatalf("first bookmark: created=%v err=%v", created, err)
	}
	_, created, err = BookmarkPhoto(fan.ID, photo.ID)
	if err != nil {
		t.Fatalf("second bookmark: %v", err)
	}
	if created {
		t.Error("second bookmark reported created")
	}
	if !PhotoIsBookmarked(fan.ID, photo.ID) {
		t.Error("PhotoIsBookmarked = false after bookmarking")
	}
	if got := activityCount(t, owner.ID, ActivityBookmark); got != 1 {
		t.Errorf("bookmark activities = %d, want 1", got)
	}
}

func TestUnbookmarkRequiresBookmark(t *testing.T) {
	owner := testUser(t)
	fan := testUser(t)
	album := testAlbum(t, &owner, "Unbookmarks")
	photo := testPhoto(t, &owner, &album, "Fleeting")

	if _, err := UnbookmarkPhoto(fan.ID, photo.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("unbookmark without bookmark: %v, want ErrInvalidState", err)
	}
	if _, _, err := BookmarkPhoto(fan.ID, photo.ID); err != nil {
		t.Fatalf("BookmarkPhoto: %v", err)
	}
	if _, err := UnbookmarkPhoto(fan.ID, photo.ID); err != nil {
		t.Fatalf("UnbookmarkPhoto: %v", err)
	}
	if PhotoIsBookmarked(fan.ID, photo.ID) {
		t.Error("still bookmarked after removal")
	}
}

func TestBookmarkedPhotoIDs(t *testing.T) {
	owner := testUser(t)
	fan := testUser(t)
	album := testAlbum(t, &owner, "Saved")
	first := testPhoto(t, &owner, &album, "A")
	second := testPhoto(t, &owner, &album, "B")

	if _, _, err := BookmarkPhoto(fan.ID, first.ID); err != nil {
		t.Fatalf("BookmarkPhoto: %v", err)
	}
	ids, err := BookmarkedPhotoIDs(fan.ID)
	if err != nil {
		t.Fatalf("BookmarkedPhotoIDs: %v", err)
	}
	if !ids[first.ID] || ids[second.ID] {
		t.Errorf("bookmarked set = %v", ids)
	}
	ids, err = BookmarkedPhotoIDs(0)
	if err != nil || len(ids) != 0 {
		t.Errorf("anonymous set = %v err=%v, want empty", ids, err)
	}
}
