package models

import (
	"errors"
	"testing"
)

func TestLikeIsIdempotent(t *testing.T) {
	owner := testUser(t)
	fan := testUser(t)
	album := testAlbum(t, &owner, "Likes")
	photo := testPhoto(t, &owner, &album, "Sunset")

	_, created, err := LikePhoto(fan.ID, photo.ID)
	if err != nil || !created {
		t.Fatalf("first like: created=%v err=%v", created, err)
	}
	_, created, err = LikePhoto(fan.ID, photo.ID)
	if err != nil {
		t.Fatalf("second like: %v", err)
	}
	if created {
		t.Error("second like reported created")
	}
	if got := reloadPhoto(t, photo.ID).Likes; got != 1 {
		t.Errorf("likes = %d, want 1", got)
	}
	if got := activityCount(t, owner.ID, ActivityLike); got != 1 {
		t.Errorf("like activities = %d, want 1", got)
	}
}

func TestUnlikeRequiresLike(t *testing.T) {
	owner := testUser(t)
	fan := testUser(t)
	album := testAlbum(t, &owner, "Unlikes")
	photo := testPhoto(t, &owner, &album, "Sunrise")

	if _, err := UnlikePhoto(fan.ID, photo.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("unlike without like: %v, want ErrInvalidState", err)
	}
	if _, _, err := LikePhoto(fan.ID, photo.ID); err != nil {
		t.Fatalf("LikePhoto: %v", err)
	}
	if _, err := UnlikePhoto(fan.ID, photo.ID); err != nil {
		t.Fatalf("UnlikePhoto: %v", err)
	}
	if got := reloadPhoto(t, photo.ID).Likes; got != 0 {
		t.Errorf("likes after unlike = %d, want 0", got)
	}
	if _, err := UnlikePhoto(fan.ID, photo.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double unlike: %v, want ErrInvalidState", err)
	}
}

func TestLikeMissingPhoto(t *testing.T) {
	fan := testUser(t)
	if _, _, err := LikePhoto(fan.ID, 999999); !errors.Is(err, ErrNotFound) {
		t.Errorf("like of missing photo: %v, want ErrNotFound", err)
	}
}

func TestLikeOwnPhotoSuppressesActivity(t *testing.T) {
	owner := testUser(t)
	album := testAlbum(t, &owner, "Self")
	photo := testPhoto(t, &owner, &album, "Me")

	_, created, err := LikePhoto(owner.ID, photo.ID)
	if err != nil || !created {
		t.Fatalf("self like: created=%v err=%v", created, err)
	}
	if got := reloadPhoto(t, photo.ID).Likes; got != 1 {
		t.Errorf("likes = %d, want 1", got)
	}
	if got := activityCount(t, owner.ID, ActivityLike); got != 0 {
		t.Errorf("self like produced %d activities, want 0", got)
	}
}
