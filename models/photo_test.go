package models

import (
	"errors"
	"server/db"
	"testing"
)

func TestPhotoAddChecks(t *testing.T) {
	owner := testUser(t)
	stranger := testUser(t)
	album := testAlbum(t, &owner, "Checks")

	_, err := PhotoAdd(stranger.ID, PhotoAddInput{
		AlbumID: album.ID, URL: "u", ThumbURL: "t", AspectRatio: 1,
	})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("add to foreign album: %v, want ErrPermissionDenied", err)
	}
	_, err = PhotoAdd(owner.ID, PhotoAddInput{
		AlbumID: 999999, URL: "u", ThumbURL: "t", AspectRatio: 1,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("add to missing album: %v, want ErrNotFound", err)
	}
	_, err = PhotoAdd(owner.ID, PhotoAddInput{
		AlbumID: album.ID, URL: "u", ThumbURL: "t", AspectRatio: 0,
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero aspect ratio: %v, want ErrInvalidArgument", err)
	}
}

func TestPhotoDeleteCascade(t *testing.T) {
	owner := testUser(t)
	fan := testUser(t)
	album := testAlbum(t, &owner, "PhotoCascade")
	photo := testPhoto(t, &owner, &album, "Doomed")

	if _, _, err := LikePhoto(fan.ID, photo.ID); err != nil {
		t.Fatalf("LikePhoto: %v", err)
	}
	if _, _, err := BookmarkPhoto(fan.ID, photo.ID); err != nil {
		t.Fatalf("BookmarkPhoto: %v", err)
	}
	comment, err := CommentAdd(fan.ID, photo.ID, "bye")
	if err != nil {
		t.Fatalf("CommentAdd: %v", err)
	}

	if err := PhotoDelete(fan.ID, photo.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("delete by non-owner: %v, want ErrPermissionDenied", err)
	}
	if err := PhotoDelete(owner.ID, photo.ID); err != nil {
		t.Fatalf("PhotoDelete: %v", err)
	}

	if _, err := PhotoGet(photo.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("PhotoGet after delete: %v, want ErrNotFound", err)
	}
	var count int64
	db.Instance.Model(&Comment{}).Where("id = ?", comment.ID).Count(&count)
	if count != 0 {
		t.Error("comment row survived the cascade")
	}
	if PhotoIsLiked(fan.ID, photo.ID) || PhotoIsBookmarked(fan.ID, photo.ID) {
		t.Error("like or bookmark row survived the cascade")
	}
	if got := reloadUser(t, owner.ID).TotalPhotos; got != 0 {
		t.Errorf("total_photos after delete = %d, want 0", got)
	}
}

func TestPhotoStorageAccounting(t *testing.T) {
	owner := testUser(t)
	album := testAlbum(t, &owner, "Sized")

	photo, err := PhotoAdd(owner.ID, PhotoAddInput{
		AlbumID: album.ID, URL: "u", ThumbURL: "t", AspectRatio: 1, Size: 2048,
	})
	if err != nil {
		t.Fatalf("PhotoAdd: %v", err)
	}
	if got := reloadUser(t, owner.ID).StorageUsed; got != 2048 {
		t.Errorf("storage_used after add = %d, want 2048", got)
	}
	if err := PhotoDelete(owner.ID, photo.ID); err != nil {
		t.Fatalf("PhotoDelete: %v", err)
	}
	if got := reloadUser(t, owner.ID).StorageUsed; got != 0 {
		t.Errorf("storage_used after delete = %d, want 0", got)
	}
}

func TestPhotosDeleteBatch(t *testing.T) {
	owner := testUser(t)
	stranger := testUser(t)
	album := testAlbum(t, &owner, "Batch")
	first := testPhoto(t, &owner, &album, "One")
	second := testPhoto(t, &owner, &album, "Two")
	kept := testPhoto(t, &owner, &album, "Three")
	theirAlbum := testAlbum(t, &stranger, "Theirs")
	theirs := testPhoto(t, &stranger, &theirAlbum, "Foreign")

	// A foreign photo aborts the whole batch before anything is deleted
	if _, err := PhotosDelete(owner.ID, []uint64{first.ID, theirs.ID}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("batch with a foreign photo: %v, want ErrPermissionDenied", err)
	}
	if _, err := PhotoGet(first.ID); err != nil {
		t.Errorf("photo deleted by an aborted batch: %v", err)
	}

	// Missing ids are skipped, everything else goes away
	deleted, err := PhotosDelete(owner.ID, []uint64{first.ID, second.ID, 999999})
	if err != nil {
		t.Fatalf("PhotosDelete: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	if _, err := PhotoGet(kept.ID); err != nil {
		t.Errorf("untargeted photo deleted: %v", err)
	}
	if got := reloadAlbum(t, album.ID).PhotoCount; got != 1 {
		t.Errorf("album photo_count after batch = %d, want 1", got)
	}
	if got := reloadUser(t, owner.ID).TotalPhotos; got != 1 {
		t.Errorf("total_photos after batch = %d, want 1", got)
	}
}

func TestPhotoUpdate(t *testing.T) {
	owner := testUser(t)
	album := testAlbum(t, &owner, "Edits")
	photo := testPhoto(t, &owner, &album, "Draft")

	title := "Final Cut"
	updated, err := PhotoUpdate(owner.ID, photo.ID, &title, nil)
	if err != nil {
		t.Fatalf("PhotoUpdate: %v", err)
	}
	if updated.Title != "Final Cut" || updated.SearchText != "final cut" {
		t.Errorf("update result title=%q search=%q", updated.Title, updated.SearchText)
	}
}

func TestPhotoPaths(t *testing.T) {
	photo := Photo{UserID: 3, StorageID: "abc"}
	if got := photo.GetPath(); got != "user/3/abc.jpg" {
		t.Errorf("GetPath = %q", got)
	}
	if got := photo.GetThumbPath(); got != "user/3/abc_thumb.jpg" {
		t.Errorf("GetThumbPath = %q", got)
	}
}
