package models

import (
	"errors"
	"testing"
)

func TestCommentAdd(t *testing.T) {
	owner := testUser(t)
	fan := testUser(t)
	album := testAlbum(t, &owner, "Comments")
	photo := testPhoto(t, &owner, &album, "Debated")

	comment, err := CommentAdd(fan.ID, photo.ID, "  great shot  ")
	if err != nil {
		t.Fatalf("CommentAdd: %v", err)
	}
	if comment.Content != "great shot" {
		t.Errorf("content = %q, want trimmed", comment.Content)
	}
	if got := reloadPhoto(t, photo.ID).Comments; got != 1 {
		t.Errorf("comments = %d, want 1", got)
	}
	if got := activityCount(t, owner.ID, ActivityComment); got != 1 {
		t.Errorf("comment activities = %d, want 1", got)
	}

	if _, err := CommentAdd(fan.ID, photo.ID, "   "); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("blank comment: %v, want ErrInvalidArgument", err)
	}
	if _, err := CommentAdd(fan.ID, 999999, "hello"); !errors.Is(err, ErrNotFound) {
		t.Errorf("comment on missing photo: %v, want ErrNotFound", err)
	}
}

func TestCommentDeletePermissions(t *testing.T) {
	owner := testUser(t)
	author := testUser(t)
	stranger := testUser(t)
	album := testAlbum(t, &owner, "Moderation")
	photo := testPhoto(t, &owner, &album, "Contested")

	comment, err := CommentAdd(author.ID, photo.ID, "first")
	if err != nil {
		t.Fatalf("CommentAdd: %v", err)
	}
	if err := CommentDelete(stranger.ID, comment.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("stranger delete: %v, want ErrPermissionDenied", err)
	}
	// The photo owner can moderate comments on their photo
	if err := CommentDelete(owner.ID, comment.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if got := reloadPhoto(t, photo.ID).Comments; got != 0 {
		t.Errorf("comments after delete = %d, want 0", got)
	}

	comment, err = CommentAdd(author.ID, photo.ID, "second")
	if err != nil {
		t.Fatalf("CommentAdd: %v", err)
	}
	if err := CommentDelete(author.ID, comment.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if err := CommentDelete(author.ID, comment.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: %v, want ErrNotFound", err)
	}
}
