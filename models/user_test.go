package models

import (
	"errors"
	"server/config"
	"server/db"
	"testing"
)

func TestUserCreateAndLogin(t *testing.T) {
	user := testUser(t)

	// Duplicate username or email is a conflict
	if _, err := UserCreate("Other", user.Username, "other@example.com", "pw"); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate username: %v, want ErrConflict", err)
	}
	if _, err := UserCreate("Other", "othername", user.Email, "pw"); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate email: %v, want ErrConflict", err)
	}
	if _, err := UserCreate("", "x", "x@example.com", "pw"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("missing name: %v, want ErrInvalidArgument", err)
	}

	if _, ok := UserLogin(user.Email, "secret123"); !ok {
		t.Error("login with correct password failed")
	}
	if _, ok := UserLogin(user.Email, "wrong"); ok {
		t.Error("login with wrong password succeeded")
	}
}

func TestUsernameAvailable(t *testing.T) {
	user := testUser(t)
	if available, _ := UsernameAvailable(user.Username, 0); available {
		t.Error("taken username reported available")
	}
	// A user always owns their current username
	if available, _ := UsernameAvailable(user.Username, user.ID); !available {
		t.Error("own username reported unavailable")
	}
	if available, _ := UsernameAvailable("definitely-free-name", 0); !available {
		t.Error("free username reported unavailable")
	}
}

func TestUserUpdateProfile(t *testing.T) {
	user := testUser(t)
	other := testUser(t)

	if _, err := UserUpdateProfile(user.ID, UserProfileUpdate{Username: &other.Username}); !errors.Is(err, ErrConflict) {
		t.Errorf("stealing a username: %v, want ErrConflict", err)
	}
	name := "New Name"
	updated, err := UserUpdateProfile(user.ID, UserProfileUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UserUpdateProfile: %v", err)
	}
	if updated.Name != "New Name" {
		t.Errorf("name = %q", updated.Name)
	}
}

func TestUserWithinQuota(t *testing.T) {
	quota := config.USER_QUOTA_BYTES
	defer func() { config.USER_QUOTA_BYTES = quota }()

	config.USER_QUOTA_BYTES = 1000
	u := User{StorageUsed: 900}
	if !u.WithinQuota(100) {
		t.Error("exactly at the quota should be allowed")
	}
	if u.WithinQuota(101) {
		t.Error("over the quota should be rejected")
	}
	config.USER_QUOTA_BYTES = 0
	if !u.WithinQuota(1 << 40) {
		t.Error("zero quota should disable the check")
	}
}

// Deleting an account must also clean up the user's likes, comments and
// bookmarks on photos they do not own, decrementing those photos' counters.
// Relying on the database's foreign-key cascade would delete the rows
// without the counter fix-ups.
func TestUserDeleteFixesOtherUsersCounters(t *testing.T) {
	owner := testUser(t)
	fan := testUser(t)
	album := testAlbum(t, &owner, "Kept")
	photo := testPhoto(t, &owner, &album, "Popular")

	if _, _, err := LikePhoto(fan.ID, photo.ID); err != nil {
		t.Fatalf("LikePhoto: %v", err)
	}
	if _, err := CommentAdd(fan.ID, photo.ID, "nice shot"); err != nil {
		t.Fatalf("CommentAdd: %v", err)
	}
	if _, _, err := BookmarkPhoto(fan.ID, photo.ID); err != nil {
		t.Fatalf("BookmarkPhoto: %v", err)
	}

	if err := UserDelete(fan.ID); err != nil {
		t.Fatalf("UserDelete: %v", err)
	}

	p := reloadPhoto(t, photo.ID)
	if p.Likes != 0 {
		t.Errorf("photo.Likes = %d after the liker's account was deleted, want 0", p.Likes)
	}
	if p.Comments != 0 {
		t.Errorf("photo.Comments = %d after the commenter's account was deleted, want 0", p.Comments)
	}
	var likeRows, commentRows, bookmarkRows int64
	db.Instance.Model(&Like{}).Where("photo_id = ?", photo.ID).Count(&likeRows)
	db.Instance.Model(&Comment{}).Where("photo_id = ?", photo.ID).Count(&commentRows)
	db.Instance.Model(&Bookmark{}).Where("photo_id = ?", photo.ID).Count(&bookmarkRows)
	if likeRows != 0 || commentRows != 0 || bookmarkRows != 0 {
		t.Errorf("dependent rows remain: likes=%d comments=%d bookmarks=%d", likeRows, commentRows, bookmarkRows)
	}
	// The owner and their photo are untouched otherwise
	o := reloadUser(t, owner.ID)
	if o.TotalPhotos != 1 || o.AlbumCount != 1 {
		t.Errorf("owner counters changed: totalPhotos=%d albumCount=%d", o.TotalPhotos, o.AlbumCount)
	}
}

func TestUserDeleteCascade(t *testing.T) {
	leaver := testUser(t)
	friend := testUser(t)

	album := testAlbum(t, &leaver, "Leaving")
	photo := testPhoto(t, &leaver, &album, "Last")
	if _, _, err := LikePhoto(friend.ID, photo.ID); err != nil {
		t.Fatalf("LikePhoto: %v", err)
	}
	// Edges in both directions
	if _, _, err := FollowUser(leaver.ID, friend.ID); err != nil {
		t.Fatalf("FollowUser: %v", err)
	}
	if _, _, err := FollowUser(friend.ID, leaver.ID); err != nil {
		t.Fatalf("FollowUser: %v", err)
	}

	if err := UserDelete(leaver.ID); err != nil {
		t.Fatalf("UserDelete: %v", err)
	}

	if _, err := UserGet(leaver.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("UserGet after delete: %v, want ErrNotFound", err)
	}
	if _, err := AlbumGet(album.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("album survived account deletion: %v", err)
	}
	if _, err := PhotoGet(photo.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("photo survived account deletion: %v", err)
	}
	// The friend's counters lose the departed user on both sides
	f := reloadUser(t, friend.ID)
	if f.FollowersCount != 0 || f.FollowingCount != 0 {
		t.Errorf("friend counters after deletion: followers=%d following=%d", f.FollowersCount, f.FollowingCount)
	}
	var count int64
	db.Instance.Model(&Activity{}).Where("actor_id = ? OR target_user_id = ?", leaver.ID, leaver.ID).Count(&count)
	if count != 0 {
		t.Errorf("%d activities referencing the deleted user remain", count)
	}
}
