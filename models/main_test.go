package models

import (
	"fmt"
	"os"
	"server/config"
	"server/db"
	"testing"
)

var testSeq int

func TestMain(m *testing.M) {
	// Foreign keys are enforced so the constraint cascades behave the same
	// way they do on MySQL in production
	config.SQLITE_FILE = "file::memory:?cache=shared&_foreign_keys=on"
	db.Init()
	Init()
	os.Exit(m.Run())
}

func testUser(t *testing.T) User {
	t.Helper()
	testSeq++
	u, err := UserCreate(
		fmt.Sprintf("User %d", testSeq),
		fmt.Sprintf("user%d", testSeq),
		fmt.Sprintf("user%d@example.com", testSeq),
		"secret123")
	if err != nil {
		t.Fatalf("UserCreate: %v", err)
	}
	return u
}

func testAlbum(t *testing.T, user *User, title string) Album {
	t.Helper()
	album, err := AlbumCreate(user.ID, title, "", false, "")
	if err != nil {
		t.Fatalf("AlbumCreate: %v", err)
	}
	return album
}

func testPhoto(t *testing.T, user *User, album *Album, title string) Photo {
	t.Helper()
	testSeq++
	sid := fmt.Sprintf("sid-%d", testSeq)
	photo, err := PhotoAdd(user.ID, PhotoAddInput{
		AlbumID:     album.ID,
		Title:       title,
		URL:         "/photos/view?sid=" + sid,
		ThumbURL:    "/photos/view?sid=" + sid + "&thumb=1",
		StorageID:   sid,
		AspectRatio: 1.5,
	})
	if err != nil {
		t.Fatalf("PhotoAdd: %v", err)
	}
	return photo
}

func reloadUser(t *testing.T, id uint64) User {
	t.Helper()
	u, err := UserGet(id)
	if err != nil {
		t.Fatalf("UserGet(%d): %v", id, err)
	}
	return u
}

func reloadAlbum(t *testing.T, id uint64) Album {
	t.Helper()
	a, err := AlbumGet(id)
	if err != nil {
		t.Fatalf("AlbumGet(%d): %v", id, err)
	}
	return a
}

func reloadPhoto(t *testing.T, id uint64) Photo {
	t.Helper()
	p, err := PhotoGet(id)
	if err != nil {
		t.Fatalf("PhotoGet(%d): %v", id, err)
	}
	return p
}

func activityCount(t *testing.T, targetUserID uint64, activityType ActivityType) int64 {
	t.Helper()
	var count int64
	err := db.Instance.Model(&Activity{}).
		Where("target_user_id = ? AND type = ?", targetUserID, activityType).
		Count(&count).Error
	if err != nil {
		t.Fatalf("counting activities: %v", err)
	}
	return count
}
