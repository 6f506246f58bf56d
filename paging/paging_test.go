package paging_test

import (
	"fmt"
	"os"
	"server/config"
	"server/db"
	"server/models"
	"server/paging"
	"testing"
)

func TestMain(m *testing.M) {
	config.SQLITE_FILE = "file::memory:?cache=shared&_foreign_keys=on"
	db.Init()
	models.Init()
	os.Exit(m.Run())
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, config.DEFAULT_PAGE_SIZE},
		{-5, config.DEFAULT_PAGE_SIZE},
		{7, 7},
		{config.MAX_PAGE_SIZE + 1, config.MAX_PAGE_SIZE},
	}
	for _, tt := range tests {
		if got := paging.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// Walking a listing page by page must visit every row exactly once, even when
// the sort column has heavy ties (all rows here share one created_at).
func TestKeysetPagingIsComplete(t *testing.T) {
	user, err := models.UserCreate("Pager", "pager", "pager@example.com", "pw")
	if err != nil {
		t.Fatalf("UserCreate: %v", err)
	}
	album, err := models.AlbumCreate(user.ID, "Pages", "", false, "")
	if err != nil {
		t.Fatalf("AlbumCreate: %v", err)
	}
	const total = 25
	for i := 0; i < total; i++ {
		_, err := models.PhotoAdd(user.ID, models.PhotoAddInput{
			AlbumID:     album.ID,
			Title:       fmt.Sprintf("Photo %02d", i),
			URL:         fmt.Sprintf("/photos/view?sid=p%d", i),
			ThumbURL:    fmt.Sprintf("/photos/view?sid=p%d&thumb=1", i),
			StorageID:   fmt.Sprintf("p%d", i),
			AspectRatio: 1,
		})
		if err != nil {
			t.Fatalf("PhotoAdd: %v", err)
		}
	}

	spec := paging.Spec{Column: "created_at", Desc: true}
	const limit = 10
	seen := map[uint64]bool{}
	var cursorID uint64
	pages := 0
	for {
		cursor := paging.Resolve(db.Instance, "photos", spec, cursorID)
		if cursorID != 0 && cursor == nil {
			t.Fatal("cursor row vanished")
		}
		var photos []models.Photo
		err := db.Instance.Scopes(paging.Scope(spec, cursor, limit)).
			Where("album_id = ?", album.ID).
			Find(&photos).Error
		if err != nil {
			t.Fatalf("page query: %v", err)
		}
		for _, p := range photos {
			if seen[p.ID] {
				t.Fatalf("photo %d returned twice", p.ID)
			}
			seen[p.ID] = true
			cursorID = p.ID
		}
		pages++
		next := paging.NextCursor(len(photos), limit, cursorID)
		if next == 0 {
			break
		}
		cursorID = next
	}
	if len(seen) != total {
		t.Errorf("walked %d photos in %d pages, want %d", len(seen), pages, total)
	}
}

func TestNextCursor(t *testing.T) {
	if got := paging.NextCursor(10, 10, 42); got != 42 {
		t.Errorf("full page: cursor = %d, want 42", got)
	}
	if got := paging.NextCursor(3, 10, 42); got != 0 {
		t.Errorf("short page: cursor = %d, want 0", got)
	}
	if got := paging.NextCursor(0, 10, 0); got != 0 {
		t.Errorf("empty page: cursor = %d, want 0", got)
	}
}

func TestResolveVanishedRow(t *testing.T) {
	spec := paging.Spec{Column: "created_at", Desc: true}
	if cursor := paging.Resolve(db.Instance, "photos", spec, 99999999); cursor != nil {
		t.Error("cursor for a vanished row should be nil")
	}
	if cursor := paging.Resolve(db.Instance, "photos", spec, 0); cursor != nil {
		t.Error("zero cursor should resolve to nil")
	}
}
