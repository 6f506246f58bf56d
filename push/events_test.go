package push

import (
	"net/http"
	"net/http/httptest"
	"os"
	"server/config"
	"server/db"
	"server/models"
	"sync/atomic"
	"testing"
)

func TestMain(m *testing.M) {
	config.SQLITE_FILE = "file::memory:?cache=shared&_foreign_keys=on"
	db.Init()
	models.Init()
	os.Exit(m.Run())
}

// Acting on your own content must not push a notification to yourself, same
// as the activity rows are suppressed.
func TestEventsSkipSelf(t *testing.T) {
	var sent int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&sent, 1)
	}))
	defer srv.Close()
	oldServer := config.PUSH_SERVER
	config.PUSH_SERVER = srv.URL
	defer func() { config.PUSH_SERVER = oldServer }()

	owner, err := models.UserCreate("Push Owner", "pushowner", "pushowner@example.com", "pw")
	if err != nil {
		t.Fatalf("UserCreate: %v", err)
	}
	owner.SetNewPushToken()
	fan, err := models.UserCreate("Push Fan", "pushfan", "pushfan@example.com", "pw")
	if err != nil {
		t.Fatalf("UserCreate: %v", err)
	}
	photo := models.Photo{ID: 42, UserID: owner.ID}

	PhotoLiked(&owner, &photo)
	PhotoCommented(&owner, &photo, "talking to myself")
	PhotoBookmarked(&owner, &photo)
	UserFollowed(&owner, owner.ID)
	if n := atomic.LoadInt32(&sent); n != 0 {
		t.Errorf("%d pushes sent for self actions, want 0", n)
	}

	PhotoLiked(&fan, &photo)
	if n := atomic.LoadInt32(&sent); n != 1 {
		t.Errorf("%d pushes sent for a fan's like, want 1", n)
	}
}
