package models

import (
	"errors"
	"testing"
)

func TestAlbumShare(t *testing.T) {
	owner := testUser(t)
	stranger := testUser(t)
	album := testAlbum(t, &owner, "Shared")

	if _, err := AlbumShareCreate(stranger.ID, album.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("share by non-owner: %v, want ErrPermissionDenied", err)
	}
	share, err := AlbumShareCreate(owner.ID, album.ID)
	if err != nil {
		t.Fatalf("AlbumShareCreate: %v", err)
	}
	if share.Token == "" {
		t.Fatal("share token is empty")
	}
	// Sharing again returns the same token
	again, err := AlbumShareCreate(owner.ID, album.ID)
	if err != nil {
		t.Fatalf("repeat AlbumShareCreate: %v", err)
	}
	if again.Token != share.Token {
		t.Errorf("repeat share minted a new token: %q vs %q", again.Token, share.Token)
	}

	found, err := AlbumShareByToken(share.Token)
	if err != nil || found.AlbumID != album.ID {
		t.Errorf("AlbumShareByToken: album=%d err=%v", found.AlbumID, err)
	}
	if _, err := AlbumShareByToken("no-such-token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown token: %v, want ErrNotFound", err)
	}
}
