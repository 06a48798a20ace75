package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	sess, err := New(42, "mina", "tok", time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if sess.ID == "" {
		t.Error("ID should be generated")
	}
	if sess.IsExpired() {
		t.Error("fresh session should not be expired")
	}
	if got := sess.CurrentUserID(); got != "42" {
		t.Errorf("CurrentUserID() = %q, want 42", got)
	}
	h := sess.Headers()
	if h["Authorization"] != "Bearer tok" || h[UserIDHeader] != "42" {
		t.Errorf("Headers() = %v", h)
	}
}

func TestSession_NilAndAnonymous(t *testing.T) {
	var nilSess *Session
	if nilSess.CurrentUserID() != "" || nilSess.Headers() != nil {
		t.Error("nil session should have no identity")
	}
	h := (&Session{UserID: 5}).Headers()
	if _, ok := h["Authorization"]; ok || h[UserIDHeader] != "5" {
		t.Errorf("Headers() without token = %v", h)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	got, err := store.Get(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("Get(missing) = %v, %v; want nil, nil", got, err)
	}

	sess, _ := New(7, "jun", "", time.Hour)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err = store.Get(ctx, sess.ID)
	if err != nil || got == nil {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if got.UserID != 7 || got.UserName != "jun" {
		t.Errorf("Get = %+v", got)
	}

	info, err := os.Stat(filepath.Join(store.Path(), sess.ID+".json"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session file mode = %o, want 600", perm)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := store.Get(ctx, sess.ID); got != nil {
		t.Error("session should be gone after Delete")
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileStore_Expired(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	expired := &Session{ID: "old", UserID: 1, ExpiresAt: time.Now().Add(-time.Minute)}
	live := &Session{ID: "new", UserID: 2, ExpiresAt: time.Now().Add(time.Hour)}
	for _, s := range []*Session{expired, live} {
		if err := store.Set(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Path(), "old.json")); !os.IsNotExist(err) {
		t.Error("expired session file should be removed by Cleanup")
	}
	if got, _ := store.Get(ctx, "new"); got == nil {
		t.Error("live session should survive Cleanup")
	}

	if err := store.Set(ctx, expired); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Get(ctx, "old"); got != nil {
		t.Error("Get should not return an expired session")
	}
}

func TestCLIStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewCLIStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewCLIStore: %v", err)
	}

	if got := store.CurrentUserID(ctx); got != "" {
		t.Errorf("CurrentUserID() signed out = %q", got)
	}

	sess, _ := New(9, "ara", "", time.Hour)
	if err := store.SaveSession(ctx, sess); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if sess.ID != defaultCLISessionID {
		t.Errorf("ID = %q, want %q", sess.ID, defaultCLISessionID)
	}
	if got := store.CurrentUserID(ctx); got != "9" {
		t.Errorf("CurrentUserID() = %q, want 9", got)
	}
	if filepath.Base(store.Path()) != defaultCLISessionID+".json" {
		t.Errorf("Path() = %q", store.Path())
	}

	if err := store.DeleteSession(ctx); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if got, err := store.GetSession(ctx); got != nil || err != nil {
		t.Errorf("GetSession after delete = %v, %v", got, err)
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "setlist", "sessions") {
		t.Errorf("DefaultDir() = %q", dir)
	}
}
