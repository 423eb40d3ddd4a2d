package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "learnhub.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st, path
}

func TestSetGetRemove(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := st.Get(ctx, "theme"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := st.Set(ctx, "theme", []byte("light")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Set(ctx, "theme", []byte("dark")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, ok, err := st.Get(ctx, "theme")
	if err != nil || !ok {
		t.Fatalf("expected stored key, got ok=%v err=%v", ok, err)
	}
	if string(value) != "dark" {
		t.Fatalf("expected dark, got %q", value)
	}
	if err := st.Remove(ctx, "theme"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := st.Remove(ctx, "theme"); err != nil {
		t.Fatalf("remove absent key: %v", err)
	}
	if _, ok, _ := st.Get(ctx, "theme"); ok {
		t.Fatalf("expected key to be removed")
	}
}

func TestKeysByPrefix(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	for _, key := range []string{"quiz:python:score", "quiz:java:score", "theme", "quiz_other"} {
		if err := st.Set(ctx, key, []byte("1")); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	keys, err := st.Keys(ctx, "quiz:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "quiz:java:score" || keys[1] != "quiz:python:score" {
		t.Fatalf("unexpected keys: %v", keys)
	}
	all, err := st.Keys(ctx, "")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 keys, got %d", len(all))
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	st, path := openTestStore(t)
	ctx := context.Background()
	if err := st.Set(ctx, "onboarding-seen", []byte("true")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() {
		_ = reopened.Close()
	})
	value, ok, err := reopened.Get(ctx, "onboarding-seen")
	if err != nil || !ok || string(value) != "true" {
		t.Fatalf("expected persisted value, got %q ok=%v err=%v", value, ok, err)
	}
}
