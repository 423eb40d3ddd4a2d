package backup

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/learnhub/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "learnhub.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := openTestStore(t)
	records := map[string]string{
		"course-storage":    `{"enrolledCourses":["1"],"completedCourses":[]}`,
		"quiz:python:score": "6",
		"theme":             "dark",
	}
	for key, value := range records {
		if err := src.Set(ctx, key, []byte(value)); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}

	var buf bytes.Buffer
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	n, err := Export(ctx, src, &buf, now)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 records exported, got %d", n)
	}

	archive, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !archive.ExportedAt.Equal(now) {
		t.Fatalf("expected export time %v, got %v", now, archive.ExportedAt)
	}

	dst := openTestStore(t)
	if err := dst.Set(ctx, "theme", []byte("light")); err != nil {
		t.Fatalf("seed dst: %v", err)
	}
	if err := dst.Set(ctx, "onboarding-seen", []byte("true")); err != nil {
		t.Fatalf("seed dst: %v", err)
	}
	n, err = Import(ctx, dst, bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 records imported, got %d", n)
	}
	for key, want := range records {
		got, ok, err := dst.Get(ctx, key)
		if err != nil || !ok {
			t.Fatalf("expected %s after import, got ok=%v err=%v", key, ok, err)
		}
		if string(got) != want {
			t.Fatalf("expected %s=%s, got %s", key, want, got)
		}
	}
	if _, ok, _ := dst.Get(ctx, "onboarding-seen"); !ok {
		t.Fatalf("expected keys missing from the archive to be kept")
	}
}

func TestImportRejectsGarbage(t *testing.T) {
	dst := openTestStore(t)
	if _, err := Import(context.Background(), dst, bytes.NewReader([]byte("not brotli"))); err == nil {
		t.Fatalf("expected error for invalid archive")
	}
}
