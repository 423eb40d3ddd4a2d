// Package state holds the application state stores and their persistence glue.
//
// Every store owns its slice of state behind a mutex, mutates it synchronously and
// hands a serialized snapshot to a Writer, which persists it in the background.
// Stores never share entities; they refer to each other's data by id only.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Record keys in the persistent key-value store.
const (
	KeyAuth           = "auth-storage"
	KeyCourses        = "course-storage"
	KeyProgress       = "progress-storage"
	KeyTasks          = "task-storage"
	KeySubscription   = "subscription-storage"
	KeyOnboardingSeen = "onboarding-seen"
	KeyTheme          = "theme"
	quizKeyPrefix     = "quiz:"
	quizKeySuffix     = ":score"
)

// QuizScoreKey is the key holding the correct-answer count for a quiz language.
func QuizScoreKey(lang string) string {
	return quizKeyPrefix + lang + quizKeySuffix
}

// Writer accepts fire-and-forget writes.
type Writer interface {
	Put(key string, value []byte)
	Delete(key string)
}

// Clock returns the current time.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// Logf reports problems that are not surfaced to callers.
type Logf func(format string, args ...any)

func (l Logf) printf(format string, args ...any) {
	if l == nil {
		logErrf(format, args...)
		return
	}
	l(format, args...)
}

func putJSON(w Writer, key string, v any, logf Logf) {
	raw, err := json.Marshal(v)
	if err != nil {
		logf.printf("failed to encode %s: %v\n", key, err)
		return
	}
	w.Put(key, raw)
}

func decodeRecord(key string, raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

type loader interface {
	restore(raw []byte) error
}

func restoreKey(ctx context.Context, kv Backend, key string, l loader, logf Logf) error {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := l.restore(raw); err != nil {
		// A damaged record starts that store empty instead of blocking startup.
		logf.printf("%v; starting with empty state\n", err)
	}
	return nil
}

func appendUnique(ids []string, id string) ([]string, bool) {
	for _, existing := range ids {
		if existing == id {
			return ids, false
		}
	}
	return append(ids, id), true
}

func contains(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
