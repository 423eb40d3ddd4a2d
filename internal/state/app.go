package state

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/learnhub/internal/model"
	"github.com/verte-zerg/learnhub/internal/persist"
)

// Backend is the persistent key-value store the application state lives in.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Options configures Open.
type Options struct {
	Clock             Clock
	LoginDelay        time.Duration
	DefaultTheme      model.Theme
	RequireEnrollment bool
	Courses           []model.Course
	Categories        []model.Category
	NewID             func() string
	Logf              Logf
}

// App bundles every state store of one running application.
type App struct {
	Catalog      *CatalogStore
	Lessons      *LessonStore
	Tasks        *TaskStore
	Identity     *IdentityStore
	Subscription *SubscriptionStore
	Prefs        *PreferencesStore

	writer *persist.Writer
}

// Open builds the stores, rehydrates them from kv and loads the catalog.
// Writes made through the returned App reach kv in the background.
func Open(ctx context.Context, kv Backend, opts Options) (*App, error) {
	var writerLogf persist.Logf
	if opts.Logf != nil {
		writerLogf = persist.Logf(opts.Logf)
	}
	w := persist.NewWriter(kv, writerLogf)

	app := &App{
		Catalog: NewCatalogStore(w, CatalogOptions{
			Courses:           opts.Courses,
			Categories:        opts.Categories,
			RequireEnrollment: opts.RequireEnrollment,
			Logf:              opts.Logf,
		}),
		Lessons:      NewLessonStore(w, opts.Clock, opts.Logf),
		Tasks:        NewTaskStore(w, opts.Clock, opts.Logf),
		Identity:     NewIdentityStore(w, opts.LoginDelay, opts.NewID, opts.Logf),
		Subscription: NewSubscriptionStore(w, opts.Clock, opts.Logf),
		Prefs:        NewPreferencesStore(w, opts.DefaultTheme, opts.Logf),
		writer:       w,
	}

	records := []struct {
		key string
		l   loader
	}{
		{KeyAuth, app.Identity},
		{KeyCourses, app.Catalog},
		{KeyProgress, app.Lessons},
		{KeyTasks, app.Tasks},
		{KeySubscription, app.Subscription},
	}
	for _, r := range records {
		if err := restoreKey(ctx, kv, r.key, r.l, opts.Logf); err != nil {
			app.closeQuietly()
			return nil, err
		}
	}
	if err := app.Prefs.restoreAll(ctx, kv); err != nil {
		app.closeQuietly()
		return nil, err
	}

	app.Catalog.Load()
	return app, nil
}

// Flush waits until every state change made so far has been persisted.
func (a *App) Flush(ctx context.Context) error {
	if err := a.writer.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush state: %w", err)
	}
	return nil
}

// Close flushes pending writes and stops the background writer.
func (a *App) Close(ctx context.Context) error {
	if err := a.writer.Close(ctx); err != nil {
		return fmt.Errorf("failed to close state: %w", err)
	}
	return nil
}

func (a *App) closeQuietly() {
	if cerr := a.writer.Close(context.Background()); cerr != nil {
		_ = cerr
	}
}
