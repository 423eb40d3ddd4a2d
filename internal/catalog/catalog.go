// Package catalog provides the bundled course and category dataset.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/verte-zerg/learnhub/internal/model"
)

//go:embed data/courses.json data/categories.json
var dataFS embed.FS

var (
	loadOnce   sync.Once
	courses    []model.Course
	categories []model.Category
	loadErr    error
)

// Courses returns a copy of the bundled catalog in dataset order.
// The dataset ships with the binary, so a decode failure is a build defect and panics.
func Courses() []model.Course {
	load()
	out := make([]model.Course, len(courses))
	copy(out, courses)
	return out
}

// Categories returns a copy of the bundled category list.
func Categories() []model.Category {
	load()
	out := make([]model.Category, len(categories))
	copy(out, categories)
	return out
}

func load() {
	loadOnce.Do(func() {
		courses, loadErr = decode[model.Course]("data/courses.json")
		if loadErr != nil {
			return
		}
		categories, loadErr = decode[model.Category]("data/categories.json")
	})
	if loadErr != nil {
		panic(loadErr)
	}
}

func decode[T any](name string) ([]T, error) {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return out, nil
}
