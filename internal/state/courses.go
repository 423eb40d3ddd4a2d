package state

import (
	"errors"
	"strings"
	"sync"

	"github.com/verte-zerg/learnhub/internal/catalog"
	"github.com/verte-zerg/learnhub/internal/model"
)

// ErrNotEnrolled is returned by MarkCompleted when the enrollment guard is on.
var ErrNotEnrolled = errors.New("course is not enrolled")

// CatalogOptions configures a CatalogStore.
type CatalogOptions struct {
	// Courses and Categories replace the bundled dataset when non-nil.
	Courses    []model.Course
	Categories []model.Category
	// RequireEnrollment makes MarkCompleted reject courses outside the enrollment set.
	RequireEnrollment bool
	Logf              Logf
}

// CatalogStore holds the course catalog plus the enrolled and completed course sets.
type CatalogStore struct {
	mu   sync.Mutex
	w    Writer
	opts CatalogOptions

	loaded     bool
	courses    []model.Course
	categories []model.Category

	enrolled  []string
	completed []string

	searchQuery      string
	selectedCategory string
	currentCourse    string
}

type courseRecord struct {
	EnrolledCourses  []string `json:"enrolledCourses"`
	CompletedCourses []string `json:"completedCourses"`
}

// NewCatalogStore constructs an empty CatalogStore persisting through w.
func NewCatalogStore(w Writer, opts CatalogOptions) *CatalogStore {
	return &CatalogStore{w: w, opts: opts}
}

// Load populates the catalog from the dataset. Calling it again is a no-op.
func (s *CatalogStore) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}
	if s.opts.Courses != nil {
		s.courses = append([]model.Course(nil), s.opts.Courses...)
	} else {
		s.courses = catalog.Courses()
	}
	if s.opts.Categories != nil {
		s.categories = append([]model.Category(nil), s.opts.Categories...)
	} else {
		s.categories = catalog.Categories()
	}
	s.loaded = true
}

// Courses returns the full catalog in dataset order.
func (s *CatalogStore) Courses() []model.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Course(nil), s.courses...)
}

// Categories returns the category dataset.
func (s *CatalogStore) Categories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Category(nil), s.categories...)
}

// FindByID returns the course with the given id.
func (s *CatalogStore) FindByID(id string) (model.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

func (s *CatalogStore) findLocked(id string) (model.Course, bool) {
	for _, c := range s.courses {
		if c.ID == id {
			return c, true
		}
	}
	return model.Course{}, false
}

// Featured returns featured courses in catalog order.
func (s *CatalogStore) Featured() []model.Course {
	return s.where(func(c model.Course) bool { return c.Featured })
}

// Popular returns popular courses in catalog order.
func (s *CatalogStore) Popular() []model.Course {
	return s.where(func(c model.Course) bool { return c.Popular })
}

func (s *CatalogStore) where(keep func(model.Course) bool) []model.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Course{}
	for _, c := range s.courses {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// FilterCourses returns courses matching searchText (case-insensitive substring of
// title, instructor, category or description) and category (exact). Empty arguments
// do not filter.
func (s *CatalogStore) FilterCourses(searchText, category string) []model.Course {
	query := strings.ToLower(strings.TrimSpace(searchText))
	return s.where(func(c model.Course) bool {
		if query != "" && !matchesQuery(c, query) {
			return false
		}
		return category == "" || c.Category == category
	})
}

func matchesQuery(c model.Course, query string) bool {
	for _, field := range []string{c.Title, c.Instructor, c.Category, c.Description} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Filtered applies the live search query and selected category.
func (s *CatalogStore) Filtered() []model.Course {
	s.mu.Lock()
	query, category := s.searchQuery, s.selectedCategory
	s.mu.Unlock()
	return s.FilterCourses(query, category)
}

// SetSearchQuery updates the live search text.
func (s *CatalogStore) SetSearchQuery(text string) {
	s.mu.Lock()
	s.searchQuery = text
	s.mu.Unlock()
}

// SearchQuery returns the live search text.
func (s *CatalogStore) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchQuery
}

// SetSelectedCategory updates the live category filter; "" clears it.
func (s *CatalogStore) SetSelectedCategory(category string) {
	s.mu.Lock()
	s.selectedCategory = category
	s.mu.Unlock()
}

// SelectedCategory returns the live category filter.
func (s *CatalogStore) SelectedCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedCategory
}

// SetCurrentCourse remembers the last opened course for this session.
func (s *CatalogStore) SetCurrentCourse(id string) {
	s.mu.Lock()
	s.currentCourse = id
	s.mu.Unlock()
}

// CurrentCourse returns the last opened course.
func (s *CatalogStore) CurrentCourse() (model.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentCourse == "" {
		return model.Course{}, false
	}
	return s.findLocked(s.currentCourse)
}

// Enroll adds courseID to the enrollment set. Enrolling twice has no further effect.
func (s *CatalogStore) Enroll(courseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var added bool
	s.enrolled, added = appendUnique(s.enrolled, courseID)
	if added {
		s.saveLocked()
	}
}

// MarkCompleted adds courseID to the completed set. With RequireEnrollment set it
// returns ErrNotEnrolled for a course outside the enrollment set and changes nothing.
func (s *CatalogStore) MarkCompleted(courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.RequireEnrollment && !contains(s.enrolled, courseID) {
		return ErrNotEnrolled
	}
	s.completeLocked(courseID)
	return nil
}

// GrantCompletion adds courseID to the completed set without checking enrollment.
func (s *CatalogStore) GrantCompletion(courseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completeLocked(courseID)
}

func (s *CatalogStore) completeLocked(courseID string) {
	var added bool
	s.completed, added = appendUnique(s.completed, courseID)
	if added {
		s.saveLocked()
	}
}

// IsEnrolled reports whether courseID is in the enrollment set.
func (s *CatalogStore) IsEnrolled(courseID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return contains(s.enrolled, courseID)
}

// IsCompleted reports whether courseID is in the completed set.
func (s *CatalogStore) IsCompleted(courseID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return contains(s.completed, courseID)
}

// Enrolled returns enrolled course ids in enrollment order.
func (s *CatalogStore) Enrolled() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.enrolled...)
}

// Completed returns completed course ids in completion order.
func (s *CatalogStore) Completed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.completed...)
}

// EnrolledCourses returns enrolled courses in catalog order.
func (s *CatalogStore) EnrolledCourses() []model.Course {
	s.mu.Lock()
	enrolled := append([]string(nil), s.enrolled...)
	s.mu.Unlock()
	return s.where(func(c model.Course) bool { return contains(enrolled, c.ID) })
}

// CompletedCourses returns completed courses in catalog order.
func (s *CatalogStore) CompletedCourses() []model.Course {
	s.mu.Lock()
	completed := append([]string(nil), s.completed...)
	s.mu.Unlock()
	return s.where(func(c model.Course) bool { return contains(completed, c.ID) })
}

// InProgressCourses returns enrolled but not completed courses in catalog order.
func (s *CatalogStore) InProgressCourses() []model.Course {
	s.mu.Lock()
	enrolled := append([]string(nil), s.enrolled...)
	completed := append([]string(nil), s.completed...)
	s.mu.Unlock()
	return s.where(func(c model.Course) bool {
		return contains(enrolled, c.ID) && !contains(completed, c.ID)
	})
}

func (s *CatalogStore) saveLocked() {
	putJSON(s.w, KeyCourses, courseRecord{
		EnrolledCourses:  append([]string{}, s.enrolled...),
		CompletedCourses: append([]string{}, s.completed...),
	}, s.opts.Logf)
}

func (s *CatalogStore) restore(raw []byte) error {
	var rec courseRecord
	if err := decodeRecord(KeyCourses, raw, &rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enrolled = nil
	for _, id := range rec.EnrolledCourses {
		s.enrolled, _ = appendUnique(s.enrolled, id)
	}
	s.completed = nil
	for _, id := range rec.CompletedCourses {
		s.completed, _ = appendUnique(s.completed, id)
	}
	return nil
}
