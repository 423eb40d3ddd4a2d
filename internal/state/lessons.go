package state

import (
	"sync"

	"github.com/verte-zerg/learnhub/internal/model"
)

// LessonStore tracks per-lesson watch progress and course completion.
type LessonStore struct {
	mu       sync.Mutex
	w        Writer
	clock    Clock
	logf     Logf
	progress map[string]*model.CourseProgress
}

type progressRecord struct {
	Progress map[string]courseProgressRecord `json:"progress"`
}

// courseProgressRecord adds the derived percentage to the persisted form for readers
// of the raw record; it is recomputed, never read back.
type courseProgressRecord struct {
	model.CourseProgress
	ProgressPercentage int `json:"progressPercentage"`
}

// NewLessonStore constructs an empty LessonStore persisting through w.
func NewLessonStore(w Writer, clock Clock, logf Logf) *LessonStore {
	return &LessonStore{
		w:        w,
		clock:    clock,
		logf:     logf,
		progress: map[string]*model.CourseProgress{},
	}
}

// CourseProgress returns the progress for courseID, or false when the course was never started.
func (s *LessonStore) CourseProgress(courseID string) (model.CourseProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, ok := s.progress[courseID]
	if !ok {
		return model.CourseProgress{}, false
	}
	return cloneCourseProgress(cp), true
}

// LessonProgress returns the watch record of one lesson.
func (s *LessonStore) LessonProgress(courseID, lessonID string) (model.LessonProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, ok := s.progress[courseID]
	if !ok {
		return model.LessonProgress{}, false
	}
	lp, ok := cp.Lessons[lessonID]
	return lp, ok
}

// IsLessonCompleted reports whether the lesson is in the course's completed set.
func (s *LessonStore) IsLessonCompleted(courseID, lessonID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, ok := s.progress[courseID]
	if !ok {
		return false
	}
	return cp.HasCompleted(lessonID) || cp.Lessons[lessonID].Completed
}

// UpdateLessonProgress records a playback sample. It overwrites the watched and total
// durations and the timestamp, points the current lesson at lessonID and marks the
// lesson completed once watched reaches 90% of total. Completion is sticky: a later
// sample below the threshold, such as after seeking backward, does not undo it.
func (s *LessonStore) UpdateLessonProgress(courseID, lessonID string, watchedSeconds, totalSeconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.entryLocked(courseID)
	prev := cp.Lessons[lessonID]
	completed := prev.Completed || cp.HasCompleted(lessonID) || model.ReachedThreshold(watchedSeconds, totalSeconds)
	cp.Lessons[lessonID] = model.LessonProgress{
		LessonID:        lessonID,
		Completed:       completed,
		WatchedDuration: watchedSeconds,
		TotalDuration:   totalSeconds,
		LastWatchedAt:   s.clock.now(),
	}
	cp.CurrentLessonID = lessonID
	if completed {
		cp.CompletedLessons, _ = appendUnique(cp.CompletedLessons, lessonID)
	}
	s.saveLocked()
}

// CompleteLesson adds lessonID to the course's completed set.
func (s *LessonStore) CompleteLesson(courseID, lessonID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.entryLocked(courseID)
	added := false
	cp.CompletedLessons, added = appendUnique(cp.CompletedLessons, lessonID)
	lp, ok := cp.Lessons[lessonID]
	if !ok {
		lp = model.LessonProgress{LessonID: lessonID, LastWatchedAt: s.clock.now()}
	}
	if !lp.Completed {
		lp.Completed = true
		cp.Lessons[lessonID] = lp
		added = true
	}
	if added {
		s.saveLocked()
	}
}

// SetCurrentLesson moves the current-lesson pointer without recording playback.
func (s *LessonStore) SetCurrentLesson(courseID, lessonID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.entryLocked(courseID)
	if cp.CurrentLessonID == lessonID {
		return
	}
	cp.CurrentLessonID = lessonID
	s.saveLocked()
}

// CalculateProgress records the curriculum length used for the course percentage.
func (s *LessonStore) CalculateProgress(courseID string, totalLessons int) {
	if totalLessons < 0 {
		totalLessons = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.entryLocked(courseID)
	cp.TotalLessons = totalLessons
	s.saveLocked()
}

// ResetCourse drops all lesson progress for courseID.
func (s *LessonStore) ResetCourse(courseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.progress[courseID]; !ok {
		return
	}
	delete(s.progress, courseID)
	s.saveLocked()
}

func (s *LessonStore) entryLocked(courseID string) *model.CourseProgress {
	cp, ok := s.progress[courseID]
	if !ok {
		cp = &model.CourseProgress{
			CourseID:         courseID,
			CompletedLessons: []string{},
			Lessons:          map[string]model.LessonProgress{},
		}
		s.progress[courseID] = cp
	}
	return cp
}

func (s *LessonStore) saveLocked() {
	rec := progressRecord{Progress: make(map[string]courseProgressRecord, len(s.progress))}
	for id, cp := range s.progress {
		rec.Progress[id] = courseProgressRecord{
			CourseProgress:     *cp,
			ProgressPercentage: cp.ProgressPercentage(),
		}
	}
	putJSON(s.w, KeyProgress, rec, s.logf)
}

func (s *LessonStore) restore(raw []byte) error {
	var rec progressRecord
	if err := decodeRecord(KeyProgress, raw, &rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = make(map[string]*model.CourseProgress, len(rec.Progress))
	for id, r := range rec.Progress {
		cp := cloneCourseProgress(&r.CourseProgress)
		cp.CourseID = id
		s.progress[id] = &cp
	}
	return nil
}

func cloneCourseProgress(cp *model.CourseProgress) model.CourseProgress {
	out := *cp
	out.CompletedLessons = append([]string{}, cp.CompletedLessons...)
	out.Lessons = make(map[string]model.LessonProgress, len(cp.Lessons))
	for id, lp := range cp.Lessons {
		out.Lessons[id] = lp
	}
	return out
}
