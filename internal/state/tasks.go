package state

import (
	"strings"
	"sync"

	"github.com/verte-zerg/learnhub/internal/model"
)

// TaskStore tracks coding task completion, points, attempts and drafts per course.
type TaskStore struct {
	mu       sync.Mutex
	w        Writer
	clock    Clock
	logf     Logf
	progress map[string]*model.CourseTaskProgress
}

type taskRecord struct {
	Progress map[string]courseTaskRecord `json:"progress"`
}

type courseTaskRecord struct {
	model.CourseTaskProgress
	TotalPoints int `json:"totalPoints"`
}

// NewTaskStore constructs an empty TaskStore persisting through w.
func NewTaskStore(w Writer, clock Clock, logf Logf) *TaskStore {
	return &TaskStore{
		w:        w,
		clock:    clock,
		logf:     logf,
		progress: map[string]*model.CourseTaskProgress{},
	}
}

// CourseTaskProgress returns the task progress of courseID, or false when none exists yet.
func (s *TaskStore) CourseTaskProgress(courseID string) (model.CourseTaskProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, ok := s.progress[courseID]
	if !ok {
		return model.CourseTaskProgress{}, false
	}
	return cloneCourseTaskProgress(cp), true
}

// TaskProgress returns the record of one task.
func (s *TaskStore) TaskProgress(courseID, taskID string) (model.TaskProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, ok := s.progress[courseID]
	if !ok {
		return model.TaskProgress{}, false
	}
	tp, ok := cp.Tasks[taskID]
	return tp, ok
}

// IsTaskCompleted reports whether taskID is in the course's completed set.
func (s *TaskStore) IsTaskCompleted(courseID, taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, ok := s.progress[courseID]
	return ok && cp.HasCompleted(taskID)
}

// CompleteTask records a successful submission. Points are awarded the first time the
// task completes only; the timestamp, the attempt counter and, when code is non-empty,
// the saved code are updated on every call.
func (s *TaskStore) CompleteTask(courseID, taskID string, points int, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.entryLocked(courseID)
	tp := cp.Tasks[taskID]
	tp.TaskID = taskID
	var firstCompletion bool
	cp.CompletedTasks, firstCompletion = appendUnique(cp.CompletedTasks, taskID)
	if firstCompletion {
		tp.Points = points
	}
	now := s.clock.now()
	tp.Completed = true
	tp.CompletedAt = &now
	tp.Attempts++
	if code != "" {
		tp.Code = code
	}
	cp.Tasks[taskID] = tp
	s.saveLocked()
}

// UpdateTaskCode saves a draft without touching completion or attempts.
func (s *TaskStore) UpdateTaskCode(courseID, taskID, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.entryLocked(courseID)
	tp := cp.Tasks[taskID]
	tp.TaskID = taskID
	tp.Code = code
	cp.Tasks[taskID] = tp
	s.saveLocked()
}

// IncrementTaskAttempt counts a submission attempt without touching completion or code.
func (s *TaskStore) IncrementTaskAttempt(courseID, taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.entryLocked(courseID)
	tp := cp.Tasks[taskID]
	tp.TaskID = taskID
	tp.Attempts++
	cp.Tasks[taskID] = tp
	s.saveLocked()
}

// SubmitTask runs the submit flow of the task screen: blank code is rejected with a
// ValidationError and nothing changes; otherwise the attempt is counted and the task
// completed with its point value.
func (s *TaskStore) SubmitTask(courseID string, task model.Task, code string) error {
	if err := validateInput(submissionInput{Code: strings.TrimSpace(code)}); err != nil {
		return err
	}
	s.IncrementTaskAttempt(courseID, task.ID)
	s.CompleteTask(courseID, task.ID, task.Points, code)
	return nil
}

// ResetCourseProgress removes all task progress for courseID.
func (s *TaskStore) ResetCourseProgress(courseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.progress[courseID]; !ok {
		return
	}
	delete(s.progress, courseID)
	s.saveLocked()
}

// TotalPoints sums awarded points over every course.
func (s *TaskStore) TotalPoints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, cp := range s.progress {
		total += cp.TotalPoints()
	}
	return total
}

func (s *TaskStore) entryLocked(courseID string) *model.CourseTaskProgress {
	cp, ok := s.progress[courseID]
	if !ok {
		cp = &model.CourseTaskProgress{
			CourseID:       courseID,
			CompletedTasks: []string{},
			Tasks:          map[string]model.TaskProgress{},
		}
		s.progress[courseID] = cp
	}
	return cp
}

func (s *TaskStore) saveLocked() {
	rec := taskRecord{Progress: make(map[string]courseTaskRecord, len(s.progress))}
	for id, cp := range s.progress {
		rec.Progress[id] = courseTaskRecord{
			CourseTaskProgress: *cp,
			TotalPoints:        cp.TotalPoints(),
		}
	}
	putJSON(s.w, KeyTasks, rec, s.logf)
}

func (s *TaskStore) restore(raw []byte) error {
	var rec taskRecord
	if err := decodeRecord(KeyTasks, raw, &rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = make(map[string]*model.CourseTaskProgress, len(rec.Progress))
	for id, r := range rec.Progress {
		cp := cloneCourseTaskProgress(&r.CourseTaskProgress)
		cp.CourseID = id
		s.progress[id] = &cp
	}
	return nil
}

func cloneCourseTaskProgress(cp *model.CourseTaskProgress) model.CourseTaskProgress {
	out := *cp
	out.CompletedTasks = append([]string{}, cp.CompletedTasks...)
	out.Tasks = make(map[string]model.TaskProgress, len(cp.Tasks))
	for id, tp := range cp.Tasks {
		if tp.CompletedAt != nil {
			at := *tp.CompletedAt
			tp.CompletedAt = &at
		}
		out.Tasks[id] = tp
	}
	return out
}
