// Package model defines shared data structures.
package model

import (
	"math"
	"time"
)

// Config defines resolved application settings.
type Config struct {
	DBPath            string
	LoginDelay        time.Duration
	SampleInterval    time.Duration
	LessonSeconds     int
	Theme             Theme
	RequireEnrollment bool
}

// Difficulty grades a coding task.
type Difficulty string

// Task difficulties.
const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Plan is a subscription tier.
type Plan string

// Subscription plans.
const (
	PlanFree    Plan = "free"
	PlanMonthly Plan = "monthly"
	PlanYearly  Plan = "yearly"
)

// ParsePlan validates a plan name.
func ParsePlan(s string) (Plan, bool) {
	switch p := Plan(s); p {
	case PlanFree, PlanMonthly, PlanYearly:
		return p, true
	}
	return "", false
}

// Theme is the UI color scheme preference.
type Theme string

// Themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Lesson is one entry in a course curriculum.
type Lesson struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
	VideoURL string `json:"videoUrl"`
}

// Task is a coding exercise attached to a course.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Points      int        `json:"points"`
	Hints       []string   `json:"hints,omitempty"`
	TestCases   []string   `json:"testCases,omitempty"`
}

// Course is an immutable catalog entry.
type Course struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Instructor       string   `json:"instructor"`
	InstructorAvatar string   `json:"instructorAvatar"`
	Rating           float64  `json:"rating"`
	Reviews          int      `json:"reviews"`
	Students         string   `json:"students"`
	Price            float64  `json:"price"`
	Level            string   `json:"level"`
	Duration         string   `json:"duration"`
	Category         string   `json:"category"`
	Thumbnail        string   `json:"thumbnail"`
	Color            string   `json:"color"`
	Description      string   `json:"description"`
	Featured         bool     `json:"featured"`
	Popular          bool     `json:"popular"`
	WhatYouLearn     []string `json:"whatYouLearn"`
	Curriculum       []Lesson `json:"curriculum"`
	Tasks            []Task   `json:"tasks,omitempty"`
}

// Lesson returns the curriculum entry with the given id.
func (c Course) Lesson(id string) (Lesson, bool) {
	for _, l := range c.Curriculum {
		if l.ID == id {
			return l, true
		}
	}
	return Lesson{}, false
}

// Task returns the task with the given id.
func (c Course) Task(id string) (Task, bool) {
	for _, t := range c.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Category is a filter chip in the catalog.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// CompletionThreshold is the watched fraction at which a lesson counts as completed.
const CompletionThreshold = 0.9

// LessonProgress records how much of a lesson was watched.
type LessonProgress struct {
	LessonID        string    `json:"lessonId"`
	Completed       bool      `json:"completed"`
	WatchedDuration float64   `json:"watchedDuration"`
	TotalDuration   float64   `json:"totalDuration"`
	LastWatchedAt   time.Time `json:"lastWatchedAt"`
}

// ReachedThreshold reports whether watched covers the completion threshold of total.
func ReachedThreshold(watched, total float64) bool {
	if total <= 0 {
		return false
	}
	return watched >= total*CompletionThreshold
}

// CourseProgress aggregates lesson progress for one course.
type CourseProgress struct {
	CourseID         string                    `json:"courseId"`
	CompletedLessons []string                  `json:"completedLessons"`
	CurrentLessonID  string                    `json:"currentLessonId,omitempty"`
	TotalLessons     int                       `json:"totalLessons"`
	Lessons          map[string]LessonProgress `json:"lessons"`
}

// ProgressPercentage is the rounded share of completed lessons, capped at 100.
func (p CourseProgress) ProgressPercentage() int {
	return Percent(len(p.CompletedLessons), p.TotalLessons)
}

// HasCompleted reports whether lessonID is in the completed set.
func (p CourseProgress) HasCompleted(lessonID string) bool {
	for _, id := range p.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// Percent returns round(100*part/total) clamped to [0, 100]; a non-positive total yields 0.
func Percent(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	pct := int(math.Round(float64(part) / float64(total) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// TaskProgress records submissions for one task.
type TaskProgress struct {
	TaskID      string     `json:"taskId"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Attempts    int        `json:"attempts"`
	Points      int        `json:"points,omitempty"`
	Code        string     `json:"code,omitempty"`
}

// CourseTaskProgress aggregates task progress for one course.
type CourseTaskProgress struct {
	CourseID       string                  `json:"courseId"`
	CompletedTasks []string                `json:"completedTasks"`
	Tasks          map[string]TaskProgress `json:"tasks"`
}

// TotalPoints sums the points awarded for each completed task once.
func (p CourseTaskProgress) TotalPoints() int {
	total := 0
	for _, id := range p.CompletedTasks {
		total += p.Tasks[id].Points
	}
	return total
}

// HasCompleted reports whether taskID is in the completed set.
func (p CourseTaskProgress) HasCompleted(taskID string) bool {
	for _, id := range p.CompletedTasks {
		if id == taskID {
			return true
		}
	}
	return false
}

// User is the signed-in identity.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Subscription is the current plan and its validity window.
type Subscription struct {
	Plan      Plan       `json:"plan"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	IsActive  bool       `json:"isActive"`
	AutoRenew bool       `json:"autoRenew"`
}

// ActiveAt reports whether the subscription is active and unexpired at now.
func (s Subscription) ActiveAt(now time.Time) bool {
	if !s.IsActive {
		return false
	}
	if s.EndDate == nil {
		return true
	}
	return now.Before(*s.EndDate)
}
