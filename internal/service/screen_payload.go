package service

import (
	"time"

	"learnhub_portal/internal/i18n"
	"learnhub_portal/internal/model"
	"learnhub_portal/internal/stats"
	"learnhub_portal/internal/view"
)

// Screen is what the browser renders for the current view.
type Screen struct {
	Seq    uint64      `json:"seq"`
	View   view.ID     `json:"view"`
	Screen view.ID     `json:"screen"`
	Header Header      `json:"header"`
	Nav    Nav         `json:"nav"`
	Body   interface{} `json:"body"`
}

type Header struct {
	Title          string         `json:"title"`
	UserName       string         `json:"userName"`
	Role           model.UserRole `json:"role"`
	AvatarURL      string         `json:"avatarUrl,omitempty"`
	Language       i18n.Language  `json:"language"`
	LanguageToggle string         `json:"languageToggle"`
}

type Nav struct {
	Title  string    `json:"title"`
	Items  []NavItem `json:"items"`
	Logout string    `json:"logout"`
}

type NavItem struct {
	View   view.ID `json:"view"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// StatCard is one number on a dashboard. Value is an int or a
// preformatted string.
type StatCard struct {
	Key   string      `json:"key"`
	Label string      `json:"label"`
	Value interface{} `json:"value"`
}

type CourseCard struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Category        string             `json:"category"`
	Instructor      string             `json:"instructor"`
	ByInstructor    string             `json:"byInstructor"`
	ThumbnailURL    string             `json:"thumbnailUrl"`
	LessonCount     int                `json:"lessonCount"`
	LessonsLabel    string             `json:"lessonsLabel"`
	DurationMinutes int                `json:"durationMinutes"`
	Duration        string             `json:"duration"`
	Price           string             `json:"price"`
	Status          model.CourseStatus `json:"status"`
	ActionLabel     string             `json:"actionLabel,omitempty"`
	Progress        *CardProgress      `json:"progress,omitempty"`
}

// CardProgress shows the stored progress. LessonsCompleted and
// Consistent expose drift between progress and the completed lessons.
type CardProgress struct {
	Label            string `json:"label"`
	Progress         int    `json:"progress"`
	Percent          string `json:"percent"`
	LessonsCompleted int    `json:"lessonsCompleted"`
	LessonsTotal     int    `json:"lessonsTotal"`
	Consistent       bool   `json:"consistent"`
}

type StudentDashboard struct {
	Greeting              string       `json:"greeting"`
	Subtitle              string       `json:"subtitle"`
	Stats                 []StatCard   `json:"stats"`
	ContinueLearningTitle string       `json:"continueLearningTitle"`
	ContinueLearning      *CourseCard  `json:"continueLearning,omitempty"`
	CoursesTitle          string       `json:"coursesTitle"`
	Courses               []CourseCard `json:"courses"`
	EmptyText             string       `json:"emptyText,omitempty"`
}

type CourseList struct {
	Title     string       `json:"title"`
	Courses   []CourseCard `json:"courses"`
	EmptyText string       `json:"emptyText,omitempty"`
	EmptyHint string       `json:"emptyHint,omitempty"`
}

type AdminDashboard struct {
	Greeting string     `json:"greeting"`
	Subtitle string     `json:"subtitle"`
	Stats    []StatCard `json:"stats"`
}

type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type UserRow struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	AvatarURL string           `json:"avatarUrl,omitempty"`
	Role      model.UserRole   `json:"role"`
	Status    model.UserStatus `json:"status"`
	Badge     stats.Badge      `json:"badge"`
	LastLogin *time.Time       `json:"lastLogin,omitempty"`
}

type CourseRow struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Instructor   string             `json:"instructor"`
	ThumbnailURL string             `json:"thumbnailUrl"`
	Price        string             `json:"price"`
	Status       model.CourseStatus `json:"status"`
	Badge        stats.Badge        `json:"badge"`
}

type Table[R any] struct {
	Title   string   `json:"title"`
	Columns []Column `json:"columns"`
	Rows    []R      `json:"rows"`
}

type Placeholder struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// CourseDetail lists a course's lessons with fetchable content URLs.
type CourseDetail struct {
	Card    CourseCard      `json:"card"`
	Lessons []LessonSummary `json:"lessons"`
}

type LessonSummary struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Type            model.LessonKind `json:"type"`
	DurationMinutes int              `json:"durationMinutes"`
	ContentURL      string           `json:"contentUrl"`
	Completed       bool             `json:"completed"`
}
