package model

import "fmt"

type LessonKind string

const (
	LessonVideo LessonKind = "video"
	LessonPDF   LessonKind = "pdf"
	LessonText  LessonKind = "text"
)

var AllLessonKinds = []LessonKind{LessonVideo, LessonPDF, LessonText}

func ParseLessonKind(s string) (LessonKind, error) {
	for _, k := range AllLessonKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown lesson type %q", s)
}

type CourseStatus string

const (
	CoursePublished   CourseStatus = "Published"
	CourseUnpublished CourseStatus = "Unpublished"
)

var AllCourseStatuses = []CourseStatus{CoursePublished, CourseUnpublished}

func ParseCourseStatus(s string) (CourseStatus, error) {
	for _, st := range AllCourseStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown course status %q", s)
}

type DiscountKind string

const (
	DiscountFixed      DiscountKind = "Fixed"
	DiscountPercentage DiscountKind = "Percentage"
)

func ParseDiscountKind(s string) (DiscountKind, error) {
	switch DiscountKind(s) {
	case DiscountFixed, DiscountPercentage:
		return DiscountKind(s), nil
	}
	return "", fmt.Errorf("unknown discount type %q", s)
}

// Lesson is an immutable child of a Course. DurationMinutes is only
// meaningful for video lessons.
// swagger:model Lesson
type Lesson struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Type            LessonKind `json:"type"`
	DurationMinutes int        `json:"durationMinutes"`
	Content         string     `json:"content"`
}

type Discount struct {
	Type  DiscountKind `json:"type"`
	Value float64      `json:"value"`
}

// Course is a catalog entry. Lessons keep their stored order, which is
// also the presentation order.
// swagger:model Course
type Course struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Instructor   string       `json:"instructor"`
	ThumbnailURL string       `json:"thumbnailUrl"`
	Category     string       `json:"category"`
	Lessons      []Lesson     `json:"lessons"`
	Price        float64      `json:"price"`
	Discount     *Discount    `json:"discount,omitempty"`
	Status       CourseStatus `json:"status"`
}

// LessonIDs returns the lesson ids in presentation order.
func (c Course) LessonIDs() []string {
	ids := make([]string, len(c.Lessons))
	for i, l := range c.Lessons {
		ids[i] = l.ID
	}
	return ids
}

// HasLesson reports whether id names one of the course's lessons.
func (c Course) HasLesson(id string) bool {
	for _, l := range c.Lessons {
		if l.ID == id {
			return true
		}
	}
	return false
}
