// Package stats turns fetched record collections into the numbers shown
// on dashboards and course cards. Every function is pure; empty input
// yields zero values and bad values (negative, NaN) pass through.
package stats

import (
	"fmt"
	"math"
	"strconv"

	"learnhub_portal/internal/model"
)

// CountByProgressRange counts enrollments with low < progress and
// progress < high, or progress <= high when inclusiveHigh is set.
func CountByProgressRange(enrollments []model.EnrolledCourse, low, high int, inclusiveHigh bool) int {
	n := 0
	for _, e := range enrollments {
		if e.Progress <= low {
			continue
		}
		if e.Progress < high || (inclusiveHigh && e.Progress == high) {
			n++
		}
	}
	return n
}

func CountInProgress(enrollments []model.EnrolledCourse) int {
	return CountByProgressRange(enrollments, 0, 100, false)
}

func CountCompleted(enrollments []model.EnrolledCourse) int {
	return CountByProgressRange(enrollments, 99, 100, true)
}

func CountNotStarted(enrollments []model.EnrolledCourse) int {
	return CountByProgressRange(enrollments, -1, 0, true)
}

// FindFirstInProgress returns the earliest enrollment in input order
// with 0 < progress < 100. No recency ordering is applied.
func FindFirstInProgress(enrollments []model.EnrolledCourse) (model.EnrolledCourse, bool) {
	for _, e := range enrollments {
		if e.Progress > 0 && e.Progress < 100 {
			return e, true
		}
	}
	return model.EnrolledCourse{}, false
}

// SumCoursePrices adds up course prices. The sum is not rounded; use
// FormatCurrency when presenting it.
func SumCoursePrices(courses []model.Course) float64 {
	var sum float64
	for _, c := range courses {
		sum += c.Price
	}
	return sum
}

// RoundCurrency rounds half away from zero to two decimals.
func RoundCurrency(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100) / 100
}

// FormatCurrency renders an amount with exactly two decimals, e.g. "179.96".
func FormatCurrency(v float64) string {
	return strconv.FormatFloat(RoundCurrency(v), 'f', 2, 64)
}

// TotalDurationMinutes sums lesson durations in minutes.
func TotalDurationMinutes(lessons []model.Lesson) int {
	total := 0
	for _, l := range lessons {
		total += l.DurationMinutes
	}
	return total
}

// SplitDuration splits minutes into whole hours and remaining minutes.
func SplitDuration(total int) (hours, minutes int) {
	return total / 60, total % 60
}

// FormatDuration renders minutes as "1h 10m".
func FormatDuration(total int) string {
	h, m := SplitDuration(total)
	return fmt.Sprintf("%dh %dm", h, m)
}

// LessonCompletion reports how many of the course's lessons are marked
// completed, ignoring ids the course does not know.
func LessonCompletion(e model.EnrolledCourse) (completed, total int) {
	total = len(e.Course.Lessons)
	seen := make(map[string]bool, len(e.CompletedLessons))
	for _, id := range e.CompletedLessons {
		if !seen[id] && e.Course.HasLesson(id) {
			seen[id] = true
			completed++
		}
	}
	return completed, total
}

// ProgressConsistent reports whether the stored progress agrees with the
// completed lesson set on the "100 iff all lessons completed" rule.
func ProgressConsistent(e model.EnrolledCourse) bool {
	completed, total := LessonCompletion(e)
	allDone := total > 0 && completed == total
	return (e.Progress == 100) == allDone
}
