package stats

import (
	"math"
	"math/rand"
	"testing"

	"learnhub_portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrollments(progress ...int) []model.EnrolledCourse {
	out := make([]model.EnrolledCourse, len(progress))
	for i, p := range progress {
		out[i] = model.EnrolledCourse{
			Course:   model.Course{ID: "course-" + string(rune('a'+i))},
			Progress: p,
		}
	}
	return out
}

func TestCountByProgressRange(t *testing.T) {
	es := enrollments(0, 25, 75, 100, 100, 99, 1)

	tests := []struct {
		name      string
		low, high int
		inclusive bool
		want      int
	}{
		{name: "in progress", low: 0, high: 100, want: 4},
		{name: "completed", low: 99, high: 100, inclusive: true, want: 2},
		{name: "not started", low: -1, high: 0, inclusive: true, want: 1},
		{name: "exclusive high excludes bound", low: 74, high: 75, want: 0},
		{name: "inclusive high includes bound", low: 74, high: 75, inclusive: true, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountByProgressRange(es, tt.low, tt.high, tt.inclusive))
		})
	}

	assert.Zero(t, CountByProgressRange(nil, 0, 100, true))
}

func TestProgressPartitionIsComplete(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		n := rng.Intn(20)
		progress := make([]int, n)
		for i := range progress {
			progress[i] = rng.Intn(101)
		}
		es := enrollments(progress...)

		total := CountInProgress(es) + CountCompleted(es) + CountNotStarted(es)
		require.Equal(t, len(es), total, "progress %v", progress)
	}
}

func TestFindFirstInProgress(t *testing.T) {
	_, ok := FindFirstInProgress(nil)
	assert.False(t, ok)

	_, ok = FindFirstInProgress(enrollments(0, 100))
	assert.False(t, ok)

	es := enrollments(100, 25, 0, 50)
	got, ok := FindFirstInProgress(es)
	require.True(t, ok)
	assert.Equal(t, 25, got.Progress)
	assert.Equal(t, es[1].Course.ID, got.Course.ID)
}

func TestSumCoursePrices(t *testing.T) {
	assert.Equal(t, "0.00", FormatCurrency(SumCoursePrices(nil)))

	courses := []model.Course{{Price: 49.99}, {Price: 39.99}, {Price: 29.99}, {Price: 59.99}}
	sum := SumCoursePrices(courses)
	assert.InDelta(t, 179.96, sum, 1e-9)
	assert.Equal(t, "179.96", FormatCurrency(sum))

	// absent prices decode as zero
	assert.Equal(t, "10.50", FormatCurrency(SumCoursePrices([]model.Course{{Price: 10.5}, {}})))

	// negative values are not clamped
	assert.Equal(t, "-5.00", FormatCurrency(SumCoursePrices([]model.Course{{Price: 5}, {Price: -10}})))
}

func TestFormatCurrencyRoundsHalfUp(t *testing.T) {
	assert.Equal(t, "0.13", FormatCurrency(0.125))
	assert.Equal(t, "2.50", FormatCurrency(2.4951))
	assert.Equal(t, "NaN", FormatCurrency(math.NaN()))
}

func TestTotalDuration(t *testing.T) {
	lessons := []model.Lesson{
		{ID: "l1-1", DurationMinutes: 15},
		{ID: "l1-2", DurationMinutes: 25},
		{ID: "l1-3", DurationMinutes: 30},
		{ID: "l1-4", Type: model.LessonPDF, DurationMinutes: 0},
	}
	total := TotalDurationMinutes(lessons)
	assert.Equal(t, 70, total)

	h, m := SplitDuration(total)
	assert.Equal(t, 1, h)
	assert.Equal(t, 10, m)
	assert.Equal(t, "1h 10m", FormatDuration(total))

	assert.Equal(t, "0h 0m", FormatDuration(TotalDurationMinutes(nil)))
}

func TestLessonCompletion(t *testing.T) {
	course := model.Course{Lessons: []model.Lesson{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}}

	e := model.EnrolledCourse{Course: course, Progress: 75, CompletedLessons: []string{"a", "b", "c"}}
	done, total := LessonCompletion(e)
	assert.Equal(t, 3, done)
	assert.Equal(t, 4, total)
	assert.True(t, ProgressConsistent(e))

	e = model.EnrolledCourse{Course: course, Progress: 100, CompletedLessons: []string{"a", "zz"}}
	done, _ = LessonCompletion(e)
	assert.Equal(t, 1, done)
	assert.False(t, ProgressConsistent(e))
	assert.Equal(t, []string{"zz"}, e.UnknownLessons())
}

func TestStatusBadgeClass(t *testing.T) {
	for _, s := range model.AllUserStatuses {
		assert.NotEmpty(t, StatusBadgeClass(s), s)
	}
	for _, s := range model.AllCourseStatuses {
		assert.NotEmpty(t, StatusBadgeClass(s), s)
	}

	assert.Equal(t, BadgeSuccess, StatusBadgeClass(model.StatusActive))
	assert.Equal(t, BadgeWarning, StatusBadgeClass(model.StatusPending))
	assert.Equal(t, BadgeDanger, StatusBadgeClass(model.StatusBlocked))
	assert.Equal(t, BadgeNeutral, StatusBadgeClass(model.StatusSuspended))
	assert.Equal(t, BadgeSuccess, StatusBadgeClass(model.CoursePublished))
	assert.Equal(t, BadgeNeutral, StatusBadgeClass(model.CourseUnpublished))

	assert.Equal(t, BadgeNeutral, StatusBadgeClass(model.UserStatus("Archived")))
	assert.Equal(t, BadgeNeutral, StatusBadgeClass(model.CourseStatus("")))
}

func TestStatusBadgeClassKeepsEnumerationsApart(t *testing.T) {
	assert.Equal(t, BadgeNeutral, StatusBadgeClass(model.UserStatus(model.CoursePublished)))
	assert.Equal(t, BadgeNeutral, StatusBadgeClass(model.UserStatus(model.CourseUnpublished)))
	assert.Equal(t, BadgeNeutral, StatusBadgeClass(model.CourseStatus(model.StatusActive)))
	assert.Equal(t, BadgeNeutral, StatusBadgeClass(model.CourseStatus(model.StatusPending)))
	assert.Equal(t, BadgeNeutral, StatusBadgeClass(model.CourseStatus(model.StatusBlocked)))
}
