package repository

import (
	"context"
	"errors"
	"fmt"

	"learnhub_portal/internal/model"
	"learnhub_portal/pkg/logger"

	"go.uber.org/zap"
)

const CoursesCollection = "courses"

var ErrCourseNotFound = errors.New("course not found")

type CourseRepository struct {
	Store DocumentStore
}

func NewCourseRepository(store DocumentStore) *CourseRepository {
	return &CourseRepository{Store: store}
}

func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	docs, err := r.Store.FetchAll(ctx, CoursesCollection)
	if err != nil {
		return nil, err
	}
	return decodeAll(CoursesCollection, docs, decodeCourse), nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	doc, err := r.Store.Get(ctx, CoursesCollection, id)
	if errors.Is(err, ErrDocumentNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	course, err := decodeCourse(doc)
	if err != nil {
		return nil, fmt.Errorf("course %s: %w", id, err)
	}
	return &course, nil
}

// EnrollmentRepository reads the per-user enrollment collections.
type EnrollmentRepository struct {
	Store   DocumentStore
	Courses *CourseRepository
}

func NewEnrollmentRepository(store DocumentStore, courses *CourseRepository) *EnrollmentRepository {
	return &EnrollmentRepository{Store: store, Courses: courses}
}

// EnrollmentsCollection names the collection holding uid's enrollments.
func EnrollmentsCollection(uid string) string {
	return "enrollments/" + uid
}

// ListForUser joins the user's enrollments with the course catalog,
// keeping enrollment order. Enrollments of unknown courses are skipped.
func (r *EnrollmentRepository) ListForUser(ctx context.Context, uid string) ([]model.EnrolledCourse, error) {
	collection := EnrollmentsCollection(uid)
	docs, err := r.Store.FetchAll(ctx, collection)
	if err != nil {
		return nil, err
	}
	records := decodeAll(collection, docs, decodeEnrollment)
	if len(records) == 0 {
		return []model.EnrolledCourse{}, nil
	}

	courses, err := r.Courses.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	out := make([]model.EnrolledCourse, 0, len(records))
	for _, rec := range records {
		course, ok := byID[rec.CourseID]
		if !ok {
			logger.Log.Warn("Enrollment references unknown course",
				zap.String("uid", uid),
				zap.String("courseId", rec.CourseID))
			continue
		}
		completed := rec.CompletedLessons
		if completed == nil {
			completed = []string{}
		}
		out = append(out, model.EnrolledCourse{
			Course:           course,
			Progress:         rec.Progress,
			CompletedLessons: completed,
		})
	}
	return out, nil
}

// Enroll records (or replaces) uid's enrollment in courseID.
func (r *EnrollmentRepository) Enroll(ctx context.Context, uid, courseID string, progress int, completedLessons []string) error {
	if completedLessons == nil {
		completedLessons = []string{}
	}
	return r.Store.Set(ctx, EnrollmentsCollection(uid), courseID, Document{
		"courseId":         courseID,
		"progress":         progress,
		"completedLessons": completedLessons,
	})
}
