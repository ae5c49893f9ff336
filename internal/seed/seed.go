// Package seed loads a demo catalog into an empty document store.
package seed

import (
	"context"
	"fmt"
	"time"

	"learnhub_portal/internal/model"
	"learnhub_portal/internal/repository"
	"learnhub_portal/pkg/logger"

	"go.uber.org/zap"
)

func lesson(id, title string, kind model.LessonKind, minutes int) map[string]interface{} {
	return map[string]interface{}{
		"id":              id,
		"title":           title,
		"type":            string(kind),
		"durationMinutes": minutes,
		"content":         "#",
	}
}

// Courses returns the demo catalog in presentation order.
func Courses() []repository.Document {
	return []repository.Document{
		{
			"id":           "course-1",
			"title":        "Advanced React Development",
			"description":  "Master modern React patterns and build complex applications.",
			"instructor":   "Jane Doe",
			"thumbnailUrl": "https://picsum.photos/seed/react/600/400",
			"category":     "Web Development",
			"lessons": []interface{}{
				lesson("l1-1", "Introduction to React", model.LessonVideo, 15),
				lesson("l1-2", "Components and Props", model.LessonVideo, 25),
				lesson("l1-3", "State and Lifecycle", model.LessonVideo, 30),
				lesson("l1-4", "React Hooks", model.LessonPDF, 0),
			},
			"price":  49.99,
			"status": string(model.CoursePublished),
		},
		{
			"id":           "course-2",
			"title":        "Modern JavaScript from Scratch",
			"description":  "Learn the latest features of JavaScript and become a proficient developer.",
			"instructor":   "John Smith",
			"thumbnailUrl": "https://picsum.photos/seed/javascript/600/400",
			"category":     "Web Development",
			"lessons": []interface{}{
				lesson("l2-1", "JavaScript Fundamentals", model.LessonVideo, 45),
				lesson("l2-2", "ES6+ Features", model.LessonVideo, 50),
				lesson("l2-3", "Asynchronous JavaScript", model.LessonText, 0),
			},
			"price":    39.99,
			"discount": map[string]interface{}{"type": string(model.DiscountPercentage), "value": 10},
			"status":   string(model.CoursePublished),
		},
		{
			"id":           "course-3",
			"title":        "UX Design Fundamentals",
			"description":  "A comprehensive guide to user experience design principles and practices.",
			"instructor":   "Emily White",
			"thumbnailUrl": "https://picsum.photos/seed/ux/600/400",
			"category":     "Design",
			"lessons": []interface{}{
				lesson("l3-1", "Intro to UX Design", model.LessonVideo, 20),
				lesson("l3-2", "User Research", model.LessonPDF, 0),
				lesson("l3-3", "Wireframing & Prototyping", model.LessonVideo, 40),
			},
			"price":  29.99,
			"status": string(model.CourseUnpublished),
		},
		{
			"id":           "course-4",
			"title":        "Complete Python Bootcamp",
			"description":  "From zero to hero in Python. Learn to build real-world applications.",
			"instructor":   "Michael Brown",
			"thumbnailUrl": "https://picsum.photos/seed/python/600/400",
			"category":     "Programming",
			"lessons": []interface{}{
				lesson("l4-1", "Python Basics", model.LessonVideo, 35),
				lesson("l4-2", "Data Structures", model.LessonVideo, 55),
				lesson("l4-3", "Object-Oriented Programming", model.LessonVideo, 60),
			},
			"price":  59.99,
			"status": string(model.CoursePublished),
		},
	}
}

func lastLogin(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

// Users returns the demo user records. They have no credentials and
// only populate the admin screens.
func Users() []model.User {
	avatar := func(seed string) string { return "https://picsum.photos/seed/" + seed + "/100/100" }
	return []model.User{
		{ID: "admin-001", Name: "Bayzid", Email: "fffgamer066@gmail.com", Role: model.Admin, Status: model.StatusActive, AvatarURL: avatar("admin")},
		{ID: "user-123", Name: "Alex Johnson", Email: "alex.j@example.com", Role: model.Student, Status: model.StatusActive, AvatarURL: avatar("alex")},
		{ID: "user-002", Name: "Maria Garcia", Email: "maria.g@example.com", Role: model.Student, Status: model.StatusActive, AvatarURL: avatar("maria"), LastLogin: lastLogin("2023-10-26T10:00:00Z")},
		{ID: "user-003", Name: "Chen Wei", Email: "chen.w@example.com", Role: model.Student, Status: model.StatusPending, AvatarURL: avatar("chen"), LastLogin: lastLogin("2023-10-25T11:30:00Z")},
		{ID: "user-004", Name: "Fatima Al-Fassi", Email: "fatima.a@example.com", Role: model.Student, Status: model.StatusBlocked, AvatarURL: avatar("fatima"), LastLogin: lastLogin("2023-10-24T15:45:00Z")},
		{ID: "user-005", Name: "David Smith", Email: "david.s@example.com", Role: model.Student, Status: model.StatusSuspended, AvatarURL: avatar("david"), LastLogin: lastLogin("2023-10-23T09:00:00Z")},
	}
}

// Enrollment is a starter enrollment handed to demo students.
type Enrollment struct {
	CourseID         string
	Progress         int
	CompletedLessons []string
}

func StarterEnrollments() []Enrollment {
	return []Enrollment{
		{CourseID: "course-1", Progress: 75, CompletedLessons: []string{"l1-1", "l1-2", "l1-3"}},
		{CourseID: "course-2", Progress: 25, CompletedLessons: []string{"l2-1"}},
		{CourseID: "course-4", Progress: 0, CompletedLessons: []string{}},
	}
}

// Enroll gives uid the starter enrollments.
func Enroll(ctx context.Context, enrollments *repository.EnrollmentRepository, uid string) error {
	for _, e := range StarterEnrollments() {
		if err := enrollments.Enroll(ctx, uid, e.CourseID, e.Progress, e.CompletedLessons); err != nil {
			return fmt.Errorf("enroll %s in %s: %w", uid, e.CourseID, err)
		}
	}
	return nil
}

// Load writes the demo catalog unless the store already has courses.
// It reports whether anything was written.
func Load(ctx context.Context, store repository.DocumentStore) (bool, error) {
	existing, err := store.FetchAll(ctx, repository.CoursesCollection)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	for _, c := range Courses() {
		if err := store.Set(ctx, repository.CoursesCollection, c.ID(), c); err != nil {
			return false, fmt.Errorf("seed course %s: %w", c.ID(), err)
		}
	}
	users := repository.NewUserRepository(store)
	for _, u := range Users() {
		u := u
		if err := users.Save(ctx, &u); err != nil {
			return false, fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}
	enrollments := repository.NewEnrollmentRepository(store, repository.NewCourseRepository(store))
	if err := Enroll(ctx, enrollments, "user-123"); err != nil {
		return false, err
	}

	logger.Log.Info("Seeded demo catalog",
		zap.Int("courses", len(Courses())),
		zap.Int("users", len(Users())))
	return true, nil
}
