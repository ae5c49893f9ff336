package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"learnhub_portal/internal/i18n"
	"learnhub_portal/internal/model"
	"learnhub_portal/internal/repository"
	"learnhub_portal/internal/state"
	"learnhub_portal/internal/stats"
	"learnhub_portal/internal/util"
	"learnhub_portal/internal/view"
	"learnhub_portal/pkg/logger"
	"learnhub_portal/pkg/monitoring"
	"learnhub_portal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const dashboardCourseLimit = 3

// ScreenService builds the payload of the client's current view. Every
// render fetches the collections it needs; a failed fetch is logged and
// rendered as an empty collection.
type ScreenService struct {
	users       *repository.UserRepository
	courses     *repository.CourseRepository
	enrollments *repository.EnrollmentRepository
	storage     *StorageService
	catalog     *i18n.Catalog
	machine     *state.Machine
	tracker     *RenderTracker
	router      *view.Router
}

func NewScreenService(
	users *repository.UserRepository,
	courses *repository.CourseRepository,
	enrollments *repository.EnrollmentRepository,
	storage *StorageService,
	catalog *i18n.Catalog,
	machine *state.Machine,
	tracker *RenderTracker,
) *ScreenService {
	s := &ScreenService{
		users:       users,
		courses:     courses,
		enrollments: enrollments,
		storage:     storage,
		catalog:     catalog,
		machine:     machine,
		tracker:     tracker,
	}
	s.router = view.NewRouter().
		Handle(view.Dashboard, s.studentDashboard).
		Handle(view.MyLearning, s.myLearning).
		Handle(view.BrowseCourses, s.browseCourses).
		Handle(view.Settings, s.settings).
		Handle(view.AdminDashboard, s.adminDashboard).
		Handle(view.UserManagement, s.userManagement).
		Handle(view.CourseManagement, s.courseManagement).
		Handle(view.AdminSettings, s.adminSettings)
	return s
}

// Render builds the current screen of clientID. It fails with
// util.ErrSessionPending while the session resolves, util.ErrSignedOut
// for signed-out clients and util.ErrStaleView when the client navigated
// away (or switched language) before the render finished.
func (s *ScreenService) Render(ctx context.Context, clientID string) (*Screen, error) {
	st, err := s.machine.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	switch {
	case st.Phase == state.PhaseLoading:
		return nil, util.ErrSessionPending
	case !st.SignedIn():
		return nil, util.ErrSignedOut
	}

	renderCtx, done := s.tracker.Begin(ctx, clientID)
	defer done()
	renderCtx, span := tracing.Tracer.Start(renderCtx, "screen.render")
	span.SetAttributes(
		attribute.String("view", string(st.CurrentView)),
		attribute.Int64("seq", int64(st.Seq)),
	)
	defer span.End()

	req := view.Request{User: *st.User, Lang: st.Language}
	rendered, err := s.router.Render(renderCtx, st.Views(), st.CurrentView, req)
	if err != nil {
		if renderCtx.Err() != nil && ctx.Err() == nil {
			monitoring.ScreenRenders.WithLabelValues(string(st.CurrentView), "stale").Inc()
			return nil, util.ErrStaleView
		}
		monitoring.ScreenRenders.WithLabelValues(string(st.CurrentView), "error").Inc()
		return nil, err
	}

	latest, err := s.machine.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if renderCtx.Err() != nil || latest.Seq != st.Seq || latest.Language != st.Language {
		monitoring.ScreenRenders.WithLabelValues(string(st.CurrentView), "stale").Inc()
		logger.Log.Debug("Dropping stale render",
			zap.String("clientId", clientID),
			zap.Uint64("seq", st.Seq),
			zap.Uint64("latestSeq", latest.Seq))
		return nil, util.ErrStaleView
	}

	monitoring.ScreenRenders.WithLabelValues(string(rendered.View), "ok").Inc()
	return &Screen{
		Seq:    st.Seq,
		View:   rendered.View,
		Screen: rendered.Screen,
		Header: s.header(st),
		Nav:    s.nav(st),
		Body:   rendered.Payload,
	}, nil
}

func (s *ScreenService) header(st state.AppState) Header {
	return Header{
		Title:          s.catalog.T(st.Language, string(st.CurrentView)),
		UserName:       st.User.Name,
		Role:           st.User.Role,
		AvatarURL:      st.User.AvatarURL,
		Language:       st.Language,
		LanguageToggle: st.Language.ToggleLabel(),
	}
}

func (s *ScreenService) nav(st state.AppState) Nav {
	set := st.Views()
	title := "app_name"
	if set.Name == view.AdminViews.Name {
		title = "admin_panel"
	}
	nav := Nav{
		Title:  s.catalog.T(st.Language, title),
		Items:  make([]NavItem, 0, len(set.Views)),
		Logout: s.catalog.T(st.Language, "logout"),
	}
	for _, id := range set.Views {
		nav.Items = append(nav.Items, NavItem{
			View:   id,
			Label:  s.catalog.T(st.Language, string(id)),
			Active: id == st.CurrentView,
		})
	}
	return nav
}

func (s *ScreenService) studentDashboard(ctx context.Context, req view.Request) (interface{}, error) {
	enrolled := s.fetchEnrollments(ctx, req.User.ID)
	t := s.translator(req.Lang)

	d := StudentDashboard{
		Greeting: s.catalog.T(req.Lang, "welcome_back", map[string]interface{}{"name": req.User.FirstName()}),
		Subtitle: t("learning_journey"),
		Stats: []StatCard{
			{Key: "courses_in_progress", Label: t("courses_in_progress"), Value: stats.CountInProgress(enrolled)},
			{Key: "completed_courses", Label: t("completed_courses"), Value: stats.CountCompleted(enrolled)},
			{Key: "total_enrolled", Label: t("total_enrolled"), Value: len(enrolled)},
		},
		ContinueLearningTitle: t("continue_learning"),
		CoursesTitle:          t("your_courses"),
		Courses:               []CourseCard{},
	}
	if first, ok := stats.FindFirstInProgress(enrolled); ok {
		card := s.enrolledCard(req.Lang, first)
		d.ContinueLearning = &card
	}
	for i, e := range enrolled {
		if i == dashboardCourseLimit {
			break
		}
		d.Courses = append(d.Courses, s.enrolledCard(req.Lang, e))
	}
	if len(enrolled) == 0 {
		d.EmptyText = t("not_enrolled")
	}
	return d, nil
}

func (s *ScreenService) myLearning(ctx context.Context, req view.Request) (interface{}, error) {
	enrolled := s.fetchEnrollments(ctx, req.User.ID)
	t := s.translator(req.Lang)

	l := CourseList{Title: t("my_learning"), Courses: make([]CourseCard, 0, len(enrolled))}
	for _, e := range enrolled {
		l.Courses = append(l.Courses, s.enrolledCard(req.Lang, e))
	}
	if len(enrolled) == 0 {
		l.EmptyText = t("no_courses_yet")
		l.EmptyHint = t("start_learning_prompt")
	}
	return l, nil
}

func (s *ScreenService) browseCourses(ctx context.Context, req view.Request) (interface{}, error) {
	courses := s.fetchCourses(ctx)
	l := CourseList{Title: s.catalog.T(req.Lang, "browse"), Courses: make([]CourseCard, 0, len(courses))}
	for _, c := range courses {
		card := s.courseCard(req.Lang, c)
		card.ActionLabel = s.catalog.T(req.Lang, "view_course")
		l.Courses = append(l.Courses, card)
	}
	return l, nil
}

func (s *ScreenService) settings(_ context.Context, req view.Request) (interface{}, error) {
	return Placeholder{
		Title: s.catalog.T(req.Lang, "settings"),
		Text:  s.catalog.T(req.Lang, "settings_tagline"),
	}, nil
}

func (s *ScreenService) adminDashboard(ctx context.Context, req view.Request) (interface{}, error) {
	users := s.fetchUsers(ctx)
	courses := s.fetchCourses(ctx)
	t := s.translator(req.Lang)

	return AdminDashboard{
		Greeting: t("admin_welcome"),
		Subtitle: t("admin_overview"),
		Stats: []StatCard{
			{Key: "total_users", Label: t("total_users"), Value: len(users)},
			{Key: "total_courses", Label: t("total_courses"), Value: len(courses)},
			{Key: "total_sales", Label: t("total_sales"), Value: "$" + stats.FormatCurrency(stats.SumCoursePrices(courses))},
		},
	}, nil
}

func (s *ScreenService) userManagement(ctx context.Context, req view.Request) (interface{}, error) {
	users := s.fetchUsers(ctx)
	table := Table[UserRow]{
		Title:   s.catalog.T(req.Lang, "all_users"),
		Columns: s.columns(req.Lang, "name", "email", "role", "status", "actions"),
		Rows:    make([]UserRow, 0, len(users)),
	}
	for _, u := range users {
		table.Rows = append(table.Rows, UserRow{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			AvatarURL: u.AvatarURL,
			Role:      u.Role,
			Status:    u.Status,
			Badge:     stats.StatusBadgeClass(u.Status),
			LastLogin: u.LastLogin,
		})
	}
	return table, nil
}

func (s *ScreenService) courseManagement(ctx context.Context, req view.Request) (interface{}, error) {
	courses := s.fetchCourses(ctx)
	table := Table[CourseRow]{
		Title:   s.catalog.T(req.Lang, "all_courses"),
		Columns: s.columns(req.Lang, "title", "instructor", "price", "status", "actions"),
		Rows:    make([]CourseRow, 0, len(courses)),
	}
	for _, c := range courses {
		table.Rows = append(table.Rows, CourseRow{
			ID:           c.ID,
			Title:        c.Title,
			Instructor:   c.Instructor,
			ThumbnailURL: c.ThumbnailURL,
			Price:        "$" + stats.FormatCurrency(c.Price),
			Status:       c.Status,
			Badge:        stats.StatusBadgeClass(c.Status),
		})
	}
	return table, nil
}

func (s *ScreenService) adminSettings(_ context.Context, req view.Request) (interface{}, error) {
	return Placeholder{
		Title: s.catalog.T(req.Lang, "admin_settings"),
		Text:  s.catalog.T(req.Lang, "admin_settings_intro"),
	}, nil
}

// CourseDetail returns a course with its lessons and, when the user is
// enrolled, their completion. Unpublished courses are only visible to
// admins and enrolled users.
func (s *ScreenService) CourseDetail(ctx context.Context, clientID, courseID string) (*CourseDetail, error) {
	st, err := s.machine.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	switch {
	case st.Phase == state.PhaseLoading:
		return nil, util.ErrSessionPending
	case !st.SignedIn():
		return nil, util.ErrSignedOut
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var enrollment *model.EnrolledCourse
	for _, e := range s.fetchEnrollments(ctx, st.User.ID) {
		if e.Course.ID == course.ID {
			e := e
			enrollment = &e
			break
		}
	}
	if course.Status != model.CoursePublished && st.User.Role != model.Admin && enrollment == nil {
		return nil, util.ErrCourseNotVisible
	}

	detail := &CourseDetail{Lessons: make([]LessonSummary, 0, len(course.Lessons))}
	completed := map[string]bool{}
	if enrollment != nil {
		detail.Card = s.enrolledCard(st.Language, *enrollment)
		for _, id := range enrollment.CompletedLessons {
			completed[id] = true
		}
	} else {
		detail.Card = s.courseCard(st.Language, *course)
	}
	if thumb, err := s.storage.ContentURL(ctx, course.ThumbnailURL); err == nil {
		detail.Card.ThumbnailURL = thumb
	}

	for _, l := range course.Lessons {
		contentURL, err := s.storage.ContentURL(ctx, l.Content)
		if err != nil {
			logger.Log.Warn("Failed to resolve lesson content",
				zap.String("courseId", course.ID),
				zap.String("lessonId", l.ID),
				zap.Error(err))
			contentURL = ""
		}
		detail.Lessons = append(detail.Lessons, LessonSummary{
			ID:              l.ID,
			Title:           l.Title,
			Type:            l.Type,
			DurationMinutes: l.DurationMinutes,
			ContentURL:      contentURL,
			Completed:       completed[l.ID],
		})
	}
	return detail, nil
}

func (s *ScreenService) courseCard(lang i18n.Language, c model.Course) CourseCard {
	minutes := stats.TotalDurationMinutes(c.Lessons)
	return CourseCard{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Category:        c.Category,
		Instructor:      c.Instructor,
		ByInstructor:    s.catalog.T(lang, "by_instructor", map[string]interface{}{"instructor": c.Instructor}),
		ThumbnailURL:    c.ThumbnailURL,
		LessonCount:     len(c.Lessons),
		LessonsLabel:    s.catalog.T(lang, "lessons"),
		DurationMinutes: minutes,
		Duration:        stats.FormatDuration(minutes),
		Price:           "$" + stats.FormatCurrency(c.Price),
		Status:          c.Status,
	}
}

func (s *ScreenService) enrolledCard(lang i18n.Language, e model.EnrolledCourse) CourseCard {
	card := s.courseCard(lang, e.Course)
	done, total := stats.LessonCompletion(e)
	card.Progress = &CardProgress{
		Label:            s.catalog.T(lang, "progress"),
		Progress:         e.Progress,
		Percent:          fmt.Sprintf("%d%%", e.Progress),
		LessonsCompleted: done,
		LessonsTotal:     total,
		Consistent:       stats.ProgressConsistent(e),
	}
	return card
}

func (s *ScreenService) columns(lang i18n.Language, keys ...string) []Column {
	cols := make([]Column, len(keys))
	for i, k := range keys {
		cols[i] = Column{Key: k, Label: s.catalog.T(lang, k)}
	}
	return cols
}

func (s *ScreenService) translator(lang i18n.Language) func(string) string {
	return func(key string) string { return s.catalog.T(lang, key) }
}

func (s *ScreenService) fetchEnrollments(ctx context.Context, uid string) []model.EnrolledCourse {
	enrolled, err := s.enrollments.ListForUser(ctx, uid)
	if err != nil {
		fetchFailed(ctx, repository.EnrollmentsCollection(uid), err)
		return []model.EnrolledCourse{}
	}
	return enrolled
}

func (s *ScreenService) fetchCourses(ctx context.Context) []model.Course {
	courses, err := s.courses.List(ctx)
	if err != nil {
		fetchFailed(ctx, repository.CoursesCollection, err)
		return []model.Course{}
	}
	return courses
}

func (s *ScreenService) fetchUsers(ctx context.Context) []model.User {
	users, err := s.users.List(ctx)
	if err != nil {
		fetchFailed(ctx, repository.UsersCollection, err)
		return []model.User{}
	}
	return users
}

// fetchFailed records a failed fetch. Fetches abandoned by cancellation
// are not failures.
func fetchFailed(ctx context.Context, collection string, err error) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return
	}
	label := collection
	if strings.HasPrefix(label, "enrollments/") {
		label = "enrollments"
	}
	monitoring.FetchFailures.WithLabelValues(label).Inc()
	logger.Log.Error("Failed to fetch collection, rendering empty",
		zap.String("collection", collection),
		zap.Error(err))
}
