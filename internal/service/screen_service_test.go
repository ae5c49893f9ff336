package service

import (
	"context"
	"testing"

	"learnhub_portal/internal/i18n"
	"learnhub_portal/internal/model"
	"learnhub_portal/internal/repository"
	"learnhub_portal/internal/state"
	"learnhub_portal/internal/stats"
	"learnhub_portal/internal/util"
	"learnhub_portal/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRequiresSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.screens.Render(ctx, "c1")
	assert.ErrorIs(t, err, util.ErrSessionPending)

	_, err = f.machine.Dispatch(ctx, "c1", state.SessionCleared{})
	require.NoError(t, err)
	_, err = f.screens.Render(ctx, "c1")
	assert.ErrorIs(t, err, util.ErrSignedOut)
}

func TestStudentDashboard(t *testing.T) {
	f := newFixture(t)
	f.signInAs(t, "c1", "user-123")

	screen, err := f.screens.Render(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, view.Dashboard, screen.View)
	assert.Equal(t, "Dashboard", screen.Header.Title)
	assert.Equal(t, "Alex Johnson", screen.Header.UserName)
	assert.Equal(t, "BN", screen.Header.LanguageToggle)
	assert.Equal(t, "BK Academy", screen.Nav.Title)
	require.Len(t, screen.Nav.Items, len(view.StudentViews.Views))
	assert.True(t, screen.Nav.Items[0].Active)

	d, ok := screen.Body.(StudentDashboard)
	require.True(t, ok)
	assert.Equal(t, "Welcome back, Alex!", d.Greeting)
	require.Len(t, d.Stats, 3)
	assert.Equal(t, 2, d.Stats[0].Value)
	assert.Equal(t, 0, d.Stats[1].Value)
	assert.Equal(t, 3, d.Stats[2].Value)

	require.NotNil(t, d.ContinueLearning)
	assert.Equal(t, "course-1", d.ContinueLearning.ID)
	require.NotNil(t, d.ContinueLearning.Progress)
	assert.Equal(t, "75%", d.ContinueLearning.Progress.Percent)
	assert.Equal(t, 3, d.ContinueLearning.Progress.LessonsCompleted)
	assert.Equal(t, 4, d.ContinueLearning.Progress.LessonsTotal)
	assert.Equal(t, "1h 10m", d.ContinueLearning.Duration)
	assert.Equal(t, "By Jane Doe", d.ContinueLearning.ByInstructor)

	assert.Len(t, d.Courses, 3)
	assert.Empty(t, d.EmptyText)
}

func TestStudentDashboardWithoutEnrollments(t *testing.T) {
	f := newFixture(t)
	f.saveUser(t, model.User{ID: "new", Name: "New Student", Email: "new@example.com", Role: model.Student, Status: model.StatusActive})
	f.signInAs(t, "c1", "new")

	screen, err := f.screens.Render(context.Background(), "c1")
	require.NoError(t, err)
	d := screen.Body.(StudentDashboard)
	assert.Nil(t, d.ContinueLearning)
	assert.Empty(t, d.Courses)
	assert.Equal(t, "You are not enrolled in any courses yet.", d.EmptyText)
}

func TestMyLearningEmptyState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.saveUser(t, model.User{ID: "new", Name: "New Student", Role: model.Student, Status: model.StatusActive})
	f.signInAs(t, "c1", "new")
	_, err := f.app.Navigate(ctx, "c1", view.MyLearning)
	require.NoError(t, err)

	screen, err := f.screens.Render(ctx, "c1")
	require.NoError(t, err)
	l := screen.Body.(CourseList)
	assert.Equal(t, "My Learning", l.Title)
	assert.Empty(t, l.Courses)
	assert.Equal(t, "You have no courses yet.", l.EmptyText)
	assert.NotEmpty(t, l.EmptyHint)
}

func TestBrowseCoursesListsCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signInAs(t, "c1", "user-123")
	_, err := f.app.Navigate(ctx, "c1", view.BrowseCourses)
	require.NoError(t, err)

	screen, err := f.screens.Render(ctx, "c1")
	require.NoError(t, err)
	l := screen.Body.(CourseList)
	require.Len(t, l.Courses, 4)
	assert.Equal(t, "View Course", l.Courses[0].ActionLabel)
	assert.Equal(t, "$49.99", l.Courses[0].Price)
	assert.Nil(t, l.Courses[0].Progress)
}

func TestStudentCannotReachAdminViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signInAs(t, "c1", "user-123")

	st, err := f.app.Navigate(ctx, "c1", view.UserManagement)
	require.NoError(t, err)
	assert.Equal(t, view.Dashboard, st.CurrentView)

	screen, err := f.screens.Render(ctx, "c1")
	require.NoError(t, err)
	assert.IsType(t, StudentDashboard{}, screen.Body)
}

func TestAdminDashboard(t *testing.T) {
	f := newFixture(t)
	f.signInAs(t, "c1", "admin-001")

	screen, err := f.screens.Render(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, view.AdminDashboard, screen.View)
	assert.Equal(t, "Admin Panel", screen.Nav.Title)

	d := screen.Body.(AdminDashboard)
	require.Len(t, d.Stats, 3)
	assert.Equal(t, 6, d.Stats[0].Value)
	assert.Equal(t, 4, d.Stats[1].Value)
	assert.Equal(t, "$179.96", d.Stats[2].Value)
}

func TestUserManagementTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signInAs(t, "c1", "admin-001")
	_, err := f.app.Navigate(ctx, "c1", view.UserManagement)
	require.NoError(t, err)

	screen, err := f.screens.Render(ctx, "c1")
	require.NoError(t, err)
	table := screen.Body.(Table[UserRow])
	require.Len(t, table.Columns, 5)
	require.Len(t, table.Rows, 6)

	byID := map[string]UserRow{}
	for _, r := range table.Rows {
		byID[r.ID] = r
	}
	assert.Equal(t, stats.BadgeSuccess, byID["user-002"].Badge)
	assert.Equal(t, stats.BadgeWarning, byID["user-003"].Badge)
	assert.Equal(t, stats.BadgeDanger, byID["user-004"].Badge)
	assert.Equal(t, stats.BadgeNeutral, byID["user-005"].Badge)
	assert.NotNil(t, byID["user-002"].LastLogin)
}

func TestCourseManagementTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signInAs(t, "c1", "admin-001")
	_, err := f.app.Navigate(ctx, "c1", view.CourseManagement)
	require.NoError(t, err)

	screen, err := f.screens.Render(ctx, "c1")
	require.NoError(t, err)
	table := screen.Body.(Table[CourseRow])
	require.Len(t, table.Rows, 4)
	assert.Equal(t, "$29.99", table.Rows[2].Price)
	assert.Equal(t, model.CourseUnpublished, table.Rows[2].Status)
	assert.Equal(t, stats.BadgeNeutral, table.Rows[2].Badge)
}

func TestPaymentManagementFallsBackToDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signInAs(t, "c1", "admin-001")
	_, err := f.app.Navigate(ctx, "c1", view.PaymentManagement)
	require.NoError(t, err)

	screen, err := f.screens.Render(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, view.PaymentManagement, screen.View)
	assert.Equal(t, view.AdminDashboard, screen.Screen)
	assert.IsType(t, AdminDashboard{}, screen.Body)
	assert.Equal(t, "Payment Management", screen.Header.Title)
	for _, item := range screen.Nav.Items {
		assert.Equal(t, item.View == view.PaymentManagement, item.Active)
	}
}

func TestFetchFailureRendersEmpty(t *testing.T) {
	f := newFixture(t)
	f.signInAs(t, "c1", "admin-001")
	f.store.fail(repository.CoursesCollection)

	screen, err := f.screens.Render(context.Background(), "c1")
	require.NoError(t, err)
	d := screen.Body.(AdminDashboard)
	assert.Equal(t, 6, d.Stats[0].Value)
	assert.Equal(t, 0, d.Stats[1].Value)
	assert.Equal(t, "$0.00", d.Stats[2].Value)
	assert.Positive(t, f.store.failures)
}

func TestRenderInBengali(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signInAs(t, "c1", "user-123")
	_, err := f.app.ToggleLanguage(ctx, "c1")
	require.NoError(t, err)

	screen, err := f.screens.Render(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, i18n.Bengali, screen.Header.Language)
	assert.Equal(t, "EN", screen.Header.LanguageToggle)
	assert.Equal(t, f.catalog.T(i18n.Bengali, "dashboard"), screen.Header.Title)
}

func TestNavigationCancelsInFlightRender(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signInAs(t, "c1", "user-123")

	started := make(chan struct{})
	f.screens.router.Handle(view.Dashboard, func(ctx context.Context, req view.Request) (interface{}, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})

	errs := make(chan error, 1)
	go func() {
		_, err := f.screens.Render(ctx, "c1")
		errs <- err
	}()

	<-started
	assert.Equal(t, 1, f.tracker.InFlight("c1"))
	_, err := f.app.Navigate(ctx, "c1", view.MyLearning)
	require.NoError(t, err)

	assert.ErrorIs(t, <-errs, util.ErrStaleView)
	assert.Equal(t, 0, f.tracker.InFlight("c1"))
}

func TestRenderOvertakenBySeqChangeIsStale(t *testing.T) {
	f := newFixture(t)
	f.signInAs(t, "c1", "user-123")

	f.screens.router.Handle(view.Dashboard, func(ctx context.Context, req view.Request) (interface{}, error) {
		// navigation that did not go through the tracker
		_, err := f.machine.Dispatch(ctx, "c1", state.Navigate{View: view.Settings})
		return Placeholder{}, err
	})

	_, err := f.screens.Render(context.Background(), "c1")
	assert.ErrorIs(t, err, util.ErrStaleView)
}

func TestCourseDetail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signInAs(t, "c1", "user-123")

	detail, err := f.screens.CourseDetail(ctx, "c1", "course-1")
	require.NoError(t, err)
	require.NotNil(t, detail.Card.Progress)
	require.Len(t, detail.Lessons, 4)
	assert.True(t, detail.Lessons[0].Completed)
	assert.False(t, detail.Lessons[3].Completed)
	assert.Equal(t, "#", detail.Lessons[0].ContentURL)
	assert.Equal(t, "https://picsum.photos/seed/react/600/400", detail.Card.ThumbnailURL)
}

func TestUnpublishedCourseVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signInAs(t, "student", "user-123")
	_, err := f.screens.CourseDetail(ctx, "student", "course-3")
	assert.ErrorIs(t, err, util.ErrCourseNotVisible)

	f.signInAs(t, "admin", "admin-001")
	detail, err := f.screens.CourseDetail(ctx, "admin", "course-3")
	require.NoError(t, err)
	assert.Nil(t, detail.Card.Progress)
	assert.Len(t, detail.Lessons, 3)
}

func TestCourseDetailUnknownCourse(t *testing.T) {
	f := newFixture(t)
	f.signInAs(t, "c1", "user-123")

	_, err := f.screens.CourseDetail(context.Background(), "c1", "course-404")
	assert.ErrorIs(t, err, repository.ErrCourseNotFound)
}
