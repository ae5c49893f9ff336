package state

import (
	"context"
	"sync"
	"testing"

	"learnhub_portal/internal/i18n"
	"learnhub_portal/internal/model"
	"learnhub_portal/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	student = model.User{ID: "s1", Name: "Sadia Islam", Role: model.Student, Status: model.StatusActive}
	admin   = model.User{ID: "a1", Name: "Admin", Role: model.Admin, Status: model.StatusActive}
)

func reduceAll(t *testing.T, s AppState, actions ...Action) AppState {
	t.Helper()
	var err error
	for _, a := range actions {
		s, err = Reduce(s, a)
		require.NoError(t, err)
	}
	return s
}

func TestInitialIsLoading(t *testing.T) {
	s := Initial("c1", i18n.English)
	assert.Equal(t, PhaseLoading, s.Phase)
	assert.False(t, s.SignedIn())
	assert.True(t, s.Views().IsZero())
}

func TestSessionResolvedSelectsSetByRole(t *testing.T) {
	s := reduceAll(t, Initial("c1", i18n.English), SessionResolved{User: admin})
	assert.True(t, s.SignedIn())
	assert.Equal(t, view.AdminViews.Name, s.ViewSet)
	assert.Equal(t, view.AdminDashboard, s.CurrentView)

	instructor := student
	instructor.Role = model.Instructor
	s = reduceAll(t, Initial("c1", i18n.English), SessionResolved{User: instructor})
	assert.Equal(t, view.StudentViews.Name, s.ViewSet)
	assert.Equal(t, view.Dashboard, s.CurrentView)
}

func TestSessionResolvedUnknownRole(t *testing.T) {
	u := student
	u.Role = "guest"
	_, err := Reduce(Initial("c1", i18n.English), SessionResolved{User: u})
	assert.Error(t, err)
}

func TestNavigateStaysInsideSet(t *testing.T) {
	s := reduceAll(t, Initial("c1", i18n.English), SessionResolved{User: student})
	seq := s.Seq

	s = reduceAll(t, s, Navigate{View: view.MyLearning})
	assert.Equal(t, view.MyLearning, s.CurrentView)
	assert.Equal(t, seq+1, s.Seq)

	s = reduceAll(t, s, Navigate{View: view.UserManagement})
	assert.Equal(t, view.Dashboard, s.CurrentView)

	s = reduceAll(t, s, Navigate{View: view.Dashboard})
	assert.Equal(t, seq+2, s.Seq, "navigating to the current view is not a change")
}

func TestNavigateWhileSignedOutIsIgnored(t *testing.T) {
	s := reduceAll(t, Initial("c1", i18n.English), SessionCleared{}, Navigate{View: view.MyLearning})
	assert.Empty(t, s.CurrentView)
	assert.Equal(t, PhaseSignedOut, s.Phase)
}

func TestSessionClearedResets(t *testing.T) {
	s := reduceAll(t, Initial("c1", i18n.English),
		SessionResolved{User: student},
		Navigate{View: view.Settings},
		ShowAuthView{View: AuthRegister},
		SessionCleared{},
	)
	assert.Nil(t, s.User)
	assert.Empty(t, s.ViewSet)
	assert.Empty(t, s.CurrentView)
	assert.Equal(t, AuthLogin, s.AuthView)
}

func TestResolvingSameUserKeepsView(t *testing.T) {
	s := reduceAll(t, Initial("c1", i18n.English), SessionResolved{User: student}, Navigate{View: view.BrowseCourses})
	s = reduceAll(t, s, SessionPending{}, SessionResolved{User: student})
	assert.Equal(t, view.BrowseCourses, s.CurrentView)

	promoted := student
	promoted.Role = model.Admin
	s = reduceAll(t, s, SessionResolved{User: promoted})
	assert.Equal(t, view.AdminDashboard, s.CurrentView)
}

func TestToggleLanguageAndAuthView(t *testing.T) {
	s := reduceAll(t, Initial("c1", i18n.English), ToggleLanguage{})
	assert.Equal(t, i18n.Bengali, s.Language)
	s = reduceAll(t, s, ToggleLanguage{})
	assert.Equal(t, i18n.English, s.Language)

	s = reduceAll(t, s, ShowAuthView{View: AuthRegister})
	assert.Equal(t, AuthRegister, s.AuthView)

	_, err := Reduce(s, ShowAuthView{View: "forgot"})
	assert.Error(t, err)
}

func TestMachineDispatch(t *testing.T) {
	ctx := context.Background()
	lang := i18n.Bengali
	m := NewMachine(NewMemoryStore(), func() i18n.Language { return lang })

	s, err := m.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, i18n.Bengali, s.Language)
	assert.Equal(t, PhaseLoading, s.Phase)

	s, err = m.Dispatch(ctx, "c1", SessionResolved{User: student}, Navigate{View: view.MyLearning})
	require.NoError(t, err)
	assert.Equal(t, view.MyLearning, s.CurrentView)

	// failed dispatch stores nothing
	_, err = m.Dispatch(ctx, "c1", Navigate{View: view.Settings}, ShowAuthView{View: "bogus"})
	assert.Error(t, err)
	s, _ = m.Get(ctx, "c1")
	assert.Equal(t, view.MyLearning, s.CurrentView)

	require.NoError(t, m.Forget(ctx, "c1"))
	s, _ = m.Get(ctx, "c1")
	assert.Equal(t, PhaseLoading, s.Phase)
}

func TestMachineSerializesPerClient(t *testing.T) {
	ctx := context.Background()
	m := NewMachine(NewMemoryStore(), func() i18n.Language { return i18n.English })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Dispatch(ctx, "c1", ToggleLanguage{})
		}()
	}
	wg.Wait()

	s, err := m.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, i18n.English, s.Language, "an even number of toggles must cancel out")
	assert.Empty(t, m.locks)
}
