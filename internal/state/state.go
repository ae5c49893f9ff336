// Package state models what a single browser client is looking at:
// whether its session is still resolving, who is signed in, which view
// set and view are current and which language is selected. All changes
// go through Reduce.
package state

import (
	"fmt"

	"learnhub_portal/internal/i18n"
	"learnhub_portal/internal/model"
	"learnhub_portal/internal/view"
)

type Phase string

const (
	PhaseLoading   Phase = "loading"
	PhaseSignedOut Phase = "signed_out"
	PhaseSignedIn  Phase = "signed_in"
)

type AuthView string

const (
	AuthLogin    AuthView = "login"
	AuthRegister AuthView = "register"
)

// AppState is the per-client application state. Seq increases on every
// change of the signed-in user or the current view and is used to
// detect renders that were overtaken by navigation.
type AppState struct {
	ClientID    string        `json:"clientId"`
	Phase       Phase         `json:"phase"`
	AuthView    AuthView      `json:"authView"`
	Language    i18n.Language `json:"language"`
	User        *model.User   `json:"user,omitempty"`
	ViewSet     string        `json:"viewSet,omitempty"`
	CurrentView view.ID       `json:"currentView,omitempty"`
	Seq         uint64        `json:"seq"`
}

// Initial is the state of a client that has not heard from the identity
// provider yet.
func Initial(clientID string, lang i18n.Language) AppState {
	return AppState{
		ClientID: clientID,
		Phase:    PhaseLoading,
		AuthView: AuthLogin,
		Language: lang,
	}
}

func (s AppState) SignedIn() bool {
	return s.Phase == PhaseSignedIn && s.User != nil
}

// Views returns the current view set; the zero Set when signed out.
func (s AppState) Views() view.Set {
	set, _ := view.SetByName(s.ViewSet)
	return set
}

type Action interface {
	action()
}

type (
	// SessionPending marks that an identity is known but its user record
	// is still being looked up.
	SessionPending struct{}
	// SessionResolved adopts the stored user record.
	SessionResolved struct{ User model.User }
	// SessionCleared signs the client out.
	SessionCleared struct{}
	Navigate       struct{ View view.ID }
	ToggleLanguage struct{}
	ShowAuthView   struct{ View AuthView }
)

func (SessionPending) action()  {}
func (SessionResolved) action() {}
func (SessionCleared) action()  {}
func (Navigate) action()        {}
func (ToggleLanguage) action()  {}
func (ShowAuthView) action()    {}

// Reduce applies a to s and returns the next state. s is not modified.
func Reduce(s AppState, a Action) (AppState, error) {
	switch a := a.(type) {
	case SessionPending:
		s.Phase = PhaseLoading
		return s, nil

	case SessionResolved:
		set, err := view.SetForRole(a.User.Role)
		if err != nil {
			return s, err
		}
		sameUser := s.User != nil && s.User.ID == a.User.ID
		user := a.User
		s.User = &user
		s.Phase = PhaseSignedIn
		if !sameUser || s.ViewSet != set.Name {
			s.ViewSet = set.Name
			s.CurrentView = set.Default
			s.Seq++
		}
		return s, nil

	case SessionCleared:
		s.Phase = PhaseSignedOut
		if s.User != nil || s.ViewSet != "" {
			s.Seq++
		}
		s.User = nil
		s.ViewSet = ""
		s.CurrentView = ""
		s.AuthView = AuthLogin
		return s, nil

	case Navigate:
		if !s.SignedIn() {
			return s, nil
		}
		next := s.Views().Resolve(a.View)
		if next != s.CurrentView {
			s.CurrentView = next
			s.Seq++
		}
		return s, nil

	case ToggleLanguage:
		s.Language = s.Language.Toggle()
		return s, nil

	case ShowAuthView:
		switch a.View {
		case AuthLogin, AuthRegister:
			s.AuthView = a.View
			return s, nil
		}
		return s, fmt.Errorf("state: unknown auth view %q", a.View)
	}
	return s, fmt.Errorf("state: unknown action %T", a)
}
