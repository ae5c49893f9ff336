package service

import (
	"context"

	"learnhub_portal/internal/state"
	"learnhub_portal/internal/view"
)

// AppService applies the client-driven state transitions: navigation,
// language and the login/register switch.
type AppService struct {
	sessions  *SessionService
	machine   *state.Machine
	tracker   *RenderTracker
	publisher StatePublisher
}

func NewAppService(sessions *SessionService, machine *state.Machine, tracker *RenderTracker, publisher StatePublisher) *AppService {
	return &AppService{sessions: sessions, machine: machine, tracker: tracker, publisher: publisher}
}

// State attaches the client if needed and returns its state.
func (s *AppService) State(ctx context.Context, clientID string) (state.AppState, error) {
	return s.sessions.Attach(ctx, clientID)
}

// Navigate switches the current view. Views outside the client's set
// resolve to the set's default. Renders still running for the previous
// view are cancelled.
func (s *AppService) Navigate(ctx context.Context, clientID string, id view.ID) (state.AppState, error) {
	before, err := s.machine.Get(ctx, clientID)
	if err != nil {
		return state.AppState{}, err
	}
	after, err := s.machine.Dispatch(ctx, clientID, state.Navigate{View: id})
	if err != nil {
		return state.AppState{}, err
	}
	if after.Seq != before.Seq {
		s.tracker.Cancel(clientID)
	}
	s.publish(after)
	return after, nil
}

func (s *AppService) ToggleLanguage(ctx context.Context, clientID string) (state.AppState, error) {
	s.tracker.Cancel(clientID)
	st, err := s.machine.Dispatch(ctx, clientID, state.ToggleLanguage{})
	if err != nil {
		return state.AppState{}, err
	}
	s.publish(st)
	return st, nil
}

func (s *AppService) ShowAuthView(ctx context.Context, clientID string, v state.AuthView) (state.AppState, error) {
	st, err := s.machine.Dispatch(ctx, clientID, state.ShowAuthView{View: v})
	if err != nil {
		return state.AppState{}, err
	}
	s.publish(st)
	return st, nil
}

func (s *AppService) publish(st state.AppState) {
	if s.publisher != nil {
		s.publisher.PublishState(st.ClientID, st)
	}
}
