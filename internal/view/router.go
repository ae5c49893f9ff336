package view

import (
	"context"
	"fmt"

	"learnhub_portal/internal/i18n"
	"learnhub_portal/internal/model"
)

// Request carries what a screen constructor needs to build its payload.
type Request struct {
	User model.User
	Lang i18n.Language
}

// Screen builds the payload of one view.
type Screen func(ctx context.Context, req Request) (interface{}, error)

// Rendered is the outcome of routing: View is the current view as the
// client sees it, Screen the view whose constructor produced Payload.
type Rendered struct {
	View    ID          `json:"view"`
	Screen  ID          `json:"screen"`
	Payload interface{} `json:"payload"`
}

type Router struct {
	screens map[ID]Screen
}

func NewRouter() *Router {
	return &Router{screens: make(map[ID]Screen)}
}

// Handle registers the constructor of a view. Registering twice replaces.
func (r *Router) Handle(id ID, screen Screen) *Router {
	r.screens[id] = screen
	return r
}

func (r *Router) Has(id ID) bool {
	_, ok := r.screens[id]
	return ok
}

// Render resolves id within set and runs its constructor. A member of
// the set without a constructor falls back to the default screen but
// stays the current view.
func (r *Router) Render(ctx context.Context, set Set, id ID, req Request) (Rendered, error) {
	current := set.Resolve(id)

	target := current
	screen, ok := r.screens[target]
	if !ok {
		target = set.Default
		screen, ok = r.screens[target]
	}
	if !ok {
		return Rendered{}, fmt.Errorf("view: no screen registered for default view %q", set.Default)
	}

	payload, err := screen(ctx, req)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{View: current, Screen: target, Payload: payload}, nil
}
