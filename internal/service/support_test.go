package service

import (
	"context"
	"errors"
	"testing"

	"learnhub_portal/internal/config"
	"learnhub_portal/internal/identity"
	"learnhub_portal/internal/model"
	"learnhub_portal/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTracker(t *testing.T) {
	tr := NewRenderTracker()
	ctx1, done1 := tr.Begin(context.Background(), "c1")
	ctx2, done2 := tr.Begin(context.Background(), "c1")
	_, doneOther := tr.Begin(context.Background(), "c2")
	defer doneOther()

	assert.Equal(t, 2, tr.InFlight("c1"))
	done1()
	assert.Equal(t, 1, tr.InFlight("c1"))
	assert.Error(t, ctx1.Err(), "done cancels the render context")

	assert.Equal(t, 1, tr.Cancel("c1"))
	assert.ErrorIs(t, ctx2.Err(), context.Canceled)
	assert.Equal(t, 0, tr.InFlight("c1"))
	assert.Equal(t, 1, tr.InFlight("c2"))

	done2()
	assert.Equal(t, 0, tr.Cancel("c1"))
}

func TestContentURL(t *testing.T) {
	s := &StorageService{Provider: &LocalContentProvider{BaseURL: "/static/"}}
	ctx := context.Background()

	for ref, want := range map[string]string{
		"":                                 "",
		"#":                                "#",
		"https://cdn.example.com/a.mp4":    "https://cdn.example.com/a.mp4",
		"lessons/intro.mp4":                "/static/lessons/intro.mp4",
		"/lessons/hooks.pdf":               "/static/lessons/hooks.pdf",
		"https://picsum.photos/seed/x/1/1": "https://picsum.photos/seed/x/1/1",
	} {
		got, err := s.ContentURL(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, want, got, ref)
	}
}

func TestNewStorageServiceFallsBackToLocal(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Content = config.ContentLocal
	cfg.Storage.LocalBaseURL = "/files"

	s := NewStorageService(cfg)
	require.IsType(t, &LocalContentProvider{}, s.Provider)
	got, err := s.ContentURL(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/files/a.pdf", got)
}

func TestProvisionCreatesOnce(t *testing.T) {
	users := repository.NewUserRepository(repository.NewMemoryDocumentStore())
	p := NewUserProvisioner(users, func() string { return "boss@example.com" })
	ctx := context.Background()

	var created []string
	p.OnCreate(func(_ context.Context, u model.User) error {
		created = append(created, u.ID)
		return errors.New("hook failures are logged only")
	})

	require.NoError(t, p.Provision(ctx, identity.Identity{UID: "u1", Email: "a@example.com", Provider: identity.ProviderPassword}))
	u, err := users.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Google User", u.Name)
	assert.Equal(t, model.Student, u.Role)
	assert.Equal(t, model.StatusActive, u.Status)
	assert.Equal(t, "https://picsum.photos/seed/u1/100/100", u.AvatarURL)

	// an existing record is left alone
	u.Name = "Renamed"
	require.NoError(t, users.Save(ctx, u))
	require.NoError(t, p.Provision(ctx, identity.Identity{UID: "u1", DisplayName: "Other"}))
	u, err = users.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", u.Name)
	assert.Equal(t, []string{"u1"}, created)
}

func TestProvisionAdminByEmail(t *testing.T) {
	users := repository.NewUserRepository(repository.NewMemoryDocumentStore())
	p := NewUserProvisioner(users, func() string { return "boss@example.com" })
	ctx := context.Background()

	require.NoError(t, p.Provision(ctx, identity.Identity{
		UID:         "u2",
		Email:       " Boss@Example.com ",
		DisplayName: "The Boss",
		PhotoURL:    "https://img.example.com/boss.png",
	}))
	u, err := users.FindByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, model.Admin, u.Role)
	assert.Equal(t, "The Boss", u.Name)
	assert.Equal(t, "https://img.example.com/boss.png", u.AvatarURL)
}
