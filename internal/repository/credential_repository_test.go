package repository

import (
	"context"
	"sync"
	"testing"

	"learnhub_portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCredentialRepository(t *testing.T) {
	r := NewMemoryCredentialRepository()
	ctx := context.Background()

	cred := &model.Credential{Email: " Ann@Example.com ", PasswordHash: "hash", Provider: "password"}
	require.NoError(t, r.Create(ctx, cred))
	assert.NotEmpty(t, cred.ID)
	assert.Equal(t, "ann@example.com", cred.Email)

	err := r.Create(ctx, &model.Credential{Email: "ANN@example.com"})
	assert.ErrorIs(t, err, ErrEmailRegistered)

	got, err := r.FindByEmail(ctx, "ann@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, cred.ID, got.ID)

	// results are copies
	got.DisplayName = "changed"
	again, err := r.FindByID(ctx, cred.ID)
	require.NoError(t, err)
	assert.Empty(t, again.DisplayName)

	again.Subject = "google:42"
	require.NoError(t, r.Update(ctx, again))
	linked, err := r.FindBySubject(ctx, "google:42")
	require.NoError(t, err)
	assert.Equal(t, cred.ID, linked.ID)

	_, err = r.FindBySubject(ctx, "")
	assert.ErrorIs(t, err, ErrCredentialNotFound)
	assert.ErrorIs(t, r.Update(ctx, &model.Credential{UUIDBase: model.UUIDBase{ID: "missing"}}), ErrCredentialNotFound)
}

func TestMemorySessionStore(t *testing.T) {
	s := NewMemorySessionStore()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "c1", "u1"))
	uid, ok, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "u1", uid)

	require.NoError(t, s.Delete(ctx, "c1"))
	_, ok, _ = s.Get(ctx, "c1")
	assert.False(t, ok)
}

func TestMemoryBusSkipsOwnInstance(t *testing.T) {
	bus := NewMemoryBus()
	a := bus.Broadcaster("a")
	b := bus.Broadcaster("b")
	ctx := context.Background()

	var mu sync.Mutex
	got := map[string][]string{}
	listen := func(instance string) func(string) {
		return func(clientID string) {
			mu.Lock()
			defer mu.Unlock()
			got[instance] = append(got[instance], clientID)
		}
	}
	stopA, err := a.Subscribe(ctx, listen("a"))
	require.NoError(t, err)
	stopB, err := b.Subscribe(ctx, listen("b"))
	require.NoError(t, err)

	require.NoError(t, a.Publish(ctx, "c1"))
	stopB()
	require.NoError(t, a.Publish(ctx, "c2"))
	require.NoError(t, b.Publish(ctx, "c3"))
	stopA()

	assert.Equal(t, []string{"c3"}, got["a"])
	assert.Equal(t, []string{"c1"}, got["b"])
}
