package view

import (
	"context"
	"errors"
	"testing"

	"learnhub_portal/internal/i18n"
	"learnhub_portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryRoleHasExactlyOneSet(t *testing.T) {
	for _, r := range model.AllRoles {
		s, err := SetForRole(r)
		require.NoError(t, err, r)
		assert.True(t, s.Contains(s.Default), "default of %s must be a member", s.Name)
	}

	admin, _ := SetForRole(model.Admin)
	assert.Equal(t, AdminViews.Name, admin.Name)
	for _, r := range []model.UserRole{model.Instructor, model.Student} {
		s, _ := SetForRole(r)
		assert.Equal(t, StudentViews.Name, s.Name)
	}

	_, err := SetForRole(model.UserRole("guest"))
	assert.Error(t, err)
}

func TestSetsAreDisjoint(t *testing.T) {
	for _, id := range StudentViews.Views {
		assert.False(t, AdminViews.Contains(id), id)
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, MyLearning, StudentViews.Resolve(MyLearning))
	assert.Equal(t, Dashboard, StudentViews.Resolve(ID("nope")))
	assert.Equal(t, Dashboard, StudentViews.Resolve(UserManagement))
	assert.Equal(t, AdminDashboard, AdminViews.Resolve(Settings))
	assert.Equal(t, PaymentManagement, AdminViews.Resolve(PaymentManagement))
}

func TestSetByName(t *testing.T) {
	s, ok := SetByName("admin")
	assert.True(t, ok)
	assert.Equal(t, AdminViews.Default, s.Default)

	_, ok = SetByName("")
	assert.False(t, ok)
	assert.True(t, Set{}.IsZero())
}

func constant(v string) Screen {
	return func(context.Context, Request) (interface{}, error) { return v, nil }
}

func TestRouterRender(t *testing.T) {
	r := NewRouter().
		Handle(AdminDashboard, constant("admin home")).
		Handle(UserManagement, constant("users"))
	req := Request{User: model.User{ID: "u1", Role: model.Admin}, Lang: i18n.English}

	out, err := r.Render(context.Background(), AdminViews, UserManagement, req)
	require.NoError(t, err)
	assert.Equal(t, UserManagement, out.View)
	assert.Equal(t, "users", out.Payload)

	// member without a constructor
	out, err = r.Render(context.Background(), AdminViews, PaymentManagement, req)
	require.NoError(t, err)
	assert.Equal(t, PaymentManagement, out.View)
	assert.Equal(t, AdminDashboard, out.Screen)
	assert.Equal(t, "admin home", out.Payload)

	// foreign id
	out, err = r.Render(context.Background(), AdminViews, MyLearning, req)
	require.NoError(t, err)
	assert.Equal(t, AdminDashboard, out.View)
}

func TestRouterRenderErrors(t *testing.T) {
	_, err := NewRouter().Render(context.Background(), StudentViews, Dashboard, Request{})
	assert.Error(t, err)

	boom := errors.New("boom")
	r := NewRouter().Handle(Dashboard, func(context.Context, Request) (interface{}, error) { return nil, boom })
	_, err = r.Render(context.Background(), StudentViews, Dashboard, Request{})
	assert.ErrorIs(t, err, boom)
}
