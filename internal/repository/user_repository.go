package repository

import (
	"context"
	"errors"
	"fmt"

	"learnhub_portal/internal/model"
)

const UsersCollection = "users"

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	Store DocumentStore
}

func NewUserRepository(store DocumentStore) *UserRepository {
	return &UserRepository{Store: store}
}

// FindByID returns the stored record of the identity uid.
func (r *UserRepository) FindByID(ctx context.Context, uid string) (*model.User, error) {
	doc, err := r.Store.Get(ctx, UsersCollection, uid)
	if errors.Is(err, ErrDocumentNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	user, err := decodeUser(doc)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", uid, err)
	}
	return &user, nil
}

// List returns all users in store order.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	docs, err := r.Store.FetchAll(ctx, UsersCollection)
	if err != nil {
		return nil, err
	}
	return decodeAll(UsersCollection, docs, decodeUser), nil
}

func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	return r.Store.Set(ctx, UsersCollection, user.ID, Document(user.Document()))
}
