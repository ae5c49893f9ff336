package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"learnhub_portal/internal/model"

	"gorm.io/gorm"
)

var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrEmailRegistered    = errors.New("email already registered")
)

// CredentialStore is what the identity provider persists logins in.
type CredentialStore interface {
	FindByID(ctx context.Context, id string) (*model.Credential, error)
	FindByEmail(ctx context.Context, email string) (*model.Credential, error)
	FindBySubject(ctx context.Context, subject string) (*model.Credential, error)
	Create(ctx context.Context, cred *model.Credential) error
	Update(ctx context.Context, cred *model.Credential) error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type CredentialRepository struct {
	DB *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{DB: db}
}

func (r *CredentialRepository) FindByID(ctx context.Context, id string) (*model.Credential, error) {
	var cred model.Credential
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCredentialNotFound
	}
	return &cred, err
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*model.Credential, error) {
	var cred model.Credential
	err := r.DB.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCredentialNotFound
	}
	return &cred, err
}

func (r *CredentialRepository) FindBySubject(ctx context.Context, subject string) (*model.Credential, error) {
	var cred model.Credential
	err := r.DB.WithContext(ctx).Where("subject = ?", subject).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCredentialNotFound
	}
	return &cred, err
}

func (r *CredentialRepository) Create(ctx context.Context, cred *model.Credential) error {
	cred.Email = normalizeEmail(cred.Email)
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Credential{}).Where("email = ?", cred.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailRegistered
		}
		return tx.Create(cred).Error
	})
}

func (r *CredentialRepository) Update(ctx context.Context, cred *model.Credential) error {
	return r.DB.WithContext(ctx).Save(cred).Error
}

type MemoryCredentialRepository struct {
	mu    sync.RWMutex
	byID  map[string]*model.Credential
	order []string
}

func NewMemoryCredentialRepository() *MemoryCredentialRepository {
	return &MemoryCredentialRepository{byID: make(map[string]*model.Credential)}
}

func (r *MemoryCredentialRepository) find(match func(*model.Credential) bool) (*model.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if c := r.byID[id]; match(c) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrCredentialNotFound
}

func (r *MemoryCredentialRepository) FindByID(_ context.Context, id string) (*model.Credential, error) {
	return r.find(func(c *model.Credential) bool { return c.ID == id })
}

func (r *MemoryCredentialRepository) FindByEmail(_ context.Context, email string) (*model.Credential, error) {
	email = normalizeEmail(email)
	return r.find(func(c *model.Credential) bool { return c.Email == email })
}

func (r *MemoryCredentialRepository) FindBySubject(_ context.Context, subject string) (*model.Credential, error) {
	return r.find(func(c *model.Credential) bool { return c.Subject != "" && c.Subject == subject })
}

func (r *MemoryCredentialRepository) Create(_ context.Context, cred *model.Credential) error {
	cred.Email = normalizeEmail(cred.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Email == cred.Email {
			return ErrEmailRegistered
		}
	}
	if cred.ID == "" {
		cred.ID = model.NewID()
	}
	cp := *cred
	r.byID[cred.ID] = &cp
	r.order = append(r.order, cred.ID)
	return nil
}

func (r *MemoryCredentialRepository) Update(_ context.Context, cred *model.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[cred.ID]; !ok {
		return ErrCredentialNotFound
	}
	cp := *cred
	r.byID[cred.ID] = &cp
	return nil
}
