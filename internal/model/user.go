package model

import (
	"fmt"
	"strings"
	"time"
)

type UserRole string

const (
	Admin      UserRole = "admin"
	Instructor UserRole = "instructor"
	Student    UserRole = "student"
)

// AllRoles lists every role in declaration order.
var AllRoles = []UserRole{Admin, Instructor, Student}

// ParseUserRole rejects anything outside the closed role set.
func ParseUserRole(s string) (UserRole, error) {
	for _, r := range AllRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown user role %q", s)
}

type UserStatus string

const (
	StatusActive    UserStatus = "Active"
	StatusPending   UserStatus = "Pending"
	StatusBlocked   UserStatus = "Blocked"
	StatusSuspended UserStatus = "Suspended"
)

var AllUserStatuses = []UserStatus{StatusActive, StatusPending, StatusBlocked, StatusSuspended}

func ParseUserStatus(s string) (UserStatus, error) {
	for _, st := range AllUserStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown user status %q", s)
}

// User is the application's own record for a signed-in identity,
// stored in the "users" collection under the identity's uid.
// swagger:model User
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      UserRole   `json:"role"`
	Status    UserStatus `json:"status"`
	AvatarURL string     `json:"avatarUrl,omitempty"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// FirstName returns the first whitespace separated part of the name.
func (u User) FirstName() string {
	if fields := strings.Fields(u.Name); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// Document converts the user into the shape persisted in the data store.
// The id is the document key and is not stored in the payload.
func (u User) Document() map[string]interface{} {
	doc := map[string]interface{}{
		"name":   u.Name,
		"email":  u.Email,
		"role":   string(u.Role),
		"status": string(u.Status),
	}
	if u.AvatarURL != "" {
		doc["avatarUrl"] = u.AvatarURL
	}
	if u.LastLogin != nil {
		doc["lastLogin"] = u.LastLogin.UTC().Format(time.RFC3339)
	}
	return doc
}
