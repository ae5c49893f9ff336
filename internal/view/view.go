// Package view owns the role-gated navigation model: which screens a
// role may see, which one is shown by default, and how a requested
// view id is resolved against that set.
package view

import (
	"fmt"

	"learnhub_portal/internal/model"
)

type ID string

const (
	Dashboard     ID = "dashboard"
	MyLearning    ID = "my-learning"
	BrowseCourses ID = "browse-courses"
	Settings      ID = "settings"

	AdminDashboard    ID = "admin_dashboard"
	UserManagement    ID = "user_management"
	CourseManagement  ID = "course_management"
	PaymentManagement ID = "payment_management"
	AdminSettings     ID = "admin_settings"
)

// Set is a named group of views reachable from one navigation menu.
// Views keep menu order.
type Set struct {
	Name    string `json:"name"`
	Default ID     `json:"default"`
	Views   []ID   `json:"views"`
}

var (
	StudentViews = Set{
		Name:    "student",
		Default: Dashboard,
		Views:   []ID{Dashboard, MyLearning, BrowseCourses, Settings},
	}
	AdminViews = Set{
		Name:    "admin",
		Default: AdminDashboard,
		Views:   []ID{AdminDashboard, UserManagement, CourseManagement, PaymentManagement, AdminSettings},
	}
)

// Table maps every role to exactly one view set.
var Table = map[model.UserRole]Set{
	model.Admin:      AdminViews,
	model.Instructor: StudentViews,
	model.Student:    StudentViews,
}

func init() {
	for _, r := range model.AllRoles {
		if _, ok := Table[r]; !ok {
			panic(fmt.Sprintf("view: role %q has no view set", r))
		}
	}
}

// SetForRole returns the view set of role.
func SetForRole(role model.UserRole) (Set, error) {
	s, ok := Table[role]
	if !ok {
		return Set{}, fmt.Errorf("view: no view set for role %q", role)
	}
	return s, nil
}

// SetByName looks a set up by its name.
func SetByName(name string) (Set, bool) {
	switch name {
	case StudentViews.Name:
		return StudentViews, true
	case AdminViews.Name:
		return AdminViews, true
	}
	return Set{}, false
}

func (s Set) Contains(id ID) bool {
	for _, v := range s.Views {
		if v == id {
			return true
		}
	}
	return false
}

// Resolve returns id when it belongs to the set and the set's default
// otherwise. Unknown ids are never an error.
func (s Set) Resolve(id ID) ID {
	if s.Contains(id) {
		return id
	}
	return s.Default
}

func (s Set) IsZero() bool {
	return s.Name == ""
}
