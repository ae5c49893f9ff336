package util

import "errors"

var (
	ErrSessionPending   = errors.New("session is still resolving")
	ErrSignedOut        = errors.New("client is not signed in")
	ErrStaleView        = errors.New("view changed while rendering")
	ErrCourseNotVisible = errors.New("course not visible")
	ErrInvalidClient    = errors.New("invalid client token")
)
