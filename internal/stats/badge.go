package stats

import "learnhub_portal/internal/model"

// Badge is the presentation category of a status label.
type Badge string

const (
	BadgeSuccess Badge = "success"
	BadgeWarning Badge = "warning"
	BadgeDanger  Badge = "danger"
	BadgeNeutral Badge = "neutral"
)

var userBadges = map[model.UserStatus]Badge{
	model.StatusActive:    BadgeSuccess,
	model.StatusPending:   BadgeWarning,
	model.StatusBlocked:   BadgeDanger,
	model.StatusSuspended: BadgeNeutral,
}

var courseBadges = map[model.CourseStatus]Badge{
	model.CoursePublished:   BadgeSuccess,
	model.CourseUnpublished: BadgeNeutral,
}

// StatusBadgeClass maps a user or course status to its badge. A value
// outside its own enumeration gets BadgeNeutral, even when it names a
// status of the other one.
func StatusBadgeClass[S model.UserStatus | model.CourseStatus](status S) Badge {
	var (
		b  Badge
		ok bool
	)
	switch v := any(status).(type) {
	case model.UserStatus:
		b, ok = userBadges[v]
	case model.CourseStatus:
		b, ok = courseBadges[v]
	}
	if !ok {
		return BadgeNeutral
	}
	return b
}
