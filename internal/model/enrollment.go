package model

// EnrolledCourse links the (implicit) querying user to a course.
// Progress is stored independently of CompletedLessons and the two
// are not reconciled here.
// swagger:model EnrolledCourse
type EnrolledCourse struct {
	Course           Course   `json:"course"`
	Progress         int      `json:"progress"`
	CompletedLessons []string `json:"completedLessons"`
}

// UnknownLessons returns completed lesson ids that do not exist in the
// referenced course.
func (e EnrolledCourse) UnknownLessons() []string {
	var unknown []string
	for _, id := range e.CompletedLessons {
		if !e.Course.HasLesson(id) {
			unknown = append(unknown, id)
		}
	}
	return unknown
}
