package models

// Student is a learner account as listed by the remote API.
type Student struct {
	UserID    int64  `json:"user_id"`
	Login     string `json:"login"`
	FullName  string `json:"full_name"`
	GroupName string `json:"group_name"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at"`
}

// StudentList wraps GET /user/get_students.
type StudentList struct {
	Students []Student `json:"students"`
}

// StudentDraft is the in-place edit form of a student row.
type StudentDraft struct {
	FullName  string `json:"full_name" validate:"notblank"`
	GroupName string `json:"group_name" validate:"notblank"`
	Phone     string `json:"phone"`
}
