package models

// Teacher is a supervisor that distributions and topics refer to.
type Teacher struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
}

// TeacherDraft is the in-place edit form of a teacher row.
type TeacherDraft struct {
	Name       string `json:"name" validate:"notblank"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// UpdateTeacherRequest is the body of PUT /user/update_teacher/{id}. The
// remote API names the display name full_name on writes.
type UpdateTeacherRequest struct {
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Position   string `json:"position"`
}
