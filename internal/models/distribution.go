package models

// DistributionStatus is the two-state lifecycle of a distribution.
type DistributionStatus string

const (
	DistributionActive DistributionStatus = "active"
	DistributionClosed DistributionStatus = "closed"
)

// Opposite returns the status a toggle moves to. Anything that is not
// active toggles to active.
func (s DistributionStatus) Opposite() DistributionStatus {
	if s == DistributionActive {
		return DistributionClosed
	}
	return DistributionActive
}

// WorkType classifies the kind of work a distribution or topic is for.
type WorkType string

const (
	WorkCoursework WorkType = "coursework"
	WorkBachelor   WorkType = "bachelor"
	WorkMaster     WorkType = "master"
	WorkOther      WorkType = "other"
)

// Distribution assigns a discipline and group to a teacher for one kind of
// work with a deadline. The remote API owns the record.
type Distribution struct {
	ID         int64              `json:"id"`
	Discipline string             `json:"discipline"`
	GroupName  string             `json:"group_name"`
	TeacherID  int64              `json:"teacher_id"`
	Type       WorkType           `json:"type"`
	Deadline   string             `json:"deadline"`
	Status     DistributionStatus `json:"status"`
}

// DistributionDraft is the creation form as typed by the operator.
type DistributionDraft struct {
	Discipline string `json:"discipline" validate:"notblank"`
	GroupName  string `json:"group_name" validate:"notblank"`
	TeacherID  string `json:"teacher_id" validate:"required"`
	Type       string `json:"type"`
	Deadline   string `json:"deadline" validate:"required"`
}

// NewDistributionDraft returns the form defaults.
func NewDistributionDraft() DistributionDraft {
	return DistributionDraft{Type: string(WorkCoursework)}
}

// CreateDistributionRequest is the body of POST /user/distributions.
type CreateDistributionRequest struct {
	Discipline string   `json:"discipline"`
	GroupName  string   `json:"group_name"`
	TeacherID  int64    `json:"teacher_id"`
	Type       WorkType `json:"type"`
	Deadline   string   `json:"deadline"`
}

// UpdateDistributionStatusRequest is the body of
// PATCH /user/distributions/{id}/status.
type UpdateDistributionStatusRequest struct {
	Status DistributionStatus `json:"status"`
}
